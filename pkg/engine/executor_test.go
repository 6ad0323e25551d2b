package engine

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/bisegni/rowkit/pkg/composite"
	"github.com/bisegni/rowkit/pkg/cursor"
	"github.com/bisegni/rowkit/pkg/database"
	log "github.com/bisegni/rowkit/pkg/logging"
	"github.com/bisegni/rowkit/pkg/parser"
	"github.com/bisegni/rowkit/pkg/plan"
	"github.com/bisegni/rowkit/pkg/planner"
	"github.com/bisegni/rowkit/pkg/query"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func users() database.Table {
	return database.NewMemoryTable("users", []parser.Record{
		{"name": "Alice", "age": float64(20)},
		{"name": "Bob", "age": float64(30)},
		{"name": "Carol", "age": float64(40)},
	})
}

func mustPlan(t *testing.T, sql string, tables ...database.Table) plan.Node {
	t.Helper()
	q, err := query.ParseQuery(sql)
	require.NoError(t, err)
	node, err := planner.CreatePlan(q, tables, planner.Options{})
	require.NoError(t, err)
	return node
}

// captureLogs routes the global logger into a buffer for the test.
func captureLogs(t *testing.T, level zerolog.Level) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	log.SetGlobalLogger(zerolog.New(&buf).Level(level))
	t.Cleanup(func() { log.SetGlobalLogger(zerolog.Nop()) })
	return &buf
}

func TestExecutorFilter(t *testing.T) {
	var out bytes.Buffer
	stats, err := NewExecutor().Execute(mustPlan(t, "SELECT name WHERE age > 25", users()), &out)
	require.NoError(t, err)

	require.Equal(t, "{\"name\":\"Bob\"}\n{\"name\":\"Carol\"}\n", out.String())
	require.Equal(t, Stats{Rows: 2, ResultSets: 1}, stats)
}

func TestExecutorAllResultSets(t *testing.T) {
	other := database.NewMemoryTable("other", []parser.Record{{"name": "Dave", "age": float64(50)}})

	var out bytes.Buffer
	stats, err := NewExecutor().Execute(mustPlan(t, "SELECT name, age", users(), other), &out)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, 4)
	require.Equal(t, `{"name":"Dave","age":50}`, lines[3])
	require.Equal(t, Stats{Rows: 4, ResultSets: 2}, stats)
}

func TestExecutorPretty(t *testing.T) {
	executor := NewExecutor()
	executor.Pretty = true

	var out bytes.Buffer
	_, err := executor.Execute(mustPlan(t, "SELECT name WHERE age = 20", users()), &out)
	require.NoError(t, err)
	require.Equal(t, "{\n  \"name\": \"Alice\"\n}\n", out.String())
}

func TestExecutorDBNulls(t *testing.T) {
	c := composite.New()
	c.SetConstant("a", nil, "int", cursor.KindInt64)
	c.SetConstant("b", 1, "int", cursor.KindInt64)

	executor := NewExecutor()
	executor.DBNulls = true

	// a constants-only cursor never ends, so stop after one row
	var out bytes.Buffer
	_, err := executor.Drain(&limit{Cursor: c, rows: 1}, &out)
	require.NoError(t, err)
	require.Equal(t, "{\"a\":null,\"b\":1}\n", out.String())
}

func TestExecutorProgress(t *testing.T) {
	logs := captureLogs(t, zerolog.InfoLevel)

	executor := NewExecutor()
	executor.Progress = 2

	var out bytes.Buffer
	stats, err := executor.Execute(mustPlan(t, "SELECT name", users(), users()), &out)
	require.NoError(t, err)
	require.Equal(t, 6, stats.Rows)

	lines := strings.Split(strings.TrimSpace(logs.String()), "\n")
	require.Len(t, lines, 2)
	require.Contains(t, lines[0], `"result_set":1`)
	require.Contains(t, lines[0], `"rows":"2"`)
	require.Contains(t, lines[1], `"result_set":2`)
}

func TestExecutorTrace(t *testing.T) {
	logs := captureLogs(t, zerolog.DebugLevel)

	executor := NewExecutor()
	executor.Trace = true

	var out bytes.Buffer
	_, err := executor.Execute(mustPlan(t, "SELECT name WHERE age = 40", users()), &out)
	require.NoError(t, err)

	require.Contains(t, logs.String(), "Next() => true")
	require.Contains(t, logs.String(), "Next() => false")
	require.Contains(t, logs.String(), "Value(0) => Carol")
	require.Contains(t, logs.String(), "Close() => <nil>")
}

func TestExecutorMalformedInput(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.json")
	require.NoError(t, os.WriteFile(path, []byte(`[{"id": 1}, {"id": `), 0644))

	var out bytes.Buffer
	_, err := NewExecutor().Execute(mustPlan(t, "SELECT id", database.NewJSONTable("bad", path)), &out)
	require.Error(t, err)
	require.Equal(t, "{\"id\":1}\n", out.String())
}

type limit struct {
	cursor.Cursor
	rows int
}

func (l *limit) Next() bool {
	if l.rows == 0 {
		return false
	}
	l.rows--
	return l.Cursor.Next()
}
