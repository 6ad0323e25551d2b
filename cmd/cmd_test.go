package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/require"
)

func writeInput(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

// run executes the root command and restores the flag defaults afterwards.
func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Cleanup(func() {
		reset := func(f *pflag.Flag) {
			if sv, ok := f.Value.(pflag.SliceValue); ok {
				sv.Replace(nil)
			} else {
				f.Value.Set(f.DefValue)
			}
			f.Changed = false
		}
		rootCmd.PersistentFlags().VisitAll(reset)
		rootCmd.Flags().VisitAll(reset)
		rootCmd.SetArgs(nil)
		rootCmd.SetOut(nil)
	})

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func TestRootRunsQueryOverEveryInput(t *testing.T) {
	people := writeInput(t, "people.json", `[{"name": "Alice", "age": 30}, {"name": "Bob", "age": 17}]`)
	more := writeInput(t, "more.jsonl", "{\"name\": \"Carol\", \"age\": 41}\n")

	out, err := run(t, people, more,
		"-q", "SELECT UPPER(name) AS name WHERE age >= 18",
		"--extend", "adult=CONCAT(name, '!')",
		"--row-number", "n")
	require.NoError(t, err)
	require.Equal(t,
		"{\"name\":\"ALICE\",\"adult\":\"ALICE!\",\"n\":1}\n"+
			"{\"name\":\"CAROL\",\"adult\":\"CAROL!\",\"n\":1}\n",
		out)
}

func TestRootExplain(t *testing.T) {
	people := writeInput(t, "people.json", `[]`)

	out, err := run(t, people, "-q", "SELECT name", "--explain")
	require.NoError(t, err)
	require.Equal(t,
		"└─ Project(drop: _row)\n"+
			"   └─ Scan(tables: "+people+"; columns: name, _row)\n",
		out)
}

func TestRootRejectsBadInput(t *testing.T) {
	people := writeInput(t, "people.json", `[{"name": "Alice"}]`)

	_, err := run(t, people, "-q", "SELECT a WHERE")
	require.Error(t, err)
	_, err = run(t, people, "--extend", "broken")
	require.Error(t, err)
}

func TestInlineInput(t *testing.T) {
	out, err := run(t, `{"a": 1, "b": "x"}`, "-q", "SELECT b, a")
	require.NoError(t, err)
	require.Equal(t, "{\"b\":\"x\",\"a\":1}\n", out)
}

func TestValidateQuery(t *testing.T) {
	out, err := run(t, "validate", "-q", "select a where b>1")
	require.NoError(t, err)
	require.Contains(t, out, "query: SELECT a WHERE b > 1")
}

func TestSchema(t *testing.T) {
	data := writeInput(t, "data.jsonl", "{\"name\": \"Alice\", \"age\": 30, \"tags\": null}\n{\"name\": \"Bob\"}\n")

	out, err := run(t, "schema", data)
	require.NoError(t, err)
	require.Contains(t, out, "Format: JSONL\n")
	require.Contains(t, out, "Total records: 2\n")
	require.Contains(t, out, "  age   float64  float\n")
	require.Contains(t, out, "  name  string   nvarchar(max)\n")
	require.Contains(t, out, "  tags  any      sql_variant\n")
}

func TestCatalogKeepsRepeatedInputs(t *testing.T) {
	tables := catalogOf([]string{"x.json", "x.json", "-", "-"}).Tables()

	var names []string
	for _, table := range tables {
		names = append(names, table.Name())
	}
	require.Equal(t, []string{"x.json", "x.json#2", "stdin", "stdin#4"}, names)
}

func TestRootRepeatedInputYieldsOneResultSetEach(t *testing.T) {
	data := writeInput(t, "data.json", `[{"id": 1}]`)

	out, err := run(t, data, data, "-q", "SELECT id", "--row-number", "n")
	require.NoError(t, err)
	require.Equal(t, "{\"id\":1,\"n\":1}\n{\"id\":1,\"n\":1}\n", out)
}
