package parser

import (
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestReadAll(t *testing.T) {
	tests := []struct {
		name  string
		file  string
		input string
		jsonl bool
		names []interface{}
	}{
		{
			name:  "Array",
			file:  "people.json",
			input: `[{"name": "Alice", "age": 30}, {"name": "Bob", "age": 25}]`,
			names: []interface{}{"Alice", "Bob"},
		},
		{
			name:  "Lines",
			file:  "people.jsonl",
			input: "{\"name\": \"Alice\"}\n{\"name\": \"Bob\"}",
			jsonl: true,
			names: []interface{}{"Alice", "Bob"},
		},
		{
			name:  "Lines With Blanks",
			file:  "blanks.jsonl",
			input: "{\"name\": \"Alice\"}\n\n{\"name\": \"Bob\"}\n",
			jsonl: true,
			names: []interface{}{"Alice", "Bob"},
		},
		{
			name:  "Single Object",
			file:  "one.json",
			input: `{"name": "Alice", "age": 30}`,
			names: []interface{}{"Alice"},
		},
		{
			name:  "Concatenated Objects",
			file:  "concat.json",
			input: `{"name": "Alice"}{"name": "Bob"}`,
			names: []interface{}{"Alice", "Bob"},
		},
		{
			name:  "Empty File",
			file:  "empty.json",
			input: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := NewParser(writeFile(t, tt.file, tt.input))
			require.NoError(t, err)
			defer p.Close()

			records, err := p.ReadAll()
			require.NoError(t, err)
			require.Equal(t, tt.jsonl, p.IsJSONL())

			var names []interface{}
			for _, r := range records {
				names = append(names, r["name"])
			}
			require.Equal(t, tt.names, names)
		})
	}
}

func TestReadNested(t *testing.T) {
	p, err := NewParser(`[
		{"name": "Alice", "info": {"city": "New York", "hobbies": ["reading", "cycling"]}},
		{"name": "Bob", "info": {"city": "London", "hobbies": ["drawing"]}}
	]`)
	require.NoError(t, err)
	defer p.Close()

	records, err := p.ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 2)

	info, ok := records[0]["info"].(map[string]interface{})
	require.True(t, ok, "info is %T", records[0]["info"])
	require.Equal(t, "New York", info["city"])
	require.Equal(t, []interface{}{"reading", "cycling"}, info["hobbies"])
}

func TestReadMalformed(t *testing.T) {
	inputs := map[string]string{
		"truncated.json":  `[{"name": "Alice", "age": 30}, {"name": "Bob", "age": 25`,
		"truncated.jsonl": "{\"name\": \"Alice\"}\n{\"name\": \"Bob\", \"age\": 25\n{\"name\": \"Charlie\"}",
	}
	for file, input := range inputs {
		t.Run(file, func(t *testing.T) {
			p, err := NewParser(writeFile(t, file, input))
			require.NoError(t, err)
			defer p.Close()

			_, err = p.ReadAll()
			require.Error(t, err)
		})
	}
}

func TestReadStreaming(t *testing.T) {
	inputs := map[string]string{
		"stream.jsonl": "{\"id\": 1}\n{\"id\": 2}\n{\"id\": 3}",
		"stream.json":  `[{"id": 1}, {"id": 2}, {"id": 3}]`,
	}
	for file, input := range inputs {
		t.Run(file, func(t *testing.T) {
			p, err := NewParser(writeFile(t, file, input))
			require.NoError(t, err)
			defer p.Close()

			var ids []interface{}
			for {
				rec, err := p.Read()
				if err == io.EOF {
					break
				}
				require.NoError(t, err)
				ids = append(ids, rec["id"])
			}
			require.Equal(t, []interface{}{float64(1), float64(2), float64(3)}, ids)
		})
	}
}

func TestInlineJSON(t *testing.T) {
	p, err := NewParser(`[{"name": "Alice"}, {"name": "Bob"}]`)
	require.NoError(t, err)
	defer p.Close()

	records, err := p.ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 2)
	require.False(t, p.IsJSONL())
}

func TestMissingFile(t *testing.T) {
	_, err := NewParser(filepath.Join(t.TempDir(), "absent.json"))
	require.Error(t, err)
}

func TestPeekDoesNotConsume(t *testing.T) {
	p := NewReader(io.NopCloser(strings.NewReader("{\"id\": 1}\n{\"id\": 2}")), true)
	defer p.Close()

	first, err := p.Peek()
	require.NoError(t, err)
	again, err := p.Peek()
	require.NoError(t, err)
	require.Equal(t, first, again)

	records, err := p.ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 2)
	require.Equal(t, float64(1), records[0]["id"])

	_, err = p.Peek()
	require.Equal(t, io.EOF, err)
}

func TestPeekEmptyArray(t *testing.T) {
	p, err := NewParser(`[]`)
	require.NoError(t, err)
	defer p.Close()

	_, err = p.Peek()
	require.Equal(t, io.EOF, err)
}

func TestIsInline(t *testing.T) {
	cases := map[string]bool{
		`{"a": 1}`:  true,
		`[1]`:       true,
		"data.json": false,
		"-":         false,
		"":          false,
	}
	for in, want := range cases {
		require.Equal(t, want, IsInline(in), "%q", in)
	}
}
