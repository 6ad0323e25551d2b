package wrap

import (
	"fmt"

	"github.com/rs/zerolog"

	"github.com/bisegni/rowkit/pkg/cursor"
)

// Tracer forwards every call to a base cursor and reports each call to a
// sink twice: once before delegating and once with the result.
type Tracer struct {
	base cursor.Cursor
	sink func(string)
}

// Trace wraps c so that each call is written to sink.
func Trace(c cursor.Cursor, sink func(string)) *Tracer {
	return &Tracer{base: c, sink: sink}
}

// TraceLogger returns a sink writing each line to logger at debug level.
func TraceLogger(logger zerolog.Logger) func(string) {
	return func(line string) {
		logger.Debug().Msg(line)
	}
}

func (t *Tracer) enter(call string, args ...any) string {
	line := call + "("
	for i, a := range args {
		if i > 0 {
			line += ", "
		}
		line += fmt.Sprint(a)
	}
	line += ")"
	t.sink(line)
	return line
}

func (t *Tracer) leave(line string, result any, err error) {
	if err != nil {
		t.sink(fmt.Sprintf("%s => error: %v", line, err))
		return
	}
	t.sink(fmt.Sprintf("%s => %v", line, result))
}

func (t *Tracer) Underlying() cursor.Cursor { return t.base }

func (t *Tracer) FieldCount() int {
	line := t.enter("FieldCount")
	n := t.base.FieldCount()
	t.leave(line, n, nil)
	return n
}

func (t *Tracer) Value(i int) (any, error) {
	line := t.enter("Value", i)
	v, err := t.base.Value(i)
	t.leave(line, v, err)
	return v, err
}

func (t *Tracer) ValueByName(name string) (any, error) {
	line := t.enter("ValueByName", name)
	v, err := t.base.ValueByName(name)
	t.leave(line, v, err)
	return v, err
}

func (t *Tracer) Name(i int) (string, error) {
	line := t.enter("Name", i)
	v, err := t.base.Name(i)
	t.leave(line, v, err)
	return v, err
}

func (t *Tracer) Ordinal(name string) (int, error) {
	line := t.enter("Ordinal", name)
	v, err := t.base.Ordinal(name)
	t.leave(line, v, err)
	return v, err
}

func (t *Tracer) TypeTag(i int) (string, error) {
	line := t.enter("TypeTag", i)
	v, err := t.base.TypeTag(i)
	t.leave(line, v, err)
	return v, err
}

func (t *Tracer) DeclaredType(i int) (cursor.Kind, error) {
	line := t.enter("DeclaredType", i)
	v, err := t.base.DeclaredType(i)
	t.leave(line, v, err)
	return v, err
}

func (t *Tracer) Next() bool {
	line := t.enter("Next")
	ok := t.base.Next()
	t.leave(line, ok, nil)
	return ok
}

func (t *Tracer) NextResultSet() bool {
	line := t.enter("NextResultSet")
	ok := t.base.NextResultSet()
	t.leave(line, ok, nil)
	return ok
}

func (t *Tracer) Err() error {
	line := t.enter("Err")
	err := t.base.Err()
	t.leave(line, err, nil)
	return err
}

func (t *Tracer) Close() error {
	line := t.enter("Close")
	err := t.base.Close()
	t.leave(line, err, nil)
	return err
}

var _ cursor.Wrapper[cursor.Cursor] = (*Tracer)(nil)
