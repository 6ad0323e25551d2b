package wrap

import (
	"github.com/bisegni/rowkit/pkg/cursor"
	"github.com/bisegni/rowkit/pkg/sequence"
)

// Injector runs a caller supplied action after every row read from a base
// cursor. The actions handle yields one func(T) per result set.
type Injector[T cursor.Cursor] struct {
	cursor.Cursor
	base    T
	actions sequence.Handle
	active  func(T)
}

// Inject wraps c with the actions yielded by actions. The first action is
// selected immediately and each NextResultSet steps to the following one.
// Once actions is exhausted no action runs.
func Inject[T cursor.Cursor](c T, actions sequence.Handle) *Injector[T] {
	in := &Injector[T]{Cursor: c, base: c, actions: actions}
	in.step()
	return in
}

// InjectEach runs action after every row of every result set.
func InjectEach[T cursor.Cursor](c T, action func(T)) *Injector[T] {
	return Inject(c, sequence.Repeat(action))
}

func (in *Injector[T]) step() {
	in.active = nil
	if !in.actions.Next() {
		return
	}
	if fn, ok := in.actions.Current().(func(T)); ok {
		in.active = fn
	}
}

func (in *Injector[T]) Underlying() T { return in.base }

func (in *Injector[T]) Next() bool {
	if !in.base.Next() {
		return false
	}
	if in.active != nil {
		in.active(in.base)
	}
	return true
}

func (in *Injector[T]) NextResultSet() bool {
	in.step()
	return in.base.NextResultSet()
}

var _ cursor.Wrapper[cursor.Cursor] = (*Injector[cursor.Cursor])(nil)
