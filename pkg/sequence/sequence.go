// Package sequence provides the forward-only handles that back cursor columns.
//
// A Handle is a stateful iteration position: Next moves it forward and
// Current returns the element it points at. A Source is reusable and can be
// asked for a fresh Handle; every Source carries an explicit SourceID so that
// callers binding the same Source twice can share one Handle.
package sequence

import (
	"iter"
	"sync/atomic"
)

// Handle is a forward-only position over a sequence.
//
// Handles may additionally implement io.Closer when they hold resources and
// an Err() error method when advancing can fail.
type Handle interface {
	Next() bool
	Current() any
}

// SourceID identifies a reusable Source.
type SourceID uint64

var lastSourceID atomic.Uint64

// NewSourceID allocates a process-unique SourceID.
func NewSourceID() SourceID {
	return SourceID(lastSourceID.Add(1))
}

// Source produces fresh handles over the same data.
type Source interface {
	ID() SourceID
	Open() Handle
}

// Slice is a Source over an in-memory slice.
type Slice[T any] struct {
	id    SourceID
	items []T
}

// FromSlice returns a reusable Source over items.
func FromSlice[T any](items []T) *Slice[T] {
	return &Slice[T]{id: NewSourceID(), items: items}
}

func (s *Slice[T]) ID() SourceID { return s.id }

func (s *Slice[T]) Open() Handle {
	return &sliceHandle[T]{items: s.items, pos: -1}
}

// Len returns the number of items in the slice.
func (s *Slice[T]) Len() int { return len(s.items) }

type sliceHandle[T any] struct {
	items []T
	pos   int
}

func (h *sliceHandle[T]) Next() bool {
	if h.pos >= len(h.items) {
		return false
	}
	h.pos++
	return h.pos < len(h.items)
}

func (h *sliceHandle[T]) Current() any {
	if h.pos < 0 || h.pos >= len(h.items) {
		return nil
	}
	return h.items[h.pos]
}

// Of returns a one-shot Handle over values.
func Of[T any](values ...T) Handle {
	return &sliceHandle[T]{items: values, pos: -1}
}

// Pull is a closable Handle over an iter.Seq.
type Pull[T any] struct {
	next    func() (T, bool)
	stop    func()
	current T
	done    bool
}

// FromSeq returns a Handle pulling from seq. Close releases the underlying
// iterator if it was not drained.
func FromSeq[T any](seq iter.Seq[T]) *Pull[T] {
	next, stop := iter.Pull(seq)
	return &Pull[T]{next: next, stop: stop}
}

// FromChan returns a Handle receiving from ch until it is closed.
func FromChan[T any](ch <-chan T) *Pull[T] {
	return FromSeq(func(yield func(T) bool) {
		for v := range ch {
			if !yield(v) {
				return
			}
		}
	})
}

func (p *Pull[T]) Next() bool {
	if p.done {
		return false
	}
	v, ok := p.next()
	if !ok {
		var zero T
		p.current = zero
		p.done = true
		return false
	}
	p.current = v
	return true
}

func (p *Pull[T]) Current() any { return p.current }

func (p *Pull[T]) Close() error {
	p.done = true
	p.stop()
	return nil
}

// Counter returns an unbounded Handle yielding start, start+1, ...
func Counter(start int64) Handle {
	return &counter{value: start - 1}
}

type counter struct {
	value int64
}

func (c *counter) Next() bool {
	c.value++
	return true
}

func (c *counter) Current() any { return c.value }

// Repeat returns an unbounded Handle that always yields v.
func Repeat[T any](v T) Handle {
	return &repeat[T]{value: v}
}

type repeat[T any] struct {
	value T
}

func (r *repeat[T]) Next() bool   { return true }
func (r *repeat[T]) Current() any { return r.value }

// Cycle returns an unbounded Handle that walks values and starts over at the end.
// A Cycle over no values is always exhausted.
func Cycle[T any](values ...T) Handle {
	return &cycle[T]{values: values, pos: -1}
}

type cycle[T any] struct {
	values []T
	pos    int
}

func (c *cycle[T]) Next() bool {
	if len(c.values) == 0 {
		return false
	}
	c.pos = (c.pos + 1) % len(c.values)
	return true
}

func (c *cycle[T]) Current() any {
	if c.pos < 0 {
		return nil
	}
	return c.values[c.pos]
}
