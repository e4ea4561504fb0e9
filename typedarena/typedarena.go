// Package typedarena provides a paged, index-addressed object arena.
//
// Storage grows in pages of a fixed element count; pages are never
// relocated or freed individually, so a pointer returned by Alloc
// stays valid for the life of the arena. Retired indices go through a
// LIFO recycler and are reused before the watermark advances. The
// arena manages storage slots only, never the lifetime of the values
// stored in them.
//
// Not safe for concurrent use.
package typedarena

import (
	"errors"

	"github.com/qvntm/arenakit/freelist"
)

// ErrIndexOutOfRange is returned by At for indices at or beyond the
// watermark (indices never issued by Alloc).
var ErrIndexOutOfRange = errors.New("typedarena: index out of range")

// DefaultPageElems is used when New is called with a non-positive
// elements-per-page count.
const DefaultPageElems = 1024

// Arena is a typed paged arena. Every index is in exactly one of three
// states: unissued (>= watermark), live (held by the caller), or free
// (in the recycler). A global index i maps to page i/pageElems, offset
// i%pageElems.
type Arena[T any] struct {
	pages     [][]T
	free      freelist.List[int]
	next      int // watermark: next never-issued index
	pageElems int
}

// Stats is a point-in-time snapshot, consumed by memmetrics.
type Stats struct {
	Watermark int
	Free      int
	Pages     int
	PageElems int
}

// New creates an arena whose pages hold pageElems elements each. A
// non-positive count selects DefaultPageElems.
func New[T any](pageElems int) *Arena[T] {
	if pageElems <= 0 {
		pageElems = DefaultPageElems
	}
	return &Arena[T]{pageElems: pageElems}
}

// Alloc returns a slot pointer and its global index. A recycled index
// is reused first (LIFO); otherwise the watermark index is issued,
// opening a new page when it crosses a page boundary. The slot
// contents are whatever the previous occupant left behind; the caller
// owns construction and destruction of the value.
func (a *Arena[T]) Alloc() (*T, int) {
	if idx, ok := a.free.Pop(); ok {
		return a.addr(idx), idx
	}

	idx := a.next
	if page := idx / a.pageElems; page == len(a.pages) {
		a.pages = append(a.pages, make([]T, a.pageElems))
	}
	a.next++
	return a.addr(idx), idx
}

// Free returns idx to the recycler. No validation and no destruction
// is performed; the caller must already consider the slot dead and
// must not Free a live or unissued index.
func (a *Arena[T]) Free(idx int) {
	a.free.Push(idx)
}

// Get returns the slot pointer for idx without any validity check.
// O(1) page/offset arithmetic; idx must be below the watermark.
func (a *Arena[T]) Get(idx int) *T {
	return a.addr(idx)
}

// At is the bounds-checked variant of Get. It fails with
// ErrIndexOutOfRange when idx was never issued. It does not know
// whether the slot is live or free; that distinction belongs to the
// caller (see slotmap).
func (a *Arena[T]) At(idx int) (*T, error) {
	if idx < 0 || idx >= a.next {
		return nil, ErrIndexOutOfRange
	}
	return a.addr(idx), nil
}

// Len returns the watermark: the count of indices ever issued, not the
// number currently live.
func (a *Arena[T]) Len() int { return a.next }

// Pages returns the number of pages allocated so far.
func (a *Arena[T]) Pages() int { return len(a.pages) }

// Stats returns a snapshot of watermark, recycler depth and paging.
func (a *Arena[T]) Stats() Stats {
	return Stats{
		Watermark: a.next,
		Free:      a.free.Len(),
		Pages:     len(a.pages),
		PageElems: a.pageElems,
	}
}

func (a *Arena[T]) addr(idx int) *T {
	return &a.pages[idx/a.pageElems][idx%a.pageElems]
}
