// Package arena provides fixed-capacity bump allocation and a paged
// arena that grows by chaining bump arenas without ever moving
// previously returned memory.
//
// None of the types in this package are safe for concurrent use.
// Callers needing concurrency must wrap access in their own locking.
package arena

import (
	"errors"
	"unsafe"
)

// ErrAllocationFailed is returned when a request cannot be satisfied:
// the remaining capacity of a bump arena (after alignment padding) is
// too small, or a paged arena receives a request larger than one page.
var ErrAllocationFailed = errors.New("arena: allocation failed")

// DefaultCapacity is used when New is called with a non-positive size.
const DefaultCapacity = 64 * 1024

// DefaultAlign is the alignment applied when Alloc is called with a
// non-positive alignment. Matches the largest alignment the Go runtime
// guarantees for heap blocks.
const DefaultAlign = 8

// Arena is a fixed-size bump allocator. Allocation advances a cursor
// through a single backing buffer; there is no per-allocation free.
// Reset rewinds the cursor, after which every previously returned
// slice is logically invalid and must not be touched.
type Arena struct {
	buf []byte
	off int
}

// New creates an Arena with the given byte capacity. A non-positive
// capacity selects DefaultCapacity.
func New(capacity int) *Arena {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Arena{buf: make([]byte, capacity)}
}

// Alloc reserves size bytes aligned to align (<=0 means DefaultAlign)
// and returns them as a sub-slice of the backing buffer. The slice
// contents are zero on first use of the underlying region but DIRTY
// after a Reset. Returns ErrAllocationFailed when the remaining
// capacity, including alignment padding, is insufficient, or when
// align is not a power of two.
func (a *Arena) Alloc(size, align int) ([]byte, error) {
	if size < 0 {
		return nil, ErrAllocationFailed
	}
	if align <= 0 {
		align = DefaultAlign
	}
	if align&(align-1) != 0 {
		return nil, ErrAllocationFailed
	}

	// Padding must be computed against the real address, not the
	// offset: the buffer base is only guaranteed 8-byte aligned.
	cur := uintptr(unsafe.Pointer(&a.buf[0])) + uintptr(a.off)
	pad := int(-cur & uintptr(align-1))

	start := a.off + pad
	if start+size > len(a.buf) || start+size < start {
		return nil, ErrAllocationFailed
	}
	a.off = start + size
	return a.buf[start:a.off:a.off], nil
}

// Reset rewinds the cursor to the start of the buffer. It always
// succeeds. All slices returned by earlier Alloc calls become invalid;
// the bytes still exist but will be handed out again.
func (a *Arena) Reset() {
	a.off = 0
}

// Base returns the backing buffer. The first byte of the first
// post-Reset allocation aliases Base()[0]. Used by tests and by
// callers that need the raw region; writing through it bypasses the
// cursor and is the caller's responsibility.
func (a *Arena) Base() []byte {
	return a.buf
}

// Cap returns the fixed byte capacity.
func (a *Arena) Cap() int { return len(a.buf) }

// Used returns the current cursor offset, including alignment padding.
func (a *Arena) Used() int { return a.off }

// Remaining returns the bytes left before the arena is exhausted,
// ignoring any padding a future aligned request may need.
func (a *Arena) Remaining() int { return len(a.buf) - a.off }
