// Package arrowalloc adapts the paged bump arena to Apache Arrow's
// memory.Allocator interface, so record-batch construction can draw
// from arena pages instead of hitting the Go allocator per buffer.
//
// Free is a no-op: memory comes back in bulk via Release, which resets
// the underlying arena. The allocator is therefore suited to
// batch-scoped usage (build, ship, Release), not to long-lived buffers
// with individual lifetimes. Not safe for concurrent use.
package arrowalloc

import (
	"github.com/apache/arrow-go/v18/arrow/memory"

	"github.com/qvntm/arenakit/arena"
)

// Arrow kernels assume 64-byte buffer alignment for SIMD access.
const bufferAlign = 64

// DefaultPageBytes is the arena page size used by New when given a
// non-positive value.
const DefaultPageBytes = 1 * 1024 * 1024

// Allocator implements memory.Allocator on top of an arena.PagedArena.
// Requests larger than one page bypass the arena and go straight to
// the heap; they are tracked so Allocated stays accurate.
type Allocator struct {
	arena     *arena.PagedArena
	allocated int64
}

var _ memory.Allocator = (*Allocator)(nil)

// New creates an Allocator with the given arena page size in bytes.
func New(pageBytes int) *Allocator {
	if pageBytes <= 0 {
		pageBytes = DefaultPageBytes
	}
	return &Allocator{arena: arena.NewPaged(pageBytes)}
}

// Allocate returns a 64-byte aligned buffer of the requested size.
func (a *Allocator) Allocate(size int) []byte {
	if size == 0 {
		return nil
	}
	a.allocated += int64(size)

	b, err := a.arena.Alloc(size, bufferAlign)
	if err != nil {
		// Oversized for a page; the heap serves it directly.
		return make([]byte, size)
	}
	return b
}

// Reallocate resizes b by allocating fresh space and copying. The old
// buffer is abandoned in place (arena memory is reclaimed only by
// Release).
func (a *Allocator) Reallocate(size int, b []byte) []byte {
	if size == len(b) {
		return b
	}
	if size < len(b) {
		a.allocated -= int64(len(b) - size)
		return b[:size]
	}
	next := a.Allocate(size)
	a.allocated -= int64(len(b)) // drop the abandoned buffer's charge
	copy(next, b)
	return next
}

// Free releases nothing immediately; arena pages are reclaimed in bulk
// by Release. Accounting still runs so Allocated reflects live bytes.
func (a *Allocator) Free(b []byte) {
	a.allocated -= int64(len(b))
}

// Allocated returns the bytes currently charged to this allocator.
func (a *Allocator) Allocated() int64 { return a.allocated }

// Release resets the backing arena, invalidating every buffer handed
// out since the previous Release. Heap-served oversized buffers are
// simply dropped for the collector.
func (a *Allocator) Release() {
	a.arena.Reset()
	a.allocated = 0
}

// Stats exposes the underlying arena snapshot.
func (a *Allocator) Stats() arena.Stats { return a.arena.Stats() }
