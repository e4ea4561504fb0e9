// Package slotmap implements a generational slot map: an object pool
// addressed by stable, validity-checked handles.
//
// Values live in a typed paged arena, so they never move once added.
// Each slot carries a generation counter whose top bit marks the slot
// dead; a handle is valid only while the slot's generation matches it
// exactly. Reusing a slot bumps its generation, which invalidates
// every handle issued for the previous occupant.
//
// Not safe for concurrent use.
package slotmap

import (
	"errors"
	"iter"

	"github.com/qvntm/arenakit/typedarena"
)

// ErrInvalidHandle is returned when a handle's index was never issued,
// its generation no longer matches the slot, or the slot is dead. The
// "never existed" and "already removed" cases are deliberately
// indistinguishable.
var ErrInvalidHandle = errors.New("slotmap: invalid handle")

const (
	deadBit     = 0x80000000
	versionMask = 0x7FFFFFFF
)

// DefaultPageSize is the elements-per-page count for the backing
// arenas when WithPageSize is not given.
const DefaultPageSize = 1024

// Handle identifies an element in a Map. Handles are value types,
// cheap to copy and compare. A live handle never has the dead bit set
// in its generation.
type Handle struct {
	Index      uint32
	Generation uint32
}

// Map is a generational slot map storing values of type T. It owns
// both backing arenas and every stored value; pointers returned by
// accessors are non-owning views that stay valid until that slot is
// removed (growth never relocates existing slots).
type Map[T any] struct {
	storage *typedarena.Arena[T]      // the values
	gens    *typedarena.Arena[uint32] // per-slot generation + dead bit
	live    int
	deleter func(*T)
}

// Stats is a point-in-time snapshot, consumed by memmetrics.
type Stats struct {
	Live    int
	Slots   int // indices ever issued (watermark)
	Retired int // slots permanently taken out of rotation
}

// Option configures a Map at construction.
type Option[T any] func(*config[T])

type config[T any] struct {
	pageSize int
	deleter  func(*T)
}

// WithPageSize sets the elements-per-page count of both backing
// arenas. Larger pages amortize growth better at the cost of a bigger
// partially-filled final page.
func WithPageSize[T any](n int) Option[T] {
	return func(c *config[T]) { c.pageSize = n }
}

// WithDeleter installs a routine invoked on the stored value when its
// slot is removed, before the slot is zeroed. Use it to release
// resources the value owns (file handles, child allocations).
func WithDeleter[T any](fn func(*T)) Option[T] {
	return func(c *config[T]) { c.deleter = fn }
}

// New creates an empty Map.
func New[T any](opts ...Option[T]) *Map[T] {
	c := config[T]{pageSize: DefaultPageSize}
	for _, opt := range opts {
		opt(&c)
	}
	return &Map[T]{
		storage: typedarena.New[T](c.pageSize),
		gens:    typedarena.New[uint32](c.pageSize),
		deleter: c.deleter,
	}
}

// Add stores v and returns a handle for it. The slot comes from the
// arena's recycler when one is available; its generation is bumped by
// one with the dead bit cleared, so stale handles for the previous
// occupant stop validating. A recycled slot whose generation counter
// has saturated is retired permanently instead of wrapping around,
// and the next slot is used transparently.
func (m *Map[T]) Add(v T) Handle {
	for {
		ptr, idx := m.storage.Alloc()

		// Keep the generation arena's watermark in sync with storage.
		// New generation slots start at zero (never allocated).
		for m.gens.Len() < m.storage.Len() {
			gp, _ := m.gens.Alloc()
			*gp = 0
		}

		gp := m.gens.Get(idx)
		if *gp&versionMask == versionMask {
			// Counter exhausted: wrapping would revalidate ancient
			// handles. Leak the index instead of recycling it.
			continue
		}

		gen := (*gp & versionMask) + 1
		*gp = gen
		*ptr = v
		m.live++
		return Handle{Index: uint32(idx), Generation: gen}
	}
}

// Remove deletes the element identified by h. It fails with
// ErrInvalidHandle when the index was never issued or the generation
// does not match; removing an already-dead slot is always rejected,
// never a no-op. On success the deleter (if any) runs on the stored
// value, the slot is zeroed so the collector can reclaim whatever the
// value referenced, the dead bit is set and the index recycled.
func (m *Map[T]) Remove(h Handle) error {
	gp, ok := m.lookup(h)
	if !ok {
		return ErrInvalidHandle
	}

	ptr := m.storage.Get(int(h.Index))
	if m.deleter != nil {
		m.deleter(ptr)
	}
	var zero T
	*ptr = zero

	*gp |= deadBit
	m.storage.Free(int(h.Index))
	m.live--
	return nil
}

// At returns a pointer to the element identified by h, or
// ErrInvalidHandle under the same conditions as Remove. The pointer
// stays valid until that slot is removed or the map is dropped.
func (m *Map[T]) At(h Handle) (*T, error) {
	if _, ok := m.lookup(h); !ok {
		return nil, ErrInvalidHandle
	}
	return m.storage.Get(int(h.Index)), nil
}

// Find is the non-failing variant of At: it reports absence instead of
// returning an error.
func (m *Map[T]) Find(h Handle) (*T, bool) {
	if _, ok := m.lookup(h); !ok {
		return nil, false
	}
	return m.storage.Get(int(h.Index)), true
}

// Get returns the element pointer with no validity check. The caller
// asserts the handle is currently valid; meant for hot paths that
// validated the handle moments before.
func (m *Map[T]) Get(h Handle) *T {
	return m.storage.Get(int(h.Index))
}

// Len returns the number of live elements. Slots ever allocated is
// reported by Stats().Slots instead.
func (m *Map[T]) Len() int { return m.live }

// Empty reports whether the map holds no live elements.
func (m *Map[T]) Empty() bool { return m.live == 0 }

// All returns a lazy, restartable sequence over the live elements in
// ascending index order, yielding each element's current handle and a
// pointer to it. Dead slots are skipped. The watermark is re-read on
// every step, so elements added at not-yet-visited higher indices
// during the pass are observed and elements removed before being
// visited are skipped; any other structural mutation mid-pass is
// unsupported.
func (m *Map[T]) All() iter.Seq2[Handle, *T] {
	return func(yield func(Handle, *T) bool) {
		for i := 0; i < m.storage.Len(); i++ {
			g := *m.gens.Get(i)
			if g&deadBit != 0 {
				continue
			}
			if !yield(Handle{Index: uint32(i), Generation: g}, m.storage.Get(i)) {
				return
			}
		}
	}
}

// Values returns the live elements in ascending index order. Same
// iteration contract as All.
func (m *Map[T]) Values() iter.Seq[*T] {
	return func(yield func(*T) bool) {
		for _, v := range m.All() {
			if !yield(v) {
				return
			}
		}
	}
}

// Stats returns a snapshot of live count and slot accounting.
func (m *Map[T]) Stats() Stats {
	s := m.storage.Stats()
	// Slots neither live nor in the recycler have been retired.
	return Stats{
		Live:    m.live,
		Slots:   s.Watermark,
		Retired: s.Watermark - m.live - s.Free,
	}
}

// lookup validates h and returns the slot's generation pointer. A
// handle carrying the dead bit is never valid, so a single equality
// check against the stored generation covers both staleness and
// removal.
func (m *Map[T]) lookup(h Handle) (*uint32, bool) {
	if h.Generation&deadBit != 0 {
		return nil, false
	}
	if int(h.Index) >= m.storage.Len() {
		return nil, false
	}
	gp := m.gens.Get(int(h.Index))
	if *gp != h.Generation {
		return nil, false
	}
	return gp, true
}
