// Package ringbuf implements a fixed-capacity circular buffer with
// overwrite-on-full push and O(1) random access. Not safe for
// concurrent use.
package ringbuf

import "iter"

// Ring is a circular buffer of values of type T. Capacity is fixed at
// construction. PushBack on a full ring overwrites the oldest element.
type Ring[T any] struct {
	data []T
	head int // index of the oldest element
	n    int
}

// New creates a Ring with the given capacity. A non-positive capacity
// yields a ring that silently drops every push.
func New[T any](capacity int) *Ring[T] {
	if capacity < 0 {
		capacity = 0
	}
	return &Ring[T]{data: make([]T, capacity)}
}

// PushBack appends v. When the ring is full the front (oldest) element
// is overwritten and the evicted value returned with evicted=true.
func (r *Ring[T]) PushBack(v T) (old T, evicted bool) {
	if len(r.data) == 0 {
		return old, false
	}
	if r.n == len(r.data) {
		old, evicted = r.data[r.head], true
		r.data[r.head] = v
		r.head = r.inc(r.head)
		return old, evicted
	}
	r.data[(r.head+r.n)%len(r.data)] = v
	r.n++
	return old, false
}

// PopFront removes and returns the oldest element. The second return
// is false when the ring is empty.
func (r *Ring[T]) PopFront() (T, bool) {
	var zero T
	if r.n == 0 {
		return zero, false
	}
	v := r.data[r.head]
	r.data[r.head] = zero // release for GC
	r.head = r.inc(r.head)
	r.n--
	return v, true
}

// Front returns the oldest element without removing it.
func (r *Ring[T]) Front() (T, bool) {
	var zero T
	if r.n == 0 {
		return zero, false
	}
	return r.data[r.head], true
}

// Back returns the newest element without removing it.
func (r *Ring[T]) Back() (T, bool) {
	var zero T
	if r.n == 0 {
		return zero, false
	}
	return r.data[(r.head+r.n-1)%len(r.data)], true
}

// At returns the element i positions behind the front (At(0) ==
// front). Panics when i is out of range, matching slice indexing.
func (r *Ring[T]) At(i int) T {
	if i < 0 || i >= r.n {
		panic("ringbuf: index out of range")
	}
	return r.data[(r.head+i)%len(r.data)]
}

// Set overwrites the element i positions behind the front. Panics when
// i is out of range.
func (r *Ring[T]) Set(i int, v T) {
	if i < 0 || i >= r.n {
		panic("ringbuf: index out of range")
	}
	r.data[(r.head+i)%len(r.data)] = v
}

// Len returns the number of elements currently held.
func (r *Ring[T]) Len() int { return r.n }

// Cap returns the fixed capacity.
func (r *Ring[T]) Cap() int { return len(r.data) }

// Full reports whether the next PushBack would evict.
func (r *Ring[T]) Full() bool { return r.n == len(r.data) && r.n > 0 }

// Empty reports whether the ring holds no elements.
func (r *Ring[T]) Empty() bool { return r.n == 0 }

// Clear removes every element, zeroing the slots for GC.
func (r *Ring[T]) Clear() {
	var zero T
	for i := 0; i < r.n; i++ {
		r.data[(r.head+i)%len(r.data)] = zero
	}
	r.head = 0
	r.n = 0
}

// All iterates front to back, yielding each element's position (0 =
// front) and value.
func (r *Ring[T]) All() iter.Seq2[int, T] {
	return func(yield func(int, T) bool) {
		for i := 0; i < r.n; i++ {
			if !yield(i, r.data[(r.head+i)%len(r.data)]) {
				return
			}
		}
	}
}

func (r *Ring[T]) inc(i int) int {
	i++
	if i == len(r.data) {
		return 0
	}
	return i
}
