// Package freelist implements a LIFO free list used to recycle
// indices (or any other value) retired by an allocator before its
// watermark advances. Not safe for concurrent use.
package freelist

// List is a LIFO stack of free values. The zero value is an empty
// list ready for use. Insertion order carries no meaning beyond the
// LIFO retrieval guarantee.
type List[T any] struct {
	items []T
}

// Push adds v to the list.
func (l *List[T]) Push(v T) {
	l.items = append(l.items, v)
}

// Pop removes and returns the most recently pushed value. The second
// return is false when the list is empty.
func (l *List[T]) Pop() (T, bool) {
	if len(l.items) == 0 {
		var zero T
		return zero, false
	}
	v := l.items[len(l.items)-1]
	var zero T
	l.items[len(l.items)-1] = zero // drop the reference for GC
	l.items = l.items[:len(l.items)-1]
	return v, true
}

// Len returns the number of free values held.
func (l *List[T]) Len() int { return len(l.items) }

// Empty reports whether the list holds no values.
func (l *List[T]) Empty() bool { return len(l.items) == 0 }

// Grow reserves backing capacity for at least n additional pushes.
func (l *List[T]) Grow(n int) {
	if n <= 0 {
		return
	}
	if cap(l.items)-len(l.items) >= n {
		return
	}
	next := make([]T, len(l.items), len(l.items)+n)
	copy(next, l.items)
	l.items = next
}
