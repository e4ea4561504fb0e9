// Package smallvec provides a growable sequence that keeps its first
// few elements in an inline buffer, avoiding heap allocation for the
// common short case. Not safe for concurrent use.
package smallvec

// InlineCap is the number of elements stored inline before the vector
// spills to a heap-allocated slice. Go generics cannot carry an
// array-length parameter, so the inline capacity is a package
// constant rather than per-instance configuration.
const InlineCap = 8

// Vec is a hybrid inline/heap vector. The zero value is an empty
// vector ready for use. Element addresses are NOT stable: the spill
// from inline to heap (and later growth) relocates elements.
type Vec[T any] struct {
	inline [InlineCap]T
	heap   []T // nil while the inline buffer suffices
	n      int
}

// Push appends v, spilling to the heap once the inline buffer fills.
func (v *Vec[T]) Push(x T) {
	if v.heap == nil {
		if v.n < InlineCap {
			v.inline[v.n] = x
			v.n++
			return
		}
		v.spill(2 * InlineCap)
	} else if v.n == cap(v.heap) {
		next := make([]T, v.n, 2*cap(v.heap))
		copy(next, v.heap)
		v.heap = next
	}
	v.heap = v.heap[:v.n+1]
	v.heap[v.n] = x
	v.n++
}

// Pop removes and returns the last element; false when empty.
func (v *Vec[T]) Pop() (T, bool) {
	var zero T
	if v.n == 0 {
		return zero, false
	}
	v.n--
	var x T
	if v.heap != nil {
		x = v.heap[v.n]
		v.heap[v.n] = zero
		v.heap = v.heap[:v.n]
	} else {
		x = v.inline[v.n]
		v.inline[v.n] = zero
	}
	return x, true
}

// At returns the element at index i. Panics out of range.
func (v *Vec[T]) At(i int) T {
	return v.Slice()[i]
}

// Set overwrites the element at index i. Panics out of range.
func (v *Vec[T]) Set(i int, x T) {
	v.Slice()[i] = x
}

// Slice returns a view of the current elements. The view is
// invalidated by the next Push that grows or spills the vector.
func (v *Vec[T]) Slice() []T {
	if v.heap != nil {
		return v.heap[:v.n]
	}
	return v.inline[:v.n]
}

// Len returns the number of elements.
func (v *Vec[T]) Len() int { return v.n }

// Cap returns the current capacity (inline or heap).
func (v *Vec[T]) Cap() int {
	if v.heap != nil {
		return cap(v.heap)
	}
	return InlineCap
}

// Spilled reports whether elements have moved to the heap buffer.
func (v *Vec[T]) Spilled() bool { return v.heap != nil }

// Grow ensures capacity for at least n total elements, spilling if n
// exceeds the inline capacity.
func (v *Vec[T]) Grow(n int) {
	if n <= v.Cap() {
		return
	}
	if v.heap == nil {
		v.spill(n)
		return
	}
	next := make([]T, v.n, n)
	copy(next, v.heap)
	v.heap = next
}

// Clear removes every element, zeroing storage for GC. Heap capacity,
// if any, is released.
func (v *Vec[T]) Clear() {
	if v.heap == nil {
		var zero T
		for i := 0; i < v.n; i++ {
			v.inline[i] = zero
		}
	}
	v.heap = nil
	v.n = 0
}

func (v *Vec[T]) spill(capacity int) {
	next := make([]T, v.n, capacity)
	copy(next, v.inline[:v.n])
	var zero T
	for i := range v.inline {
		v.inline[i] = zero
	}
	v.heap = next
}
