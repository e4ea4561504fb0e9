package slotmap

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMap_AddAndAccess(t *testing.T) {
	m := New[string]()

	h := m.Add("hello")
	assert.Equal(t, uint32(0), h.Index)
	assert.Equal(t, uint32(1), h.Generation)

	p, err := m.At(h)
	require.NoError(t, err)
	assert.Equal(t, "hello", *p)

	p, ok := m.Find(h)
	require.True(t, ok)
	assert.Equal(t, "hello", *p)

	assert.Equal(t, 1, m.Len())
	assert.False(t, m.Empty())
}

func TestMap_RemoveInvalidatesHandle(t *testing.T) {
	m := New[string]()
	h := m.Add("v")

	require.NoError(t, m.Remove(h))
	assert.Zero(t, m.Len())
	assert.True(t, m.Empty())

	_, err := m.At(h)
	assert.ErrorIs(t, err, ErrInvalidHandle)

	_, ok := m.Find(h)
	assert.False(t, ok)

	// Removing an already-dead slot is rejected, never a no-op.
	assert.ErrorIs(t, m.Remove(h), ErrInvalidHandle)
}

func TestMap_Remove_OutOfRange(t *testing.T) {
	m := New[int]()
	m.Add(1)

	err := m.Remove(Handle{Index: 99, Generation: 1})
	assert.ErrorIs(t, err, ErrInvalidHandle)
}

func TestMap_Remove_DeadBitHandleRejected(t *testing.T) {
	m := New[int]()
	h := m.Add(1)
	require.NoError(t, m.Remove(h))

	// A forged handle carrying the dead flag must not match the dead
	// slot's stored generation.
	forged := Handle{Index: h.Index, Generation: h.Generation | 0x80000000}
	assert.ErrorIs(t, m.Remove(forged), ErrInvalidHandle)
	_, ok := m.Find(forged)
	assert.False(t, ok)
}

func TestMap_GenerationalSafety(t *testing.T) {
	m := New[string]()

	h1 := m.Add("first")
	require.NoError(t, m.Remove(h1))

	h2 := m.Add("second")
	require.Equal(t, h1.Index, h2.Index, "index must be recycled")
	assert.Equal(t, h1.Generation+1, h2.Generation)

	// The stale handle is dead, the fresh one lives.
	_, ok := m.Find(h1)
	assert.False(t, ok)
	p, ok := m.Find(h2)
	require.True(t, ok)
	assert.Equal(t, "second", *p)

	_, err := m.At(h1)
	assert.ErrorIs(t, err, ErrInvalidHandle)
}

func TestMap_SaturatedGenerationRetiresSlot(t *testing.T) {
	m := New[int]()
	h := m.Add(1)
	require.NoError(t, m.Remove(h))

	// Age the dead slot at index 0 to the counter's ceiling, as if it
	// had been recycled 2^31-1 times.
	*m.gens.Get(0) = deadBit | versionMask

	// Add must skip the retired slot instead of wrapping its counter.
	h2 := m.Add(2)
	assert.Equal(t, Handle{Index: 1, Generation: 1}, h2)

	// No handle can ever address the retired slot again.
	_, ok := m.Find(Handle{Index: 0, Generation: versionMask})
	assert.False(t, ok)

	s := m.Stats()
	assert.Equal(t, 1, s.Live)
	assert.Equal(t, 1, s.Retired)

	count := 0
	for range m.Values() {
		count++
	}
	assert.Equal(t, 1, count)

	// Churn keeps recycling the healthy slot, never the retired one.
	require.NoError(t, m.Remove(h2))
	h3 := m.Add(3)
	assert.Equal(t, Handle{Index: 1, Generation: 2}, h3)
}

func TestMap_ScenarioChurnAndIterationOrder(t *testing.T) {
	m := New[string]()

	hA := m.Add("A")
	hB := m.Add("B")
	hC := m.Add("C")
	assert.Equal(t, Handle{Index: 0, Generation: 1}, hA)
	assert.Equal(t, Handle{Index: 1, Generation: 1}, hB)
	assert.Equal(t, Handle{Index: 2, Generation: 1}, hC)

	require.NoError(t, m.Remove(hB))

	hD := m.Add("D")
	assert.Equal(t, Handle{Index: 1, Generation: 2}, hD)

	var got []string
	for v := range m.Values() {
		got = append(got, *v)
	}
	assert.Equal(t, []string{"A", "D", "C"}, got)
}

func TestMap_IterationSkipsDeadAndMatchesLen(t *testing.T) {
	m := New[int]()

	var handles []Handle
	for i := 0; i < 50; i++ {
		handles = append(handles, m.Add(i))
	}
	for i := 0; i < 50; i += 3 {
		require.NoError(t, m.Remove(handles[i]))
	}

	count := 0
	for h, v := range m.All() {
		assert.Equal(t, int(h.Index), *v)
		count++
	}
	assert.Equal(t, m.Len(), count)
}

func TestMap_IterationIsRestartable(t *testing.T) {
	m := New[int]()
	m.Add(1)
	m.Add(2)

	seq := m.Values()
	for range 2 {
		count := 0
		for range seq {
			count++
		}
		assert.Equal(t, 2, count)
	}
}

func TestMap_IterationObservesHigherIndexInserts(t *testing.T) {
	m := New[int]()
	m.Add(10)
	m.Add(20)

	added := false
	var seen []int
	for _, v := range m.All() {
		seen = append(seen, *v)
		if !added {
			// Lands at index 2, past the iterator's position.
			m.Add(30)
			added = true
		}
	}
	assert.Equal(t, []int{10, 20, 30}, seen)
}

func TestMap_IterationSkipsMidPassRemovals(t *testing.T) {
	m := New[int]()
	m.Add(10)
	m.Add(20)
	h2 := m.Add(30)

	var seen []int
	for h, v := range m.All() {
		if h.Index == 0 {
			require.NoError(t, m.Remove(h2))
		}
		seen = append(seen, *v)
	}
	assert.Equal(t, []int{10, 20}, seen)
}

func TestMap_IterationEarlyBreak(t *testing.T) {
	m := New[int]()
	for i := 0; i < 10; i++ {
		m.Add(i)
	}

	count := 0
	for range m.Values() {
		count++
		if count == 3 {
			break
		}
	}
	assert.Equal(t, 3, count)
}

func TestMap_Deleter(t *testing.T) {
	var deleted []string
	m := New[string](WithDeleter[string](func(s *string) {
		deleted = append(deleted, *s)
	}))

	h1 := m.Add("one")
	h2 := m.Add("two")

	require.NoError(t, m.Remove(h2))
	require.NoError(t, m.Remove(h1))
	assert.Equal(t, []string{"two", "one"}, deleted)

	// Failed removals never invoke the deleter.
	assert.ErrorIs(t, m.Remove(h1), ErrInvalidHandle)
	assert.Len(t, deleted, 2)
}

func TestMap_RemoveZeroesSlot(t *testing.T) {
	m := New[string]()
	h := m.Add("payload")
	require.NoError(t, m.Remove(h))

	// The dead slot's storage is cleared so the collector can reclaim
	// whatever the value referenced.
	assert.Equal(t, "", *m.Get(h))
}

func TestMap_UncheckedGet(t *testing.T) {
	m := New[int]()
	h := m.Add(41)

	p := m.Get(h)
	*p++
	q, err := m.At(h)
	require.NoError(t, err)
	assert.Equal(t, 42, *q)
}

func TestMap_StableValuePointers(t *testing.T) {
	m := New[int](WithPageSize[int](2))

	h := m.Add(7)
	p, err := m.At(h)
	require.NoError(t, err)

	// Force several page allocations.
	for i := 0; i < 20; i++ {
		m.Add(i)
	}

	q, err := m.At(h)
	require.NoError(t, err)
	assert.Same(t, p, q, "growth must not relocate existing slots")
	assert.Equal(t, 7, *q)
}

func TestMap_SmallPages(t *testing.T) {
	m := New[int](WithPageSize[int](2))

	var handles []Handle
	for i := 0; i < 9; i++ {
		handles = append(handles, m.Add(i))
	}
	assert.Equal(t, 9, m.Len())

	for _, h := range handles {
		require.NoError(t, m.Remove(h))
	}
	assert.True(t, m.Empty())

	// Everything comes back through the recycler.
	h := m.Add(100)
	assert.Equal(t, uint32(8), h.Index)
	assert.Equal(t, uint32(2), h.Generation)
	assert.Equal(t, 9, m.Stats().Slots)
}

func TestMap_Stats(t *testing.T) {
	m := New[int]()
	h1 := m.Add(1)
	m.Add(2)
	require.NoError(t, m.Remove(h1))

	s := m.Stats()
	assert.Equal(t, 1, s.Live)
	assert.Equal(t, 2, s.Slots)
	assert.Zero(t, s.Retired)
}

func BenchmarkMap_AddRemove(b *testing.B) {
	m := New[[32]byte]()
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		h := m.Add([32]byte{})
		_ = m.Remove(h)
	}
}

func BenchmarkMap_Iterate(b *testing.B) {
	m := New[int]()
	for i := 0; i < 10000; i++ {
		m.Add(i)
	}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		sum := 0
		for v := range m.Values() {
			sum += *v
		}
	}
}
