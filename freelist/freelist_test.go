package freelist

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestList_EmptyAndLen(t *testing.T) {
	var l List[int]
	assert.True(t, l.Empty())
	assert.Zero(t, l.Len())

	l.Push(7)
	assert.False(t, l.Empty())
	assert.Equal(t, 1, l.Len())
}

func TestList_LIFO(t *testing.T) {
	var l List[int]
	l.Push(1)
	l.Push(2)
	l.Push(3)

	v, ok := l.Pop()
	require.True(t, ok)
	assert.Equal(t, 3, v)

	v, ok = l.Pop()
	require.True(t, ok)
	assert.Equal(t, 2, v)

	l.Push(9)
	v, ok = l.Pop()
	require.True(t, ok)
	assert.Equal(t, 9, v)

	v, ok = l.Pop()
	require.True(t, ok)
	assert.Equal(t, 1, v)

	assert.True(t, l.Empty())
}

func TestList_PopEmpty(t *testing.T) {
	var l List[string]
	v, ok := l.Pop()
	assert.False(t, ok)
	assert.Zero(t, v)
}

func TestList_Strings(t *testing.T) {
	var l List[string]
	l.Push("alpha")
	l.Push("beta")

	v, ok := l.Pop()
	require.True(t, ok)
	assert.Equal(t, "beta", v)
	assert.Equal(t, 1, l.Len())
}

func TestList_Grow(t *testing.T) {
	var l List[int]
	l.Grow(100)

	for i := 0; i < 100; i++ {
		l.Push(i)
	}
	assert.Equal(t, 100, l.Len())

	for i := 99; i >= 0; i-- {
		v, ok := l.Pop()
		require.True(t, ok)
		require.Equal(t, i, v)
	}
}
