package visited

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSet(t *testing.T) {
	s := New(10)

	assert.False(t, s.Visited(1))
	assert.True(t, s.Visit(1))
	assert.False(t, s.Visit(1), "second visit reports already marked")
	assert.True(t, s.Visited(1))
	assert.False(t, s.Visited(5))
	assert.Equal(t, 1, s.Len())

	s.Reset()
	assert.False(t, s.Visited(1))
	assert.Equal(t, 0, s.Len())

	// Beyond the initial capacity.
	assert.True(t, s.Visit(1000))
	assert.True(t, s.Visited(1000))
	assert.False(t, s.Visited(999))
}

func TestPool(t *testing.T) {
	s := Get(128)
	s.Visit(3)
	s.Visit(127)
	Put(s)

	s = Get(16)
	defer Put(s)
	assert.False(t, s.Visited(3))
	assert.False(t, s.Visited(127))
}
