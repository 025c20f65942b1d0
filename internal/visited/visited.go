// Package visited provides a resettable dense bitset for marking vertices.
package visited

import "sync"

// Set marks dense uint32 ids. Reset only clears the words that were touched,
// so a Set can be reused across traversals of a large graph.
type Set struct {
	bits  []uint64
	dirty []uint32
}

// New creates a set sized for capacity ids.
func New(capacity int) *Set {
	return &Set{
		bits:  make([]uint64, (capacity+63)/64),
		dirty: make([]uint32, 0, 64),
	}
}

// Visit marks id and reports whether it was unmarked before.
func (s *Set) Visit(id uint32) bool {
	w := int(id >> 6)
	bit := uint64(1) << (id & 63)

	if w >= len(s.bits) {
		s.grow(w + 1)
	}
	if s.bits[w]&bit != 0 {
		return false
	}
	s.bits[w] |= bit
	s.dirty = append(s.dirty, id)
	return true
}

// Visited reports whether id is marked.
func (s *Set) Visited(id uint32) bool {
	w := int(id >> 6)
	if w >= len(s.bits) {
		return false
	}
	return s.bits[w]&(uint64(1)<<(id&63)) != 0
}

// Len returns the number of marked ids.
func (s *Set) Len() int {
	return len(s.dirty)
}

// Reset unmarks every id marked since the last reset.
func (s *Set) Reset() {
	for _, id := range s.dirty {
		s.bits[id>>6] &^= uint64(1) << (id & 63)
	}
	s.dirty = s.dirty[:0]
}

// EnsureCapacity grows the set to hold at least capacity ids.
func (s *Set) EnsureCapacity(capacity int) {
	if n := (capacity + 63) / 64; n > len(s.bits) {
		s.grow(n)
	}
}

func (s *Set) grow(n int) {
	c := len(s.bits) * 2
	if c < n {
		c = n
	}
	bits := make([]uint64, c)
	copy(bits, s.bits)
	s.bits = bits
}

var pool = sync.Pool{
	New: func() any { return New(0) },
}

// Get returns a cleared set from the pool with room for capacity ids.
func Get(capacity int) *Set {
	s := pool.Get().(*Set)
	s.EnsureCapacity(capacity)
	return s
}

// Put resets s and returns it to the pool.
func Put(s *Set) {
	s.Reset()
	pool.Put(s)
}
