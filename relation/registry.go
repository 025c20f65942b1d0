// Package relation assigns stable bit positions to relation-type labels.
//
// Every edge of the graph carries a Mask; bit i of the mask is set when the
// edge carries the label registered at index i. The registry is append-only
// and its order is part of the snapshot format, so a label keeps its bit for
// the lifetime of the graph and across save/load.
package relation

import (
	"errors"
	"fmt"
	"math/bits"
)

// MaxRelations is the number of distinct labels a registry can hold.
// It equals the width of Mask.
const MaxRelations = 32

var (
	// ErrRegistryFull is returned when a new label is registered after all
	// MaxRelations bits have been assigned.
	ErrRegistryFull = errors.New("relation: registry full")

	// ErrUnknownLabel is returned by Encode for labels that were never registered.
	ErrUnknownLabel = errors.New("relation: unknown label")

	// ErrDuplicateLabel is returned by FromLabels when a label occurs twice.
	ErrDuplicateLabel = errors.New("relation: duplicate label")

	// ErrEmptyLabel is returned when registering the empty string.
	ErrEmptyLabel = errors.New("relation: empty label")
)

// Mask is a fixed-width set of relation bits.
type Mask uint32

// Has reports whether bit i is set.
func (m Mask) Has(i int) bool {
	if i < 0 || i >= MaxRelations {
		return false
	}
	return m&(1<<uint(i)) != 0
}

// With returns m with bit i set.
func (m Mask) With(i int) Mask {
	if i < 0 || i >= MaxRelations {
		return m
	}
	return m | 1<<uint(i)
}

// Count returns the number of set bits.
func (m Mask) Count() int {
	return bits.OnesCount32(uint32(m))
}

// Intersects reports whether m and other share at least one bit.
func (m Mask) Intersects(other Mask) bool {
	return m&other != 0
}

// Registry is the ordered, append-only table of relation labels.
// The zero value is not usable; use NewRegistry.
type Registry struct {
	labels []string
	index  map[string]int
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		index: make(map[string]int),
	}
}

// FromLabels rebuilds a registry from a persisted label sequence.
// The order of labels is preserved verbatim.
func FromLabels(labels []string) (*Registry, error) {
	if len(labels) > MaxRelations {
		return nil, fmt.Errorf("%w: %d labels", ErrRegistryFull, len(labels))
	}
	r := NewRegistry()
	for _, l := range labels {
		if l == "" {
			return nil, ErrEmptyLabel
		}
		if _, ok := r.index[l]; ok {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateLabel, l)
		}
		r.index[l] = len(r.labels)
		r.labels = append(r.labels, l)
	}
	return r, nil
}

// Register returns the bit index of label, appending it when unseen.
func (r *Registry) Register(label string) (int, error) {
	if label == "" {
		return 0, ErrEmptyLabel
	}
	if i, ok := r.index[label]; ok {
		return i, nil
	}
	if len(r.labels) >= MaxRelations {
		return 0, fmt.Errorf("%w: cannot register %q", ErrRegistryFull, label)
	}
	i := len(r.labels)
	r.labels = append(r.labels, label)
	r.index[label] = i
	return i, nil
}

// CanRegister reports whether Register(label) would succeed.
func (r *Registry) CanRegister(label string) bool {
	if label == "" {
		return false
	}
	if _, ok := r.index[label]; ok {
		return true
	}
	return len(r.labels) < MaxRelations
}

// Index returns the bit index of a registered label.
func (r *Registry) Index(label string) (int, bool) {
	i, ok := r.index[label]
	return i, ok
}

// Label returns the label registered at bit i, or "" if none.
func (r *Registry) Label(i int) string {
	if i < 0 || i >= len(r.labels) {
		return ""
	}
	return r.labels[i]
}

// Len returns the number of registered labels.
func (r *Registry) Len() int {
	return len(r.labels)
}

// Labels returns a copy of the label table in registration order.
func (r *Registry) Labels() []string {
	out := make([]string, len(r.labels))
	copy(out, r.labels)
	return out
}

// Decode returns the labels whose bits are set in m, in ascending bit order.
// Bits without a registered label are ignored.
func (r *Registry) Decode(m Mask) []string {
	if m == 0 {
		return nil
	}
	out := make([]string, 0, m.Count())
	for v := uint32(m); v != 0; v &= v - 1 {
		i := bits.TrailingZeros32(v)
		if i < len(r.labels) {
			out = append(out, r.labels[i])
		}
	}
	return out
}

// Encode builds the mask for already registered labels.
func (r *Registry) Encode(labels ...string) (Mask, error) {
	var m Mask
	for _, l := range labels {
		i, ok := r.index[l]
		if !ok {
			return 0, fmt.Errorf("%w: %q", ErrUnknownLabel, l)
		}
		m = m.With(i)
	}
	return m, nil
}

// Valid reports whether every bit in m refers to a registered label.
func (r *Registry) Valid(m Mask) bool {
	if len(r.labels) >= MaxRelations {
		return true
	}
	return uint32(m)>>uint(len(r.labels)) == 0
}

// Clone returns an independent copy of the registry.
func (r *Registry) Clone() *Registry {
	c, _ := FromLabels(r.labels)
	return c
}
