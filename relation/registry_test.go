package relation

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistry(t *testing.T) {
	t.Run("RegisterIsIdempotent", func(t *testing.T) {
		r := NewRegistry()

		i, err := r.Register("hypernym")
		require.NoError(t, err)
		assert.Equal(t, 0, i)

		j, err := r.Register("holonym")
		require.NoError(t, err)
		assert.Equal(t, 1, j)

		k, err := r.Register("hypernym")
		require.NoError(t, err)
		assert.Equal(t, 0, k)
		assert.Equal(t, 2, r.Len())
	})

	t.Run("EmptyLabel", func(t *testing.T) {
		r := NewRegistry()
		_, err := r.Register("")
		assert.ErrorIs(t, err, ErrEmptyLabel)
		assert.False(t, r.CanRegister(""))
	})

	t.Run("Overflow", func(t *testing.T) {
		r := NewRegistry()
		for i := 0; i < MaxRelations; i++ {
			_, err := r.Register(fmt.Sprintf("rel%d", i))
			require.NoError(t, err)
		}

		assert.False(t, r.CanRegister("one-too-many"))
		_, err := r.Register("one-too-many")
		require.ErrorIs(t, err, ErrRegistryFull)

		assert.Equal(t, MaxRelations, r.Len())
		_, ok := r.Index("one-too-many")
		assert.False(t, ok)

		// Known labels still resolve once the table is full.
		i, err := r.Register("rel7")
		require.NoError(t, err)
		assert.Equal(t, 7, i)
	})

	t.Run("DecodeAscendingOrder", func(t *testing.T) {
		r := NewRegistry()
		for _, l := range []string{"a", "b", "c", "d"} {
			_, err := r.Register(l)
			require.NoError(t, err)
		}

		m := Mask(0).With(3).With(0).With(2)
		assert.Equal(t, []string{"a", "c", "d"}, r.Decode(m))
		assert.Nil(t, r.Decode(0))
	})

	t.Run("Encode", func(t *testing.T) {
		r := NewRegistry()
		_, _ = r.Register("x")
		_, _ = r.Register("y")

		m, err := r.Encode("y")
		require.NoError(t, err)
		assert.Equal(t, Mask(2), m)

		_, err = r.Encode("z")
		assert.ErrorIs(t, err, ErrUnknownLabel)
	})

	t.Run("Valid", func(t *testing.T) {
		r := NewRegistry()
		_, _ = r.Register("x")
		assert.True(t, r.Valid(1))
		assert.False(t, r.Valid(2))
	})
}

func TestFromLabels(t *testing.T) {
	r, err := FromLabels([]string{"hypernym", "antonym"})
	require.NoError(t, err)
	assert.Equal(t, []string{"hypernym", "antonym"}, r.Labels())

	i, ok := r.Index("antonym")
	require.True(t, ok)
	assert.Equal(t, 1, i)

	_, err = FromLabels([]string{"a", "a"})
	assert.ErrorIs(t, err, ErrDuplicateLabel)

	tooMany := make([]string, MaxRelations+1)
	for i := range tooMany {
		tooMany[i] = fmt.Sprintf("r%d", i)
	}
	_, err = FromLabels(tooMany)
	assert.ErrorIs(t, err, ErrRegistryFull)
}

func TestMask(t *testing.T) {
	var m Mask
	m = m.With(0).With(31)
	assert.True(t, m.Has(0))
	assert.True(t, m.Has(31))
	assert.False(t, m.Has(5))
	assert.False(t, m.Has(32))
	assert.Equal(t, 2, m.Count())
	assert.True(t, m.Intersects(Mask(1)))
	assert.False(t, m.Intersects(Mask(2)))
	assert.Equal(t, m, m.With(-1))
}
