package relfile

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/PaulHuygen/ukb"
)

const sample = `# sample
u:dog.n.01 v:canine.n.02 t:hypernym s:wn30 d:1

u:dog.n.01 v:cat.n.01 t:similar s:xwn w:0.5
  u:a v:b x:ignored
`

func collect(t *testing.T, src string) ([]ukb.Relation, error) {
	t.Helper()
	var out []ukb.Relation
	for rec, err := range ReadRelations(strings.NewReader(src)) {
		if err != nil {
			return out, err
		}
		out = append(out, rec)
	}
	return out, nil
}

func TestReadRelations(t *testing.T) {
	recs, err := collect(t, sample)
	require.NoError(t, err)
	require.Len(t, recs, 3)

	assert.Equal(t, ukb.Relation{
		Source: "dog.n.01", Target: "canine.n.02", Weight: 1,
		Label: "hypernym", Origin: "wn30", Undirected: false,
	}, recs[0])
	assert.Equal(t, ukb.Relation{
		Source: "dog.n.01", Target: "cat.n.01", Weight: 0.5,
		Label: "similar", Origin: "xwn", Undirected: true,
	}, recs[1])
	assert.Equal(t, ukb.Relation{Source: "a", Target: "b", Weight: 1, Undirected: true}, recs[2])
}

func TestReadRelationsErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
		line int
	}{
		{"NotKeyValue", "u:a v:b\nnonsense\n", 2},
		{"MissingSource", "v:b\n", 1},
		{"MissingTarget", "# c\nu:a\n", 2},
		{"BadWeight", "u:a v:b w:heavy\n", 1},
		{"NegativeWeight", "u:a v:b w:-1\n", 1},
		{"InfiniteWeight", "u:a v:b\nu:b v:c w:inf\n", 2},
		{"NaNWeight", "u:a v:b w:NaN\n", 1},
		{"OverflowWeight", "u:a v:b w:1e40\n", 1},
		{"BadDirection", "u:a v:b d:2\n", 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := collect(t, tt.src)
			var se *SyntaxError
			require.True(t, errors.As(err, &se), "got %v", err)
			assert.Equal(t, tt.line, se.Line)
		})
	}
}

func TestReadRelationsStopsEarly(t *testing.T) {
	n := 0
	for range ReadRelations(strings.NewReader("u:a v:b\nu:b v:c\nu:c v:d\n")) {
		n++
		if n == 2 {
			break
		}
	}
	assert.Equal(t, 2, n)
}

func TestBuildFromRelationFile(t *testing.T) {
	kb, stats, err := ukb.Build(context.Background(), ReadRelations(strings.NewReader(sample)), []string{"wn30"})
	require.NoError(t, err)
	assert.Equal(t, ukb.IngestStats{Read: 3, Applied: 1, Dropped: 2}, stats)
	assert.Equal(t, 1, kb.NumEdges())
	assert.Equal(t, []string{"hypernym"}, kb.Relations())
}

func TestReadDictionary(t *testing.T) {
	d, err := ReadDictionary(strings.NewReader(`# words
river river.n.01
bank bank.n.01:2 bank.n.02:0
bank bank.n.01:1 bank.v.01

`))
	require.NoError(t, err)
	assert.Equal(t, []string{"bank", "river"}, d.Words())
	assert.Equal(t, 2, d.Len())

	assert.Equal(t, []ukb.DictEntry{{Concept: "river.n.01", Weight: 1}}, d.Entries("river"))

	// counts 3, 0, 0 smooth to 4/6, 1/6, 1/6
	bank := d.Entries("bank")
	require.Len(t, bank, 3)
	assert.Equal(t, "bank.n.01", bank[0].Concept)
	assert.InDelta(t, 4.0/6, bank[0].Weight, 1e-6)
	assert.InDelta(t, 1.0/6, bank[1].Weight, 1e-6)
	assert.Equal(t, "bank.v.01", bank[2].Concept)
	assert.InDelta(t, 1.0/6, bank[2].Weight, 1e-6)

	assert.Nil(t, d.Entries("nothing"))
}

func TestReadDictionaryErrors(t *testing.T) {
	_, err := ReadDictionary(strings.NewReader("ok a\nlonely\n"))
	var se *SyntaxError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, 2, se.Line)

	_, err = ReadDictionary(strings.NewReader("w c:x\n"))
	require.ErrorAs(t, err, &se)
	assert.Equal(t, 1, se.Line)

	for _, count := range []string{"inf", "+Inf", "NaN", "-2"} {
		_, err = ReadDictionary(strings.NewReader("ok a\nw c:" + count + "\n"))
		require.ErrorAs(t, err, &se, count)
		assert.Equal(t, 2, se.Line, count)
	}
}

func TestDictionaryFeedsKB(t *testing.T) {
	d, err := ReadDictionary(strings.NewReader("bank bank.n.01:3 bank.n.02\n"))
	require.NoError(t, err)

	kb := ukb.New()
	stats, err := kb.AddDictionary(context.Background(), d, true)
	require.NoError(t, err)
	assert.Equal(t, 1, stats.Applied)
	assert.Equal(t, 3, kb.Size())
	assert.Equal(t, 2, kb.NumEdges())
}
