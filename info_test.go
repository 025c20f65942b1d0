package ukb

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDisplayInfo(t *testing.T) {
	kb := sampleKB(t)
	var buf bytes.Buffer
	require.NoError(t, kb.DisplayInfo(&buf))

	out := buf.String()
	assert.Contains(t, out, "vertices: 6 (5 concepts, 1 words)")
	assert.Contains(t, out, "edges: 5")
	assert.Contains(t, out, "relations: hypernym similar")
	assert.Contains(t, out, "sources: wn30 xwn")
	assert.Contains(t, out, "  built from wn30 + xwn\n")
}

func TestDumpGraph(t *testing.T) {
	kb := sampleKB(t)
	var buf bytes.Buffer
	require.NoError(t, kb.DumpGraph(&buf))

	lines := strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n")
	var vertices, edges int
	for _, l := range lines {
		if strings.HasPrefix(l, "  -> ") {
			edges++
		} else {
			vertices++
		}
	}
	assert.Equal(t, kb.Size(), vertices)
	assert.Equal(t, kb.NumEdges(), edges)
	assert.Contains(t, buf.String(), "dog.n.01\tconcept\ta domesticated carnivore\n  -> animal.n.01\t1\thypernym\n")
}
