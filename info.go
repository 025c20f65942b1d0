package ukb

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/PaulHuygen/ukb/graph"
)

// DisplayInfo writes a summary of the knowledge base to w.
func (kb *KB) DisplayInfo(w io.Writer) error {
	concepts := 0
	for i := range kb.g.Size() {
		if kb.g.IsConcept(graph.VertexID(i)) {
			concepts++
		}
	}

	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "vertices: %d (%d concepts, %d words)\n", kb.g.Size(), concepts, kb.g.Size()-concepts)
	fmt.Fprintf(bw, "edges: %d\n", kb.g.NumEdges())
	fmt.Fprintf(bw, "relations: %s\n", strings.Join(kb.Relations(), " "))
	fmt.Fprintf(bw, "sources: %s\n", strings.Join(kb.Sources(), " "))
	if len(kb.notes) > 0 {
		fmt.Fprintln(bw, "comments:")
		for _, n := range kb.notes {
			fmt.Fprintf(bw, "  %s\n", n)
		}
	}
	return bw.Flush()
}

// DumpGraph writes every vertex followed by its outgoing edges:
//
//	dog.n.01	concept	a domesticated carnivore
//	  -> animal.n.01	1	hypernym
//
// Each vertex and each edge appears exactly once.
func (kb *KB) DumpGraph(w io.Writer) error {
	bw := bufio.NewWriter(w)
	for i := range kb.g.Size() {
		v := graph.VertexID(i)
		fmt.Fprintf(bw, "%s\t%s", kb.g.Name(v), kb.g.Kind(v))
		if gloss := kb.g.Gloss(v); gloss != "" {
			fmt.Fprintf(bw, "\t%s", gloss)
		}
		bw.WriteByte('\n')
		for _, e := range kb.g.OutEdges(v) {
			_, dst, weight, _ := kb.g.Edge(e)
			fmt.Fprintf(bw, "  -> %s\t%g\t%s\n", kb.g.Name(dst), weight, strings.Join(kb.g.EdgeLabels(e), ","))
		}
	}
	return bw.Flush()
}
