package ukb

import (
	"context"
	"fmt"
	"iter"
	"math"
	"time"

	"github.com/PaulHuygen/ukb/graph"
)

// DefaultWeight is the weight of dictionary edges added without weights.
const DefaultWeight float32 = 1

// AnySource in the accepted source set admits records of every origin.
const AnySource = "*"

// Relation is one record of a relation dump.
type Relation struct {
	Source string
	Target string
	Weight float32
	// Label is the relation type; "" adds the edge without a label.
	Label string
	// Origin names the resource the record comes from.
	Origin string
	// Undirected records also add the edge Target -> Source.
	Undirected bool
}

// IngestStats counts the records of one ingestion.
type IngestStats struct {
	Read    int
	Applied int
	Dropped int
}

// DictEntry links a word to one of its concepts.
type DictEntry struct {
	Concept string
	Weight  float32
}

// Dictionary maps words to concepts.
type Dictionary interface {
	// Words returns every word in a stable order.
	Words() []string
	// Entries returns the concepts of word, or nil for unknown words.
	Entries(word string) []DictEntry
}

// Build creates a knowledge base from relation records, keeping only those
// whose origin is in sources.
func Build(ctx context.Context, seq iter.Seq2[Relation, error], sources []string, opts ...Option) (*KB, IngestStats, error) {
	kb := New(opts...)
	for _, s := range sources {
		kb.AddRelationSource(s)
	}
	stats, err := kb.AddFromTxt(ctx, seq)
	if err != nil {
		return nil, stats, err
	}
	return kb, stats, nil
}

// AddFromTxt layers relation records onto the graph. Records from origins
// outside the accepted source set are dropped. Each accepted record is
// validated before anything is inserted, so a failing record leaves no
// trace; records before it stay applied.
func (kb *KB) AddFromTxt(ctx context.Context, seq iter.Seq2[Relation, error]) (stats IngestStats, err error) {
	start := time.Now()
	defer func() {
		kb.opts.metricsCollector.RecordIngest(stats.Applied, stats.Dropped, time.Since(start), err)
		kb.opts.logger.LogIngest(ctx, stats, err)
	}()

	for rec, recErr := range seq {
		index := stats.Read
		stats.Read++
		if recErr != nil {
			return stats, &IngestError{Index: index, Err: recErr}
		}
		if index%4096 == 0 {
			if err := ctx.Err(); err != nil {
				return stats, err
			}
		}
		if !kb.Accepts(rec.Origin) {
			stats.Dropped++
			continue
		}
		if err := kb.apply(rec); err != nil {
			return stats, &IngestError{Index: index, Record: rec, Err: err}
		}
		stats.Applied++
	}
	return stats, nil
}

func validWeight(w float32) bool {
	f := float64(w)
	return f >= 0 && !math.IsInf(f, 0) && !math.IsNaN(f)
}

func (kb *KB) apply(rec Relation) error {
	if rec.Source == "" || rec.Target == "" {
		return ErrInvalidRelation
	}
	if !validWeight(rec.Weight) {
		return fmt.Errorf("%w: %v", ErrInvalidWeight, rec.Weight)
	}
	if rec.Label != "" && !kb.g.Relations().CanRegister(rec.Label) {
		return fmt.Errorf("%w: cannot register %q", ErrRegistryFull, rec.Label)
	}

	u := kb.g.FindOrInsertConcept(rec.Source)
	v := kb.g.FindOrInsertConcept(rec.Target)
	if err := kb.link(u, v, rec.Weight, rec.Label); err != nil {
		return err
	}
	if rec.Undirected && u != v {
		return kb.link(v, u, rec.Weight, rec.Label)
	}
	return nil
}

func (kb *KB) link(u, v graph.VertexID, w float32, label string) error {
	e := kb.g.FindOrInsertEdge(u, v, w)
	if label == "" {
		return nil
	}
	return kb.g.AddRelationLabel(e, label)
}

// AddToken adds word and edges word -> concept for each of its dictionary
// entries. Without withWeight every edge gets DefaultWeight.
func (kb *KB) AddToken(dict Dictionary, word string, withWeight bool) error {
	entries := dict.Entries(word)
	if len(entries) == 0 {
		return fmt.Errorf("%w: word %q not in dictionary", ErrVertexNotFound, word)
	}
	if withWeight {
		for _, ent := range entries {
			if !validWeight(ent.Weight) {
				return fmt.Errorf("%w: %s -> %s: %v", ErrInvalidWeight, word, ent.Concept, ent.Weight)
			}
		}
	}

	w := kb.g.FindOrInsertWord(word)
	for _, ent := range entries {
		weight := DefaultWeight
		if withWeight {
			weight = ent.Weight
		}
		c := kb.g.FindOrInsertConcept(ent.Concept)
		kb.g.FindOrInsertEdge(w, c, weight)
	}
	kb.opts.logger.WithVertex(word).WithCount(len(entries)).Debug("token added")
	return nil
}

// AddDictionary adds every dictionary word with AddToken.
func (kb *KB) AddDictionary(ctx context.Context, dict Dictionary, withWeight bool) (stats IngestStats, err error) {
	start := time.Now()
	defer func() {
		kb.opts.metricsCollector.RecordIngest(stats.Applied, stats.Dropped, time.Since(start), err)
		kb.opts.logger.LogIngest(ctx, stats, err)
	}()

	for _, word := range dict.Words() {
		if err := ctx.Err(); err != nil {
			return stats, err
		}
		stats.Read++
		if len(dict.Entries(word)) == 0 {
			stats.Dropped++
			continue
		}
		if err := kb.AddToken(dict, word, withWeight); err != nil {
			return stats, &IngestError{Index: stats.Read - 1, Err: err}
		}
		stats.Applied++
	}
	return stats, nil
}
