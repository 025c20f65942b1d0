package ukb

import (
	"errors"
	"fmt"

	"github.com/PaulHuygen/ukb/graph"
	"github.com/PaulHuygen/ukb/relation"
	"github.com/PaulHuygen/ukb/snapshot"
)

var (
	// ErrRegistryFull is returned when a relation label would exceed the
	// relation.MaxRelations bits of an edge mask.
	ErrRegistryFull = relation.ErrRegistryFull

	// ErrSnapshotCorrupt is returned for malformed or truncated snapshots.
	ErrSnapshotCorrupt = snapshot.ErrCorrupt

	// ErrSnapshotVersionUnsupported is returned for snapshots written by an
	// unknown format version.
	ErrSnapshotVersionUnsupported = snapshot.ErrVersionUnsupported

	// ErrVertexNotFound is returned when a name does not resolve to a vertex.
	ErrVertexNotFound = graph.ErrVertexNotFound

	// ErrInvalidWeight is returned for negative, NaN or infinite edge weights.
	ErrInvalidWeight = errors.New("ukb: invalid edge weight")

	// ErrInvalidRelation is returned for relation records without endpoints.
	ErrInvalidRelation = errors.New("ukb: invalid relation")

	// ErrUninitializedGraph is returned by Handle.Instance before any create call.
	ErrUninitializedGraph = errors.New("ukb: graph not initialized")
)

// IngestError reports the record that stopped an ingestion. Records before
// Index were applied and stay applied.
type IngestError struct {
	Index  int
	Record Relation
	Err    error
}

func (e *IngestError) Error() string {
	if e.Record.Source == "" && e.Record.Target == "" {
		return fmt.Sprintf("ukb: record %d: %v", e.Index, e.Err)
	}
	return fmt.Sprintf("ukb: record %d (%s -> %s): %v", e.Index, e.Record.Source, e.Record.Target, e.Err)
}

func (e *IngestError) Unwrap() error { return e.Err }
