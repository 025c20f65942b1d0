// Package graph provides the in-memory knowledge graph store.
//
// # Model
//
// A Store holds two disjoint vertex namespaces, concepts and words, and
// directed edges between any two vertices. At most one edge exists per
// ordered pair; relation types accumulate on that edge as bits of a
// relation.Mask, and the first inserted weight wins.
//
//	s := graph.New()
//	dog := s.FindOrInsertConcept("dog.n.01")
//	animal := s.FindOrInsertConcept("animal.n.01")
//	e := s.FindOrInsertEdge(dog, animal, 1)
//	_ = s.AddRelationLabel(e, "hypernym")
//
// # Identity
//
// Vertex and edge ids are dense and never reused: the graph only grows.
// Snapshot encoding relies on this to write tables in id order and restore
// them with RestoreVertex and RestoreEdge.
package graph
