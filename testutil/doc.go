// Package testutil provides fixtures for tests and benchmarks.
//
// It builds small deterministic graphs, random graphs from a seeded RNG and
// a dense reference PageRank used as ground truth for the ranker.
//
//	rng := testutil.NewRNG(4711)
//	g := rng.RandomGraph(100, 400, []string{"hypernym", "similar"})
//	restart := rng.RestartVector(g.Size(), 3)
//	want := testutil.ReferencePageRank(g, restart, 0.85, 30, true)
package testutil
