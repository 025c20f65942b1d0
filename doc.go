// Package ukb is an in-memory semantic relatedness graph engine.
//
// A knowledge base (KB) holds concept and word vertices joined by directed,
// weighted edges. Each edge carries the set of relation types (hypernym,
// antonym, ...) asserted between its endpoints. The KB answers reachability,
// shortest-path and personalized PageRank queries, which rank concepts by
// their relatedness to a context of words.
//
// # Quick Start
//
// Build from a relation dump, keeping two sources:
//
//	f, _ := os.Open("wn30.txt")
//	kb, stats, err := ukb.Build(ctx, relfile.ReadRelations(f), []string{"wn30", "xwn"})
//
// Link words to concepts and rank:
//
//	dict, _ := relfile.ReadDictionary(dictFile)
//	_, _ = kb.AddDictionary(ctx, dict, true)
//	restart, _ := kb.ContextRestart([]string{"bank", "river", "water"})
//	res := kb.PageRankPPV(ctx, restart, true)
//	for _, r := range kb.TopConcepts(res.Ranks, 10) {
//	    fmt.Println(r.Name, r.Rank)
//	}
//
// # Snapshots
//
// A KB round-trips through a compact binary snapshot:
//
//	err := kb.WriteToBinfile("wn30.bin")
//	kb, err := ukb.Load("wn30.bin")
//
// Snapshots can be compressed (WithCompression) and stored in any
// blobstore.BlobStore, including S3 and MinIO:
//
//	err := kb.Publish(ctx, store, "snapshots/wn30.bin")
//	kb, err := ukb.LoadBlob(ctx, store, "") // follows CURRENT
//
// # Process-wide Instance
//
// Handle owns the graph of a process. Create calls replace the graph only
// on success; Instance fails with ErrUninitializedGraph before the first one.
//
//	h := ukb.NewHandle(ukb.WithLogger(ukb.NewTextLogger(slog.LevelInfo)))
//	if err := h.CreateFromBinfile("wn30.bin"); err != nil { ... }
//	kb, _ := h.Instance()
//
// # Concurrency
//
// A KB has a single owner. Mutations (ingestion, PPVWeights) must not
// overlap with queries. RankBatch runs several rankings in parallel
// internally.
package ukb
