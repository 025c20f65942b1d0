// Package s3 stores graph snapshots in Amazon S3.
//
// # Usage
//
//	store, err := s3.New(ctx, "my-bucket",
//	    s3.WithPrefix("ukb/"),
//	    s3.WithRegion("eu-west-1"),
//	)
//	if err != nil { ... }
//	err = kb.Publish(ctx, store, "snapshots/wn30.bin")
//
// # Features
//
//   - Range reads for partial fetches
//   - Streaming multipart uploads with abort on failure
//   - CRC32C integrity checks on single-shot writes
//   - DynamoDB-backed CURRENT pointer for concurrent publishers (DDBCommitStore)
package s3
