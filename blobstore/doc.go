// Package blobstore stores graph snapshots as named immutable blobs.
//
// A BlobStore lets a knowledge base be saved to and restored from local
// disk, memory or object storage with the same code path. Implementations
// must be safe for concurrent use.
//
// # Built-in Implementations
//
//   - LocalStore: local filesystem, reads through a read-only mmap
//   - MemoryStore: in-process map, for tests and ephemeral graphs
//   - ThrottledStore: wraps another store with a byte-rate limit and a
//     bound on concurrent transfers
//   - s3.Store: Amazon S3 (see package s3)
//   - minio.Store: MinIO and other S3-compatible servers (see package minio)
//
// # Custom Implementations
//
//	type BlobStore interface {
//	    Open(ctx, name) (Blob, error)
//	    Create(ctx, name) (WritableBlob, error)
//	    Put(ctx, name, data) error
//	    Delete(ctx, name) error
//	    List(ctx, prefix) ([]string, error)
//	}
//
// Blobs that can expose their contents without copying implement Mappable;
// ReadAll uses it when available.
package blobstore
