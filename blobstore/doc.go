// Package blobstore provides the storage abstraction the bulk writer uploads
// import files to.
//
// Store is the interface for writing and reading whole blobs.
// Implementations must be safe for concurrent use.
//
// # Built-in Implementations
//
//   - MemoryStore: in-process map, for tests
//   - LocalStore: local filesystem with atomic rename on write
//   - minio.Store: MinIO and other S3-compatible endpoints
//   - s3.Store: Amazon S3 with CRC32C checksums and multipart uploads
//
// # Custom Implementations
//
//	type Store interface {
//	    Put(ctx, name, data) error
//	    Get(ctx, name) ([]byte, error)
//	    Delete(ctx, name) error
//	    List(ctx, prefix) ([]string, error)
//	}
package blobstore
