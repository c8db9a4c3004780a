// Package s3 provides an S3 implementation of the blobstore.Store interface.
//
// # Usage
//
//	store, err := s3.NewFromDefaultConfig(ctx, "my-bucket", "imports/")
//	if err != nil {
//	    return err
//	}
//	w, err := bulkwriter.New(s, store)
//
// # Features
//
//   - CRC32C checksums on every upload
//   - Multipart uploads for large files
//   - Automatic pagination for listing
//   - Configurable prefix for multi-tenant isolation
package s3
