// Package bulkwriter stages rows as import files in blob storage for the
// server's bulk-import API.
//
// Rows are validated and coerced against the collection schema when they are
// appended, so a file never contains a row the server would reject for its
// shape. Buffered rows are flushed to a new file whenever their serialized
// size reaches Config.ChunkSize.
//
// Each file is a JSON document {"rows":[...]} named
// <prefix>/<batch-uuid>/<seq>.json, optionally LZ4 or ZSTD compressed
// (.json.lz4, .json.zst). Files() reports the row count and CRC32C of every
// uploaded file.
//
// # Usage
//
//	w, err := bulkwriter.New(s, store,
//	    bulkwriter.WithCompression(bulkwriter.CompressionZSTD),
//	)
//	if err != nil {
//	    return err
//	}
//	for _, r := range rows {
//	    if err := w.Append(ctx, r); err != nil {
//	        return err
//	    }
//	}
//	if err := w.Commit(ctx); err != nil {
//	    return err
//	}
//	for _, f := range w.Files() {
//	    fmt.Println(f.Name, f.Rows)
//	}
package bulkwriter
