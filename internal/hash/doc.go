// Package hash provides the checksums recorded for bulk import files.
//
// # CRC32-Castagnoli (CRC32C)
//
// Every file written by the bulk writer carries the CRC32C of its stored
// (possibly compressed) bytes. Readers verify it before decompressing.
//
// For one-shot checksums:
//
//	checksum := hash.CRC32C(data)
//
// For streaming checksums:
//
//	h := hash.NewCRC32C()
//	h.Write(chunk1)
//	h.Write(chunk2)
//	checksum := h.Sum32()
//
// Go's crc32 package uses hardware instructions (SSE4.2, ARM CRC) when
// available.
package hash
