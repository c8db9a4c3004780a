// Package vector converts between typed vectors and their wire encodings.
//
// Dense vectors travel as one contiguous payload per column:
//
//	FloatVector     dim float32 values
//	BinaryVector    dim/8 bytes (dim must be a multiple of 8)
//	Float16Vector   dim*2 bytes, little-endian IEEE binary16
//	BFloat16Vector  dim*2 bytes, little-endian bfloat16
//	Int8Vector      dim bytes
//
// A payload whose size is not an exact multiple of the per-vector footprint
// is rejected with ErrDimensionMismatch.
//
// Sparse vectors travel as one blob per row: consecutive 8-byte entries of
// a little-endian uint32 index followed by a little-endian float32 value,
// indices strictly ascending.
//
// Decoded vectors never alias the payload they were decoded from.
package vector
