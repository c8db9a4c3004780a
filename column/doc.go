// Package column models wire columns and decodes them into per-row values.
//
// A Column pairs a field descriptor with a payload for N rows and an optional
// validity bitmap. Payloads are a closed set of variants:
//
//	BoolData, IntData, LongData, FloatData, DoubleData, StringData  scalars
//	ByteData    fixed-width byte vectors, concatenated
//	BlobData    one blob per row (JSON, sparse vectors)
//	ListData    one sub-payload per row (arrays, struct sub-fields)
//	StructData  sibling sub-field columns of a struct array
//
// Values decodes a column once and caches the result. Null rows decode to
// nil. Struct arrays decode to []map[string]any per row, built by transposing
// their sub-field columns.
package column
