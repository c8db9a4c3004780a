// Package jsondoc provides lazy access to JSON field values.
//
// A Document keeps the raw UTF-8 bytes it was built from and parses them
// only when asked. Single-key lookups project the requested member without
// materializing the rest of the document; Element builds the full Value tree
// once and caches it.
//
// Numbers without a fractional part surface as KindInt, all other numbers as
// KindFloat.
package jsondoc
