// Package conv provides checked numeric conversions.
//
// Every function rejects inputs the target type cannot represent instead of
// silently wrapping. Wrapping conversions that the wire model requires (for
// example narrowing an int64 into an Int8 column) are plain casts at the call
// site.
package conv
