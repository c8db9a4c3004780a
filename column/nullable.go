package column

import (
	"fmt"

	"github.com/RoaringBitmap/roaring/v2"
)

// Validity is the set of null rows of a column.
type Validity struct {
	nulls *roaring.Bitmap
	rows  int
}

// NewValidity builds a Validity from per-row presence flags.
// A nil slice means every row is present.
func NewValidity(valid []bool) Validity {
	nulls := roaring.New()
	for i, ok := range valid {
		if !ok {
			nulls.Add(uint32(i))
		}
	}
	return Validity{nulls: nulls, rows: len(valid)}
}

// IsNull reports whether row i is null.
func (v Validity) IsNull(i int) bool {
	if v.nulls == nil || i < 0 {
		return false
	}
	return v.nulls.Contains(uint32(i))
}

// NullCount returns the number of null rows.
func (v Validity) NullCount() int {
	if v.nulls == nil {
		return 0
	}
	return int(v.nulls.GetCardinality())
}

// ForEachNull calls fn for every null row in ascending order.
func (v Validity) ForEachNull(fn func(row int) bool) {
	if v.nulls == nil {
		return
	}
	it := v.nulls.Iterator()
	for it.HasNext() {
		if !fn(int(it.Next())) {
			return
		}
	}
}

// ResolveNulls returns a new slice where every row marked absent in valid is
// nil and every other row is taken from values. values is not modified.
func ResolveNulls(values []any, valid []bool) ([]any, error) {
	if len(valid) != 0 && len(valid) != len(values) {
		return nil, fmt.Errorf("%w: validity bitmap has %d entries for %d values", ErrMalformedColumn, len(valid), len(values))
	}
	out := make([]any, len(values))
	copy(out, values)
	NewValidity(valid).ForEachNull(func(row int) bool {
		out[row] = nil
		return true
	})
	return out, nil
}
