package column

import (
	"slices"

	"github.com/hupe1980/vecwire/vector"
)

// cloneValue copies a decoded value so that it shares no memory with the
// column's decode cache. Documents are immutable and returned as is.
func cloneValue(v any) any {
	switch x := v.(type) {
	case []bool:
		return slices.Clone(x)
	case []int8:
		return slices.Clone(x)
	case []int16:
		return slices.Clone(x)
	case []int32:
		return slices.Clone(x)
	case []int64:
		return slices.Clone(x)
	case []float32:
		return slices.Clone(x)
	case []float64:
		return slices.Clone(x)
	case []string:
		return slices.Clone(x)
	case []map[string]any:
		out := make([]map[string]any, len(x))
		for i, m := range x {
			elem := make(map[string]any, len(m))
			for k, e := range m {
				elem[k] = cloneValue(e)
			}
			out[i] = elem
		}
		return out
	default:
		return vector.Clone(v)
	}
}
