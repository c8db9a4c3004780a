package row

import (
	"fmt"
	"maps"
	"slices"

	"github.com/hupe1980/vecwire/jsondoc"
	"github.com/hupe1980/vecwire/vector"
)

// Record is one decoded row: an ordered mapping from field name to value.
// Records are read-only after construction.
type Record struct {
	names  []string
	values []any
	index  map[string]int
}

// NewRecord creates a record from parallel name and value slices.
func NewRecord(names []string, values []any) *Record {
	r := &Record{
		names:  slices.Clone(names),
		values: slices.Clone(values),
		index:  make(map[string]int, len(names)),
	}
	for i, n := range r.names {
		r.index[n] = i
	}
	return r
}

// Len returns the number of fields.
func (r *Record) Len() int { return len(r.names) }

// Fields returns the field names in order.
func (r *Record) Fields() []string { return slices.Clone(r.names) }

// Has reports whether the record contains the field.
func (r *Record) Has(name string) bool {
	_, ok := r.index[name]
	return ok
}

// Get returns the value of a field.
func (r *Record) Get(name string) (any, bool) {
	i, ok := r.index[name]
	if !ok {
		return nil, false
	}
	return r.values[i], true
}

// IsNull reports whether the field is absent or null.
func (r *Record) IsNull(name string) bool {
	v, ok := r.Get(name)
	return !ok || v == nil
}

// Map returns the record as a map. Values are shared with the record.
func (r *Record) Map() map[string]any {
	m := make(map[string]any, len(r.names))
	for i, n := range r.names {
		m[n] = r.values[i]
	}
	return m
}

// Range calls fn for every field in order until fn returns false.
func (r *Record) Range(fn func(name string, value any) bool) {
	for i, n := range r.names {
		if !fn(n, r.values[i]) {
			return
		}
	}
}

func (r *Record) lookup(name string) (any, error) {
	v, ok := r.Get(name)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrFieldNotFound, name)
	}
	if v == nil {
		return nil, fmt.Errorf("%w: %q", ErrNullValue, name)
	}
	return v, nil
}

func mismatch(name string, want string, v any) error {
	return fmt.Errorf("%w: field %q holds %T, not %s", ErrTypeMismatch, name, v, want)
}

// GetBool returns a boolean field.
func (r *Record) GetBool(name string) (bool, error) {
	v, err := r.lookup(name)
	if err != nil {
		return false, err
	}
	b, ok := v.(bool)
	if !ok {
		return false, mismatch(name, "bool", v)
	}
	return b, nil
}

// GetInt returns an integer field of any width as int64.
func (r *Record) GetInt(name string) (int64, error) {
	v, err := r.lookup(name)
	if err != nil {
		return 0, err
	}
	switch x := v.(type) {
	case int8:
		return int64(x), nil
	case int16:
		return int64(x), nil
	case int32:
		return int64(x), nil
	case int64:
		return x, nil
	default:
		return 0, mismatch(name, "integer", v)
	}
}

// GetFloat returns a Float or Double field as float64.
func (r *Record) GetFloat(name string) (float64, error) {
	v, err := r.lookup(name)
	if err != nil {
		return 0, err
	}
	switch x := v.(type) {
	case float32:
		return float64(x), nil
	case float64:
		return x, nil
	default:
		return 0, mismatch(name, "floating point", v)
	}
}

// GetString returns a String, VarChar or Geometry field.
func (r *Record) GetString(name string) (string, error) {
	v, err := r.lookup(name)
	if err != nil {
		return "", err
	}
	s, ok := v.(string)
	if !ok {
		return "", mismatch(name, "string", v)
	}
	return s, nil
}

// GetFloatVector returns a dense vector widened to float32. Float16 and
// BFloat16 vectors are converted.
func (r *Record) GetFloatVector(name string) (vector.FloatVector, error) {
	v, err := r.lookup(name)
	if err != nil {
		return nil, err
	}
	switch x := v.(type) {
	case vector.FloatVector:
		return slices.Clone(x), nil
	case vector.Float16Vector:
		return x.Float32s(), nil
	case vector.BFloat16Vector:
		return x.Float32s(), nil
	default:
		return nil, mismatch(name, "float vector", v)
	}
}

// GetVectorBytes returns the wire bytes of a dense vector: little-endian
// float32 for float vectors, the raw payload for every other kind.
func (r *Record) GetVectorBytes(name string) ([]byte, error) {
	v, err := r.lookup(name)
	if err != nil {
		return nil, err
	}
	switch x := v.(type) {
	case vector.FloatVector:
		return x.Bytes(), nil
	case vector.BinaryVector:
		return slices.Clone([]byte(x)), nil
	case vector.Float16Vector:
		return slices.Clone([]byte(x)), nil
	case vector.BFloat16Vector:
		return slices.Clone([]byte(x)), nil
	case vector.Int8Vector:
		return x.Bytes(), nil
	default:
		return nil, mismatch(name, "dense vector", v)
	}
}

// GetSparseVector returns a sparse vector field.
func (r *Record) GetSparseVector(name string) (vector.SparseVector, error) {
	v, err := r.lookup(name)
	if err != nil {
		return vector.SparseVector{}, err
	}
	sv, ok := v.(vector.SparseVector)
	if !ok {
		return vector.SparseVector{}, mismatch(name, "sparse vector", v)
	}
	return sv.Clone(), nil
}

// GetJSON returns a JSON field.
func (r *Record) GetJSON(name string) (*jsondoc.Document, error) {
	v, err := r.lookup(name)
	if err != nil {
		return nil, err
	}
	d, ok := v.(*jsondoc.Document)
	if !ok {
		return nil, mismatch(name, "json", v)
	}
	return d, nil
}

// GetStructArray returns a struct array field. An empty struct array yields
// an empty, non-nil slice.
func (r *Record) GetStructArray(name string) ([]map[string]any, error) {
	v, err := r.lookup(name)
	if err != nil {
		return nil, err
	}
	group, ok := v.([]map[string]any)
	if !ok {
		return nil, mismatch(name, "struct array", v)
	}
	out := make([]map[string]any, len(group))
	for i, m := range group {
		out[i] = maps.Clone(m)
	}
	return out, nil
}

// GetAs returns a field asserted to type T.
func GetAs[T any](r *Record, name string) (T, error) {
	var zero T
	v, err := r.lookup(name)
	if err != nil {
		return zero, err
	}
	t, ok := v.(T)
	if !ok {
		return zero, mismatch(name, fmt.Sprintf("%T", zero), v)
	}
	return t, nil
}
