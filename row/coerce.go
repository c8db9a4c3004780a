package row

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"

	"github.com/hupe1980/vecwire/internal/conv"
	"github.com/hupe1980/vecwire/vector"
)

// Scalar coercion. Go integers wrap to the target width, floats truncate
// toward zero and strings are parsed with the target type's textual rules
// when parse is set.

func coercionErr(v any, target string) error {
	return fmt.Errorf("%w: cannot use %T value %v as %s", ErrTypeCoercion, v, v, target)
}

func coerceInt(v any, parse bool) (int64, error) {
	switch x := v.(type) {
	case int:
		return int64(x), nil
	case int8:
		return int64(x), nil
	case int16:
		return int64(x), nil
	case int32:
		return int64(x), nil
	case int64:
		return x, nil
	case uint:
		return int64(x), nil //nolint:gosec // wraps like every narrowing conversion
	case uint8:
		return int64(x), nil
	case uint16:
		return int64(x), nil
	case uint32:
		return int64(x), nil
	case uint64:
		return int64(x), nil //nolint:gosec // wraps like every narrowing conversion
	case float32:
		return floatToInt(float64(x))
	case float64:
		return floatToInt(x)
	case json.Number:
		if i, err := x.Int64(); err == nil {
			return i, nil
		}
		f, err := x.Float64()
		if err != nil {
			return 0, coercionErr(v, "integer")
		}
		return floatToInt(f)
	case string:
		if !parse {
			return 0, coercionErr(v, "integer")
		}
		i, err := strconv.ParseInt(x, 10, 64)
		if err != nil {
			return 0, fmt.Errorf("%w: %w", ErrTypeCoercion, err)
		}
		return i, nil
	default:
		return 0, coercionErr(v, "integer")
	}
}

func floatToInt(f float64) (int64, error) {
	i, err := conv.Float64ToInt64(f)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrTypeCoercion, err)
	}
	return i, nil
}

func coerceFloat(v any, bits int, parse bool) (float64, error) {
	switch x := v.(type) {
	case float32:
		return float64(x), nil
	case float64:
		return x, nil
	case int:
		return float64(x), nil
	case int8:
		return float64(x), nil
	case int16:
		return float64(x), nil
	case int32:
		return float64(x), nil
	case int64:
		return float64(x), nil
	case uint:
		return float64(x), nil
	case uint8:
		return float64(x), nil
	case uint16:
		return float64(x), nil
	case uint32:
		return float64(x), nil
	case uint64:
		return float64(x), nil
	case json.Number:
		f, err := strconv.ParseFloat(x.String(), bits)
		if err != nil {
			return 0, fmt.Errorf("%w: %w", ErrTypeCoercion, err)
		}
		return f, nil
	case string:
		if !parse {
			return 0, coercionErr(v, "float")
		}
		f, err := strconv.ParseFloat(x, bits)
		if err != nil {
			return 0, fmt.Errorf("%w: %w", ErrTypeCoercion, err)
		}
		return f, nil
	default:
		return 0, coercionErr(v, "float")
	}
}

func coerceBool(v any, parse bool) (bool, error) {
	switch x := v.(type) {
	case bool:
		return x, nil
	case string:
		if !parse {
			return false, coercionErr(v, "bool")
		}
		b, err := strconv.ParseBool(x)
		if err != nil {
			return false, fmt.Errorf("%w: %w", ErrTypeCoercion, err)
		}
		return b, nil
	default:
		return false, coercionErr(v, "bool")
	}
}

func coerceString(v any) (string, error) {
	s, ok := v.(string)
	if !ok {
		return "", coercionErr(v, "string")
	}
	return s, nil
}

// Composite shapes. These never parse or convert between kinds.

func shapeErr(v any, want string) error {
	return fmt.Errorf("%w: got %T, want %s", ErrShapeMismatch, v, want)
}

func dimErr(got, want int) error {
	return fmt.Errorf("%w: %w: got %d, want %d", ErrShapeMismatch, vector.ErrDimensionMismatch, got, want)
}

// asList returns the elements of a slice input.
func asList(v any) ([]any, bool) {
	switch x := v.(type) {
	case []any:
		return x, true
	case []string:
		return box(x), true
	case []bool:
		return box(x), true
	case []int:
		return box(x), true
	case []int8:
		return box(x), true
	case []int16:
		return box(x), true
	case []int32:
		return box(x), true
	case []int64:
		return box(x), true
	case []float32:
		return box(x), true
	case []float64:
		return box(x), true
	default:
		return nil, false
	}
}

func box[T any](s []T) []any {
	out := make([]any, len(s))
	for i, v := range s {
		out[i] = v
	}
	return out
}

// asFloats returns a numeric list as float32 values.
func asFloats(v any) ([]float32, bool) {
	switch x := v.(type) {
	case vector.FloatVector:
		return x, true
	case []float32:
		return x, true
	case []float64:
		out := make([]float32, len(x))
		for i, f := range x {
			out[i] = float32(f)
		}
		return out, true
	case []any:
		out := make([]float32, len(x))
		for i, e := range x {
			f, err := coerceFloat(e, 32, false)
			if err != nil {
				return nil, false
			}
			out[i] = float32(f)
		}
		return out, true
	default:
		return nil, false
	}
}

func coerceFloatVector(v any, dim int) ([]float32, error) {
	fs, ok := asFloats(v)
	if !ok {
		return nil, shapeErr(v, "float vector")
	}
	if len(fs) != dim {
		return nil, dimErr(len(fs), dim)
	}
	return fs, nil
}

func coerceBinaryVector(v any, dim int) ([]byte, error) {
	var b []byte
	switch x := v.(type) {
	case vector.BinaryVector:
		b = x
	case []byte:
		b = x
	default:
		return nil, shapeErr(v, "binary vector")
	}
	if len(b)*8 != dim {
		return nil, dimErr(len(b)*8, dim)
	}
	return b, nil
}

// coerceHalfVector accepts a typed half-precision vector, its raw
// little-endian bytes or a numeric list that is rounded to half precision.
func coerceHalfVector(v any, dim int, brain bool) ([]byte, error) {
	var b []byte
	switch x := v.(type) {
	case vector.Float16Vector:
		if brain {
			return nil, shapeErr(v, "bfloat16 vector")
		}
		b = x
	case vector.BFloat16Vector:
		if !brain {
			return nil, shapeErr(v, "float16 vector")
		}
		b = x
	case []byte:
		b = x
	default:
		fs, ok := asFloats(v)
		if !ok {
			return nil, shapeErr(v, "half precision vector")
		}
		if len(fs) != dim {
			return nil, dimErr(len(fs), dim)
		}
		if brain {
			return vector.BFloat16FromFloat32s(fs), nil
		}
		return vector.Float16FromFloat32s(fs), nil
	}
	if len(b) != dim*2 {
		return nil, dimErr(len(b)/2, dim)
	}
	return b, nil
}

func coerceInt8Vector(v any, dim int) ([]byte, error) {
	var out []byte
	switch x := v.(type) {
	case vector.Int8Vector:
		out = x.Bytes()
	case []int8:
		out = vector.Int8Vector(x).Bytes()
	case []byte:
		out = x
	case []any:
		out = make([]byte, len(x))
		for i, e := range x {
			if _, isString := e.(string); isString {
				return nil, shapeErr(e, "int8 element")
			}
			n, err := coerceInt(e, false)
			if err != nil || n < math.MinInt8 || n > math.MaxInt8 {
				return nil, shapeErr(e, "int8 element")
			}
			out[i] = byte(int8(n))
		}
	default:
		return nil, shapeErr(v, "int8 vector")
	}
	if len(out) != dim {
		return nil, dimErr(len(out), dim)
	}
	return out, nil
}

func coerceSparse(v any) (vector.SparseVector, error) {
	var (
		sv  vector.SparseVector
		err error
	)
	switch x := v.(type) {
	case vector.SparseVector:
		sv, err = vector.NewSparseVectorFromSlices(x.Indices, x.Values)
	case map[int64]float32:
		sv, err = vector.NewSparseVector(x)
	case map[int]float32:
		sv, err = vector.NewSparseVector(widenKeys(x))
	case map[uint32]float32:
		sv, err = vector.NewSparseVector(widenKeys(x))
	case map[int64]float64:
		m := make(map[int64]float32, len(x))
		for k, f := range x {
			m[k] = float32(f)
		}
		sv, err = vector.NewSparseVector(m)
	case map[string]any:
		sv, err = sparseFromPair(x)
	default:
		return vector.SparseVector{}, shapeErr(v, "sparse vector")
	}
	if err != nil {
		return vector.SparseVector{}, fmt.Errorf("%w: %w", ErrShapeMismatch, err)
	}
	return sv, nil
}

func widenKeys[K int | uint32](m map[K]float32) map[int64]float32 {
	out := make(map[int64]float32, len(m))
	for k, f := range m {
		out[int64(k)] = f
	}
	return out
}

// sparseFromPair reads the {"indices": [...], "values": [...]} form.
func sparseFromPair(m map[string]any) (vector.SparseVector, error) {
	rawIdx, okI := asList(m["indices"])
	values, okV := asFloats(m["values"])
	if !okI || !okV || len(m) != 2 {
		return vector.SparseVector{}, errors.New("expected indices and values lists")
	}
	if len(rawIdx) != len(values) {
		return vector.SparseVector{}, fmt.Errorf("%d indices for %d values", len(rawIdx), len(values))
	}
	sparse := make(map[int64]float32, len(rawIdx))
	for i, e := range rawIdx {
		idx, err := coerceInt(e, false)
		if err != nil {
			return vector.SparseVector{}, err
		}
		if _, dup := sparse[idx]; dup {
			return vector.SparseVector{}, fmt.Errorf("%w: duplicate index %d", vector.ErrMalformedSparseVector, idx)
		}
		sparse[idx] = values[i]
	}
	return vector.NewSparseVector(sparse)
}

// asStructList returns the elements of a struct array input.
func asStructList(v any) ([]map[string]any, error) {
	switch x := v.(type) {
	case []map[string]any:
		return x, nil
	case []any:
		out := make([]map[string]any, len(x))
		for i, e := range x {
			m, ok := e.(map[string]any)
			if !ok {
				return nil, fmt.Errorf("element %d: %w", i, shapeErr(e, "struct"))
			}
			out[i] = m
		}
		return out, nil
	default:
		return nil, shapeErr(v, "list of structs")
	}
}
