package vector

import (
	"errors"
	"fmt"
	"slices"

	"github.com/hupe1980/vecwire/internal/half"
	"github.com/hupe1980/vecwire/schema"
)

var (
	// ErrDimensionMismatch is returned when a byte or element count is not an
	// exact multiple of the per-vector footprint.
	ErrDimensionMismatch = errors.New("dimension mismatch")

	// ErrMalformedSparseVector is returned for sparse blobs that are not a
	// sequence of ascending, unique (index, value) entries.
	ErrMalformedSparseVector = errors.New("malformed sparse vector")
)

// FloatVector is a dense float32 vector.
type FloatVector []float32

// BinaryVector is a packed bit vector: dim/8 bytes, bit i of the vector is
// bit i%8 (least significant first) of byte i/8.
type BinaryVector []byte

// Float16Vector holds dim little-endian IEEE binary16 values (2 bytes each).
type Float16Vector []byte

// BFloat16Vector holds dim little-endian bfloat16 values (2 bytes each).
type BFloat16Vector []byte

// Int8Vector is a dense vector of signed bytes.
type Int8Vector []int8

// Dim returns the vector dimension.
func (v FloatVector) Dim() int { return len(v) }

// Dim returns the vector dimension.
func (v BinaryVector) Dim() int { return len(v) * 8 }

// Dim returns the vector dimension.
func (v Float16Vector) Dim() int { return len(v) / 2 }

// Dim returns the vector dimension.
func (v BFloat16Vector) Dim() int { return len(v) / 2 }

// Dim returns the vector dimension.
func (v Int8Vector) Dim() int { return len(v) }

// Bytes returns the little-endian float32 encoding of v.
func (v FloatVector) Bytes() []byte {
	return appendFloat32s(make([]byte, 0, len(v)*4), v)
}

// Float32s widens the vector to float32.
func (v Float16Vector) Float32s() []float32 {
	out := make([]float32, v.Dim())
	half.Float16s(out, v)
	return out
}

// Float32s widens the vector to float32.
func (v BFloat16Vector) Float32s() []float32 {
	out := make([]float32, v.Dim())
	half.BFloat16s(out, v)
	return out
}

// Bytes returns the raw two's-complement bytes of v.
func (v Int8Vector) Bytes() []byte {
	out := make([]byte, len(v))
	for i, x := range v {
		out[i] = byte(x)
	}
	return out
}

// Bit reports whether bit i is set.
func (v BinaryVector) Bit(i int) bool {
	return v[i/8]&(1<<(uint(i)%8)) != 0
}

// Float16FromFloat32s rounds src to binary16.
func Float16FromFloat32s(src []float32) Float16Vector {
	return half.AppendFloat16s(make([]byte, 0, len(src)*2), src)
}

// BFloat16FromFloat32s rounds src to bfloat16.
func BFloat16FromFloat32s(src []float32) BFloat16Vector {
	return half.AppendBFloat16s(make([]byte, 0, len(src)*2), src)
}

// Int8FromBytes reinterprets raw bytes as signed values.
func Int8FromBytes(b []byte) Int8Vector {
	out := make(Int8Vector, len(b))
	for i, x := range b {
		out[i] = int8(x)
	}
	return out
}

// Footprint returns the wire size in bytes of one vector of type t and
// dimension dim. Sparse vectors have no fixed footprint.
func Footprint(t schema.DataType, dim int) (int, error) {
	if dim <= 0 {
		return 0, fmt.Errorf("%w: dimension %d", ErrDimensionMismatch, dim)
	}
	switch t {
	case schema.FloatVector:
		return dim * 4, nil
	case schema.BinaryVector:
		if dim%8 != 0 {
			return 0, fmt.Errorf("%w: binary dimension %d is not a multiple of 8", ErrDimensionMismatch, dim)
		}
		return dim / 8, nil
	case schema.Float16Vector, schema.BFloat16Vector:
		return dim * 2, nil
	case schema.Int8Vector:
		return dim, nil
	default:
		return 0, fmt.Errorf("%w: %s has no fixed footprint", schema.ErrUnsupportedLogicalType, t)
	}
}

// Clone returns a deep copy of a decoded vector value.
func Clone(v any) any {
	switch x := v.(type) {
	case FloatVector:
		return slices.Clone(x)
	case BinaryVector:
		return slices.Clone(x)
	case Float16Vector:
		return slices.Clone(x)
	case BFloat16Vector:
		return slices.Clone(x)
	case Int8Vector:
		return slices.Clone(x)
	case SparseVector:
		return x.Clone()
	default:
		return v
	}
}
