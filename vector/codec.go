package vector

import (
	"fmt"

	"github.com/hupe1980/vecwire/schema"
)

func errDims(n, footprint int) error {
	return fmt.Errorf("%w: %d is not a multiple of the per-vector size %d", ErrDimensionMismatch, n, footprint)
}

// DecodeFloat splits a flat float32 payload into vectors of length dim.
func DecodeFloat(data []float32, dim int) ([]FloatVector, error) {
	if dim <= 0 {
		return nil, fmt.Errorf("%w: dimension %d", ErrDimensionMismatch, dim)
	}
	if len(data)%dim != 0 {
		return nil, errDims(len(data), dim)
	}
	n := len(data) / dim
	// One backing array, one copy.
	backing := make([]float32, len(data))
	copy(backing, data)
	out := make([]FloatVector, n)
	for i := range n {
		out[i] = backing[i*dim : (i+1)*dim : (i+1)*dim]
	}
	return out, nil
}

// DecodeBinary splits a byte blob into binary vectors of dimension dim.
func DecodeBinary(data []byte, dim int) ([]BinaryVector, error) {
	return decodeBytes[BinaryVector](schema.BinaryVector, data, dim)
}

// DecodeFloat16 splits a byte blob into float16 vectors of dimension dim.
func DecodeFloat16(data []byte, dim int) ([]Float16Vector, error) {
	return decodeBytes[Float16Vector](schema.Float16Vector, data, dim)
}

// DecodeBFloat16 splits a byte blob into bfloat16 vectors of dimension dim.
func DecodeBFloat16(data []byte, dim int) ([]BFloat16Vector, error) {
	return decodeBytes[BFloat16Vector](schema.BFloat16Vector, data, dim)
}

// DecodeInt8 splits a byte blob into int8 vectors of dimension dim.
func DecodeInt8(data []byte, dim int) ([]Int8Vector, error) {
	if _, err := Footprint(schema.Int8Vector, dim); err != nil {
		return nil, err
	}
	if len(data)%dim != 0 {
		return nil, errDims(len(data), dim)
	}
	backing := Int8FromBytes(data)
	n := len(data) / dim
	out := make([]Int8Vector, n)
	for i := range n {
		out[i] = backing[i*dim : (i+1)*dim : (i+1)*dim]
	}
	return out, nil
}

func decodeBytes[V ~[]byte](t schema.DataType, data []byte, dim int) ([]V, error) {
	size, err := Footprint(t, dim)
	if err != nil {
		return nil, err
	}
	if len(data)%size != 0 {
		return nil, errDims(len(data), size)
	}
	backing := make([]byte, len(data))
	copy(backing, data)
	n := len(data) / size
	out := make([]V, n)
	for i := range n {
		out[i] = V(backing[i*size : (i+1)*size : (i+1)*size])
	}
	return out, nil
}

// DecodeBlob decodes a byte blob of a byte-encoded vector type and returns
// the vectors as values.
func DecodeBlob(t schema.DataType, data []byte, dim int) ([]any, error) {
	switch t {
	case schema.BinaryVector:
		vs, err := DecodeBinary(data, dim)
		return boxed(vs), err
	case schema.Float16Vector:
		vs, err := DecodeFloat16(data, dim)
		return boxed(vs), err
	case schema.BFloat16Vector:
		vs, err := DecodeBFloat16(data, dim)
		return boxed(vs), err
	case schema.Int8Vector:
		vs, err := DecodeInt8(data, dim)
		return boxed(vs), err
	default:
		return nil, fmt.Errorf("%w: %s is not a byte-encoded vector", schema.ErrUnsupportedLogicalType, t)
	}
}

func boxed[V any](vs []V) []any {
	if vs == nil {
		return nil
	}
	out := make([]any, len(vs))
	for i, v := range vs {
		out[i] = v
	}
	return out
}

// EncodeFloat flattens float vectors of dimension dim.
func EncodeFloat(vecs []FloatVector, dim int) ([]float32, error) {
	out := make([]float32, 0, len(vecs)*dim)
	for i, v := range vecs {
		if len(v) != dim {
			return nil, fmt.Errorf("%w: vector %d has %d elements, expected %d", ErrDimensionMismatch, i, len(v), dim)
		}
		out = append(out, v...)
	}
	return out, nil
}

// EncodeBinary concatenates binary vectors of dimension dim.
func EncodeBinary(vecs []BinaryVector, dim int) ([]byte, error) {
	return encodeBytes(schema.BinaryVector, vecs, dim)
}

// EncodeFloat16 concatenates float16 vectors of dimension dim.
func EncodeFloat16(vecs []Float16Vector, dim int) ([]byte, error) {
	return encodeBytes(schema.Float16Vector, vecs, dim)
}

// EncodeBFloat16 concatenates bfloat16 vectors of dimension dim.
func EncodeBFloat16(vecs []BFloat16Vector, dim int) ([]byte, error) {
	return encodeBytes(schema.BFloat16Vector, vecs, dim)
}

// EncodeInt8 concatenates int8 vectors of dimension dim.
func EncodeInt8(vecs []Int8Vector, dim int) ([]byte, error) {
	if _, err := Footprint(schema.Int8Vector, dim); err != nil {
		return nil, err
	}
	out := make([]byte, 0, len(vecs)*dim)
	for i, v := range vecs {
		if len(v) != dim {
			return nil, fmt.Errorf("%w: vector %d has %d elements, expected %d", ErrDimensionMismatch, i, len(v), dim)
		}
		out = append(out, v.Bytes()...)
	}
	return out, nil
}

func encodeBytes[V ~[]byte](t schema.DataType, vecs []V, dim int) ([]byte, error) {
	size, err := Footprint(t, dim)
	if err != nil {
		return nil, err
	}
	out := make([]byte, 0, len(vecs)*size)
	for i, v := range vecs {
		if len(v) != size {
			return nil, fmt.Errorf("%w: vector %d has %d bytes, expected %d", ErrDimensionMismatch, i, len(v), size)
		}
		out = append(out, v...)
	}
	return out, nil
}
