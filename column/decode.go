package column

import (
	"fmt"
	"slices"

	"github.com/hupe1980/vecwire/jsondoc"
	"github.com/hupe1980/vecwire/schema"
	"github.com/hupe1980/vecwire/vector"
)

// decode converts a column payload into one value per row. Null rows may
// hold a placeholder; the caller resolves them.
func decode(c *Column) ([]any, error) {
	t := c.Field.Type
	validity := NewValidity(c.Valid)

	var (
		vals []any
		err  error
	)
	switch {
	case t.IsScalar():
		vals, err = decodeScalars(t, c.Payload)
	case t == schema.FloatVector:
		var vecs []vector.FloatVector
		vecs, err = vector.DecodeFloat(c.Payload.(FloatData), c.Dim)
		vals = boxVectors(vecs)
	case t.IsFixedWidthVector():
		vals, err = vector.DecodeBlob(t, c.Payload.(ByteData), c.Dim)
	case t == schema.JSON:
		vals, err = perRow(c, validity, func(i int) (any, error) {
			return jsondoc.NewDocument(c.Payload.(BlobData)[i]), nil
		})
	case t == schema.SparseFloatVector:
		vals, err = perRow(c, validity, func(i int) (any, error) {
			return vector.DecodeSparse(c.Payload.(BlobData)[i])
		})
	case t == schema.Array:
		vals, err = perRow(c, validity, func(i int) (any, error) {
			return decodeArray(c.Field.ElementType, c.Payload.(ListData)[i])
		})
	case t == schema.StructArray:
		vals, err = transpose(c, validity)
	default:
		err = fmt.Errorf("%w: %s", schema.ErrUnsupportedLogicalType, t)
	}
	if err != nil {
		return nil, err
	}
	if len(vals) != c.Rows {
		return nil, fmt.Errorf("%w: payload holds %d rows, column declares %d", ErrRowCountMismatch, len(vals), c.Rows)
	}
	return vals, nil
}

// perRow decodes a one-entry-per-row payload, skipping null rows.
func perRow(c *Column, validity Validity, fn func(i int) (any, error)) ([]any, error) {
	if n := c.Payload.Len(); n != c.Rows {
		return nil, fmt.Errorf("%w: payload holds %d rows, column declares %d", ErrRowCountMismatch, n, c.Rows)
	}
	out := make([]any, c.Rows)
	for i := range c.Rows {
		if validity.IsNull(i) {
			continue
		}
		v, err := fn(i)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i, err)
		}
		out[i] = v
	}
	return out, nil
}

// decodeScalars converts a flat scalar payload into one value per entry.
func decodeScalars(t schema.DataType, p Payload) ([]any, error) {
	switch data := p.(type) {
	case BoolData:
		return boxAll(data), nil
	case IntData:
		switch t {
		case schema.Int8:
			return boxConv(data, func(v int32) int8 { return int8(v) }), nil
		case schema.Int16:
			return boxConv(data, func(v int32) int16 { return int16(v) }), nil
		default:
			return boxAll(data), nil
		}
	case LongData:
		return boxAll(data), nil
	case FloatData:
		return boxAll(data), nil
	case DoubleData:
		return boxAll(data), nil
	case StringData:
		return boxAll(data), nil
	default:
		return nil, fmt.Errorf("%w: %s payload cannot hold %s values", ErrMalformedColumn, p.Kind(), t)
	}
}

// decodeArray converts one row of an array column into a typed slice.
func decodeArray(elem schema.DataType, p Payload) (any, error) {
	switch data := p.(type) {
	case BoolData:
		return slices.Clone([]bool(data)), nil
	case IntData:
		switch elem {
		case schema.Int8:
			return convAll(data, func(v int32) int8 { return int8(v) }), nil
		case schema.Int16:
			return convAll(data, func(v int32) int16 { return int16(v) }), nil
		default:
			return slices.Clone([]int32(data)), nil
		}
	case LongData:
		return slices.Clone([]int64(data)), nil
	case FloatData:
		return slices.Clone([]float32(data)), nil
	case DoubleData:
		return slices.Clone([]float64(data)), nil
	case StringData:
		return slices.Clone([]string(data)), nil
	default:
		return nil, fmt.Errorf("%w: %s payload cannot hold %s elements", ErrMalformedColumn, p.Kind(), elem)
	}
}

// decodeElements converts one row of a struct array sub-field into its
// element values.
func decodeElements(f schema.Field, dim int, p Payload) ([]any, error) {
	switch {
	case f.Type.IsScalar():
		return decodeScalars(f.Type, p)
	case f.Type == schema.FloatVector:
		vecs, err := vector.DecodeFloat(p.(FloatData), dim)
		return boxVectors(vecs), err
	case f.Type.IsFixedWidthVector():
		return vector.DecodeBlob(f.Type, p.(ByteData), dim)
	case f.Type == schema.SparseFloatVector:
		blobs := p.(BlobData)
		out := make([]any, len(blobs))
		for i, b := range blobs {
			sv, err := vector.DecodeSparse(b)
			if err != nil {
				return nil, fmt.Errorf("element %d: %w", i, err)
			}
			out[i] = sv
		}
		return out, nil
	default:
		return nil, fmt.Errorf("%w: %s", schema.ErrUnsupportedLogicalType, f.Type)
	}
}

func boxAll[T any](data []T) []any {
	out := make([]any, len(data))
	for i, v := range data {
		out[i] = v
	}
	return out
}

func boxConv[S, T any](data []S, fn func(S) T) []any {
	out := make([]any, len(data))
	for i, v := range data {
		out[i] = fn(v)
	}
	return out
}

func convAll[S, T any](data []S, fn func(S) T) []T {
	out := make([]T, len(data))
	for i, v := range data {
		out[i] = fn(v)
	}
	return out
}

func boxVectors(vecs []vector.FloatVector) []any {
	if vecs == nil {
		return nil
	}
	return boxAll(vecs)
}
