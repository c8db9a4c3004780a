package row

import (
	"encoding/json"
	"fmt"
	"math"
	"slices"
	"unicode/utf8"

	"github.com/hupe1980/vecwire/codec"
	"github.com/hupe1980/vecwire/column"
	"github.com/hupe1980/vecwire/schema"
	"github.com/hupe1980/vecwire/vector"
	"github.com/tidwall/gjson"
)

type splitOptions struct {
	upsert bool
	codec  codec.Codec
}

// SplitOption configures Split.
type SplitOption func(*splitOptions)

// ForUpsert accepts values for an auto id primary key. Upserts address
// existing rows by key, so the key column is written like any other field.
func ForUpsert() SplitOption {
	return func(o *splitOptions) { o.upsert = true }
}

// WithJSONCodec sets the codec used to marshal JSON field values and the
// dynamic field. Defaults to codec.Default.
func WithJSONCodec(c codec.Codec) SplitOption {
	return func(o *splitOptions) {
		if c != nil {
			o.codec = c
		}
	}
}

// Split converts row-oriented input into one column per schema field.
//
// Integer values wrap to the field width, floats truncate toward zero and
// strings are parsed for numeric and boolean fields. Vectors, arrays, JSON
// and struct arrays must already have the shape their field requires.
// Keys not declared in the schema go to the dynamic field when it is
// enabled and fail with ErrUnknownField otherwise.
//
// Every column has one entry per input row. Rows that omit a nullable or
// defaulted field carry a placeholder and are marked invalid.
func Split(s *schema.Schema, rows []map[string]any, opts ...SplitOption) ([]*column.Column, error) {
	o := splitOptions{codec: codec.Default}
	for _, opt := range opts {
		opt(&o)
	}
	if s == nil {
		return nil, fmt.Errorf("%w: nil schema", schema.ErrInvalidField)
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}

	var (
		fields  []schema.Field
		autoPK  string
		encs    []encoder
		valid   [][]bool
		dynamic column.BlobData
	)
	for _, f := range s.Fields {
		if f.IsPrimaryKey && f.AutoID && !o.upsert {
			autoPK = f.Name
			continue
		}
		fields = append(fields, f)
		encs = append(encs, newEncoder(f, o.codec))
		if f.Optional() {
			valid = append(valid, make([]bool, 0, len(rows)))
		} else {
			valid = append(valid, nil)
		}
	}

	for r, in := range rows {
		extra, err := unknownKeys(s, in, autoPK, r)
		if err != nil {
			return nil, err
		}

		for i, f := range fields {
			v, ok := in[f.Name]
			if !ok || v == nil {
				if !f.Optional() {
					return nil, fieldErr(r, f.Name, ErrMissingField)
				}
				encs[i].placeholder()
				valid[i] = append(valid[i], false)
				continue
			}
			if err := encs[i].encode(v); err != nil {
				return nil, fieldErr(r, f.Name, err)
			}
			if valid[i] != nil {
				valid[i] = append(valid[i], true)
			}
		}

		if s.EnableDynamicField {
			doc, err := dynamicDoc(o.codec, in, extra)
			if err != nil {
				return nil, fieldErr(r, schema.DynamicFieldName, err)
			}
			dynamic = append(dynamic, doc)
		}
	}

	cols := make([]*column.Column, 0, len(fields)+1)
	for i, f := range fields {
		p, err := encs[i].payload(len(rows))
		if err != nil {
			return nil, fmt.Errorf("field %q: %w", f.Name, err)
		}
		c, err := column.New(f, len(rows), p, valid[i])
		if err != nil {
			return nil, err
		}
		if sp, ok := encs[i].(*sparseEncoder); ok {
			c.Dim = sp.dim
		}
		cols = append(cols, c)
	}
	if s.EnableDynamicField {
		if dynamic == nil {
			dynamic = column.BlobData{}
		}
		c, err := column.New(schema.DynamicField(), len(rows), dynamic, nil)
		if err != nil {
			return nil, err
		}
		cols = append(cols, c)
	}
	return cols, nil
}

// unknownKeys returns the sorted input keys that the schema does not declare.
func unknownKeys(s *schema.Schema, in map[string]any, autoPK string, r int) ([]string, error) {
	var extra []string
	for key, v := range in {
		if key == autoPK {
			if v != nil {
				return nil, fieldErr(r, key, ErrAutoIDProvided)
			}
			continue
		}
		if _, declared := s.Lookup(key); declared {
			continue
		}
		extra = append(extra, key)
	}
	slices.Sort(extra)
	for _, key := range extra {
		if key == schema.DynamicFieldName {
			return nil, fieldErr(r, key, fmt.Errorf("%w: %q is reserved", ErrUnknownField, key))
		}
		if !s.EnableDynamicField {
			return nil, fieldErr(r, key, ErrUnknownField)
		}
	}
	return extra, nil
}

func dynamicDoc(c codec.Codec, in map[string]any, keys []string) ([]byte, error) {
	m := make(map[string]any, len(keys))
	for _, k := range keys {
		m[k] = in[k]
	}
	return c.Marshal(m)
}

// encoder accumulates one field's values into a wire payload.
type encoder interface {
	encode(v any) error
	placeholder()
	payload(rows int) (column.Payload, error)
}

func newEncoder(f schema.Field, c codec.Codec) encoder {
	return newValueEncoder(f, c, true)
}

// newValueEncoder builds the encoder for one field. parse enables string
// parsing for numeric and boolean fields and lets integers wrap to the field
// width. Array elements are never parsed and must fit their element type.
func newValueEncoder(f schema.Field, c codec.Codec, parse bool) encoder {
	switch f.Type {
	case schema.Bool:
		return &boolEncoder{parse: parse}
	case schema.Int8, schema.Int16, schema.Int32:
		return &intEncoder{t: f.Type, parse: parse, checked: !parse}
	case schema.Int64:
		return &longEncoder{parse: parse}
	case schema.Float:
		return &floatEncoder{parse: parse}
	case schema.Double:
		return &doubleEncoder{parse: parse}
	case schema.String, schema.VarChar, schema.Geometry:
		return &stringEncoder{maxLen: f.MaxLength}
	case schema.JSON:
		return &jsonEncoder{codec: c}
	case schema.FloatVector:
		return &floatVectorEncoder{dim: f.Dim}
	case schema.BinaryVector, schema.Float16Vector, schema.BFloat16Vector, schema.Int8Vector:
		return &byteVectorEncoder{t: f.Type, dim: f.Dim}
	case schema.SparseFloatVector:
		return &sparseEncoder{}
	case schema.Array:
		return &arrayEncoder{field: f, codec: c}
	case schema.StructArray:
		return newStructEncoder(f, c)
	default:
		return &invalidEncoder{t: f.Type}
	}
}

type boolEncoder struct {
	parse bool
	data  column.BoolData
}

func (e *boolEncoder) encode(v any) error {
	b, err := coerceBool(v, e.parse)
	if err != nil {
		return err
	}
	e.data = append(e.data, b)
	return nil
}

func (e *boolEncoder) placeholder() { e.data = append(e.data, false) }

func (e *boolEncoder) payload(int) (column.Payload, error) { return nonNil(e.data), nil }

type intEncoder struct {
	t       schema.DataType
	parse   bool
	checked bool
	data    column.IntData
}

func (e *intEncoder) encode(v any) error {
	i, err := coerceInt(v, e.parse)
	if err != nil {
		return err
	}
	if e.checked && !fitsInt(e.t, i) {
		return fmt.Errorf("%d out of range for %s", i, e.t)
	}
	switch e.t {
	case schema.Int8:
		e.data = append(e.data, int32(int8(i)))
	case schema.Int16:
		e.data = append(e.data, int32(int16(i)))
	default:
		e.data = append(e.data, int32(i))
	}
	return nil
}

func (e *intEncoder) placeholder() { e.data = append(e.data, 0) }

func fitsInt(t schema.DataType, i int64) bool {
	switch t {
	case schema.Int8:
		return i >= math.MinInt8 && i <= math.MaxInt8
	case schema.Int16:
		return i >= math.MinInt16 && i <= math.MaxInt16
	default:
		return i >= math.MinInt32 && i <= math.MaxInt32
	}
}

func (e *intEncoder) payload(int) (column.Payload, error) { return nonNil(e.data), nil }

type longEncoder struct {
	parse bool
	data  column.LongData
}

func (e *longEncoder) encode(v any) error {
	i, err := coerceInt(v, e.parse)
	if err != nil {
		return err
	}
	e.data = append(e.data, i)
	return nil
}

func (e *longEncoder) placeholder() { e.data = append(e.data, 0) }

func (e *longEncoder) payload(int) (column.Payload, error) { return nonNil(e.data), nil }

type floatEncoder struct {
	parse bool
	data  column.FloatData
}

func (e *floatEncoder) encode(v any) error {
	f, err := coerceFloat(v, 32, e.parse)
	if err != nil {
		return err
	}
	e.data = append(e.data, float32(f))
	return nil
}

func (e *floatEncoder) placeholder() { e.data = append(e.data, 0) }

func (e *floatEncoder) payload(int) (column.Payload, error) { return nonNil(e.data), nil }

type doubleEncoder struct {
	parse bool
	data  column.DoubleData
}

func (e *doubleEncoder) encode(v any) error {
	f, err := coerceFloat(v, 64, e.parse)
	if err != nil {
		return err
	}
	e.data = append(e.data, f)
	return nil
}

func (e *doubleEncoder) placeholder() { e.data = append(e.data, 0) }

func (e *doubleEncoder) payload(int) (column.Payload, error) { return nonNil(e.data), nil }

type stringEncoder struct {
	maxLen int
	data   column.StringData
}

func (e *stringEncoder) encode(v any) error {
	s, err := coerceString(v)
	if err != nil {
		return err
	}
	if e.maxLen > 0 {
		if n := utf8.RuneCountInString(s); n > e.maxLen {
			return fmt.Errorf("%w: %d characters, max %d", ErrValueTooLong, n, e.maxLen)
		}
	}
	e.data = append(e.data, s)
	return nil
}

func (e *stringEncoder) placeholder() { e.data = append(e.data, "") }

func (e *stringEncoder) payload(int) (column.Payload, error) { return nonNil(e.data), nil }

type jsonEncoder struct {
	codec codec.Codec
	data  column.BlobData
}

func (e *jsonEncoder) encode(v any) error {
	var raw []byte
	switch x := v.(type) {
	case json.RawMessage:
		raw = x
	case []byte:
		raw = x
	case interface{ Raw() []byte }:
		raw = x.Raw()
	default:
		b, err := e.codec.Marshal(v)
		if err != nil {
			return fmt.Errorf("%w: %w", ErrShapeMismatch, err)
		}
		e.data = append(e.data, b)
		return nil
	}
	if !gjson.ValidBytes(raw) {
		return fmt.Errorf("%w: invalid JSON document", ErrShapeMismatch)
	}
	e.data = append(e.data, slices.Clone(raw))
	return nil
}

func (e *jsonEncoder) placeholder() { e.data = append(e.data, nil) }

func (e *jsonEncoder) payload(int) (column.Payload, error) { return nonNil(e.data), nil }

type floatVectorEncoder struct {
	dim  int
	vecs []vector.FloatVector
}

func (e *floatVectorEncoder) encode(v any) error {
	fs, err := coerceFloatVector(v, e.dim)
	if err != nil {
		return err
	}
	e.vecs = append(e.vecs, fs)
	return nil
}

func (e *floatVectorEncoder) placeholder() {
	e.vecs = append(e.vecs, make(vector.FloatVector, e.dim))
}

func (e *floatVectorEncoder) payload(int) (column.Payload, error) {
	data, err := vector.EncodeFloat(e.vecs, e.dim)
	if err != nil {
		return nil, err
	}
	return column.FloatData(data), nil
}

// byteVectorEncoder holds one packed vector per row for the byte-encoded
// vector types.
type byteVectorEncoder struct {
	t    schema.DataType
	dim  int
	rows [][]byte
}

func (e *byteVectorEncoder) encode(v any) error {
	var (
		b   []byte
		err error
	)
	switch e.t {
	case schema.BinaryVector:
		b, err = coerceBinaryVector(v, e.dim)
	case schema.Float16Vector:
		b, err = coerceHalfVector(v, e.dim, false)
	case schema.BFloat16Vector:
		b, err = coerceHalfVector(v, e.dim, true)
	default:
		b, err = coerceInt8Vector(v, e.dim)
	}
	if err != nil {
		return err
	}
	e.rows = append(e.rows, b)
	return nil
}

func (e *byteVectorEncoder) placeholder() {
	n, _ := vector.Footprint(e.t, e.dim)
	e.rows = append(e.rows, make([]byte, n))
}

func (e *byteVectorEncoder) payload(int) (column.Payload, error) {
	var (
		data []byte
		err  error
	)
	switch e.t {
	case schema.BinaryVector:
		data, err = vector.EncodeBinary(asVectors[vector.BinaryVector](e.rows), e.dim)
	case schema.Float16Vector:
		data, err = vector.EncodeFloat16(asVectors[vector.Float16Vector](e.rows), e.dim)
	case schema.BFloat16Vector:
		data, err = vector.EncodeBFloat16(asVectors[vector.BFloat16Vector](e.rows), e.dim)
	default:
		vecs := make([]vector.Int8Vector, len(e.rows))
		for i, b := range e.rows {
			vecs[i] = vector.Int8FromBytes(b)
		}
		data, err = vector.EncodeInt8(vecs, e.dim)
	}
	if err != nil {
		return nil, err
	}
	return column.ByteData(data), nil
}

func asVectors[V ~[]byte](rows [][]byte) []V {
	out := make([]V, len(rows))
	for i, b := range rows {
		out[i] = V(b)
	}
	return out
}

type sparseEncoder struct {
	dim  int
	data column.BlobData
}

func (e *sparseEncoder) encode(v any) error {
	sv, err := coerceSparse(v)
	if err != nil {
		return err
	}
	blob, err := vector.EncodeSparse(sv)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrShapeMismatch, err)
	}
	e.dim = max(e.dim, sv.Dim())
	e.data = append(e.data, blob)
	return nil
}

func (e *sparseEncoder) placeholder() { e.data = append(e.data, []byte{}) }

func (e *sparseEncoder) payload(int) (column.Payload, error) { return nonNil(e.data), nil }

type arrayEncoder struct {
	field schema.Field
	codec codec.Codec
	lists column.ListData
}

func (e *arrayEncoder) encode(v any) error {
	items, ok := asList(v)
	if !ok {
		return shapeErr(v, "array of "+e.field.ElementType.String())
	}
	if e.field.MaxCapacity > 0 && len(items) > e.field.MaxCapacity {
		return fmt.Errorf("%w: %d elements, max capacity %d", ErrShapeMismatch, len(items), e.field.MaxCapacity)
	}
	elem := schema.Field{Name: e.field.Name, Type: e.field.ElementType, MaxLength: e.field.MaxLength}
	sub := newValueEncoder(elem, e.codec, false)
	for i, item := range items {
		if item == nil {
			return fmt.Errorf("%w: element %d is null", ErrShapeMismatch, i)
		}
		if err := sub.encode(item); err != nil {
			return fmt.Errorf("%w: element %d: %w", ErrShapeMismatch, i, err)
		}
	}
	p, err := sub.payload(len(items))
	if err != nil {
		return err
	}
	e.lists = append(e.lists, p)
	return nil
}

func (e *arrayEncoder) placeholder() {
	elem := schema.Field{Name: e.field.Name, Type: e.field.ElementType}
	p, _ := newValueEncoder(elem, e.codec, false).payload(0)
	e.lists = append(e.lists, p)
}

func (e *arrayEncoder) payload(int) (column.Payload, error) { return nonNil(e.lists), nil }

// structEncoder writes a struct array as one elementwise column per
// sub-field. Every element must carry every sub-field.
type structEncoder struct {
	field schema.Field
	codec codec.Codec
	lists []column.ListData
}

func newStructEncoder(f schema.Field, c codec.Codec) *structEncoder {
	return &structEncoder{field: f, codec: c, lists: make([]column.ListData, len(f.Fields))}
}

func (e *structEncoder) encode(v any) error {
	elems, err := asStructList(v)
	if err != nil {
		return err
	}
	if e.field.MaxCapacity > 0 && len(elems) > e.field.MaxCapacity {
		return fmt.Errorf("%w: %d elements, max capacity %d", ErrShapeMismatch, len(elems), e.field.MaxCapacity)
	}
	for j, m := range elems {
		for key := range m {
			if _, ok := e.field.SubField(key); !ok {
				return fmt.Errorf("element %d: %w: %q", j, ErrUnknownField, key)
			}
		}
	}

	row := make([]column.Payload, len(e.field.Fields))
	for k, sf := range e.field.Fields {
		sub := newValueEncoder(sf, e.codec, true)
		for j, m := range elems {
			v, ok := m[sf.Name]
			if !ok || v == nil {
				return fmt.Errorf("element %d: %q: %w", j, sf.Name, ErrMissingField)
			}
			if err := sub.encode(v); err != nil {
				return fmt.Errorf("element %d: %q: %w", j, sf.Name, err)
			}
		}
		p, err := sub.payload(len(elems))
		if err != nil {
			return err
		}
		row[k] = p
	}
	for k := range e.lists {
		e.lists[k] = append(e.lists[k], row[k])
	}
	return nil
}

func (e *structEncoder) placeholder() {
	for k, sf := range e.field.Fields {
		p, _ := newValueEncoder(sf, e.codec, true).payload(0)
		e.lists[k] = append(e.lists[k], p)
	}
}

func (e *structEncoder) payload(rows int) (column.Payload, error) {
	children := make(column.StructData, len(e.field.Fields))
	for k, sf := range e.field.Fields {
		c, err := column.NewSubField(sf, rows, nonNil(e.lists[k]))
		if err != nil {
			return nil, err
		}
		children[k] = c
	}
	return children, nil
}

type invalidEncoder struct {
	t schema.DataType
}

func (e *invalidEncoder) encode(any) error {
	return fmt.Errorf("%w: %s", schema.ErrUnsupportedLogicalType, e.t)
}

func (e *invalidEncoder) placeholder() {}

func (e *invalidEncoder) payload(int) (column.Payload, error) {
	return nil, fmt.Errorf("%w: %s", schema.ErrUnsupportedLogicalType, e.t)
}

// nonNil returns an empty payload for a nil slice so that zero-row columns
// still carry a payload of the right kind.
func nonNil[S ~[]E, E any](s S) S {
	if s == nil {
		return S{}
	}
	return s
}
