package row

import (
	"encoding/json"
	"testing"

	"github.com/hupe1980/vecwire/codec"
	"github.com/hupe1980/vecwire/column"
	"github.com/hupe1980/vecwire/jsondoc"
	"github.com/hupe1980/vecwire/schema"
	"github.com/hupe1980/vecwire/vector"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func splitOne(t *testing.T, f schema.Field, v any) (*column.Column, error) {
	t.Helper()
	cols, err := Split(schema.New(f), []map[string]any{{f.Name: v}})
	if err != nil {
		return nil, err
	}
	require.Len(t, cols, 1)
	return cols[0], nil
}

func TestSplitNumericNarrowing(t *testing.T) {
	tests := []struct {
		name    string
		field   schema.Field
		in      any
		payload column.Payload
	}{
		{"300 into int8", schema.NewField("a", schema.Int8), 300, column.IntData{44}},
		{"128 into int8", schema.NewField("a", schema.Int8), 128, column.IntData{-128}},
		{"70000 into int16", schema.NewField("a", schema.Int16), 70000, column.IntData{4464}},
		{"int64 into int32", schema.NewField("a", schema.Int32), int64(1<<32 + 5), column.IntData{5}},
		{"3.9 into int64", schema.NewField("a", schema.Int64), 3.9, column.LongData{3}},
		{"-3.9 into int64", schema.NewField("a", schema.Int64), -3.9, column.LongData{-3}},
		{"uint8 into int64", schema.NewField("a", schema.Int64), uint8(200), column.LongData{200}},
		{"int into float", schema.NewField("a", schema.Float), 2, column.FloatData{2}},
		{"float32 into double", schema.NewField("a", schema.Double), float32(0.5), column.DoubleData{0.5}},
		{"json number", schema.NewField("a", schema.Int64), json.Number("12"), column.LongData{12}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := splitOne(t, tt.field, tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.payload, c.Payload)
		})
	}

	t.Run("decoded value", func(t *testing.T) {
		c, err := splitOne(t, schema.NewField("a", schema.Int8), 300)
		require.NoError(t, err)
		v, err := c.Value(0)
		require.NoError(t, err)
		assert.Equal(t, int8(44), v)
	})
}

func TestSplitStringParsing(t *testing.T) {
	tests := []struct {
		name    string
		field   schema.Field
		in      any
		payload column.Payload
		wantErr error
	}{
		{"TRUE", schema.NewField("a", schema.Bool), "TRUE", column.BoolData{true}, nil},
		{"0", schema.NewField("a", schema.Bool), "0", column.BoolData{false}, nil},
		{"3.5 double", schema.NewField("a", schema.Double), "3.5", column.DoubleData{3.5}, nil},
		{"3.5 float", schema.NewField("a", schema.Float), "3.5", column.FloatData{3.5}, nil},
		{"int", schema.NewField("a", schema.Int64), "-42", column.LongData{-42}, nil},
		{"int wraps", schema.NewField("a", schema.Int8), "300", column.IntData{44}, nil},
		{"bad bool", schema.NewField("a", schema.Bool), "yes", nil, ErrTypeCoercion},
		{"bad int", schema.NewField("a", schema.Int64), "3.5", nil, ErrTypeCoercion},
		{"bad float", schema.NewField("a", schema.Double), "abc", nil, ErrTypeCoercion},
		{"int into bool", schema.NewField("a", schema.Bool), 1, nil, ErrTypeCoercion},
		{"int into string", schema.NewField("a", schema.VarChar), 1, nil, ErrTypeCoercion},
		{"NaN into int", schema.NewField("a", schema.Int64), "NaN", nil, ErrTypeCoercion},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := splitOne(t, tt.field, tt.in)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.payload, c.Payload)
		})
	}
}

func TestSplitShapeMismatch(t *testing.T) {
	tests := []struct {
		name  string
		field schema.Field
		in    any
	}{
		{"vector from string", schema.NewField("v", schema.FloatVector, schema.WithDim(2)), "1,2"},
		{"vector length", schema.NewField("v", schema.FloatVector, schema.WithDim(2)), []float32{1, 2, 3}},
		{"vector of strings", schema.NewField("v", schema.FloatVector, schema.WithDim(2)), []any{"1", "2"}},
		{"binary length", schema.NewField("v", schema.BinaryVector, schema.WithDim(16)), []byte{1}},
		{"float16 raw length", schema.NewField("v", schema.Float16Vector, schema.WithDim(2)), []byte{1, 2}},
		{"bfloat16 from float16", schema.NewField("v", schema.BFloat16Vector, schema.WithDim(1)), vector.Float16FromFloat32s([]float32{1})},
		{"int8 out of range", schema.NewField("v", schema.Int8Vector, schema.WithDim(1)), []any{300}},
		{"array scalar", schema.NewField("a", schema.Array, schema.WithElementType(schema.Int64)), 1},
		{"array element string", schema.NewField("a", schema.Array, schema.WithElementType(schema.Int64)), []any{1, "2"}},
		{"array null element", schema.NewField("a", schema.Array, schema.WithElementType(schema.Int64)), []any{1, nil}},
		{"array int8 element out of range", schema.NewField("a", schema.Array, schema.WithElementType(schema.Int8)), []int{300}},
		{"array int16 element out of range", schema.NewField("a", schema.Array, schema.WithElementType(schema.Int16)), []any{int64(-40000)}},
		{"array int32 element out of range", schema.NewField("a", schema.Array, schema.WithElementType(schema.Int32)), []int64{1 << 40}},
		{"array capacity", schema.NewField("a", schema.Array, schema.WithElementType(schema.Int64), schema.WithMaxCapacity(1)), []int64{1, 2}},
		{"json invalid bytes", schema.NewField("j", schema.JSON), []byte(`{"a":`)},
		{"sparse from list", schema.NewField("s", schema.SparseFloatVector), []float32{1, 2}},
		{"sparse negative index", schema.NewField("s", schema.SparseFloatVector), map[int64]float32{-1: 1}},
		{"struct from map", schema.NewField("s", schema.StructArray, schema.WithSubFields(schema.NewField("x", schema.Int32))), map[string]any{"x": 1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := splitOne(t, tt.field, tt.in)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrShapeMismatch)

			var fe *FieldError
			require.ErrorAs(t, err, &fe)
			assert.Equal(t, 0, fe.Row)
			assert.Equal(t, tt.field.Name, fe.Field)
		})
	}

	t.Run("dimension error is wrapped", func(t *testing.T) {
		_, err := splitOne(t, schema.NewField("v", schema.FloatVector, schema.WithDim(2)), []float32{1})
		assert.ErrorIs(t, err, vector.ErrDimensionMismatch)
	})
}

func TestSplitVectors(t *testing.T) {
	t.Run("float from float64 list", func(t *testing.T) {
		c, err := splitOne(t, schema.NewField("v", schema.FloatVector, schema.WithDim(3)), []float64{1, 2, 3})
		require.NoError(t, err)
		assert.Equal(t, column.FloatData{1, 2, 3}, c.Payload)
	})

	t.Run("float16 from numbers", func(t *testing.T) {
		c, err := splitOne(t, schema.NewField("v", schema.Float16Vector, schema.WithDim(2)), []any{1.0, 2})
		require.NoError(t, err)
		v, err := c.Value(0)
		require.NoError(t, err)
		assert.Equal(t, []float32{1, 2}, v.(vector.Float16Vector).Float32s())
	})

	t.Run("bfloat16 typed", func(t *testing.T) {
		in := vector.BFloat16FromFloat32s([]float32{0.5, -2})
		c, err := splitOne(t, schema.NewField("v", schema.BFloat16Vector, schema.WithDim(2)), in)
		require.NoError(t, err)
		assert.Equal(t, column.ByteData(in), c.Payload)
	})

	t.Run("binary", func(t *testing.T) {
		c, err := splitOne(t, schema.NewField("v", schema.BinaryVector, schema.WithDim(16)), vector.BinaryVector{0xAA, 0x01})
		require.NoError(t, err)
		assert.Equal(t, column.ByteData{0xAA, 0x01}, c.Payload)
	})

	t.Run("int8 from list", func(t *testing.T) {
		c, err := splitOne(t, schema.NewField("v", schema.Int8Vector, schema.WithDim(3)), []any{-1, 0, 127})
		require.NoError(t, err)
		assert.Equal(t, column.ByteData{0xFF, 0x00, 0x7F}, c.Payload)
	})

	t.Run("packed across rows", func(t *testing.T) {
		s := schema.New(
			schema.NewField("bin", schema.BinaryVector, schema.WithDim(8), schema.WithNullable()),
			schema.NewField("i8", schema.Int8Vector, schema.WithDim(2), schema.WithNullable()),
		)
		cols, err := Split(s, []map[string]any{
			{"bin": []byte{0x0F}, "i8": []int8{-1, 2}},
			{},
			{"bin": []byte{0xF0}, "i8": []any{3, -4}},
		})
		require.NoError(t, err)
		assert.Equal(t, column.ByteData{0x0F, 0x00, 0xF0}, cols[0].Payload)
		assert.Equal(t, column.ByteData{0xFF, 0x02, 0x00, 0x00, 0x03, 0xFC}, cols[1].Payload)
	})
}

func TestSplitSparse(t *testing.T) {
	f := schema.NewField("s", schema.SparseFloatVector)
	cols, err := Split(schema.New(f), []map[string]any{
		{"s": map[int64]float32{5: 1.0, 2: 0.5, 9: 2.0}},
		{"s": map[string]any{"indices": []any{30, 1}, "values": []any{0.25, 1}}},
	})
	require.NoError(t, err)
	c := cols[0]

	blob := c.Payload.(column.BlobData)[0]
	sv, err := vector.DecodeSparse(blob)
	require.NoError(t, err)
	assert.Equal(t, []int64{2, 5, 9}, sv.Indices)
	assert.Equal(t, []float32{0.5, 1.0, 2.0}, sv.Values)

	assert.Equal(t, 31, c.Dim)

	got, err := c.Values()
	require.NoError(t, err)
	assert.Equal(t, []int64{1, 30}, got[1].(vector.SparseVector).Indices)

	t.Run("duplicate index", func(t *testing.T) {
		_, err := splitOne(t, f, map[string]any{"indices": []int{1, 1}, "values": []float32{1, 2}})
		assert.ErrorIs(t, err, ErrShapeMismatch)
	})
}

func TestSplitJSON(t *testing.T) {
	f := schema.NewField("j", schema.JSON)
	doc := jsondoc.NewDocument([]byte(`{"k":1}`))

	cols, err := Split(schema.New(f), []map[string]any{
		{"j": map[string]any{"a": 1}},
		{"j": json.RawMessage(`[1,2]`)},
		{"j": "text"},
		{"j": doc},
	})
	require.NoError(t, err)

	blobs := cols[0].Payload.(column.BlobData)
	assert.JSONEq(t, `{"a":1}`, string(blobs[0]))
	assert.Equal(t, `[1,2]`, string(blobs[1]))
	assert.Equal(t, `"text"`, string(blobs[2]))
	assert.Equal(t, `{"k":1}`, string(blobs[3]))

	t.Run("codec option", func(t *testing.T) {
		cols, err := Split(schema.New(f), []map[string]any{{"j": map[string]any{"b": 1, "a": 2}}}, WithJSONCodec(codec.JSON{}))
		require.NoError(t, err)
		assert.Equal(t, `{"a":2,"b":1}`, string(cols[0].Payload.(column.BlobData)[0]))
	})
}

func TestSplitVarCharMaxLength(t *testing.T) {
	f := schema.NewField("s", schema.VarChar, schema.WithMaxLength(3))

	_, err := splitOne(t, f, "äöü")
	require.NoError(t, err)

	_, err = splitOne(t, f, "abcd")
	assert.ErrorIs(t, err, ErrValueTooLong)
}

func TestSplitUnknownAndDynamic(t *testing.T) {
	fields := []schema.Field{
		schema.NewField("id", schema.Int64, schema.AsPrimaryKey()),
	}
	rows := []map[string]any{
		{"id": 1, "color": "red", "size": 3},
		{"id": 2},
	}

	t.Run("static schema", func(t *testing.T) {
		_, err := Split(schema.New(fields...), rows)
		require.ErrorIs(t, err, ErrUnknownField)

		var fe *FieldError
		require.ErrorAs(t, err, &fe)
		assert.Equal(t, "color", fe.Field)
	})

	t.Run("dynamic schema", func(t *testing.T) {
		cols, err := Split(schema.New(fields...).WithDynamicField(), rows)
		require.NoError(t, err)
		require.Len(t, cols, 2)

		meta := cols[1]
		assert.Equal(t, schema.DynamicFieldName, meta.Name())
		assert.True(t, meta.Field.IsDynamic)

		blobs := meta.Payload.(column.BlobData)
		assert.JSONEq(t, `{"color":"red","size":3}`, string(blobs[0]))
		assert.Equal(t, `{}`, string(blobs[1]))
	})

	t.Run("reserved key", func(t *testing.T) {
		_, err := Split(schema.New(fields...).WithDynamicField(), []map[string]any{
			{"id": 1, schema.DynamicFieldName: map[string]any{}},
		})
		assert.ErrorIs(t, err, ErrUnknownField)
	})
}

func TestSplitMissingAndNullable(t *testing.T) {
	s := schema.New(
		schema.NewField("id", schema.Int64, schema.AsPrimaryKey()),
		schema.NewField("note", schema.VarChar, schema.WithNullable()),
		schema.NewField("score", schema.Double, schema.WithDefault(1.0)),
		schema.NewField("emb", schema.FloatVector, schema.WithDim(2), schema.WithNullable()),
		schema.NewField("tags", schema.Array, schema.WithElementType(schema.Int32), schema.WithNullable()),
	)

	cols, err := Split(s, []map[string]any{
		{"id": 1, "note": "x", "score": 2.0, "emb": []float32{1, 2}, "tags": []int32{1}},
		{"id": 2, "note": nil},
	})
	require.NoError(t, err)
	require.Len(t, cols, 5)

	assert.Nil(t, cols[0].Valid)
	assert.Equal(t, []bool{true, false}, cols[1].Valid)
	assert.Equal(t, column.StringData{"x", ""}, cols[1].Payload)
	assert.Equal(t, []bool{true, false}, cols[2].Valid)
	assert.Equal(t, column.FloatData{1, 2, 0, 0}, cols[3].Payload)
	assert.Equal(t, column.ListData{column.IntData{1}, column.IntData{}}, cols[4].Payload)

	for _, c := range cols[1:] {
		v, err := c.Value(1)
		require.NoError(t, err)
		assert.Nil(t, v, c.Name())
	}

	t.Run("required field", func(t *testing.T) {
		_, err := Split(s, []map[string]any{{"note": "x"}})
		require.ErrorIs(t, err, ErrMissingField)

		var fe *FieldError
		require.ErrorAs(t, err, &fe)
		assert.Equal(t, "id", fe.Field)
	})
}

func TestSplitAutoID(t *testing.T) {
	s := schema.New(
		schema.NewField("id", schema.Int64, schema.AsPrimaryKey(), schema.WithAutoID()),
		schema.NewField("v", schema.Int32),
	)

	cols, err := Split(s, []map[string]any{{"v": 1}})
	require.NoError(t, err)
	require.Len(t, cols, 1)
	assert.Equal(t, "v", cols[0].Name())

	_, err = Split(s, []map[string]any{{"id": 7, "v": 1}})
	assert.ErrorIs(t, err, ErrAutoIDProvided)

	cols, err = Split(s, []map[string]any{{"id": 7, "v": 1}}, ForUpsert())
	require.NoError(t, err)
	require.Len(t, cols, 2)
	assert.Equal(t, column.LongData{7}, cols[0].Payload)
}

func TestSplitStructArray(t *testing.T) {
	f := schema.NewField("clips", schema.StructArray, schema.WithSubFields(
		schema.NewField("label", schema.VarChar),
		schema.NewField("score", schema.Int32),
		schema.NewField("emb", schema.FloatVector, schema.WithDim(2)),
	))
	s := schema.New(f)

	cols, err := Split(s, []map[string]any{
		{"clips": []map[string]any{
			{"label": "a", "score": "1", "emb": []float32{1, 1}},
			{"label": "b", "score": 2, "emb": []float32{2, 2}},
		}},
		{"clips": []any{}},
	})
	require.NoError(t, err)

	got, err := cols[0].Values()
	require.NoError(t, err)
	assert.Equal(t, []map[string]any{
		{"label": "a", "score": int32(1), "emb": vector.FloatVector{1, 1}},
		{"label": "b", "score": int32(2), "emb": vector.FloatVector{2, 2}},
	}, got[0])

	empty, ok := got[1].([]map[string]any)
	require.True(t, ok)
	assert.NotNil(t, empty)
	assert.Empty(t, empty)

	t.Run("missing sub-field", func(t *testing.T) {
		_, err := splitOne(t, f, []map[string]any{{"label": "a", "score": 1}})
		assert.ErrorIs(t, err, ErrMissingField)
	})

	t.Run("unknown sub-field", func(t *testing.T) {
		_, err := splitOne(t, f, []map[string]any{{"label": "a", "score": 1, "emb": []float32{1, 1}, "x": 1}})
		assert.ErrorIs(t, err, ErrUnknownField)
	})
}

func TestSplitEmptyInput(t *testing.T) {
	s := schema.New(
		schema.NewField("id", schema.Int64),
		schema.NewField("clips", schema.StructArray, schema.WithSubFields(schema.NewField("x", schema.Int32))),
	).WithDynamicField()

	cols, err := Split(s, nil)
	require.NoError(t, err)
	require.Len(t, cols, 3)
	for _, c := range cols {
		assert.Equal(t, 0, c.Len())
		got, err := c.Values()
		require.NoError(t, err)
		assert.Empty(t, got)
	}
}

func TestSplitInvalidSchema(t *testing.T) {
	_, err := Split(nil, nil)
	assert.ErrorIs(t, err, schema.ErrInvalidField)

	_, err = Split(schema.New(schema.NewField("v", schema.FloatVector)), nil)
	assert.ErrorIs(t, err, schema.ErrInvalidField)
}
