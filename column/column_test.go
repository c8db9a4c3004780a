package column

import (
	"testing"

	"github.com/hupe1980/vecwire/jsondoc"
	"github.com/hupe1980/vecwire/schema"
	"github.com/hupe1980/vecwire/vector"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustColumn(t *testing.T, f schema.Field, rows int, p Payload, valid []bool) *Column {
	t.Helper()
	c, err := New(f, rows, p, valid)
	require.NoError(t, err)
	return c
}

func TestNewValidation(t *testing.T) {
	tests := []struct {
		name    string
		field   schema.Field
		rows    int
		payload Payload
		valid   []bool
		wantErr error
	}{
		{"ok", schema.NewField("a", schema.Int64), 2, LongData{1, 2}, nil, nil},
		{"validity length", schema.NewField("a", schema.Int64), 2, LongData{1, 2}, []bool{true}, ErrMalformedColumn},
		{"payload kind", schema.NewField("a", schema.Int64), 2, IntData{1, 2}, nil, ErrMalformedColumn},
		{"nil payload", schema.NewField("a", schema.Int64), 0, nil, nil, ErrMalformedColumn},
		{"negative rows", schema.NewField("a", schema.Int64), -1, LongData{}, nil, ErrMalformedColumn},
		{"unknown type", schema.Field{Name: "a", Type: schema.DataType(99)}, 0, LongData{}, nil, schema.ErrUnsupportedLogicalType},
		{"vector without dim", schema.NewField("v", schema.FloatVector), 1, FloatData{1}, nil, ErrMalformedColumn},
		{"binary dim", schema.NewField("v", schema.BinaryVector, schema.WithDim(12)), 1, ByteData{1, 2}, nil, ErrMalformedColumn},
		{"array element kind", schema.NewField("a", schema.Array, schema.WithElementType(schema.Int64)), 1, ListData{IntData{1}}, nil, ErrMalformedColumn},
		{"array nil entry", schema.NewField("a", schema.Array, schema.WithElementType(schema.Int64)), 1, ListData{nil}, nil, ErrMalformedColumn},
		{"array bad element type", schema.NewField("a", schema.Array, schema.WithElementType(schema.JSON)), 1, ListData{BlobData{}}, nil, ErrMalformedColumn},
		{"empty validity is absent", schema.NewField("a", schema.Bool), 1, BoolData{true}, []bool{}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.field, tt.rows, tt.payload, tt.valid)
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestDecodeScalars(t *testing.T) {
	tests := []struct {
		name    string
		field   schema.Field
		payload Payload
		want    []any
	}{
		{"bool", schema.NewField("b", schema.Bool), BoolData{true, false}, []any{true, false}},
		{"int8", schema.NewField("i", schema.Int8), IntData{-3, 44}, []any{int8(-3), int8(44)}},
		{"int16", schema.NewField("i", schema.Int16), IntData{-300, 300}, []any{int16(-300), int16(300)}},
		{"int32", schema.NewField("i", schema.Int32), IntData{7, 8}, []any{int32(7), int32(8)}},
		{"int64", schema.NewField("i", schema.Int64), LongData{1 << 40, -1}, []any{int64(1 << 40), int64(-1)}},
		{"float", schema.NewField("f", schema.Float), FloatData{1.5, 2}, []any{float32(1.5), float32(2)}},
		{"double", schema.NewField("d", schema.Double), DoubleData{0.25, 3}, []any{0.25, 3.0}},
		{"varchar", schema.NewField("s", schema.VarChar), StringData{"a", "b"}, []any{"a", "b"}},
		{"geometry", schema.NewField("g", schema.Geometry), StringData{"POINT (1 2)", "POINT (3 4)"}, []any{"POINT (1 2)", "POINT (3 4)"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := mustColumn(t, tt.field, 2, tt.payload, nil)
			got, err := c.Values()
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDecodeRowCountMismatch(t *testing.T) {
	t.Run("scalar", func(t *testing.T) {
		c := mustColumn(t, schema.NewField("a", schema.Int64), 3, LongData{1, 2}, nil)
		_, err := c.Values()
		assert.ErrorIs(t, err, ErrRowCountMismatch)
	})

	t.Run("vector", func(t *testing.T) {
		c := mustColumn(t, schema.NewField("v", schema.FloatVector, schema.WithDim(2)), 3, FloatData{1, 2, 3, 4}, nil)
		_, err := c.Values()
		assert.ErrorIs(t, err, ErrRowCountMismatch)
	})

	t.Run("blobs", func(t *testing.T) {
		c := mustColumn(t, schema.NewField("j", schema.JSON), 2, BlobData{[]byte(`{}`)}, nil)
		_, err := c.Values()
		assert.ErrorIs(t, err, ErrRowCountMismatch)
	})

	t.Run("error is memoized", func(t *testing.T) {
		c := mustColumn(t, schema.NewField("a", schema.Int64), 3, LongData{1}, nil)
		_, err1 := c.Values()
		_, err2 := c.Value(0)
		assert.ErrorIs(t, err1, ErrRowCountMismatch)
		assert.Equal(t, err1, err2)
	})
}

func TestDecodeVectors(t *testing.T) {
	t.Run("float", func(t *testing.T) {
		c := mustColumn(t, schema.NewField("v", schema.FloatVector, schema.WithDim(2)), 2, FloatData{1, 2, 3, 4}, nil)
		got, err := c.Values()
		require.NoError(t, err)
		assert.Equal(t, []any{vector.FloatVector{1, 2}, vector.FloatVector{3, 4}}, got)
	})

	t.Run("float16", func(t *testing.T) {
		a := vector.Float16FromFloat32s([]float32{1, 2, 3, 4})
		b := vector.Float16FromFloat32s([]float32{-1, 0.5, 0, 8})
		blob := append(append([]byte{}, a...), b...)

		c := mustColumn(t, schema.NewField("v", schema.Float16Vector, schema.WithDim(4)), 2, ByteData(blob), nil)
		got, err := c.Values()
		require.NoError(t, err)
		require.Len(t, got, 2)
		assert.Equal(t, []float32{-1, 0.5, 0, 8}, got[1].(vector.Float16Vector).Float32s())
	})

	t.Run("dimension mismatch", func(t *testing.T) {
		c := mustColumn(t, schema.NewField("v", schema.Float16Vector, schema.WithDim(4)), 4, ByteData(make([]byte, 30)), nil)
		_, err := c.Values()
		assert.ErrorIs(t, err, vector.ErrDimensionMismatch)
	})

	t.Run("binary", func(t *testing.T) {
		c := mustColumn(t, schema.NewField("v", schema.BinaryVector, schema.WithDim(8)), 2, ByteData{0x01, 0x80}, nil)
		got, err := c.Values()
		require.NoError(t, err)
		assert.Equal(t, []any{vector.BinaryVector{0x01}, vector.BinaryVector{0x80}}, got)
	})

	t.Run("int8", func(t *testing.T) {
		c := mustColumn(t, schema.NewField("v", schema.Int8Vector, schema.WithDim(2)), 1, ByteData{0xFF, 0x01}, nil)
		got, err := c.Values()
		require.NoError(t, err)
		assert.Equal(t, []any{vector.Int8Vector{-1, 1}}, got)
	})

	t.Run("sparse", func(t *testing.T) {
		sv, err := vector.NewSparseVector(map[int64]float32{5: 1.0, 2: 0.5, 9: 2.0})
		require.NoError(t, err)
		blob, err := vector.EncodeSparse(sv)
		require.NoError(t, err)

		c := mustColumn(t, schema.NewField("s", schema.SparseFloatVector), 2, BlobData{blob, {}}, nil)
		got, err := c.Values()
		require.NoError(t, err)
		assert.Equal(t, sv, got[0])
		assert.Equal(t, 0, got[1].(vector.SparseVector).Len())
	})

	t.Run("malformed sparse", func(t *testing.T) {
		c := mustColumn(t, schema.NewField("s", schema.SparseFloatVector), 1, BlobData{make([]byte, 7)}, nil)
		_, err := c.Values()
		assert.ErrorIs(t, err, vector.ErrMalformedSparseVector)
	})
}

func TestDecodeArray(t *testing.T) {
	f := schema.NewField("tags", schema.Array, schema.WithElementType(schema.VarChar))
	c := mustColumn(t, f, 3, ListData{StringData{"a", "b"}, StringData{}, StringData{"c"}}, []bool{true, true, false})

	got, err := c.Values()
	require.NoError(t, err)
	assert.Equal(t, []any{[]string{"a", "b"}, []string{}, nil}, got)

	t.Run("narrow ints", func(t *testing.T) {
		f := schema.NewField("a", schema.Array, schema.WithElementType(schema.Int16))
		c := mustColumn(t, f, 1, ListData{IntData{1, -2}}, nil)
		got, err := c.Values()
		require.NoError(t, err)
		assert.Equal(t, []any{[]int16{1, -2}}, got)
	})
}

func TestDecodeJSON(t *testing.T) {
	f := schema.NewField("meta", schema.JSON)
	c := mustColumn(t, f, 3, BlobData{[]byte(`{"a":1,"b":2.5}`), []byte(`[1]`), nil}, []bool{true, true, false})

	t.Run("values", func(t *testing.T) {
		got, err := c.Values()
		require.NoError(t, err)
		require.IsType(t, &jsondoc.Document{}, got[0])
		assert.Nil(t, got[2])
	})

	t.Run("accessor", func(t *testing.T) {
		v, err := c.JSON(0, "a")
		require.NoError(t, err)
		assert.Equal(t, jsondoc.Int(1), v)

		v, err = c.JSON(0, "b")
		require.NoError(t, err)
		assert.Equal(t, jsondoc.Float(2.5), v)

		_, err = c.JSON(0, "missing")
		assert.ErrorIs(t, err, jsondoc.ErrKeyNotFound)

		_, err = c.JSON(1, "a")
		assert.ErrorIs(t, err, jsondoc.ErrNotADict)

		v, err = c.JSON(2, "a")
		require.NoError(t, err)
		assert.True(t, v.IsNull())

		_, err = c.JSON(5, "a")
		assert.ErrorIs(t, err, ErrRowOutOfRange)
	})

	t.Run("document", func(t *testing.T) {
		d, err := c.Document(0)
		require.NoError(t, err)
		assert.Equal(t, `{"a":1,"b":2.5}`, d.String())

		d, err = c.Document(2)
		require.NoError(t, err)
		assert.Nil(t, d)
	})

	t.Run("not json", func(t *testing.T) {
		c := mustColumn(t, schema.NewField("a", schema.Int64), 1, LongData{1}, nil)
		_, err := c.JSON(0, "a")
		assert.ErrorIs(t, err, jsondoc.ErrNotADict)
	})
}

func TestValuesOwned(t *testing.T) {
	t.Run("scalars", func(t *testing.T) {
		c := mustColumn(t, schema.NewField("a", schema.Int64), 2, LongData{1, 2}, []bool{true, false})

		first, err := c.Values()
		require.NoError(t, err)
		first[0] = "mutated"
		first[1] = int64(9)

		second, err := c.Values()
		require.NoError(t, err)
		assert.Equal(t, []any{int64(1), nil}, second)

		v, err := c.Value(1)
		require.NoError(t, err)
		assert.Nil(t, v)
	})

	t.Run("vectors", func(t *testing.T) {
		c := mustColumn(t, schema.NewField("v", schema.FloatVector, schema.WithDim(2)), 1, FloatData{1, 2}, nil)

		first, err := c.Values()
		require.NoError(t, err)
		first[0].(vector.FloatVector)[0] = 99

		v, err := c.Value(0)
		require.NoError(t, err)
		v.(vector.FloatVector)[1] = 99

		second, err := c.Values()
		require.NoError(t, err)
		assert.Equal(t, vector.FloatVector{1, 2}, second[0])
	})

	t.Run("sparse vectors", func(t *testing.T) {
		sv, err := vector.NewSparseVector(map[int64]float32{3: 1})
		require.NoError(t, err)
		blob, err := vector.EncodeSparse(sv)
		require.NoError(t, err)
		c := mustColumn(t, schema.NewField("s", schema.SparseFloatVector), 1, BlobData{blob}, nil)

		first, err := c.Values()
		require.NoError(t, err)
		first[0].(vector.SparseVector).Values[0] = 42

		second, err := c.Values()
		require.NoError(t, err)
		assert.Equal(t, float32(1), second[0].(vector.SparseVector).Values[0])
	})

	t.Run("arrays", func(t *testing.T) {
		f := schema.NewField("tags", schema.Array, schema.WithElementType(schema.VarChar))
		c := mustColumn(t, f, 1, ListData{StringData{"a", "b"}}, nil)

		first, err := c.Values()
		require.NoError(t, err)
		first[0].([]string)[0] = "mutated"

		second, err := c.Values()
		require.NoError(t, err)
		assert.Equal(t, []string{"a", "b"}, second[0])
	})

	t.Run("struct arrays", func(t *testing.T) {
		children := subColumns(t, 1,
			ListData{StringData{"a"}},
			ListData{IntData{1}},
			ListData{FloatData{1, 2}},
		)
		c := mustColumn(t, structField(), 1, children, nil)

		first, err := c.Values()
		require.NoError(t, err)
		elem := first[0].([]map[string]any)[0]
		elem["label"] = "mutated"
		elem["emb"].(vector.FloatVector)[0] = 99

		second, err := c.Values()
		require.NoError(t, err)
		assert.Equal(t, []map[string]any{{
			"label": "a",
			"score": int32(1),
			"emb":   vector.FloatVector{1, 2},
		}}, second[0])
	})
}

func TestSubFieldColumnNotDecodableAlone(t *testing.T) {
	c, err := NewSubField(schema.NewField("x", schema.Int32), 1, ListData{IntData{1}})
	require.NoError(t, err)
	assert.True(t, c.IsSubField())

	_, err = c.Values()
	assert.ErrorIs(t, err, ErrMalformedColumn)
}
