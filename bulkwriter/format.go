package bulkwriter

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/hupe1980/vecwire/blobstore"
	"github.com/hupe1980/vecwire/codec"
	"github.com/hupe1980/vecwire/internal/compress"
	"github.com/hupe1980/vecwire/internal/hash"
	"github.com/hupe1980/vecwire/jsondoc"
	"github.com/hupe1980/vecwire/row"
	"github.com/hupe1980/vecwire/vector"
	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
)

// ErrMalformedFile is returned when an import file is not a {"rows":[...]}
// document.
var ErrMalformedFile = errors.New("malformed import file")

// encodeRecord renders one record as a JSON object in import form. Dynamic
// keys are inlined next to the declared fields.
func encodeRecord(c codec.Codec, r *row.Record) ([]byte, error) {
	obj := []byte("{}")

	var err error
	r.Range(func(name string, v any) bool {
		var raw []byte
		raw, err = c.Marshal(importForm(v))
		if err != nil {
			err = fmt.Errorf("field %q: %w", name, err)
			return false
		}
		obj, err = sjson.SetRawBytes(obj, escapePath(name), raw)
		return err == nil
	})
	if err != nil {
		return nil, err
	}
	return obj, nil
}

// importForm converts decoded values into the plain shapes the import API
// reads: vectors as number lists, sparse vectors as index/value pairs and
// JSON documents verbatim.
func importForm(v any) any {
	switch x := v.(type) {
	case vector.FloatVector:
		return []float32(x)
	case vector.Float16Vector:
		return x.Float32s()
	case vector.BFloat16Vector:
		return x.Float32s()
	case vector.BinaryVector:
		out := make([]int, len(x))
		for i, b := range x {
			out[i] = int(b)
		}
		return out
	case vector.Int8Vector:
		return []int8(x)
	case vector.SparseVector:
		return sparsePair{Indices: x.Indices, Values: x.Values}
	case *jsondoc.Document:
		return json.RawMessage(x.Raw())
	case []map[string]any:
		out := make([]map[string]any, len(x))
		for i, m := range x {
			elem := make(map[string]any, len(m))
			for k, e := range m {
				elem[k] = importForm(e)
			}
			out[i] = elem
		}
		return out
	default:
		return v
	}
}

type sparsePair struct {
	Indices []int64   `json:"indices"`
	Values  []float32 `json:"values"`
}

// escapePath escapes the characters sjson treats as path syntax.
func escapePath(key string) string {
	if !strings.ContainsAny(key, `.*?\|#@:`) {
		return key
	}
	var b strings.Builder
	for _, r := range key {
		if strings.ContainsRune(`.*?\|#@:`, r) {
			b.WriteByte('\\')
		}
		b.WriteRune(r)
	}
	return b.String()
}

// buildBody joins encoded rows into a {"rows":[...]} document.
func buildBody(rows [][]byte, size int) []byte {
	var buf bytes.Buffer
	buf.Grow(size + len(rows) + 16)
	buf.WriteString(`{"rows":[`)
	for i, r := range rows {
		if i > 0 {
			buf.WriteByte(',')
		}
		buf.Write(r)
	}
	buf.WriteString(`]}`)
	return buf.Bytes()
}

// ReadFile reads an import file back into row maps. The compression is
// taken from the file name suffix. Numbers are returned as float64.
func ReadFile(ctx context.Context, store blobstore.Store, name string) ([]map[string]any, error) {
	data, err := store.Get(ctx, name)
	if err != nil {
		return nil, err
	}
	return parseFile(name, data)
}

// ReadVerified is ReadFile with a checksum check against a FileInfo
// returned by Writer.Files.
func ReadVerified(ctx context.Context, store blobstore.Store, info FileInfo) ([]map[string]any, error) {
	data, err := store.Get(ctx, info.Name)
	if err != nil {
		return nil, err
	}
	if err := hash.Verify(data, info.CRC32C); err != nil {
		return nil, fmt.Errorf("%s: %w", info.Name, err)
	}
	rows, err := parseFile(info.Name, data)
	if err != nil {
		return nil, err
	}
	if len(rows) != info.Rows {
		return nil, fmt.Errorf("%w: %s holds %d rows, want %d", ErrMalformedFile, info.Name, len(rows), info.Rows)
	}
	return rows, nil
}

func parseFile(name string, data []byte) ([]map[string]any, error) {
	body, err := compress.Decompress(compress.FromName(name), data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	if !gjson.ValidBytes(body) {
		return nil, fmt.Errorf("%w: %s is not valid JSON", ErrMalformedFile, name)
	}

	list := gjson.GetBytes(body, "rows")
	if !list.IsArray() {
		return nil, fmt.Errorf("%w: %s has no rows array", ErrMalformedFile, name)
	}

	elems := list.Array()
	rows := make([]map[string]any, 0, len(elems))
	for i, r := range elems {
		if !r.IsObject() {
			return nil, fmt.Errorf("%w: %s row %d is %s", ErrMalformedFile, name, i, r.Type)
		}
		m, _ := r.Value().(map[string]any)
		rows = append(rows, m)
	}
	return rows, nil
}
