package jsondoc

import (
	"errors"
	"fmt"
	"slices"
	"sync"

	gojson "github.com/goccy/go-json"
	"github.com/tidwall/gjson"
)

var (
	// ErrMalformedJSON is returned when the document bytes are not valid JSON.
	ErrMalformedJSON = errors.New("malformed json")

	// ErrNotADict is returned when a key is requested from a document whose
	// root is not an object.
	ErrNotADict = errors.New("json document is not an object")

	// ErrKeyNotFound is returned when the root object lacks the requested key.
	ErrKeyNotFound = errors.New("json key not found")

	// ErrTypeMismatch is returned by typed getters when the value under the
	// key has a different kind.
	ErrTypeMismatch = errors.New("json value type mismatch")
)

// Document is a JSON value held as raw bytes and parsed on first use.
//
// A Document is safe for concurrent use.
type Document struct {
	raw []byte

	validOnce sync.Once
	valid     bool

	treeOnce sync.Once
	tree     Value
	treeErr  error

	// top-level members of an object root, indexed on first key access
	indexOnce sync.Once
	index     map[string]gjson.Result
	keys      []string
	indexErr  error
}

// NewDocument wraps raw JSON bytes without parsing them. The bytes are copied.
func NewDocument(raw []byte) *Document {
	b := make([]byte, len(raw))
	copy(b, raw)
	return &Document{raw: b}
}

// Parse wraps raw JSON bytes and validates them eagerly.
func Parse(raw []byte) (*Document, error) {
	d := NewDocument(raw)
	if err := d.Validate(); err != nil {
		return nil, err
	}
	return d, nil
}

// Validate reports ErrMalformedJSON if the bytes are not a single valid JSON value.
func (d *Document) Validate() error {
	d.validOnce.Do(func() {
		d.valid = gjson.ValidBytes(d.raw)
	})
	if !d.valid {
		return fmt.Errorf("%w: %q", ErrMalformedJSON, truncate(d.raw, 64))
	}
	return nil
}

// Raw returns a copy of the document bytes.
func (d *Document) Raw() []byte {
	b := make([]byte, len(d.raw))
	copy(b, d.raw)
	return b
}

// String returns the document text.
func (d *Document) String() string {
	return string(d.raw)
}

// MarshalJSON embeds the document verbatim.
func (d *Document) MarshalJSON() ([]byte, error) {
	if err := d.Validate(); err != nil {
		return nil, err
	}
	return d.Raw(), nil
}

// Element returns the fully parsed document. The tree is built once.
func (d *Document) Element() (Value, error) {
	d.treeOnce.Do(func() {
		if err := d.Validate(); err != nil {
			d.treeErr = err
			return
		}
		d.tree = fromResult(gjson.ParseBytes(d.raw))
	})
	return d.tree, d.treeErr
}

// Interface returns the parsed document as plain Go values.
func (d *Document) Interface() (any, error) {
	v, err := d.Element()
	if err != nil {
		return nil, err
	}
	return v.Interface(), nil
}

// Decode unmarshals the document into v.
func (d *Document) Decode(v any) error {
	if err := d.Validate(); err != nil {
		return err
	}
	return gojson.Unmarshal(d.raw, v)
}

// members scans the root object once and indexes its top-level keys.
// Later duplicates of a key replace earlier ones.
func (d *Document) members() (map[string]gjson.Result, []string, error) {
	d.indexOnce.Do(func() {
		if err := d.Validate(); err != nil {
			d.indexErr = err
			return
		}
		root := gjson.ParseBytes(d.raw)
		if !root.IsObject() {
			d.indexErr = fmt.Errorf("%w: root is %s", ErrNotADict, fromResultKind(root))
			return
		}
		d.index = make(map[string]gjson.Result)
		d.keys = []string{}
		root.ForEach(func(k, v gjson.Result) bool {
			if _, dup := d.index[k.Str]; !dup {
				d.keys = append(d.keys, k.Str)
			}
			d.index[k.Str] = v
			return true
		})
	})
	return d.index, d.keys, d.indexErr
}

// lookup projects a single top-level key without building the full tree.
func (d *Document) lookup(key string) (gjson.Result, error) {
	index, _, err := d.members()
	if err != nil {
		return gjson.Result{}, err
	}
	r, ok := index[key]
	if !ok {
		return gjson.Result{}, fmt.Errorf("%w: %q", ErrKeyNotFound, key)
	}
	return r, nil
}

// Get returns the value stored under a top-level key.
func (d *Document) Get(key string) (Value, error) {
	r, err := d.lookup(key)
	if err != nil {
		return Value{}, err
	}
	return fromResult(r), nil
}

// Has reports whether the document is an object containing key.
func (d *Document) Has(key string) bool {
	_, err := d.lookup(key)
	return err == nil
}

// Keys returns the top-level keys in document order.
func (d *Document) Keys() ([]string, error) {
	_, keys, err := d.members()
	if err != nil {
		return nil, err
	}
	return slices.Clone(keys), nil
}

// GetString returns the string stored under key.
func (d *Document) GetString(key string) (string, error) {
	v, err := d.Get(key)
	if err != nil {
		return "", err
	}
	s, ok := v.AsString()
	if !ok {
		return "", mismatch(key, KindString, v.Kind)
	}
	return s, nil
}

// GetInt returns the integer stored under key.
func (d *Document) GetInt(key string) (int64, error) {
	v, err := d.Get(key)
	if err != nil {
		return 0, err
	}
	i, ok := v.AsInt64()
	if !ok {
		return 0, mismatch(key, KindInt, v.Kind)
	}
	return i, nil
}

// GetDouble returns the number stored under key. Integers are widened.
func (d *Document) GetDouble(key string) (float64, error) {
	v, err := d.Get(key)
	if err != nil {
		return 0, err
	}
	f, ok := v.AsFloat64()
	if !ok {
		return 0, mismatch(key, KindFloat, v.Kind)
	}
	return f, nil
}

// GetBool returns the boolean stored under key.
func (d *Document) GetBool(key string) (bool, error) {
	v, err := d.Get(key)
	if err != nil {
		return false, err
	}
	b, ok := v.AsBool()
	if !ok {
		return false, mismatch(key, KindBool, v.Kind)
	}
	return b, nil
}

func mismatch(key string, want, got Kind) error {
	return fmt.Errorf("%w: key %q holds %s, not %s", ErrTypeMismatch, key, got, want)
}

func fromResultKind(r gjson.Result) Kind {
	switch r.Type {
	case gjson.Null:
		return KindNull
	case gjson.True, gjson.False:
		return KindBool
	case gjson.String:
		return KindString
	case gjson.Number:
		return KindFloat
	case gjson.JSON:
		if r.IsArray() {
			return KindArray
		}
		return KindObject
	default:
		return KindInvalid
	}
}

func truncate(b []byte, n int) string {
	if len(b) <= n {
		return string(b)
	}
	return string(b[:n]) + "..."
}
