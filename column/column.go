package column

import (
	"errors"
	"fmt"
	"sync"

	"github.com/hupe1980/vecwire/schema"
	"github.com/hupe1980/vecwire/vector"
)

var (
	// ErrMalformedColumn is returned when a column's payload does not fit its
	// field descriptor or its validity bitmap has the wrong length.
	ErrMalformedColumn = errors.New("malformed column")

	// ErrRowCountMismatch is returned when the number of rows derived from a
	// payload differs from the column's declared row count.
	ErrRowCountMismatch = errors.New("row count mismatch")

	// ErrStructArityMismatch is returned when the sub-fields of a struct
	// array disagree on the number of elements in the same row.
	ErrStructArityMismatch = errors.New("struct arity mismatch")

	// ErrRowOutOfRange is returned for row indices outside [0, Rows).
	ErrRowOutOfRange = errors.New("row index out of range")
)

// Column is one field's worth of wire data for N rows.
//
// Decoding is lazy: the first call to Values decodes the payload and the
// result is reused by later calls. A Column is safe for concurrent readers.
type Column struct {
	Field   schema.Field
	Rows    int
	Payload Payload

	// Valid marks present rows. Nil means every row is present.
	Valid []bool

	// Dim is the vector dimension. For sparse vectors it is the largest
	// index plus one and carries no validation meaning.
	Dim int

	// elementwise marks a struct array sub-field column: one sub-payload
	// per outer row holding that row's elements.
	elementwise bool

	once   sync.Once
	values []any
	err    error
}

// New creates a column and checks its structure.
func New(field schema.Field, rows int, payload Payload, valid []bool) (*Column, error) {
	return build(field, rows, payload, valid, false)
}

// NewSubField creates a struct array sub-field column. lists holds one
// sub-payload per outer row with that row's elements.
func NewSubField(field schema.Field, rows int, lists ListData) (*Column, error) {
	return build(field, rows, lists, nil, true)
}

func build(field schema.Field, rows int, payload Payload, valid []bool, elementwise bool) (*Column, error) {
	if len(valid) == 0 {
		valid = nil
	}
	c := &Column{
		Field:       field,
		Rows:        rows,
		Payload:     payload,
		Valid:       valid,
		Dim:         field.Dim,
		elementwise: elementwise,
	}
	if err := c.validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// Name returns the field name.
func (c *Column) Name() string { return c.Field.Name }

// Len returns the number of rows.
func (c *Column) Len() int { return c.Rows }

// IsSubField reports whether c is a struct array sub-field column.
func (c *Column) IsSubField() bool { return c.elementwise }

// Validity returns the column's null positions.
func (c *Column) Validity() Validity { return NewValidity(c.Valid) }

// Values returns the decoded value of every row, nil for null rows.
// The returned slice and the vectors, arrays and struct elements in it are
// owned by the caller.
func (c *Column) Values() ([]any, error) {
	if err := c.load(); err != nil {
		return nil, err
	}
	out := make([]any, len(c.values))
	for i, v := range c.values {
		out[i] = cloneValue(v)
	}
	return out, nil
}

// Value returns the decoded value of row i, owned by the caller.
func (c *Column) Value(i int) (any, error) {
	if i < 0 || i >= c.Rows {
		return nil, fmt.Errorf("%w: %d not in [0, %d)", ErrRowOutOfRange, i, c.Rows)
	}
	if err := c.load(); err != nil {
		return nil, err
	}
	return cloneValue(c.values[i]), nil
}

func (c *Column) load() error {
	c.once.Do(func() {
		if c.elementwise {
			c.err = fmt.Errorf("%w: field %q: sub-field columns decode through their struct array", ErrMalformedColumn, c.Field.Name)
			return
		}
		var raw []any
		raw, c.err = decode(c)
		if c.err != nil {
			c.err = fmt.Errorf("field %q: %w", c.Field.Name, c.err)
			return
		}
		c.values, c.err = ResolveNulls(raw, c.Valid)
	})
	return c.err
}

func (c *Column) validate() error {
	f := c.Field
	if err := f.Type.Check(); err != nil {
		return fmt.Errorf("field %q: %w", f.Name, err)
	}
	if c.Rows < 0 {
		return c.malformed("negative row count %d", c.Rows)
	}
	if c.Valid != nil && len(c.Valid) != c.Rows {
		return c.malformed("validity bitmap has %d entries for %d rows", len(c.Valid), c.Rows)
	}
	if c.Payload == nil {
		return c.malformed("missing payload")
	}
	if f.Type.IsFixedWidthVector() {
		if _, err := vector.Footprint(f.Type, c.Dim); err != nil {
			return c.malformed("%v", err)
		}
	}

	if c.elementwise {
		if f.Type == schema.Array || f.Type == schema.StructArray || f.Type == schema.JSON {
			return c.malformed("%s cannot be a struct array sub-field", f.Type)
		}
		lists, ok := c.Payload.(ListData)
		if !ok {
			return c.malformed("sub-field payload is %s, expected list", c.Payload.Kind())
		}
		return checkEntries(c, lists, payloadKindFor(f.Type))
	}

	want := payloadKindFor(f.Type)
	if got := c.Payload.Kind(); got != want {
		return c.malformed("%s field carries %s payload, expected %s", f.Type, got, want)
	}

	switch p := c.Payload.(type) {
	case ListData:
		if err := f.ElementType.Check(); err != nil {
			return fmt.Errorf("field %q: element: %w", f.Name, err)
		}
		if !f.ElementType.IsScalar() {
			return c.malformed("array element type %s is not a scalar", f.ElementType)
		}
		return checkEntries(c, p, payloadKindFor(f.ElementType))
	case StructData:
		return c.validateStruct(p)
	}
	return nil
}

func (c *Column) validateStruct(children StructData) error {
	if len(children) == 0 {
		return c.malformed("struct array has no sub-field columns")
	}
	seen := make(map[string]struct{}, len(children))
	for _, child := range children {
		if child == nil {
			return c.malformed("nil sub-field column")
		}
		if !child.elementwise {
			return c.malformed("sub-field %q is not a sub-field column", child.Field.Name)
		}
		if len(c.Field.Fields) > 0 {
			sf, ok := c.Field.SubField(child.Field.Name)
			if !ok {
				return c.malformed("unknown sub-field %q", child.Field.Name)
			}
			if sf.Type != child.Field.Type {
				return c.malformed("sub-field %q is %s, schema declares %s", sf.Name, child.Field.Type, sf.Type)
			}
		}
		if _, dup := seen[child.Field.Name]; dup {
			return c.malformed("duplicate sub-field %q", child.Field.Name)
		}
		seen[child.Field.Name] = struct{}{}
		if child.Rows != c.Rows {
			return c.malformed("sub-field %q has %d rows, struct array has %d", child.Field.Name, child.Rows, c.Rows)
		}
	}
	return nil
}

func checkEntries(c *Column, lists ListData, want PayloadKind) error {
	for i, p := range lists {
		if p == nil {
			return c.malformed("row %d: missing sub-payload", i)
		}
		if got := p.Kind(); got != want {
			return c.malformed("row %d: sub-payload is %s, expected %s", i, got, want)
		}
	}
	return nil
}

func (c *Column) malformed(format string, args ...any) error {
	return fmt.Errorf("%w: field %q: %s", ErrMalformedColumn, c.Field.Name, fmt.Sprintf(format, args...))
}

// payloadKindFor returns the payload variant that carries values of type t.
func payloadKindFor(t schema.DataType) PayloadKind {
	switch t {
	case schema.Bool:
		return KindBool
	case schema.Int8, schema.Int16, schema.Int32:
		return KindInt
	case schema.Int64:
		return KindLong
	case schema.Float, schema.FloatVector:
		return KindFloat
	case schema.Double:
		return KindDouble
	case schema.String, schema.VarChar, schema.Geometry:
		return KindString
	case schema.JSON, schema.SparseFloatVector:
		return KindBlobs
	case schema.BinaryVector, schema.Float16Vector, schema.BFloat16Vector, schema.Int8Vector:
		return KindBytes
	case schema.Array:
		return KindList
	case schema.StructArray:
		return KindStruct
	default:
		return 0
	}
}
