package schema

import (
	"errors"
	"fmt"
)

// ErrInvalidField is returned when a field descriptor is inconsistent.
var ErrInvalidField = errors.New("invalid field")

// Field describes one named field of a collection.
type Field struct {
	Name string
	Type DataType

	// ElementType is the element type of an Array field.
	ElementType DataType

	// Dim is the vector dimension of a fixed-width vector field.
	// Sparse vectors have no fixed dimension.
	Dim int

	IsPrimaryKey bool
	AutoID       bool

	// IsDynamic marks the hidden JSON field that stores keys not declared
	// in the schema.
	IsDynamic bool

	Nullable bool

	// DefaultValue is substituted by the server for missing values.
	// Nil means no default.
	DefaultValue any

	// MaxLength bounds VarChar values in characters. Zero means unbounded.
	MaxLength int

	// MaxCapacity bounds Array lengths. Zero means unbounded.
	MaxCapacity int

	// Fields is the sub-schema of a StructArray field.
	Fields []Field
}

// NewField creates a field with the given name and type.
func NewField(name string, t DataType, opts ...FieldOption) Field {
	f := Field{Name: name, Type: t}
	for _, opt := range opts {
		opt(&f)
	}
	return f
}

// FieldOption configures a Field built by NewField.
type FieldOption func(*Field)

// WithDim sets the vector dimension.
func WithDim(dim int) FieldOption {
	return func(f *Field) { f.Dim = dim }
}

// WithElementType sets the element type of an Array field.
func WithElementType(t DataType) FieldOption {
	return func(f *Field) { f.ElementType = t }
}

// WithNullable marks the field as nullable.
func WithNullable() FieldOption {
	return func(f *Field) { f.Nullable = true }
}

// WithDefault sets a default value.
func WithDefault(v any) FieldOption {
	return func(f *Field) { f.DefaultValue = v }
}

// WithMaxLength bounds VarChar values.
func WithMaxLength(n int) FieldOption {
	return func(f *Field) { f.MaxLength = n }
}

// WithMaxCapacity bounds Array lengths.
func WithMaxCapacity(n int) FieldOption {
	return func(f *Field) { f.MaxCapacity = n }
}

// AsPrimaryKey marks the field as the primary key.
func AsPrimaryKey() FieldOption {
	return func(f *Field) { f.IsPrimaryKey = true }
}

// WithAutoID lets the server assign primary key values.
func WithAutoID() FieldOption {
	return func(f *Field) { f.AutoID = true }
}

// WithSubFields sets the sub-schema of a StructArray field.
func WithSubFields(fields ...Field) FieldOption {
	return func(f *Field) { f.Fields = fields }
}

// HasDefault reports whether the field carries a default value.
func (f Field) HasDefault() bool {
	return f.DefaultValue != nil
}

// Optional reports whether a row may omit the field.
func (f Field) Optional() bool {
	return f.Nullable || f.HasDefault()
}

// SubField returns the sub-field with the given name.
func (f Field) SubField(name string) (Field, bool) {
	for _, sf := range f.Fields {
		if sf.Name == name {
			return sf, true
		}
	}
	return Field{}, false
}

// Validate checks the internal consistency of the descriptor.
func (f Field) Validate() error {
	if f.Name == "" {
		return fmt.Errorf("%w: empty name", ErrInvalidField)
	}
	if err := f.Type.Check(); err != nil {
		return fmt.Errorf("field %q: %w", f.Name, err)
	}

	switch {
	case f.Type.IsFixedWidthVector():
		if f.Dim <= 0 {
			return fmt.Errorf("%w: field %q: %s requires a positive dimension, got %d", ErrInvalidField, f.Name, f.Type, f.Dim)
		}
		if f.Type == BinaryVector && f.Dim%8 != 0 {
			return fmt.Errorf("%w: field %q: binary vector dimension %d is not a multiple of 8", ErrInvalidField, f.Name, f.Dim)
		}
	case f.Dim != 0:
		return fmt.Errorf("%w: field %q: %s takes no dimension", ErrInvalidField, f.Name, f.Type)
	}

	switch f.Type {
	case Array:
		if err := f.ElementType.Check(); err != nil {
			return fmt.Errorf("field %q: element: %w", f.Name, err)
		}
		if !f.ElementType.IsScalar() {
			return fmt.Errorf("%w: field %q: array element type %s is not a scalar", ErrInvalidField, f.Name, f.ElementType)
		}
	case StructArray:
		if len(f.Fields) == 0 {
			return fmt.Errorf("%w: field %q: struct array has no sub-fields", ErrInvalidField, f.Name)
		}
		seen := make(map[string]struct{}, len(f.Fields))
		for _, sf := range f.Fields {
			if !sf.Type.IsScalar() && !sf.Type.IsVector() {
				return fmt.Errorf("%w: field %q: sub-field %q of type %s cannot be nested", ErrInvalidField, f.Name, sf.Name, sf.Type)
			}
			if sf.IsPrimaryKey || sf.IsDynamic {
				return fmt.Errorf("%w: field %q: sub-field %q cannot be a primary key or dynamic", ErrInvalidField, f.Name, sf.Name)
			}
			if err := sf.Validate(); err != nil {
				return fmt.Errorf("field %q: %w", f.Name, err)
			}
			if _, dup := seen[sf.Name]; dup {
				return fmt.Errorf("%w: field %q: duplicate sub-field %q", ErrInvalidField, f.Name, sf.Name)
			}
			seen[sf.Name] = struct{}{}
		}
	default:
		if len(f.Fields) != 0 {
			return fmt.Errorf("%w: field %q: only struct arrays carry sub-fields", ErrInvalidField, f.Name)
		}
	}

	if f.IsDynamic && f.Type != JSON {
		return fmt.Errorf("%w: field %q: dynamic field must be JSON", ErrInvalidField, f.Name)
	}
	if f.AutoID && !f.IsPrimaryKey {
		return fmt.Errorf("%w: field %q: auto id requires a primary key", ErrInvalidField, f.Name)
	}
	if f.IsPrimaryKey {
		if f.Type != Int64 && f.Type != VarChar {
			return fmt.Errorf("%w: field %q: primary key must be Int64 or VarChar, got %s", ErrInvalidField, f.Name, f.Type)
		}
		if f.Nullable {
			return fmt.Errorf("%w: field %q: primary key cannot be nullable", ErrInvalidField, f.Name)
		}
	}
	return nil
}
