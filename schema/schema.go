package schema

import "fmt"

// DynamicFieldName is the name of the hidden JSON field that holds keys not
// declared in a schema with dynamic fields enabled.
const DynamicFieldName = "$meta"

// Schema is an ordered list of fields.
type Schema struct {
	Fields             []Field
	EnableDynamicField bool
}

// New creates a schema from the given fields.
func New(fields ...Field) *Schema {
	return &Schema{Fields: fields}
}

// WithDynamicField enables the dynamic field and returns s.
func (s *Schema) WithDynamicField() *Schema {
	s.EnableDynamicField = true
	return s
}

// Lookup returns the field with the given name.
func (s *Schema) Lookup(name string) (Field, bool) {
	for _, f := range s.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return Field{}, false
}

// PrimaryKey returns the primary key field, if one is declared.
func (s *Schema) PrimaryKey() (Field, bool) {
	for _, f := range s.Fields {
		if f.IsPrimaryKey {
			return f, true
		}
	}
	return Field{}, false
}

// DynamicField returns the descriptor of the dynamic JSON field.
func DynamicField() Field {
	return Field{Name: DynamicFieldName, Type: JSON, IsDynamic: true}
}

// Validate checks every field and the schema-level constraints.
func (s *Schema) Validate() error {
	seen := make(map[string]struct{}, len(s.Fields))
	pk := 0
	for _, f := range s.Fields {
		if err := f.Validate(); err != nil {
			return err
		}
		if f.Name == DynamicFieldName {
			return fmt.Errorf("%w: field name %q is reserved", ErrInvalidField, f.Name)
		}
		if _, dup := seen[f.Name]; dup {
			return fmt.Errorf("%w: duplicate field %q", ErrInvalidField, f.Name)
		}
		seen[f.Name] = struct{}{}
		if f.IsPrimaryKey {
			pk++
		}
	}
	if pk > 1 {
		return fmt.Errorf("%w: %d primary keys declared", ErrInvalidField, pk)
	}
	return nil
}
