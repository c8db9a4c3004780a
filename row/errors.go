package row

import (
	"errors"
	"fmt"
)

var (
	// ErrColumnRowCountMismatch is returned when a column's length disagrees
	// with the declared row count of a result set.
	ErrColumnRowCountMismatch = errors.New("column row count mismatch")

	// ErrTypeCoercion is returned when a scalar input cannot be converted to
	// the field type.
	ErrTypeCoercion = errors.New("type coercion failed")

	// ErrShapeMismatch is returned when a vector, array, JSON or struct input
	// does not have the shape its field requires.
	ErrShapeMismatch = errors.New("shape mismatch")

	// ErrUnknownField is returned for input keys not declared in a schema
	// without a dynamic field.
	ErrUnknownField = errors.New("unknown field")

	// ErrMissingField is returned when a required field has no value.
	ErrMissingField = errors.New("missing field")

	// ErrAutoIDProvided is returned when an insert supplies a primary key the
	// server assigns.
	ErrAutoIDProvided = errors.New("auto id primary key must not be provided")

	// ErrValueTooLong is returned when a VarChar value exceeds its max length.
	ErrValueTooLong = errors.New("value exceeds max length")

	// ErrFieldNotFound is returned by Record accessors for absent fields.
	ErrFieldNotFound = errors.New("field not found")

	// ErrTypeMismatch is returned by typed Record accessors when the stored
	// value has a different type.
	ErrTypeMismatch = errors.New("field type mismatch")

	// ErrNullValue is returned by typed Record accessors for null values.
	ErrNullValue = errors.New("field value is null")
)

// FieldError reports which row and field an encode failure belongs to.
//
// The underlying error can be accessed via errors.Unwrap.
type FieldError struct {
	Row   int
	Field string
	cause error
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("row %d: field %q: %v", e.Row, e.Field, e.cause)
}

func (e *FieldError) Unwrap() error { return e.cause }

func fieldErr(row int, field string, err error) error {
	return &FieldError{Row: row, Field: field, cause: err}
}
