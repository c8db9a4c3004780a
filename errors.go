package vecwire

import (
	"github.com/hupe1980/vecwire/column"
	"github.com/hupe1980/vecwire/jsondoc"
	"github.com/hupe1980/vecwire/row"
	"github.com/hupe1980/vecwire/schema"
	"github.com/hupe1980/vecwire/vector"
)

// Errors returned by Encode, Decode and the ResultSet accessors. Every
// failure wraps one of these, so callers can test with errors.Is.
var (
	// Wire data.
	ErrMalformedColumn        = column.ErrMalformedColumn
	ErrRowCountMismatch       = column.ErrRowCountMismatch
	ErrColumnRowCountMismatch = row.ErrColumnRowCountMismatch
	ErrStructArityMismatch    = column.ErrStructArityMismatch
	ErrRowOutOfRange          = column.ErrRowOutOfRange
	ErrDimensionMismatch      = vector.ErrDimensionMismatch
	ErrMalformedSparseVector  = vector.ErrMalformedSparseVector
	ErrUnsupportedLogicalType = schema.ErrUnsupportedLogicalType
	ErrInvalidField           = schema.ErrInvalidField

	// Encode input.
	ErrTypeCoercion   = row.ErrTypeCoercion
	ErrShapeMismatch  = row.ErrShapeMismatch
	ErrUnknownField   = row.ErrUnknownField
	ErrMissingField   = row.ErrMissingField
	ErrAutoIDProvided = row.ErrAutoIDProvided
	ErrValueTooLong   = row.ErrValueTooLong

	// JSON access.
	ErrNotADict      = jsondoc.ErrNotADict
	ErrKeyNotFound   = jsondoc.ErrKeyNotFound
	ErrMalformedJSON = jsondoc.ErrMalformedJSON

	// Record access.
	ErrFieldNotFound = row.ErrFieldNotFound
	ErrTypeMismatch  = row.ErrTypeMismatch
	ErrNullValue     = row.ErrNullValue
)

// FieldError reports the input row and field an encode failure belongs to.
//
// The underlying error can be accessed via errors.Unwrap.
type FieldError = row.FieldError
