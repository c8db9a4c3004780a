package column

import (
	"fmt"

	"github.com/hupe1980/vecwire/jsondoc"
	"github.com/hupe1980/vecwire/schema"
)

// JSON returns the value stored under key in the JSON document of row i.
// A null row yields a null value.
func (c *Column) JSON(i int, key string) (jsondoc.Value, error) {
	if c.Field.Type != schema.JSON {
		return jsondoc.Value{}, fmt.Errorf("%w: field %q is %s", jsondoc.ErrNotADict, c.Field.Name, c.Field.Type)
	}
	v, err := c.Value(i)
	if err != nil {
		return jsondoc.Value{}, err
	}
	if v == nil {
		return jsondoc.Null(), nil
	}
	return v.(*jsondoc.Document).Get(key)
}

// Document returns the JSON document of row i, or nil for a null row.
func (c *Column) Document(i int) (*jsondoc.Document, error) {
	if c.Field.Type != schema.JSON {
		return nil, fmt.Errorf("%w: field %q is %s", jsondoc.ErrNotADict, c.Field.Name, c.Field.Type)
	}
	v, err := c.Value(i)
	if err != nil || v == nil {
		return nil, err
	}
	return v.(*jsondoc.Document), nil
}
