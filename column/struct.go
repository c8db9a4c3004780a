package column

import (
	"fmt"
)

// transpose turns the sibling sub-field columns of a struct array into one
// list of records per outer row. Every sub-field must report the same element
// count for a row; a null outer row decodes to nil and an empty one to an
// empty list.
func transpose(c *Column, validity Validity) ([]any, error) {
	children := c.Payload.(StructData)

	elems := make([][][]any, len(children))
	for k, child := range children {
		lists := child.Payload.(ListData)
		if len(lists) != c.Rows {
			return nil, fmt.Errorf("%w: sub-field %q holds %d rows, struct array declares %d", ErrRowCountMismatch, child.Field.Name, len(lists), c.Rows)
		}
		elems[k] = make([][]any, c.Rows)
		for i, p := range lists {
			if validity.IsNull(i) {
				continue
			}
			vals, err := decodeElements(child.Field, child.Dim, p)
			if err != nil {
				return nil, fmt.Errorf("sub-field %q: row %d: %w", child.Field.Name, i, err)
			}
			elems[k][i] = vals
		}
	}

	out := make([]any, c.Rows)
	for i := range c.Rows {
		if validity.IsNull(i) {
			continue
		}
		count := len(elems[0][i])
		for k := 1; k < len(children); k++ {
			if n := len(elems[k][i]); n != count {
				return nil, fmt.Errorf("%w: row %d: sub-field %q has %d elements, %q has %d",
					ErrStructArityMismatch, i, children[0].Field.Name, count, children[k].Field.Name, n)
			}
		}
		group := make([]map[string]any, count)
		for j := range count {
			rec := make(map[string]any, len(children))
			for k, child := range children {
				rec[child.Field.Name] = elems[k][i][j]
			}
			group[j] = rec
		}
		out[i] = group
	}
	return out, nil
}
