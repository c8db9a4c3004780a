package row

import (
	"errors"
	"fmt"
	"slices"

	"github.com/hupe1980/vecwire/column"
	"github.com/hupe1980/vecwire/jsondoc"
	"github.com/hupe1980/vecwire/schema"
)

// Assemble combines the decoded columns of a response into one record per
// row, preserving the server's row order.
//
// Without outputFields every declared column appears in column order,
// followed by the keys of the dynamic field in document order. A key that
// collides with a declared field is dropped. With outputFields the records
// carry exactly those names in that order. Names that are not columns are
// looked up in the dynamic field and omitted from rows that lack them.
//
// Assemble decodes every column before building any record, so it returns
// either all records or an error.
func Assemble(cols []*column.Column, rowCount int, outputFields []string) ([]*Record, error) {
	if rowCount < 0 {
		return nil, fmt.Errorf("%w: negative row count %d", ErrColumnRowCountMismatch, rowCount)
	}

	var (
		declared []*column.Column
		dynamic  *column.Column
		byName   = make(map[string]int, len(cols))
		values   = make([][]any, len(cols))
	)
	for i, c := range cols {
		if c == nil {
			return nil, fmt.Errorf("%w: nil column at position %d", column.ErrMalformedColumn, i)
		}
		if c.Rows != rowCount {
			return nil, fmt.Errorf("%w: field %q has %d rows, expected %d", ErrColumnRowCountMismatch, c.Name(), c.Rows, rowCount)
		}
		vs, err := c.Values()
		if err != nil {
			if errors.Is(err, column.ErrRowCountMismatch) {
				return nil, fmt.Errorf("%w: %w", ErrColumnRowCountMismatch, err)
			}
			return nil, err
		}
		values[i] = vs
		byName[c.Name()] = i

		if isDynamic(c.Field) {
			if dynamic != nil {
				return nil, fmt.Errorf("%w: more than one dynamic field", column.ErrMalformedColumn)
			}
			dynamic = c
			continue
		}
		declared = append(declared, c)
	}

	var docs []any
	if dynamic != nil {
		docs = values[byName[dynamic.Name()]]
	}

	if len(outputFields) > 0 {
		for _, name := range outputFields {
			if _, ok := byName[name]; !ok && dynamic == nil {
				return nil, fmt.Errorf("%w: %q", ErrFieldNotFound, name)
			}
		}
	}

	records := make([]*Record, rowCount)
	for r := range rowCount {
		var (
			names []string
			vals  []any
			err   error
		)
		if len(outputFields) > 0 {
			names, vals, err = project(outputFields, byName, values, docs, r)
		} else {
			names, vals, err = merge(declared, byName, values, docs, r)
		}
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", r, err)
		}
		records[r] = &Record{names: names, values: vals, index: indexOf(names)}
	}
	return records, nil
}

func isDynamic(f schema.Field) bool {
	return f.IsDynamic || f.Name == schema.DynamicFieldName
}

func merge(declared []*column.Column, byName map[string]int, values [][]any, docs []any, r int) ([]string, []any, error) {
	names := make([]string, 0, len(declared))
	vals := make([]any, 0, len(declared))
	for _, c := range declared {
		names = append(names, c.Name())
		vals = append(vals, values[byName[c.Name()]][r])
	}
	if docs == nil {
		return names, vals, nil
	}
	doc, _ := docs[r].(*jsondoc.Document)
	if doc == nil {
		return names, vals, nil
	}
	root, err := doc.Element()
	if err != nil {
		return nil, nil, err
	}
	members, ok := root.AsObject()
	if !ok {
		return nil, nil, fmt.Errorf("dynamic field: %w", jsondoc.ErrNotADict)
	}
	for _, m := range members {
		if _, taken := byName[m.Key]; taken {
			continue
		}
		// Repeated keys resolve to the last occurrence.
		v, _ := root.Get(m.Key)
		if i := slices.Index(names, m.Key); i >= 0 {
			vals[i] = v.Interface()
			continue
		}
		names = append(names, m.Key)
		vals = append(vals, v.Interface())
	}
	return names, vals, nil
}

func project(outputFields []string, byName map[string]int, values [][]any, docs []any, r int) ([]string, []any, error) {
	names := make([]string, 0, len(outputFields))
	vals := make([]any, 0, len(outputFields))
	for _, name := range outputFields {
		if slices.Index(names, name) >= 0 {
			continue
		}
		if i, ok := byName[name]; ok {
			names = append(names, name)
			vals = append(vals, values[i][r])
			continue
		}
		doc, _ := docs[r].(*jsondoc.Document)
		if doc == nil {
			continue
		}
		v, err := doc.Get(name)
		switch {
		case errors.Is(err, jsondoc.ErrKeyNotFound):
			continue
		case err != nil:
			return nil, nil, fmt.Errorf("dynamic field: %w", err)
		}
		names = append(names, name)
		vals = append(vals, v.Interface())
	}
	return names, vals, nil
}

func indexOf(names []string) map[string]int {
	idx := make(map[string]int, len(names))
	for i, n := range names {
		idx[n] = i
	}
	return idx
}
