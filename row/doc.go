// Package row converts between row-oriented records and wire columns.
//
// Split is the encode path: it coerces loosely typed input maps into one
// column per schema field. Assemble is the decode path: it combines decoded
// columns into ordered records with typed accessors.
//
//	cols, err := row.Split(s, []map[string]any{
//	    {"id": 1, "emb": []float32{1, 2, 3, 4}, "tags": []string{"a", "b"}},
//	})
//	...
//	records, err := row.Assemble(cols, 1, nil)
package row
