package vecwire

import (
	"fmt"

	"github.com/hupe1980/vecwire/column"
	"github.com/hupe1980/vecwire/jsondoc"
	"github.com/hupe1980/vecwire/row"
	"github.com/hupe1980/vecwire/schema"
)

// ResultSet is a decoded response: ordered records plus the columns they
// were assembled from.
type ResultSet struct {
	records []*row.Record
	columns map[string]*column.Column
}

func newResultSet(cols []*column.Column, records []*row.Record) *ResultSet {
	byName := make(map[string]*column.Column, len(cols))
	for _, c := range cols {
		byName[c.Name()] = c
	}
	return &ResultSet{records: records, columns: byName}
}

// Len returns the number of rows.
func (rs *ResultSet) Len() int { return len(rs.records) }

// Rows returns the records in server order.
func (rs *ResultSet) Rows() []*row.Record {
	out := make([]*row.Record, len(rs.records))
	copy(out, rs.records)
	return out
}

// Row returns record i. It panics if i is out of range, like a slice index.
func (rs *ResultSet) Row(i int) *row.Record { return rs.records[i] }

// Column returns the wire column with the given name.
func (rs *ResultSet) Column(name string) (*column.Column, bool) {
	c, ok := rs.columns[name]
	return c, ok
}

// JSON returns the value stored under key in the JSON field of row i.
// A null row yields a JSON null. For the dynamic field, pass
// schema.DynamicFieldName.
func (rs *ResultSet) JSON(i int, field, key string) (jsondoc.Value, error) {
	c, ok := rs.columns[field]
	if !ok {
		return jsondoc.Value{}, fmt.Errorf("%w: %q", ErrFieldNotFound, field)
	}
	return c.JSON(i, key)
}

// Dynamic returns the value stored under key in the dynamic field of row i.
func (rs *ResultSet) Dynamic(i int, key string) (jsondoc.Value, error) {
	return rs.JSON(i, schema.DynamicFieldName, key)
}
