// Package vecwire is the typed field codec of a vector database client.
//
// It converts row-oriented application data into the columnar wire payloads
// a vector database server expects, and turns the columnar payloads of query
// and search responses back into ordered row records.
//
// # Quick Start
//
//	s := schema.New(
//	    schema.NewField("id", schema.Int64, schema.AsPrimaryKey()),
//	    schema.NewField("emb", schema.Float16Vector, schema.WithDim(4)),
//	    schema.NewField("tags", schema.Array, schema.WithElementType(schema.VarChar)),
//	)
//
//	c := vecwire.New()
//	cols, _ := c.Encode(ctx, s, []map[string]any{
//	    {"id": 1, "emb": []float32{1, 2, 3, 4}, "tags": []string{"a", "b"}},
//	})
//
//	rs, _ := c.Decode(ctx, cols, 1, nil)
//	id, _ := rs.Row(0).GetInt("id")
//
// # Coercion
//
// Encoding is lenient for scalars and strict for everything
// else. Integers wrap to the field width (300 stored as Int8 is 44), floats
// truncate toward zero and strings are parsed for numeric and boolean
// fields. Vectors, arrays, JSON and struct arrays must already have their
// field's shape.
//
// # Nulls
//
// Every wire column holds exactly one entry per row. Null rows carry a
// placeholder and are marked in the column's validity bitmap; decoding
// yields nil for them.
//
// # JSON
//
// JSON fields decode to *jsondoc.Document values that parse lazily. Numbers
// without a fractional part are read as integers, all others as floats.
//
// # Bulk import
//
// Package bulkwriter writes rows as JSON import files to a blobstore.Store
// (local disk, MinIO or S3) for the server's bulk import API.
//
// # Metrics
//
// WithMetricsCollector accepts any MetricsCollector. BasicMetricsCollector
// keeps in-process counters and package prommetrics exports Prometheus
// metrics.
package vecwire
