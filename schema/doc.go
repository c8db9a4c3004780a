// Package schema describes collection fields and their logical types.
//
// A Field carries everything the codec needs to interpret a wire column:
// the logical type, the vector dimension, the array element type, the
// sub-schema of a struct array and the nullability and default flags.
//
//	s := schema.New(
//	    schema.NewField("id", schema.Int64, schema.AsPrimaryKey()),
//	    schema.NewField("emb", schema.Float16Vector, schema.WithDim(4)),
//	    schema.NewField("tags", schema.Array, schema.WithElementType(schema.VarChar)),
//	)
package schema
