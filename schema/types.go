package schema

import (
	"errors"
	"fmt"
)

// ErrUnsupportedLogicalType is returned for a data type outside the closed set.
var ErrUnsupportedLogicalType = errors.New("unsupported logical type")

// DataType identifies the logical type of a field.
type DataType uint8

const (
	// None is the zero value and is never valid on a field.
	None DataType = iota
	Bool
	Int8
	Int16
	Int32
	Int64
	Float
	Double
	String
	VarChar
	JSON
	Geometry
	Array
	FloatVector
	BinaryVector
	Float16Vector
	BFloat16Vector
	Int8Vector
	SparseFloatVector
	StructArray

	maxDataType
)

var dataTypeNames = [...]string{
	None:              "None",
	Bool:              "Bool",
	Int8:              "Int8",
	Int16:             "Int16",
	Int32:             "Int32",
	Int64:             "Int64",
	Float:             "Float",
	Double:            "Double",
	String:            "String",
	VarChar:           "VarChar",
	JSON:              "JSON",
	Geometry:          "Geometry",
	Array:             "Array",
	FloatVector:       "FloatVector",
	BinaryVector:      "BinaryVector",
	Float16Vector:     "Float16Vector",
	BFloat16Vector:    "BFloat16Vector",
	Int8Vector:        "Int8Vector",
	SparseFloatVector: "SparseFloatVector",
	StructArray:       "StructArray",
}

// String returns the string representation of the DataType.
func (t DataType) String() string {
	if t < maxDataType {
		return dataTypeNames[t]
	}
	return fmt.Sprintf("DataType(%d)", uint8(t))
}

// Valid reports whether t is a member of the closed set.
func (t DataType) Valid() bool {
	return t > None && t < maxDataType
}

// Check returns ErrUnsupportedLogicalType if t is not a member of the closed set.
func (t DataType) Check() error {
	if !t.Valid() {
		return fmt.Errorf("%w: %s", ErrUnsupportedLogicalType, t)
	}
	return nil
}

// IsScalar reports whether t is a single-value scalar type.
func (t DataType) IsScalar() bool {
	switch t {
	case Bool, Int8, Int16, Int32, Int64, Float, Double, String, VarChar, Geometry:
		return true
	default:
		return false
	}
}

// IsInteger reports whether t is one of the integer types.
func (t DataType) IsInteger() bool {
	switch t {
	case Int8, Int16, Int32, Int64:
		return true
	default:
		return false
	}
}

// IsStringLike reports whether values of t travel as strings.
func (t DataType) IsStringLike() bool {
	return t == String || t == VarChar || t == Geometry
}

// IsVector reports whether t is any vector type, dense or sparse.
func (t DataType) IsVector() bool {
	return t.IsFixedWidthVector() || t == SparseFloatVector
}

// IsFixedWidthVector reports whether every vector of type t has the same
// byte footprint for a given dimension.
func (t DataType) IsFixedWidthVector() bool {
	switch t {
	case FloatVector, BinaryVector, Float16Vector, BFloat16Vector, Int8Vector:
		return true
	default:
		return false
	}
}
