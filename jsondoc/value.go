package jsondoc

import (
	"math"
	"strconv"
	"strings"

	"github.com/tidwall/gjson"
)

// Kind identifies the concrete type stored in a Value.
type Kind uint8

const (
	// KindInvalid represents an invalid kind.
	KindInvalid Kind = iota
	// KindNull represents a JSON null.
	KindNull
	// KindBool represents true or false.
	KindBool
	// KindInt represents a number without a fractional part.
	KindInt
	// KindFloat represents any other number.
	KindFloat
	// KindString represents a string.
	KindString
	// KindArray represents an array.
	KindArray
	// KindObject represents an object.
	KindObject
)

// String returns the string representation of the Kind.
func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindBool:
		return "bool"
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	case KindString:
		return "string"
	case KindArray:
		return "array"
	case KindObject:
		return "object"
	default:
		return "invalid"
	}
}

// Value is one node of a parsed JSON document.
type Value struct {
	Kind Kind
	I64  int64
	F64  float64
	S    string
	B    bool
	A    []Value
	O    []Member
}

// Member is one key/value pair of an object, in document order.
type Member struct {
	Key   string
	Value Value
}

// Null returns a null value.
func Null() Value { return Value{Kind: KindNull} }

// Bool returns a boolean value.
func Bool(b bool) Value { return Value{Kind: KindBool, B: b} }

// Int returns an integer value.
func Int(i int64) Value { return Value{Kind: KindInt, I64: i} }

// Float returns a float value.
func Float(f float64) Value { return Value{Kind: KindFloat, F64: f} }

// String returns a string value.
func String(s string) Value { return Value{Kind: KindString, S: s} }

// Array returns an array value.
func Array(vs ...Value) Value { return Value{Kind: KindArray, A: vs} }

// Object returns an object value.
func Object(members ...Member) Value { return Value{Kind: KindObject, O: members} }

// IsNull reports whether v is a JSON null.
func (v Value) IsNull() bool { return v.Kind == KindNull }

// AsBool returns the boolean if Kind is KindBool.
func (v Value) AsBool() (bool, bool) {
	if v.Kind != KindBool {
		return false, false
	}
	return v.B, true
}

// AsInt64 returns the integer if Kind is KindInt.
func (v Value) AsInt64() (int64, bool) {
	if v.Kind != KindInt {
		return 0, false
	}
	return v.I64, true
}

// AsFloat64 returns the number as float64 if Kind is KindFloat or KindInt.
func (v Value) AsFloat64() (float64, bool) {
	switch v.Kind {
	case KindFloat:
		return v.F64, true
	case KindInt:
		return float64(v.I64), true
	default:
		return 0, false
	}
}

// AsString returns the string if Kind is KindString.
func (v Value) AsString() (string, bool) {
	if v.Kind != KindString {
		return "", false
	}
	return v.S, true
}

// AsArray returns the elements if Kind is KindArray.
func (v Value) AsArray() ([]Value, bool) {
	if v.Kind != KindArray {
		return nil, false
	}
	return v.A, true
}

// AsObject returns the members if Kind is KindObject.
func (v Value) AsObject() ([]Member, bool) {
	if v.Kind != KindObject {
		return nil, false
	}
	return v.O, true
}

// Get returns the member value for key. When a key repeats, the last
// occurrence wins.
func (v Value) Get(key string) (Value, bool) {
	if v.Kind != KindObject {
		return Value{}, false
	}
	for i := len(v.O) - 1; i >= 0; i-- {
		if v.O[i].Key == key {
			return v.O[i].Value, true
		}
	}
	return Value{}, false
}

// Interface converts v to plain Go values: nil, bool, int64, float64,
// string, []any and map[string]any.
func (v Value) Interface() any {
	switch v.Kind {
	case KindBool:
		return v.B
	case KindInt:
		return v.I64
	case KindFloat:
		return v.F64
	case KindString:
		return v.S
	case KindArray:
		out := make([]any, len(v.A))
		for i := range v.A {
			out[i] = v.A[i].Interface()
		}
		return out
	case KindObject:
		out := make(map[string]any, len(v.O))
		for _, m := range v.O {
			out[m.Key] = m.Value.Interface()
		}
		return out
	default:
		return nil
	}
}

// fromResult converts a gjson result into a Value tree.
func fromResult(r gjson.Result) Value {
	switch r.Type {
	case gjson.Null:
		return Null()
	case gjson.False:
		return Bool(false)
	case gjson.True:
		return Bool(true)
	case gjson.String:
		return String(r.Str)
	case gjson.Number:
		return fromNumber(r)
	case gjson.JSON:
		if r.IsArray() {
			var elems []Value
			r.ForEach(func(_, el gjson.Result) bool {
				elems = append(elems, fromResult(el))
				return true
			})
			return Array(elems...)
		}
		var members []Member
		r.ForEach(func(k, el gjson.Result) bool {
			members = append(members, Member{Key: k.Str, Value: fromResult(el)})
			return true
		})
		return Object(members...)
	default:
		return Value{}
	}
}

func fromNumber(r gjson.Result) Value {
	if !strings.ContainsAny(r.Raw, ".eE") {
		if i, err := strconv.ParseInt(r.Raw, 10, 64); err == nil {
			return Int(i)
		}
		return Float(r.Num)
	}
	if r.Num == math.Trunc(r.Num) && r.Num >= math.MinInt64 && r.Num < math.MaxInt64 {
		return Int(int64(r.Num))
	}
	return Float(r.Num)
}
