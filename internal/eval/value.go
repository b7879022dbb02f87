package eval

import (
	"math"
	"strconv"
)

// Kind is the runtime type of a Value.
type Kind uint8

const (
	NumberKind Kind = iota + 1
	StringKind
)

// TypeName returns the user facing name of the kind.
func (k Kind) TypeName() string {
	switch k {
	case NumberKind:
		return "number"
	case StringKind:
		return "string"
	default:
		return "unknown"
	}
}

// Value is a runtime value: either a Number or a String.
type Value struct {
	kind Kind
	num  float64
	str  string
}

// Number creates a number value.
func Number(n float64) Value {
	return Value{kind: NumberKind, num: n}
}

// String creates a string value.
func String(s string) Value {
	return Value{kind: StringKind, str: s}
}

// Kind returns the runtime type.
func (v Value) Kind() Kind {
	return v.kind
}

// TypeName returns "number" or "string".
func (v Value) TypeName() string {
	return v.kind.TypeName()
}

// AsNumber returns the number held by v.
func (v Value) AsNumber() (float64, bool) {
	return v.num, v.kind == NumberKind
}

// AsString returns the string held by v.
func (v Value) AsString() (string, bool) {
	return v.str, v.kind == StringKind
}

// String renders v the way string concatenation sees it. Numbers use the
// shortest decimal form without an exponent, so 3 renders as "3" and 0.5
// as "0.5".
func (v Value) String() string {
	if v.kind == StringKind {
		return v.str
	}
	switch {
	case math.IsInf(v.num, 1):
		return "inf"
	case math.IsInf(v.num, -1):
		return "-inf"
	case math.IsNaN(v.num):
		return "NaN"
	}
	return strconv.FormatFloat(v.num, 'f', -1, 64)
}
