// Package types defines runtime value types for keypath.
package types

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Kind represents the type of a runtime value.
type Kind uint8

const (
	KindUndefined Kind = iota // No result
	KindNull                  // Explicit null
	KindBool                  // Boolean value
	KindNum                   // Numeric value
	KindStr                   // String value
	KindList                  // Ordered list (reference)
	KindMap                   // String-keyed map (reference)
	KindFunc                  // Callable value
)

// String returns a string representation of the kind.
func (k Kind) String() string {
	switch k {
	case KindUndefined:
		return "undefined"
	case KindNull:
		return "null"
	case KindBool:
		return "bool"
	case KindNum:
		return "num"
	case KindStr:
		return "str"
	case KindList:
		return "list"
	case KindMap:
		return "map"
	case KindFunc:
		return "func"
	default:
		return "unknown"
	}
}

// Func is a callable runtime value. This is the receiver the function was
// read from (the object of a member call, or the scope for a bare call).
type Func func(this Value, args []Value) (Value, error)

// Value represents a keypath runtime value.
// Uses tagged union pattern; the zero Value is undefined.
// Lists and maps are references: copying a Value shares the container.
type Value struct {
	kind Kind
	num  float64
	str  string
	list *List
	m    *Map
	fn   Func
}

// Constructors

// Undefined returns the "no result" value.
func Undefined() Value {
	return Value{}
}

// Null returns a null value.
func Null() Value {
	return Value{kind: KindNull}
}

// Bool creates a boolean value.
func Bool(b bool) Value {
	if b {
		return Value{kind: KindBool, num: 1}
	}
	return Value{kind: KindBool}
}

// Num creates a numeric value.
func Num(n float64) Value {
	return Value{kind: KindNum, num: n}
}

// Str creates a string value.
func Str(s string) Value {
	return Value{kind: KindStr, str: s}
}

// ListOf creates a list value holding items.
func ListOf(items ...Value) Value {
	return Value{kind: KindList, list: &List{items: items}}
}

// FromList wraps an existing list.
func FromList(l *List) Value {
	if l == nil {
		return Null()
	}
	return Value{kind: KindList, list: l}
}

// FromMap wraps an existing map.
func FromMap(m *Map) Value {
	if m == nil {
		return Null()
	}
	return Value{kind: KindMap, m: m}
}

// FromFunc wraps a callable.
func FromFunc(f Func) Value {
	if f == nil {
		return Null()
	}
	return Value{kind: KindFunc, fn: f}
}

// Accessors

// Kind returns the value's type.
func (v Value) Kind() Kind {
	return v.kind
}

// IsUndefined reports whether v is the "no result" value.
func (v Value) IsUndefined() bool {
	return v.kind == KindUndefined
}

// IsNull reports whether v is null.
func (v Value) IsNull() bool {
	return v.kind == KindNull
}

// IsNil reports whether v is null or undefined.
func (v Value) IsNil() bool {
	return v.kind == KindUndefined || v.kind == KindNull
}

// List returns the underlying list, or nil if v is not a list.
func (v Value) List() *List {
	return v.list
}

// Map returns the underlying map, or nil if v is not a map.
func (v Value) Map() *Map {
	return v.m
}

// Func returns the underlying callable, or nil if v is not a function.
func (v Value) Func() Func {
	return v.fn
}

// Conversions

// AsNum returns the numeric representation of the value.
// Strings are parsed strictly; anything unparsable is NaN.
func (v Value) AsNum() float64 {
	switch v.kind {
	case KindNum, KindBool:
		return v.num
	case KindStr:
		n, err := strconv.ParseFloat(strings.TrimSpace(v.str), 64)
		if err != nil {
			return math.NaN()
		}
		return n
	case KindNull:
		return 0
	default:
		return math.NaN()
	}
}

// AsStr returns the string representation of a scalar value.
func (v Value) AsStr() string {
	switch v.kind {
	case KindStr:
		return v.str
	case KindNum:
		return FormatNum(v.num)
	case KindBool:
		return strconv.FormatBool(v.num != 0)
	case KindNull:
		return "null"
	case KindUndefined:
		return "undefined"
	default:
		return v.String()
	}
}

// AsBool returns the truthiness of the value.
func (v Value) AsBool() bool {
	switch v.kind {
	case KindBool, KindNum:
		return v.num != 0 && !math.IsNaN(v.num)
	case KindStr:
		return v.str != ""
	case KindList, KindMap, KindFunc:
		return true
	default:
		return false
	}
}

// String returns a debug representation of the value.
func (v Value) String() string {
	switch v.kind {
	case KindUndefined:
		return "Undefined()"
	case KindNull:
		return "Null()"
	case KindBool:
		return fmt.Sprintf("Bool(%t)", v.num != 0)
	case KindNum:
		return fmt.Sprintf("Num(%s)", FormatNum(v.num))
	case KindStr:
		return fmt.Sprintf("Str(%q)", v.str)
	case KindList:
		return fmt.Sprintf("List(%d)", v.list.Len())
	case KindMap:
		return fmt.Sprintf("Map(%d)", v.m.Len())
	case KindFunc:
		return "Func()"
	default:
		return "Invalid()"
	}
}

// Equal reports whether a and b are deeply equal.
// Containers compare element-wise; functions are never equal.
func Equal(a, b Value) bool {
	if a.kind != b.kind {
		return false
	}

	switch a.kind {
	case KindUndefined, KindNull:
		return true
	case KindBool, KindNum:
		return a.num == b.num
	case KindStr:
		return a.str == b.str
	case KindList:
		if a.list == b.list {
			return true
		}
		if a.list.Len() != b.list.Len() {
			return false
		}
		for i, item := range a.list.items {
			if !Equal(item, b.list.items[i]) {
				return false
			}
		}
		return true
	case KindMap:
		if a.m == b.m {
			return true
		}
		if a.m.Len() != b.m.Len() {
			return false
		}
		for i, k := range a.m.keys {
			other, ok := b.m.Get(k)
			if !ok || !Equal(a.m.vals[i], other) {
				return false
			}
		}
		return true
	default:
		return false
	}
}

// FormatNum formats a number the way it is used as a key.
// Integral values print without a fraction.
func FormatNum(n float64) string {
	switch {
	case math.IsNaN(n):
		return "NaN"
	case math.IsInf(n, 1):
		return "Infinity"
	case math.IsInf(n, -1):
		return "-Infinity"
	case n == math.Trunc(n) && math.Abs(n) < 1e21:
		return strconv.FormatFloat(n, 'f', -1, 64)
	default:
		return strconv.FormatFloat(n, 'g', -1, 64)
	}
}
