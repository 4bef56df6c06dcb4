package keypath

import "github.com/kolkov/keypath/internal/types"

// Value is a runtime value: undefined, null, bool, number, string, list,
// map or function. The zero Value is undefined.
//
// Lists and maps are references. Passing a Value as a Set target updates
// it in place.
type Value = types.Value

// Func is a function callable from a pattern. this is the object the
// function was read from, or the scope for a bare call.
type Func = types.Func

// Kind identifies the type of a Value.
type Kind = types.Kind

// Value kinds.
const (
	KindUndefined = types.KindUndefined
	KindNull      = types.KindNull
	KindBool      = types.KindBool
	KindNum       = types.KindNum
	KindStr       = types.KindStr
	KindList      = types.KindList
	KindMap       = types.KindMap
	KindFunc      = types.KindFunc
)

// ValueOf converts Go data to a Value.
//
// Maps with string keys become maps with sorted keys, slices become lists,
// numbers become float64. Functions of type Func, func(...any) any and
// func(...any) (any, error) become callables. A Value is returned as is.
func ValueOf(x any) Value {
	return types.FromGo(x)
}

// Undefined returns the "no result" value.
func Undefined() Value {
	return types.Undefined()
}
