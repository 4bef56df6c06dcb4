package types

import (
	"encoding/json"
	"fmt"
	"reflect"
	"slices"
)

// FromGo converts a Go value to a runtime value.
//
// Maps with string keys become maps (keys sorted, since Go maps have no
// order), slices and arrays become lists, numbers become Num. Functions of
// type Func, func(...any) any and func(...any) (any, error) become callables.
// A Value, *List or *Map is used as is, so mutations stay visible.
func FromGo(x any) Value {
	switch x := x.(type) {
	case nil:
		return Null()
	case Value:
		return x
	case *List:
		return FromList(x)
	case *Map:
		return FromMap(x)
	case bool:
		return Bool(x)
	case string:
		return Str(x)
	case float64:
		return Num(x)
	case float32:
		return Num(float64(x))
	case int:
		return Num(float64(x))
	case int8:
		return Num(float64(x))
	case int16:
		return Num(float64(x))
	case int32:
		return Num(float64(x))
	case int64:
		return Num(float64(x))
	case uint:
		return Num(float64(x))
	case uint8:
		return Num(float64(x))
	case uint16:
		return Num(float64(x))
	case uint32:
		return Num(float64(x))
	case uint64:
		return Num(float64(x))
	case json.Number:
		n, err := x.Float64()
		if err != nil {
			return Str(x.String())
		}
		return Num(n)
	case []any:
		items := make([]Value, len(x))
		for i, item := range x {
			items[i] = FromGo(item)
		}
		return ListOf(items...)
	case map[string]any:
		m := NewMap()
		for _, k := range sortedKeys(x) {
			m.Set(k, FromGo(x[k]))
		}
		return FromMap(m)
	case Func:
		return FromFunc(x)
	case func(this Value, args []Value) (Value, error):
		return FromFunc(x)
	case func(args ...any) any:
		return FromFunc(func(_ Value, args []Value) (Value, error) {
			return FromGo(x(toGoArgs(args)...)), nil
		})
	case func(args ...any) (any, error):
		return FromFunc(func(_ Value, args []Value) (Value, error) {
			res, err := x(toGoArgs(args)...)
			if err != nil {
				return Undefined(), err
			}
			return FromGo(res), nil
		})
	default:
		return fromReflect(reflect.ValueOf(x))
	}
}

func fromReflect(rv reflect.Value) Value {
	switch rv.Kind() {
	case reflect.Pointer, reflect.Interface:
		if rv.IsNil() {
			return Null()
		}
		return FromGo(rv.Elem().Interface())

	case reflect.Slice, reflect.Array:
		if rv.Kind() == reflect.Slice && rv.IsNil() {
			return Null()
		}
		items := make([]Value, rv.Len())
		for i := range items {
			items[i] = FromGo(rv.Index(i).Interface())
		}
		return ListOf(items...)

	case reflect.Map:
		if rv.IsNil() {
			return Null()
		}
		keys := make([]string, 0, rv.Len())
		vals := make(map[string]Value, rv.Len())
		iter := rv.MapRange()
		for iter.Next() {
			k := fmt.Sprint(iter.Key().Interface())
			keys = append(keys, k)
			vals[k] = FromGo(iter.Value().Interface())
		}
		slices.Sort(keys)
		m := NewMap()
		for _, k := range keys {
			m.Set(k, vals[k])
		}
		return FromMap(m)

	case reflect.String:
		return Str(rv.String())
	case reflect.Bool:
		return Bool(rv.Bool())
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return Num(float64(rv.Int()))
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return Num(float64(rv.Uint()))
	case reflect.Float32, reflect.Float64:
		return Num(rv.Float())

	default:
		return Undefined()
	}
}

// ToGo converts a runtime value to plain Go data: nil, bool, float64,
// string, []any, map[string]any or Func. Undefined and null both become nil.
func ToGo(v Value) any {
	switch v.kind {
	case KindBool:
		return v.num != 0
	case KindNum:
		return v.num
	case KindStr:
		return v.str
	case KindList:
		out := make([]any, v.list.Len())
		for i, item := range v.list.items {
			out[i] = ToGo(item)
		}
		return out
	case KindMap:
		out := make(map[string]any, v.m.Len())
		for i, k := range v.m.keys {
			out[k] = ToGo(v.m.vals[i])
		}
		return out
	case KindFunc:
		return v.fn
	default:
		return nil
	}
}

func toGoArgs(args []Value) []any {
	out := make([]any, len(args))
	for i, a := range args {
		out[i] = ToGo(a)
	}
	return out
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

// Interface returns v as plain Go data; see ToGo.
func (v Value) Interface() any {
	return ToGo(v)
}
