package types

import (
	"math"
	"strconv"
	"unicode/utf8"
)

// lengthKey is the pseudo-property that reports list and string length.
const lengthKey = "length"

// Key returns the map key v denotes. Only scalars are keys.
func (v Value) Key() (string, bool) {
	switch v.kind {
	case KindStr:
		return v.str, true
	case KindNum:
		return FormatNum(v.num), true
	case KindBool, KindNull:
		return v.AsStr(), true
	default:
		return "", false
	}
}

// ListIndex returns the list position v denotes: an integral number or a
// string of decimal digits, not negative.
func (v Value) ListIndex() (int, bool) {
	switch v.kind {
	case KindNum:
		n := v.num
		if n < 0 || n != math.Trunc(n) || n > math.MaxInt32 {
			return 0, false
		}
		return int(n), true
	case KindStr:
		if v.str == "" || (len(v.str) > 1 && v.str[0] == '0') {
			return 0, false
		}
		for i := 0; i < len(v.str); i++ {
			if v.str[i] < '0' || v.str[i] > '9' {
				return 0, false
			}
		}
		n, err := strconv.Atoi(v.str)
		if err != nil || n > math.MaxInt32 {
			return 0, false
		}
		return n, true
	default:
		return 0, false
	}
}

// Index returns v[key], or undefined when v has no such entry.
// Lists and strings accept list indexes and "length"; maps accept any
// scalar key.
func (v Value) Index(key Value) Value {
	switch v.kind {
	case KindMap:
		k, ok := key.Key()
		if !ok {
			return Undefined()
		}
		val, _ := v.m.Get(k)
		return val

	case KindList:
		if i, ok := key.ListIndex(); ok {
			return v.list.At(i)
		}
		if key.kind == KindStr && key.str == lengthKey {
			return Num(float64(v.list.Len()))
		}
		return Undefined()

	case KindStr:
		if i, ok := key.ListIndex(); ok {
			return charAt(v.str, i)
		}
		if key.kind == KindStr && key.str == lengthKey {
			return Num(float64(utf8.RuneCountInString(v.str)))
		}
		return Undefined()

	default:
		return Undefined()
	}
}

// SetIndex stores val at v[key] and reports whether v could hold it.
// Only maps and lists are writable; lists grow to fit the index, up to
// MaxGrowth items past their end.
func (v Value) SetIndex(key, val Value) bool {
	switch v.kind {
	case KindMap:
		k, ok := key.Key()
		if !ok {
			return false
		}
		v.m.Set(k, val)
		return true

	case KindList:
		i, ok := key.ListIndex()
		if !ok {
			return false
		}
		return v.list.Set(i, val)

	default:
		return false
	}
}

func charAt(s string, i int) Value {
	n := 0
	for _, r := range s {
		if n == i {
			return Str(string(r))
		}
		n++
	}
	return Undefined()
}
