package compiler

import "github.com/kolkov/keypath/internal/types"

// access applies key to obj.
//
// Get reads obj[key]. Set at the outermost level stores Env.Value; below
// it a missing or null entry is replaced by a fresh map so the route can
// continue. Writing into a value that cannot hold keys does nothing.
func access(env *Env, obj, key types.Value, ctx lowering) types.Value {
	if ctx.mode == Get {
		return obj.Index(key)
	}

	if ctx.depth == 0 {
		obj.SetIndex(key, env.Value)
		return env.Value
	}

	cur := obj.Index(key)
	if !cur.IsNil() {
		return cur
	}
	fresh := types.FromMap(types.NewMap())
	if !obj.SetIndex(key, fresh) {
		return types.Undefined()
	}
	return fresh
}

// lookup resolves a placeholder key against the lookup value.
// Lists are indexed from 1, so %1 is the first element.
func lookup(l, key types.Value) types.Value {
	if l.Kind() == types.KindList {
		if i, ok := key.ListIndex(); ok {
			return l.List().At(i - 1)
		}
	}
	return l.Index(key)
}

// broadcast applies fn to every element dims levels deep in v and returns
// the results with the same nesting.
func broadcast(v types.Value, dims int, fn func(types.Value) (types.Value, error)) (types.Value, error) {
	if dims == 0 {
		return fn(v)
	}
	if v.Kind() != types.KindList {
		return types.Undefined(), nil
	}

	items := v.List().Items()
	out := make([]types.Value, len(items))
	for i, item := range items {
		r, err := broadcast(item, dims-1, fn)
		if err != nil {
			return types.Undefined(), err
		}
		out[i] = r
	}
	return types.ListOf(out...), nil
}
