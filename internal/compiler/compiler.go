// Package compiler lowers keypath ASTs into reusable closures.
//
// A single recursive pass turns every node into a closure that captures its
// already-lowered children; executing a pattern never walks the AST.
// Each closure receives the run environment and the scope being traversed,
// and returns the value found (Get) or assigned along the way (Set).
package compiler

import (
	"fmt"
	"sync"

	"github.com/kolkov/keypath/internal/ast"
	"github.com/kolkov/keypath/internal/semantic"
	"github.com/kolkov/keypath/internal/token"
	"github.com/kolkov/keypath/internal/types"
)

// Mode selects what a compiled closure does with its route.
type Mode uint8

const (
	Get Mode = iota // Read the route; never mutates
	Set             // Assign Env.Value at the end of the route, creating maps on the way
)

// String returns the mode name.
func (m Mode) String() string {
	switch m {
	case Get:
		return "get"
	case Set:
		return "set"
	default:
		return fmt.Sprintf("mode(%d)", m)
	}
}

// Env is the per-run environment shared by every closure of one call.
type Env struct {
	Root   types.Value // Value the run started from; target of ~key
	Value  types.Value // Value to assign in Set mode
	Lookup types.Value // Side channel for %key placeholders
}

// Func is a compiled pattern.
type Func func(env *Env, scope types.Value) (types.Value, error)

// Run executes f against root.
func (f Func) Run(root, value, lookup types.Value) (types.Value, error) {
	env := &Env{Root: root, Value: value, Lookup: lookup}
	return f(env, root)
}

// maxRangeLen bounds the number of keys a single range may produce.
const maxRangeLen = 1 << 20

// Compile lowers a parsed program. Programs are checked first; the parser
// never produces trees that fail the check.
func (c *Compiler) Compile(prog *ast.Program, mode Mode) (fn Func, err error) {
	errs, warns := semantic.Check(prog)
	for _, w := range warns {
		c.logger.Warn("suspicious pattern", "warning", w.String())
	}
	if len(errs) > 0 {
		return nil, &CompileError{Pos: errs[0].Pos, Message: errs[0].Message}
	}

	defer func() {
		if r := recover(); r != nil {
			if ce, ok := r.(*CompileError); ok {
				err = ce
			} else {
				panic(r) // Re-panic for non-compile errors
			}
		}
	}()

	return c.lowerProgram(prog, mode), nil
}

// lowering carries the state of one lowering step. It is passed by value;
// nothing about a pass is stored on the Compiler.
type lowering struct {
	mode  Mode
	depth int // 0 for the outermost assignment point
}

// child returns the lowering for an intermediate node.
func (l lowering) child() lowering {
	l.depth++
	return l
}

// reading returns the lowering with mutation disabled.
func (l lowering) reading() lowering {
	l.mode = Get
	return l
}

// node is a lowered expression. dims counts how many fan-out levels its
// result has; fan-out properties applied further out are broadcast over
// them.
type node struct {
	eval Func
	dims int
}

// propFunc applies a property to obj. scope is the value the chain started
// from and is used to evaluate lookups and blocks.
type propFunc func(env *Env, scope, obj types.Value) (types.Value, error)

// compileError aborts lowering.
func compileError(pos token.Position, format string, args ...any) {
	panic(&CompileError{Pos: pos, Message: fmt.Sprintf(format, args...)})
}

func (c *Compiler) lowerProgram(prog *ast.Program, mode Mode) Func {
	ctx := lowering{mode: mode}
	if len(prog.Body) == 1 {
		return c.lower(prog.Body[0].Expr, ctx).eval
	}

	stmts := make([]Func, len(prog.Body))
	for i, s := range prog.Body {
		stmts[i] = c.lower(s.Expr, ctx).eval
	}

	if mode == Set {
		return func(env *Env, scope types.Value) (types.Value, error) {
			for _, s := range stmts {
				if _, err := s(env, scope); err != nil {
					return types.Undefined(), err
				}
			}
			return env.Value, nil
		}
	}

	return func(env *Env, scope types.Value) (types.Value, error) {
		out := make([]types.Value, len(stmts))
		for i, s := range stmts {
			v, err := s(env, scope)
			if err != nil {
				return types.Undefined(), err
			}
			out[i] = v
		}
		return types.ListOf(out...), nil
	}
}

// lower lowers an expression in chain position.
func (c *Compiler) lower(expr ast.Expr, ctx lowering) node {
	switch e := expr.(type) {
	case *ast.MemberExpression:
		return c.lowerMember(e, ctx)

	case *ast.CallExpression:
		return c.lowerCall(e, ctx)

	case *ast.ExistentialExpression:
		return c.lowerExistential(e, ctx)

	case *ast.Identifier, *ast.Literal, *ast.LookupExpression, *ast.RootExpression,
		*ast.BlockExpression, *ast.ArrayExpression, *ast.SequenceExpression, *ast.RangeExpression:
		// A chain head is a property of the scope itself.
		prop, fan := c.lowerProperty(expr, ctx)
		n := node{eval: func(env *Env, scope types.Value) (types.Value, error) {
			return prop(env, scope, scope)
		}}
		if fan {
			n.dims = 1
		}
		return n

	default:
		compileError(token.NoPos, "unexpected expression type: %T", expr)
		return node{}
	}
}

func (c *Compiler) lowerMember(e *ast.MemberExpression, ctx lowering) node {
	objCtx := ctx.child()
	if _, ok := e.Property.(*ast.RootExpression); ok {
		// ~k discards the object, so the object side only reads.
		objCtx = objCtx.reading()
	}
	obj := c.lower(e.Object, objCtx)
	prop, fan := c.lowerProperty(e.Property, ctx)

	objEval, objDims := obj.eval, obj.dims
	n := node{dims: objDims}
	if fan {
		n.dims++
	}

	n.eval = func(env *Env, scope types.Value) (types.Value, error) {
		ov, err := objEval(env, scope)
		if err != nil {
			return types.Undefined(), err
		}
		return broadcast(ov, objDims, func(o types.Value) (types.Value, error) {
			return prop(env, scope, o)
		})
	}
	return n
}

// lowerProperty lowers a key-producing expression into a function applying
// it to an object, and reports whether it fans out.
func (c *Compiler) lowerProperty(expr ast.Expr, ctx lowering) (propFunc, bool) {
	switch e := expr.(type) {
	case *ast.Identifier:
		return keyProp(types.Str(e.Name), ctx), false

	case *ast.Literal:
		return keyProp(literalValue(e), ctx), false

	case *ast.LookupExpression:
		key := c.lowerKey(e.Key)
		return func(env *Env, scope, obj types.Value) (types.Value, error) {
			k, err := key(env, scope)
			if err != nil {
				return types.Undefined(), err
			}
			return access(env, obj, lookup(env.Lookup, k), ctx), nil
		}, false

	case *ast.RootExpression:
		key := c.lowerKey(e.Key)
		return func(env *Env, scope, _ types.Value) (types.Value, error) {
			k, err := key(env, scope)
			if err != nil {
				return types.Undefined(), err
			}
			return access(env, env.Root, k, ctx), nil
		}, false

	case *ast.BlockExpression:
		key := c.lowerBlock(e)
		return func(env *Env, scope, obj types.Value) (types.Value, error) {
			k, err := key(env, scope)
			if err != nil {
				return types.Undefined(), err
			}
			return access(env, obj, k, ctx), nil
		}, false

	case *ast.RangeExpression:
		return fanOut(keyProps(rangeKeys(e), ctx)), true

	case *ast.ArrayExpression:
		return fanOut(c.lowerElements(e.Elements, ctx)), true

	case *ast.SequenceExpression:
		return fanOut(c.lowerElements(e.Elements, ctx)), true

	default:
		compileError(token.NoPos, "unexpected property type: %T", expr)
		return nil, false
	}
}

// lowerElements lowers the members of a collection. Ranges contribute one
// element per key.
func (c *Compiler) lowerElements(elems []ast.Expr, ctx lowering) []propFunc {
	props := make([]propFunc, 0, len(elems))
	for _, el := range elems {
		if r, ok := el.(*ast.RangeExpression); ok {
			props = append(props, keyProps(rangeKeys(r), ctx)...)
			continue
		}
		prop, fan := c.lowerProperty(el, ctx)
		if fan {
			compileError(el.Pos(), "collections cannot be nested")
		}
		props = append(props, prop)
	}
	return props
}

// lowerKey lowers the operand of % and ~ into a function producing the key.
func (c *Compiler) lowerKey(expr ast.Expr) Func {
	switch k := expr.(type) {
	case *ast.Identifier:
		return constant(types.Str(k.Name))
	case *ast.Literal:
		return constant(literalValue(k))
	case *ast.BlockExpression:
		return c.lowerBlock(k)
	default:
		compileError(token.NoPos, "unexpected key type: %T", expr)
		return nil
	}
}

// lowerBlock returns a function evaluating the block's body against the
// scope. The body is compiled on first use through the shared cache, so
// identical blocks compile once.
func (c *Compiler) lowerBlock(b *ast.BlockExpression) Func {
	text := b.Text()
	body := b.Body

	var (
		once sync.Once
		fn   Func
		err  error
	)
	return func(env *Env, scope types.Value) (types.Value, error) {
		once.Do(func() {
			fn, err = c.compileTokens(text, body, Get)
		})
		if err != nil {
			return types.Undefined(), err
		}
		return fn(env, scope)
	}
}

func (c *Compiler) lowerExistential(e *ast.ExistentialExpression, ctx lowering) node {
	// Below the assignment point a guarded step only reads: when the
	// guarded value is absent, the rest of the route has nothing to write to.
	inner := ctx
	if ctx.mode == Set && ctx.depth > 0 {
		inner = ctx.reading()
	}
	in := c.lower(e.Expr, inner)

	return node{
		dims: in.dims,
		eval: func(env *Env, scope types.Value) (types.Value, error) {
			if scope.IsNil() {
				return types.Undefined(), nil
			}
			v, err := in.eval(env, scope)
			if err != nil {
				if isStructural(err) {
					return types.Undefined(), err
				}
				return types.Undefined(), nil
			}
			return v, nil
		},
	}
}

// callee resolves the receiver and function of a call.
type callee struct {
	resolve  func(env *Env, scope types.Value) (this, fn types.Value, err error)
	fanOut   bool
	optional bool // guarded by ?; a missing function is not an error
}

func (c *Compiler) lowerCall(e *ast.CallExpression, ctx lowering) node {
	pos := e.Pos()
	name := ast.String(e.Callee)
	target := c.lowerCallee(e.Callee, ctx.child().reading())

	args := make([]Func, len(e.Arguments))
	for i, arg := range e.Arguments {
		args[i] = c.lowerValue(arg, ctx.child().reading())
	}

	return node{eval: func(env *Env, scope types.Value) (types.Value, error) {
		if target.fanOut {
			return types.Undefined(), &RuntimeError{Pos: pos, Message: fmt.Sprintf("cannot call fan-out expression %s", name)}
		}

		this, fn, err := target.resolve(env, scope)
		if err != nil {
			return types.Undefined(), err
		}

		switch {
		case fn.IsUndefined():
			if ctx.mode == Set && !target.optional {
				return types.Undefined(), &RuntimeError{Pos: pos, Message: fmt.Sprintf("undefined function %s", name), Err: ErrCannotCreateCall}
			}
			return types.Undefined(), nil
		case fn.Kind() != types.KindFunc:
			return types.Undefined(), &RuntimeError{Pos: pos, Message: fmt.Sprintf("%s is not a function", name)}
		}

		vals := make([]types.Value, len(args))
		for i, arg := range args {
			v, err := arg(env, scope)
			if err != nil {
				return types.Undefined(), err
			}
			vals[i] = v
		}

		res, err := fn.Func()(this, vals)
		if err != nil {
			return types.Undefined(), &RuntimeError{Pos: pos, Message: fmt.Sprintf("call to %s failed", name), Err: err}
		}
		return res, nil
	}}
}

// lowerCallee lowers the function side of a call. A member callee is called
// with its object as receiver; any other callee with the scope.
func (c *Compiler) lowerCallee(expr ast.Expr, ctx lowering) callee {
	switch e := expr.(type) {
	case *ast.MemberExpression:
		obj := c.lower(e.Object, ctx)
		prop, fan := c.lowerProperty(e.Property, ctx)
		return callee{
			fanOut: fan || obj.dims > 0,
			resolve: func(env *Env, scope types.Value) (types.Value, types.Value, error) {
				ov, err := obj.eval(env, scope)
				if err != nil {
					return types.Undefined(), types.Undefined(), err
				}
				fv, err := prop(env, scope, ov)
				return ov, fv, err
			},
		}

	case *ast.ExistentialExpression:
		in := c.lowerCallee(e.Expr, ctx)
		return callee{
			fanOut:   in.fanOut,
			optional: true,
			resolve: func(env *Env, scope types.Value) (types.Value, types.Value, error) {
				if scope.IsNil() {
					return types.Undefined(), types.Undefined(), nil
				}
				this, fn, err := in.resolve(env, scope)
				if err != nil && !isStructural(err) {
					return types.Undefined(), types.Undefined(), nil
				}
				return this, fn, err
			},
		}

	case *ast.CallExpression:
		in := c.lower(e, ctx)
		return callee{
			fanOut: in.dims > 0,
			resolve: func(env *Env, scope types.Value) (types.Value, types.Value, error) {
				fv, err := in.eval(env, scope)
				return scope, fv, err
			},
		}

	default:
		prop, fan := c.lowerProperty(expr, ctx)
		return callee{
			fanOut: fan,
			resolve: func(env *Env, scope types.Value) (types.Value, types.Value, error) {
				fv, err := prop(env, scope, scope)
				return scope, fv, err
			},
		}
	}
}

// lowerValue lowers a call argument. Literals, placeholders, ranges and
// blocks stand for their own values; anything else is a route from the
// scope.
func (c *Compiler) lowerValue(expr ast.Expr, ctx lowering) Func {
	switch e := expr.(type) {
	case *ast.Literal:
		return constant(literalValue(e))

	case *ast.LookupExpression:
		key := c.lowerKey(e.Key)
		return func(env *Env, scope types.Value) (types.Value, error) {
			k, err := key(env, scope)
			if err != nil {
				return types.Undefined(), err
			}
			return lookup(env.Lookup, k), nil
		}

	case *ast.BlockExpression:
		return c.lowerBlock(e)

	case *ast.RangeExpression:
		keys := rangeKeys(e)
		return func(*Env, types.Value) (types.Value, error) {
			return types.ListOf(append([]types.Value(nil), keys...)...), nil
		}

	case *ast.ArrayExpression:
		type element struct {
			eval   Func
			spread bool
		}
		elems := make([]element, len(e.Elements))
		for i, el := range e.Elements {
			_, isRange := el.(*ast.RangeExpression)
			elems[i] = element{eval: c.lowerValue(el, ctx), spread: isRange}
		}
		return func(env *Env, scope types.Value) (types.Value, error) {
			out := make([]types.Value, 0, len(elems))
			for _, el := range elems {
				v, err := el.eval(env, scope)
				if err != nil {
					return types.Undefined(), err
				}
				if el.spread {
					out = append(out, v.List().Items()...)
					continue
				}
				out = append(out, v)
			}
			return types.ListOf(out...), nil
		}

	default:
		return c.lower(expr, ctx).eval
	}
}

// keyProp returns a property applying a fixed key.
func keyProp(key types.Value, ctx lowering) propFunc {
	return func(env *Env, _, obj types.Value) (types.Value, error) {
		return access(env, obj, key, ctx), nil
	}
}

func keyProps(keys []types.Value, ctx lowering) []propFunc {
	props := make([]propFunc, len(keys))
	for i, k := range keys {
		props[i] = keyProp(k, ctx)
	}
	return props
}

// fanOut returns a property applying every prop to the same object.
func fanOut(props []propFunc) propFunc {
	return func(env *Env, scope, obj types.Value) (types.Value, error) {
		out := make([]types.Value, len(props))
		for i, p := range props {
			v, err := p(env, scope, obj)
			if err != nil {
				return types.Undefined(), err
			}
			out[i] = v
		}
		return types.ListOf(out...), nil
	}
}

func constant(v types.Value) Func {
	return func(*Env, types.Value) (types.Value, error) {
		return v, nil
	}
}

func literalValue(lit *ast.Literal) types.Value {
	switch lit.Kind {
	case token.NumericLiteral:
		return types.Num(lit.Number)
	case token.StringLiteral:
		return types.Str(lit.Str)
	case token.NullLiteral:
		return types.Null()
	default:
		compileError(lit.Pos(), "unexpected literal kind: %s", lit.Kind)
		return types.Undefined()
	}
}

// rangeKeys materializes the inclusive integer run of a range. An absent
// bound is 0.
func rangeKeys(r *ast.RangeExpression) []types.Value {
	lo, hi := rangeBound(r.Left), rangeBound(r.Right)

	n, step := hi-lo+1, 1
	if lo > hi {
		n, step = lo-hi+1, -1
	}
	if n > maxRangeLen {
		compileError(r.Pos(), "range %s has more than %d keys", ast.String(r), maxRangeLen)
	}

	keys := make([]types.Value, n)
	for i := range keys {
		keys[i] = types.Num(float64(lo + i*step))
	}
	return keys
}

func rangeBound(lit *ast.Literal) int {
	if lit == nil {
		return 0
	}
	if lit.Number > maxRangeLen {
		compileError(lit.Pos(), "range bound %s is too large", lit.Raw)
	}
	return int(lit.Number)
}
