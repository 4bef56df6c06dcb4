package keypath

import (
	"strings"
	"sync"

	"github.com/kolkov/keypath/internal/ast"
	"github.com/kolkov/keypath/internal/compiler"
	"github.com/kolkov/keypath/internal/semantic"
	"github.com/kolkov/keypath/internal/token"
	"github.com/kolkov/keypath/internal/types"
)

// Expression is a compiled pattern bound to no particular data.
// It is safe for concurrent use; each call runs independently, but Set
// mutates its target and callers must not share a target across goroutines.
type Expression struct {
	pattern string
	tokens  []token.Token
	program *ast.Program
	info    *semantic.Info
	getter  compiler.Func
	cache   *Cache

	setterOnce sync.Once
	setter     compiler.Func
	setterErr  error
}

// Token is one lexical token of a pattern.
type Token struct {
	Kind   string // identifier, number, string, null or punctuator
	Raw    string // Source text, quotes included for strings
	Line   int    // 1-based line number
	Column int    // 1-based column number
}

// Get returns the value the pattern reaches in target, or an undefined
// Value when the route does not exist. Positional args fill the
// placeholders %1, %2, and so on.
func (e *Expression) Get(target any, args ...any) (Value, error) {
	return e.GetLookup(target, args)
}

// GetLookup is like Get with an explicit lookup value. A list lookup is
// indexed from 1 by numeric placeholders; a map lookup is indexed by key.
func (e *Expression) GetLookup(target, lookup any) (Value, error) {
	v, err := e.getter.Run(types.FromGo(target), types.Undefined(), types.FromGo(lookup))
	if err != nil {
		return types.Undefined(), convertError(err)
	}
	return v, nil
}

// Has reports whether the pattern reaches a value in target.
// A null value counts as present.
func (e *Expression) Has(target any, args ...any) (bool, error) {
	return e.HasLookup(target, args)
}

// HasLookup is like Has with an explicit lookup value.
func (e *Expression) HasLookup(target, lookup any) (bool, error) {
	v, err := e.GetLookup(target, lookup)
	if err != nil {
		return false, err
	}
	return !v.IsUndefined(), nil
}

// Set assigns value at the end of the route, creating missing
// intermediate maps, and returns the assigned value.
//
// Targets passed as Value, *Map or *List are updated in place. A
// map[string]any target has its top-level entries replaced by the updated
// data; nested Go maps are not updated in place. Other Go values cannot be
// updated; pass a Value to observe the result.
func (e *Expression) Set(target, value any, args ...any) (Value, error) {
	return e.SetLookup(target, value, args)
}

// SetLookup is like Set with an explicit lookup value.
func (e *Expression) SetLookup(target, value, lookup any) (Value, error) {
	setter, err := e.compileSetter()
	if err != nil {
		return types.Undefined(), err
	}

	root := types.FromGo(target)
	val := types.FromGo(value)
	if _, err := setter.Run(root, val, types.FromGo(lookup)); err != nil {
		return types.Undefined(), convertError(err)
	}

	writeBack(target, root)
	return val, nil
}

// compileSetter compiles the setter once.
func (e *Expression) compileSetter() (compiler.Func, error) {
	e.setterOnce.Do(func() {
		fn, err := e.cache.compiler.CompileText(e.pattern, compiler.Set)
		e.setter, e.setterErr = fn, convertError(err)
	})
	return e.setter, e.setterErr
}

// writeBack copies the top-level entries of root into a plain Go map target.
func writeBack(target any, root Value) {
	m, ok := target.(map[string]any)
	if !ok || root.Map() == nil {
		return
	}
	root.Map().Range(func(k string, v types.Value) bool {
		m[k] = types.ToGo(v)
		return true
	})
}

// Pattern returns the source text the expression was compiled from.
func (e *Expression) Pattern() string {
	return e.pattern
}

// String returns the pattern in canonical form.
func (e *Expression) String() string {
	return ast.String(e.program)
}

// Tokens returns the lexical tokens of the pattern.
func (e *Expression) Tokens() []Token {
	out := make([]Token, len(e.tokens))
	for i, tok := range e.tokens {
		out[i] = Token{
			Kind:   tok.Kind.String(),
			Raw:    tok.Raw,
			Line:   tok.Pos.Line,
			Column: tok.Pos.Column,
		}
	}
	return out
}

// Placeholders returns the highest numeric placeholder in the pattern,
// i.e. the number of positional arguments it reads. Placeholders inside
// {...} blocks are not counted.
func (e *Expression) Placeholders() int {
	return e.info.Placeholders
}

// Names returns the named placeholders (%name) of the pattern, sorted.
func (e *Expression) Names() []string {
	return append([]string(nil), e.info.Names...)
}

// FanOut reports whether the pattern yields a list of results, one per
// key of an array, sequence or range.
func (e *Expression) FanOut() bool {
	return e.info.FanOut
}

// Dump returns the syntax tree of the pattern, one node per line.
func (e *Expression) Dump() string {
	var sb strings.Builder
	_ = ast.NewPrinter(&sb).Dump(e.program) // writes to a strings.Builder never fail
	return sb.String()
}
