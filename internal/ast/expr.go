package ast

import "github.com/kolkov/keypath/internal/token"

// -----------------------------------------------------------------------------
// Keys
// -----------------------------------------------------------------------------

// Identifier is a bare word key.
// Examples: foo, $ref, _id
type Identifier struct {
	BaseExpr
	Name string
}

// Literal is a numeric, string or null literal.
// Examples: 42, "bar", 'baz', null
type Literal struct {
	BaseExpr
	Kind   token.Kind // NumericLiteral, StringLiteral or NullLiteral
	Raw    string     // Source text, quotes included
	Number float64    // Parsed value of a NumericLiteral
	Str    string     // Unquoted value of a StringLiteral
}

// -----------------------------------------------------------------------------
// Chains
// -----------------------------------------------------------------------------

// MemberExpression applies Property to the value of Object.
// Property is an *Identifier exactly when Computed is false.
// Examples: a.b, a["b"], a[0..2], a.%1
type MemberExpression struct {
	BaseExpr
	Object   Expr
	Property Expr
	Computed bool
}

// CallExpression invokes the function found at Callee.
// Example: foo.bar(1, baz)
type CallExpression struct {
	BaseExpr
	Callee    Expr
	Arguments []Expr
}

// -----------------------------------------------------------------------------
// Fan-out
// -----------------------------------------------------------------------------

// ArrayExpression is a bracketed key list.
// Example: ["bar", "qux"]
type ArrayExpression struct {
	BaseExpr
	Elements []Expr
}

// SequenceExpression is a comma key list without brackets.
// Example: bar,qux in foo.bar,qux
type SequenceExpression struct {
	BaseExpr
	Elements []Expr
}

// RangeExpression is an inclusive integer run. At most one bound is nil;
// a nil bound counts as zero.
// Examples: 1..3, 3..1, ..2, 4..
type RangeExpression struct {
	BaseExpr
	Left  *Literal
	Right *Literal
}

// -----------------------------------------------------------------------------
// Context switches
// -----------------------------------------------------------------------------

// LookupExpression resolves Key against the lookup value instead of scope.
// Example: %1
type LookupExpression struct {
	BaseExpr
	Key Expr
}

// RootExpression resolves Key against the root value.
// Example: ~config
type RootExpression struct {
	BaseExpr
	Key Expr
}

// -----------------------------------------------------------------------------
// Special expressions
// -----------------------------------------------------------------------------

// ExistentialExpression short-circuits to no result instead of failing.
// Example: foo?
type ExistentialExpression struct {
	BaseExpr
	Expr Expr
}

// BlockExpression holds the unparsed tokens of a nested pattern whose
// value is used as a key.
// Example: {ref.prop}
type BlockExpression struct {
	BaseExpr
	Body []token.Token
}

// Text returns the joined token text of the block body.
func (b *BlockExpression) Text() string {
	return token.Join(b.Body)
}

// -----------------------------------------------------------------------------
// Compile-time checks
// -----------------------------------------------------------------------------

// Ensure all expression types implement Expr interface.
var (
	_ Expr = (*Identifier)(nil)
	_ Expr = (*Literal)(nil)
	_ Expr = (*MemberExpression)(nil)
	_ Expr = (*CallExpression)(nil)
	_ Expr = (*ArrayExpression)(nil)
	_ Expr = (*SequenceExpression)(nil)
	_ Expr = (*RangeExpression)(nil)
	_ Expr = (*LookupExpression)(nil)
	_ Expr = (*RootExpression)(nil)
	_ Expr = (*ExistentialExpression)(nil)
	_ Expr = (*BlockExpression)(nil)
)
