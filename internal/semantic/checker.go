package semantic

import (
	"github.com/kolkov/keypath/internal/ast"
	"github.com/kolkov/keypath/internal/token"
)

// Checker validates the AST shapes the compiler depends on.
// The parser never produces invalid trees; Check guards trees built by hand.
type Checker struct {
	errors   ErrorList
	warnings WarningList
}

// Check performs structural validation on a program.
// It returns all errors found, and any warnings.
func Check(prog *ast.Program) (ErrorList, WarningList) {
	c := &Checker{}
	c.checkProgram(prog)
	return c.errors, c.warnings
}

func (c *Checker) checkProgram(prog *ast.Program) {
	if prog == nil || len(prog.Body) == 0 {
		c.errors.Add(token.NoPos, errEmptyProgram)
		return
	}
	for _, stmt := range prog.Body {
		if stmt == nil {
			c.errors.Add(prog.Pos(), errNilNode)
			continue
		}
		c.checkExpr(stmt.Expr, stmt.Pos())
	}
}

// checkExpr validates an expression in chain position.
func (c *Checker) checkExpr(expr ast.Expr, at token.Position) {
	if expr == nil {
		c.errors.Add(at, errNilNode)
		return
	}

	switch e := expr.(type) {
	case *ast.MemberExpression:
		c.checkExpr(e.Object, e.Pos())
		if id, ok := e.Property.(*ast.Identifier); ok && e.Computed {
			c.errors.Add(e.Pos(), errComputedIdent, id.Name)
		}
		if _, ok := e.Property.(*ast.Identifier); !ok && !e.Computed && e.Property != nil {
			c.errors.Add(e.Pos(), errStaticNonIdent)
		}
		c.checkProperty(e.Property, e.Pos(), false)

	case *ast.CallExpression:
		c.checkExpr(e.Callee, e.Pos())
		if ast.IsFanOut(e.Callee) {
			c.warnings.Add(e.Pos(), warnFanOutCall)
		}
		for _, arg := range e.Arguments {
			c.checkExpr(arg, e.Pos())
		}

	case *ast.ExistentialExpression:
		c.checkExpr(e.Expr, e.Pos())

	default:
		c.checkProperty(expr, at, false)
	}
}

// checkProperty validates a key-producing expression. Collections may not
// nest; ranges may appear inside them.
func (c *Checker) checkProperty(expr ast.Expr, at token.Position, inCollection bool) {
	if expr == nil {
		c.errors.Add(at, errNilNode)
		return
	}

	switch e := expr.(type) {
	case *ast.Identifier, *ast.Literal:
		// always valid

	case *ast.RangeExpression:
		c.checkRange(e)

	case *ast.ArrayExpression:
		c.checkCollection("array", e.Elements, e.Pos(), inCollection)

	case *ast.SequenceExpression:
		c.checkCollection("sequence", e.Elements, e.Pos(), inCollection)

	case *ast.LookupExpression:
		c.checkKeyOperand(e.Key, e.Pos())
		if lit, ok := e.Key.(*ast.Literal); ok && lit.Kind == token.NumericLiteral && lit.Number == 0 {
			c.warnings.Add(e.Pos(), warnZeroPlaceholder)
		}

	case *ast.RootExpression:
		c.checkKeyOperand(e.Key, e.Pos())

	case *ast.BlockExpression:
		if len(e.Body) == 0 {
			c.errors.Add(e.Pos(), errEmptyBlock)
		}

	default:
		c.errors.Add(e.Pos(), errBadProperty, describe(e))
	}
}

func (c *Checker) checkCollection(kind string, elems []ast.Expr, pos token.Position, inCollection bool) {
	if inCollection {
		c.errors.Add(pos, errNestedCollection, kind)
	}
	if len(elems) < 2 {
		c.errors.Add(pos, errShortCollection, kind)
	}
	for _, el := range elems {
		switch el.(type) {
		case *ast.ArrayExpression, *ast.SequenceExpression:
			c.errors.Add(el.Pos(), errNestedCollection, describe(el))
		default:
			c.checkProperty(el, pos, true)
		}
	}
}

func (c *Checker) checkRange(r *ast.RangeExpression) {
	if r.Left == nil && r.Right == nil {
		c.errors.Add(r.Pos(), errRangeEmpty)
	}
	for _, b := range []*ast.Literal{r.Left, r.Right} {
		if b != nil && b.Kind != token.NumericLiteral {
			c.errors.Add(b.Pos(), errRangeBound, b.Raw)
		}
	}
}

func (c *Checker) checkKeyOperand(key ast.Expr, at token.Position) {
	switch k := key.(type) {
	case *ast.Identifier, *ast.Literal:
	case *ast.BlockExpression:
		c.checkProperty(k, at, false)
	case nil:
		c.errors.Add(at, errNilNode)
	default:
		c.errors.Add(key.Pos(), errBadKeyOperand, describe(key))
	}
}

// describe names a node kind for messages.
func describe(n ast.Node) string {
	switch n.(type) {
	case *ast.Identifier:
		return "identifier"
	case *ast.Literal:
		return "literal"
	case *ast.MemberExpression:
		return "member expression"
	case *ast.CallExpression:
		return "call"
	case *ast.ArrayExpression:
		return "array"
	case *ast.SequenceExpression:
		return "sequence"
	case *ast.RangeExpression:
		return "range"
	case *ast.LookupExpression:
		return "lookup"
	case *ast.RootExpression:
		return "root switch"
	case *ast.ExistentialExpression:
		return "existential"
	case *ast.BlockExpression:
		return "block"
	default:
		return "unknown node"
	}
}
