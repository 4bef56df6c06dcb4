// Package ast defines the abstract syntax tree for keypath patterns.
//
// Every node owns its children exclusively; the tree has no cycles and
// lives as long as the compiled program built from it.
//
// Node hierarchy:
//
//	Node (interface)
//	├── Expr (interface) - expressions
//	│   ├── Identifier, Literal - keys
//	│   ├── MemberExpression, CallExpression - chains
//	│   ├── ArrayExpression, SequenceExpression, RangeExpression - fan-out
//	│   ├── LookupExpression, RootExpression - context switches
//	│   └── ExistentialExpression, BlockExpression - special
//	└── Program, ExpressionStatement - top-level structures
package ast

import "github.com/kolkov/keypath/internal/token"

// Node is the interface implemented by all AST nodes.
type Node interface {
	// Pos returns the position of the first character belonging to this node.
	Pos() token.Position

	// End returns the position of the first character immediately after this node.
	End() token.Position
}

// Expr is the interface for all expression nodes.
type Expr interface {
	Node
	exprNode() // marker method to prevent external implementations
}

// BaseExpr provides common fields for all expression nodes.
// Embedded in concrete expression types for position tracking.
type BaseExpr struct {
	StartPos token.Position // Position of first token
	EndPos   token.Position // Position after last token
}

func (b *BaseExpr) Pos() token.Position { return b.StartPos }
func (b *BaseExpr) End() token.Position { return b.EndPos }
func (b *BaseExpr) exprNode()           {}

// MakeBaseExpr creates a BaseExpr with the given positions.
func MakeBaseExpr(start, end token.Position) BaseExpr {
	return BaseExpr{StartPos: start, EndPos: end}
}

// IsFanOut reports whether e denotes several keys at once.
func IsFanOut(e Expr) bool {
	switch e.(type) {
	case *ArrayExpression, *SequenceExpression, *RangeExpression:
		return true
	default:
		return false
	}
}
