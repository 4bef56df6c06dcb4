package ast

import "github.com/kolkov/keypath/internal/token"

// Program represents a complete pattern: one or more statements
// separated by semicolons.
type Program struct {
	Body []*ExpressionStatement

	// Position information for the entire program.
	StartPos token.Position
	EndPos   token.Position
}

// Pos returns the position of the first token in the program.
func (p *Program) Pos() token.Position { return p.StartPos }

// End returns the position after the last token in the program.
func (p *Program) End() token.Position { return p.EndPos }

// ExpressionStatement wraps one top-level path.
type ExpressionStatement struct {
	Expr Expr

	StartPos token.Position
	EndPos   token.Position
}

// Pos returns the position of the first token in the statement.
func (s *ExpressionStatement) Pos() token.Position { return s.StartPos }

// End returns the position after the last token in the statement.
func (s *ExpressionStatement) End() token.Position { return s.EndPos }

// -----------------------------------------------------------------------------
// Compile-time checks
// -----------------------------------------------------------------------------

var (
	_ Node = (*Program)(nil)
	_ Node = (*ExpressionStatement)(nil)
)
