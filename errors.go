package keypath

import (
	"fmt"

	"github.com/kolkov/keypath/internal/compiler"
	"github.com/kolkov/keypath/internal/lexer"
	"github.com/kolkov/keypath/internal/parser"
)

// ErrCannotCreateCall is reported by Set when the route calls a function
// that does not exist. Functions are never created on demand.
var ErrCannotCreateCall = compiler.ErrCannotCreateCall

// LexError represents a character that cannot start any token.
type LexError struct {
	Line    int    // 1-based line number
	Column  int    // 1-based column number
	Message string // Error description
}

func (e *LexError) Error() string {
	return fmt.Sprintf("lex error at %d:%d: %s", e.Line, e.Column, e.Message)
}

// ParseError represents a syntax error in a pattern.
type ParseError struct {
	Line    int    // 1-based line number
	Column  int    // 1-based column number
	Message string // Error description
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse error at %d:%d: %s", e.Line, e.Column, e.Message)
}

// CompileError represents a pattern the compiler cannot lower.
type CompileError struct {
	Message string // Error description
}

func (e *CompileError) Error() string {
	return fmt.Sprintf("compile error: %s", e.Message)
}

// RuntimeError represents an error while executing a pattern.
// Missing data is never an error; only calls fail.
type RuntimeError struct {
	Line    int    // 1-based line number of the failing call
	Column  int    // 1-based column number of the failing call
	Message string // Error description
	Err     error  // Underlying cause (optional)
}

func (e *RuntimeError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("runtime error at %d:%d: %s: %v", e.Line, e.Column, e.Message, e.Err)
	}
	return fmt.Sprintf("runtime error at %d:%d: %s", e.Line, e.Column, e.Message)
}

// Unwrap returns the underlying cause.
func (e *RuntimeError) Unwrap() error {
	return e.Err
}

// convertError converts internal errors to public types.
func convertError(err error) error {
	switch e := err.(type) {
	case nil:
		return nil
	case *lexer.LexError:
		return &LexError{Line: e.Pos.Line, Column: e.Pos.Column, Message: e.Message}
	case *parser.ParseError:
		return &ParseError{Line: e.Pos.Line, Column: e.Pos.Column, Message: e.Message}
	case *compiler.CompileError:
		return &CompileError{Message: e.Error()}
	case *compiler.RuntimeError:
		return &RuntimeError{Line: e.Pos.Line, Column: e.Pos.Column, Message: e.Message, Err: e.Err}
	default:
		return err
	}
}
