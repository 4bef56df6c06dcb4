package compiler

import (
	"errors"
	"fmt"

	"github.com/kolkov/keypath/internal/lexer"
	"github.com/kolkov/keypath/internal/parser"
	"github.com/kolkov/keypath/internal/token"
)

// ErrCannotCreateCall is returned when a setter reaches a call whose
// function does not exist. Functions are never created on demand.
var ErrCannotCreateCall = errors.New("cannot create call expressions")

// CompileError represents a compilation error.
type CompileError struct {
	Pos     token.Position
	Message string
}

func (e *CompileError) Error() string {
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s: %s", e.Pos, e.Message)
	}
	return e.Message
}

// RuntimeError is a failure while executing a compiled pattern.
// Missing data is never an error; only calls can fail.
type RuntimeError struct {
	Pos     token.Position
	Message string
	Err     error // Underlying cause (optional)
}

func (e *RuntimeError) Error() string {
	msg := e.Message
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s: %s", e.Pos, msg)
	}
	return msg
}

// Unwrap returns the underlying cause.
func (e *RuntimeError) Unwrap() error {
	return e.Err
}

// isStructural reports whether err comes from lexing, parsing or compiling
// rather than from executing. Structural errors are never swallowed.
func isStructural(err error) bool {
	var (
		le *lexer.LexError
		pe *parser.ParseError
		ce *CompileError
	)
	return errors.As(err, &le) || errors.As(err, &pe) || errors.As(err, &ce)
}
