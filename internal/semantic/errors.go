// Package semantic provides semantic analysis for keypath patterns.
//
// The semantic analyzer performs:
//   - Structural validation: AST shapes the lowering pass relies on
//   - Pattern metadata: placeholders, fan-out, calls, root switches, blocks
//
// Block bodies are opaque token lists until they are compiled; each block
// is analyzed on its own when the compiler first evaluates it.
package semantic

import (
	"fmt"
	"strings"

	"github.com/kolkov/keypath/internal/token"
)

// Error represents a semantic analysis error with source location.
type Error struct {
	Pos     token.Position
	Message string
}

// Error implements the error interface.
func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Pos, e.Message)
}

// Warning represents a semantic warning (non-fatal issue).
type Warning struct {
	Pos     token.Position
	Message string
}

// String returns the warning as a formatted string.
func (w *Warning) String() string {
	return fmt.Sprintf("%s: warning: %s", w.Pos, w.Message)
}

// ErrorList is a collection of semantic errors.
type ErrorList []*Error

// Add appends an error to the list.
func (el *ErrorList) Add(pos token.Position, format string, args ...any) {
	*el = append(*el, &Error{
		Pos:     pos,
		Message: fmt.Sprintf(format, args...),
	})
}

// Err returns an error if the list is non-empty, nil otherwise.
func (el ErrorList) Err() error {
	if len(el) == 0 {
		return nil
	}
	return el
}

// Error implements the error interface for ErrorList.
func (el ErrorList) Error() string {
	switch len(el) {
	case 0:
		return "no errors"
	case 1:
		return el[0].Error()
	default:
		var sb strings.Builder
		sb.WriteString(el[0].Error())
		for _, e := range el[1:] {
			sb.WriteByte('\n')
			sb.WriteString(e.Error())
		}
		return sb.String()
	}
}

// WarningList is a collection of semantic warnings.
type WarningList []*Warning

// Add appends a warning to the list.
func (wl *WarningList) Add(pos token.Position, format string, args ...any) {
	*wl = append(*wl, &Warning{
		Pos:     pos,
		Message: fmt.Sprintf(format, args...),
	})
}

// Common error messages as constants for consistency.
const (
	errComputedIdent    = "identifier property %q must not be computed"
	errStaticNonIdent   = "non-identifier property must be computed"
	errRangeBound       = "range bound %s is not a number"
	errRangeEmpty       = "range needs at least one bound"
	errShortCollection  = "%s needs at least two elements"
	errEmptyBlock       = "empty block"
	errNestedCollection = "%s cannot appear inside a collection"
	errBadKeyOperand    = "%s cannot be used as a key"
	errBadProperty      = "%s cannot be used as a property"
	errEmptyProgram     = "empty program"
	errNilNode          = "missing expression"
)

// Common warning messages.
const (
	warnZeroPlaceholder = "placeholder %%0 never matches positional arguments; placeholders start at %%1"
	warnFanOutCall      = "calling a fan-out expression always fails"
)
