// Package token defines lexical tokens for keypath patterns.
package token

import (
	"fmt"
	"strings"
)

// Kind represents a lexical token type.
type Kind uint8

const (
	// Special tokens
	ILLEGAL Kind = iota // <illegal>
	EOF                 // EOF

	Identifier     // identifier
	NumericLiteral // number
	StringLiteral  // string
	NullLiteral    // null
	Punctuator     // punctuator
)

// String returns a human-readable name for the kind.
func (k Kind) String() string {
	switch k {
	case ILLEGAL:
		return "illegal"
	case EOF:
		return "end of input"
	case Identifier:
		return "identifier"
	case NumericLiteral:
		return "number"
	case StringLiteral:
		return "string"
	case NullLiteral:
		return "null"
	case Punctuator:
		return "punctuator"
	default:
		return fmt.Sprintf("kind(%d)", k)
	}
}

// IsLiteral returns true if the kind is a literal (number, string, null).
func (k Kind) IsLiteral() bool {
	return k == NumericLiteral || k == StringLiteral || k == NullLiteral
}

// Punctuator characters.
const (
	Dot       = "."
	Comma     = ","
	Question  = "?"
	LParen    = "("
	RParen    = ")"
	LBracket  = "["
	RBracket  = "]"
	LBrace    = "{"
	RBrace    = "}"
	Percent   = "%"
	Tilde     = "~"
	Semicolon = ";"
)

// punctuators lists every single-character punctuator.
const punctuators = ".,?()[]{}%~;"

// IsPunctuator reports whether ch is a punctuator character.
func IsPunctuator(ch rune) bool {
	for _, p := range punctuators {
		if p == ch {
			return true
		}
	}
	return false
}

// NullWord is the identifier spelling reclassified as a null literal.
const NullWord = "null"

// Token is a single lexical token. Tokens are immutable once created;
// ID is used only for diagnostics.
type Token struct {
	ID   uint64
	Kind Kind
	Raw  string // source text, quotes included for strings
	Pos  Position
}

// Is reports whether t is the punctuator p.
func (t Token) Is(p string) bool {
	return t.Kind == Punctuator && t.Raw == p
}

// String returns a debug representation of the token.
func (t Token) String() string {
	if t.Kind == EOF {
		return t.Kind.String()
	}
	return fmt.Sprintf("%s(%s)", t.Kind, t.Raw)
}

// Join renders tokens back to pattern text, one space between tokens.
// Equal token sequences always produce equal text.
func Join(toks []Token) string {
	var sb strings.Builder
	for i, tok := range toks {
		if i > 0 {
			sb.WriteByte(' ')
		}
		sb.WriteString(tok.Raw)
	}
	return sb.String()
}
