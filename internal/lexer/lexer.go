// Package lexer provides keypath pattern tokenization.
package lexer

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/kolkov/keypath/internal/token"
)

// eof marks the end of input in Lexer.ch.
const eof = -1

// nbsp is the no-break space, skipped like ASCII whitespace.
const nbsp = '\u00a0'

// LexError reports a character that cannot start any token.
type LexError struct {
	Pos     token.Position
	Char    rune
	Message string
}

func (e *LexError) Error() string {
	return fmt.Sprintf("%s: %s", e.Pos, e.Message)
}

// Lexer tokenizes keypath patterns.
type Lexer struct {
	src     string         // Source pattern
	ch      rune           // Current character (eof at end)
	offset  int            // Byte offset of the next character
	pos     token.Position // Position of ch
	nextPos token.Position // Position of the next character

	nextID uint64        // ID assigned to the next token
	tokens []token.Token // Tokens produced by All
}

// New creates a new Lexer for the given pattern.
func New(src string) *Lexer {
	l := &Lexer{}
	l.Reset(src)
	return l
}

// Reset discards all lexer state and prepares to scan src.
func (l *Lexer) Reset(src string) {
	l.src = src
	l.offset = 0
	l.pos = token.Position{Line: 1, Column: 1}
	l.nextPos = token.Position{Line: 1, Column: 1}
	l.nextID = 1
	l.tokens = l.tokens[:0]
	l.next() // Initialize first character
}

// Lex tokenizes src and returns the token list without a trailing EOF token.
func Lex(src string) ([]token.Token, error) {
	return New(src).All()
}

// All scans the remaining input and returns every token before EOF.
// The returned slice is owned by the caller.
func (l *Lexer) All() ([]token.Token, error) {
	l.tokens = l.tokens[:0]
	for {
		tok, err := l.Scan()
		if err != nil {
			return nil, err
		}
		if tok.Kind == token.EOF {
			break
		}
		l.tokens = append(l.tokens, tok)
	}
	out := make([]token.Token, len(l.tokens))
	copy(out, l.tokens)
	return out, nil
}

// Scan scans and returns the next token.
func (l *Lexer) Scan() (token.Token, error) {
	l.skipWhitespace()

	pos := l.pos

	switch {
	case l.ch == eof:
		return token.Token{Kind: token.EOF, Pos: pos}, nil

	case l.ch == '"' || l.ch == '\'':
		return l.scanString(pos)

	case isDigit(l.ch):
		return l.scanNumber(pos), nil

	case isIdentStart(l.ch):
		return l.scanIdent(pos), nil

	case token.IsPunctuator(l.ch):
		ch := l.ch
		l.next()
		return l.emit(token.Punctuator, string(ch), pos), nil

	default:
		return token.Token{Kind: token.ILLEGAL, Pos: pos}, &LexError{
			Pos:     pos,
			Char:    l.ch,
			Message: fmt.Sprintf("unexpected character %q", l.ch),
		}
	}
}

func (l *Lexer) emit(kind token.Kind, raw string, pos token.Position) token.Token {
	tok := token.Token{ID: l.nextID, Kind: kind, Raw: raw, Pos: pos}
	l.nextID++
	return tok
}

func (l *Lexer) scanString(pos token.Position) (token.Token, error) {
	quote := l.ch
	start := pos.Offset
	l.next() // consume opening quote

	for l.ch != eof && l.ch != quote {
		if l.ch == '\\' {
			l.next()
			if l.ch == eof {
				break
			}
		}
		l.next()
	}

	if l.ch != quote {
		return token.Token{Kind: token.ILLEGAL, Pos: pos}, &LexError{
			Pos:     pos,
			Char:    quote,
			Message: "unterminated string",
		}
	}
	l.next() // consume closing quote

	return l.emit(token.StringLiteral, l.src[start:l.endOffset()], pos), nil
}

func (l *Lexer) scanNumber(pos token.Position) token.Token {
	start := pos.Offset
	for isDigit(l.ch) {
		l.next()
	}
	return l.emit(token.NumericLiteral, l.src[start:l.endOffset()], pos)
}

func (l *Lexer) scanIdent(pos token.Position) token.Token {
	start := pos.Offset
	for isIdentContinue(l.ch) {
		l.next()
	}
	name := l.src[start:l.endOffset()]
	if name == token.NullWord {
		return l.emit(token.NullLiteral, name, pos)
	}
	return l.emit(token.Identifier, name, pos)
}

// endOffset returns the offset just past the last consumed character.
func (l *Lexer) endOffset() int {
	if l.ch == eof {
		return len(l.src)
	}
	return l.pos.Offset
}

func (l *Lexer) skipWhitespace() {
	for isSpace(l.ch) {
		l.next()
	}
}

func (l *Lexer) next() {
	if l.offset >= len(l.src) {
		l.ch = eof
		l.pos = l.nextPos
		return
	}

	l.pos = l.nextPos

	r, size := rune(l.src[l.offset]), 1
	if r >= utf8.RuneSelf {
		r, size = utf8.DecodeRuneInString(l.src[l.offset:])
	}
	l.offset += size
	l.ch = r

	l.nextPos.Column += size
	l.nextPos.Offset = l.offset
	if r == '\n' {
		l.nextPos.Line++
		l.nextPos.Column = 1
	}
}

// Unquote returns the value of a string literal's raw text.
// A backslash escapes the character that follows it.
func Unquote(raw string) string {
	if len(raw) < 2 {
		return raw
	}
	body := raw[1 : len(raw)-1]
	if !strings.ContainsRune(body, '\\') {
		return body
	}

	var sb strings.Builder
	sb.Grow(len(body))
	escaped := false
	for _, r := range body {
		if !escaped && r == '\\' {
			escaped = true
			continue
		}
		escaped = false
		sb.WriteRune(r)
	}
	return sb.String()
}

// Helper functions

func isDigit(ch rune) bool {
	return ch >= '0' && ch <= '9'
}

func isIdentStart(ch rune) bool {
	return (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z') || ch == '_' || ch == '$'
}

func isIdentContinue(ch rune) bool {
	return isIdentStart(ch) || isDigit(ch)
}

func isSpace(ch rune) bool {
	switch ch {
	case ' ', '\t', '\r', '\n', '\v', nbsp:
		return true
	default:
		return false
	}
}
