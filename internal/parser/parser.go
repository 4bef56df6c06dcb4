package parser

import (
	"strconv"

	"github.com/kolkov/keypath/internal/ast"
	"github.com/kolkov/keypath/internal/lexer"
	"github.com/kolkov/keypath/internal/token"
)

// Parser is a recursive descent parser for keypath patterns.
// The first error aborts parsing; there is no recovery.
type Parser struct {
	toks    []token.Token // Token list being parsed
	idx     int           // Index of tok in toks
	tok     token.Token   // Current token (EOF past the end)
	prevTok token.Token   // Previous token
	eof     token.Token   // Synthetic EOF token after the last token
	err     *ParseError   // First error encountered
}

// bailout unwinds the parser after the first error.
type bailout struct{}

// Parse lexes and parses a pattern.
// Lexing errors are returned as *lexer.LexError, syntax errors as *ParseError.
func Parse(src string) (*ast.Program, error) {
	toks, err := lexer.Lex(src)
	if err != nil {
		return nil, err
	}
	return ParseTokens(toks)
}

// ParseTokens parses a pre-tokenized pattern.
func ParseTokens(toks []token.Token) (prog *ast.Program, err error) {
	p := newParser(toks)

	defer func() {
		if r := recover(); r != nil {
			if _, ok := r.(bailout); !ok {
				panic(r) // Re-panic for non-parse errors
			}
			prog, err = nil, p.err
		}
	}()

	return p.parseProgram(), nil
}

func newParser(toks []token.Token) *Parser {
	p := &Parser{toks: toks, idx: -1}

	end := token.Position{Line: 1, Column: 1}
	if n := len(toks); n > 0 {
		last := toks[n-1]
		end = last.Pos
		end.Column += len(last.Raw)
		end.Offset += len(last.Raw)
	}
	p.eof = token.Token{Kind: token.EOF, Pos: end}

	p.next() // Initialize first token
	return p
}

// -----------------------------------------------------------------------------
// Token handling
// -----------------------------------------------------------------------------

// next advances to the next token.
func (p *Parser) next() {
	p.prevTok = p.tok
	p.idx++
	p.tok = p.peek(0)
}

// peek returns the token n positions after the current one.
func (p *Parser) peek(n int) token.Token {
	if i := p.idx + n; i < len(p.toks) {
		return p.toks[i]
	}
	return p.eof
}

// is reports whether the current token is the punctuator s.
func (p *Parser) is(s string) bool {
	return p.tok.Is(s)
}

// expect checks that the current token is the punctuator s and advances.
func (p *Parser) expect(s string) {
	if !p.is(s) {
		p.fail(expectedError(p.tok.Pos, strconv.Quote(s), p.tokenDesc()))
	}
	p.next()
}

// tokenDesc returns a description of the current token for error messages.
func (p *Parser) tokenDesc() string {
	switch p.tok.Kind {
	case token.EOF:
		return "end of input"
	case token.Punctuator:
		return strconv.Quote(p.tok.Raw)
	default:
		return p.tok.Kind.String() + " " + p.tok.Raw
	}
}

// fail records err and aborts parsing.
func (p *Parser) fail(err *ParseError) {
	p.err = err
	panic(bailout{})
}

// failf records a formatted error at the current token and aborts parsing.
func (p *Parser) failf(format string, args ...any) {
	p.fail(errorf(p.tok.Pos, format, args...))
}

// -----------------------------------------------------------------------------
// Program parsing
// -----------------------------------------------------------------------------

// parseProgram parses statements separated by semicolons.
func (p *Parser) parseProgram() *ast.Program {
	prog := &ast.Program{StartPos: p.tok.Pos}

	for {
		prog.Body = append(prog.Body, p.parseStatement())
		if !p.is(token.Semicolon) {
			break
		}
		p.next()
	}

	if p.tok.Kind != token.EOF {
		p.fail(expectedError(p.tok.Pos, "end of input", p.tokenDesc()))
	}
	prog.EndPos = p.tok.Pos
	return prog
}

func (p *Parser) parseStatement() *ast.ExpressionStatement {
	start := p.tok.Pos
	expr := p.parseChain(true)
	return &ast.ExpressionStatement{
		Expr:     expr,
		StartPos: start,
		EndPos:   p.tok.Pos,
	}
}

// -----------------------------------------------------------------------------
// Expression parsing
// -----------------------------------------------------------------------------

// parseChain parses a head followed by any number of member, call and
// existential postfixes. Comma lists form sequences only when allowSeq is set;
// call arguments use commas as separators instead.
func (p *Parser) parseChain(allowSeq bool) ast.Expr {
	start := p.tok.Pos

	var expr ast.Expr
	if p.is(token.LBracket) {
		expr = p.parseBracket()
	} else {
		expr = p.parsePropertyList(allowSeq)
	}

	for {
		switch {
		case p.is(token.Dot):
			p.next()
			expr = p.makeMember(start, expr, p.parsePropertyList(allowSeq))

		case p.is(token.LBracket):
			expr = p.makeMember(start, expr, p.parseBracket())

		case p.is(token.LParen):
			expr = p.parseCall(start, expr)

		case p.is(token.Question):
			p.next()
			expr = &ast.ExistentialExpression{
				BaseExpr: ast.MakeBaseExpr(start, p.tok.Pos),
				Expr:     expr,
			}

		default:
			return expr
		}
	}
}

// makeMember creates a member expression; only identifier properties are
// non-computed.
func (p *Parser) makeMember(start token.Position, object, property ast.Expr) ast.Expr {
	_, isIdent := property.(*ast.Identifier)
	return &ast.MemberExpression{
		BaseExpr: ast.MakeBaseExpr(start, p.tok.Pos),
		Object:   object,
		Property: property,
		Computed: !isIdent,
	}
}

// parseCall parses an argument list after callee.
func (p *Parser) parseCall(start token.Position, callee ast.Expr) ast.Expr {
	p.expect(token.LParen)

	var args []ast.Expr
	if !p.is(token.RParen) {
		args = append(args, p.parseChain(false))
		for p.is(token.Comma) {
			p.next()
			args = append(args, p.parseChain(false))
		}
	}
	p.expect(token.RParen)

	return &ast.CallExpression{
		BaseExpr:  ast.MakeBaseExpr(start, p.tok.Pos),
		Callee:    callee,
		Arguments: args,
	}
}

// parseBracket parses a bracketed key list. A single element is returned
// as is; several elements form an array expression.
func (p *Parser) parseBracket() ast.Expr {
	start := p.tok.Pos
	p.expect(token.LBracket)

	elems := []ast.Expr{p.parseProperty()}
	for p.is(token.Comma) {
		p.next()
		elems = append(elems, p.parseProperty())
	}
	p.expect(token.RBracket)

	if len(elems) == 1 {
		return elems[0]
	}
	return &ast.ArrayExpression{
		BaseExpr: ast.MakeBaseExpr(start, p.tok.Pos),
		Elements: elems,
	}
}

// parsePropertyList parses one property, or a comma list of them as a
// sequence expression.
func (p *Parser) parsePropertyList(allowSeq bool) ast.Expr {
	start := p.tok.Pos
	first := p.parseProperty()
	if !allowSeq || !p.is(token.Comma) {
		return first
	}

	elems := []ast.Expr{first}
	for p.is(token.Comma) {
		p.next()
		elems = append(elems, p.parseProperty())
	}
	return &ast.SequenceExpression{
		BaseExpr: ast.MakeBaseExpr(start, p.tok.Pos),
		Elements: elems,
	}
}

// parseProperty parses a single key, context switch, block or range.
func (p *Parser) parseProperty() ast.Expr {
	start := p.tok.Pos

	switch {
	case p.tok.Kind == token.Identifier:
		name := p.tok.Raw
		p.next()
		return &ast.Identifier{
			BaseExpr: ast.MakeBaseExpr(start, p.tok.Pos),
			Name:     name,
		}

	case p.tok.Kind.IsLiteral():
		lit := p.parseLiteral()
		if p.atRange() {
			if lit.Kind != token.NumericLiteral {
				p.fail(errorf(lit.StartPos, "range bound must be a number, got %s", lit.Raw))
			}
			return p.parseRange(start, lit)
		}
		return lit

	case p.is(token.Dot) && p.peek(1).Is(token.Dot):
		return p.parseRange(start, nil)

	case p.is(token.Percent):
		p.next()
		key := p.parseKeyOperand()
		return &ast.LookupExpression{
			BaseExpr: ast.MakeBaseExpr(start, p.tok.Pos),
			Key:      key,
		}

	case p.is(token.Tilde):
		p.next()
		key := p.parseKeyOperand()
		return &ast.RootExpression{
			BaseExpr: ast.MakeBaseExpr(start, p.tok.Pos),
			Key:      key,
		}

	case p.is(token.LBrace):
		return p.parseBlock()

	default:
		p.fail(expectedError(p.tok.Pos, "property", p.tokenDesc()))
		return nil
	}
}

// atRange reports whether the next two tokens are the range operator.
func (p *Parser) atRange() bool {
	return p.is(token.Dot) && p.peek(1).Is(token.Dot)
}

// parseRange parses ".." and an optional right bound after left.
func (p *Parser) parseRange(start token.Position, left *ast.Literal) ast.Expr {
	p.expect(token.Dot)
	p.expect(token.Dot)

	var right *ast.Literal
	switch {
	case p.tok.Kind == token.NumericLiteral:
		right = p.parseLiteral()
	case p.tok.Kind.IsLiteral():
		p.failf("range bound must be a number, got %s", p.tok.Raw)
	}

	if left == nil && right == nil {
		p.fail(errorf(start, "range needs at least one bound"))
	}

	return &ast.RangeExpression{
		BaseExpr: ast.MakeBaseExpr(start, p.tok.Pos),
		Left:     left,
		Right:    right,
	}
}

// parseKeyOperand parses the operand of % and ~.
func (p *Parser) parseKeyOperand() ast.Expr {
	start := p.tok.Pos

	switch {
	case p.tok.Kind == token.Identifier:
		name := p.tok.Raw
		p.next()
		return &ast.Identifier{
			BaseExpr: ast.MakeBaseExpr(start, p.tok.Pos),
			Name:     name,
		}
	case p.tok.Kind.IsLiteral():
		return p.parseLiteral()
	case p.is(token.LBrace):
		return p.parseBlock()
	default:
		p.fail(expectedError(p.tok.Pos, "key", p.tokenDesc()))
		return nil
	}
}

// parseLiteral parses a numeric, string or null literal.
func (p *Parser) parseLiteral() *ast.Literal {
	tok := p.tok
	lit := &ast.Literal{Kind: tok.Kind, Raw: tok.Raw}

	switch tok.Kind {
	case token.NumericLiteral:
		n, err := strconv.ParseFloat(tok.Raw, 64)
		if err != nil {
			p.failf("invalid number %s", tok.Raw)
		}
		lit.Number = n
	case token.StringLiteral:
		lit.Str = lexer.Unquote(tok.Raw)
	}

	p.next()
	lit.BaseExpr = ast.MakeBaseExpr(tok.Pos, p.tok.Pos)
	return lit
}

// parseBlock collects the tokens between balanced braces without parsing
// them.
func (p *Parser) parseBlock() ast.Expr {
	start := p.tok.Pos
	p.expect(token.LBrace)

	first := p.idx
	depth := 1
	for {
		switch {
		case p.tok.Kind == token.EOF:
			p.fail(expectedError(p.tok.Pos, strconv.Quote(token.RBrace), "end of input"))
		case p.is(token.LBrace):
			depth++
		case p.is(token.RBrace):
			depth--
		}
		if depth == 0 {
			break
		}
		p.next()
	}

	body := make([]token.Token, p.idx-first)
	copy(body, p.toks[first:p.idx])
	if len(body) == 0 {
		p.failf("empty block")
	}
	p.next() // consume closing brace

	return &ast.BlockExpression{
		BaseExpr: ast.MakeBaseExpr(start, p.tok.Pos),
		Body:     body,
	}
}
