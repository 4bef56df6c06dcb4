package parser

import (
	"errors"
	"testing"

	"github.com/kolkov/keypath/internal/ast"
	"github.com/kolkov/keypath/internal/lexer"
	"github.com/kolkov/keypath/internal/token"
)

func mustParse(t *testing.T, src string) *ast.Program {
	t.Helper()
	prog, err := Parse(src)
	if err != nil {
		t.Fatalf("Parse(%q) error: %v", src, err)
	}
	return prog
}

func singleExpr(t *testing.T, src string) ast.Expr {
	t.Helper()
	prog := mustParse(t, src)
	if len(prog.Body) != 1 {
		t.Fatalf("Parse(%q): got %d statements, want 1", src, len(prog.Body))
	}
	return prog.Body[0].Expr
}

func TestParseIdentifier(t *testing.T) {
	expr := singleExpr(t, "foo")
	id, ok := expr.(*ast.Identifier)
	if !ok {
		t.Fatalf("expected *ast.Identifier, got %T", expr)
	}
	if id.Name != "foo" {
		t.Errorf("Name = %q, want %q", id.Name, "foo")
	}
}

func TestParseMemberChain(t *testing.T) {
	expr := singleExpr(t, "foo.bar.qux")
	outer, ok := expr.(*ast.MemberExpression)
	if !ok {
		t.Fatalf("expected *ast.MemberExpression, got %T", expr)
	}
	if outer.Computed {
		t.Error("identifier property should not be computed")
	}
	if id := outer.Property.(*ast.Identifier); id.Name != "qux" {
		t.Errorf("outer property = %q, want qux", id.Name)
	}
	inner, ok := outer.Object.(*ast.MemberExpression)
	if !ok {
		t.Fatalf("expected nested *ast.MemberExpression, got %T", outer.Object)
	}
	if id := inner.Object.(*ast.Identifier); id.Name != "foo" {
		t.Errorf("head = %q, want foo", id.Name)
	}
}

func TestParseComputed(t *testing.T) {
	tests := []struct {
		src  string
		kind token.Kind
		raw  string
	}{
		{`foo[0]`, token.NumericLiteral, "0"},
		{`foo["a b"]`, token.StringLiteral, `"a b"`},
		{`foo.'x'`, token.StringLiteral, `'x'`},
		{`foo[null]`, token.NullLiteral, "null"},
		{`foo.12`, token.NumericLiteral, "12"},
	}

	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			m, ok := singleExpr(t, tt.src).(*ast.MemberExpression)
			if !ok {
				t.Fatal("expected *ast.MemberExpression")
			}
			if !m.Computed {
				t.Error("literal property should be computed")
			}
			lit, ok := m.Property.(*ast.Literal)
			if !ok {
				t.Fatalf("expected *ast.Literal property, got %T", m.Property)
			}
			if lit.Kind != tt.kind || lit.Raw != tt.raw {
				t.Errorf("got %s %s, want %s %s", lit.Kind, lit.Raw, tt.kind, tt.raw)
			}
		})
	}
}

func TestParseLiteralValues(t *testing.T) {
	m := singleExpr(t, `a[42]`).(*ast.MemberExpression)
	if n := m.Property.(*ast.Literal).Number; n != 42 {
		t.Errorf("Number = %v, want 42", n)
	}

	m = singleExpr(t, `a["x\"y"]`).(*ast.MemberExpression)
	if s := m.Property.(*ast.Literal).Str; s != `x"y` {
		t.Errorf("Str = %q, want %q", s, `x"y`)
	}
}

func TestParseArray(t *testing.T) {
	m := singleExpr(t, `foo[a, 1, "b"]`).(*ast.MemberExpression)
	arr, ok := m.Property.(*ast.ArrayExpression)
	if !ok {
		t.Fatalf("expected *ast.ArrayExpression, got %T", m.Property)
	}
	if len(arr.Elements) != 3 {
		t.Errorf("got %d elements, want 3", len(arr.Elements))
	}
	if !m.Computed {
		t.Error("array property should be computed")
	}
}

func TestParseHeadArray(t *testing.T) {
	expr := singleExpr(t, `[a, b].c`)
	m, ok := expr.(*ast.MemberExpression)
	if !ok {
		t.Fatalf("expected *ast.MemberExpression, got %T", expr)
	}
	if _, ok := m.Object.(*ast.ArrayExpression); !ok {
		t.Errorf("expected array head, got %T", m.Object)
	}
}

func TestParseSequence(t *testing.T) {
	// Comma binds tighter than dot.
	expr := singleExpr(t, `foo.a, b.c`)
	outer := expr.(*ast.MemberExpression)
	inner, ok := outer.Object.(*ast.MemberExpression)
	if !ok {
		t.Fatalf("expected nested member, got %T", outer.Object)
	}
	seq, ok := inner.Property.(*ast.SequenceExpression)
	if !ok {
		t.Fatalf("expected *ast.SequenceExpression, got %T", inner.Property)
	}
	if len(seq.Elements) != 2 {
		t.Errorf("got %d elements, want 2", len(seq.Elements))
	}

	head := singleExpr(t, `a, b`)
	if _, ok := head.(*ast.SequenceExpression); !ok {
		t.Errorf("expected sequence head, got %T", head)
	}
}

func TestParseRange(t *testing.T) {
	tests := []struct {
		src         string
		left, right string
	}{
		{`foo[1..3]`, "1", "3"},
		{`foo[..3]`, "", "3"},
		{`foo[3..]`, "3", ""},
		{`foo.1..3`, "1", "3"},
		{`foo...3`, "", "3"},
	}

	bound := func(l *ast.Literal) string {
		if l == nil {
			return ""
		}
		return l.Raw
	}

	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			m := singleExpr(t, tt.src).(*ast.MemberExpression)
			r, ok := m.Property.(*ast.RangeExpression)
			if !ok {
				t.Fatalf("expected *ast.RangeExpression, got %T", m.Property)
			}
			if bound(r.Left) != tt.left || bound(r.Right) != tt.right {
				t.Errorf("got %q..%q, want %q..%q", bound(r.Left), bound(r.Right), tt.left, tt.right)
			}
		})
	}
}

func TestParseRangeInArray(t *testing.T) {
	m := singleExpr(t, `foo[0, 2..3]`).(*ast.MemberExpression)
	arr := m.Property.(*ast.ArrayExpression)
	if _, ok := arr.Elements[1].(*ast.RangeExpression); !ok {
		t.Errorf("expected range element, got %T", arr.Elements[1])
	}
}

func TestParseCall(t *testing.T) {
	expr := singleExpr(t, `foo.bar(a.b, %1, "x")`)
	call, ok := expr.(*ast.CallExpression)
	if !ok {
		t.Fatalf("expected *ast.CallExpression, got %T", expr)
	}
	if len(call.Arguments) != 3 {
		t.Fatalf("got %d arguments, want 3", len(call.Arguments))
	}
	if _, ok := call.Callee.(*ast.MemberExpression); !ok {
		t.Errorf("callee = %T, want member", call.Callee)
	}
	if _, ok := call.Arguments[0].(*ast.MemberExpression); !ok {
		t.Errorf("arg 0 = %T, want member", call.Arguments[0])
	}
	if _, ok := call.Arguments[1].(*ast.LookupExpression); !ok {
		t.Errorf("arg 1 = %T, want lookup", call.Arguments[1])
	}
	if _, ok := call.Arguments[2].(*ast.Literal); !ok {
		t.Errorf("arg 2 = %T, want literal", call.Arguments[2])
	}

	empty := singleExpr(t, `fn()`).(*ast.CallExpression)
	if len(empty.Arguments) != 0 {
		t.Errorf("got %d arguments, want 0", len(empty.Arguments))
	}
}

func TestParseCallChain(t *testing.T) {
	expr := singleExpr(t, `a.b().c`)
	m, ok := expr.(*ast.MemberExpression)
	if !ok {
		t.Fatalf("expected member, got %T", expr)
	}
	if _, ok := m.Object.(*ast.CallExpression); !ok {
		t.Errorf("object = %T, want call", m.Object)
	}
}

func TestParseLookupAndRoot(t *testing.T) {
	m := singleExpr(t, `foo.%1`).(*ast.MemberExpression)
	lk, ok := m.Property.(*ast.LookupExpression)
	if !ok {
		t.Fatalf("expected lookup, got %T", m.Property)
	}
	if lit := lk.Key.(*ast.Literal); lit.Raw != "1" {
		t.Errorf("lookup key = %q, want 1", lit.Raw)
	}

	m = singleExpr(t, `foo.~bar.baz`).(*ast.MemberExpression)
	inner := m.Object.(*ast.MemberExpression)
	root, ok := inner.Property.(*ast.RootExpression)
	if !ok {
		t.Fatalf("expected root, got %T", inner.Property)
	}
	if id := root.Key.(*ast.Identifier); id.Name != "bar" {
		t.Errorf("root key = %q, want bar", id.Name)
	}

	m = singleExpr(t, `foo.%{a.b}`).(*ast.MemberExpression)
	lk = m.Property.(*ast.LookupExpression)
	if _, ok := lk.Key.(*ast.BlockExpression); !ok {
		t.Errorf("lookup key = %T, want block", lk.Key)
	}
}

func TestParseExistential(t *testing.T) {
	expr := singleExpr(t, `foo.bar?.baz`)
	m := expr.(*ast.MemberExpression)
	ex, ok := m.Object.(*ast.ExistentialExpression)
	if !ok {
		t.Fatalf("expected existential, got %T", m.Object)
	}
	if _, ok := ex.Expr.(*ast.MemberExpression); !ok {
		t.Errorf("existential operand = %T, want member", ex.Expr)
	}
}

func TestParseBlock(t *testing.T) {
	m := singleExpr(t, `foo.{ref.{x}.prop}`).(*ast.MemberExpression)
	blk, ok := m.Property.(*ast.BlockExpression)
	if !ok {
		t.Fatalf("expected block, got %T", m.Property)
	}
	if got, want := blk.Text(), "ref . { x } . prop"; got != want {
		t.Errorf("Text() = %q, want %q", got, want)
	}
}

func TestParseStatements(t *testing.T) {
	prog := mustParse(t, `a.b; c`)
	if len(prog.Body) != 2 {
		t.Errorf("got %d statements, want 2", len(prog.Body))
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		src string
		msg string
	}{
		{``, "expected property, got end of input"},
		{`foo.`, "expected property, got end of input"},
		{`foo[`, "expected property, got end of input"},
		{`foo[a`, `expected "]", got end of input`},
		{`foo(a`, `expected ")", got end of input`},
		{`foo(a, b`, `expected ")", got end of input`},
		{`foo bar`, "expected end of input, got identifier bar"},
		{`foo;`, "expected property, got end of input"},
		{`foo.{}`, "empty block"},
		{`foo.{a`, `expected "}", got end of input`},
		{`foo.%`, "expected key, got end of input"},
		{`foo.~.`, `expected key, got "."`},
		{`foo["a"..3]`, `range bound must be a number, got "a"`},
		{`foo[1.."a"]`, `range bound must be a number, got "a"`},
		{`foo[..]`, "range needs at least one bound"},
		{`foo)`, `expected end of input, got ")"`},
	}

	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			_, err := Parse(tt.src)
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			var pe *ParseError
			if !errors.As(err, &pe) {
				t.Fatalf("expected *ParseError, got %T: %v", err, err)
			}
			if pe.Message != tt.msg {
				t.Errorf("Message = %q, want %q", pe.Message, tt.msg)
			}
		})
	}
}

func TestParseLexError(t *testing.T) {
	_, err := Parse(`foo.#`)
	var le *lexer.LexError
	if !errors.As(err, &le) {
		t.Fatalf("expected *lexer.LexError, got %T: %v", err, err)
	}
}

func TestParseErrorPosition(t *testing.T) {
	_, err := Parse(`foo..bar`)
	var pe *ParseError
	if !errors.As(err, &pe) {
		t.Fatalf("expected *ParseError, got %v", err)
	}
	if pe.Pos.Column != 5 {
		t.Errorf("Column = %d, want 5", pe.Pos.Column)
	}
}

func TestParseTokensReusesBlockBody(t *testing.T) {
	m := singleExpr(t, `a.{b.c}`).(*ast.MemberExpression)
	body := m.Property.(*ast.BlockExpression).Body

	prog, err := ParseTokens(body)
	if err != nil {
		t.Fatalf("ParseTokens error: %v", err)
	}
	if _, ok := prog.Body[0].Expr.(*ast.MemberExpression); !ok {
		t.Errorf("got %T, want member", prog.Body[0].Expr)
	}
}

func TestPrintRoundTrip(t *testing.T) {
	tests := []string{
		`foo`,
		`foo.bar.baz`,
		`foo[0]`,
		`foo["a b"]`,
		`foo[a, 1, "b"]`,
		`[a, b].c`,
		`foo.a, b.c`,
		`foo[1..3]`,
		`foo[..3]`,
		`foo[0, 2..]`,
		`foo.bar(a.b, %1, "x")`,
		`foo.%1`,
		`foo.~bar.baz`,
		`foo.bar?.baz`,
		`foo.{ref.prop}`,
		`a; b.c`,
		`fn()`,
	}

	for _, src := range tests {
		t.Run(src, func(t *testing.T) {
			prog := mustParse(t, src)
			text := ast.String(prog)
			again, err := Parse(text)
			if err != nil {
				t.Fatalf("re-parse of %q failed: %v", text, err)
			}
			if got := ast.String(again); got != text {
				t.Errorf("printer not stable: %q then %q", text, got)
			}
		})
	}
}
