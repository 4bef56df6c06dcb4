package ast_test

import (
	"strings"
	"testing"

	"github.com/kolkov/keypath/internal/ast"
	"github.com/kolkov/keypath/internal/parser"
)

func parse(t *testing.T, src string) *ast.Program {
	t.Helper()
	prog, err := parser.Parse(src)
	if err != nil {
		t.Fatalf("Parse(%q) error: %v", src, err)
	}
	return prog
}

func TestIsIdentifier(t *testing.T) {
	tests := []struct {
		key  string
		want bool
	}{
		{"foo", true},
		{"_foo1", true},
		{"$el", true},
		{"1foo", false},
		{"a b", false},
		{"", false},
		{"null", false},
		{"a-b", false},
	}

	for _, tt := range tests {
		if got := ast.IsIdentifier(tt.key); got != tt.want {
			t.Errorf("IsIdentifier(%q) = %v, want %v", tt.key, got, tt.want)
		}
	}
}

func TestQuoteKey(t *testing.T) {
	tests := []struct {
		key, want string
	}{
		{"a", `"a"`},
		{"a b", `"a b"`},
		{`say "hi"`, `"say \"hi\""`},
		{`back\slash`, `"back\\slash"`},
	}

	for _, tt := range tests {
		if got := ast.QuoteKey(tt.key); got != tt.want {
			t.Errorf("QuoteKey(%q) = %s, want %s", tt.key, got, tt.want)
		}
	}
}

func TestString(t *testing.T) {
	tests := []struct {
		src, want string
	}{
		{`foo . bar`, `foo.bar`},
		{`foo[ 'x' ]`, `foo['x']`},
		{`foo[a,b]`, `foo[a, b]`},
		{`foo.1..3`, `foo[1..3]`},
		{`foo...3`, `foo[..3]`},
		{`fn( a ,%1 )`, `fn(a, %1)`},
		{`a;b`, `a; b`},
		{`x.{a.b}`, `x.{a . b}`},
	}

	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			if got := ast.String(parse(t, tt.src)); got != tt.want {
				t.Errorf("String() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestWalk(t *testing.T) {
	prog := parse(t, `foo[%1, %2].bar(%3)`)

	count := 0
	ast.Walk(prog, func(n ast.Node) bool {
		if _, ok := n.(*ast.LookupExpression); ok {
			count++
		}
		return true
	})
	if count != 3 {
		t.Errorf("found %d lookups, want 3", count)
	}
}

func TestWalkSkipsChildren(t *testing.T) {
	prog := parse(t, `a(b.c)`)

	var idents []string
	ast.Walk(prog, func(n ast.Node) bool {
		if _, ok := n.(*ast.CallExpression); ok {
			return false
		}
		if id, ok := n.(*ast.Identifier); ok {
			idents = append(idents, id.Name)
		}
		return true
	})
	if len(idents) != 0 {
		t.Errorf("visited %v below a pruned call", idents)
	}
}

func TestInspectParent(t *testing.T) {
	prog := parse(t, `a.b`)

	var props []string
	ast.Inspect(prog, func(n, parent ast.Node) bool {
		id, ok := n.(*ast.Identifier)
		if !ok {
			return true
		}
		if m, ok := parent.(*ast.MemberExpression); ok && m.Property == n {
			props = append(props, id.Name)
		}
		return true
	})
	if len(props) != 1 || props[0] != "b" {
		t.Errorf("properties = %v, want [b]", props)
	}
}

func TestIsFanOut(t *testing.T) {
	tests := []struct {
		src  string
		want bool
	}{
		{`foo`, false},
		{`[a, b]`, true},
		{`a, b`, true},
		{`1..3`, true},
		{`foo.bar`, false},
	}

	for _, tt := range tests {
		expr := parse(t, tt.src).Body[0].Expr
		if got := ast.IsFanOut(expr); got != tt.want {
			t.Errorf("IsFanOut(%s) = %v, want %v", tt.src, got, tt.want)
		}
	}
}

func TestDump(t *testing.T) {
	var sb strings.Builder
	if err := ast.NewPrinter(&sb).Dump(parse(t, `a.b`)); err != nil {
		t.Fatalf("Dump error: %v", err)
	}

	want := strings.Join([]string{
		"Program",
		"  ExpressionStatement",
		"    MemberExpression computed=false",
		"      Identifier a",
		"      Identifier b",
		"",
	}, "\n")
	if got := sb.String(); got != want {
		t.Errorf("Dump() =\n%s\nwant:\n%s", got, want)
	}
}
