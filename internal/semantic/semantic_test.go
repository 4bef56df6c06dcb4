package semantic

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/kolkov/keypath/internal/ast"
	"github.com/kolkov/keypath/internal/parser"
	"github.com/kolkov/keypath/internal/token"
)

// Helper to parse a pattern
func parseCode(t *testing.T, code string) *ast.Program {
	t.Helper()
	prog, err := parser.Parse(code)
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}
	return prog
}

// Helper to check for expected error on a hand-built program
func expectError(t *testing.T, prog *ast.Program, errSubstr string) {
	t.Helper()
	errs, _ := Check(prog)
	if len(errs) == 0 {
		t.Errorf("expected error containing %q, got no error", errSubstr)
		return
	}
	if !strings.Contains(errs.Error(), errSubstr) {
		t.Errorf("expected error containing %q, got: %v", errSubstr, errs)
	}
}

func stmt(e ast.Expr) *ast.Program {
	return &ast.Program{Body: []*ast.ExpressionStatement{{Expr: e}}}
}

func ident(name string) *ast.Identifier {
	return &ast.Identifier{Name: name}
}

func num(raw string, n float64) *ast.Literal {
	return &ast.Literal{Kind: token.NumericLiteral, Raw: raw, Number: n}
}

func TestCheckParsedPatterns(t *testing.T) {
	patterns := []string{
		`foo`,
		`foo.bar[0]["x"]`,
		`foo[a, b].c`,
		`foo.a, b.c`,
		`foo[0, 2..4]`,
		`fn(%1, a.b, [1..3])`,
		`foo.~bar?.baz`,
		`foo.{ref.prop}`,
		`foo.%{a}`,
		`a; b`,
	}

	for _, p := range patterns {
		t.Run(p, func(t *testing.T) {
			errs, _ := Check(parseCode(t, p))
			if err := errs.Err(); err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}

func TestCheckEmptyProgram(t *testing.T) {
	expectError(t, &ast.Program{}, "empty program")
	expectError(t, nil, "empty program")
}

func TestCheckComputedFlag(t *testing.T) {
	expectError(t, stmt(&ast.MemberExpression{
		Object:   ident("a"),
		Property: ident("b"),
		Computed: true,
	}), `identifier property "b" must not be computed`)

	expectError(t, stmt(&ast.MemberExpression{
		Object:   ident("a"),
		Property: num("1", 1),
	}), "non-identifier property must be computed")
}

func TestCheckRange(t *testing.T) {
	expectError(t, stmt(&ast.RangeExpression{}), "range needs at least one bound")
	expectError(t, stmt(&ast.RangeExpression{
		Left: &ast.Literal{Kind: token.StringLiteral, Raw: `"a"`, Str: "a"},
	}), `range bound "a" is not a number`)
}

func TestCheckCollections(t *testing.T) {
	expectError(t, stmt(&ast.ArrayExpression{
		Elements: []ast.Expr{ident("a")},
	}), "array needs at least two elements")

	expectError(t, stmt(&ast.SequenceExpression{
		Elements: []ast.Expr{
			ident("a"),
			&ast.ArrayExpression{Elements: []ast.Expr{ident("b"), ident("c")}},
		},
	}), "array cannot appear inside a collection")

	expectError(t, stmt(&ast.ArrayExpression{
		Elements: []ast.Expr{
			ident("a"),
			&ast.CallExpression{Callee: ident("f")},
		},
	}), "call cannot be used as a property")
}

func TestCheckKeyOperand(t *testing.T) {
	expectError(t, stmt(&ast.LookupExpression{
		Key: &ast.RangeExpression{Left: num("1", 1)},
	}), "range cannot be used as a key")

	expectError(t, stmt(&ast.RootExpression{}), "missing expression")
}

func TestCheckEmptyBlock(t *testing.T) {
	expectError(t, stmt(&ast.BlockExpression{}), "empty block")
}

func TestCheckWarnings(t *testing.T) {
	_, warns := Check(parseCode(t, `foo.%0`))
	if len(warns) != 1 || !strings.Contains(warns[0].String(), "placeholders start at %1") {
		t.Errorf("warnings = %v, want one about %%0", warns)
	}

	_, warns = Check(parseCode(t, `[a, b]()`))
	if len(warns) != 1 || !strings.Contains(warns[0].String(), "fan-out") {
		t.Errorf("warnings = %v, want one about fan-out call", warns)
	}
}

func TestErrorListFormatting(t *testing.T) {
	var el ErrorList
	if el.Err() != nil {
		t.Error("empty list should have nil Err()")
	}
	el.Add(token.Position{Line: 1, Column: 2}, "first")
	el.Add(token.Position{Line: 1, Column: 5}, "second")
	if got, want := el.Error(), "1:2: first\n1:5: second"; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
}

func TestAnalyze(t *testing.T) {
	tests := []struct {
		pattern string
		want    Info
	}{
		{
			pattern: `foo.bar`,
			want:    Info{Statements: 1},
		},
		{
			pattern: `foo.%2.qux.%1`,
			want:    Info{Placeholders: 2, Statements: 1},
		},
		{
			pattern: `foo.%name[%"other", %name]`,
			want:    Info{Names: []string{"name", "other"}, FanOut: true, Statements: 1},
		},
		{
			pattern: `foo[1..3]`,
			want:    Info{FanOut: true, Statements: 1},
		},
		{
			pattern: `a.f(b.g()); ~x`,
			want:    Info{Calls: 2, UsesRoot: true, Statements: 2},
		},
		{
			pattern: `foo.{ref.prop}.{x}`,
			want:    Info{Blocks: []string{"ref . prop", "x"}, Statements: 1},
		},
	}

	for _, tt := range tests {
		t.Run(tt.pattern, func(t *testing.T) {
			got := Analyze(parseCode(t, tt.pattern))
			if diff := cmp.Diff(&tt.want, got); diff != "" {
				t.Errorf("Analyze mismatch (-want +got):\n%s", diff)
			}
		})
	}
}
