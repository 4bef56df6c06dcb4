package parser

import (
	"testing"

	"github.com/kolkov/keypath/internal/ast"
)

// FuzzParser checks that the parser never panics and that printed programs
// re-parse to the same text.
func FuzzParser(f *testing.F) {
	seeds := []string{
		"foo",
		"foo.bar[0]",
		"foo[a, b].c",
		"foo.a, b.c",
		"foo[1..3]",
		"foo...3",
		"fn(%1, a.b)",
		"foo.~bar?.baz",
		"foo.{ref.prop}",
		"a; b",
		"foo[",
		"{",
		"..",
	}
	for _, s := range seeds {
		f.Add(s)
	}

	f.Fuzz(func(t *testing.T, src string) {
		prog, err := Parse(src)
		if err != nil {
			return
		}
		text := ast.String(prog)
		again, err := Parse(text)
		if err != nil {
			t.Fatalf("printed %q from %q does not parse: %v", text, src, err)
		}
		if got := ast.String(again); got != text {
			t.Fatalf("printer not stable for %q: %q then %q", src, text, got)
		}
	})
}
