package lexer

import (
	"testing"

	"github.com/kolkov/keypath/internal/token"
)

// FuzzLexer tests that the lexer handles arbitrary input without panicking
// and that successful scans are stable under re-lexing their joined text.
func FuzzLexer(f *testing.F) {
	seeds := []string{
		``,
		`foo`,
		`foo.bar.baz`,
		`foo["bar"]['baz']`,
		`foo.%1.qux.%2`,
		`~root.child`,
		`foo?.bar`,
		`fn(1, "two", null)`,
		`[1..3]`,
		`[..3]`,
		`foo.{ref.prop}`,
		`a,b;c`,
		`"unterminated`,
		`foo-bar`,
		" foo\t.\nbar",
		`"„Åì„Çì„Å´„Å°„ÅØ"`,
	}

	for _, seed := range seeds {
		f.Add(seed)
	}

	f.Fuzz(func(t *testing.T, src string) {
		toks, err := Lex(src)
		if err != nil {
			return
		}
		for _, tok := range toks {
			if tok.Kind == token.ILLEGAL || tok.Kind == token.EOF {
				t.Fatalf("unexpected %v token in output", tok.Kind)
			}
		}

		again, err := Lex(token.Join(toks))
		if err != nil {
			t.Fatalf("re-lex of %q failed: %v", token.Join(toks), err)
		}
		if len(again) != len(toks) {
			t.Fatalf("re-lex produced %d tokens, want %d", len(again), len(toks))
		}
	})
}
