package keypath

import (
	"strings"

	"github.com/kolkov/keypath/internal/ast"
)

// Version is the keypath version string.
const Version = "0.1.0"

// defaultCache backs Compile and the package-level Get, Set and Has.
var defaultCache = NewCache(nil)

// DefaultCache returns the cache used by the package-level functions.
func DefaultCache() *Cache {
	return defaultCache
}

// Compile parses and compiles a pattern using the default cache.
// The returned Expression can be applied to any number of targets.
//
// Example:
//
//	expr, err := keypath.Compile("users[0].name")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	name, _ := expr.Get(doc1)
//	other, _ := expr.Get(doc2)
func Compile(pattern string) (*Expression, error) {
	return defaultCache.Compile(pattern)
}

// MustCompile is like Compile but panics if the pattern cannot be compiled.
// It simplifies initialization of global expression variables.
//
// Example:
//
//	var userName = keypath.MustCompile("user.name")
func MustCompile(pattern string) *Expression {
	expr, err := Compile(pattern)
	if err != nil {
		panic(err)
	}
	return expr
}

// Get compiles pattern (cached) and reads it from target.
//
// Example:
//
//	v, err := keypath.Get(doc, "foo.%1.baz", "bar")
func Get(target any, pattern string, args ...any) (Value, error) {
	expr, err := Compile(pattern)
	if err != nil {
		return Undefined(), err
	}
	return expr.Get(target, args...)
}

// Set compiles pattern (cached) and assigns value in target.
func Set(target any, pattern string, value any, args ...any) (Value, error) {
	expr, err := Compile(pattern)
	if err != nil {
		return Undefined(), err
	}
	return expr.Set(target, value, args...)
}

// Has compiles pattern (cached) and reports whether target contains it.
func Has(target any, pattern string, args ...any) (bool, error) {
	expr, err := Compile(pattern)
	if err != nil {
		return false, err
	}
	return expr.Has(target, args...)
}

// Join builds a pattern addressing the given literal keys in order.
// Keys that are valid identifiers are joined with dots; others are quoted.
//
// Example:
//
//	keypath.Join("users", "0", "first name") // users["0"]["first name"]
func Join(keys ...string) string {
	var sb strings.Builder
	for i, k := range keys {
		switch {
		case ast.IsIdentifier(k):
			if i > 0 {
				sb.WriteByte('.')
			}
			sb.WriteString(k)
		case i == 0:
			sb.WriteString(ast.QuoteKey(k))
		default:
			sb.WriteByte('[')
			sb.WriteString(ast.QuoteKey(k))
			sb.WriteByte(']')
		}
	}
	return sb.String()
}
