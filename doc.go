// Package keypath compiles path expressions that read, write and test
// routes through nested data.
//
// A pattern such as `users[0].address.city` describes a route through maps,
// lists and functions. Patterns are lexed, parsed and lowered once into
// closures, then applied to any number of targets.
//
// # Quick Start
//
// For one-off access:
//
//	city, err := keypath.Get(doc, "users[0].address.city")
//	_, err = keypath.Set(doc, "users[0].address.zip", "10115")
//	ok, err := keypath.Has(doc, "users[0].phone")
//
// # Compiled Expressions
//
// For repeated use of the same pattern:
//
//	expr, err := keypath.Compile("foo.%1.baz")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	v, _ := expr.Get(doc, "bar") // same as foo.bar.baz
//
// # Syntax
//
//	a.b.c         property chain
//	a["b c"][0]   computed members
//	a[b, c]       array: one result per key
//	a.b, c.d      sequence: same as a[b, c].d
//	a[1..3]       range: keys 1, 2, 3 (3..1 counts down)
//	a.%1          placeholder: key taken from the lookup argument
//	a.~b          root: b read from the original target
//	a?.b          existential: no result instead of errors
//	a.{b.c}       block: the value of b.c is the key
//	a.f(x, %1)    call: f invoked with a as receiver
//	a; b          several statements: Get returns one result per statement
//
// Reading a route that does not exist yields an undefined [Value], never
// an error. Set creates missing intermediate maps.
//
// # Configuration
//
// The [Config] type customizes a [Cache]:
//   - A structured logger (log/slog) for cache and compilation events
//   - Lazy setter compilation
//
// # Error Handling
//
// Errors are returned as specific types for detailed handling:
//   - [LexError]: characters that cannot start a token
//   - [ParseError]: syntax errors in the pattern
//   - [CompileError]: patterns the compiler cannot lower
//   - [RuntimeError]: failing calls; wraps [ErrCannotCreateCall] when Set
//     reaches a missing function
//
// # Thread Safety
//
// [Cache] and [Expression] are safe for concurrent use.
// Set mutates its target in place.
package keypath
