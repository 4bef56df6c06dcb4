package semantic

import (
	"slices"

	"github.com/kolkov/keypath/internal/ast"
	"github.com/kolkov/keypath/internal/token"
)

// Info describes what a pattern needs at run time.
type Info struct {
	Placeholders int      // Highest numeric %N placeholder (0 if none)
	Names        []string // Named %key lookups, sorted, without duplicates
	FanOut       bool     // Whether any segment yields several values
	Calls        int      // Number of call expressions
	UsesRoot     bool     // Whether any ~key switch occurs
	Blocks       []string // Joined text of each block, in source order
	Statements   int      // Number of statements
}

// Analyze collects pattern metadata. Block bodies are not descended into.
func Analyze(prog *ast.Program) *Info {
	info := &Info{}
	if prog == nil {
		return info
	}
	info.Statements = len(prog.Body)

	ast.Walk(prog, func(n ast.Node) bool {
		switch e := n.(type) {
		case *ast.LookupExpression:
			switch k := e.Key.(type) {
			case *ast.Literal:
				if k.Kind == token.NumericLiteral && int(k.Number) > info.Placeholders {
					info.Placeholders = int(k.Number)
				}
				if k.Kind == token.StringLiteral {
					info.addName(k.Str)
				}
			case *ast.Identifier:
				info.addName(k.Name)
			}
		case *ast.ArrayExpression, *ast.SequenceExpression, *ast.RangeExpression:
			info.FanOut = true
		case *ast.CallExpression:
			info.Calls++
		case *ast.RootExpression:
			info.UsesRoot = true
		case *ast.BlockExpression:
			info.Blocks = append(info.Blocks, e.Text())
		}
		return true
	})

	slices.Sort(info.Names)
	info.Names = slices.Compact(info.Names)
	return info
}

func (info *Info) addName(name string) {
	info.Names = append(info.Names, name)
}
