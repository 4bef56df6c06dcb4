package ast

import (
	"fmt"
	"io"
	"strings"

	"github.com/coregx/coregex"

	"github.com/kolkov/keypath/internal/token"
)

// identPattern matches keys that can be written as bare identifiers.
var identPattern = mustCompile(`^[A-Za-z_$][A-Za-z0-9_$]*$`)

func mustCompile(pattern string) *coregex.Regexp {
	re, err := coregex.Compile(pattern)
	if err != nil {
		panic(err)
	}
	return re
}

// IsIdentifier reports whether key can be written as a bare identifier.
func IsIdentifier(key string) bool {
	return key != token.NullWord && identPattern.MatchString(key)
}

// QuoteKey returns key as a double-quoted string literal.
func QuoteKey(key string) string {
	var sb strings.Builder
	sb.Grow(len(key) + 2)
	sb.WriteByte('"')
	for _, r := range key {
		if r == '"' || r == '\\' {
			sb.WriteByte('\\')
		}
		sb.WriteRune(r)
	}
	sb.WriteByte('"')
	return sb.String()
}

// Printer renders AST nodes back to pattern text.
// Output re-parses to an equivalent tree.
type Printer struct {
	w      io.Writer
	indent int
	err    error
}

// NewPrinter creates a new Printer that writes to w.
func NewPrinter(w io.Writer) *Printer {
	return &Printer{w: w}
}

// String returns the pattern text of node.
func String(node Node) string {
	var sb strings.Builder
	_ = NewPrinter(&sb).Print(node)
	return sb.String()
}

// Print writes the pattern text of node to the writer.
func (p *Printer) Print(node Node) error {
	p.printNode(node)
	return p.err
}

// Dump writes an indented tree of node to the writer, one node per line.
func (p *Printer) Dump(node Node) error {
	depth := map[Node]int{}
	Inspect(node, func(n, parent Node) bool {
		if parent != nil {
			depth[n] = depth[parent] + 1
		}
		p.indent = depth[n]
		p.dumpNode(n)
		return true
	})
	return p.err
}

func (p *Printer) printf(format string, args ...any) {
	if p.err != nil {
		return
	}
	_, p.err = fmt.Fprintf(p.w, format, args...)
}

func (p *Printer) writeIndent() {
	if p.err != nil {
		return
	}
	for i := 0; i < p.indent; i++ {
		_, p.err = io.WriteString(p.w, "  ")
	}
}

func (p *Printer) printNode(node Node) {
	if node == nil {
		p.printf("<nil>")
		return
	}

	switch n := node.(type) {
	case *Program:
		for i, s := range n.Body {
			if i > 0 {
				p.printf("; ")
			}
			p.printExpr(s.Expr)
		}
	case *ExpressionStatement:
		p.printExpr(n.Expr)
	case Expr:
		p.printExpr(n)
	default:
		p.printf("<%T>", node)
	}
}

// printExpr prints e in head position.
func (p *Printer) printExpr(e Expr) {
	switch n := e.(type) {
	case *MemberExpression:
		p.printExpr(n.Object)
		p.printProperty(n.Property)

	case *CallExpression:
		p.printExpr(n.Callee)
		p.printf("(")
		for i, arg := range n.Arguments {
			if i > 0 {
				p.printf(", ")
			}
			p.printExpr(arg)
		}
		p.printf(")")

	case *ExistentialExpression:
		p.printExpr(n.Expr)
		p.printf("?")

	case *ArrayExpression, *RangeExpression:
		p.printf("[")
		p.printKey(n)
		p.printf("]")

	case *Identifier:
		if IsIdentifier(n.Name) {
			p.printf("%s", n.Name)
		} else {
			p.printf("[%s]", QuoteKey(n.Name))
		}

	default:
		p.printKey(e)
	}
}

// printProperty prints e as the property of a member expression.
func (p *Printer) printProperty(e Expr) {
	switch n := e.(type) {
	case *Identifier:
		if IsIdentifier(n.Name) {
			p.printf(".%s", n.Name)
		} else {
			p.printf("[%s]", QuoteKey(n.Name))
		}
	case *Literal, *ArrayExpression, *RangeExpression:
		p.printf("[")
		p.printKey(n)
		p.printf("]")
	default:
		p.printf(".")
		p.printKey(e)
	}
}

// printKey prints e as a key without any leading separator.
func (p *Printer) printKey(e Expr) {
	if e == nil {
		p.printf("<nil>")
		return
	}

	switch n := e.(type) {
	case *Identifier:
		if IsIdentifier(n.Name) {
			p.printf("%s", n.Name)
		} else {
			p.printf("%s", QuoteKey(n.Name))
		}

	case *Literal:
		p.printf("%s", n.Raw)

	case *ArrayExpression:
		p.printList(n.Elements)

	case *SequenceExpression:
		p.printList(n.Elements)

	case *RangeExpression:
		if n.Left != nil {
			p.printf("%s", n.Left.Raw)
		}
		p.printf("..")
		if n.Right != nil {
			p.printf("%s", n.Right.Raw)
		}

	case *LookupExpression:
		p.printf("%%")
		p.printKey(n.Key)

	case *RootExpression:
		p.printf("~")
		p.printKey(n.Key)

	case *BlockExpression:
		p.printf("{%s}", n.Text())

	default:
		p.printExpr(e)
	}
}

func (p *Printer) printList(elems []Expr) {
	for i, e := range elems {
		if i > 0 {
			p.printf(", ")
		}
		p.printKey(e)
	}
}

func (p *Printer) dumpNode(n Node) {
	p.writeIndent()

	switch n := n.(type) {
	case *Program:
		p.printf("Program\n")
	case *ExpressionStatement:
		p.printf("ExpressionStatement\n")
	case *Identifier:
		p.printf("Identifier %s\n", n.Name)
	case *Literal:
		p.printf("Literal %s %s\n", n.Kind, n.Raw)
	case *MemberExpression:
		p.printf("MemberExpression computed=%t\n", n.Computed)
	case *CallExpression:
		p.printf("CallExpression args=%d\n", len(n.Arguments))
	case *ArrayExpression:
		p.printf("ArrayExpression\n")
	case *SequenceExpression:
		p.printf("SequenceExpression\n")
	case *RangeExpression:
		p.printf("RangeExpression\n")
	case *LookupExpression:
		p.printf("LookupExpression\n")
	case *RootExpression:
		p.printf("RootExpression\n")
	case *ExistentialExpression:
		p.printf("ExistentialExpression\n")
	case *BlockExpression:
		p.printf("BlockExpression {%s}\n", n.Text())
	default:
		p.printf("<%T>\n", n)
	}
}
