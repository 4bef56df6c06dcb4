package ast

// Walk traverses an AST in depth-first order.
// For each node, it calls fn(node). If fn returns false,
// the children of that node are not visited.
// Block bodies are unparsed tokens and are not descended into.
//
// Example: Count all placeholders
//
//	count := 0
//	ast.Walk(program, func(n ast.Node) bool {
//	    if _, ok := n.(*ast.LookupExpression); ok {
//	        count++
//	    }
//	    return true // continue traversal
//	})
func Walk(node Node, fn func(Node) bool) {
	Inspect(node, func(n, _ Node) bool {
		return fn(n)
	})
}

// Inspect traverses an AST with parent tracking.
// For each node, it calls fn(node, parent). The parent is nil for the root node.
// If fn returns false, the children of that node are not visited.
//
// Example: Find identifiers used as member properties
//
//	ast.Inspect(program, func(n, parent ast.Node) bool {
//	    if id, ok := n.(*ast.Identifier); ok {
//	        if _, inMember := parent.(*ast.MemberExpression); inMember {
//	            fmt.Printf("property %s\n", id.Name)
//	        }
//	    }
//	    return true
//	})
func Inspect(node Node, fn func(node, parent Node) bool) {
	inspect(node, nil, fn)
}

func inspect(node, parent Node, fn func(node, parent Node) bool) {
	if node == nil || !fn(node, parent) {
		return
	}

	switch n := node.(type) {
	case *Program:
		for _, s := range n.Body {
			inspect(s, n, fn)
		}

	case *ExpressionStatement:
		inspect(n.Expr, n, fn)

	case *Identifier, *Literal, *BlockExpression:
		// no children

	case *MemberExpression:
		inspect(n.Object, n, fn)
		inspect(n.Property, n, fn)

	case *CallExpression:
		inspect(n.Callee, n, fn)
		for _, arg := range n.Arguments {
			inspect(arg, n, fn)
		}

	case *ArrayExpression:
		for _, e := range n.Elements {
			inspect(e, n, fn)
		}

	case *SequenceExpression:
		for _, e := range n.Elements {
			inspect(e, n, fn)
		}

	case *RangeExpression:
		if n.Left != nil {
			inspect(n.Left, n, fn)
		}
		if n.Right != nil {
			inspect(n.Right, n, fn)
		}

	case *LookupExpression:
		inspect(n.Key, n, fn)

	case *RootExpression:
		inspect(n.Key, n, fn)

	case *ExistentialExpression:
		inspect(n.Expr, n, fn)
	}
}

// WalkFunc is a convenience type for walk callbacks.
type WalkFunc func(Node) bool

// InspectFunc is a convenience type for inspect callbacks.
type InspectFunc func(node, parent Node) bool
