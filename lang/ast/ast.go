// Package ast defines the Waifu abstract syntax tree: the expression and
// statement node families produced by the parser, consumed by the resolver
// and evaluator.
package ast

// Node is implemented by every AST node. Line reports the source line the
// node originates from, used for diagnostics.
type Node interface {
	Line() int
}

// Expr is implemented by every expression node.
type Expr interface {
	Node
	exprNode()
}

// Stmt is implemented by every statement node.
type Stmt interface {
	Node
	stmtNode()
}
