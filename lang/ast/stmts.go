package ast

import "github.com/waifu-lang/waifu/lang/token"

type (
	// Stmts is an ordered sequence of statements; unlike Block it does not
	// open a new lexical scope on its own. The parser never builds one: a
	// module's chunk and a function body are both plain []Stmt slices.
	Stmts struct {
		LineNo int
		List   []Stmt
	}

	// ExprStmt is an expression evaluated for its side effect.
	ExprStmt struct {
		Expr Expr
	}

	// AssStmt is a `baka` declaration statement. A plain `x <- expr`
	// statement is parsed as an ExprStmt wrapping an Assign, the expression
	// form also used inside assignTail chains.
	AssStmt struct {
		NewVar bool
		Name   token.Token
		Expr   Expr
	}

	// Block is a brace-free, colon+indent-delimited list of statements that
	// introduces its own lexical scope.
	Block struct {
		LineNo int
		List   []Stmt
	}

	// If is `nani cond: then` with an optional `daijobu: else`.
	If struct {
		Keyword token.Token
		Cond    Expr
		Then    *Block
		Else    *Block
	}

	// While is `yandere cond: body`.
	While struct {
		Keyword token.Token
		Cond    Expr
		Body    *Block
	}

	// Break is `yamero`.
	Break struct {
		Keyword token.Token
	}

	// Continue is `kowai`.
	Continue struct {
		Keyword token.Token
	}

	// Return is `shinu [expr]`; Expr is nil for a bare return.
	Return struct {
		Keyword token.Token
		Expr    Expr
	}

	// FunctionDecl is a `desu name(params): body` declaration, a lambda
	// (Name.Lexeme == ""), or a class method (possibly Static via `oppai`).
	FunctionDecl struct {
		Decorator *VarAccess // nil unless preceded by @decorator
		Name      token.Token
		Params    []token.Token
		Body      []Stmt
		Static    bool
	}

	// ClassDecl is `waifu Name neesan Super1, Super2: methods...`.
	ClassDecl struct {
		Keyword token.Token
		Name    token.Token
		Supers  []*VarAccess
		Methods []*FunctionDecl
	}

	// Import is `import a.b.c` (or a relative-dotted form); Dotted is the raw
	// dotted text as written, Parts is it split on '.' with leading empty
	// strings preserved (one per leading dot) so the module loader can count
	// them.
	Import struct {
		Keyword token.Token
		Dotted  string
		Parts   []string
	}
)

func (n *Stmts) Line() int        { return n.LineNo }
func (n *ExprStmt) Line() int     { return n.Expr.Line() }
func (n *AssStmt) Line() int      { return n.Name.Line }
func (n *Block) Line() int        { return n.LineNo }
func (n *If) Line() int           { return n.Keyword.Line }
func (n *While) Line() int        { return n.Keyword.Line }
func (n *Break) Line() int        { return n.Keyword.Line }
func (n *Continue) Line() int     { return n.Keyword.Line }
func (n *Return) Line() int       { return n.Keyword.Line }
func (n *FunctionDecl) Line() int { return n.Name.Line }
func (n *ClassDecl) Line() int    { return n.Keyword.Line }
func (n *Import) Line() int       { return n.Keyword.Line }

func (*Stmts) stmtNode()        {}
func (*ExprStmt) stmtNode()     {}
func (*AssStmt) stmtNode()      {}
func (*Block) stmtNode()        {}
func (*If) stmtNode()           {}
func (*While) stmtNode()        {}
func (*Break) stmtNode()        {}
func (*Continue) stmtNode()     {}
func (*Return) stmtNode()       {}
func (*FunctionDecl) stmtNode() {}
func (*ClassDecl) stmtNode()    {}
func (*Import) stmtNode()       {}
