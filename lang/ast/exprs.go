package ast

import "github.com/waifu-lang/waifu/lang/token"

type (
	// Literal is a constant number, string, boolean, or nil.
	Literal struct {
		LineNo int
		Value  any // nil | bool | float64 | string
	}

	// Grouping is a parenthesized expression, kept distinct from its inner
	// expression so precedence-sensitive callers (e.g. the assignment target
	// check) can tell a grouped name apart from a bare one.
	Grouping struct {
		LineNo int
		Expr   Expr
	}

	// Unary is a prefix operator expression: -x or not x.
	Unary struct {
		Op      token.Token
		Operand Expr
	}

	// Binary is an arithmetic, comparison or equality expression.
	Binary struct {
		Left  Expr
		Op    token.Token
		Right Expr
	}

	// Logical is a short-circuiting `and`/`or` expression.
	Logical struct {
		Left  Expr
		Op    token.Token
		Right Expr
	}

	// VarAccess reads the value bound to a name.
	VarAccess struct {
		Name token.Token
	}

	// Assign is `name <- value`, possibly preceded by `baka` to force a new
	// binding. It is itself an expression: it evaluates to the assigned value,
	// which is what makes `a <- b <- c` legal and right-associative.
	Assign struct {
		NewVar bool
		Name   token.Token
		Value  Expr
	}

	// PropertyAccess reads a field or bound method off an object: obj.name.
	PropertyAccess struct {
		Object Expr
		Name   token.Token
	}

	// SetProperty assigns a field on an instance: obj.name <- value.
	SetProperty struct {
		Object Expr
		Name   token.Token
		Value  Expr
	}

	// Call invokes a callable value with positional arguments.
	Call struct {
		Callee Expr
		Paren  token.Token // the '(' token, used to anchor arity-mismatch errors
		Args   []Expr
	}

	// ObjRef is `watashi`, the receiver bound by the enclosing method call.
	ObjRef struct {
		Keyword token.Token
	}

	// SuperRef is `haha.method`, a reference to a method defined on the
	// immediate superclass chain of the enclosing class, bound to the current
	// receiver.
	SuperRef struct {
		Keyword token.Token
		Method  token.Token
	}

	// Lambda is an anonymous function value appearing in expression position:
	// `?params?: body`. Unlike FunctionDecl it never binds a name; the parser
	// produces one whenever a lambda is desugared per the grammar's
	// `expression := lambda` production.
	Lambda struct {
		Keyword token.Token
		Params  []token.Token
		Body    []Stmt
	}
)

func (n *Literal) Line() int        { return n.LineNo }
func (n *Grouping) Line() int       { return n.LineNo }
func (n *Unary) Line() int          { return n.Op.Line }
func (n *Binary) Line() int         { return n.Op.Line }
func (n *Logical) Line() int        { return n.Op.Line }
func (n *VarAccess) Line() int      { return n.Name.Line }
func (n *Assign) Line() int         { return n.Name.Line }
func (n *PropertyAccess) Line() int { return n.Name.Line }
func (n *SetProperty) Line() int    { return n.Name.Line }
func (n *Call) Line() int           { return n.Paren.Line }
func (n *ObjRef) Line() int         { return n.Keyword.Line }
func (n *SuperRef) Line() int       { return n.Keyword.Line }
func (n *Lambda) Line() int         { return n.Keyword.Line }

func (*Literal) exprNode()        {}
func (*Grouping) exprNode()       {}
func (*Unary) exprNode()          {}
func (*Binary) exprNode()         {}
func (*Logical) exprNode()        {}
func (*VarAccess) exprNode()      {}
func (*Assign) exprNode()         {}
func (*PropertyAccess) exprNode() {}
func (*SetProperty) exprNode()    {}
func (*Call) exprNode()           {}
func (*ObjRef) exprNode()         {}
func (*SuperRef) exprNode()       {}
func (*Lambda) exprNode()         {}
