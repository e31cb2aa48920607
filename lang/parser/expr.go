package parser

import (
	"github.com/waifu-lang/waifu/lang/ast"
	"github.com/waifu-lang/waifu/lang/token"
)

// parseExpression parses the `expression := lambda` production: the full
// precedence chain, without assignment.
func (p *parser) parseExpression() ast.Expr {
	return p.parseLambda()
}

// parseAssignment implements both the statement-level
// `expression ('<-' assignTail)?` production and the recursive,
// right-associative `assignTail := expression ('<-' assignTail)?` — they
// are the same grammar shape, so one function serves both call sites.
func (p *parser) parseAssignment() ast.Expr {
	expr := p.parseExpression()
	if p.match(token.ASSIGNMENT) {
		value := p.parseAssignment()
		switch lhs := expr.(type) {
		case *ast.VarAccess:
			return &ast.Assign{Name: lhs.Name, Value: value}
		case *ast.PropertyAccess:
			return &ast.SetProperty{Object: lhs.Object, Name: lhs.Name, Value: value}
		default:
			p.errorf(expr.Line(), "invalid assignment target")
			return expr
		}
	}
	return expr
}

func (p *parser) parseLambda() ast.Expr {
	if p.check(token.QUESTION) {
		kw := p.advance()
		var params []token.Token
		if !p.check(token.COLON) {
			params = p.parseParams()
		}
		p.expect(token.COLON, "':'")
		body := p.parseLambda()
		return &ast.Lambda{
			Keyword: kw,
			Params:  params,
			Body:    []ast.Stmt{&ast.Return{Keyword: kw, Expr: body}},
		}
	}
	return p.parseLogicOr()
}

func (p *parser) parseLogicOr() ast.Expr {
	expr := p.parseLogicAnd()
	for p.check(token.OR) {
		op := p.advance()
		right := p.parseLogicAnd()
		expr = &ast.Logical{Left: expr, Op: op, Right: right}
	}
	return expr
}

func (p *parser) parseLogicAnd() ast.Expr {
	expr := p.parseEquality()
	for p.check(token.AND) {
		op := p.advance()
		right := p.parseEquality()
		expr = &ast.Logical{Left: expr, Op: op, Right: right}
	}
	return expr
}

func (p *parser) parseEquality() ast.Expr {
	expr := p.parseComparison()
	for p.check(token.EQUAL) || p.check(token.UNEQUAL) {
		op := p.advance()
		right := p.parseComparison()
		expr = &ast.Binary{Left: expr, Op: op, Right: right}
	}
	return expr
}

func (p *parser) parseComparison() ast.Expr {
	expr := p.parseTerm()
	for p.check(token.LESS) || p.check(token.LESS_EQ) || p.check(token.GREATER) || p.check(token.GREATER_EQ) {
		op := p.advance()
		right := p.parseTerm()
		expr = &ast.Binary{Left: expr, Op: op, Right: right}
	}
	return expr
}

func (p *parser) parseTerm() ast.Expr {
	expr := p.parseFactor()
	for p.check(token.PLUS) || p.check(token.MINUS) {
		op := p.advance()
		right := p.parseFactor()
		expr = &ast.Binary{Left: expr, Op: op, Right: right}
	}
	return expr
}

func (p *parser) parseFactor() ast.Expr {
	expr := p.parseUnary()
	for p.check(token.TIMES) || p.check(token.DIVIDE) {
		op := p.advance()
		right := p.parseUnary()
		expr = &ast.Binary{Left: expr, Op: op, Right: right}
	}
	return expr
}

func (p *parser) parseUnary() ast.Expr {
	if p.check(token.NOT) || p.check(token.MINUS) {
		op := p.advance()
		operand := p.parseUnary()
		return &ast.Unary{Op: op, Operand: operand}
	}
	return p.parseCallExpr()
}

func (p *parser) parseCallExpr() ast.Expr {
	expr := p.parsePrimary()
	for {
		switch {
		case p.check(token.OP_PAR):
			paren := p.advance()
			var args []ast.Expr
			if !p.check(token.CL_PAR) {
				args = p.parseArgs()
			}
			p.expect(token.CL_PAR, "')'")
			expr = &ast.Call{Callee: expr, Paren: paren, Args: args}
		case p.check(token.DOT):
			p.advance()
			name := p.expect(token.IDENTIFIER, "property name")
			expr = &ast.PropertyAccess{Object: expr, Name: name}
		default:
			return expr
		}
	}
}

// parseArgs parses a comma-separated expression list, reporting a soft
// (non-aborting) error past the 127-argument limit.
func (p *parser) parseArgs() []ast.Expr {
	var args []ast.Expr
	args = append(args, p.parseExpression())
	for p.match(token.COMMA) {
		if len(args) >= 127 {
			p.errorf(p.peek().Line, "call cannot have more than 127 arguments")
		}
		args = append(args, p.parseExpression())
	}
	return args
}

func (p *parser) parsePrimary() ast.Expr {
	switch {
	case p.check(token.NUMBER):
		t := p.advance()
		return &ast.Literal{LineNo: t.Line, Value: t.Number}
	case p.check(token.STRING):
		t := p.advance()
		return &ast.Literal{LineNo: t.Line, Value: t.Lexeme}
	case p.check(token.NIL):
		t := p.advance()
		return &ast.Literal{LineNo: t.Line, Value: nil}
	case p.check(token.TRUE):
		t := p.advance()
		return &ast.Literal{LineNo: t.Line, Value: true}
	case p.check(token.FALSE):
		t := p.advance()
		return &ast.Literal{LineNo: t.Line, Value: false}
	case p.check(token.OP_PAR):
		t := p.advance()
		expr := p.parseExpression()
		p.expect(token.CL_PAR, "')'")
		return &ast.Grouping{LineNo: t.Line, Expr: expr}
	case p.check(token.THIS):
		t := p.advance()
		return &ast.ObjRef{Keyword: t}
	case p.check(token.SUPER):
		t := p.advance()
		p.expect(token.DOT, "'.'")
		name := p.expect(token.IDENTIFIER, "method name")
		return &ast.SuperRef{Keyword: t, Method: name}
	case p.check(token.IDENTIFIER):
		t := p.advance()
		return &ast.VarAccess{Name: t}
	default:
		p.errorf(p.peek().Line, "expected expression, found %s", p.peek())
		panic(errPanicMode)
	}
}
