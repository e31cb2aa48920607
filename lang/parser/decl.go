package parser

import (
	"strings"

	"github.com/waifu-lang/waifu/lang/ast"
	"github.com/waifu-lang/waifu/lang/token"
)

// parseDeclaration parses one top-level-or-block production
// (decorator | funcDecl | classDecl | statement), recovering from a syntax
// error by synchronizing to the next safe point and reporting no statement
// for the failed declaration.
func (p *parser) parseDeclaration() (stmt ast.Stmt) {
	defer func() {
		if r := recover(); r != nil {
			if r == errPanicMode {
				p.synchronize()
				stmt = nil
				return
			}
			panic(r)
		}
	}()

	switch {
	case p.check(token.AT):
		return p.parseDecorated()
	case p.check(token.DEF):
		return p.parseFuncDecl(false)
	case p.check(token.CLASS):
		return p.parseClassDecl()
	case p.check(token.IMPORT):
		return p.parseImportStmt()
	default:
		return p.parseStatement()
	}
}

// parseImportStmt parses `'import' dotted-name NEWLINE`, where dotted-name
// may carry leading dots for a relative import (`.foo`, `..foo.bar`). Parts
// preserves one empty leading entry per leading dot so the module loader
// can count them.
func (p *parser) parseImportStmt() ast.Stmt {
	kw := p.advance()

	var parts []string
	for p.check(token.DOT) {
		p.advance()
		parts = append(parts, "")
	}
	parts = append(parts, p.expect(token.IDENTIFIER, "module name").Lexeme)
	for p.match(token.DOT) {
		parts = append(parts, p.expect(token.IDENTIFIER, "module name").Lexeme)
	}
	p.expectNewline()

	return &ast.Import{Keyword: kw, Dotted: strings.Join(parts, "."), Parts: parts}
}

func (p *parser) parseDecorated() ast.Stmt {
	p.advance() // '@'
	name := p.expect(token.IDENTIFIER, "identifier")
	p.expectNewline()
	if !p.check(token.DEF) {
		p.errorf(p.peek().Line, "expected function declaration after decorator, found %s", p.peek())
		panic(errPanicMode)
	}
	fn := p.parseFuncDecl(false).(*ast.FunctionDecl)
	fn.Decorator = &ast.VarAccess{Name: name}
	return fn
}

// parseFuncDecl parses `'desu' IDENT '(' params? ')' block`. static is true
// when this declaration was introduced by `oppai` inside a class body.
func (p *parser) parseFuncDecl(static bool) ast.Stmt {
	p.expect(token.DEF, "'desu'")
	name := p.expect(token.IDENTIFIER, "function name")
	p.expect(token.OP_PAR, "'('")
	var params []token.Token
	if !p.check(token.CL_PAR) {
		params = p.parseParams()
	}
	p.expect(token.CL_PAR, "')'")
	// yamero/kowai never cross a function boundary, even when the
	// declaration itself sits inside a loop body.
	enclosingLoopDepth := p.loopDepth
	p.loopDepth = 0
	body := p.parseBlock()
	p.loopDepth = enclosingLoopDepth
	return &ast.FunctionDecl{Name: name, Params: params, Body: body, Static: static}
}

// parseClassDecl parses `'waifu' IDENT ('neesan' IDENT (',' IDENT)*)? block`
// where the block contains only method declarations, optionally `oppai`
// (static).
func (p *parser) parseClassDecl() ast.Stmt {
	kw := p.expect(token.CLASS, "'waifu'")
	name := p.expect(token.IDENTIFIER, "class name")

	var supers []*ast.VarAccess
	if p.match(token.EXTENDS) {
		supers = append(supers, &ast.VarAccess{Name: p.expect(token.IDENTIFIER, "superclass name")})
		for p.match(token.COMMA) {
			supers = append(supers, &ast.VarAccess{Name: p.expect(token.IDENTIFIER, "superclass name")})
		}
	}

	p.expect(token.COLON, "':'")
	p.expectNewline()
	p.expect(token.INDENT, "indented class body")

	var methods []*ast.FunctionDecl
	for !p.check(token.DEDENT) && !p.atEnd() {
		if p.check(token.NEWLINE) {
			p.advance()
			continue
		}
		static := p.match(token.STATIC)
		if !p.check(token.DEF) {
			p.errorf(p.peek().Line, "expected method declaration, found %s", p.peek())
			panic(errPanicMode)
		}
		if m, ok := p.parseFuncDecl(static).(*ast.FunctionDecl); ok {
			methods = append(methods, m)
		}
	}
	p.expect(token.DEDENT, "dedent")

	if len(methods) == 0 {
		p.errorf(kw.Line, "class body cannot be empty")
	}
	return &ast.ClassDecl{Keyword: kw, Name: name, Supers: supers, Methods: methods}
}

// parseBlock parses `':' NEWLINE INDENT declaration+ DEDENT`, rejecting an
// empty block.
func (p *parser) parseBlock() []ast.Stmt {
	p.expect(token.COLON, "':'")
	p.expectNewline()
	start := p.expect(token.INDENT, "indented block")

	var list []ast.Stmt
	for !p.check(token.DEDENT) && !p.atEnd() {
		if p.check(token.NEWLINE) {
			p.advance()
			continue
		}
		if d := p.parseDeclaration(); d != nil {
			list = append(list, d)
		}
	}
	p.expect(token.DEDENT, "dedent")

	if len(list) == 0 {
		p.errorf(start.Line, "block cannot be empty")
	}
	return list
}

func (p *parser) parseStatement() ast.Stmt {
	switch {
	case p.check(token.IF):
		return p.parseIfStmt()
	case p.check(token.WHILE):
		return p.parseWhileStmt()
	case p.check(token.BREAK):
		kw := p.advance()
		p.expectNewline()
		if p.loopDepth == 0 {
			p.errorf(kw.Line, "'yamero' outside of a loop")
		}
		return &ast.Break{Keyword: kw}
	case p.check(token.CONTINUE):
		kw := p.advance()
		p.expectNewline()
		if p.loopDepth == 0 {
			p.errorf(kw.Line, "'kowai' outside of a loop")
		}
		return &ast.Continue{Keyword: kw}
	case p.check(token.RETURN):
		return p.parseReturnStmt()
	case p.check(token.NEWVAR):
		return p.parseNewVarStmt()
	default:
		return p.parseExprStmt()
	}
}

func (p *parser) parseIfStmt() ast.Stmt {
	kw := p.advance()
	cond := p.parseExpression()
	then := p.parseBlock()
	var elseBlock []ast.Stmt
	if p.match(token.ELSE) {
		elseBlock = p.parseBlock()
	}
	thenBlk := &ast.Block{LineNo: kw.Line, List: then}
	var elseBlk *ast.Block
	if elseBlock != nil {
		elseBlk = &ast.Block{LineNo: kw.Line, List: elseBlock}
	}
	return &ast.If{Keyword: kw, Cond: cond, Then: thenBlk, Else: elseBlk}
}

func (p *parser) parseWhileStmt() ast.Stmt {
	kw := p.advance()
	cond := p.parseExpression()
	p.loopDepth++
	body := p.parseBlock()
	p.loopDepth--
	return &ast.While{Keyword: kw, Cond: cond, Body: &ast.Block{LineNo: kw.Line, List: body}}
}

func (p *parser) parseReturnStmt() ast.Stmt {
	kw := p.advance()
	var expr ast.Expr
	if !p.check(token.NEWLINE) {
		expr = p.parseExpression()
	}
	p.expectNewline()
	return &ast.Return{Keyword: kw, Expr: expr}
}

// parseNewVarStmt parses `'baka' expression '<-' assignTail NEWLINE`. The
// LHS must be a plain identifier: `baka` forbids a property-setter target.
func (p *parser) parseNewVarStmt() ast.Stmt {
	p.advance() // 'baka'
	lhs := p.parseExpression()
	va, ok := lhs.(*ast.VarAccess)
	if !ok {
		p.errorf(lhs.Line(), "'baka' can only introduce a new variable, not a property")
		panic(errPanicMode)
	}
	p.expect(token.ASSIGNMENT, "'<-'")
	value := p.parseAssignment()
	p.expectNewline()
	return &ast.AssStmt{NewVar: true, Name: va.Name, Expr: value}
}

func (p *parser) parseExprStmt() ast.Stmt {
	expr := p.parseAssignment()
	p.expectNewline()
	return &ast.ExprStmt{Expr: expr}
}

// parseParams parses a comma-separated identifier list, reporting a
// soft (non-aborting) error past the 127-parameter limit.
func (p *parser) parseParams() []token.Token {
	var params []token.Token
	params = append(params, p.expect(token.IDENTIFIER, "parameter name"))
	for p.match(token.COMMA) {
		if len(params) >= 127 {
			p.errorf(p.peek().Line, "function cannot have more than 127 parameters")
		}
		params = append(params, p.expect(token.IDENTIFIER, "parameter name"))
	}
	return params
}
