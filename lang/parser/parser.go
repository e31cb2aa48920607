// Package parser implements the predictive recursive-descent parser that
// turns a Waifu token stream into an abstract syntax tree.
package parser

import (
	"errors"

	"github.com/waifu-lang/waifu/lang/ast"
	"github.com/waifu-lang/waifu/lang/token"
)

// ErrorSink receives parse diagnostics, tagged with the source line of the
// offending token.
type ErrorSink interface {
	Errorf(line int, format string, args ...any)
}

// syncKinds are the statement-starting keywords the parser resynchronizes
// to after an error, per the resync contract: consume tokens until a
// NEWLINE or one of these is the next token.
var syncKinds = map[token.Kind]bool{
	token.DEF:      true,
	token.WHILE:    true,
	token.IF:       true,
	token.NEWVAR:   true,
	token.CONTINUE: true,
	token.BREAK:    true,
	token.RETURN:   true,
}

// errPanicMode is the sentinel panicked with to unwind to the nearest
// declaration boundary on a syntax error; parseDeclaration recovers it.
var errPanicMode = errors.New("panic")

// parser consumes a fully-scanned token slice (the scanner already ran to
// completion) and produces the program's top-level statement list.
type parser struct {
	toks []token.Token
	pos  int
	err  ErrorSink

	loopDepth int
}

// Parse parses a complete token stream (as produced by scanner.Scan, always
// ending in an EOF token) into the program's top-level declarations. A
// syntax error is reported to err but never aborts parsing: the offending
// declaration is dropped and parsing resumes at the next one.
func Parse(toks []token.Token, err ErrorSink) []ast.Stmt {
	p := &parser{toks: toks, err: err}
	var decls []ast.Stmt
	for !p.atEnd() {
		if p.check(token.NEWLINE) {
			p.advance()
			continue
		}
		if d := p.parseDeclaration(); d != nil {
			decls = append(decls, d)
		}
	}
	return decls
}

func (p *parser) peek() token.Token {
	return p.toks[p.pos]
}

func (p *parser) previous() token.Token {
	return p.toks[p.pos-1]
}

func (p *parser) atEnd() bool {
	return p.peek().Kind == token.EOF
}

func (p *parser) check(k token.Kind) bool {
	return p.peek().Kind == k
}

func (p *parser) advance() token.Token {
	if !p.atEnd() {
		p.pos++
	}
	return p.previous()
}

func (p *parser) match(kinds ...token.Kind) bool {
	for _, k := range kinds {
		if p.check(k) {
			p.advance()
			return true
		}
	}
	return false
}

// expect consumes the current token if it is of kind k, otherwise reports
// an error naming label and panics with errPanicMode, unwound by
// parseDeclaration's recover.
func (p *parser) expect(k token.Kind, label string) token.Token {
	if p.check(k) {
		return p.advance()
	}
	p.errorf(p.peek().Line, "expected %s, found %s", label, p.peek())
	panic(errPanicMode)
}

func (p *parser) errorf(line int, format string, args ...any) {
	p.err.Errorf(line, format, args...)
}

// expectNewline consumes the NEWLINE ending a simple statement.
func (p *parser) expectNewline() {
	p.expect(token.NEWLINE, "newline")
}

// synchronize discards tokens until a NEWLINE or a statement-starting
// keyword is the next token, per the resync contract in 4.2.
func (p *parser) synchronize() {
	for !p.atEnd() {
		if p.check(token.NEWLINE) {
			p.advance()
			return
		}
		if syncKinds[p.peek().Kind] {
			return
		}
		p.advance()
	}
}
