// Package resolver performs a single static pass over a parsed chunk,
// assigning every variable reference a (depth, slot) pair that the evaluator
// uses to index directly into its frame chain instead of walking a
// name-keyed environment at run time. It also enforces the scope-sensitive
// rules the parser can't check on its own: watashi/haha legality, return
// legality inside constructors, and baka redefinition within a scope.
package resolver

import (
	"fmt"
	"strings"

	"github.com/dolthub/swiss"

	"github.com/waifu-lang/waifu/lang/ast"
	"github.com/waifu-lang/waifu/lang/token"
)

// ErrorSink is the subset of diag.Sink the resolver reports through.
type ErrorSink interface {
	Errorf(line int, format string, args ...any)
	Warnf(line int, format string, args ...any)
}

type funcKind int

const (
	noFunc funcKind = iota
	inFunction
	inMethod
	inConstructor
)

type classKind int

const (
	noClass classKind = iota
	inClass
	inSubclass
)

const (
	thisName  = " this"
	superName = " super"
)

// Resolver walks a chunk's statements, threading a scope stack that mirrors
// the Frame chain the evaluator will build, recording a Resolution for every
// node the evaluator needs to resolve without a name lookup.
type Resolver struct {
	err ErrorSink

	scopes []*scope
	fn     funcKind
	class  classKind

	resolutions *swiss.Map[ast.Node, Resolution]
	unused      []*binding
}

// New creates a Resolver whose globals scope is preloaded with the given
// host function names, each marked used so the unused-variable pass never
// flags them.
func New(err ErrorSink, hostNames ...string) *Resolver {
	globals := newScope()
	for _, name := range hostNames {
		b := globals.define(name, token.Token{Lexeme: name})
		b.used = true
	}
	return &Resolver{err: err, scopes: []*scope{globals}}
}

// Resolve analyzes a whole chunk (module top level) and returns the
// node -> Resolution side table the evaluator consults for every VarAccess,
// non-new Assign/AssStmt, ObjRef and SuperRef node.
func (r *Resolver) Resolve(decls []ast.Stmt) *swiss.Map[ast.Node, Resolution] {
	r.resolutions = swiss.NewMap[ast.Node, Resolution](0)
	for _, d := range decls {
		r.stmt(d)
	}
	r.checkUnused(r.scopes[0])
	r.reportUnused()
	return r.resolutions
}

func (r *Resolver) push() *scope {
	s := newScope()
	r.scopes = append(r.scopes, s)
	return s
}

func (r *Resolver) pop() {
	top := r.scopes[len(r.scopes)-1]
	r.checkUnused(top)
	r.scopes = r.scopes[:len(r.scopes)-1]
}

// checkUnused collects (but does not yet report) every binding in s that was
// never read or assignment-resolved to; reportUnused emits them all as one
// grouped diagnostic once the whole chunk has been walked, per spec.md §7's
// "Unused-variable warnings are grouped into a single multiline message."
func (r *Resolver) checkUnused(s *scope) {
	for _, b := range s.order {
		if !b.used && b.name != thisName && b.name != superName {
			r.unused = append(r.unused, b)
		}
	}
}

// reportUnused emits every binding checkUnused collected as a single
// multiline warning, one line per unused name in the order scopes were
// popped, anchored on the first offender's line.
func (r *Resolver) reportUnused() {
	if len(r.unused) == 0 {
		return
	}
	lines := make([]string, len(r.unused))
	for i, b := range r.unused {
		lines[i] = fmt.Sprintf("Line[%d]: %q is never used", b.token.Line, b.name)
	}
	r.err.Warnf(r.unused[0].token.Line, "unused variables:\n%s", strings.Join(lines, "\n"))
}

func (r *Resolver) current() *scope { return r.scopes[len(r.scopes)-1] }

// define introduces name in the current (innermost) scope, reporting a
// redefinition error if name is already bound in *any* enclosing local
// scope — not just the innermost one. Per spec.md §4.3 ("if any enclosing
// local scope already binds x, report redefinition") and grounded on
// original_source/src/Resolver.py's _check_defined, which loops over every
// entry of self.scopes (its local-scope stack, with globals tracked
// separately in self.globals): the global scope is excluded from this walk
// and still permits redeclaration, mirroring top-level module reruns.
func (r *Resolver) define(tok token.Token) *binding {
	for i := len(r.scopes) - 1; i >= 1; i-- {
		if _, ok := r.scopes[i].lookup(tok.Lexeme); ok {
			r.err.Errorf(tok.Line, "%q is already defined in this scope", tok.Lexeme)
			break
		}
	}
	return r.current().define(tok.Lexeme, tok)
}

// defineUsed is define, pre-marked used: function and class names never
// warn as unused just because nothing in the module happens to call them.
func (r *Resolver) defineUsed(tok token.Token) *binding {
	b := r.define(tok)
	b.used = true
	return b
}

// resolveRead records the (depth, slot) resolution for a *read* of name at
// node n (VarAccess, a decorator or superclass reference, watashi/haha).
// An unresolved read is left out of the side table entirely: per the
// language's scoping rules this is deferred to the evaluator, which raises
// "Undefined variable" at the point the read actually executes rather than
// failing the whole module at analysis time.
func (r *Resolver) resolveRead(n ast.Node, name string) {
	for i := len(r.scopes) - 1; i >= 0; i-- {
		if b, ok := r.scopes[i].lookup(name); ok {
			b.used = true
			r.resolutions.Put(n, Resolution{Depth: len(r.scopes) - 1 - i, Slot: b.slot})
			return
		}
	}
}

// assignOrDefine resolves a plain (non-baka) assignment target: if name is
// already bound anywhere up the scope chain (including globals), the
// assignment resolves to that binding; otherwise the assignment implicitly
// introduces name as a new binding in the innermost scope.
func (r *Resolver) assignOrDefine(n ast.Node, tok token.Token) {
	for i := len(r.scopes) - 1; i >= 0; i-- {
		if b, ok := r.scopes[i].lookup(tok.Lexeme); ok {
			b.used = true
			r.resolutions.Put(n, Resolution{Depth: len(r.scopes) - 1 - i, Slot: b.slot})
			return
		}
	}
	b := r.current().define(tok.Lexeme, tok)
	r.resolutions.Put(n, Resolution{Depth: 0, Slot: b.slot, New: true})
}

func (r *Resolver) stmt(s ast.Stmt) {
	switch s := s.(type) {
	case *ast.Stmts:
		for _, st := range s.List {
			r.stmt(st)
		}
	case *ast.ExprStmt:
		r.expr(s.Expr)
	case *ast.AssStmt:
		r.assStmt(s)
	case *ast.Block:
		r.push()
		for _, st := range s.List {
			r.stmt(st)
		}
		r.pop()
	case *ast.If:
		r.expr(s.Cond)
		r.stmt(s.Then)
		if s.Else != nil {
			r.stmt(s.Else)
		}
	case *ast.While:
		r.expr(s.Cond)
		r.stmt(s.Body)
	case *ast.Break, *ast.Continue:
		// legality already checked by the parser; nothing to resolve.
	case *ast.Return:
		r.returnStmt(s)
	case *ast.FunctionDecl:
		r.functionDecl(s, inFunction)
	case *ast.ClassDecl:
		r.classDecl(s)
	case *ast.Import:
		// the module loader binds the imported name; nothing to resolve here.
	default:
		panic("resolver: unhandled statement type")
	}
}

func (r *Resolver) assStmt(s *ast.AssStmt) {
	r.expr(s.Expr)
	if s.NewVar {
		r.define(s.Name)
		return
	}
	r.assignOrDefine(s, s.Name)
}

func (r *Resolver) returnStmt(s *ast.Return) {
	switch r.fn {
	case noFunc:
		r.err.Errorf(s.Keyword.Line, "'shinu' outside of a function")
	case inConstructor:
		if s.Expr != nil {
			r.err.Errorf(s.Keyword.Line, "'shison' cannot return a value")
		}
	}
	if s.Expr != nil {
		r.expr(s.Expr)
	}
}

// functionDecl resolves a desu declaration. kind selects the return-legality
// context methods/constructors get that a free function doesn't.
func (r *Resolver) functionDecl(f *ast.FunctionDecl, kind funcKind) {
	if f.Decorator != nil {
		r.resolveRead(f.Decorator, f.Decorator.Name.Lexeme)
	}
	if f.Name.Lexeme != "" {
		r.defineUsed(f.Name)
	}
	r.resolveFunctionBody(f.Params, f.Body, kind)
}

func (r *Resolver) resolveFunctionBody(params []token.Token, body []ast.Stmt, kind funcKind) {
	enclosingFn := r.fn
	r.fn = kind
	r.push()
	for _, p := range params {
		r.define(p)
	}
	for _, s := range body {
		r.stmt(s)
	}
	r.pop()
	r.fn = enclosingFn
}

// classDecl binds the class name, resolves its superclass references
// (rejecting a class naming itself), and resolves each method with a
// watashi scope (and a haha scope beneath it when the class has at least
// one superclass) wrapped around the method's own parameter scope.
func (r *Resolver) classDecl(c *ast.ClassDecl) {
	r.defineUsed(c.Name)

	for _, sup := range c.Supers {
		if sup.Name.Lexeme == c.Name.Lexeme {
			r.err.Errorf(sup.Name.Line, "a class cannot extend itself")
			continue
		}
		r.resolveRead(sup, sup.Name.Lexeme)
	}

	enclosingClass := r.class
	if len(c.Supers) > 0 {
		r.class = inSubclass
		r.push().define(superName, c.Keyword)
	} else {
		r.class = inClass
	}

	// Method names are deliberately not defined as bindings: the watashi
	// scope mirrors the one-slot receiver frame a method call builds at run
	// time, and methods are only reachable through member access
	// (obj.m, watashi.m, haha.m), never as bare names.
	r.push().define(thisName, c.Keyword)
	for _, m := range c.Methods {
		kind := inMethod
		if m.Name.Lexeme == token.Constructor {
			kind = inConstructor
		}
		r.resolveFunctionBody(m.Params, m.Body, kind)
	}
	r.pop()

	if len(c.Supers) > 0 {
		r.pop()
	}
	r.class = enclosingClass
}

func (r *Resolver) expr(e ast.Expr) {
	switch e := e.(type) {
	case *ast.Literal:
	case *ast.Grouping:
		r.expr(e.Expr)
	case *ast.Unary:
		r.expr(e.Operand)
	case *ast.Binary:
		r.expr(e.Left)
		r.expr(e.Right)
	case *ast.Logical:
		r.expr(e.Left)
		r.expr(e.Right)
	case *ast.VarAccess:
		r.resolveRead(e, e.Name.Lexeme)
	case *ast.Assign:
		r.expr(e.Value)
		if e.NewVar {
			r.define(e.Name)
		} else {
			r.assignOrDefine(e, e.Name)
		}
	case *ast.PropertyAccess:
		r.expr(e.Object)
	case *ast.SetProperty:
		r.expr(e.Object)
		r.expr(e.Value)
	case *ast.Call:
		r.expr(e.Callee)
		for _, a := range e.Args {
			r.expr(a)
		}
	case *ast.ObjRef:
		if r.class == noClass {
			r.err.Errorf(e.Keyword.Line, "'watashi' outside of a class")
			return
		}
		r.resolveRead(e, thisName)
	case *ast.SuperRef:
		if r.class != inSubclass {
			r.err.Errorf(e.Keyword.Line, "'haha' outside of a subclass")
			return
		}
		r.resolveRead(e, superName)
	case *ast.Lambda:
		r.resolveFunctionBody(e.Params, e.Body, inFunction)
	default:
		panic("resolver: unhandled expression type")
	}
}
