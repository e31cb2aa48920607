// Package eval implements the tree-walking evaluator: it walks the AST a
// second time (after the resolver), using the resolver's side table to bind
// every name without rescanning scopes, materializing functions, classes
// and instances, and driving loops and calls to observable program effects.
package eval

import (
	"github.com/dolthub/swiss"

	"github.com/waifu-lang/waifu/lang/ast"
	"github.com/waifu-lang/waifu/lang/resolver"
	"github.com/waifu-lang/waifu/lang/values"
)

// Evaluator walks a single module's statement list against its own top
// frame. It is re-created fresh for every module the module manager
// evaluates (mirroring the spec's "explicit Interpreter value threaded
// through the pipeline" re-architecture), sharing only the Importer
// back-handle across modules.
type Evaluator struct {
	resolutions *swiss.Map[ast.Node, resolver.Resolution]
	importer    Importer
	top         *Frame
}

// NewEvaluator creates an Evaluator consuming the given resolver side table
// and able to satisfy Import statements through importer.
func NewEvaluator(resolutions *swiss.Map[ast.Node, resolver.Resolution], importer Importer) *Evaluator {
	return &Evaluator{resolutions: resolutions, importer: importer}
}

// EvalModule runs decls (a module's top-level declarations) against a fresh
// top frame pre-populated, in order, with the given host builtins (print,
// input, ...) — the same order and names the resolver's globals scope was
// seeded with, so every resolved reference to a host name lands on the slot
// the evaluator actually put it in. It returns the top frame so the caller
// (the module manager) can read out every exportable name once evaluation
// completes.
func (e *Evaluator) EvalModule(decls []ast.Stmt, hostNames []string, hostFns []*HostFunction) (*Frame, error) {
	top := NewFrame(nil)
	e.top = top
	for i, name := range hostNames {
		top.DefineNamed(name, hostFns[i])
	}
	if _, err := e.execList(decls, top); err != nil {
		return top, err
	}
	return top, nil
}

func (e *Evaluator) resolution(n ast.Node) (resolver.Resolution, bool) {
	return e.resolutions.Get(n)
}

// execList runs stmts in order within fr without pushing a new frame or
// scope of its own — used both for a module's top level and for a
// function/method body, which the resolver resolves directly inside the
// parameter scope with no extra nesting.
func (e *Evaluator) execList(stmts []ast.Stmt, fr *Frame) (signal, error) {
	for _, s := range stmts {
		sig, err := e.execStmt(s, fr)
		if err != nil {
			return none, err
		}
		if sig.kind != sigNone {
			return sig, nil
		}
	}
	return none, nil
}

func (e *Evaluator) execStmt(s ast.Stmt, fr *Frame) (signal, error) {
	switch s := s.(type) {
	case *ast.Stmts:
		return e.execList(s.List, fr)
	case *ast.ExprStmt:
		_, err := e.evalExpr(s.Expr, fr)
		return none, err
	case *ast.AssStmt:
		return none, e.execAssStmt(s, fr)
	case *ast.Block:
		return e.execList(s.List, NewFrame(fr))
	case *ast.If:
		cond, err := e.evalExpr(s.Cond, fr)
		if err != nil {
			return none, err
		}
		if cond.Truth() {
			return e.execStmt(s.Then, fr)
		}
		if s.Else != nil {
			return e.execStmt(s.Else, fr)
		}
		return none, nil
	case *ast.While:
		return e.execWhile(s, fr)
	case *ast.Break:
		return breakSignal(), nil
	case *ast.Continue:
		return continueSignal(), nil
	case *ast.Return:
		return e.execReturn(s, fr)
	case *ast.FunctionDecl:
		return none, e.execFunctionDecl(s, fr)
	case *ast.ClassDecl:
		return none, e.execClassDecl(s, fr)
	case *ast.Import:
		return none, e.execImport(s, fr)
	default:
		panic("eval: unhandled statement type")
	}
}

func (e *Evaluator) execWhile(s *ast.While, fr *Frame) (signal, error) {
	for {
		cond, err := e.evalExpr(s.Cond, fr)
		if err != nil {
			return none, err
		}
		if !cond.Truth() {
			return none, nil
		}
		sig, err := e.execStmt(s.Body, fr)
		if err != nil {
			return none, err
		}
		switch sig.kind {
		case sigBreak:
			return none, nil
		case sigReturn:
			return sig, nil
		}
		// sigNone and sigContinue both fall through to re-check the condition.
	}
}

func (e *Evaluator) execReturn(s *ast.Return, fr *Frame) (signal, error) {
	if s.Expr == nil {
		return returnSignal(values.Nil), nil
	}
	v, err := e.evalExpr(s.Expr, fr)
	if err != nil {
		return none, err
	}
	return returnSignal(v), nil
}

// execAssStmt handles both `baka x <- expr` (always a fresh slot in fr) and
// a plain `x <- expr` (resolved against the side table: either an existing
// slot to overwrite, or — when Resolution.New is set — a brand-new slot to
// allocate, for the unresolved-top-level-assignment case the resolver
// defers rather than erroring on).
func (e *Evaluator) execAssStmt(s *ast.AssStmt, fr *Frame) error {
	v, err := e.evalExpr(s.Expr, fr)
	if err != nil {
		return err
	}
	if s.NewVar {
		fr.DefineNamed(s.Name.Lexeme, v)
		return nil
	}
	res, ok := e.resolution(s)
	if !ok {
		panic("eval: plain assignment missing resolution")
	}
	if res.New {
		fr.DefineNamed(s.Name.Lexeme, v)
		return nil
	}
	fr.AssignAt(res.Depth, res.Slot, v)
	return nil
}

// execFunctionDecl materializes a desu statement's function value (applying
// its decorator, if any) and binds it in fr at the next sequential slot —
// the same position the resolver's defineUsed call for this declaration
// already reserved there.
func (e *Evaluator) execFunctionDecl(s *ast.FunctionDecl, fr *Frame) error {
	fn := &UserFunction{decl: s, closure: fr, eval: e}
	var val values.Value = fn
	if s.Decorator != nil {
		decoVal, err := e.evalExpr(s.Decorator, fr)
		if err != nil {
			return err
		}
		deco, ok := decoVal.(values.Callable)
		if !ok {
			return runtimeErrorf(s.Decorator.Line(), "%q is not callable.", s.Decorator.Name.Lexeme)
		}
		if deco.Arity() != 1 {
			return runtimeErrorf(s.Decorator.Line(), "decorator %q must be a function of arity 1.", s.Decorator.Name.Lexeme)
		}
		result, err := deco.Call([]values.Value{fn})
		if err != nil {
			return err
		}
		val = result
	}
	defineSequential(fr, s.Name.Lexeme, val)
	return nil
}

// defineSequential binds name at fr's next slot and records it by name, on
// every frame. On a module top frame the name entry is what dynamic
// fallback lookups and Exports find it by; on any other frame it is
// harmless, since only the module top frame is ever passed to Lookup and
// nothing else consults the name map.
func defineSequential(fr *Frame, name string, v values.Value) {
	fr.DefineNamed(name, v)
}

// execClassDecl builds the metaclass/class pair for a waifu declaration and
// binds the class value in fr. Per the spec: a metaclass named __Name__
// whose superclasses are the metaclasses of the declared superclasses is
// built first, then the class itself; methods marked oppai install onto the
// metaclass, everything else onto the class.
func (e *Evaluator) execClassDecl(c *ast.ClassDecl, fr *Frame) error {
	supers := make([]*Class, 0, len(c.Supers))
	superMetas := make([]*Class, 0, len(c.Supers))
	for _, sref := range c.Supers {
		v, err := e.evalExpr(sref, fr)
		if err != nil {
			return err
		}
		sc, ok := v.(*Class)
		if !ok {
			return runtimeErrorf(sref.Line(), "%q is not a class.", sref.Name.Lexeme)
		}
		supers = append(supers, sc)
		if sc.metaclass != nil {
			superMetas = append(superMetas, sc.metaclass)
		}
	}

	metaclass := &Class{
		name:    "__" + c.Name.Lexeme + "__",
		supers:  superMetas,
		methods: swiss.NewMap[string, *UserFunction](0),
	}
	class := &Class{
		name:      c.Name.Lexeme,
		supers:    supers,
		methods:   swiss.NewMap[string, *UserFunction](0),
		metaclass: metaclass,
	}

	// A haha (super) reference inside a method body needs to know, at call
	// time, which class's superclass chain to search. Since that never
	// changes between calls, it's folded once into the method's closure
	// here — a frame holding the class value, sitting above every method's
	// own per-call watashi frame — rather than rebuilt on every invocation.
	methodClosure := fr
	if len(supers) > 0 {
		hahaFrame := NewFrame(fr)
		hahaFrame.Define(class)
		methodClosure = hahaFrame
	}

	for _, m := range c.Methods {
		fn := &UserFunction{decl: m, closure: methodClosure, eval: e}
		if m.Static {
			metaclass.methods.Put(m.Name.Lexeme, fn)
		} else {
			class.methods.Put(m.Name.Lexeme, fn)
		}
	}

	defineSequential(fr, c.Name.Lexeme, class)
	return nil
}

func (e *Evaluator) execImport(s *ast.Import, fr *Frame) error {
	exports, err := e.importer.Import(s.Parts, s.Keyword.Line)
	if err != nil {
		return err
	}
	for name, v := range exports {
		fr.DefineImported(name, v)
	}
	return nil
}
