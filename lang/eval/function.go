package eval

import (
	"github.com/waifu-lang/waifu/lang/ast"
	"github.com/waifu-lang/waifu/lang/token"
	"github.com/waifu-lang/waifu/lang/values"
)

// UserFunction is a function defined by a desu declaration, a class method,
// or a lambda (decl.Name.Lexeme == ""). Calling it creates a fresh frame
// whose parent is the closure captured at the point of declaration; per the
// spec this is the frame active when the desu/lambda was evaluated, not
// when it's called.
//
// Grounded on the teacher's lang/types/function.go Function{Funcode, module,
// freevars} shape in spirit (a code reference plus captured state), rewired
// away from the teacher's bytecode Funcode to an *ast.FunctionDecl the
// evaluator walks directly, since Waifu has no compiler/machine stage.
type UserFunction struct {
	decl    *ast.FunctionDecl
	closure *Frame
	eval    *Evaluator
}

var _ values.Callable = (*UserFunction)(nil)

func (f *UserFunction) String() string {
	if f.decl.Name.Lexeme == "" {
		return "<lambda>"
	}
	return "<function " + f.decl.Name.Lexeme + ">"
}
func (f *UserFunction) Type() string { return "function" }
func (f *UserFunction) Truth() bool  { return true }
func (f *UserFunction) Name() string { return f.decl.Name.Lexeme }
func (f *UserFunction) Arity() int   { return len(f.decl.Params) }

func (f *UserFunction) Call(args []values.Value) (values.Value, error) {
	return f.eval.invoke(f.decl.Params, f.decl.Body, f.closure, args)
}

// HostFunction adapts a Go function to values.Callable, for the host
// builtins (print, input) the spec treats as out-of-scope collaborators
// satisfied only by the callable contract in section 6.
type HostFunction struct {
	FnName  string
	FnArity int
	Fn      func(args []values.Value) (values.Value, error)
}

var _ values.Callable = (*HostFunction)(nil)

func (h *HostFunction) String() string { return "<function " + h.FnName + ">" }
func (h *HostFunction) Type() string   { return "function" }
func (h *HostFunction) Truth() bool    { return true }
func (h *HostFunction) Name() string   { return h.FnName }
func (h *HostFunction) Arity() int     { return h.FnArity }
func (h *HostFunction) Call(args []values.Value) (values.Value, error) { return h.Fn(args) }

// invoke binds args positionally into a fresh frame (child of closure) and
// executes body, returning the sigReturn payload or Nil if the body falls
// off the end without an explicit shinu.
func (e *Evaluator) invoke(params []token.Token, body []ast.Stmt, closure *Frame, args []values.Value) (values.Value, error) {
	fr := NewFrame(closure)
	for i := range params {
		fr.Define(args[i])
	}
	sig, err := e.execList(body, fr)
	if err != nil {
		return nil, err
	}
	if sig.kind == sigReturn {
		return sig.value, nil
	}
	return values.Nil, nil
}
