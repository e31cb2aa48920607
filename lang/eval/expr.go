package eval

import (
	"github.com/waifu-lang/waifu/lang/ast"
	"github.com/waifu-lang/waifu/lang/token"
	"github.com/waifu-lang/waifu/lang/values"
)

func (e *Evaluator) evalExpr(expr ast.Expr, fr *Frame) (values.Value, error) {
	switch expr := expr.(type) {
	case *ast.Literal:
		return literalValue(expr.Value), nil
	case *ast.Grouping:
		return e.evalExpr(expr.Expr, fr)
	case *ast.Unary:
		return e.evalUnary(expr, fr)
	case *ast.Binary:
		return e.evalBinary(expr, fr)
	case *ast.Logical:
		return e.evalLogical(expr, fr)
	case *ast.VarAccess:
		return e.evalVarAccess(expr, fr)
	case *ast.Assign:
		return e.evalAssign(expr, fr)
	case *ast.PropertyAccess:
		obj, err := e.evalExpr(expr.Object, fr)
		if err != nil {
			return nil, err
		}
		return attr(expr.Name.Line, obj, expr.Name.Lexeme)
	case *ast.SetProperty:
		obj, err := e.evalExpr(expr.Object, fr)
		if err != nil {
			return nil, err
		}
		v, err := e.evalExpr(expr.Value, fr)
		if err != nil {
			return nil, err
		}
		if err := setAttr(expr.Name.Line, obj, expr.Name.Lexeme, v); err != nil {
			return nil, err
		}
		return v, nil
	case *ast.Call:
		return e.evalCall(expr, fr)
	case *ast.ObjRef:
		return e.evalReceiverRef(expr, expr.Keyword.Line, fr)
	case *ast.SuperRef:
		return e.evalSuperRef(expr, fr)
	case *ast.Lambda:
		decl := &ast.FunctionDecl{Name: token.Token{Kind: token.IDENTIFIER, Line: expr.Keyword.Line}, Params: expr.Params, Body: expr.Body}
		return &UserFunction{decl: decl, closure: fr, eval: e}, nil
	default:
		panic("eval: unhandled expression type")
	}
}

func literalValue(v any) values.Value {
	switch v := v.(type) {
	case nil:
		return values.Nil
	case bool:
		return values.Bool(v)
	case float64:
		return values.Number(v)
	case string:
		return values.Str(v)
	default:
		panic("eval: unexpected literal value type")
	}
}

func (e *Evaluator) evalVarAccess(expr *ast.VarAccess, fr *Frame) (values.Value, error) {
	if res, ok := e.resolution(expr); ok {
		return fr.GetAt(res.Depth, res.Slot), nil
	}
	if v, ok := e.top.Lookup(expr.Name.Lexeme); ok {
		return v, nil
	}
	return nil, runtimeErrorf(expr.Name.Line, "Undefined variable %q.", expr.Name.Lexeme)
}

func (e *Evaluator) evalAssign(expr *ast.Assign, fr *Frame) (values.Value, error) {
	v, err := e.evalExpr(expr.Value, fr)
	if err != nil {
		return nil, err
	}
	if expr.NewVar {
		fr.DefineNamed(expr.Name.Lexeme, v)
		return v, nil
	}
	res, ok := e.resolution(expr)
	if !ok {
		panic("eval: plain assign expr missing resolution")
	}
	if res.New {
		fr.DefineNamed(expr.Name.Lexeme, v)
		return v, nil
	}
	fr.AssignAt(res.Depth, res.Slot, v)
	return v, nil
}

// evalReceiverRef reads watashi at the slot the resolver recorded for it.
func (e *Evaluator) evalReceiverRef(n ast.Node, line int, fr *Frame) (values.Value, error) {
	res, ok := e.resolution(n)
	if !ok {
		return nil, runtimeErrorf(line, "'watashi' used outside of a method.")
	}
	return fr.GetAt(res.Depth, res.Slot), nil
}

// evalSuperRef implements haha.method: the resolver's recorded depth/slot
// locates the frame a class method construction folded a *Class reference
// into (see execClassDecl's hahaFrame); the receiver sits one frame closer
// (depth-1, slot 0, the watashi frame built fresh per call).
func (e *Evaluator) evalSuperRef(expr *ast.SuperRef, fr *Frame) (values.Value, error) {
	res, ok := e.resolution(expr)
	if !ok {
		return nil, runtimeErrorf(expr.Keyword.Line, "'haha' used outside of a subclass.")
	}
	classVal := fr.GetAt(res.Depth, res.Slot)
	class, ok := classVal.(*Class)
	if !ok {
		return nil, runtimeErrorf(expr.Keyword.Line, "internal error: 'haha' did not resolve to a class.")
	}
	method, ok := class.findSuperMethod(expr.Method.Lexeme)
	if !ok {
		return nil, runtimeErrorf(expr.Method.Line, "Property %q does not exist.", expr.Method.Lexeme)
	}
	receiver := fr.GetAt(res.Depth-1, 0)
	return &BoundMethod{Fn: method, Receiver: receiver}, nil
}

func (e *Evaluator) evalCall(expr *ast.Call, fr *Frame) (values.Value, error) {
	calleeVal, err := e.evalExpr(expr.Callee, fr)
	if err != nil {
		return nil, err
	}
	callee, ok := calleeVal.(values.Callable)
	if !ok {
		return nil, runtimeErrorf(expr.Paren.Line, "%s is not callable.", calleeVal.Type())
	}
	args := make([]values.Value, len(expr.Args))
	for i, a := range expr.Args {
		v, err := e.evalExpr(a, fr)
		if err != nil {
			return nil, err
		}
		args[i] = v
	}
	if callee.Arity() != len(args) {
		return nil, runtimeErrorf(expr.Paren.Line, "Expected %d arguments but got %d.", callee.Arity(), len(args))
	}
	return callee.Call(args)
}

func (e *Evaluator) evalLogical(expr *ast.Logical, fr *Frame) (values.Value, error) {
	left, err := e.evalExpr(expr.Left, fr)
	if err != nil {
		return nil, err
	}
	switch expr.Op.Kind {
	case token.OR:
		if left.Truth() {
			return left, nil
		}
		return e.evalExpr(expr.Right, fr)
	case token.AND:
		if !left.Truth() {
			return left, nil
		}
		return e.evalExpr(expr.Right, fr)
	default:
		panic("eval: unhandled logical operator")
	}
}

func (e *Evaluator) evalUnary(expr *ast.Unary, fr *Frame) (values.Value, error) {
	v, err := e.evalExpr(expr.Operand, fr)
	if err != nil {
		return nil, err
	}
	switch expr.Op.Kind {
	case token.NOT:
		return values.Bool(!v.Truth()), nil
	case token.MINUS:
		n, ok := v.(values.Number)
		if !ok {
			return nil, runtimeErrorf(expr.Op.Line, "Operand must be a number.")
		}
		return -n, nil
	default:
		panic("eval: unhandled unary operator")
	}
}

func (e *Evaluator) evalBinary(expr *ast.Binary, fr *Frame) (values.Value, error) {
	left, err := e.evalExpr(expr.Left, fr)
	if err != nil {
		return nil, err
	}
	right, err := e.evalExpr(expr.Right, fr)
	if err != nil {
		return nil, err
	}

	switch expr.Op.Kind {
	case token.PLUS:
		return evalAdd(expr.Op.Line, left, right)
	case token.MINUS, token.TIMES, token.DIVIDE:
		ln, lok := left.(values.Number)
		rn, rok := right.(values.Number)
		if !lok || !rok {
			return nil, runtimeErrorf(expr.Op.Line, "Operands must be numbers.")
		}
		switch expr.Op.Kind {
		case token.MINUS:
			return ln - rn, nil
		case token.TIMES:
			return ln * rn, nil
		case token.DIVIDE:
			if rn == 0 {
				return nil, runtimeErrorf(expr.Op.Line, "Can not divide by zero.")
			}
			return ln / rn, nil
		}
	case token.LESS, token.LESS_EQ, token.GREATER, token.GREATER_EQ:
		ln, lok := left.(values.Number)
		rn, rok := right.(values.Number)
		if !lok || !rok {
			return nil, runtimeErrorf(expr.Op.Line, "Operands must be numbers.")
		}
		switch expr.Op.Kind {
		case token.LESS:
			return values.Bool(ln < rn), nil
		case token.LESS_EQ:
			return values.Bool(ln <= rn), nil
		case token.GREATER:
			return values.Bool(ln > rn), nil
		case token.GREATER_EQ:
			return values.Bool(ln >= rn), nil
		}
	case token.EQUAL:
		return values.Bool(values.Equal(left, right)), nil
	case token.UNEQUAL:
		return values.Bool(!values.Equal(left, right)), nil
	}
	panic("eval: unhandled binary operator")
}

// evalAdd implements `+`: numeric addition when both operands are numbers;
// when either operand is a string, concatenation of each operand's
// Waifu-representation (the rule that lets `"n = " + 3` work without an
// explicit conversion); any other combination is a type error.
func evalAdd(line int, left, right values.Value) (values.Value, error) {
	if ln, ok := left.(values.Number); ok {
		if rn, ok := right.(values.Number); ok {
			return ln + rn, nil
		}
	}
	if _, ok := left.(values.Str); ok {
		return values.Str(values.Repr(left) + values.Repr(right)), nil
	}
	if _, ok := right.(values.Str); ok {
		return values.Str(values.Repr(left) + values.Repr(right)), nil
	}
	return nil, runtimeErrorf(line, "Operands must be two numbers or at least one string.")
}
