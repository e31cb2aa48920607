package parser_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/waifu-lang/waifu/lang/ast"
	"github.com/waifu-lang/waifu/lang/parser"
	"github.com/waifu-lang/waifu/lang/scanner"
	"github.com/waifu-lang/waifu/lang/token"
)

type collectingSink struct {
	msgs []string
}

func (c *collectingSink) Errorf(line int, format string, args ...any) {
	c.msgs = append(c.msgs, format)
}

func parse(t *testing.T, src string) ([]ast.Stmt, *collectingSink) {
	t.Helper()
	sink := &collectingSink{}
	toks := scanner.New(src, sink).Scan()
	require.Empty(t, sink.msgs, "scanner errors")
	decls := parser.Parse(toks, sink)
	return decls, sink
}

func TestExprStmt(t *testing.T) {
	decls, sink := parse(t, "1 + 2 * 3\n")
	require.Empty(t, sink.msgs)
	require.Len(t, decls, 1)
	stmt, ok := decls[0].(*ast.ExprStmt)
	require.True(t, ok)
	bin, ok := stmt.Expr.(*ast.Binary)
	require.True(t, ok)
	_, ok = bin.Left.(*ast.Literal)
	assert.True(t, ok)
}

func TestNewVarAndRightAssocAssign(t *testing.T) {
	decls, sink := parse(t, "baka a <- b <- 1\n")
	require.Empty(t, sink.msgs)
	require.Len(t, decls, 1)
	ass, ok := decls[0].(*ast.AssStmt)
	require.True(t, ok)
	assert.True(t, ass.NewVar)
	assert.Equal(t, "a", ass.Name.Lexeme)
	inner, ok := ass.Expr.(*ast.Assign)
	require.True(t, ok)
	assert.Equal(t, "b", inner.Name.Lexeme)
	_, ok = inner.Value.(*ast.Literal)
	assert.True(t, ok)
}

func TestNewVarWithPropertyLHSIsError(t *testing.T) {
	_, sink := parse(t, "baka a.x <- 1\n")
	assert.NotEmpty(t, sink.msgs)
}

// TestOperatorPrecedence checks the three precedence shapes spec.md §8 calls
// out by name: `/` binds tighter than `-`, `*` binds tighter than `and`, and
// a parenthesized group stays atomic in front of `or`.
func TestOperatorPrecedence(t *testing.T) {
	decls, sink := parse(t, "3 - 2 / 1\n")
	require.Empty(t, sink.msgs)
	require.Len(t, decls, 1)
	top, ok := decls[0].(*ast.ExprStmt).Expr.(*ast.Binary)
	require.True(t, ok)
	assert.Equal(t, token.MINUS, top.Op.Kind)
	_, ok = top.Left.(*ast.Literal)
	assert.True(t, ok, "left of - should be the literal 3")
	rhs, ok := top.Right.(*ast.Binary)
	require.True(t, ok, "right of - should be the nested 2 / 1")
	assert.Equal(t, token.DIVIDE, rhs.Op.Kind)

	decls, sink = parse(t, "2*3 and 4\n")
	require.Empty(t, sink.msgs)
	require.Len(t, decls, 1)
	land, ok := decls[0].(*ast.ExprStmt).Expr.(*ast.Logical)
	require.True(t, ok)
	assert.Equal(t, token.AND, land.Op.Kind)
	mul, ok := land.Left.(*ast.Binary)
	require.True(t, ok, "left of and should be the nested 2*3")
	assert.Equal(t, token.TIMES, mul.Op.Kind)
	_, ok = land.Right.(*ast.Literal)
	assert.True(t, ok, "right of and should be the literal 4")

	decls, sink = parse(t, "(2+4) or 5\n")
	require.Empty(t, sink.msgs)
	require.Len(t, decls, 1)
	lor, ok := decls[0].(*ast.ExprStmt).Expr.(*ast.Logical)
	require.True(t, ok)
	assert.Equal(t, token.OR, lor.Op.Kind)
	group, ok := lor.Left.(*ast.Grouping)
	require.True(t, ok, "left of or should stay a parenthesized group")
	add, ok := group.Expr.(*ast.Binary)
	require.True(t, ok)
	assert.Equal(t, token.PLUS, add.Op.Kind)
	_, ok = lor.Right.(*ast.Literal)
	assert.True(t, ok, "right of or should be the literal 5")
}

func TestIfElse(t *testing.T) {
	src := "nani true:\n  print(1)\ndaijobu:\n  print(2)\n"
	decls, sink := parse(t, src)
	require.Empty(t, sink.msgs)
	require.Len(t, decls, 1)
	ifStmt, ok := decls[0].(*ast.If)
	require.True(t, ok)
	require.NotNil(t, ifStmt.Then)
	require.NotNil(t, ifStmt.Else)
	assert.Len(t, ifStmt.Then.List, 1)
	assert.Len(t, ifStmt.Else.List, 1)
}

func TestWhileWithBreakAndContinue(t *testing.T) {
	src := "yandere true:\n  yamero\n  kowai\n"
	decls, sink := parse(t, src)
	require.Empty(t, sink.msgs)
	require.Len(t, decls, 1)
	w, ok := decls[0].(*ast.While)
	require.True(t, ok)
	require.Len(t, w.Body.List, 2)
	_, ok = w.Body.List[0].(*ast.Break)
	assert.True(t, ok)
	_, ok = w.Body.List[1].(*ast.Continue)
	assert.True(t, ok)
}

func TestBreakOutsideLoopIsError(t *testing.T) {
	_, sink := parse(t, "yamero\n")
	assert.NotEmpty(t, sink.msgs)
}

func TestBreakInsideFunctionInsideLoopIsError(t *testing.T) {
	src := "yandere true:\n  desu f():\n    yamero\n"
	_, sink := parse(t, src)
	assert.NotEmpty(t, sink.msgs)
}

func TestFuncDecl(t *testing.T) {
	src := "desu add(x, y):\n  shinu x + y\n"
	decls, sink := parse(t, src)
	require.Empty(t, sink.msgs)
	require.Len(t, decls, 1)
	fn, ok := decls[0].(*ast.FunctionDecl)
	require.True(t, ok)
	assert.Equal(t, "add", fn.Name.Lexeme)
	require.Len(t, fn.Params, 2)
	require.Len(t, fn.Body, 1)
	ret, ok := fn.Body[0].(*ast.Return)
	require.True(t, ok)
	assert.NotNil(t, ret.Expr)
}

func TestLambdaDesugarsToSingleReturn(t *testing.T) {
	src := "baka sq <- ?x: x * x\n"
	decls, sink := parse(t, src)
	require.Empty(t, sink.msgs)
	require.Len(t, decls, 1)
	ass := decls[0].(*ast.AssStmt)
	lam, ok := ass.Expr.(*ast.Lambda)
	require.True(t, ok)
	require.Len(t, lam.Params, 1)
	require.Len(t, lam.Body, 1)
	_, ok = lam.Body[0].(*ast.Return)
	assert.True(t, ok)
}

func TestDecorator(t *testing.T) {
	src := "@memo\ndesu f(x):\n  shinu x\n"
	decls, sink := parse(t, src)
	require.Empty(t, sink.msgs)
	require.Len(t, decls, 1)
	fn, ok := decls[0].(*ast.FunctionDecl)
	require.True(t, ok)
	require.NotNil(t, fn.Decorator)
	assert.Equal(t, "memo", fn.Decorator.Name.Lexeme)
}

func TestClassWithSupersAndStaticMethod(t *testing.T) {
	src := "waifu B neesan A, C:\n  desu shison(x):\n    watashi.x <- x\n  oppai desu make():\n    shinu baito\n"
	decls, sink := parse(t, src)
	require.Empty(t, sink.msgs)
	require.Len(t, decls, 1)
	cls, ok := decls[0].(*ast.ClassDecl)
	require.True(t, ok)
	assert.Equal(t, "B", cls.Name.Lexeme)
	require.Len(t, cls.Supers, 2)
	assert.Equal(t, "A", cls.Supers[0].Name.Lexeme)
	assert.Equal(t, "C", cls.Supers[1].Name.Lexeme)
	require.Len(t, cls.Methods, 2)
	assert.False(t, cls.Methods[0].Static)
	assert.True(t, cls.Methods[1].Static)
}

func TestNonEmptyClassBodyParsesCleanly(t *testing.T) {
	src := "waifu A:\n  desu f():\n    shinu 1\n"
	_, sink := parse(t, src)
	require.Empty(t, sink.msgs)
}

func TestSuperMethodCall(t *testing.T) {
	src := "waifu B neesan A:\n  desu f():\n    shinu haha.f() + 10\n"
	decls, sink := parse(t, src)
	require.Empty(t, sink.msgs)
	cls := decls[0].(*ast.ClassDecl)
	body := cls.Methods[0].Body
	ret := body[0].(*ast.Return)
	bin := ret.Expr.(*ast.Binary)
	call := bin.Left.(*ast.Call)
	_, ok := call.Callee.(*ast.SuperRef)
	assert.True(t, ok)
}

func TestRelativeImport(t *testing.T) {
	decls, sink := parse(t, "import ..foo.bar\n")
	require.Empty(t, sink.msgs)
	imp, ok := decls[0].(*ast.Import)
	require.True(t, ok)
	assert.Equal(t, []string{"", "", "foo", "bar"}, imp.Parts)
	assert.Equal(t, "..foo.bar", imp.Dotted)
}

func TestAbsoluteImport(t *testing.T) {
	decls, sink := parse(t, "import a.b.c\n")
	require.Empty(t, sink.msgs)
	imp := decls[0].(*ast.Import)
	assert.Equal(t, []string{"a", "b", "c"}, imp.Parts)
}

func TestSyntaxErrorRecoversAtNextDeclaration(t *testing.T) {
	src := "baka x <-\ndesu f():\n  shinu 1\n"
	decls, sink := parse(t, src)
	assert.NotEmpty(t, sink.msgs)
	// the malformed declaration is dropped, but the parser resyncs and
	// still produces the following function declaration.
	require.Len(t, decls, 1)
	_, ok := decls[0].(*ast.FunctionDecl)
	assert.True(t, ok)
}
