package module_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/waifu-lang/waifu/internal/diag"
	"github.com/waifu-lang/waifu/lang/module"
	"github.com/waifu-lang/waifu/stdlib"
)

// memLoader serves module source from an in-memory map, keyed by the exact
// path the manager asks for, so tests never touch the real filesystem.
type memLoader map[string]string

func (m memLoader) Read(path string) (string, error) {
	src, ok := m[path]
	if !ok {
		return "", assert.AnError
	}
	return src, nil
}

// run evaluates src as the entry module "/virtual/main.waifu" and returns
// everything printed to stdout plus the diagnostics sink.
func run(t *testing.T, src string) (string, *diag.Sink) {
	t.Helper()
	return runFiles(t, memLoader{"/virtual/main.waifu": src}, "/virtual/main.waifu")
}

func runFiles(t *testing.T, loader memLoader, entry string) (string, *diag.Sink) {
	t.Helper()
	var stdout bytes.Buffer
	var stderr bytes.Buffer
	sink := diag.New(&stderr, "")
	hostNames := stdlib.Names()
	hostFns := stdlib.Builtins(&stdout, strings.NewReader(""))
	mgr := module.NewManager(loader, "/virtual", sink, hostNames, hostFns)
	_ = mgr.Run(entry)
	t.Log(stderr.String())
	return stdout.String(), sink
}

func TestArithmeticAndPrint(t *testing.T) {
	out, sink := run(t, "print(1 + 2 * 3)\n")
	require.False(t, sink.HasError())
	assert.Equal(t, "7\n", out)
}

func TestClosureCounter(t *testing.T) {
	src := `desu mk():
  baka c <- 0
  desu inc():
    c <- c + 1
    shinu c
  shinu inc
baka next <- mk()
print(next())
print(next())
`
	out, sink := run(t, src)
	require.False(t, sink.HasError())
	assert.Equal(t, "1\n2\n", out)
}

func TestInheritanceAndSuperDispatch(t *testing.T) {
	src := `waifu A:
  desu f():
    shinu 1
waifu B neesan A:
  desu f():
    shinu haha.f() + 10
baka b <- B()
print(b.f())
`
	out, sink := run(t, src)
	require.False(t, sink.HasError())
	assert.Equal(t, "11\n", out)
}

func TestSuperDispatchTwoLevels(t *testing.T) {
	// haha resolves against the *declaring* class's superclass chain, so a
	// grandchild's inherited middle method still reaches the grandparent.
	src := `waifu A:
  desu f():
    shinu 1
waifu B neesan A:
  desu f():
    shinu haha.f() + 10
waifu C neesan B:
  desu f():
    shinu haha.f() + 100
baka c <- C()
print(c.f())
`
	out, sink := run(t, src)
	require.False(t, sink.HasError())
	assert.Equal(t, "111\n", out)
}

func TestConstructor(t *testing.T) {
	src := `waifu Point:
  desu shison(x, y):
    watashi.x <- x
    watashi.y <- y
baka p <- Point(3, 4)
print(p.x + p.y)
`
	out, sink := run(t, src)
	require.False(t, sink.HasError())
	assert.Equal(t, "7\n", out)
}

func TestBlankLineDoesNotCloseBlock(t *testing.T) {
	src := "nani true:\n  print(1)\n\n  print(2)\n"
	out, sink := run(t, src)
	require.False(t, sink.HasError())
	assert.Equal(t, "1\n2\n", out)
}

func TestDivideByZero(t *testing.T) {
	out, sink := run(t, "print(1 / 0)\n")
	assert.True(t, sink.HasError())
	assert.Empty(t, out)
	found := false
	for _, d := range sink.All() {
		if strings.Contains(d.Message, "Can not divide by zero.") {
			found = true
		}
	}
	assert.True(t, found, "expected a divide-by-zero diagnostic, got %v", sink.All())
}

func TestShortCircuitOr(t *testing.T) {
	src := `desu boom():
  print("boom")
  shinu true
print(1 or boom())
print(baito or 2)
`
	out, sink := run(t, src)
	require.False(t, sink.HasError())
	assert.Equal(t, "1\n2\n", out)
}

func TestShortCircuitAnd(t *testing.T) {
	src := `desu boom():
  print("boom")
  shinu true
print(false and boom())
print(1 and 2)
`
	out, sink := run(t, src)
	require.False(t, sink.HasError())
	assert.Equal(t, "false\n2\n", out)
}

func TestRightAssociativeAssignment(t *testing.T) {
	src := `baka a <- 0
baka b <- 0
a <- b <- 5
print(a)
print(b)
`
	out, sink := run(t, src)
	require.False(t, sink.HasError())
	assert.Equal(t, "5\n5\n", out)
}

func TestMultipleInheritanceFirstMatchWins(t *testing.T) {
	src := `waifu Left:
  desu who():
    shinu "left"
waifu Right:
  desu who():
    shinu "right"
waifu Both neesan Left, Right:
  desu shison():
    shinu
baka b <- Both()
print(b.who())
`
	out, sink := run(t, src)
	require.False(t, sink.HasError())
	assert.Equal(t, "left\n", out)
}

func TestStaticMethod(t *testing.T) {
	src := `waifu Util:
  oppai desu add(a, b):
    shinu a + b
print(Util.add(2, 3))
`
	out, sink := run(t, src)
	require.False(t, sink.HasError())
	assert.Equal(t, "5\n", out)
}

func TestDecorator(t *testing.T) {
	src := `desu twice(f):
  desu wrapped():
    shinu f() + f()
  shinu wrapped

@twice
desu one():
  shinu 1

print(one())
`
	out, sink := run(t, src)
	require.False(t, sink.HasError())
	assert.Equal(t, "2\n", out)
}

func TestLambda(t *testing.T) {
	src := `baka add <- ?a, b: a + b
print(add(2, 3))
`
	out, sink := run(t, src)
	require.False(t, sink.HasError())
	assert.Equal(t, "5\n", out)
}

func TestWhileBreakContinue(t *testing.T) {
	src := `baka i <- 0
baka sum <- 0
yandere i < 10:
  i <- i + 1
  nani i = 5:
    kowai
  nani i = 8:
    yamero
  sum <- sum + i
print(sum)
`
	out, sink := run(t, src)
	require.False(t, sink.HasError())
	assert.Equal(t, "23\n", out)
}

func TestNilAndStringConcat(t *testing.T) {
	src := `baka x <- baito
print("x = " + x)
`
	out, sink := run(t, src)
	require.False(t, sink.HasError())
	assert.Equal(t, "x = baito\n", out)
}

func TestIntegerFormattingHasNoTrailingDecimal(t *testing.T) {
	out, sink := run(t, "print(3.0)\nprint(3.5)\n")
	require.False(t, sink.HasError())
	assert.Equal(t, "3\n3.5\n", out)
}

func TestUndefinedVariableIsRuntimeError(t *testing.T) {
	_, sink := run(t, "print(doesNotExist)\n")
	assert.True(t, sink.HasError())
}

func TestAbsoluteImportExportsTopLevelNames(t *testing.T) {
	loader := memLoader{
		"/virtual/main.waifu": "import greet\nprint(hello())\n",
		"/virtual/greet.waifu": `desu hello():
  shinu "hi"
`,
	}
	out, sink := runFiles(t, loader, "/virtual/main.waifu")
	require.False(t, sink.HasError())
	assert.Equal(t, "hi\n", out)
}

func TestRelativeImportOneDotIsSiblingDirectory(t *testing.T) {
	loader := memLoader{
		"/virtual/pkg/main.waifu": "import .helper\nprint(value())\n",
		"/virtual/pkg/helper.waifu": `desu value():
  shinu 42
`,
	}
	out, sink := runFiles(t, loader, "/virtual/pkg/main.waifu")
	require.False(t, sink.HasError())
	assert.Equal(t, "42\n", out)
}

func TestMethodCallsSiblingThroughWatashi(t *testing.T) {
	src := `waifu A:
  desu f():
    shinu 1
  desu g():
    shinu watashi.f() + 1
baka a <- A()
print(a.g())
`
	out, sink := run(t, src)
	require.False(t, sink.HasError())
	assert.Equal(t, "2\n", out)
}

func TestBareSiblingMethodNameIsRuntimeError(t *testing.T) {
	src := `waifu A:
  desu f():
    shinu 1
  desu g():
    shinu f()
baka a <- A()
print(a.g())
`
	out, sink := run(t, src)
	assert.True(t, sink.HasError())
	assert.Empty(t, out)
}

func TestImportedModuleExportsBakaBinding(t *testing.T) {
	loader := memLoader{
		"/virtual/main.waifu": "import conf\nprint(limit)\n",
		"/virtual/conf.waifu": "baka limit <- 42\n",
	}
	out, sink := runFiles(t, loader, "/virtual/main.waifu")
	require.False(t, sink.HasRuntime())
	require.False(t, sink.HasFatal())
	assert.Equal(t, "42\n", out)
}

func TestTopLevelBindingAfterImportKeepsItsSlot(t *testing.T) {
	// an import merges names into the top frame without consuming value
	// slots, so a binding declared after it still lands on the slot the
	// resolver computed for it.
	loader := memLoader{
		"/virtual/main.waifu": "import greet\nbaka x <- 1\nprint(x)\nprint(hello())\n",
		"/virtual/greet.waifu": `desu hello():
  shinu "hi"
`,
	}
	out, sink := runFiles(t, loader, "/virtual/main.waifu")
	require.False(t, sink.HasError())
	assert.Equal(t, "1\nhi\n", out)
}

func TestCyclicImportIsDetected(t *testing.T) {
	loader := memLoader{
		"/virtual/a.waifu": "import b\n",
		"/virtual/b.waifu": "import a\n",
	}
	_, sink := runFiles(t, loader, "/virtual/a.waifu")
	assert.True(t, sink.HasError())
	found := false
	for _, d := range sink.All() {
		if strings.Contains(d.Message, "cyclic import") {
			found = true
		}
	}
	assert.True(t, found, "expected a cyclic-import diagnostic, got %v", sink.All())
}

func TestImportedModuleRuntimeErrorReportedOnce(t *testing.T) {
	loader := memLoader{
		"/virtual/main.waifu": "import bad\n",
		"/virtual/bad.waifu":  "print(1 / 0)\n",
	}
	_, sink := runFiles(t, loader, "/virtual/main.waifu")
	assert.True(t, sink.HasRuntime())
	runtimeCount := 0
	for _, d := range sink.All() {
		if d.Severity == diag.Runtime {
			runtimeCount++
			assert.Equal(t, "bad", d.Module)
		}
	}
	assert.Equal(t, 1, runtimeCount)
}

func TestModuleIdempotence(t *testing.T) {
	loader := memLoader{
		"/virtual/main.waifu": "import shared\nimport shared\nprint(value())\n",
		"/virtual/shared.waifu": `desu value():
  shinu 1
`,
	}
	out, sink := runFiles(t, loader, "/virtual/main.waifu")
	require.False(t, sink.HasError())
	assert.Equal(t, "1\n", out)
}

func TestUnusedVariableWarns(t *testing.T) {
	_, sink := run(t, "baka x <- 1\nprint(2)\n")
	assert.False(t, sink.HasError())
	found := false
	for _, d := range sink.All() {
		if d.Severity == diag.Warning {
			found = true
		}
	}
	assert.True(t, found)
}
