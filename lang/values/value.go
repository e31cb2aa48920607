// Package values defines the runtime value model the evaluator manipulates:
// the tagged sum of nil, boolean, number, string, and callable described in
// the language's data model, plus the Waifu-representation string form
// shared by print, string concatenation, and input.
//
// Grounded on the teacher's lang/types package (a Value interface
// implemented by one small wrapper type per primitive kind, each file named
// after its type), trimmed to the primitives Waifu actually has: there is no
// Ordered/Iterable/Sliceable/Mapping lattice here, since Waifu has no
// collections, only the five-way sum the spec's data model names. Class and
// Instance are defined in package eval instead of here, since constructing
// an instance requires invoking a user-defined constructor method, which
// only the evaluator knows how to do.
package values

// Value is implemented by every runtime value: nil, bool, number, string,
// and every Callable (user function, bound method, class, host function).
type Value interface {
	// String returns the Waifu-representation of the value (see Repr).
	String() string
	// Type returns a short name for the value's type, used in error messages.
	Type() string
	// Truth reports the value's truthiness: nil and false are falsy,
	// everything else — including 0 and "" — is truthy.
	Truth() bool
}

// Callable is implemented by every value that may appear as the callee of a
// Call expression: user functions, bound methods, classes (as constructors),
// and host functions such as print and input.
//
// Unlike the teacher's CallInternal(thread, args, kwargs), Call takes no
// interpreter argument: every Go implementation of this interface already
// closes over whatever state it needs (a closure frame, an evaluator
// back-reference, a receiver), so there is nothing left for a caller to
// thread through. This is the Go-idiomatic replacement for the source
// language's explicit `call(interpreter, args)` contract.
type Callable interface {
	Value
	// Name returns the callable's name, or "" for an anonymous lambda.
	Name() string
	// Arity returns the number of positional parameters the callable expects.
	Arity() int
	// Call invokes the callable with the given positional arguments, already
	// checked for arity by the caller.
	Call(args []Value) (Value, error)
}

// Repr returns v's Waifu-representation: the canonical string form shared
// by print, string concatenation (`+` with a non-number operand), and
// input's return value. Every Value's String method already implements this
// per its own kind (NilType -> "baito", Number -> no trailing ".0" for
// integer-valued numbers, Str -> its raw content unquoted), so Repr is
// simply v.String() — kept as a named function so call sites document which
// of Go's many string-producing conventions they mean.
func Repr(v Value) string { return v.String() }

// Equal reports whether x and y are equal under Waifu's equality rule:
// structural equality for primitives (nil, bool, number, string), identity
// for everything else (functions, classes, instances).
func Equal(x, y Value) bool {
	switch x := x.(type) {
	case NilType:
		_, ok := y.(NilType)
		return ok
	case Bool:
		yb, ok := y.(Bool)
		return ok && x == yb
	case Number:
		yn, ok := y.(Number)
		return ok && x == yn
	case Str:
		ys, ok := y.(Str)
		return ok && x == ys
	default:
		return x == y
	}
}
