package eval

import "fmt"

// RuntimeError is the error type every evaluator method returns for a
// type mismatch, divide-by-zero, unresolved name, bad arity, non-callable
// call target, missing property, cyclic import, or unresolvable import
// path. The module driver (lang/module) reports it
// through diag.Sink.RuntimeErrorf and stops evaluating the current module,
// per the spec's error-propagation rule: "Runtime errors are reported and
// then terminate the current module's evaluation."
type RuntimeError struct {
	Line    int
	Message string
}

func (e *RuntimeError) Error() string { return e.Message }

func runtimeErrorf(line int, format string, args ...any) *RuntimeError {
	return &RuntimeError{Line: line, Message: fmt.Sprintf(format, args...)}
}

// NewRuntimeError builds a RuntimeError from outside the package — used by
// the module manager to report an import-resolution failure (cyclic
// dependency, unresolvable path) at the Import statement's line, in the
// same shape every other runtime error takes.
func NewRuntimeError(line int, format string, args ...any) *RuntimeError {
	return runtimeErrorf(line, format, args...)
}
