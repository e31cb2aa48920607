package eval

import "github.com/waifu-lang/waifu/lang/values"

// signalKind tags the non-local exit a statement's execution produced, per
// the redesign flag in SPEC_FULL.md: the source used host-language
// exceptions for break/continue/return, which Go re-architects as an
// explicit tagged result threaded back up through the statement evaluators
// instead of a panic/recover or an error type switch.
type signalKind int

const (
	sigNone signalKind = iota
	sigBreak
	sigContinue
	sigReturn
)

// signal is the tagged result every statement-executing method returns
// alongside its error: sigNone carries no payload, sigReturn carries the
// returned value, sigBreak/sigContinue carry nothing (their effect is
// purely "stop propagating further statements in this construct").
type signal struct {
	kind  signalKind
	value values.Value
}

var none = signal{kind: sigNone}

func breakSignal() signal    { return signal{kind: sigBreak} }
func continueSignal() signal { return signal{kind: sigContinue} }
func returnSignal(v values.Value) signal { return signal{kind: sigReturn, value: v} }
