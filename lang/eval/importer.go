package eval

import "github.com/waifu-lang/waifu/lang/values"

// Importer is implemented by the module manager (lang/module) and invoked
// by the evaluator whenever it executes an Import statement. It is the seam
// that lets lang/eval stay ignorant of lang/module's load/cycle-detection
// bookkeeping while lang/module reuses lang/eval to run each module's
// pipeline — without this interface the two packages would import each
// other.
//
// Grounded on the re-architecture DESIGN NOTES section: "Module registry as
// process-wide state... Model it as an explicit Interpreter value threaded
// through the pipeline, modules reference the interpreter via a
// back-handle, not a global" — Importer is that back-handle, scoped to
// exactly the one operation the evaluator needs from it.
type Importer interface {
	// Import loads (if necessary) and evaluates the module named by parts
	// (Dotted split on '.', one empty leading element per leading dot) and
	// returns every name bound in its top frame at the moment its
	// evaluation completed. line is the Import statement's line, used to
	// anchor a cyclic-dependency or unresolvable-path diagnostic.
	Import(parts []string, line int) (map[string]values.Value, error)
}
