package maincmd

import (
	"fmt"
	"os"

	"github.com/mna/mainer"

	"github.com/waifu-lang/waifu/internal/diag"
	"github.com/waifu-lang/waifu/lang/module"
	"github.com/waifu-lang/waifu/stdlib"
)

// run drives the full lexer/parser/resolver/evaluator pipeline over the
// entry source at path and reports diagnostics to stdio.Stderr as
// internal/diag formats them ("In module <path> Line[<n>]: <message>"),
// per spec.md §7. A non-nil return means the process must exit nonzero.
func run(stdio mainer.Stdio, path string) error {
	workDir, err := os.Getwd()
	if err != nil {
		fmt.Fprintf(stdio.Stderr, "%s: %s\n", binName, err)
		return err
	}

	sink := diag.New(stdio.Stderr, "")
	hostNames := stdlib.Names()
	hostFns := stdlib.Builtins(stdio.Stdout, stdio.Stdin)

	mgr := module.NewManager(module.FileLoader{}, workDir, sink, hostNames, hostFns)
	if err := mgr.Run(path); err != nil {
		if !sink.HasError() {
			// Reading the entry file itself failed, before any module identity
			// existed for the sink to tag a diagnostic with.
			fmt.Fprintf(stdio.Stderr, "%s: %s\n", binName, err)
		}
		return err
	}
	return nil
}
