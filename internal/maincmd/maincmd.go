// Package maincmd wires the waifu CLI: argument parsing, Stdio threading,
// and exit codes, using the teacher's own mainer.Cmd contract. Unlike the
// teacher's multi-subcommand compiler frontend (parse/resolve/tokenize
// introspection tools over a partial pipeline), Waifu's CLI is the single
// subcommand-less entry point spec.md §6 describes: a path in, a process
// exit code out. The pipeline invocation itself (reading the source,
// driving the module manager) lives in run.go.
package maincmd

import (
	"fmt"

	"github.com/mna/mainer"
)

const binName = "waifu"

var shortUsage = fmt.Sprintf(`usage: %s <path>
       %[1]s -h|--help
       %[1]s -v|--version
`, binName)

// Cmd is the mainer.Cmd implementation for the waifu binary: one positional
// argument, the filesystem path to the entry source.
type Cmd struct {
	BuildVersion string
	BuildDate    string

	Help    bool `flag:"h,help"`
	Version bool `flag:"v,version"`

	args []string
}

func (c *Cmd) SetArgs(args []string)          { c.args = args }
func (c *Cmd) SetFlags(flags map[string]bool) {}

// Validate enforces spec.md §6's "any other argument count prints a
// one-line usage and exits nonzero" rule.
func (c *Cmd) Validate() error {
	if c.Help || c.Version {
		return nil
	}
	if len(c.args) != 1 {
		return fmt.Errorf("expected exactly one path argument, got %d", len(c.args))
	}
	return nil
}

// Main parses flags, then — absent -h/-v — hands the single path argument
// to run, which drives the lexer/parser/resolver/evaluator pipeline and
// reports the process's exit code per spec.md §6/§7.
func (c *Cmd) Main(args []string, stdio mainer.Stdio) mainer.ExitCode {
	p := mainer.Parser{
		EnvVars:   false,
		EnvPrefix: binName + "_",
	}
	if err := p.Parse(args, c); err != nil {
		fmt.Fprintf(stdio.Stderr, "%s\n%s", err, shortUsage)
		return mainer.InvalidArgs
	}

	switch {
	case c.Help:
		fmt.Fprint(stdio.Stdout, shortUsage)
		return mainer.Success
	case c.Version:
		fmt.Fprintf(stdio.Stdout, "%s %s %s\n", binName, c.BuildVersion, c.BuildDate)
		return mainer.Success
	}

	if err := run(stdio, c.args[0]); err != nil {
		return mainer.Failure
	}
	return mainer.Success
}
