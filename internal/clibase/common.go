// internal/clibase/common.go
package clibase

import (
	"errors"
	"flag"
	"fmt"

	"healdette/internal/cliutil"
	"healdette/internal/cmdutil"
	"healdette/internal/output"
)

// Common holds CLI fields shared by healdette-score and healdette-coverage.
type Common struct {
	// Input
	Ref      string
	SeqFiles []string

	// Performance
	Threads int

	// Output
	Output          string // text|json|jsonl
	Header          bool
	NoValidExitCode int

	// Misc
	Quiet    bool
	Progress bool
	Version  bool
}

// Register wires shared flags onto fs and returns a pointer to the “no-header” bool
// that the caller can use to set Common.Header = !noHeader after parsing.
func Register(fs *flag.FlagSet, c *Common) *bool {
	// Inputs
	fs.StringVar(&c.Ref, "ref", "", "reference data (.json, .yaml, .yml)")
	fs.StringVar(&c.Ref, "R", "", "alias of --ref")
	seqVal := cliutil.StringSlice{Dst: &c.SeqFiles}
	fs.Var(seqVal, "sequences", "protein FASTA file(s) (repeatable) or '-'")
	fs.Var(seqVal, "s", "alias of --sequences")

	// Performance
	fs.IntVar(&c.Threads, "threads", 0, "worker threads (0=all CPUs) [0]")
	fs.IntVar(&c.Threads, "t", 0, "alias of --threads")

	// Output
	fs.StringVar(&c.Output, "output", output.FormatText, "output: text | json | jsonl [text]")
	fs.StringVar(&c.Output, "o", output.FormatText, "alias of --output")
	noHeader := false
	fs.BoolVar(&noHeader, "no-header", false, "suppress header line [false]")
	fs.IntVar(&c.NoValidExitCode, "no-valid-exit-code", cmdutil.ExitNoValid, "exit code when nothing passes [1]")

	// Misc
	fs.BoolVar(&c.Quiet, "quiet", false, "suppress non-essential warnings [false]")
	fs.BoolVar(&c.Quiet, "q", false, "alias of --quiet")
	fs.BoolVar(&c.Progress, "progress", false, "progress bar on stderr [false]")
	fs.BoolVar(&c.Version, "v", false, "print version and exit [false]")
	fs.BoolVar(&c.Version, "version", false, "print version and exit [false]")

	return &noHeader
}

// AfterParse finalizes header and expands positionals, then runs shared validation.
func AfterParse(fs *flag.FlagSet, c *Common, noHeader *bool, posArgs []string) error {
	c.Header = !*noHeader

	if len(posArgs) > 0 {
		exp, err := cliutil.ExpandPositionals(posArgs)
		if err != nil {
			return err
		}
		c.SeqFiles = append(c.SeqFiles, exp...)
	}
	return Validate(c)
}

// Validate applies shared CLI invariants used by all tools. Whether
// sequences are required is up to each tool.
func Validate(c *Common) error {
	if c.Ref == "" {
		return errors.New("--ref is required")
	}
	if c.Threads < 0 {
		return errors.New("--threads must be ≥ 0")
	}
	switch c.Output {
	case output.FormatText, output.FormatJSON, output.FormatJSONL:
	default:
		return fmt.Errorf("invalid --output %q", c.Output)
	}
	if c.NoValidExitCode < 0 || c.NoValidExitCode > 255 {
		return errors.New("--no-valid-exit-code must be between 0 and 255")
	}
	stdin := 0
	for _, f := range c.SeqFiles {
		if f == "-" {
			stdin++
		}
	}
	if stdin > 1 {
		return errors.New("'-' (stdin) may be given only once")
	}
	return nil
}
