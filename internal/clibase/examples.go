// internal/clibase/examples.go
package clibase

import (
	"errors"
	"fmt"
	"io"
)

// ErrPrintedAndExitOK is returned by the tool parsers for --examples; the
// app prints the quickstart and exits 0.
var ErrPrintedAndExitOK = errors.New("examples requested")

// PrintExamples writes a quickstart block for name: a title, the body and a
// pointer to the full flag list.
func PrintExamples(out io.Writer, name string, body func(io.Writer)) {
	if out == nil {
		return
	}
	_, _ = fmt.Fprintf(out, "%s – quickstart\n\n", name)
	if body != nil {
		body(out)
	}
	_, _ = fmt.Fprintf(out, "\nRun %s --help for every flag.\n", name)
}
