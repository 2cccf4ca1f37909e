// internal/scoreapp/app.go
package scoreapp

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"

	"healdette/internal/appcore"
	"healdette/internal/clibase"
	"healdette/internal/cmdutil"
	"healdette/internal/engine"
	"healdette/internal/refdata"
	"healdette/internal/scorecli"
	"healdette/internal/version"
	"healdette/internal/visitors"
	"healdette/internal/writers"
)

const name = "healdette-score"

// flush writes out buffered output and maps write failures to exit codes.
func flush(outw *bufio.Writer, stderr io.Writer, code int) int {
	if e := outw.Flush(); writers.IsBrokenPipe(e) {
		return cmdutil.ExitOK
	} else if e != nil {
		_, _ = fmt.Fprintln(stderr, e)
		return cmdutil.ExitIO
	}
	return code
}

func RunContext(parent context.Context, argv []string, stdout, stderr io.Writer) int {
	outw := bufio.NewWriter(stdout)
	defer func() { _ = outw.Flush() }()

	fs := scorecli.NewFlagSet(name)
	fs.SetOutput(io.Discard)

	if len(argv) == 0 {
		_, _ = scorecli.ParseArgs(fs, []string{"-h"})
		fs.SetOutput(outw)
		fs.Usage()
		return flush(outw, stderr, cmdutil.ExitOK)
	}

	opts, err := scorecli.ParseArgs(fs, argv)
	if err != nil {
		switch {
		case errors.Is(err, clibase.ErrPrintedAndExitOK):
			scorecli.PrintExamples(outw)
			return flush(outw, stderr, cmdutil.ExitOK)
		case errors.Is(err, flag.ErrHelp):
			fs.SetOutput(outw)
			fs.Usage()
			return flush(outw, stderr, cmdutil.ExitOK)
		}
		_, _ = fmt.Fprintln(stderr, err)
		fs.SetOutput(outw)
		fs.Usage()
		return flush(outw, stderr, cmdutil.ExitUsage)
	}

	if opts.Version {
		_, _ = fmt.Fprintf(outw, "%s version %s\n", name, version.Version)
		return flush(outw, stderr, cmdutil.ExitOK)
	}

	ref, err := refdata.Load(opts.Ref)
	if err != nil {
		cmdutil.Errorf(stderr, "%v", err)
		return cmdutil.ExitUsage
	}
	if opts.Similarity > 0 && len(ref.Antibodies) == 0 {
		cmdutil.Warnf(stderr, opts.Quiet, "--similarity given but %s has no antibodies", opts.Ref)
	}

	eo := engine.DefaultOptions()
	eo.Chain = opts.Chain
	eo.SkipPopulation = opts.SkipPopulation
	eo.SimilarityThreshold = opts.Similarity
	eo.Signal.ConfidenceThreshold = opts.SignalConfidence
	ev, err := engine.New(ref, eo)
	if err != nil {
		cmdutil.Errorf(stderr, "%v", err)
		return cmdutil.ExitUsage
	}

	coreOpts := appcore.Options{
		SeqFiles:        opts.SeqFiles,
		Threads:         opts.Threads,
		Redundancy:      opts.Redundancy,
		Quiet:           opts.Quiet,
		Progress:        opts.Progress,
		NoValidExitCode: opts.NoValidExitCode,
	}
	writer := appcore.NewReportWriterFactory(opts.Output, opts.Header, opts.Pretty, opts.Rank, appcore.NewRunID())

	visit := visitors.PassThrough{}.Visit
	if opts.ValidOnly || opts.PassedTriage || opts.MinScore > 0 {
		visit = visitors.Filter{
			ValidOnly:          opts.ValidOnly,
			PassedTriage:       opts.PassedTriage,
			MinPopulationScore: opts.MinScore,
		}.Visit
	}
	return appcore.Run[engine.Report](parent, stdout, stderr, coreOpts, ev, visit, writer)
}

func Run(argv []string, stdout, stderr io.Writer) int {
	return RunContext(context.Background(), argv, stdout, stderr)
}
