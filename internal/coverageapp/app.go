// internal/coverageapp/app.go
package coverageapp

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"

	"healdette/core/coverage"
	"healdette/core/fasta"
	"healdette/internal/appcore"
	"healdette/internal/clibase"
	"healdette/internal/cmdutil"
	"healdette/internal/coveragecli"
	"healdette/internal/output"
	"healdette/internal/refdata"
	"healdette/internal/version"
	"healdette/internal/writers"
	"healdette/pkg/api"
)

const name = "healdette-coverage"

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

	fs := coveragecli.NewFlagSet(name)
	fs.SetOutput(io.Discard)

	if len(argv) == 0 {
		_, _ = coveragecli.ParseArgs(fs, []string{"-h"})
		fs.SetOutput(outw)
		fs.Usage()
		return flush(outw, stderr, cmdutil.ExitOK)
	}

	opts, err := coveragecli.ParseArgs(fs, argv)
	if err != nil {
		switch {
		case errors.Is(err, clibase.ErrPrintedAndExitOK):
			coveragecli.PrintExamples(outw)
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
	tab := ref.Table()

	var sel coverage.Selection
	if len(opts.Alleles) > 0 {
		sel, err = coverage.EvaluateAlleles(tab, opts.Alleles, opts.Target, opts.Populations)
	} else {
		sel, err = coverage.SelectOptimalAlleles(tab, opts.Target, opts.Populations)
	}
	if err != nil {
		cmdutil.Errorf(stderr, "%v", err)
		return cmdutil.ExitUsage
	}

	v := output.ToAPISelection(appcore.NewRunID(), opts.Target, sel)
	if err := annotate(&v, tab, sel, opts); err != nil {
		cmdutil.Errorf(stderr, "%v", err)
		return cmdutil.ExitUsage
	}
	if len(opts.SeqFiles) > 0 {
		recs, err := fasta.ReadAll(parent, opts.SeqFiles)
		if err != nil {
			if errors.Is(err, context.Canceled) {
				return cmdutil.ExitCanceled
			}
			cmdutil.Errorf(stderr, "%v", err)
			return cmdutil.ExitIO
		}
		for _, r := range recs {
			rep, err := coverage.EpitopeCoverage(tab, r.Seq, sel.Populations, opts.Target)
			if err != nil {
				cmdutil.Warnf(stderr, opts.Quiet, "%s: %v", r.ID, err)
			}
			v.Epitope = append(v.Epitope, output.ToAPIEpitope(r.ID, rep, err))
		}
	}

	for _, w := range sel.Warnings {
		cmdutil.Warnf(stderr, opts.Quiet, "%s", w)
	}
	if err := writers.WriteSelection(outw, opts.Output, opts.Header, v); err != nil {
		if writers.IsBrokenPipe(err) {
			return cmdutil.ExitOK
		}
		_, _ = fmt.Fprintln(stderr, err)
		return cmdutil.ExitIO
	}
	code := cmdutil.ExitOK
	if !sel.TargetMet {
		code = opts.NoValidExitCode
	}
	return flush(outw, stderr, code)
}

// annotate fills the optional sections requested on the command line.
func annotate(v *api.SelectionV1, tab coverage.Table, sel coverage.Selection, opts coveragecli.Options) error {
	if opts.CommonThreshold > 0 {
		common := map[string]map[string][]string{}
		for _, p := range sel.Populations {
			c, err := coverage.CommonAlleles(tab, p, opts.CommonThreshold)
			if err != nil {
				return err
			}
			common[p] = c
		}
		v.Common = output.ToAPICommon(common)
	}
	if opts.Linked {
		v.Linked = map[string][]api.LinkedV1{}
		for _, a := range sel.Alleles {
			for _, p := range sel.Populations {
				if ls := coverage.LinkedAlleles(tab, a, p); len(ls) > 0 {
					v.Linked[a] = append(v.Linked[a], output.ToAPILinked(p, ls)...)
				}
			}
		}
	}
	if opts.Binding {
		b, err := coverage.AnalyzeBinding(tab, opts.PeptideLengths, sel.Populations)
		if err != nil {
			return err
		}
		v.Binding = output.ToAPIBinding(b)
	}
	return nil
}

func Run(argv []string, stdout, stderr io.Writer) int {
	return RunContext(context.Background(), argv, stdout, stderr)
}
