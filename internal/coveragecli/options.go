package coveragecli

import (
	"errors"
	"flag"
	"fmt"
	"io"

	"healdette/core/coverage"
	"healdette/internal/clibase"
	"healdette/internal/cliutil"
)

// Options are the healdette-coverage flags. Positional FASTA files are
// optional; when given, each sequence gets an epitope coverage entry.
type Options struct {
	clibase.Common

	Target          float64
	Populations     []string
	Alleles         []string // fixed set to evaluate instead of selecting
	CommonThreshold float64 // 0=off
	Linked          bool
	Binding         bool
	PeptideLengths  []int
}

func NewFlagSet(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	clibase.UsageCommon(fs, name, func(out io.Writer, def func(string) string) {
		_, _ = fmt.Fprintln(out, "Usage:")
		_, _ = fmt.Fprintf(out, "  %s [options] --ref ref.yaml [--population P]... [epitopes.fa ...]\n", name)

		_, _ = fmt.Fprintln(out, "\nCoverage:")
		_, _ = fmt.Fprintf(out, "      --target float          Minimum per-population coverage to reach [%s]\n", def("target"))
		_, _ = fmt.Fprintln(out, "  -P, --population string     Population to cover (repeatable; default all)")
		_, _ = fmt.Fprintln(out, "  -A, --allele string         Evaluate this allele set instead of selecting (repeatable)")
		_, _ = fmt.Fprintf(out, "      --common float          List alleles at or above this frequency (0=off) [%s]\n", def("common"))
		_, _ = fmt.Fprintf(out, "      --linked                List haplotypes carrying each selected allele [%s]\n", def("linked"))
		_, _ = fmt.Fprintf(out, "      --binding               Strong-binder analysis per population [%s]\n", def("binding"))
		_, _ = fmt.Fprintf(out, "      --peptide-lengths list  Peptide lengths for --binding [%s]\n", def("peptide-lengths"))
		_, _ = fmt.Fprintln(out, "      --examples              Show quickstart examples and exit")
	})
	return fs
}

func Parse() (Options, error) { return ParseArgs(NewFlagSet("healdette-coverage"), nil) }

// PrintExamples prints a short quickstart for healdette-coverage.
func PrintExamples(out io.Writer) {
	clibase.PrintExamples(out, "healdette-coverage", func(w io.Writer) {
		_, _ = fmt.Fprintln(w, "Greedy HLA allele selection for population coverage.")
		_, _ = fmt.Fprintln(w, "\nExamples:")
		_, _ = fmt.Fprintln(w, "  healdette-coverage --ref reference.yaml --target 0.9")
		_, _ = fmt.Fprintln(w, "  healdette-coverage --ref reference.yaml -P celtic_british --linked --common 0.1")
		_, _ = fmt.Fprintln(w, "  healdette-coverage --ref reference.yaml --binding -o json epitopes.fa")
	})
}

func ParseArgs(fs *flag.FlagSet, argv []string) (Options, error) {
	var o Options
	var help bool
	var showExamples bool

	var c clibase.Common
	noHeader := clibase.Register(fs, &c)

	o.PeptideLengths = append([]int{}, coverage.EpitopePeptideLengths...)
	fs.Float64Var(&o.Target, "target", 0.85, "minimum per-population coverage [0.85]")
	pops := cliutil.StringSlice{Dst: &o.Populations}
	fs.Var(pops, "population", "population to cover (repeatable)")
	fs.Var(pops, "P", "alias of --population")
	alleles := cliutil.StringSlice{Dst: &o.Alleles}
	fs.Var(alleles, "allele", "allele to evaluate (repeatable)")
	fs.Var(alleles, "A", "alias of --allele")
	fs.Float64Var(&o.CommonThreshold, "common", 0, "common allele frequency threshold (0=off) [0]")
	fs.BoolVar(&o.Linked, "linked", false, "list linked haplotypes [false]")
	fs.BoolVar(&o.Binding, "binding", false, "strong-binder analysis [false]")
	fs.Var(cliutil.IntList{Dst: &o.PeptideLengths}, "peptide-lengths", "comma-separated peptide lengths")

	fs.BoolVar(&help, "h", false, "show this help [false]")
	fs.BoolVar(&showExamples, "examples", false, "show quickstart examples and exit [false]")

	flagArgs, posArgs := cliutil.SplitFlagsAndPositionals(fs, argv)
	if err := fs.Parse(flagArgs); err != nil {
		return o, err
	}
	if showExamples {
		return o, clibase.ErrPrintedAndExitOK
	}
	if help {
		return o, flag.ErrHelp
	}
	if c.Version {
		o.Common = c
		return o, nil
	}

	if err := clibase.AfterParse(fs, &c, noHeader, posArgs); err != nil {
		return o, err
	}
	o.Common = c
	return o, validate(o)
}

func validate(o Options) error {
	if o.Target <= 0 || o.Target > 1 {
		return fmt.Errorf("--target must be within (0,1], got %g", o.Target)
	}
	if o.CommonThreshold < 0 || o.CommonThreshold > 1 {
		return fmt.Errorf("--common must be within [0,1], got %g", o.CommonThreshold)
	}
	if o.Binding && len(o.PeptideLengths) == 0 {
		return errors.New("--binding needs at least one peptide length")
	}
	return nil
}
