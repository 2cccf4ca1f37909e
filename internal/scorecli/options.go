package scorecli

import (
	"errors"
	"flag"
	"fmt"
	"io"

	"healdette/core/similarity"
	"healdette/internal/clibase"
	"healdette/internal/cliutil"
	"healdette/internal/engine"
)

// Options are the healdette-score flags.
type Options struct {
	clibase.Common

	// Scoring
	Chain            string
	SkipPopulation   bool
	Similarity       float64 // antibody library threshold, 0=off
	SignalConfidence float64
	Redundancy       float64 // pairwise redundancy threshold, 0=off

	// Filtering / presentation
	ValidOnly    bool
	PassedTriage bool
	MinScore     float64
	Rank         bool
	Pretty       bool
}

func NewFlagSet(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	clibase.UsageCommon(fs, name, func(out io.Writer, def func(string) string) {
		_, _ = fmt.Fprintln(out, "Usage:")
		_, _ = fmt.Fprintf(out, "  %s [options] --ref ref.yaml candidates.fa [more.fa ...]\n", name)

		_, _ = fmt.Fprintln(out, "\nScoring:")
		_, _ = fmt.Fprintln(out, "      --chain string          Treat candidates as antibody chains: heavy | light (enables CDRs)")
		_, _ = fmt.Fprintf(out, "      --skip-population       Skip ancestry-weighted population scoring [%s]\n", def("skip-population"))
		_, _ = fmt.Fprintf(out, "      --similarity float      Report library antibodies at or above this similarity (0=off) [%s]\n", def("similarity"))
		_, _ = fmt.Fprintf(out, "      --signal-confidence float  Signal peptide confidence threshold [%s]\n", def("signal-confidence"))
		_, _ = fmt.Fprintf(out, "      --redundancy float      Warn about candidate groups above this similarity (0=off) [%s]\n", def("redundancy"))

		_, _ = fmt.Fprintln(out, "\nFiltering:")
		_, _ = fmt.Fprintf(out, "      --valid-only            Only report candidates that pass every check [%s]\n", def("valid-only"))
		_, _ = fmt.Fprintf(out, "      --passed-triage         Only report candidates that pass triage [%s]\n", def("passed-triage"))
		_, _ = fmt.Fprintf(out, "      --min-score float       Minimum weighted population score (0=off) [%s]\n", def("min-score"))
		_, _ = fmt.Fprintf(out, "      --rank                  Order valid candidates first, best score first [%s]\n", def("rank"))
		_, _ = fmt.Fprintf(out, "      --pretty                Annotated sequence block after each row (text) [%s]\n", def("pretty"))
		_, _ = fmt.Fprintln(out, "      --examples              Show quickstart examples and exit")
	})
	return fs
}

func Parse() (Options, error) { return ParseArgs(NewFlagSet("healdette-score"), nil) }

// PrintExamples prints a short quickstart for healdette-score.
func PrintExamples(out io.Writer) {
	clibase.PrintExamples(out, "healdette-score", func(w io.Writer) {
		_, _ = fmt.Fprintln(w, "Score protein candidates against population reference data.")
		_, _ = fmt.Fprintln(w, "\nExamples:")
		_, _ = fmt.Fprintln(w, "  healdette-score --ref reference.yaml binders.fa")
		_, _ = fmt.Fprintln(w, "  healdette-score --ref reference.yaml --valid-only --rank -o json binders.fa.gz")
		_, _ = fmt.Fprintf(w, "  healdette-score --ref reference.yaml --chain heavy --similarity %g --pretty vh.fa\n", similarity.DefaultLibraryCutoff)
		_, _ = fmt.Fprintf(w, "  healdette-score --ref reference.yaml --passed-triage --redundancy %g binders.fa\n", similarity.DefaultThreshold)
	})
}

func ParseArgs(fs *flag.FlagSet, argv []string) (Options, error) {
	var o Options
	var help bool
	var showExamples bool

	var c clibase.Common
	noHeader := clibase.Register(fs, &c)

	fs.StringVar(&o.Chain, "chain", engine.ChainNone, "antibody chain: heavy | light")
	fs.BoolVar(&o.SkipPopulation, "skip-population", false, "skip population scoring [false]")
	fs.Float64Var(&o.Similarity, "similarity", 0, "library similarity threshold (0=off) [0]")
	fs.Float64Var(&o.SignalConfidence, "signal-confidence", 0.6, "signal peptide confidence threshold [0.6]")
	fs.Float64Var(&o.Redundancy, "redundancy", 0, "redundancy warning threshold, strict (0=off) [0]")
	fs.BoolVar(&o.ValidOnly, "valid-only", false, "only report valid candidates [false]")
	fs.BoolVar(&o.PassedTriage, "passed-triage", false, "only report candidates that pass triage [false]")
	fs.Float64Var(&o.MinScore, "min-score", 0, "minimum weighted population score (0=off) [0]")
	fs.BoolVar(&o.Rank, "rank", false, "rank output [false]")
	fs.BoolVar(&o.Pretty, "pretty", false, "annotated sequence block (text) [false]")

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
	if len(o.SeqFiles) == 0 {
		return errors.New("at least one sequence file is required")
	}
	switch o.Chain {
	case engine.ChainNone, engine.ChainHeavy, engine.ChainLight:
	default:
		return fmt.Errorf("invalid --chain %q (want heavy | light)", o.Chain)
	}
	for name, v := range map[string]float64{
		"--similarity":        o.Similarity,
		"--signal-confidence": o.SignalConfidence,
		"--redundancy":        o.Redundancy,
		"--min-score":         o.MinScore,
	} {
		if v < 0 || v > 1 {
			return fmt.Errorf("%s must be within [0,1], got %g", name, v)
		}
	}
	if o.SkipPopulation && o.MinScore > 0 {
		return errors.New("--min-score needs population scoring (drop --skip-population)")
	}
	return nil
}
