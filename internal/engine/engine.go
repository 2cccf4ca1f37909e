package engine

import (
	"fmt"

	"healdette/core/cdr"
	"healdette/core/population"
	"healdette/core/props"
	"healdette/core/residue"
	"healdette/core/similarity"
	"healdette/core/structure"
	"healdette/internal/refdata"
)

// Chain selects which antibody chain a candidate is treated as.
const (
	ChainNone  = ""
	ChainHeavy = "heavy"
	ChainLight = "light"
)

// Options tune an Evaluator beyond what the reference data carries.
type Options struct {
	Signal structure.SignalConfig

	// Chain enables CDR extraction and picks the default anchors, the CDR
	// length ranges and the library chain to compare against.
	Chain   string
	Anchors *cdr.Anchors // overrides the chain default

	SkipPopulation bool

	// SimilarityThreshold enables the antibody library search; 0 disables it.
	SimilarityThreshold float64
}

// DefaultOptions returns the stock signal thresholds with every optional
// analysis off.
func DefaultOptions() Options {
	return Options{Signal: structure.DefaultSignalConfig()}
}

// Evaluator is safe for concurrent use; it only reads shared state.
type Evaluator struct {
	opts     Options
	criteria refdata.Criteria
	profiles []population.Profile
	popCfg   population.Config
	anchors  cdr.Anchors
	lengths  cdr.LengthRanges
	library  []similarity.Antibody
}

// New builds an Evaluator over ref, which must not be modified afterwards.
func New(ref *refdata.Reference, o Options) (*Evaluator, error) {
	e := &Evaluator{
		opts:     o,
		criteria: ref.Criteria,
		popCfg:   ref.PopulationConfig(),
		library:  ref.Antibodies,
	}
	switch o.Chain {
	case ChainNone:
	case ChainHeavy:
		e.anchors, e.lengths = cdr.HeavyChainAnchors, ref.CDRLengths.Heavy
	case ChainLight:
		e.anchors, e.lengths = cdr.LightChainAnchors, ref.CDRLengths.Light
	default:
		return nil, fmt.Errorf("engine: unknown chain %q (want %s|%s)", o.Chain, ChainHeavy, ChainLight)
	}
	if o.Anchors != nil {
		e.anchors = *o.Anchors
	}
	if !o.SkipPopulation {
		e.profiles = ref.Profiles()
	}
	return e, nil
}

// Evaluate runs every analysis on one sequence. Alphabet and empty-input
// failures land in Report.Err and never abort the caller.
func (e *Evaluator) Evaluate(id, raw string) Report {
	r := Report{ID: id}
	s, err := residue.ValidateNonEmpty(raw)
	if err != nil {
		r.Sequence, r.Length = raw, len(raw)
		r.Err = fmt.Errorf("%s: %w", id, err)
		r.Triage = Triage{Reasons: []string{err.Error()}}
		return r
	}
	r.Sequence, r.Length = s, len(s)

	// s is validated, so the analyses below cannot fail.
	r.Properties, _ = props.Summarize(s)
	r.Disorder, _ = structure.PredictDisorder(s)
	r.Cysteines, _ = structure.AnalyzeCysteines(s)
	r.Signal, _ = structure.CheckSignalPeptide(s, e.opts.Signal)
	r.Glycosylation, _ = structure.FindGlycosylationSites(s)
	r.Complexity, _ = structure.AnalyzeComplexity(s)

	if e.opts.Chain != ChainNone {
		res, _ := cdr.Extract(s, e.anchors)
		r.Chain, r.CDR = e.opts.Chain, &res
		r.CDRWarnings = cdr.CheckLengths(res, e.lengths)
	}
	if len(e.profiles) > 0 {
		// Validate reports its own failures through the result.
		v, _ := population.Validate(s, e.profiles, e.popCfg)
		r.Population = &v
	}
	if e.opts.SimilarityThreshold > 0 && len(e.library) > 0 {
		r.Similar = similarity.FindSimilarChain(s, e.opts.Chain == ChainLight, e.library, e.opts.SimilarityThreshold)
	}

	r.Triage = Assess(r, e.criteria)
	return r
}
