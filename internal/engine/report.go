package engine

import (
	"healdette/core/cdr"
	"healdette/core/population"
	"healdette/core/props"
	"healdette/core/similarity"
	"healdette/core/structure"
)

// Triage is the pass/fail verdict against the batch criteria.
type Triage struct {
	Pass    bool
	Reasons []string
}

// Report is everything the evaluator learned about one sequence.
type Report struct {
	ID          string
	Description string
	SourceFile  string
	Sequence    string
	Length      int

	Properties    props.Properties
	Disorder      float64
	Cysteines     structure.CysteineAnalysis
	Signal        structure.SignalPeptide
	Glycosylation []structure.GlycoSite
	Complexity    structure.Complexity

	Chain       string
	CDR         *cdr.Result // nil unless a chain was requested
	CDRWarnings []string

	Population *population.ValidationResult // nil without population profiles
	Similar    []similarity.Match

	Triage Triage
	Err    error // per-sequence failure; the other fields are zero
}

// Valid reports whether the sequence passed triage and, when scored,
// population validation.
func (r Report) Valid() bool {
	if r.Err != nil || !r.Triage.Pass {
		return false
	}
	return r.Population == nil || r.Population.Valid
}

// PopulationScore is the weighted population score, or 0 when unscored.
func (r Report) PopulationScore() float64 {
	if r.Population == nil {
		return 0
	}
	return r.Population.WeightedScore
}
