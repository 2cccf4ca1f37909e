// core/coverage/coverage.go
// Greedy HLA allele selection and coarse, length-based binding classes.
// Selection is an approximation with no optimality guarantee.

package coverage

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"healdette/core/mathx"
	"healdette/core/residue"
)

// Selection is the result of SelectOptimalAlleles.
type Selection struct {
	Alleles            []string
	Populations        []string
	PopulationCoverage map[string]float64
	TotalCoverage      float64 // mean of PopulationCoverage
	TargetMet          bool
	Warnings           []string
}

// Err wraps ErrCoverageTargetUnmet when the target was not reached.
func (s Selection) Err() error {
	if s.TargetMet {
		return nil
	}
	return fmt.Errorf("%w: minimum coverage %.3f", ErrCoverageTargetUnmet, s.minCoverage())
}

func (s Selection) minCoverage() float64 {
	m := math.Inf(1)
	for _, p := range s.Populations {
		m = math.Min(m, s.PopulationCoverage[p])
	}
	return m
}

// SelectOptimalAlleles ranks alleles by their mean frequency over the
// populations that list them (ties by name) and adds them until the minimum
// per-population coverage reaches target. Coverage increments are capped at
// 1.0. An empty populations list means every population in the table.
func SelectOptimalAlleles(t Table, target float64, populations []string) (Selection, error) {
	pops, err := t.resolve(populations)
	if err != nil {
		return Selection{}, fmt.Errorf("select alleles: %w", err)
	}

	byAllele := map[string]map[string]float64{}
	for _, p := range pops {
		for a, f := range t.frequencies(p) {
			if byAllele[a] == nil {
				byAllele[a] = map[string]float64{}
			}
			byAllele[a][p] = f
		}
	}
	type ranked struct {
		name string
		mean float64
	}
	order := make([]ranked, 0, len(byAllele))
	for a, pf := range byAllele {
		xs := make([]float64, 0, len(pf))
		for _, p := range pops {
			if f, ok := pf[p]; ok {
				xs = append(xs, f)
			}
		}
		order = append(order, ranked{a, mathx.Mean(xs)})
	}
	sort.Slice(order, func(i, j int) bool {
		if order[i].mean != order[j].mean {
			return order[i].mean > order[j].mean
		}
		return order[i].name < order[j].name
	})

	sel := Selection{
		Populations:        pops,
		PopulationCoverage: make(map[string]float64, len(pops)),
	}
	for _, p := range pops {
		sel.PopulationCoverage[p] = 0
	}
	for _, r := range order {
		if sel.minCoverage() >= target {
			break
		}
		sel.Alleles = append(sel.Alleles, r.name)
		for _, p := range pops {
			if f, ok := byAllele[r.name][p]; ok {
				sel.PopulationCoverage[p] = math.Min(sel.PopulationCoverage[p]+f, 1.0)
			}
		}
	}

	sel.finish(target)
	return sel, nil
}

func (sel *Selection) finish(target float64) {
	xs := make([]float64, len(sel.Populations))
	for i, p := range sel.Populations {
		xs[i] = sel.PopulationCoverage[p]
	}
	sel.TotalCoverage = mathx.Mean(xs)
	sel.TargetMet = sel.minCoverage() >= target
	if !sel.TargetMet {
		sel.Warnings = append(sel.Warnings, fmt.Sprintf("%v: minimum coverage %.3f below target %.3f after %d alleles",
			ErrCoverageTargetUnmet, sel.minCoverage(), target, len(sel.Alleles)))
	}
}

// EvaluateAlleles scores a fixed allele set against target with the same
// bookkeeping as SelectOptimalAlleles. Duplicates are dropped, order kept.
func EvaluateAlleles(t Table, alleles []string, target float64, populations []string) (Selection, error) {
	pops, err := t.resolve(populations)
	if err != nil {
		return Selection{}, fmt.Errorf("evaluate alleles: %w", err)
	}
	sel := Selection{
		Populations:        pops,
		PopulationCoverage: make(map[string]float64, len(pops)),
	}
	seen := map[string]bool{}
	for _, a := range alleles {
		if !seen[a] {
			seen[a] = true
			sel.Alleles = append(sel.Alleles, a)
		}
	}
	for _, p := range pops {
		sel.PopulationCoverage[p], _ = Coverage(t, sel.Alleles, p)
	}
	sel.finish(target)
	return sel, nil
}

// Coverage sums the frequencies of the distinct alleles in population, capped at 1.0.
func Coverage(t Table, alleles []string, pop string) (float64, error) {
	if _, ok := t.Populations[pop]; !ok {
		return 0, fmt.Errorf("coverage: %w: %q", ErrUnknownPopulation, pop)
	}
	freqs := t.frequencies(pop)
	seen := map[string]bool{}
	c := 0.0
	for _, a := range alleles {
		if f, ok := freqs[a]; ok && !seen[a] {
			seen[a] = true
			c += f
		}
	}
	return math.Min(c, 1.0), nil
}

// CommonAlleles lists, per locus, the alleles with frequency >= threshold.
func CommonAlleles(t Table, pop string, threshold float64) (map[string][]string, error) {
	loci, ok := t.Populations[pop]
	if !ok {
		return nil, fmt.Errorf("common alleles: %w: %q", ErrUnknownPopulation, pop)
	}
	out := make(map[string][]string, len(loci))
	for _, locus := range sortedKeys(loci) {
		list := []string{}
		for _, a := range sortedKeys(loci[locus]) {
			if loci[locus][a] >= threshold {
				list = append(list, a)
			}
		}
		out[locus] = list
	}
	return out, nil
}

// Linked is a haplotype containing a queried allele.
type Linked struct {
	Alleles   []string
	Frequency float64
}

// LinkedAlleles returns the haplotypes of pop that carry allele as one of
// their components. Unknown populations have no haplotypes.
func LinkedAlleles(t Table, allele, pop string) []Linked {
	var out []Linked
	for _, h := range t.Haplotypes[pop] {
		parts := strings.Split(h.Haplotype, "-")
		for _, p := range parts {
			if p == allele {
				out = append(out, Linked{Alleles: parts, Frequency: h.Frequency})
				break
			}
		}
	}
	return out
}

// Affinity is the coarse binding class.
type Affinity string

const (
	Strong    Affinity = "STRONG"
	Moderate  Affinity = "MODERATE"
	Weak      Affinity = "WEAK"
	NonBinder Affinity = "NON_BINDER"
)

// PredictBindingAffinity compares peptideLength with the mean preferred
// length of the allele's locus: distance 0 STRONG, <=1 MODERATE, <=2 WEAK,
// else NON_BINDER.
func PredictBindingAffinity(t Table, peptideLength int, allele string) (Affinity, error) {
	locus := LocusOf(allele)
	prefs, ok := t.preferences(locus)
	if !ok {
		return NonBinder, fmt.Errorf("binding affinity: %w %q", ErrUnknownLocus, locus)
	}
	xs := make([]float64, len(prefs))
	for i, p := range prefs {
		xs[i] = float64(p)
	}
	d := math.Abs(float64(peptideLength) - mathx.Mean(xs))
	switch {
	case d == 0:
		return Strong, nil
	case d <= 1:
		return Moderate, nil
	case d <= 2:
		return Weak, nil
	}
	return NonBinder, nil
}

// PopulationBinding summarises strong binders of one population.
type PopulationBinding struct {
	StrongBinders     []string
	Coverage          float64 // capped at 1.0
	AlleleFrequencies map[string]float64
}

// AnalyzeBinding marks an allele a strong binder when at least half of
// lengths classify as STRONG, and sums those alleles' frequencies.
func AnalyzeBinding(t Table, lengths []int, populations []string) (map[string]PopulationBinding, error) {
	if len(lengths) == 0 {
		return nil, fmt.Errorf("binding analysis: no peptide lengths")
	}
	pops, err := t.resolve(populations)
	if err != nil {
		return nil, fmt.Errorf("binding analysis: %w", err)
	}
	out := make(map[string]PopulationBinding, len(pops))
	for _, p := range pops {
		freqs := t.frequencies(p)
		pb := PopulationBinding{AlleleFrequencies: freqs}
		for _, a := range sortedKeys(freqs) {
			strong := 0
			for _, l := range lengths {
				if aff, err := PredictBindingAffinity(t, l, a); err == nil && aff == Strong {
					strong++
				}
			}
			if float64(strong)/float64(len(lengths)) >= 0.5 {
				pb.StrongBinders = append(pb.StrongBinders, a)
				pb.Coverage += freqs[a]
			}
		}
		pb.Coverage = math.Min(pb.Coverage, 1.0)
		out[p] = pb
	}
	return out, nil
}

// EpitopePeptideLengths are the class I peptide lengths analysed by EpitopeCoverage.
var EpitopePeptideLengths = []int{8, 9, 10}

// EpitopeReport combines binding analysis and allele selection for one sequence.
type EpitopeReport struct {
	SequenceLength int
	PeptideLengths []int
	Peptides       map[int]int // length → number of overlapping peptides in the sequence
	Binding        map[string]PopulationBinding
	Selection      Selection
}

// EpitopeCoverage analyses binding across populations and selects alleles
// reaching minCoverage for seq.
func EpitopeCoverage(t Table, seq string, populations []string, minCoverage float64) (EpitopeReport, error) {
	s, err := residue.ValidateNonEmpty(seq)
	if err != nil {
		return EpitopeReport{}, fmt.Errorf("epitope coverage: %w", err)
	}
	rep := EpitopeReport{
		SequenceLength: len(s),
		PeptideLengths: append([]int(nil), EpitopePeptideLengths...),
		Peptides:       make(map[int]int, len(EpitopePeptideLengths)),
	}
	for _, l := range EpitopePeptideLengths {
		rep.Peptides[l] = max(0, len(s)-l+1)
	}
	if rep.Binding, err = AnalyzeBinding(t, EpitopePeptideLengths, populations); err != nil {
		return rep, fmt.Errorf("epitope coverage: %w", err)
	}
	if rep.Selection, err = SelectOptimalAlleles(t, minCoverage, populations); err != nil {
		return rep, fmt.Errorf("epitope coverage: %w", err)
	}
	return rep, nil
}
