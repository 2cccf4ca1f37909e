// internal/output/selection.go
package output

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"healdette/core/coverage"
	"healdette/internal/jsonutil"
	"healdette/pkg/api"
)

// SelectionTSVHeader heads the per-population coverage table.
const SelectionTSVHeader = "population\tcoverage"

// ToAPISelection converts an allele selection to the stable wire schema (v1).
func ToAPISelection(runID string, target float64, s coverage.Selection) api.SelectionV1 {
	v := api.SelectionV1{
		RunID:              runID,
		Target:             target,
		Alleles:            append([]string{}, s.Alleles...),
		Populations:        append([]string{}, s.Populations...),
		PopulationCoverage: make(map[string]float64, len(s.PopulationCoverage)),
		TotalCoverage:      s.TotalCoverage,
		TargetMet:          s.TargetMet,
		Warnings:           s.Warnings,
	}
	for p, c := range s.PopulationCoverage {
		v.PopulationCoverage[p] = c
	}
	return v
}

// WriteSelectionJSON writes v as one pretty-indented JSON object.
func WriteSelectionJSON(w io.Writer, v api.SelectionV1) error {
	return jsonutil.EncodePretty(w, v)
}

// WriteSelectionText writes a commented summary line, the per-population
// coverage table and one commented line per optional section entry.
func WriteSelectionText(w io.Writer, v api.SelectionV1, header bool) error {
	var b strings.Builder
	fmt.Fprintf(&b, "# target=%.3f met=%t alleles=%s\n", v.Target, v.TargetMet, strings.Join(v.Alleles, ","))
	if header {
		b.WriteString(SelectionTSVHeader + "\n")
	}
	for _, p := range v.Populations {
		fmt.Fprintf(&b, "%s\t%.3f\n", p, v.PopulationCoverage[p])
	}
	fmt.Fprintf(&b, "TOTAL\t%.3f\n", v.TotalCoverage)

	for _, p := range sortedKeys(v.Common) {
		for _, locus := range sortedKeys(v.Common[p]) {
			fmt.Fprintf(&b, "# common\t%s\t%s\t%s\n", p, locus, strings.Join(v.Common[p][locus], ","))
		}
	}
	for _, a := range sortedKeys(v.Linked) {
		for _, l := range v.Linked[a] {
			fmt.Fprintf(&b, "# linked\t%s\t%s\t%s\t%.3f\n", a, l.Population, strings.Join(l.Alleles, "-"), l.Frequency)
		}
	}
	for _, p := range sortedKeys(v.Binding) {
		bd := v.Binding[p]
		fmt.Fprintf(&b, "# binding\t%s\t%.3f\t%s\n", p, bd.Coverage, strings.Join(bd.StrongBinders, ","))
	}
	for _, e := range v.Epitope {
		if e.Error != "" {
			fmt.Fprintf(&b, "# epitope\t%s\terror: %s\n", e.SequenceID, e.Error)
			continue
		}
		lengths := make([]int, 0, len(e.Peptides))
		for l := range e.Peptides {
			lengths = append(lengths, l)
		}
		sort.Ints(lengths)
		parts := make([]string, len(lengths))
		for i, l := range lengths {
			parts[i] = fmt.Sprintf("%d:%d", l, e.Peptides[l])
		}
		fmt.Fprintf(&b, "# epitope\t%s\t%d\t%s\n", e.SequenceID, e.SequenceLength, strings.Join(parts, ","))
	}
	_, err := io.WriteString(w, b.String())
	return err
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// ToAPICommon converts CommonAlleles results keyed by population.
func ToAPICommon(common map[string]map[string][]string) map[string]map[string][]string {
	out := make(map[string]map[string][]string, len(common))
	for p, loci := range common {
		m := make(map[string][]string, len(loci))
		for l, as := range loci {
			m[l] = append([]string{}, as...)
		}
		out[p] = m
	}
	return out
}

// ToAPILinked flattens haplotypes found for one allele in one population.
func ToAPILinked(pop string, ls []coverage.Linked) []api.LinkedV1 {
	out := make([]api.LinkedV1, len(ls))
	for i, l := range ls {
		out[i] = api.LinkedV1{Population: pop, Alleles: l.Alleles, Frequency: l.Frequency}
	}
	return out
}

// ToAPIBinding converts AnalyzeBinding output.
func ToAPIBinding(b map[string]coverage.PopulationBinding) map[string]api.BindingV1 {
	out := make(map[string]api.BindingV1, len(b))
	for p, pb := range b {
		out[p] = api.BindingV1{StrongBinders: append([]string{}, pb.StrongBinders...), Coverage: pb.Coverage}
	}
	return out
}

// ToAPIEpitope converts one EpitopeCoverage result; err fills Error.
func ToAPIEpitope(id string, rep coverage.EpitopeReport, err error) api.EpitopeV1 {
	v := api.EpitopeV1{SequenceID: id, SequenceLength: rep.SequenceLength, Peptides: rep.Peptides}
	if err != nil {
		v.Error = err.Error()
	}
	return v
}
