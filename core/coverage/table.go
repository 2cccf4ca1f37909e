package coverage

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"healdette/core/population"
)

var (
	// ErrCoverageTargetUnmet is non-fatal: alleles ran out before every
	// population reached the target.
	ErrCoverageTargetUnmet = errors.New("coverage target unmet")
	ErrUnknownPopulation   = errors.New("unknown population")
	ErrUnknownLocus        = errors.New("no peptide length preference for locus")
)

// Haplotype is a common haplotype, alleles joined by '-'.
type Haplotype struct {
	Haplotype string  `json:"haplotype" yaml:"haplotype"`
	Frequency float64 `json:"frequency" yaml:"frequency"`
}

// Table is the read-only HLA reference: population → locus → allele → frequency.
type Table struct {
	Populations              map[string]map[string]map[string]float64 `json:"populations" yaml:"populations"`
	PeptideLengthPreferences map[string][]int                         `json:"peptide_length_preferences,omitempty" yaml:"peptide_length_preferences,omitempty"`
	Haplotypes               map[string][]Haplotype                   `json:"haplotypes,omitempty" yaml:"haplotypes,omitempty"`
}

// DefaultLengthPreferences are used for loci the table does not list.
var DefaultLengthPreferences = map[string][]int{
	"hla_a": {8, 9, 10},
	"hla_b": {8, 9, 10},
	"hla_c": {9},
}

// FromProfiles builds a Table from the hla_frequencies of each profile.
// Profiles without frequencies are skipped.
func FromProfiles(profiles []population.Profile) Table {
	t := Table{Populations: map[string]map[string]map[string]float64{}}
	for _, p := range profiles {
		if len(p.HLAFrequencies) > 0 {
			t.Populations[p.ID] = p.HLAFrequencies
		}
	}
	return t
}

// PopulationNames returns the table's populations in sorted order.
func (t Table) PopulationNames() []string {
	names := make([]string, 0, len(t.Populations))
	for k := range t.Populations {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

func (t Table) resolve(populations []string) ([]string, error) {
	if len(populations) == 0 {
		populations = t.PopulationNames()
	}
	if len(populations) == 0 {
		return nil, fmt.Errorf("%w: table is empty", ErrUnknownPopulation)
	}
	for _, p := range populations {
		if _, ok := t.Populations[p]; !ok {
			return nil, fmt.Errorf("%w: %q", ErrUnknownPopulation, p)
		}
	}
	return populations, nil
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// frequencies flattens one population to allele → frequency.
func (t Table) frequencies(pop string) map[string]float64 {
	out := map[string]float64{}
	for _, locus := range sortedKeys(t.Populations[pop]) {
		for a, f := range t.Populations[pop][locus] {
			out[a] = f
		}
	}
	return out
}

// LocusOf maps "A*02:01" or "HLA-A*02:01" to "hla_a".
func LocusOf(allele string) string {
	a := strings.TrimPrefix(strings.ToUpper(allele), "HLA-")
	if a == "" {
		return ""
	}
	return "hla_" + strings.ToLower(a[:1])
}

func (t Table) preferences(locus string) ([]int, bool) {
	if p, ok := t.PeptideLengthPreferences[locus]; ok && len(p) > 0 {
		return p, true
	}
	p, ok := DefaultLengthPreferences[locus]
	return p, ok
}
