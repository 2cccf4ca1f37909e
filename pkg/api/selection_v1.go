// pkg/api/selection_v1.go
package api

// SelectionV1 is the stable schema for an HLA allele selection.
// Keep fields, names, and types stable. Add new fields only with ",omitempty".
type SelectionV1 struct {
	RunID              string             `json:"run_id,omitempty"`
	Target             float64            `json:"target"`
	Alleles            []string           `json:"alleles"`
	Populations        []string           `json:"populations"`
	PopulationCoverage map[string]float64 `json:"population_coverage"`
	TotalCoverage      float64            `json:"total_coverage"`
	TargetMet          bool               `json:"target_met"`
	Warnings           []string           `json:"warnings,omitempty"`

	Common  map[string]map[string][]string `json:"common_alleles,omitempty"`  // population → locus → alleles
	Linked  map[string][]LinkedV1          `json:"linked_alleles,omitempty"`  // selected allele → haplotypes
	Binding map[string]BindingV1           `json:"binding,omitempty"`         // population → strong binders
	Epitope []EpitopeV1                    `json:"epitope_coverage,omitempty"` // one per input sequence
}

type LinkedV1 struct {
	Population string   `json:"population"`
	Alleles    []string `json:"alleles"`
	Frequency  float64  `json:"frequency"`
}

type BindingV1 struct {
	StrongBinders []string `json:"strong_binders"`
	Coverage      float64  `json:"coverage"`
}

type EpitopeV1 struct {
	SequenceID     string      `json:"sequence_id"`
	SequenceLength int         `json:"sequence_length"`
	Peptides       map[int]int `json:"peptides"` // peptide length → count
	Error          string      `json:"error,omitempty"`
}
