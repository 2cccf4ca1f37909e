// pkg/api/report_v1.go
package api

// ReportV1 is the stable JSON/JSONL schema for one scored sequence.
// Keep fields, names, and types stable. Add new fields only with ",omitempty".
type ReportV1 struct {
	RunID       string `json:"run_id,omitempty"`
	SequenceID  string `json:"sequence_id"`
	Description string `json:"description,omitempty"`
	SourceFile  string `json:"source_file,omitempty"`
	Sequence    string `json:"sequence"`
	Length      int    `json:"length"`
	Valid       bool   `json:"valid"`
	Error       string `json:"error,omitempty"`

	Properties *PropertiesV1       `json:"properties,omitempty"`
	Structure  *StructureV1        `json:"structure,omitempty"`
	CDRs       *CDRsV1             `json:"cdrs,omitempty"`
	Population *PopulationV1       `json:"population,omitempty"`
	Similar    []SimilarityMatchV1 `json:"similar,omitempty"`
	Triage     TriageV1            `json:"triage"`
}

// PropertiesV1 holds physicochemical metrics. Content fields are percent.
type PropertiesV1 struct {
	PI                 float64 `json:"pI"`
	Gravy              float64 `json:"gravy"`
	MolecularWeight    float64 `json:"molecular_weight"`
	ChargePH74         float64 `json:"charge_ph7_4"`
	Aromaticity        float64 `json:"aromaticity"`
	AromaticContent    float64 `json:"aromatic_content"`
	HydrophobicContent float64 `json:"hydrophobic_content"`
	PositiveContent    float64 `json:"positive_content"`
	NegativeContent    float64 `json:"negative_content"`
	NetCharge          int     `json:"net_charge"`
}

type StructureV1 struct {
	Disorder      float64         `json:"disorder"`
	Cysteines     CysteinesV1     `json:"cysteines"`
	SignalPeptide SignalPeptideV1 `json:"signal_peptide"`
	Glycosylation []GlycoSiteV1   `json:"glycosylation_sites,omitempty"`
	Complexity    ComplexityV1    `json:"complexity"`
}

// CysteinesV1 positions are zero-based.
type CysteinesV1 struct {
	Count            int       `json:"count"`
	Positions        []int     `json:"positions"`
	Spacing          []int     `json:"spacing,omitempty"`
	Pairing          PairingV1 `json:"pairing"`
	TerminalPair     bool      `json:"terminal_pair"`
	Ladder           bool      `json:"ladder"`
	Clustered        bool      `json:"clustered"`
	SuitableScaffold bool      `json:"suitable_scaffold"`
	PreferredSpacing bool      `json:"preferred_spacing"`
	OptimalCount     bool      `json:"optimal_count"`
	WellDistributed  bool      `json:"well_distributed"`
	Warnings         []string  `json:"warnings,omitempty"`
}

type PairingV1 struct {
	Heuristic string   `json:"heuristic"`
	Paired    bool     `json:"paired"`
	Pairs     [][2]int `json:"pairs,omitempty"`
	Unpaired  []int    `json:"unpaired,omitempty"`
}

type SignalPeptideV1 struct {
	HasSignal  bool    `json:"has_signal"`
	Confidence float64 `json:"confidence"`
	NScore     float64 `json:"n_region_score"`
	HScore     float64 `json:"h_region_score"`
	CScore     float64 `json:"c_region_score"`
}

type GlycoSiteV1 struct {
	Position int    `json:"position"`
	Motif    string `json:"motif"`
}

type ComplexityV1 struct {
	Entropy         float64 `json:"entropy"`
	UniqueResidues  int     `json:"unique_residues"`
	AQPPercent      float64 `json:"aqp_percent"`
	AQPWindows      int     `json:"aqp_windows"`
	LowComplexity   bool    `json:"low_complexity"`
	HighAQP         bool    `json:"high_aqp"`
	HasHomopolymers bool    `json:"has_homopolymers"`
}

// CDRsV1 is present only when a chain was requested.
type CDRsV1 struct {
	Chain    string   `json:"chain"`
	CDR1     string   `json:"cdr1"`
	CDR2     string   `json:"cdr2"`
	CDR3     string   `json:"cdr3"`
	Missing  []string `json:"missing_anchors,omitempty"`
	Warnings []string `json:"warnings,omitempty"`
}

type PopulationV1 struct {
	Valid         bool                         `json:"valid"`
	WeightedScore float64                      `json:"weighted_score"`
	Scores        map[string]PopulationScoreV1 `json:"scores,omitempty"`
	Blended       map[string]RangeV1           `json:"blended,omitempty"`
	Warnings      []string                     `json:"warnings,omitempty"`
}

type PopulationScoreV1 struct {
	Score         float64  `json:"score"`
	Weight        float64  `json:"weight"`
	MotifFraction float64  `json:"motif_fraction"`
	OutOfRange    []string `json:"out_of_range,omitempty"`
}

type RangeV1 struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

type SimilarityMatchV1 struct {
	Name     string  `json:"name"`
	Target   string  `json:"target,omitempty"`
	Score    float64 `json:"score"`
	Heavy    float64 `json:"heavy"`
	Light    float64 `json:"light"`
	VeryHigh bool    `json:"very_high"`
}

type TriageV1 struct {
	Pass    bool     `json:"pass"`
	Reasons []string `json:"reasons,omitempty"`
}
