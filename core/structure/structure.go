// core/structure/structure.go
// Sequence-level structural heuristics: homopolymer runs, disorder,
// signal peptide, N-glycosylation and low-complexity detection.
// Cysteine pairing lives in cysteine.go.

package structure

import (
	"fmt"
	"math"
	"sort"

	"healdette/core/mathx"
	"healdette/core/residue"
)

// Run is a contiguous stretch of one residue.
type Run struct {
	Residue byte
	Start   int // zero-based
	Length  int
}

// HomopolymerRuns returns every run of identical residues with length >= minLength.
func HomopolymerRuns(seq string, minLength int) ([]Run, error) {
	s, err := residue.Validate(seq)
	if err != nil {
		return nil, fmt.Errorf("homopolymers: %w", err)
	}
	return homopolymers(s, minLength), nil
}

func homopolymers(s string, minLength int) []Run {
	if minLength < 1 {
		minLength = 1
	}
	var runs []Run
	for i := 0; i < len(s); {
		j := i + 1
		for j < len(s) && s[j] == s[i] {
			j++
		}
		if j-i >= minLength {
			runs = append(runs, Run{Residue: s[i], Start: i, Length: j - i})
		}
		i = j
	}
	return runs
}

// PredictDisorder is the fraction of disorder-promoting residues (RKEPNDQSG).
func PredictDisorder(seq string) (float64, error) {
	s, err := residue.ValidateNonEmpty(seq)
	if err != nil {
		return 0, fmt.Errorf("disorder: %w", err)
	}
	return float64(residue.Count(s, residue.DisorderPromoting)) / float64(len(s)), nil
}

// GlycoSite is an N-X-[ST] sequon.
type GlycoSite struct {
	Position int // zero-based index of N
	Motif    string
}

// FindGlycosylationSites reports every N-X-[S|T] with X != P, overlapping
// occurrences included.
func FindGlycosylationSites(seq string) ([]GlycoSite, error) {
	s, err := residue.Validate(seq)
	if err != nil {
		return nil, fmt.Errorf("glycosylation: %w", err)
	}
	var sites []GlycoSite
	for i := 0; i+2 < len(s); i++ {
		if s[i] == 'N' && s[i+1] != 'P' && (s[i+2] == 'S' || s[i+2] == 'T') {
			sites = append(sites, GlycoSite{Position: i, Motif: s[i : i+3]})
		}
	}
	return sites, nil
}

// SignalConfig holds the signal-peptide thresholds.
type SignalConfig struct {
	MinLength             int
	NBasicThreshold       float64
	HHydrophobicThreshold float64
	ConfidenceThreshold   float64
}

// DefaultSignalConfig returns the stock thresholds.
func DefaultSignalConfig() SignalConfig {
	return SignalConfig{
		MinLength:             15,
		NBasicThreshold:       0.3,
		HHydrophobicThreshold: 0.6,
		ConfidenceThreshold:   0.6,
	}
}

// SignalRegion is the score of one of the N/H/C regions.
type SignalRegion struct {
	Start, End int // [Start, End)
	Fraction   float64
	Pass       bool
	Score      float64
}

// SignalPeptide is the CheckSignalPeptide verdict.
type SignalPeptide struct {
	HasSignal  bool
	Confidence float64
	N, H, C    SignalRegion
}

const cRegionLen = 5

// CheckSignalPeptide scores an N-terminal signal peptide. Region lengths
// scale with the sequence: N = min(6, len/5), H = min(12, len/3), C = 5.
func CheckSignalPeptide(seq string, cfg SignalConfig) (SignalPeptide, error) {
	s, err := residue.Validate(seq)
	if err != nil {
		return SignalPeptide{}, fmt.Errorf("signal peptide: %w", err)
	}
	var out SignalPeptide
	if len(s) < cfg.MinLength || len(s) == 0 {
		return out, nil
	}

	nLen := min(6, len(s)/5)
	hLen := min(12, len(s)/3)
	out.N = fractionRegion(s, 0, nLen, "KR", cfg.NBasicThreshold)
	out.H = fractionRegion(s, nLen, nLen+hLen, residue.SignalHydrophobic, cfg.HHydrophobicThreshold)
	out.C = cleavageRegion(s, nLen+hLen, nLen+hLen+cRegionLen)

	out.Confidence = (out.N.Score + out.H.Score + out.C.Score) / 3
	out.HasSignal = out.Confidence >= cfg.ConfidenceThreshold
	return out, nil
}

func fractionRegion(s string, start, end int, set string, threshold float64) SignalRegion {
	end = min(end, len(s))
	r := SignalRegion{Start: start, End: end}
	if end <= start {
		return r
	}
	r.Fraction = float64(residue.Count(s[start:end], set)) / float64(end-start)
	if r.Fraction >= threshold {
		r.Pass = true
		r.Score = r.Fraction
	}
	return r
}

// cleavageRegion applies the (-3,-1) small-neutral rule with no proline in
// the last three residues of the region.
func cleavageRegion(s string, start, end int) SignalRegion {
	end = min(end, len(s))
	r := SignalRegion{Start: start, End: end}
	if end-start < 3 {
		return r
	}
	c := s[start:end]
	matched := 0
	if residue.In(residue.SmallNeutral, c[len(c)-3]) {
		matched++
	}
	if residue.In(residue.SmallNeutral, c[len(c)-1]) {
		matched++
	}
	r.Fraction = float64(matched) / 2
	proline := false
	for i := len(c) - 3; i < len(c); i++ {
		if c[i] == 'P' {
			proline = true
		}
	}
	if matched == 2 && !proline {
		r.Pass = true
		r.Score = 1.0
	}
	return r
}

// AQPWindow is a window with a high Ala/Gln/Pro fraction.
type AQPWindow struct {
	Start    int
	Sequence string
	Fraction float64
}

// ComplexityWarnings are the boolean flags raised by AnalyzeComplexity.
type ComplexityWarnings struct {
	LowComplexity   bool
	HighAQP         bool
	HasHomopolymers bool
}

// Complexity summarises sequence diversity.
type Complexity struct {
	Entropy        float64 // Shannon, bits, 2 decimals
	UniqueResidues int
	AQPPercent     float64
	AQPWindows     []AQPWindow
	Homopolymers   []Run
	Warnings       ComplexityWarnings
}

const (
	aqpWindow         = 10
	aqpWindowFraction = 0.4
	aqpHighPercent    = 35.0
	lowEntropy        = 3.0
	homopolymerMin    = 4
)

// AnalyzeComplexity reports entropy, A/Q/P enrichment and homopolymers.
func AnalyzeComplexity(seq string) (Complexity, error) {
	s, err := residue.ValidateNonEmpty(seq)
	if err != nil {
		return Complexity{}, fmt.Errorf("complexity: %w", err)
	}
	counts := map[byte]int{}
	for i := 0; i < len(s); i++ {
		counts[s[i]]++
	}
	keys := make([]byte, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })

	n := float64(len(s))
	h := 0.0
	for _, k := range keys {
		p := float64(counts[k]) / n
		h -= p * math.Log2(p)
	}

	var c Complexity
	c.Entropy = mathx.Round(h, 2)
	c.UniqueResidues = len(counts)
	c.AQPPercent = mathx.Round(100*float64(residue.Count(s, "AQP"))/n, 1)
	for i := 0; i+aqpWindow <= len(s); i++ {
		w := s[i : i+aqpWindow]
		f := float64(residue.Count(w, "AQP")) / aqpWindow
		if f > aqpWindowFraction {
			c.AQPWindows = append(c.AQPWindows, AQPWindow{Start: i, Sequence: w, Fraction: mathx.Round(f, 2)})
		}
	}
	c.Homopolymers = homopolymers(s, homopolymerMin)
	c.Warnings = ComplexityWarnings{
		LowComplexity:   h < lowEntropy,
		HighAQP:         c.AQPPercent > aqpHighPercent,
		HasHomopolymers: len(c.Homopolymers) > 0,
	}
	return c, nil
}
