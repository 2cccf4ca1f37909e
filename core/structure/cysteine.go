package structure

import (
	"fmt"

	"healdette/core/residue"
)

// PairingHeuristic names how cysteines are paired. Pairing is positional
// adjacency only, not a geometric or energetic disulfide prediction.
const PairingHeuristic = "sequential_adjacency"

// CysteinePair is one adjacent (i, i+1) pairing.
type CysteinePair struct {
	First   int
	Second  int
	Spacing int
	Segment string // residues First..Second inclusive
}

// Pairing is the tagged heuristic pairing result.
type Pairing struct {
	Heuristic string
	Paired    bool // even cysteine count
	Pairs     []CysteinePair
	Unpaired  []int
}

// Motifs flags scaffold patterns; all false below two cysteines.
type Motifs struct {
	TerminalPair bool
	Ladder       bool
	Clustered    bool
}

// Scaffold is the derived verdict.
type Scaffold struct {
	Suitable         bool
	PreferredSpacing bool
	OptimalCount     bool
	WellDistributed  bool
}

// CysteineAnalysis is the result of AnalyzeCysteines.
type CysteineAnalysis struct {
	Count     int
	Positions []int
	Spacing   []int
	Pairing   Pairing
	Motifs    Motifs
	Scaffold  Scaffold
	Warnings  []string
}

// AnalyzeCysteines collects zero-based C positions, classifies motifs and
// pairs cysteines by sequential adjacency: (0,1), (2,3), …; an odd count
// leaves exactly the last position unpaired.
func AnalyzeCysteines(seq string) (CysteineAnalysis, error) {
	s, err := residue.Validate(seq)
	if err != nil {
		return CysteineAnalysis{}, fmt.Errorf("cysteines: %w", err)
	}
	var a CysteineAnalysis
	for i := 0; i < len(s); i++ {
		if s[i] == 'C' {
			a.Positions = append(a.Positions, i)
		}
	}
	a.Count = len(a.Positions)
	a.Pairing = Pairing{Heuristic: PairingHeuristic, Paired: a.Count%2 == 0}

	if a.Count == 0 {
		a.Warnings = append(a.Warnings, "No cysteines found")
		return a, nil
	}

	for i := 1; i < a.Count; i++ {
		a.Spacing = append(a.Spacing, a.Positions[i]-a.Positions[i-1])
	}
	for i := 0; i+1 < a.Count; i += 2 {
		p, q := a.Positions[i], a.Positions[i+1]
		a.Pairing.Pairs = append(a.Pairing.Pairs, CysteinePair{
			First: p, Second: q, Spacing: q - p, Segment: s[p : q+1],
		})
	}
	if a.Count%2 == 1 {
		a.Pairing.Unpaired = []int{a.Positions[a.Count-1]}
	}

	n := float64(len(s))
	if a.Count >= 2 {
		a.Motifs = Motifs{
			TerminalPair: a.Count == 2 && float64(a.Spacing[0]) >= 0.6*n,
			Ladder:       allSpacing(a.Spacing, 3, 8),
			Clustered:    allSpacing(a.Spacing, 0, 4),
		}
	}
	a.Scaffold = Scaffold{
		Suitable:         a.Count >= 2 && (a.Motifs.TerminalPair || a.Motifs.Ladder),
		PreferredSpacing: len(a.Spacing) > 0 && allSpacing(a.Spacing, 2, 20),
		OptimalCount:     a.Count >= 2 && a.Count <= 6,
		WellDistributed:  a.Count >= 2 && float64(a.Positions[a.Count-1]-a.Positions[0]) >= 0.3*n,
	}

	if a.Count%2 == 1 {
		a.Warnings = append(a.Warnings, "Odd number of cysteines")
	}
	if !a.Scaffold.OptimalCount {
		a.Warnings = append(a.Warnings, "Suboptimal cysteine count")
	}
	if a.Count >= 2 && !a.Scaffold.WellDistributed {
		a.Warnings = append(a.Warnings, "Poor cysteine distribution")
	}
	return a, nil
}

func allSpacing(sp []int, lo, hi int) bool {
	for _, d := range sp {
		if d < lo || d > hi {
			return false
		}
	}
	return true
}
