// core/props/props.go
// Per-sequence physicochemical metrics.
//
// Charge follows Henderson–Hasselbalch over the N-terminus, the C-terminus
// and the ionizable side chains K,R,H (positive) and D,E,C,Y (negative),
// using the fixed pKa table in core/residue.
//
// This package has no I/O and no package-level mutable state.

package props

import (
	"fmt"
	"math"

	"healdette/core/mathx"
	"healdette/core/residue"
)

// Isoelectric-point solver contract. These never vary per call so identical
// sequences always yield identical pI.
const (
	PIScanMin     = 0.0
	PIScanMax     = 14.0
	PIScanStep    = 1.0
	PIEpsilon     = 1e-4
	PIMaxIter     = 50
	PINeutral     = 7.0 // no titratable residues
	PIAllNegative = 2.0
	PIAllPositive = 12.0
)

// PhysiologicalPH is the pH used for the charge reported in Properties.
const PhysiologicalPH = 7.4

// Composition holds category fractions as percentages of length.
type Composition struct {
	Length      int
	Aromatic    float64
	Hydrophobic float64
	Positive    float64
	Negative    float64
	NetCharge   int // count(positive) − count(negative), pH independent
}

// Properties is the full physicochemical summary of one sequence.
type Properties struct {
	Composition
	PI              float64
	Gravy           float64
	MolecularWeight float64
	ChargePhys      float64 // at PhysiologicalPH
	Aromaticity     float64 // fraction, not percent
}

// ComputeComposition computes category percentages and the integer net charge.
func ComputeComposition(seq string) (Composition, error) {
	s, err := residue.ValidateNonEmpty(seq)
	if err != nil {
		return Composition{}, fmt.Errorf("composition: %w", err)
	}
	return composition(s), nil
}

func composition(s string) Composition {
	n := float64(len(s))
	pos := residue.Count(s, residue.Positive)
	neg := residue.Count(s, residue.Negative)
	return Composition{
		Length:      len(s),
		Aromatic:    100 * float64(residue.Count(s, residue.Aromatic)) / n,
		Hydrophobic: 100 * float64(residue.Count(s, residue.Hydrophobic)) / n,
		Positive:    100 * float64(pos) / n,
		Negative:    100 * float64(neg) / n,
		NetCharge:   pos - neg,
	}
}

// ChargeAtPH returns the real-valued net charge of seq at pH.
func ChargeAtPH(seq string, pH float64) (float64, error) {
	s, err := residue.ValidateNonEmpty(seq)
	if err != nil {
		return 0, fmt.Errorf("charge: %w", err)
	}
	return chargeAt(countIonizable(s), pH), nil
}

type ionCounts map[byte]int

func countIonizable(s string) ionCounts {
	c := make(ionCounts, len(residue.Titratable))
	for i := 0; i < len(s); i++ {
		if residue.In(residue.Titratable, s[i]) {
			c[s[i]]++
		}
	}
	return c
}

func chargeAt(c ionCounts, pH float64) float64 {
	q := 1.0 / (1.0 + math.Pow(10, pH-residue.PKaNTerm))
	q -= 1.0 / (1.0 + math.Pow(10, residue.PKaCTerm-pH))
	// Fixed iteration order keeps the float sum bit-identical across runs.
	for _, aa := range []byte("KRH") {
		if n := c[aa]; n > 0 {
			q += float64(n) / (1.0 + math.Pow(10, pH-residue.PKaBasic[aa]))
		}
	}
	for _, aa := range []byte("DECY") {
		if n := c[aa]; n > 0 {
			q -= float64(n) / (1.0 + math.Pow(10, residue.PKaAcidic[aa]-pH))
		}
	}
	return q
}

// IsoelectricPoint finds the pH in [0,14] where the net charge is zero.
//
//  1. No titratable residue → exactly 7.0.
//  2. Scan 0..14 at 1.0 pH steps for the first sign change.
//  3. No sign change → 2.0 (all negative) or 12.0 (all positive).
//  4. Bisection inside the bracket, ≤50 iterations or |charge| < 1e-4,
//     rounded to 2 decimals.
func IsoelectricPoint(seq string) (float64, error) {
	s, err := residue.ValidateNonEmpty(seq)
	if err != nil {
		return 0, fmt.Errorf("pI: %w", err)
	}
	ions := countIonizable(s)
	if len(ions) == 0 {
		return PINeutral, nil
	}

	lo, hi := math.NaN(), math.NaN()
	var qlo float64
	allNeg, allPos := true, true
	prevPH := PIScanMin
	prevQ := chargeAt(ions, prevPH)
	for ph := PIScanMin; ph <= PIScanMax; ph += PIScanStep {
		q := chargeAt(ions, ph)
		if q == 0 {
			return mathx.Round(ph, 2), nil
		}
		if q > 0 {
			allNeg = false
		} else {
			allPos = false
		}
		if ph > PIScanMin && (prevQ > 0) != (q > 0) {
			lo, hi, qlo = prevPH, ph, prevQ
			break
		}
		prevPH, prevQ = ph, q
	}
	if math.IsNaN(lo) {
		switch {
		case allNeg:
			return PIAllNegative, nil
		case allPos:
			return PIAllPositive, nil
		}
		// Unreachable for a monotone charge curve; keep a defined answer.
		return PINeutral, nil
	}

	mid := (lo + hi) / 2
	for i := 0; i < PIMaxIter; i++ {
		mid = (lo + hi) / 2
		q := chargeAt(ions, mid)
		if math.Abs(q) < PIEpsilon {
			break
		}
		if (q > 0) == (qlo > 0) {
			lo, qlo = mid, q
		} else {
			hi = mid
		}
	}
	return mathx.Round(mid, 2), nil
}

// Gravy is the mean Kyte–Doolittle hydropathy.
func Gravy(seq string) (float64, error) {
	s, err := residue.ValidateNonEmpty(seq)
	if err != nil {
		return 0, fmt.Errorf("gravy: %w", err)
	}
	sum := 0.0
	for i := 0; i < len(s); i++ {
		sum += residue.Hydropathy[s[i]]
	}
	return sum / float64(len(s)), nil
}

// MolecularWeight sums the per-residue mass table.
func MolecularWeight(seq string) (float64, error) {
	s, err := residue.ValidateNonEmpty(seq)
	if err != nil {
		return 0, fmt.Errorf("molecular weight: %w", err)
	}
	mw := 0.0
	for i := 0; i < len(s); i++ {
		mw += residue.Mass[s[i]]
	}
	return mw, nil
}

// Aromaticity is the F+W+Y fraction.
func Aromaticity(seq string) (float64, error) {
	s, err := residue.ValidateNonEmpty(seq)
	if err != nil {
		return 0, fmt.Errorf("aromaticity: %w", err)
	}
	return float64(residue.Count(s, residue.Aromatic)) / float64(len(s)), nil
}

// Summarize computes every metric of this package in one pass over the
// validated sequence.
func Summarize(seq string) (Properties, error) {
	s, err := residue.ValidateNonEmpty(seq)
	if err != nil {
		return Properties{}, fmt.Errorf("properties: %w", err)
	}
	pI, _ := IsoelectricPoint(s)
	gravy, _ := Gravy(s)
	mw, _ := MolecularWeight(s)
	arom, _ := Aromaticity(s)
	return Properties{
		Composition:     composition(s),
		PI:              pI,
		Gravy:           gravy,
		MolecularWeight: mw,
		ChargePhys:      chargeAt(countIonizable(s), PhysiologicalPH),
		Aromaticity:     arom,
	}, nil
}
