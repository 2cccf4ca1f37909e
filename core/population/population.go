// core/population/population.go
// Ancestry-weighted parameter blending and per-population compliance scoring.
//
// Profiles are read-only reference data. Weights are renormalized at use;
// they need not sum to 1.

package population

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"

	"healdette/core/mathx"
	"healdette/core/props"
	"healdette/core/residue"
)

// ErrNoPopulationWeights is returned when the active ancestry weights sum to 0.
var ErrNoPopulationWeights = errors.New("no population weights")

// Scored metrics, in evaluation order.
const (
	MetricAromatic    = "aromatic_content"
	MetricHydrophobic = "hydrophobic_content"
	MetricNetCharge   = "net_charge"
)

// Metrics lists the metrics ScorePopulation checks.
var Metrics = []string{MetricAromatic, MetricHydrophobic, MetricNetCharge}

// Range is an inclusive [Min, Max] interval.
type Range struct {
	Min float64 `json:"min" yaml:"min"`
	Max float64 `json:"max" yaml:"max"`
}

// Contains reports whether Min <= x <= Max.
func (r Range) Contains(x float64) bool { return x >= r.Min && x <= r.Max }

// Profile describes one reference population.
type Profile struct {
	ID                string                        `json:"id" yaml:"id"`
	AncestryWeight    float64                       `json:"ancestry_weight" yaml:"ancestry_weight"`
	BindingMotifs     []string                      `json:"binding_motifs,omitempty" yaml:"binding_motifs,omitempty"`
	BiophysicalParams map[string]Range              `json:"biophysical_params,omitempty" yaml:"biophysical_params,omitempty"`
	HLAFrequencies    map[string]map[string]float64 `json:"hla_frequencies,omitempty" yaml:"hla_frequencies,omitempty"`
}

// Blend maps metric → weighted range.
type Blend map[string]Range

// effectiveWeights zeroes negative or non-finite weights and reports them.
func effectiveWeights(profiles []Profile) ([]float64, float64, []string) {
	w := make([]float64, len(profiles))
	var warns []string
	total := 0.0
	for i, p := range profiles {
		x := p.AncestryWeight
		if x < 0 || math.IsNaN(x) || math.IsInf(x, 0) {
			warns = append(warns, fmt.Sprintf("population %s: invalid ancestry weight %v ignored", p.ID, x))
			x = 0
		}
		w[i] = x
		total += x
	}
	return w, total, warns
}

// BlendParameters computes blended[m] = Σ(wᵢ/Σw × rangeᵢ) for every metric any
// active profile defines, rounded to 2 decimals. A profile without a metric
// contributes nothing to it and is warned about.
func BlendParameters(profiles []Profile) (Blend, []string, error) {
	w, total, warns := effectiveWeights(profiles)
	if total == 0 {
		return nil, warns, fmt.Errorf("blend: %w", ErrNoPopulationWeights)
	}

	seen := map[string]bool{}
	var metrics []string
	for i, p := range profiles {
		if w[i] == 0 {
			continue
		}
		for m := range p.BiophysicalParams {
			if !seen[m] {
				seen[m] = true
				metrics = append(metrics, m)
			}
		}
	}
	sort.Strings(metrics)

	out := make(Blend, len(metrics))
	for _, m := range metrics {
		var r Range
		for i, p := range profiles {
			if w[i] == 0 {
				continue
			}
			pr, ok := p.BiophysicalParams[m]
			if !ok {
				warns = append(warns, fmt.Sprintf("population %s: no %s range", p.ID, m))
				continue
			}
			f := w[i] / total
			r.Min += f * pr.Min
			r.Max += f * pr.Max
		}
		out[m] = Range{Min: mathx.Round(r.Min, 2), Max: mathx.Round(r.Max, 2)}
	}
	return out, warns, nil
}

// Score is one population's compliance result.
type Score struct {
	Score         float64  `json:"score"`
	RangeScore    float64  `json:"range_score"`
	MotifFraction float64  `json:"motif_fraction"`
	MotifsMatched int      `json:"motifs_matched"`
	MotifsTotal   int      `json:"motifs_total"`
	OutOfRange    []string `json:"out_of_range,omitempty"`
}

const (
	rangePenalty = 0.7
	motifFloor   = 0.3
	motifSpan    = 0.7
)

// ScorePopulation starts from 1.0 and multiplies by 0.7 for each scored metric
// outside the profile's own range, then scales by (0.3 + 0.7 × motif
// fraction). A metric the profile does not define is not penalized.
func ScorePopulation(seq string, p Profile) (Score, error) {
	s, err := residue.ValidateNonEmpty(seq)
	if err != nil {
		return Score{}, fmt.Errorf("score population: %w", err)
	}
	c, _ := props.ComputeComposition(s)
	return scoreComposition(s, c, p), nil
}

func metricValues(c props.Composition) map[string]float64 {
	return map[string]float64{
		MetricAromatic:    c.Aromatic,
		MetricHydrophobic: c.Hydrophobic,
		MetricNetCharge:   float64(c.NetCharge),
	}
}

func scoreComposition(s string, c props.Composition, p Profile) Score {
	vals := metricValues(c)
	out := Score{RangeScore: 1.0}
	for _, m := range Metrics {
		r, ok := p.BiophysicalParams[m]
		if ok && !r.Contains(vals[m]) {
			out.RangeScore *= rangePenalty
			out.OutOfRange = append(out.OutOfRange, m)
		}
	}
	out.MotifsTotal = len(p.BindingMotifs)
	for _, motif := range p.BindingMotifs {
		motif = residue.Normalize(motif)
		if motif != "" && strings.Contains(s, motif) {
			out.MotifsMatched++
		}
	}
	if out.MotifsTotal > 0 {
		out.MotifFraction = float64(out.MotifsMatched) / float64(out.MotifsTotal)
	}
	out.Score = out.RangeScore * (motifFloor + motifSpan*out.MotifFraction)
	return out
}

// IntRange is an inclusive integer interval.
type IntRange struct {
	Min int `json:"min" yaml:"min"`
	Max int `json:"max" yaml:"max"`
}

// Config holds the validity thresholds.
type Config struct {
	MinWeightedScore float64
	Length           IntRange
}

// DefaultConfig returns a weighted-score floor of 0.5 and length 40..70.
func DefaultConfig() Config {
	return Config{MinWeightedScore: 0.5, Length: IntRange{Min: 40, Max: 70}}
}

// WeightedScore is one population's entry in ValidationResult.
type WeightedScore struct {
	Score
	Weight float64 `json:"weight"`
}

// MetricSummary is the composition measured for validation.
type MetricSummary struct {
	Length             int                `json:"length"`
	AromaticContent    float64            `json:"aromatic_content"`
	HydrophobicContent float64            `json:"hydrophobic_content"`
	NetCharge          int                `json:"net_charge"`
	MotifScores        map[string]float64 `json:"motif_scores,omitempty"`
	MotifTotal         float64            `json:"motif_total"` // Σ motif fraction × normalized weight
}

// ValidationResult is the Validate verdict. It is always populated as far as
// the input allows, including on error.
type ValidationResult struct {
	Valid            bool                     `json:"valid"`
	Warnings         []string                 `json:"warnings,omitempty"`
	Metrics          MetricSummary            `json:"metrics"`
	PopulationScores map[string]WeightedScore `json:"population_scores,omitempty"`
	WeightedScore    float64                  `json:"weighted_score"`
	Blended          Blend                    `json:"blended,omitempty"`
}

func invalid(err error, warns ...string) ValidationResult {
	return ValidationResult{Warnings: append(warns, err.Error())}
}

// Validate scores seq against every profile. The sequence is invalid when
// the weighted score falls below cfg.MinWeightedScore or its length is
// outside cfg.Length. Composition outside the blended ranges is reported as
// a warning only.
func Validate(seq string, profiles []Profile, cfg Config) (ValidationResult, error) {
	s, err := residue.ValidateNonEmpty(seq)
	if err != nil {
		err = fmt.Errorf("validate: %w", err)
		return invalid(err), err
	}
	blend, warns, err := BlendParameters(profiles)
	if err != nil {
		err = fmt.Errorf("validate: %w", err)
		return invalid(err, warns...), err
	}
	w, total, _ := effectiveWeights(profiles)

	res := ValidationResult{Valid: true, Warnings: warns, Blended: blend}
	if n := len(s); n < cfg.Length.Min || n > cfg.Length.Max {
		res.Valid = false
		res.Warnings = append(res.Warnings, fmt.Sprintf("Length %d outside allowed range [%d, %d]", n, cfg.Length.Min, cfg.Length.Max))
	}

	c, _ := props.ComputeComposition(s)
	res.Metrics = MetricSummary{
		Length:             c.Length,
		AromaticContent:    mathx.Round(c.Aromatic, 2),
		HydrophobicContent: mathx.Round(c.Hydrophobic, 2),
		NetCharge:          c.NetCharge,
		MotifScores:        make(map[string]float64, len(profiles)),
	}

	res.PopulationScores = make(map[string]WeightedScore, len(profiles))
	sum := 0.0
	for i, p := range profiles {
		ps := scoreComposition(s, c, p)
		res.PopulationScores[p.ID] = WeightedScore{Score: ps, Weight: w[i]}
		res.Metrics.MotifScores[p.ID] = ps.MotifFraction
		res.Metrics.MotifTotal += ps.MotifFraction * w[i] / total
		sum += ps.Score * w[i]
	}
	res.WeightedScore = sum / total
	if res.WeightedScore < cfg.MinWeightedScore {
		res.Valid = false
		res.Warnings = append(res.Warnings, fmt.Sprintf("Overall weighted score %.2f below threshold", res.WeightedScore))
	}

	vals := metricValues(c)
	for _, m := range Metrics {
		if r, ok := blend[m]; ok && !r.Contains(vals[m]) {
			res.Warnings = append(res.Warnings, fmt.Sprintf("%s %.2f outside blended range [%.2f, %.2f]", m, vals[m], r.Min, r.Max))
		}
	}
	return res, nil
}
