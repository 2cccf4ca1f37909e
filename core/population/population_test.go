package population

import (
	"errors"
	"math"
	"strings"
	"testing"

	"healdette/core/residue"
)

func twoPops(w1, w2 float64) []Profile {
	return []Profile{
		{ID: "p1", AncestryWeight: w1, BiophysicalParams: map[string]Range{
			MetricAromatic: {Min: 16, Max: 24}, MetricNetCharge: {Min: -2, Max: 2},
		}},
		{ID: "p2", AncestryWeight: w2, BiophysicalParams: map[string]Range{
			MetricAromatic: {Min: 14, Max: 20}, MetricNetCharge: {Min: -4, Max: 4},
		}},
	}
}

func TestBlendParameters(t *testing.T) {
	for _, w := range [][2]float64{{0.6, 0.4}, {3, 2}} {
		b, warns, err := BlendParameters(twoPops(w[0], w[1]))
		if err != nil {
			t.Fatal(err)
		}
		if b[MetricAromatic].Min != 15.2 || b[MetricAromatic].Max != 22.4 {
			t.Fatalf("weights %v: aromatic = %+v", w, b[MetricAromatic])
		}
		if b[MetricNetCharge].Min != -2.8 {
			t.Fatalf("weights %v: net charge = %+v", w, b[MetricNetCharge])
		}
		if len(warns) != 0 {
			t.Fatalf("unexpected warnings %v", warns)
		}
	}
}

func TestBlendParameters_Weights(t *testing.T) {
	if _, _, err := BlendParameters(twoPops(0, 0)); !errors.Is(err, ErrNoPopulationWeights) {
		t.Fatalf("expected ErrNoPopulationWeights, got %v", err)
	}
	if _, _, err := BlendParameters(nil); !errors.Is(err, ErrNoPopulationWeights) {
		t.Fatalf("expected ErrNoPopulationWeights for no profiles, got %v", err)
	}

	b, warns, err := BlendParameters(twoPops(-1, 1))
	if err != nil {
		t.Fatal(err)
	}
	if b[MetricAromatic].Min != 14 || len(warns) != 1 || !strings.Contains(warns[0], "p1") {
		t.Fatalf("negative weight must be zeroed: %+v %v", b, warns)
	}

	pops := twoPops(1, 1)
	pops[1].BiophysicalParams[MetricHydrophobic] = Range{Min: 30, Max: 50}
	b, warns, _ = BlendParameters(pops)
	if b[MetricHydrophobic].Min != 15 || len(warns) != 1 {
		t.Fatalf("missing metric contributes nothing: %+v %v", b[MetricHydrophobic], warns)
	}
}

// 40 residues: aromatic 5%, hydrophobic 20%, net charge 0.
var (
	withMotifs = "KWYDLL" + strings.Repeat("AGSTEKNQ", 4) + "AG"
	motifPop   = Profile{
		ID:             "ref",
		AncestryWeight: 1,
		BindingMotifs:  []string{"KWY", "dll"},
		BiophysicalParams: map[string]Range{
			MetricAromatic:    {Min: 5, Max: 20},
			MetricHydrophobic: {Min: 10, Max: 60},
			MetricNetCharge:   {Min: -5, Max: 5},
		},
	}
)

func reverse(s string) string {
	b := []byte(s)
	for i, j := 0, len(b)-1; i < j; i, j = i+1, j-1 {
		b[i], b[j] = b[j], b[i]
	}
	return string(b)
}

func TestScorePopulation(t *testing.T) {
	sc, err := ScorePopulation(withMotifs, motifPop)
	if err != nil {
		t.Fatal(err)
	}
	if sc.Score != 1.0 || sc.MotifsMatched != 2 || len(sc.OutOfRange) != 0 {
		t.Fatalf("score = %+v", sc)
	}

	p := motifPop
	p.BiophysicalParams = map[string]Range{
		MetricAromatic:    {Min: 50, Max: 60},
		MetricHydrophobic: {Min: 50, Max: 60},
		MetricNetCharge:   {Min: 3, Max: 4},
	}
	p.BindingMotifs = nil
	sc, _ = ScorePopulation(withMotifs, p)
	if math.Abs(sc.Score-0.343*0.3) > 1e-12 || len(sc.OutOfRange) != 3 {
		t.Fatalf("worst case = %+v", sc)
	}

	if _, err := ScorePopulation("", motifPop); !errors.Is(err, residue.ErrEmptySequence) {
		t.Fatalf("expected ErrEmptySequence, got %v", err)
	}
}

func TestValidate_MotifRemovalNeverIncreasesScore(t *testing.T) {
	cfg := DefaultConfig()
	pops := []Profile{motifPop}

	before, err := Validate(withMotifs, pops, cfg)
	if err != nil {
		t.Fatal(err)
	}
	if !before.Valid || before.WeightedScore != 1.0 {
		t.Fatalf("baseline should pass: %+v", before)
	}

	// Same composition, motifs destroyed.
	after, err := Validate(reverse(withMotifs), pops, cfg)
	if err != nil {
		t.Fatal(err)
	}
	if after.Metrics.AromaticContent != before.Metrics.AromaticContent || after.Metrics.NetCharge != before.Metrics.NetCharge {
		t.Fatalf("composition changed")
	}
	if after.WeightedScore > before.WeightedScore {
		t.Fatalf("score increased: %v > %v", after.WeightedScore, before.WeightedScore)
	}
	if after.Valid {
		t.Fatalf("0.3 is below the 0.5 floor: %+v", after)
	}
}

func TestValidate_Weighted(t *testing.T) {
	a := motifPop
	b := motifPop
	b.ID, b.AncestryWeight, b.BindingMotifs = "other", 3, []string{"WWW"}
	res, err := Validate(withMotifs, []Profile{a, b}, DefaultConfig())
	if err != nil {
		t.Fatal(err)
	}
	// (1.0×1 + 0.3×3) / 4
	if math.Abs(res.WeightedScore-0.475) > 1e-12 || res.Valid {
		t.Fatalf("weighted = %v valid=%v", res.WeightedScore, res.Valid)
	}
	if res.PopulationScores["other"].Weight != 3 {
		t.Fatalf("population scores = %+v", res.PopulationScores)
	}
	if math.Abs(res.Metrics.MotifTotal-0.25) > 1e-12 {
		t.Fatalf("motif total = %v", res.Metrics.MotifTotal)
	}
}

func TestValidate_LengthAndErrors(t *testing.T) {
	res, err := Validate("KWYDLL", []Profile{motifPop}, DefaultConfig())
	if err != nil {
		t.Fatal(err)
	}
	if res.Valid || !strings.HasPrefix(res.Warnings[0], "Length 6 outside") {
		t.Fatalf("short sequence must be invalid: %+v", res)
	}

	res, err = Validate("KWYB", []Profile{motifPop}, DefaultConfig())
	if !errors.Is(err, residue.ErrInvalidAlphabet) || res.Valid || len(res.Warnings) != 1 {
		t.Fatalf("invalid alphabet: %+v %v", res, err)
	}

	res, err = Validate(withMotifs, twoPops(0, 0), DefaultConfig())
	if !errors.Is(err, ErrNoPopulationWeights) || res.Valid {
		t.Fatalf("zero weights: %+v %v", res, err)
	}
}
