package coverage

import (
	"errors"
	"math"
	"reflect"
	"testing"

	"healdette/core/population"
)

func fixture() Table {
	return Table{
		Populations: map[string]map[string]map[string]float64{
			"european": {
				"hla_a": {"A*02:01": 0.45, "A*01:01": 0.30},
				"hla_b": {"B*07:02": 0.25},
				"hla_c": {"C*07:01": 0.60},
			},
			"asian": {
				"hla_a": {"A*02:01": 0.25, "A*24:02": 0.55},
				"hla_b": {"B*46:01": 0.15},
				"hla_c": {"C*07:01": 0.90},
			},
		},
		Haplotypes: map[string][]Haplotype{
			"european": {
				{Haplotype: "A*01:01-B*08:01-C*07:01", Frequency: 0.09},
				{Haplotype: "A*03:01-B*07:02-C*07:02", Frequency: 0.04},
			},
		},
	}
}

func TestSelectOptimalAlleles(t *testing.T) {
	sel, err := SelectOptimalAlleles(fixture(), 0.85, nil)
	if err != nil {
		t.Fatal(err)
	}
	// means: C*07:01 .75, A*24:02 .55, A*02:01 .35, A*01:01 .30
	want := []string{"C*07:01", "A*24:02", "A*02:01"}
	if !reflect.DeepEqual(sel.Alleles, want) {
		t.Fatalf("alleles = %v, want %v", sel.Alleles, want)
	}
	if !sel.TargetMet || sel.Err() != nil {
		t.Fatalf("target should be met: %+v", sel)
	}
	for p, c := range sel.PopulationCoverage {
		if c > 1.0 {
			t.Fatalf("%s coverage %v > 1", p, c)
		}
	}
	if sel.PopulationCoverage["asian"] != 1.0 {
		t.Fatalf("asian coverage should be capped at 1: %v", sel.PopulationCoverage)
	}
	mean := (sel.PopulationCoverage["asian"] + sel.PopulationCoverage["european"]) / 2
	if math.Abs(sel.TotalCoverage-mean) > 1e-12 {
		t.Fatalf("total %v != mean %v", sel.TotalCoverage, mean)
	}
}

func TestSelectOptimalAlleles_Unmet(t *testing.T) {
	tab := fixture()
	tab.Populations["african"] = map[string]map[string]float64{
		"hla_a": {"A*30:01": 0.2},
		"hla_b": {"B*53:01": 0.1},
	}
	sel, err := SelectOptimalAlleles(tab, 0.85, []string{"african"})
	if err != nil {
		t.Fatal(err)
	}
	if sel.TargetMet || len(sel.Alleles) != 2 || len(sel.Warnings) != 1 {
		t.Fatalf("expected exhaustion: %+v", sel)
	}
	if !errors.Is(sel.Err(), ErrCoverageTargetUnmet) {
		t.Fatalf("Err() = %v", sel.Err())
	}
	if math.Abs(sel.PopulationCoverage["african"]-0.3) > 1e-12 || math.Abs(sel.TotalCoverage-0.3) > 1e-12 {
		t.Fatalf("coverage must be reported honestly: %+v", sel)
	}

	if _, err := SelectOptimalAlleles(fixture(), 0.5, []string{"martian"}); !errors.Is(err, ErrUnknownPopulation) {
		t.Fatalf("expected ErrUnknownPopulation, got %v", err)
	}
}

func TestPredictBindingAffinity(t *testing.T) {
	cases := []struct {
		n      int
		allele string
		want   Affinity
	}{
		{9, "A*02:01", Strong},
		{8, "A*02:01", Moderate},
		{10, "HLA-B*07:02", Moderate},
		{11, "A*02:01", Weak},
		{12, "A*02:01", NonBinder},
		{9, "C*07:01", Strong},
		{10, "C*07:01", Moderate},
	}
	for _, c := range cases {
		got, err := PredictBindingAffinity(fixture(), c.n, c.allele)
		if err != nil || got != c.want {
			t.Fatalf("PredictBindingAffinity(%d, %s) = %v, %v; want %v", c.n, c.allele, got, err, c.want)
		}
	}
	tab := fixture()
	tab.PeptideLengthPreferences = map[string][]int{"hla_a": {11}}
	if got, _ := PredictBindingAffinity(tab, 11, "A*02:01"); got != Strong {
		t.Fatalf("table preferences must override defaults, got %v", got)
	}
	if _, err := PredictBindingAffinity(fixture(), 9, "DRB1*01:01"); !errors.Is(err, ErrUnknownLocus) {
		t.Fatalf("expected ErrUnknownLocus, got %v", err)
	}
}

func TestCoverageAndCommon(t *testing.T) {
	c, err := Coverage(fixture(), []string{"A*02:01", "A*02:01", "B*07:02", "X"}, "european")
	if err != nil || math.Abs(c-0.70) > 1e-12 {
		t.Fatalf("coverage = %v, %v", c, err)
	}
	c, _ = Coverage(fixture(), []string{"C*07:01", "A*24:02"}, "asian")
	if c != 1.0 {
		t.Fatalf("coverage must cap at 1, got %v", c)
	}

	common, err := CommonAlleles(fixture(), "european", 0.3)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(common["hla_a"], []string{"A*01:01", "A*02:01"}) || len(common["hla_b"]) != 0 {
		t.Fatalf("common = %v", common)
	}
}

func TestLinkedAlleles(t *testing.T) {
	got := LinkedAlleles(fixture(), "C*07:01", "european")
	if len(got) != 1 || got[0].Frequency != 0.09 || got[0].Alleles[1] != "B*08:01" {
		t.Fatalf("linked = %+v", got)
	}
	if len(LinkedAlleles(fixture(), "C*07:0", "european")) != 0 {
		t.Fatalf("partial allele names must not match")
	}
}

func TestAnalyzeBindingAndEpitope(t *testing.T) {
	b, err := AnalyzeBinding(fixture(), []int{9, 9, 10}, []string{"asian"})
	if err != nil {
		t.Fatal(err)
	}
	// Every allele is STRONG at 9, so coverage sums and caps.
	if len(b["asian"].StrongBinders) != 4 || b["asian"].Coverage != 1.0 {
		t.Fatalf("binding = %+v", b["asian"])
	}

	rep, err := EpitopeCoverage(fixture(), "MKWVTFISLLFLFSSAYS", nil, 0.85)
	if err != nil {
		t.Fatal(err)
	}
	if rep.SequenceLength != 18 || rep.Peptides[8] != 11 || rep.Peptides[10] != 9 {
		t.Fatalf("epitope report = %+v", rep)
	}
	// Only 9 of 8..10 is STRONG for hla_a: 1/3 < 0.5.
	if len(rep.Binding["european"].StrongBinders) != 0 {
		t.Fatalf("strong binders = %v", rep.Binding["european"].StrongBinders)
	}
	if len(rep.Selection.Alleles) == 0 {
		t.Fatalf("selection missing")
	}
	rep.PeptideLengths[0] = 99
	if EpitopePeptideLengths[0] != 8 {
		t.Fatalf("report must not share EpitopePeptideLengths: %v", EpitopePeptideLengths)
	}
}

func TestFromProfiles(t *testing.T) {
	tab := FromProfiles([]population.Profile{
		{ID: "p1", HLAFrequencies: map[string]map[string]float64{"hla_a": {"A*02:01": 0.4}}},
		{ID: "p2"},
	})
	if !reflect.DeepEqual(tab.PopulationNames(), []string{"p1"}) {
		t.Fatalf("populations = %v", tab.PopulationNames())
	}
}

func TestEvaluateAlleles(t *testing.T) {
	sel, err := EvaluateAlleles(fixture(), []string{"C*07:01", "C*07:01", "A*02:01"}, 0.85, nil)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(sel.Alleles, []string{"C*07:01", "A*02:01"}) {
		t.Fatalf("alleles = %v", sel.Alleles)
	}
	// european .60+.45 and asian .90+.25 both cap at 1.
	if !sel.TargetMet || sel.PopulationCoverage["european"] != 1.0 || sel.TotalCoverage != 1.0 {
		t.Fatalf("selection = %+v", sel)
	}

	sel, _ = EvaluateAlleles(fixture(), []string{"A*01:01"}, 0.85, []string{"european", "asian"})
	if sel.TargetMet || !errors.Is(sel.Err(), ErrCoverageTargetUnmet) || len(sel.Warnings) != 1 {
		t.Fatalf("unmet selection = %+v", sel)
	}
	if sel.PopulationCoverage["asian"] != 0 {
		t.Fatalf("asian does not list A*01:01: %v", sel.PopulationCoverage)
	}

	if _, err := EvaluateAlleles(fixture(), nil, 0.5, []string{"martian"}); !errors.Is(err, ErrUnknownPopulation) {
		t.Fatalf("unknown population: %v", err)
	}
}
