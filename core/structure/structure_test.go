package structure

import (
	"errors"
	"reflect"
	"testing"

	"healdette/core/residue"
)

func TestAnalyzeCysteines_Single(t *testing.T) {
	a, err := AnalyzeCysteines("MKACDEFG")
	if err != nil {
		t.Fatal(err)
	}
	if a.Count != 1 || a.Pairing.Paired || len(a.Pairing.Unpaired) != 1 || a.Pairing.Unpaired[0] != 3 {
		t.Fatalf("single cysteine: %+v", a)
	}
	if len(a.Pairing.Pairs) != 0 || a.Motifs != (Motifs{}) {
		t.Fatalf("single cysteine must not pair or flag motifs: %+v", a)
	}
}

func TestAnalyzeCysteines_EvenCountsArePaired(t *testing.T) {
	for _, s := range []string{"CC", "MKCDEFCGHICKLMCN", "ACAAAAAAACAAAACAAAAAAC", "GGGG"} {
		a, err := AnalyzeCysteines(s)
		if err != nil {
			t.Fatal(err)
		}
		if a.Count%2 != 0 {
			t.Fatalf("fixture %s must have even count", s)
		}
		if !a.Pairing.Paired || len(a.Pairing.Unpaired) != 0 {
			t.Fatalf("%s: even count must be paired with nothing left over: %+v", s, a.Pairing)
		}
		if a.Pairing.Heuristic != PairingHeuristic {
			t.Fatalf("pairing must carry its heuristic tag")
		}
	}
}

func TestAnalyzeCysteines_PairsNeverReuseIndex(t *testing.T) {
	a, _ := AnalyzeCysteines("CACACACAC")
	seen := map[int]bool{}
	for _, p := range a.Pairing.Pairs {
		for _, i := range []int{p.First, p.Second} {
			if seen[i] {
				t.Fatalf("index %d reused", i)
			}
			seen[i] = true
		}
	}
	if len(a.Pairing.Unpaired) != 1 || a.Pairing.Unpaired[0] != 8 {
		t.Fatalf("odd count must leave the last cysteine: %+v", a.Pairing)
	}
	if a.Pairing.Pairs[0].Segment != "CAC" {
		t.Fatalf("segment = %q", a.Pairing.Pairs[0].Segment)
	}
}

func TestAnalyzeCysteines_Motifs(t *testing.T) {
	// terminal pair: two cysteines spanning >= 60% of length
	a, _ := AnalyzeCysteines("MKKCFWLVLLVALNLWIKANACT")
	if !a.Motifs.TerminalPair || !a.Scaffold.Suitable || !a.Scaffold.WellDistributed {
		t.Fatalf("terminal pair not recognised: %+v", a)
	}

	// ladder: spacings 4,4,4
	a, _ = AnalyzeCysteines("AACAAACAAACAAACAA")
	if !reflect.DeepEqual(a.Spacing, []int{4, 4, 4}) {
		t.Fatalf("spacing = %v", a.Spacing)
	}
	if !a.Motifs.Ladder || !a.Motifs.Clustered || !a.Scaffold.Suitable || !a.Scaffold.OptimalCount {
		t.Fatalf("ladder not recognised: %+v", a.Motifs)
	}

	// clustered only
	a, _ = AnalyzeCysteines("CCAAAAAAAAAAAAAAAAAA")
	if !a.Motifs.Clustered || a.Motifs.Ladder || a.Scaffold.Suitable {
		t.Fatalf("clustered pair: %+v", a.Motifs)
	}
	if len(a.Warnings) == 0 || a.Warnings[len(a.Warnings)-1] != "Poor cysteine distribution" {
		t.Fatalf("warnings = %v", a.Warnings)
	}
}

func TestAnalyzeCysteines_None(t *testing.T) {
	a, err := AnalyzeCysteines("MKWV")
	if err != nil {
		t.Fatal(err)
	}
	if a.Count != 0 || len(a.Positions) != 0 || !reflect.DeepEqual(a.Warnings, []string{"No cysteines found"}) {
		t.Fatalf("no cysteines: %+v", a)
	}
}

func TestHomopolymerRuns(t *testing.T) {
	runs, err := HomopolymerRuns("MKAAAAATWWWWL", 4)
	if err != nil {
		t.Fatal(err)
	}
	want := []Run{{'A', 2, 5}, {'W', 8, 4}}
	if !reflect.DeepEqual(runs, want) {
		t.Fatalf("runs = %+v, want %+v", runs, want)
	}
}

func TestPredictDisorder(t *testing.T) {
	d, err := PredictDisorder("RKAA")
	if err != nil || d != 0.5 {
		t.Fatalf("disorder = %v, %v", d, err)
	}
	if _, err := PredictDisorder(""); !errors.Is(err, residue.ErrEmptySequence) {
		t.Fatalf("expected ErrEmptySequence, got %v", err)
	}
}

func TestFindGlycosylationSites(t *testing.T) {
	sites, err := FindGlycosylationSites("ANASNPTNNST")
	if err != nil {
		t.Fatal(err)
	}
	// NAS at 1; NPT excluded; NNS at 7 and NST at 8 overlap.
	want := []GlycoSite{{1, "NAS"}, {7, "NNS"}, {8, "NST"}}
	if !reflect.DeepEqual(sites, want) {
		t.Fatalf("sites = %+v, want %+v", sites, want)
	}
}

func TestCheckSignalPeptide(t *testing.T) {
	cfg := DefaultSignalConfig()

	sig := "MKRKRA" + "LLLLLLLLLL" + "VSAGA" + "QDEKGNTSW"
	sp, err := CheckSignalPeptide(sig, cfg)
	if err != nil {
		t.Fatal(err)
	}
	if !sp.HasSignal || !sp.N.Pass || !sp.H.Pass || !sp.C.Pass {
		t.Fatalf("expected a signal peptide: %+v", sp)
	}
	if sp.N.End != 6 || sp.H.End != 16 || sp.C.End != 21 {
		t.Fatalf("region bounds: %+v", sp)
	}

	sp, _ = CheckSignalPeptide("GGGGGGGGGGGGGGGGGGGGGGGGGGGGGG", cfg)
	if sp.HasSignal || sp.Confidence > 0.34 {
		t.Fatalf("poly-G must not look like a signal: %+v", sp)
	}

	// Proline in the last three residues of the C-region blocks cleavage.
	sp, _ = CheckSignalPeptide("MKRKRA"+"LLLLLLLLLL"+"VSPGA"+"QDEKGNTSW", cfg)
	if sp.C.Pass {
		t.Fatalf("proline must fail the C-region: %+v", sp.C)
	}

	sp, _ = CheckSignalPeptide("MKRKRLLL", cfg)
	if sp.HasSignal || sp.Confidence != 0 {
		t.Fatalf("short sequences carry no signal: %+v", sp)
	}
}

func TestAnalyzeComplexity(t *testing.T) {
	c, err := AnalyzeComplexity("AQPAQPAQPAQPAQPAQPAQP")
	if err != nil {
		t.Fatal(err)
	}
	if !c.Warnings.LowComplexity || !c.Warnings.HighAQP || len(c.AQPWindows) == 0 {
		t.Fatalf("repetitive AQP sequence: %+v", c)
	}
	if c.UniqueResidues != 3 || c.Entropy >= 3.0 {
		t.Fatalf("entropy/unique: %+v", c)
	}

	c, _ = AnalyzeComplexity("MKAAAAATWLVLLVALNLWIKANA")
	if !c.Warnings.HasHomopolymers {
		t.Fatalf("homopolymer not flagged: %+v", c)
	}
}
