package similarity

import (
	"math"
	"reflect"
	"testing"
)

func TestScore(t *testing.T) {
	cases := []struct {
		a, b string
		want float64
	}{
		{"MKWVTF", "MKWVTF", 1.0},
		{"AAAA", "XXXX", 0.0},
		{"AAAA", "DDDD", 0.0},
		{"ILVM", "LIMV", 0.5},
		{"KD", "RE", 0.5},
		{"AAAA", "AAA", 0.9},
		{"A", "AAAAAAAAAAAA", 0.0},
		{"", "MK", 0.0},
		{"", "", 0.0},
	}
	for _, c := range cases {
		got := Score(c.a, c.b)
		if math.Abs(got-c.want) > 1e-12 {
			t.Fatalf("Score(%q,%q) = %v, want %v", c.a, c.b, got, c.want)
		}
		if back := Score(c.b, c.a); back != got {
			t.Fatalf("Score not symmetric for %q/%q", c.a, c.b)
		}
	}
}

func TestMatrix_SerialEqualsParallel(t *testing.T) {
	seqs := []string{"MKWVTF", "MKWVTA", "DDEEKK", "GGGG", "MKWVTF", "ILVMFW"}
	serial := Matrix(seqs, 1)
	parallel := Matrix(seqs, 4)
	if !reflect.DeepEqual(serial, parallel) {
		t.Fatalf("serial and parallel matrices differ")
	}
	for i := range seqs {
		if serial[i][i] != 1.0 {
			t.Fatalf("diagonal[%d] = %v", i, serial[i][i])
		}
	}
}

func TestRedundantGroups(t *testing.T) {
	seqs := []string{"MKWVTFISLL", "DDDDDDDDDD", "MKWVTFISLL", "MKWVTFISLV", "DDDDDDDDDE"}
	got := RedundantGroups(seqs, DefaultThreshold, 2)
	want := [][]int{{0, 2, 3}, {1, 4}}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("groups = %v, want %v", got, want)
	}
	if g := RedundantGroups([]string{"MK", "DE"}, DefaultThreshold, 1); len(g) != 0 {
		t.Fatalf("singletons must be dropped: %v", g)
	}
}

func TestFindSimilar(t *testing.T) {
	lib := []Antibody{
		{Name: "beta", HeavyChain: "MKWVTF", LightChain: "DDEE"},
		{Name: "alpha", HeavyChain: "MKWVTF", LightChain: "DDEE"},
		{Name: "far", HeavyChain: "GGGGGG", LightChain: "PPPP"},
	}
	got := FindSimilar("MKWVTF", "DDKK", lib, DefaultLibraryCutoff)
	if len(got) != 2 || got[0].Name != "alpha" || got[1].Name != "beta" {
		t.Fatalf("matches = %+v", got)
	}
	// heavy 1.0, light 0.5
	if got[0].Score != 0.8 || got[0].Light != 0.5 || got[0].VeryHigh {
		t.Fatalf("score = %+v", got[0])
	}
	if len(FindSimilar("MKWVTF", "DDEE", lib[2:], DefaultLibraryCutoff)) != 0 {
		t.Fatalf("dissimilar entry must be filtered")
	}
}

func TestFindSimilarChain(t *testing.T) {
	lib := []Antibody{
		{Name: "b", HeavyChain: "ILKD", LightChain: "AAAA"},
		{Name: "a", HeavyChain: "ILKD", LightChain: "ILKD"},
		{Name: "c", HeavyChain: "GGGG", LightChain: "ILKD"},
	}
	got := FindSimilarChain("ILKD", false, lib, 0.7)
	if len(got) != 2 || got[0].Name != "a" || got[1].Name != "b" || got[0].Heavy != 1 || got[0].Light != 0 || !got[0].VeryHigh {
		t.Fatalf("heavy matches = %+v", got)
	}
	got = FindSimilarChain("ILKD", true, lib, 0.7)
	if len(got) != 2 || got[0].Name != "a" || got[1].Name != "c" || got[1].Light != 1 {
		t.Fatalf("light matches = %+v", got)
	}
}
