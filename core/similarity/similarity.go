// core/similarity/similarity.go
package similarity

import (
	"sort"
	"sync"

	"healdette/core/mathx"
)

// Substitution groups: aliphatic, aromatic, basic, acidic, polar, small, Cys, Pro.
var groups = [...]string{"ILVM", "FYW", "KRH", "DE", "STNQ", "AG", "C", "P"}

var groupOf = func() [256]int8 {
	var g [256]int8
	for i := range g {
		g[i] = -1
	}
	for gi, set := range groups {
		for j := 0; j < len(set); j++ {
			g[set[j]] = int8(gi)
		}
	}
	return g
}()

const (
	identicalScore   = 1.0
	sameGroupScore   = 0.5
	lengthPenalty    = 0.1
	DefaultThreshold = 0.9
)

func position(a, b byte) float64 {
	if a == b {
		return identicalScore
	}
	if ga := groupOf[a]; ga >= 0 && ga == groupOf[b] {
		return sameGroupScore
	}
	return 0
}

// Score compares the overlapping prefix position by position and subtracts
// 0.1 per residue of length difference, clamped to [0,1]. An empty overlap
// scores 0. Inputs are compared byte for byte; no alphabet check is made.
func Score(s1, s2 string) float64 {
	n := min(len(s1), len(s2))
	if n == 0 {
		return 0
	}
	sum := 0.0
	for i := 0; i < n; i++ {
		sum += position(s1[i], s2[i])
	}
	diff := len(s1) - len(s2)
	if diff < 0 {
		diff = -diff
	}
	return mathx.Clamp(sum/float64(n)-lengthPenalty*float64(diff), 0, 1)
}

// Matrix computes all pairwise scores. Cost is O(N²) comparisons; rows are
// spread over threads goroutines. The result is symmetric with a unit
// diagonal for non-empty sequences.
func Matrix(seqs []string, threads int) [][]float64 {
	n := len(seqs)
	m := make([][]float64, n)
	for i := range m {
		m[i] = make([]float64, n)
	}
	if threads < 1 {
		threads = 1
	}
	rows := make(chan int, threads*2)
	var wg sync.WaitGroup
	wg.Add(threads)
	for w := 0; w < threads; w++ {
		go func() {
			defer wg.Done()
			for i := range rows {
				// Each worker owns row i for j >= i and the mirrored cells
				// m[j][i]; no two rows write the same cell.
				for j := i; j < n; j++ {
					v := Score(seqs[i], seqs[j])
					m[i][j] = v
					m[j][i] = v
				}
			}
		}()
	}
	for i := 0; i < n; i++ {
		rows <- i
	}
	close(rows)
	wg.Wait()
	return m
}

// RedundantGroups greedily groups sequences whose similarity to the group's
// first member exceeds threshold. Only groups with two or more members are
// returned; indices within a group are ascending.
func RedundantGroups(seqs []string, threshold float64, threads int) [][]int {
	m := Matrix(seqs, threads)
	used := make([]bool, len(seqs))
	var out [][]int
	for i := range seqs {
		if used[i] {
			continue
		}
		g := []int{i}
		for j := i + 1; j < len(seqs); j++ {
			if !used[j] && m[i][j] > threshold {
				g = append(g, j)
				used[j] = true
			}
		}
		if len(g) > 1 {
			out = append(out, g)
		}
	}
	return out
}

// Antibody is a reference therapeutic antibody.
type Antibody struct {
	Name         string `json:"name" yaml:"name"`
	Target       string `json:"target,omitempty" yaml:"target,omitempty"`
	AntibodyType string `json:"antibody_type,omitempty" yaml:"antibody_type,omitempty"`
	HeavyChain   string `json:"heavy_chain" yaml:"heavy_chain"`
	LightChain   string `json:"light_chain" yaml:"light_chain"`
}

// Match is one library hit.
type Match struct {
	Name     string
	Target   string
	Score    float64 // 0.6·heavy + 0.4·light, 3 decimals
	Heavy    float64
	Light    float64
	VeryHigh bool // Score > VeryHighSimilarity
}

const (
	HeavyWeight          = 0.6
	LightWeight          = 0.4
	DefaultLibraryCutoff = 0.7
	VeryHighSimilarity   = 0.9
)

// FindSimilar scores a heavy/light pair against every library entry and
// returns those at or above threshold, best first (ties by name).
func FindSimilar(heavy, light string, library []Antibody, threshold float64) []Match {
	var out []Match
	for _, ab := range library {
		h := Score(heavy, ab.HeavyChain)
		l := Score(light, ab.LightChain)
		overall := HeavyWeight*h + LightWeight*l
		if overall < threshold {
			continue
		}
		out = append(out, Match{
			Name:     ab.Name,
			Target:   ab.Target,
			Score:    mathx.Round(overall, 3),
			Heavy:    mathx.Round(h, 3),
			Light:    mathx.Round(l, 3),
			VeryHigh: overall > VeryHighSimilarity,
		})
	}
	sortMatches(out)
	return out
}

// FindSimilarChain scores a single chain against the matching chain of each
// library entry. Score and the chain field both carry the chain similarity.
func FindSimilarChain(seq string, light bool, library []Antibody, threshold float64) []Match {
	var out []Match
	for _, ab := range library {
		ref := ab.HeavyChain
		if light {
			ref = ab.LightChain
		}
		s := Score(seq, ref)
		if s < threshold {
			continue
		}
		m := Match{Name: ab.Name, Target: ab.Target, Score: mathx.Round(s, 3), VeryHigh: s > VeryHighSimilarity}
		if light {
			m.Light = m.Score
		} else {
			m.Heavy = m.Score
		}
		out = append(out, m)
	}
	sortMatches(out)
	return out
}

func sortMatches(out []Match) {
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Score != out[j].Score {
			return out[i].Score > out[j].Score
		}
		return out[i].Name < out[j].Name
	})
}
