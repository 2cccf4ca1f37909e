// core/cdr/cdr.go
// Anchor-based CDR extraction by exact substring search. A single mutated
// residue inside a framework region breaks extraction; there is no fuzzy
// matching.

package cdr

import (
	"errors"
	"fmt"
	"strings"

	"healdette/core/residue"
)

// ErrMissingFrameworkAnchor is non-fatal: the dependent CDRs are left empty.
var ErrMissingFrameworkAnchor = errors.New("missing framework anchor")

// Anchors are the four framework regions in N→C order.
type Anchors struct {
	FR1, FR2, FR3, FR4 string
}

// HeavyChainAnchors are the human VH3 consensus frameworks.
var HeavyChainAnchors = Anchors{
	FR1: "EVQLVESGGGLVQPGGSLRLSCAAS",
	FR2: "WVRQAPGKGLEWV",
	FR3: "RFTISRDNSKNTLYLQMNSLRAEDTAVYYC",
	FR4: "WGQGTLVTVSS",
}

// LightChainAnchors are the human VK1 consensus frameworks.
var LightChainAnchors = Anchors{
	FR1: "DIQMTQSPSSLSASVGDRVTITC",
	FR2: "WYQQKPGKAPKLLIY",
	FR3: "GVPSRFSGSGSGTDFTLTISSLQPEDFATYYC",
	FR4: "FGQGTKVEIK",
}

func (a Anchors) list() [4]string { return [4]string{a.FR1, a.FR2, a.FR3, a.FR4} }

// Span is a half-open [Start, End) interval; Start is -1 when absent.
type Span struct {
	Start, End int
}

func (s Span) found() bool { return s.Start >= 0 }

// Result holds the three CDRs and the located frameworks.
type Result struct {
	CDR1, CDR2, CDR3 string
	Frameworks       [4]Span
	Missing          []string // FR names not found
	Warnings         []string
}

// Err reports the missing anchors as a single ErrMissingFrameworkAnchor, or nil.
func (r Result) Err() error {
	if len(r.Missing) == 0 {
		return nil
	}
	return fmt.Errorf("%w: %s", ErrMissingFrameworkAnchor, strings.Join(r.Missing, ","))
}

// CDRs returns CDR1..CDR3 in order.
func (r Result) CDRs() [3]string { return [3]string{r.CDR1, r.CDR2, r.CDR3} }

// Extract locates FR1..FR4, each searched after the end of the previous
// anchor that was found, and slices the CDRs strictly between them. Only an
// invalid alphabet is returned as an error.
func Extract(seq string, anchors Anchors) (Result, error) {
	s, err := residue.Validate(seq)
	if err != nil {
		return Result{}, fmt.Errorf("cdr: %w", err)
	}
	var r Result
	from := 0
	for i, fr := range anchors.list() {
		r.Frameworks[i] = Span{Start: -1, End: -1}
		if fr == "" {
			r.miss(i)
			continue
		}
		k := strings.Index(s[from:], fr)
		if k < 0 {
			r.miss(i)
			continue
		}
		r.Frameworks[i] = Span{Start: from + k, End: from + k + len(fr)}
		from = r.Frameworks[i].End
	}

	cdrs := [3]*string{&r.CDR1, &r.CDR2, &r.CDR3}
	for i, dst := range cdrs {
		left, right := r.Frameworks[i], r.Frameworks[i+1]
		if left.found() && right.found() {
			*dst = s[left.End:right.Start]
		}
	}
	return r, nil
}

func (r *Result) miss(i int) {
	name := fmt.Sprintf("FR%d", i+1)
	r.Missing = append(r.Missing, name)
	r.Warnings = append(r.Warnings, fmt.Sprintf("%v: %s", ErrMissingFrameworkAnchor, name))
}

// Range is an inclusive length interval.
type Range struct {
	Min int `json:"min" yaml:"min"`
	Max int `json:"max" yaml:"max"`
}

// LengthRanges are the acceptable CDR1..CDR3 lengths for one chain type.
type LengthRanges [3]Range

var (
	HeavyLengths = LengthRanges{{5, 10}, {12, 17}, {9, 17}}
	LightLengths = LengthRanges{{10, 12}, {7, 8}, {8, 10}}
)

// CheckLengths warns for every extracted CDR whose length falls outside its
// range. CDRs left empty by a missing anchor are skipped; that is already
// reported by Extract.
func CheckLengths(r Result, ranges LengthRanges) []string {
	var warns []string
	for i, c := range r.CDRs() {
		if !r.Frameworks[i].found() || !r.Frameworks[i+1].found() {
			continue
		}
		lr := ranges[i]
		if len(c) < lr.Min || len(c) > lr.Max {
			warns = append(warns, fmt.Sprintf("CDR%d length %d outside valid range [%d, %d]", i+1, len(c), lr.Min, lr.Max))
		}
	}
	return warns
}
