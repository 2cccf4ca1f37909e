// Package pretty renders a commented ASCII annotation block for a report:
// the sequence in fixed-width rows with a marker track underneath.
package pretty

import (
	"fmt"
	"strings"

	"healdette/internal/engine"
)

// Options control the ASCII rendering.
type Options struct {
	// Residues per row. If <=0, use default (60).
	Width int

	// Draw a CDR track (=====) under each row when CDRs were extracted.
	ShowCDRs bool

	// Glyphs
	PairGlyph     byte // paired cysteine, default '^'
	UnpairedGlyph byte // unpaired cysteine, default '!'
	GlycoGlyph    byte // first residue of an N-X-S/T sequon, default '*'
	CDRGlyph      byte // default '='
}

// DefaultOptions is the look used by --pretty.
var DefaultOptions = Options{
	Width:         60,
	ShowCDRs:      true,
	PairGlyph:     '^',
	UnpairedGlyph: '!',
	GlycoGlyph:    '*',
	CDRGlyph:      '=',
}

const (
	linePrefix = "# "
	posWidth   = 6
)

// RenderReport renders r with DefaultOptions.
func RenderReport(r engine.Report) string {
	return RenderReportWithOptions(r, DefaultOptions)
}

// RenderReportWithOptions renders r. Every line starts with "# " so the block
// can sit between TSV rows.
func RenderReportWithOptions(r engine.Report, o Options) string {
	if o.Width <= 0 {
		o.Width = DefaultOptions.Width
	}
	var b strings.Builder
	fmt.Fprintf(&b, "%s%s  len=%d  valid=%t\n", linePrefix, r.ID, r.Length, r.Valid())
	if r.Err != nil {
		fmt.Fprintf(&b, "%serror: %v\n", linePrefix, r.Err)
		return b.String()
	}

	marks := markerTrack(r, o)
	var cdrs []byte
	if o.ShowCDRs && r.CDR != nil {
		cdrs = cdrTrack(r, o.CDRGlyph)
	}
	pad := strings.Repeat(" ", posWidth+1)
	for start := 0; start < len(r.Sequence); start += o.Width {
		end := min(start+o.Width, len(r.Sequence))
		fmt.Fprintf(&b, "%s%*d %s\n", linePrefix, posWidth, start+1, r.Sequence[start:end])
		if t := strings.TrimRight(string(marks[start:end]), " "); t != "" {
			b.WriteString(linePrefix + pad + t + "\n")
		}
		if cdrs != nil {
			if t := strings.TrimRight(string(cdrs[start:end]), " "); t != "" {
				b.WriteString(linePrefix + pad + t + "\n")
			}
		}
	}
	return b.String()
}

func blankTrack(n int) []byte {
	t := make([]byte, n)
	for i := range t {
		t[i] = ' '
	}
	return t
}

func markerTrack(r engine.Report, o Options) []byte {
	t := blankTrack(len(r.Sequence))
	put := func(i int, g byte) {
		if i >= 0 && i < len(t) {
			t[i] = g
		}
	}
	for _, g := range r.Glycosylation {
		put(g.Position, o.GlycoGlyph)
	}
	for _, p := range r.Cysteines.Pairing.Pairs {
		put(p.First, o.PairGlyph)
		put(p.Second, o.PairGlyph)
	}
	for _, i := range r.Cysteines.Pairing.Unpaired {
		put(i, o.UnpairedGlyph)
	}
	return t
}

// cdrTrack marks each non-empty CDR, which starts where the preceding
// framework ends.
func cdrTrack(r engine.Report, glyph byte) []byte {
	t := blankTrack(len(r.Sequence))
	for i, c := range r.CDR.CDRs() {
		if c == "" {
			continue
		}
		start := r.CDR.Frameworks[i].End
		for j := start; j < start+len(c) && j < len(t); j++ {
			t[j] = glyph
		}
	}
	return t
}
