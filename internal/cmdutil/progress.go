package cmdutil

import (
	"io"

	"gopkg.in/cheggaaa/pb.v1"
)

// Progress draws a record counter on w. A nil *Progress is a no-op, so
// callers need not check whether --progress was given.
type Progress struct {
	bar *pb.ProgressBar
}

// StartProgress returns nil unless enabled. total may be 0 when the record
// count is unknown; the bar then shows a plain counter.
func StartProgress(w io.Writer, enabled bool, total int) *Progress {
	if !enabled {
		return nil
	}
	bar := pb.New(total)
	bar.Output = w
	bar.ShowSpeed = true
	bar.ShowTimeLeft = total > 0
	bar.SetUnits(pb.U_NO)
	bar.Prefix("sequences ")
	return &Progress{bar: bar.Start()}
}

// Increment advances the counter by one.
func (p *Progress) Increment() {
	if p == nil {
		return
	}
	p.bar.Increment()
}

// Finish stops redrawing and prints the final state.
func (p *Progress) Finish() {
	if p == nil {
		return
	}
	p.bar.Finish()
}
