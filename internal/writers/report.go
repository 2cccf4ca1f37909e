package writers

import (
	"io"

	"healdette/internal/engine"
	"healdette/internal/jsonlutil"
	"healdette/internal/output"
	"healdette/internal/pretty"
)

func init() {
	RegisterReport(output.FormatText, startText)
	RegisterReport(output.FormatJSON, startJSON)
	RegisterReport(output.FormatJSONL, startJSONL)
}

func collect(in <-chan engine.Report, rank bool) []engine.Report {
	var buf []engine.Report
	for r := range in {
		buf = append(buf, r)
	}
	if rank {
		rankReports(buf)
	}
	return buf
}

func startText(out io.Writer, cfg ReportConfig, bufSize int) (chan<- engine.Report, <-chan error) {
	if bufSize <= 0 {
		bufSize = 64
	}
	in := make(chan engine.Report, bufSize)
	errCh := make(chan error, 1)
	go func() {
		var err error
		if cfg.Rank {
			// Re-stream the ranked slice through the streaming writer.
			buf := collect(in, true)
			ch := make(chan engine.Report, len(buf))
			for _, r := range buf {
				ch <- r
			}
			close(ch)
			err = output.StreamTextWithRenderer(out, ch, cfg.Header, cfg.Pretty, pretty.RenderReport)
		} else {
			err = output.StreamTextWithRenderer(out, in, cfg.Header, cfg.Pretty, pretty.RenderReport)
			for range in {
			}
		}
		errCh <- err
	}()
	return in, errCh
}

func startJSON(out io.Writer, cfg ReportConfig, bufSize int) (chan<- engine.Report, <-chan error) {
	if bufSize <= 0 {
		bufSize = 64
	}
	in := make(chan engine.Report, bufSize)
	errCh := make(chan error, 1)
	go func() {
		errCh <- output.WriteJSON(out, cfg.RunID, collect(in, cfg.Rank))
	}()
	return in, errCh
}

// startJSONL streams each report as one JSON line (v1). Ranking needs the
// full batch, so it falls back to buffering.
func startJSONL(out io.Writer, cfg ReportConfig, bufSize int) (chan<- engine.Report, <-chan error) {
	wire := func(r engine.Report) any { return output.ToAPIReport(cfg.RunID, r) }
	if !cfg.Rank {
		return jsonlutil.Start[engine.Report](out, bufSize, wire, IsBrokenPipe)
	}
	if bufSize <= 0 {
		bufSize = 64
	}
	in := make(chan engine.Report, bufSize)
	errCh := make(chan error, 1)
	go func() {
		buf := collect(in, true)
		lines, done := jsonlutil.Start[engine.Report](out, len(buf), wire, IsBrokenPipe)
		for _, r := range buf {
			lines <- r
		}
		close(lines)
		errCh <- <-done
	}()
	return in, errCh
}
