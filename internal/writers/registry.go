// internal/writers/registry.go
package writers

import (
	"fmt"
	"io"
	"sort"

	"healdette/internal/engine"
)

// ReportConfig selects and tunes a report writer.
type ReportConfig struct {
	Format string // text | json | jsonl
	Header bool   // text only
	Pretty bool   // text only: annotation block after each row
	Rank   bool   // buffer and order by validity, then population score
	RunID  string // stamped on JSON/JSONL reports
}

// ReportStarter spins up a writer goroutine. The returned error channel
// yields exactly one value after the input channel is closed.
type ReportStarter func(out io.Writer, cfg ReportConfig, bufSize int) (chan<- engine.Report, <-chan error)

// Writer registry (format → starter). Register in init() blocks.
var reportWriters = map[string]ReportStarter{}

// RegisterReport adds or replaces the starter for format (last wins).
func RegisterReport(format string, fn ReportStarter) { reportWriters[format] = fn }

// ReportFormats lists the registered formats in sorted order.
func ReportFormats() []string {
	out := make([]string, 0, len(reportWriters))
	for f := range reportWriters {
		out = append(out, f)
	}
	sort.Strings(out)
	return out
}

// StartReportWriter dispatches on cfg.Format. An unknown format still
// returns a draining channel so callers can close it normally.
func StartReportWriter(out io.Writer, cfg ReportConfig, bufSize int) (chan<- engine.Report, <-chan error) {
	if fn, ok := reportWriters[cfg.Format]; ok {
		return fn(out, cfg, bufSize)
	}
	return drain[engine.Report](fmt.Errorf("unknown report format %q (no writer registered)", cfg.Format), bufSize)
}

func drain[T any](err error, bufSize int) (chan<- T, <-chan error) {
	if bufSize <= 0 {
		bufSize = 64
	}
	in := make(chan T, bufSize)
	done := make(chan error, 1)
	go func() {
		for range in {
		}
		done <- err
	}()
	return in, done
}

// rankReports orders valid reports first, then by population score
// descending, then by id. The sort is stable so input order breaks the
// remaining ties.
func rankReports(list []engine.Report) {
	sort.SliceStable(list, func(i, j int) bool {
		a, b := list[i], list[j]
		if a.Valid() != b.Valid() {
			return a.Valid()
		}
		if sa, sb := a.PopulationScore(), b.PopulationScore(); sa != sb {
			return sa > sb
		}
		return a.ID < b.ID
	})
}
