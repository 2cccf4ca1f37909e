package appcore

import (
	"io"

	"healdette/internal/engine"
	"healdette/internal/output"
	"healdette/internal/writers"
)

// ReportWriterFactory starts the registered report writer for Format.
type ReportWriterFactory struct {
	Format string
	Header bool
	Pretty bool
	Rank   bool
	RunID  string
}

func NewReportWriterFactory(format string, header, pretty, rank bool, runID string) ReportWriterFactory {
	return ReportWriterFactory{Format: format, Header: header, Pretty: pretty, Rank: rank, RunID: runID}
}

// Config is the writer configuration; Pretty only applies to text.
func (w ReportWriterFactory) Config() writers.ReportConfig {
	return writers.ReportConfig{
		Format: w.Format,
		Header: w.Header,
		Pretty: w.Pretty && w.Format == output.FormatText,
		Rank:   w.Rank,
		RunID:  w.RunID,
	}
}

func (w ReportWriterFactory) Start(out io.Writer, bufSize int) (chan<- engine.Report, <-chan error) {
	return writers.StartReportWriter(out, w.Config(), bufSize)
}
