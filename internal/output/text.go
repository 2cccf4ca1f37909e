// internal/output/text.go
package output

import (
	"fmt"
	"io"

	"healdette/internal/engine"
)

// StreamTextWithRenderer writes one TSV row per report as reports arrive.
// When pretty is set, render(r) is written after each row.
func StreamTextWithRenderer(w io.Writer, in <-chan engine.Report, header, pretty bool, render func(engine.Report) string) error {
	if header {
		if _, err := fmt.Fprintln(w, TSVHeader); err != nil {
			return err
		}
	}
	for r := range in {
		if err := writeTextRow(w, r, pretty, render); err != nil {
			return err
		}
	}
	return nil
}

// WriteText writes a slice of reports as TSV.
func WriteText(w io.Writer, list []engine.Report, header bool) error {
	if header {
		if _, err := fmt.Fprintln(w, TSVHeader); err != nil {
			return err
		}
	}
	for _, r := range list {
		if err := writeTextRow(w, r, false, nil); err != nil {
			return err
		}
	}
	return nil
}

func writeTextRow(w io.Writer, r engine.Report, pretty bool, render func(engine.Report) string) error {
	if _, err := fmt.Fprintln(w, FormatRowTSV(r)); err != nil {
		return err
	}
	if pretty && render != nil {
		if _, err := io.WriteString(w, render(r)); err != nil {
			return err
		}
	}
	return nil
}
