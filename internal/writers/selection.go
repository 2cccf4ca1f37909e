package writers

import (
	"encoding/json"
	"fmt"
	"io"

	"healdette/internal/output"
	"healdette/pkg/api"
)

// WriteSelection writes one allele selection in format.
func WriteSelection(out io.Writer, format string, header bool, v api.SelectionV1) error {
	switch format {
	case output.FormatText:
		return output.WriteSelectionText(out, v, header)
	case output.FormatJSON:
		return output.WriteSelectionJSON(out, v)
	case output.FormatJSONL:
		enc := json.NewEncoder(out)
		enc.SetEscapeHTML(false)
		return enc.Encode(v)
	}
	return fmt.Errorf("unknown selection format %q", format)
}
