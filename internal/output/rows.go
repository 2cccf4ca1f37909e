// internal/output/rows.go
package output

import (
	"fmt"
	"strings"

	"healdette/internal/engine"
)

func passFail(ok bool) string {
	if ok {
		return "PASS"
	}
	return "FAIL"
}

// FormatRowTSV returns the TSVHeader columns for r (no trailing newline).
func FormatRowTSV(r engine.Report) string {
	reasons := strings.Join(r.Triage.Reasons, "; ")
	if r.Err != nil {
		return strings.Join([]string{
			r.SourceFile, r.ID, fmt.Sprint(r.Length), "false",
			NA, NA, NA, NA, NA, NA, NA, NA, NA, NA,
			passFail(false), reasons,
		}, "\t")
	}
	pop := NA
	if r.Population != nil {
		pop = fmt.Sprintf("%.3f", r.Population.WeightedScore)
	}
	p := r.Properties
	return fmt.Sprintf("%s\t%s\t%d\t%t\t%.2f\t%.3f\t%.1f\t%d\t%.3f\t%d\t%t\t%t\t%d\t%s\t%s\t%s",
		r.SourceFile, r.ID, r.Length, r.Valid(),
		p.PI, p.Gravy, p.MolecularWeight, p.NetCharge,
		r.Disorder, r.Cysteines.Count, r.Cysteines.Pairing.Paired,
		r.Signal.HasSignal, len(r.Glycosylation),
		pop, passFail(r.Triage.Pass), reasons,
	)
}
