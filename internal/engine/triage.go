package engine

import (
	"fmt"

	"healdette/internal/refdata"
)

// Assess checks a report against the triage criteria. Every failed
// criterion adds one reason; Pass is true when there are none.
func Assess(r Report, c refdata.Criteria) Triage {
	var reasons []string
	if r.Disorder > c.DisorderThreshold {
		reasons = append(reasons, fmt.Sprintf("high disorder: %.3f", r.Disorder))
	}
	if c.SignalPeptide == refdata.SignalDisallow && r.Signal.HasSignal {
		reasons = append(reasons, "has signal peptide")
	}
	if c.CysPairs == refdata.CysPairsRequired && !r.Cysteines.Pairing.Paired {
		reasons = append(reasons, "lacks paired cysteines")
	}
	if g := r.Properties.Gravy; g < c.GravyRange[0] || g > c.GravyRange[1] {
		reasons = append(reasons, fmt.Sprintf("GRAVY %.3f outside range [%g, %g]", g, c.GravyRange[0], c.GravyRange[1]))
	}
	return Triage{Pass: len(reasons) == 0, Reasons: reasons}
}
