// internal/output/json.go
package output

import (
	"io"

	"healdette/internal/engine"
	"healdette/internal/jsonutil"
	"healdette/pkg/api"
)

// ToAPIReport converts a domain Report to the stable wire schema (v1).
func ToAPIReport(runID string, r engine.Report) api.ReportV1 {
	v := api.ReportV1{
		RunID:       runID,
		SequenceID:  r.ID,
		Description: r.Description,
		SourceFile:  r.SourceFile,
		Sequence:    r.Sequence,
		Length:      r.Length,
		Valid:       r.Valid(),
		Triage:      api.TriageV1{Pass: r.Triage.Pass, Reasons: r.Triage.Reasons},
	}
	if r.Err != nil {
		v.Error = r.Err.Error()
		return v
	}

	p := r.Properties
	v.Properties = &api.PropertiesV1{
		PI:                 p.PI,
		Gravy:              p.Gravy,
		MolecularWeight:    p.MolecularWeight,
		ChargePH74:         p.ChargePhys,
		Aromaticity:        p.Aromaticity,
		AromaticContent:    p.Aromatic,
		HydrophobicContent: p.Hydrophobic,
		PositiveContent:    p.Positive,
		NegativeContent:    p.Negative,
		NetCharge:          p.NetCharge,
	}

	c := r.Cysteines
	st := &api.StructureV1{
		Disorder: r.Disorder,
		Cysteines: api.CysteinesV1{
			Count:     c.Count,
			Positions: append([]int{}, c.Positions...),
			Spacing:   c.Spacing,
			Pairing: api.PairingV1{
				Heuristic: c.Pairing.Heuristic,
				Paired:    c.Pairing.Paired,
				Unpaired:  c.Pairing.Unpaired,
			},
			TerminalPair:     c.Motifs.TerminalPair,
			Ladder:           c.Motifs.Ladder,
			Clustered:        c.Motifs.Clustered,
			SuitableScaffold: c.Scaffold.Suitable,
			PreferredSpacing: c.Scaffold.PreferredSpacing,
			OptimalCount:     c.Scaffold.OptimalCount,
			WellDistributed:  c.Scaffold.WellDistributed,
			Warnings:         c.Warnings,
		},
		SignalPeptide: api.SignalPeptideV1{
			HasSignal:  r.Signal.HasSignal,
			Confidence: r.Signal.Confidence,
			NScore:     r.Signal.N.Score,
			HScore:     r.Signal.H.Score,
			CScore:     r.Signal.C.Score,
		},
		Complexity: api.ComplexityV1{
			Entropy:         r.Complexity.Entropy,
			UniqueResidues:  r.Complexity.UniqueResidues,
			AQPPercent:      r.Complexity.AQPPercent,
			AQPWindows:      len(r.Complexity.AQPWindows),
			LowComplexity:   r.Complexity.Warnings.LowComplexity,
			HighAQP:         r.Complexity.Warnings.HighAQP,
			HasHomopolymers: r.Complexity.Warnings.HasHomopolymers,
		},
	}
	for _, pr := range c.Pairing.Pairs {
		st.Cysteines.Pairing.Pairs = append(st.Cysteines.Pairing.Pairs, [2]int{pr.First, pr.Second})
	}
	for _, g := range r.Glycosylation {
		st.Glycosylation = append(st.Glycosylation, api.GlycoSiteV1{Position: g.Position, Motif: g.Motif})
	}
	v.Structure = st

	if r.CDR != nil {
		v.CDRs = &api.CDRsV1{
			Chain:    r.Chain,
			CDR1:     r.CDR.CDR1,
			CDR2:     r.CDR.CDR2,
			CDR3:     r.CDR.CDR3,
			Missing:  r.CDR.Missing,
			Warnings: append(append([]string(nil), r.CDR.Warnings...), r.CDRWarnings...),
		}
	}

	if pv := r.Population; pv != nil {
		pop := &api.PopulationV1{
			Valid:         pv.Valid,
			WeightedScore: pv.WeightedScore,
			Warnings:      pv.Warnings,
		}
		if len(pv.PopulationScores) > 0 {
			pop.Scores = make(map[string]api.PopulationScoreV1, len(pv.PopulationScores))
			for id, s := range pv.PopulationScores {
				pop.Scores[id] = api.PopulationScoreV1{
					Score:         s.Score.Score,
					Weight:        s.Weight,
					MotifFraction: s.MotifFraction,
					OutOfRange:    s.OutOfRange,
				}
			}
		}
		if len(pv.Blended) > 0 {
			pop.Blended = make(map[string]api.RangeV1, len(pv.Blended))
			for m, rg := range pv.Blended {
				pop.Blended[m] = api.RangeV1{Min: rg.Min, Max: rg.Max}
			}
		}
		v.Population = pop
	}

	for _, m := range r.Similar {
		v.Similar = append(v.Similar, api.SimilarityMatchV1{
			Name: m.Name, Target: m.Target, Score: m.Score,
			Heavy: m.Heavy, Light: m.Light, VeryHigh: m.VeryHigh,
		})
	}
	return v
}

func toAPIReports(runID string, list []engine.Report) []api.ReportV1 {
	out := make([]api.ReportV1, 0, len(list))
	for _, r := range list {
		out = append(out, ToAPIReport(runID, r))
	}
	return out
}

// WriteJSON writes a single JSON array of v1 reports (pretty-indented).
func WriteJSON(w io.Writer, runID string, list []engine.Report) error {
	return jsonutil.EncodePretty(w, toAPIReports(runID, list))
}
