package visitors

import "healdette/internal/engine"

// Filter drops reports that miss any enabled condition.
type Filter struct {
	ValidOnly          bool    // require Report.Valid()
	PassedTriage       bool    // require Triage.Pass
	MinPopulationScore float64 // 0 disables; unscored reports fail when set
}

func (f Filter) Visit(r engine.Report) (bool, engine.Report, error) {
	switch {
	case f.ValidOnly && !r.Valid():
		return false, engine.Report{}, nil
	case f.PassedTriage && !r.Triage.Pass:
		return false, engine.Report{}, nil
	case f.MinPopulationScore > 0 && (r.Population == nil || r.Population.WeightedScore < f.MinPopulationScore):
		return false, engine.Report{}, nil
	}
	return true, r, nil
}
