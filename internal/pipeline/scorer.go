// internal/pipeline/scorer.go
package pipeline

import "healdette/internal/engine"

// Scorer is the minimal capability the pipeline needs.
// Any evaluator (including fakes in tests) can satisfy this.
type Scorer interface {
	Evaluate(id, seq string) engine.Report
}
