package cmdutil

import (
	"context"

	"healdette/internal/engine"
	"healdette/internal/pipeline"
)

// Stats counts what RunStream saw.
type Stats struct {
	Seen   int // reports produced by the pipeline
	Kept   int // reports the visitor passed on
	Valid  int // reports with Valid() true
	Failed int // reports carrying a per-sequence error
}

// RunStream runs the shared pipeline, applies a visitor, and streams results
// via send. onReport, when non-nil, sees every report before the visitor.
// It returns the counts and the first error encountered.
func RunStream[T any](
	ctx context.Context,
	cfg pipeline.Config,
	seqFiles []string,
	sc pipeline.Scorer,
	onReport func(engine.Report),
	visit func(engine.Report) (bool, T, error),
	send func(T) error,
) (Stats, error) {
	var st Stats
	err := pipeline.ForEachReport(ctx, cfg, seqFiles, sc, func(r engine.Report) error {
		st.Seen++
		if r.Valid() {
			st.Valid++
		}
		if r.Err != nil {
			st.Failed++
		}
		if onReport != nil {
			onReport(r)
		}
		keep, out, vErr := visit(r)
		if vErr != nil {
			return vErr
		}
		if !keep {
			return nil
		}
		if err := send(out); err != nil {
			return err
		}
		st.Kept++
		return nil
	})
	return st, err
}
