package visitors

import "healdette/internal/engine"

// PassThrough returns the report unchanged.
type PassThrough struct{}

func (PassThrough) Visit(r engine.Report) (keep bool, out engine.Report, err error) {
	return true, r, nil
}
