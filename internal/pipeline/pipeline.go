// internal/pipeline/pipeline.go
package pipeline

import (
	"context"
	"sync"

	"healdette/core/fasta"
	"healdette/internal/engine"
)

// Config controls the scoring pipeline.
type Config struct {
	Threads int // number of worker goroutines (>=1)
}

type job struct {
	idx  int
	rec  fasta.Record
	file string
}

type result struct {
	idx int
	rep engine.Report
}

// ForEachReport reads every record of seqFiles, scores it on cfg.Threads
// workers and calls visit once per record in input order, whatever the
// thread count. A failing record is reported through Report.Err and does not
// stop the batch. It returns the first read or visit error, or the context
// error on cancellation.
func ForEachReport(
	parent context.Context,
	cfg Config,
	seqFiles []string,
	sc Scorer,
	visit func(engine.Report) error,
) error {
	if cfg.Threads < 1 {
		cfg.Threads = 1
	}
	ctx, cancel := context.WithCancel(parent)
	defer cancel()

	jobs := make(chan job, cfg.Threads*2)
	results := make(chan result, cfg.Threads*2)

	// Workers
	var wg sync.WaitGroup
	wg.Add(cfg.Threads)
	for w := 0; w < cfg.Threads; w++ {
		go func() {
			defer wg.Done()
			for {
				select {
				case <-ctx.Done():
					return
				case j, ok := <-jobs:
					if !ok {
						return
					}
					rep := sc.Evaluate(j.rec.ID, j.rec.Seq)
					rep.Description = j.rec.Description
					rep.SourceFile = j.file
					select {
					case results <- result{idx: j.idx, rep: rep}:
					case <-ctx.Done():
						return
					}
				}
			}
		}()
	}

	// Collector: reorder by input index so output never depends on scheduling.
	var (
		cerr error
		cwg  sync.WaitGroup
	)
	cwg.Add(1)
	go func() {
		defer cwg.Done()
		pending := make(map[int]engine.Report)
		next := 0
		for r := range results {
			if cerr != nil {
				continue
			}
			pending[r.idx] = r.rep
			for {
				rep, ok := pending[next]
				if !ok {
					break
				}
				delete(pending, next)
				next++
				if err := visit(rep); err != nil {
					cerr = err
					cancel()
					break
				}
			}
		}
	}()

	// Feed work
	var ferr error
	idx := 0
	for _, fa := range seqFiles {
		err := fasta.ScanPath(ctx, fa, func(rec fasta.Record) error {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case jobs <- job{idx: idx, rec: rec, file: fa}:
				idx++
				return nil
			}
		})
		if err != nil {
			ferr = err
			break
		}
	}

	close(jobs)
	wg.Wait()
	close(results)
	cwg.Wait()

	if cerr != nil {
		return cerr
	}
	if parent.Err() != nil {
		return parent.Err()
	}
	return ferr
}
