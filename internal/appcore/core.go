// internal/appcore/core.go
package appcore

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"runtime"
	"strings"

	"github.com/google/uuid"

	"healdette/core/similarity"
	"healdette/internal/cmdutil"
	"healdette/internal/engine"
	"healdette/internal/pipeline"
	"healdette/internal/writers"
)

type Options struct {
	SeqFiles []string
	Threads  int

	// Redundancy > 0 warns about groups of scored candidates whose
	// pairwise similarity exceeds it.
	Redundancy float64

	Quiet           bool
	Progress        bool
	NoValidExitCode int
}

type VisitorFunc[T any] func(engine.Report) (keep bool, out T, err error)

type WriterFactory[T any] interface {
	Start(out io.Writer, bufSize int) (chan<- T, <-chan error)
}

// NewRunID returns the id stamped on every record of one invocation.
func NewRunID() string { return uuid.NewString() }

type candidate struct{ id, seq string }

func Run[T any](
	parent context.Context,
	stdout, stderr io.Writer,
	o Options,
	sc pipeline.Scorer,
	visit VisitorFunc[T],
	wf WriterFactory[T],
) int {
	outw := bufio.NewWriter(stdout)

	thr := o.Threads
	if thr <= 0 {
		thr = runtime.NumCPU()
	}

	inCh, writeErr := wf.Start(outw, thr*4)

	ctx, cancel := context.WithCancel(parent)
	defer cancel()

	bar := cmdutil.StartProgress(stderr, o.Progress, 0)
	var scored []candidate
	onReport := func(r engine.Report) {
		bar.Increment()
		if r.Err != nil {
			cmdutil.Warnf(stderr, o.Quiet, "%s", r.Err)
			return
		}
		if o.Redundancy > 0 {
			scored = append(scored, candidate{id: r.ID, seq: r.Sequence})
		}
	}

	st, perr := cmdutil.RunStream[T](
		ctx,
		pipeline.Config{Threads: thr},
		o.SeqFiles,
		sc,
		onReport,
		visit,
		func(x T) error {
			select {
			case inCh <- x:
				return nil
			case <-ctx.Done():
				return ctx.Err()
			}
		},
	)

	close(inCh)
	bar.Finish()

	if werr := <-writeErr; writers.IsBrokenPipe(werr) {
		return cmdutil.ExitOK
	} else if werr != nil {
		fmt.Fprintln(stderr, werr)
		return cmdutil.ExitIO
	}
	if e := outw.Flush(); writers.IsBrokenPipe(e) {
		return cmdutil.ExitOK
	} else if e != nil {
		fmt.Fprintln(stderr, e)
		return cmdutil.ExitIO
	}

	if perr != nil {
		if errors.Is(perr, context.Canceled) {
			return cmdutil.ExitCanceled
		}
		fmt.Fprintln(stderr, perr)
		return cmdutil.ExitIO
	}

	if o.Redundancy > 0 && len(scored) > 1 {
		warnRedundant(stderr, o.Quiet, scored, o.Redundancy, thr)
	}
	if st.Failed > 0 {
		cmdutil.Warnf(stderr, o.Quiet, "%d of %d sequence(s) could not be scored", st.Failed, st.Seen)
	}
	if st.Valid == 0 {
		return o.NoValidExitCode
	}
	return cmdutil.ExitOK
}

func warnRedundant(stderr io.Writer, quiet bool, cs []candidate, threshold float64, threads int) {
	seqs := make([]string, len(cs))
	for i, c := range cs {
		seqs[i] = c.seq
	}
	for _, g := range similarity.RedundantGroups(seqs, threshold, threads) {
		ids := make([]string, len(g))
		for i, idx := range g {
			ids[i] = cs[idx].id
		}
		cmdutil.Warnf(stderr, quiet, "redundant candidates (similarity > %.2f): %s", threshold, strings.Join(ids, ", "))
	}
}
