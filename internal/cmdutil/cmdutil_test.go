package cmdutil

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"healdette/internal/engine"
	"healdette/internal/pipeline"
)

func TestWarnf(t *testing.T) {
	var b bytes.Buffer
	Warnf(&b, false, "redundant group %d", 1)
	Warnf(&b, true, "hidden")
	if b.String() != "WARN: redundant group 1\n" {
		t.Fatalf("got %q", b.String())
	}
	b.Reset()
	Errorf(&b, "bad %s", "thing")
	if b.String() != "error: bad thing\n" {
		t.Fatalf("got %q", b.String())
	}
}

type lenScorer struct{}

func (lenScorer) Evaluate(id, seq string) engine.Report {
	r := engine.Report{ID: id, Sequence: seq, Length: len(seq)}
	if seq == "" {
		r.Err = errors.New("empty")
		return r
	}
	r.Triage.Pass = len(seq) > 2
	return r
}

func TestRunStream_Counts(t *testing.T) {
	fn := filepath.Join(t.TempDir(), "in.fa")
	if err := os.WriteFile(fn, []byte(">a\nMKW\n>b\nMK\n>c\n>d\nMKWV\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	var sent []string
	seen := 0
	st, err := RunStream[string](context.Background(), pipeline.Config{Threads: 2}, []string{fn}, lenScorer{},
		func(engine.Report) { seen++ },
		func(r engine.Report) (bool, string, error) { return r.Valid(), r.ID, nil },
		func(id string) error { sent = append(sent, id); return nil },
	)
	if err != nil {
		t.Fatal(err)
	}
	want := Stats{Seen: 4, Kept: 2, Valid: 2, Failed: 1}
	if st != want || seen != 4 {
		t.Fatalf("stats = %+v (seen %d), want %+v", st, seen, want)
	}
	if len(sent) != 2 || sent[0] != "a" || sent[1] != "d" {
		t.Fatalf("sent = %v", sent)
	}
}

func TestProgress_NilSafe(t *testing.T) {
	p := StartProgress(nil, false, 10)
	p.Increment()
	p.Finish()
	if p != nil {
		t.Fatal("disabled progress must be nil")
	}
}
