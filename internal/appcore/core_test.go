package appcore

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"healdette/internal/engine"
	"healdette/internal/visitors"
)

var errTest = errors.New("bad residue")

// stubScorer marks sequences starting with 'M' valid and 'X' failed.
type stubScorer struct{}

func (stubScorer) Evaluate(id, seq string) engine.Report {
	r := engine.Report{ID: id, Sequence: seq, Length: len(seq)}
	switch seq[0] {
	case 'M':
		r.Triage.Pass = true
	case 'X':
		r.Err = errTest
	}
	return r
}

func writeFasta(t *testing.T, body string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), "in.fa")
	if err := os.WriteFile(p, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return p
}

func run(t *testing.T, o Options, format string) (int, string, string) {
	t.Helper()
	var out, errb bytes.Buffer
	code := Run[engine.Report](context.Background(), &out, &errb, o, stubScorer{},
		visitors.PassThrough{}.Visit, NewReportWriterFactory(format, false, false, false, "r"))
	return code, out.String(), errb.String()
}

func TestRun_ExitCodes(t *testing.T) {
	fa := writeFasta(t, ">a\nMKW\n>b\nGGG\n")
	code, out, _ := run(t, Options{SeqFiles: []string{fa}, Threads: 2, NoValidExitCode: 1}, "jsonl")
	if code != 0 || strings.Count(out, "\n") != 2 {
		t.Fatalf("code=%d out=%q", code, out)
	}

	fa = writeFasta(t, ">b\nGGG\n")
	if code, _, _ := run(t, Options{SeqFiles: []string{fa}, NoValidExitCode: 7}, "jsonl"); code != 7 {
		t.Fatalf("no valid: code=%d", code)
	}

	if code, _, errOut := run(t, Options{SeqFiles: []string{filepath.Join(t.TempDir(), "missing.fa")}}, "jsonl"); code != 3 || errOut == "" {
		t.Fatalf("missing file: code=%d stderr=%q", code, errOut)
	}
}

func TestRun_WarnsOnFailuresAndRedundancy(t *testing.T) {
	fa := writeFasta(t, ">a\nMKWVTF\n>b\nMKWVTF\n>c\nXKW\n>d\nGDEDED\n")
	code, _, errOut := run(t, Options{SeqFiles: []string{fa}, Redundancy: 0.9, NoValidExitCode: 1}, "text")
	if code != 0 {
		t.Fatalf("code=%d", code)
	}
	for _, want := range []string{"WARN: bad residue", "1 of 4 sequence(s) could not be scored", "redundant candidates (similarity > 0.90): a, b"} {
		if !strings.Contains(errOut, want) {
			t.Fatalf("stderr missing %q:\n%s", want, errOut)
		}
	}

	_, _, errOut = run(t, Options{SeqFiles: []string{fa}, Redundancy: 0.9, Quiet: true}, "text")
	if errOut != "" {
		t.Fatalf("quiet must silence warnings: %q", errOut)
	}
}

func TestRun_Canceled(t *testing.T) {
	fa := writeFasta(t, ">a\nMKW\n")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	var out, errb bytes.Buffer
	code := Run[engine.Report](ctx, &out, &errb, Options{SeqFiles: []string{fa}}, stubScorer{},
		visitors.PassThrough{}.Visit, NewReportWriterFactory("text", false, false, false, ""))
	if code != 130 {
		t.Fatalf("code=%d stderr=%q", code, errb.String())
	}
}
