package scorecli

import (
	"bytes"
	"errors"
	"flag"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"healdette/internal/clibase"
)

func newFS() *flag.FlagSet { return flag.NewFlagSet("test", flag.ContinueOnError) }

func mustParse(t *testing.T, args ...string) Options {
	t.Helper()
	o, err := ParseArgs(newFS(), args)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	return o
}

func TestDefaults(t *testing.T) {
	o := mustParse(t, "--ref", "r.yaml", "c.fa")
	if o.Chain != "" || o.SignalConfidence != 0.6 || o.Similarity != 0 || o.Rank || o.ValidOnly {
		t.Fatalf("defaults: %+v", o)
	}
	if len(o.SeqFiles) != 1 || o.SeqFiles[0] != "c.fa" || !o.Header {
		t.Fatalf("common: %+v", o.Common)
	}
}

func TestFlagsAfterPositionals(t *testing.T) {
	o := mustParse(t, "c.fa", "--ref", "r.yaml", "--chain", "heavy", "--rank", "--similarity", "0.7", "-o", "json")
	if o.Chain != "heavy" || !o.Rank || o.Similarity != 0.7 || o.Output != "json" {
		t.Fatalf("parsed: %+v", o)
	}
}

func TestPositionalGlob(t *testing.T) {
	dir := t.TempDir()
	for _, n := range []string{"a.fa", "b.fa"} {
		_ = os.WriteFile(filepath.Join(dir, n), []byte(">x\nMK\n"), 0o644)
	}
	o := mustParse(t, "--ref", "r.yaml", filepath.Join(dir, "*.fa"))
	if len(o.SeqFiles) != 2 {
		t.Fatalf("want 2 files, got %v", o.SeqFiles)
	}
}

func TestErrors(t *testing.T) {
	cases := []struct {
		args []string
		want string
	}{
		{[]string{"--ref", "r.yaml"}, "at least one sequence file"},
		{[]string{"--ref", "r.yaml", "--chain", "kappa", "c.fa"}, "invalid --chain"},
		{[]string{"--ref", "r.yaml", "--similarity", "1.5", "c.fa"}, "--similarity must be within"},
		{[]string{"--ref", "r.yaml", "--skip-population", "--min-score", "0.5", "c.fa"}, "--min-score needs"},
		{[]string{"c.fa"}, "--ref is required"},
	}
	for _, c := range cases {
		_, err := ParseArgs(newFS(), c.args)
		if err == nil || !strings.Contains(err.Error(), c.want) {
			t.Fatalf("%v: got %v, want %q", c.args, err, c.want)
		}
	}
}

func TestHelpExamplesVersion(t *testing.T) {
	if _, err := ParseArgs(newFS(), []string{"-h"}); !errors.Is(err, flag.ErrHelp) {
		t.Fatalf("-h: %v", err)
	}
	if _, err := ParseArgs(newFS(), []string{"--examples"}); !errors.Is(err, clibase.ErrPrintedAndExitOK) {
		t.Fatalf("--examples: %v", err)
	}
	o, err := ParseArgs(newFS(), []string{"--version"})
	if err != nil || !o.Version {
		t.Fatalf("--version: %+v %v", o, err)
	}
}

func TestPassedTriage(t *testing.T) {
	if o := mustParse(t, "--ref", "r.yaml", "c.fa"); o.PassedTriage {
		t.Fatalf("passed-triage must default off")
	}
	if o := mustParse(t, "c.fa", "--passed-triage", "--ref", "r.yaml"); !o.PassedTriage {
		t.Fatalf("--passed-triage not parsed: %+v", o)
	}
}

func TestUsageRedundancyIsStrict(t *testing.T) {
	fs := NewFlagSet("healdette-score")
	var buf bytes.Buffer
	fs.SetOutput(&buf)
	if _, err := ParseArgs(fs, []string{"-h"}); !errors.Is(err, flag.ErrHelp) {
		t.Fatalf("-h: %v", err)
	}
	fs.Usage()
	out := buf.String()
	if !strings.Contains(out, "groups above this similarity") || strings.Contains(out, "groups at or above") {
		t.Fatalf("redundancy help should describe a strict threshold:\n%s", out)
	}
	if !strings.Contains(out, "--passed-triage") {
		t.Fatalf("usage misses --passed-triage:\n%s", out)
	}
}
