package jsonlutil

import (
	"bytes"
	"errors"
	"io"
	"strings"
	"testing"
)

type wireInt struct {
	N int `json:"n"`
}

func TestStart_OneObjectPerLine(t *testing.T) {
	var buf bytes.Buffer
	in, done := Start[int](&buf, 2, func(n int) any { return wireInt{N: n} }, nil)
	for i := 1; i <= 3; i++ {
		in <- i
	}
	close(in)
	if err := <-done; err != nil {
		t.Fatal(err)
	}
	if got := buf.String(); got != "{\"n\":1}\n{\"n\":2}\n{\"n\":3}\n" {
		t.Fatalf("got %q", got)
	}
}

func TestStart_NoHTMLEscape(t *testing.T) {
	var buf bytes.Buffer
	in, done := Start[string](&buf, 1, func(s string) any { return s }, nil)
	in <- "A*02:01<b>"
	close(in)
	if err := <-done; err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), "<b>") {
		t.Fatalf("html escaped: %q", buf.String())
	}
}

type failWriter struct{ err error }

func (f failWriter) Write([]byte) (int, error) { return 0, f.err }

func TestStart_ErrorDrainsAndReports(t *testing.T) {
	boom := errors.New("disk full")
	in, done := Start[string](failWriter{boom}, 1, func(s string) any { return strings.Repeat(s, 70<<10) }, nil)
	// The first value overflows the buffer and fails; later sends must not block.
	for i := 0; i < 10; i++ {
		in <- "x"
	}
	close(in)
	if err := <-done; !errors.Is(err, boom) {
		t.Fatalf("want %v, got %v", boom, err)
	}
}

func TestStart_BrokenPipeSuppressed(t *testing.T) {
	in, done := Start[int](failWriter{io.ErrClosedPipe}, 1, func(n int) any { return n },
		func(err error) bool { return errors.Is(err, io.ErrClosedPipe) })
	in <- 1
	close(in)
	if err := <-done; err != nil {
		t.Fatalf("broken pipe should be suppressed, got %v", err)
	}
}
