// core/fasta/reader.go
package fasta

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"io"
)

// Record is one parsed FASTA entry. Seq is returned as read; residue
// validation is left to the scorers so an invalid record can be reported
// on its own.
type Record struct {
	ID          string
	Description string
	Seq         string
}

// Scan parses FASTA from r and calls emit once per record. Blank lines are
// skipped and each sequence line is trimmed. Sequence data before the first
// header is an error. Cancellation via ctx is checked between lines.
func Scan(ctx context.Context, r io.Reader, emit func(Record) error) error {
	sc := bufio.NewScanner(r)
	const maxLine = 16 * 1024 * 1024
	sc.Buffer(make([]byte, 64*1024), maxLine)

	var (
		cur    Record
		seq    bytes.Buffer
		inRec  bool
		lineNo int
	)
	flush := func() error {
		if !inRec {
			return nil
		}
		cur.Seq = seq.String()
		seq.Reset()
		return emit(cur)
	}

	for sc.Scan() {
		lineNo++
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		line := bytes.TrimSpace(sc.Bytes())
		if len(line) == 0 {
			continue
		}
		if line[0] == '>' {
			if err := flush(); err != nil {
				return err
			}
			cur = parseHeader(line[1:])
			inRec = true
			continue
		}
		if !inRec {
			return fmt.Errorf("fasta: line %d: sequence data before first header", lineNo)
		}
		seq.Write(line)
	}
	if err := sc.Err(); err != nil {
		return fmt.Errorf("fasta scan: %w", err)
	}
	return flush()
}

// ScanPath opens path (plain, gzip, or "-" for stdin) and scans it.
func ScanPath(ctx context.Context, path string, emit func(Record) error) error {
	rc, err := openReader(path)
	if err != nil {
		return err
	}
	defer rc.Close()
	return Scan(ctx, rc, emit)
}

// ReadAll collects every record of every path, in order.
func ReadAll(ctx context.Context, paths []string) ([]Record, error) {
	var out []Record
	for _, p := range paths {
		err := ScanPath(ctx, p, func(r Record) error {
			out = append(out, r)
			return nil
		})
		if err != nil {
			return out, fmt.Errorf("%s: %w", p, err)
		}
	}
	return out, nil
}

func parseHeader(hdr []byte) Record {
	hdr = bytes.TrimSpace(hdr)
	if i := bytes.IndexAny(hdr, " \t"); i >= 0 {
		return Record{ID: string(hdr[:i]), Description: string(bytes.TrimSpace(hdr[i+1:]))}
	}
	return Record{ID: string(hdr)}
}
