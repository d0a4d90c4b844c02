package snptable

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"

	"github.com/carbocation/axiomfp"
	"github.com/carbocation/pfx"
)

// ReadOptions describe the layout of a report file.
type ReadOptions struct {
	// SkipLines is the number of raw lines discarded before the header row.
	// Axiom call-contrast-positions reports carry 5 metadata lines.
	SkipLines int

	// Delimiter separates fields. Zero means detect it from the first lines
	// after SkipLines.
	Delimiter rune
}

// sniffBytes bounds how much of the file is handed to the delimiter detector.
const sniffBytes = 64 << 10

// ReadFile loads a whole report into memory. Compressed inputs are
// decompressed transparently.
func ReadFile(path string, opts ReadOptions) (*Table, error) {
	rc, _, err := axiomfp.OpenMaybeCompressed(path)
	if err != nil {
		return nil, pfx.Err(err)
	}
	defer rc.Close()

	t, err := Read(rc, path, opts)
	if err != nil {
		return nil, pfx.Err(err)
	}

	return t, nil
}

// Read loads a table from r. name is only used to label the table and its
// errors.
func Read(r io.Reader, name string, opts ReadOptions) (*Table, error) {
	if opts.SkipLines < 0 {
		return nil, fmt.Errorf("%s: cannot skip %d lines", name, opts.SkipLines)
	}

	br := bufio.NewReaderSize(r, sniffBytes)

	for i := 0; i < opts.SkipLines; i++ {
		if _, err := br.ReadSlice('\n'); err == io.EOF {
			return nil, fmt.Errorf("%s: file ended after %d of %d skipped lines", name, i, opts.SkipLines)
		} else if err != nil && err != bufio.ErrBufferFull {
			return nil, fmt.Errorf("%s: %w", name, err)
		} else if err == bufio.ErrBufferFull {
			// A metadata line longer than the buffer; keep discarding until
			// its newline.
			i--
		}
	}

	delim := opts.Delimiter
	if delim == 0 {
		head, err := br.Peek(sniffBytes)
		if err != nil && err != io.EOF && err != bufio.ErrBufferFull {
			return nil, fmt.Errorf("%s: %w", name, err)
		}
		delim = axiomfp.DetermineDelimiter(bytes.NewReader(head), '\t')
	}

	cr := csv.NewReader(br)
	cr.Comma = delim
	cr.LazyQuotes = true
	cr.ReuseRecord = false

	// The header fixes the number of fields in every following record.
	cr.FieldsPerRecord = 0

	var t *Table
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		} else if err != nil {
			var perr *csv.ParseError
			if errors.As(err, &perr) && perr.Line > 0 {
				return nil, fmt.Errorf("%s: malformed row at line %d: %w", name, perr.Line+opts.SkipLines, perr.Err)
			}
			return nil, fmt.Errorf("%s: %w", name, err)
		}

		if t == nil {
			t = New(name, rec)
			continue
		}

		t.Rows = append(t.Rows, rec)
	}

	if t == nil {
		return nil, fmt.Errorf("%s: no header row found", name)
	}

	return t, nil
}
