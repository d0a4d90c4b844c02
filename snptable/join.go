package snptable

import (
	"fmt"
	"strings"
)

const (
	// KeyColumn identifies a probeset in every Axiom report.
	KeyColumn = "probeset_id"

	// LogRatioSuffix marks the per-sample columns worth keeping from the
	// call-contrast-positions report.
	LogRatioSuffix = "CEL_log_ratio"
)

// SampleName reports whether a call-contrast-positions column carries a
// per-sample log ratio and, if so, the sample name it should be renamed to:
// "S1.CEL_log_ratio" becomes "S1".
func SampleName(column string) (string, bool) {
	parts := strings.Split(column, ".")
	if parts[len(parts)-1] != LogRatioSuffix {
		return "", false
	}

	return parts[0], true
}

// CleanContrastColumns keeps the key column and the per-sample log ratio
// columns, renamed to their sample names, and drops everything else.
func CleanContrastColumns(t *Table, key string) (*Table, error) {
	keyCol, err := t.ColumnIndex(key)
	if err != nil {
		return nil, err
	}

	renamed := make(map[int]string)
	out := t.selectColumns(func(col int) bool {
		if col == keyCol {
			return true
		}
		sample, ok := SampleName(t.Header[col])
		if ok {
			renamed[col] = sample
		}
		return ok
	})

	// selectColumns preserves column order, so walk both headers together.
	j := 0
	for col := range t.Header {
		if col != keyCol {
			if _, ok := renamed[col]; !ok {
				continue
			}
			out.Header[j] = renamed[col]
		}
		j++
	}

	return out, nil
}

// InnerJoin joins left and right on key. The result holds left's columns
// followed by right's non-key columns; a non-key name present on both sides
// gets the suffix _x on the left and _y on the right. Rows come out in left
// order, and a key repeated on either side produces every pairing, with
// right-hand matches in right order.
func InnerJoin(left, right *Table, key string) (*Table, error) {
	lKey, err := left.ColumnIndex(key)
	if err != nil {
		return nil, err
	}
	rKey, err := right.ColumnIndex(key)
	if err != nil {
		return nil, err
	}

	rightNames := make(map[string]struct{}, len(right.Header))
	for col, name := range right.Header {
		if col != rKey {
			rightNames[name] = struct{}{}
		}
	}
	leftNames := make(map[string]struct{}, len(left.Header))
	for col, name := range left.Header {
		if col != lKey {
			leftNames[name] = struct{}{}
		}
	}

	header := make([]string, 0, len(left.Header)+len(right.Header)-1)
	for col, name := range left.Header {
		if _, clash := rightNames[name]; clash && col != lKey {
			name += "_x"
		}
		header = append(header, name)
	}
	rightCols := make([]int, 0, len(right.Header)-1)
	for col, name := range right.Header {
		if col == rKey {
			continue
		}
		if _, clash := leftNames[name]; clash {
			name += "_y"
		}
		header = append(header, name)
		rightCols = append(rightCols, col)
	}

	index := make(map[string][]int, len(right.Rows))
	for i, row := range right.Rows {
		k := strings.TrimSpace(row[rKey])
		index[k] = append(index[k], i)
	}

	out := &Table{
		Name:   fmt.Sprintf("%s+%s", left.Name, right.Name),
		Header: header,
		Rows:   make([][]string, 0, len(left.Rows)),
	}
	for _, lRow := range left.Rows {
		for _, ri := range index[strings.TrimSpace(lRow[lKey])] {
			rRow := right.Rows[ri]
			row := make([]string, 0, len(header))
			row = append(row, lRow...)
			for _, col := range rightCols {
				row = append(row, rRow[col])
			}
			out.Rows = append(out.Rows, row)
		}
	}

	return out, nil
}
