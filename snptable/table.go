// Package snptable holds the in-memory tables read from Axiom genotyping
// reports, and the column reshaping and key join applied to them.
package snptable

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// ErrMissingColumn is returned, wrapped with the column name, whenever an
// operation needs a column that the table does not have.
var ErrMissingColumn = errors.New("missing column")

// Table is a header plus string-valued rows. Every row has len(Header) cells.
// Operations never modify a table in place; they return a new one that may
// share row slices with the old one, so rows must be treated as read-only.
type Table struct {
	Name   string
	Header []string
	Rows   [][]string
}

// New returns an empty table with a copy of header.
func New(name string, header []string) *Table {
	h := make([]string, len(header))
	copy(h, header)
	return &Table{Name: name, Header: h}
}

// Len is the number of data rows.
func (t *Table) Len() int {
	return len(t.Rows)
}

// ColumnIndex returns the position of the first column called name.
func (t *Table) ColumnIndex(name string) (int, error) {
	for i, v := range t.Header {
		if v == name {
			return i, nil
		}
	}

	if t.Name != "" {
		return -1, fmt.Errorf("%s: %w %q", t.Name, ErrMissingColumn, name)
	}
	return -1, fmt.Errorf("%w %q", ErrMissingColumn, name)
}

func (t *Table) HasColumn(name string) bool {
	_, err := t.ColumnIndex(name)
	return err == nil
}

// Column returns the raw cells of a column.
func (t *Table) Column(name string) ([]string, error) {
	col, err := t.ColumnIndex(name)
	if err != nil {
		return nil, err
	}

	out := make([]string, 0, len(t.Rows))
	for _, row := range t.Rows {
		out = append(out, row[col])
	}

	return out, nil
}

// Floats parses a column as float64. Missing-value markers become NaN; any
// other unparseable cell is an error naming the 1-based data row.
func (t *Table) Floats(name string) ([]float64, error) {
	col, err := t.ColumnIndex(name)
	if err != nil {
		return nil, err
	}

	out := make([]float64, 0, len(t.Rows))
	for i, row := range t.Rows {
		v, err := ParseFloat(row[col])
		if err != nil {
			return nil, fmt.Errorf("column %q, data row %d: %w", name, i+1, err)
		}
		out = append(out, v)
	}

	return out, nil
}

// ParseFloat parses a single cell. The empty string and the usual NA spellings
// parse as NaN.
func ParseFloat(cell string) (float64, error) {
	cell = strings.TrimSpace(cell)
	switch cell {
	case "", "NA", "N/A", "NaN", "nan", "NULL", "null":
		return math.NaN(), nil
	}

	return strconv.ParseFloat(cell, 64)
}

// Filter returns a new table with the rows for which keep returns true, in
// their original order.
func (t *Table) Filter(keep func(i int, row []string) bool) *Table {
	out := New(t.Name, t.Header)
	out.Rows = make([][]string, 0, len(t.Rows))
	for i, row := range t.Rows {
		if keep(i, row) {
			out.Rows = append(out.Rows, row)
		}
	}

	return out
}

// AppendColumn returns a new table with one more column on the right.
func (t *Table) AppendColumn(name string, values []string) (*Table, error) {
	if len(values) != len(t.Rows) {
		return nil, fmt.Errorf("column %q has %d values but the table has %d rows", name, len(values), len(t.Rows))
	}

	out := New(t.Name, append(t.Header[:len(t.Header):len(t.Header)], name))
	out.Rows = make([][]string, len(t.Rows))
	for i, row := range t.Rows {
		newRow := make([]string, len(row), len(row)+1)
		copy(newRow, row)
		out.Rows[i] = append(newRow, values[i])
	}

	return out, nil
}

// DropColumns returns a new table without the named columns. Every name must
// exist.
func (t *Table) DropColumns(names ...string) (*Table, error) {
	drop := make(map[int]struct{}, len(names))
	for _, name := range names {
		col, err := t.ColumnIndex(name)
		if err != nil {
			return nil, err
		}
		drop[col] = struct{}{}
	}

	return t.selectColumns(func(col int) bool {
		_, dropped := drop[col]
		return !dropped
	}), nil
}

// selectColumns copies the columns for which keep returns true.
func (t *Table) selectColumns(keep func(col int) bool) *Table {
	kept := make([]int, 0, len(t.Header))
	header := make([]string, 0, len(t.Header))
	for col, name := range t.Header {
		if keep(col) {
			kept = append(kept, col)
			header = append(header, name)
		}
	}

	out := &Table{Name: t.Name, Header: header, Rows: make([][]string, len(t.Rows))}
	for i, row := range t.Rows {
		newRow := make([]string, len(kept))
		for j, col := range kept {
			newRow[j] = row[col]
		}
		out.Rows[i] = newRow
	}

	return out
}
