// Package summary writes the side outputs of a run: descriptive statistics
// for every plotted column, and a YAML manifest of the run itself.
package summary

import (
	"encoding/csv"
	"math"
	"os"

	"github.com/carbocation/pfx"
	"github.com/gocarina/gocsv"
	"github.com/montanaflynn/stats"
	"gonum.org/v1/gonum/stat"
)

// ColumnStatsFile is written next to the histograms.
const ColumnStatsFile = "column_summary.tsv"

// ColumnStats describes the values that went into one histogram.
type ColumnStats struct {
	Column    string  `csv:"column" yaml:"column"`
	N         int     `csv:"n" yaml:"n"`
	Missing   int     `csv:"missing" yaml:"missing"`
	Min       float64 `csv:"min" yaml:"min"`
	Max       float64 `csv:"max" yaml:"max"`
	Mean      float64 `csv:"mean" yaml:"mean"`
	SD        float64 `csv:"sd" yaml:"sd"`
	P05       float64 `csv:"p05" yaml:"p05"`
	Median    float64 `csv:"median" yaml:"median"`
	P95       float64 `csv:"p95" yaml:"p95"`
	Histogram string  `csv:"histogram" yaml:"histogram"`
}

// Describe computes ColumnStats over the finite entries of values.
func Describe(column string, values []float64) ColumnStats {
	finite := make([]float64, 0, len(values))
	for _, v := range values {
		if !math.IsNaN(v) && !math.IsInf(v, 0) {
			finite = append(finite, v)
		}
	}

	out := ColumnStats{
		Column:  column,
		N:       len(finite),
		Missing: len(values) - len(finite),
		Min:     math.NaN(),
		Max:     math.NaN(),
		Mean:    math.NaN(),
		SD:      math.NaN(),
		P05:     math.NaN(),
		Median:  math.NaN(),
		P95:     math.NaN(),
	}
	if len(finite) == 0 {
		return out
	}

	if len(finite) > 1 {
		out.Mean, out.SD = stat.MeanStdDev(finite, nil)
	} else {
		out.Mean = finite[0]
	}

	data := stats.Float64Data(finite)
	if v, err := data.Min(); err == nil {
		out.Min = v
	}
	if v, err := data.Max(); err == nil {
		out.Max = v
	}
	if v, err := data.Median(); err == nil {
		out.Median = v
	}
	if v, err := data.Percentile(5); err == nil {
		out.P05 = v
	}
	if v, err := data.Percentile(95); err == nil {
		out.P95 = v
	}

	return out
}

// WriteColumnStats writes rows as a tab-delimited table with a header.
func WriteColumnStats(path string, rows []ColumnStats) error {
	f, err := os.Create(path)
	if err != nil {
		return pfx.Err(err)
	}

	w := csv.NewWriter(f)
	w.Comma = '\t'
	if err := gocsv.MarshalCSV(&rows, gocsv.NewSafeCSVWriter(w)); err != nil {
		f.Close()
		return pfx.Err(err)
	}

	return f.Close()
}
