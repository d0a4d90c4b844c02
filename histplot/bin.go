// Package histplot bins a column of values and draws it as a PNG histogram.
package histplot

import (
	"math"

	"github.com/aybabtme/uniplot/histogram"
)

// Histogram is a fixed number of equal-width bins. Edges has one more entry
// than Counts; every bin is half-open except the last, which also holds the
// maximum.
type Histogram struct {
	Edges  []float64
	Counts []int

	// Skipped counts NaN and infinite inputs, which are not binned.
	Skipped int
}

// Total is the number of binned values.
func (h Histogram) Total() int {
	n := 0
	for _, c := range h.Counts {
		n += c
	}
	return n
}

// MaxCount is the tallest bin.
func (h Histogram) MaxCount() int {
	max := 0
	for _, c := range h.Counts {
		if c > max {
			max = c
		}
	}
	return max
}

// Centers returns the midpoint of each bin.
func (h Histogram) Centers() []float64 {
	out := make([]float64, len(h.Counts))
	for i := range out {
		out[i] = (h.Edges[i] + h.Edges[i+1]) / 2
	}
	return out
}

// Bin spreads values over exactly bins equal-width buckets between their
// minimum and maximum. With no finite values the range is [0, 1]; with a
// single distinct value v it is [v-0.5, v+0.5].
func Bin(values []float64, bins int) Histogram {
	if bins < 1 {
		bins = 1
	}

	finite := make([]float64, 0, len(values))
	for _, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			continue
		}
		finite = append(finite, v)
	}
	skipped := len(values) - len(finite)

	if len(finite) == 0 {
		return Histogram{Edges: linspace(0, 1, bins), Counts: make([]int, bins), Skipped: skipped}
	}

	min, max := finite[0], finite[0]
	for _, v := range finite {
		min = math.Min(min, v)
		max = math.Max(max, v)
	}

	if min == max {
		h := Histogram{Edges: linspace(min-0.5, max+0.5, bins), Counts: make([]int, bins), Skipped: skipped}
		// v is the midpoint of the range.
		h.Counts[bins/2] = len(finite)
		return h
	}

	uh := histogram.Hist(bins, finite)

	h := Histogram{
		Edges:   make([]float64, 0, bins+1),
		Counts:  make([]int, 0, bins),
		Skipped: skipped,
	}
	for i, b := range uh.Buckets {
		h.Edges = append(h.Edges, b.Min)
		h.Counts = append(h.Counts, b.Count)
		if i == len(uh.Buckets)-1 {
			h.Edges = append(h.Edges, max)
		}
	}

	return h
}

// linspace returns bins+1 evenly spaced edges from lo to hi.
func linspace(lo, hi float64, bins int) []float64 {
	out := make([]float64, bins+1)
	width := (hi - lo) / float64(bins)
	for i := range out {
		out[i] = lo + float64(i)*width
	}
	out[bins] = hi
	return out
}
