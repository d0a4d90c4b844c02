package histplot

import (
	"bytes"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strconv"

	"github.com/carbocation/pfx"
	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

// Options control how a histogram is drawn.
type Options struct {
	Bins   int
	DPI    float64
	Width  int
	Height int

	XLabel string
	YLabel string
}

// DefaultOptions produce a 6.4 x 4.8 inch figure at 400 DPI with 160 bins.
func DefaultOptions() Options {
	return Options{
		Bins:   160,
		DPI:    400,
		Width:  2560,
		Height: 1920,
		XLabel: "Normalized X axis postions",
		YLabel: "Number od SNPs",
	}
}

var barColor = drawing.ColorFromHex("1f77b4")

// Title is the heading drawn over a column's histogram.
func Title(column string) string {
	return fmt.Sprintf("Histogram for %s", column)
}

// FileName is the file a column's histogram is saved to.
func FileName(column string) string {
	return column + "_histogram.png"
}

// countFormatter prints whole counts without decimals and keeps fractional
// ticks, which appear when the tallest bin is small, short.
func countFormatter(v interface{}) string {
	f, ok := v.(float64)
	if !ok {
		return chart.IntValueFormatter(v)
	}
	if f == math.Trunc(f) {
		return strconv.FormatFloat(f, 'f', 0, 64)
	}
	return strconv.FormatFloat(f, 'g', 3, 64)
}

// Render draws h as a PNG.
func Render(w io.Writer, h Histogram, title string, opts Options) error {
	if len(h.Counts) == 0 {
		return fmt.Errorf("histogram %q has no bins", title)
	}

	counts := make([]float64, len(h.Counts))
	for i, c := range h.Counts {
		counts[i] = float64(c)
	}

	// Leave headroom above the tallest bar; an all-empty histogram still
	// needs a non-zero y range.
	yMax := float64(h.MaxCount()) * 1.05
	if yMax < 1 {
		yMax = 1
	}

	graph := chart.Chart{
		Title:  title,
		Width:  opts.Width,
		Height: opts.Height,
		DPI:    opts.DPI,
		Background: chart.Style{
			Padding: chart.Box{Top: 60, Left: 20, Right: 40, Bottom: 20},
		},
		XAxis: chart.XAxis{
			Name:  opts.XLabel,
			Range: &chart.ContinuousRange{Min: h.Edges[0], Max: h.Edges[len(h.Edges)-1]},
		},
		YAxis: chart.YAxis{
			Name:           opts.YLabel,
			Range:          &chart.ContinuousRange{Min: 0, Max: yMax},
			ValueFormatter: countFormatter,
		},
		Series: []chart.Series{
			chart.HistogramSeries{
				Name: title,
				Style: chart.Style{
					StrokeColor: drawing.ColorBlack,
					StrokeWidth: 1.5,
					FillColor:   barColor,
				},
				InnerSeries: chart.ContinuousSeries{
					XValues: h.Centers(),
					YValues: counts,
				},
			},
		},
	}

	return graph.Render(chart.PNG, w)
}

// WriteColumn bins values and saves the plot as dir/<column>_histogram.png,
// creating dir if needed. It returns the path written.
func WriteColumn(dir, column string, values []float64, opts Options) (string, Histogram, error) {
	h := Bin(values, opts.Bins)

	// Render to a byte buffer so a failed render leaves no partial file
	buffer := bytes.NewBuffer([]byte{})
	if err := Render(buffer, h, Title(column), opts); err != nil {
		return "", h, pfx.Err(fmt.Errorf("rendering %s: %w", column, err))
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", h, pfx.Err(err)
	}

	path := filepath.Join(dir, FileName(column))
	outFile, err := os.Create(path)
	if err != nil {
		return "", h, pfx.Err(err)
	}
	if _, err := buffer.WriteTo(outFile); err != nil {
		outFile.Close()
		return "", h, pfx.Err(err)
	}

	return path, h, outFile.Close()
}
