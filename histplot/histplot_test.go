package histplot

import (
	"bytes"
	"image/png"
	"math"
	"os"
	"path/filepath"
	"testing"
)

func TestBinCounts(t *testing.T) {
	vals := []float64{-1, -0.5, 0, 0.25, 0.5, 1, math.NaN(), math.Inf(1)}

	h := Bin(vals, 160)

	if len(h.Counts) != 160 || len(h.Edges) != 161 {
		t.Fatalf("got %d bins and %d edges", len(h.Counts), len(h.Edges))
	}
	if h.Total() != 6 {
		t.Errorf("binned %d values, expected 6", h.Total())
	}
	if h.Skipped != 2 {
		t.Errorf("skipped %d values, expected 2", h.Skipped)
	}
	if h.Edges[0] != -1 || h.Edges[160] != 1 {
		t.Errorf("range = [%v, %v]", h.Edges[0], h.Edges[160])
	}

	// The maximum lands in the last, closed bin.
	if h.Counts[159] != 1 {
		t.Errorf("last bin holds %d values", h.Counts[159])
	}
	if h.Counts[0] != 1 {
		t.Errorf("first bin holds %d values", h.Counts[0])
	}
}

func TestBinEdgeCases(t *testing.T) {
	for _, v := range []struct {
		Name   string
		Values []float64
		Lo, Hi float64
		Total  int
	}{
		{"empty", nil, 0, 1, 0},
		{"all NaN", []float64{math.NaN(), math.NaN()}, 0, 1, 0},
		{"constant", []float64{2, 2, 2}, 1.5, 2.5, 3},
	} {
		h := Bin(v.Values, 160)
		if len(h.Counts) != 160 {
			t.Errorf("%s: %d bins", v.Name, len(h.Counts))
		}
		if h.Edges[0] != v.Lo || h.Edges[len(h.Edges)-1] != v.Hi {
			t.Errorf("%s: range [%v, %v], expected [%v, %v]", v.Name, h.Edges[0], h.Edges[len(h.Edges)-1], v.Lo, v.Hi)
		}
		if h.Total() != v.Total {
			t.Errorf("%s: total %d, expected %d", v.Name, h.Total(), v.Total)
		}
	}

	// A constant column sits in the middle bin.
	if h := Bin([]float64{2, 2}, 160); h.Counts[80] != 2 {
		t.Errorf("constant values binned as %v", h.Counts[78:83])
	}
}

func smallOptions() Options {
	opts := DefaultOptions()
	opts.Width = 640
	opts.Height = 480
	opts.DPI = 100
	return opts
}

func TestRenderPNG(t *testing.T) {
	var buf bytes.Buffer
	h := Bin([]float64{0.1, 0.2, 0.2, 0.3, 0.9}, 160)

	if err := Render(&buf, h, Title("S1"), smallOptions()); err != nil {
		t.Fatal(err)
	}

	img, err := png.Decode(&buf)
	if err != nil {
		t.Fatal(err)
	}
	if b := img.Bounds(); b.Dx() != 640 || b.Dy() != 480 {
		t.Errorf("image is %dx%d", b.Dx(), b.Dy())
	}
}

func TestWriteColumn(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "out")

	path, h, err := WriteColumn(dir, "S1", []float64{-0.4, 0, 0.4}, smallOptions())
	if err != nil {
		t.Fatal(err)
	}

	if expected := filepath.Join(dir, "S1_histogram.png"); path != expected {
		t.Errorf("wrote %s, expected %s", path, expected)
	}
	if h.Total() != 3 {
		t.Errorf("binned %d values", h.Total())
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	if _, err := png.Decode(f); err != nil {
		t.Errorf("%s is not a PNG: %v", path, err)
	}
}

func TestWriteEmptyColumn(t *testing.T) {
	if _, _, err := WriteColumn(t.TempDir(), "S9", nil, smallOptions()); err != nil {
		t.Errorf("an empty column should still produce a plot: %v", err)
	}
}

func TestCountFormatter(t *testing.T) {
	for in, expected := range map[float64]string{
		0:    "0",
		12:   "12",
		0.25: "0.25",
		1.05: "1.05",
	} {
		if got := countFormatter(in); got != expected {
			t.Errorf("countFormatter(%v) = %q, expected %q", in, got, expected)
		}
	}
}
