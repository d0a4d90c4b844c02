// Package snpfilter eliminates SNPs from a joined Axiom table: poorly called
// probesets first, then probesets whose homozygous clusters sit too close
// together or whose heterozygous cluster is off-center.
package snpfilter

import (
	"fmt"
	"math"
	"strconv"

	"github.com/carbocation/axiomfp/report"
	"github.com/carbocation/axiomfp/snptable"
)

// Columns of the SNP statistics report used by the filters.
const (
	ColNNC     = "n_NC"
	ColAAMeanX = "AA.meanX"
	ColABMeanX = "AB.meanX"
	ColBBMeanX = "BB.meanX"

	// ColAAMinusBB is derived by MeanDifference.
	ColAAMinusBB = "AA-BB"
)

// Params are the filter thresholds.
type Params struct {
	// CutoffNNC removes SNPs with at least this many no-calls.
	CutoffNNC float64

	// ABMin and ABMax bound the heterozygous cluster's mean contrast,
	// inclusive.
	ABMin float64
	ABMax float64
}

func DefaultParams() Params {
	return Params{
		CutoffNNC: 20,
		ABMin:     -0.5,
		ABMax:     0.5,
	}
}

// StageResult records the row counts around one filter step.
type StageResult struct {
	Name   string `yaml:"name"`
	Before int    `yaml:"before"`
	After  int    `yaml:"after"`
}

func (s StageResult) Removed() int {
	return s.Before - s.After
}

func (p Params) abInRange(ab float64) bool {
	return p.ABMin <= ab && ab <= p.ABMax
}

// CallRate drops rows whose n_NC is at or above cutoff. A missing n_NC is
// kept.
func CallRate(t *snptable.Table, cutoff float64) (*snptable.Table, StageResult, error) {
	nnc, err := t.Floats(ColNNC)
	if err != nil {
		return nil, StageResult{}, err
	}

	out := t.Filter(func(i int, _ []string) bool {
		return !(nnc[i] >= cutoff)
	})

	return out, StageResult{Name: "call rate", Before: t.Len(), After: out.Len()}, nil
}

// Threshold is the mean of the AA and BB cluster spreads,
//
//	(|max(AA.meanX)| - min(AA.meanX) + |max(BB.meanX)| - min(BB.meanX)) / 2
//
// with missing values ignored. It is NaN if either column has no values.
func Threshold(t *snptable.Table) (float64, error) {
	aa, err := t.Floats(ColAAMeanX)
	if err != nil {
		return math.NaN(), err
	}
	bb, err := t.Floats(ColBBMeanX)
	if err != nil {
		return math.NaN(), err
	}

	aaMin, aaMax := minMax(aa)
	bbMin, bbMax := minMax(bb)

	aaDelta := math.Abs(aaMax) - aaMin
	bbDelta := math.Abs(bbMax) - bbMin

	return (aaDelta + bbDelta) / 2, nil
}

// minMax skips NaN and returns NaN, NaN when nothing is left.
func minMax(vals []float64) (min, max float64) {
	min, max = math.NaN(), math.NaN()
	for _, v := range vals {
		if math.IsNaN(v) {
			continue
		}
		if math.IsNaN(min) || v < min {
			min = v
		}
		if math.IsNaN(max) || v > max {
			max = v
		}
	}
	return min, max
}

// MeanDifference appends the AA-BB column and keeps rows whose AA-BB is
// strictly above the table-wide Threshold and whose AB.meanX lies within
// [ABMin, ABMax]. The threshold is computed from t itself, so t should
// already be call-rate filtered.
func MeanDifference(t *snptable.Table, p Params) (*snptable.Table, StageResult, float64, error) {
	threshold, err := Threshold(t)
	if err != nil {
		return nil, StageResult{}, math.NaN(), err
	}

	aa, err := t.Floats(ColAAMeanX)
	if err != nil {
		return nil, StageResult{}, threshold, err
	}
	bb, err := t.Floats(ColBBMeanX)
	if err != nil {
		return nil, StageResult{}, threshold, err
	}
	ab, err := t.Floats(ColABMeanX)
	if err != nil {
		return nil, StageResult{}, threshold, err
	}

	diff := make([]float64, t.Len())
	diffCells := make([]string, t.Len())
	for i := range diff {
		diff[i] = aa[i] - bb[i]
		diffCells[i] = strconv.FormatFloat(diff[i], 'g', -1, 64)
	}

	withDiff, err := t.AppendColumn(ColAAMinusBB, diffCells)
	if err != nil {
		return nil, StageResult{}, threshold, err
	}

	out := withDiff.Filter(func(i int, _ []string) bool {
		return diff[i] > threshold && p.abInRange(ab[i])
	})

	return out, StageResult{Name: "mean difference", Before: t.Len(), After: out.Len()}, threshold, nil
}

// ABRange keeps rows whose AB.meanX lies within [ABMin, ABMax].
//
// After MeanDifference this never removes anything: the same condition was
// already applied there. The pipeline still runs it as its own step so the
// per-step counts line up with earlier reports.
func ABRange(t *snptable.Table, p Params) (*snptable.Table, StageResult, error) {
	ab, err := t.Floats(ColABMeanX)
	if err != nil {
		return nil, StageResult{}, err
	}

	out := t.Filter(func(i int, _ []string) bool {
		return p.abInRange(ab[i])
	})

	return out, StageResult{Name: "AB range", Before: t.Len(), After: out.Len()}, nil
}

// ChainResult summarizes a full Chain run.
type ChainResult struct {
	Stages    []StageResult `yaml:"stages"`
	Threshold float64       `yaml:"aa_bb_threshold"`
}

// Chain runs CallRate, MeanDifference and ABRange in that order, reporting
// each step's removals.
func Chain(t *snptable.Table, p Params, rep report.Reporter) (*snptable.Table, ChainResult, error) {
	var res ChainResult

	rep.Stage("Removing SNPs with high call rates.")
	t, stage, err := CallRate(t, p.CutoffNNC)
	if err != nil {
		return nil, res, fmt.Errorf("call rate filter: %w", err)
	}
	res.Stages = append(res.Stages, stage)
	rep.Removed(stage.Name, stage.Removed())

	rep.Stage("Removing SNPs where AA.meanX and BB.meanX difference is smaller than average.")
	t, stage, res.Threshold, err = MeanDifference(t, p)
	if err != nil {
		return nil, res, fmt.Errorf("mean difference filter: %w", err)
	}
	res.Stages = append(res.Stages, stage)
	rep.Debugf("AA-BB threshold: %g", res.Threshold)
	rep.Removed(stage.Name, stage.Removed())

	rep.Stage(fmt.Sprintf("Removing SNPs where AB.meanX is outside the range [%g, %g]...", p.ABMin, p.ABMax))
	t, stage, err = ABRange(t, p)
	if err != nil {
		return nil, res, fmt.Errorf("AB range filter: %w", err)
	}
	res.Stages = append(res.Stages, stage)
	rep.Removed(stage.Name, stage.Removed())

	return t, res, nil
}

// BookkeepingColumns are dropped by Prune once filtering is done.
var BookkeepingColumns = []string{ColNNC, ColAAMeanX, ColABMeanX, ColBBMeanX, ColAAMinusBB, snptable.KeyColumn}

// Prune removes BookkeepingColumns. All of them must be present.
func Prune(t *snptable.Table) (*snptable.Table, error) {
	return t.DropColumns(BookkeepingColumns...)
}
