// Package pipeline runs the axiomfp steps in order: load both reports, join
// them, filter SNPs, prune bookkeeping columns, and plot every remaining
// column.
package pipeline

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/carbocation/axiomfp/config"
	"github.com/carbocation/axiomfp/histplot"
	"github.com/carbocation/axiomfp/report"
	"github.com/carbocation/axiomfp/snpfilter"
	"github.com/carbocation/axiomfp/snptable"
	"github.com/carbocation/axiomfp/summary"
	"github.com/carbocation/pfx"
)

// Result describes a finished run.
type Result struct {
	Joined     int
	Filter     snpfilter.ChainResult
	Columns    []string
	Histograms []string
	Stats      []summary.ColumnStats
}

// Load reads the statistics and call-contrast-positions reports.
func Load(c config.Config, rep report.Reporter) (stat, ccp *snptable.Table, err error) {
	delim, err := c.DelimiterRune()
	if err != nil {
		return nil, nil, err
	}

	rep.Stage("Loading files...")

	rep.Infof("Reading file: %s", c.SNPStat)
	stat, err = snptable.ReadFile(c.SNPStat, snptable.ReadOptions{Delimiter: delim})
	if err != nil {
		return nil, nil, err
	}
	rep.Debugf("%s: %d rows, %d columns", c.SNPStat, stat.Len(), len(stat.Header))

	rep.Infof("Reading file: %s", c.SNPCCP)
	ccp, err = snptable.ReadFile(c.SNPCCP, snptable.ReadOptions{SkipLines: c.CCPSkip, Delimiter: delim})
	if err != nil {
		return nil, nil, err
	}
	rep.Debugf("%s: %d rows, %d columns", c.SNPCCP, ccp.Len(), len(ccp.Header))

	return stat, ccp, nil
}

// Join keeps the per-sample log ratios of ccp and inner-joins them with stat
// on probeset_id.
func Join(stat, ccp *snptable.Table, rep report.Reporter) (*snptable.Table, error) {
	rep.Stage("Removing and renaming columns.")

	cleaned, err := snptable.CleanContrastColumns(ccp, snptable.KeyColumn)
	if err != nil {
		return nil, pfx.Err(err)
	}

	joined, err := snptable.InnerJoin(cleaned, stat, snptable.KeyColumn)
	if err != nil {
		return nil, pfx.Err(err)
	}
	joined.Name = "joined"

	rep.Infof("Joined %d SNPs with %d sample columns", joined.Len(), len(cleaned.Header)-1)

	return joined, nil
}

// Filter runs the filter chain and drops the bookkeeping columns.
func Filter(joined *snptable.Table, p snpfilter.Params, rep report.Reporter) (*snptable.Table, snpfilter.ChainResult, error) {
	filtered, res, err := snpfilter.Chain(joined, p, rep)
	if err != nil {
		return nil, res, pfx.Err(err)
	}

	pruned, err := snpfilter.Prune(filtered)
	if err != nil {
		return nil, res, pfx.Err(err)
	}

	return pruned, res, nil
}

// Plot writes one histogram per column of t into dir. Files written before a
// failure are left in place.
func Plot(t *snptable.Table, dir string, opts histplot.Options, rep report.Reporter) ([]string, []summary.ColumnStats, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, nil, pfx.Err(err)
	}

	rep.Stage("Generating column histograms.")

	paths := make([]string, 0, len(t.Header))
	described := make([]summary.ColumnStats, 0, len(t.Header))
	for _, column := range t.Header {
		values, err := t.Floats(column)
		if err != nil {
			return paths, described, pfx.Err(err)
		}

		path, h, err := histplot.WriteColumn(dir, column, values, opts)
		if err != nil {
			return paths, described, err
		}
		if h.Skipped > 0 {
			rep.Warnf("%s: %d missing or non-finite values were not plotted", column, h.Skipped)
		}
		rep.Debugf("Wrote %s", path)

		stats := summary.Describe(column, values)
		stats.Histogram = filepath.Base(path)

		paths = append(paths, path)
		described = append(described, stats)
	}

	return paths, described, nil
}

// Run executes the whole pipeline described by c.
func Run(c config.Config, rep report.Reporter) (*Result, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	manifest := summary.NewManifest(time.Now())

	stat, ccp, err := Load(c, rep)
	if err != nil {
		return nil, err
	}

	joined, err := Join(stat, ccp, rep)
	if err != nil {
		return nil, err
	}

	pruned, chain, err := Filter(joined, c.FilterParams(), rep)
	if err != nil {
		return nil, err
	}

	paths, described, err := Plot(pruned, c.OutputFolder, c.PlotOptions(), rep)
	if err != nil {
		return nil, err
	}

	res := &Result{
		Joined:     joined.Len(),
		Filter:     chain,
		Columns:    pruned.Header,
		Histograms: paths,
		Stats:      described,
	}

	if c.NoSummary {
		return res, nil
	}

	if err := writeSummary(c, manifest, stat, ccp, res, rep); err != nil {
		return nil, err
	}

	return res, nil
}

func writeSummary(c config.Config, m *summary.Manifest, stat, ccp *snptable.Table, res *Result, rep report.Reporter) error {
	statsPath := filepath.Join(c.OutputFolder, summary.ColumnStatsFile)
	if err := summary.WriteColumnStats(statsPath, res.Stats); err != nil {
		return err
	}

	m.Inputs = summary.Inputs{
		SNPStat:       c.SNPStat,
		SNPStatRows:   stat.Len(),
		SNPCCP:        c.SNPCCP,
		SNPCCPRows:    ccp.Len(),
		JoinedRows:    res.Joined,
		SampleColumns: len(res.Columns),
	}
	m.Params = summary.Params{
		NNC:   c.NNC,
		ABMin: c.ABMin,
		ABMax: c.ABMax,
		Bins:  c.Bins,
		DPI:   c.DPI,
	}
	m.Stages = res.Filter.Stages
	m.Threshold = res.Filter.Threshold
	for _, p := range res.Histograms {
		m.Histograms = append(m.Histograms, filepath.Base(p))
	}
	m.ColumnStats = summary.ColumnStatsFile
	m.Finished = time.Now()

	manifestPath := filepath.Join(c.OutputFolder, summary.ManifestFile)
	if err := m.Write(manifestPath); err != nil {
		return err
	}

	rep.Infof("Wrote %s and %s", statsPath, manifestPath)

	return nil
}

// String summarizes the per-step counts on one line.
func (r *Result) String() string {
	s := fmt.Sprintf("%d joined", r.Joined)
	for _, st := range r.Filter.Stages {
		s += fmt.Sprintf(", %s -%d", st.Name, st.Removed())
	}
	return s + fmt.Sprintf(", %d histograms", len(r.Histograms))
}
