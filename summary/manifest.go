package summary

import (
	"os"
	"time"

	"github.com/carbocation/axiomfp/compileinfo"
	"github.com/carbocation/axiomfp/snpfilter"
	"github.com/carbocation/pfx"
	"github.com/google/uuid"
	"gopkg.in/yaml.v3"
)

// ManifestFile is written next to the histograms.
const ManifestFile = "run_summary.yaml"

// Manifest records what a run read, how it filtered, and what it wrote.
type Manifest struct {
	RunID    string                  `yaml:"run_id"`
	Started  time.Time               `yaml:"started"`
	Finished time.Time               `yaml:"finished"`
	Build    compileinfo.CompileInfo `yaml:"build"`

	Inputs Inputs `yaml:"inputs"`
	Params Params `yaml:"params"`

	Stages    []snpfilter.StageResult `yaml:"stages"`
	Threshold float64                 `yaml:"aa_bb_threshold"`

	Histograms  []string `yaml:"histograms"`
	ColumnStats string   `yaml:"column_stats,omitempty"`
}

type Inputs struct {
	SNPStat       string `yaml:"snp_stat"`
	SNPStatRows   int    `yaml:"snp_stat_rows"`
	SNPCCP        string `yaml:"snp_ccp"`
	SNPCCPRows    int    `yaml:"snp_ccp_rows"`
	JoinedRows    int    `yaml:"joined_rows"`
	SampleColumns int    `yaml:"sample_columns"`
}

type Params struct {
	NNC   int     `yaml:"nnc"`
	ABMin float64 `yaml:"ab_min"`
	ABMax float64 `yaml:"ab_max"`
	Bins  int     `yaml:"bins"`
	DPI   float64 `yaml:"dpi"`
}

// NewManifest stamps a fresh run ID and start time.
func NewManifest(started time.Time) *Manifest {
	return &Manifest{
		RunID:   uuid.NewString(),
		Started: started,
		Build:   compileinfo.Get(),
	}
}

// Write saves the manifest as YAML.
func (m *Manifest) Write(path string) error {
	b, err := yaml.Marshal(m)
	if err != nil {
		return pfx.Err(err)
	}

	if err := os.WriteFile(path, b, 0o644); err != nil {
		return pfx.Err(err)
	}

	return nil
}
