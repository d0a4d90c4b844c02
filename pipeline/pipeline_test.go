package pipeline

import (
	"image/png"
	"os"
	"path/filepath"
	"reflect"
	"sort"
	"strings"
	"testing"

	"github.com/carbocation/axiomfp/config"
	"github.com/carbocation/axiomfp/report"
	"github.com/carbocation/axiomfp/summary"
)

const statFixture = `probeset_id	CR	n_AA	n_AB	n_BB	n_NC	AA.meanX	AB.meanX	BB.meanX
AX-1	100	3	4	3	0	1.5	0.0	-1.5
AX-2	75	1	1	1	25	10	0.0	-10
AX-3	80	2	2	2	20	1.5	0.0	-1.5
AX-4	97	3	3	3	3	0.25	0.1	-0.25
AX-5	99	3	3	3	1	1.4	0.6	-1.4
AX-6	81	3	3	3	19	1.2	-0.5	-1.2
AX-8	100	3	3	3	0	1.5	0.0	-1.5
`

const ccpFixture = `#%guid=1
#%affymetrix-algorithm-name=AxiomGT1
#%affymetrix-algorithm-version=1
#%chip_type=Axiom_Test
#%comment=none
probeset_id	S1.CEL_log_ratio	S1.CEL_strength	S2.CEL_log_ratio	S2.CEL_strength
AX-1	0.10	9.1	-0.20	9.3
AX-2	0.15	9.2	-0.25	9.4
AX-3	0.20	9.3	-0.30	9.5
AX-4	0.25	9.4	-0.35	9.6
AX-5	0.30	9.5	-0.40	9.7
AX-6	0.35	9.6	-0.45	9.8
AX-7	0.40	9.7	-0.50	9.9
`

func writeFixtures(t *testing.T) (stat, ccp string) {
	t.Helper()
	dir := t.TempDir()

	stat = filepath.Join(dir, "AxiomGT1.snp-posteriors.txt")
	if err := os.WriteFile(stat, []byte(statFixture), 0o644); err != nil {
		t.Fatal(err)
	}

	ccp = filepath.Join(dir, "AxiomGT1.calls.txt")
	if err := os.WriteFile(ccp, []byte(ccpFixture), 0o644); err != nil {
		t.Fatal(err)
	}

	return stat, ccp
}

func testConfig(t *testing.T, stat, ccp, out string) config.Config {
	t.Helper()

	v := config.New()
	v.Set("snp_stat", stat)
	v.Set("snp_ccp", ccp)
	v.Set("output_folder", out)
	v.Set("width", 320)
	v.Set("height", 240)
	v.Set("dpi", 72)

	c, err := config.Load(v, "")
	if err != nil {
		t.Fatal(err)
	}
	return *c
}

func TestRun(t *testing.T) {
	stat, ccp := writeFixtures(t)
	out := filepath.Join(t.TempDir(), "histograms")
	rec := &report.Recorder{}

	res, err := Run(testConfig(t, stat, ccp, out), rec)
	if err != nil {
		t.Fatal(err)
	}

	// AX-7 has no statistics and AX-8 has no contrast positions.
	if res.Joined != 6 {
		t.Errorf("joined %d rows, expected 6", res.Joined)
	}

	removed := []int{}
	for _, s := range res.Filter.Stages {
		removed = append(removed, s.Removed())
	}
	// call rate: AX-2, AX-3; mean difference: AX-4, AX-5; AB range: none
	if expected := []int{2, 2, 0}; !reflect.DeepEqual(removed, expected) {
		t.Errorf("removed per stage = %v, expected %v", removed, expected)
	}
	if len(rec.Removals) != 3 {
		t.Errorf("reported %d removals", len(rec.Removals))
	}

	// Statistics columns that are not bookkeeping are plotted too.
	if expected := []string{"S1", "S2", "CR", "n_AA", "n_AB", "n_BB"}; !reflect.DeepEqual(res.Columns, expected) {
		t.Errorf("plotted columns = %v, expected %v", res.Columns, expected)
	}

	entries, err := os.ReadDir(out)
	if err != nil {
		t.Fatal(err)
	}
	var pngs []string
	for _, e := range entries {
		if strings.HasSuffix(e.Name(), "_histogram.png") {
			pngs = append(pngs, e.Name())
		}
	}
	sort.Strings(pngs)
	expected := []string{"CR_histogram.png", "S1_histogram.png", "S2_histogram.png", "n_AA_histogram.png", "n_AB_histogram.png", "n_BB_histogram.png"}
	if !reflect.DeepEqual(pngs, expected) {
		t.Errorf("wrote %v, expected %v", pngs, expected)
	}

	f, err := os.Open(filepath.Join(out, "S1_histogram.png"))
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	if _, err := png.Decode(f); err != nil {
		t.Error(err)
	}

	for _, name := range []string{summary.ColumnStatsFile, summary.ManifestFile} {
		if _, err := os.Stat(filepath.Join(out, name)); err != nil {
			t.Errorf("missing %s: %v", name, err)
		}
	}
}

func TestRunNoSummary(t *testing.T) {
	stat, ccp := writeFixtures(t)
	out := t.TempDir()

	c := testConfig(t, stat, ccp, out)
	c.NoSummary = true

	if _, err := Run(c, report.Nop{}); err != nil {
		t.Fatal(err)
	}

	if _, err := os.Stat(filepath.Join(out, summary.ManifestFile)); !os.IsNotExist(err) {
		t.Errorf("manifest written despite NoSummary: %v", err)
	}
}

func TestRunMissingFile(t *testing.T) {
	stat, _ := writeFixtures(t)

	c := testConfig(t, stat, filepath.Join(t.TempDir(), "missing.txt"), t.TempDir())
	if _, err := Run(c, report.Nop{}); err == nil {
		t.Error("expected an error for a missing input file")
	}
}

func TestRunMissingColumn(t *testing.T) {
	stat, ccp := writeFixtures(t)

	b, err := os.ReadFile(stat)
	if err != nil {
		t.Fatal(err)
	}
	renamed := strings.Replace(string(b), "AB.meanX", "AB.meanY", 1)
	if err := os.WriteFile(stat, []byte(renamed), 0o644); err != nil {
		t.Fatal(err)
	}

	_, err = Run(testConfig(t, stat, ccp, t.TempDir()), report.Nop{})
	if err == nil || !strings.Contains(err.Error(), "AB.meanX") {
		t.Errorf("expected a missing AB.meanX error, got %v", err)
	}
}

func TestJoinSingleRow(t *testing.T) {
	dir := t.TempDir()
	stat := filepath.Join(dir, "stat.txt")
	ccp := filepath.Join(dir, "ccp.txt")

	if err := os.WriteFile(stat, []byte("probeset_id\tn_NC\n1\t5\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	ccpBody := "#1\n#2\n#3\n#4\n#5\nprobeset_id\tS1.CEL_log_ratio\tS2.CEL_log_ratio\n1\t0.5\t-0.5\n"
	if err := os.WriteFile(ccp, []byte(ccpBody), 0o644); err != nil {
		t.Fatal(err)
	}

	c := testConfig(t, stat, ccp, t.TempDir())
	statTab, ccpTab, err := Load(c, report.Nop{})
	if err != nil {
		t.Fatal(err)
	}
	joined, err := Join(statTab, ccpTab, report.Nop{})
	if err != nil {
		t.Fatal(err)
	}

	if joined.Len() != 1 {
		t.Fatalf("joined %d rows", joined.Len())
	}
	if expected := []string{"probeset_id", "S1", "S2", "n_NC"}; !reflect.DeepEqual(joined.Header, expected) {
		t.Errorf("joined header = %v", joined.Header)
	}
}
