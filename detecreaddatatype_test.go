package axiomfp

import (
	"bufio"
	"bytes"
	"compress/gzip"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const plainReport = "probeset_id\tn_NC\nAX-1\t3\n"

func TestDetectDataType(t *testing.T) {
	var gz bytes.Buffer
	w := gzip.NewWriter(&gz)
	w.Write([]byte(plainReport))
	w.Close()

	for _, v := range []struct {
		Name     string
		Data     []byte
		Expected DataType
	}{
		{"plain", []byte(plainReport), DataTypeNoCompression},
		{"gzip", gz.Bytes(), DataTypeGzip},
		{"bzip2", []byte("BZh91AY&SY"), DataTypeBZip2},
		{"xz", []byte{0xfd, 0x37, 0x7a, 0x58, 0x5a, 0x00, 0x00}, DataTypeXZ},
		{"zip", []byte{0x50, 0x4b, 0x03, 0x04, 0x14}, DataTypeZip},
		{"short", []byte("ab"), DataTypeNoCompression},
		{"empty", nil, DataTypeNoCompression},
	} {
		br := bufio.NewReader(bytes.NewReader(v.Data))
		dt, err := DetectDataType(br)
		if err != nil {
			t.Errorf("%s: %v", v.Name, err)
			continue
		}
		if dt != v.Expected {
			t.Errorf("%s: detected %s, expected %s", v.Name, dt, v.Expected)
		}

		// Detection must not consume the stream.
		rest, _ := io.ReadAll(br)
		if !bytes.Equal(rest, v.Data) {
			t.Errorf("%s: detection consumed input", v.Name)
		}
	}
}

func TestOpenMaybeCompressed(t *testing.T) {
	dir := t.TempDir()

	plain := filepath.Join(dir, "report.txt")
	if err := os.WriteFile(plain, []byte(plainReport), 0o644); err != nil {
		t.Fatal(err)
	}

	var gz bytes.Buffer
	w := gzip.NewWriter(&gz)
	if _, err := w.Write([]byte(plainReport)); err != nil {
		t.Fatal(err)
	}
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}
	zipped := filepath.Join(dir, "report.txt.gz")
	if err := os.WriteFile(zipped, gz.Bytes(), 0o644); err != nil {
		t.Fatal(err)
	}

	for path, expected := range map[string]DataType{plain: DataTypeNoCompression, zipped: DataTypeGzip} {
		rc, dt, err := OpenMaybeCompressed(path)
		if err != nil {
			t.Fatal(err)
		}
		b, err := io.ReadAll(rc)
		if err != nil {
			t.Fatal(err)
		}
		if err := rc.Close(); err != nil {
			t.Error(err)
		}

		if dt != expected {
			t.Errorf("%s: detected %s, expected %s", path, dt, expected)
		}
		if string(b) != plainReport {
			t.Errorf("%s: read %q", path, b)
		}
	}

	if _, _, err := OpenMaybeCompressed(filepath.Join(dir, "missing.txt")); err == nil {
		t.Error("expected an error for a missing file")
	}
}

func TestDetermineDelimiter(t *testing.T) {
	tsv := "a\tb\tc\n1\t2\t3\n4\t5\t6\n"
	if d := DetermineDelimiter(strings.NewReader(tsv), ','); d != '\t' {
		t.Errorf("detected %q for tab-delimited input", d)
	}

	csv := "a,b,c\n1,2,3\n4,5,6\n"
	if d := DetermineDelimiter(strings.NewReader(csv), '\t'); d != ',' {
		t.Errorf("detected %q for comma-delimited input", d)
	}
}

func TestExpandHome(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("no home directory")
	}

	got, err := ExpandHome("~/data/stat.txt")
	if err != nil {
		t.Fatal(err)
	}
	if expected := filepath.Join(home, "data", "stat.txt"); got != expected {
		t.Errorf("ExpandHome = %q, expected %q", got, expected)
	}

	if got, _ := ExpandHome("/abs/path"); got != "/abs/path" {
		t.Errorf("absolute path changed to %q", got)
	}
}
