package axiomfp

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/carbocation/pfx"
)

// ExpandHome expands a leading ~ to the current user's home directory. Paths
// coming from config files are not shell-expanded, so they pass through here.
func ExpandHome(path string) (string, error) {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path, nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", pfx.Err(err)
	}

	return filepath.Join(home, strings.TrimPrefix(path, "~")), nil
}
