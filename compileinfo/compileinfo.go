package compileinfo

import (
	"fmt"
	"runtime/debug"
)

// CompileInfo describes the binary that produced a set of histograms, so a
// run manifest can be traced back to a commit.
type CompileInfo struct {
	Package    string `yaml:"package"`
	GoVersion  string `yaml:"go_version"`
	Commit     string `yaml:"commit,omitempty"`
	CommitTime string `yaml:"commit_time,omitempty"`
	Modified   bool   `yaml:"modified"`
}

func (c CompileInfo) String() string {
	if c.GoVersion == "" {
		return "Build information is unavailable for this binary."
	}

	mod := ""
	if c.Modified {
		mod = " Files in the repo were modified after that commit."
	}

	commit := c.Commit
	if commit == "" {
		commit = "(unknown)"
	}

	return fmt.Sprintf("This %s binary was built with %s at commit %v at time %v.%s", c.Package, c.GoVersion, commit, c.CommitTime, mod)
}

// Get reads the build settings embedded by the go toolchain.
func Get() CompileInfo {
	z, ok := debug.ReadBuildInfo()
	if !ok {
		return CompileInfo{}
	}

	return fromBuildInfo(z)
}

func fromBuildInfo(z *debug.BuildInfo) CompileInfo {
	out := CompileInfo{
		GoVersion: z.GoVersion,
		Package:   z.Path,
	}

	for _, s := range z.Settings {
		switch s.Key {
		case "vcs.revision":
			out.Commit = s.Value
		case "vcs.time":
			out.CommitTime = s.Value
		case "vcs.modified":
			out.Modified = s.Value == "true"
		}
	}

	return out
}
