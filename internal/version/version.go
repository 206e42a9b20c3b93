// Package version carries build metadata. Release builds inject it with
// -ldflags, e.g.
//
//	-X github.com/smazurov/colornode/internal/version.Version=v0.3.0
//
// Plain `go build` binaries fall back to the VCS stamp in the build info.
package version

import (
	"fmt"
	"runtime"
	"runtime/debug"
)

const unknown = "unknown"

var (
	Version   = "dev"
	GitCommit = unknown
	BuildDate = unknown
	BuildID   = unknown
)

// Info is the build description served at /api/version.
type Info struct {
	Version   string `json:"version"`
	GitCommit string `json:"git_commit"`
	BuildDate string `json:"build_date"`
	BuildID   string `json:"build_id"`
	GoVersion string `json:"go_version"`
	Compiler  string `json:"compiler"`
	Platform  string `json:"platform"`
}

// Get returns the build description.
func Get() Info {
	info := Info{
		Version:   Version,
		GitCommit: GitCommit,
		BuildDate: BuildDate,
		BuildID:   BuildID,
		GoVersion: runtime.Version(),
		Compiler:  runtime.Compiler,
		Platform:  runtime.GOOS + "/" + runtime.GOARCH,
	}
	if bi, ok := debug.ReadBuildInfo(); ok {
		fillFromSettings(&info, bi.Settings)
	}
	return info
}

// fillFromSettings fills fields ldflags left unset from vcs.* settings.
func fillFromSettings(info *Info, settings []debug.BuildSetting) {
	for _, s := range settings {
		switch s.Key {
		case "vcs.revision":
			if info.GitCommit == unknown && s.Value != "" {
				info.GitCommit = shortRevision(s.Value)
			}
		case "vcs.time":
			if info.BuildDate == unknown && s.Value != "" {
				info.BuildDate = s.Value
			}
		}
	}
}

func shortRevision(rev string) string {
	if len(rev) > 7 {
		return rev[:7]
	}
	return rev
}

// String is the line printed by --version.
func (i Info) String() string {
	if i.GitCommit == unknown {
		return fmt.Sprintf("colornode %s (%s, %s)", i.Version, i.Platform, i.GoVersion)
	}
	return fmt.Sprintf("colornode %s (%s, %s, %s)", i.Version, i.GitCommit, i.Platform, i.GoVersion)
}
