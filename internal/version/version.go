// Package version reports which build of paddock is running.
package version

import (
	"fmt"
	"runtime/debug"
)

// Set at build time via -ldflags "-X .../version.Commit=... -X .../version.BuildTime=...".
var (
	Commit    = "unknown"
	BuildTime = "unknown"
)

// readBuildInfo is replaced in tests.
var readBuildInfo = debug.ReadBuildInfo

// String returns the version line printed by `paddock --version`.
func String() string {
	commit, built := Commit, BuildTime
	if commit == "unknown" {
		commit, built = fromBuildInfo(built)
	}
	return fmt.Sprintf("paddock dev (commit: %s, built: %s)", short(commit), built)
}

// fromBuildInfo falls back to the VCS stamp `go build` embeds.
func fromBuildInfo(built string) (string, string) {
	commit := "unknown"
	info, ok := readBuildInfo()
	if !ok {
		return commit, built
	}
	for _, s := range info.Settings {
		switch s.Key {
		case "vcs.revision":
			commit = s.Value
		case "vcs.time":
			if built == "unknown" {
				built = s.Value
			}
		}
	}
	return commit, built
}

func short(commit string) string {
	if len(commit) > 7 {
		return commit[:7]
	}
	return commit
}
