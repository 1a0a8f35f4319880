package oggmeta

import (
	"fmt"
	"runtime"
	"runtime/debug"
)

// Version is the semantic version of the oggmeta library.
const Version = "0.1.0"

// GetVersion returns the current version string.
func GetVersion() string {
	return Version
}

// VersionInfo contains detailed version information.
type VersionInfo struct {
	Version   string
	GitCommit string // "unknown" outside a VCS build
	BuildTime string // RFC 3339 commit time, or "unknown"
	GoVersion string
	Modified  bool // built from a dirty tree
}

// String formats the info for a --version line, e.g.
// "0.1.0 (3f2a9c1, go1.26.0)".
func (v VersionInfo) String() string {
	commit := v.GitCommit
	if len(commit) > 7 {
		commit = commit[:7]
	}
	if v.Modified {
		commit += "-dirty"
	}
	return fmt.Sprintf("%s (%s, %s)", v.Version, commit, v.GoVersion)
}

// GetVersionInfo returns detailed version information.
//
// Commit and build time come from the VCS stamp the go command embeds in
// binaries built inside a repository.
func GetVersionInfo() VersionInfo {
	info := VersionInfo{
		Version:   Version,
		GitCommit: "unknown",
		BuildTime: "unknown",
		GoVersion: runtime.Version(),
	}

	bi, ok := debug.ReadBuildInfo()
	if !ok {
		return info
	}
	for _, s := range bi.Settings {
		switch s.Key {
		case "vcs.revision":
			info.GitCommit = s.Value
		case "vcs.time":
			info.BuildTime = s.Value
		case "vcs.modified":
			info.Modified = s.Value == "true"
		}
	}
	return info
}
