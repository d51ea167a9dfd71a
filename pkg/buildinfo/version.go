// Package buildinfo carries the version stamped into release binaries.
//
// Release builds inject the values via ldflags:
//
//	go build -ldflags "-X github.com/orreryworks/orrery/pkg/buildinfo.Version=v1.0.0 \
//	    -X github.com/orreryworks/orrery/pkg/buildinfo.Commit=$(git rev-parse HEAD) \
//	    -X github.com/orreryworks/orrery/pkg/buildinfo.Date=$(date -u +%Y-%m-%dT%H:%M:%SZ)"
//
// Unstamped builds (go install, go run) fall back to the VCS revision
// recorded by the Go toolchain, when one is available.
package buildinfo

import (
	"fmt"
	"runtime/debug"
)

var (
	// Version is the semantic version, "dev" when not stamped.
	Version = "dev"

	// Commit is the git commit SHA.
	Commit = "none"

	// Date is the build timestamp.
	Date = "unknown"
)

func init() {
	if Commit != "none" {
		return
	}
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return
	}
	for _, s := range info.Settings {
		switch s.Key {
		case "vcs.revision":
			Commit = s.Value
		case "vcs.time":
			Date = s.Value
		}
	}
}

// Template returns the version template string for cobra.
func Template() string {
	return fmt.Sprintf("{{.Name}} version %s\ncommit: %s\nbuilt: %s\n", Version, Commit, Date)
}
