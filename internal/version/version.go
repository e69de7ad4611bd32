// Package version holds build metadata injected with ldflags:
//
//	go build -ldflags "-X github.com/venlacy0/venblog/internal/version.Version=v0.3.0"
package version

import "runtime/debug"

var (
	Version   = "unknown"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

// String returns the version, falling back to the module version recorded by
// the Go toolchain when no ldflags were given.
func String() string {
	if Version != "unknown" && Version != "" {
		return Version
	}
	if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" && info.Main.Version != "(devel)" {
		return info.Main.Version
	}
	return Version
}
