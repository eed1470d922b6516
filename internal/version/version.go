// Package version reports the opcplay build version.
package version

import (
	"fmt"
	"runtime"
	"runtime/debug"
	"sync"
	"time"
)

// Set at build time:
//
//	go build -ldflags="-X github.com/muurk/opcplay/internal/version.Version=v0.3.0 \
//	                   -X github.com/muurk/opcplay/internal/version.Commit=abc1234"
var (
	Version = ""
	Commit  = ""
)

// Info describes the running binary
type Info struct {
	Version   string
	Commit    string
	GoVersion string
}

// Get returns the build information, filling unset ldflags values from the
// VCS stamp embedded by the Go toolchain
var Get = sync.OnceValue(func() Info {
	info := Info{Version: Version, Commit: Commit, GoVersion: runtime.Version()}
	if build, ok := debug.ReadBuildInfo(); ok {
		fillFromSettings(&info, build.Settings)
	}
	if info.Version == "" {
		info.Version = "dev"
	}
	if info.Commit == "" {
		info.Commit = "unknown"
	}
	return info
})

func fillFromSettings(info *Info, settings []debug.BuildSetting) {
	vcs := make(map[string]string, len(settings))
	for _, s := range settings {
		vcs[s.Key] = s.Value
	}

	if info.Commit == "" {
		if rev := vcs["vcs.revision"]; rev != "" {
			info.Commit = rev[:min(len(rev), 7)]
			if vcs["vcs.modified"] == "true" {
				info.Commit += "-dirty"
			}
		}
	}

	if info.Version == "" {
		if t, err := time.Parse(time.RFC3339, vcs["vcs.time"]); err == nil {
			info.Version = "dev-" + t.Format("20060102")
		}
	}
}

// String returns "version (commit: abc1234, go1.24.0)"
func (i Info) String() string {
	return fmt.Sprintf("%s (commit: %s, %s)", i.Version, i.Commit, i.GoVersion)
}
