// Package version reports the molehole build version.
package version

import (
	"fmt"
	"runtime"
	"runtime/debug"
	"time"
)

// Set at build time:
//
//	go build -ldflags="-X github.com/muurk/molehole/internal/version.Version=v1.2.3 \
//	                   -X github.com/muurk/molehole/internal/version.Commit=abc123"
//
// Unset values are filled from the VCS stamp in the build info, then fall
// back to "dev" and "unknown".
var (
	// Version is the semantic version of the application
	Version = ""
	// Commit is the short git commit hash
	Commit = ""
)

// Info describes the running binary
type Info struct {
	Version   string `json:"version"`
	Commit    string `json:"commit"`
	GoVersion string `json:"go_version"`
	Platform  string `json:"platform"`
}

func init() {
	if info, ok := debug.ReadBuildInfo(); ok {
		Version, Commit = fromSettings(Version, Commit, info.Settings)
	}
	if Version == "" {
		Version = "dev"
	}
	if Commit == "" {
		Commit = "unknown"
	}
}

// fromSettings fills empty version and commit values from VCS build settings.
func fromSettings(version, commit string, settings []debug.BuildSetting) (string, string) {
	vcs := make(map[string]string, len(settings))
	for _, s := range settings {
		vcs[s.Key] = s.Value
	}

	if commit == "" {
		if rev := vcs["vcs.revision"]; rev != "" {
			if len(rev) > 7 {
				rev = rev[:7]
			}
			if vcs["vcs.modified"] == "true" {
				rev += "-dirty"
			}
			commit = rev
		}
	}

	if version == "" {
		if t, err := time.Parse(time.RFC3339, vcs["vcs.time"]); err == nil {
			version = "dev-" + t.Format("20060102")
		}
	}
	return version, commit
}

// Get returns the build information of the running binary
func Get() Info {
	return Info{
		Version:   Version,
		Commit:    Commit,
		GoVersion: runtime.Version(),
		Platform:  runtime.GOOS + "/" + runtime.GOARCH,
	}
}

// Full returns the version line printed by "molehole version"
func Full() string {
	i := Get()
	return fmt.Sprintf("%s (commit: %s, %s, %s)", i.Version, i.Commit, i.GoVersion, i.Platform)
}
