package version

import (
	"runtime/debug"
	"strings"
	"testing"
)

func TestFromSettings(t *testing.T) {
	settings := []debug.BuildSetting{
		{Key: "vcs.revision", Value: "0123456789abcdef"},
		{Key: "vcs.modified", Value: "true"},
		{Key: "vcs.time", Value: "2026-03-14T09:26:53Z"},
	}

	tests := []struct {
		name        string
		version     string
		commit      string
		settings    []debug.BuildSetting
		wantVersion string
		wantCommit  string
	}{
		{"from vcs", "", "", settings, "dev-20260314", "0123456-dirty"},
		{"ldflags win", "v1.2.3", "abc123", settings, "v1.2.3", "abc123"},
		{"no vcs", "", "", nil, "", ""},
		{"short revision", "", "", []debug.BuildSetting{{Key: "vcs.revision", Value: "abc"}}, "", "abc"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, c := fromSettings(tt.version, tt.commit, tt.settings)
			if v != tt.wantVersion || c != tt.wantCommit {
				t.Errorf("fromSettings() = (%q, %q), want (%q, %q)", v, c, tt.wantVersion, tt.wantCommit)
			}
		})
	}
}

func TestFull(t *testing.T) {
	full := Full()
	if !strings.HasPrefix(full, Version+" (commit: "+Commit) {
		t.Errorf("Full() = %q", full)
	}
	if Get().Platform == "" {
		t.Error("Platform should not be empty")
	}
}
