package buildinfo

import (
	"runtime/debug"
	"strings"
	"testing"
)

func TestResolve(t *testing.T) {
	stamped := func() (*debug.BuildInfo, bool) {
		return &debug.BuildInfo{
			Main: debug.Module{Version: "v0.3.0"},
			Settings: []debug.BuildSetting{
				{Key: "vcs.revision", Value: "abc123"},
				{Key: "vcs.time", Value: "2024-05-01T10:00:00Z"},
			},
		}, true
	}
	unavailable := func() (*debug.BuildInfo, bool) { return nil, false }
	devel := func() (*debug.BuildInfo, bool) {
		return &debug.BuildInfo{Main: debug.Module{Version: "(devel)"}}, true
	}

	defaults := Info{Version: "dev", Commit: "none", Date: "unknown"}
	release := Info{Version: "v1.0.0", Commit: "fff", Date: "2024-06-01"}

	tests := []struct {
		name string
		in   Info
		read func() (*debug.BuildInfo, bool)
		want Info
	}{
		{"toolchain fallback", defaults, stamped, Info{"v0.3.0", "abc123", "2024-05-01T10:00:00Z"}},
		{"ldflags win", release, stamped, release},
		{"no build info", defaults, unavailable, defaults},
		{"devel version", defaults, devel, defaults},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := resolve(tt.in, tt.read); got != tt.want {
				t.Errorf("resolve() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestTemplate(t *testing.T) {
	got := Template()
	if !strings.HasPrefix(got, "{{.Name}} version ") {
		t.Errorf("Template() = %q, want cobra name placeholder prefix", got)
	}
	if !strings.Contains(String(), "commit: ") {
		t.Errorf("String() = %q, want commit line", String())
	}
}
