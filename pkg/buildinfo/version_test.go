package buildinfo

import (
	"runtime/debug"
	"strings"
	"testing"
)

func stamp(t *testing.T, version, commit, date string) {
	t.Helper()
	oldV, oldC, oldD := Version, Commit, Date
	Version, Commit, Date = version, commit, date
	t.Cleanup(func() { Version, Commit, Date = oldV, oldC, oldD })
}

func TestStampedBuild(t *testing.T) {
	stamp(t, "v1.2.3", "0123456789abcdef", "2026-01-02T03:04:05Z")

	info := Get()
	if info.Version != "v1.2.3" || info.Commit != "0123456789abcdef" {
		t.Errorf("Get() = %+v", info)
	}
	if !strings.Contains(String(), "version: v1.2.3") {
		t.Errorf("String() = %q", String())
	}
	if !strings.HasPrefix(Template(), "{{.Name}} version v1.2.3") {
		t.Errorf("Template() = %q", Template())
	}
	if got := CacheScope(); !strings.HasPrefix(got, "v1.2.3-0123456789ab") || !strings.HasSuffix(got, ":") {
		t.Errorf("CacheScope() = %q", got)
	}
}

func TestResolveFallsBackToEmbeddedSettings(t *testing.T) {
	bi := &debug.BuildInfo{
		GoVersion: "go1.24.0",
		Main:      debug.Module{Version: "v0.3.0"},
		Settings: []debug.BuildSetting{
			{Key: "vcs.revision", Value: "fedcba9876543210"},
			{Key: "vcs.time", Value: "2026-05-06T07:08:09Z"},
			{Key: "vcs.modified", Value: "true"},
		},
	}
	got := resolve(Info{Version: "dev", Commit: "none", Date: "unknown"}, bi)
	want := Info{
		Version:   "v0.3.0",
		Commit:    "fedcba9876543210",
		Date:      "2026-05-06T07:08:09Z",
		GoVersion: "go1.24.0",
		Modified:  true,
	}
	if got != want {
		t.Errorf("resolve = %+v, want %+v", got, want)
	}
}

func TestResolveKeepsStampedValues(t *testing.T) {
	bi := &debug.BuildInfo{
		Main:     debug.Module{Version: "(devel)"},
		Settings: []debug.BuildSetting{{Key: "vcs.revision", Value: "fedcba"}},
	}
	got := resolve(Info{Version: "v2.0.0", Commit: "abc", Date: "today"}, bi)
	if got.Version != "v2.0.0" || got.Commit != "abc" || got.Date != "today" {
		t.Errorf("resolve overrode stamped values: %+v", got)
	}

	dev := resolve(Info{Version: "dev", Commit: "none", Date: "unknown"}, bi)
	if dev.Version != "dev" {
		t.Errorf("(devel) main version should leave %q, got %q", "dev", dev.Version)
	}
	if resolve(Info{Version: "x"}, nil).Version != "x" {
		t.Error("nil build info should leave info unchanged")
	}
}

func TestShortCommit(t *testing.T) {
	if got := (Info{Commit: "0123456789abcdef"}).ShortCommit(); got != "0123456789ab" {
		t.Errorf("ShortCommit = %q", got)
	}
	if got := (Info{Commit: "none"}).ShortCommit(); got != "none" {
		t.Errorf("ShortCommit = %q", got)
	}
}
