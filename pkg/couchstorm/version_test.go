package couchstorm

import (
	"runtime/debug"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSDKVersion(t *testing.T) {
	tests := []struct {
		name     string
		info     *debug.BuildInfo
		ok       bool
		expected string
	}{
		{name: "no build info", expected: "unknown"},
		{
			name:     "linked sdk",
			info:     &debug.BuildInfo{Deps: []*debug.Module{{Path: "github.com/google/uuid", Version: "v1.6.0"}, {Path: sdkModule, Version: "v2.9.4"}}},
			ok:       true,
			expected: "v2.9.4",
		},
		{
			name:     "replaced sdk",
			info:     &debug.BuildInfo{Deps: []*debug.Module{{Path: sdkModule, Version: "v2.9.4", Replace: &debug.Module{Path: "../gocb", Version: "v2.9.5-dev"}}}},
			ok:       true,
			expected: "v2.9.5-dev",
		},
		{
			name:     "sdk not linked",
			info:     &debug.BuildInfo{},
			ok:       true,
			expected: "unknown",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			read := func() (*debug.BuildInfo, bool) { return tt.info, tt.ok }
			assert.Equal(t, tt.expected, sdkVersion(read))
		})
	}
}

func TestVersionInfo(t *testing.T) {
	original := BuildInfo
	defer func() { BuildInfo = original }()

	BuildInfo.SDKVersion = "v2.9.4"
	assert.Equal(t, "couchstorm "+Version+" (N1QL, gocb v2.9.4)", VersionInfo())
}

func TestFullVersionInfo(t *testing.T) {
	original := BuildInfo
	defer func() { BuildInfo = original }()

	info := FullVersionInfo()
	assert.True(t, strings.HasPrefix(info, "couchstorm "+Version+"\n"))
	assert.Contains(t, info, "Query Language: N1QL\n")
	assert.Contains(t, info, "Couchbase SDK: "+original.SDKVersion+"\n")
	assert.NotContains(t, info, "Git Commit")

	SetBuildInfo("abc123", "2026-01-01")
	info = FullVersionInfo()
	assert.Contains(t, info, "Git Commit: abc123\n")
	assert.Contains(t, info, "Build Date: 2026-01-01\n")
	assert.Contains(t, info, "Go Version: "+original.GoVersion)
}
