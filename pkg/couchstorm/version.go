// Package couchstorm carries release and build information for the module.
package couchstorm

import (
	"fmt"
	"runtime"
	"runtime/debug"
	"strings"
)

const (
	Version = "0.3.0"

	// QueryLanguage is the dialect rendered by pkg/n1ql
	QueryLanguage = "N1QL"

	sdkModule = "github.com/couchbase/gocb/v2"
)

// Build describes the running binary
type Build struct {
	Version    string
	SDKVersion string
	GitCommit  string
	BuildDate  string
	GoVersion  string
}

// BuildInfo is filled from the embedded module information at startup and
// can be completed by the release process through SetBuildInfo.
var BuildInfo = Build{
	Version:    Version,
	SDKVersion: sdkVersion(debug.ReadBuildInfo),
	GoVersion:  runtime.Version(),
}

// SetBuildInfo records the commit and date a release was built from
func SetBuildInfo(commit, date string) {
	BuildInfo.GitCommit = commit
	BuildInfo.BuildDate = date
}

// sdkVersion reports the linked Couchbase SDK version, or "unknown" when the
// binary carries no module information.
func sdkVersion(read func() (*debug.BuildInfo, bool)) string {
	info, ok := read()
	if !ok {
		return "unknown"
	}
	for _, dep := range info.Deps {
		if dep.Path != sdkModule {
			continue
		}
		if dep.Replace != nil {
			return dep.Replace.Version
		}
		return dep.Version
	}
	return "unknown"
}

// VersionInfo returns a one line summary
func VersionInfo() string {
	return fmt.Sprintf("couchstorm %s (%s, gocb %s)", BuildInfo.Version, QueryLanguage, BuildInfo.SDKVersion)
}

// FullVersionInfo returns every known build detail, one per line
func FullVersionInfo() string {
	var b strings.Builder

	fmt.Fprintf(&b, "couchstorm %s\n", BuildInfo.Version)
	fmt.Fprintf(&b, "Query Language: %s\n", QueryLanguage)
	fmt.Fprintf(&b, "Couchbase SDK: %s\n", BuildInfo.SDKVersion)
	fmt.Fprintf(&b, "Go Version: %s\n", BuildInfo.GoVersion)

	if BuildInfo.GitCommit != "" {
		fmt.Fprintf(&b, "Git Commit: %s\n", BuildInfo.GitCommit)
	}
	if BuildInfo.BuildDate != "" {
		fmt.Fprintf(&b, "Build Date: %s\n", BuildInfo.BuildDate)
	}

	return b.String()
}
