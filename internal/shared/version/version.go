// Package version reports the build version of the binaries.
package version

import (
	"strings"

	"golang.org/x/mod/semver"
)

// Set at build time:
//
//	go build -ldflags "-X github.com/orris-inc/plansearch/internal/shared/version.Version=1.2.0"
var (
	Version = "dev"
	Commit  = ""
)

// Normalize ensures version string has "v" prefix for semver compatibility.
// Examples: "1.2.3" -> "v1.2.3", "v1.2.3" -> "v1.2.3"
func Normalize(version string) string {
	if version == "" {
		return ""
	}
	version = strings.TrimSpace(version)
	if !strings.HasPrefix(version, "v") {
		return "v" + version
	}
	return version
}

// IsRelease reports whether Version is a semver release rather than a dev build.
func IsRelease() bool {
	v := Normalize(Version)
	return semver.IsValid(v) && semver.Prerelease(v) == ""
}

// String renders the version and commit for logs and the CLI.
func String() string {
	v := Version
	if semver.IsValid(Normalize(v)) {
		v = semver.Canonical(Normalize(v))
	}
	if Commit != "" {
		return v + " (" + Commit + ")"
	}
	return v
}
