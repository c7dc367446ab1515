// Package version carries the build identity stamped in by the linker.
package version

import (
	"fmt"
	"strings"

	"golang.org/x/mod/semver"
)

// Set with -ldflags "-X github.com/servis-automat/servis/internal/shared/version.Version=v1.2.3".
var (
	Version   = "dev"
	Commit    = "unknown"
	BuildDate = "unknown"
)

// Normalize ensures the version string has the "v" prefix semver expects.
func Normalize(v string) string {
	v = strings.TrimSpace(v)
	if v == "" {
		return ""
	}
	if !strings.HasPrefix(v, "v") {
		return "v" + v
	}
	return v
}

// IsRelease reports whether the binary was built from a tagged release rather
// than a dev or prerelease build.
func IsRelease() bool {
	v := Normalize(Version)
	return semver.IsValid(v) && semver.Prerelease(v) == ""
}

// String is the one-line form printed by the version command.
func String() string {
	return fmt.Sprintf("servis %s (commit %s, built %s)", Version, Commit, BuildDate)
}
