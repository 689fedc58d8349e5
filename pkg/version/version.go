// Package version provides build and version information for craft.
package version

import (
	"fmt"
	"runtime"
	"strconv"
)

// Version is the current version of craft.
// Set via ldflags at build time, or defaults to dev.
// Release builds set: -X github.com/Aman-CERP/craft/pkg/version.Version={{.Version}}
var Version = "dev"

// Build information set via ldflags at build time.
var (
	// Commit is the git commit hash.
	Commit = "unknown"

	// Date is the build date in RFC3339 format.
	Date = "unknown"

	// Packaged marks distribution builds. Release builds set:
	// -X github.com/Aman-CERP/craft/pkg/version.Packaged=true
	// Anything else, including an unset value, means craft runs from source.
	Packaged = "false"

	// GoVersion is the Go version used to build the binary (set at runtime).
	GoVersion = runtime.Version()
)

// IsPackaged reports whether this binary is a packaged distribution build.
func IsPackaged() bool {
	packaged, err := strconv.ParseBool(Packaged)
	return err == nil && packaged
}

// BuildInfo is structured version information for JSON output.
type BuildInfo struct {
	Version   string `json:"version"`
	Commit    string `json:"commit"`
	Date      string `json:"date"`
	Packaged  bool   `json:"packaged"`
	GoVersion string `json:"go_version"`
	OS        string `json:"os"`
	Arch      string `json:"arch"`
}

// String returns a formatted version string with all build info.
func String() string {
	return fmt.Sprintf("craft %s (commit: %s, built: %s, packaged: %t, go: %s)",
		Version, Commit, Date, IsPackaged(), GoVersion)
}

// Short returns just the version string.
func Short() string {
	return Version
}

// GetInfo returns structured version information.
func GetInfo() BuildInfo {
	return BuildInfo{
		Version:   Version,
		Commit:    Commit,
		Date:      Date,
		Packaged:  IsPackaged(),
		GoVersion: GoVersion,
		OS:        runtime.GOOS,
		Arch:      runtime.GOARCH,
	}
}
