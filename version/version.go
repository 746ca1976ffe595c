// Package version reports build metadata for the aggstage binary.
package version

import (
	"fmt"
	"runtime"
	"runtime/debug"
)

var (
	// Version is the application version, set via ldflags.
	Version string
	// Branch is the git branch, set via ldflags.
	Branch string
	// BuildUser is the user who built the binary, set via ldflags.
	BuildUser string
	// BuildDate is when the binary was built, set via ldflags.
	BuildDate string

	// Revision is the git commit revision.
	Revision = revision(debug.ReadBuildInfo())
	// GoVersion is the Go version used to build.
	GoVersion = runtime.Version()
	// GoOS is the operating system target.
	GoOS = runtime.GOOS
	// GoArch is the architecture target.
	GoArch = runtime.GOARCH
)

// String returns a one-line summary suitable for a --version flag, such as
//
//	v1.2.0 (revision: 1a2b3c4, go1.25.0 linux/amd64)
//
// Versions not set via ldflags fall back to the main module's version from
// the build info, then to "dev".
func String() string {
	v := Version
	if v == "" {
		v = moduleVersion(debug.ReadBuildInfo())
	}

	return fmt.Sprintf("%s (revision: %s, %s %s/%s)", v, Revision, GoVersion, GoOS, GoArch)
}

func moduleVersion(info *debug.BuildInfo, ok bool) string {
	if !ok || info.Main.Version == "" || info.Main.Version == "(devel)" {
		return "dev"
	}

	return info.Main.Version
}

func revision(info *debug.BuildInfo, ok bool) string {
	rev := "unknown"

	if !ok {
		return rev
	}

	modified := false

	for _, v := range info.Settings {
		switch v.Key {
		case "vcs.revision":
			rev = v.Value
		case "vcs.modified":
			if v.Value == "true" {
				modified = true
			}
		}
	}

	if modified {
		return rev + "-dirty"
	}

	return rev
}
