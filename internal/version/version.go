// Package version reports the build version shown by --version.
package version

import "runtime/debug"

// Version is stamped by the release build via -ldflags -X.
var Version string

func init() {
	if Version != "" {
		return
	}
	// A go install build carries the module version in its build info.
	if info, ok := debug.ReadBuildInfo(); ok {
		if v := info.Main.Version; v != "" && v != "(devel)" {
			Version = v
			return
		}
	}
	Version = "devel"
}
