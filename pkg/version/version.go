// Package version reports the build version of the contxt binary.
package version

import "runtime/debug"

// Set at build time with -ldflags "-X github.com/jrcrawfo/contxt-go/pkg/version.version=v1.2.3".
var version = "" //nolint:gochecknoglobals // Overridden by the linker.

// GetVersion returns the linker-provided version, the module version when
// installed with go install, or "dev".
func GetVersion() string {
	if version != "" {
		return version
	}
	if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" && info.Main.Version != "(devel)" {
		return info.Main.Version
	}
	return "dev"
}
