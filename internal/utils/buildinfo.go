package utils

import (
	"runtime/debug"
)

const (
	unknownVersion     = "unknown"
	developmentVersion = "(devel)"
)

// Version can be set at link time with -ldflags "-X github.com/temirov/pfs/internal/utils.Version=v1.2.3".
var Version = ""

// GetApplicationVersion returns the link-time version when set, then the module
// version recorded in the build info, and "unknown" otherwise.
func GetApplicationVersion() string {
	if Version != "" {
		return Version
	}
	buildInfo, buildInfoAvailable := debug.ReadBuildInfo()
	if buildInfoAvailable && buildInfo.Main.Version != "" && buildInfo.Main.Version != developmentVersion {
		return buildInfo.Main.Version
	}
	return unknownVersion
}
