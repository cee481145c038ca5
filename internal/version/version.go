package version

import "runtime/debug"

// Build-time parameters set via -ldflags
var Version = "unknown"

// A user may install psout using `go install github.com/charmbracelet/psout@latest`
// without -ldflags, in which case the version above is unset. As a workaround
// we use the embedded build version that *is* set when using `go install`.
func init() {
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return
	}
	mainVersion := info.Main.Version
	if mainVersion != "" && mainVersion != "(devel)" {
		Version = mainVersion
	}
}
