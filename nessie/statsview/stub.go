//go:build !statsview

package statsview

import "log/slog"

// Launch only logs that the stats server is not part of this build.
func Launch() (stop func()) {
	slog.Warn("Stats server not available, build with -tags statsview to enable")
	return func() {}
}

func Available() bool {
	return false
}
