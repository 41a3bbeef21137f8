//go:build statsview

package statsview

import (
	"log/slog"

	"github.com/go-echarts/statsview"
	"github.com/go-echarts/statsview/viewer"
)

const path = "/debug/statsview"

// Launch starts the stats server in the background and returns a function
// that shuts it down.
func Launch() (stop func()) {
	viewer.SetConfiguration(viewer.WithAddr(Address))
	mgr := statsview.New()
	go mgr.Start()

	slog.Info("Stats server started", "url", "http://"+Address+path)
	return mgr.Stop
}

func Available() bool {
	return true
}
