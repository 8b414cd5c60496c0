// The editor opens the render window plus a control panel for the pipeline:
// shading mode, pass toggles, tone mapping parameters, shadow quality and
// the probe bake actions. Panel changes are posted to the render thread and
// applied between frames.
package main

import (
	"runtime"

	"Lumen3D/internal/engine"
	"Lumen3D/internal/logger"
)

func init() {
	// The GL context and window must live on the main thread; the fyne
	// panel runs beside it on its own thread.
	runtime.LockOSThread()
}

func main() {
	lm := engine.NewLumen("assets/shaders")
	lm.Width = 1920
	lm.Height = 1080

	lm.SetOnReadyCallback(func() { buildDemoScene(lm) })

	go runControlPanel(lm)

	lm.Run(int(lm.Width)/8, 60)
	logger.Log.Info("editor closed")
}
