package main

import (
	"fmt"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"

	"Lumen3D/internal/engine"
	"Lumen3D/internal/logger"
	"Lumen3D/internal/renderer"

	"go.uber.org/zap"
)

const irradianceCachePath = "irradiance.bin"

var pipelineNames = []string{"Forward", "Deferred"}

var renderModeNames = []string{
	"Lit", "Texture", "Normal", "Normal Map", "UVs",
	"Occlusion", "Metallic", "Roughness", "Single Pass", "G-Buffers",
}

var qualityNames = []string{"Low", "Medium", "High", "Ultra"}

var postFXNames = []string{"None", "Motion Blur", "Pixelate", "Blur", "Depth of Field"}

// runControlPanel builds the fyne window mirroring the pipeline state and
// blocks in the fyne event loop. Every mutation goes through lm.Post so it
// lands between frames on the render thread.
func runControlPanel(lm *engine.Lumen) {
	a := app.New()
	win := a.NewWindow("Lumen3D Pipeline")

	// The panel reads the initial values once at startup; afterwards it is
	// the only writer, so no re-sync is needed.
	state := func() *renderer.PipelineState { return lm.Renderer.State }

	pipelineSelect := widget.NewSelect(pipelineNames, func(s string) {
		mode := renderer.PipelineMode(indexOf(pipelineNames, s))
		lm.Post(func() { state().Pipeline = mode })
	})

	modeSelect := widget.NewSelect(renderModeNames, func(s string) {
		mode := renderer.RenderMode(indexOf(renderModeNames, s))
		lm.Post(func() { state().Mode = mode })
	})

	qualitySelect := widget.NewSelect(qualityNames, func(s string) {
		q := renderer.QualityLevel(indexOf(qualityNames, s))
		lm.Post(func() { lm.Renderer.SetQuality(q, lm.Scene) })
	})

	postSelect := widget.NewSelect(postFXNames, func(s string) {
		fx := renderer.PostEffect(indexOf(postFXNames, s))
		lm.Post(func() { state().PostFX = fx })
	})

	toggles := container.NewVBox(
		boolCheck(lm, "Tone mapping", func(st *renderer.PipelineState, v bool) { st.ToneMapping = v }),
		boolCheck(lm, "Linear correction", func(st *renderer.PipelineState, v bool) { st.LinearCorrection = v }),
		boolCheck(lm, "Dithered transparency", func(st *renderer.PipelineState, v bool) { st.Dithering = v }),
		boolCheck(lm, "SSAO", func(st *renderer.PipelineState, v bool) { st.SSAO = v }),
		boolCheck(lm, "Irradiance", func(st *renderer.PipelineState, v bool) { st.Irradiance = v }),
		boolCheck(lm, "Reflections", func(st *renderer.PipelineState, v bool) { st.Reflections = v }),
		boolCheck(lm, "Decals", func(st *renderer.PipelineState, v bool) { st.Decals = v }),
		boolCheck(lm, "Skybox", func(st *renderer.PipelineState, v bool) { st.DrawSkybox = v }),
		boolCheck(lm, "Shadow atlas", func(st *renderer.PipelineState, v bool) { st.SinglePassShadows = v }),
		boolCheck(lm, "Show probes", func(st *renderer.PipelineState, v bool) { st.ShowProbes = v }),
		boolCheck(lm, "Show shadow preview", func(st *renderer.PipelineState, v bool) { st.ShowShadowPreview = v }),
		boolCheck(lm, "Show light gizmos", func(st *renderer.PipelineState, v bool) { st.ShowLightGizmos = v }),
		boolCheck(lm, "Show bounding boxes", func(st *renderer.PipelineState, v bool) { st.ShowBoundingBoxes = v }),
	)

	tone := container.NewVBox(
		floatSlider(lm, "Gamma", 1.0, 3.0, 2.2, func(st *renderer.PipelineState, v float32) { st.Gamma = v }),
		floatSlider(lm, "Tone scale", 0.1, 4.0, 1.0, func(st *renderer.PipelineState, v float32) { st.ToneScale = v }),
		floatSlider(lm, "White luminance", 0.1, 4.0, 1.0, func(st *renderer.PipelineState, v float32) { st.WhiteLum = v }),
		floatSlider(lm, "Average luminance", 0.1, 4.0, 1.0, func(st *renderer.PipelineState, v float32) { st.AvgLum = v }),
		floatSlider(lm, "SSAO radius", 0.5, 20.0, 5.0, func(st *renderer.PipelineState, v float32) { st.SSAORadius = v }),
		floatSlider(lm, "Blur size", 1.0, 16.0, 4.0, func(st *renderer.PipelineState, v float32) { st.BlurSize = v }),
		floatSlider(lm, "Focal depth", 0.0, 1.0, 0.5, func(st *renderer.PipelineState, v float32) { st.FocalDepth = v }),
	)

	bakeIrradiance := widget.NewButton("Bake Irradiance", func() {
		lm.Post(func() { lm.Renderer.BakeIrradiance(lm.Scene) })
	})
	bakeReflections := widget.NewButton("Bake Reflections", func() {
		lm.Post(func() { lm.Renderer.BakeReflections(lm.Scene) })
	})
	saveIrradiance := widget.NewButton("Save Irradiance", func() {
		lm.Post(func() {
			if lm.Scene.Irradiance == nil {
				return
			}
			if err := renderer.SaveIrradianceFile(irradianceCachePath, lm.Scene.Irradiance); err != nil {
				logger.Log.Error("irradiance save failed", zap.Error(err))
				return
			}
			logger.Log.Info("irradiance saved", zap.String("path", irradianceCachePath))
		})
	})
	loadIrradiance := widget.NewButton("Load Irradiance", func() {
		lm.Post(func() {
			if lm.Scene.Irradiance == nil {
				return
			}
			if err := renderer.LoadIrradianceFile(irradianceCachePath, lm.Scene.Irradiance); err != nil {
				logger.Log.Error("irradiance load failed", zap.Error(err))
				return
			}
			lm.Renderer.RefreshIrradiance(lm.Scene)
			logger.Log.Info("irradiance loaded", zap.String("path", irradianceCachePath))
		})
	})
	reloadShaders := widget.NewButton("Reload Shaders", func() {
		lm.ReloadShaders()
	})

	pipelineSelect.SetSelectedIndex(1)
	modeSelect.SetSelectedIndex(0)
	qualitySelect.SetSelectedIndex(1)
	postSelect.SetSelectedIndex(0)

	form := container.NewVBox(
		widget.NewLabel("Pipeline"), pipelineSelect,
		widget.NewLabel("Render mode"), modeSelect,
		widget.NewLabel("Shadow quality"), qualitySelect,
		widget.NewLabel("Post effect"), postSelect,
		widget.NewSeparator(),
		toggles,
		widget.NewSeparator(),
		tone,
		widget.NewSeparator(),
		bakeIrradiance, bakeReflections,
		saveIrradiance, loadIrradiance,
		reloadShaders,
	)

	win.SetContent(container.NewVScroll(form))
	win.Resize(fyne.NewSize(360, 900))
	win.SetCloseIntercept(func() {
		dialog.ShowConfirm("Close panel", "Close the pipeline panel? The render window keeps running.", func(ok bool) {
			if ok {
				win.Close()
			}
		}, win)
	})
	win.ShowAndRun()
}

func boolCheck(lm *engine.Lumen, label string, apply func(*renderer.PipelineState, bool)) *widget.Check {
	check := widget.NewCheck(label, func(v bool) {
		lm.Post(func() { apply(lm.Renderer.State, v) })
	})
	return check
}

func floatSlider(lm *engine.Lumen, label string, min, max, initial float64, apply func(*renderer.PipelineState, float32)) fyne.CanvasObject {
	text := widget.NewLabel(fmt.Sprintf("%s: %.2f", label, initial))
	slider := widget.NewSlider(min, max)
	slider.Step = (max - min) / 100
	slider.Value = initial
	slider.OnChanged = func(v float64) {
		text.SetText(fmt.Sprintf("%s: %.2f", label, v))
		lm.Post(func() { apply(lm.Renderer.State, float32(v)) })
	}
	return container.NewVBox(text, slider)
}

func indexOf(items []string, s string) int {
	for i, item := range items {
		if item == s {
			return i
		}
	}
	return 0
}
