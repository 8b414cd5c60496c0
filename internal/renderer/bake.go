package renderer

import (
	"time"

	"Lumen3D/internal/logger"
	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"
)

const (
	irradianceFaceSize = 64
	reflectionFaceSize = 256
)

// Per-face capture orientation, GL cubemap order +X -X +Y -Y +Z -Z.
var cubemapFaceFront = [CubemapFaces]mgl32.Vec3{
	{1, 0, 0}, {-1, 0, 0},
	{0, 1, 0}, {0, -1, 0},
	{0, 0, 1}, {0, 0, -1},
}

var cubemapFaceUp = [CubemapFaces]mgl32.Vec3{
	{0, -1, 0}, {0, -1, 0},
	{0, 0, 1}, {0, 0, -1},
	{0, -1, 0}, {0, -1, 0},
}

// newFaceCamera builds the 90 degree square-aspect capture camera for one
// cubemap face at the given position.
func newFaceCamera(position mgl32.Vec3, face int) *Camera {
	cam := &Camera{
		Position: position,
		Front:    cubemapFaceFront[face],
		Up:       cubemapFaceUp[face],
		WorldUp:  mgl32.Vec3{0, 1, 0},
	}
	cam.SetPerspective(90, 1, 0.1, 10000)
	return cam
}

// renderCaptureFace draws the scene forward-shaded into the target from one
// cubemap face at position. Indirect terms and debug overlays are forced
// off for the capture so the bake only records direct lighting.
func (r *Renderer) renderCaptureFace(scene *Scene, position mgl32.Vec3, face int, target Target) {
	camera := newFaceCamera(position, face)
	calls, lights := CollectRenderCalls(scene, camera)
	SortRenderCalls(calls)
	r.lights = lights

	target.Bind()
	w, h := target.Size()
	r.device.Viewport(0, 0, w, h)
	r.device.Clear(scene.BackgroundColor, true, true)
	r.device.SetDepth(true, true, DepthLess)

	if r.State.DrawSkybox {
		r.renderSkybox(scene, camera)
	}
	cfg := passConfig{camera: camera, mode: ShowLit, withShadows: true}
	for _, call := range calls {
		r.renderMeshCall(call, scene, r.lights, cfg)
	}
	r.device.SetBlend(BlendNone)
	target.Unbind()
}

// BakeIrradiance captures the scene from every probe of the volume and
// projects each capture onto spherical harmonics, then rebuilds the lookup
// texture. Explicit operator action; the bake renders the scene six times
// per probe and blocks until done.
func (r *Renderer) BakeIrradiance(scene *Scene) {
	volume := scene.Irradiance
	if volume == nil || len(volume.Probes) == 0 {
		return
	}
	start := time.Now()

	// Captures must not sample the volume being rebuilt.
	savedIrradiance := r.State.Irradiance
	savedProbes := r.State.ShowProbes
	r.State.Irradiance = false
	r.State.ShowProbes = false

	if r.irradianceFace == nil {
		r.irradianceFace = r.device.CreateTarget(irradianceFaceSize, irradianceFaceSize, 1, true)
	}

	var faces [CubemapFaces][]float32
	for i := range volume.Probes {
		probe := &volume.Probes[i]
		for face := 0; face < CubemapFaces; face++ {
			r.renderCaptureFace(scene, probe.Position, face, r.irradianceFace)
			faces[face] = r.irradianceFace.ReadPixels()
		}
		probe.SH = ProjectCubemapToSH(faces, irradianceFaceSize)
	}

	r.State.Irradiance = savedIrradiance
	r.State.ShowProbes = savedProbes
	volume.UploadTexture(r.device)

	logger.Log.Info("irradiance bake finished",
		zap.Int("probes", len(volume.Probes)),
		zap.Duration("elapsed", time.Since(start)))
}

// BakeReflections recaptures every reflection probe's cubemap from its
// position. Existing cubemaps are reused when the size matches.
func (r *Renderer) BakeReflections(scene *Scene) {
	if len(scene.ReflectionProbes) == 0 {
		return
	}
	start := time.Now()

	savedReflections := r.State.Reflections
	savedProbes := r.State.ShowProbes
	r.State.Reflections = false
	r.State.ShowProbes = false

	if r.reflectionFace == nil {
		r.reflectionFace = r.device.CreateTarget(reflectionFaceSize, reflectionFaceSize, 1, true)
	}

	for _, probe := range scene.ReflectionProbes {
		if probe.Cubemap == nil {
			probe.Cubemap = r.device.CreateCubemap(reflectionFaceSize)
		}
		for face := 0; face < CubemapFaces; face++ {
			r.renderCaptureFace(scene, probe.Position, face, r.reflectionFace)
			r.device.CopyToCubemapFace(r.reflectionFace, probe.Cubemap, face)
		}
		probe.Cubemap.GenerateMipmaps()
	}

	r.State.Reflections = savedReflections
	r.State.ShowProbes = savedProbes
	scene.UpdateNearestReflectionProbes()

	logger.Log.Info("reflection bake finished",
		zap.Int("probes", len(scene.ReflectionProbes)),
		zap.Duration("elapsed", time.Since(start)))
}
