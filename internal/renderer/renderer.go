package renderer

import (
	"Lumen3D/internal/logger"

	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"
)

// Renderer drives the whole frame: render-call collection, shadow maps,
// forward or deferred shading, post effects. One instance per process,
// single threaded, frame sequential.
type Renderer struct {
	device  Device
	shaders ShaderLibrary
	prims   Primitives
	State   *PipelineState

	width  int32
	height int32

	lights []*Light

	// Viewport-sized targets, lazily allocated on first use and
	// reallocated on resize. All owned exclusively by the renderer.
	gbuffer      Target
	decalScratch Target
	illumination Target
	gammaTarget  Target
	ssaoTarget   Target
	blurScratch  Target
	postScratch  Target

	// Shadow atlas for the single-pass variant; sized by quality, not
	// viewport.
	shadowAtlas Target

	// Small offscreen targets for probe baking.
	irradianceFace Target
	reflectionFace Target

	ssaoKernel []mgl32.Vec3
	ssaoNoise  Texture
}

func NewRenderer(device Device, shaders ShaderLibrary, prims Primitives, width, height int32) *Renderer {
	state := DefaultPipelineState()
	r := &Renderer{
		device:  device,
		shaders: shaders,
		prims:   prims,
		State:   &state,
		width:   width,
		height:  height,
	}
	r.ssaoKernel = generateSSAOKernel(ssaoKernelSize)
	r.ssaoNoise = createSSAONoiseTexture(device)
	return r
}

// RenderScene renders one frame of the scene from the camera into the
// currently bound target (normally the default framebuffer).
func (r *Renderer) RenderScene(scene *Scene, camera *Camera) {
	calls, lights := CollectRenderCalls(scene, camera)
	SortRenderCalls(calls)
	r.lights = lights

	r.GenerateShadowMaps(scene, camera)

	if r.State.Pipeline == DeferredPipeline && (r.State.Mode == ShowLit || r.State.Mode == ShowGBuffers) {
		r.renderDeferred(scene, calls, camera)
	} else {
		r.renderForward(scene, calls, camera)
	}

	if r.State.ShowShadowPreview {
		r.renderShadowPreview()
	}

	// Kept for next frame's motion blur reprojection.
	r.State.PrevViewProjection = camera.GetViewProjection()
}

// Resize reallocates every viewport-sized buffer to the new dimensions.
// Buffers not yet allocated stay nil and pick up the new size lazily;
// shadow and probe-bake targets are independent of the viewport.
func (r *Renderer) Resize(width, height int32) {
	if width == r.width && height == r.height {
		return
	}
	r.width = width
	r.height = height

	if r.gbuffer != nil {
		r.gbuffer = r.device.CreateTarget(width, height, 3, true)
	}
	if r.decalScratch != nil {
		r.decalScratch = r.device.CreateTarget(width, height, 3, true)
	}
	if r.illumination != nil {
		r.illumination = r.device.CreateTarget(width, height, 1, true)
	}
	if r.gammaTarget != nil {
		r.gammaTarget = r.device.CreateTarget(width, height, 1, false)
	}
	if r.ssaoTarget != nil {
		r.ssaoTarget = r.device.CreateTarget(width/2, height/2, 1, false)
	}
	// Reallocated lazily at whatever size the next blur needs.
	r.blurScratch = nil
	if r.postScratch != nil {
		r.postScratch = r.device.CreateTarget(width, height, 1, false)
	}
	logger.Log.Info("renderer resized",
		zap.Int32("width", width), zap.Int32("height", height))
}

// SetQuality switches the shadow tier and reallocates every existing
// shadow target at the new resolution. Viewport buffers are untouched.
func (r *Renderer) SetQuality(q QualityLevel, scene *Scene) {
	r.State.Quality = q
	res := q.ShadowResolution()
	for _, e := range scene.Entities {
		if e.Kind != KindLight || e.Light.ShadowTarget == nil {
			continue
		}
		e.Light.ShadowTarget = r.device.CreateDepthTarget(res, res)
	}
	r.shadowAtlas = nil
	logger.Log.Info("shadow quality changed", zap.Int32("resolution", res))
}

func (r *Renderer) Size() (int32, int32) { return r.width, r.height }

// RefreshIrradiance rebuilds the probe lookup texture after coefficients
// changed outside a bake, typically a cache load.
func (r *Renderer) RefreshIrradiance(scene *Scene) {
	if scene.Irradiance != nil {
		scene.Irradiance.UploadTexture(r.device)
	}
}

// ensure* allocate viewport-sized targets on first use.

func (r *Renderer) ensureGBuffer() Target {
	if r.gbuffer == nil {
		r.gbuffer = r.device.CreateTarget(r.width, r.height, 3, true)
	}
	return r.gbuffer
}

func (r *Renderer) ensureDecalScratch() Target {
	if r.decalScratch == nil {
		r.decalScratch = r.device.CreateTarget(r.width, r.height, 3, true)
	}
	return r.decalScratch
}

func (r *Renderer) ensureIllumination() Target {
	if r.illumination == nil {
		r.illumination = r.device.CreateTarget(r.width, r.height, 1, true)
	}
	return r.illumination
}

func (r *Renderer) ensureGammaTarget() Target {
	if r.gammaTarget == nil {
		r.gammaTarget = r.device.CreateTarget(r.width, r.height, 1, false)
	}
	return r.gammaTarget
}

func (r *Renderer) ensureSSAOTarget() Target {
	if r.ssaoTarget == nil {
		r.ssaoTarget = r.device.CreateTarget(r.width/2, r.height/2, 1, false)
	}
	return r.ssaoTarget
}

func (r *Renderer) ensureBlurScratch(width, height int32) Target {
	if r.blurScratch != nil {
		if w, h := r.blurScratch.Size(); w != width || h != height {
			r.blurScratch = nil
		}
	}
	if r.blurScratch == nil {
		r.blurScratch = r.device.CreateTarget(width, height, 1, true)
	}
	return r.blurScratch
}

func (r *Renderer) ensurePostScratch() Target {
	if r.postScratch == nil {
		r.postScratch = r.device.CreateTarget(r.width, r.height, 1, false)
	}
	return r.postScratch
}

// getShader resolves a program, logging once per frame on miss. A nil
// return makes the caller skip its pass; the frame keeps going.
func (r *Renderer) getShader(name string) Shader {
	sh := r.shaders.Get(name)
	if sh == nil {
		logger.Log.Warn("shader unavailable, pass skipped", zap.String("shader", name))
	}
	return sh
}
