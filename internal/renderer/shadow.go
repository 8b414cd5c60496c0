package renderer

import "github.com/go-gl/mathgl/mgl32"

// shadowAtlasSlots is how many lights the single-pass atlas packs, in a
// 2x2 grid of quality-sized tiles.
const shadowAtlasSlots = 4

// GenerateShadowMaps repopulates the shadow target of every shadow-casting
// light whose influence sphere intersects the viewing frustum. Lights
// outside it keep last frame's map; they will not be sampled this frame
// either. The scene is re-collected without culling and pushed through the
// forward path in depth-only mode using each light's camera.
func (r *Renderer) GenerateShadowMaps(scene *Scene, camera *Camera) {
	casters := 0
	for _, l := range r.lights {
		if l.CastShadow {
			casters++
		}
	}
	if casters == 0 {
		return
	}

	frustum := camera.CalculateFrustum()
	calls, _ := CollectRenderCalls(scene, nil)

	if r.State.SinglePassShadows {
		r.generateShadowAtlas(scene, calls, frustum)
		return
	}

	res := r.State.Quality.ShadowResolution()
	for _, light := range r.lights {
		if !light.CastShadow {
			continue
		}
		center, radius := light.BoundingSphere()
		if !frustum.IntersectsSphere(center, radius) {
			continue
		}

		light.ensureShadowTarget(r.device, res)
		light.UpdateShadowCamera()

		target := light.ShadowTarget
		target.Bind()
		r.device.Viewport(0, 0, res, res)
		r.device.SetColorMask(false)
		r.device.Clear(mgl32.Vec3{}, false, true)

		cfg := passConfig{camera: light.ShadowCamera, shadowPass: true}
		for _, call := range calls {
			r.renderMeshCall(call, scene, nil, cfg)
		}

		r.device.SetColorMask(true)
		target.Unbind()
	}
	r.device.Viewport(0, 0, r.width, r.height)
}

// generateShadowAtlas packs up to four lights' depth maps side by side into
// one shared texture via scissored viewport tiles, so the single-pass
// shading strategy binds one atlas instead of per-light depth textures.
func (r *Renderer) generateShadowAtlas(scene *Scene, calls []RenderCall, frustum Frustum) {
	res := r.State.Quality.ShadowResolution()
	atlasSize := res * 2
	if r.shadowAtlas != nil {
		if w, _ := r.shadowAtlas.Size(); w != atlasSize {
			r.shadowAtlas = nil
		}
	}
	if r.shadowAtlas == nil {
		r.shadowAtlas = r.device.CreateDepthTarget(atlasSize, atlasSize)
	}

	r.shadowAtlas.Bind()
	r.device.SetColorMask(false)
	r.device.Clear(mgl32.Vec3{}, false, true)

	slot := 0
	for _, light := range r.lights {
		if slot == shadowAtlasSlots {
			break
		}
		if !light.CastShadow {
			continue
		}
		center, radius := light.BoundingSphere()
		if !frustum.IntersectsSphere(center, radius) {
			continue
		}

		light.UpdateShadowCamera()
		x := int32(slot%2) * res
		y := int32(slot/2) * res
		r.device.Viewport(x, y, res, res)
		r.device.Scissor(x, y, res, res, true)

		cfg := passConfig{camera: light.ShadowCamera, shadowPass: true}
		for _, call := range calls {
			r.renderMeshCall(call, scene, nil, cfg)
		}

		light.atlasSlot = slot
		light.atlasRegion = mgl32.Vec4{
			float32(x) / float32(atlasSize),
			float32(y) / float32(atlasSize),
			0.5, 0.5,
		}
		slot++
	}

	r.device.Scissor(0, 0, atlasSize, atlasSize, false)
	r.device.SetColorMask(true)
	r.shadowAtlas.Unbind()
	r.device.Viewport(0, 0, r.width, r.height)
}

// uploadShadowAtlas hands the single-pass shader the shared atlas plus the
// per-light regions and reprojection matrices.
func (r *Renderer) uploadShadowAtlas(shader Shader, lights []*Light) {
	regions := make([]mgl32.Vec4, len(lights))
	viewprojs := make([]mgl32.Mat4, len(lights))
	cast := make([]int32, len(lights))
	for i, l := range lights {
		regions[i] = l.atlasRegion
		viewprojs[i] = l.ShadowCamera.GetViewProjection()
		if l.CastShadow {
			cast[i] = 1
		}
	}
	shader.SetTexture("u_shadow_atlas", r.shadowAtlas.DepthTexture(), 8)
	shader.SetVec4Array("u_shadow_region", regions)
	shader.SetMat4Array("u_shadow_viewproj", viewprojs)
	shader.SetIntArray("u_light_cast_shadow", cast)
}

// renderShadowPreview draws the first caster's depth map in the top-right
// third of the viewport, linearized by the shadow camera's near/far.
func (r *Renderer) renderShadowPreview() {
	var light *Light
	for _, l := range r.lights {
		if l.CastShadow && l.ShadowTarget != nil {
			light = l
			break
		}
	}
	if light == nil {
		return
	}
	shader := r.getShader("depth")
	if shader == nil {
		return
	}

	w, h := r.width, r.height
	r.device.Viewport(w-w/3, h-h/3, w/3, h/3)
	r.device.Scissor(w-w/3, h-h/3, w/3, h/3, true)
	r.device.SetDepth(false, false, DepthLess)

	shader.Enable()
	shader.SetVec2("u_camera_nearfar", mgl32.Vec2{light.ShadowCamera.Near, light.ShadowCamera.Far})
	shader.SetTexture("u_texture", light.ShadowTarget.DepthTexture(), 0)
	r.prims.Quad.Render(Triangles)
	shader.Disable()

	r.device.SetDepth(true, true, DepthLess)
	r.device.Scissor(0, 0, w, h, false)
	r.device.Viewport(0, 0, w, h)
}
