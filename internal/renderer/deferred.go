package renderer

import "github.com/go-gl/mathgl/mgl32"

// renderDeferred runs the deferred pipeline: geometry into the G-buffer,
// decals, SSAO, screen-space light reconstruction, forward alpha
// compositing, volumetrics, tone mapping and post effects. Stage order is
// fixed; each stage reads targets the previous stages fully wrote.
func (r *Renderer) renderDeferred(scene *Scene, calls []RenderCall, camera *Camera) {
	gb := r.ensureGBuffer()
	r.renderGBufferStage(scene, calls, camera, gb)

	if r.State.Decals {
		r.renderDecalStage(scene, camera, gb)
	}

	if r.State.Mode == ShowGBuffers {
		// Diagnostic short-circuit: dump the raw buffers instead of
		// lighting them.
		r.renderGBufferDebug(gb)
		return
	}

	if r.State.SSAO {
		r.renderSSAOStage(camera, gb)
	}

	illum := r.ensureIllumination()
	r.renderIlluminationStage(scene, camera, gb, illum)

	if r.State.ShowLightGizmos || r.State.ShowProbes || r.State.ShowBoundingBoxes {
		illum.Bind()
		if r.State.ShowLightGizmos {
			r.renderLightGizmos(camera)
		}
		if r.State.ShowProbes {
			r.renderProbeOverlay(scene, camera)
		}
		if r.State.ShowBoundingBoxes {
			r.renderBoundingBoxes(calls, camera)
		}
		illum.Unbind()
	}

	r.renderAlphaStage(scene, calls, camera, illum)
	r.renderVolumetricStage(scene, camera, gb, illum)
	r.resolveStage(camera, gb, illum)
}

// renderGBufferStage writes every opaque call's surface attributes into the
// three color targets plus depth. Alpha-blended calls are excluded unless
// dithered deferred transparency is on.
func (r *Renderer) renderGBufferStage(scene *Scene, calls []RenderCall, camera *Camera, gb Target) {
	gb.Bind()
	w, h := gb.Size()
	r.device.Viewport(0, 0, w, h)
	r.device.Clear(scene.BackgroundColor, true, true)
	r.device.SetDepth(true, true, DepthLess)
	r.device.SetBlend(BlendNone)

	if r.State.DrawSkybox {
		r.renderSkybox(scene, camera)
	}

	shader := r.getShader("gbuffer")
	if shader == nil {
		gb.Unbind()
		return
	}
	shader.Enable()
	shader.SetMat4("u_viewprojection", camera.GetViewProjection())
	shader.SetVec3("u_camera_position", camera.Position)

	for _, call := range calls {
		if call.Alpha && !r.State.Dithering {
			continue
		}
		mat := call.Material
		if call.Material.TwoSided {
			r.device.SetCull(CullNone)
		} else {
			r.device.SetCull(CullBack)
		}

		shader.SetMat4("u_model", call.Model)
		shader.SetVec4("u_color", mat.Color)
		shader.SetBool("u_use_dither", call.Alpha)
		cutoff := float32(0)
		if mat.AlphaMode == AlphaMask {
			cutoff = mat.AlphaCutoff
		}
		shader.SetFloat("u_alpha_cutoff", cutoff)

		if mat.ColorTexture != nil {
			shader.SetBool("u_has_texture", true)
			shader.SetTexture("u_texture", mat.ColorTexture, 0)
		} else {
			shader.SetBool("u_has_texture", false)
		}
		if mat.EmissiveTexture != nil {
			shader.SetBool("u_is_emissor", true)
			shader.SetVec3("u_emissive_factor", mat.EmissiveFactor)
			shader.SetTexture("u_emissive_texture", mat.EmissiveTexture, 1)
		} else {
			shader.SetBool("u_is_emissor", false)
		}
		if mat.NormalTexture != nil {
			shader.SetBool("u_has_normal", true)
			shader.SetTexture("u_normal_texture", mat.NormalTexture, 2)
		} else {
			shader.SetBool("u_has_normal", false)
		}
		if mat.MetallicRoughnessTexture != nil {
			shader.SetBool("u_has_metallic_roughness", true)
			shader.SetTexture("u_metallic_roughness_texture", mat.MetallicRoughnessTexture, 3)
		} else {
			shader.SetBool("u_has_metallic_roughness", false)
		}
		if mat.OcclusionTexture != nil {
			shader.SetBool("u_has_occlusion", true)
			shader.SetTexture("u_occlusion_texture", mat.OcclusionTexture, 4)
		} else {
			shader.SetBool("u_has_occlusion", false)
		}

		call.Mesh.Render(Triangles)
	}

	shader.Disable()
	r.device.SetCull(CullBack)
	gb.Unbind()
}

// renderDecalStage projects each decal's albedo into the G-buffer color
// targets. The G-buffer colors are copied to a scratch buffer first so the
// decal shader can sample the untouched surface while writing over it.
func (r *Renderer) renderDecalStage(scene *Scene, camera *Camera, gb Target) {
	decals := make([]*Entity, 0, 4)
	for _, e := range scene.Entities {
		if e.Visible && e.Kind == KindDecal && e.Decal != nil && e.Decal.Albedo != nil {
			decals = append(decals, e)
		}
	}
	if len(decals) == 0 {
		return
	}
	shader := r.getShader("decal")
	if shader == nil {
		return
	}

	scratch := r.ensureDecalScratch()
	for i := 0; i < 3; i++ {
		r.device.BlitColor(gb, i, scratch, i)
	}
	r.device.BlitDepth(gb, scratch)

	scratch.Bind()
	r.device.SetDepth(true, false, DepthLessEqual)
	r.device.SetCull(CullFront)
	r.device.SetBlend(BlendAlpha)

	shader.Enable()
	shader.SetMat4("u_viewprojection", camera.GetViewProjection())
	shader.SetMat4("u_inverse_viewprojection", camera.GetViewProjection().Inv())
	shader.SetVec3("u_camera_position", camera.Position)
	shader.SetTexture("u_depth_texture", gb.DepthTexture(), 3)
	w, h := gb.Size()
	shader.SetVec2("u_iRes", mgl32.Vec2{1 / float32(w), 1 / float32(h)})

	for _, e := range decals {
		shader.SetMat4("u_model", e.Model)
		shader.SetMat4("u_inverse_model", e.Model.Inv())
		shader.SetTexture("u_decal_albedo", e.Decal.Albedo, 0)
		r.prims.Cube.Render(Triangles)
	}
	shader.Disable()

	r.device.SetBlend(BlendNone)
	r.device.SetCull(CullBack)
	r.device.SetDepth(true, true, DepthLess)
	scratch.Unbind()

	for i := 0; i < 3; i++ {
		r.device.BlitColor(scratch, i, gb, i)
	}
}

// renderIlluminationStage reconstructs lit output from the G-buffer by
// accumulating per-light contributions: a fullscreen quad per directional
// light, a range-scaled backface sphere per local light. Depth is copied
// from the G-buffer first so the later depth-tested overlays and alpha
// composites land correctly.
func (r *Renderer) renderIlluminationStage(scene *Scene, camera *Camera, gb Target, illum Target) {
	shader := r.getShader("deferred_light")
	if shader == nil {
		return
	}

	r.device.BlitDepth(gb, illum)

	illum.Bind()
	w, h := illum.Size()
	r.device.Viewport(0, 0, w, h)
	r.device.Clear(scene.BackgroundColor, true, false)
	r.device.SetDepth(false, false, DepthLess)

	shader.Enable()
	shader.SetMat4("u_viewprojection", camera.GetViewProjection())
	shader.SetMat4("u_inverse_viewprojection", camera.GetViewProjection().Inv())
	shader.SetVec3("u_camera_position", camera.Position)
	shader.SetVec2("u_iRes", mgl32.Vec2{1 / float32(w), 1 / float32(h)})
	shader.SetTexture("u_color_texture", gb.ColorTexture(0), 0)
	shader.SetTexture("u_normal_texture", gb.ColorTexture(1), 1)
	shader.SetTexture("u_extra_texture", gb.ColorTexture(2), 2)
	shader.SetTexture("u_depth_texture", gb.DepthTexture(), 3)

	if r.State.SSAO && r.ssaoTarget != nil {
		shader.SetBool("u_use_ssao", true)
		shader.SetTexture("u_ao_texture", r.ssaoTarget.ColorTexture(0), 4)
	} else {
		shader.SetBool("u_use_ssao", false)
	}
	if r.State.Irradiance && scene.Irradiance != nil && len(scene.Irradiance.Probes) > 0 {
		shader.SetBool("u_use_irradiance", true)
		scene.Irradiance.UploadToShader(shader)
	} else {
		shader.SetBool("u_use_irradiance", false)
	}

	frustum := camera.CalculateFrustum()
	first := true

	// Directional lights: fullscreen quads. Ambient and emissive are
	// applied only while first is set, mirroring the multi-pass
	// double-count rule.
	for _, light := range r.lights {
		if light.Type != DirectionalLight {
			continue
		}
		if first {
			shader.SetVec3("u_ambient_light", scene.AmbientLight)
			shader.SetBool("u_apply_emissive", true)
			r.device.SetBlend(BlendNone)
		} else {
			shader.SetVec3("u_ambient_light", mgl32.Vec3{})
			shader.SetBool("u_apply_emissive", false)
			r.device.SetBlend(BlendAdditive)
		}
		r.uploadBoostedLight(shader, light, r.State.DirectionalBoost)
		shader.SetBool("u_is_quad", true)
		r.prims.Quad.Render(Triangles)
		first = false
	}

	if first {
		// No directional light: a single ambient-only quad so ambient and
		// emissive are not lost.
		shader.SetVec3("u_ambient_light", scene.AmbientLight)
		shader.SetBool("u_apply_emissive", true)
		shader.SetBool("u_is_quad", true)
		shader.SetFloat("u_light_intensity", 0)
		shader.SetInt("u_light_type", int32(DirectionalLight))
		r.device.SetBlend(BlendNone)
		r.prims.Quad.Render(Triangles)
		first = false
	}

	// Local lights: backface spheres scaled to range, always additive,
	// ambient suppressed.
	shader.SetVec3("u_ambient_light", mgl32.Vec3{})
	shader.SetBool("u_apply_emissive", false)
	shader.SetBool("u_is_quad", false)
	r.device.SetBlend(BlendAdditive)
	r.device.SetCull(CullFront)

	for _, light := range r.lights {
		if light.Type == DirectionalLight {
			continue
		}
		center, radius := light.BoundingSphere()
		if !frustum.IntersectsSphere(center, radius) {
			continue
		}
		model := mgl32.Translate3D(center.X(), center.Y(), center.Z()).
			Mul4(mgl32.Scale3D(radius, radius, radius))
		shader.SetMat4("u_model", model)
		r.uploadBoostedLight(shader, light, r.State.LocalBoost)
		r.prims.Sphere.Render(Triangles)
	}

	shader.Disable()
	r.device.SetCull(CullBack)
	r.device.SetBlend(BlendNone)
	r.device.SetDepth(true, true, DepthLess)
	illum.Unbind()
}

// uploadBoostedLight uploads the light with its intensity temporarily
// scaled when linear correction is on, compensating for the darkening of
// the later gamma encode. The original intensity is restored afterwards.
func (r *Renderer) uploadBoostedLight(shader Shader, light *Light, boost float32) {
	if !r.State.LinearCorrection || boost <= 0 {
		light.UploadToShader(shader, true)
		return
	}
	original := light.Intensity
	light.Intensity *= boost
	light.UploadToShader(shader, true)
	light.Intensity = original
}

// renderAlphaStage composites transparent geometry over the reconstructed
// scene with full forward shading. Deferred G-buffers cannot hold stacked
// translucent surfaces, so this forward sub-pass is the transparency path.
func (r *Renderer) renderAlphaStage(scene *Scene, calls []RenderCall, camera *Camera, illum Target) {
	illum.Bind()
	r.device.SetDepth(true, false, DepthLess)

	cfg := passConfig{camera: camera, mode: ShowLit, alphaOnly: true, withShadows: true}
	for _, call := range calls {
		r.renderMeshCall(call, scene, r.lights, cfg)
	}

	r.device.SetBlend(BlendNone)
	r.device.SetDepth(true, true, DepthLess)
	illum.Unbind()
}

// renderVolumetricStage adds scattering along the view ray for lights
// flagged volumetric, reusing the reconstruction geometry.
func (r *Renderer) renderVolumetricStage(scene *Scene, camera *Camera, gb Target, illum Target) {
	hasVolumetric := false
	for _, l := range r.lights {
		if l.Volumetric {
			hasVolumetric = true
			break
		}
	}
	if !hasVolumetric {
		return
	}
	shader := r.getShader("volumetric")
	if shader == nil {
		return
	}

	illum.Bind()
	r.device.SetDepth(false, false, DepthLess)
	r.device.SetBlend(BlendAdditive)

	shader.Enable()
	shader.SetMat4("u_viewprojection", camera.GetViewProjection())
	shader.SetMat4("u_inverse_viewprojection", camera.GetViewProjection().Inv())
	shader.SetVec3("u_camera_position", camera.Position)
	shader.SetTexture("u_depth_texture", gb.DepthTexture(), 3)
	w, h := illum.Size()
	shader.SetVec2("u_iRes", mgl32.Vec2{1 / float32(w), 1 / float32(h)})

	for _, light := range r.lights {
		if !light.Volumetric {
			continue
		}
		light.UploadToShader(shader, true)
		if light.Type == DirectionalLight {
			shader.SetBool("u_is_quad", true)
			r.prims.Quad.Render(Triangles)
			continue
		}
		shader.SetBool("u_is_quad", false)
		center, radius := light.BoundingSphere()
		model := mgl32.Translate3D(center.X(), center.Y(), center.Z()).
			Mul4(mgl32.Scale3D(radius, radius, radius))
		shader.SetMat4("u_model", model)
		r.device.SetCull(CullFront)
		r.prims.Sphere.Render(Triangles)
		r.device.SetCull(CullBack)
	}
	shader.Disable()

	r.device.SetBlend(BlendNone)
	r.device.SetDepth(true, true, DepthLess)
	illum.Unbind()
}

// resolveStage converts the HDR illumination target for display: tone
// mapping or plain gamma when linear correction is on, then the optional
// post effect. With linear correction off the illumination target is shown
// as-is.
func (r *Renderer) resolveStage(camera *Camera, gb Target, illum Target) {
	src := illum.ColorTexture(0)

	if r.State.LinearCorrection {
		gt := r.ensureGammaTarget()
		gt.Bind()
		w, h := gt.Size()
		r.device.Viewport(0, 0, w, h)
		r.device.SetDepth(false, false, DepthLess)

		var shader Shader
		if r.State.ToneMapping {
			shader = r.getShader("tonemap")
		} else {
			shader = r.getShader("gamma")
		}
		if shader != nil {
			shader.Enable()
			shader.SetTexture("u_texture", src, 0)
			shader.SetFloat("u_igamma", 1/r.State.Gamma)
			if r.State.ToneMapping {
				shader.SetFloat("u_scale", r.State.ToneScale)
				shader.SetFloat("u_white_lum", r.State.WhiteLum)
				shader.SetFloat("u_average_lum", r.State.AvgLum)
			}
			r.prims.Quad.Render(Triangles)
			shader.Disable()
		}
		r.device.SetDepth(true, true, DepthLess)
		gt.Unbind()
		src = gt.ColorTexture(0)
	}

	if r.State.PostFX != PostNone {
		r.renderPostFX(camera, gb, src)
		return
	}
	r.blitToScreen(src)
}

func (r *Renderer) blitToScreen(src Texture) {
	shader := r.getShader("blit")
	if shader == nil {
		return
	}
	r.device.BindDefault()
	r.device.Viewport(0, 0, r.width, r.height)
	r.device.SetDepth(false, false, DepthLess)
	shader.Enable()
	shader.SetTexture("u_texture", src, 0)
	r.prims.Quad.Render(Triangles)
	shader.Disable()
	r.device.SetDepth(true, true, DepthLess)
}

// renderGBufferDebug tiles the three color targets and linearized depth in
// a 2x2 grid over the viewport.
func (r *Renderer) renderGBufferDebug(gb Target) {
	blit := r.getShader("blit")
	depth := r.getShader("depth")
	if blit == nil || depth == nil {
		return
	}

	r.device.BindDefault()
	r.device.SetDepth(false, false, DepthLess)
	hw, hh := r.width/2, r.height/2

	tiles := []struct {
		x, y int32
		tex  Texture
	}{
		{0, hh, gb.ColorTexture(0)},
		{hw, hh, gb.ColorTexture(1)},
		{0, 0, gb.ColorTexture(2)},
	}
	blit.Enable()
	for _, tile := range tiles {
		r.device.Viewport(tile.x, tile.y, hw, hh)
		blit.SetTexture("u_texture", tile.tex, 0)
		r.prims.Quad.Render(Triangles)
	}
	blit.Disable()

	depth.Enable()
	r.device.Viewport(hw, 0, hw, hh)
	depth.SetVec2("u_camera_nearfar", mgl32.Vec2{0.1, 10000})
	depth.SetTexture("u_texture", gb.DepthTexture(), 0)
	r.prims.Quad.Render(Triangles)
	depth.Disable()

	r.device.Viewport(0, 0, r.width, r.height)
	r.device.SetDepth(true, true, DepthLess)
}
