package renderer

import "github.com/go-gl/mathgl/mgl32"

// shadingStrategy is how a forward draw resolves lighting.
type shadingStrategy int

const (
	strategyNoLight    shadingStrategy = iota // debug visualizations
	strategyMultiPass                         // one additive draw per light
	strategySinglePass                        // all lights in one draw, capped
)

// passConfig parameterizes one forward-style pass. Shadow generation and
// probe bakes re-enter the forward path with their own camera and flags
// instead of mutating shared renderer state.
type passConfig struct {
	camera      *Camera
	mode        RenderMode
	shadowPass  bool // depth-only submission, opaque geometry only
	alphaOnly   bool // deferred transparency sub-pass
	opaqueOnly  bool
	withShadows bool // upload shadow maps during multi-pass shading
}

// renderForward draws the sorted call list to the active target.
func (r *Renderer) renderForward(scene *Scene, calls []RenderCall, camera *Camera) {
	r.device.Viewport(0, 0, r.width, r.height)
	r.device.Clear(scene.BackgroundColor, true, true)
	r.device.SetDepth(true, true, DepthLess)

	if r.State.DrawSkybox {
		r.renderSkybox(scene, camera)
	}

	cfg := passConfig{camera: camera, mode: r.State.Mode, withShadows: true}
	for _, call := range calls {
		r.renderMeshCall(call, scene, r.lights, cfg)
	}
	r.device.SetBlend(BlendNone)

	if r.State.ShowLightGizmos {
		r.renderLightGizmos(camera)
	}
	if r.State.ShowProbes {
		r.renderProbeOverlay(scene, camera)
	}
	if r.State.ShowBoundingBoxes {
		r.renderBoundingBoxes(calls, camera)
	}
}

// shaderForMode maps the active render mode onto a program name and a
// lighting strategy.
func shaderForMode(mode RenderMode) (string, shadingStrategy) {
	switch mode {
	case ShowLit:
		return "light", strategyMultiPass
	case ShowSinglePass:
		return "singlepass", strategySinglePass
	case ShowNormal:
		return "normal", strategyNoLight
	case ShowNormalMap:
		return "normalmap", strategyNoLight
	case ShowUVs:
		return "uvs", strategyNoLight
	case ShowTexture:
		return "texture", strategyNoLight
	case ShowOcclusion, ShowMetallic, ShowRoughness:
		return "metallic", strategyNoLight
	default:
		return "light", strategyMultiPass
	}
}

// renderMeshCall draws one render call with the configured strategy and
// returns how many light records were uploaded (single-pass truncates at
// MaxSinglePassLights). Raster state is restored to blend-off afterwards.
func (r *Renderer) renderMeshCall(call RenderCall, scene *Scene, lights []*Light, cfg passConfig) int {
	if call.Mesh == nil || call.Material == nil {
		return 0
	}

	if cfg.shadowPass {
		// Alpha-blended materials never cast shadows.
		if call.Alpha {
			return 0
		}
		r.renderDepthOnly(call, cfg.camera)
		return 0
	}

	if cfg.alphaOnly && !call.Alpha {
		return 0
	}
	if cfg.opaqueOnly && call.Alpha {
		return 0
	}

	mat := call.Material
	if mat.AlphaMode == AlphaBlend {
		r.device.SetBlend(BlendAlpha)
	} else {
		r.device.SetBlend(BlendNone)
	}
	if mat.TwoSided {
		r.device.SetCull(CullNone)
	} else {
		r.device.SetCull(CullBack)
	}

	name, strategy := shaderForMode(cfg.mode)
	shader := r.getShader(name)
	if shader == nil {
		return 0
	}
	shader.Enable()
	r.uploadCallUniforms(shader, call, scene, cfg)

	uploaded := 0
	switch strategy {
	case strategyMultiPass:
		uploaded = r.drawMultiPass(shader, call, lights, cfg)
	case strategySinglePass:
		uploaded = r.drawSinglePass(shader, call, lights)
	default:
		call.Mesh.Render(Triangles)
	}

	shader.Disable()
	// Leave a neutral state so later passes start clean.
	r.device.SetBlend(BlendNone)
	return uploaded
}

func (r *Renderer) renderDepthOnly(call RenderCall, camera *Camera) {
	shader := r.getShader("shadowmap")
	if shader == nil {
		return
	}
	shader.Enable()
	shader.SetMat4("u_viewprojection", camera.GetViewProjection())
	shader.SetMat4("u_model", call.Model)
	cutoff := float32(0)
	if call.Material.AlphaMode == AlphaMask {
		cutoff = call.Material.AlphaCutoff
		if call.Material.ColorTexture != nil {
			shader.SetTexture("u_texture", call.Material.ColorTexture, 0)
		}
	}
	shader.SetFloat("u_alpha_cutoff", cutoff)
	r.device.SetCull(CullBack)
	call.Mesh.Render(Triangles)
	shader.Disable()
}

// uploadCallUniforms writes the per-draw uniforms shared by every strategy.
func (r *Renderer) uploadCallUniforms(shader Shader, call RenderCall, scene *Scene, cfg passConfig) {
	mat := call.Material

	shader.SetMat4("u_viewprojection", cfg.camera.GetViewProjection())
	shader.SetVec3("u_camera_position", cfg.camera.Position)
	shader.SetMat4("u_model", call.Model)
	shader.SetVec4("u_color", mat.Color)
	shader.SetVec3("u_ambient_light", scene.AmbientLight)

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
		shader.SetFloat("u_material_shininess", mat.RoughnessFactor)
		var property int32
		switch cfg.mode {
		case ShowMetallic:
			property = 1
		case ShowRoughness:
			property = 2
		}
		shader.SetInt("u_type_property", property)
	} else {
		shader.SetBool("u_has_metallic_roughness", false)
	}

	// Alpha threshold below which masked materials discard the pixel.
	cutoff := float32(0)
	if mat.AlphaMode == AlphaMask {
		cutoff = mat.AlphaCutoff
	}
	shader.SetFloat("u_alpha_cutoff", cutoff)

	if r.State.Irradiance && scene.Irradiance != nil && len(scene.Irradiance.Probes) > 0 {
		shader.SetBool("u_use_irradiance", true)
		scene.Irradiance.UploadToShader(shader)
	} else {
		shader.SetBool("u_use_irradiance", false)
	}

	if r.State.Reflections && call.NearestProbe != nil && call.NearestProbe.Cubemap != nil {
		shader.SetBool("u_use_reflection", true)
		shader.SetTexture("u_reflection_texture", call.NearestProbe.Cubemap, 6)
	} else {
		shader.SetBool("u_use_reflection", false)
	}
}

// drawMultiPass issues one draw per light. The first pass carries ambient
// and emissive; later passes switch to depth-equal additive accumulation
// with both suppressed so nothing is counted twice.
func (r *Renderer) drawMultiPass(shader Shader, call RenderCall, lights []*Light, cfg passConfig) int {
	if len(lights) == 0 {
		// Ambient and emissive still apply with no lights in range.
		shader.SetFloat("u_light_intensity", 0)
		shader.SetBool("u_cast_shadow", false)
		call.Mesh.Render(Triangles)
		return 0
	}

	for i, light := range lights {
		if light == nil {
			continue
		}
		if i > 0 {
			r.device.SetDepth(true, true, DepthLessEqual)
			r.device.SetBlend(BlendAdditive)
			shader.SetBool("u_is_emissor", false)
			shader.SetVec3("u_ambient_light", mgl32.Vec3{})
		}
		light.UploadToShader(shader, cfg.withShadows)
		call.Mesh.Render(Triangles)
	}
	r.device.SetDepth(true, true, DepthLess)
	return len(lights)
}

// drawSinglePass packs every light into fixed-size uniform arrays and draws
// once. Lights beyond MaxSinglePassLights are dropped; the return value is
// the number actually uploaded.
func (r *Renderer) drawSinglePass(shader Shader, call RenderCall, lights []*Light) int {
	count := len(lights)
	if count > MaxSinglePassLights {
		count = MaxSinglePassLights
	}

	positions := make([]mgl32.Vec3, count)
	colors := make([]mgl32.Vec3, count)
	vectors := make([]mgl32.Vec3, count)
	types := make([]int32, count)
	intensities := make([]float32, count)
	spotVars := make([]mgl32.Vec2, count)

	for i := 0; i < count; i++ {
		l := lights[i]
		positions[i] = l.Position
		colors[i] = l.Color
		vectors[i] = l.Direction
		types[i] = int32(l.Type)
		intensities[i] = l.Intensity
		spotVars[i] = mgl32.Vec2{l.spotCutoff(), l.SpotExp}
	}

	if count > 0 {
		shader.SetVec3Array("u_light_pos", positions)
		shader.SetVec3Array("u_light_color", colors)
		shader.SetVec3Array("u_light_vector", vectors)
		shader.SetIntArray("u_light_type", types)
		shader.SetFloatArray("u_light_intensity", intensities)
		shader.SetVec2Array("u_light_spot_vars", spotVars)
	}
	shader.SetInt("u_num_lights", int32(count))

	if r.State.SinglePassShadows && r.shadowAtlas != nil {
		r.uploadShadowAtlas(shader, lights[:count])
	}

	call.Mesh.Render(Triangles)
	return count
}

// renderSkybox draws the environment cubemap on a camera-centered sphere
// with depth and culling disabled, before any geometry.
func (r *Renderer) renderSkybox(scene *Scene, camera *Camera) {
	if scene.Environment == nil {
		return
	}
	shader := r.getShader("skybox")
	if shader == nil {
		return
	}
	r.device.SetDepth(false, false, DepthLess)
	r.device.SetCull(CullNone)

	shader.Enable()
	model := mgl32.Translate3D(camera.Position.X(), camera.Position.Y(), camera.Position.Z()).
		Mul4(mgl32.Scale3D(10, 10, 10))
	shader.SetMat4("u_model", model)
	shader.SetMat4("u_viewprojection", camera.GetViewProjection())
	shader.SetVec3("u_camera_position", camera.Position)
	shader.SetTexture("u_texture", scene.Environment, 0)
	r.prims.Sphere.Render(Triangles)
	shader.Disable()

	r.device.SetDepth(true, true, DepthLess)
	r.device.SetCull(CullBack)
}

// renderBoundingBoxes draws each call's world-space box as flat lines.
func (r *Renderer) renderBoundingBoxes(calls []RenderCall, camera *Camera) {
	shader := r.getShader("flat")
	if shader == nil {
		return
	}
	shader.Enable()
	shader.SetMat4("u_viewprojection", camera.GetViewProjection())
	shader.SetVec4("u_color", mgl32.Vec4{1, 1, 0, 1})
	for _, call := range calls {
		if call.Mesh == nil {
			continue
		}
		box := TransformBoundingBox(call.Model, call.Mesh.Bounds())
		model := mgl32.Translate3D(box.Center.X(), box.Center.Y(), box.Center.Z()).
			Mul4(mgl32.Scale3D(box.HalfSize.X()*2, box.HalfSize.Y()*2, box.HalfSize.Z()*2))
		shader.SetMat4("u_model", model)
		r.prims.Cube.Render(Lines)
	}
	shader.Disable()
}
