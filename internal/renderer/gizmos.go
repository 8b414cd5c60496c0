package renderer

import "github.com/go-gl/mathgl/mgl32"

const gizmoScale = 2.0

// renderLightGizmos draws editor markers at every light: a floor-aligned
// plane under directional lights, a small sphere at local lights. Markers
// are flat-shaded in the light's color.
func (r *Renderer) renderLightGizmos(camera *Camera) {
	shader := r.getShader("flat")
	if shader == nil {
		return
	}
	shader.Enable()
	shader.SetMat4("u_viewprojection", camera.GetViewProjection())

	for _, light := range r.lights {
		shader.SetVec4("u_color", light.Color.Vec4(1))
		p := light.Position
		if light.Type == DirectionalLight {
			model := mgl32.Translate3D(p.X(), p.Y(), p.Z()).
				Mul4(mgl32.Scale3D(light.AreaSize/2, 1, light.AreaSize/2))
			shader.SetMat4("u_model", model)
			r.prims.Plane.Render(Triangles)
			continue
		}
		model := mgl32.Translate3D(p.X(), p.Y(), p.Z()).
			Mul4(mgl32.Scale3D(gizmoScale, gizmoScale, gizmoScale))
		shader.SetMat4("u_model", model)
		r.prims.Sphere.Render(Triangles)
	}
	shader.Disable()
}

// renderProbeOverlay draws the baked probe data in place: irradiance probes
// as spheres shaded by their harmonics, reflection probes as mirror spheres
// sampling their captured cubemap.
func (r *Renderer) renderProbeOverlay(scene *Scene, camera *Camera) {
	if scene.Irradiance != nil && len(scene.Irradiance.Probes) > 0 {
		shader := r.getShader("probe")
		if shader != nil {
			shader.Enable()
			shader.SetMat4("u_viewprojection", camera.GetViewProjection())
			shader.SetVec3("u_camera_position", camera.Position)
			for i := range scene.Irradiance.Probes {
				probe := &scene.Irradiance.Probes[i]
				p := probe.Position
				model := mgl32.Translate3D(p.X(), p.Y(), p.Z()).
					Mul4(mgl32.Scale3D(probe.Size, probe.Size, probe.Size))
				shader.SetMat4("u_model", model)
				shader.SetVec3Array("u_coeffs", probe.SH.Coeffs[:])
				r.prims.Sphere.Render(Triangles)
			}
			shader.Disable()
		}
	}

	for _, rp := range scene.ReflectionProbes {
		if rp.Cubemap == nil {
			continue
		}
		shader := r.getShader("reflection")
		if shader == nil {
			return
		}
		shader.Enable()
		shader.SetMat4("u_viewprojection", camera.GetViewProjection())
		shader.SetVec3("u_camera_position", camera.Position)
		p := rp.Position
		model := mgl32.Translate3D(p.X(), p.Y(), p.Z()).
			Mul4(mgl32.Scale3D(rp.Size, rp.Size, rp.Size))
		shader.SetMat4("u_model", model)
		shader.SetTexture("u_environment_texture", rp.Cubemap, 0)
		r.prims.Sphere.Render(Triangles)
		shader.Disable()
	}
}
