package renderer

import "github.com/go-gl/mathgl/mgl32"

// renderPostFX applies the selected full-screen effect to src and presents
// it to the default framebuffer. Effects that need extra passes stage
// through postScratch.
func (r *Renderer) renderPostFX(camera *Camera, gb Target, src Texture) {
	switch r.State.PostFX {
	case PostMotionBlur:
		r.renderMotionBlur(camera, gb, src)
	case PostPixelate:
		r.renderScreenEffect("pixelate", src, nil)
	case PostBlur:
		r.renderBlurEffect(src)
	case PostDepthOfField:
		r.renderDepthOfField(camera, gb, src)
	default:
		r.blitToScreen(src)
	}
}

// renderScreenEffect runs a single fullscreen pass of the named shader over
// src into the default framebuffer. extra may set additional uniforms after
// the common ones.
func (r *Renderer) renderScreenEffect(name string, src Texture, extra func(Shader)) {
	shader := r.getShader(name)
	if shader == nil {
		r.blitToScreen(src)
		return
	}
	r.device.BindDefault()
	r.device.Viewport(0, 0, r.width, r.height)
	r.device.SetDepth(false, false, DepthLess)

	shader.Enable()
	shader.SetTexture("u_texture", src, 0)
	shader.SetVec2("u_iRes", mgl32.Vec2{1 / float32(r.width), 1 / float32(r.height)})
	if extra != nil {
		extra(shader)
	}
	r.prims.Quad.Render(Triangles)
	shader.Disable()
	r.device.SetDepth(true, true, DepthLess)
}

// renderMotionBlur reprojects each pixel into the previous frame through
// the stored view-projection and smears along the screen-space delta.
func (r *Renderer) renderMotionBlur(camera *Camera, gb Target, src Texture) {
	prev := r.State.PrevViewProjection
	inverse := camera.GetViewProjection().Inv()
	r.renderScreenEffect("motionblur", src, func(shader Shader) {
		shader.SetTexture("u_depth_texture", gb.DepthTexture(), 1)
		shader.SetMat4("u_inverse_viewprojection", inverse)
		shader.SetMat4("u_prev_viewprojection", prev)
	})
}

// renderBlurEffect copies src into the scratch target, blurs it in place
// and presents the result.
func (r *Renderer) renderBlurEffect(src Texture) {
	scratch := r.ensurePostScratch()
	r.fillTarget(scratch, src)
	r.blurTarget(scratch, int(r.State.BlurSize))
	r.blitToScreen(scratch.ColorTexture(0))
}

// renderDepthOfField blurs a copy of the frame, then blends sharp and
// blurred per pixel by distance from the focal depth.
func (r *Renderer) renderDepthOfField(camera *Camera, gb Target, src Texture) {
	scratch := r.ensurePostScratch()
	r.fillTarget(scratch, src)
	r.blurTarget(scratch, int(r.State.BlurSize))

	focal := r.State.FocalDepth
	near, far := camera.Near, camera.Far
	r.renderScreenEffect("dof", src, func(shader Shader) {
		shader.SetTexture("u_blur_texture", scratch.ColorTexture(0), 1)
		shader.SetTexture("u_depth_texture", gb.DepthTexture(), 2)
		shader.SetFloat("u_focal_depth", focal)
		shader.SetVec2("u_camera_nearfar", mgl32.Vec2{near, far})
	})
}

// fillTarget draws src over the whole target with the plain blit shader.
func (r *Renderer) fillTarget(dst Target, src Texture) {
	shader := r.getShader("blit")
	if shader == nil {
		return
	}
	dst.Bind()
	w, h := dst.Size()
	r.device.Viewport(0, 0, w, h)
	r.device.SetDepth(false, false, DepthLess)
	shader.Enable()
	shader.SetTexture("u_texture", src, 0)
	r.prims.Quad.Render(Triangles)
	shader.Disable()
	r.device.SetDepth(true, true, DepthLess)
	dst.Unbind()
}
