package renderer

import (
	"Lumen3D/internal/logger"
	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/mathgl/mgl32"
)

// GLDevice is the OpenGL 4.1 core implementation of Device. One instance
// per GL context; all calls must come from the thread owning the context.
type GLDevice struct{}

func NewGLDevice() (*GLDevice, error) {
	if err := gl.Init(); err != nil {
		return nil, err
	}
	gl.Enable(gl.DEPTH_TEST)
	gl.DepthFunc(gl.LESS)
	gl.Enable(gl.CULL_FACE)
	gl.CullFace(gl.BACK)
	gl.FrontFace(gl.CCW)
	gl.Enable(gl.TEXTURE_CUBE_MAP_SEAMLESS)
	logger.Log.Info("OpenGL device initialized")
	return &GLDevice{}, nil
}

func (d *GLDevice) Clear(color mgl32.Vec3, clearColor, clearDepth bool) {
	var mask uint32
	if clearColor {
		gl.ClearColor(color.X(), color.Y(), color.Z(), 1.0)
		mask |= gl.COLOR_BUFFER_BIT
	}
	if clearDepth {
		mask |= gl.DEPTH_BUFFER_BIT
	}
	if mask != 0 {
		gl.Clear(mask)
	}
}

func (d *GLDevice) SetBlend(mode BlendMode) {
	switch mode {
	case BlendNone:
		gl.Disable(gl.BLEND)
	case BlendAlpha:
		gl.Enable(gl.BLEND)
		gl.BlendFunc(gl.SRC_ALPHA, gl.ONE_MINUS_SRC_ALPHA)
	case BlendAdditive:
		gl.Enable(gl.BLEND)
		gl.BlendFunc(gl.SRC_ALPHA, gl.ONE)
	}
}

func (d *GLDevice) SetCull(mode CullMode) {
	switch mode {
	case CullNone:
		gl.Disable(gl.CULL_FACE)
	case CullBack:
		gl.Enable(gl.CULL_FACE)
		gl.CullFace(gl.BACK)
	case CullFront:
		gl.Enable(gl.CULL_FACE)
		gl.CullFace(gl.FRONT)
	}
}

func (d *GLDevice) SetDepth(test, write bool, fn DepthFunc) {
	if test {
		gl.Enable(gl.DEPTH_TEST)
	} else {
		gl.Disable(gl.DEPTH_TEST)
	}
	gl.DepthMask(write)
	switch fn {
	case DepthLess:
		gl.DepthFunc(gl.LESS)
	case DepthLessEqual:
		gl.DepthFunc(gl.LEQUAL)
	case DepthEqual:
		gl.DepthFunc(gl.EQUAL)
	}
}

func (d *GLDevice) SetColorMask(on bool) {
	gl.ColorMask(on, on, on, on)
}

func (d *GLDevice) Viewport(x, y, w, h int32) {
	gl.Viewport(x, y, w, h)
}

func (d *GLDevice) Scissor(x, y, w, h int32, enabled bool) {
	if !enabled {
		gl.Disable(gl.SCISSOR_TEST)
		return
	}
	gl.Enable(gl.SCISSOR_TEST)
	gl.Scissor(x, y, w, h)
}

func (d *GLDevice) BindDefault() {
	gl.BindFramebuffer(gl.FRAMEBUFFER, 0)
}

func (d *GLDevice) CreateTarget(w, h int32, colorCount int, hdr bool) Target {
	return newGLTarget(w, h, colorCount, hdr, false)
}

func (d *GLDevice) CreateDepthTarget(w, h int32) Target {
	return newGLTarget(w, h, 0, false, true)
}

func (d *GLDevice) CreateCubemap(size int32) Texture {
	tex := &GLTexture{target: gl.TEXTURE_CUBE_MAP, width: size, height: size}
	gl.GenTextures(1, &tex.id)
	gl.BindTexture(gl.TEXTURE_CUBE_MAP, tex.id)
	for face := 0; face < CubemapFaces; face++ {
		gl.TexImage2D(gl.TEXTURE_CUBE_MAP_POSITIVE_X+uint32(face),
			0, gl.RGBA16F, size, size, 0, gl.RGBA, gl.FLOAT, nil)
	}
	gl.TexParameteri(gl.TEXTURE_CUBE_MAP, gl.TEXTURE_MIN_FILTER, gl.LINEAR)
	gl.TexParameteri(gl.TEXTURE_CUBE_MAP, gl.TEXTURE_MAG_FILTER, gl.LINEAR)
	gl.TexParameteri(gl.TEXTURE_CUBE_MAP, gl.TEXTURE_WRAP_S, gl.CLAMP_TO_EDGE)
	gl.TexParameteri(gl.TEXTURE_CUBE_MAP, gl.TEXTURE_WRAP_T, gl.CLAMP_TO_EDGE)
	gl.TexParameteri(gl.TEXTURE_CUBE_MAP, gl.TEXTURE_WRAP_R, gl.CLAMP_TO_EDGE)
	return tex
}

func (d *GLDevice) CopyToCubemapFace(src Target, cubemap Texture, face int) {
	st, ok := src.(*GLTarget)
	ct, ok2 := cubemap.(*GLTexture)
	if !ok || !ok2 {
		logger.Log.Error("cubemap copy needs GL-backed target and texture")
		return
	}
	gl.BindFramebuffer(gl.READ_FRAMEBUFFER, st.fbo)
	gl.ReadBuffer(gl.COLOR_ATTACHMENT0)
	gl.BindTexture(gl.TEXTURE_CUBE_MAP, ct.id)
	gl.CopyTexSubImage2D(gl.TEXTURE_CUBE_MAP_POSITIVE_X+uint32(face),
		0, 0, 0, 0, 0, st.width, st.height)
	gl.BindFramebuffer(gl.READ_FRAMEBUFFER, 0)
}

func (d *GLDevice) CreateDataTexture(w, h int32, texels []float32, nearest bool) Texture {
	tex := &GLTexture{target: gl.TEXTURE_2D, width: w, height: h}
	gl.GenTextures(1, &tex.id)
	gl.BindTexture(gl.TEXTURE_2D, tex.id)
	gl.TexImage2D(gl.TEXTURE_2D, 0, gl.RGBA32F, w, h, 0, gl.RGBA, gl.FLOAT, gl.Ptr(texels))
	filter := int32(gl.LINEAR)
	if nearest {
		filter = gl.NEAREST
	}
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, filter)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, filter)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, gl.CLAMP_TO_EDGE)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, gl.CLAMP_TO_EDGE)
	return tex
}

func (d *GLDevice) BlitColor(src Target, srcAttachment int, dst Target, dstAttachment int) {
	st, ok := src.(*GLTarget)
	dt, ok2 := dst.(*GLTarget)
	if !ok || !ok2 {
		return
	}
	gl.BindFramebuffer(gl.READ_FRAMEBUFFER, st.fbo)
	gl.ReadBuffer(gl.COLOR_ATTACHMENT0 + uint32(srcAttachment))
	gl.BindFramebuffer(gl.DRAW_FRAMEBUFFER, dt.fbo)
	gl.DrawBuffer(gl.COLOR_ATTACHMENT0 + uint32(dstAttachment))
	gl.BlitFramebuffer(0, 0, st.width, st.height, 0, 0, dt.width, dt.height,
		gl.COLOR_BUFFER_BIT, gl.NEAREST)
	d.restoreDrawBuffers(dt)
	gl.BindFramebuffer(gl.FRAMEBUFFER, 0)
}

func (d *GLDevice) BlitDepth(src, dst Target) {
	st, ok := src.(*GLTarget)
	dt, ok2 := dst.(*GLTarget)
	if !ok || !ok2 {
		return
	}
	gl.BindFramebuffer(gl.READ_FRAMEBUFFER, st.fbo)
	gl.BindFramebuffer(gl.DRAW_FRAMEBUFFER, dt.fbo)
	gl.BlitFramebuffer(0, 0, st.width, st.height, 0, 0, dt.width, dt.height,
		gl.DEPTH_BUFFER_BIT, gl.NEAREST)
	gl.BindFramebuffer(gl.FRAMEBUFFER, 0)
}

func (d *GLDevice) restoreDrawBuffers(t *GLTarget) {
	if len(t.colors) == 0 {
		return
	}
	buffers := make([]uint32, len(t.colors))
	for i := range buffers {
		buffers[i] = gl.COLOR_ATTACHMENT0 + uint32(i)
	}
	gl.DrawBuffers(int32(len(buffers)), &buffers[0])
}
