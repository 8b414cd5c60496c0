package renderer

import (
	"Lumen3D/internal/logger"
	"github.com/go-gl/gl/v4.1-core/gl"
	"go.uber.org/zap"
)

// GLTarget is a framebuffer with up to four color attachments and a depth
// texture. Depth-only targets carry no color attachments at all.
type GLTarget struct {
	fbo    uint32
	width  int32
	height int32
	colors []*GLTexture
	depth  *GLTexture
}

func newGLTarget(width, height int32, colorCount int, hdr, depthOnly bool) *GLTarget {
	t := &GLTarget{width: width, height: height}
	gl.GenFramebuffers(1, &t.fbo)
	gl.BindFramebuffer(gl.FRAMEBUFFER, t.fbo)

	if !depthOnly {
		internalFormat := int32(gl.RGBA8)
		texelType := uint32(gl.UNSIGNED_BYTE)
		if hdr {
			internalFormat = gl.RGBA16F
			texelType = gl.FLOAT
		}
		drawBuffers := make([]uint32, colorCount)
		for i := 0; i < colorCount; i++ {
			tex := &GLTexture{target: gl.TEXTURE_2D, width: width, height: height}
			gl.GenTextures(1, &tex.id)
			gl.BindTexture(gl.TEXTURE_2D, tex.id)
			gl.TexImage2D(gl.TEXTURE_2D, 0, internalFormat, width, height, 0, gl.RGBA, texelType, nil)
			gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.LINEAR)
			gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.LINEAR)
			gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, gl.CLAMP_TO_EDGE)
			gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, gl.CLAMP_TO_EDGE)
			gl.FramebufferTexture2D(gl.FRAMEBUFFER, gl.COLOR_ATTACHMENT0+uint32(i), gl.TEXTURE_2D, tex.id, 0)
			t.colors = append(t.colors, tex)
			drawBuffers[i] = gl.COLOR_ATTACHMENT0 + uint32(i)
		}
		gl.DrawBuffers(int32(colorCount), &drawBuffers[0])
	} else {
		gl.DrawBuffer(gl.NONE)
		gl.ReadBuffer(gl.NONE)
	}

	depth := &GLTexture{target: gl.TEXTURE_2D, width: width, height: height}
	gl.GenTextures(1, &depth.id)
	gl.BindTexture(gl.TEXTURE_2D, depth.id)
	gl.TexImage2D(gl.TEXTURE_2D, 0, gl.DEPTH_COMPONENT24, width, height, 0, gl.DEPTH_COMPONENT, gl.FLOAT, nil)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.NEAREST)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.NEAREST)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, gl.CLAMP_TO_EDGE)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, gl.CLAMP_TO_EDGE)
	gl.FramebufferTexture2D(gl.FRAMEBUFFER, gl.DEPTH_ATTACHMENT, gl.TEXTURE_2D, depth.id, 0)
	t.depth = depth

	if status := gl.CheckFramebufferStatus(gl.FRAMEBUFFER); status != gl.FRAMEBUFFER_COMPLETE {
		logger.Log.Error("framebuffer incomplete",
			zap.Uint32("status", status),
			zap.Int32("width", width), zap.Int32("height", height))
	}
	gl.BindFramebuffer(gl.FRAMEBUFFER, 0)
	return t
}

func (t *GLTarget) Bind()   { gl.BindFramebuffer(gl.FRAMEBUFFER, t.fbo) }
func (t *GLTarget) Unbind() { gl.BindFramebuffer(gl.FRAMEBUFFER, 0) }

func (t *GLTarget) Size() (int32, int32) { return t.width, t.height }

func (t *GLTarget) ColorTexture(i int) Texture {
	if i < 0 || i >= len(t.colors) {
		return nil
	}
	return t.colors[i]
}

func (t *GLTarget) DepthTexture() Texture {
	if t.depth == nil {
		return nil
	}
	return t.depth
}

// ReadPixels reads attachment 0 back as RGBA float32, row-major bottom-up.
func (t *GLTarget) ReadPixels() []float32 {
	if len(t.colors) == 0 {
		return nil
	}
	pixels := make([]float32, t.width*t.height*4)
	gl.BindFramebuffer(gl.READ_FRAMEBUFFER, t.fbo)
	gl.ReadBuffer(gl.COLOR_ATTACHMENT0)
	gl.ReadPixels(0, 0, t.width, t.height, gl.RGBA, gl.FLOAT, gl.Ptr(pixels))
	gl.BindFramebuffer(gl.READ_FRAMEBUFFER, 0)
	return pixels
}

func (t *GLTarget) Delete() {
	for _, c := range t.colors {
		c.Delete()
	}
	if t.depth != nil {
		t.depth.Delete()
	}
	gl.DeleteFramebuffers(1, &t.fbo)
}
