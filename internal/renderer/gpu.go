package renderer

import "github.com/go-gl/mathgl/mgl32"

// The renderer core never touches GL directly. It orchestrates draws through
// the narrow interfaces below; gl_*.go holds the OpenGL implementations and
// the tests substitute recording fakes.

type Primitive int

const (
	Triangles Primitive = iota
	Lines
)

type BlendMode int

const (
	BlendNone BlendMode = iota
	BlendAlpha
	BlendAdditive
)

type CullMode int

const (
	CullNone CullMode = iota
	CullBack
	CullFront
)

type DepthFunc int

const (
	DepthLess DepthFunc = iota
	DepthLessEqual
	DepthEqual
)

// CubemapFace indices follow the GL convention: +X -X +Y -Y +Z -Z.
const CubemapFaces = 6

// Mesh is an uploaded geometry buffer.
type Mesh interface {
	Render(prim Primitive)
	Bounds() BoundingBox
}

type Texture interface {
	Bind(slot uint32)
	Size() (w, h int32)
	GenerateMipmaps()
}

type Shader interface {
	Enable()
	Disable()
	SetFloat(name string, v float32)
	SetInt(name string, v int32)
	SetBool(name string, v bool)
	SetVec2(name string, v mgl32.Vec2)
	SetVec3(name string, v mgl32.Vec3)
	SetVec4(name string, v mgl32.Vec4)
	SetMat4(name string, m mgl32.Mat4)
	SetFloatArray(name string, v []float32)
	SetIntArray(name string, v []int32)
	SetVec2Array(name string, v []mgl32.Vec2)
	SetVec3Array(name string, v []mgl32.Vec3)
	SetVec4Array(name string, v []mgl32.Vec4)
	SetMat4Array(name string, v []mgl32.Mat4)
	SetTexture(name string, tex Texture, slot uint32)
}

// Target is an offscreen framebuffer. Depth-only targets report a nil
// ColorTexture; single-attachment targets report nil beyond index 0.
type Target interface {
	Bind()
	Unbind()
	Size() (w, h int32)
	ColorTexture(i int) Texture
	DepthTexture() Texture
	// ReadPixels returns attachment 0 as RGBA float32, row-major bottom-up.
	ReadPixels() []float32
}

// ShaderLibrary resolves shader programs by name. A missing or broken
// program returns nil and the caller skips the pass for the frame.
type ShaderLibrary interface {
	Get(name string) Shader
}

// Device owns raster state and resource creation.
type Device interface {
	Clear(color mgl32.Vec3, clearColor, clearDepth bool)
	SetBlend(mode BlendMode)
	SetCull(mode CullMode)
	SetDepth(test, write bool, fn DepthFunc)
	SetColorMask(on bool)
	Viewport(x, y, w, h int32)
	Scissor(x, y, w, h int32, enabled bool)
	// BindDefault rebinds the window framebuffer.
	BindDefault()

	CreateTarget(w, h int32, colorCount int, hdr bool) Target
	CreateDepthTarget(w, h int32) Target
	CreateCubemap(size int32) Texture
	CopyToCubemapFace(src Target, cubemap Texture, face int)
	// CreateDataTexture uploads raw RGBA float texels, optionally with
	// nearest filtering and no mipmaps (probe lookup tables, SSAO noise).
	CreateDataTexture(w, h int32, texels []float32, nearest bool) Texture
	// BlitColor copies one color attachment between equally sized targets.
	BlitColor(src Target, srcAttachment int, dst Target, dstAttachment int)
	BlitDepth(src, dst Target)
}

// Primitives are the unit meshes the screen-space and volume passes reuse.
type Primitives struct {
	Quad   Mesh // fullscreen quad in clip space
	Cube   Mesh // unit cube centered at origin
	Sphere Mesh // unit sphere centered at origin
	Plane  Mesh // unit plane, facing +Y
}
