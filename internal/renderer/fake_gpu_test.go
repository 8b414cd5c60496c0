package renderer

import (
	"fmt"
	"sync"

	"Lumen3D/internal/logger"
	"github.com/go-gl/mathgl/mgl32"
)

var logOnce sync.Once

func logInit() { logOnce.Do(logger.Init) }

// Recording fakes standing in for the GL backend. Shaders keep the latest
// value per uniform, the device keeps an ordered op log, and meshes count
// draws with an optional per-draw hook for snapshotting shader state.

type fakeMesh struct {
	name     string
	bounds   BoundingBox
	draws    int
	prims    []Primitive
	onRender func()
}

func newFakeMesh(name string) *fakeMesh {
	return &fakeMesh{name: name, bounds: BoundingBox{HalfSize: mgl32.Vec3{1, 1, 1}}}
}

func (m *fakeMesh) Render(p Primitive) {
	m.draws++
	m.prims = append(m.prims, p)
	if m.onRender != nil {
		m.onRender()
	}
}

func (m *fakeMesh) Bounds() BoundingBox { return m.bounds }

type fakeTexture struct {
	name    string
	w, h    int32
	mipmaps int
	texels  []float32
}

func (t *fakeTexture) Bind(slot uint32)     {}
func (t *fakeTexture) Size() (int32, int32) { return t.w, t.h }
func (t *fakeTexture) GenerateMipmaps()     { t.mipmaps++ }

type boundTexture struct {
	tex  Texture
	slot uint32
}

type fakeShader struct {
	name     string
	enabled  int
	disabled int

	floats   map[string]float32
	ints     map[string]int32
	bools    map[string]bool
	vec2s    map[string]mgl32.Vec2
	vec3s    map[string]mgl32.Vec3
	vec4s    map[string]mgl32.Vec4
	mats     map[string]mgl32.Mat4
	textures map[string]boundTexture

	floatArrays map[string][]float32
	intArrays   map[string][]int32
	vec2Arrays  map[string][]mgl32.Vec2
	vec3Arrays  map[string][]mgl32.Vec3
	vec4Arrays  map[string][]mgl32.Vec4
	mat4Arrays  map[string][]mgl32.Mat4
}

func newFakeShader(name string) *fakeShader {
	return &fakeShader{
		name:        name,
		floats:      make(map[string]float32),
		ints:        make(map[string]int32),
		bools:       make(map[string]bool),
		vec2s:       make(map[string]mgl32.Vec2),
		vec3s:       make(map[string]mgl32.Vec3),
		vec4s:       make(map[string]mgl32.Vec4),
		mats:        make(map[string]mgl32.Mat4),
		textures:    make(map[string]boundTexture),
		floatArrays: make(map[string][]float32),
		intArrays:   make(map[string][]int32),
		vec2Arrays:  make(map[string][]mgl32.Vec2),
		vec3Arrays:  make(map[string][]mgl32.Vec3),
		vec4Arrays:  make(map[string][]mgl32.Vec4),
		mat4Arrays:  make(map[string][]mgl32.Mat4),
	}
}

func (s *fakeShader) Enable()  { s.enabled++ }
func (s *fakeShader) Disable() { s.disabled++ }

func (s *fakeShader) SetFloat(name string, v float32)   { s.floats[name] = v }
func (s *fakeShader) SetInt(name string, v int32)       { s.ints[name] = v }
func (s *fakeShader) SetBool(name string, v bool)       { s.bools[name] = v }
func (s *fakeShader) SetVec2(name string, v mgl32.Vec2) { s.vec2s[name] = v }
func (s *fakeShader) SetVec3(name string, v mgl32.Vec3) { s.vec3s[name] = v }
func (s *fakeShader) SetVec4(name string, v mgl32.Vec4) { s.vec4s[name] = v }
func (s *fakeShader) SetMat4(name string, m mgl32.Mat4) { s.mats[name] = m }

func (s *fakeShader) SetFloatArray(name string, v []float32) {
	s.floatArrays[name] = append([]float32(nil), v...)
}
func (s *fakeShader) SetIntArray(name string, v []int32) {
	s.intArrays[name] = append([]int32(nil), v...)
}
func (s *fakeShader) SetVec2Array(name string, v []mgl32.Vec2) {
	s.vec2Arrays[name] = append([]mgl32.Vec2(nil), v...)
}
func (s *fakeShader) SetVec3Array(name string, v []mgl32.Vec3) {
	s.vec3Arrays[name] = append([]mgl32.Vec3(nil), v...)
}
func (s *fakeShader) SetVec4Array(name string, v []mgl32.Vec4) {
	s.vec4Arrays[name] = append([]mgl32.Vec4(nil), v...)
}
func (s *fakeShader) SetMat4Array(name string, v []mgl32.Mat4) {
	s.mat4Arrays[name] = append([]mgl32.Mat4(nil), v...)
}

func (s *fakeShader) SetTexture(name string, tex Texture, slot uint32) {
	s.textures[name] = boundTexture{tex: tex, slot: slot}
}

type fakeLibrary struct {
	shaders   map[string]*fakeShader
	requested []string
	missing   map[string]bool
}

func newFakeLibrary() *fakeLibrary {
	return &fakeLibrary{shaders: make(map[string]*fakeShader), missing: make(map[string]bool)}
}

func (lib *fakeLibrary) Get(name string) Shader {
	lib.requested = append(lib.requested, name)
	if lib.missing[name] {
		return nil
	}
	if sh, ok := lib.shaders[name]; ok {
		return sh
	}
	sh := newFakeShader(name)
	lib.shaders[name] = sh
	return sh
}

type fakeTarget struct {
	label      string
	w, h       int32
	colorCount int
	depthOnly  bool

	binds   int
	unbinds int
	colors  []*fakeTexture
	depth   *fakeTexture
	pixels  []float32
}

func newFakeTarget(label string, w, h int32, colorCount int, depthOnly bool) *fakeTarget {
	t := &fakeTarget{label: label, w: w, h: h, colorCount: colorCount, depthOnly: depthOnly}
	for i := 0; i < colorCount; i++ {
		t.colors = append(t.colors, &fakeTexture{name: fmt.Sprintf("%s-color%d", label, i), w: w, h: h})
	}
	t.depth = &fakeTexture{name: label + "-depth", w: w, h: h}
	return t
}

func (t *fakeTarget) Bind()                { t.binds++ }
func (t *fakeTarget) Unbind()              { t.unbinds++ }
func (t *fakeTarget) Size() (int32, int32) { return t.w, t.h }

func (t *fakeTarget) ColorTexture(i int) Texture {
	if i < 0 || i >= len(t.colors) {
		return nil
	}
	return t.colors[i]
}

func (t *fakeTarget) DepthTexture() Texture { return t.depth }

func (t *fakeTarget) ReadPixels() []float32 {
	if t.pixels != nil {
		return t.pixels
	}
	return make([]float32, t.w*t.h*4)
}

type fakeDevice struct {
	ops     []string
	blends  []BlendMode
	targets []*fakeTarget
	clears  int
}

func newFakeDevice() *fakeDevice { return &fakeDevice{} }

func (d *fakeDevice) log(format string, args ...interface{}) {
	d.ops = append(d.ops, fmt.Sprintf(format, args...))
}

func (d *fakeDevice) Clear(color mgl32.Vec3, clearColor, clearDepth bool) {
	d.clears++
	d.log("clear color=%v depth=%v", clearColor, clearDepth)
}

func (d *fakeDevice) SetBlend(mode BlendMode) {
	d.blends = append(d.blends, mode)
	d.log("blend %d", mode)
}

func (d *fakeDevice) SetCull(mode CullMode) { d.log("cull %d", mode) }

func (d *fakeDevice) SetDepth(test, write bool, fn DepthFunc) {
	d.log("depth test=%v write=%v fn=%d", test, write, fn)
}

func (d *fakeDevice) SetColorMask(on bool)         { d.log("colormask %v", on) }
func (d *fakeDevice) Viewport(x, y, w, h int32)    { d.log("viewport %d %d %d %d", x, y, w, h) }
func (d *fakeDevice) BindDefault()                 { d.log("binddefault") }

func (d *fakeDevice) Scissor(x, y, w, h int32, enabled bool) {
	d.log("scissor %d %d %d %d %v", x, y, w, h, enabled)
}

func (d *fakeDevice) CreateTarget(w, h int32, colorCount int, hdr bool) Target {
	t := newFakeTarget(fmt.Sprintf("target%d", len(d.targets)), w, h, colorCount, false)
	d.targets = append(d.targets, t)
	return t
}

func (d *fakeDevice) CreateDepthTarget(w, h int32) Target {
	t := newFakeTarget(fmt.Sprintf("depthtarget%d", len(d.targets)), w, h, 0, true)
	d.targets = append(d.targets, t)
	return t
}

func (d *fakeDevice) CreateCubemap(size int32) Texture {
	return &fakeTexture{name: "cubemap", w: size, h: size}
}

func (d *fakeDevice) CopyToCubemapFace(src Target, cubemap Texture, face int) {
	d.log("cubemapface %d", face)
}

func (d *fakeDevice) CreateDataTexture(w, h int32, texels []float32, nearest bool) Texture {
	return &fakeTexture{name: "data", w: w, h: h, texels: append([]float32(nil), texels...)}
}

func (d *fakeDevice) BlitColor(src Target, srcAttachment int, dst Target, dstAttachment int) {
	d.log("blitcolor %d->%d", srcAttachment, dstAttachment)
}

func (d *fakeDevice) BlitDepth(src, dst Target) { d.log("blitdepth") }

func newTestRenderer(width, height int32) (*Renderer, *fakeDevice, *fakeLibrary) {
	logInit()
	device := newFakeDevice()
	lib := newFakeLibrary()
	prims := Primitives{
		Quad:   newFakeMesh("quad"),
		Cube:   newFakeMesh("cube"),
		Sphere: newFakeMesh("sphere"),
		Plane:  newFakeMesh("plane"),
	}
	return NewRenderer(device, lib, prims, width, height), device, lib
}

// newTestScene builds a one-prefab scene with the given material.
func newTestScene(mesh Mesh, material *Material) (*Scene, *Entity) {
	scene := NewScene()
	root := NewNode()
	root.Mesh = mesh
	root.Material = material
	ent := NewPrefabEntity("ent", &Prefab{Name: "p", Root: *root})
	scene.AddEntity(ent)
	return scene, ent
}

func testCamera() *Camera {
	return NewDefaultCamera(600, 800)
}
