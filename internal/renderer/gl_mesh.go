package renderer

import (
	"math"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/mathgl/mgl32"
)

// GLMesh is an indexed interleaved vertex buffer: position (3), texcoord
// (2), normal (3), 8 floats per vertex.
type GLMesh struct {
	vao        uint32
	vbo        uint32
	ebo        uint32
	indexCount int32
	bounds     BoundingBox
}

// NewGLMesh uploads interleaved vertex data and triangle indices.
func NewGLMesh(vertices []float32, indices []uint32) *GLMesh {
	m := &GLMesh{indexCount: int32(len(indices))}

	gl.GenVertexArrays(1, &m.vao)
	gl.BindVertexArray(m.vao)

	gl.GenBuffers(1, &m.vbo)
	gl.BindBuffer(gl.ARRAY_BUFFER, m.vbo)
	gl.BufferData(gl.ARRAY_BUFFER, len(vertices)*4, gl.Ptr(vertices), gl.STATIC_DRAW)

	gl.GenBuffers(1, &m.ebo)
	gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, m.ebo)
	gl.BufferData(gl.ELEMENT_ARRAY_BUFFER, len(indices)*4, gl.Ptr(indices), gl.STATIC_DRAW)

	stride := int32(8 * 4)
	gl.VertexAttribPointer(0, 3, gl.FLOAT, false, stride, gl.PtrOffset(0))
	gl.EnableVertexAttribArray(0)
	gl.VertexAttribPointer(1, 2, gl.FLOAT, false, stride, gl.PtrOffset(3*4))
	gl.EnableVertexAttribArray(1)
	gl.VertexAttribPointer(2, 3, gl.FLOAT, false, stride, gl.PtrOffset(5*4))
	gl.EnableVertexAttribArray(2)

	gl.BindVertexArray(0)

	m.bounds = boundsFromVertices(vertices)
	return m
}

func boundsFromVertices(vertices []float32) BoundingBox {
	if len(vertices) < 8 {
		return BoundingBox{}
	}
	min := mgl32.Vec3{vertices[0], vertices[1], vertices[2]}
	max := min
	for i := 0; i+2 < len(vertices); i += 8 {
		for a := 0; a < 3; a++ {
			v := vertices[i+a]
			if v < min[a] {
				min[a] = v
			}
			if v > max[a] {
				max[a] = v
			}
		}
	}
	return BoundingBox{
		Center:   min.Add(max).Mul(0.5),
		HalfSize: max.Sub(min).Mul(0.5),
	}
}

func (m *GLMesh) Render(prim Primitive) {
	mode := uint32(gl.TRIANGLES)
	if prim == Lines {
		mode = gl.LINES
	}
	gl.BindVertexArray(m.vao)
	gl.DrawElements(mode, m.indexCount, gl.UNSIGNED_INT, nil)
	gl.BindVertexArray(0)
}

func (m *GLMesh) Bounds() BoundingBox { return m.bounds }

func (m *GLMesh) Delete() {
	gl.DeleteVertexArrays(1, &m.vao)
	gl.DeleteBuffers(1, &m.vbo)
	gl.DeleteBuffers(1, &m.ebo)
}

// NewQuadMesh is a fullscreen quad in clip space, z = 0.
func NewQuadMesh() *GLMesh {
	vertices := []float32{
		-1, -1, 0, 0, 0, 0, 0, 1,
		1, -1, 0, 1, 0, 0, 0, 1,
		1, 1, 0, 1, 1, 0, 0, 1,
		-1, 1, 0, 0, 1, 0, 0, 1,
	}
	indices := []uint32{0, 1, 2, 0, 2, 3}
	return NewGLMesh(vertices, indices)
}

// NewPlaneMesh is a unit quad in the XZ plane facing +Y.
func NewPlaneMesh() *GLMesh {
	vertices := []float32{
		-1, 0, -1, 0, 0, 0, 1, 0,
		1, 0, -1, 1, 0, 0, 1, 0,
		1, 0, 1, 1, 1, 0, 1, 0,
		-1, 0, 1, 0, 1, 0, 1, 0,
	}
	indices := []uint32{0, 2, 1, 0, 3, 2}
	return NewGLMesh(vertices, indices)
}

// NewCubeMesh is a unit cube centered at the origin with per-face normals.
func NewCubeMesh() *GLMesh {
	faces := []struct {
		normal mgl32.Vec3
		u, v   mgl32.Vec3
	}{
		{mgl32.Vec3{0, 0, 1}, mgl32.Vec3{1, 0, 0}, mgl32.Vec3{0, 1, 0}},
		{mgl32.Vec3{0, 0, -1}, mgl32.Vec3{-1, 0, 0}, mgl32.Vec3{0, 1, 0}},
		{mgl32.Vec3{1, 0, 0}, mgl32.Vec3{0, 0, -1}, mgl32.Vec3{0, 1, 0}},
		{mgl32.Vec3{-1, 0, 0}, mgl32.Vec3{0, 0, 1}, mgl32.Vec3{0, 1, 0}},
		{mgl32.Vec3{0, 1, 0}, mgl32.Vec3{1, 0, 0}, mgl32.Vec3{0, 0, -1}},
		{mgl32.Vec3{0, -1, 0}, mgl32.Vec3{1, 0, 0}, mgl32.Vec3{0, 0, 1}},
	}
	var vertices []float32
	var indices []uint32
	for fi, f := range faces {
		base := uint32(fi * 4)
		corners := [4][2]float32{{-1, -1}, {1, -1}, {1, 1}, {-1, 1}}
		for _, c := range corners {
			p := f.normal.Add(f.u.Mul(c[0])).Add(f.v.Mul(c[1]))
			vertices = append(vertices,
				p.X(), p.Y(), p.Z(),
				(c[0]+1)/2, (c[1]+1)/2,
				f.normal.X(), f.normal.Y(), f.normal.Z())
		}
		indices = append(indices, base, base+1, base+2, base, base+2, base+3)
	}
	return NewGLMesh(vertices, indices)
}

// NewSphereMesh is a unit UV sphere centered at the origin.
func NewSphereMesh(segments int) *GLMesh {
	if segments < 3 {
		segments = 3
	}
	var vertices []float32
	var indices []uint32

	for ring := 0; ring <= segments; ring++ {
		phi := math.Pi * float64(ring) / float64(segments)
		for seg := 0; seg <= segments; seg++ {
			theta := 2 * math.Pi * float64(seg) / float64(segments)
			x := float32(math.Sin(phi) * math.Cos(theta))
			y := float32(math.Cos(phi))
			z := float32(math.Sin(phi) * math.Sin(theta))
			u := float32(seg) / float32(segments)
			v := float32(ring) / float32(segments)
			vertices = append(vertices, x, y, z, u, v, x, y, z)
		}
	}
	stride := uint32(segments + 1)
	for ring := 0; ring < segments; ring++ {
		for seg := 0; seg < segments; seg++ {
			a := uint32(ring)*stride + uint32(seg)
			b := a + stride
			indices = append(indices, a, b, a+1, a+1, b, b+1)
		}
	}
	return NewGLMesh(vertices, indices)
}

// NewGLPrimitives builds the unit meshes the screen-space and volume passes
// share.
func NewGLPrimitives() Primitives {
	return Primitives{
		Quad:   NewQuadMesh(),
		Cube:   NewCubeMesh(),
		Sphere: NewSphereMesh(32),
		Plane:  NewPlaneMesh(),
	}
}
