package loader

import (
	"math"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"Lumen3D/internal/logger"
)

var logOnce sync.Once

func writeOBJ(t *testing.T, content string) string {
	t.Helper()
	logOnce.Do(logger.Init)
	path := filepath.Join(t.TempDir(), "model.obj")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

const triangleOBJ = `# single triangle
v 0 0 0
v 1 0 0
v 0 1 0
vt 0 0
vt 1 0
vt 0 1
vn 0 0 1
f 1/1/1 2/2/1 3/3/1
`

func TestLoadOBJTriangle(t *testing.T) {
	data, err := LoadOBJ(writeOBJ(t, triangleOBJ), false)
	if err != nil {
		t.Fatal(err)
	}

	if len(data.Vertices) != 3*8 {
		t.Fatalf("vertex floats = %d, want 3 interleaved vertices", len(data.Vertices))
	}
	if len(data.Indices) != 3 {
		t.Fatalf("indices = %v", data.Indices)
	}

	// Second vertex: position (1,0,0), uv (1,0), normal (0,0,1).
	v := data.Vertices[8:16]
	want := []float32{1, 0, 0, 1, 0, 0, 0, 1}
	for i := range want {
		if v[i] != want[i] {
			t.Errorf("vertex[1][%d] = %v, want %v", i, v[i], want[i])
		}
	}
}

func TestLoadOBJQuadTriangulation(t *testing.T) {
	obj := `v 0 0 0
v 1 0 0
v 1 1 0
v 0 1 0
f 1 2 3 4
`
	data, err := LoadOBJ(writeOBJ(t, obj), false)
	if err != nil {
		t.Fatal(err)
	}

	if len(data.Indices) != 6 {
		t.Fatalf("indices = %v, want a two-triangle fan", data.Indices)
	}
	want := []uint32{0, 1, 2, 0, 2, 3}
	for i := range want {
		if data.Indices[i] != want[i] {
			t.Errorf("index %d = %d, want %d", i, data.Indices[i], want[i])
		}
	}
}

func TestLoadOBJSharedCorners(t *testing.T) {
	// Two triangles sharing an edge with identical v/vt/vn triples.
	obj := `v 0 0 0
v 1 0 0
v 1 1 0
v 0 1 0
vn 0 0 1
f 1//1 2//1 3//1
f 1//1 3//1 4//1
`
	data, err := LoadOBJ(writeOBJ(t, obj), false)
	if err != nil {
		t.Fatal(err)
	}
	if got := len(data.Vertices) / 8; got != 4 {
		t.Errorf("unique vertices = %d, shared corners must deduplicate", got)
	}
}

func TestLoadOBJNegativeIndices(t *testing.T) {
	obj := `v 0 0 0
v 1 0 0
v 0 1 0
f -3 -2 -1
`
	data, err := LoadOBJ(writeOBJ(t, obj), false)
	if err != nil {
		t.Fatal(err)
	}
	if len(data.Indices) != 3 {
		t.Fatalf("indices = %v", data.Indices)
	}
}

func TestLoadOBJRecalculatesMissingNormals(t *testing.T) {
	// XY-plane triangle without vn lines: normals must be generated.
	obj := `v 0 0 0
v 1 0 0
v 0 1 0
f 1 2 3
`
	data, err := LoadOBJ(writeOBJ(t, obj), false)
	if err != nil {
		t.Fatal(err)
	}
	for i := 0; i < len(data.Vertices)/8; i++ {
		nz := data.Vertices[i*8+7]
		if math.Abs(float64(nz)-1) > 1e-6 {
			t.Errorf("vertex %d normal z = %v, want 1 for a CCW XY triangle", i, nz)
		}
	}
}

func TestRecalculateNormalsAreaWeighted(t *testing.T) {
	data, err := LoadOBJ(writeOBJ(t, triangleOBJ), true)
	if err != nil {
		t.Fatal(err)
	}
	for i := 0; i < len(data.Vertices)/8; i++ {
		x := float64(data.Vertices[i*8+5])
		y := float64(data.Vertices[i*8+6])
		z := float64(data.Vertices[i*8+7])
		if math.Abs(math.Sqrt(x*x+y*y+z*z)-1) > 1e-5 {
			t.Errorf("vertex %d normal not unit length", i)
		}
	}
}

func TestLoadOBJErrors(t *testing.T) {
	if _, err := LoadOBJ("does-not-exist.obj", false); err == nil {
		t.Error("missing file must fail")
	}
	if _, err := LoadOBJ(writeOBJ(t, "v 0 0 0\n"), false); err == nil {
		t.Error("faceless file must fail")
	}
	if _, err := LoadOBJ(writeOBJ(t, "v 0 0 0\nf 1 2 3\n"), false); err == nil {
		t.Error("out-of-range face index must fail")
	}
	if _, err := LoadOBJ(writeOBJ(t, "v 0 0 0\nf 1 a 1\n"), false); err == nil {
		t.Error("malformed face corner must fail")
	}
}
