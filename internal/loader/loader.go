package loader

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	"Lumen3D/internal/logger"
	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"
)

// MeshData is CPU-side geometry in the renderer's interleaved layout:
// position (3), texcoord (2), normal (3), 8 floats per vertex.
type MeshData struct {
	Vertices []float32
	Indices  []uint32
}

// objKey identifies one unique v/vt/vn combination of a face corner.
type objKey struct {
	v, vt, vn int
}

// LoadOBJ parses a Wavefront OBJ file into indexed interleaved geometry.
// Faces with more than three corners are fan triangulated. Corners sharing
// the same v/vt/vn triple share one output vertex. Normals are taken from
// the file unless recalculateNormals is set or the file has none.
func LoadOBJ(path string, recalculateNormals bool) (*MeshData, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	var positions []mgl32.Vec3
	var texcoords []mgl32.Vec2
	var normals []mgl32.Vec3

	data := &MeshData{}
	index := make(map[objKey]uint32)
	hadNormals := false

	resolve := func(key objKey) (uint32, error) {
		if i, ok := index[key]; ok {
			return i, nil
		}
		if key.v < 0 || key.v >= len(positions) {
			return 0, fmt.Errorf("vertex index %d out of range", key.v+1)
		}
		var uv mgl32.Vec2
		if key.vt >= 0 {
			if key.vt >= len(texcoords) {
				return 0, fmt.Errorf("texcoord index %d out of range", key.vt+1)
			}
			uv = texcoords[key.vt]
		}
		var n mgl32.Vec3
		if key.vn >= 0 {
			if key.vn >= len(normals) {
				return 0, fmt.Errorf("normal index %d out of range", key.vn+1)
			}
			n = normals[key.vn]
		}
		p := positions[key.v]
		data.Vertices = append(data.Vertices,
			p.X(), p.Y(), p.Z(), uv.X(), uv.Y(), n.X(), n.Y(), n.Z())
		i := uint32(len(data.Vertices)/8 - 1)
		index[key] = i
		return i, nil
	}

	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 1024*1024), 1024*1024)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		parts := strings.Fields(scanner.Text())
		if len(parts) == 0 || strings.HasPrefix(parts[0], "#") {
			continue
		}
		switch parts[0] {
		case "v":
			v, err := parseVec3(parts[1:])
			if err != nil {
				return nil, fmt.Errorf("line %d: %w", lineNo, err)
			}
			positions = append(positions, v)
		case "vt":
			if len(parts) < 3 {
				return nil, fmt.Errorf("line %d: short texcoord", lineNo)
			}
			u, err1 := parseFloat(parts[1])
			v, err2 := parseFloat(parts[2])
			if err1 != nil || err2 != nil {
				return nil, fmt.Errorf("line %d: bad texcoord", lineNo)
			}
			texcoords = append(texcoords, mgl32.Vec2{u, v})
		case "vn":
			n, err := parseVec3(parts[1:])
			if err != nil {
				return nil, fmt.Errorf("line %d: %w", lineNo, err)
			}
			normals = append(normals, n)
			hadNormals = true
		case "f":
			if len(parts) < 4 {
				return nil, fmt.Errorf("line %d: face with %d corners", lineNo, len(parts)-1)
			}
			corners := make([]uint32, 0, len(parts)-1)
			for _, spec := range parts[1:] {
				key, err := parseCorner(spec, len(positions), len(texcoords), len(normals))
				if err != nil {
					return nil, fmt.Errorf("line %d: %w", lineNo, err)
				}
				i, err := resolve(key)
				if err != nil {
					return nil, fmt.Errorf("line %d: %w", lineNo, err)
				}
				corners = append(corners, i)
			}
			for i := 1; i+1 < len(corners); i++ {
				data.Indices = append(data.Indices, corners[0], corners[i], corners[i+1])
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	if len(data.Indices) == 0 {
		return nil, fmt.Errorf("%s: no faces", path)
	}

	if recalculateNormals || !hadNormals {
		RecalculateNormals(data)
	}

	logger.Log.Info("model loaded",
		zap.String("file", path),
		zap.Int("vertices", len(data.Vertices)/8),
		zap.Int("triangles", len(data.Indices)/3))
	return data, nil
}

// RecalculateNormals rebuilds smooth per-vertex normals by accumulating the
// area-weighted face normals of every triangle touching each vertex.
func RecalculateNormals(data *MeshData) {
	count := len(data.Vertices) / 8
	accum := make([]mgl32.Vec3, count)

	for i := 0; i+2 < len(data.Indices); i += 3 {
		ia, ib, ic := data.Indices[i], data.Indices[i+1], data.Indices[i+2]
		a := vertexPosition(data.Vertices, ia)
		b := vertexPosition(data.Vertices, ib)
		c := vertexPosition(data.Vertices, ic)
		// Unnormalized cross product; larger triangles weigh more.
		n := b.Sub(a).Cross(c.Sub(a))
		accum[ia] = accum[ia].Add(n)
		accum[ib] = accum[ib].Add(n)
		accum[ic] = accum[ic].Add(n)
	}

	for i := 0; i < count; i++ {
		n := accum[i]
		if n.Len() > 1e-8 {
			n = n.Normalize()
		}
		data.Vertices[i*8+5] = n.X()
		data.Vertices[i*8+6] = n.Y()
		data.Vertices[i*8+7] = n.Z()
	}
}

func vertexPosition(vertices []float32, i uint32) mgl32.Vec3 {
	return mgl32.Vec3{vertices[i*8], vertices[i*8+1], vertices[i*8+2]}
}

// parseCorner decodes one face corner: "v", "v/vt", "v//vn" or "v/vt/vn".
// Indices are 1-based; negative indices count back from the current end of
// the respective list. Returned indices are 0-based, -1 for absent.
func parseCorner(spec string, nv, nvt, nvn int) (objKey, error) {
	key := objKey{v: -1, vt: -1, vn: -1}
	fields := strings.Split(spec, "/")
	counts := []int{nv, nvt, nvn}
	slots := []*int{&key.v, &key.vt, &key.vn}
	for i, f := range fields {
		if i >= 3 {
			break
		}
		if f == "" {
			continue
		}
		raw, err := strconv.Atoi(f)
		if err != nil {
			return key, fmt.Errorf("bad face corner %q", spec)
		}
		if raw < 0 {
			raw += counts[i] + 1
		}
		*slots[i] = raw - 1
	}
	if key.v < 0 {
		return key, fmt.Errorf("face corner %q has no vertex", spec)
	}
	return key, nil
}

func parseVec3(fields []string) (mgl32.Vec3, error) {
	if len(fields) < 3 {
		return mgl32.Vec3{}, fmt.Errorf("expected 3 components, got %d", len(fields))
	}
	var v mgl32.Vec3
	for i := 0; i < 3; i++ {
		f, err := parseFloat(fields[i])
		if err != nil {
			return v, err
		}
		v[i] = f
	}
	return v, nil
}

func parseFloat(s string) (float32, error) {
	f, err := strconv.ParseFloat(s, 32)
	return float32(f), err
}
