package renderer

import "github.com/go-gl/mathgl/mgl32"

// SphericalHarmonics holds the 9 RGB coefficients of a second-order SH
// projection of incoming radiance.
type SphericalHarmonics struct {
	Coeffs [9]mgl32.Vec3
}

// Probe is one sample point of an irradiance volume.
type Probe struct {
	Position mgl32.Vec3
	Local    [3]int32 // grid coordinate
	Index    int32    // linear index: x + y*dim.x + z*dim.x*dim.y
	Size     float32
	SH       SphericalHarmonics
}

// IrradianceVolume is a regular 3D grid of irradiance probes. Positions are
// regenerated whenever the grid parameters change; coefficients are only
// populated by an explicit bake.
type IrradianceVolume struct {
	Start mgl32.Vec3
	End   mgl32.Vec3
	Delta mgl32.Vec3
	Dim   [3]int32
	Size  float32 // probe marker radius

	Probes []Probe

	// Lookup texture packing all coefficients, 9 texels per probe, one row
	// per probe. Rebuilt after every bake or load.
	texture Texture
}

func NewIrradianceVolume(start, end mgl32.Vec3, dim [3]int32) *IrradianceVolume {
	v := &IrradianceVolume{Start: start, End: end, Dim: dim, Size: 5}
	v.UpdateDelta()
	v.PlaceProbes()
	return v
}

// UpdateDelta recomputes the per-axis probe spacing from the grid extents.
func (v *IrradianceVolume) UpdateDelta() {
	delta := v.End.Sub(v.Start)
	for i := 0; i < 3; i++ {
		if v.Dim[i] > 1 {
			delta[i] /= float32(v.Dim[i] - 1)
		} else {
			delta[i] = 0
		}
	}
	v.Delta = delta
}

// PlaceProbes regenerates probe positions for the current grid parameters.
// Deterministic: identical inputs produce identical positions and indices.
// Existing coefficients are discarded; only a bake fills them.
func (v *IrradianceVolume) PlaceProbes() {
	v.Probes = v.Probes[:0]
	for z := int32(0); z < v.Dim[2]; z++ {
		for y := int32(0); y < v.Dim[1]; y++ {
			for x := int32(0); x < v.Dim[0]; x++ {
				p := Probe{
					Local: [3]int32{x, y, z},
					Index: x + y*v.Dim[0] + z*v.Dim[0]*v.Dim[1],
					Size:  v.Size,
					Position: v.Start.Add(mgl32.Vec3{
						v.Delta.X() * float32(x),
						v.Delta.Y() * float32(y),
						v.Delta.Z() * float32(z),
					}),
				}
				v.Probes = append(v.Probes, p)
			}
		}
	}
}

// ProbeCount is dim.x * dim.y * dim.z.
func (v *IrradianceVolume) ProbeCount() int {
	return int(v.Dim[0] * v.Dim[1] * v.Dim[2])
}

// PackTexels lays out all probe coefficients row-major for the lookup
// texture: one row per probe, 9 RGBA texels per row, alpha unused.
func (v *IrradianceVolume) PackTexels() []float32 {
	texels := make([]float32, 0, len(v.Probes)*9*4)
	for _, p := range v.Probes {
		for _, c := range p.SH.Coeffs {
			texels = append(texels, c.X(), c.Y(), c.Z(), 1)
		}
	}
	return texels
}

// UploadTexture (re)builds the probe lookup texture. Nearest filtered, no
// mipmaps; shaders index it by probe row.
func (v *IrradianceVolume) UploadTexture(device Device) {
	if len(v.Probes) == 0 {
		return
	}
	v.texture = device.CreateDataTexture(9, int32(len(v.Probes)), v.PackTexels(), true)
}

// UploadToShader writes the volume's sampling uniforms.
func (v *IrradianceVolume) UploadToShader(shader Shader) {
	shader.SetVec3("u_irr_start", v.Start)
	shader.SetVec3("u_irr_end", v.End)
	shader.SetVec3("u_irr_delta", v.Delta)
	shader.SetVec3("u_irr_dims", mgl32.Vec3{float32(v.Dim[0]), float32(v.Dim[1]), float32(v.Dim[2])})
	shader.SetFloat("u_irr_normal_distance", 1)
	shader.SetFloat("u_num_probes", float32(len(v.Probes)))
	if v.texture != nil {
		shader.SetTexture("u_irr_texture", v.texture, 9)
	}
}

// ReflectionProbe captures the environment at a point into a cubemap. Baked
// on explicit operator action only, never automatically.
type ReflectionProbe struct {
	Position mgl32.Vec3
	Size     float32
	Cubemap  Texture
}

func NewReflectionProbe(position mgl32.Vec3, size float32) *ReflectionProbe {
	return &ReflectionProbe{Position: position, Size: size}
}
