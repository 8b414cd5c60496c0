package renderer

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

func uniformFaces(size int, r, g, b float32) [CubemapFaces][]float32 {
	var faces [CubemapFaces][]float32
	for f := 0; f < CubemapFaces; f++ {
		pixels := make([]float32, size*size*4)
		for i := 0; i < len(pixels); i += 4 {
			pixels[i], pixels[i+1], pixels[i+2], pixels[i+3] = r, g, b, 1
		}
		faces[f] = pixels
	}
	return faces
}

func TestTexelSolidAnglesCoverSphere(t *testing.T) {
	size := 16
	texel := 2.0 / float64(size)
	total := 0.0
	for face := 0; face < CubemapFaces; face++ {
		for y := 0; y < size; y++ {
			for x := 0; x < size; x++ {
				u := 2*(float64(x)+0.5)/float64(size) - 1
				v := 2*(float64(y)+0.5)/float64(size) - 1
				total += texelSolidAngle(u, v, texel)
			}
		}
	}
	if math.Abs(total-4*math.Pi) > 1e-6 {
		t.Errorf("summed solid angle = %v, want 4*pi", total)
	}
}

func TestCubemapTexelDirections(t *testing.T) {
	cases := []struct {
		face int
		want mgl32.Vec3
	}{
		{0, mgl32.Vec3{1, 0, 0}},
		{1, mgl32.Vec3{-1, 0, 0}},
		{2, mgl32.Vec3{0, 1, 0}},
		{3, mgl32.Vec3{0, -1, 0}},
		{4, mgl32.Vec3{0, 0, 1}},
		{5, mgl32.Vec3{0, 0, -1}},
	}
	for _, tc := range cases {
		got := cubemapTexelDirection(tc.face, 0.5, 0.5)
		if got.Sub(tc.want).Len() > 1e-6 {
			t.Errorf("face %d center direction = %v, want %v", tc.face, got, tc.want)
		}
	}

	// Every direction must be unit length.
	for face := 0; face < CubemapFaces; face++ {
		d := cubemapTexelDirection(face, 0.03125, 0.96875)
		if math.Abs(float64(d.Len())-1) > 1e-6 {
			t.Errorf("face %d corner direction not normalized: %v", face, d)
		}
	}
}

func TestProjectUniformEnvironment(t *testing.T) {
	size := 32
	faces := uniformFaces(size, 1, 0.5, 0.25)
	sh := ProjectCubemapToSH(faces, size)

	// A constant environment projects entirely onto the DC band:
	// integral of the constant basis over the sphere.
	wantDC := float32(shBasisConst[0] * 4 * math.Pi)
	got := sh.Coeffs[0]
	if math.Abs(float64(got.X()-wantDC)) > 1e-3 ||
		math.Abs(float64(got.Y()-wantDC*0.5)) > 1e-3 ||
		math.Abs(float64(got.Z()-wantDC*0.25)) > 1e-3 {
		t.Errorf("DC coefficient = %v, want ~%v scaled per channel", got, wantDC)
	}

	for i := 1; i < 9; i++ {
		if sh.Coeffs[i].Len() > 1e-3 {
			t.Errorf("coefficient %d = %v, want ~zero for a constant environment", i, sh.Coeffs[i])
		}
	}
}

func TestProjectDirectionalEnvironment(t *testing.T) {
	size := 32
	faces := uniformFaces(size, 0, 0, 0)
	// Light only the +Y face.
	for i := 0; i < size*size*4; i += 4 {
		faces[2][i] = 1
	}
	sh := ProjectCubemapToSH(faces, size)

	// The linear Y band must pick up the asymmetry, positively.
	if sh.Coeffs[1].X() <= 0.1 {
		t.Errorf("Y band coefficient = %v, want strongly positive for +Y light", sh.Coeffs[1])
	}
	// X and Z bands stay balanced.
	if math.Abs(float64(sh.Coeffs[2].X())) > 1e-3 || math.Abs(float64(sh.Coeffs[3].X())) > 1e-3 {
		t.Errorf("X/Z bands = %v / %v, want ~zero", sh.Coeffs[3], sh.Coeffs[2])
	}
}

func TestProjectRejectsShortFace(t *testing.T) {
	size := 8
	faces := uniformFaces(size, 1, 1, 1)
	faces[0] = faces[0][:4] // truncated capture

	sh := ProjectCubemapToSH(faces, size)
	full := ProjectCubemapToSH(uniformFaces(size, 1, 1, 1), size)
	if sh.Coeffs[0].X() >= full.Coeffs[0].X() {
		t.Error("truncated face must be skipped, lowering the integral")
	}

	var zero SphericalHarmonics
	if ProjectCubemapToSH(uniformFaces(size, 1, 1, 1), 0) != zero {
		t.Error("non-positive size must produce the zero projection")
	}
}
