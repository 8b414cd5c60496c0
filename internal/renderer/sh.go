package renderer

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// Second-order spherical harmonics projection of a cubemap, used to
// compress a probe capture into 9 RGB coefficients.

var shBasisConst = [9]float64{
	0.282095,
	0.488603, 0.488603, 0.488603,
	1.092548, 1.092548, 1.092548,
	0.315392,
	0.546274,
}

// shBasis evaluates the 9 basis functions for a unit direction.
func shBasis(dir mgl32.Vec3) [9]float64 {
	x, y, z := float64(dir.X()), float64(dir.Y()), float64(dir.Z())
	return [9]float64{
		shBasisConst[0],
		shBasisConst[1] * y,
		shBasisConst[2] * z,
		shBasisConst[3] * x,
		shBasisConst[4] * x * y,
		shBasisConst[5] * y * z,
		shBasisConst[6] * x * z,
		shBasisConst[7] * (3*z*z - 1),
		shBasisConst[8] * (x*x - y*y),
	}
}

// cubemapTexelDirection maps a texel center of the given face to its world
// direction. u and v are in [0,1); faces follow +X -X +Y -Y +Z -Z.
func cubemapTexelDirection(face int, u, v float32) mgl32.Vec3 {
	// [-1,1] across the face.
	uc := 2*u - 1
	vc := 2*v - 1
	var dir mgl32.Vec3
	switch face {
	case 0:
		dir = mgl32.Vec3{1, -vc, -uc}
	case 1:
		dir = mgl32.Vec3{-1, -vc, uc}
	case 2:
		dir = mgl32.Vec3{uc, 1, vc}
	case 3:
		dir = mgl32.Vec3{uc, -1, -vc}
	case 4:
		dir = mgl32.Vec3{uc, -vc, 1}
	default:
		dir = mgl32.Vec3{-uc, -vc, -1}
	}
	return dir.Normalize()
}

// texelSolidAngle is the solid angle subtended by the texel at (u,v) in
// [-1,1] face coordinates with the given texel width.
func texelSolidAngle(u, v, texelSize float64) float64 {
	x0, x1 := u-texelSize/2, u+texelSize/2
	y0, y1 := v-texelSize/2, v+texelSize/2
	return areaElement(x0, y0) - areaElement(x0, y1) - areaElement(x1, y0) + areaElement(x1, y1)
}

func areaElement(x, y float64) float64 {
	return math.Atan2(x*y, math.Sqrt(x*x+y*y+1))
}

// ProjectCubemapToSH integrates the six RGBA float faces against the SH
// basis. Every face must be size*size texels, laid out row-major bottom-up
// as ReadPixels returns them.
func ProjectCubemapToSH(faces [CubemapFaces][]float32, size int) SphericalHarmonics {
	var sh SphericalHarmonics
	if size <= 0 {
		return sh
	}
	var accum [9][3]float64
	texel := 2.0 / float64(size)

	for face := 0; face < CubemapFaces; face++ {
		pixels := faces[face]
		if len(pixels) < size*size*4 {
			continue
		}
		for y := 0; y < size; y++ {
			for x := 0; x < size; x++ {
				u := (float32(x) + 0.5) / float32(size)
				v := (float32(y) + 0.5) / float32(size)
				dir := cubemapTexelDirection(face, u, v)
				weight := texelSolidAngle(2*float64(u)-1, 2*float64(v)-1, texel)
				basis := shBasis(dir)

				idx := (y*size + x) * 4
				r := float64(pixels[idx])
				g := float64(pixels[idx+1])
				b := float64(pixels[idx+2])
				for i := 0; i < 9; i++ {
					accum[i][0] += r * basis[i] * weight
					accum[i][1] += g * basis[i] * weight
					accum[i][2] += b * basis[i] * weight
				}
			}
		}
	}

	for i := 0; i < 9; i++ {
		sh.Coeffs[i] = mgl32.Vec3{
			float32(accum[i][0]),
			float32(accum[i][1]),
			float32(accum[i][2]),
		}
	}
	return sh
}
