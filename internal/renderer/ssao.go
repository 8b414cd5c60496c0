package renderer

import (
	"math"
	"math/rand"

	perlin "github.com/aquilax/go-perlin"
	"github.com/go-gl/mathgl/mgl32"
)

const (
	ssaoKernelSize = 64
	ssaoNoiseSize  = 4
	ssaoKernelSeed = 1337
)

// generateSSAOKernel builds a cosine-weighted hemisphere of sample offsets
// oriented along +Z. Samples cluster towards the origin so nearby occluders
// weigh more. The seed is fixed so the kernel is stable across runs.
func generateSSAOKernel(count int) []mgl32.Vec3 {
	rng := rand.New(rand.NewSource(ssaoKernelSeed))
	kernel := make([]mgl32.Vec3, count)
	for i := range kernel {
		v := mgl32.Vec3{
			rng.Float32()*2 - 1,
			rng.Float32()*2 - 1,
			rng.Float32(),
		}
		if v.Len() > 0 {
			v = v.Normalize()
		} else {
			v = mgl32.Vec3{0, 0, 1}
		}
		v = v.Mul(rng.Float32())
		scale := float32(i) / float32(count)
		scale = 0.1 + 0.9*scale*scale
		kernel[i] = v.Mul(scale)
	}
	return kernel
}

// createSSAONoiseTexture packs a small tiling texture of random rotation
// vectors used to jitter the kernel per pixel. Perlin noise keeps adjacent
// texels correlated, which reads as less speckle after the blur pass.
func createSSAONoiseTexture(device Device) Texture {
	p := perlin.NewPerlin(2, 2, 3, ssaoKernelSeed)
	texels := make([]float32, 0, ssaoNoiseSize*ssaoNoiseSize*4)
	for y := 0; y < ssaoNoiseSize; y++ {
		for x := 0; x < ssaoNoiseSize; x++ {
			fx := float64(x) / ssaoNoiseSize
			fy := float64(y) / ssaoNoiseSize
			angle := p.Noise2D(fx, fy) * math.Pi * 2
			texels = append(texels,
				float32(math.Cos(angle)),
				float32(math.Sin(angle)),
				0, 0)
		}
	}
	return device.CreateDataTexture(ssaoNoiseSize, ssaoNoiseSize, texels, true)
}

// renderSSAOStage computes half-resolution ambient occlusion from the
// G-buffer depth and normals, then box-blurs it to hide the sampling
// pattern. The result lands in ssaoTarget for the illumination stage.
func (r *Renderer) renderSSAOStage(camera *Camera, gb Target) {
	shader := r.getShader("ssao")
	if shader == nil {
		return
	}

	target := r.ensureSSAOTarget()
	target.Bind()
	w, h := target.Size()
	r.device.Viewport(0, 0, w, h)
	r.device.SetDepth(false, false, DepthLess)
	r.device.SetBlend(BlendNone)

	shader.Enable()
	shader.SetMat4("u_viewprojection", camera.GetViewProjection())
	shader.SetMat4("u_inverse_viewprojection", camera.GetViewProjection().Inv())
	shader.SetVec2("u_iRes", mgl32.Vec2{1 / float32(w), 1 / float32(h)})
	shader.SetTexture("u_depth_texture", gb.DepthTexture(), 0)
	shader.SetTexture("u_normal_texture", gb.ColorTexture(1), 1)
	shader.SetTexture("u_noise_texture", r.ssaoNoise, 2)
	shader.SetVec3Array("u_points", r.ssaoKernel)
	shader.SetInt("u_num_points", int32(len(r.ssaoKernel)))
	shader.SetFloat("u_radius", r.State.SSAORadius)
	shader.SetBool("u_ssao_plus", r.State.SSAOPlus)
	r.prims.Quad.Render(Triangles)
	shader.Disable()

	target.Unbind()
	r.blurTarget(target, 1)
	r.device.SetDepth(true, true, DepthLess)
}

// blurTarget runs iterations of a separable blur over the target's first
// color attachment, ping-ponging through the shared scratch buffer.
func (r *Renderer) blurTarget(target Target, iterations int) {
	shader := r.getShader("blur")
	if shader == nil {
		return
	}
	w, h := target.Size()
	scratch := r.ensureBlurScratch(w, h)

	shader.Enable()
	shader.SetVec2("u_iRes", mgl32.Vec2{1 / float32(w), 1 / float32(h)})
	for i := 0; i < iterations; i++ {
		scratch.Bind()
		r.device.Viewport(0, 0, w, h)
		shader.SetVec2("u_direction", mgl32.Vec2{1, 0})
		shader.SetTexture("u_texture", target.ColorTexture(0), 0)
		r.prims.Quad.Render(Triangles)
		scratch.Unbind()

		target.Bind()
		r.device.Viewport(0, 0, w, h)
		shader.SetVec2("u_direction", mgl32.Vec2{0, 1})
		shader.SetTexture("u_texture", scratch.ColorTexture(0), 0)
		r.prims.Quad.Render(Triangles)
		target.Unbind()
	}
	shader.Disable()
}
