package renderer

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

func TestGenerateSSAOKernel(t *testing.T) {
	kernel := generateSSAOKernel(ssaoKernelSize)
	if len(kernel) != ssaoKernelSize {
		t.Fatalf("kernel size = %d", len(kernel))
	}

	for i, v := range kernel {
		if v.Z() < 0 {
			t.Errorf("sample %d = %v, hemisphere samples must not point below the surface", i, v)
		}
		if v.Len() > 1.001 {
			t.Errorf("sample %d length = %v, must stay inside the unit hemisphere", i, v.Len())
		}
	}

	// Early samples hug the origin, later ones reach further on average.
	firstHalf, secondHalf := float32(0), float32(0)
	for i, v := range kernel {
		if i < len(kernel)/2 {
			firstHalf += v.Len()
		} else {
			secondHalf += v.Len()
		}
	}
	if firstHalf >= secondHalf {
		t.Errorf("sample lengths not front-loaded towards the origin: %v vs %v", firstHalf, secondHalf)
	}

	// Fixed seed, stable kernel.
	again := generateSSAOKernel(ssaoKernelSize)
	for i := range kernel {
		if kernel[i] != again[i] {
			t.Fatalf("sample %d differs between runs", i)
		}
	}
}

func TestCreateSSAONoiseTexture(t *testing.T) {
	device := newFakeDevice()
	tex := createSSAONoiseTexture(device).(*fakeTexture)

	if tex.w != ssaoNoiseSize || tex.h != ssaoNoiseSize {
		t.Errorf("noise texture %dx%d, want %d", tex.w, tex.h, ssaoNoiseSize)
	}
	if len(tex.texels) != ssaoNoiseSize*ssaoNoiseSize*4 {
		t.Fatalf("texel count = %d", len(tex.texels))
	}
	for i := 0; i < len(tex.texels); i += 4 {
		x, y := float64(tex.texels[i]), float64(tex.texels[i+1])
		if math.Abs(x*x+y*y-1) > 1e-5 {
			t.Errorf("texel %d rotation (%v,%v) not unit length", i/4, x, y)
		}
	}
}

func TestRenderSSAOStageHalfResolution(t *testing.T) {
	r, _, lib := newTestRenderer(800, 600)
	r.State.SSAORadius = 7

	gb := r.ensureGBuffer()
	r.renderSSAOStage(testCamera(), gb)

	target := r.ssaoTarget.(*fakeTarget)
	if target.w != 400 || target.h != 300 {
		t.Errorf("SSAO target %dx%d, want half resolution", target.w, target.h)
	}

	sh := lib.shaders["ssao"]
	if len(sh.vec3Arrays["u_points"]) != ssaoKernelSize {
		t.Errorf("uploaded %d kernel points", len(sh.vec3Arrays["u_points"]))
	}
	if sh.ints["u_num_points"] != ssaoKernelSize {
		t.Errorf("u_num_points = %d", sh.ints["u_num_points"])
	}
	if sh.floats["u_radius"] != 7 {
		t.Errorf("u_radius = %v", sh.floats["u_radius"])
	}
	if lib.shaders["blur"] == nil {
		t.Error("SSAO result must be blurred")
	}
}

func TestBlurTargetPingPong(t *testing.T) {
	r, _, lib := newTestRenderer(800, 600)
	target := newFakeTarget("blurme", 128, 64, 1, false)

	quad := r.prims.Quad.(*fakeMesh)
	var directions []mgl32.Vec2
	quad.onRender = func() {
		directions = append(directions, lib.shaders["blur"].vec2s["u_direction"])
	}

	r.blurTarget(target, 2)

	want := []mgl32.Vec2{{1, 0}, {0, 1}, {1, 0}, {0, 1}}
	if len(directions) != len(want) {
		t.Fatalf("blur draws = %d, want %d", len(directions), len(want))
	}
	for i := range want {
		if directions[i] != want[i] {
			t.Errorf("pass %d direction = %v, want %v", i, directions[i], want[i])
		}
	}

	scratch := r.blurScratch.(*fakeTarget)
	if scratch.w != 128 || scratch.h != 64 {
		t.Errorf("scratch %dx%d, must match the blurred target", scratch.w, scratch.h)
	}
	if target.binds != 2 || scratch.binds != 2 {
		t.Errorf("bind counts target=%d scratch=%d", target.binds, scratch.binds)
	}
}
