package renderer

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

func shadowTestScene(camera *Camera) (*Scene, *fakeMesh) {
	mesh := newFakeMesh("caster")
	scene, ent := newTestScene(mesh, NewMaterial("mat"))
	ent.Model = mgl32.Translate3D(
		camera.Position.X(), camera.Position.Y(), camera.Position.Z()-30)
	return scene, mesh
}

func visibleShadowLight(camera *Camera) *Light {
	l := NewLight(SpotLight)
	l.Position = camera.Position.Add(mgl32.Vec3{0, 20, -30})
	l.Direction = mgl32.Vec3{0, -1, 0}
	l.MaxDistance = 100
	l.CastShadow = true
	return l
}

func TestGenerateShadowMapsNoCasters(t *testing.T) {
	r, device, _ := newTestRenderer(800, 600)
	camera := testCamera()
	scene, _ := shadowTestScene(camera)

	plain := NewLight(PointLight)
	plain.Position = camera.Position.Add(mgl32.Vec3{0, 0, -10})
	r.lights = []*Light{plain}
	r.GenerateShadowMaps(scene, camera)

	if len(device.targets) != 0 {
		t.Error("no casters, no depth targets")
	}
	if plain.ShadowTarget != nil {
		t.Error("non-casting light must not get a shadow target")
	}
}

func TestGenerateShadowMapsAllocatesQualityTarget(t *testing.T) {
	r, _, _ := newTestRenderer(800, 600)
	r.State.Quality = QualityMedium
	camera := testCamera()
	scene, mesh := shadowTestScene(camera)

	light := visibleShadowLight(camera)
	r.lights = []*Light{light}
	r.GenerateShadowMaps(scene, camera)

	target, ok := light.ShadowTarget.(*fakeTarget)
	if !ok {
		t.Fatal("caster did not get a shadow target")
	}
	if target.w != 2048 || target.h != 2048 {
		t.Errorf("shadow target %dx%d, want medium quality 2048", target.w, target.h)
	}
	if !target.depthOnly {
		t.Error("shadow target must be depth only")
	}
	if mesh.draws != 1 {
		t.Errorf("caster mesh drew %d times, want 1 depth pass", mesh.draws)
	}
	if target.binds != 1 || target.unbinds != 1 {
		t.Errorf("target bind/unbind = %d/%d", target.binds, target.unbinds)
	}
}

func TestGenerateShadowMapsSkipsOutOfFrustumLight(t *testing.T) {
	r, _, _ := newTestRenderer(800, 600)
	camera := testCamera()
	scene, mesh := shadowTestScene(camera)

	behind := visibleShadowLight(camera)
	behind.Position = mgl32.Vec3{0, 0, 1e6}
	behind.MaxDistance = 10
	r.lights = []*Light{behind}
	r.GenerateShadowMaps(scene, camera)

	if behind.ShadowTarget != nil {
		t.Error("light outside the frustum keeps no fresh map")
	}
	if mesh.draws != 0 {
		t.Error("no visible caster light, no depth draws")
	}
}

func TestShadowPassIgnoresViewCulling(t *testing.T) {
	r, _, _ := newTestRenderer(800, 600)
	camera := testCamera()
	scene, _ := shadowTestScene(camera)

	// Behind the view camera but inside the light's reach: still a caster.
	offscreen := newFakeMesh("offscreen")
	scene, ent := newTestScene(offscreen, NewMaterial("m"))
	ent.Model = mgl32.Translate3D(0, 0, camera.Position.Z()+500)

	light := visibleShadowLight(camera)
	r.lights = []*Light{light}
	r.GenerateShadowMaps(scene, camera)

	if offscreen.draws != 1 {
		t.Error("shadow pass must re-collect the scene without view culling")
	}
}

func TestShadowAtlasPacksTiles(t *testing.T) {
	r, device, _ := newTestRenderer(800, 600)
	r.State.SinglePassShadows = true
	r.State.Quality = QualityLow
	camera := testCamera()
	scene, mesh := shadowTestScene(camera)

	lights := make([]*Light, 3)
	for i := range lights {
		lights[i] = visibleShadowLight(camera)
	}
	r.lights = lights
	r.GenerateShadowMaps(scene, camera)

	if r.shadowAtlas == nil {
		t.Fatal("single-pass shadows must build the atlas")
	}
	atlas := r.shadowAtlas.(*fakeTarget)
	if atlas.w != 2048 {
		t.Errorf("atlas size = %d, want 2x the 1024 low-quality tile", atlas.w)
	}

	wantRegions := []mgl32.Vec4{
		{0, 0, 0.5, 0.5},
		{0.5, 0, 0.5, 0.5},
		{0, 0.5, 0.5, 0.5},
	}
	for i, l := range lights {
		if l.atlasRegion != wantRegions[i] {
			t.Errorf("light %d region = %v, want %v", i, l.atlasRegion, wantRegions[i])
		}
		if l.atlasSlot != i {
			t.Errorf("light %d slot = %d", i, l.atlasSlot)
		}
	}
	if mesh.draws != len(lights) {
		t.Errorf("caster drew %d times, want once per tile", mesh.draws)
	}
	if len(device.targets) != 1 {
		t.Errorf("targets allocated = %d, the atlas is shared", len(device.targets))
	}
}

func TestShadowAtlasCapsAtFourSlots(t *testing.T) {
	r, _, _ := newTestRenderer(800, 600)
	r.State.SinglePassShadows = true
	camera := testCamera()
	scene, mesh := shadowTestScene(camera)

	lights := make([]*Light, 6)
	for i := range lights {
		lights[i] = visibleShadowLight(camera)
	}
	r.lights = lights
	r.GenerateShadowMaps(scene, camera)

	if mesh.draws != shadowAtlasSlots {
		t.Errorf("caster drew %d times, atlas holds %d tiles", mesh.draws, shadowAtlasSlots)
	}
}

func TestShadowAtlasRebuildsOnQualityChange(t *testing.T) {
	r, device, _ := newTestRenderer(800, 600)
	r.State.SinglePassShadows = true
	r.State.Quality = QualityLow
	camera := testCamera()
	scene, _ := shadowTestScene(camera)

	r.lights = []*Light{visibleShadowLight(camera)}
	r.GenerateShadowMaps(scene, camera)
	first := r.shadowAtlas

	r.State.Quality = QualityUltra
	r.GenerateShadowMaps(scene, camera)

	if r.shadowAtlas == first {
		t.Error("quality change must reallocate the atlas")
	}
	if got := r.shadowAtlas.(*fakeTarget).w; got != 8192 {
		t.Errorf("atlas size = %d, want 2x the 4096 ultra tile", got)
	}
	if len(device.targets) != 2 {
		t.Errorf("targets allocated = %d, want old plus new atlas", len(device.targets))
	}
}

func TestUploadShadowAtlasArrays(t *testing.T) {
	r, _, _ := newTestRenderer(800, 600)
	r.State.SinglePassShadows = true
	camera := testCamera()
	scene, _ := shadowTestScene(camera)

	caster := visibleShadowLight(camera)
	passive := NewLight(PointLight)
	passive.Position = camera.Position.Add(mgl32.Vec3{0, 0, -10})
	r.lights = []*Light{caster, passive}
	r.GenerateShadowMaps(scene, camera)

	shader := newFakeShader("singlepass")
	r.uploadShadowAtlas(shader, r.lights)

	regions := shader.vec4Arrays["u_shadow_region"]
	if len(regions) != 2 || regions[0] != caster.atlasRegion {
		t.Errorf("region array = %v", regions)
	}
	cast := shader.intArrays["u_light_cast_shadow"]
	if len(cast) != 2 || cast[0] != 1 || cast[1] != 0 {
		t.Errorf("cast flags = %v", cast)
	}
	if len(shader.mat4Arrays["u_shadow_viewproj"]) != 2 {
		t.Error("missing reprojection matrices")
	}
	if shader.textures["u_shadow_atlas"].slot != 8 {
		t.Errorf("atlas bound to slot %d, want 8", shader.textures["u_shadow_atlas"].slot)
	}
}

func TestShadowResolutionPerQuality(t *testing.T) {
	cases := map[QualityLevel]int32{
		QualityLow:    1024,
		QualityMedium: 2048,
		QualityHigh:   3072,
		QualityUltra:  4096,
	}
	for q, want := range cases {
		if got := q.ShadowResolution(); got != want {
			t.Errorf("quality %d resolution = %d, want %d", q, got, want)
		}
	}
}
