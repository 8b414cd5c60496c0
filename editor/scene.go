package main

import (
	"Lumen3D/internal/behaviour"
	"Lumen3D/internal/engine"
	"Lumen3D/internal/loader"
	"Lumen3D/internal/logger"
	"Lumen3D/internal/renderer"

	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"
)

var textures = renderer.NewTextureManager()

// buildDemoScene populates the default editor scene: a ground plane, a few
// shaded prefabs, one light of each type, an irradiance grid and a
// reflection probe. Runs on the render thread with a live GL context.
func buildDemoScene(lm *engine.Lumen) {
	scene := lm.Scene
	scene.AmbientLight = mgl32.Vec3{0.15, 0.15, 0.18}
	scene.BackgroundColor = mgl32.Vec3{0.05, 0.06, 0.09}

	ground := renderer.NewMaterial("ground")
	ground.Color = mgl32.Vec4{0.4, 0.4, 0.42, 1}
	ground.RoughnessFactor = 0.9

	metal := renderer.NewMaterial("metal")
	metal.Color = mgl32.Vec4{0.9, 0.9, 0.95, 1}
	metal.MetallicFactor = 1
	metal.RoughnessFactor = 0.15

	glassy := renderer.NewMaterial("glassy")
	glassy.Color = mgl32.Vec4{0.2, 0.5, 0.9, 0.4}
	glassy.AlphaMode = renderer.AlphaBlend

	emissive := renderer.NewMaterial("lamp")
	emissive.Color = mgl32.Vec4{1, 1, 1, 1}
	emissive.EmissiveFactor = mgl32.Vec3{4, 3.2, 2.0}

	cube := renderer.NewCubeMesh()
	sphere := renderer.NewSphereMesh(32)
	plane := renderer.NewPlaneMesh()

	floor := prefabEntity("floor", plane, ground)
	floor.Model = mgl32.Scale3D(200, 1, 200)
	scene.AddEntity(floor)

	block := prefabEntity("block", cube, metal)
	block.Model = mgl32.Translate3D(-20, 10, 0).Mul4(mgl32.Scale3D(10, 10, 10))
	scene.AddEntity(block)

	orb := prefabEntity("orb", sphere, glassy)
	orb.Model = mgl32.Translate3D(20, 12, 10).Mul4(mgl32.Scale3D(12, 12, 12))
	scene.AddEntity(orb)

	lamp := prefabEntity("lamp", sphere, emissive)
	lamp.Model = mgl32.Translate3D(0, 30, -30).Mul4(mgl32.Scale3D(3, 3, 3))
	scene.AddEntity(lamp)

	if data, err := loader.LoadOBJ("assets/models/statue.obj", false); err != nil {
		logger.Log.Warn("statue model unavailable, skipped", zap.Error(err))
	} else {
		statue := prefabEntity("statue", renderer.NewGLMesh(data.Vertices, data.Indices), ground)
		statue.Model = mgl32.Translate3D(40, 0, -20).Mul4(mgl32.Scale3D(10, 10, 10))
		scene.AddEntity(statue)
	}

	sun := renderer.NewLight(renderer.DirectionalLight)
	sun.Position = mgl32.Vec3{60, 120, 40}
	sun.Direction = mgl32.Vec3{-0.4, -1, -0.3}.Normalize()
	sun.Color = mgl32.Vec3{1, 0.96, 0.88}
	sun.Intensity = 1.2
	sun.AreaSize = 400
	sun.CastShadow = true
	sun.UpdateShadowCamera()
	scene.AddEntity(renderer.NewLightEntity("sun", sun))

	spot := renderer.NewLight(renderer.SpotLight)
	spot.Position = mgl32.Vec3{-40, 50, 40}
	spot.Direction = mgl32.Vec3{0.5, -1, -0.5}.Normalize()
	spot.Color = mgl32.Vec3{0.9, 0.4, 0.2}
	spot.Intensity = 2.5
	spot.MaxDistance = 300
	spot.ConeAngle = 30
	spot.CastShadow = true
	spot.Volumetric = true
	spot.UpdateShadowCamera()
	scene.AddEntity(renderer.NewLightEntity("spot", spot))

	point := renderer.NewLight(renderer.PointLight)
	point.Position = mgl32.Vec3{0, 25, 30}
	point.Color = mgl32.Vec3{0.3, 0.5, 1}
	point.Intensity = 2
	point.MaxDistance = 120
	point.UpdateShadowCamera()
	scene.AddEntity(renderer.NewLightEntity("point", point))

	if tex, err := textures.Load("assets/textures/graffiti.png"); err != nil {
		logger.Log.Warn("decal texture unavailable, decal skipped", zap.Error(err))
	} else {
		decal := renderer.NewDecalEntity("graffiti", &renderer.Decal{Albedo: tex})
		decal.Model = mgl32.Translate3D(-20, 2, 20).Mul4(mgl32.Scale3D(8, 4, 8))
		scene.AddEntity(decal)
	}

	volume := renderer.NewIrradianceVolume(
		mgl32.Vec3{-90, 5, -90}, mgl32.Vec3{90, 60, 90}, [3]int32{6, 3, 6})
	scene.AddEntity(renderer.NewIrradianceEntity("irradiance", volume))

	probe := renderer.NewReflectionProbe(mgl32.Vec3{}, 8)
	probeEntity := renderer.NewReflectionProbeEntity("probe", probe)
	probeEntity.Model = mgl32.Translate3D(0, 20, 0)
	scene.AddEntity(probeEntity)

	scene.UpdateNearestReflectionProbes()

	lm.Behaviours.Add(&behaviour.Rotate{Entity: block, Speed: 20})
	lm.Behaviours.Add(&behaviour.Orbit{
		Light:  point,
		Center: mgl32.Vec3{0, 0, 0},
		Radius: 40,
		Height: 25,
		Speed:  30,
	})

	logger.Log.Info("demo scene ready", zap.Int("entities", len(scene.Entities)))
}

func prefabEntity(name string, mesh renderer.Mesh, material *renderer.Material) *renderer.Entity {
	root := renderer.NewNode()
	root.Mesh = mesh
	root.Material = material
	prefab := &renderer.Prefab{Name: name, Root: *root}
	return renderer.NewPrefabEntity(name, prefab)
}
