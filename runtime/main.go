// The runtime is the bare scene viewer: the render window without the
// editor panel. Pipeline settings come from DefaultPipelineState.
package main

import (
	"Lumen3D/internal/engine"
	"Lumen3D/internal/renderer"

	"github.com/go-gl/mathgl/mgl32"
)

func main() {
	lm := engine.NewLumen("assets/shaders")

	lm.SetOnReadyCallback(func() {
		scene := lm.Scene
		scene.AmbientLight = mgl32.Vec3{0.2, 0.2, 0.2}

		ground := renderer.NewMaterial("ground")
		ground.Color = mgl32.Vec4{0.45, 0.45, 0.45, 1}
		root := renderer.NewNode()
		root.Mesh = renderer.NewPlaneMesh()
		root.Material = ground
		floor := renderer.NewPrefabEntity("floor", &renderer.Prefab{Name: "floor", Root: *root})
		floor.Model = mgl32.Scale3D(150, 1, 150)
		scene.AddEntity(floor)

		sun := renderer.NewLight(renderer.DirectionalLight)
		sun.Position = mgl32.Vec3{50, 100, 50}
		sun.Direction = mgl32.Vec3{-0.5, -1, -0.5}.Normalize()
		sun.CastShadow = true
		sun.UpdateShadowCamera()
		scene.AddEntity(renderer.NewLightEntity("sun", sun))
	})

	lm.Run(200, 100)
}
