package renderer

import (
	"sort"

	"github.com/go-gl/mathgl/mgl32"
)

// farAwaySentinel stands in for distance-to-camera when no camera is
// supplied (shadow and probe sub-renders); sort order is irrelevant there.
const farAwaySentinel = float32(1e9)

// RenderCall is one drawable unit for one frame. Calls are rebuilt from
// scratch every frame and discarded after exactly one shading pass.
type RenderCall struct {
	Mesh             Mesh
	Material         *Material
	Model            mgl32.Mat4
	DistanceToCamera float32
	Alpha            bool
	NearestProbe     *ReflectionProbe
}

// CollectRenderCalls walks the entity list, expands prefab node trees with
// an explicit stack, frustum-culls against the camera and returns the draw
// list plus the scene's lights. A nil camera bypasses culling entirely,
// which is how shadow and probe sub-renders see the whole scene.
func CollectRenderCalls(scene *Scene, camera *Camera) ([]RenderCall, []*Light) {
	var calls []RenderCall
	var lights []*Light

	var frustum Frustum
	if camera != nil {
		frustum = camera.CalculateFrustum()
	}

	type stackEntry struct {
		node   *Node
		parent mgl32.Mat4
	}

	for _, ent := range scene.Entities {
		if !ent.Visible {
			continue
		}

		switch ent.Kind {
		case KindLight:
			lights = append(lights, ent.Light)

		case KindPrefab:
			if ent.Prefab == nil || ent.Prefab.Prefab == nil {
				continue
			}
			stack := []stackEntry{{node: &ent.Prefab.Prefab.Root, parent: ent.Model}}
			for len(stack) > 0 {
				top := stack[len(stack)-1]
				stack = stack[:len(stack)-1]

				node := top.node
				if !node.Visible {
					// Invisibility is inherited: the whole subtree is dropped.
					continue
				}
				world := top.parent.Mul4(node.Transform)

				if node.Mesh != nil && node.Material != nil {
					worldBox := TransformBoundingBox(world, node.Mesh.Bounds())
					if camera == nil || frustum.IntersectsBox(worldBox.Center, worldBox.HalfSize) {
						distance := farAwaySentinel
						if camera != nil {
							distance = worldBox.Center.Sub(camera.Position).Len()
						}
						calls = append(calls, RenderCall{
							Mesh:             node.Mesh,
							Material:         node.Material,
							Model:            world,
							DistanceToCamera: distance,
							Alpha:            node.Material.AlphaMode == AlphaBlend,
							NearestProbe:     ent.Prefab.NearestProbe,
						})
					}
				}

				// Push in reverse so children pop in declaration order.
				for i := len(node.Children) - 1; i >= 0; i-- {
					stack = append(stack, stackEntry{node: node.Children[i], parent: world})
				}
			}
		}
	}

	return calls, lights
}

// SortRenderCalls orders the list for drawing: far-to-near first, then a
// second stable pass that moves opaque calls ahead of alpha calls while
// keeping each group's distance order. Blending is not order independent,
// so the alpha group must stay back-to-front.
func SortRenderCalls(calls []RenderCall) {
	sort.SliceStable(calls, func(i, j int) bool {
		return calls[i].DistanceToCamera > calls[j].DistanceToCamera
	})
	sort.SliceStable(calls, func(i, j int) bool {
		return !calls[i].Alpha && calls[j].Alpha
	})
}
