package renderer

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/google/uuid"
)

type EntityKind int

const (
	KindNone EntityKind = iota
	KindPrefab
	KindLight
	KindDecal
	KindReflectionProbe
	KindIrradianceVolume
)

// Entity is one element of the scene. Instead of a subclass hierarchy the
// envelope carries the shared fields and exactly one kind-specific payload;
// consumers dispatch on Kind.
type Entity struct {
	Id      uuid.UUID
	Name    string
	Kind    EntityKind
	Model   mgl32.Mat4
	Visible bool

	Prefab          *PrefabInstance
	Light           *Light
	Decal           *Decal
	ReflectionProbe *ReflectionProbe
	Irradiance      *IrradianceVolume
}

func newEntity(name string, kind EntityKind) *Entity {
	return &Entity{
		Id:      uuid.New(),
		Name:    name,
		Kind:    kind,
		Model:   mgl32.Ident4(),
		Visible: true,
	}
}

func NewPrefabEntity(name string, prefab *Prefab) *Entity {
	e := newEntity(name, KindPrefab)
	e.Prefab = &PrefabInstance{Prefab: prefab}
	return e
}

func NewLightEntity(name string, light *Light) *Entity {
	e := newEntity(name, KindLight)
	e.Light = light
	return e
}

func NewDecalEntity(name string, decal *Decal) *Entity {
	e := newEntity(name, KindDecal)
	e.Decal = decal
	return e
}

func NewReflectionProbeEntity(name string, probe *ReflectionProbe) *Entity {
	e := newEntity(name, KindReflectionProbe)
	e.ReflectionProbe = probe
	return e
}

func NewIrradianceEntity(name string, volume *IrradianceVolume) *Entity {
	e := newEntity(name, KindIrradianceVolume)
	e.Irradiance = volume
	return e
}

// PrefabInstance places a prefab in the world. NearestProbe is resolved per
// entity, not per mesh, and feeds the reflection lookup at shading time.
type PrefabInstance struct {
	Prefab       *Prefab
	NearestProbe *ReflectionProbe
}

type Prefab struct {
	Name string
	Root Node
}

// Node is one element of a prefab hierarchy. A node with both a mesh and a
// material is drawable; others only carry transforms. Invisibility is
// inherited by the whole subtree.
type Node struct {
	Visible   bool
	Mesh      Mesh
	Material  *Material
	Transform mgl32.Mat4
	Children  []*Node
}

func NewNode() *Node {
	return &Node{Visible: true, Transform: mgl32.Ident4()}
}

type AlphaMode int

const (
	AlphaOpaque AlphaMode = iota
	AlphaMask
	AlphaBlend
)

type Material struct {
	Name        string
	Color       mgl32.Vec4
	AlphaMode   AlphaMode
	AlphaCutoff float32
	TwoSided    bool

	EmissiveFactor  mgl32.Vec3
	MetallicFactor  float32
	RoughnessFactor float32

	ColorTexture             Texture
	EmissiveTexture          Texture
	NormalTexture            Texture
	MetallicRoughnessTexture Texture
	OcclusionTexture         Texture
}

func NewMaterial(name string) *Material {
	return &Material{
		Name:            name,
		Color:           mgl32.Vec4{1, 1, 1, 1},
		AlphaCutoff:     0.5,
		RoughnessFactor: 0.5,
	}
}

// Decal projects an albedo texture onto whatever geometry falls inside its
// oriented box; the entity transform is the box.
type Decal struct {
	Albedo Texture
}

type BoundingBox struct {
	Center   mgl32.Vec3
	HalfSize mgl32.Vec3
}

// TransformBoundingBox returns the axis-aligned box enclosing b after
// applying m.
func TransformBoundingBox(m mgl32.Mat4, b BoundingBox) BoundingBox {
	center := m.Mul4x1(b.Center.Vec4(1)).Vec3()
	var half mgl32.Vec3
	for col := 0; col < 3; col++ {
		axis := mgl32.Vec3{m.At(0, col), m.At(1, col), m.At(2, col)}
		e := b.HalfSize[col]
		half = half.Add(mgl32.Vec3{
			abs32(axis.X()) * e,
			abs32(axis.Y()) * e,
			abs32(axis.Z()) * e,
		})
	}
	return BoundingBox{Center: center, HalfSize: half}
}

// Scene holds every entity plus the global shading inputs.
type Scene struct {
	BackgroundColor mgl32.Vec3
	AmbientLight    mgl32.Vec3
	Environment     Texture // optional environment cubemap

	Entities []*Entity

	// Resolved shortcuts, maintained by AddEntity.
	Irradiance       *IrradianceVolume
	ReflectionProbes []*ReflectionProbe
}

func NewScene() *Scene {
	return &Scene{
		BackgroundColor: mgl32.Vec3{0.1, 0.1, 0.1},
		AmbientLight:    mgl32.Vec3{0.2, 0.2, 0.2},
	}
}

func (s *Scene) AddEntity(e *Entity) {
	s.Entities = append(s.Entities, e)
	switch e.Kind {
	case KindIrradianceVolume:
		s.Irradiance = e.Irradiance
	case KindReflectionProbe:
		e.ReflectionProbe.Position = e.Model.Col(3).Vec3()
		s.ReflectionProbes = append(s.ReflectionProbes, e.ReflectionProbe)
	}
}

// UpdateNearestReflectionProbes assigns each prefab entity the closest
// reflection probe by entity origin distance. Called after scene load and
// whenever probes move.
func (s *Scene) UpdateNearestReflectionProbes() {
	for _, e := range s.Entities {
		if e.Kind != KindPrefab {
			continue
		}
		pos := e.Model.Col(3).Vec3()
		var nearest *ReflectionProbe
		best := float32(0)
		for _, probe := range s.ReflectionProbes {
			d := probe.Position.Sub(pos).Len()
			if nearest == nil || d < best {
				nearest = probe
				best = d
			}
		}
		e.Prefab.NearestProbe = nearest
	}
}
