package behaviour

import (
	"math"

	"Lumen3D/internal/renderer"
	"github.com/go-gl/mathgl/mgl32"
)

// Rotate spins an entity around an axis at a fixed angular speed.
type Rotate struct {
	Entity *renderer.Entity
	Axis   mgl32.Vec3
	Speed  float32 // degrees per second
}

func (r *Rotate) Start() {
	if r.Axis.Len() == 0 {
		r.Axis = mgl32.Vec3{0, 1, 0}
	}
}

func (r *Rotate) Update(deltaTime float64) {
	if r.Entity == nil {
		return
	}
	angle := mgl32.DegToRad(r.Speed * float32(deltaTime))
	r.Entity.Model = r.Entity.Model.Mul4(mgl32.HomogRotate3D(angle, r.Axis.Normalize()))
}

// Orbit moves a light on a horizontal circle around a center point, keeping
// it aimed at the center and its shadow camera current.
type Orbit struct {
	Light  *renderer.Light
	Center mgl32.Vec3
	Radius float32
	Height float32
	Speed  float32 // degrees per second

	angle float64
}

func (o *Orbit) Start() {
	if o.Light != nil {
		o.angle = math.Atan2(
			float64(o.Light.Position.Z()-o.Center.Z()),
			float64(o.Light.Position.X()-o.Center.X()))
	}
}

func (o *Orbit) Update(deltaTime float64) {
	if o.Light == nil {
		return
	}
	o.angle += float64(mgl32.DegToRad(o.Speed)) * deltaTime
	o.Light.Position = o.Center.Add(mgl32.Vec3{
		o.Radius * float32(math.Cos(o.angle)),
		o.Height,
		o.Radius * float32(math.Sin(o.angle)),
	})
	o.Light.Direction = o.Center.Sub(o.Light.Position).Normalize()
	o.Light.UpdateShadowCamera()
}
