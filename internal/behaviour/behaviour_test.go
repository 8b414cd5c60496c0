package behaviour

import (
	"math"
	"testing"

	"Lumen3D/internal/renderer"
	"github.com/go-gl/mathgl/mgl32"
)

type countingBehaviour struct {
	starts  int
	updates int
	lastDT  float64
}

func (c *countingBehaviour) Start()                  { c.starts++ }
func (c *countingBehaviour) Update(deltaTime float64) { c.updates++; c.lastDT = deltaTime }

func TestManagerStartsOnce(t *testing.T) {
	m := NewManager()
	b := &countingBehaviour{}
	m.Add(b)

	m.Update(0.016)
	m.Update(0.016)
	m.Update(0.032)

	if b.starts != 1 {
		t.Errorf("starts = %d, want 1", b.starts)
	}
	if b.updates != 3 {
		t.Errorf("updates = %d, want 3", b.updates)
	}
	if b.lastDT != 0.032 {
		t.Errorf("lastDT = %v", b.lastDT)
	}
}

func TestManagerLateAddStarts(t *testing.T) {
	m := NewManager()
	first := &countingBehaviour{}
	m.Add(first)
	m.Update(0.016)

	second := &countingBehaviour{}
	m.Add(second)
	m.Update(0.016)

	if second.starts != 1 || second.updates != 1 {
		t.Errorf("late behaviour starts/updates = %d/%d", second.starts, second.updates)
	}
	if first.starts != 1 {
		t.Errorf("first behaviour restarted: %d", first.starts)
	}
}

func TestManagerRemove(t *testing.T) {
	m := NewManager()
	keep := &countingBehaviour{}
	drop := &countingBehaviour{}
	m.Add(keep)
	m.Add(drop)

	m.Remove(drop)
	if m.Len() != 1 {
		t.Fatalf("len = %d after remove", m.Len())
	}
	m.Update(0.016)

	if drop.updates != 0 {
		t.Error("removed behaviour still updating")
	}
	if keep.updates != 1 {
		t.Error("surviving behaviour skipped")
	}

	// Removing something never added is a no-op.
	m.Remove(&countingBehaviour{})
	if m.Len() != 1 {
		t.Error("remove of unknown behaviour changed the list")
	}
}

func TestManagerClear(t *testing.T) {
	m := NewManager()
	b := &countingBehaviour{}
	m.Add(b)
	m.Clear()
	m.Update(0.016)

	if m.Len() != 0 || b.updates != 0 {
		t.Error("clear must drop every behaviour")
	}
}

func TestRotateSpinsEntity(t *testing.T) {
	ent := &renderer.Entity{Model: mgl32.Ident4()}
	r := &Rotate{Entity: ent, Speed: 90}

	m := NewManager()
	m.Add(r)
	m.Update(1.0) // 90 degrees around +Y

	rotated := ent.Model.Mul4x1(mgl32.Vec4{1, 0, 0, 0})
	want := mgl32.Vec4{0, 0, -1, 0}
	if rotated.Sub(want).Len() > 1e-5 {
		t.Errorf("rotated x axis = %v, want %v", rotated, want)
	}
}

func TestOrbitCirclesCenter(t *testing.T) {
	light := renderer.NewLight(renderer.SpotLight)
	light.Position = mgl32.Vec3{10, 0, 0}
	o := &Orbit{Light: light, Center: mgl32.Vec3{0, 0, 0}, Radius: 10, Height: 5, Speed: 90}

	m := NewManager()
	m.Add(o)
	m.Update(1.0)

	got := light.Position
	if math.Abs(float64(got.Y()-5)) > 1e-5 {
		t.Errorf("orbit height = %v, want 5", got.Y())
	}
	horizontal := mgl32.Vec2{got.X(), got.Z()}
	if math.Abs(float64(horizontal.Len()-10)) > 1e-4 {
		t.Errorf("orbit radius = %v, want 10", horizontal.Len())
	}
	if math.Abs(float64(got.Z()-10)) > 1e-4 {
		t.Errorf("after a quarter turn z = %v, want 10", got.Z())
	}

	aim := light.Direction.Dot(o.Center.Sub(got).Normalize())
	if aim < 0.999 {
		t.Errorf("light not aimed at the center, dot = %v", aim)
	}
}
