package renderer

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

func TestNewDefaultCamera(t *testing.T) {
	cam := NewDefaultCamera(800, 600)

	if cam == nil {
		t.Fatal("NewDefaultCamera returned nil")
	}

	if cam.Position == (mgl32.Vec3{0, 0, 0}) {
		t.Error("Camera position should not be at origin")
	}

	if cam.Speed <= 0 {
		t.Error("Camera speed should be positive")
	}

	if cam.Sensitivity <= 0 {
		t.Error("Camera sensitivity should be positive")
	}
}

func TestCameraGetViewMatrix(t *testing.T) {
	cam := NewDefaultCamera(800, 600)
	cam.Position = mgl32.Vec3{0, 0, 5}
	cam.Front = mgl32.Vec3{0, 0, -1}
	cam.Up = mgl32.Vec3{0, 1, 0}

	view := cam.GetViewMatrix()

	if view.At(3, 3) != 1.0 {
		t.Error("View matrix should be valid (w component = 1)")
	}
}

func TestCameraGetProjectionMatrix(t *testing.T) {
	cam := NewDefaultCamera(800, 600)

	proj := cam.GetProjectionMatrix()

	if proj.At(3, 3) != 0.0 {
		t.Error("Perspective projection should have w=0 at (3,3)")
	}
}

func TestCameraGetViewProjection(t *testing.T) {
	cam := NewDefaultCamera(800, 600)

	vp := cam.GetViewProjection()

	zero := mgl32.Mat4{}
	if vp == zero {
		t.Error("ViewProjection should not be zero matrix")
	}
}

func TestCameraSetPerspective(t *testing.T) {
	cam := NewDefaultCamera(800, 600)
	cam.SetPerspective(90, 1, 1, 500)

	if cam.Fov != 90 || cam.Near != 1 || cam.Far != 500 {
		t.Errorf("Perspective parameters not stored: fov=%v near=%v far=%v", cam.Fov, cam.Near, cam.Far)
	}
	if cam.GetProjectionMatrix().At(3, 3) != 0 {
		t.Error("SetPerspective should produce a perspective projection")
	}
}

func TestCameraSetOrthographic(t *testing.T) {
	cam := NewDefaultCamera(800, 600)
	cam.SetOrthographic(100, 1, 1000)

	proj := cam.GetProjectionMatrix()
	if proj.At(3, 3) != 1 {
		t.Error("Orthographic projection should have w=1 at (3,3)")
	}
}

func TestCameraLookAtTarget(t *testing.T) {
	cam := NewDefaultCamera(800, 600)
	cam.LookAtTarget(mgl32.Vec3{0, 10, 0}, mgl32.Vec3{0, 0, 0})

	if cam.Position != (mgl32.Vec3{0, 10, 0}) {
		t.Errorf("Expected eye position, got %v", cam.Position)
	}
	if cam.Front.Sub(mgl32.Vec3{0, -1, 0}).Len() > 0.01 {
		t.Errorf("Expected front pointing down, got %v", cam.Front)
	}
	// Straight-down view must still produce a usable basis.
	if cam.Right.Len() < 0.99 || cam.Up.Len() < 0.99 {
		t.Errorf("Degenerate basis: right=%v up=%v", cam.Right, cam.Up)
	}

	// Degenerate eye == center keeps the previous orientation.
	before := cam.Front
	cam.LookAtTarget(mgl32.Vec3{1, 1, 1}, mgl32.Vec3{1, 1, 1})
	if cam.Front != before {
		t.Error("Zero-length look direction should not change orientation")
	}
}

func TestCameraUpdateVectors(t *testing.T) {
	cam := NewDefaultCamera(800, 600)
	cam.Yaw = -90
	cam.Pitch = 0

	cam.updateCameraVectors()

	frontLen := cam.Front.Len()
	if math.Abs(float64(frontLen)-1.0) > 0.01 {
		t.Errorf("Front vector should be normalized, length=%f", frontLen)
	}
}

func TestCameraInvertMouse(t *testing.T) {
	cam := NewDefaultCamera(800, 600)

	cam.InvertMouse = false
	if cam.InvertMouse != false {
		t.Error("InvertMouse should be false")
	}

	cam.InvertMouse = true
	if cam.InvertMouse != true {
		t.Error("InvertMouse should be true")
	}
}

func TestFrustumIntersectsSphere(t *testing.T) {
	cam := NewDefaultCamera(600, 800)
	frustum := cam.CalculateFrustum()

	ahead := cam.Position.Add(cam.Front.Mul(50))
	if !frustum.IntersectsSphere(ahead, 1) {
		t.Error("Sphere in front of the camera should intersect the frustum")
	}

	behind := cam.Position.Sub(cam.Front.Mul(50))
	if frustum.IntersectsSphere(behind, 1) {
		t.Error("Sphere behind the camera should be rejected")
	}

	// A huge sphere engulfing the camera always intersects.
	if !frustum.IntersectsSphere(behind, 1000) {
		t.Error("Sphere overlapping the frustum should be kept")
	}
}

func TestFrustumIntersectsBox(t *testing.T) {
	cam := NewDefaultCamera(600, 800)
	frustum := cam.CalculateFrustum()

	ahead := cam.Position.Add(cam.Front.Mul(50))
	if !frustum.IntersectsBox(ahead, mgl32.Vec3{1, 1, 1}) {
		t.Error("Box in front of the camera should intersect the frustum")
	}

	behind := cam.Position.Sub(cam.Front.Mul(50))
	if frustum.IntersectsBox(behind, mgl32.Vec3{1, 1, 1}) {
		t.Error("Box behind the camera should be rejected")
	}

	// Large half extents straddle the near plane.
	if !frustum.IntersectsBox(behind, mgl32.Vec3{200, 200, 200}) {
		t.Error("Box crossing a frustum plane should be kept")
	}
}
