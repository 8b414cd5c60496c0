package renderer

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

type LightType int

const (
	DirectionalLight LightType = iota
	SpotLight
	PointLight
)

// Light is a persistent scene entity. Each light owns one shadow camera and
// one depth-only shadow target, reused across frames; both are sized
// independently of the main viewport.
type Light struct {
	Type        LightType
	Position    mgl32.Vec3
	Direction   mgl32.Vec3
	Color       mgl32.Vec3
	Intensity   float32
	MaxDistance float32 // attenuation cutoff / shadow far plane
	ConeAngle   float32 // degrees, spot only
	SpotExp     float32 // spot falloff exponent
	AreaSize    float32 // orthographic extent, directional only
	Volumetric  bool

	CastShadow   bool
	ShadowBias   float32
	ShadowCamera *Camera
	ShadowTarget Target

	// Atlas placement for the single-pass shadow variant: x,y offset and
	// z,w scale in atlas UV space. Zero when the light is not packed.
	atlasRegion mgl32.Vec4
	atlasSlot   int
}

func NewLight(t LightType) *Light {
	l := &Light{
		Type:        t,
		Direction:   mgl32.Vec3{0, -1, 0},
		Color:       mgl32.Vec3{1, 1, 1},
		Intensity:   1.0,
		MaxDistance: 1000,
		ConeAngle:   45,
		SpotExp:     10,
		AreaSize:    500,
		ShadowBias:  0.001,
		ShadowCamera: &Camera{
			Front:   mgl32.Vec3{0, 0, -1},
			Up:      mgl32.Vec3{0, 1, 0},
			WorldUp: mgl32.Vec3{0, 1, 0},
		},
	}
	l.UpdateShadowCamera()
	return l
}

// UpdateShadowCamera repositions and reprojects the shadow camera from the
// light's current transform and range. Must be called after moving a light
// or changing its extent.
func (l *Light) UpdateShadowCamera() {
	cam := l.ShadowCamera
	cam.LookAtTarget(l.Position, l.Position.Add(l.Direction))

	switch l.Type {
	case SpotLight:
		cam.SetPerspective(2*l.ConeAngle, 1.0, 1.0, l.MaxDistance)
	case DirectionalLight:
		cam.SetOrthographic(l.AreaSize/2, 1.0, l.AreaSize)
	case PointLight:
		cam.SetPerspective(90.0, 1.0, 1.0, l.MaxDistance)
	}
}

// BoundingSphere is the influence volume used for per-frame light culling.
func (l *Light) BoundingSphere() (mgl32.Vec3, float32) {
	return l.Position, l.MaxDistance
}

// ensureShadowTarget allocates or resizes the depth-only target. Quality
// changes resize it; the viewport never does.
func (l *Light) ensureShadowTarget(device Device, resolution int32) {
	if l.ShadowTarget != nil {
		if w, _ := l.ShadowTarget.Size(); w == resolution {
			return
		}
	}
	l.ShadowTarget = device.CreateDepthTarget(resolution, resolution)
}

// UploadToShader writes the per-light uniform block. withShadow additionally
// binds the shadow map and its reprojection matrix; pass false when the map
// is stale or the strategy resolves shadows elsewhere.
func (l *Light) UploadToShader(shader Shader, withShadow bool) {
	shader.SetVec3("u_light_position", l.Position)
	shader.SetVec3("u_light_vector", l.Direction)
	shader.SetInt("u_light_type", int32(l.Type))
	shader.SetVec3("u_light_color", l.Color)
	shader.SetFloat("u_light_intensity", l.Intensity)
	shader.SetFloat("u_light_max_distance", l.MaxDistance)
	shader.SetFloat("u_light_area_size", l.AreaSize)
	shader.SetFloat("u_spot_cosine_cutoff", l.spotCutoff())
	shader.SetFloat("u_spot_exponent", l.SpotExp)

	if withShadow && l.CastShadow && l.ShadowTarget != nil {
		shader.SetBool("u_cast_shadow", true)
		shader.SetTexture("u_shadowmap_texture", l.ShadowTarget.DepthTexture(), 8)
		shader.SetMat4("u_shadow_viewproj", l.ShadowCamera.GetViewProjection())
		shader.SetFloat("u_shadow_bias", l.ShadowBias)
	} else {
		shader.SetBool("u_cast_shadow", false)
	}
}

func (l *Light) spotCutoff() float32 {
	return float32(math.Cos(float64(l.ConeAngle) / 180.0 * math.Pi))
}
