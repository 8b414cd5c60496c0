package renderer

import "github.com/go-gl/mathgl/mgl32"

type PipelineMode int

const (
	ForwardPipeline PipelineMode = iota
	DeferredPipeline
)

// RenderMode selects the shader family for the frame. Everything except
// ShowLit and ShowSinglePass is a debug visualization that ignores lights.
type RenderMode int

const (
	ShowLit RenderMode = iota
	ShowTexture
	ShowNormal
	ShowNormalMap
	ShowUVs
	ShowOcclusion
	ShowMetallic
	ShowRoughness
	ShowSinglePass
	ShowGBuffers
)

type QualityLevel int

const (
	QualityLow QualityLevel = iota
	QualityMedium
	QualityHigh
	QualityUltra
)

// ShadowResolution maps the quality tier to the per-light shadow map size.
func (q QualityLevel) ShadowResolution() int32 {
	switch q {
	case QualityLow:
		return 1024
	case QualityMedium:
		return 2048
	case QualityHigh:
		return 3072
	default:
		return 4096
	}
}

type PostEffect int

const (
	PostNone PostEffect = iota
	PostMotionBlur
	PostPixelate
	PostBlur
	PostDepthOfField
)

// MaxSinglePassLights caps the fixed-size uniform arrays of the single-pass
// strategy. Lights beyond the cap are not uploaded; the strategy reports
// how many were.
const MaxSinglePassLights = 8

// PipelineState is the process-wide render configuration. It is read by
// every pass each frame and written only between frames (debug UI); it must
// not be mutated concurrently with a running frame.
type PipelineState struct {
	Pipeline PipelineMode `json:"pipeline"`
	Mode     RenderMode   `json:"renderMode"`
	Quality  QualityLevel `json:"quality"`

	ToneMapping       bool `json:"toneMapping"`
	LinearCorrection  bool `json:"linearCorrection"`
	Dithering         bool `json:"dithering"` // dithered transparency in the G-buffer stage
	SSAO              bool `json:"ssao"`
	Reflections       bool `json:"reflections"`
	Irradiance        bool `json:"irradiance"`
	Decals            bool `json:"decals"`
	ShowProbes        bool `json:"showProbes"`
	SinglePassShadows bool `json:"singlePassShadows"` // pack shadow maps into one atlas
	DrawSkybox        bool `json:"drawSkybox"`
	ShowShadowPreview bool `json:"showShadowPreview"`
	ShowLightGizmos   bool `json:"showLightGizmos"`
	ShowBoundingBoxes bool `json:"showBoundingBoxes"`

	PostFX     PostEffect `json:"postEffect"`
	BlurSize   float32    `json:"blurSize"`
	FocalDepth float32    `json:"focalDepth"` // depth-of-field focus distance

	SSAORadius float32 `json:"ssaoRadius"`
	SSAOPlus   bool    `json:"ssaoPlus"` // hemisphere sampling oriented by the surface normal

	// Reinhard-style tone mapping parameters.
	Gamma     float32 `json:"gamma"`
	ToneScale float32 `json:"toneScale"`
	WhiteLum  float32 `json:"whiteLuminance"`
	AvgLum    float32 `json:"averageLuminance"`

	// Exposure compensation applied to light intensity while accumulating
	// in linear space; tuning values, not a physical model.
	DirectionalBoost float32 `json:"directionalBoost"`
	LocalBoost       float32 `json:"localBoost"`

	// View-projection of the previous frame, consumed by motion blur.
	PrevViewProjection mgl32.Mat4 `json:"-"`
}

func DefaultPipelineState() PipelineState {
	return PipelineState{
		Pipeline: DeferredPipeline,
		Mode:     ShowLit,
		Quality:  QualityMedium,

		ToneMapping:      true,
		LinearCorrection: true,
		SSAO:             true,
		Reflections:      true,
		Irradiance:       true,
		Decals:           true,
		DrawSkybox:       true,

		PostFX:     PostNone,
		BlurSize:   4.0,
		FocalDepth: 0.5,

		SSAORadius: 5.0,
		SSAOPlus:   true,

		Gamma:     2.2,
		ToneScale: 1.0,
		WhiteLum:  1.0,
		AvgLum:    1.0,

		DirectionalBoost: 6.0,
		LocalBoost:       5.0,

		PrevViewProjection: mgl32.Ident4(),
	}
}
