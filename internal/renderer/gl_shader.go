package renderer

import (
	"strings"

	"Lumen3D/internal/logger"
	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"
)

// GLShader wraps a linked program. Uniform locations are cached per program
// to avoid repeated gl.GetUniformLocation calls; a location of -1 (uniform
// absent or optimized out) short-circuits the upload.
type GLShader struct {
	program   uint32
	locations map[string]int32
}

func (s *GLShader) Enable()  { gl.UseProgram(s.program) }
func (s *GLShader) Disable() { gl.UseProgram(0) }

func (s *GLShader) location(name string) int32 {
	if loc, ok := s.locations[name]; ok {
		return loc
	}
	loc := gl.GetUniformLocation(s.program, gl.Str(name+"\x00"))
	s.locations[name] = loc
	return loc
}

func (s *GLShader) SetFloat(name string, v float32) {
	if loc := s.location(name); loc != -1 {
		gl.Uniform1f(loc, v)
	}
}

func (s *GLShader) SetInt(name string, v int32) {
	if loc := s.location(name); loc != -1 {
		gl.Uniform1i(loc, v)
	}
}

func (s *GLShader) SetBool(name string, v bool) {
	var i int32
	if v {
		i = 1
	}
	s.SetInt(name, i)
}

func (s *GLShader) SetVec2(name string, v mgl32.Vec2) {
	if loc := s.location(name); loc != -1 {
		gl.Uniform2f(loc, v.X(), v.Y())
	}
}

func (s *GLShader) SetVec3(name string, v mgl32.Vec3) {
	if loc := s.location(name); loc != -1 {
		gl.Uniform3f(loc, v.X(), v.Y(), v.Z())
	}
}

func (s *GLShader) SetVec4(name string, v mgl32.Vec4) {
	if loc := s.location(name); loc != -1 {
		gl.Uniform4f(loc, v.X(), v.Y(), v.Z(), v.W())
	}
}

func (s *GLShader) SetMat4(name string, m mgl32.Mat4) {
	if loc := s.location(name); loc != -1 {
		gl.UniformMatrix4fv(loc, 1, false, &m[0])
	}
}

func (s *GLShader) SetFloatArray(name string, v []float32) {
	if loc := s.location(name); loc != -1 && len(v) > 0 {
		gl.Uniform1fv(loc, int32(len(v)), &v[0])
	}
}

func (s *GLShader) SetIntArray(name string, v []int32) {
	if loc := s.location(name); loc != -1 && len(v) > 0 {
		gl.Uniform1iv(loc, int32(len(v)), &v[0])
	}
}

func (s *GLShader) SetVec2Array(name string, v []mgl32.Vec2) {
	if loc := s.location(name); loc != -1 && len(v) > 0 {
		gl.Uniform2fv(loc, int32(len(v)), &v[0][0])
	}
}

func (s *GLShader) SetVec3Array(name string, v []mgl32.Vec3) {
	if loc := s.location(name); loc != -1 && len(v) > 0 {
		gl.Uniform3fv(loc, int32(len(v)), &v[0][0])
	}
}

func (s *GLShader) SetVec4Array(name string, v []mgl32.Vec4) {
	if loc := s.location(name); loc != -1 && len(v) > 0 {
		gl.Uniform4fv(loc, int32(len(v)), &v[0][0])
	}
}

func (s *GLShader) SetMat4Array(name string, v []mgl32.Mat4) {
	if loc := s.location(name); loc != -1 && len(v) > 0 {
		gl.UniformMatrix4fv(loc, int32(len(v)), false, &v[0][0])
	}
}

func (s *GLShader) SetTexture(name string, tex Texture, slot uint32) {
	if tex == nil {
		return
	}
	if loc := s.location(name); loc != -1 {
		tex.Bind(slot)
		gl.Uniform1i(loc, int32(slot))
	}
}

// compileStage compiles one shader stage, returning 0 on failure with the
// driver log captured.
func compileStage(source string, shaderType uint32) uint32 {
	shader := gl.CreateShader(shaderType)
	cSources, free := gl.Strs(source + "\x00")
	gl.ShaderSource(shader, 1, cSources, nil)
	free()
	gl.CompileShader(shader)

	var status int32
	gl.GetShaderiv(shader, gl.COMPILE_STATUS, &status)
	if status == gl.FALSE {
		var logLength int32
		gl.GetShaderiv(shader, gl.INFO_LOG_LENGTH, &logLength)
		log := strings.Repeat("\x00", int(logLength+1))
		gl.GetShaderInfoLog(shader, logLength, nil, gl.Str(log))
		logger.Log.Error("shader compilation failed",
			zap.Uint32("stage", shaderType), zap.String("log", log))
		gl.DeleteShader(shader)
		return 0
	}
	return shader
}

// linkProgram links a vertex and fragment stage into a program and releases
// the stages. Returns 0 on link failure.
func linkProgram(vertex, fragment uint32) uint32 {
	program := gl.CreateProgram()
	gl.AttachShader(program, vertex)
	gl.AttachShader(program, fragment)
	gl.LinkProgram(program)

	var status int32
	gl.GetProgramiv(program, gl.LINK_STATUS, &status)
	linked := status != gl.FALSE
	if !linked {
		var logLength int32
		gl.GetProgramiv(program, gl.INFO_LOG_LENGTH, &logLength)
		log := strings.Repeat("\x00", int(logLength+1))
		gl.GetProgramInfoLog(program, logLength, nil, gl.Str(log))
		logger.Log.Error("shader program link failed", zap.String("log", log))
	}
	gl.DetachShader(program, vertex)
	gl.DeleteShader(vertex)
	gl.DetachShader(program, fragment)
	gl.DeleteShader(fragment)

	if !linked {
		gl.DeleteProgram(program)
		return 0
	}
	return program
}

// NewGLShader compiles and links a program from vertex and fragment source.
// Returns nil on any compile or link error; the error is already logged.
func NewGLShader(vertexSource, fragmentSource string) *GLShader {
	vertex := compileStage(vertexSource, gl.VERTEX_SHADER)
	if vertex == 0 {
		return nil
	}
	fragment := compileStage(fragmentSource, gl.FRAGMENT_SHADER)
	if fragment == 0 {
		gl.DeleteShader(vertex)
		return nil
	}
	program := linkProgram(vertex, fragment)
	if program == 0 {
		return nil
	}
	return &GLShader{program: program, locations: make(map[string]int32)}
}
