package renderer

import (
	"os"
	"path/filepath"

	"Lumen3D/internal/logger"
	"go.uber.org/zap"
)

// GLShaderLibrary compiles programs on first request from <name>.vs and
// <name>.fs files in the shader directory. Broken or missing programs are
// remembered as nil so a bad shader logs once, not every frame.
type GLShaderLibrary struct {
	dir      string
	programs map[string]*GLShader
}

func NewGLShaderLibrary(dir string) *GLShaderLibrary {
	return &GLShaderLibrary{dir: dir, programs: make(map[string]*GLShader)}
}

func (lib *GLShaderLibrary) Get(name string) Shader {
	if sh, ok := lib.programs[name]; ok {
		if sh == nil {
			return nil
		}
		return sh
	}
	sh := lib.load(name)
	lib.programs[name] = sh
	if sh == nil {
		return nil
	}
	return sh
}

func (lib *GLShaderLibrary) load(name string) *GLShader {
	vertex, err := os.ReadFile(filepath.Join(lib.dir, name+".vs"))
	if err != nil {
		logger.Log.Error("vertex shader unreadable", zap.String("shader", name), zap.Error(err))
		return nil
	}
	fragment, err := os.ReadFile(filepath.Join(lib.dir, name+".fs"))
	if err != nil {
		logger.Log.Error("fragment shader unreadable", zap.String("shader", name), zap.Error(err))
		return nil
	}
	sh := NewGLShader(string(vertex), string(fragment))
	if sh == nil {
		logger.Log.Error("shader program unusable", zap.String("shader", name))
		return nil
	}
	logger.Log.Info("shader compiled", zap.String("shader", name))
	return sh
}

// Reload drops every compiled program so the next Get recompiles from disk.
// Used by the editor after shader file edits.
func (lib *GLShaderLibrary) Reload() {
	lib.programs = make(map[string]*GLShader)
	logger.Log.Info("shader library cleared, programs recompile on demand")
}
