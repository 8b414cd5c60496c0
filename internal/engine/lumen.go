package engine

import (
	"runtime"

	"Lumen3D/internal/behaviour"
	"Lumen3D/internal/logger"
	"Lumen3D/internal/renderer"

	"github.com/go-gl/glfw/v3.3/glfw"
	"go.uber.org/zap"
)

var lastX, lastY float64
var firstMouse bool = true

// Lumen owns the window, the GL context and the frame loop. Everything GL
// runs on the locked main thread; other goroutines mutate engine state
// through Post, drained between frames.
type Lumen struct {
	Width  int32
	Height int32
	Title  string

	Scene      *renderer.Scene
	Camera     *renderer.Camera
	Renderer   *renderer.Renderer
	Behaviours *behaviour.Manager

	window  *glfw.Window
	shaders *renderer.GLShaderLibrary
	posted  chan func()

	onFrameCallback   func(deltaTime float64)
	onReadyCallback   func()
	EnableCameraInput bool
}

func NewLumen(shaderDir string) *Lumen {
	logger.Init()
	logger.Log.Info("Lumen3D initializing...")
	return &Lumen{
		Width:             1280,
		Height:            800,
		Title:             "Lumen3D",
		Scene:             renderer.NewScene(),
		Behaviours:        behaviour.NewManager(),
		shaders:           renderer.NewGLShaderLibrary(shaderDir),
		posted:            make(chan func(), 256),
		EnableCameraInput: true,
	}
}

// Post queues fn to run on the render thread between frames. Safe from any
// goroutine; the editor UI mutates pipeline state through here.
func (lm *Lumen) Post(fn func()) {
	lm.posted <- fn
}

// Run opens the window, creates the GL device and blocks in the frame loop
// until the window closes.
func (lm *Lumen) Run(x, y int) {
	lastX, lastY = float64(lm.Width/2), float64(lm.Height/2)
	runtime.LockOSThread()

	if err := glfw.Init(); err != nil {
		logger.Log.Error("could not initialize glfw", zap.Error(err))
		return
	}
	defer glfw.Terminate()

	glfw.WindowHint(glfw.Decorated, glfw.True)
	glfw.WindowHint(glfw.Resizable, glfw.True)
	glfw.WindowHint(glfw.DepthBits, 32)
	glfw.WindowHint(glfw.ContextVersionMajor, 4)
	glfw.WindowHint(glfw.ContextVersionMinor, 1)
	glfw.WindowHint(glfw.OpenGLProfile, glfw.OpenGLCoreProfile)
	glfw.WindowHint(glfw.OpenGLForwardCompatible, glfw.True)

	var err error
	lm.window, err = glfw.CreateWindow(int(lm.Width), int(lm.Height), lm.Title, nil, nil)
	if err != nil {
		logger.Log.Error("could not create glfw window", zap.Error(err))
		return
	}
	lm.window.MakeContextCurrent()
	lm.window.SetPos(x, y)

	device, err := renderer.NewGLDevice()
	if err != nil {
		logger.Log.Error("could not initialize OpenGL", zap.Error(err))
		return
	}

	lm.Renderer = renderer.NewRenderer(device, lm.shaders, renderer.NewGLPrimitives(), lm.Width, lm.Height)
	lm.Camera = renderer.NewDefaultCamera(lm.Height, lm.Width)

	lm.window.SetInputMode(glfw.CursorMode, glfw.CursorNormal)
	lm.window.SetCursorPosCallback(lm.mouseCallback)

	if lm.onReadyCallback != nil {
		lm.onReadyCallback()
	}

	lm.frameLoop()
}

func (lm *Lumen) frameLoop() {
	lastTime := glfw.GetTime()

	for !lm.window.ShouldClose() {
		currentTime := glfw.GetTime()
		deltaTime := currentTime - lastTime
		lastTime = currentTime

		actualWidth, actualHeight := lm.window.GetSize()
		if int32(actualWidth) != lm.Width || int32(actualHeight) != lm.Height {
			lm.Width = int32(actualWidth)
			lm.Height = int32(actualHeight)
			lm.Renderer.Resize(lm.Width, lm.Height)
			lm.Camera.SetAspectRatio(float32(lm.Width) / float32(lm.Height))
		}

		lm.drainPosted()

		if lm.EnableCameraInput {
			lm.Camera.ProcessKeyboard(lm.window, float32(deltaTime))
		}

		lm.Behaviours.Update(deltaTime)

		lm.Renderer.RenderScene(lm.Scene, lm.Camera)

		if lm.onFrameCallback != nil {
			lm.onFrameCallback(deltaTime)
		}

		lm.window.SwapBuffers()
		glfw.PollEvents()
	}
}

// drainPosted runs every queued mutation before the next frame starts, so
// pipeline state never changes mid-frame.
func (lm *Lumen) drainPosted() {
	for {
		select {
		case fn := <-lm.posted:
			fn()
		default:
			return
		}
	}
}

// SetOnFrameCallback registers a callback invoked after each rendered frame.
func (lm *Lumen) SetOnFrameCallback(callback func(deltaTime float64)) {
	lm.onFrameCallback = callback
}

// SetOnReadyCallback registers a callback invoked once the GL context and
// renderer exist, before the first frame. Scene setup that creates GPU
// resources belongs here.
func (lm *Lumen) SetOnReadyCallback(callback func()) {
	lm.onReadyCallback = callback
}

// ReloadShaders drops compiled programs; the next frame recompiles from
// disk.
func (lm *Lumen) ReloadShaders() {
	lm.Post(lm.shaders.Reload)
}

func (lm *Lumen) GetWindow() *glfw.Window {
	return lm.window
}

func (lm *Lumen) mouseCallback(w *glfw.Window, xpos, ypos float64) {
	// Camera look only while focused with the right button held, so UI
	// drags never spin the view.
	if lm.EnableCameraInput && w.GetAttrib(glfw.Focused) == glfw.True && w.GetMouseButton(glfw.MouseButtonRight) == glfw.Press {
		if firstMouse {
			lastX = xpos
			lastY = ypos
			firstMouse = false
			return
		}

		xoffset := xpos - lastX
		yoffset := lastY - ypos
		lastX = xpos
		lastY = ypos

		lm.Camera.ProcessMouseMovement(float32(xoffset), float32(yoffset), true)
	} else {
		firstMouse = true
	}
}
