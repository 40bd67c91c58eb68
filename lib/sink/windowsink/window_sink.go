package windowsink

import (
	"fmt"
	"log/slog"

	"github.com/fosdem/trimix/lib/config"
	"github.com/go-gl/glfw/v3.3/glfw"
)

// WindowSink is a GLFW window with a current OpenGL 4.1 core context.
type WindowSink struct {
	Window *glfw.Window
	cfg    *config.WindowCfg
}

// New initialises GLFW and opens the window. The caller must be on the
// locked main thread.
func New(cfg *config.WindowCfg) (*WindowSink, error) {
	w := &WindowSink{cfg: cfg}
	if err := w.makeWindow(); err != nil {
		return nil, err
	}
	return w, nil
}

func (w *WindowSink) makeWindow() error {
	w.log("Initializing window")
	if err := glfw.Init(); err != nil {
		return fmt.Errorf("failed to initialize glfw: %w", err)
	}

	resizable := glfw.False
	if w.cfg.Resizable {
		resizable = glfw.True
	}
	glfw.WindowHint(glfw.Resizable, resizable)
	glfw.WindowHint(glfw.ContextVersionMajor, 4)
	glfw.WindowHint(glfw.ContextVersionMinor, 1)
	glfw.WindowHint(glfw.OpenGLProfile, glfw.OpenGLCoreProfile)
	glfw.WindowHint(glfw.OpenGLForwardCompatible, glfw.True)
	window, err := glfw.CreateWindow(w.cfg.Width, w.cfg.Height, w.cfg.Title, nil, nil)
	if err != nil {
		glfw.Terminate()
		return fmt.Errorf("failed to create window: %w", err)
	}

	window.MakeContextCurrent()
	if w.cfg.VSync {
		glfw.SwapInterval(1)
	} else {
		glfw.SwapInterval(0)
	}

	w.Window = window
	return nil
}

func (w *WindowSink) ShouldClose() bool {
	return w.Window.ShouldClose()
}

func (w *WindowSink) SetShouldClose(v bool) {
	w.Window.SetShouldClose(v)
}

func (w *WindowSink) SwapBuffers() {
	w.Window.SwapBuffers()
}

func (w *WindowSink) PollEvents() {
	glfw.PollEvents()
}

// FramebufferSize is the size in pixels, which differs from the window size
// on high DPI screens.
func (w *WindowSink) FramebufferSize() (int, int) {
	return w.Window.GetFramebufferSize()
}

// SetResizeCallback calls fn with the new framebuffer size whenever it
// changes.
func (w *WindowSink) SetResizeCallback(fn func(width, height int)) {
	w.Window.SetFramebufferSizeCallback(func(_ *glfw.Window, width, height int) {
		w.log("Framebuffer resized to %dx%d", width, height)
		fn(width, height)
	})
}

// Destroy closes the window and terminates GLFW.
func (w *WindowSink) Destroy() {
	if w.Window != nil {
		w.Window.Destroy()
		w.Window = nil
	}
	glfw.Terminate()
}

func (w *WindowSink) log(msg string, args ...interface{}) {
	slog.Debug(fmt.Sprintf(msg, args...), slog.String("module", "window"))
}
