package prism

import (
	"fmt"

	"github.com/go-gl/glfw/v3.3/glfw"
)

// WindowState bundles the GLFW window with its current framebuffer size.
type WindowState struct {
	Window *glfw.Window
	Width  int
	Height int
}

// CreateWindow creates a 4.1 core profile window and makes its context
// current. monitor selects a fullscreen monitor by index; pass -1 for a
// regular window. glfw.Init must have been called.
func CreateWindow(width, height int, title string, monitor int) (*WindowState, error) {
	glfw.WindowHint(glfw.ContextVersionMajor, 4)
	glfw.WindowHint(glfw.ContextVersionMinor, 1)
	glfw.WindowHint(glfw.OpenGLProfile, glfw.OpenGLCoreProfile)
	glfw.WindowHint(glfw.OpenGLForwardCompatible, glfw.True)
	glfw.WindowHint(glfw.Samples, 8)
	glfw.WindowHint(glfw.Resizable, glfw.True)

	var target *glfw.Monitor
	if monitor >= 0 {
		monitors := glfw.GetMonitors()
		if monitor >= len(monitors) {
			return nil, fmt.Errorf("monitor %d not found", monitor)
		}
		target = monitors[monitor]
	}

	win, err := glfw.CreateWindow(width, height, title, target, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create window: %w", err)
	}
	win.MakeContextCurrent()

	w, h := win.GetFramebufferSize()
	return &WindowState{
		Window: win,
		Width:  w,
		Height: h,
	}, nil
}
