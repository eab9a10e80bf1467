package main

import (
	"flag"
	"runtime"

	"github.com/go-gl/glfw/v3.3/glfw"
	"go.uber.org/zap"

	"github.com/prism3d/prism"
	"github.com/prism3d/prism/deferred/ds/app"
	"github.com/prism3d/prism/deferred/ds/scene"
	"github.com/prism3d/prism/internal/logger"
)

func init() {
	runtime.LockOSThread()
}

func main() {
	width := flag.Int("width", 1280, "Window width")
	height := flag.Int("height", 720, "Window height")
	fullscreen := flag.Int("fullscreen", -1, "Fullscreen monitor index (-1 for windowed)")
	debug := flag.Bool("debug", false, "Enable debug mode (uniform block layout checks, debug logging)")
	scenePath := flag.String("scene", "", "Scene config JSON file (built in defaults otherwise)")
	fontPath := flag.String("font", "", "TTF font for the HUD (built in bitmap font otherwise)")
	flag.Parse()

	logger.Init(*debug)
	defer logger.Log.Sync()

	cfg := scene.DefaultConfig()
	if *scenePath != "" {
		var err error
		cfg, err = scene.LoadConfig(*scenePath)
		if err != nil {
			logger.Log.Fatal("failed to load scene config", zap.Error(err))
		}
	}

	if err := glfw.Init(); err != nil {
		panic(err)
	}
	defer glfw.Terminate()

	window, err := prism.CreateWindow(*width, *height, "Deferred Shading", *fullscreen)
	if err != nil {
		logger.Log.Fatal("failed to create window", zap.Error(err))
	}
	defer window.Window.Destroy()

	application := app.NewApp(window, cfg)
	application.DebugMode = *debug
	application.FontPath = *fontPath
	if err := application.Init(); err != nil {
		logger.Log.Fatal("failed to initialize", zap.Error(err))
	}

	window.Window.SetFramebufferSizeCallback(func(w *glfw.Window, width, height int) {
		application.Resize(width, height)
	})

	window.Window.SetKeyCallback(func(w *glfw.Window, key glfw.Key, scancode int, action glfw.Action, mods glfw.ModifierKey) {
		if (key == glfw.KeyQ || key == glfw.KeyEscape) && action == glfw.Press {
			w.SetShouldClose(true)
			return
		}
		application.HandleKey(key, action)
	})

	window.Window.SetCursorPosCallback(func(w *glfw.Window, xpos, ypos float64) {
		application.MouseX = xpos
		application.MouseY = ypos
	})

	window.Window.SetMouseButtonCallback(func(w *glfw.Window, button glfw.MouseButton, action glfw.Action, mods glfw.ModifierKey) {
		if action == glfw.Press {
			logger.Log.Debug("mouse click",
				zap.Int("button", int(button)),
				zap.Float64("x", application.MouseX),
				zap.Float64("y", application.MouseY))
		}
	})

	for !window.Window.ShouldClose() {
		application.Frame(glfw.GetTime())
		window.Window.SwapBuffers()
		glfw.PollEvents()
	}

	application.Release()
}
