package app

import (
	"fmt"
	"time"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"

	"github.com/prism3d/prism"
	"github.com/prism3d/prism/deferred/ds/gpu"
	"github.com/prism3d/prism/deferred/ds/scene"
	"github.com/prism3d/prism/deferred/ds/shaders"
	"github.com/prism3d/prism/internal/logger"
)

// Block binding points shared between the buffer updates and the shaders.
const (
	materialsBinding = 0
	lightsBinding    = 1
	matricesBinding  = 2
)

// App owns every GL object of the deferred shading demo and drives the
// two render passes plus the HUD.
type App struct {
	Window *prism.WindowState

	GeometryShader *prism.ShaderProgram
	LightingShader *prism.ShaderProgram
	HudShader      *prism.ShaderProgram

	GBuffer prism.FrameBuffer

	Materials      prism.UniformBuffer
	Lights         prism.UniformBuffer
	MeshMatrices   prism.UniformBuffer
	GroundMatrices prism.UniformBuffer

	ScreenQuad prism.VertexArray
	Ground     prism.VertexArray
	Mesh       prism.VertexArray

	Assets *prism.AssetServer
	Camera scene.Camera
	Grid   *scene.Grid
	Config scene.Config

	Overlay  *scene.TextOverlay
	HudAtlas uint32
	HudQuads prism.VertexArray
	ShowHud  bool

	Paused    bool
	DebugMode bool
	FontPath  string

	MouseX float64
	MouseY float64

	LastTime   float64
	FPSTime    float64
	FPS        float64
	FrameCount int

	hudText           string
	screenshotPending bool
}

func NewApp(window *prism.WindowState, cfg scene.Config) *App {
	return &App{
		Window:  window,
		Assets:  prism.NewAssetServer(),
		Config:  cfg,
		ShowHud: true,
	}
}

func (a *App) Init() error {
	if err := gl.Init(); err != nil {
		return fmt.Errorf("failed to initialize OpenGL: %w", err)
	}
	logger.Log.Info("renderer ready",
		zap.String("version", gl.GoStr(gl.GetString(gl.VERSION))),
		zap.String("renderer", gl.GoStr(gl.GetString(gl.RENDERER))))

	gl.Enable(gl.DEPTH_TEST)
	gl.Enable(gl.MULTISAMPLE)
	gl.Viewport(0, 0, int32(a.Window.Width), int32(a.Window.Height))

	// G-buffer: view space position, view space normal, material id.
	a.GBuffer.Init(int32(a.Window.Width), int32(a.Window.Height))
	a.GBuffer.AddColorTexture(gl.RGB32F, gl.RGB, gl.FLOAT)
	a.GBuffer.AddColorTexture(gl.RGB32F, gl.RGB, gl.FLOAT)
	a.GBuffer.AddColorTexture(gl.R8, gl.RED, gl.UNSIGNED_BYTE)
	if err := a.GBuffer.Verify(); err != nil {
		return err
	}

	// Shaders
	var err error
	a.GeometryShader, err = buildProgram(shaders.GeometryVertexGLSL, shaders.GeometryFragmentGLSL)
	if err != nil {
		return err
	}
	a.LightingShader, err = buildProgram(shaders.LightingVertexGLSL, shaders.LightingFragmentGLSL)
	if err != nil {
		return err
	}
	a.HudShader, err = buildProgram(shaders.HudVertexGLSL, shaders.HudFragmentGLSL)
	if err != nil {
		return err
	}
	if a.DebugMode {
		a.checkBlockLayouts()
	}

	// Scene
	gpu.UpdateMaterialsBlock(&a.Materials, scene.DefaultMaterials())
	a.Grid = scene.NewGrid(a.Config)

	// Meshes
	screenID := a.Assets.AddMesh(screenQuadMesh())
	groundID := a.Assets.AddMesh(groundMesh())
	meshID, err := a.Assets.LoadMeshOBJ(a.Config.MeshPath)
	if err != nil {
		return err
	}
	mesh, _ := a.Assets.Mesh(meshID)
	if len(mesh.Normals) == 0 {
		logger.Log.Warn("mesh has no normals, lighting will be flat",
			zap.String("mesh", mesh.Name))
	}
	logger.Log.Info("mesh loaded",
		zap.String("mesh", mesh.Name),
		zap.Int("vertices", len(mesh.Positions)/3),
		zap.Int("triangles", len(mesh.Indices)/3))

	a.loadAsset(&a.ScreenQuad, screenID)
	a.loadAsset(&a.Ground, groundID)
	a.loadAsset(&a.Mesh, meshID)

	// HUD
	a.Overlay, err = scene.NewTextOverlay(a.FontPath, 16)
	if err != nil {
		return err
	}
	a.uploadHudAtlas()

	now := glfw.GetTime()
	a.LastTime = now
	a.FPSTime = now
	return nil
}

// Resize reacts to framebuffer size changes; every render target follows
// the window.
func (a *App) Resize(width, height int) {
	if width <= 0 || height <= 0 {
		return
	}
	a.Window.Width = width
	a.Window.Height = height
	gl.Viewport(0, 0, int32(width), int32(height))
	a.GBuffer.Resize(int32(width), int32(height))
}

// Frame advances the scene and renders both passes plus the HUD.
func (a *App) Frame(now float64) {
	dt := now - a.LastTime
	a.LastTime = now
	if !a.Paused {
		a.Grid.Rotate(mgl32.DegToRad(float32(10 * dt)))
	}

	aspect := float32(a.Window.Width) / float32(a.Window.Height)
	view := a.Camera.View()
	projection := a.Camera.Projection(aspect)

	gpu.UpdateInstancesBlock(&a.MeshMatrices, a.Grid.MeshInstances(view, projection))
	gpu.UpdateInstancesBlock(&a.GroundMatrices, []scene.InstanceMatrices{
		scene.GroundInstance(view, projection),
	})

	a.GBuffer.Bind()
	a.renderGeometry(view)
	a.GBuffer.Unbind()
	a.renderLighting()
	a.renderHud()

	if a.screenshotPending {
		a.screenshotPending = false
		a.saveScreenshot()
	}
	a.computeFPS(now)
}

func (a *App) renderGeometry(view mgl32.Mat4) {
	gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)
	a.GeometryShader.Enable()

	ambient := mgl32.Vec3{a.Config.Ambient[0], a.Config.Ambient[1], a.Config.Ambient[2]}
	gpu.UpdateLightsBlock(&a.Lights, ambient, a.Grid.Lights(view))

	a.GeometryShader.SetUniformBuffer("MatricesBlock", matricesBinding, a.GroundMatrices.Id())
	a.GeometryShader.SetInt("material_id", int32(scene.MaterialGround))
	a.Ground.DrawElements(gl.TRIANGLE_FAN)

	a.GeometryShader.SetUniformBuffer("MatricesBlock", matricesBinding, a.MeshMatrices.Id())
	a.GeometryShader.SetInt("material_id", int32(scene.MaterialMesh))
	a.Mesh.DrawInstanced(gl.TRIANGLES, int32(a.Grid.Count()))

	a.GeometryShader.Disable()
}

func (a *App) renderLighting() {
	gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)
	a.LightingShader.Enable()

	textures := a.GBuffer.Textures()
	a.LightingShader.SetTexture2D("position_sampler", 0, textures[0])
	a.LightingShader.SetTexture2D("normal_sampler", 1, textures[1])
	a.LightingShader.SetTexture2D("material_sampler", 2, textures[2])

	a.LightingShader.SetUniformBuffer("MaterialsBlock", materialsBinding, a.Materials.Id())
	a.LightingShader.SetUniformBuffer("LightsBlock", lightsBinding, a.Lights.Id())

	a.ScreenQuad.DrawElements(gl.TRIANGLE_FAN)

	a.LightingShader.Disable()
}

func (a *App) renderHud() {
	if !a.ShowHud {
		return
	}

	paused := ""
	if a.Paused {
		paused = "  paused"
	}
	text := fmt.Sprintf("fps %.0f  camera %d/%d%s\nspace camera  p pause  h hud  f12 screenshot  q quit",
		a.FPS, a.Camera.Config()+1, a.Camera.NumConfigs(), paused)
	if text != a.hudText {
		a.rebuildHudQuads(text)
	}

	gl.Disable(gl.DEPTH_TEST)
	gl.Enable(gl.BLEND)
	gl.BlendFunc(gl.SRC_ALPHA, gl.ONE_MINUS_SRC_ALPHA)

	a.HudShader.Enable()
	a.HudShader.SetTexture2D("atlas_sampler", 0, a.HudAtlas)
	a.HudQuads.DrawElements(gl.TRIANGLES)
	a.HudShader.Disable()

	gl.Disable(gl.BLEND)
	gl.Enable(gl.DEPTH_TEST)
}

// rebuildHudQuads re-uploads the HUD geometry. The text only changes when
// the fps readout ticks or a mode toggles, so this is rare.
func (a *App) rebuildHudQuads(text string) {
	items := []scene.TextItem{{
		Text:  text,
		X:     10,
		Y:     10,
		Scale: 1,
		Color: [4]float32{1, 1, 0, 1},
	}}
	positions, texcoords, colors, indices := a.Overlay.BuildArrays(items, a.Window.Width, a.Window.Height)

	a.HudQuads.Release()
	a.HudQuads.Init()
	a.HudQuads.SetElementArrayUint16(indices)
	a.HudQuads.AddArray(0, positions, 2)
	a.HudQuads.AddArray(1, texcoords, 2)
	a.HudQuads.AddArray(2, colors, 4)
	a.hudText = text
}

func (a *App) computeFPS(now float64) {
	if now-a.FPSTime > 1 {
		a.FPS = float64(a.FrameCount)
		fmt.Printf("fps: %d\r", a.FrameCount)
		a.FPSTime += 1
		a.FrameCount = 0
	} else {
		a.FrameCount++
	}
}

// HandleKey reacts to pressed keys; the window close request for quit
// keys is left to the caller's key callback.
func (a *App) HandleKey(key glfw.Key, action glfw.Action) {
	if action != glfw.Press {
		return
	}
	switch key {
	case glfw.KeySpace:
		a.Camera.NextConfig()
	case glfw.KeyP:
		a.Paused = !a.Paused
	case glfw.KeyH:
		a.ShowHud = !a.ShowHud
	case glfw.KeyF12:
		a.screenshotPending = true
	}
}

func (a *App) saveScreenshot() {
	filename := fmt.Sprintf("screenshot-%s.png", time.Now().Format("20060102-150405"))
	img := prism.CaptureScreen(a.Window.Width, a.Window.Height)
	if err := prism.WritePNG(filename, img); err != nil {
		logger.Log.Error("failed to write screenshot", zap.Error(err))
		return
	}
	logger.Log.Info("screenshot saved", zap.String("file", filename))
}

// checkBlockLayouts compares the staged std140 sizes against what the
// linked shaders expect for full capacity blocks.
func (a *App) checkBlockLayouts() {
	var material prism.UniformBuffer
	gpu.AppendMaterials(&material, make([]scene.Material, 1))
	a.checkBlock(a.LightingShader, "MaterialsBlock", material.Len()*scene.MaxMaterials)

	var header, light prism.UniformBuffer
	gpu.AppendLights(&header, mgl32.Vec3{}, nil)
	gpu.AppendLights(&light, mgl32.Vec3{}, make([]scene.Light, 1))
	a.checkBlock(a.LightingShader, "LightsBlock",
		header.Len()+(light.Len()-header.Len())*scene.MaxLights)

	var instance prism.UniformBuffer
	gpu.AppendInstances(&instance, make([]scene.InstanceMatrices, 1))
	a.checkBlock(a.GeometryShader, "MatricesBlock", instance.Len()*scene.MaxLights)
}

func (a *App) checkBlock(program *prism.ShaderProgram, block string, staged int) {
	linked := program.UniformBlockSize(block)
	if staged != linked {
		logger.Log.Warn("uniform block layout mismatch",
			zap.String("block", block),
			zap.Int("staged", staged),
			zap.Int("linked", linked))
		return
	}
	logger.Log.Debug("uniform block layout verified",
		zap.String("block", block),
		zap.Int("bytes", linked))
}

func (a *App) uploadHudAtlas() {
	bounds := a.Overlay.Atlas.Bounds()
	gl.GenTextures(1, &a.HudAtlas)
	gl.BindTexture(gl.TEXTURE_2D, a.HudAtlas)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.NEAREST)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.NEAREST)
	gl.PixelStorei(gl.UNPACK_ALIGNMENT, 1)
	gl.TexImage2D(gl.TEXTURE_2D, 0, gl.R8, int32(bounds.Dx()), int32(bounds.Dy()), 0,
		gl.RED, gl.UNSIGNED_BYTE, gl.Ptr(a.Overlay.Atlas.Pix))
	gl.PixelStorei(gl.UNPACK_ALIGNMENT, 4)
	gl.BindTexture(gl.TEXTURE_2D, 0)
}

func buildProgram(vertex, fragment string) (*prism.ShaderProgram, error) {
	program := &prism.ShaderProgram{}
	if err := program.CompileVertex(vertex); err != nil {
		return nil, err
	}
	if err := program.CompileFragment(fragment); err != nil {
		return nil, err
	}
	if err := program.Link(); err != nil {
		return nil, err
	}
	return program, nil
}

func (a *App) loadAsset(va *prism.VertexArray, id prism.AssetId) {
	mesh, _ := a.Assets.Mesh(id)
	loadMesh(va, mesh)
}

func loadMesh(va *prism.VertexArray, mesh prism.MeshAsset) {
	va.Init()
	va.SetElementArray(mesh.Indices)
	va.AddArray(0, mesh.Positions, 3)
	if len(mesh.Normals) > 0 {
		va.AddArray(1, mesh.Normals, 3)
	} else if len(mesh.TexCoords) > 0 {
		va.AddArray(1, mesh.TexCoords, 2)
	}
}

func screenQuadMesh() prism.MeshAsset {
	return prism.MeshAsset{
		Name:      "screen-quad",
		Positions: []float32{-1, -1, 0, -1, 1, 0, 1, 1, 0, 1, -1, 0},
		TexCoords: []float32{0, 0, 0, 1, 1, 1, 1, 0},
		Indices:   []uint32{0, 1, 2, 3},
	}
}

func groundMesh() prism.MeshAsset {
	h := float32(-0.1)
	v := float32(100)
	return prism.MeshAsset{
		Name:      "ground",
		Positions: []float32{-v, h, v, -v, h, -v, v, h, -v, v, h, v},
		Normals:   []float32{0, 1, 0, 0, 1, 0, 0, 1, 0, 0, 1, 0},
		Indices:   []uint32{0, 1, 2, 3},
	}
}

// Release frees every GL object the app owns.
func (a *App) Release() {
	a.GeometryShader.Release()
	a.LightingShader.Release()
	a.HudShader.Release()
	a.GBuffer.Release()
	a.Materials.Release()
	a.Lights.Release()
	a.MeshMatrices.Release()
	a.GroundMatrices.Release()
	a.ScreenQuad.Release()
	a.Ground.Release()
	a.Mesh.Release()
	a.HudQuads.Release()
	if a.HudAtlas != 0 {
		gl.DeleteTextures(1, &a.HudAtlas)
		a.HudAtlas = 0
	}
}
