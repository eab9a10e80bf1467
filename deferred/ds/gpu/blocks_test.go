package gpu

import (
	"encoding/binary"
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/prism3d/prism"
	"github.com/prism3d/prism/deferred/ds/scene"
)

func f32At(data []byte, offset int) float32 {
	return math.Float32frombits(binary.LittleEndian.Uint32(data[offset:]))
}

func i32At(data []byte, offset int) int32 {
	return int32(binary.LittleEndian.Uint32(data[offset:]))
}

func TestAppendMaterials_std140Layout(t *testing.T) {
	materials := []scene.Material{
		{
			Diffuse:   mgl32.Vec3{0.1, 0.2, 0.3},
			Ambient:   mgl32.Vec3{0.4, 0.5, 0.6},
			Specular:  mgl32.Vec3{0.7, 0.8, 0.9},
			Shininess: 16,
		},
		{
			Diffuse:   mgl32.Vec3{1, 0, 0},
			Ambient:   mgl32.Vec3{0, 1, 0},
			Specular:  mgl32.Vec3{0, 0, 1},
			Shininess: 32,
		},
	}

	var ub prism.UniformBuffer
	AppendMaterials(&ub, materials)

	// Each material is one 48 byte std140 struct: three vec3 slots with
	// the shininess packed into the tail of the last one.
	if ub.Len() != 96 {
		t.Fatalf("Expected 96 bytes for 2 materials, got %d", ub.Len())
	}

	data := ub.Bytes()
	if got := f32At(data, 0); got != 0.1 {
		t.Errorf("diffuse.r at 0: expected 0.1, got %f", got)
	}
	if got := f32At(data, 16); got != 0.4 {
		t.Errorf("ambient.r at 16: expected 0.4, got %f", got)
	}
	if got := f32At(data, 32); got != 0.7 {
		t.Errorf("specular.r at 32: expected 0.7, got %f", got)
	}
	if got := f32At(data, 44); got != 16 {
		t.Errorf("shininess at 44: expected 16, got %f", got)
	}
	if got := f32At(data, 48); got != 1 {
		t.Errorf("second material diffuse.r at 48: expected 1, got %f", got)
	}
	if got := f32At(data, 92); got != 32 {
		t.Errorf("second material shininess at 92: expected 32, got %f", got)
	}
}

func TestAppendLights_headerAndStride(t *testing.T) {
	var header prism.UniformBuffer
	AppendLights(&header, mgl32.Vec3{0.2, 0.2, 0.2}, nil)

	// global_ambient and n_lights share the first chunk.
	if header.Len() != 16 {
		t.Fatalf("Expected a 16 byte header, got %d", header.Len())
	}
	if got := i32At(header.Bytes(), 12); got != 0 {
		t.Errorf("n_lights at 12: expected 0, got %d", got)
	}

	lights := []scene.Light{
		{
			Position:      mgl32.Vec4{1, 2, 3, 1},
			Diffuse:       mgl32.Vec3{0.9, 0.8, 0.7},
			Specular:      mgl32.Vec3{0.5, 0.5, 0.5},
			IsSpot:        true,
			SpotDirection: mgl32.Vec3{0, -1, 0},
			SpotCutoff:    0.785,
			SpotExponent:  16,
		},
		{Position: mgl32.Vec4{4, 5, 6, 1}},
		{Position: mgl32.Vec4{7, 8, 9, 1}},
	}

	var ub prism.UniformBuffer
	AppendLights(&ub, mgl32.Vec3{0.2, 0.2, 0.2}, lights)

	// 16 byte header plus an 80 byte struct per light.
	if ub.Len() != 16+3*80 {
		t.Fatalf("Expected %d bytes for 3 lights, got %d", 16+3*80, ub.Len())
	}

	data := ub.Bytes()
	if got := i32At(data, 12); got != 3 {
		t.Errorf("n_lights at 12: expected 3, got %d", got)
	}

	// First light at 16: position +0, diffuse +16, specular +32 (padding
	// before it at +28), is_spot +44, spot_direction +48, spot_cutoff +60,
	// spot_exponent +64, tail padding to 80.
	if got := f32At(data, 16); got != 1 {
		t.Errorf("position.x: expected 1, got %f", got)
	}
	if got := f32At(data, 32); got != 0.9 {
		t.Errorf("diffuse.r: expected 0.9, got %f", got)
	}
	if got := f32At(data, 44); got != 0 {
		t.Errorf("padding before specular: expected 0, got %f", got)
	}
	if got := f32At(data, 48); got != 0.5 {
		t.Errorf("specular.r: expected 0.5, got %f", got)
	}
	if got := i32At(data, 60); got != 1 {
		t.Errorf("is_spot: expected 1, got %d", got)
	}
	if got := f32At(data, 68); got != -1 {
		t.Errorf("spot_direction.y: expected -1, got %f", got)
	}
	if got := f32At(data, 76); got != 0.785 {
		t.Errorf("spot_cutoff: expected 0.785, got %f", got)
	}
	if got := f32At(data, 80); got != 16 {
		t.Errorf("spot_exponent: expected 16, got %f", got)
	}

	// Second light starts on the next 80 byte stride.
	if got := f32At(data, 96); got != 4 {
		t.Errorf("second light position.x at 96: expected 4, got %f", got)
	}
	if got := f32At(data, 176); got != 7 {
		t.Errorf("third light position.x at 176: expected 7, got %f", got)
	}
}

func TestAppendInstances_matrixStride(t *testing.T) {
	fill := func(base float32) mgl32.Mat4 {
		var m mgl32.Mat4
		for i := range m {
			m[i] = base + float32(i)
		}
		return m
	}
	instances := []scene.InstanceMatrices{
		{MVP: fill(100), ModelView: fill(200), NormalMatrix: fill(300)},
		{MVP: fill(400), ModelView: fill(500), NormalMatrix: fill(600)},
	}

	var ub prism.UniformBuffer
	AppendInstances(&ub, instances)

	// Three mat4 per instance, 64 bytes each, no padding anywhere.
	if ub.Len() != 2*192 {
		t.Fatalf("Expected 384 bytes for 2 instances, got %d", ub.Len())
	}

	data := ub.Bytes()
	checks := []struct {
		offset   int
		expected float32
		what     string
	}{
		{0, 100, "mvp[0]"},
		{60, 115, "mvp[15]"},
		{64, 200, "modelview[0]"},
		{128, 300, "normalmatrix[0]"},
		{192, 400, "second instance mvp[0]"},
		{256, 500, "second instance modelview[0]"},
		{320, 600, "second instance normalmatrix[0]"},
	}
	for _, c := range checks {
		if got := f32At(data, c.offset); got != c.expected {
			t.Errorf("%s at %d: expected %f, got %f", c.what, c.offset, c.expected, got)
		}
	}
}

// The lighting shader declares Light lights[100] behind a 16 byte header,
// so a full block is 16 + 100*80 bytes. The app cross checks this against
// GL reflection in debug mode; here the staged sizes are pinned directly.
func TestBlockCapacities(t *testing.T) {
	var lights prism.UniformBuffer
	AppendLights(&lights, mgl32.Vec3{}, make([]scene.Light, scene.MaxLights))
	if lights.Len() != 16+scene.MaxLights*80 {
		t.Errorf("Full lights block: expected %d bytes, got %d", 16+scene.MaxLights*80, lights.Len())
	}

	var materials prism.UniformBuffer
	AppendMaterials(&materials, make([]scene.Material, scene.MaxMaterials))
	if materials.Len() != scene.MaxMaterials*48 {
		t.Errorf("Full materials block: expected %d bytes, got %d", scene.MaxMaterials*48, materials.Len())
	}

	var matrices prism.UniformBuffer
	AppendInstances(&matrices, make([]scene.InstanceMatrices, scene.MaxLights))
	if matrices.Len() != scene.MaxLights*192 {
		t.Errorf("Full matrices block: expected %d bytes, got %d", scene.MaxLights*192, matrices.Len())
	}
}
