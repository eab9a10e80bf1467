package scene

import (
	"math/rand"

	"github.com/go-gl/mathgl/mgl32"
)

// MaxLights is the capacity of the lights array declared by the lighting
// shader. The instance matrices array has the same capacity, one mesh
// instance per light.
const MaxLights = 100

// Light matches the lighting shader's Light struct member for member.
// Position and SpotDirection are in view space.
type Light struct {
	Position      mgl32.Vec4
	Diffuse       mgl32.Vec3
	Specular      mgl32.Vec3
	IsSpot        bool
	SpotDirection mgl32.Vec3
	SpotCutoff    float32
	SpotExponent  float32
}

// Grid is the swirling lattice of spot lights hovering over the instance
// field. Each cell carries a seeded random color, shared by the light and
// the mesh instance below it.
type Grid struct {
	ni, nj   int
	offsetI  float32
	offsetJ  float32
	colors   []mgl32.Vec3
	rotation mgl32.Mat4
}

func NewGrid(cfg Config) *Grid {
	rng := rand.New(rand.NewSource(cfg.Seed))
	colors := make([]mgl32.Vec3, cfg.NLights())
	for i := range colors {
		colors[i] = mgl32.Vec3{rng.Float32(), rng.Float32(), rng.Float32()}
	}
	return &Grid{
		ni:       cfg.LightsI,
		nj:       cfg.LightsJ,
		offsetI:  cfg.OffsetI,
		offsetJ:  cfg.OffsetJ,
		colors:   colors,
		rotation: mgl32.Ident4(),
	}
}

// Rotate advances the swirl by angle radians around the Y axis.
func (g *Grid) Rotate(angle float32) {
	g.rotation = g.rotation.Mul4(mgl32.HomogRotate3DY(angle))
}

// Count returns the number of lattice cells.
func (g *Grid) Count() int {
	return g.ni * g.nj
}

// Color returns the seeded color of cell (i, j).
func (g *Grid) Color(i, j int) mgl32.Vec3 {
	return g.colors[i+g.ni*j]
}

// Translation returns the lattice offset of cell (i, j), centered on the
// origin.
func (g *Grid) Translation(i, j int) mgl32.Mat4 {
	x := (float32(i) - float32(g.ni-1)/2) * g.offsetI
	z := (float32(j) - float32(g.nj-1)/2) * g.offsetJ
	return mgl32.Translate3D(x, 0, z)
}

// Lights builds the view space light list for the current swirl rotation.
// Every light is a downward spot 10 units above its cell.
func (g *Grid) Lights(view mgl32.Mat4) []Light {
	lights := make([]Light, 0, g.Count())
	for i := 0; i < g.ni; i++ {
		for j := 0; j < g.nj; j++ {
			model := g.rotation.Mul4(g.Translation(i, j))
			modelview := view.Mul4(model)
			normalmatrix := modelview.Inv().Transpose()
			spotDir := normalmatrix.Mul4x1(mgl32.Vec4{0, -1, 0, 0}).Vec3().Normalize()

			lights = append(lights, Light{
				Position:      modelview.Mul4x1(mgl32.Vec4{0, 10, 0, 1}),
				Diffuse:       g.Color(i, j),
				Specular:      mgl32.Vec3{0.5, 0.5, 0.5},
				IsSpot:        true,
				SpotDirection: spotDir,
				SpotCutoff:    mgl32.DegToRad(45),
				SpotExponent:  16,
			})
		}
	}
	return lights
}
