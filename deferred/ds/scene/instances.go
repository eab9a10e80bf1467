package scene

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// InstanceMatrices is one element of the geometry shader's matrices block.
type InstanceMatrices struct {
	MVP          mgl32.Mat4
	ModelView    mgl32.Mat4
	NormalMatrix mgl32.Mat4
}

func makeInstance(model, view, projection mgl32.Mat4) InstanceMatrices {
	modelview := view.Mul4(model)
	return InstanceMatrices{
		MVP:          projection.Mul4(modelview),
		ModelView:    modelview,
		NormalMatrix: modelview.Inv().Transpose(),
	}
}

// MeshInstances builds one transform per lattice cell. The yaw of each
// instance derives from its cell color, so the meshes face different ways
// but never move.
func (g *Grid) MeshInstances(view, projection mgl32.Mat4) []InstanceMatrices {
	instances := make([]InstanceMatrices, 0, g.Count())
	for i := 0; i < g.ni; i++ {
		for j := 0; j < g.nj; j++ {
			theta := g.Color(i, j).X() * 2 * float32(math.Pi)
			model := g.Translation(i, j).Mul4(mgl32.HomogRotate3DY(theta))
			instances = append(instances, makeInstance(model, view, projection))
		}
	}
	return instances
}

// GroundInstance is the single identity placed instance for the ground
// quad.
func GroundInstance(view, projection mgl32.Mat4) InstanceMatrices {
	return makeInstance(mgl32.Ident4(), view, projection)
}
