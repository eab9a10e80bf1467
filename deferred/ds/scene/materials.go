package scene

import (
	"github.com/go-gl/mathgl/mgl32"
)

// MaxMaterials is the capacity of the materials array declared by the
// lighting shader.
const MaxMaterials = 8

// MaterialID indexes the materials block shared by both render passes.
type MaterialID int32

const (
	MaterialMesh MaterialID = iota
	MaterialGround
)

// Material matches the lighting shader's Material struct member for
// member.
type Material struct {
	Diffuse   mgl32.Vec3
	Ambient   mgl32.Vec3
	Specular  mgl32.Vec3
	Shininess float32
}

// DefaultMaterials returns the materials in MaterialID order.
func DefaultMaterials() []Material {
	return []Material{
		{
			Diffuse:   mgl32.Vec3{0.70, 0.70, 0.70},
			Ambient:   mgl32.Vec3{0.50, 0.50, 0.50},
			Specular:  mgl32.Vec3{0.50, 0.50, 0.50},
			Shininess: 16,
		},
		{
			Diffuse:   mgl32.Vec3{0.50, 0.50, 0.50},
			Ambient:   mgl32.Vec3{0.50, 0.50, 0.50},
			Specular:  mgl32.Vec3{0.20, 0.20, 0.20},
			Shininess: 16,
		},
	}
}
