package gpu

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/prism3d/prism"
	"github.com/prism3d/prism/deferred/ds/scene"
)

// The Append functions only stage bytes, so they can run without a GL
// context. The Update functions wrap them with the per frame handle
// dance: allocate the device buffer on first use, drop last frame's bytes
// on every later one, then upload.

func prepare(ub *prism.UniformBuffer) {
	if ub.Id() == 0 {
		ub.Init()
	} else {
		ub.Clear()
	}
}

// AppendMaterials stages the materials block.
//
// Buffer configuration:
//
//	struct Material {
//	    vec3 diffuse;
//	    vec3 ambient;
//	    vec3 specular;
//	    float shininess;
//	};
//
//	layout (std140) uniform MaterialsBlock {
//	    Material materials[8];
//	};
func AppendMaterials(ub *prism.UniformBuffer, materials []scene.Material) {
	for _, m := range materials {
		ub.AddVec3(m.Diffuse)
		ub.AddVec3(m.Ambient)
		ub.AddVec3(m.Specular)
		ub.AddFloat(m.Shininess)
		ub.FinishChunk()
	}
}

// AppendLights stages the lights block.
//
// Buffer configuration:
//
//	struct Light {
//	    vec4 position;
//	    vec3 diffuse;
//	    vec3 specular;
//	    bool is_spot;
//	    vec3 spot_direction;
//	    float spot_cutoff;
//	    float spot_exponent;
//	};
//
//	layout (std140) uniform LightsBlock {
//	    vec3 global_ambient;
//	    int n_lights;
//	    Light lights[100];
//	};
func AppendLights(ub *prism.UniformBuffer, ambient mgl32.Vec3, lights []scene.Light) {
	ub.AddVec3(ambient)
	ub.AddInt(int32(len(lights)))
	ub.FinishChunk()

	for _, l := range lights {
		ub.AddVec4(l.Position)
		ub.AddVec3(l.Diffuse)
		ub.AddVec3(l.Specular)
		ub.AddBool(l.IsSpot)
		ub.AddVec3(l.SpotDirection)
		ub.AddFloat(l.SpotCutoff)
		ub.AddFloat(l.SpotExponent)
		ub.FinishChunk()
	}
}

// AppendInstances stages the per instance matrices block.
//
// Buffer configuration:
//
//	struct Matrices {
//	    mat4 mvp;
//	    mat4 modelview;
//	    mat4 normalmatrix;
//	};
//
//	layout (std140) uniform MatricesBlock {
//	    Matrices matrices[100];
//	};
func AppendInstances(ub *prism.UniformBuffer, instances []scene.InstanceMatrices) {
	for _, inst := range instances {
		ub.AddMat4(inst.MVP)
		ub.AddMat4(inst.ModelView)
		ub.AddMat4(inst.NormalMatrix)
	}
}

// UpdateMaterialsBlock uploads the materials block.
func UpdateMaterialsBlock(ub *prism.UniformBuffer, materials []scene.Material) {
	prepare(ub)
	AppendMaterials(ub, materials)
	ub.SendToDevice()
}

// UpdateLightsBlock rebuilds and uploads the lights block.
func UpdateLightsBlock(ub *prism.UniformBuffer, ambient mgl32.Vec3, lights []scene.Light) {
	prepare(ub)
	AppendLights(ub, ambient, lights)
	ub.SendToDevice()
}

// UpdateInstancesBlock rebuilds and uploads the matrices block.
func UpdateInstancesBlock(ub *prism.UniformBuffer, instances []scene.InstanceMatrices) {
	prepare(ub)
	AppendInstances(ub, instances)
	ub.SendToDevice()
}
