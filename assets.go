package prism

import (
	"github.com/google/uuid"
)

type AssetId string

// MeshAsset is an indexed triangle mesh with optional per vertex normals
// and texture coordinates, flattened the way the attribute arrays are
// uploaded.
type MeshAsset struct {
	Name      string
	Positions []float32
	Normals   []float32
	TexCoords []float32
	Indices   []uint32
}

// AssetServer owns the loaded assets and hands out opaque ids for them.
type AssetServer struct {
	meshes map[AssetId]MeshAsset
}

func NewAssetServer() *AssetServer {
	return &AssetServer{
		meshes: make(map[AssetId]MeshAsset),
	}
}

// LoadMeshOBJ parses a Wavefront OBJ file and registers its mesh.
func (server *AssetServer) LoadMeshOBJ(filename string) (AssetId, error) {
	mesh, err := LoadOBJFile(filename)
	if err != nil {
		return "", err
	}
	return server.AddMesh(*mesh), nil
}

// AddMesh registers a mesh built in code.
func (server *AssetServer) AddMesh(mesh MeshAsset) AssetId {
	id := makeAssetId()
	server.meshes[id] = mesh
	return id
}

// Mesh returns the mesh behind an id.
func (server *AssetServer) Mesh(id AssetId) (MeshAsset, bool) {
	mesh, ok := server.meshes[id]
	return mesh, ok
}

func makeAssetId() AssetId {
	return AssetId(uuid.NewString())
}
