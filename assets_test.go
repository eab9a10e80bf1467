package prism

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAssetServer_meshRegistry(t *testing.T) {
	server := NewAssetServer()

	mesh := MeshAsset{
		Name:      "tri",
		Positions: []float32{0, 0, 0, 1, 0, 0, 0, 1, 0},
		Indices:   []uint32{0, 1, 2},
	}
	id := server.AddMesh(mesh)
	require.NotEmpty(t, id)

	got, ok := server.Mesh(id)
	require.True(t, ok)
	assert.Equal(t, mesh, got)

	_, ok = server.Mesh(AssetId("missing"))
	assert.False(t, ok, "unknown ids should not resolve")

	id2 := server.AddMesh(mesh)
	assert.NotEqual(t, id, id2, "each registration gets its own id")
}

func TestAssetServer_loadMeshOBJ(t *testing.T) {
	file := filepath.Join(t.TempDir(), "tri.obj")
	require.NoError(t, os.WriteFile(file, []byte("v 0 0 0\nv 1 0 0\nv 0 1 0\nf 1 2 3\n"), 0644))

	server := NewAssetServer()
	id, err := server.LoadMeshOBJ(file)
	require.NoError(t, err)

	mesh, ok := server.Mesh(id)
	require.True(t, ok)
	assert.Equal(t, []uint32{0, 1, 2}, mesh.Indices)
	assert.Len(t, mesh.Positions, 9)

	_, err = server.LoadMeshOBJ(filepath.Join(t.TempDir(), "missing.obj"))
	assert.Error(t, err)
}
