package prism

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseOBJ_quadWithNormals(t *testing.T) {
	src := `
# flat quad
v 0 0 0
v 1 0 0
v 1 1 0
v 0 1 0
vn 0 0 1
f 1//1 2//1 3//1 4//1
`
	mesh, err := parseOBJ(strings.NewReader(src), "quad")
	require.NoError(t, err)

	// Fan triangulation of the quad, no duplicated corners.
	assert.Equal(t, []uint32{0, 1, 2, 0, 2, 3}, mesh.Indices)
	assert.Len(t, mesh.Positions, 12)
	assert.Len(t, mesh.Normals, 12)
	assert.Empty(t, mesh.TexCoords)
	assert.Equal(t, []float32{0, 0, 1}, mesh.Normals[:3])
	assert.Equal(t, []float32{1, 1, 0}, mesh.Positions[6:9])
}

func TestParseOBJ_sharedCornersDeduplicate(t *testing.T) {
	src := `
v 0 0 0
v 1 0 0
v 1 1 0
v 0 1 0
f 1 2 3
f 1 3 4
`
	mesh, err := parseOBJ(strings.NewReader(src), "shared")
	require.NoError(t, err)

	assert.Len(t, mesh.Positions, 12, "four unique corners")
	assert.Equal(t, []uint32{0, 1, 2, 0, 2, 3}, mesh.Indices)
}

func TestParseOBJ_negativeIndices(t *testing.T) {
	src := `
v 0 0 0
v 1 0 0
v 0 1 0
f -3 -2 -1
`
	mesh, err := parseOBJ(strings.NewReader(src), "negative")
	require.NoError(t, err)

	assert.Equal(t, []uint32{0, 1, 2}, mesh.Indices)
	assert.Equal(t, []float32{0, 1, 0}, mesh.Positions[6:9])
}

func TestParseOBJ_texcoords(t *testing.T) {
	src := `
v 0 0 0
v 1 0 0
v 1 1 0
vt 0 0
vt 1 0
vt 1 1
vn 0 0 1
f 1/1/1 2/2/1 3/3/1
`
	mesh, err := parseOBJ(strings.NewReader(src), "textured")
	require.NoError(t, err)

	assert.Equal(t, []float32{0, 0, 1, 0, 1, 1}, mesh.TexCoords)
	assert.Len(t, mesh.Normals, 9)
}

func TestParseOBJ_errors(t *testing.T) {
	cases := []struct {
		name string
		src  string
	}{
		{"index out of range", "v 0 0 0\nf 1 2 3\n"},
		{"short face", "v 0 0 0\nv 1 0 0\nf 1 2\n"},
		{"bad coordinate", "v 0 zero 0\n"},
		{"no faces", "v 0 0 0\nv 1 0 0\nv 0 1 0\n"},
		{"malformed face vertex", "v 0 0 0\nv 1 0 0\nv 0 1 0\nf 1/1/1/1 2 3\n"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := parseOBJ(strings.NewReader(tc.src), tc.name)
			assert.Error(t, err)
		})
	}
}

func TestLoadOBJFile_missing(t *testing.T) {
	_, err := LoadOBJFile("does-not-exist.obj")
	assert.Error(t, err)
}
