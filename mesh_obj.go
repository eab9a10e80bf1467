package prism

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// LoadOBJFile parses a Wavefront OBJ file into a mesh asset. Faces with
// more than three vertices are fan triangulated.
func LoadOBJFile(filename string) (*MeshAsset, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	mesh, err := parseOBJ(file, filename)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", filename, err)
	}
	return mesh, nil
}

// objVertex holds 1 based indices into the raw attribute lists; 0 means
// the attribute was not given for this face corner.
type objVertex struct {
	position int
	texcoord int
	normal   int
}

func parseOBJ(r io.Reader, name string) (*MeshAsset, error) {
	var positions [][3]float32
	var texcoords [][2]float32
	var normals [][3]float32
	var faces [][]objVertex

	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 || strings.HasPrefix(fields[0], "#") {
			continue
		}

		switch fields[0] {
		case "v":
			v, err := parseFloats(fields[1:], 3)
			if err != nil {
				return nil, fmt.Errorf("line %d: vertex: %w", lineNo, err)
			}
			positions = append(positions, [3]float32{v[0], v[1], v[2]})
		case "vt":
			v, err := parseFloats(fields[1:], 2)
			if err != nil {
				return nil, fmt.Errorf("line %d: texcoord: %w", lineNo, err)
			}
			texcoords = append(texcoords, [2]float32{v[0], v[1]})
		case "vn":
			v, err := parseFloats(fields[1:], 3)
			if err != nil {
				return nil, fmt.Errorf("line %d: normal: %w", lineNo, err)
			}
			normals = append(normals, [3]float32{v[0], v[1], v[2]})
		case "f":
			if len(fields) < 4 {
				return nil, fmt.Errorf("line %d: face with %d vertices", lineNo, len(fields)-1)
			}
			face := make([]objVertex, 0, len(fields)-1)
			for _, tok := range fields[1:] {
				fv, err := parseFaceVertex(tok, len(positions), len(texcoords), len(normals))
				if err != nil {
					return nil, fmt.Errorf("line %d: %w", lineNo, err)
				}
				face = append(face, fv)
			}
			faces = append(faces, face)
		default:
			// o, g, s, mtllib, usemtl and friends carry no geometry
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	if len(faces) == 0 {
		return nil, fmt.Errorf("no faces found")
	}

	return buildMesh(name, positions, texcoords, normals, faces), nil
}

// buildMesh flattens the indexed-per-attribute OBJ data into single-index
// attribute arrays, deduplicating identical face corners.
func buildMesh(name string, positions [][3]float32, texcoords [][2]float32,
	normals [][3]float32, faces [][]objVertex) *MeshAsset {

	hasTexcoords := false
	hasNormals := false
	for _, face := range faces {
		for _, fv := range face {
			hasTexcoords = hasTexcoords || fv.texcoord != 0
			hasNormals = hasNormals || fv.normal != 0
		}
	}

	mesh := &MeshAsset{Name: name}
	seen := make(map[objVertex]uint32)
	emit := func(fv objVertex) uint32 {
		if index, ok := seen[fv]; ok {
			return index
		}
		index := uint32(len(mesh.Positions) / 3)
		seen[fv] = index

		p := positions[fv.position-1]
		mesh.Positions = append(mesh.Positions, p[0], p[1], p[2])
		if hasTexcoords {
			var t [2]float32
			if fv.texcoord != 0 {
				t = texcoords[fv.texcoord-1]
			}
			mesh.TexCoords = append(mesh.TexCoords, t[0], t[1])
		}
		if hasNormals {
			var n [3]float32
			if fv.normal != 0 {
				n = normals[fv.normal-1]
			}
			mesh.Normals = append(mesh.Normals, n[0], n[1], n[2])
		}
		return index
	}

	for _, face := range faces {
		for i := 1; i+1 < len(face); i++ {
			mesh.Indices = append(mesh.Indices, emit(face[0]), emit(face[i]), emit(face[i+1]))
		}
	}
	return mesh
}

func parseFloats(fields []string, n int) ([]float32, error) {
	if len(fields) < n {
		return nil, fmt.Errorf("expected %d components, got %d", n, len(fields))
	}
	out := make([]float32, n)
	for i := 0; i < n; i++ {
		f, err := strconv.ParseFloat(fields[i], 32)
		if err != nil {
			return nil, fmt.Errorf("bad component %q", fields[i])
		}
		out[i] = float32(f)
	}
	return out, nil
}

func parseFaceVertex(tok string, nPositions, nTexcoords, nNormals int) (objVertex, error) {
	parts := strings.Split(tok, "/")
	if len(parts) > 3 {
		return objVertex{}, fmt.Errorf("malformed face vertex %q", tok)
	}

	var fv objVertex
	var err error
	if fv.position, err = resolveIndex(parts[0], nPositions); err != nil {
		return objVertex{}, fmt.Errorf("face vertex %q: %w", tok, err)
	}
	if len(parts) > 1 && parts[1] != "" {
		if fv.texcoord, err = resolveIndex(parts[1], nTexcoords); err != nil {
			return objVertex{}, fmt.Errorf("face vertex %q: %w", tok, err)
		}
	}
	if len(parts) > 2 && parts[2] != "" {
		if fv.normal, err = resolveIndex(parts[2], nNormals); err != nil {
			return objVertex{}, fmt.Errorf("face vertex %q: %w", tok, err)
		}
	}
	return fv, nil
}

// resolveIndex turns an OBJ index into a 1 based one; negative indices
// count back from the end of the list parsed so far.
func resolveIndex(tok string, n int) (int, error) {
	index, err := strconv.Atoi(tok)
	if err != nil {
		return 0, fmt.Errorf("bad index %q", tok)
	}
	if index < 0 {
		index = n + index + 1
	}
	if index < 1 || index > n {
		return 0, fmt.Errorf("index %d out of range", index)
	}
	return index, nil
}
