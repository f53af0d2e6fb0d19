package models

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/taigrr/trishade/pkg/math3d"
	"github.com/taigrr/trishade/pkg/render"
)

// OBJLoader loads Wavefront OBJ files. A vertex line may carry a color
// after its position ("v x y z r g b"), as written by MeshLab and others.
type OBJLoader struct {
	CalculateNormals bool // calculate normals if the file has none
	SmoothNormals    bool // average normals across shared vertices
}

// NewOBJLoader creates a new OBJ loader with smooth normals enabled.
func NewOBJLoader() *OBJLoader {
	return &OBJLoader{
		CalculateNormals: true,
		SmoothNormals:    true,
	}
}

// LoadOBJ loads an OBJ file with default settings.
func LoadOBJ(path string) (*Mesh, error) {
	return NewOBJLoader().LoadFile(path)
}

// LoadFile loads an OBJ file from disk.
func (l *OBJLoader) LoadFile(path string) (*Mesh, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open obj: %w", err)
	}
	defer f.Close()

	return l.Load(f, path)
}

// Load parses an OBJ from a reader. Polygons are fan-triangulated and
// texture coordinates are ignored.
func (l *OBJLoader) Load(r io.Reader, name string) (*Mesh, error) {
	mesh := NewMesh(name)

	var positions []math3d.Vec3
	var colors []render.Color
	var normals []math3d.Vec3

	// OBJ indexes positions and normals separately; one mesh vertex per pair.
	type vertexKey struct {
		pos, normal int
	}
	vertexMap := make(map[vertexKey]int)

	scanner := bufio.NewScanner(r)
	lineNum := 0

	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())
		if len(line) == 0 || line[0] == '#' {
			continue
		}

		fields := strings.Fields(line)
		switch fields[0] {
		case "v":
			if len(fields) < 4 {
				return nil, fmt.Errorf("line %d: invalid vertex (need x y z)", lineNum)
			}
			p, err := parseFloats(fields[1:4])
			if err != nil {
				return nil, fmt.Errorf("line %d: invalid vertex: %w", lineNum, err)
			}
			positions = append(positions, math3d.V3(p[0], p[1], p[2]))

			c := DefaultColor
			if len(fields) >= 7 {
				rgb, err := parseFloats(fields[4:7])
				if err != nil {
					return nil, fmt.Errorf("line %d: invalid vertex color: %w", lineNum, err)
				}
				c = render.RGB(rgb[0], rgb[1], rgb[2])
			}
			colors = append(colors, c)

		case "vn":
			if len(fields) < 4 {
				return nil, fmt.Errorf("line %d: invalid normal (need x y z)", lineNum)
			}
			n, err := parseFloats(fields[1:4])
			if err != nil {
				return nil, fmt.Errorf("line %d: invalid normal: %w", lineNum, err)
			}
			normals = append(normals, math3d.V3(n[0], n[1], n[2]).Normalize())

		case "f":
			if len(fields) < 4 {
				return nil, fmt.Errorf("line %d: face needs at least 3 vertices", lineNum)
			}

			var faceVerts []int
			for _, field := range fields[1:] {
				posIdx, normalIdx, err := parseFaceVertex(field)
				if err != nil {
					return nil, fmt.Errorf("line %d: %w", lineNum, err)
				}

				posIdx = resolveIndex(posIdx, len(positions))
				normalIdx = resolveIndex(normalIdx, len(normals))
				if posIdx < 0 || posIdx >= len(positions) {
					return nil, fmt.Errorf("line %d: position index %s out of range", lineNum, field)
				}

				key := vertexKey{posIdx, normalIdx}
				vertIdx, exists := vertexMap[key]
				if !exists {
					vert := MeshVertex{
						Position: positions[posIdx],
						Color:    colors[posIdx],
					}
					if normalIdx >= 0 && normalIdx < len(normals) {
						vert.Normal = normals[normalIdx]
					}
					vertIdx = len(mesh.Vertices)
					mesh.Vertices = append(mesh.Vertices, vert)
					vertexMap[key] = vertIdx
				}
				faceVerts = append(faceVerts, vertIdx)
			}

			for i := 1; i < len(faceVerts)-1; i++ {
				mesh.Faces = append(mesh.Faces, Face{
					V: [3]int{faceVerts[0], faceVerts[i], faceVerts[i+1]},
				})
			}

		case "o", "g":
			if len(fields) > 1 {
				mesh.Name = fields[1]
			}

		default:
			// vt, mtllib, usemtl, s and unknown directives
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read obj: %w", err)
	}

	mesh.CalculateBounds()

	if l.CalculateNormals {
		switch {
		case mesh.HasNormals():
			mesh.FillMissingNormals()
		case l.SmoothNormals:
			mesh.CalculateSmoothNormals()
		default:
			mesh.CalculateNormals()
		}
	}

	return mesh, nil
}

func parseFloats(fields []string) ([]float64, error) {
	out := make([]float64, len(fields))
	for i, f := range fields {
		v, err := strconv.ParseFloat(f, 64)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

// parseFaceVertex parses v, v/vt, v/vt/vn or v//vn and returns the
// 1-indexed position and normal (0 when absent).
func parseFaceVertex(s string) (pos, normal int, err error) {
	parts := strings.Split(s, "/")

	pos, err = strconv.Atoi(parts[0])
	if err != nil {
		return 0, 0, fmt.Errorf("invalid vertex index: %s", parts[0])
	}

	if len(parts) > 2 && parts[2] != "" {
		normal, err = strconv.Atoi(parts[2])
		if err != nil {
			return 0, 0, fmt.Errorf("invalid normal index: %s", parts[2])
		}
	}

	return pos, normal, nil
}

// resolveIndex converts a 1-indexed or negative OBJ index to 0-indexed.
// Returns -1 for 0 (not specified).
func resolveIndex(idx, count int) int {
	if idx == 0 {
		return -1
	}
	if idx < 0 {
		return count + idx
	}
	return idx - 1
}
