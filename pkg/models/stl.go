package models

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"fmt"
	"os"
	"strings"

	"github.com/taigrr/trishade/pkg/math3d"
)

const (
	stlHeaderSize = 84
	stlFacetSize  = 50
)

// LoadSTL loads an ASCII or binary STL file. STL has no colors, so every
// vertex gets DefaultColor; coincident corners are merged and the normals
// recomputed by averaging so Gouraud and Phong shade smoothly.
func LoadSTL(path string) (*Mesh, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read stl: %w", err)
	}
	return ParseSTL(data, path)
}

// ParseSTL parses STL data in either encoding.
func ParseSTL(data []byte, name string) (*Mesh, error) {
	b := &stlBuilder{mesh: NewMesh(name), index: make(map[math3d.Vec3]int)}

	var err error
	if isBinarySTL(data) {
		err = b.binary(data)
	} else {
		err = b.ascii(data)
	}
	if err != nil {
		return nil, err
	}

	b.mesh.CalculateSmoothNormals()
	b.mesh.CalculateBounds()
	return b.mesh, nil
}

// isBinarySTL reports whether data is binary STL. Some exporters start
// binary headers with "solid", so the size must also disagree.
func isBinarySTL(data []byte) bool {
	if len(data) < stlHeaderSize {
		return false
	}
	if !bytes.HasPrefix(bytes.TrimLeft(data, " \t\r\n"), []byte("solid")) {
		return true
	}
	count := binary.LittleEndian.Uint32(data[80:stlHeaderSize])
	return uint64(len(data)) == stlHeaderSize+uint64(count)*stlFacetSize
}

type stlBuilder struct {
	mesh  *Mesh
	index map[math3d.Vec3]int
}

func (b *stlBuilder) vertex(p math3d.Vec3) int {
	if idx, ok := b.index[p]; ok {
		return idx
	}
	idx := len(b.mesh.Vertices)
	b.mesh.Vertices = append(b.mesh.Vertices, MeshVertex{Position: p, Color: DefaultColor})
	b.index[p] = idx
	return idx
}

func (b *stlBuilder) binary(data []byte) error {
	count := binary.LittleEndian.Uint32(data[80:stlHeaderSize])
	want := stlHeaderSize + uint64(count)*stlFacetSize
	if uint64(len(data)) < want {
		return fmt.Errorf("binary stl truncated: expected %d bytes, got %d", want, len(data))
	}

	for i := range int(count) {
		// Skip the stored facet normal.
		offset := stlHeaderSize + i*stlFacetSize + 12
		var f Face
		for v := range 3 {
			o := offset + v*12
			f.V[v] = b.vertex(math3d.V3(
				float64(readFloat32(data[o:])),
				float64(readFloat32(data[o+4:])),
				float64(readFloat32(data[o+8:])),
			))
		}
		b.mesh.Faces = append(b.mesh.Faces, f)
	}
	return nil
}

func (b *stlBuilder) ascii(data []byte) error {
	scanner := bufio.NewScanner(bytes.NewReader(data))
	lineNum := 0
	var corners []int

	for scanner.Scan() {
		lineNum++
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}

		switch strings.ToLower(fields[0]) {
		case "solid":
			if len(fields) > 1 {
				b.mesh.Name = fields[1]
			}
		case "facet":
			corners = corners[:0]
		case "vertex":
			if len(fields) < 4 {
				return fmt.Errorf("line %d: vertex needs x y z", lineNum)
			}
			p, err := parseFloats(fields[1:4])
			if err != nil {
				return fmt.Errorf("line %d: invalid vertex: %w", lineNum, err)
			}
			corners = append(corners, b.vertex(math3d.V3(p[0], p[1], p[2])))
		case "endfacet":
			if len(corners) >= 3 {
				b.mesh.Faces = append(b.mesh.Faces, Face{V: [3]int{corners[0], corners[1], corners[2]}})
			}
		}
	}

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("read stl: %w", err)
	}
	return nil
}
