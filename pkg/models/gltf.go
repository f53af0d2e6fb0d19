package models

import (
	"encoding/binary"
	"fmt"
	"math"
	"path/filepath"

	"github.com/qmuntal/gltf"
	"github.com/taigrr/trishade/pkg/math3d"
	"github.com/taigrr/trishade/pkg/render"
)

// GLTFLoader loads GLTF/GLB files into Mesh format.
type GLTFLoader struct {
	CalculateNormals bool
	SmoothNormals    bool
}

// NewGLTFLoader creates a new GLTF loader with default options.
func NewGLTFLoader() *GLTFLoader {
	return &GLTFLoader{
		CalculateNormals: true,
		SmoothNormals:    true,
	}
}

// LoadGLB loads a binary or JSON glTF file with default options.
func LoadGLB(path string) (*Mesh, error) {
	return NewGLTFLoader().Load(path)
}

// Load loads a GLTF or GLB file and returns a Mesh.
func (l *GLTFLoader) Load(path string) (*Mesh, error) {
	doc, err := gltf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open gltf: %w", err)
	}
	return l.FromDocument(doc, filepath.Base(path))
}

// FromDocument merges every triangle primitive of doc into one mesh.
// Node transforms are not applied.
func (l *GLTFLoader) FromDocument(doc *gltf.Document, name string) (*Mesh, error) {
	mesh := NewMesh(name)

	for _, m := range doc.Meshes {
		if err := l.processMesh(doc, m, mesh); err != nil {
			return nil, fmt.Errorf("process mesh %q: %w", m.Name, err)
		}
	}

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

	mesh.CalculateBounds()

	return mesh, nil
}

// processMesh extracts geometry from a GLTF mesh.
func (l *GLTFLoader) processMesh(doc *gltf.Document, m *gltf.Mesh, mesh *Mesh) error {
	for _, prim := range m.Primitives {
		if prim.Mode != gltf.PrimitiveTriangles && prim.Mode != 0 {
			// lines, points, strips
			continue
		}

		posIdx, ok := prim.Attributes[gltf.POSITION]
		if !ok {
			continue
		}

		positions, err := readVec3Accessor(doc, posIdx)
		if err != nil {
			return fmt.Errorf("read positions: %w", err)
		}

		var normals []math3d.Vec3
		if normIdx, ok := prim.Attributes[gltf.NORMAL]; ok {
			normals, err = readVec3Accessor(doc, normIdx)
			if err != nil {
				return fmt.Errorf("read normals: %w", err)
			}
		}

		var colors []render.Color
		if colIdx, ok := prim.Attributes[gltf.COLOR_0]; ok {
			colors, err = readColorAccessor(doc, colIdx)
			if err != nil {
				return fmt.Errorf("read colors: %w", err)
			}
		}

		baseVertex := len(mesh.Vertices)

		for i := range positions {
			v := MeshVertex{
				Position: positions[i],
				Color:    DefaultColor,
			}
			if i < len(normals) {
				v.Normal = normals[i]
			}
			if i < len(colors) {
				v.Color = colors[i]
			}
			mesh.Vertices = append(mesh.Vertices, v)
		}

		var indices []int
		if prim.Indices != nil {
			indices, err = readIndices(doc, *prim.Indices)
			if err != nil {
				return fmt.Errorf("read indices: %w", err)
			}
		} else {
			indices = make([]int, len(positions))
			for i := range indices {
				indices[i] = i
			}
		}

		for i := 0; i+2 < len(indices); i += 3 {
			f := Face{V: [3]int{
				baseVertex + indices[i],
				baseVertex + indices[i+1],
				baseVertex + indices[i+2],
			}}
			for _, idx := range f.V {
				if idx >= len(mesh.Vertices) {
					return fmt.Errorf("index %d out of range", idx-baseVertex)
				}
			}
			mesh.Faces = append(mesh.Faces, f)
		}
	}

	return nil
}

// accessorView returns the accessor's backing bytes, its start offset and
// the stride between elements.
func accessorView(doc *gltf.Document, accessor *gltf.Accessor, elemSize int) ([]byte, int, int, error) {
	if accessor.BufferView == nil {
		return nil, 0, 0, fmt.Errorf("accessor has no buffer view")
	}

	bufferView := doc.BufferViews[*accessor.BufferView]
	buffer := doc.Buffers[bufferView.Buffer]
	if buffer.Data == nil {
		return nil, 0, 0, fmt.Errorf("buffer has no data")
	}

	start := bufferView.ByteOffset + accessor.ByteOffset
	stride := bufferView.ByteStride
	if stride == 0 {
		stride = elemSize
	}
	if accessor.Count > 0 {
		end := start + (accessor.Count-1)*stride + elemSize
		if end > len(buffer.Data) {
			return nil, 0, 0, fmt.Errorf("accessor overruns buffer (%d > %d)", end, len(buffer.Data))
		}
	}
	return buffer.Data, start, stride, nil
}

// readVec3Accessor reads float VEC3 data from a GLTF accessor.
func readVec3Accessor(doc *gltf.Document, accessorIdx int) ([]math3d.Vec3, error) {
	accessor := doc.Accessors[accessorIdx]
	if accessor.Type != gltf.AccessorVec3 || accessor.ComponentType != gltf.ComponentFloat {
		return nil, fmt.Errorf("expected float VEC3, got %v / %v", accessor.Type, accessor.ComponentType)
	}

	data, start, stride, err := accessorView(doc, accessor, 12)
	if err != nil {
		return nil, err
	}

	result := make([]math3d.Vec3, accessor.Count)
	for i := range result {
		offset := start + i*stride
		result[i] = math3d.V3(
			float64(readFloat32(data[offset:])),
			float64(readFloat32(data[offset+4:])),
			float64(readFloat32(data[offset+8:])),
		)
	}
	return result, nil
}

// readColorAccessor reads COLOR_0 as VEC3 or VEC4 (alpha dropped) in
// float, normalized ubyte or normalized ushort components.
func readColorAccessor(doc *gltf.Document, accessorIdx int) ([]render.Color, error) {
	accessor := doc.Accessors[accessorIdx]

	var n int
	switch accessor.Type {
	case gltf.AccessorVec3:
		n = 3
	case gltf.AccessorVec4:
		n = 4
	default:
		return nil, fmt.Errorf("expected VEC3 or VEC4 color, got %v", accessor.Type)
	}

	var size int
	var read func(b []byte) float64
	switch accessor.ComponentType {
	case gltf.ComponentFloat:
		size = 4
		read = func(b []byte) float64 { return float64(readFloat32(b)) }
	case gltf.ComponentUbyte:
		size = 1
		read = func(b []byte) float64 { return float64(b[0]) / math.MaxUint8 }
	case gltf.ComponentUshort:
		size = 2
		read = func(b []byte) float64 { return float64(binary.LittleEndian.Uint16(b)) / math.MaxUint16 }
	default:
		return nil, fmt.Errorf("unsupported color component type %v", accessor.ComponentType)
	}

	data, start, stride, err := accessorView(doc, accessor, n*size)
	if err != nil {
		return nil, err
	}

	result := make([]render.Color, accessor.Count)
	for i := range result {
		offset := start + i*stride
		result[i] = render.RGB(
			read(data[offset:]),
			read(data[offset+size:]),
			read(data[offset+2*size:]),
		)
	}
	return result, nil
}

// readIndices reads scalar index data from a GLTF accessor.
func readIndices(doc *gltf.Document, accessorIdx int) ([]int, error) {
	accessor := doc.Accessors[accessorIdx]
	if accessor.Type != gltf.AccessorScalar {
		return nil, fmt.Errorf("expected SCALAR indices, got %v", accessor.Type)
	}

	var size int
	switch accessor.ComponentType {
	case gltf.ComponentUbyte:
		size = 1
	case gltf.ComponentUshort:
		size = 2
	case gltf.ComponentUint:
		size = 4
	default:
		return nil, fmt.Errorf("unexpected index type: %v", accessor.ComponentType)
	}

	data, start, stride, err := accessorView(doc, accessor, size)
	if err != nil {
		return nil, err
	}

	result := make([]int, accessor.Count)
	for i := range result {
		b := data[start+i*stride:]
		switch size {
		case 1:
			result[i] = int(b[0])
		case 2:
			result[i] = int(binary.LittleEndian.Uint16(b))
		default:
			result[i] = int(binary.LittleEndian.Uint32(b))
		}
	}
	return result, nil
}

// readFloat32 reads a little-endian float32.
func readFloat32(b []byte) float32 {
	return math.Float32frombits(binary.LittleEndian.Uint32(b))
}
