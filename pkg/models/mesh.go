// Package models provides 3D model loading and representation for trishade.
package models

import (
	"github.com/taigrr/trishade/pkg/math3d"
	"github.com/taigrr/trishade/pkg/render"
)

// DefaultColor is assigned to vertices of files that carry no colors.
var DefaultColor = render.Grey

// Mesh represents a triangle mesh with per-vertex colors.
type Mesh struct {
	Name     string
	Vertices []MeshVertex
	Faces    []Face

	// Bounding box (calculated on load)
	BoundsMin math3d.Vec3
	BoundsMax math3d.Vec3
}

// MeshVertex holds all vertex attributes.
type MeshVertex struct {
	Position math3d.Vec3
	Normal   math3d.Vec3
	Color    render.Color
}

// Face represents a triangle face as indices into Mesh.Vertices.
type Face struct {
	V [3]int
}

// NewMesh creates an empty mesh.
func NewMesh(name string) *Mesh {
	return &Mesh{
		Name:     name,
		Vertices: make([]MeshVertex, 0),
		Faces:    make([]Face, 0),
	}
}

// CalculateBounds computes the axis-aligned bounding box.
func (m *Mesh) CalculateBounds() {
	if len(m.Vertices) == 0 {
		return
	}

	m.BoundsMin = m.Vertices[0].Position
	m.BoundsMax = m.Vertices[0].Position

	for _, v := range m.Vertices[1:] {
		m.BoundsMin = m.BoundsMin.Min(v.Position)
		m.BoundsMax = m.BoundsMax.Max(v.Position)
	}
}

// Center returns the center of the bounding box.
func (m *Mesh) Center() math3d.Vec3 {
	return m.BoundsMin.Add(m.BoundsMax).Scale(0.5)
}

// Size returns the dimensions of the bounding box.
func (m *Mesh) Size() math3d.Vec3 {
	return m.BoundsMax.Sub(m.BoundsMin)
}

// TriangleCount returns the number of triangles.
func (m *Mesh) TriangleCount() int {
	return len(m.Faces)
}

// VertexCount returns the number of vertices.
func (m *Mesh) VertexCount() int {
	return len(m.Vertices)
}

// HasNormals reports whether any vertex carries a usable normal.
func (m *Mesh) HasNormals() bool {
	for _, v := range m.Vertices {
		if hasNormal(v) {
			return true
		}
	}
	return false
}

func hasNormal(v MeshVertex) bool {
	return v.Normal.Len() > 0.001
}

// FillMissingNormals gives every vertex without a normal the smooth normal
// of its surrounding faces. Existing normals are kept. It reports whether
// any vertex changed.
func (m *Mesh) FillMissingNormals() bool {
	var smooth []math3d.Vec3
	changed := false
	for i, v := range m.Vertices {
		if hasNormal(v) {
			continue
		}
		if smooth == nil {
			smooth = render.VertexNormals(m.positions(), m.faceIndices())
		}
		m.Vertices[i].Normal = smooth[i]
		changed = true
	}
	return changed
}

func (m *Mesh) positions() []math3d.Vec3 {
	out := make([]math3d.Vec3, len(m.Vertices))
	for i, v := range m.Vertices {
		out[i] = v.Position
	}
	return out
}

func (m *Mesh) faceIndices() [][3]int {
	out := make([][3]int, len(m.Faces))
	for i, f := range m.Faces {
		out[i] = f.V
	}
	return out
}

// CalculateNormals assigns each face's normal to its vertices. Vertices
// shared between faces keep the normal of the last face.
func (m *Mesh) CalculateNormals() {
	for _, f := range m.Faces {
		normal := m.faceNormal(f).Normalize()
		for _, idx := range f.V {
			m.Vertices[idx].Normal = normal
		}
	}
}

// CalculateSmoothNormals averages the normals of the faces around each
// vertex. Face normals are left unnormalized so larger faces weigh more.
func (m *Mesh) CalculateSmoothNormals() {
	for i := range m.Vertices {
		m.Vertices[i].Normal = math3d.Zero3()
	}

	for _, f := range m.Faces {
		normal := m.faceNormal(f)
		for _, idx := range f.V {
			m.Vertices[idx].Normal = m.Vertices[idx].Normal.Add(normal)
		}
	}

	for i := range m.Vertices {
		m.Vertices[i].Normal = m.Vertices[i].Normal.Normalize()
	}
}

func (m *Mesh) faceNormal(f Face) math3d.Vec3 {
	v0 := m.Vertices[f.V[0]].Position
	v1 := m.Vertices[f.V[1]].Position
	v2 := m.Vertices[f.V[2]].Position
	return v1.Sub(v0).Cross(v2.Sub(v0))
}

// Transform applies a transformation matrix to all vertices.
func (m *Mesh) Transform(mat math3d.Mat4) {
	for i := range m.Vertices {
		m.Vertices[i].Position = mat.MulVec3(m.Vertices[i].Position)
		// Rotation part only; non-uniform scale would need the inverse transpose.
		m.Vertices[i].Normal = mat.MulVec3Dir(m.Vertices[i].Normal).Normalize()
	}
	m.CalculateBounds()
}

// AffineTransform rotates the mesh by theta radians about axis (through
// the origin) and then translates it by t.
func (m *Mesh) AffineTransform(axis math3d.Vec3, theta float64, t math3d.Vec3) {
	m.Transform(math3d.Affine(axis, theta, t))
}

// Normalize centers the mesh on the origin and scales it uniformly so its
// largest dimension equals size.
func (m *Mesh) Normalize(size float64) {
	m.CalculateBounds()
	dims := m.Size()
	extent := max(dims.X, dims.Y, dims.Z)
	scale := 1.0
	if extent > 0 {
		scale = size / extent
	}
	m.Transform(math3d.ScaleUniform(scale).Mul(math3d.Translate(m.Center().Negate())))
}

// Clone creates a deep copy of the mesh.
func (m *Mesh) Clone() *Mesh {
	clone := &Mesh{
		Name:      m.Name,
		Vertices:  make([]MeshVertex, len(m.Vertices)),
		Faces:     make([]Face, len(m.Faces)),
		BoundsMin: m.BoundsMin,
		BoundsMax: m.BoundsMax,
	}
	copy(clone.Vertices, m.Vertices)
	copy(clone.Faces, m.Faces)
	return clone
}

// Object converts the mesh into the compositor's parallel arrays. Normals
// are only carried over when the mesh has them; vertices missing one get
// the smooth normal of their faces.
func (m *Mesh) Object() render.Object {
	obj := render.Object{
		Positions: m.positions(),
		Colors:    make([]render.Color, len(m.Vertices)),
		Faces:     m.faceIndices(),
	}
	for i, v := range m.Vertices {
		obj.Colors[i] = v.Color
	}
	if !m.HasNormals() {
		return obj
	}

	obj.Normals = make([]math3d.Vec3, len(m.Vertices))
	var smooth []math3d.Vec3
	for i, v := range m.Vertices {
		if hasNormal(v) {
			obj.Normals[i] = v.Normal
			continue
		}
		if smooth == nil {
			smooth = render.VertexNormals(obj.Positions, obj.Faces)
		}
		obj.Normals[i] = smooth[i]
	}
	return obj
}

// FromObject builds a mesh from parallel arrays, e.g. an inline scene.
func FromObject(name string, obj render.Object) *Mesh {
	mesh := NewMesh(name)
	for i, p := range obj.Positions {
		v := MeshVertex{Position: p, Color: DefaultColor}
		if i < len(obj.Colors) {
			v.Color = obj.Colors[i]
		}
		if i < len(obj.Normals) {
			v.Normal = obj.Normals[i]
		}
		mesh.Vertices = append(mesh.Vertices, v)
	}
	for _, f := range obj.Faces {
		mesh.Faces = append(mesh.Faces, Face{V: f})
	}
	mesh.CalculateBounds()
	return mesh
}
