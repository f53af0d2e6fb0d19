package models

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/taigrr/trishade/pkg/math3d"
	"github.com/taigrr/trishade/pkg/render"
)

func TestLoadSimpleOBJ(t *testing.T) {
	objData := `
# Simple triangle
v 0 0 0
v 1 0 0
v 0.5 1 0
f 1 2 3
`
	mesh, err := NewOBJLoader().Load(strings.NewReader(objData), "triangle")
	if err != nil {
		t.Fatalf("failed to load OBJ: %v", err)
	}

	if mesh.VertexCount() != 3 {
		t.Errorf("expected 3 vertices, got %d", mesh.VertexCount())
	}
	if mesh.TriangleCount() != 1 {
		t.Errorf("expected 1 triangle, got %d", mesh.TriangleCount())
	}
	for i, v := range mesh.Vertices {
		if v.Color != DefaultColor {
			t.Errorf("vertex %d: expected default color, got %v", i, v.Color)
		}
		if !v.Normal.ApproxEqual(math3d.V3(0, 0, 1), 1e-12) {
			t.Errorf("vertex %d: expected +Z normal, got %v", i, v.Normal)
		}
	}
}

func TestLoadCubeOBJ(t *testing.T) {
	objData := `
# Cube
v -0.5 -0.5 -0.5
v  0.5 -0.5 -0.5
v  0.5  0.5 -0.5
v -0.5  0.5 -0.5
v -0.5 -0.5  0.5
v  0.5 -0.5  0.5
v  0.5  0.5  0.5
v -0.5  0.5  0.5

f 1 2 3 4
f 5 6 7 8
f 1 4 8 5
f 2 6 7 3
f 4 3 7 8
f 1 5 6 2
`
	mesh, err := NewOBJLoader().Load(strings.NewReader(objData), "cube")
	if err != nil {
		t.Fatalf("failed to load cube: %v", err)
	}

	// 6 quads, 2 triangles each
	if mesh.TriangleCount() != 12 {
		t.Errorf("expected 12 triangles (6 quads), got %d", mesh.TriangleCount())
	}
	if mesh.VertexCount() != 8 {
		t.Errorf("expected shared vertices to be reused, got %d", mesh.VertexCount())
	}

	expectedMin := math3d.V3(-0.5, -0.5, -0.5)
	expectedMax := math3d.V3(0.5, 0.5, 0.5)
	if mesh.BoundsMin != expectedMin {
		t.Errorf("expected min bounds %v, got %v", expectedMin, mesh.BoundsMin)
	}
	if mesh.BoundsMax != expectedMax {
		t.Errorf("expected max bounds %v, got %v", expectedMax, mesh.BoundsMax)
	}
}

func TestLoadOBJVertexColorsAndNormals(t *testing.T) {
	objData := `
o colored
v 0 0 0 1 0 0
v 1 0 0 0 1 0
v 0 1 0 0 0 1
v 1 1 0
vn 0 0 2
f 1//1 2//1 3//1
f -3//1 -1//1 -2//1
`
	mesh, err := NewOBJLoader().Load(strings.NewReader(objData), "file.obj")
	if err != nil {
		t.Fatalf("failed to load OBJ: %v", err)
	}
	if mesh.Name != "colored" {
		t.Errorf("expected name from o directive, got %q", mesh.Name)
	}
	if mesh.TriangleCount() != 2 || mesh.VertexCount() != 4 {
		t.Fatalf("expected 2 faces over 4 vertices, got %d and %d", mesh.TriangleCount(), mesh.VertexCount())
	}

	want := []render.Color{render.Red, render.Green, render.Blue}
	for i, c := range want {
		if mesh.Vertices[i].Color != c {
			t.Errorf("vertex %d: expected %v, got %v", i, c, mesh.Vertices[i].Color)
		}
	}
	if mesh.Vertices[3].Color != DefaultColor {
		t.Errorf("expected default color for uncolored vertex, got %v", mesh.Vertices[3].Color)
	}
	// Negative indices resolve against the vertices read so far.
	if mesh.Faces[1].V != [3]int{1, 3, 2} {
		t.Errorf("expected second face {1 3 2}, got %v", mesh.Faces[1].V)
	}
	if mesh.Vertices[0].Normal != math3d.V3(0, 0, 1) {
		t.Errorf("expected file normal to be normalized, got %v", mesh.Vertices[0].Normal)
	}
}

func TestLoadOBJPartialNormals(t *testing.T) {
	objData := `
v 0 0 0
v 1 0 0
v 0 1 0
v 1 1 0
vn 0 0 1
f 1//1 2//1 3//1
f 2 4 3
`
	mesh, err := NewOBJLoader().Load(strings.NewReader(objData), "partial.obj")
	if err != nil {
		t.Fatalf("failed to load OBJ: %v", err)
	}
	if mesh.VertexCount() != 6 {
		t.Fatalf("expected 6 vertices, got %d", mesh.VertexCount())
	}
	for i, v := range mesh.Vertices {
		if !v.Normal.ApproxEqual(math3d.V3(0, 0, 1), 1e-9) {
			t.Errorf("vertex %d: expected normal (0,0,1), got %v", i, v.Normal)
		}
	}
}

func TestLoadOBJErrors(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"short vertex", "v 1 2\n"},
		{"bad coordinate", "v 1 x 3\n"},
		{"bad color", "v 0 0 0 1 q 0\n"},
		{"short face", "v 0 0 0\nv 1 0 0\nf 1 2\n"},
		{"index out of range", "v 0 0 0\nv 1 0 0\nv 0 1 0\nf 1 2 4\n"},
		{"bad index", "v 0 0 0\nv 1 0 0\nv 0 1 0\nf 1 b 3\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := NewOBJLoader().Load(strings.NewReader(tt.data), "bad"); err == nil {
				t.Error("expected an error")
			}
		})
	}
}

func TestLoadOBJFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tri.obj")
	if err := os.WriteFile(path, []byte("v 0 0 0\nv 1 0 0\nv 0 1 0\nf 1 2 3\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	mesh, err := LoadOBJ(path)
	if err != nil {
		t.Fatalf("LoadOBJ failed: %v", err)
	}
	if mesh.Name != path {
		t.Errorf("expected mesh named after the file, got %q", mesh.Name)
	}

	if _, err := LoadOBJ(filepath.Join(t.TempDir(), "missing.obj")); err == nil {
		t.Error("expected error for a missing file")
	}
}
