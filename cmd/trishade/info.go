package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/taigrr/trishade/pkg/models"
	"github.com/taigrr/trishade/pkg/render"
	"github.com/taigrr/trishade/pkg/scene"
)

func newInfoCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "info <model.obj|model.glb|model.stl|scene.json>",
		Short: "Display model information",
		Long:  "Display vertex and triangle counts, bounding box and color usage of a model file or of the geometry a scene resolves to.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInfo(cmd.OutOrStdout(), args[0])
		},
	}
}

func runInfo(w io.Writer, path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("cannot access file: %w", err)
	}

	ext := strings.ToLower(filepath.Ext(path))
	var mesh *models.Mesh
	if ext == ".json" {
		s, err := scene.Load(path)
		if err != nil {
			return err
		}
		s.Resolve(scene.Flags{})
		if err := s.Validate(); err != nil {
			return err
		}
		if mesh, err = s.Mesh(); err != nil {
			return err
		}
	} else if mesh, err = models.Load(path); err != nil {
		return fmt.Errorf("load model: %w", err)
	}

	size := mesh.Size()
	center := mesh.Center()

	fmt.Fprintf(w, "File:       %s\n", filepath.Base(path))
	fmt.Fprintf(w, "Format:     %s\n", strings.ToUpper(strings.TrimPrefix(ext, ".")))
	fmt.Fprintf(w, "Size:       %.2f KB\n", float64(info.Size())/1024)
	fmt.Fprintln(w)
	fmt.Fprintf(w, "Vertices:   %d\n", mesh.VertexCount())
	fmt.Fprintf(w, "Triangles:  %d\n", mesh.TriangleCount())
	fmt.Fprintf(w, "Normals:    %t\n", mesh.HasNormals())
	fmt.Fprintf(w, "Colors:     %d distinct\n", distinctColors(mesh))
	fmt.Fprintln(w)
	fmt.Fprintf(w, "Bounds Min: (%.3f, %.3f, %.3f)\n", mesh.BoundsMin.X, mesh.BoundsMin.Y, mesh.BoundsMin.Z)
	fmt.Fprintf(w, "Bounds Max: (%.3f, %.3f, %.3f)\n", mesh.BoundsMax.X, mesh.BoundsMax.Y, mesh.BoundsMax.Z)
	fmt.Fprintf(w, "Dimensions: %.3f x %.3f x %.3f\n", size.X, size.Y, size.Z)
	fmt.Fprintf(w, "Center:     (%.3f, %.3f, %.3f)\n", center.X, center.Y, center.Z)

	return nil
}

func distinctColors(m *models.Mesh) int {
	seen := make(map[render.Color]struct{})
	for _, v := range m.Vertices {
		seen[v.Color] = struct{}{}
	}
	return len(seen)
}
