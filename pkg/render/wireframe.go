package render

import (
	"github.com/taigrr/trishade/pkg/math3d"
)

// DrawWireframe outlines projected faces. Faces with a vertex at or behind
// the eye are left out.
func DrawWireframe(fb *Framebuffer, screen []Point, depth []float64, faces [][3]int, c Color) {
	for _, f := range faces {
		if depth[f[0]] <= 0 || depth[f[1]] <= 0 || depth[f[2]] <= 0 {
			continue
		}
		for i := range 3 {
			a, b := screen[f[i]], screen[f[(i+1)%3]]
			fb.DrawLine(a.X, a.Y, b.X, b.Y, c)
		}
	}
}

// Wireframe draws world-space line overlays through a camera.
type Wireframe struct {
	camera   Camera
	viewport Viewport
	fb       *Framebuffer
}

// NewWireframe creates a new wireframe renderer.
func NewWireframe(camera Camera, viewport Viewport, fb *Framebuffer) *Wireframe {
	return &Wireframe{
		camera:   camera,
		viewport: viewport,
		fb:       fb,
	}
}

// DrawLine3D draws a line in 3D space. Lines with an endpoint behind the
// eye are dropped.
func (w *Wireframe) DrawLine3D(p1, p2 math3d.Vec3, c Color) {
	proj, depth := w.camera.Project([]math3d.Vec3{p1, p2})
	if depth[0] <= 0 || depth[1] <= 0 {
		return
	}
	a := w.viewport.ToPixel(proj[0])
	b := w.viewport.ToPixel(proj[1])
	w.fb.DrawLine(a.X, a.Y, b.X, b.Y, c)
}

// DrawAxes draws the world X (red), Y (green), and Z (blue) axes from the origin.
func (w *Wireframe) DrawAxes(length float64) {
	origin := math3d.Zero3()
	w.DrawLine3D(origin, math3d.V3(length, 0, 0), Red)
	w.DrawLine3D(origin, math3d.V3(0, length, 0), Green)
	w.DrawLine3D(origin, math3d.V3(0, 0, length), Blue)
}
