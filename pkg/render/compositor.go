package render

import (
	"cmp"
	"errors"
	"fmt"
	"slices"

	"fortio.org/log"
	"github.com/taigrr/trishade/pkg/math3d"
)

var (
	// ErrBadFace is returned when a face references a missing vertex.
	ErrBadFace = errors.New("face index out of range")
	// ErrBadObject is returned when per-vertex arrays disagree in length.
	ErrBadObject = errors.New("inconsistent object arrays")
)

// Object is a triangle mesh as parallel per-vertex arrays plus faces that
// index into them.
type Object struct {
	Positions []math3d.Vec3
	Colors    []Color
	// Normals is optional; missing normals are averaged from the faces
	// when lighting needs them.
	Normals []math3d.Vec3
	Faces   [][3]int
}

// validate checks array lengths and face indices against n vertices.
func (o Object) validate(n int) error {
	if len(o.Colors) != n {
		return fmt.Errorf("%w: %d colors for %d vertices", ErrBadObject, len(o.Colors), n)
	}
	if len(o.Normals) != 0 && len(o.Normals) != n {
		return fmt.Errorf("%w: %d normals for %d vertices", ErrBadObject, len(o.Normals), n)
	}
	for i, f := range o.Faces {
		for _, idx := range f {
			if idx < 0 || idx >= n {
				return fmt.Errorf("%w: face %d uses vertex %d of %d", ErrBadFace, i, idx, n)
			}
		}
	}
	return nil
}

// Validate checks the object on its own.
func (o Object) Validate() error {
	if len(o.Positions) == 0 && len(o.Faces) > 0 {
		return fmt.Errorf("%w: faces without positions", ErrBadObject)
	}
	return o.validate(len(o.Positions))
}

// VertexNormals averages the face normals around every vertex. Face normals
// are area weighted (unnormalized cross products) and follow the winding
// order a→b→c.
func VertexNormals(positions []math3d.Vec3, faces [][3]int) []math3d.Vec3 {
	normals := make([]math3d.Vec3, len(positions))
	for _, f := range faces {
		a, b, c := positions[f[0]], positions[f[1]], positions[f[2]]
		n := b.Sub(a).Cross(c.Sub(a))
		for _, idx := range f {
			normals[idx] = normals[idx].Add(n)
		}
	}
	for i := range normals {
		normals[i] = normals[i].Normalize()
	}
	return normals
}

// DepthOrder returns face indices sorted by mean vertex depth, farthest
// first. Faces at equal depth keep their submission order.
func DepthOrder(faces [][3]int, depth []float64) []int {
	mean := make([]float64, len(faces))
	order := make([]int, len(faces))
	for i, f := range faces {
		mean[i] = (depth[f[0]] + depth[f[1]] + depth[f[2]]) / 3
		order[i] = i
	}
	slices.SortStableFunc(order, func(a, b int) int {
		return cmp.Compare(mean[b], mean[a])
	})
	return order
}

// DrawFaces composites pre-projected faces into fb in painter's order.
// screen and depth are per vertex. obj.Positions may be empty when the
// shader has no lighting; otherwise face barycentres are taken from it.
// Faces touching a vertex at or behind the eye are skipped.
func DrawFaces(fb *Framebuffer, screen []Point, depth []float64, obj Object, s *Shader, filler Filler) error {
	n := len(screen)
	if len(depth) != n {
		return fmt.Errorf("%w: %d depths for %d vertices", ErrBadObject, len(depth), n)
	}
	if err := obj.validate(n); err != nil {
		return err
	}
	lit := s.Lighting != nil
	if lit && len(obj.Positions) != n {
		return fmt.Errorf("%w: lighting needs %d positions, got %d", ErrBadObject, n, len(obj.Positions))
	}
	if lit && len(obj.Normals) == 0 {
		return fmt.Errorf("%w: lighting needs vertex normals", ErrBadObject)
	}
	if filler == nil {
		filler = Scanline{}
	}

	skipped := 0
	for _, fi := range DepthOrder(obj.Faces, depth) {
		f := obj.Faces[fi]
		if depth[f[0]] <= 0 || depth[f[1]] <= 0 || depth[f[2]] <= 0 {
			skipped++
			continue
		}
		tri := Triangle{
			Verts:  [3]Point{screen[f[0]], screen[f[1]], screen[f[2]]},
			Colors: [3]Color{obj.Colors[f[0]], obj.Colors[f[1]], obj.Colors[f[2]]},
		}
		if len(obj.Normals) > 0 {
			tri.Normals = [3]math3d.Vec3{obj.Normals[f[0]], obj.Normals[f[1]], obj.Normals[f[2]]}
		}
		if len(obj.Positions) > 0 {
			tri.Center = math3d.Centroid(obj.Positions[f[0]], obj.Positions[f[1]], obj.Positions[f[2]])
		}
		filler.Fill(fb, tri, s)
	}
	if skipped > 0 {
		log.Debugf("skipped %d faces behind the camera", skipped)
	}
	return nil
}

// Options configures RenderObject.
type Options struct {
	Width, Height int
	Background    Color
	Camera        Camera
	// SensorWidth and SensorHeight size the image plane in camera units.
	SensorWidth, SensorHeight float64
	Shading                   ShadingMode
	// Lighting is optional for Flat and Gouraud. Its Camera is taken from
	// Camera.Eye.
	Lighting *Illumination
	// Filler defaults to Scanline.
	Filler Filler
	// Wireframe, when set, outlines every face on top of the fill.
	Wireframe *Color
}

// DefaultOptions returns a 512×512 white-background Gouraud setup with a
// 15×15 sensor. The camera is left for the caller.
func DefaultOptions() Options {
	return Options{
		Width:        512,
		Height:       512,
		Background:   White,
		SensorWidth:  15,
		SensorHeight: 15,
		Shading:      ShadingGouraud,
		Filler:       Scanline{},
	}
}

// RenderObject projects obj through the camera and composites it into a
// new framebuffer. Configuration problems are returned before drawing.
func RenderObject(obj Object, opts Options) (*Framebuffer, error) {
	if opts.Width <= 0 || opts.Height <= 0 {
		return nil, fmt.Errorf("invalid image size %dx%d", opts.Width, opts.Height)
	}
	if opts.SensorWidth <= 0 || opts.SensorHeight <= 0 {
		return nil, fmt.Errorf("invalid sensor size %gx%g", opts.SensorWidth, opts.SensorHeight)
	}
	if err := obj.Validate(); err != nil {
		return nil, err
	}

	var il *Illumination
	if opts.Lighting != nil {
		c := *opts.Lighting
		c.Camera = opts.Camera.Eye
		il = &c
	}
	s, err := NewShader(opts.Shading, il)
	if err != nil {
		return nil, err
	}

	if il != nil && len(obj.Normals) == 0 {
		log.Debugf("averaging %d vertex normals", len(obj.Positions))
		obj.Normals = VertexNormals(obj.Positions, obj.Faces)
	}

	proj, depth := opts.Camera.Project(obj.Positions)
	vp := Viewport{
		Width:        opts.Width,
		Height:       opts.Height,
		SensorWidth:  opts.SensorWidth,
		SensorHeight: opts.SensorHeight,
	}
	screen := vp.Rasterize(proj)

	fb := NewFramebuffer(opts.Width, opts.Height, opts.Background)
	if err := DrawFaces(fb, screen, depth, obj, s, opts.Filler); err != nil {
		return nil, err
	}
	if opts.Wireframe != nil {
		DrawWireframe(fb, screen, depth, obj.Faces, *opts.Wireframe)
	}
	return fb, nil
}
