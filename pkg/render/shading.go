package render

import (
	"errors"
	"fmt"
	"strings"

	"github.com/taigrr/trishade/pkg/math3d"
)

var (
	// ErrUnknownShading is returned for an unrecognized shading mode.
	ErrUnknownShading = errors.New("unknown shading mode")
	// ErrNoLighting is returned when Phong shading has no lighting setup.
	ErrNoLighting = errors.New("phong shading requires lighting")
	// ErrUnknownBackend is returned for an unrecognized fill backend.
	ErrUnknownBackend = errors.New("unknown fill backend")
)

// ShadingMode selects what is interpolated across a triangle and when the
// reflection model runs.
type ShadingMode int

const (
	// ShadingFlat paints the mean vertex color.
	ShadingFlat ShadingMode = iota
	// ShadingGouraud lights each vertex and interpolates the lit colors.
	ShadingGouraud
	// ShadingPhong interpolates colors and normals and lights every pixel.
	ShadingPhong
)

var shadingNames = [...]string{"flat", "gouraud", "phong"}

func (m ShadingMode) String() string {
	if m < 0 || int(m) >= len(shadingNames) {
		return fmt.Sprintf("ShadingMode(%d)", int(m))
	}
	return shadingNames[m]
}

// ParseShadingMode maps "flat", "gouraud" or "phong" (any case) to a
// ShadingMode.
func ParseShadingMode(s string) (ShadingMode, error) {
	for i, name := range shadingNames {
		if strings.EqualFold(s, name) {
			return ShadingMode(i), nil
		}
	}
	return 0, fmt.Errorf("%w %q", ErrUnknownShading, s)
}

// Triangle is one face in screen space plus the data shading needs.
type Triangle struct {
	Verts   [3]Point
	Colors  [3]Color
	Normals [3]math3d.Vec3
	// Center is the world-space point at which lighting is evaluated,
	// normally the face barycentre.
	Center math3d.Vec3
}

// Filler rasterizes a triangle with a shader. Scanline and Barycentric
// cover the same pixels for triangles with area. They differ on zero-area
// slivers: Scanline draws the boundary line of a non-horizontal collinear
// triangle and Barycentric draws nothing.
type Filler interface {
	Fill(fb *Framebuffer, tri Triangle, s *Shader)
}

// ParseBackend maps "scanline" or "barycentric" to a Filler.
func ParseBackend(s string) (Filler, error) {
	switch strings.ToLower(s) {
	case "scanline", "":
		return Scanline{}, nil
	case "barycentric":
		return Barycentric{}, nil
	}
	return nil, fmt.Errorf("%w %q", ErrUnknownBackend, s)
}

// Shader is a validated shading configuration. Lighting may be nil for
// Flat and Gouraud, in which case Gouraud interpolates raw vertex colors.
type Shader struct {
	Mode     ShadingMode
	Lighting *Illumination

	reflect reflectFunc
}

// NewShader checks the configuration before anything is drawn.
func NewShader(mode ShadingMode, lighting *Illumination) (*Shader, error) {
	if mode < ShadingFlat || mode > ShadingPhong {
		return nil, fmt.Errorf("%w %d", ErrUnknownShading, int(mode))
	}
	s := &Shader{Mode: mode, Lighting: lighting}
	if lighting != nil {
		if err := lighting.Validate(); err != nil {
			return nil, err
		}
		s.reflect = lighting.model()
	} else if mode == ShadingPhong {
		return nil, ErrNoLighting
	}
	return s, nil
}

// Fill draws tri with the scanline backend.
func (s *Shader) Fill(fb *Framebuffer, tri Triangle) {
	Scanline{}.Fill(fb, tri, s)
}

// prepare chooses, once per triangle, the attributes carried on the edges
// and the function that turns them into a pixel color.
func (s *Shader) prepare(tri *Triangle) ([3]Attrib, interp, pixelFunc) {
	var at [3]Attrib

	switch s.Mode {
	case ShadingFlat:
		c := Mean(tri.Colors[0], tri.Colors[1], tri.Colors[2])
		for i := range at {
			at[i].Color = c
		}
		return at, interp{}, func(Attrib) Color { return c }

	case ShadingGouraud:
		for i := range at {
			at[i].Color = tri.Colors[i]
			if s.reflect != nil {
				at[i].Color = s.reflect(tri.Center, tri.Normals[i], tri.Colors[i])
			}
		}
		return at, interp{color: true}, func(a Attrib) Color { return a.Color }

	default:
		for i := range at {
			at[i] = Attrib{Color: tri.Colors[i], Normal: tri.Normals[i]}
		}
		center := tri.Center
		reflect := s.reflect
		return at, interp{color: true, normal: true}, func(a Attrib) Color {
			return reflect(center, a.Normal, a.Color)
		}
	}
}

// FillTriangle parses mode and fills one triangle, returning fb for
// chaining. A bad mode is reported before any pixel is written.
func FillTriangle(fb *Framebuffer, tri Triangle, mode string, lighting *Illumination) (*Framebuffer, error) {
	m, err := ParseShadingMode(mode)
	if err != nil {
		return fb, err
	}
	s, err := NewShader(m, lighting)
	if err != nil {
		return fb, err
	}
	s.Fill(fb, tri)
	return fb, nil
}
