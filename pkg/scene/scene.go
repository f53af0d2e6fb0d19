// Package scene loads JSON scene descriptions and turns them into render
// input: an object plus the options to draw it with.
package scene

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/taigrr/trishade/pkg/math3d"
	"github.com/taigrr/trishade/pkg/models"
	"github.com/taigrr/trishade/pkg/render"
)

// ErrInvalid is wrapped by every Validate failure.
var ErrInvalid = errors.New("invalid scene")

// LightingNone disables the reflection model.
const LightingNone = "none"

// Scene is the on-disk scene description. Geometry comes either from a
// model file or from inline verts/vertex_colors/faces.
type Scene struct {
	Model string `json:"model,omitempty"`
	// Normalize, when positive, centers the model and fits its largest
	// dimension to this size before the transforms run.
	Normalize float64 `json:"normalize,omitempty"`

	Verts        []Vec        `json:"verts,omitempty"`
	VertexColors []Vec        `json:"vertex_colors,omitempty"`
	Faces        [][3]int     `json:"faces,omitempty"`
	Transforms   []Transform  `json:"transforms,omitempty"`
	Camera       CameraConfig `json:"camera"`
	Image        ImageConfig  `json:"image"`

	Shading string `json:"shading,omitempty"`
	// Lighting is ambient, diffuse, specular, all or none. Empty means all
	// when lights are given and none otherwise.
	Lighting string          `json:"lighting,omitempty"`
	Backend  string          `json:"backend,omitempty"`
	Material *MaterialConfig `json:"material,omitempty"`
	Lights   []LightConfig   `json:"lights,omitempty"`
	Ambient  Vec             `json:"ambient"`

	dir string
}

// Vec is a JSON [x, y, z] triple, also used for RGB.
type Vec [3]float64

// V3 converts to a math3d vector.
func (v Vec) V3() math3d.Vec3 { return math3d.V3(v[0], v[1], v[2]) }

// Color converts to a render color.
func (v Vec) Color() render.Color { return render.RGB(v[0], v[1], v[2]) }

// CameraConfig places the pinhole camera. LookAt is an absolute point.
type CameraConfig struct {
	Eye    Vec     `json:"eye"`
	LookAt Vec     `json:"lookat"`
	Up     *Vec    `json:"up,omitempty"`
	Focal  float64 `json:"focal,omitempty"`
}

// ImageConfig sizes the output and the sensor it samples.
type ImageConfig struct {
	Width        int     `json:"width,omitempty"`
	Height       int     `json:"height,omitempty"`
	SensorWidth  float64 `json:"sensor_width,omitempty"`
	SensorHeight float64 `json:"sensor_height,omitempty"`
	// Background is "#rrggbb" or "r,g,b".
	Background string `json:"background,omitempty"`
}

// MaterialConfig holds the reflection coefficients.
type MaterialConfig struct {
	Ka float64 `json:"ka"`
	Kd float64 `json:"kd"`
	Ks float64 `json:"ks"`
	N  float64 `json:"n"`
}

// LightConfig is one point light.
type LightConfig struct {
	Position  Vec `json:"position"`
	Intensity Vec `json:"intensity"`
}

// Transform rotates by Angle radians about Axis, then translates.
type Transform struct {
	Axis      Vec     `json:"axis"`
	Angle     float64 `json:"angle"`
	Translate Vec     `json:"translate"`
}

// Defaults for fields left out of the file.
const (
	DefaultWidth   = 512
	DefaultHeight  = 512
	DefaultSensor  = 15.0
	DefaultFocal   = 70.0
	DefaultShading = "gouraud"
	DefaultBackend = "scanline"
)

// DefaultMaterial is used when lighting is on and no material is given.
var DefaultMaterial = MaterialConfig{Ka: 0.2, Kd: 0.7, Ks: 0.5, N: 10}

// Load reads a JSON scene file. Relative model paths resolve against the
// file's directory.
func Load(path string) (*Scene, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("scene: read %s: %w", path, err)
	}

	var s Scene
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("scene: parse %s: %w", path, err)
	}
	s.dir = filepath.Dir(path)

	return &s, nil
}

// Flags holds CLI flag values that override the scene file.
type Flags struct {
	Shading    string
	Lighting   string
	Backend    string
	Background string
	Width      int
	Height     int
}

// Resolve applies flag overrides and fills defaults. CLI flags take
// priority when non-zero/non-empty.
func (s *Scene) Resolve(flags Flags) {
	if flags.Shading != "" {
		s.Shading = flags.Shading
	}
	if flags.Lighting != "" {
		s.Lighting = flags.Lighting
	}
	if flags.Backend != "" {
		s.Backend = flags.Backend
	}
	if flags.Background != "" {
		s.Image.Background = flags.Background
	}
	if flags.Width > 0 {
		s.Image.Width = flags.Width
	}
	if flags.Height > 0 {
		s.Image.Height = flags.Height
	}

	if s.Image.Width == 0 {
		s.Image.Width = DefaultWidth
	}
	if s.Image.Height == 0 {
		s.Image.Height = DefaultHeight
	}
	if s.Image.SensorWidth == 0 {
		s.Image.SensorWidth = DefaultSensor
	}
	if s.Image.SensorHeight == 0 {
		s.Image.SensorHeight = DefaultSensor
	}
	if s.Camera.Focal == 0 {
		s.Camera.Focal = DefaultFocal
	}
	if s.Shading == "" {
		s.Shading = DefaultShading
	}
	if s.Backend == "" {
		s.Backend = DefaultBackend
	}
	if s.Lighting == "" {
		s.Lighting = LightingNone
		if len(s.Lights) > 0 {
			s.Lighting = render.LightingAll.String()
		}
	}
}

// Validate checks modes, sizes and inline geometry before anything is
// rendered. Call it after Resolve.
func (s *Scene) Validate() error {
	if s.Model == "" && len(s.Verts) == 0 {
		return fmt.Errorf("%w: no model and no verts", ErrInvalid)
	}
	if s.Model != "" && len(s.Verts) > 0 {
		return fmt.Errorf("%w: both model and verts given", ErrInvalid)
	}
	if n := len(s.VertexColors); n > 0 && n != len(s.Verts) {
		return fmt.Errorf("%w: %d vertex colors for %d verts", ErrInvalid, n, len(s.Verts))
	}
	for i, f := range s.Faces {
		for _, idx := range f {
			if idx < 0 || idx >= len(s.Verts) {
				return fmt.Errorf("%w: face %d index %d out of range", ErrInvalid, i, idx)
			}
		}
	}

	if s.Image.Width <= 0 || s.Image.Height <= 0 {
		return fmt.Errorf("%w: image size %dx%d", ErrInvalid, s.Image.Width, s.Image.Height)
	}
	if s.Image.SensorWidth <= 0 || s.Image.SensorHeight <= 0 {
		return fmt.Errorf("%w: sensor size %gx%g", ErrInvalid, s.Image.SensorWidth, s.Image.SensorHeight)
	}
	if s.Camera.Focal <= 0 {
		return fmt.Errorf("%w: focal length %g", ErrInvalid, s.Camera.Focal)
	}
	if s.Camera.Eye == s.Camera.LookAt {
		return fmt.Errorf("%w: camera eye equals lookat", ErrInvalid)
	}
	if s.Normalize < 0 {
		return fmt.Errorf("%w: normalize %g", ErrInvalid, s.Normalize)
	}

	shading, err := render.ParseShadingMode(s.Shading)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalid, err)
	}
	if shading == render.ShadingPhong && s.Lighting == LightingNone {
		return fmt.Errorf("%w: %w", ErrInvalid, render.ErrNoLighting)
	}
	if _, err := render.ParseBackend(s.Backend); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalid, err)
	}
	if s.Lighting != LightingNone {
		if _, err := render.ParseLightingMode(s.Lighting); err != nil {
			return fmt.Errorf("%w: %w", ErrInvalid, err)
		}
	}
	if s.Image.Background != "" {
		if _, err := render.ParseColor(s.Image.Background); err != nil {
			return fmt.Errorf("%w: background: %w", ErrInvalid, err)
		}
	}
	return nil
}

// ModelPath returns the model path resolved against the scene directory.
func (s *Scene) ModelPath() string {
	if s.Model == "" || filepath.IsAbs(s.Model) || s.dir == "" {
		return s.Model
	}
	return filepath.Join(s.dir, s.Model)
}

// Mesh loads or assembles the scene geometry and applies Normalize and
// the transforms in order.
func (s *Scene) Mesh() (*models.Mesh, error) {
	var mesh *models.Mesh
	if s.Model != "" {
		m, err := models.Load(s.ModelPath())
		if err != nil {
			return nil, fmt.Errorf("scene: load model: %w", err)
		}
		mesh = m
	} else {
		obj := render.Object{
			Positions: make([]math3d.Vec3, len(s.Verts)),
			Faces:     s.Faces,
		}
		for i, v := range s.Verts {
			obj.Positions[i] = v.V3()
		}
		if len(s.VertexColors) > 0 {
			obj.Colors = make([]render.Color, len(s.VertexColors))
			for i, c := range s.VertexColors {
				obj.Colors[i] = c.Color()
			}
		}
		mesh = models.FromObject("inline", obj)
	}

	if s.Normalize > 0 {
		mesh.Normalize(s.Normalize)
	}
	for _, t := range s.Transforms {
		mesh.AffineTransform(t.Axis.V3(), t.Angle, t.Translate.V3())
	}
	return mesh, nil
}

// Options converts the resolved settings to render options.
func (s *Scene) Options() (render.Options, error) {
	opts := render.DefaultOptions()
	opts.Width, opts.Height = s.Image.Width, s.Image.Height
	opts.SensorWidth, opts.SensorHeight = s.Image.SensorWidth, s.Image.SensorHeight

	if s.Image.Background != "" {
		bg, err := render.ParseColor(s.Image.Background)
		if err != nil {
			return render.Options{}, err
		}
		opts.Background = bg
	}

	opts.Camera = render.NewCamera(s.Camera.Eye.V3(), s.Camera.LookAt.V3(), s.Camera.Focal)
	if s.Camera.Up != nil {
		opts.Camera.Up = s.Camera.Up.V3()
	}

	shading, err := render.ParseShadingMode(s.Shading)
	if err != nil {
		return render.Options{}, err
	}
	opts.Shading = shading

	filler, err := render.ParseBackend(s.Backend)
	if err != nil {
		return render.Options{}, err
	}
	opts.Filler = filler

	if s.Lighting != LightingNone {
		mode, err := render.ParseLightingMode(s.Lighting)
		if err != nil {
			return render.Options{}, err
		}
		mat := DefaultMaterial
		if s.Material != nil {
			mat = *s.Material
		}
		il := &render.Illumination{
			Mode:     mode,
			Material: render.Material{Ka: mat.Ka, Kd: mat.Kd, Ks: mat.Ks, N: mat.N},
			Ambient:  s.Ambient.Color(),
		}
		for _, l := range s.Lights {
			il.Lights = append(il.Lights, render.Light{Position: l.Position.V3(), Intensity: l.Intensity.Color()})
		}
		opts.Lighting = il
	}
	return opts, nil
}

// Build validates the scene and returns the object and options ready for
// render.RenderObject.
func (s *Scene) Build() (render.Object, render.Options, error) {
	if err := s.Validate(); err != nil {
		return render.Object{}, render.Options{}, err
	}
	mesh, err := s.Mesh()
	if err != nil {
		return render.Object{}, render.Options{}, err
	}
	opts, err := s.Options()
	if err != nil {
		return render.Object{}, render.Options{}, err
	}
	return mesh.Object(), opts, nil
}
