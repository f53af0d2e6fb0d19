package render

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/taigrr/trishade/pkg/math3d"
)

// ErrUnknownLighting is returned for an unrecognized lighting mode.
var ErrUnknownLighting = errors.New("unknown lighting mode")

// LightingMode selects which reflection terms are evaluated.
type LightingMode int

const (
	LightingAmbient LightingMode = iota
	LightingDiffuse
	LightingSpecular
	LightingAll
)

var lightingNames = [...]string{"ambient", "diffuse", "specular", "all"}

func (m LightingMode) String() string {
	if m < 0 || int(m) >= len(lightingNames) {
		return fmt.Sprintf("LightingMode(%d)", int(m))
	}
	return lightingNames[m]
}

// ParseLightingMode maps "ambient", "diffuse", "specular" or "all"
// (any case) to a LightingMode.
func ParseLightingMode(s string) (LightingMode, error) {
	for i, name := range lightingNames {
		if strings.EqualFold(s, name) {
			return LightingMode(i), nil
		}
	}
	return 0, fmt.Errorf("%w %q", ErrUnknownLighting, s)
}

// Light is a point light.
type Light struct {
	Position  math3d.Vec3
	Intensity Color
}

// Material holds the reflection coefficients shared by an object.
type Material struct {
	Ka, Kd, Ks float64
	// N is the specular (shininess) exponent.
	N float64
}

// Illumination is everything the reflection model needs besides the
// surface point, normal and base color.
type Illumination struct {
	Mode     LightingMode
	Material Material
	Lights   []Light
	Ambient  Color
	Camera   math3d.Vec3
}

// reflectFunc evaluates the reflection model at one surface point.
type reflectFunc func(p, n math3d.Vec3, base Color) Color

// Validate rejects modes outside the enum.
func (il *Illumination) Validate() error {
	if il.Mode < LightingAmbient || il.Mode > LightingAll {
		return fmt.Errorf("%w %d", ErrUnknownLighting, int(il.Mode))
	}
	return nil
}

// Shade evaluates the selected terms at p with unit normal n.
func (il *Illumination) Shade(p, n math3d.Vec3, base Color) Color {
	return il.model()(p, n, base)
}

// model resolves the mode once so per-pixel callers skip the switch.
func (il *Illumination) model() reflectFunc {
	m := il.Material
	lights := il.Lights
	cam := il.Camera
	ambient := AmbientLight(m.Ka, il.Ambient)

	switch il.Mode {
	case LightingAmbient:
		return func(_, _ math3d.Vec3, _ Color) Color {
			return ambient
		}
	case LightingDiffuse:
		return func(p, n math3d.Vec3, base Color) Color {
			return DiffuseLight(p, n, base, m.Kd, lights)
		}
	case LightingSpecular:
		return func(p, n math3d.Vec3, _ Color) Color {
			return SpecularLight(p, n, cam, m.Ks, m.N, lights)
		}
	default:
		return func(p, n math3d.Vec3, base Color) Color {
			return ambient.
				Add(DiffuseLight(p, n, base, m.Kd, lights)).
				Add(SpecularLight(p, n, cam, m.Ks, m.N, lights))
		}
	}
}

// AmbientLight is ka·Ia.
func AmbientLight(ka float64, ia Color) Color {
	return ia.Scale(ka)
}

// DiffuseLight sums kd·max(0, N·L)·I·base over all lights, where L points
// from p toward the light.
func DiffuseLight(p, n math3d.Vec3, base Color, kd float64, lights []Light) Color {
	var sum Color
	for _, l := range lights {
		dir := l.Position.Sub(p).Normalize()
		cos := math.Max(0, n.Dot(dir))
		sum = sum.Add(l.Intensity.Mul(base).Scale(kd * cos))
	}
	return sum
}

// SpecularLight sums ks·max(0, R·V)^exp·I over all lights, with
// R = 2N(N·L) - L and V pointing from p toward the camera.
func SpecularLight(p, n, camera math3d.Vec3, ks, exp float64, lights []Light) Color {
	view := camera.Sub(p).Normalize()
	var sum Color
	for _, l := range lights {
		dir := l.Position.Sub(p).Normalize()
		r := dir.Reflect(n)
		cos := math.Max(0, r.Dot(view))
		sum = sum.Add(l.Intensity.Scale(ks * math.Pow(cos, exp)))
	}
	return sum
}
