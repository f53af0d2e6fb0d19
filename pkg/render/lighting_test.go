package render

import (
	"errors"
	"math"
	"testing"

	"github.com/taigrr/trishade/pkg/math3d"
)

func TestParseLightingMode(t *testing.T) {
	tests := []struct {
		in      string
		want    LightingMode
		wantErr bool
	}{
		{"ambient", LightingAmbient, false},
		{"Diffuse", LightingDiffuse, false},
		{"SPECULAR", LightingSpecular, false},
		{"All", LightingAll, false},
		{"emissive", 0, true},
		{"", 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseLightingMode(tt.in)
			if tt.wantErr {
				if !errors.Is(err, ErrUnknownLighting) {
					t.Errorf("Expected ErrUnknownLighting, got %v", err)
				}
				return
			}
			if err != nil || got != tt.want {
				t.Errorf("Expected %v, got %v (err %v)", tt.want, got, err)
			}
			if got.String() != lightingNames[tt.want] {
				t.Errorf("Expected String() %q, got %q", lightingNames[tt.want], got.String())
			}
		})
	}
}

func TestAmbientLight(t *testing.T) {
	got := AmbientLight(0.25, RGB(1, 0.8, 0.4))
	if !got.ApproxEqual(RGB(0.25, 0.2, 0.1), 1e-12) {
		t.Errorf("Expected (0.25,0.2,0.1), got %v", got)
	}
}

func TestDiffuseLight(t *testing.T) {
	p := math3d.V3(0, 0, 0)
	n := math3d.V3(0, 0, 1)
	base := RGB(1, 0.5, 0.2)

	tests := []struct {
		name   string
		lights []Light
		want   Color
	}{
		{"overhead", []Light{{math3d.V3(0, 0, 5), White}}, RGB(0.5, 0.25, 0.1)},
		{"behind", []Light{{math3d.V3(0, 0, -5), White}}, Black},
		{"grazing", []Light{{math3d.V3(5, 0, 0), White}}, Black},
		{"tinted", []Light{{math3d.V3(0, 0, 2), RGB(0, 1, 0)}}, RGB(0, 0.25, 0)},
		{"two lights add", []Light{
			{math3d.V3(0, 0, 5), White},
			{math3d.V3(0, 0, 1), White},
		}, RGB(1, 0.5, 0.2)},
		{"no lights", nil, Black},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DiffuseLight(p, n, base, 0.5, tt.lights)
			if !got.ApproxEqual(tt.want, 1e-12) {
				t.Errorf("Expected %v, got %v", tt.want, got)
			}
		})
	}

	// 60 degrees off the normal halves the contribution.
	l := []Light{{math3d.V3(math.Sqrt(3), 0, 1), White}}
	got := DiffuseLight(p, n, White, 1, l)
	if !got.ApproxEqual(RGB(0.5, 0.5, 0.5), 1e-12) {
		t.Errorf("Expected 0.5 at 60 degrees, got %v", got)
	}
}

func TestSpecularLight(t *testing.T) {
	p := math3d.V3(0, 0, 0)
	n := math3d.V3(0, 0, 1)

	tests := []struct {
		name   string
		light  math3d.Vec3
		camera math3d.Vec3
		want   float64
	}{
		// Mirror direction of a 45 degree light points straight at the camera.
		{"mirror", math3d.V3(3, 0, 3), math3d.V3(-2, 0, 2), 0.8},
		{"head on", math3d.V3(0, 0, 4), math3d.V3(0, 0, 9), 0.8},
		// Camera on the same side as the light sees no highlight.
		{"same side", math3d.V3(3, 0, 3), math3d.V3(2, 0, 2), 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SpecularLight(p, n, tt.camera, 0.8, 10, []Light{{tt.light, White}})
			want := RGB(tt.want, tt.want, tt.want)
			if !got.ApproxEqual(want, 1e-9) {
				t.Errorf("Expected %v, got %v", want, got)
			}
		})
	}

	// Specular ignores the base color and uses the light color.
	got := SpecularLight(p, n, math3d.V3(0, 0, 1), 1, 1, []Light{{math3d.V3(0, 0, 1), RGB(0.2, 0.4, 0.6)}})
	if !got.ApproxEqual(RGB(0.2, 0.4, 0.6), 1e-12) {
		t.Errorf("Expected light color, got %v", got)
	}
}

func TestIlluminationModes(t *testing.T) {
	p := math3d.V3(0, 0, 0)
	n := math3d.V3(0, 0, 1)
	base := RGB(0.8, 0.6, 0.4)
	il := Illumination{
		Material: Material{Ka: 0.2, Kd: 0.7, Ks: 0.5, N: 4},
		Lights:   []Light{{math3d.V3(1, 0, 2), White}},
		Ambient:  RGB(1, 1, 1),
		Camera:   math3d.V3(0, 1, 3),
	}

	shade := func(m LightingMode) Color {
		c := il
		c.Mode = m
		return c.Shade(p, n, base)
	}
	ambient := shade(LightingAmbient)
	diffuse := shade(LightingDiffuse)
	specular := shade(LightingSpecular)
	all := shade(LightingAll)

	if !ambient.ApproxEqual(RGB(0.2, 0.2, 0.2), 1e-12) {
		t.Errorf("Expected ambient 0.2, got %v", ambient)
	}
	if want := DiffuseLight(p, n, base, 0.7, il.Lights); !diffuse.ApproxEqual(want, 1e-12) {
		t.Errorf("Expected diffuse %v, got %v", want, diffuse)
	}
	if want := SpecularLight(p, n, il.Camera, 0.5, 4, il.Lights); !specular.ApproxEqual(want, 1e-12) {
		t.Errorf("Expected specular %v, got %v", want, specular)
	}
	if sum := ambient.Add(diffuse).Add(specular); !all.ApproxEqual(sum, 1e-12) {
		t.Errorf("Expected All to be the sum %v, got %v", sum, all)
	}
}

func TestIlluminationValidate(t *testing.T) {
	il := Illumination{Mode: LightingMode(7)}
	if err := il.Validate(); !errors.Is(err, ErrUnknownLighting) {
		t.Errorf("Expected ErrUnknownLighting, got %v", err)
	}
}
