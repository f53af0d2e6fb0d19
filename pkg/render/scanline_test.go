package render

import (
	"testing"
	"time"

	"github.com/taigrr/trishade/pkg/math3d"
)

// orient is twice the signed area of (a, b, p).
func orient(a, b, p Point) int {
	return (b.X-a.X)*(p.Y-a.Y) - (b.Y-a.Y)*(p.X-a.X)
}

func sign(v int) int {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	}
	return 0
}

// classify reports whether p is strictly inside or strictly outside v.
func classify(v [3]Point, p Point) (inside, outside bool) {
	s := sign(orient(v[0], v[1], v[2]))
	e := [3]int{
		sign(orient(v[1], v[2], p)),
		sign(orient(v[2], v[0], p)),
		sign(orient(v[0], v[1], p)),
	}
	inside = e[0] == s && e[1] == s && e[2] == s
	outside = e[0] == -s || e[1] == -s || e[2] == -s
	return inside, outside
}

func unlit(t *testing.T, mode ShadingMode) *Shader {
	t.Helper()
	s, err := NewShader(mode, nil)
	if err != nil {
		t.Fatalf("NewShader(%v): %v", mode, err)
	}
	return s
}

func solid(v [3]Point, c Color) Triangle {
	return Triangle{Verts: v, Colors: [3]Color{c, c, c}}
}

var coverageCases = []struct {
	name  string
	verts [3]Point
}{
	{"general", [3]Point{{1, 1}, {18, 6}, {6, 17}}},
	{"flat top", [3]Point{{2, 2}, {17, 2}, {9, 16}}},
	{"flat bottom", [3]Point{{9, 1}, {2, 15}, {17, 15}}},
	{"vertical edge", [3]Point{{3, 0}, {3, 15}, {15, 8}}},
	{"clockwise", [3]Point{{6, 17}, {18, 6}, {1, 1}}},
	{"thin", [3]Point{{0, 0}, {19, 3}, {2, 1}}},
	{"steep", [3]Point{{10, 0}, {11, 19}, {9, 19}}},
	{"clipped", [3]Point{{-5, -5}, {25, 3}, {4, 30}}},
}

func TestScanlineCoverage(t *testing.T) {
	for _, tt := range coverageCases {
		t.Run(tt.name, func(t *testing.T) {
			fb := NewFramebuffer(20, 20, White)
			unlit(t, ShadingFlat).Fill(fb, solid(tt.verts, Black))

			for y := range fb.Height {
				for x := range fb.Width {
					inside, outside := classify(tt.verts, Point{x, y})
					written := fb.GetPixel(x, y) != White
					if inside && !written {
						t.Errorf("pixel (%d,%d) inside but not written", x, y)
					}
					if outside && written {
						t.Errorf("pixel (%d,%d) outside but written", x, y)
					}
				}
			}
		})
	}
}

func TestScanlineDeterministic(t *testing.T) {
	tri := Triangle{
		Verts:  [3]Point{{1, 1}, {18, 6}, {6, 17}},
		Colors: [3]Color{Red, Green, Blue},
	}
	a := NewFramebuffer(20, 20, White)
	b := NewFramebuffer(20, 20, White)
	s := unlit(t, ShadingGouraud)
	s.Fill(a, tri)
	s.Fill(b, tri)
	for i := range a.Pixels {
		if a.Pixels[i] != b.Pixels[i] {
			t.Fatalf("pixel %d differs between identical fills: %v vs %v", i, a.Pixels[i], b.Pixels[i])
		}
	}
}

func TestScanlineDegeneratePoint(t *testing.T) {
	tri := Triangle{
		Verts:  [3]Point{{5, 5}, {5, 5}, {5, 5}},
		Colors: [3]Color{Red, Green, Blue},
	}
	want := Mean(Red, Green, Blue)

	for _, mode := range []ShadingMode{ShadingFlat, ShadingGouraud} {
		t.Run(mode.String(), func(t *testing.T) {
			fb := NewFramebuffer(10, 10, White)
			unlit(t, mode).Fill(fb, tri)
			if n := fb.CountDiff(); n != 1 {
				t.Errorf("Expected exactly 1 pixel written, got %d", n)
			}
			if got := fb.GetPixel(5, 5); !got.ApproxEqual(want, 1e-12) {
				t.Errorf("Expected %v, got %v", want, got)
			}
		})
	}
}

func TestScanlineSkipsDegenerate(t *testing.T) {
	tests := []struct {
		name  string
		verts [3]Point
	}{
		{"collinear horizontal", [3]Point{{0, 0}, {5, 0}, {10, 0}}},
		{"two coincident", [3]Point{{2, 2}, {2, 2}, {8, 7}}},
		{"coincident first and last", [3]Point{{4, 1}, {9, 9}, {4, 1}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fb := NewFramebuffer(12, 12, White)
			unlit(t, ShadingFlat).Fill(fb, solid(tt.verts, Black))
			if n := fb.CountDiff(); n != 0 {
				t.Errorf("Expected image unchanged, %d pixels written", n)
			}
		})
	}
}

func TestScanlineCollinearSliver(t *testing.T) {
	// A non-horizontal zero-area triangle only produces its boundary line.
	fb := NewFramebuffer(12, 12, White)
	unlit(t, ShadingFlat).Fill(fb, solid([3]Point{{0, 0}, {3, 3}, {6, 6}}, Black))
	for i := 0; i <= 6; i++ {
		if fb.GetPixel(i, i) != Black {
			t.Errorf("Expected diagonal pixel (%d,%d) written", i, i)
		}
	}
	if n := fb.CountDiff(); n != 7 {
		t.Errorf("Expected 7 pixels, got %d", n)
	}
}

func TestScanlineOutOfBounds(t *testing.T) {
	fb := NewFramebuffer(10, 10, White)
	unlit(t, ShadingFlat).Fill(fb, solid([3]Point{{20, 20}, {40, 25}, {30, 40}}, Black))
	if n := fb.CountDiff(); n != 0 {
		t.Errorf("Expected off-screen triangle to write nothing, got %d", n)
	}

	// Covering the whole buffer fills every pixel.
	unlit(t, ShadingFlat).Fill(fb, solid([3]Point{{-50, -50}, {100, -50}, {-50, 100}}, Black))
	if n := fb.CountDiff(); n != 100 {
		t.Errorf("Expected all 100 pixels written, got %d", n)
	}
}

func TestScanlineFarVertex(t *testing.T) {
	// Vertices just in front of the eye project to the coordinate clamp.
	tests := []struct {
		name  string
		verts [3]Point
	}{
		{"apex above", [3]Point{{10, -maxCoord}, {20, 30}, {40, 40}}},
		{"two above", [3]Point{{10, -maxCoord}, {60, -3}, {30, 50}}},
		{"middle at edge", [3]Point{{-maxCoord, -maxCoord}, {50, -1}, {5, 60}}},
		{"apex below", [3]Point{{10, 5}, {50, 20}, {30, maxCoord}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fb := NewFramebuffer(64, 64, White)
			start := time.Now()
			unlit(t, ShadingFlat).Fill(fb, solid(tt.verts, Black))
			if d := time.Since(start); d > 100*time.Millisecond {
				t.Errorf("fill took %v, rows outside the buffer should be skipped", d)
			}

			for y := range fb.Height {
				for x := range fb.Width {
					inside, outside := classify(tt.verts, Point{x, y})
					written := fb.GetPixel(x, y) != White
					if inside && !written {
						t.Errorf("pixel (%d,%d) inside but not written", x, y)
					}
					if outside && written {
						t.Errorf("pixel (%d,%d) outside but written", x, y)
					}
				}
			}
			if fb.CountDiff() == 0 {
				t.Error("Expected visible part of the triangle drawn")
			}
		})
	}
}

func TestScanlineGouraudVertexColors(t *testing.T) {
	tri := Triangle{
		Verts:  [3]Point{{0, 0}, {10, 0}, {0, 10}},
		Colors: [3]Color{Red, Green, Blue},
	}
	fb := NewFramebuffer(12, 12, White)
	unlit(t, ShadingGouraud).Fill(fb, tri)

	tests := []struct {
		p    Point
		want Color
	}{
		{Point{0, 0}, Red},
		{Point{10, 0}, Green},
		{Point{0, 10}, Blue},
		{Point{5, 0}, RGB(0.5, 0.5, 0)},
		{Point{0, 5}, RGB(0.5, 0, 0.5)},
		{Point{5, 5}, RGB(0, 0.5, 0.5)},
	}
	for _, tt := range tests {
		if got := fb.GetPixel(tt.p.X, tt.p.Y); !got.ApproxEqual(tt.want, 1e-9) {
			t.Errorf("pixel %v: Expected %v, got %v", tt.p, tt.want, got)
		}
	}
}

func TestScanlineFlatUniform(t *testing.T) {
	tri := Triangle{
		Verts:  [3]Point{{1, 1}, {18, 6}, {6, 17}},
		Colors: [3]Color{Red, Green, Blue},
		Normals: [3]math3d.Vec3{
			math3d.V3(1, 0, 0), math3d.V3(0, 1, 0), math3d.V3(0, 0, 1),
		},
	}
	fb := NewFramebuffer(20, 20, White)
	unlit(t, ShadingFlat).Fill(fb, tri)

	want := Mean(Red, Green, Blue)
	for i, p := range fb.Pixels {
		if p != White && p != want {
			t.Fatalf("pixel %d: Expected flat color %v, got %v", i, want, p)
		}
	}
	if fb.CountDiff() == 0 {
		t.Error("Expected pixels to be written")
	}
}

func BenchmarkScanlineGouraud(b *testing.B) {
	fb := NewFramebuffer(256, 256, White)
	s, _ := NewShader(ShadingGouraud, nil)
	tri := Triangle{
		Verts:  [3]Point{{10, 5}, {240, 80}, {60, 250}},
		Colors: [3]Color{Red, Green, Blue},
	}

	for b.Loop() {
		s.Fill(fb, tri)
	}
}
