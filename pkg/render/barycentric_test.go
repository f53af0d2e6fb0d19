package render

import "testing"

func TestBarycentricMatchesScanline(t *testing.T) {
	for _, tt := range coverageCases {
		t.Run(tt.name, func(t *testing.T) {
			tri := Triangle{
				Verts:  tt.verts,
				Colors: [3]Color{Red, Green, Blue},
			}
			s := unlit(t, ShadingGouraud)
			scan := NewFramebuffer(20, 20, White)
			bary := NewFramebuffer(20, 20, White)
			Scanline{}.Fill(scan, tri, s)
			Barycentric{}.Fill(bary, tri, s)

			for y := range scan.Height {
				for x := range scan.Width {
					inside, outside := classify(tt.verts, Point{x, y})
					a, b := scan.GetPixel(x, y), bary.GetPixel(x, y)
					switch {
					case inside:
						if a == White || b == White {
							t.Errorf("pixel (%d,%d) inside but missing: scanline %v, barycentric %v", x, y, a, b)
						} else if !a.ApproxEqual(b, 1e-9) {
							t.Errorf("pixel (%d,%d): scanline %v, barycentric %v", x, y, a, b)
						}
					case outside:
						if b != White {
							t.Errorf("pixel (%d,%d) outside but written by barycentric", x, y)
						}
					}
				}
			}
		})
	}
}

func TestBarycentricDegenerate(t *testing.T) {
	s := unlit(t, ShadingFlat)

	fb := NewFramebuffer(10, 10, White)
	Barycentric{}.Fill(fb, Triangle{
		Verts:  [3]Point{{5, 5}, {5, 5}, {5, 5}},
		Colors: [3]Color{Red, Green, Blue},
	}, s)
	if n := fb.CountDiff(); n != 1 {
		t.Errorf("Expected 1 pixel, got %d", n)
	}
	if got := fb.GetPixel(5, 5); !got.ApproxEqual(Mean(Red, Green, Blue), 1e-12) {
		t.Errorf("Expected mean color, got %v", got)
	}

	fb = NewFramebuffer(12, 12, White)
	Barycentric{}.Fill(fb, solid([3]Point{{0, 0}, {5, 0}, {10, 0}}, Black), s)
	Barycentric{}.Fill(fb, solid([3]Point{{0, 0}, {3, 3}, {6, 6}}, Black), s)
	if n := fb.CountDiff(); n != 0 {
		t.Errorf("Expected zero-area triangles to be skipped, got %d pixels", n)
	}
}

func TestBarycentricPhong(t *testing.T) {
	il := overhead(LightingAll, Material{Ka: 0.1, Kd: 0.8, Ks: 0.3, N: 5})
	s, err := NewShader(ShadingPhong, il)
	if err != nil {
		t.Fatal(err)
	}
	scan := NewFramebuffer(32, 32, White)
	bary := NewFramebuffer(32, 32, White)
	Scanline{}.Fill(scan, testTri, s)
	Barycentric{}.Fill(bary, testTri, s)

	// Constant normals make both backends agree on every interior pixel.
	for y := range scan.Height {
		for x := range scan.Width {
			inside, _ := classify(testTri.Verts, Point{x, y})
			if !inside {
				continue
			}
			a, b := scan.GetPixel(x, y), bary.GetPixel(x, y)
			if !a.ApproxEqual(b, 1e-9) {
				t.Errorf("pixel (%d,%d): scanline %v, barycentric %v", x, y, a, b)
			}
		}
	}
}

func BenchmarkBarycentricGouraud(b *testing.B) {
	fb := NewFramebuffer(256, 256, White)
	s, _ := NewShader(ShadingGouraud, nil)
	tri := Triangle{
		Verts:  [3]Point{{10, 5}, {240, 80}, {60, 250}},
		Colors: [3]Color{Red, Green, Blue},
	}

	for b.Loop() {
		Barycentric{}.Fill(fb, tri, s)
	}
}
