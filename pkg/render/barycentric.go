package render

// baryEps admits pixel centers that sit on an edge despite rounding.
const baryEps = 1e-9

// Barycentric fills a triangle by testing every pixel of its bounding box.
// It is slower than Scanline but has no edge bookkeeping, which makes it a
// useful cross-check.
type Barycentric struct{}

// Fill draws tri into fb with the given shader.
func (Barycentric) Fill(fb *Framebuffer, tri Triangle, s *Shader) {
	at, want, px := s.prepare(&tri)
	v := tri.Verts

	switch degenerate(v) {
	case degeneratePoint:
		fb.SetPixel(v[0].X, v[0].Y, px(meanAttrib(at)))
		return
	case degenerateSkip:
		return
	}

	// Twice the signed area; zero for collinear vertices.
	area := edgeFunc(v[0], v[1], v[2].X, v[2].Y)
	if area == 0 {
		return
	}

	minX := max(min(v[0].X, v[1].X, v[2].X), 0)
	maxX := min(max(v[0].X, v[1].X, v[2].X), fb.Width-1)
	minY := max(min(v[0].Y, v[1].Y, v[2].Y), 0)
	maxY := min(max(v[0].Y, v[1].Y, v[2].Y), fb.Height-1)

	for y := minY; y <= maxY; y++ {
		for x := minX; x <= maxX; x++ {
			a := edgeFunc(v[1], v[2], x, y) / area
			b := edgeFunc(v[2], v[0], x, y) / area
			c := edgeFunc(v[0], v[1], x, y) / area
			if a < -baryEps || b < -baryEps || c < -baryEps {
				continue
			}
			fb.SetPixel(x, y, px(blend(at, a, b, c, want)))
		}
	}
}

// edgeFunc is f_pq evaluated at (x, y): zero on the line through p and q,
// with the sign telling the side.
func edgeFunc(p, q Point, x, y int) float64 {
	return float64(p.Y-q.Y)*float64(x) + float64(q.X-p.X)*float64(y) +
		float64(p.X)*float64(q.Y) - float64(q.X)*float64(p.Y)
}

// blend weights the vertex attributes by barycentric coordinates.
func blend(at [3]Attrib, a, b, c float64, want interp) Attrib {
	out := at[0]
	if want.color {
		out.Color = at[0].Color.Scale(a).Add(at[1].Color.Scale(b)).Add(at[2].Color.Scale(c))
	}
	if want.normal {
		out.Normal = at[0].Normal.Scale(a).Add(at[1].Normal.Scale(b)).Add(at[2].Normal.Scale(c)).Normalize()
	}
	return out
}
