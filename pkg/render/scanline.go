package render

import (
	"math"
	"slices"
)

// spanEps widens a row span so pixels whose centers land on an edge are
// covered regardless of float rounding in the edge x.
const spanEps = 1e-9

// interp selects which attributes the engine blends.
type interp struct {
	color  bool
	normal bool
}

// pixelFunc turns interpolated attributes into the color written.
type pixelFunc func(a Attrib) Color

// Scanline is the active-edge fill backend.
type Scanline struct{}

// Fill draws tri into fb with the given shader.
func (Scanline) Fill(fb *Framebuffer, tri Triangle, s *Shader) {
	at, want, px := s.prepare(&tri)
	scanTriangle(fb, tri.Verts, at, want, px)
}

// scanTriangle runs the active-edge algorithm over one triangle:
// classify edges, fill the top row or vertex, then walk rows down to y_max,
// handing an exhausted edge's slot to the edge that starts on that row.
func scanTriangle(fb *Framebuffer, v [3]Point, at [3]Attrib, want interp, px pixelFunc) {
	switch degenerate(v) {
	case degeneratePoint:
		fb.SetPixel(v[0].X, v[0].Y, px(meanAttrib(at)))
		return
	case degenerateSkip:
		return
	}

	edges := [3]Edge{
		NewEdge("AB", v[0], v[1], at[0], at[1]),
		NewEdge("BC", v[1], v[2], at[1], at[2]),
		NewEdge("AC", v[0], v[2], at[0], at[2]),
	}
	yMin := min(v[0].Y, v[1].Y, v[2].Y)
	yMax := max(v[0].Y, v[1].Y, v[2].Y)

	var active [2]int
	n := 0
	flatTop := false
	for i := range edges {
		e := &edges[i]
		if e.YMin != yMin {
			continue
		}
		if e.Horizontal() {
			flatTop = true
			continue
		}
		if n < 2 {
			active[n] = i
			e.Active = true
			n++
		}
	}
	if n < 2 {
		return
	}

	if flatTop {
		a, b := &edges[active[0]], &edges[active[1]]
		fillSpan(fb, yMin, a.XAt(yMin), b.XAt(yMin), a.StartAttrib, b.StartAttrib, want, px)
	} else {
		top := &edges[active[0]]
		fb.SetPixel(top.Start.X, top.Start.Y, px(top.StartAttrib))
	}

	// Rows above the framebuffer are not walked. Edge x is exact per row,
	// so only the hand-offs on those rows need replaying.
	yStart := max(yMin+1, 0)
	ends := [3]int{edges[0].YMax, edges[1].YMax, edges[2].YMax}
	slices.Sort(ends[:])
	for _, y := range ends {
		if y > yMin && y < yStart {
			handOff(&edges, &active, y)
		}
	}

	yEnd := min(yMax, fb.Height-1)
	for y := yStart; y <= yEnd; y++ {
		a, b := &edges[active[0]], &edges[active[1]]
		fillSpan(fb, y, a.XAt(y), b.XAt(y), a.AttribAt(y, want.normal), b.AttribAt(y, want.normal), want, px)
		handOff(&edges, &active, y)
	}
}

// handOff replaces each active edge that ends on row y with the edge that
// starts there.
func handOff(edges *[3]Edge, active *[2]int, y int) {
	for slot := range active {
		cur := &edges[active[slot]]
		if y != cur.YMax {
			continue
		}
		if next := nextEdge(edges, y); next >= 0 {
			cur.Active = false
			edges[next].Active = true
			active[slot] = next
		}
	}
}

// nextEdge returns the inactive, non-horizontal edge starting on row y, or -1.
func nextEdge(edges *[3]Edge, y int) int {
	for i := range edges {
		e := &edges[i]
		if !e.Active && !e.Horizontal() && e.YMin == y {
			return i
		}
	}
	return -1
}

// fillSpan writes the pixels of row y between two edge crossings,
// interpolating attributes by x.
func fillSpan(fb *Framebuffer, y int, xa, xb float64, aa, ab Attrib, want interp, px pixelFunc) {
	if y < 0 || y >= fb.Height {
		return
	}
	if xb < xa {
		xa, xb = xb, xa
		aa, ab = ab, aa
	}
	lo := max(int(math.Ceil(xa-spanEps)), 0)
	hi := min(int(math.Floor(xb+spanEps)), fb.Width-1)
	for x := lo; x <= hi; x++ {
		a := aa
		fx := float64(x)
		if want.color {
			a.Color = InterpolateColor(xa, xb, fx, aa.Color, ab.Color)
		}
		if want.normal {
			a.Normal = InterpolateNormal(xa, xb, fx, aa.Normal, ab.Normal)
		}
		fb.SetPixel(x, y, px(a))
	}
}

type degeneracy int

const (
	degenerateNone degeneracy = iota
	degeneratePoint
	degenerateSkip
)

// degenerate classifies triangles with fewer than three distinct vertices:
// a single repeated point is drawn as one pixel, two distinct points are
// skipped.
func degenerate(v [3]Point) degeneracy {
	switch {
	case v[0] == v[1] && v[1] == v[2]:
		return degeneratePoint
	case v[0] == v[1] || v[1] == v[2] || v[0] == v[2]:
		return degenerateSkip
	}
	return degenerateNone
}

func meanAttrib(at [3]Attrib) Attrib {
	return Attrib{
		Color:  Mean(at[0].Color, at[1].Color, at[2].Color),
		Normal: at[0].Normal.Add(at[1].Normal).Add(at[2].Normal).Normalize(),
	}
}
