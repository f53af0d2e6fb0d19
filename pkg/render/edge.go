package render

import (
	"math"

	"github.com/taigrr/trishade/pkg/math3d"
)

// Point is an integer pixel position. X is the column, Y the row; rows grow
// downward.
type Point struct {
	X, Y int
}

// Attrib is the per-vertex payload a shading strategy carries along edges.
type Attrib struct {
	Color  Color
	Normal math3d.Vec3
}

// Edge is one side of a triangle, oriented so Start is the endpoint with
// the smaller row. Edges live only for the duration of a single fill.
type Edge struct {
	Name        string
	Start, End  Point
	StartAttrib Attrib
	EndAttrib   Attrib
	// Slope is dy/dx; +Inf for vertical edges and 0 for horizontal ones.
	Slope  float64
	YMin   int
	YMax   int
	Active bool
}

// NewEdge builds the edge between a and b with their attributes.
func NewEdge(name string, a, b Point, aa, ab Attrib) Edge {
	if b.Y < a.Y || (b.Y == a.Y && b.X < a.X) {
		a, b = b, a
		aa, ab = ab, aa
	}
	e := Edge{
		Name:        name,
		Start:       a,
		End:         b,
		StartAttrib: aa,
		EndAttrib:   ab,
		YMin:        a.Y,
		YMax:        b.Y,
	}
	switch {
	case a.X == b.X:
		e.Slope = math.Inf(1)
	case a.Y == b.Y:
		e.Slope = 0
	default:
		e.Slope = float64(a.Y-b.Y) / float64(a.X-b.X)
	}
	return e
}

// Horizontal reports whether the edge lies on a single row.
func (e *Edge) Horizontal() bool {
	return e.Slope == 0
}

// Vertical reports whether the edge lies on a single column.
func (e *Edge) Vertical() bool {
	return math.IsInf(e.Slope, 1)
}

// XAt returns the edge's x on row y: the top x advanced by 1/slope for each
// row below YMin. Vertical and horizontal edges keep the top x.
func (e *Edge) XAt(y int) float64 {
	if e.Vertical() || e.Horizontal() {
		return float64(e.Start.X)
	}
	dxdy := float64(e.End.X-e.Start.X) / float64(e.End.Y-e.Start.Y)
	return float64(e.Start.X) + float64(y-e.YMin)*dxdy
}

// AttribAt interpolates the endpoint attributes by row. Normals are only
// blended when withNormal is set.
func (e *Edge) AttribAt(y int, withNormal bool) Attrib {
	y1, y2, fy := float64(e.YMin), float64(e.YMax), float64(y)
	a := Attrib{Color: InterpolateColor(y1, y2, fy, e.StartAttrib.Color, e.EndAttrib.Color)}
	if withNormal {
		a.Normal = InterpolateNormal(y1, y2, fy, e.StartAttrib.Normal, e.EndAttrib.Normal)
	}
	return a
}
