package render

import (
	"math"

	"github.com/taigrr/trishade/pkg/math3d"
)

// interpEps is the endpoint separation below which interpolation
// short-circuits to the first endpoint.
const interpEps = 1e-12

// InterpolateColor blends c1 and c2 linearly by the position of x between
// x1 and x2. Coincident endpoints return c1. The result is not clamped or
// sign-corrected; clamping happens when the image is encoded.
func InterpolateColor(x1, x2, x float64, c1, c2 Color) Color {
	if math.Abs(x2-x1) < interpEps {
		return c1
	}
	t := (x - x1) / (x2 - x1)
	return Color{
		c1.R + t*(c2.R-c1.R),
		c1.G + t*(c2.G-c1.G),
		c1.B + t*(c2.B-c1.B),
	}
}

// InterpolateNormal blends two unit normals like InterpolateColor and
// re-normalizes the result. Opposing normals that cancel out yield the
// zero vector.
func InterpolateNormal(x1, x2, x float64, n1, n2 math3d.Vec3) math3d.Vec3 {
	if math.Abs(x2-x1) < interpEps {
		return n1
	}
	t := (x - x1) / (x2 - x1)
	return n1.Lerp(n2, t).Normalize()
}
