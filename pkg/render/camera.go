package render

import (
	"math"

	"github.com/taigrr/trishade/pkg/math3d"
)

// Camera is a pinhole camera looking from Eye toward Target.
type Camera struct {
	Eye    math3d.Vec3
	Target math3d.Vec3
	Up     math3d.Vec3
	// Focal is the distance from the pinhole to the image plane, in the
	// same units as the sensor size.
	Focal float64
}

// NewCamera creates a camera at eye looking at target with +Y up.
func NewCamera(eye, target math3d.Vec3, focal float64) Camera {
	return Camera{
		Eye:    eye,
		Target: target,
		Up:     math3d.V3(0, 1, 0),
		Focal:  focal,
	}
}

// ToCamera expresses world points in camera coordinates: x right, y up,
// z the distance along the viewing direction.
func (c Camera) ToCamera(points []math3d.Vec3) []math3d.Vec3 {
	x, y, z := math3d.LookAtBasis(c.Eye, c.Target, c.Up)
	out := make([]math3d.Vec3, len(points))
	for i, p := range points {
		d := p.Sub(c.Eye)
		out[i] = math3d.V3(x.Dot(d), y.Dot(d), z.Dot(d))
	}
	return out
}

// Project maps world points onto the image plane and returns their camera
// depth. Points at or behind the eye project to the origin; callers check
// depth before using them.
func (c Camera) Project(points []math3d.Vec3) ([]math3d.Vec2, []float64) {
	cam := c.ToCamera(points)
	proj := make([]math3d.Vec2, len(cam))
	depth := make([]float64, len(cam))
	for i, p := range cam {
		depth[i] = p.Z
		if p.Z <= 0 {
			continue
		}
		s := c.Focal / p.Z
		proj[i] = math3d.V2(s*p.X, s*p.Y)
	}
	return proj, depth
}

// Viewport maps the camera sensor onto an image of Width×Height pixels.
type Viewport struct {
	Width, Height             int
	SensorWidth, SensorHeight float64
}

// maxCoord keeps far-off projections inside int range.
const maxCoord = 1 << 24

// ToPixel converts an image-plane point to the nearest pixel. The sensor
// center lands in the middle of the image and +y points up the picture.
func (v Viewport) ToPixel(p math3d.Vec2) Point {
	col := (p.X+v.SensorWidth/2)*float64(v.Width)/v.SensorWidth - 0.5
	row := (-p.Y+v.SensorHeight/2)*float64(v.Height)/v.SensorHeight - 0.5
	return Point{X: toCoord(col), Y: toCoord(row)}
}

// Rasterize converts every projected point to pixel space.
func (v Viewport) Rasterize(points []math3d.Vec2) []Point {
	out := make([]Point, len(points))
	for i, p := range points {
		out[i] = v.ToPixel(p)
	}
	return out
}

func toCoord(f float64) int {
	f = math.RoundToEven(f)
	switch {
	case math.IsNaN(f):
		return 0
	case f > maxCoord:
		return maxCoord
	case f < -maxCoord:
		return -maxCoord
	}
	return int(f)
}
