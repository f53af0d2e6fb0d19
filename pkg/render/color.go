package render

import (
	"errors"
	"fmt"
	"image/color"
	"math"
	"strconv"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
)

// ErrBadColor is returned when a color string cannot be parsed.
var ErrBadColor = errors.New("invalid color")

// Color is a linear RGB triple. Channels are nominally in [0,1] but are not
// clamped until the color is encoded into an 8-bit image.
type Color struct {
	R, G, B float64
}

// Colors for convenience
var (
	White = Color{1, 1, 1}
	Black = Color{0, 0, 0}
	Grey  = Color{0.5, 0.5, 0.5}
	Red   = Color{1, 0, 0}
	Green = Color{0, 1, 0}
	Blue  = Color{0, 0, 1}
)

// RGB creates a color from float channels.
func RGB(r, g, b float64) Color {
	return Color{r, g, b}
}

// Add returns the channel-wise sum.
func (c Color) Add(o Color) Color {
	return Color{c.R + o.R, c.G + o.G, c.B + o.B}
}

// Scale multiplies every channel by s.
func (c Color) Scale(s float64) Color {
	return Color{c.R * s, c.G * s, c.B * s}
}

// Mul returns the channel-wise product.
func (c Color) Mul(o Color) Color {
	return Color{c.R * o.R, c.G * o.G, c.B * o.B}
}

// Clamp limits every channel to [0,1].
func (c Color) Clamp() Color {
	return Color{clamp01(c.R), clamp01(c.G), clamp01(c.B)}
}

// ApproxEqual reports whether all channels differ by at most eps.
func (c Color) ApproxEqual(o Color, eps float64) bool {
	return math.Abs(c.R-o.R) <= eps && math.Abs(c.G-o.G) <= eps && math.Abs(c.B-o.B) <= eps
}

// RGBA converts to an opaque 8-bit color, clamping each channel.
func (c Color) RGBA() color.RGBA {
	c = c.Clamp()
	return color.RGBA{toByte(c.R), toByte(c.G), toByte(c.B), 255}
}

// Mean returns the average of three colors.
func Mean(a, b, c Color) Color {
	return Color{
		(a.R + b.R + c.R) / 3,
		(a.G + b.G + c.G) / 3,
		(a.B + b.B + c.B) / 3,
	}
}

// ParseColor accepts "#rrggbb" or a comma separated "r,g,b" triple. Triples
// with any component above 1 are read as bytes (0-255).
func ParseColor(s string) (Color, error) {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "#") {
		c, err := colorful.Hex(s)
		if err != nil {
			return Color{}, fmt.Errorf("%w %q: %w", ErrBadColor, s, err)
		}
		return Color{c.R, c.G, c.B}, nil
	}

	parts := strings.Split(s, ",")
	if len(parts) != 3 {
		return Color{}, fmt.Errorf("%w %q: want #rrggbb or r,g,b", ErrBadColor, s)
	}
	var ch [3]float64
	byteScale := false
	for i, p := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil || v < 0 {
			return Color{}, fmt.Errorf("%w %q: bad channel %q", ErrBadColor, s, p)
		}
		if v > 1 {
			byteScale = true
		}
		ch[i] = v
	}
	if byteScale {
		for i := range ch {
			ch[i] /= 255
		}
	}
	return Color{ch[0], ch[1], ch[2]}, nil
}

func clamp01(v float64) float64 {
	switch {
	case v < 0 || math.IsNaN(v):
		return 0
	case v > 1:
		return 1
	}
	return v
}

// toByte expects v in [0,1].
func toByte(v float64) uint8 {
	return uint8(math.Round(v * 255))
}
