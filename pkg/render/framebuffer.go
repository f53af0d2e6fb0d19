// Package render implements the trishade CPU rasterizer: a scanline
// active-edge triangle filler, Flat/Gouraud/Phong shading over a Phong
// reflection model, a painter's-order object compositor, and the camera
// and image plumbing around them.
package render

import (
	"image"
)

// Framebuffer is an H×W grid of float colors, row-major.
// There is no depth buffer; triangles overwrite in draw order.
type Framebuffer struct {
	Width      int
	Height     int
	Background Color
	Pixels     []Color
}

// NewFramebuffer creates a framebuffer filled with the background color.
func NewFramebuffer(width, height int, bg Color) *Framebuffer {
	fb := &Framebuffer{
		Width:      width,
		Height:     height,
		Background: bg,
		Pixels:     make([]Color, width*height),
	}
	fb.Clear(bg)
	return fb
}

// Clear fills the framebuffer with a solid color.
func (fb *Framebuffer) Clear(c Color) {
	for i := range fb.Pixels {
		fb.Pixels[i] = c
	}
}

// InBounds reports whether (x, y) addresses a pixel.
func (fb *Framebuffer) InBounds(x, y int) bool {
	return x >= 0 && x < fb.Width && y >= 0 && y < fb.Height
}

// SetPixel sets a pixel at (x, y). Out-of-range writes are dropped.
func (fb *Framebuffer) SetPixel(x, y int, c Color) {
	if !fb.InBounds(x, y) {
		return
	}
	fb.Pixels[y*fb.Width+x] = c
}

// GetPixel returns the color at (x, y), or the background if out of bounds.
func (fb *Framebuffer) GetPixel(x, y int) Color {
	if !fb.InBounds(x, y) {
		return fb.Background
	}
	return fb.Pixels[y*fb.Width+x]
}

// DrawLine draws a line from (x0, y0) to (x1, y1) using Bresenham's algorithm.
func (fb *Framebuffer) DrawLine(x0, y0, x1, y1 int, c Color) {
	dx := abs(x1 - x0)
	dy := -abs(y1 - y0)
	sx := 1
	if x0 > x1 {
		sx = -1
	}
	sy := 1
	if y0 > y1 {
		sy = -1
	}
	err := dx + dy

	for {
		fb.SetPixel(x0, y0, c)
		if x0 == x1 && y0 == y1 {
			break
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x0 += sx
		}
		if e2 <= dx {
			err += dx
			y0 += sy
		}
	}
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

// ToImage converts the framebuffer to an 8-bit image, clamping channels to [0,1].
func (fb *Framebuffer) ToImage() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, fb.Width, fb.Height))
	for y := 0; y < fb.Height; y++ {
		for x := 0; x < fb.Width; x++ {
			img.SetRGBA(x, y, fb.Pixels[y*fb.Width+x].RGBA())
		}
	}
	return img
}

// CountDiff returns how many pixels differ from the background.
func (fb *Framebuffer) CountDiff() int {
	n := 0
	for _, p := range fb.Pixels {
		if p != fb.Background {
			n++
		}
	}
	return n
}
