package render

import (
	"errors"
	"fmt"
	"image"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/HugoSmits86/nativewebp"
	"github.com/ftrvxmtrx/tga"
	"golang.org/x/image/draw"
)

// ErrUnsupportedFormat is returned for an output extension with no encoder.
var ErrUnsupportedFormat = errors.New("unsupported image format")

// Format is an output image encoding.
type Format int

const (
	FormatPNG Format = iota
	FormatWebP
	FormatTGA
)

// FormatFromPath picks the encoder from a file extension.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".png":
		return FormatPNG, nil
	case ".webp":
		return FormatWebP, nil
	case ".tga":
		return FormatTGA, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnsupportedFormat, filepath.Ext(path))
}

// Scaled returns the image enlarged by an integer factor with
// nearest-neighbour sampling, so individual pixels stay visible.
func (fb *Framebuffer) Scaled(factor int) image.Image {
	src := fb.ToImage()
	if factor <= 1 {
		return src
	}
	dst := image.NewRGBA(image.Rect(0, 0, fb.Width*factor, fb.Height*factor))
	draw.NearestNeighbor.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Src, nil)
	return dst
}

// Encode writes img to w in the given format.
func Encode(w io.Writer, img image.Image, f Format) error {
	switch f {
	case FormatPNG:
		return png.Encode(w, img)
	case FormatWebP:
		return nativewebp.Encode(w, img, nil)
	case FormatTGA:
		return tga.Encode(w, img)
	}
	return ErrUnsupportedFormat
}

// Save writes the framebuffer to path, upscaled by factor, choosing the
// encoder from the extension.
func (fb *Framebuffer) Save(path string, factor int) error {
	f, err := FormatFromPath(path)
	if err != nil {
		return err
	}
	return writeImage(path, fb.Scaled(factor), f)
}

// SavePNG saves the framebuffer as a PNG file at native resolution.
func (fb *Framebuffer) SavePNG(path string) error {
	return writeImage(path, fb.ToImage(), FormatPNG)
}

func writeImage(path string, img image.Image, f Format) error {
	out, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := Encode(out, img, f); err != nil {
		out.Close()
		return fmt.Errorf("encode %s: %w", path, err)
	}
	return out.Close()
}
