package render

import (
	uv "github.com/charmbracelet/ultraviolet"
)

// TerminalSize returns the framebuffer size that fills a terminal area of
// cols×rows cells. Each cell shows two vertically stacked pixels.
func TerminalSize(cols, rows int) (width, height int) {
	return cols, rows * 2
}

// Draw converts the framebuffer to terminal cells and draws them on the
// screen. The framebuffer height should be 2x the area height.
func (fb *Framebuffer) Draw(scr uv.Screen, area uv.Rectangle) {
	// ▀ with fg=top pixel and bg=bottom pixel
	for row := area.Min.Y; row < area.Max.Y; row++ {
		topY := (row - area.Min.Y) * 2
		botY := topY + 1
		if topY >= fb.Height {
			break
		}

		for col := area.Min.X; col < area.Max.X; col++ {
			x := col - area.Min.X
			if x >= fb.Width {
				break
			}
			cell := &uv.Cell{
				Content: "▀",
				Width:   1,
				Style: uv.Style{
					Fg: fb.GetPixel(x, topY).RGBA(),
					Bg: fb.GetPixel(x, botY).RGBA(),
				},
			}
			scr.SetCell(col, row, cell)
		}
	}
}
