package render

import (
	"image/color"

	uv "github.com/charmbracelet/ultraviolet"
)

// Draw converts the framebuffer to terminal cells inside area.
// Each cell shows two framebuffer rows with ▀ (upper half block): the
// foreground is the top pixel and the background the bottom pixel, so the
// framebuffer should be twice as tall as area.
func (fb *Framebuffer) Draw(scr uv.Screen, area uv.Rectangle) {
	for row := area.Min.Y; row < area.Max.Y; row++ {
		topY := (row - area.Min.Y) * 2
		botY := topY + 1

		for col := area.Min.X; col < area.Max.X; col++ {
			x := col - area.Min.X
			if x >= fb.Width {
				break
			}
			scr.SetCell(col, row, &uv.Cell{
				Content: "▀",
				Width:   1,
				Style: uv.Style{
					Fg: rgbaToColor(fb.GetPixel(x, topY)),
					Bg: rgbaToColor(fb.GetPixel(x, botY)),
				},
			})
		}
	}
}

// rgbaToColor maps fully transparent pixels to the terminal default.
func rgbaToColor(c color.RGBA) color.Color {
	if c.A == 0 {
		return nil
	}
	return c
}

// Display is a screen that can flush drawn cells to a device, such as
// *uv.Terminal.
type Display interface {
	uv.Screen
	Display() error
}

// TerminalPresenter presents frames on a terminal screen using half-block
// cells.
type TerminalPresenter struct {
	Screen Display
	// Area is the region of the screen to draw into. The zero value
	// means the whole screen.
	Area uv.Rectangle
}

// Present draws fb and flushes the screen.
func (p *TerminalPresenter) Present(fb *Framebuffer) error {
	area := p.Area
	if area.Empty() {
		area = p.Screen.Bounds()
	}
	fb.Draw(p.Screen, area)
	return p.Screen.Display()
}

// Colors used by the pipeline's overlays.
var (
	ColorBlack  = color.RGBA{0, 0, 0, 255}
	ColorWhite  = color.RGBA{255, 255, 255, 255}
	ColorRed    = color.RGBA{255, 0, 0, 255}
	ColorGray   = color.RGBA{128, 128, 128, 255}
	ColorYellow = color.RGBA{255, 255, 0, 255}
)

// RGB creates an opaque color from RGB values.
func RGB(r, g, b uint8) color.RGBA {
	return color.RGBA{r, g, b, 255}
}
