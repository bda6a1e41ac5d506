package render

import "image/color"

// DrawTriangleOutline draws the three edges of a projected triangle.
func (fb *Framebuffer) DrawTriangleOutline(t Triangle, c color.RGBA) {
	for i := range 3 {
		a, b := t.Points[i], t.Points[(i+1)%3]
		fb.DrawLine(int(a.X), int(a.Y), int(b.X), int(b.Y), c)
	}
}

// DrawVertexMarkers draws a size x size square centered on each corner of
// a projected triangle.
func (fb *Framebuffer) DrawVertexMarkers(t Triangle, size int, c color.RGBA) {
	half := size / 2
	for _, p := range t.Points {
		fb.DrawRect(int(p.X)-half, int(p.Y)-half, size, size, c)
	}
}
