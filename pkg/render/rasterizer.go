package render

import (
	"image/color"

	"github.com/taigrr/scanline/pkg/math3d"
)

// Triangle is a projected triangle ready for scan conversion.
//
// Points hold screen-space X and Y in pixels, the normalized device Z and
// the clip-space W (the view depth). UVs are in texture space with V
// growing upward. A nil Texture means a flat fill with Color.
type Triangle struct {
	Points  [3]math3d.Vec4
	UVs     [3]math3d.Vec2
	Color   color.RGBA
	Texture *Texture
}

// Rasterizer scan-converts triangles into a color buffer with a depth test.
type Rasterizer struct {
	fb    *Framebuffer
	depth *DepthBuffer
}

// NewRasterizer creates a rasterizer drawing into fb and testing against
// depth. Both buffers must have the same dimensions.
func NewRasterizer(fb *Framebuffer, depth *DepthBuffer) *Rasterizer {
	return &Rasterizer{fb: fb, depth: depth}
}

// Width returns the framebuffer width.
func (r *Rasterizer) Width() int {
	if r.fb == nil {
		return 0
	}
	return r.fb.Width
}

// Height returns the framebuffer height.
func (r *Rasterizer) Height() int {
	if r.fb == nil {
		return 0
	}
	return r.fb.Height
}

// Barycentric returns the weights (alpha, beta, gamma) of p relative to the
// triangle (a, b, c). Alpha and beta are ratios of parallelogram areas;
// gamma is 1-alpha-beta, so the three always sum to one.
// The triangle must have non-zero area.
func Barycentric(a, b, c, p math3d.Vec2) math3d.Vec3 {
	ac := c.Sub(a)
	ab := b.Sub(a)
	ap := p.Sub(a)
	pc := c.Sub(p)
	pb := b.Sub(p)

	area := ac.Cross(ab)

	alpha := pc.Cross(pb) / area
	beta := ac.Cross(ap) / area
	gamma := 1 - alpha - beta

	return math3d.V3(alpha, beta, gamma)
}

// DrawTriangle fills t, textured when it carries a texture.
func (r *Rasterizer) DrawTriangle(t Triangle) {
	if t.Texture != nil {
		r.DrawTexturedTriangle(t)
		return
	}
	r.DrawFilledTriangle(t)
}

// DrawFilledTriangle fills t with its flat color.
func (r *Rasterizer) DrawFilledTriangle(t Triangle) {
	c := t.Color
	r.scan(t, func(*scanTriangle, math3d.Vec3, float64) color.RGBA {
		return c
	})
}

// DrawTexturedTriangle fills t by sampling its texture with
// perspective-correct UVs. Without a texture it falls back to a flat fill.
func (r *Rasterizer) DrawTexturedTriangle(t Triangle) {
	tex := t.Texture
	if tex == nil {
		r.DrawFilledTriangle(t)
		return
	}

	// Image rows run top-down, texture V runs bottom-up.
	for i := range t.UVs {
		t.UVs[i].Y = 1 - t.UVs[i].Y
	}

	r.scan(t, func(st *scanTriangle, w math3d.Vec3, invW float64) color.RGBA {
		a, b, c := &st.v[0], &st.v[1], &st.v[2]
		u := (a.uv.X/a.w)*w.X + (b.uv.X/b.w)*w.Y + (c.uv.X/c.w)*w.Z
		v := (a.uv.Y/a.w)*w.X + (b.uv.Y/b.w)*w.Y + (c.uv.Y/c.w)*w.Z
		return tex.Texel(u/invW, v/invW)
	})
}

// scanVertex is a triangle corner snapped to the pixel grid.
type scanVertex struct {
	x, y int
	w    float64
	uv   math3d.Vec2
}

type scanTriangle struct {
	v [3]scanVertex
}

// shadeFunc returns the color of a covered pixel given its barycentric
// weights and interpolated 1/w.
type shadeFunc func(st *scanTriangle, weights math3d.Vec3, invW float64) color.RGBA

// scan walks the triangle's pixels row by row and writes every pixel that
// passes the depth test.
//
// Vertices are sorted by y and the triangle is split at the middle vertex
// into a flat-bottom and a flat-top half. A half with zero height is
// skipped. Spans are left-closed and right-open so triangles sharing an
// edge do not double-cover it.
func (r *Rasterizer) scan(t Triangle, shade shadeFunc) {
	var st scanTriangle
	for i := range 3 {
		st.v[i] = scanVertex{
			x:  int(t.Points[i].X),
			y:  int(t.Points[i].Y),
			w:  t.Points[i].W,
			uv: t.UVs[i],
		}
	}

	v := &st.v
	if v[0].y > v[1].y {
		v[0], v[1] = v[1], v[0]
	}
	if v[1].y > v[2].y {
		v[1], v[2] = v[2], v[1]
	}
	if v[0].y > v[1].y {
		v[0], v[1] = v[1], v[0]
	}

	a := math3d.V2(float64(v[0].x), float64(v[0].y))
	b := math3d.V2(float64(v[1].x), float64(v[1].y))
	c := math3d.V2(float64(v[2].x), float64(v[2].y))
	if c.Sub(a).Cross(b.Sub(a)) == 0 {
		return
	}
	if v[0].w == 0 || v[1].w == 0 || v[2].w == 0 {
		return
	}

	x0, y0 := v[0].x, v[0].y
	x1, y1 := v[1].x, v[1].y
	x2, y2 := v[2].x, v[2].y

	// Flat-bottom half.
	if y1 != y0 {
		slope1 := float64(x1-x0) / float64(y1-y0)
		slope2 := float64(x2-x0) / float64(y2-y0)
		for y := y0; y <= y1; y++ {
			xStart := x1 + int(float64(y-y1)*slope1)
			xEnd := x0 + int(float64(y-y0)*slope2)
			r.span(y, xStart, xEnd, &st, a, b, c, shade)
		}
	}

	// Flat-top half.
	if y2 != y1 {
		slope1 := float64(x2-x1) / float64(y2-y1)
		slope2 := float64(x2-x0) / float64(y2-y0)
		for y := y1; y <= y2; y++ {
			xStart := x1 + int(float64(y-y1)*slope1)
			xEnd := x0 + int(float64(y-y0)*slope2)
			r.span(y, xStart, xEnd, &st, a, b, c, shade)
		}
	}
}

// span fills [min(xStart, xEnd), max(xStart, xEnd)) on row y.
func (r *Rasterizer) span(y, xStart, xEnd int, st *scanTriangle, a, b, c math3d.Vec2, shade shadeFunc) {
	if y < 0 || y >= r.Height() {
		return
	}
	if xEnd < xStart {
		xStart, xEnd = xEnd, xStart
	}
	xStart = max(xStart, 0)
	xEnd = min(xEnd, r.Width())

	for x := xStart; x < xEnd; x++ {
		w := Barycentric(a, b, c, math3d.V2(float64(x), float64(y)))
		invW := w.X/st.v[0].w + w.Y/st.v[1].w + w.Z/st.v[2].w

		// Nearer surfaces have a larger 1/w; invert so smaller is closer.
		depth := 1 - invW
		if depth >= r.depth.At(x, y) {
			continue
		}
		r.fb.SetPixel(x, y, shade(st, w, invW))
		r.depth.Set(x, y, depth)
	}
}
