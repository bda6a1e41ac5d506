package render

// FarDepth is the value an empty depth buffer holds. Smaller is closer.
const FarDepth = 1.0

// DepthBuffer stores one depth value per pixel.
type DepthBuffer struct {
	Width  int
	Height int
	Values []float64
}

// NewDepthBuffer creates a cleared depth buffer.
func NewDepthBuffer(width, height int) *DepthBuffer {
	d := &DepthBuffer{
		Width:  width,
		Height: height,
		Values: make([]float64, width*height),
	}
	d.Clear()
	return d
}

// Clear resets every pixel to FarDepth.
func (d *DepthBuffer) Clear() {
	if len(d.Values) == 0 {
		return
	}
	d.Values[0] = FarDepth
	for i := 1; i < len(d.Values); i *= 2 {
		copy(d.Values[i:], d.Values[:i])
	}
}

// At returns the depth at (x, y), or FarDepth outside the buffer.
func (d *DepthBuffer) At(x, y int) float64 {
	if x < 0 || x >= d.Width || y < 0 || y >= d.Height {
		return FarDepth
	}
	return d.Values[y*d.Width+x]
}

// Set stores the depth at (x, y). Out-of-range writes are ignored.
func (d *DepthBuffer) Set(x, y int, v float64) {
	if x < 0 || x >= d.Width || y < 0 || y >= d.Height {
		return
	}
	d.Values[y*d.Width+x] = v
}
