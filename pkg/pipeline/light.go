package pipeline

import (
	"image/color"

	"github.com/taigrr/scanline/pkg/math3d"
	"github.com/taigrr/scanline/pkg/render"
)

// Light is a single directional light.
type Light struct {
	// Direction the light travels, in view space.
	Direction math3d.Vec3
	// Ambient is the lowest intensity any face is shaded with.
	Ambient float64
}

// DefaultLight shines straight into the screen.
func DefaultLight() Light {
	return Light{
		Direction: math3d.Forward(),
		Ambient:   0.1,
	}
}

// Intensity returns how strongly a face with the given unit normal is lit,
// in [Ambient, 1]. Faces turned toward the light are brightest.
func (l Light) Intensity(normal math3d.Vec3) float64 {
	i := -normal.Dot(l.Direction.Normalize())
	return max(l.Ambient, min(1, max(0, i)))
}

// Shade scales c by the intensity for normal.
func (l Light) Shade(c color.RGBA, normal math3d.Vec3) color.RGBA {
	return render.MultiplyColor(c, l.Intensity(normal))
}
