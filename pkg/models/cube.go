package models

import (
	"image/color"

	"github.com/taigrr/scanline/pkg/math3d"
)

var cubeVertices = []math3d.Vec3{
	{X: -1, Y: -1, Z: -1},
	{X: -1, Y: 1, Z: -1},
	{X: 1, Y: 1, Z: -1},
	{X: 1, Y: -1, Z: -1},
	{X: 1, Y: 1, Z: 1},
	{X: 1, Y: -1, Z: 1},
	{X: -1, Y: 1, Z: 1},
	{X: -1, Y: -1, Z: 1},
}

// Each side is a quad (a, b, c, d) split into (a, b, c) and (a, c, d),
// listed clockwise as seen from outside the cube.
var cubeSides = []struct {
	a, b, c, d int
	colors     [2]color.RGBA
}{
	{0, 1, 2, 3, [2]color.RGBA{{0xF0, 0xF0, 0xFF, 0xFF}, {0xF3, 0x5F, 0xFF, 0xFF}}}, // front
	{3, 2, 4, 5, [2]color.RGBA{{0xF5, 0xFF, 0xFF, 0xFF}, {0x8F, 0xFF, 0xFF, 0xFF}}}, // right
	{5, 4, 6, 7, [2]color.RGBA{{0x56, 0xFF, 0xFF, 0xFF}, {0x78, 0xFF, 0xFF, 0xFF}}}, // back
	{7, 6, 1, 0, [2]color.RGBA{{0x89, 0xFF, 0xFF, 0xFF}, {0x37, 0xFF, 0xFF, 0xFF}}}, // left
	{1, 6, 4, 2, [2]color.RGBA{{0x48, 0xFF, 0xFF, 0xFF}, {0xFF, 0x89, 0xFF, 0xFF}}}, // top
	{5, 7, 0, 3, [2]color.RGBA{{0xFF, 0x36, 0xFF, 0xFF}, {0xFF, 0x37, 0xFF, 0xFF}}}, // bottom
}

var cubeMesh = buildCube()

// Cube returns a 2x2x2 cube centered on the origin with twelve colored,
// textured faces. Each call returns an independent copy.
func Cube() *Mesh {
	return cubeMesh.Clone()
}

func buildCube() *Mesh {
	m := NewMesh("cube")
	m.Vertices = append(m.Vertices, cubeVertices...)

	bottomLeft := math3d.V2(0, 0)
	topLeft := math3d.V2(0, 1)
	topRight := math3d.V2(1, 1)
	bottomRight := math3d.V2(1, 0)

	for _, s := range cubeSides {
		m.Faces = append(m.Faces,
			Face{
				A: s.a, B: s.b, C: s.c,
				UV:    [3]math3d.Vec2{bottomLeft, topLeft, topRight},
				Color: s.colors[0],
			},
			Face{
				A: s.a, B: s.c, C: s.d,
				UV:    [3]math3d.Vec2{bottomLeft, topRight, bottomRight},
				Color: s.colors[1],
			},
		)
	}

	m.CalculateBounds()
	return m
}
