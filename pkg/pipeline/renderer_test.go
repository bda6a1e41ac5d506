package pipeline

import (
	"bytes"
	"image/color"
	"log/slog"
	"math"
	"strings"
	"testing"

	"github.com/taigrr/scanline/pkg/math3d"
	"github.com/taigrr/scanline/pkg/models"
	"github.com/taigrr/scanline/pkg/render"
)

// quadMesh builds a square of half-size s facing the camera at depth z.
// Reversed quads wind counter-clockwise and face away from the camera.
func quadMesh(z, s float64, c color.RGBA, reversed bool) *models.Mesh {
	m := models.NewMesh("quad")
	m.Vertices = []math3d.Vec3{
		math3d.V3(-s, -s, z),
		math3d.V3(-s, s, z),
		math3d.V3(s, s, z),
		math3d.V3(s, -s, z),
	}
	uv := [3]math3d.Vec2{math3d.V2(0, 0), math3d.V2(0, 1), math3d.V2(1, 1)}
	m.Faces = []models.Face{
		{A: 0, B: 1, C: 2, UV: uv, Color: c},
		{A: 0, B: 2, C: 3, UV: uv, Color: c},
	}
	if reversed {
		for i := range m.Faces {
			m.Faces[i].B, m.Faces[i].C = m.Faces[i].C, m.Faces[i].B
		}
	}
	return m
}

func countColor(fb *render.Framebuffer, c color.RGBA) int {
	n := 0
	for _, p := range fb.Pixels {
		if p == c {
			n++
		}
	}
	return n
}

func newTestRenderer(mode RenderMode, cull CullMode) *Renderer {
	r := NewRenderer(64, 64)
	r.Mode = mode
	r.Cull = cull
	return r
}

func TestBackfaceCulling(t *testing.T) {
	red := render.RGB(255, 0, 0)

	tests := []struct {
		name       string
		reversed   bool
		cull       CullMode
		wantDrawn  bool
		wantCulled int
	}{
		{"front face culling on", false, CullBackface, true, 0},
		{"back face culling on", true, CullBackface, false, 2},
		{"back face culling off", true, CullNone, true, 0},
		{"front face culling off", false, CullNone, true, 0},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			r := newTestRenderer(ModeFill, tc.cull)
			stats := r.RenderFrame(NewScene(quadMesh(5, 1, red, tc.reversed)))

			drawn := countColor(r.Framebuffer(), red) > 0
			if drawn != tc.wantDrawn {
				t.Errorf("drawn = %v, want %v", drawn, tc.wantDrawn)
			}
			if stats.Culled != tc.wantCulled {
				t.Errorf("culled = %d, want %d", stats.Culled, tc.wantCulled)
			}
			if stats.Faces != 2 {
				t.Errorf("faces = %d, want 2", stats.Faces)
			}
		})
	}
}

func TestOcclusion(t *testing.T) {
	near := quadMesh(5, 1, render.RGB(255, 0, 0), false)
	near.Name = "near"
	far := quadMesh(10, 8, render.RGB(0, 0, 255), false)
	far.Name = "far"

	for _, order := range [][]*models.Mesh{{near, far}, {far, near}} {
		r := newTestRenderer(ModeFill, CullBackface)
		r.RenderFrame(NewScene(order...))

		fb := r.Framebuffer()
		if got := fb.GetPixel(28, 30); got != render.RGB(255, 0, 0) {
			t.Errorf("%s first: pixel (28,30) = %v, want the near quad", order[0].Name, got)
		}
		// The far quad is larger and shows around the near one.
		if got := fb.GetPixel(8, 30); got != render.RGB(0, 0, 255) {
			t.Errorf("%s first: pixel (8,30) = %v, want the far quad", order[0].Name, got)
		}
	}
}

func TestFlatShading(t *testing.T) {
	r := newTestRenderer(ModeFill, CullBackface)
	r.Light = Light{Direction: math3d.V3(0, 1, 0), Ambient: 0.5}
	r.RenderFrame(NewScene(quadMesh(5, 1, render.RGB(200, 100, 0), false)))

	// The light grazes the quad, so only the ambient floor is left.
	if got := r.Framebuffer().GetPixel(28, 30); got != render.RGB(100, 50, 0) {
		t.Errorf("pixel = %v, want ambient-scaled color", got)
	}
}

func TestClippingStats(t *testing.T) {
	t.Run("behind camera", func(t *testing.T) {
		r := newTestRenderer(ModeFill, CullNone)
		stats := r.RenderFrame(NewScene(quadMesh(-5, 1, render.ColorWhite, false)))
		if stats.Clipped != 2 || stats.Triangles != 0 {
			t.Errorf("stats = %+v, want 2 clipped, 0 triangles", stats)
		}
	})

	t.Run("crossing near plane", func(t *testing.T) {
		m := models.NewMesh("spike")
		m.Vertices = []math3d.Vec3{math3d.V3(0, 0, 0.05), math3d.V3(-1, 1, 5), math3d.V3(1, 1, 5)}
		m.Faces = []models.Face{{A: 0, B: 1, C: 2, Color: render.ColorWhite}}

		r := newTestRenderer(ModeFill, CullNone)
		stats := r.RenderFrame(NewScene(m))
		if stats.Clipped != 0 || stats.Triangles != 2 {
			t.Errorf("stats = %+v, want the quad left by the near plane as 2 triangles", stats)
		}
	})
}

func TestTexturedFaceWithNonFiniteUVs(t *testing.T) {
	m := quadMesh(5, 1, render.ColorWhite, false)
	m.Texture = render.NewCheckerTexture(100, 100, 10, render.ColorWhite, render.ColorRed)
	nan := math.NaN()
	for i := range m.Faces {
		m.Faces[i].UV = [3]math3d.Vec2{math3d.V2(nan, 0), math3d.V2(math.Inf(1), 1e19), math3d.V2(1, 1)}
	}

	r := newTestRenderer(ModeTextured, CullNone)
	stats := r.RenderFrame(NewScene(m))
	if stats.Triangles != 2 {
		t.Errorf("stats = %+v, want 2 triangles", stats)
	}
	if p := r.Framebuffer().GetPixel(28, 30); p != render.ColorWhite && p != render.ColorRed {
		t.Errorf("pixel = %v, want a texel", p)
	}
}

func TestInvalidFaceIsDroppedAndLogged(t *testing.T) {
	var buf bytes.Buffer
	SetLogger(slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelWarn})))
	t.Cleanup(func() { SetLogger(nil) })

	m := quadMesh(5, 1, render.ColorWhite, false)
	m.Faces = append(m.Faces, models.Face{A: 0, B: 1, C: 9})

	r := newTestRenderer(ModeFill, CullBackface)
	stats := r.RenderFrame(NewScene(m))

	if stats.Invalid != 1 || stats.Triangles != 2 {
		t.Errorf("stats = %+v, want 1 invalid and 2 triangles", stats)
	}
	if !strings.Contains(buf.String(), "index out of range") {
		t.Errorf("log = %q, want a warning about the bad face", buf.String())
	}
}

func TestDegenerateFaceIsDropped(t *testing.T) {
	m := models.NewMesh("line")
	m.Vertices = []math3d.Vec3{math3d.V3(0, 0, 5), math3d.V3(1, 1, 5), math3d.V3(2, 2, 5)}
	m.Faces = []models.Face{{A: 0, B: 1, C: 2, Color: render.ColorWhite}}

	r := newTestRenderer(ModeFill, CullNone)
	if stats := r.RenderFrame(NewScene(m)); stats.Culled != 1 || stats.Triangles != 0 {
		t.Errorf("stats = %+v, want the zero-area face dropped", stats)
	}
}

func TestRenderModes(t *testing.T) {
	red := render.RGB(255, 0, 0)
	green := render.RGB(0, 255, 0)

	tests := []struct {
		name      string
		mode      RenderMode
		texture   bool
		wantFill  color.RGBA
		wantWire  bool
		wantMarks bool
	}{
		{"wire", ModeWire, false, render.ColorBlack, true, false},
		{"wire vertex", ModeWireVertex, false, render.ColorBlack, true, true},
		{"fill", ModeFill, false, red, false, false},
		{"fill wire", ModeFillWire, false, red, true, false},
		{"textured", ModeTextured, true, green, false, false},
		{"textured without texture", ModeTextured, false, red, false, false},
		{"textured wire", ModeTexturedWire, true, green, true, false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			m := quadMesh(5, 1, red, false)
			if tc.texture {
				m.Texture = render.NewCheckerTexture(4, 4, 2, green, green)
			}

			r := newTestRenderer(tc.mode, CullBackface)
			r.RenderFrame(NewScene(m))
			fb := r.Framebuffer()

			if got := fb.GetPixel(28, 30); got != tc.wantFill {
				t.Errorf("interior pixel = %v, want %v", got, tc.wantFill)
			}
			if got := countColor(fb, WireColor) > 0; got != tc.wantWire {
				t.Errorf("wire drawn = %v, want %v", got, tc.wantWire)
			}
			if got := countColor(fb, VertexColor) > 0 && tc.wantFill != VertexColor; got != tc.wantMarks {
				t.Errorf("vertex markers drawn = %v, want %v", got, tc.wantMarks)
			}
		})
	}
}

func TestWireModeLeavesDepthUntouched(t *testing.T) {
	r := newTestRenderer(ModeWire, CullBackface)
	r.RenderFrame(NewScene(quadMesh(5, 1, render.ColorWhite, false)))

	for i, v := range r.Depth().Values {
		if v != render.FarDepth {
			t.Fatalf("depth %d = %v, want untouched", i, v)
		}
	}
}

func TestRenderFrameClears(t *testing.T) {
	r := newTestRenderer(ModeFill, CullBackface)
	r.Background = render.RGB(10, 20, 30)
	r.RenderFrame(NewScene(quadMesh(5, 1, render.ColorWhite, false)))

	stats := r.RenderFrame(NewScene())
	if stats != (Stats{}) {
		t.Errorf("empty scene stats = %+v", stats)
	}
	if n := countColor(r.Framebuffer(), r.Background); n != 64*64 {
		t.Errorf("%d background pixels after an empty frame, want %d", n, 64*64)
	}
}

func TestDotsBackground(t *testing.T) {
	r := newTestRenderer(ModeFill, CullBackface)
	r.Dots = true
	r.RenderFrame(NewScene())

	fb := r.Framebuffer()
	if fb.GetPixel(0, 0) != DotColor || fb.GetPixel(DotSpacing, DotSpacing) != DotColor {
		t.Error("missing background dots")
	}
	if fb.GetPixel(5, 5) != r.Background {
		t.Error("dot drawn off the grid")
	}
}

func TestCameraMovesView(t *testing.T) {
	red := render.RGB(255, 0, 0)
	r := newTestRenderer(ModeFill, CullBackface)
	r.Camera.Position = math3d.V3(0, 0, 10)

	// The quad is now behind the camera.
	if stats := r.RenderFrame(NewScene(quadMesh(5, 1, red, false))); stats.Triangles != 0 {
		t.Errorf("triangles = %d, want 0 for geometry behind the camera", stats.Triangles)
	}

	r.Camera.Yaw = 3.141592653589793
	r.RenderFrame(NewScene(quadMesh(5, 1, red, true)))
	if countColor(r.Framebuffer(), red) == 0 {
		t.Error("turning around should bring the quad into view")
	}
}

func TestMeshTransformIsApplied(t *testing.T) {
	red := render.RGB(255, 0, 0)
	m := quadMesh(0, 1, red, false)
	m.Translation = math3d.V3(0, 0, 5)

	r := newTestRenderer(ModeFill, CullBackface)
	r.RenderFrame(NewScene(m))
	if r.Framebuffer().GetPixel(28, 30) != red {
		t.Error("translated quad not drawn in front of the camera")
	}

	// Half a turn about Y shows the back of the quad.
	m.Rotation = math3d.V3(0, 3.141592653589793, 0)
	if stats := r.RenderFrame(NewScene(m)); stats.Culled != 2 {
		t.Errorf("culled = %d, want both faces turned away", stats.Culled)
	}
}

type capturePresenter struct {
	frames int
	last   *render.Framebuffer
}

func (p *capturePresenter) Present(fb *render.Framebuffer) error {
	p.frames++
	p.last = fb
	return nil
}

func TestRenderPresents(t *testing.T) {
	r := newTestRenderer(ModeFill, CullBackface)
	p := &capturePresenter{}

	stats, err := r.Render(NewScene(models.Cube()), p)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if p.frames != 1 || p.last != r.Framebuffer() {
		t.Error("frame not presented")
	}
	if stats.Faces != 12 {
		t.Errorf("faces = %d, want 12", stats.Faces)
	}
}

func TestResize(t *testing.T) {
	r := NewRenderer(64, 64)
	r.Resize(80, 40)

	if r.Framebuffer().Width != 80 || r.Depth().Height != 40 {
		t.Error("buffers not resized")
	}
	if r.Camera.AspectRatio != 2 {
		t.Errorf("aspect = %v, want 2", r.Camera.AspectRatio)
	}
}

func BenchmarkRenderFrameCube(b *testing.B) {
	cube := models.Cube()
	cube.Translation = math3d.V3(0, 0, 5)
	cube.Rotation = math3d.V3(0.4, 0.6, 0)
	scene := NewScene(cube)
	r := NewRenderer(320, 240)

	for b.Loop() {
		r.RenderFrame(scene)
	}
}
