// Package pipeline turns a scene into pixels: it transforms every face
// into view space, culls and clips it against the camera frustum, projects
// the survivors onto the screen and hands them to the rasterizer.
package pipeline

import (
	"image/color"
	"log/slog"

	"github.com/taigrr/scanline/internal/logging"
	"github.com/taigrr/scanline/pkg/math3d"
	"github.com/taigrr/scanline/pkg/models"
	"github.com/taigrr/scanline/pkg/render"
)

// Overlay settings.
const (
	DotSpacing       = 10
	VertexMarkerSize = 6
)

// Overlay colors.
var (
	WireColor   = render.ColorWhite
	VertexColor = render.ColorRed
	DotColor    = render.ColorGray
)

// SetLogger installs the logger used by the pipeline and the model
// loaders. Passing nil silences them again.
func SetLogger(l *slog.Logger) {
	logging.SetLogger(l)
}

// Stats counts what happened to the faces of one frame.
type Stats struct {
	Faces      int // Faces submitted
	Invalid    int // Faces with an index outside the vertex list
	Culled     int // Back faces and faces with no area
	Clipped    int // Faces entirely outside the frustum
	Overflowed int // Faces dropped because clipping produced too many vertices
	Triangles  int // Triangles rasterized
}

// LogValue implements slog.LogValuer.
func (s Stats) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("faces", s.Faces),
		slog.Int("invalid", s.Invalid),
		slog.Int("culled", s.Culled),
		slog.Int("clipped", s.Clipped),
		slog.Int("overflowed", s.Overflowed),
		slog.Int("triangles", s.Triangles),
	)
}

// RenderState is the per-frame input the renderer reads: the camera, the
// light and the drawing options. Callers change it between frames.
type RenderState struct {
	Camera     *render.Camera
	Light      Light
	Mode       RenderMode
	Cull       CullMode
	Background color.RGBA
	// Dots draws a grid of dots behind the scene.
	Dots bool
}

// Renderer owns the frame buffers and draws scenes into them.
// It is not safe for concurrent use.
type Renderer struct {
	RenderState

	fb     *render.Framebuffer
	depth  *render.DepthBuffer
	raster *render.Rasterizer

	tris  []render.ClipTriangle
	stats Stats
}

// NewRenderer creates a renderer with width x height buffers and a camera
// at the origin looking down +Z.
func NewRenderer(width, height int) *Renderer {
	r := &Renderer{
		RenderState: RenderState{
			Camera:     render.NewCamera(),
			Light:      DefaultLight(),
			Mode:       ModeFillWire,
			Cull:       CullBackface,
			Background: render.ColorBlack,
		},
		tris: make([]render.ClipTriangle, 0, render.MaxPolygonVertices-2),
	}
	r.Resize(width, height)
	return r
}

// Resize replaces the frame buffers and updates the camera's aspect ratio.
func (r *Renderer) Resize(width, height int) {
	r.fb = render.NewFramebuffer(width, height)
	r.depth = render.NewDepthBuffer(width, height)
	r.raster = render.NewRasterizer(r.fb, r.depth)
	if width > 0 && height > 0 {
		r.Camera.SetAspectRatio(float64(width) / float64(height))
	}
}

// Framebuffer returns the color buffer of the last frame.
func (r *Renderer) Framebuffer() *render.Framebuffer {
	return r.fb
}

// Depth returns the depth buffer of the last frame.
func (r *Renderer) Depth() *render.DepthBuffer {
	return r.depth
}

// Stats returns the counters of the last frame.
func (r *Renderer) Stats() Stats {
	return r.stats
}

// Render draws scene and presents the result.
func (r *Renderer) Render(scene *Scene, p render.Presenter) (Stats, error) {
	stats := r.RenderFrame(scene)
	return stats, p.Present(r.fb)
}

// RenderFrame clears the buffers and draws every face of scene.
func (r *Renderer) RenderFrame(scene *Scene) Stats {
	r.stats = Stats{}

	r.fb.Clear(r.Background)
	if r.Dots {
		r.fb.DrawDots(DotSpacing, DotColor)
	}
	r.depth.Clear()

	view := r.Camera.ViewMatrix()
	for _, mesh := range scene.Meshes {
		r.drawMesh(mesh, view.Mul(mesh.World()))
	}

	logging.Logger().Debug("frame rendered", "stats", r.stats)
	return r.stats
}

// drawMesh runs every face of mesh through the pipeline. worldView maps
// object space to view space.
func (r *Renderer) drawMesh(mesh *models.Mesh, worldView math3d.Mat4) {
	frustum := r.Camera.Frustum()
	proj := r.Camera.ProjectionMatrix()

	for i, f := range mesh.Faces {
		r.stats.Faces++

		if !mesh.FaceInRange(f) {
			r.stats.Invalid++
			logging.Logger().Warn("dropping face with index out of range",
				"mesh", mesh.Name, "face", i, "indices", f.Indices(), "vertices", len(mesh.Vertices))
			continue
		}

		a := worldView.MulVec3(mesh.Vertices[f.A])
		b := worldView.MulVec3(mesh.Vertices[f.B])
		c := worldView.MulVec3(mesh.Vertices[f.C])

		normal := b.Sub(a).Normalize().Cross(c.Sub(a).Normalize()).Normalize()
		if normal == math3d.Zero3() {
			r.stats.Culled++
			continue
		}

		// The camera sits at the view-space origin.
		if r.Cull == CullBackface && normal.Dot(a.Negate()) < 0 {
			r.stats.Culled++
			continue
		}

		// Faces strictly inside every plane come out of clipping unchanged.
		poly := render.NewPolygon([3]math3d.Vec3{a, b, c}, f.UV)
		if !frustum.Contains(a) || !frustum.Contains(b) || !frustum.Contains(c) {
			var err error
			if poly, err = frustum.Clip(poly); err != nil {
				r.stats.Overflowed++
				logging.Logger().Warn("dropping face", "mesh", mesh.Name, "face", i, "error", err)
				continue
			}
			if poly.Count < 3 {
				r.stats.Clipped++
				continue
			}
		}

		base := render.Triangle{Color: f.Color}
		if r.Mode.Textured() && mesh.Texture != nil {
			base.Texture = mesh.Texture
		} else {
			base.Color = r.Light.Shade(f.Color, normal)
		}

		r.tris = poly.Triangulate(r.tris[:0])
		for _, ct := range r.tris {
			t := base
			t.UVs = ct.UVs
			for j, v := range ct.Vertices {
				t.Points[j] = r.toScreen(proj.MulVec4Project(math3d.V4FromV3(v)))
			}
			r.draw(t)
			r.stats.Triangles++
		}
	}
}

// toScreen divides a clip-space point by W and maps it to pixel
// coordinates with Y growing downward. W is kept as the view depth.
func (r *Renderer) toScreen(p math3d.Vec4) math3d.Vec4 {
	p = p.PerspectiveDivide()

	halfW := float64(r.fb.Width) / 2
	halfH := float64(r.fb.Height) / 2

	p.X = p.X*halfW + halfW
	p.Y = -p.Y*halfH + halfH
	return p
}

// draw rasterizes t according to the render mode.
func (r *Renderer) draw(t render.Triangle) {
	if r.Mode.Fills() {
		r.raster.DrawTriangle(t)
	}
	if r.Mode.Wire() {
		r.fb.DrawTriangleOutline(t, WireColor)
	}
	if r.Mode.Vertices() {
		r.fb.DrawVertexMarkers(t, VertexMarkerSize, VertexColor)
	}
}
