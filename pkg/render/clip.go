package render

import (
	"errors"

	"github.com/taigrr/scanline/pkg/math3d"
)

// MaxPolygonVertices caps a clipped polygon. Six planes can grow a
// triangle to at most nine vertices.
const MaxPolygonVertices = 10

// ErrPolygonOverflow is returned when clipping would push a polygon past
// MaxPolygonVertices.
var ErrPolygonOverflow = errors.New("polygon vertex capacity exceeded")

// Polygon is a convex view-space polygon with per-vertex texture
// coordinates. It is a value type so clipping a face never allocates.
type Polygon struct {
	Vertices [MaxPolygonVertices]math3d.Vec3
	UVs      [MaxPolygonVertices]math3d.Vec2
	Count    int
}

// NewPolygon creates a polygon from a triangle.
func NewPolygon(v [3]math3d.Vec3, uv [3]math3d.Vec2) Polygon {
	var p Polygon
	for i := range 3 {
		p.Vertices[i] = v[i]
		p.UVs[i] = uv[i]
	}
	p.Count = 3
	return p
}

// Add appends a vertex, failing with ErrPolygonOverflow when full.
func (p *Polygon) Add(v math3d.Vec3, uv math3d.Vec2) error {
	if p.Count >= MaxPolygonVertices {
		return ErrPolygonOverflow
	}
	p.Vertices[p.Count] = v
	p.UVs[p.Count] = uv
	p.Count++
	return nil
}

// ClipAgainstPlane clips p against a single plane (Sutherland–Hodgman).
//
// Each edge runs from the previous vertex to the current one, starting
// with the edge that closes the loop. A crossing point is emitted before
// the current vertex. A vertex is kept only when strictly inside; one
// lying exactly on the plane survives only as a crossing point.
func ClipAgainstPlane(p Polygon, plane Plane) (Polygon, error) {
	var out Polygon
	if p.Count == 0 {
		return out, nil
	}

	prev := p.Count - 1
	dPrev := plane.Distance(p.Vertices[prev])

	for cur := range p.Count {
		dCur := plane.Distance(p.Vertices[cur])

		if dPrev*dCur < 0 {
			t := dPrev / (dPrev - dCur)
			v := p.Vertices[prev].Lerp(p.Vertices[cur], t)
			uv := p.UVs[prev].Lerp(p.UVs[cur], t)
			if err := out.Add(v, uv); err != nil {
				return Polygon{}, err
			}
		}

		if dCur > 0 {
			if err := out.Add(p.Vertices[cur], p.UVs[cur]); err != nil {
				return Polygon{}, err
			}
		}

		prev, dPrev = cur, dCur
	}

	return out, nil
}

// ClipTriangle is one triangle of a triangulated polygon, still in view
// space.
type ClipTriangle struct {
	Vertices [3]math3d.Vec3
	UVs      [3]math3d.Vec2
}

// Triangulate fans the polygon from vertex 0 and appends the n-2
// triangles to dst. Polygons with fewer than three vertices add nothing.
func (p *Polygon) Triangulate(dst []ClipTriangle) []ClipTriangle {
	for i := 0; i+2 < p.Count; i++ {
		dst = append(dst, ClipTriangle{
			Vertices: [3]math3d.Vec3{p.Vertices[0], p.Vertices[i+1], p.Vertices[i+2]},
			UVs:      [3]math3d.Vec2{p.UVs[0], p.UVs[i+1], p.UVs[i+2]},
		})
	}
	return dst
}
