package render

import (
	"math"

	"github.com/taigrr/scanline/pkg/math3d"
)

// Plane is a clipping plane given by a point on it and a normal pointing
// into the visible half-space.
type Plane struct {
	Point  math3d.Vec3
	Normal math3d.Vec3
}

// Distance returns the signed distance of v from the plane. Positive is
// inside.
func (p Plane) Distance(v math3d.Vec3) float64 {
	return p.Normal.Dot(v.Sub(p.Point))
}

// Frustum plane indices, in clipping order.
const (
	PlaneLeft = iota
	PlaneRight
	PlaneTop
	PlaneBottom
	PlaneNear
	PlaneFar
)

// Frustum is the six view-space planes bounding what the camera sees.
// The camera sits at the origin looking down +Z.
type Frustum [6]Plane

// NewFrustum builds the frustum for horizontal and vertical fields of view
// (radians) and the near and far distances. The side planes all pass
// through the origin.
func NewFrustum(fovX, fovY, near, far float64) Frustum {
	cosX, sinX := math.Cos(fovX/2), math.Sin(fovX/2)
	cosY, sinY := math.Cos(fovY/2), math.Sin(fovY/2)

	var f Frustum
	f[PlaneLeft] = Plane{Normal: math3d.V3(cosX, 0, sinX)}
	f[PlaneRight] = Plane{Normal: math3d.V3(-cosX, 0, sinX)}
	f[PlaneTop] = Plane{Normal: math3d.V3(0, -cosY, sinY)}
	f[PlaneBottom] = Plane{Normal: math3d.V3(0, cosY, sinY)}
	f[PlaneNear] = Plane{Point: math3d.V3(0, 0, near), Normal: math3d.V3(0, 0, 1)}
	f[PlaneFar] = Plane{Point: math3d.V3(0, 0, far), Normal: math3d.V3(0, 0, -1)}
	return f
}

// Contains reports whether v is strictly inside all six planes.
func (f *Frustum) Contains(v math3d.Vec3) bool {
	for i := range f {
		if f[i].Distance(v) <= 0 {
			return false
		}
	}
	return true
}

// Clip clips the polygon against every plane in order: left, right, top,
// bottom, near, far. Each stage consumes the previous stage's output.
func (f *Frustum) Clip(p Polygon) (Polygon, error) {
	for i := range f {
		var err error
		p, err = ClipAgainstPlane(p, f[i])
		if err != nil {
			return Polygon{}, err
		}
		if p.Count == 0 {
			break
		}
	}
	return p, nil
}
