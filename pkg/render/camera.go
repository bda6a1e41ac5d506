package render

import (
	"math"

	"github.com/taigrr/scanline/pkg/math3d"
)

// Camera is a yaw/pitch camera with a perspective projection.
// At zero yaw and pitch it looks down +Z.
type Camera struct {
	// Position in world space
	Position math3d.Vec3

	// Orientation (radians)
	Yaw   float64 // Rotation around Y (look left/right)
	Pitch float64 // Rotation around X (look up/down)

	// Projection parameters
	FOV         float64 // Vertical field of view in radians
	AspectRatio float64 // Width / Height
	Near        float64 // Near clipping plane
	Far         float64 // Far clipping plane

	// Cached (computed on demand)
	projMatrix math3d.Mat4
	frustum    Frustum
	projDirty  bool
}

// NewCamera creates a camera at the origin with a 60 degree FOV.
func NewCamera() *Camera {
	return &Camera{
		FOV:         math.Pi / 3,
		AspectRatio: 4.0 / 3.0,
		Near:        0.1,
		Far:         100,
		projDirty:   true,
	}
}

// SetFOV sets the vertical field of view (in radians).
func (c *Camera) SetFOV(fov float64) {
	c.FOV = fov
	c.projDirty = true
}

// SetAspectRatio sets the aspect ratio.
func (c *Camera) SetAspectRatio(aspect float64) {
	c.AspectRatio = aspect
	c.projDirty = true
}

// SetClipPlanes sets the near and far clipping planes.
func (c *Camera) SetClipPlanes(near, far float64) {
	c.Near = near
	c.Far = far
	c.projDirty = true
}

// Direction returns the unit vector the camera looks along.
func (c *Camera) Direction() math3d.Vec3 {
	return math3d.V3(
		math.Sin(c.Yaw)*math.Cos(c.Pitch),
		math.Sin(c.Pitch),
		math.Cos(c.Yaw)*math.Cos(c.Pitch),
	)
}

// Right returns the horizontal right vector.
func (c *Camera) Right() math3d.Vec3 {
	return math3d.V3(math.Cos(c.Yaw), 0, -math.Sin(c.Yaw))
}

// Target returns the point one unit in front of the camera, for LookAt.
func (c *Camera) Target() math3d.Vec3 {
	return c.Position.Add(c.Direction())
}

// ViewMatrix returns the world-to-view matrix.
func (c *Camera) ViewMatrix() math3d.Mat4 {
	return math3d.LookAt(c.Position, c.Target(), math3d.Up())
}

// ProjectionMatrix returns the perspective projection matrix.
func (c *Camera) ProjectionMatrix() math3d.Mat4 {
	c.update()
	return c.projMatrix
}

// Frustum returns the view-space clipping planes matching the projection.
func (c *Camera) Frustum() *Frustum {
	c.update()
	return &c.frustum
}

func (c *Camera) update() {
	if !c.projDirty {
		return
	}
	c.projMatrix = math3d.Perspective(c.FOV, c.AspectRatio, c.Near, c.Far)
	c.frustum = NewFrustum(math3d.FOVX(c.FOV, c.AspectRatio), c.FOV, c.Near, c.Far)
	c.projDirty = false
}

// MoveForward moves the camera along its view direction (or backward if
// negative).
func (c *Camera) MoveForward(distance float64) {
	c.Position = c.Position.Add(c.Direction().Scale(distance))
}

// Strafe moves the camera right (or left if negative).
func (c *Camera) Strafe(distance float64) {
	c.Position = c.Position.Add(c.Right().Scale(distance))
}

// MoveUp moves the camera along world up (or down if negative).
func (c *Camera) MoveUp(distance float64) {
	c.Position = c.Position.Add(math3d.Up().Scale(distance))
}

// Rotate turns the camera by the given angles (in radians). Pitch is
// clamped just short of straight up or down.
func (c *Camera) Rotate(deltaYaw, deltaPitch float64) {
	c.Yaw += deltaYaw
	c.Pitch += deltaPitch

	const maxPitch = math.Pi/2 - 0.01
	c.Pitch = max(-maxPitch, min(maxPitch, c.Pitch))
}

// LookAt points the camera at a target point.
func (c *Camera) LookAt(target math3d.Vec3) {
	dir := target.Sub(c.Position).Normalize()
	c.Pitch = math.Asin(dir.Y)
	c.Yaw = math.Atan2(dir.X, dir.Z)
}
