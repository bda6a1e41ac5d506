package pipeline

import (
	"github.com/charmbracelet/harmonica"
	"github.com/taigrr/scanline/pkg/math3d"
	"github.com/taigrr/scanline/pkg/models"
)

// Spring settings for spin velocity: moderate speed, critically damped
// so the velocity settles without overshoot.
const (
	spinFrequency = 4.0
	spinDamping   = 1.0
)

// SpinAxis is the angle and angular velocity (radians per second) of one
// rotation axis.
type SpinAxis struct {
	Angle    float64
	Velocity float64

	spring harmonica.Spring
	accel  float64 // spring velocity of Velocity itself
}

func newSpinAxis(fps int) SpinAxis {
	return SpinAxis{spring: harmonica.NewSpring(harmonica.FPS(fps), spinFrequency, spinDamping)}
}

// update advances the angle by one frame and eases the velocity toward
// target.
func (a *SpinAxis) update(dt, target float64) {
	a.Angle += a.Velocity * dt
	a.Velocity, a.accel = a.spring.Update(a.Velocity, a.accel, target)
}

// Spinner animates a mesh rotation at a steady rate. Nudges and pausing
// change the rate smoothly instead of abruptly.
type Spinner struct {
	X, Y, Z SpinAxis

	// Rate is the steady angular velocity per axis, in radians per second.
	Rate   math3d.Vec3
	Paused bool

	fps int
}

// NewSpinner creates a spinner stepping fps times per second and already
// turning at rate.
func NewSpinner(fps int, rate math3d.Vec3) *Spinner {
	s := &Spinner{Rate: rate, fps: max(fps, 1)}
	s.Reset()
	return s
}

// Update advances the rotation by one frame.
func (s *Spinner) Update() {
	target := s.Rate
	if s.Paused {
		target = math3d.Zero3()
	}
	dt := 1 / float64(s.fps)
	s.X.update(dt, target.X)
	s.Y.update(dt, target.Y)
	s.Z.update(dt, target.Z)
}

// Nudge adds angular velocity that decays back to the steady rate.
func (s *Spinner) Nudge(x, y, z float64) {
	s.X.Velocity += x
	s.Y.Velocity += y
	s.Z.Velocity += z
}

// TogglePause stops or resumes the steady rotation.
func (s *Spinner) TogglePause() {
	s.Paused = !s.Paused
}

// Reset returns every axis to zero angle at the steady rate.
func (s *Spinner) Reset() {
	s.X, s.Y, s.Z = newSpinAxis(s.fps), newSpinAxis(s.fps), newSpinAxis(s.fps)
	if !s.Paused {
		s.X.Velocity, s.Y.Velocity, s.Z.Velocity = s.Rate.X, s.Rate.Y, s.Rate.Z
	}
}

// Rotation returns the current angles.
func (s *Spinner) Rotation() math3d.Vec3 {
	return math3d.V3(s.X.Angle, s.Y.Angle, s.Z.Angle)
}

// Apply adds the current angles to base and stores them as m's rotation.
func (s *Spinner) Apply(m *models.Mesh, base math3d.Vec3) {
	m.Rotation = base.Add(s.Rotation())
}
