// Package models provides the mesh representation consumed by the
// pipeline and loaders for OBJ and binary glTF files.
package models

import (
	"errors"
	"fmt"
	"image/color"
	"math"

	"github.com/taigrr/scanline/pkg/math3d"
	"github.com/taigrr/scanline/pkg/render"
)

var (
	// ErrIndexOutOfRange is returned when a face refers to a vertex or
	// texture coordinate that does not exist.
	ErrIndexOutOfRange = errors.New("index out of range")

	// ErrNoGeometry is returned for meshes without vertices or faces.
	ErrNoGeometry = errors.New("mesh has no geometry")

	// ErrNotFinite is returned for NaN or infinite coordinates.
	ErrNotFinite = errors.New("value is not finite")
)

// DefaultFaceColor is the base color of faces that do not specify one.
var DefaultFaceColor = render.ColorWhite

// Face is a triangle given by three 0-based vertex indices, with one
// texture coordinate per corner and a flat base color.
type Face struct {
	A, B, C int
	UV      [3]math3d.Vec2
	Color   color.RGBA
}

// Indices returns the face's vertex indices in order.
func (f Face) Indices() [3]int {
	return [3]int{f.A, f.B, f.C}
}

// Mesh is an indexed triangle mesh with an instance transform.
type Mesh struct {
	Name     string
	Vertices []math3d.Vec3
	Faces    []Face

	// Texture is owned by the mesh; nil for untextured meshes.
	Texture *render.Texture

	// Instance transform, applied scale first, then rotation about X, Y
	// and Z (radians), then translation.
	Scale       math3d.Vec3
	Rotation    math3d.Vec3
	Translation math3d.Vec3

	// Bounding box (calculated on load)
	BoundsMin math3d.Vec3
	BoundsMax math3d.Vec3
}

// NewMesh creates an empty mesh with a unit scale.
func NewMesh(name string) *Mesh {
	return &Mesh{
		Name:     name,
		Vertices: make([]math3d.Vec3, 0),
		Faces:    make([]Face, 0),
		Scale:    math3d.V3(1, 1, 1),
	}
}

// World returns the mesh's object-to-world matrix.
func (m *Mesh) World() math3d.Mat4 {
	return math3d.World(m.Scale, m.Rotation, m.Translation)
}

// Validate checks that the mesh has geometry and that every face index
// resolves into Vertices.
func (m *Mesh) Validate() error {
	if len(m.Vertices) == 0 || len(m.Faces) == 0 {
		return fmt.Errorf("mesh %q: %w", m.Name, ErrNoGeometry)
	}
	for i, f := range m.Faces {
		if !m.FaceInRange(f) {
			return fmt.Errorf("mesh %q: face %d %v: %w", m.Name, i, f.Indices(), ErrIndexOutOfRange)
		}
	}
	return nil
}

// FaceInRange reports whether all three indices of f resolve into
// Vertices.
func (m *Mesh) FaceInRange(f Face) bool {
	n := len(m.Vertices)
	for _, idx := range f.Indices() {
		if idx < 0 || idx >= n {
			return false
		}
	}
	return true
}

// CalculateBounds computes the axis-aligned bounding box.
func (m *Mesh) CalculateBounds() {
	if len(m.Vertices) == 0 {
		return
	}

	m.BoundsMin = m.Vertices[0]
	m.BoundsMax = m.Vertices[0]

	for _, v := range m.Vertices[1:] {
		m.BoundsMin = m.BoundsMin.Min(v)
		m.BoundsMax = m.BoundsMax.Max(v)
	}
}

// Center returns the center of the bounding box.
func (m *Mesh) Center() math3d.Vec3 {
	return m.BoundsMin.Add(m.BoundsMax).Scale(0.5)
}

// Size returns the dimensions of the bounding box.
func (m *Mesh) Size() math3d.Vec3 {
	return m.BoundsMax.Sub(m.BoundsMin)
}

// Fit moves the mesh's vertices so the bounding box is centered on the
// origin and its largest dimension equals size. Flat or empty meshes are
// only recentered.
func (m *Mesh) Fit(size float64) {
	m.CalculateBounds()
	center := m.Center()
	s := m.Size()

	transform := math3d.Translate(center.Negate())
	if maxDim := math.Max(s.X, math.Max(s.Y, s.Z)); maxDim > 0 {
		k := size / maxDim
		transform = math3d.Scale(math3d.V3(k, k, k)).Mul(transform)
	}
	m.Transform(transform)
}

// Transform applies a transformation matrix to all vertices.
func (m *Mesh) Transform(mat math3d.Mat4) {
	for i := range m.Vertices {
		m.Vertices[i] = mat.MulVec3(m.Vertices[i])
	}
	m.CalculateBounds()
}

// TriangleCount returns the number of triangles.
func (m *Mesh) TriangleCount() int {
	return len(m.Faces)
}

// VertexCount returns the number of vertices.
func (m *Mesh) VertexCount() int {
	return len(m.Vertices)
}

// Clone creates a deep copy of the mesh geometry. The texture is shared;
// textures are never written after load.
func (m *Mesh) Clone() *Mesh {
	clone := *m
	clone.Vertices = make([]math3d.Vec3, len(m.Vertices))
	clone.Faces = make([]Face, len(m.Faces))
	copy(clone.Vertices, m.Vertices)
	copy(clone.Faces, m.Faces)
	return &clone
}

// Close releases the mesh's geometry and texture.
func (m *Mesh) Close() {
	m.Vertices = nil
	m.Faces = nil
	m.Texture = nil
}
