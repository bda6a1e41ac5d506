package pipeline

import "github.com/taigrr/scanline/pkg/models"

// Scene is the ordered list of meshes drawn each frame.
type Scene struct {
	Meshes []*models.Mesh
}

// NewScene creates a scene holding meshes.
func NewScene(meshes ...*models.Mesh) *Scene {
	return &Scene{Meshes: meshes}
}

// Add appends a mesh to the scene.
func (s *Scene) Add(m *models.Mesh) {
	s.Meshes = append(s.Meshes, m)
}

// Len returns the number of meshes.
func (s *Scene) Len() int {
	return len(s.Meshes)
}

// Close releases every mesh and empties the scene.
func (s *Scene) Close() {
	for _, m := range s.Meshes {
		m.Close()
	}
	s.Meshes = nil
}
