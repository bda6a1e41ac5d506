package main

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/taigrr/scanline/internal/config"
	"github.com/taigrr/scanline/pkg/models"
	"github.com/taigrr/scanline/pkg/render"
)

// modelSize is the edge length loaded models are fitted to.
const modelSize = 2.0

// loadMesh loads cfg.Model, or the built-in cube when no model is set,
// and applies the configured texture and instance transform.
func loadMesh(cfg *config.Config) (*models.Mesh, error) {
	var (
		mesh *models.Mesh
		err  error
	)

	ext := strings.ToLower(filepath.Ext(cfg.Model))
	switch {
	case cfg.Model == "":
		mesh = models.Cube()
	case ext == ".obj":
		mesh, err = models.LoadOBJ(cfg.Model)
	case ext == ".glb" || ext == ".gltf":
		mesh, err = models.LoadGLB(cfg.Model)
	default:
		return nil, fmt.Errorf("unsupported format: %s (use .obj or .glb)", ext)
	}
	if err != nil {
		return nil, fmt.Errorf("load model: %w", err)
	}

	if cfg.Model != "" {
		mesh.Fit(modelSize)
	}

	if cfg.Texture != "" {
		tex, err := render.LoadTexture(cfg.Texture)
		if err != nil {
			return nil, fmt.Errorf("load texture: %w", err)
		}
		mesh.Texture = tex
	}

	// Generate fallback texture if none
	if mesh.Texture == nil {
		mesh.Texture = render.NewCheckerTexture(64, 64, 8, render.RGB(200, 200, 200), render.RGB(100, 100, 100))
	}

	cfg.Place(mesh)
	return mesh, nil
}
