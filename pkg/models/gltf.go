package models

import (
	"bytes"
	"fmt"
	"image"
	"os"
	"path/filepath"

	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"
	"github.com/taigrr/scanline/internal/logging"
	"github.com/taigrr/scanline/pkg/math3d"
	"github.com/taigrr/scanline/pkg/render"
)

// LoadGLB loads a binary glTF (.glb) or glTF (.gltf) file.
//
// Triangle primitives of every mesh are merged into one Mesh. glTF front
// faces wind counter-clockwise; the pipeline treats clockwise as front
// facing, so each face's winding is reversed. The first embedded image
// that decodes becomes the mesh texture.
func LoadGLB(path string) (*Mesh, error) {
	doc, err := gltf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open gltf: %w", err)
	}

	mesh := NewMesh(filepath.Base(path))
	for _, m := range doc.Meshes {
		if err := loadPrimitives(doc, m, mesh); err != nil {
			return nil, fmt.Errorf("process mesh %q: %w", m.Name, err)
		}
	}

	if err := mesh.Validate(); err != nil {
		return nil, err
	}
	mesh.CalculateBounds()
	mesh.Texture = embeddedTexture(doc, filepath.Dir(path))

	return mesh, nil
}

// loadPrimitives appends the triangle primitives of m to mesh.
func loadPrimitives(doc *gltf.Document, m *gltf.Mesh, mesh *Mesh) error {
	for _, prim := range m.Primitives {
		if prim.Mode != gltf.PrimitiveTriangles && prim.Mode != 0 {
			logging.Logger().Warn("skipping non-triangle primitive",
				"mesh", m.Name, "mode", prim.Mode)
			continue
		}

		posIdx, ok := prim.Attributes[gltf.POSITION]
		if !ok {
			continue
		}
		positions, err := modeler.ReadPosition(doc, doc.Accessors[posIdx], nil)
		if err != nil {
			return fmt.Errorf("read positions: %w", err)
		}

		var uvs [][2]float32
		if uvIdx, ok := prim.Attributes[gltf.TEXCOORD_0]; ok {
			uvs, err = modeler.ReadTextureCoord(doc, doc.Accessors[uvIdx], nil)
			if err != nil {
				return fmt.Errorf("read uvs: %w", err)
			}
		}

		var indices []uint32
		if prim.Indices != nil {
			indices, err = modeler.ReadIndices(doc, doc.Accessors[*prim.Indices], nil)
			if err != nil {
				return fmt.Errorf("read indices: %w", err)
			}
		} else {
			// No indices, assume sequential triangles
			indices = make([]uint32, len(positions))
			for i := range indices {
				indices[i] = uint32(i)
			}
		}

		base := len(mesh.Vertices)
		for _, p := range positions {
			mesh.Vertices = append(mesh.Vertices, math3d.V3(float64(p[0]), float64(p[1]), float64(p[2])))
		}

		texCoord := func(i uint32) math3d.Vec2 {
			if int(i) >= len(uvs) {
				return math3d.Vec2{}
			}
			// glTF puts V=0 at the top of the image.
			return math3d.V2(float64(uvs[i][0]), 1-float64(uvs[i][1]))
		}

		for i := 0; i+2 < len(indices); i += 3 {
			a, b, c := indices[i], indices[i+2], indices[i+1] // reversed winding
			mesh.Faces = append(mesh.Faces, Face{
				A:     base + int(a),
				B:     base + int(b),
				C:     base + int(c),
				UV:    [3]math3d.Vec2{texCoord(a), texCoord(b), texCoord(c)},
				Color: DefaultFaceColor,
			})
		}
	}

	return nil
}

// embeddedTexture decodes the first usable image in doc. Images stored
// in external files are resolved relative to dir.
func embeddedTexture(doc *gltf.Document, dir string) *render.Texture {
	for i, img := range doc.Images {
		var data []byte
		switch {
		case img.BufferView != nil:
			bv := doc.BufferViews[*img.BufferView]
			buf := doc.Buffers[bv.Buffer]
			if buf.Data == nil {
				continue
			}
			data = buf.Data[bv.ByteOffset : bv.ByteOffset+bv.ByteLength]
		case img.URI != "":
			b, err := os.ReadFile(filepath.Join(dir, img.URI))
			if err != nil {
				logging.Logger().Warn("skipping gltf image", "image", i, "error", err)
				continue
			}
			data = b
		default:
			continue
		}

		decoded, _, err := image.Decode(bytes.NewReader(data))
		if err != nil {
			logging.Logger().Warn("skipping gltf image", "image", i, "error", err)
			continue
		}
		return render.TextureFromImage(decoded)
	}
	return nil
}
