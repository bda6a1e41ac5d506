package models

import (
	"bufio"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/taigrr/scanline/internal/logging"
	"github.com/taigrr/scanline/pkg/math3d"
)

// LoadOBJ loads a Wavefront OBJ file.
func LoadOBJ(path string) (*Mesh, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open obj: %w", err)
	}
	defer f.Close()

	return ParseOBJ(f, filepath.Base(path))
}

// ParseOBJ reads OBJ geometry from r.
//
// Supported records are v, vt and f. Face corners may be written as v,
// v/vt, v//vn or v/vt/vn, indices may be negative (relative to the end of
// the list so far), and polygons with more than three corners are split
// into a triangle fan. Normals, groups and materials are ignored.
func ParseOBJ(r io.Reader, name string) (*Mesh, error) {
	mesh := NewMesh(name)
	var texCoords []math3d.Vec2

	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 || strings.HasPrefix(fields[0], "#") {
			continue
		}

		switch fields[0] {
		case "v":
			v, err := parseFloats(fields[1:], 3)
			if err != nil {
				return nil, fmt.Errorf("obj %s line %d: vertex: %w", name, lineNo, err)
			}
			mesh.Vertices = append(mesh.Vertices, math3d.V3(v[0], v[1], v[2]))

		case "vt":
			v, err := parseFloats(fields[1:], 1)
			if err != nil {
				return nil, fmt.Errorf("obj %s line %d: texture coordinate: %w", name, lineNo, err)
			}
			texCoords = append(texCoords, math3d.V2(v[0], v[1]))

		case "f":
			faces, err := parseFace(fields[1:], len(mesh.Vertices), texCoords)
			if err != nil {
				return nil, fmt.Errorf("obj %s line %d: face: %w", name, lineNo, err)
			}
			mesh.Faces = append(mesh.Faces, faces...)

		case "vn", "vp", "o", "g", "s", "usemtl", "mtllib", "l", "p":
			// Not used by the pipeline.

		default:
			logging.Logger().Warn("skipping unknown obj record",
				"file", name, "line", lineNo, "record", fields[0])
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read obj %s: %w", name, err)
	}

	if err := mesh.Validate(); err != nil {
		return nil, err
	}
	mesh.CalculateBounds()
	return mesh, nil
}

// parseFloats parses up to three numbers, requiring at least required.
// Missing trailing values are zero.
func parseFloats(fields []string, required int) ([3]float64, error) {
	var out [3]float64
	if len(fields) < required {
		return out, fmt.Errorf("want at least %d values, got %d", required, len(fields))
	}
	for i := 0; i < len(fields) && i < 3; i++ {
		v, err := strconv.ParseFloat(fields[i], 64)
		if err != nil {
			return out, err
		}
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return out, fmt.Errorf("value %q: %w", fields[i], ErrNotFinite)
		}
		out[i] = v
	}
	return out, nil
}

// parseFace turns one f record into triangles.
func parseFace(corners []string, numVertices int, texCoords []math3d.Vec2) ([]Face, error) {
	if len(corners) < 3 {
		return nil, fmt.Errorf("want at least 3 corners, got %d", len(corners))
	}

	idx := make([]int, len(corners))
	uvs := make([]math3d.Vec2, len(corners))
	for i, c := range corners {
		parts := strings.Split(c, "/")

		v, err := resolveIndex(parts[0], numVertices)
		if err != nil {
			return nil, fmt.Errorf("vertex %q: %w", c, err)
		}
		idx[i] = v

		if len(parts) > 1 && parts[1] != "" {
			t, err := resolveIndex(parts[1], len(texCoords))
			if err != nil {
				return nil, fmt.Errorf("texture coordinate %q: %w", c, err)
			}
			uvs[i] = texCoords[t]
		}
	}

	faces := make([]Face, 0, len(corners)-2)
	for i := 1; i+1 < len(corners); i++ {
		faces = append(faces, Face{
			A: idx[0], B: idx[i], C: idx[i+1],
			UV:    [3]math3d.Vec2{uvs[0], uvs[i], uvs[i+1]},
			Color: DefaultFaceColor,
		})
	}
	return faces, nil
}

// resolveIndex converts a 1-based or negative OBJ index into a 0-based
// index into a list of n elements.
func resolveIndex(s string, n int) (int, error) {
	i, err := strconv.Atoi(s)
	if err != nil {
		return 0, err
	}
	switch {
	case i > 0:
		i--
	case i < 0:
		i += n
	default:
		return 0, fmt.Errorf("index 0: %w", ErrIndexOutOfRange)
	}
	if i < 0 || i >= n {
		return 0, fmt.Errorf("index %s of %d: %w", s, n, ErrIndexOutOfRange)
	}
	return i, nil
}
