package pipeline

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownMode is returned when parsing an unrecognized mode name.
var ErrUnknownMode = errors.New("unknown mode")

// RenderMode selects what is drawn for each visible triangle.
type RenderMode int

const (
	ModeWire         RenderMode = iota // Edges only
	ModeWireVertex                     // Edges plus a marker on every corner
	ModeFill                           // Flat shaded fill
	ModeFillWire                       // Flat shaded fill with edges
	ModeTextured                       // Texture mapped fill
	ModeTexturedWire                   // Texture mapped fill with edges
)

var renderModeNames = [...]string{
	ModeWire:         "wire",
	ModeWireVertex:   "wire-vertex",
	ModeFill:         "fill",
	ModeFillWire:     "fill-wire",
	ModeTextured:     "textured",
	ModeTexturedWire: "textured-wire",
}

func (m RenderMode) String() string {
	if m < 0 || int(m) >= len(renderModeNames) {
		return fmt.Sprintf("RenderMode(%d)", int(m))
	}
	return renderModeNames[m]
}

// ParseRenderMode returns the mode with the given name.
func ParseRenderMode(s string) (RenderMode, error) {
	for i, name := range renderModeNames {
		if strings.EqualFold(s, name) {
			return RenderMode(i), nil
		}
	}
	return 0, fmt.Errorf("render mode %q: %w", s, ErrUnknownMode)
}

// Fills reports whether the mode fills triangles.
func (m RenderMode) Fills() bool {
	return m == ModeFill || m == ModeFillWire || m.Textured()
}

// Textured reports whether the mode samples mesh textures.
func (m RenderMode) Textured() bool {
	return m == ModeTextured || m == ModeTexturedWire
}

// Wire reports whether the mode draws triangle edges.
func (m RenderMode) Wire() bool {
	return m == ModeWire || m == ModeWireVertex || m == ModeFillWire || m == ModeTexturedWire
}

// Vertices reports whether the mode marks triangle corners.
func (m RenderMode) Vertices() bool {
	return m == ModeWireVertex
}

// CullMode selects which faces are discarded before clipping.
type CullMode int

const (
	CullBackface CullMode = iota // Drop faces pointing away from the camera
	CullNone                     // Draw every face
)

func (c CullMode) String() string {
	switch c {
	case CullBackface:
		return "backface"
	case CullNone:
		return "none"
	default:
		return fmt.Sprintf("CullMode(%d)", int(c))
	}
}

// ParseCullMode returns the cull mode with the given name.
func ParseCullMode(s string) (CullMode, error) {
	switch strings.ToLower(s) {
	case "backface":
		return CullBackface, nil
	case "none":
		return CullNone, nil
	default:
		return 0, fmt.Errorf("cull mode %q: %w", s, ErrUnknownMode)
	}
}
