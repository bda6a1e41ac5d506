// Package config loads viewer settings from a JSON file and merges them
// with command-line flags.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"os"

	"github.com/taigrr/scanline/pkg/math3d"
	"github.com/taigrr/scanline/pkg/models"
	"github.com/taigrr/scanline/pkg/pipeline"
	"github.com/taigrr/scanline/pkg/render"
)

// ErrInvalid is returned by Validate.
var ErrInvalid = errors.New("invalid config")

// Defaults applied by Resolve.
const (
	DefaultWidth       = 320
	DefaultHeight      = 240
	DefaultFOVDegrees  = 60
	DefaultNear        = 0.1
	DefaultFar         = 100
	DefaultRenderMode  = "fill-wire"
	DefaultCull        = "backface"
	DefaultAmbient     = 0.1
	DefaultFPS         = 30
	DefaultSupersample = 1
)

// DefaultSpin is the automatic rotation rate of the viewer, in radians per
// second about X, Y and Z.
var DefaultSpin = [3]float64{0.3, 0.3, 0.3}

// DefaultCamera is where the camera sits when the file does not say.
// Models are fitted around the origin, so this frames them.
var DefaultCamera = [3]float64{0, 0, -5}

// Config holds the scene and render settings.
type Config struct {
	// Output size in pixels. Zero means the command picks: the terminal
	// size for the viewer, DefaultWidth x DefaultHeight otherwise.
	Width       int `json:"width"`
	Height      int `json:"height"`
	Supersample int `json:"supersample"`
	FPS         int `json:"fps"`

	// Camera
	FOVDegrees float64     `json:"fov_degrees"`
	Near       float64     `json:"near"`
	Far        float64     `json:"far"`
	Camera     *[3]float64 `json:"camera"`

	// Drawing
	RenderMode string     `json:"render_mode"`
	Cull       string     `json:"cull"`
	Light      [3]float64 `json:"light"`
	Ambient    *float64   `json:"ambient"`
	Background [3]uint8   `json:"background"`
	Dots       bool       `json:"dots"`

	// Model and its instance transform. Rotation is in radians; Spin is
	// the automatic rotation in radians per second.
	Model       string     `json:"model"`
	Texture     string     `json:"texture"`
	Scale       [3]float64 `json:"scale"`
	Rotation    [3]float64 `json:"rotation"`
	Translation [3]float64 `json:"translation"`
	Spin        [3]float64 `json:"spin"`
	Paused      bool       `json:"paused"`

	Output string `json:"output"`
}

// Flags holds CLI flag values that override config file settings.
type Flags struct {
	Width       int
	Height      int
	FOVDegrees  float64
	RenderMode  string
	NoCull      bool
	Dots        bool
	Texture     string
	Model       string
	Output      string
	FPS         int
	Supersample int
}

// Load reads a JSON config file and returns Config.
// Fields not set in the file keep their zero values.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: read %s: %w", path, err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("config: parse %s: %w", path, err)
	}

	return cfg, nil
}

// Resolve applies CLI overrides and fills in any empty fields with
// defaults. CLI flags take priority when non-zero/non-empty.
func (c *Config) Resolve(flags Flags) {
	// CLI flags override config file
	if flags.Width > 0 {
		c.Width = flags.Width
	}
	if flags.Height > 0 {
		c.Height = flags.Height
	}
	if flags.FOVDegrees > 0 {
		c.FOVDegrees = flags.FOVDegrees
	}
	if flags.RenderMode != "" {
		c.RenderMode = flags.RenderMode
	}
	if flags.NoCull {
		c.Cull = pipeline.CullNone.String()
	}
	if flags.Dots {
		c.Dots = true
	}
	if flags.Texture != "" {
		c.Texture = flags.Texture
	}
	if flags.Model != "" {
		c.Model = flags.Model
	}
	if flags.Output != "" {
		c.Output = flags.Output
	}
	if flags.FPS > 0 {
		c.FPS = flags.FPS
	}
	if flags.Supersample > 0 {
		c.Supersample = flags.Supersample
	}

	// Defaults for render settings
	if c.FOVDegrees == 0 {
		c.FOVDegrees = DefaultFOVDegrees
	}
	if c.Near == 0 {
		c.Near = DefaultNear
	}
	if c.Far == 0 {
		c.Far = DefaultFar
	}
	if c.Camera == nil {
		cam := DefaultCamera
		c.Camera = &cam
	}
	if c.RenderMode == "" {
		c.RenderMode = DefaultRenderMode
	}
	if c.Cull == "" {
		c.Cull = DefaultCull
	}
	if c.Light == [3]float64{} {
		c.Light = [3]float64{0, 0, 1}
	}
	if c.Ambient == nil {
		a := DefaultAmbient
		c.Ambient = &a
	}
	if c.Scale == [3]float64{} {
		c.Scale = [3]float64{1, 1, 1}
	}
	if c.Spin == [3]float64{} {
		c.Spin = DefaultSpin
	}
	if c.FPS == 0 {
		c.FPS = DefaultFPS
	}
	if c.Supersample == 0 {
		c.Supersample = DefaultSupersample
	}
}

// Validate reports the first setting that cannot be rendered.
func (c *Config) Validate() error {
	switch {
	case c.Width < 0 || c.Height < 0:
		return fmt.Errorf("config: size %dx%d: %w", c.Width, c.Height, ErrInvalid)
	case c.FOVDegrees <= 0 || c.FOVDegrees >= 180:
		return fmt.Errorf("config: fov %v outside (0, 180): %w", c.FOVDegrees, ErrInvalid)
	case c.Near <= 0:
		return fmt.Errorf("config: near %v must be positive: %w", c.Near, ErrInvalid)
	case c.Far <= c.Near:
		return fmt.Errorf("config: far %v must exceed near %v: %w", c.Far, c.Near, ErrInvalid)
	case c.FPS < 1:
		return fmt.Errorf("config: fps %d: %w", c.FPS, ErrInvalid)
	case c.Supersample < 1:
		return fmt.Errorf("config: supersample %d: %w", c.Supersample, ErrInvalid)
	}
	if _, err := pipeline.ParseRenderMode(c.RenderMode); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if _, err := pipeline.ParseCullMode(c.Cull); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	return nil
}

// Size returns the configured output size, falling back to w x h for
// unset dimensions.
func (c *Config) Size(w, h int) (int, int) {
	if c.Width > 0 {
		w = c.Width
	}
	if c.Height > 0 {
		h = c.Height
	}
	return w, h
}

// FOV returns the vertical field of view in radians.
func (c *Config) FOV() float64 {
	return c.FOVDegrees * math.Pi / 180
}

// Apply copies the camera, light and drawing settings onto r and points
// the camera at the origin. Call it on a resolved config.
func (c *Config) Apply(r *pipeline.Renderer) error {
	mode, err := pipeline.ParseRenderMode(c.RenderMode)
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}
	cull, err := pipeline.ParseCullMode(c.Cull)
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}

	r.Mode = mode
	r.Cull = cull
	r.Dots = c.Dots
	r.Background = render.RGB(c.Background[0], c.Background[1], c.Background[2])
	r.Light = pipeline.Light{Direction: vec(c.Light), Ambient: DefaultAmbient}
	if c.Ambient != nil {
		r.Light.Ambient = *c.Ambient
	}

	r.Camera.SetFOV(c.FOV())
	r.Camera.SetClipPlanes(c.Near, c.Far)
	r.Camera.Position = vec(DefaultCamera)
	if c.Camera != nil {
		r.Camera.Position = vec(*c.Camera)
	}
	if r.Camera.Position != math3d.Zero3() {
		r.Camera.LookAt(math3d.Zero3())
	}
	return nil
}

// Place sets m's instance transform.
func (c *Config) Place(m *models.Mesh) {
	m.Scale = vec(c.Scale)
	m.Rotation = vec(c.Rotation)
	m.Translation = vec(c.Translation)
}

// SpinRate returns the automatic rotation rate in radians per second.
func (c *Config) SpinRate() math3d.Vec3 {
	return vec(c.Spin)
}

func vec(v [3]float64) math3d.Vec3 {
	return math3d.V3(v[0], v[1], v[2])
}
