package main

import (
	"context"
	"fmt"
	"time"

	uv "github.com/charmbracelet/ultraviolet"
	"github.com/spf13/cobra"
	"github.com/taigrr/scanline/internal/config"
	"github.com/taigrr/scanline/pkg/math3d"
	"github.com/taigrr/scanline/pkg/models"
	"github.com/taigrr/scanline/pkg/pipeline"
	"github.com/taigrr/scanline/pkg/render"
)

// Viewer input settings.
const (
	moveStep    = 0.25 // camera movement per key press
	nudgeAmount = 1.5  // spin velocity added by an arrow key, radians per second
)

// modeKeys maps number keys to render modes.
var modeKeys = []struct {
	key  string
	mode pipeline.RenderMode
}{
	{"1", pipeline.ModeWireVertex},
	{"2", pipeline.ModeWire},
	{"3", pipeline.ModeFill},
	{"4", pipeline.ModeFillWire},
	{"5", pipeline.ModeTextured},
	{"6", pipeline.ModeTexturedWire},
}

func newViewCmd(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "view [model]",
		Short: "View a model in the terminal",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			// Logs go to --log only; anything else would tear the screen.
			closeLog, err := opts.setupLogger(nil)
			if err != nil {
				return err
			}
			defer closeLog()

			cfg, err := opts.resolve(args)
			if err != nil {
				return err
			}
			return runView(cmd.Context(), &cfg)
		},
	}

	cmd.Flags().IntVar(&opts.flags.FPS, "fps", 0, "target frames per second (default 30)")
	return cmd
}

// viewport returns the screen area the model is drawn into, leaving the
// last row for the status line, and the framebuffer size that fills it.
func viewport(cfg *config.Config, cols, rows int) (uv.Rectangle, int, int) {
	area := uv.Rect(0, 0, cols, max(rows-1, 1))
	w, h := cfg.Size(area.Dx(), area.Dy()*2)
	return area, w, h
}

// viewer is the interactive state of the view command.
type viewer struct {
	renderer *pipeline.Renderer
	mesh     *models.Mesh
	spinner  *pipeline.Spinner
	fps      fpsCounter
	quit     bool

	// Camera pose restored by reset.
	homePosition math3d.Vec3
	homeYaw      float64
	homePitch    float64
}

func runView(ctx context.Context, cfg *config.Config) error {
	mesh, err := loadMesh(cfg)
	if err != nil {
		return err
	}
	scene := pipeline.NewScene(mesh)
	defer scene.Close()

	// Create terminal
	term := uv.DefaultTerminal()

	width, height, err := term.GetSize()
	if err != nil {
		return fmt.Errorf("get terminal size: %w", err)
	}

	if err := term.Start(); err != nil {
		return fmt.Errorf("start terminal: %w", err)
	}

	term.EnterAltScreen()
	term.HideCursor()
	term.Resize(width, height)

	cleanup := func() {
		term.ExitAltScreen()
		term.ShowCursor()
		term.Shutdown(context.Background())
	}
	defer cleanup()

	area, fbWidth, fbHeight := viewport(cfg, width, height)
	v := &viewer{
		renderer: pipeline.NewRenderer(fbWidth, fbHeight),
		mesh:     mesh,
		spinner:  pipeline.NewSpinner(cfg.FPS, cfg.SpinRate()),
		fps:      newFPSCounter(),
	}
	if err := cfg.Apply(v.renderer); err != nil {
		return err
	}
	if cfg.Paused {
		v.spinner.TogglePause()
		v.spinner.Reset()
	}
	v.homePosition = v.renderer.Camera.Position
	v.homeYaw, v.homePitch = v.renderer.Camera.Yaw, v.renderer.Camera.Pitch
	presenter := &render.TerminalPresenter{Screen: term, Area: area}
	base := mesh.Rotation

	targetDuration := time.Second / time.Duration(cfg.FPS)
	events := term.Events()

	for !v.quit {
		select {
		case <-ctx.Done():
			return nil
		default:
		}

		now := time.Now()

		// Handle pending input
	drain:
		for {
			select {
			case ev, ok := <-events:
				if !ok {
					events = nil
					break drain
				}
				if size, ok := ev.(uv.WindowSizeEvent); ok {
					width, height = size.Width, size.Height
					term.Erase()
					term.Resize(width, height)
					area, fbWidth, fbHeight = viewport(cfg, width, height)
					presenter.Area = area
					v.renderer.Resize(fbWidth, fbHeight)
					continue
				}
				v.handleEvent(ev)
			default:
				break drain
			}
		}

		v.spinner.Update()
		v.spinner.Apply(mesh, base)

		stats := v.renderer.RenderFrame(scene)
		v.fps.update(now)
		drawStatus(term, height-1, width, v.status(stats))

		if err := presenter.Present(v.renderer.Framebuffer()); err != nil {
			return fmt.Errorf("present: %w", err)
		}

		// Frame timing
		elapsed := time.Since(now)
		if elapsed < targetDuration {
			time.Sleep(targetDuration - elapsed)
		}
	}
	return nil
}

// handleEvent applies one key press to the viewer state.
func (v *viewer) handleEvent(ev uv.Event) {
	key, ok := ev.(uv.KeyPressEvent)
	if !ok {
		return
	}

	r := v.renderer
	for _, mk := range modeKeys {
		if key.MatchString(mk.key) {
			r.Mode = mk.mode
			return
		}
	}

	switch {
	case key.MatchString("escape", "ctrl+c", "q"):
		v.quit = true
	case key.MatchString("c"):
		r.Cull = pipeline.CullBackface
	case key.MatchString("x"):
		r.Cull = pipeline.CullNone
	case key.MatchString("space"):
		v.spinner.TogglePause()
	case key.MatchString("g"):
		r.Dots = !r.Dots
	case key.MatchString("r"):
		v.spinner.Reset()
		r.Camera.Position = v.homePosition
		r.Camera.Yaw, r.Camera.Pitch = v.homeYaw, v.homePitch
	case key.MatchString("w"):
		r.Camera.MoveForward(moveStep)
	case key.MatchString("s"):
		r.Camera.MoveForward(-moveStep)
	case key.MatchString("a"):
		r.Camera.Strafe(-moveStep)
	case key.MatchString("d"):
		r.Camera.Strafe(moveStep)
	case key.MatchString("e"):
		r.Camera.MoveUp(moveStep)
	case key.MatchString("z"):
		r.Camera.MoveUp(-moveStep)
	case key.MatchString("up"):
		v.spinner.Nudge(-nudgeAmount, 0, 0)
	case key.MatchString("down"):
		v.spinner.Nudge(nudgeAmount, 0, 0)
	case key.MatchString("left"):
		v.spinner.Nudge(0, -nudgeAmount, 0)
	case key.MatchString("right"):
		v.spinner.Nudge(0, nudgeAmount, 0)
	}
}

// status formats the status line for the last frame.
func (v *viewer) status(stats pipeline.Stats) string {
	paused := ""
	if v.spinner.Paused {
		paused = " | paused"
	}
	return fmt.Sprintf(" %s | %s | cull %s | %d tris %d culled %d clipped | %.0f FPS%s",
		v.mesh.Name, v.renderer.Mode, v.renderer.Cull,
		stats.Triangles, stats.Culled, stats.Clipped, v.fps.value, paused)
}

// drawStatus writes text into row, padding the rest of the row with
// blanks.
func drawStatus(scr uv.Screen, row, width int, text string) {
	style := uv.Style{Fg: render.ColorWhite, Bg: render.RGB(30, 30, 40)}
	runes := []rune(text)
	for col := range width {
		content := " "
		if col < len(runes) {
			content = string(runes[col])
		}
		scr.SetCell(col, row, &uv.Cell{Content: content, Width: 1, Style: style})
	}
}

// fpsCounter measures frames per second over one-second windows.
type fpsCounter struct {
	value  float64
	frames int
	since  time.Time
}

func newFPSCounter() fpsCounter {
	return fpsCounter{since: time.Now()}
}

// update counts a frame drawn at now.
func (c *fpsCounter) update(now time.Time) {
	c.frames++
	elapsed := now.Sub(c.since)
	if elapsed >= time.Second {
		c.value = float64(c.frames) / elapsed.Seconds()
		c.frames = 0
		c.since = now
	}
}
