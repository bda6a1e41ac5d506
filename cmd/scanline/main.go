// scanline - software 3D renderer
// Draws OBJ and GLB models in the terminal or to an image file with a
// CPU-only scanline pipeline.
//
// Viewer controls:
//
//	1-6         - Render mode (wire+vertex, wire, fill, fill+wire, textured, textured+wire)
//	C/X         - Backface culling on/off
//	W/S/A/D     - Move camera forward/back/left/right
//	E/Z         - Move camera up/down
//	Arrows      - Nudge the spin
//	Space       - Pause/resume spin
//	G           - Toggle dot grid
//	R           - Reset spin and camera
//	Q/Esc       - Quit
package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"syscall"

	"github.com/charmbracelet/fang"
	"github.com/spf13/cobra"
	"github.com/taigrr/scanline/internal/config"
	"github.com/taigrr/scanline/pkg/pipeline"
)

var version = "dev"

// options holds the persistent flags shared by every command.
type options struct {
	configPath string
	logPath    string
	debug      bool
	flags      config.Flags
}

func main() {
	err := fang.Execute(context.Background(), newRootCmd(),
		fang.WithVersion(version),
		fang.WithNotifySignal(os.Interrupt, syscall.SIGTERM),
	)
	if err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	root := &cobra.Command{
		Use:   "scanline",
		Short: "Software 3D renderer for the terminal",
		Long: "scanline renders OBJ and GLB models on the CPU, either live in the " +
			"terminal or as a single PNG or WebP image. Without a model it draws a cube.",
		SilenceUsage: true,
	}

	pf := root.PersistentFlags()
	pf.StringVar(&opts.configPath, "config", "", "JSON config file")
	pf.StringVar(&opts.logPath, "log", "", "write logs to this file")
	pf.BoolVar(&opts.debug, "debug", false, "log per-frame statistics")
	pf.IntVar(&opts.flags.Width, "width", 0, "output width in pixels")
	pf.IntVar(&opts.flags.Height, "height", 0, "output height in pixels")
	pf.Float64Var(&opts.flags.FOVDegrees, "fov", 0, "vertical field of view in degrees (default 60)")
	pf.StringVar(&opts.flags.RenderMode, "mode", "", "render mode: wire, wire-vertex, fill, fill-wire, textured, textured-wire")
	pf.BoolVar(&opts.flags.NoCull, "no-cull", false, "draw back faces")
	pf.BoolVar(&opts.flags.Dots, "dots", false, "draw a dot grid behind the model")
	pf.StringVar(&opts.flags.Texture, "texture", "", "texture image (PNG, JPEG or TGA)")

	root.AddCommand(newViewCmd(opts), newRenderCmd(opts))
	return root
}

// resolve loads the config file, applies flags and the optional model
// argument, and validates the result.
func (o *options) resolve(args []string) (config.Config, error) {
	var cfg config.Config
	if o.configPath != "" {
		var err error
		if cfg, err = config.Load(o.configPath); err != nil {
			return config.Config{}, err
		}
	}

	flags := o.flags
	if len(args) > 0 {
		flags.Model = args[0]
	}
	cfg.Resolve(flags)

	if err := cfg.Validate(); err != nil {
		return config.Config{}, err
	}
	return cfg, nil
}

// setupLogger installs a text logger writing to --log, or to fallback
// when no log file is given. A nil fallback keeps logging off. The
// returned function closes the log file.
func (o *options) setupLogger(fallback io.Writer) (func(), error) {
	w := fallback
	closeLog := func() {}

	if o.logPath != "" {
		f, err := os.OpenFile(o.logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, fmt.Errorf("open log: %w", err)
		}
		w = f
		closeLog = func() { f.Close() }
	}
	if w == nil {
		return closeLog, nil
	}

	level := slog.LevelInfo
	if o.debug {
		level = slog.LevelDebug
	}
	pipeline.SetLogger(slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})))
	return closeLog, nil
}
