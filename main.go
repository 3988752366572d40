package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"slices"
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/gdamore/tcell/v2"
	"github.com/spf13/cobra"

	"github.com/pthm-cable/starfield/backdrop"
	"github.com/pthm-cable/starfield/config"
	"github.com/pthm-cable/starfield/hosts"
	"github.com/pthm-cable/starfield/input"
	"github.com/pthm-cable/starfield/logging"
	"github.com/pthm-cable/starfield/renderer"
	"github.com/pthm-cable/starfield/scheduler"
	"github.com/pthm-cable/starfield/telemetry"
)

// options holds the command line flags shared by every mode.
type options struct {
	configPath    string
	preset        string
	reducedMotion bool
	seed          int64
	logLevel      string
	logFile       string
	outputDir     string
	maxFrames     int
	orbit         bool
}

func main() {
	var opts options

	root := &cobra.Command{
		Use:   "starfield",
		Short: "Pointer-reactive particle background",
		Long: "Starfield animates a field of drifting particles that react to the pointer.\n" +
			"Without a subcommand it opens a window.",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWindow(cmd.Context(), &opts)
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&opts.configPath, "config", "", "Path to config.yaml (empty = use defaults)")
	flags.StringVar(&opts.preset, "preset", "", fmt.Sprintf("Built-in preset to start from %v", config.Presets()))
	flags.BoolVar(&opts.reducedMotion, "reduced-motion", false, "Draw a static background instead of animating")
	flags.Int64Var(&opts.seed, "seed", 0, "RNG seed (0 = time-based)")
	flags.StringVar(&opts.logLevel, "log-level", "", "Log level override (debug, info, warn, error)")
	flags.StringVar(&opts.logFile, "log-file", "", "Also write logs to this file, rotated by size")
	flags.StringVar(&opts.outputDir, "output-dir", "", "Output directory for CSV telemetry and config snapshot")
	flags.IntVar(&opts.maxFrames, "max-frames", 0, "Stop after N frames (0 = unlimited)")

	term := &cobra.Command{
		Use:   "term",
		Short: "Animate the field in the terminal",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTerminal(cmd.Context(), &opts)
		},
	}

	headless := &cobra.Command{
		Use:   "headless",
		Short: "Run the simulation on a synthetic clock without drawing",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runHeadless(cmd.Context(), &opts)
		},
	}
	headless.Flags().BoolVar(&opts.orbit, "orbit", false, "Circle a synthetic pointer around the center")

	root.AddCommand(term, headless)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	if err := root.ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

// setup loads configuration and builds the logger. A broken config file is
// logged and replaced by the defaults.
func setup(opts *options, console io.Writer) (*config.Config, *slog.Logger, io.Closer) {
	cfg, loadErr := config.LoadPreset(opts.preset, opts.configPath)
	if loadErr != nil {
		cfg = config.Default()
	}
	opts.apply(cfg)

	logger, closer := logging.New(logging.FromConfig(cfg.Logging, console))
	slog.SetDefault(logger)
	if loadErr != nil {
		logger.Error("failed to load config, using defaults", "error", loadErr, "path", opts.configPath, "preset", opts.preset)
	}
	return cfg, logger, closer
}

// apply writes flag overrides into cfg and sanitizes them like any other
// value, keeping the adjustments made when cfg was loaded.
func (o *options) apply(cfg *config.Config) {
	if o.reducedMotion {
		cfg.Accessibility.ReducedMotion = true
	}
	if o.logLevel != "" {
		cfg.Logging.Level = o.logLevel
	}
	if o.logFile != "" {
		cfg.Logging.File = o.logFile
	}
	loaded := slices.Clip(cfg.Derived.Adjustments)
	cfg.Derived.Adjustments = append(loaded, cfg.Refresh()...)
}

func seedFor(opts *options) int64 {
	if opts.seed != 0 {
		return opts.seed
	}
	return time.Now().UnixNano()
}

func openOutput(dir string, logger *slog.Logger) *telemetry.OutputManager {
	om, err := telemetry.NewOutputManager(dir)
	if err != nil {
		logger.Warn("output disabled", "error", err)
		return nil
	}
	return om
}

func runWindow(ctx context.Context, opts *options) error {
	cfg, logger, closer := setup(opts, os.Stdout)
	defer closer.Close()

	rl.SetConfigFlags(rl.FlagWindowResizable | rl.FlagWindowHighdpi)
	rl.InitWindow(int32(cfg.Screen.Width), int32(cfg.Screen.Height), cfg.Screen.Title)
	defer rl.CloseWindow()
	rl.SetTargetFPS(int32(cfg.Screen.TargetFPS))

	om := openOutput(opts.outputDir, logger)
	defer om.Close()

	host := scheduler.NewLoopHost()
	defer host.Close()

	var canvas *renderer.RaylibCanvas
	b := backdrop.Mount(backdrop.Options{
		Config: cfg,
		Host:   host,
		OpenCanvas: func() (backdrop.Canvas, error) {
			c, err := renderer.NewRaylibCanvas()
			if err != nil {
				return nil, err
			}
			canvas = c
			return c, nil
		},
		Viewport: hosts.WindowViewport(),
		Seed:     seedFor(opts),
		Logger:   logger,
		Output:   om,
	})
	defer b.Unmount()

	bg := renderer.NewBackground(cfg.Derived.BackgroundTop, cfg.Derived.BackgroundBottom)
	poller := hosts.NewWindowPoller()

	for !rl.WindowShouldClose() && ctx.Err() == nil {
		poller.Poll(b)
		host.Pump(time.Now())

		rl.BeginDrawing()
		rl.ClearBackground(rl.Black)
		bg.Draw(int32(rl.GetScreenWidth()), int32(rl.GetScreenHeight()))
		if canvas != nil {
			canvas.Present()
		}
		rl.EndDrawing()

		if opts.maxFrames > 0 && b.State().Frames >= uint64(opts.maxFrames) {
			logger.Info("max frames reached", "frames", opts.maxFrames)
			break
		}
	}
	return nil
}

func runTerminal(ctx context.Context, opts *options) error {
	// The screen owns stdout, so logs only go to the file sink
	cfg, logger, closer := setup(opts, nil)
	defer closer.Close()

	screen, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("creating terminal screen: %w", err)
	}
	if err := screen.Init(); err != nil {
		return fmt.Errorf("initializing terminal screen: %w", err)
	}
	defer screen.Fini()

	om := openOutput(opts.outputDir, logger)
	defer om.Close()

	interval := time.Second / 60
	if cfg.Screen.TargetFPS > 0 {
		interval = time.Second / time.Duration(cfg.Screen.TargetFPS)
	}

	return hosts.RunTerminal(ctx, screen, hosts.TerminalOptions{
		FrameInterval: interval,
		Background:    cfg.Derived.BackgroundBottom,
		MaxFrames:     uint64(max(opts.maxFrames, 0)),
		Logger:        logger,
		Mount: func(host scheduler.Host, open func() (backdrop.Canvas, error), vp input.Viewport) *backdrop.Backdrop {
			return backdrop.Mount(backdrop.Options{
				Config:     cfg,
				Host:       host,
				OpenCanvas: open,
				Viewport:   vp,
				Seed:       seedFor(opts),
				Logger:     logger,
				Output:     om,
			})
		},
	})
}

func runHeadless(ctx context.Context, opts *options) error {
	cfg, logger, closer := setup(opts, os.Stdout)
	defer closer.Close()

	om := openOutput(opts.outputDir, logger)
	defer om.Close()

	seed := seedFor(opts)
	host := scheduler.NewLoopHost()
	defer host.Close()
	clock := scheduler.NewManualClock(time.Unix(0, 0))

	b := backdrop.Mount(backdrop.Options{
		Config:     cfg,
		Host:       host,
		Clock:      clock,
		OpenCanvas: func() (backdrop.Canvas, error) { return &renderer.Discard{}, nil },
		Viewport: input.Viewport{
			Width:  float32(cfg.Screen.Width),
			Height: float32(cfg.Screen.Height),
			DPR:    1,
		},
		Seed:   seed,
		Logger: logger,
		Output: om,
	})
	defer b.Unmount()

	logger.Info("starting headless simulation",
		"seed", seed,
		"max_frames", opts.maxFrames,
		"orbit", opts.orbit,
	)

	interval := time.Second / 60
	if cfg.Screen.TargetFPS > 0 {
		interval = time.Second / time.Duration(cfg.Screen.TargetFPS)
	}
	frames := hosts.RunHeadless(ctx, b, host, clock, hosts.HeadlessOptions{
		Frames:        opts.maxFrames,
		FrameInterval: interval,
		Orbit:         opts.orbit,
	})

	st := b.State()
	logger.Info("headless run finished",
		"frames", frames,
		"particles", st.Particles,
		"clamped_frames", st.ClampedFrames,
		"perf", b.Perf(),
	)
	return nil
}
