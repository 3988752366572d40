// Starfield preview tool - live tuning with sliders.
//
// Usage: go run ./cmd/starpreview [-preset falling]
package main

import (
	"flag"
	"log/slog"
	"os"
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/starfield/backdrop"
	"github.com/pthm-cable/starfield/config"
	"github.com/pthm-cable/starfield/hosts"
	"github.com/pthm-cable/starfield/logging"
	"github.com/pthm-cable/starfield/renderer"
	"github.com/pthm-cable/starfield/scheduler"
	"github.com/pthm-cable/starfield/ui"
)

const (
	windowWidth  = 1280
	windowHeight = 760
	panelWidth   = 300
)

// preview owns the mounted backdrop and remounts it when the config changes.
type preview struct {
	host   *scheduler.LoopHost
	logger *slog.Logger
	seed   int64

	b      *backdrop.Backdrop
	canvas *renderer.RaylibCanvas
	bg     *renderer.Background
}

func (p *preview) mount(cfg *config.Config) {
	if p.b != nil {
		p.b.Unmount()
	}
	p.canvas = nil
	p.b = backdrop.Mount(backdrop.Options{
		Config: cfg,
		Host:   p.host,
		OpenCanvas: func() (backdrop.Canvas, error) {
			c, err := renderer.NewRaylibCanvas()
			if err != nil {
				return nil, err
			}
			p.canvas = c
			return c, nil
		},
		Viewport: hosts.WindowViewport(),
		Seed:     p.seed,
		Logger:   p.logger,
	})
	p.bg = renderer.NewBackground(cfg.Derived.BackgroundTop, cfg.Derived.BackgroundBottom)
}

func main() {
	preset := flag.String("preset", "", "Preset to start from")
	flag.Parse()

	logger, closer := logging.New(logging.Options{Level: "info", Console: os.Stdout})
	defer closer.Close()

	cfg, err := config.LoadPreset(*preset, "")
	if err != nil {
		logger.Error("failed to load preset", "error", err)
		cfg = config.Default()
	}

	rl.SetConfigFlags(rl.FlagWindowResizable | rl.FlagWindowHighdpi)
	rl.InitWindow(windowWidth, windowHeight, "Starfield Preview")
	defer rl.CloseWindow()
	rl.SetTargetFPS(60)

	p := &preview{
		host:   scheduler.NewLoopHost(),
		logger: logger,
		seed:   time.Now().UnixNano(),
	}
	defer p.host.Close()
	p.mount(cfg)
	defer func() { p.b.Unmount() }()

	panel := ui.NewTuningPanel(float32(windowWidth-panelWidth-10), 10, panelWidth)
	hud := ui.NewHUD(10, 10, 240)
	poller := hosts.NewWindowPoller()

	// Remounting mid-drag would reseed every frame, so wait for release.
	pendingRemount := false

	for !rl.WindowShouldClose() {
		poller.Poll(p.b)
		p.host.Pump(time.Now())

		if rl.IsKeyPressed(rl.KeyH) {
			hud.Toggle()
		}
		if rl.IsKeyPressed(rl.KeyT) {
			panel.Toggle()
		}

		rl.BeginDrawing()
		rl.ClearBackground(rl.Black)
		p.bg.Draw(int32(rl.GetScreenWidth()), int32(rl.GetScreenHeight()))
		if p.canvas != nil {
			p.canvas.Present()
		}

		hud.Draw(ui.HUDData{
			Status:  p.b.State(),
			Surface: p.b.Surface(),
			Perf:    p.b.Perf(),
			FPS:     rl.GetFPS(),
		})
		changed, action := panel.Draw(cfg)
		hud.DrawControls(int32(rl.GetScreenHeight()), "[H] Status  [T] Tuning  [C] Copy YAML")
		rl.EndDrawing()

		if changed {
			pendingRemount = true
		}
		switch action {
		case ui.ActionReset:
			if fresh, err := config.LoadPreset(*preset, ""); err == nil {
				cfg = fresh
				pendingRemount = true
			}
		case ui.ActionReseed:
			p.seed = time.Now().UnixNano()
			pendingRemount = true
		}
		if action == ui.ActionCopy || rl.IsKeyPressed(rl.KeyC) {
			if out, err := ui.ExportYAML(cfg); err == nil {
				rl.SetClipboardText(out)
				logger.Info("tuning copied to clipboard")
			}
		}

		if pendingRemount && !rl.IsMouseButtonDown(rl.MouseButtonLeft) {
			if adj := cfg.Refresh(); len(adj) > 0 {
				logger.Warn("tuning adjusted", "adjustments", adj)
			}
			p.mount(cfg.Clone())
			pendingRemount = false
		}
	}
}
