package hosts

import (
	"context"
	"image/color"
	"log/slog"
	"time"

	"github.com/gdamore/tcell/v2"
	"golang.org/x/sync/errgroup"

	"github.com/pthm-cable/starfield/backdrop"
	"github.com/pthm-cable/starfield/input"
	"github.com/pthm-cable/starfield/renderer"
	"github.com/pthm-cable/starfield/scheduler"
)

// MountFunc mounts a backdrop onto the host's frame source and canvas.
type MountFunc func(host scheduler.Host, open func() (backdrop.Canvas, error), vp input.Viewport) *backdrop.Backdrop

// TerminalOptions configure RunTerminal.
type TerminalOptions struct {
	FrameInterval time.Duration // 0 means 60 fps
	Background    color.RGBA
	MaxFrames     uint64 // 0 runs until quit
	Mount         MountFunc
	Logger        *slog.Logger
}

// TerminalViewport converts a screen size to a logical viewport.
func TerminalViewport(screen tcell.Screen) input.Viewport {
	cols, rows := screen.Size()
	w, h := renderer.CellsToLogical(cols, rows)
	return input.Viewport{Width: w, Height: h, DPR: 1}
}

// RunTerminal animates a backdrop on an initialized screen until the user
// quits (q, Esc or Ctrl-C), ctx ends, or MaxFrames is reached. The caller
// owns the screen and calls Fini after RunTerminal returns.
func RunTerminal(ctx context.Context, screen tcell.Screen, opts TerminalOptions) error {
	if opts.FrameInterval <= 0 {
		opts.FrameInterval = time.Second / 60
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	screen.EnableMouse()
	screen.EnableFocus()
	screen.HideCursor()

	host := scheduler.NewLoopHost()
	defer host.Close()

	canvas := renderer.NewTerminalCanvas(screen, opts.Background)
	b := opts.Mount(host, func() (backdrop.Canvas, error) { return canvas, nil }, TerminalViewport(screen))
	defer b.Unmount()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	g, gctx := errgroup.WithContext(ctx)
	events := make(chan tcell.Event, 64)

	// PollEvent blocks; an interrupt posted on shutdown wakes it
	g.Go(func() error {
		for {
			ev := screen.PollEvent()
			if ev == nil || gctx.Err() != nil {
				return nil
			}
			select {
			case events <- ev:
			case <-gctx.Done():
				return nil
			}
		}
	})

	g.Go(func() error {
		defer func() {
			cancel()
			screen.PostEvent(tcell.NewEventInterrupt(nil))
		}()

		ticker := time.NewTicker(opts.FrameInterval)
		defer ticker.Stop()

		for {
			select {
			case <-gctx.Done():
				return nil
			case ev := <-events:
				if !handleTerminalEvent(screen, b, ev) {
					logger.Info("quit requested")
					return nil
				}
			case now := <-ticker.C:
				host.Pump(now)
				if opts.MaxFrames > 0 && b.State().Frames >= opts.MaxFrames {
					logger.Info("max frames reached", "frames", opts.MaxFrames)
					return nil
				}
			}
		}
	})

	return g.Wait()
}

// handleTerminalEvent forwards one event and reports whether to keep going.
func handleTerminalEvent(screen tcell.Screen, t Target, ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		switch ev.Key() {
		case tcell.KeyEscape, tcell.KeyCtrlC:
			return false
		case tcell.KeyRune:
			if ev.Rune() == 'q' || ev.Rune() == 'Q' {
				return false
			}
		}
	case *tcell.EventResize:
		screen.Sync()
		vp := TerminalViewport(screen)
		t.Resize(vp.Width, vp.Height, vp.DPR)
	case *tcell.EventMouse:
		col, row := ev.Position()
		// Center of the cell
		t.PointerMove(
			float32(col*renderer.CellWidth)+renderer.CellWidth/2,
			float32(row*renderer.CellHeight)+renderer.CellHeight/2,
		)
	case *tcell.EventFocus:
		if !ev.Focused {
			t.PointerLeave()
		}
	}
	return true
}
