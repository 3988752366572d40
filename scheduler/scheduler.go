// Package scheduler drives per-frame simulation steps from a frame host.
//
// A Scheduler is Idle until Start, then asks its host for one frame at a
// time and runs the step function with the elapsed time, clamped to MaxDT
// so a suspended tab or a debugger pause never produces a huge step.
package scheduler

import (
	"log/slog"
	"sync"
	"time"
)

// DefaultMaxDT is the integration step ceiling when none is configured.
const DefaultMaxDT = 50 * time.Millisecond

// State is the scheduler lifecycle state.
type State uint8

const (
	Idle State = iota
	Running
)

func (s State) String() string {
	if s == Running {
		return "running"
	}
	return "idle"
}

// Frame describes one scheduled step.
type Frame struct {
	Index   uint64
	Now     time.Time
	DT      time.Duration // clamped to [0, MaxDT]
	Clamped bool          // the raw gap exceeded MaxDT
}

// Seconds returns DT in seconds.
func (f Frame) Seconds() float32 {
	return float32(f.DT.Seconds())
}

// StepFunc runs one simulation frame.
type StepFunc func(f Frame)

// Config holds scheduler parameters.
type Config struct {
	MaxDT  time.Duration
	Clock  Clock
	Logger *slog.Logger
}

// Scheduler runs a step function once per host frame while Running.
// Start and Stop may be called from any goroutine, including from inside
// the step.
type Scheduler struct {
	host Host
	step StepFunc
	cfg  Config

	mu         sync.Mutex
	state      State
	gen        uint64
	frameFn    FrameFunc
	pending    FrameID
	hasPending bool
	last       time.Time
	frames     uint64
	clamped    uint64
}

// New creates an idle scheduler.
func New(host Host, step StepFunc, cfg Config) *Scheduler {
	if cfg.MaxDT <= 0 {
		cfg.MaxDT = DefaultMaxDT
	}
	if cfg.Clock == nil {
		cfg.Clock = SystemClock{}
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	return &Scheduler{host: host, step: step, cfg: cfg}
}

// Start records the current time and requests the first frame. It returns
// false, and stays Idle, when the host cannot deliver frames.
func (s *Scheduler) Start() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state == Running {
		return true
	}

	s.gen++
	gen := s.gen
	s.frameFn = func(now time.Time) { s.onFrame(gen, now) }
	s.last = s.cfg.Clock.Now()
	s.state = Running

	if !s.requestLocked() {
		return false
	}
	s.cfg.Logger.Debug("scheduler started", "generation", gen)
	return true
}

// Stop cancels the pending frame and returns to Idle. Safe to call more
// than once and from inside the step.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state == Idle {
		return
	}
	s.state = Idle
	s.gen++
	s.frameFn = nil
	if s.hasPending {
		s.host.CancelFrame(s.pending)
		s.hasPending = false
	}
	s.cfg.Logger.Debug("scheduler stopped", "frames", s.frames)
}

// State returns the current lifecycle state.
func (s *Scheduler) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Running reports whether frames are being scheduled.
func (s *Scheduler) Running() bool {
	return s.State() == Running
}

// Frames returns how many steps have run.
func (s *Scheduler) Frames() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.frames
}

// ClampedFrames returns how many steps had their dt clamped.
func (s *Scheduler) ClampedFrames() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.clamped
}

// MaxDT returns the step ceiling.
func (s *Scheduler) MaxDT() time.Duration {
	return s.cfg.MaxDT
}

func (s *Scheduler) onFrame(gen uint64, now time.Time) {
	s.mu.Lock()
	if s.state != Running || gen != s.gen {
		// Stale callback from an earlier run
		s.mu.Unlock()
		return
	}
	s.hasPending = false

	dt := now.Sub(s.last)
	s.last = now
	f := Frame{Index: s.frames, Now: now, DT: dt}
	if dt < 0 {
		f.DT = 0
	} else if dt > s.cfg.MaxDT {
		f.DT = s.cfg.MaxDT
		f.Clamped = true
		s.clamped++
	}
	s.frames++
	s.mu.Unlock()

	s.step(f)

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == Running && gen == s.gen {
		s.requestLocked()
	}
}

// requestLocked asks the host for the next frame; on failure the scheduler
// drops back to Idle.
func (s *Scheduler) requestLocked() bool {
	id, err := s.host.RequestFrame(s.frameFn)
	if err != nil {
		s.state = Idle
		s.gen++
		s.frameFn = nil
		s.cfg.Logger.Warn("frame request failed", "error", err)
		return false
	}
	s.pending = id
	s.hasPending = true
	return true
}
