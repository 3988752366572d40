package scheduler

import (
	"errors"
	"sync"
	"time"
)

// ErrNoFrames is returned by hosts that cannot deliver frame callbacks.
var ErrNoFrames = errors.New("scheduler: host cannot deliver frames")

// ErrHostClosed is returned by a LoopHost after Close.
var ErrHostClosed = errors.New("scheduler: host closed")

// FrameID identifies one pending frame request.
type FrameID uint64

// FrameFunc is called once with the frame timestamp.
type FrameFunc func(now time.Time)

// Host delivers frame callbacks, one per requested frame.
type Host interface {
	RequestFrame(fn FrameFunc) (FrameID, error)
	CancelFrame(id FrameID)
}

type request struct {
	id FrameID
	fn FrameFunc
}

// LoopHost is a Host driven by an external loop calling Pump. Frames
// requested while a pump is running are delivered by the next pump.
type LoopHost struct {
	mu      sync.Mutex
	nextID  FrameID
	pending []request
	running []request
	closed  bool
}

// NewLoopHost creates a host with no pending frames.
func NewLoopHost() *LoopHost {
	return &LoopHost{
		pending: make([]request, 0, 4),
		running: make([]request, 0, 4),
	}
}

// RequestFrame queues fn for the next Pump.
func (h *LoopHost) RequestFrame(fn FrameFunc) (FrameID, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return 0, ErrHostClosed
	}
	h.nextID++
	h.pending = append(h.pending, request{id: h.nextID, fn: fn})
	return h.nextID, nil
}

// CancelFrame drops a queued request. Unknown IDs are ignored.
func (h *LoopHost) CancelFrame(id FrameID) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for i, r := range h.pending {
		if r.id == id {
			h.pending = append(h.pending[:i], h.pending[i+1:]...)
			return
		}
	}
	// Not yet run in the current pump
	for i := range h.running {
		if h.running[i].id == id {
			h.running[i].fn = nil
			return
		}
	}
}

// Pump delivers every frame queued before the call and returns how many ran.
func (h *LoopHost) Pump(now time.Time) int {
	h.mu.Lock()
	h.pending, h.running = h.running[:0], h.pending
	n := len(h.running)
	h.mu.Unlock()

	ran := 0
	for i := 0; i < n; i++ {
		h.mu.Lock()
		fn := h.running[i].fn
		h.running[i].fn = nil
		h.mu.Unlock()

		if fn != nil {
			fn(now)
			ran++
		}
	}
	return ran
}

// Pending returns the number of frames waiting for the next pump.
func (h *LoopHost) Pending() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.pending)
}

// Close drops all pending frames and rejects new requests.
func (h *LoopHost) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.closed = true
	h.pending = h.pending[:0]
	for i := range h.running {
		h.running[i].fn = nil
	}
}

// NullHost stands in for an environment without frame callbacks.
type NullHost struct{}

func (NullHost) RequestFrame(FrameFunc) (FrameID, error) { return 0, ErrNoFrames }
func (NullHost) CancelFrame(FrameID)                     {}
