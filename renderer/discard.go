package renderer

import "github.com/pthm-cable/starfield/surface"

// Discard is a canvas that draws nothing and counts what it was asked to do.
type Discard struct {
	State     surface.State
	Frames    int
	Particles int // drawn in the last frame
	Resizes   int
	Closed    bool
}

func (d *Discard) Resize(st surface.State) error {
	d.State = st
	d.Resizes++
	return nil
}

func (d *Discard) BeginFrame() {
	d.Particles = 0
}

func (d *Discard) DrawParticle(_, _, _, _ float32) {
	d.Particles++
}

func (d *Discard) EndFrame() {
	d.Frames++
}

func (d *Discard) Close() error {
	d.Closed = true
	return nil
}
