package renderer

import (
	"errors"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/starfield/surface"
)

// ErrNoWindow is returned when a raylib canvas is opened without a window.
var ErrNoWindow = errors.New("renderer: raylib window not ready")

// RaylibCanvas draws particles into an offscreen texture sized to the
// backing store. Drawing uses logical coordinates through a camera whose
// zoom is the pixel ratio.
type RaylibCanvas struct {
	target  rl.RenderTexture2D
	loaded  bool
	inFrame bool
	state   surface.State
	camera  rl.Camera2D
	tint    rl.Color
}

// NewRaylibCanvas creates a canvas. The window must already be open.
func NewRaylibCanvas() (*RaylibCanvas, error) {
	if !rl.IsWindowReady() {
		return nil, ErrNoWindow
	}
	return &RaylibCanvas{
		camera: rl.Camera2D{Zoom: 1},
		tint:   rl.White,
	}, nil
}

// Resize reallocates the backing texture for a new surface state.
func (c *RaylibCanvas) Resize(st surface.State) error {
	if c.loaded && st.BackingWidth == c.state.BackingWidth && st.BackingHeight == c.state.BackingHeight {
		c.state = st
		c.camera.Zoom = st.DPR
		return nil
	}

	c.unload()
	c.state = st
	c.camera.Zoom = st.DPR
	if st.BackingWidth <= 0 || st.BackingHeight <= 0 {
		return nil
	}

	c.target = rl.LoadRenderTexture(st.BackingWidth, st.BackingHeight)
	if c.target.ID == 0 {
		return errors.New("renderer: render texture allocation failed")
	}
	rl.SetTextureFilter(c.target.Texture, rl.FilterBilinear)
	c.loaded = true
	return nil
}

// BeginFrame clears the texture and starts drawing into it.
func (c *RaylibCanvas) BeginFrame() {
	if !c.loaded {
		return
	}
	rl.BeginTextureMode(c.target)
	rl.ClearBackground(rl.Blank)
	rl.BeginMode2D(c.camera)
	c.inFrame = true
}

// DrawParticle draws one particle in logical coordinates.
func (c *RaylibCanvas) DrawParticle(x, y, radius, alpha float32) {
	if !c.inFrame {
		return
	}
	rl.DrawCircleV(rl.Vector2{X: x, Y: y}, radius, rl.Fade(c.tint, alpha))
}

// EndFrame finishes drawing into the texture.
func (c *RaylibCanvas) EndFrame() {
	if !c.inFrame {
		return
	}
	rl.EndMode2D()
	rl.EndTextureMode()
	c.inFrame = false
}

// Present blits the last frame onto the screen at logical size.
// Must be called between rl.BeginDrawing and rl.EndDrawing.
func (c *RaylibCanvas) Present() {
	if !c.loaded {
		return
	}
	// Render textures are stored upside down
	src := rl.Rectangle{
		Width:  float32(c.target.Texture.Width),
		Height: -float32(c.target.Texture.Height),
	}
	dst := rl.Rectangle{Width: c.state.Width, Height: c.state.Height}
	rl.DrawTexturePro(c.target.Texture, src, dst, rl.Vector2{}, 0, rl.White)
}

// Close releases the texture.
func (c *RaylibCanvas) Close() error {
	if c.inFrame {
		c.EndFrame()
	}
	c.unload()
	return nil
}

func (c *RaylibCanvas) unload() {
	if c.loaded {
		rl.UnloadRenderTexture(c.target)
		c.loaded = false
	}
}
