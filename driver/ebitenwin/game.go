// Package ebitenwin runs a sketch canvas as an ebiten game.
//
// Ebiten owns the main loop, so the canvas is driven with Start, Frame
// and Stop from the game's Update instead of Canvas.Run:
//
//	if err := ebitenwin.Run(canvas); err != nil { ... }
package ebitenwin

import (
	"errors"
	"image"
	"time"

	"github.com/gogpu/sketch"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

// Game adapts a canvas to ebiten.Game. It is also the canvas window.
type Game struct {
	c *sketch.Canvas

	w, h    int
	events  []sketch.Event
	frame   *ebiten.Image
	scratch []byte
	dirty   bool

	mouseX, mouseY int
	cursor         sketch.Cursor
	started        bool
}

var (
	_ ebiten.Game   = (*Game)(nil)
	_ sketch.Window = (*Game)(nil)
)

// NewGame wraps c and attaches the game as its window.
func NewGame(c *sketch.Canvas) *Game {
	g := &Game{c: c, w: c.Width(), h: c.Height(), cursor: sketch.CursorDefault}
	c.Attach(g)
	return g
}

// Run configures the ebiten window from the canvas config and blocks
// until the window closes or the canvas is done.
func Run(c *sketch.Canvas) error {
	cfg := c.Config()
	ebiten.SetWindowTitle(cfg.Title)
	ebiten.SetWindowSize(cfg.Width, cfg.Height)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetFullscreen(cfg.Fullscreen)
	ebiten.SetVsyncEnabled(cfg.VSync)
	ebiten.SetTPS(int(cfg.FPS))
	ebiten.SetWindowClosingHandled(true)

	g := NewGame(c)
	sketch.Logger().Info("ebitenwin: window opened", "width", cfg.Width, "height", cfg.Height)
	err := ebiten.RunGame(g)
	stopErr := c.Stop()
	_ = g.Close()
	if errors.Is(err, ebiten.Termination) {
		err = nil
	}
	return errors.Join(err, stopErr)
}

// Update polls input and runs one canvas frame.
func (g *Game) Update() error {
	if !g.started {
		g.started = true
		if err := g.c.Start(); err != nil {
			return err
		}
	}
	g.poll()
	if err := g.c.Frame(time.Now()); err != nil {
		return err
	}
	if g.c.Done() {
		return ebiten.Termination
	}
	return nil
}

// Draw shows the last presented frame.
func (g *Game) Draw(screen *ebiten.Image) {
	if g.frame != nil {
		screen.DrawImage(g.frame, nil)
	}
}

// Layout keeps the canvas at the window size and reports a resize when
// it changes.
func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	if outsideWidth > 0 && outsideHeight > 0 && (outsideWidth != g.w || outsideHeight != g.h) {
		g.w, g.h = outsideWidth, outsideHeight
		g.events = append(g.events, sketch.ResizeEvent{Width: g.w, Height: g.h})
	}
	return g.w, g.h
}

// Size implements sketch.Window.
func (g *Game) Size() (int, int) { return g.w, g.h }

// PollEvents implements sketch.Window.
func (g *Game) PollEvents() []sketch.Event {
	evs := g.events
	g.events = nil
	return evs
}

// Present converts fb to premultiplied alpha and uploads it.
func (g *Game) Present(fb *image.NRGBA) error {
	fw, fh := fb.Rect.Dx(), fb.Rect.Dy()
	if g.frame == nil || g.frame.Bounds().Dx() != fw || g.frame.Bounds().Dy() != fh {
		if g.frame != nil {
			g.frame.Deallocate()
		}
		g.frame = ebiten.NewImage(fw, fh)
		g.scratch = make([]byte, fw*fh*4)
	}
	premultiply(g.scratch, fb)
	g.frame.WritePixels(g.scratch)
	return nil
}

// SetCursor implements sketch.CursorSetter.
func (g *Game) SetCursor(c sketch.Cursor) {
	if c == g.cursor {
		return
	}
	g.cursor = c
	if c == sketch.CursorHidden {
		ebiten.SetCursorMode(ebiten.CursorModeHidden)
		return
	}
	ebiten.SetCursorMode(ebiten.CursorModeVisible)
	shape := ebiten.CursorShapeDefault
	switch c {
	case sketch.CursorCross:
		shape = ebiten.CursorShapeCrosshair
	case sketch.CursorHand:
		shape = ebiten.CursorShapePointer
	case sketch.CursorText:
		shape = ebiten.CursorShapeText
	}
	ebiten.SetCursorShape(shape)
}

// Close releases the frame image.
func (g *Game) Close() error {
	if g.frame != nil {
		g.frame.Deallocate()
		g.frame = nil
	}
	return nil
}

var mouseButtons = []struct {
	eb ebiten.MouseButton
	sk sketch.MouseButton
}{
	{ebiten.MouseButtonLeft, sketch.ButtonLeft},
	{ebiten.MouseButtonRight, sketch.ButtonRight},
	{ebiten.MouseButtonMiddle, sketch.ButtonMiddle},
}

// poll turns this tick's ebiten input state into events.
func (g *Game) poll() {
	mods := modifiers()
	x, y := ebiten.CursorPosition()
	if x != g.mouseX || y != g.mouseY {
		g.mouseX, g.mouseY = x, y
		g.events = append(g.events, sketch.MouseMoveEvent{X: float64(x), Y: float64(y)})
	}
	for _, b := range mouseButtons {
		if inpututil.IsMouseButtonJustPressed(b.eb) {
			g.events = append(g.events, sketch.MouseButtonEvent{X: float64(x), Y: float64(y), Button: b.sk, Pressed: true, Modifiers: mods})
		}
		if inpututil.IsMouseButtonJustReleased(b.eb) {
			g.events = append(g.events, sketch.MouseButtonEvent{X: float64(x), Y: float64(y), Button: b.sk, Modifiers: mods})
		}
	}
	if dx, dy := ebiten.Wheel(); dx != 0 || dy != 0 {
		g.events = append(g.events, sketch.MouseScrollEvent{DX: dx, DY: dy})
	}
	for _, k := range inpututil.AppendJustPressedKeys(nil) {
		g.events = append(g.events, sketch.KeyEvent{Key: key(k), Pressed: true, Modifiers: mods})
	}
	for _, k := range inpututil.AppendJustReleasedKeys(nil) {
		g.events = append(g.events, sketch.KeyEvent{Key: key(k), Modifiers: mods})
	}
	for _, r := range ebiten.AppendInputChars(nil) {
		g.events = append(g.events, sketch.TextEvent{Text: string(r)})
	}
	if ebiten.IsWindowBeingClosed() {
		g.events = append(g.events, sketch.QuitEvent{})
	}
}

func modifiers() sketch.Modifiers {
	var m sketch.Modifiers
	if ebiten.IsKeyPressed(ebiten.KeyShift) {
		m |= sketch.ModShift
	}
	if ebiten.IsKeyPressed(ebiten.KeyControl) {
		m |= sketch.ModCtrl
	}
	if ebiten.IsKeyPressed(ebiten.KeyAlt) {
		m |= sketch.ModAlt
	}
	if ebiten.IsKeyPressed(ebiten.KeyMeta) {
		m |= sketch.ModSuper
	}
	return m
}

// premultiply writes fb into dst as premultiplied RGBA rows.
func premultiply(dst []byte, fb *image.NRGBA) {
	w, h := fb.Rect.Dx(), fb.Rect.Dy()
	for y := range h {
		src := fb.Pix[y*fb.Stride : y*fb.Stride+w*4]
		out := dst[y*w*4 : (y+1)*w*4]
		for i := 0; i < len(src); i += 4 {
			a := uint32(src[i+3])
			if a == 0xff {
				copy(out[i:i+4], src[i:i+4])
				continue
			}
			out[i+0] = uint8(uint32(src[i+0]) * a / 0xff) //nolint:gosec // result <= 255
			out[i+1] = uint8(uint32(src[i+1]) * a / 0xff) //nolint:gosec // result <= 255
			out[i+2] = uint8(uint32(src[i+2]) * a / 0xff) //nolint:gosec // result <= 255
			out[i+3] = uint8(a)                           //nolint:gosec // alpha byte
		}
	}
}
