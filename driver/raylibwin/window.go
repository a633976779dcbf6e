// Package raylibwin opens a raylib window for a sketch canvas.
//
// The window must be opened and driven from the main goroutine:
//
//	win, err := raylibwin.Open(canvas.Config())
//	if err != nil { ... }
//	defer win.Close()
//	err = canvas.Run(ctx, win)
package raylibwin

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"runtime"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/gogpu/sketch"
)

// ErrClosed is returned by Present after Close.
var ErrClosed = errors.New("raylibwin: window closed")

// Window is a raylib window that shows the canvas framebuffer as one
// streamed texture.
type Window struct {
	tex     rl.Texture2D
	texW    int
	texH    int
	pix     []color.RGBA
	input   input
	cursor  sketch.Cursor
	resized bool
	closed  bool
}

var (
	_ sketch.Window       = (*Window)(nil)
	_ sketch.CursorSetter = (*Window)(nil)
)

// Open creates the window described by cfg.
func Open(cfg sketch.Config) (*Window, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	runtime.LockOSThread()

	rl.SetTraceLogLevel(rl.LogWarning)
	flags := uint32(rl.FlagWindowResizable)
	if cfg.VSync {
		flags |= rl.FlagVsyncHint
	}
	if cfg.Fullscreen {
		flags |= rl.FlagFullscreenMode
	}
	rl.SetConfigFlags(flags)
	rl.InitWindow(int32(cfg.Width), int32(cfg.Height), cfg.Title) //nolint:gosec // validated sizes
	if !rl.IsWindowReady() {
		runtime.UnlockOSThread()
		return nil, fmt.Errorf("%w: raylib window could not be created", sketch.ErrResource)
	}
	rl.SetExitKey(0)

	w := &Window{cursor: sketch.CursorDefault}
	w.input.held = make(map[int32]bool)
	sketch.Logger().Info("raylibwin: window opened", "width", cfg.Width, "height", cfg.Height)
	return w, nil
}

// Size returns the window size in screen pixels.
func (w *Window) Size() (int, int) {
	return rl.GetScreenWidth(), rl.GetScreenHeight()
}

// PollEvents reports the input raylib gathered since the last frame.
func (w *Window) PollEvents() []sketch.Event {
	if w.closed {
		return nil
	}
	evs := w.input.poll()
	if rl.IsWindowResized() {
		evs = append(evs, sketch.ResizeEvent{Width: rl.GetScreenWidth(), Height: rl.GetScreenHeight()})
	}
	if rl.WindowShouldClose() {
		evs = append(evs, sketch.QuitEvent{})
	}
	return evs
}

// Present uploads fb and draws it over the whole window.
func (w *Window) Present(fb *image.NRGBA) error {
	if w.closed {
		return ErrClosed
	}
	fw, fh := fb.Rect.Dx(), fb.Rect.Dy()
	if fw != w.texW || fh != w.texH {
		w.reallocate(fw, fh)
	}
	toRGBA(w.pix, fb)
	rl.UpdateTexture(w.tex, w.pix)

	rl.BeginDrawing()
	rl.ClearBackground(rl.Black)
	src := rl.NewRectangle(0, 0, float32(fw), float32(fh))
	dst := rl.NewRectangle(0, 0, float32(rl.GetScreenWidth()), float32(rl.GetScreenHeight()))
	rl.DrawTexturePro(w.tex, src, dst, rl.NewVector2(0, 0), 0, rl.White)
	rl.EndDrawing()
	return nil
}

func (w *Window) reallocate(fw, fh int) {
	if w.texW != 0 {
		rl.UnloadTexture(w.tex)
	}
	img := rl.GenImageColor(fw, fh, rl.Blank)
	w.tex = rl.LoadTextureFromImage(img)
	rl.UnloadImage(img)
	rl.SetTextureFilter(w.tex, rl.FilterBilinear)
	w.texW, w.texH = fw, fh
	w.pix = make([]color.RGBA, fw*fh)
}

// SetCursor changes the pointer shape.
func (w *Window) SetCursor(c sketch.Cursor) {
	if c == w.cursor || w.closed {
		return
	}
	w.cursor = c
	if c == sketch.CursorHidden {
		rl.HideCursor()
		return
	}
	rl.ShowCursor()
	shape := rl.MouseCursorDefault
	switch c {
	case sketch.CursorCross:
		shape = rl.MouseCursorCrosshair
	case sketch.CursorHand:
		shape = rl.MouseCursorPointingHand
	case sketch.CursorText:
		shape = rl.MouseCursorIBeam
	}
	rl.SetMouseCursor(int32(shape))
}

// Close unloads the texture and closes the window. It is safe to call
// more than once.
func (w *Window) Close() error {
	if w.closed {
		return nil
	}
	w.closed = true
	if w.texW != 0 {
		rl.UnloadTexture(w.tex)
	}
	rl.CloseWindow()
	runtime.UnlockOSThread()
	return nil
}

// toRGBA copies fb into dst, dropping the row padding.
func toRGBA(dst []color.RGBA, fb *image.NRGBA) {
	w, h := fb.Rect.Dx(), fb.Rect.Dy()
	for y := range h {
		row := fb.Pix[y*fb.Stride : y*fb.Stride+w*4]
		out := dst[y*w : (y+1)*w]
		for x := range out {
			p := row[x*4 : x*4+4 : x*4+4]
			out[x] = color.RGBA{R: p[0], G: p[1], B: p[2], A: p[3]}
		}
	}
}
