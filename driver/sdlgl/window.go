// Package sdlgl presents sketch canvases in an SDL2 window through an
// OpenGL 2.1 context.
//
// SDL and OpenGL calls must come from the thread that created the window.
// Open locks the calling goroutine to its OS thread; run the canvas loop
// on the same goroutine:
//
//	w, err := sdlgl.Open(cfg)
//	if err != nil { ... }
//	defer w.Close()
//	err = canvas.Run(ctx, w)
package sdlgl

import (
	"errors"
	"fmt"
	"image"
	"runtime"

	"github.com/go-gl/gl/v2.1/gl"
	"github.com/gogpu/sketch"
	"github.com/veandco/go-sdl2/sdl"
)

// ErrClosed is returned by Present after Close.
var ErrClosed = errors.New("sdlgl: window closed")

// Window is an SDL2 window with an OpenGL context. Frames are uploaded to
// a texture and drawn as one screen-sized quad.
type Window struct {
	win    *sdl.Window
	ctx    sdl.GLContext
	hasCtx bool

	texture    uint32
	texW, texH int

	events    []sketch.Event
	cursor    sketch.Cursor
	sysCursor *sdl.Cursor
	closed    bool
}

var _ sketch.Window = (*Window)(nil)

// Open creates a window sized and titled from cfg.
func Open(cfg sketch.Config) (*Window, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	runtime.LockOSThread()

	if err := sdl.Init(sdl.INIT_VIDEO); err != nil {
		runtime.UnlockOSThread()
		return nil, fmt.Errorf("%w: sdlgl: initialize SDL2: %v", sketch.ErrResource, err)
	}

	_ = sdl.GLSetAttribute(sdl.GL_CONTEXT_MAJOR_VERSION, 2)
	_ = sdl.GLSetAttribute(sdl.GL_CONTEXT_MINOR_VERSION, 1)
	_ = sdl.GLSetAttribute(sdl.GL_DOUBLEBUFFER, 1)

	flags := uint32(sdl.WINDOW_OPENGL | sdl.WINDOW_RESIZABLE | sdl.WINDOW_ALLOW_HIGHDPI)
	if cfg.Fullscreen {
		flags |= sdl.WINDOW_FULLSCREEN_DESKTOP
	}
	win, err := sdl.CreateWindow(cfg.Title, sdl.WINDOWPOS_CENTERED, sdl.WINDOWPOS_CENTERED,
		int32(cfg.Width), int32(cfg.Height), flags) //nolint:gosec // window sizes fit int32
	if err != nil {
		sdl.Quit()
		runtime.UnlockOSThread()
		return nil, fmt.Errorf("%w: sdlgl: create window: %v", sketch.ErrResource, err)
	}
	w := &Window{win: win, cursor: sketch.CursorDefault}

	ctx, err := win.GLCreateContext()
	if err != nil {
		w.destroy()
		return nil, fmt.Errorf("%w: sdlgl: create OpenGL context: %v", sketch.ErrResource, err)
	}
	w.ctx, w.hasCtx = ctx, true
	if err := win.GLMakeCurrent(ctx); err != nil {
		w.destroy()
		return nil, fmt.Errorf("%w: sdlgl: make context current: %v", sketch.ErrResource, err)
	}
	if err := gl.Init(); err != nil {
		w.destroy()
		return nil, fmt.Errorf("%w: sdlgl: load OpenGL: %v", sketch.ErrResource, err)
	}
	interval := 0
	if cfg.VSync {
		interval = 1
	}
	_ = sdl.GLSetSwapInterval(interval)

	sketch.Logger().Info("sdlgl: window opened",
		"width", cfg.Width, "height", cfg.Height,
		"vendor", gl.GoStr(gl.GetString(gl.VENDOR)),
		"renderer", gl.GoStr(gl.GetString(gl.RENDERER)),
		"version", gl.GoStr(gl.GetString(gl.VERSION)),
	)

	gl.GenTextures(1, &w.texture)
	gl.BindTexture(gl.TEXTURE_2D, w.texture)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.LINEAR)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.LINEAR)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, gl.CLAMP_TO_EDGE)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, gl.CLAMP_TO_EDGE)

	sdl.StartTextInput()
	return w, nil
}

// Size returns the window size in screen coordinates, the space mouse
// events are reported in.
func (w *Window) Size() (int, int) {
	if w.closed {
		return 0, 0
	}
	width, height := w.win.GetSize()
	return int(width), int(height)
}

// PollEvents drains the SDL event queue.
func (w *Window) PollEvents() []sketch.Event {
	w.events = w.events[:0]
	if w.closed {
		return nil
	}
	for ev := sdl.PollEvent(); ev != nil; ev = sdl.PollEvent() {
		if e, ok := translate(ev, sdl.GetModState()); ok {
			w.events = append(w.events, e)
		}
	}
	return w.events
}

// Present uploads fb and swaps buffers.
func (w *Window) Present(fb *image.NRGBA) error {
	if w.closed {
		return ErrClosed
	}
	fw, fh := fb.Rect.Dx(), fb.Rect.Dy()
	dw, dh := w.win.GLGetDrawableSize()

	gl.Viewport(0, 0, dw, dh)
	gl.ClearColor(0, 0, 0, 1)
	gl.Clear(gl.COLOR_BUFFER_BIT)

	gl.BindTexture(gl.TEXTURE_2D, w.texture)
	gl.PixelStorei(gl.UNPACK_ROW_LENGTH, int32(fb.Stride/4)) //nolint:gosec // stride fits int32
	defer gl.PixelStorei(gl.UNPACK_ROW_LENGTH, 0)
	if fw != w.texW || fh != w.texH {
		w.texW, w.texH = fw, fh
		gl.TexImage2D(gl.TEXTURE_2D, 0, gl.RGBA, int32(fw), int32(fh), 0, //nolint:gosec // frame sizes fit int32
			gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(fb.Pix))
	} else {
		gl.TexSubImage2D(gl.TEXTURE_2D, 0, 0, 0, int32(fw), int32(fh), //nolint:gosec // frame sizes fit int32
			gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(fb.Pix))
	}

	gl.MatrixMode(gl.PROJECTION)
	gl.LoadIdentity()
	gl.Ortho(0, 1, 1, 0, -1, 1)
	gl.MatrixMode(gl.MODELVIEW)
	gl.LoadIdentity()
	gl.Disable(gl.BLEND)
	gl.Enable(gl.TEXTURE_2D)

	// Texture row 0 is the top of the frame.
	gl.Begin(gl.QUADS)
	gl.TexCoord2f(0, 0)
	gl.Vertex2f(0, 0)
	gl.TexCoord2f(1, 0)
	gl.Vertex2f(1, 0)
	gl.TexCoord2f(1, 1)
	gl.Vertex2f(1, 1)
	gl.TexCoord2f(0, 1)
	gl.Vertex2f(0, 1)
	gl.End()
	gl.Disable(gl.TEXTURE_2D)

	w.win.GLSwap()
	return nil
}

// SetCursor shows, hides or changes the system cursor.
func (w *Window) SetCursor(c sketch.Cursor) {
	if w.closed || c == w.cursor {
		return
	}
	w.cursor = c
	if c == sketch.CursorHidden {
		_, _ = sdl.ShowCursor(sdl.DISABLE)
		return
	}
	_, _ = sdl.ShowCursor(sdl.ENABLE)
	var id sdl.SystemCursor = sdl.SYSTEM_CURSOR_ARROW
	switch c {
	case sketch.CursorCross:
		id = sdl.SYSTEM_CURSOR_CROSSHAIR
	case sketch.CursorHand:
		id = sdl.SYSTEM_CURSOR_HAND
	case sketch.CursorText:
		id = sdl.SYSTEM_CURSOR_IBEAM
	}
	next := sdl.CreateSystemCursor(id)
	sdl.SetCursor(next)
	if w.sysCursor != nil {
		sdl.FreeCursor(w.sysCursor)
	}
	w.sysCursor = next
}

// Close destroys the GL context and the window and shuts SDL down.
func (w *Window) Close() error {
	if w.closed {
		return nil
	}
	w.closed = true
	if w.texture != 0 {
		gl.DeleteTextures(1, &w.texture)
		w.texture = 0
	}
	if w.sysCursor != nil {
		sdl.FreeCursor(w.sysCursor)
		w.sysCursor = nil
	}
	w.destroy()
	return nil
}

func (w *Window) destroy() {
	sdl.StopTextInput()
	if w.hasCtx {
		sdl.GLDeleteContext(w.ctx)
		w.hasCtx = false
	}
	if w.win != nil {
		_ = w.win.Destroy()
		w.win = nil
	}
	sdl.Quit()
	runtime.UnlockOSThread()
}
