package sketch

import (
	"context"
	"errors"
	"fmt"
	"image"
	"os"
	"slices"
	"time"

	"github.com/gogpu/sketch/internal/capture"
	"github.com/gogpu/sketch/internal/raster"
	"github.com/gogpu/sketch/text"
)

// Hook is a user callback of the canvas loop.
type Hook func(c *Canvas) error

type hooks struct {
	setup, update, draw, stop Hook

	mouse [chanScroll + 1]Hook
	key   [chanKeyType + 1]Hook
}

// Canvas owns the framebuffer, the graphics state and transform stacks,
// the layer list and the input state, and runs the frame loop.
//
// A Canvas is not safe for concurrent use. All drawing happens on the
// goroutine that calls Run or Frame, inside a hook.
type Canvas struct {
	cfg        Config
	clock      func() time.Time
	fonts      *text.Registry
	background Color

	fb      *image.NRGBA
	stacks  stacks
	targets []target
	filler  *raster.Filler

	layers []*Layer

	mouse    Mouse
	keyboard Keyboard
	actions  []action
	hover    *Layer
	pressed  *Layer
	keyFocus *Layer
	dragged  bool

	hooks hooks
	win   Window

	frame   uint64
	dropped uint64
	start   time.Time
	now     time.Time

	started bool
	stopped bool
	closed  bool
	done    bool
	inFrame bool

	capture *capture.Writer
	// owned lists the textures the canvas allocated itself.
	owned []TextureID

	err error
}

// NewCanvas creates a canvas configured by opts.
//
// Example:
//
//	c, err := sketch.NewCanvas(sketch.WithSize(500, 500), sketch.WithFPS(30))
//	if err != nil {
//	    log.Fatal(err)
//	}
//	c.OnDraw(func(c *sketch.Canvas) error {
//	    return c.Rect(100, 100, 200, 100)
//	})
//	err = c.Run(ctx, window)
func NewCanvas(opts ...CanvasOption) (*Canvas, error) {
	o := defaultCanvasOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if err := o.cfg.Validate(); err != nil {
		return nil, err
	}
	fonts := o.fonts
	if fonts == nil {
		fonts = text.Default()
	}
	c := &Canvas{
		cfg:        o.cfg,
		clock:      o.clock,
		fonts:      fonts,
		background: Hex(o.cfg.Background),
		fb:         image.NewNRGBA(image.Rect(0, 0, o.cfg.Width, o.cfg.Height)),
		stacks:     newStacks(),
		filler:     raster.NewFiller(),
	}
	c.mouse.Cursor = CursorDefault
	raster.Fill(c.fb, c.fb.Rect, c.background.raster())
	return c, nil
}

// NewCanvasFromConfig creates a canvas from a loaded configuration.
func NewCanvasFromConfig(cfg Config) (*Canvas, error) {
	return NewCanvas(WithConfig(cfg))
}

// Config returns the active configuration.
func (c *Canvas) Config() Config { return c.cfg }

// Width returns the framebuffer width in pixels.
func (c *Canvas) Width() int { return c.fb.Rect.Dx() }

// Height returns the framebuffer height in pixels.
func (c *Canvas) Height() int { return c.fb.Rect.Dy() }

// FPS returns the target frame rate.
func (c *Canvas) FPS() float64 { return c.cfg.FPS }

// SetFPS changes the target frame rate, clamped to (0, MaxFPS].
func (c *Canvas) SetFPS(fps float64) {
	if fps > 0 {
		c.cfg.FPS = min(fps, MaxFPS)
	}
}

// FrameCount returns the number of frames presented.
func (c *Canvas) FrameCount() uint64 { return c.frame }

// DroppedFrames returns the number of frames dropped by hook failures.
func (c *Canvas) DroppedFrames() uint64 { return c.dropped }

// Elapsed returns the time since Start as of the current frame.
func (c *Canvas) Elapsed() time.Duration {
	if !c.started {
		return 0
	}
	return c.now.Sub(c.start)
}

// Mouse returns the pointer state.
func (c *Canvas) Mouse() *Mouse { return &c.mouse }

// Keyboard returns the key state.
func (c *Canvas) Keyboard() *Keyboard { return &c.keyboard }

// Fonts returns the font registry used for text.
func (c *Canvas) Fonts() *text.Registry { return c.fonts }

// Window returns the attached window, or nil.
func (c *Canvas) Window() Window { return c.win }

// Attach makes w the source of events and the destination of presented
// frames. Drivers that run their own loop call Attach before Frame.
func (c *Canvas) Attach(w Window) {
	c.win = w
	if w == nil {
		return
	}
	if ww, wh := w.Size(); ww > 0 && wh > 0 && (ww != c.Width() || wh != c.Height()) {
		c.resize(ww, wh)
	}
}

// Err returns the most recent error reported by the canvas.
func (c *Canvas) Err() error { return c.err }

// report records err and logs it.
func (c *Canvas) report(err error) {
	if err == nil {
		return
	}
	c.err = err
	if errors.Is(err, ErrUserHook) {
		Logger().Error("sketch: dropped frame", "frame", c.frame, "err", err)
		return
	}
	Logger().Warn("sketch: canvas error", "frame", c.frame, "err", err)
}

// OnSetup sets the hook called once by Start.
func (c *Canvas) OnSetup(fn Hook) { c.hooks.setup = fn }

// OnUpdate sets the hook called every frame before events are dispatched.
func (c *Canvas) OnUpdate(fn Hook) { c.hooks.update = fn }

// OnDraw sets the hook called every frame to draw.
func (c *Canvas) OnDraw(fn Hook) { c.hooks.draw = fn }

// OnStop sets the hook called once by Stop.
func (c *Canvas) OnStop(fn Hook) { c.hooks.stop = fn }

// OnMousePress sets the hook called for every button press.
func (c *Canvas) OnMousePress(fn Hook) { c.hooks.mouse[chanPress] = fn }

// OnMouseRelease sets the hook called for every button release.
func (c *Canvas) OnMouseRelease(fn Hook) { c.hooks.mouse[chanRelease] = fn }

// OnMouseMotion sets the hook called for pointer motion without a button.
func (c *Canvas) OnMouseMotion(fn Hook) { c.hooks.mouse[chanMotion] = fn }

// OnMouseDrag sets the hook called for pointer motion with a button held.
func (c *Canvas) OnMouseDrag(fn Hook) { c.hooks.mouse[chanDrag] = fn }

// OnMouseScroll sets the hook called for wheel motion.
func (c *Canvas) OnMouseScroll(fn Hook) { c.hooks.mouse[chanScroll] = fn }

// OnKeyPress sets the hook called for every key press.
func (c *Canvas) OnKeyPress(fn Hook) { c.hooks.key[chanKeyPress] = fn }

// OnKeyRelease sets the hook called for every key release.
func (c *Canvas) OnKeyRelease(fn Hook) { c.hooks.key[chanKeyRelease] = fn }

// OnKeyType sets the hook called for typed text.
func (c *Canvas) OnKeyType(fn Hook) { c.hooks.key[chanKeyType] = fn }

// call runs a user callback, converting errors and panics into errors
// wrapping ErrUserHook.
func (c *Canvas) call(name string, fn func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %s: panic: %v", ErrUserHook, name, r)
		}
	}()
	if err := fn(); err != nil {
		return fmt.Errorf("%w: %s: %w", ErrUserHook, name, err)
	}
	return nil
}

func (c *Canvas) callHook(name string, h Hook) error {
	if h == nil {
		return nil
	}
	return c.call(name, func() error { return h(c) })
}

// checkDrawing returns an error wrapping ErrUsage when called before Start
// or after Stop.
func (c *Canvas) checkDrawing() error {
	if c.closed {
		return ErrClosed
	}
	if !c.inFrame && (!c.started || c.stopped) {
		err := fmt.Errorf("%w: drawing outside a frame", ErrUsage)
		c.report(err)
		return err
	}
	return nil
}

// Start runs the setup hook once and opens the capture file. A failing
// setup hook is reported and does not stop the canvas.
func (c *Canvas) Start() error {
	if c.closed {
		return ErrClosed
	}
	if c.started {
		return nil
	}
	c.started = true
	c.start = c.clock()
	c.now = c.start
	if c.cfg.CaptureFile != "" {
		f, err := os.Create(c.cfg.CaptureFile)
		if err != nil {
			err = fmt.Errorf("%w: capture file: %w", ErrResource, err)
			c.report(err)
			return err
		}
		c.capture = capture.NewWriter(f)
	}
	Logger().Info("sketch: canvas started", "width", c.Width(), "height", c.Height(), "fps", c.cfg.FPS)
	c.inFrame = true
	defer func() { c.inFrame = false }()
	depth := c.stacks.depth()
	if err := c.callHook("setup", c.hooks.setup); err != nil {
		c.report(err)
	}
	c.stacks.truncate(depth)
	return nil
}

// Stop runs the stop hook once and closes the capture file. It returns
// the hook error.
func (c *Canvas) Stop() error {
	if !c.started || c.stopped {
		return nil
	}
	c.stopped = true
	c.inFrame = true
	err := c.callHook("stop", c.hooks.stop)
	c.inFrame = false
	c.stacks.truncate(0)
	c.report(err)
	if c.capture != nil {
		if cerr := c.capture.Close(); cerr != nil {
			c.report(fmt.Errorf("%w: capture file: %w", ErrResource, cerr))
		}
		c.capture = nil
	}
	Logger().Info("sketch: canvas stopped", "frames", c.frame, "dropped", c.dropped)
	return err
}

// SetDone asks the loop to end after the current frame.
func (c *Canvas) SetDone() { c.done = true }

// Done reports whether the loop was asked to end.
func (c *Canvas) Done() bool { return c.done }

// Run drives the loop on w: Start, then one Frame per tick at the target
// frame rate until SetDone, a QuitEvent, or ctx is cancelled, then Stop.
// Hook failures are logged and never end the loop. Run returns the usage
// error of an unbalanced frame, or ctx.Err() on cancellation.
func (c *Canvas) Run(ctx context.Context, w Window) error {
	if w == nil {
		return fmt.Errorf("%w: nil window", ErrUsage)
	}
	c.Attach(w)
	if err := c.Start(); err != nil {
		return err
	}
	defer func() { _ = c.Stop() }()

	ticker := time.NewTicker(c.interval())
	defer ticker.Stop()
	fps := c.cfg.FPS
	for !c.done {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := c.Frame(c.clock()); err != nil {
			return err
		}
		if c.done {
			break
		}
		if c.cfg.FPS != fps {
			fps = c.cfg.FPS
			ticker.Reset(c.interval())
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
	return nil
}

func (c *Canvas) interval() time.Duration {
	return time.Duration(float64(time.Second) / c.cfg.FPS)
}

// Frame runs one iteration of the loop at time now: drain events, advance
// tweens, update, clear, dispatch events, draw, draw layers, present and
// capture.
//
// A failing hook drops the frame and is reported through Err. An
// unbalanced push or pop in the draw hook resets the stacks and returns
// an error wrapping ErrUsage.
func (c *Canvas) Frame(now time.Time) error {
	if c.closed {
		return ErrClosed
	}
	if !c.started {
		if err := c.Start(); err != nil {
			return err
		}
	}
	c.now = now
	c.drain()

	c.inFrame = true
	defer func() { c.inFrame = false }()
	c.stacks.truncate(0)
	c.stacks.transforms[0] = Identity()

	if err := c.frameBody(); err != nil {
		c.stacks.truncate(0)
		c.unbindAll()
		if errors.Is(err, ErrUserHook) {
			c.dropped++
			c.report(err)
			return nil
		}
		c.report(err)
		return err
	}
	c.present()
	c.frame++
	return nil
}

func (c *Canvas) frameBody() error {
	for _, l := range c.layers {
		if err := c.updateLayer(l); err != nil {
			return err
		}
	}
	if err := c.callHook("update", c.hooks.update); err != nil {
		return err
	}
	if c.stacks.depth() != 0 {
		return fmt.Errorf("%w: update left %d unpopped pushes", ErrUsage, c.stacks.depth())
	}
	if c.cfg.ClearOnFrame {
		raster.Fill(c.fb, c.fb.Rect, c.background.raster())
	}
	if err := c.dispatch(); err != nil {
		return err
	}
	if err := c.callHook("draw", c.hooks.draw); err != nil {
		return err
	}
	if d := c.stacks.depth(); d != 0 {
		return fmt.Errorf("%w: draw left %d unpopped pushes", ErrUsage, d)
	}
	if n := len(c.targets); n != 0 {
		return fmt.Errorf("%w: draw left %d offscreen buffers bound", ErrUsage, n)
	}
	for _, l := range c.layers {
		if err := c.drawLayer(l); err != nil {
			return err
		}
	}
	return nil
}

// unbindAll releases every bound offscreen buffer.
func (c *Canvas) unbindAll() {
	for _, t := range c.targets {
		t.buf.bound = false
		t.buf.tex.fingerprint = hashPixels(t.pix)
	}
	c.targets = c.targets[:0]
}

func (c *Canvas) present() {
	if c.win != nil {
		if err := c.win.Present(c.fb); err != nil {
			c.report(fmt.Errorf("%w: present: %w", ErrResource, err))
		}
		if cs, ok := c.win.(CursorSetter); ok {
			cs.SetCursor(c.mouse.Cursor)
		}
	}
	if c.capture != nil {
		if err := c.capture.WriteFrame(c.frame, c.fb); err != nil {
			c.report(fmt.Errorf("%w: capture: %w", ErrResource, err))
			_ = c.capture.Close()
			c.capture = nil
		}
	}
}

// SetCursor changes the pointer shape shown by windows that support it.
func (c *Canvas) SetCursor(cur Cursor) { c.mouse.Cursor = cur }

// Screenshot returns a copy of the framebuffer. The image belongs to the
// canvas and is released by Close unless destroyed earlier.
func (c *Canvas) Screenshot() (*Image, error) {
	if c.closed {
		return nil, ErrClosed
	}
	cp := image.NewNRGBA(c.fb.Rect)
	copy(cp.Pix, c.fb.Pix)
	img := newImage(cp)
	c.owned = append(c.owned, img.id)
	return img, nil
}

// Framebuffer returns the framebuffer. It is overwritten by the next frame.
func (c *Canvas) Framebuffer() *image.NRGBA { return c.fb }

func (c *Canvas) resize(w, h int) {
	if w < 1 || h < 1 {
		return
	}
	c.cfg.Width, c.cfg.Height = w, h
	c.fb = image.NewNRGBA(image.Rect(0, 0, w, h))
	raster.Fill(c.fb, c.fb.Rect, c.background.raster())
}

// Close stops the canvas and releases the textures the canvas allocated
// that are still live. Images created by callers are left alone. Using
// the canvas afterwards returns ErrClosed.
func (c *Canvas) Close() error {
	if c.closed {
		return nil
	}
	err := c.Stop()
	c.closed = true
	if n := textures.releaseAll(c.owned); n > 0 {
		Logger().Debug("sketch: released textures", "count", n)
	}
	c.owned = nil
	return err
}

// Append adds layers on top of the canvas layer list. A layer that has a
// parent is detached from it first.
func (c *Canvas) Append(layers ...*Layer) error {
	for _, l := range layers {
		if l == nil {
			return fmt.Errorf("%w: nil layer", ErrUsage)
		}
		if l.parent != nil {
			l.parent.Remove(l)
		}
		c.layers = slices.DeleteFunc(c.layers, func(x *Layer) bool { return x == l })
		c.layers = append(c.layers, l)
	}
	return nil
}

// Remove detaches l from the canvas layer list.
func (c *Canvas) Remove(l *Layer) bool {
	i := slices.Index(c.layers, l)
	if i < 0 {
		return false
	}
	c.layers = slices.Delete(c.layers, i, i+1)
	return true
}

// Layers returns a copy of the canvas layer list in drawing order.
func (c *Canvas) Layers() []*Layer { return slices.Clone(c.layers) }

// LayerAt returns the topmost enabled layer at canvas point (x, y), or nil.
func (c *Canvas) LayerAt(x, y float64) *Layer {
	for _, l := range slices.Backward(c.layers) {
		if hit := l.LayerAt(x, y, true); hit != nil {
			return hit
		}
	}
	return nil
}

// Hovered returns the layer under the pointer as of the last dispatch.
func (c *Canvas) Hovered() *Layer { return c.hover }

// Focus gives keyboard focus to l. Nil broadcasts key events to all
// layers.
func (c *Canvas) Focus(l *Layer) { c.keyFocus = l }

// Focused returns the layer with keyboard focus, or nil.
func (c *Canvas) Focused() *Layer { return c.keyFocus }

// attached reports whether l is in the canvas tree and every layer on its
// path is enabled.
func (c *Canvas) attached(l *Layer) bool {
	if l == nil {
		return false
	}
	for p := l; p != nil; p = p.parent {
		if !p.enabled {
			return false
		}
		if p.parent == nil {
			return slices.Contains(c.layers, p)
		}
	}
	return false
}

func (c *Canvas) updateLayer(l *Layer) error {
	l.step()
	if fn := l.handlers.Update; fn != nil {
		if err := c.call(l.name+" update", func() error { return fn(l, c) }); err != nil {
			return err
		}
	}
	if u, ok := l.behavior.(Updater); ok {
		if err := c.call(l.name+" update", func() error { return u.Update(l, c) }); err != nil {
			return err
		}
	}
	for _, child := range l.children {
		if err := c.updateLayer(child); err != nil {
			return err
		}
	}
	return nil
}

// drawLayer draws l and its children under the layer transform, with the
// layer opacity multiplied into the state alpha.
func (c *Canvas) drawLayer(l *Layer) error {
	if l.hidden {
		return nil
	}
	depth := c.stacks.depth()
	c.Push()
	defer c.stacks.truncate(depth)
	t := c.stacks.transform()
	*t = t.Multiply(l.Transform())
	c.stacks.state().Alpha *= l.Opacity()

	if fn := l.handlers.Draw; fn != nil {
		if err := c.call(l.name+" draw", func() error { return fn(l, c) }); err != nil {
			return err
		}
	}
	if l.behavior != nil {
		if err := c.call(l.name+" draw", func() error { return l.behavior.Draw(l, c) }); err != nil {
			return err
		}
	}
	for _, child := range l.children {
		if err := c.drawLayer(child); err != nil {
			return err
		}
	}
	return nil
}
