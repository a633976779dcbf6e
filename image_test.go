package sketch

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/png"
	"path/filepath"
	"testing"
)

func solidImage(t *testing.T, w, h int, c color.NRGBA) *Image {
	t.Helper()
	pix := image.NewNRGBA(image.Rect(0, 0, w, h))
	for i := 0; i < len(pix.Pix); i += 4 {
		pix.Pix[i], pix.Pix[i+1], pix.Pix[i+2], pix.Pix[i+3] = c.R, c.G, c.B, c.A
	}
	img, err := NewImage(pix)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(img.Destroy)
	return img
}

func TestNewImageSources(t *testing.T) {
	src := testImage(t, 5, 3)
	pix, err := src.Image()
	if err != nil {
		t.Fatal(err)
	}
	var encoded bytes.Buffer
	if err := png.Encode(&encoded, pix); err != nil {
		t.Fatal(err)
	}
	pixels, err := src.Pixels()
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name string
		src  any
	}{
		{"image.Image", pix},
		{"png bytes", encoded.Bytes()},
		{"*Image", src},
		{"*Pixels", pixels},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			img, err := NewImage(tt.src)
			if err != nil {
				t.Fatalf("NewImage() = %v", err)
			}
			defer img.Destroy()
			if img.Width() != 5 || img.Height() != 3 {
				t.Errorf("size = %dx%d, want 5x3", img.Width(), img.Height())
			}
			if img.Fingerprint() != src.Fingerprint() {
				t.Error("fingerprint differs from source")
			}
		})
	}
}

func TestNewImageDecodeFailure(t *testing.T) {
	tests := []struct {
		name string
		src  any
	}{
		{"garbage bytes", []byte("not an image")},
		{"missing file", filepath.Join(t.TempDir(), "missing.png")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			img, err := NewImage(tt.src)
			if !IsDecodeError(err) {
				t.Fatalf("NewImage() = %v, want decode error", err)
			}
			if img == nil || !img.Broken() {
				t.Fatal("expected a broken placeholder image")
			}
			defer img.Destroy()
			if img.Width() == 0 || img.Height() == 0 {
				t.Error("placeholder has no size")
			}
		})
	}
}

func TestNewImageUsageErrors(t *testing.T) {
	for _, src := range []any{42, (*Image)(nil), (*Pixels)(nil)} {
		if _, err := NewImage(src); !errors.Is(err, ErrUsage) {
			t.Errorf("NewImage(%T) = %v, want ErrUsage", src, err)
		}
	}
}

func TestPixelsRoundTrip(t *testing.T) {
	img := testImage(t, 7, 4)
	before, err := img.Image()
	if err != nil {
		t.Fatal(err)
	}
	p, err := img.Pixels()
	if err != nil {
		t.Fatal(err)
	}
	if err := p.Update(); err != nil {
		t.Fatal(err)
	}
	after, err := img.Image()
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(before.Pix, after.Pix) {
		t.Error("Pixels().Update() changed the image")
	}
}

func TestPixelsOrientation(t *testing.T) {
	img := solidImage(t, 3, 2, color.NRGBA{A: 255})
	p, err := img.Pixels()
	if err != nil {
		t.Fatal(err)
	}
	p.SetAt(0, 0, Red)
	if err := p.Update(); err != nil {
		t.Fatal(err)
	}
	pix, err := img.Image()
	if err != nil {
		t.Fatal(err)
	}
	// y = 0 is the bottom row, the last row of the image.
	if got := pix.NRGBAAt(0, 1); got != (color.NRGBA{R: 255, A: 255}) {
		t.Errorf("bottom-left = %v, want red", got)
	}
	if got := p.At(0, 0); got != Red {
		t.Errorf("At(0, 0) = %v, want red", got)
	}
	if got := p.Get(3); got != Red {
		t.Errorf("Get(3) = %v, want red", got)
	}
	if got := p.At(5, 5); got != Transparent {
		t.Errorf("out of range At = %v, want transparent", got)
	}
}

func TestImageDestroy(t *testing.T) {
	img := testImage(t, 2, 2)
	cp := img.Copy()
	cp.Destroy()
	if _, err := img.Image(); err != nil {
		t.Fatalf("destroying a copy released the texture: %v", err)
	}
	p, err := img.Pixels()
	if err != nil {
		t.Fatal(err)
	}
	img.Destroy()
	img.Destroy()
	if _, err := img.Image(); !errors.Is(err, ErrResource) {
		t.Errorf("Image() after Destroy = %v, want ErrResource", err)
	}
	if err := p.Update(); !errors.Is(err, ErrResource) {
		t.Errorf("Update() after Destroy = %v, want ErrResource", err)
	}
}

func colorNear(a, b color.NRGBA, tol int) bool {
	d := func(x, y uint8) bool { return absDiff(float64(x), float64(y)) <= float64(tol) }
	return d(a.R, b.R) && d(a.G, b.G) && d(a.B, b.B) && d(a.A, b.A)
}

func TestCanvasImage(t *testing.T) {
	red := color.NRGBA{R: 255, A: 255}
	tests := []struct {
		name string
		opts []DrawOption
		want color.NRGBA
	}{
		{"plain", nil, red},
		{"inverted", []DrawOption{WithFilter(Inverted())}, color.NRGBA{G: 255, B: 255, A: 255}},
		{"half alpha", []DrawOption{WithAlpha(0.5)}, color.NRGBA{R: 255, G: 128, B: 128, A: 255}},
		{"color keeps alpha", []DrawOption{WithColor(Color{R: 0.5, G: 1, B: 1, A: 0})}, color.NRGBA{R: 128, A: 255}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, win, clk := newTestCanvas(t, 10, 10)
			img := solidImage(t, 2, 2, red)
			opts := append([]DrawOption{WithImageSize(4, 4)}, tt.opts...)
			c.OnDraw(func(c *Canvas) error { return c.Image(img, 0, 0, opts...) })
			frame(t, c, clk)
			fb := win.LastFrame()
			if got := fb.NRGBAAt(1, 8); !colorNear(got, tt.want, 2) {
				t.Errorf("inside pixel = %v, want %v", got, tt.want)
			}
			if got := fb.NRGBAAt(8, 1); got != (color.NRGBA{R: 255, G: 255, B: 255, A: 255}) {
				t.Errorf("outside pixel = %v, want white", got)
			}
		})
	}
}

func TestCanvasImageDestroyed(t *testing.T) {
	c, _, clk := newTestCanvas(t, 10, 10)
	img := testImage(t, 2, 2)
	img.Destroy()
	var drawErr error
	c.OnDraw(func(c *Canvas) error {
		drawErr = c.Image(img, 0, 0)
		return nil
	})
	frame(t, c, clk)
	if !errors.Is(drawErr, ErrResource) {
		t.Errorf("Image() = %v, want ErrResource", drawErr)
	}
}

func TestOffscreenBuffer(t *testing.T) {
	if _, err := NewOffscreenBuffer(0, 4); !errors.Is(err, ErrUsage) {
		t.Errorf("NewOffscreenBuffer(0, 4) = %v, want ErrUsage", err)
	}

	c, _, clk := newTestCanvas(t, 10, 10)
	b, err := NewOffscreenBuffer(4, 4)
	if err != nil {
		t.Fatal(err)
	}
	var destroyErr, rebindErr error
	c.OnDraw(func(c *Canvas) error {
		return c.Offscreen(b, func() error {
			destroyErr = b.Destroy()
			rebindErr = c.PushBuffer(b)
			return c.Rect(0, 0, 4, 4, WithFill(Red))
		})
	})
	frame(t, c, clk)
	if !errors.Is(destroyErr, ErrUsage) {
		t.Errorf("Destroy() while bound = %v, want ErrUsage", destroyErr)
	}
	if !errors.Is(rebindErr, ErrUsage) {
		t.Errorf("PushBuffer() twice = %v, want ErrUsage", rebindErr)
	}
	if b.Bound() {
		t.Error("buffer still bound after Offscreen")
	}
	pix, err := b.Texture().Image()
	if err != nil {
		t.Fatal(err)
	}
	for y := range 4 {
		for x := range 4 {
			if got := pix.NRGBAAt(x, y); got != (color.NRGBA{R: 255, A: 255}) {
				t.Fatalf("buffer pixel (%d, %d) = %v, want red", x, y, got)
			}
		}
	}
	if got := c.Framebuffer().NRGBAAt(0, 9); got != (color.NRGBA{R: 255, G: 255, B: 255, A: 255}) {
		t.Errorf("framebuffer touched by offscreen drawing: %v", got)
	}
	if err := b.Destroy(); err != nil {
		t.Errorf("Destroy() = %v", err)
	}
}

func TestUnpoppedBufferFailsFrame(t *testing.T) {
	c, _, clk := newTestCanvas(t, 10, 10)
	b, err := NewOffscreenBuffer(2, 2)
	if err != nil {
		t.Fatal(err)
	}
	c.OnDraw(func(c *Canvas) error { return c.PushBuffer(b) })
	clk.Advance(1)
	if err := c.Frame(clk.Now()); !errors.Is(err, ErrUsage) {
		t.Errorf("Frame() = %v, want ErrUsage", err)
	}
	if b.Bound() {
		t.Error("buffer left bound after failed frame")
	}
}

func TestImageResized(t *testing.T) {
	img := solidImage(t, 4, 2, color.NRGBA{R: 255, A: 255})
	big, err := img.Resized(8, 6)
	if err != nil {
		t.Fatal(err)
	}
	defer big.Destroy()
	if big.Width() != 8 || big.Height() != 6 {
		t.Errorf("Resized() = %dx%d, want 8x6", big.Width(), big.Height())
	}
	if big.ID() == img.ID() {
		t.Error("Resized shares the source texture")
	}
	if _, err := img.Resized(0, 3); !errors.Is(err, ErrUsage) {
		t.Errorf("Resized(0, 3) = %v, want ErrUsage", err)
	}
	img.Destroy()
	if _, err := img.Resized(2, 2); !errors.Is(err, ErrResource) {
		t.Errorf("Resized() after Destroy = %v, want ErrResource", err)
	}
}
