package sketch

import (
	"fmt"
	"image"
)

// OffscreenBuffer is a color texture that can be bound as the drawing
// target of a canvas.
type OffscreenBuffer struct {
	tex   *Image
	bound bool
}

// NewOffscreenBuffer allocates a transparent w x h buffer.
func NewOffscreenBuffer(w, h int) (*OffscreenBuffer, error) {
	if w < 1 || h < 1 {
		return nil, fmt.Errorf("%w: offscreen buffer size %dx%d", ErrUsage, w, h)
	}
	return &OffscreenBuffer{tex: newImage(image.NewNRGBA(image.Rect(0, 0, w, h)))}, nil
}

// Width returns the width in pixels.
func (b *OffscreenBuffer) Width() int { return b.tex.width }

// Height returns the height in pixels.
func (b *OffscreenBuffer) Height() int { return b.tex.height }

// Bound reports whether the buffer is the target of a canvas.
func (b *OffscreenBuffer) Bound() bool { return b.bound }

// Texture returns the Image attached to the buffer without copying. It
// reflects later drawing into the buffer.
func (b *OffscreenBuffer) Texture() *Image { return b.tex.Copy() }

// Image returns an independent copy of the current contents.
func (b *OffscreenBuffer) Image() (*Image, error) { return NewImage(b.tex) }

// Clear fills the buffer with transparent pixels.
func (b *OffscreenBuffer) Clear() error {
	pix, err := b.tex.texture()
	if err != nil {
		return err
	}
	clear(pix.Pix)
	return nil
}

// Destroy releases the texture. Destroying a bound buffer is a usage
// error.
func (b *OffscreenBuffer) Destroy() error {
	if b.bound {
		return fmt.Errorf("%w: destroying a bound offscreen buffer", ErrUsage)
	}
	b.tex.Destroy()
	return nil
}

// target is a drawing destination: the window framebuffer or a bound
// offscreen buffer.
type target struct {
	pix *image.NRGBA
	buf *OffscreenBuffer
}

// projection maps canvas coordinates (y up) to pixel rows (y down).
func (t target) projection() Transform {
	return Transform{A: 1, E: -1, F: float64(t.pix.Rect.Dy())}
}

func (c *Canvas) target() target {
	if n := len(c.targets); n > 0 {
		return c.targets[n-1]
	}
	return target{pix: c.fb}
}

// PushBuffer makes b the drawing target until the matching PopBuffer.
// Binding a buffer that is already bound is a usage error.
func (c *Canvas) PushBuffer(b *OffscreenBuffer) error {
	if b == nil {
		return fmt.Errorf("%w: nil offscreen buffer", ErrUsage)
	}
	if b.bound {
		return fmt.Errorf("%w: offscreen buffer already bound", ErrUsage)
	}
	pix, err := b.tex.texture()
	if err != nil {
		return err
	}
	b.bound = true
	c.targets = append(c.targets, target{pix: pix, buf: b})
	return nil
}

// PopBuffer restores the previous drawing target. Popping with no buffer
// bound is a usage error.
func (c *Canvas) PopBuffer() error {
	n := len(c.targets)
	if n == 0 {
		err := fmt.Errorf("%w: PopBuffer without bound buffer", ErrUsage)
		c.report(err)
		return err
	}
	top := c.targets[n-1]
	top.buf.bound = false
	top.buf.tex.fingerprint = hashPixels(top.pix)
	c.targets = c.targets[:n-1]
	return nil
}

// Offscreen draws fn into b, unbinding it on every exit path.
func (c *Canvas) Offscreen(b *OffscreenBuffer, fn func() error) error {
	if err := c.PushBuffer(b); err != nil {
		return err
	}
	depth := len(c.targets)
	defer func() {
		for len(c.targets) >= depth {
			_ = c.PopBuffer()
		}
	}()
	return fn()
}
