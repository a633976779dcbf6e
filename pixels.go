package sketch

import (
	"fmt"
	"image"
)

// Pixels is a mutable RGBA8 copy of an Image texture. Rows are stored
// top-down in Data; At and SetAt use canvas orientation with y up.
type Pixels struct {
	owner         *Image
	width, height int
	data          []byte
}

// Width returns the width in pixels.
func (p *Pixels) Width() int { return p.width }

// Height returns the height in pixels.
func (p *Pixels) Height() int { return p.height }

// Len returns the number of pixels.
func (p *Pixels) Len() int { return p.width * p.height }

// Data returns the raw straight-alpha RGBA8 bytes, rows top-down. The
// slice aliases the buffer; changes take effect on the next Update.
func (p *Pixels) Data() []byte { return p.data }

// Get returns the pixel at index i, counting row by row from the top-left.
func (p *Pixels) Get(i int) Color {
	if i < 0 || i >= p.Len() {
		return Transparent
	}
	o := i * 4
	return NewColor(float64(p.data[o])/255, float64(p.data[o+1])/255, float64(p.data[o+2])/255, float64(p.data[o+3])/255)
}

// Set writes the pixel at index i. Out-of-range indices are ignored.
func (p *Pixels) Set(i int, c Color) {
	if i < 0 || i >= p.Len() {
		return
	}
	n := c.NRGBA()
	o := i * 4
	p.data[o], p.data[o+1], p.data[o+2], p.data[o+3] = n.R, n.G, n.B, n.A
}

func (p *Pixels) index(x, y int) int {
	if x < 0 || y < 0 || x >= p.width || y >= p.height {
		return -1
	}
	return (p.height-1-y)*p.width + x
}

// At returns the pixel at (x, y) with y = 0 the bottom row.
func (p *Pixels) At(x, y int) Color { return p.Get(p.index(x, y)) }

// SetAt writes the pixel at (x, y) with y = 0 the bottom row.
func (p *Pixels) SetAt(x, y int, c Color) { p.Set(p.index(x, y), c) }

// Image returns the image the pixels were read from.
func (p *Pixels) Image() *Image { return p.owner }

func (p *Pixels) image() *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, p.width, p.height))
	copy(img.Pix, p.data)
	return img
}

// Update uploads the pixels to the texture of the owning image. It returns
// an error wrapping ErrResource after the image was destroyed.
func (p *Pixels) Update() error {
	if p.owner == nil {
		return fmt.Errorf("%w: pixels have no image", ErrResource)
	}
	return p.owner.upload(p.image())
}
