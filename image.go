package sketch

import (
	"encoding/binary"
	"errors"
	"fmt"
	"hash/fnv"
	"image"
	"io"

	"github.com/gogpu/sketch/internal/codec"
	"github.com/gogpu/sketch/internal/filter"
)

// Quad holds pixel offsets of the four corners of an image in canvas
// orientation: 1 bottom-left, 2 bottom-right, 3 top-right, 4 top-left.
// A non-zero Quad distorts the image when it is drawn.
type Quad struct {
	DX1, DY1 float64
	DX2, DY2 float64
	DX3, DY3 float64
	DX4, DY4 float64
}

func (q Quad) filter() filter.Quad {
	return filter.Quad{q.DX1, q.DY1, q.DX2, q.DY2, q.DX3, q.DY3, q.DX4, q.DY4}
}

// Image is a handle to a texture. The texture stays valid until Destroy.
// A broken Image, produced when decoding fails, draws a checkerboard
// placeholder.
type Image struct {
	id            TextureID
	width, height int
	fingerprint   uint64

	// Quad distorts the corners when the image is drawn.
	Quad Quad

	owner     bool
	broken    bool
	destroyed bool
	err       error
}

// NewImage creates an Image from src, which may be a file path (string),
// encoded image data ([]byte), an image.Image, an *Image (copied), or
// *Pixels (copied).
//
// Decoding failures return an error wrapping ErrDecode together with a
// non-nil broken Image, so callers may keep drawing the placeholder.
func NewImage(src any) (*Image, error) {
	var (
		pix *image.NRGBA
		err error
		key string
	)
	switch s := src.(type) {
	case string:
		key = s
		pix, _, err = codec.Load(s)
	case []byte:
		pix, _, err = codec.Decode(s)
	case image.Image:
		if s == nil {
			return nil, fmt.Errorf("%w: nil image", ErrUsage)
		}
		pix = codec.ToNRGBA(s)
	case *Image:
		if s == nil {
			return nil, fmt.Errorf("%w: nil image", ErrUsage)
		}
		tex, terr := s.texture()
		if terr != nil {
			return nil, terr
		}
		img := newImage(codec.ToNRGBA(tex))
		img.Quad = s.Quad
		return img, nil
	case *Pixels:
		if s == nil {
			return nil, fmt.Errorf("%w: nil pixels", ErrUsage)
		}
		return newImage(s.image()), nil
	default:
		return nil, fmt.Errorf("%w: unsupported image source %T", ErrUsage, src)
	}
	if err != nil {
		img := brokenImage(err)
		if key == "" {
			key = fmt.Sprintf("%p", img)
		}
		warnOnce("decode:"+key, "sketch: image decode failed, drawing placeholder", "source", key, "err", err)
		return img, fmt.Errorf("%w: %w", ErrDecode, err)
	}
	return newImage(pix), nil
}

func newImage(pix *image.NRGBA) *Image {
	return &Image{
		id:          textures.upload(pix),
		width:       pix.Rect.Dx(),
		height:      pix.Rect.Dy(),
		fingerprint: hashPixels(pix),
		owner:       true,
	}
}

// placeholderSize is the edge length of the broken image checkerboard.
const placeholderSize = 16

func brokenImage(err error) *Image {
	pix := image.NewNRGBA(image.Rect(0, 0, placeholderSize, placeholderSize))
	for y := range placeholderSize {
		for x := range placeholderSize {
			i := pix.PixOffset(x, y)
			v := uint8(0xcc)
			if (x/4+y/4)%2 == 0 {
				pix.Pix[i], pix.Pix[i+1], pix.Pix[i+2] = 0xff, 0x00, 0xff
			} else {
				pix.Pix[i], pix.Pix[i+1], pix.Pix[i+2] = v, v, v
			}
			pix.Pix[i+3] = 0xff
		}
	}
	img := newImage(pix)
	img.broken = true
	img.err = err
	return img
}

func hashPixels(pix *image.NRGBA) uint64 {
	h := fnv.New64a()
	var buf [8]byte
	binary.LittleEndian.PutUint32(buf[:], uint32(pix.Rect.Dx()))  //nolint:gosec // image sizes are small
	binary.LittleEndian.PutUint32(buf[4:], uint32(pix.Rect.Dy())) //nolint:gosec // image sizes are small
	h.Write(buf[:])
	h.Write(pix.Pix)
	return h.Sum64()
}

// ID returns the texture id.
func (img *Image) ID() TextureID { return img.id }

// Width returns the natural width in pixels.
func (img *Image) Width() int { return img.width }

// Height returns the natural height in pixels.
func (img *Image) Height() int { return img.height }

// Fingerprint returns a content hash taken when the texture was last
// uploaded.
func (img *Image) Fingerprint() uint64 { return img.fingerprint }

// Broken reports whether the image is a placeholder for a failed decode.
func (img *Image) Broken() bool { return img.broken }

// Err returns the decode error of a broken image.
func (img *Image) Err() error { return img.err }

// Destroyed reports whether Destroy was called.
func (img *Image) Destroyed() bool { return img.destroyed }

func (img *Image) texture() (*image.NRGBA, error) {
	if img.destroyed {
		return nil, fmt.Errorf("%w: image %d was destroyed", ErrResource, img.id)
	}
	tex, ok := textures.get(img.id)
	if !ok {
		return nil, fmt.Errorf("%w: texture %d is gone", ErrResource, img.id)
	}
	return tex, nil
}

// Copy returns a handle sharing the texture of img. Destroying the copy
// does not release the texture.
func (img *Image) Copy() *Image {
	c := *img
	c.owner = false
	return &c
}

// Destroy releases the texture. Further use of the image returns an error
// wrapping ErrResource. Destroy is safe to call more than once.
func (img *Image) Destroy() {
	if img.destroyed {
		return
	}
	img.destroyed = true
	if img.owner {
		textures.release(img.id)
	}
}

// Image returns a copy of the texture as a standard image, rows top-down.
func (img *Image) Image() (*image.NRGBA, error) {
	tex, err := img.texture()
	if err != nil {
		return nil, err
	}
	return codec.ToNRGBA(tex), nil
}

// Resized returns a new image resampled to w x h.
func (img *Image) Resized(w, h int) (*Image, error) {
	if w < 1 || h < 1 {
		return nil, fmt.Errorf("%w: resize to %dx%d", ErrUsage, w, h)
	}
	tex, err := img.texture()
	if err != nil {
		return nil, err
	}
	return newImage(codec.Scale(tex, w, h)), nil
}

// Encode writes the texture to w as PNG.
func (img *Image) Encode(w io.Writer) error {
	tex, err := img.texture()
	if err != nil {
		return err
	}
	return codec.EncodePNG(w, tex)
}

// Save writes the texture to path, as JPEG for .jpg and .jpeg and PNG
// otherwise.
func (img *Image) Save(path string) error {
	tex, err := img.texture()
	if err != nil {
		return err
	}
	return codec.Save(path, tex)
}

// Pixels returns a mutable copy of the texture.
func (img *Image) Pixels() (*Pixels, error) {
	tex, err := img.texture()
	if err != nil {
		return nil, err
	}
	data := make([]byte, img.width*img.height*4)
	copy(data, codec.ToNRGBA(tex).Pix)
	return &Pixels{owner: img, width: img.width, height: img.height, data: data}, nil
}

// upload replaces the texture contents.
func (img *Image) upload(pix *image.NRGBA) error {
	if img.destroyed {
		return fmt.Errorf("%w: image %d was destroyed", ErrResource, img.id)
	}
	if !textures.replace(img.id, pix) {
		return fmt.Errorf("%w: texture %d is gone", ErrResource, img.id)
	}
	img.width, img.height = pix.Rect.Dx(), pix.Rect.Dy()
	img.fingerprint = hashPixels(pix)
	return nil
}

// IsDecodeError reports whether err came from a failed image decode.
func IsDecodeError(err error) bool { return errors.Is(err, ErrDecode) }
