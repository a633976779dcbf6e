// Package codec decodes and encodes raster images.
//
// Decoding recognizes PNG, JPEG, GIF (first frame), BMP, TIFF, WebP and
// DDS textures compressed with DXT1 or DXT5. Every decoder returns a
// straight-alpha RGBA8 image with its origin at (0, 0).
package codec

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"image"
	_ "image/gif" // register GIF
	"image/jpeg"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/mauserzjeh/dxt"
	_ "golang.org/x/image/bmp" // register BMP
	"golang.org/x/image/draw"
	_ "golang.org/x/image/tiff" // register TIFF
	_ "golang.org/x/image/webp" // register WebP
)

// Errors.
var (
	// ErrUnsupportedFormat is returned when no decoder recognizes the data.
	ErrUnsupportedFormat = errors.New("codec: unsupported format")

	// ErrEmptyData is returned for empty input.
	ErrEmptyData = errors.New("codec: empty data")
)

// Load decodes the image file at path.
func Load(path string) (*image.NRGBA, string, error) {
	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, "", fmt.Errorf("codec: read file: %w", err)
	}
	return Decode(data)
}

// Decode decodes data, detecting the format from its content. It returns
// the image and the format name.
func Decode(data []byte) (*image.NRGBA, string, error) {
	if len(data) == 0 {
		return nil, "", ErrEmptyData
	}
	if IsDDS(data) {
		img, err := DecodeDDS(data)
		return img, "dds", err
	}
	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		if errors.Is(err, image.ErrFormat) {
			return nil, "", fmt.Errorf("%w: %v", ErrUnsupportedFormat, err)
		}
		return nil, format, fmt.Errorf("codec: decode %s: %w", format, err)
	}
	return ToNRGBA(img), format, nil
}

// ToNRGBA converts img to a fresh straight-alpha image at the origin.
func ToNRGBA(img image.Image) *image.NRGBA {
	b := img.Bounds()
	out := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(out, out.Rect, img, b.Min, draw.Src)
	return out
}

// Scale resamples img to w x h with a Catmull-Rom filter.
func Scale(img image.Image, w, h int) *image.NRGBA {
	out := image.NewNRGBA(image.Rect(0, 0, w, h))
	draw.CatmullRom.Scale(out, out.Rect, img, img.Bounds(), draw.Src, nil)
	return out
}

// DDS header layout.
const (
	ddsMagic      = "DDS "
	ddsHeaderSize = 128
	ddsFlagFourCC = 0x4
)

// IsDDS reports whether data starts with the DDS magic.
func IsDDS(data []byte) bool {
	return len(data) >= 4 && string(data[:4]) == ddsMagic
}

// DecodeDDS decodes the top mip level of a DXT1 or DXT5 DDS texture.
func DecodeDDS(data []byte) (*image.NRGBA, error) {
	if !IsDDS(data) || len(data) < ddsHeaderSize {
		return nil, fmt.Errorf("%w: truncated DDS header", ErrUnsupportedFormat)
	}
	h := binary.LittleEndian.Uint32(data[12:])
	w := binary.LittleEndian.Uint32(data[16:])
	flags := binary.LittleEndian.Uint32(data[80:])
	fourCC := string(data[84:88])
	if w == 0 || h == 0 || w > 1<<14 || h > 1<<14 {
		return nil, fmt.Errorf("%w: DDS size %dx%d", ErrUnsupportedFormat, w, h)
	}
	if flags&ddsFlagFourCC == 0 {
		return nil, fmt.Errorf("%w: uncompressed DDS", ErrUnsupportedFormat)
	}

	blocks := uint64((w+3)/4) * uint64((h+3)/4)
	payload := data[ddsHeaderSize:]
	var (
		pix []byte
		err error
	)
	switch fourCC {
	case "DXT1":
		if uint64(len(payload)) < blocks*8 {
			return nil, fmt.Errorf("%w: truncated DXT1 data", ErrUnsupportedFormat)
		}
		pix, err = dxt.DecodeDXT1(payload[:blocks*8], uint(w), uint(h))
	case "DXT5":
		if uint64(len(payload)) < blocks*16 {
			return nil, fmt.Errorf("%w: truncated DXT5 data", ErrUnsupportedFormat)
		}
		pix, err = dxt.DecodeDXT5(payload[:blocks*16], uint(w), uint(h))
	default:
		return nil, fmt.Errorf("%w: DDS format %q", ErrUnsupportedFormat, strings.TrimRight(fourCC, "\x00"))
	}
	if err != nil {
		return nil, fmt.Errorf("codec: decode DDS: %w", err)
	}
	if len(pix) < int(w*h*4) {
		return nil, fmt.Errorf("codec: decode DDS: %d bytes for %dx%d", len(pix), w, h)
	}
	img := image.NewNRGBA(image.Rect(0, 0, int(w), int(h)))
	copy(img.Pix, pix)
	return img, nil
}

// EncodePNG writes img as PNG.
func EncodePNG(w io.Writer, img image.Image) error {
	if err := png.Encode(w, img); err != nil {
		return fmt.Errorf("codec: encode PNG: %w", err)
	}
	return nil
}

// EncodeJPEG writes img as JPEG with the given quality (1-100).
func EncodeJPEG(w io.Writer, img image.Image, quality int) error {
	if err := jpeg.Encode(w, img, &jpeg.Options{Quality: quality}); err != nil {
		return fmt.Errorf("codec: encode JPEG: %w", err)
	}
	return nil
}

// Save writes img to path. The format follows the extension: .jpg and
// .jpeg write JPEG, everything else PNG.
func Save(path string, img image.Image) (err error) {
	f, err := os.Create(filepath.Clean(path))
	if err != nil {
		return fmt.Errorf("codec: create file: %w", err)
	}
	defer func() {
		if cerr := f.Close(); err == nil && cerr != nil {
			err = fmt.Errorf("codec: close file: %w", cerr)
		}
	}()
	switch strings.ToLower(filepath.Ext(path)) {
	case ".jpg", ".jpeg":
		return EncodeJPEG(f, img, 90)
	}
	return EncodePNG(f, img)
}
