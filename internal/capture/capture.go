// Package capture reads and writes frame capture streams.
//
// A stream starts with the magic "SKCAP1". Each record is a little-endian
// header (width, height uint32, frame index uint64, compressed size uint32)
// followed by the RGBA8 rows of the frame, lz4 block-compressed. A
// compressed size of zero means the rows are stored raw.
package capture

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"image"
	"io"

	"github.com/pierrec/lz4/v4"
)

// Magic identifies a capture stream.
const Magic = "SKCAP1"

const headerSize = 4 + 4 + 8 + 4

// maxDim bounds frame dimensions accepted by the reader.
const maxDim = 1 << 14

// ErrFormat is returned for streams that are not capture streams or are
// corrupt.
var ErrFormat = errors.New("capture: invalid stream")

// Frame is one captured frame.
type Frame struct {
	Index uint64
	Image *image.NRGBA
}

// Writer appends frames to a capture stream.
type Writer struct {
	w       *bufio.Writer
	closer  io.Closer
	scratch []byte
	started bool
	closed  bool
}

// NewWriter returns a Writer on w. If w is an io.Closer, Close closes it.
func NewWriter(w io.Writer) *Writer {
	cw := &Writer{w: bufio.NewWriter(w)}
	if c, ok := w.(io.Closer); ok {
		cw.closer = c
	}
	return cw
}

// WriteFrame appends img as frame index.
func (cw *Writer) WriteFrame(index uint64, img *image.NRGBA) error {
	if cw.closed {
		return fmt.Errorf("capture: write after close")
	}
	if !cw.started {
		if _, err := cw.w.WriteString(Magic); err != nil {
			return err
		}
		cw.started = true
	}

	w, h := img.Rect.Dx(), img.Rect.Dy()
	raw := rows(img)
	bound := lz4.CompressBlockBound(len(raw))
	if cap(cw.scratch) < bound {
		cw.scratch = make([]byte, bound)
	}
	dst := cw.scratch[:bound]
	n, err := lz4.CompressBlock(raw, dst, nil)
	if err != nil {
		return fmt.Errorf("capture: compress frame %d: %w", index, err)
	}

	var hdr [headerSize]byte
	binary.LittleEndian.PutUint32(hdr[0:], uint32(w))  //nolint:gosec // bounded by image size
	binary.LittleEndian.PutUint32(hdr[4:], uint32(h))  //nolint:gosec // bounded by image size
	binary.LittleEndian.PutUint64(hdr[8:], index)
	binary.LittleEndian.PutUint32(hdr[16:], uint32(n)) //nolint:gosec // bounded by CompressBlockBound
	if _, err := cw.w.Write(hdr[:]); err != nil {
		return err
	}
	payload := raw
	if n > 0 {
		payload = dst[:n]
	}
	_, err = cw.w.Write(payload)
	return err
}

// Close flushes buffered frames and closes the underlying writer. It is
// safe to call more than once.
func (cw *Writer) Close() error {
	if cw.closed {
		return nil
	}
	cw.closed = true
	err := cw.w.Flush()
	if cw.closer != nil {
		if cerr := cw.closer.Close(); err == nil {
			err = cerr
		}
	}
	return err
}

func rows(img *image.NRGBA) []byte {
	w, h := img.Rect.Dx(), img.Rect.Dy()
	if img.Stride == w*4 && img.Rect.Min == (image.Point{}) {
		return img.Pix[:w*h*4]
	}
	out := make([]byte, 0, w*h*4)
	for y := img.Rect.Min.Y; y < img.Rect.Max.Y; y++ {
		i := img.PixOffset(img.Rect.Min.X, y)
		out = append(out, img.Pix[i:i+w*4]...)
	}
	return out
}

// Reader replays a capture stream.
type Reader struct {
	r       *bufio.Reader
	checked bool
}

// NewReader returns a Reader on r.
func NewReader(r io.Reader) *Reader {
	return &Reader{r: bufio.NewReader(r)}
}

// Next returns the next frame, or io.EOF at the end of the stream.
func (cr *Reader) Next() (Frame, error) {
	if !cr.checked {
		magic := make([]byte, len(Magic))
		if _, err := io.ReadFull(cr.r, magic); err != nil {
			return Frame{}, fmt.Errorf("%w: %v", ErrFormat, err)
		}
		if string(magic) != Magic {
			return Frame{}, fmt.Errorf("%w: bad magic %q", ErrFormat, magic)
		}
		cr.checked = true
	}

	var hdr [headerSize]byte
	if _, err := io.ReadFull(cr.r, hdr[:]); err != nil {
		if errors.Is(err, io.EOF) {
			return Frame{}, io.EOF
		}
		return Frame{}, fmt.Errorf("%w: truncated header: %v", ErrFormat, err)
	}
	w := int(binary.LittleEndian.Uint32(hdr[0:]))
	h := int(binary.LittleEndian.Uint32(hdr[4:]))
	index := binary.LittleEndian.Uint64(hdr[8:])
	n := int(binary.LittleEndian.Uint32(hdr[16:]))
	if w <= 0 || h <= 0 || w > maxDim || h > maxDim {
		return Frame{}, fmt.Errorf("%w: frame size %dx%d", ErrFormat, w, h)
	}

	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	if n == 0 {
		if _, err := io.ReadFull(cr.r, img.Pix); err != nil {
			return Frame{}, fmt.Errorf("%w: truncated frame: %v", ErrFormat, err)
		}
		return Frame{Index: index, Image: img}, nil
	}
	comp := make([]byte, n)
	if _, err := io.ReadFull(cr.r, comp); err != nil {
		return Frame{}, fmt.Errorf("%w: truncated frame: %v", ErrFormat, err)
	}
	got, err := lz4.UncompressBlock(comp, img.Pix)
	if err != nil {
		return Frame{}, fmt.Errorf("%w: %v", ErrFormat, err)
	}
	if got != len(img.Pix) {
		return Frame{}, fmt.Errorf("%w: frame %d decoded to %d bytes, want %d", ErrFormat, index, got, len(img.Pix))
	}
	return Frame{Index: index, Image: img}, nil
}
