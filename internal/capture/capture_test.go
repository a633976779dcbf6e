package capture

import (
	"bytes"
	"errors"
	"image"
	"io"
	"math/rand/v2"
	"testing"
)

func TestRoundTrip(t *testing.T) {
	flat := image.NewNRGBA(image.Rect(0, 0, 32, 16))
	for i := range flat.Pix {
		flat.Pix[i] = 200
	}
	noisy := image.NewNRGBA(image.Rect(0, 0, 7, 5))
	rng := rand.New(rand.NewPCG(1, 2))
	for i := range noisy.Pix {
		noisy.Pix[i] = uint8(rng.IntN(256))
	}

	var buf bytes.Buffer
	w := NewWriter(&buf)
	frames := []*image.NRGBA{flat, noisy, flat}
	for i, img := range frames {
		if err := w.WriteFrame(uint64(i*10), img); err != nil {
			t.Fatalf("WriteFrame(%d) error = %v", i, err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	if !bytes.HasPrefix(buf.Bytes(), []byte(Magic)) {
		t.Fatal("stream does not start with the magic")
	}

	r := NewReader(&buf)
	for i, want := range frames {
		f, err := r.Next()
		if err != nil {
			t.Fatalf("Next() frame %d error = %v", i, err)
		}
		if f.Index != uint64(i*10) {
			t.Errorf("frame %d index = %d", i, f.Index)
		}
		if f.Image.Rect != want.Rect || !bytes.Equal(f.Image.Pix, want.Pix) {
			t.Errorf("frame %d pixels differ", i)
		}
	}
	if _, err := r.Next(); !errors.Is(err, io.EOF) {
		t.Errorf("Next() after last frame error = %v, want io.EOF", err)
	}
}

func TestSubImage(t *testing.T) {
	big := image.NewNRGBA(image.Rect(0, 0, 8, 8))
	for i := range big.Pix {
		big.Pix[i] = uint8(i)
	}
	sub := big.SubImage(image.Rect(2, 2, 5, 4)).(*image.NRGBA)

	var buf bytes.Buffer
	w := NewWriter(&buf)
	if err := w.WriteFrame(0, sub); err != nil {
		t.Fatal(err)
	}
	w.Close()

	f, err := NewReader(&buf).Next()
	if err != nil {
		t.Fatal(err)
	}
	if f.Image.Rect.Dx() != 3 || f.Image.Rect.Dy() != 2 {
		t.Fatalf("frame size = %v", f.Image.Rect)
	}
	if got, want := f.Image.NRGBAAt(0, 0), sub.NRGBAAt(2, 2); got != want {
		t.Errorf("first pixel = %v, want %v", got, want)
	}
}

func TestBadMagic(t *testing.T) {
	_, err := NewReader(bytes.NewReader([]byte("NOTCAPTURE"))).Next()
	if !errors.Is(err, ErrFormat) {
		t.Errorf("Next() error = %v, want ErrFormat", err)
	}
}

func TestWriteAfterClose(t *testing.T) {
	w := NewWriter(io.Discard)
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}
	if err := w.Close(); err != nil {
		t.Errorf("second Close() error = %v", err)
	}
	if err := w.WriteFrame(0, image.NewNRGBA(image.Rect(0, 0, 1, 1))); err == nil {
		t.Error("WriteFrame after Close succeeded")
	}
}
