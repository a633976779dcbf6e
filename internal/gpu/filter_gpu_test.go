//go:build !nogpu

package gpu

import (
	"bytes"
	"errors"
	"image"
	"testing"

	"github.com/gogpu/sketch"
)

func TestPackUnpackPixels(t *testing.T) {
	// A sub-image has a stride wider than its rows.
	full := image.NewNRGBA(image.Rect(0, 0, 5, 4))
	for i := range full.Pix {
		full.Pix[i] = uint8(i * 7) //nolint:gosec // test data
	}
	sub := full.SubImage(image.Rect(1, 1, 4, 3)).(*image.NRGBA)

	packed := packPixels(sub)
	if len(packed) != 3*2*4 {
		t.Fatalf("len(packed) = %d, want 24", len(packed))
	}
	// First word is pixel (1, 1): r | g<<8 | b<<16 | a<<24 in little endian
	// is the same byte order as NRGBA.
	if !bytes.Equal(packed[:4], sub.Pix[:4]) {
		t.Errorf("first word = %v, want %v", packed[:4], sub.Pix[:4])
	}

	dst := image.NewNRGBA(image.Rect(0, 0, 3, 2))
	unpackPixels(packed, dst)
	for y := range 2 {
		for x := range 3 {
			if got, want := dst.NRGBAAt(x, y), sub.NRGBAAt(x+1, y+1); got != want {
				t.Errorf("pixel (%d, %d) = %v, want %v", x, y, got, want)
			}
		}
	}
}

func TestFilterAcceleratorWithoutDevice(t *testing.T) {
	a := &FilterAccelerator{}
	if a.CanRun("invert") {
		t.Error("CanRun() = true before Init")
	}
	src := image.NewNRGBA(image.Rect(0, 0, 2, 2))
	dst := image.NewNRGBA(image.Rect(0, 0, 2, 2))
	err := a.RunFilter(sketch.FilterJob{Program: "invert", Src: src, Dst: dst})
	if !errors.Is(err, sketch.ErrFallbackToCPU) {
		t.Errorf("RunFilter() = %v, want ErrFallbackToCPU", err)
	}
	a.Close()
}

func TestFilterAcceleratorSizeMismatch(t *testing.T) {
	a := &FilterAccelerator{gpuReady: true}
	src := image.NewNRGBA(image.Rect(0, 0, 2, 2))
	dst := image.NewNRGBA(image.Rect(0, 0, 3, 2))
	tests := []struct {
		name string
		job  sketch.FilterJob
	}{
		{"no source", sketch.FilterJob{Program: "invert", Dst: dst}},
		{"size mismatch", sketch.FilterJob{Program: "invert", Src: src, Dst: dst}},
		{"unknown program", sketch.FilterJob{Program: "nope", Src: src, Dst: src}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := a.RunFilter(tt.job); !errors.Is(err, sketch.ErrFallbackToCPU) {
				t.Errorf("RunFilter() = %v, want ErrFallbackToCPU", err)
			}
		})
	}
}

func TestSetDeviceProviderRejectsForeignTypes(t *testing.T) {
	a := &FilterAccelerator{}
	if err := a.SetDeviceProvider(struct{}{}); err == nil {
		t.Error("SetDeviceProvider(struct{}{}) = nil, want error")
	}
}
