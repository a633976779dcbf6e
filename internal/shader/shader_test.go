package shader

import (
	"encoding/binary"
	"errors"
	"math"
	"slices"
	"strings"
	"testing"
)

func TestNames(t *testing.T) {
	want := []string{"blend", "blur", "colorize", "invert", "mask", "mirror"}
	if got := Names(); !slices.Equal(got, want) {
		t.Errorf("Names() = %v, want %v", got, want)
	}
}

func TestSourceDeclaresLayout(t *testing.T) {
	for _, name := range Names() {
		t.Run(name, func(t *testing.T) {
			src, err := Source(name)
			if err != nil {
				t.Fatalf("Source(%q) error = %v", name, err)
			}
			for _, decl := range []string{
				"@binding(0) var<uniform> params",
				"@binding(3) var<storage, read_write> dst",
				"@workgroup_size(8, 8)",
				"fn main(",
			} {
				if !strings.Contains(src, decl) {
					t.Errorf("source lacks %q", decl)
				}
			}
		})
	}
}

func TestSourceUnknown(t *testing.T) {
	if _, err := Source("sepia"); !errors.Is(err, ErrUnknown) {
		t.Errorf("Source(sepia) error = %v, want ErrUnknown", err)
	}
	if _, err := Compile("sepia"); !errors.Is(err, ErrUnknown) {
		t.Errorf("Compile(sepia) error = %v, want ErrUnknown", err)
	}
}

func TestCompileIsMemoized(t *testing.T) {
	for _, name := range Names() {
		t.Run(name, func(t *testing.T) {
			w1, err1 := Compile(name)
			w2, err2 := Compile(name)
			if (err1 == nil) != (err2 == nil) {
				t.Fatalf("Compile results differ: %v vs %v", err1, err2)
			}
			if err1 != nil {
				return
			}
			if len(w1) == 0 || w1[0] != 0x07230203 {
				t.Errorf("SPIR-V does not start with the magic number")
			}
			if &w1[0] != &w2[0] {
				t.Error("second Compile did not reuse the first result")
			}
		})
	}
}

func TestParamsBytes(t *testing.T) {
	p := Params{Width: 3, Height: 4, Width2: 5, Height2: 6, A: [4]float32{1.5}, B: [4]float32{0, 0, 0, -2}}
	b := p.Bytes()
	if len(b) != ParamsSize {
		t.Fatalf("len = %d, want %d", len(b), ParamsSize)
	}
	if got := binary.LittleEndian.Uint32(b[4:]); got != 4 {
		t.Errorf("height = %d", got)
	}
	if got := math.Float32frombits(binary.LittleEndian.Uint32(b[16:])); got != 1.5 {
		t.Errorf("a.x = %v", got)
	}
	if got := math.Float32frombits(binary.LittleEndian.Uint32(b[44:])); got != -2 {
		t.Errorf("b.w = %v", got)
	}
}

func TestGroups(t *testing.T) {
	tests := []struct {
		w, h   int
		gx, gy uint32
	}{
		{1, 1, 1, 1},
		{8, 8, 1, 1},
		{9, 16, 2, 2},
		{640, 481, 80, 61},
	}
	for _, tt := range tests {
		gx, gy := Groups(tt.w, tt.h)
		if gx != tt.gx || gy != tt.gy {
			t.Errorf("Groups(%d, %d) = %d, %d, want %d, %d", tt.w, tt.h, gx, gy, tt.gx, tt.gy)
		}
	}
}
