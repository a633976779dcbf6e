package sketch

import (
	"errors"
	"testing"
)

func TestInvertTwiceRestores(t *testing.T) {
	img := testImage(t, 9, 5)
	out, err := Chain(img, Invert, Invert)
	if err != nil {
		t.Fatal(err)
	}
	defer out.Destroy()
	assertSamePixels(t, out, img)
}

func TestMirrorTwiceRestores(t *testing.T) {
	tests := []struct {
		name       string
		dx, dy     float64
		horizontal bool
		vertical   bool
	}{
		{"horizontal at edge", 0, 0, true, false},
		{"vertical at edge", 0, 0, false, true},
		{"both at center", 0.5, 0.5, true, true},
		{"off center", 0.3, 0.7, true, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			img := testImage(t, 8, 6)
			mirror := func(i *Image) (*Image, error) { return Mirror(i, tt.dx, tt.dy, tt.horizontal, tt.vertical) }
			out, err := Chain(img, mirror, mirror)
			if err != nil {
				t.Fatal(err)
			}
			defer out.Destroy()
			assertSamePixels(t, out, img)
		})
	}
}

func TestChainEqualsNested(t *testing.T) {
	img := testImage(t, 16, 12)
	blur := func(i *Image) (*Image, error) { return Blur(i, 3) }

	chained, err := Chain(img, blur, Invert)
	if err != nil {
		t.Fatal(err)
	}
	defer chained.Destroy()

	blurred, err := Blur(img, 3)
	if err != nil {
		t.Fatal(err)
	}
	defer blurred.Destroy()
	nested, err := Invert(blurred)
	if err != nil {
		t.Fatal(err)
	}
	defer nested.Destroy()

	assertSamePixels(t, chained, nested)
}

func TestChainWithoutStagesCopies(t *testing.T) {
	img := testImage(t, 3, 3)
	out, err := Chain(img)
	if err != nil {
		t.Fatal(err)
	}
	defer out.Destroy()
	if out.ID() == img.ID() {
		t.Error("Chain() returned the input texture")
	}
	assertSamePixels(t, out, img)
}

func TestChainStageError(t *testing.T) {
	img := testImage(t, 3, 3)
	bad := func(i *Image) (*Image, error) { return Blur(i, -1) }
	if _, err := Chain(img, Invert, bad); !errors.Is(err, ErrUsage) {
		t.Errorf("Chain() = %v, want ErrUsage", err)
	}
	if _, err := img.Image(); err != nil {
		t.Errorf("input destroyed by failed chain: %v", err)
	}
}

func TestFilterParameterRanges(t *testing.T) {
	img := testImage(t, 4, 4)
	tests := []struct {
		name string
		run  func() (*Image, error)
	}{
		{"blur radius", func() (*Image, error) { return Blur(img, 101) }},
		{"bump zoom", func() (*Image, error) { return Bump(img, 0.5, 0.5, 0.5, 2) }},
		{"mirror dx", func() (*Image, error) { return Mirror(img, 1.5, 0, true, false) }},
		{"desaturate amount", func() (*Image, error) { return Desaturate(img, -0.1) }},
		{"blend mode", func() (*Image, error) { return Blend("nope", img, img, 1, 0, 0) }},
		{"gradient size", func() (*Image, error) { return Gradient(0, 4, Black, White, LinearGradient, 0, 0) }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := tt.run(); !errors.Is(err, ErrUsage) {
				t.Errorf("err = %v, want ErrUsage", err)
			}
		})
	}
}

func TestFilterDestroyedInput(t *testing.T) {
	img := testImage(t, 4, 4)
	img.Destroy()
	if _, err := Invert(img); !errors.Is(err, ErrResource) {
		t.Errorf("Invert(destroyed) = %v, want ErrResource", err)
	}
}

func TestFilterRegistry(t *testing.T) {
	names := make(map[string]bool)
	for _, p := range Filters() {
		names[p.Name] = true
		if p.Fallback != "cpu" {
			t.Errorf("%s fallback = %q", p.Name, p.Fallback)
		}
	}
	for _, want := range []string{"blur", "invert", "mirror", "mask", "multiply", "hue", "gradient"} {
		if !names[want] {
			t.Errorf("filter %q not registered", want)
		}
	}
	if got := FilterBackend("bump"); got != "cpu" {
		t.Errorf("FilterBackend(bump) = %q, want cpu", got)
	}
}

func TestMultiplyWhiteIsIdentity(t *testing.T) {
	img := testImage(t, 6, 6)
	white := solidImage(t, 6, 6, White.NRGBA())
	out, err := Multiply(img, white, 1, 0, 0)
	if err != nil {
		t.Fatal(err)
	}
	defer out.Destroy()
	got, _ := out.Image()
	want, _ := img.Image()
	for i := range got.Pix {
		if absDiff(float64(got.Pix[i]), float64(want.Pix[i])) > 1 {
			t.Fatalf("byte %d = %d, want %d", i, got.Pix[i], want.Pix[i])
		}
	}
}

func TestGradientEndpoints(t *testing.T) {
	img, err := Gradient(16, 4, Black, White, LinearGradient, 0, 0)
	if err != nil {
		t.Fatal(err)
	}
	defer img.Destroy()
	pix, _ := img.Image()
	left, right := pix.NRGBAAt(0, 0), pix.NRGBAAt(15, 0)
	if left.R >= right.R {
		t.Errorf("gradient not increasing left to right: %v .. %v", left, right)
	}
}
