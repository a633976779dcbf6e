package sketch

import (
	"bytes"
	"errors"
	"math"
	"strings"
	"testing"
	"time"
)

func TestLayerAtNested(t *testing.T) {
	grand := NewLayer(0, 0, 30, 100, WithName("grandparent"))
	parent := NewLayer(0, 0, 20, 100, WithName("parent"))
	child := NewLayer(0, 0, 10, 100, WithName("child"))
	if err := grand.Append(parent); err != nil {
		t.Fatal(err)
	}
	if err := parent.Append(child); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		x, y float64
		want *Layer
	}{
		{5, 5, child},
		{15, 5, parent},
		{25, 5, grand},
		{31, 5, nil},
		{5, -1, nil},
	}
	for _, tt := range tests {
		if got := grand.LayerAt(tt.x, tt.y, true); got != tt.want {
			t.Errorf("LayerAt(%v, %v) = %v, want %v", tt.x, tt.y, got, tt.want)
		}
	}
}

func TestLayerAtSkipsDisabled(t *testing.T) {
	root := NewLayer(0, 0, 100, 100)
	top := NewLayer(0, 0, 50, 50)
	if err := root.Append(top); err != nil {
		t.Fatal(err)
	}
	top.SetEnabled(false)
	if got := root.LayerAt(10, 10, true); got != root {
		t.Errorf("LayerAt() = %v, want root", got)
	}
}

func TestLayerAtUnclipped(t *testing.T) {
	root := NewLayer(0, 0, 10, 10)
	outside := NewLayer(20, 0, 10, 10)
	if err := root.Append(outside); err != nil {
		t.Fatal(err)
	}
	if got := root.LayerAt(25, 5, true); got != nil {
		t.Errorf("clipped LayerAt() = %v, want nil", got)
	}
	if got := root.LayerAt(25, 5, false); got != outside {
		t.Errorf("unclipped LayerAt() = %v, want outside child", got)
	}
}

func TestLayerHitPath(t *testing.T) {
	l := NewLayer(0, 0, 100, 100, WithHitPath(NewPath().Ellipse(50, 50, 100, 100)))
	if !l.Contains(50, 50) {
		t.Error("center should hit")
	}
	if l.Contains(2, 2) {
		t.Error("corner outside the ellipse should not hit")
	}
}

func TestLayerAbsoluteTransformRoundTrip(t *testing.T) {
	root := NewLayer(40, 30, 200, 100)
	root.SetRotation(30)
	root.SetScale(1.5)
	mid := NewLayer(10, 5, 50, 50, WithOrigin(0.5, 0.5, true))
	mid.SetRotation(-75)
	leaf := NewLayer(3, 7, 10, 10)
	leaf.SetScale(0.25)
	if err := root.Append(mid); err != nil {
		t.Fatal(err)
	}
	if err := mid.Append(leaf); err != nil {
		t.Fatal(err)
	}

	abs := leaf.AbsoluteTransform()
	want := root.Transform().Multiply(mid.Transform()).Multiply(leaf.Transform())
	if abs != want {
		t.Errorf("AbsoluteTransform() = %+v, want %+v", abs, want)
	}
	inv, ok := abs.Invert()
	if !ok {
		t.Fatal("transform not invertible")
	}
	for _, p := range []Point{{0, 0}, {1, 2}, {-300, 125.5}, {1e3, -1e3}} {
		got := inv.Apply(abs.Apply(p))
		if math.Abs(got.X-p.X) > 1e-9 || math.Abs(got.Y-p.Y) > 1e-9 {
			t.Errorf("round trip of %v = %v", p, got)
		}
	}
}

func TestLayerRotationAboutOrigin(t *testing.T) {
	l := NewLayer(0, 0, 10, 10, WithOrigin(5, 5, false))
	l.SetRotation(180)
	p := l.Transform().Apply(Point{X: 5, Y: 5})
	if math.Abs(p.X-5) > 1e-9 || math.Abs(p.Y-5) > 1e-9 {
		t.Errorf("pivot moved to %v", p)
	}
}

func TestLayerTween(t *testing.T) {
	clk := newFakeClock()
	l := NewLayer(0, 0, 10, 10, WithLayerClock(clk.Now), WithDuration(time.Second))
	l.SetX(100)

	if got := l.X(); got != 0 {
		t.Errorf("X() at start = %v, want 0", got)
	}
	clk.Advance(250 * time.Millisecond)
	if got := l.X(); got <= 0 || got >= 50 {
		t.Errorf("X() after 0.25s = %v, want in (0, 50)", got)
	}
	if l.Done() {
		t.Error("Done() = true while tweening")
	}
	clk.Advance(750 * time.Millisecond)
	if got := l.X(); got != 100 {
		t.Errorf("X() after 1s = %v, want 100", got)
	}
	if !l.Done() || len(l.Tweening()) != 0 {
		t.Errorf("tween channel still present: %v", l.Tweening())
	}
}

func TestLayerTweenMonotonic(t *testing.T) {
	clk := newFakeClock()
	l := NewLayer(0, 0, 10, 10, WithLayerClock(clk.Now), WithDuration(time.Second))
	l.SetY(-40)
	prev := l.Y()
	for range 20 {
		clk.Advance(50 * time.Millisecond)
		v := l.Y()
		if v > prev {
			t.Fatalf("Y() increased from %v to %v", prev, v)
		}
		prev = v
	}
	if prev != -40 {
		t.Errorf("final Y() = %v, want -40", prev)
	}
}

func TestLayerRetargetTween(t *testing.T) {
	clk := newFakeClock()
	l := NewLayer(0, 0, 10, 10, WithLayerClock(clk.Now), WithDuration(time.Second))
	l.SetX(100)
	clk.Advance(500 * time.Millisecond)
	mid := l.X()
	l.SetX(0)
	if got := l.X(); got != mid {
		t.Errorf("retargeted tween starts at %v, want %v", got, mid)
	}
	clk.Advance(time.Second)
	if got := l.X(); got != 0 {
		t.Errorf("X() = %v, want 0", got)
	}
}

func TestLayerPropertiesImmediateWithoutDuration(t *testing.T) {
	l := NewLayer(0, 0, 10, 10)
	l.SetOpacity(2)
	if got := l.Opacity(); got != 1 {
		t.Errorf("Opacity() = %v, want clamped 1", got)
	}
	l.SetProperty("speed", 3)
	if v, ok := l.Property("speed"); !ok || v != 3 {
		t.Errorf("Property(speed) = %v, %v", v, ok)
	}
	if _, ok := l.Property("missing"); ok {
		t.Error("Property(missing) reported present")
	}
}

func TestLayerTreeEdits(t *testing.T) {
	a := NewLayer(0, 0, 10, 10, WithName("a"))
	b := NewLayer(0, 0, 10, 10, WithName("b"))
	c := NewLayer(0, 0, 10, 10, WithName("c"))

	if err := a.Append(b); err != nil {
		t.Fatal(err)
	}
	if err := b.Append(c); err != nil {
		t.Fatal(err)
	}
	tests := []struct {
		name  string
		child *Layer
	}{
		{"self", a},
		{"ancestor", a},
		{"nil", nil},
	}
	targets := map[string]*Layer{"self": a, "ancestor": c, "nil": a}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := targets[tt.name].Append(tt.child); !errors.Is(err, ErrUsage) {
				t.Errorf("Append() = %v, want ErrUsage", err)
			}
		})
	}

	// Reparenting detaches from the previous parent.
	if err := a.Append(c); err != nil {
		t.Fatal(err)
	}
	if c.Parent() != a || len(b.Children()) != 0 || len(a.Children()) != 2 {
		t.Errorf("reparent left parent=%v b=%v a=%v", c.Parent(), b.Children(), a.Children())
	}
	if c.Root() != a || !a.IsAncestorOf(c) {
		t.Error("Root or IsAncestorOf wrong after reparent")
	}
	if !a.Remove(b) || b.Parent() != nil {
		t.Error("Remove did not detach")
	}
	if a.Remove(b) {
		t.Error("second Remove reported success")
	}
}

func TestLayerCopy(t *testing.T) {
	root := NewLayer(1, 2, 3, 4, WithName("root"))
	child := NewLayer(5, 6, 7, 8, WithName("child"))
	if err := root.Append(child); err != nil {
		t.Fatal(err)
	}
	cp := root.Copy()
	if cp.Parent() != nil || len(cp.Children()) != 1 {
		t.Fatalf("copy structure wrong: %v", cp.Children())
	}
	cc := cp.Children()[0]
	if cc == child || cc.Parent() != cp {
		t.Error("children were not deep copied")
	}
	cc.SetX(99)
	if child.X() != 5 {
		t.Error("editing the copy changed the original")
	}
}

func TestLayerWalkAndDump(t *testing.T) {
	root := NewLayer(0, 0, 10, 10, WithName("root"))
	if err := root.Append(NewLayer(0, 0, 1, 1, WithName("first")), NewLayer(0, 0, 1, 1, WithName("second"))); err != nil {
		t.Fatal(err)
	}
	var names []string
	root.Walk(func(l *Layer) bool {
		names = append(names, l.Name())
		return true
	})
	if strings.Join(names, ",") != "root,first,second" {
		t.Errorf("Walk order = %v", names)
	}

	var buf bytes.Buffer
	root.Dump(&buf)
	out := buf.String()
	if !strings.Contains(out, "digraph") || !strings.Contains(out, "second") {
		t.Errorf("Dump output missing graph or names:\n%s", out)
	}
}

func TestLayerDefaultName(t *testing.T) {
	a, b := NewLayer(0, 0, 1, 1), NewLayer(0, 0, 1, 1)
	if !strings.HasPrefix(a.Name(), "layer-") || a.Name() == b.Name() {
		t.Errorf("default names %q and %q", a.Name(), b.Name())
	}
}

// TestLayerAtMatchesDrawing checks that the layer found under a point is
// the one whose color was drawn there, for rotated overlapping siblings.
func TestLayerAtMatchesDrawing(t *testing.T) {
	const size = 120
	c, win, clk := newTestCanvas(t, size, size, WithBackground("#000000"))

	filled := func(col Color) LayerOption {
		return WithHandlers(Handlers{Draw: func(l *Layer, c *Canvas) error {
			return c.Rect(0, 0, l.Width(), l.Height(), WithFill(col), WithNoStroke())
		}})
	}
	specs := []struct {
		name     string
		x, y     float64
		w, h     float64
		rotation float64
		col      Color
	}{
		{"red", 15, 20, 60, 40, 30, Red},
		{"green", 40, 35, 60, 40, -25, Green},
		{"blue", 30, 55, 40, 45, 60, Blue},
	}
	byColor := make(map[[4]uint8]*Layer)
	layers := make([]*Layer, 0, len(specs))
	for _, s := range specs {
		l := NewLayer(s.x, s.y, s.w, s.h, WithName(s.name), WithOrigin(0.5, 0.5, true), filled(s.col))
		l.SetRotation(s.rotation)
		if err := c.Append(l); err != nil {
			t.Fatal(err)
		}
		n := s.col.NRGBA()
		byColor[[4]uint8{n.R, n.G, n.B, n.A}] = l
		layers = append(layers, l)
	}
	frame(t, c, clk)
	fb := win.LastFrame()
	if fb == nil {
		t.Fatal("no frame presented")
	}

	pixel := func(px, py int) [4]uint8 {
		n := fb.NRGBAAt(px, py)
		return [4]uint8{n.R, n.G, n.B, n.A}
	}
	background := [4]uint8{0, 0, 0, 255}
	checked := make(map[*Layer]int)
	for py := 1; py < size-1; py += 2 {
		for px := 1; px < size-1; px += 2 {
			col := pixel(px, py)
			// Only judge pixels well inside a single color region.
			uniform := true
			for dy := -1; dy <= 1 && uniform; dy++ {
				for dx := -1; dx <= 1; dx++ {
					if pixel(px+dx, py+dy) != col {
						uniform = false
						break
					}
				}
			}
			if !uniform {
				continue
			}
			want, ok := byColor[col]
			if !ok && col != background {
				continue
			}
			// Framebuffer rows run top-down; canvas y is up.
			x, y := float64(px)+0.5, float64(size-py)-0.5
			got := c.LayerAt(x, y)
			if got != want {
				t.Errorf("LayerAt(%v, %v) = %v, drawn color %v belongs to %v", x, y, got, col, want)
			}
			checked[want]++
		}
	}
	for _, l := range layers {
		if checked[l] == 0 {
			t.Errorf("no interior pixels of %s checked", l.Name())
		}
	}
	if checked[nil] == 0 {
		t.Error("no background pixels checked")
	}
}

func TestLayerRepeatedTargetKeepsTween(t *testing.T) {
	clk := newFakeClock()
	l := NewLayer(0, 0, 10, 10, WithLayerClock(clk.Now), WithDuration(time.Second))
	l.SetX(100)
	clk.Advance(900 * time.Millisecond)
	l.SetX(100)
	clk.Advance(200 * time.Millisecond)
	if got := l.X(); got != 100 {
		t.Errorf("X() after 1.1s = %v, want 100", got)
	}
	if !l.Done() {
		t.Error("Done() = false after the tween duration")
	}
}

func TestLayerAtBelowDisabledAncestor(t *testing.T) {
	root := NewLayer(0, 0, 100, 100)
	mid := NewLayer(0, 0, 50, 50)
	leaf := NewLayer(0, 0, 20, 20)
	if err := root.Append(mid); err != nil {
		t.Fatal(err)
	}
	if err := mid.Append(leaf); err != nil {
		t.Fatal(err)
	}
	if got := leaf.LayerAt(5, 5, true); got != leaf {
		t.Fatalf("LayerAt() = %v, want leaf", got)
	}
	root.SetEnabled(false)
	if got := leaf.LayerAt(5, 5, true); got != nil {
		t.Errorf("LayerAt() under disabled root = %v, want nil", got)
	}
	if got := mid.LayerAt(5, 5, true); got != nil {
		t.Errorf("mid.LayerAt() under disabled root = %v, want nil", got)
	}
}
