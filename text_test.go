package sketch

import (
	"errors"
	"testing"

	"github.com/gogpu/sketch/text"
)

func offlineFonts() *text.Registry {
	return text.NewRegistry(text.WithSystemFonts(false))
}

func TestTextMeasure(t *testing.T) {
	txt := NewText("Hello, sketch", WithFontSize(20))
	txt.SetFonts(offlineFonts())
	if txt.Width() <= 0 || txt.Height() <= 0 {
		t.Fatalf("size = %v x %v", txt.Width(), txt.Height())
	}
	if m := txt.Metrics(); m.Lines != 1 || m.Ascent <= 0 {
		t.Errorf("metrics = %+v", m)
	}

	single := txt.Height()
	txt.SetWidth(txt.Width() / 2)
	if txt.Metrics().Lines < 2 || txt.Height() <= single {
		t.Errorf("wrapping at half width gave %d lines, height %v", txt.Metrics().Lines, txt.Height())
	}

	wide := NewText("Hello, sketch", WithFontSize(40))
	wide.SetFonts(offlineFonts())
	if wide.Width() <= txt.Width() {
		t.Error("larger font did not measure wider")
	}
}

func TestTextMissingFont(t *testing.T) {
	txt := NewText("abc", WithFont("No Such Family"))
	txt.SetFonts(offlineFonts())
	_, err := txt.Layout()
	if !errors.Is(err, ErrResource) || !errors.Is(err, text.ErrFontNotFound) {
		t.Fatalf("Layout() = %v, want ErrResource and ErrFontNotFound", err)
	}
	if txt.Width() <= 0 {
		t.Error("fallback font produced no layout")
	}
}

func TestTextPathAboveBaseline(t *testing.T) {
	txt := NewText("H", WithFontSize(50))
	txt.SetFonts(offlineFonts())
	p, err := txt.Path()
	if err != nil {
		t.Fatal(err)
	}
	b := p.Bounds()
	if b.Empty() {
		t.Fatal("glyph outline is empty")
	}
	// Capitals sit on the baseline and rise in +y.
	if b.Y < -1 || b.Y+b.Height < 20 {
		t.Errorf("outline bounds %+v, want above the baseline", b)
	}
}

func TestTextSpansSplitFills(t *testing.T) {
	txt := NewText("ab", WithFill(Black))
	txt.SetFonts(offlineFonts())
	txt.Span(1, 2, WithFill(Red))
	runs, err := txt.runs()
	if err != nil {
		t.Fatal(err)
	}
	if len(runs) != 2 || runs[0].fill != Black || runs[1].fill != Red {
		t.Errorf("runs = %+v, want black then red", runs)
	}
	txt.ClearSpans()
	if runs, _ := txt.runs(); len(runs) != 1 {
		t.Errorf("after ClearSpans got %d runs", len(runs))
	}
}

func TestCanvasText(t *testing.T) {
	c, win, clk := newTestCanvas(t, 120, 60, WithFonts(offlineFonts()))
	var width float64
	c.OnDraw(func(c *Canvas) error {
		c.FontSize(30)
		width = c.TextWidth("Hi")
		return c.Text("Hi", 10, 20)
	})
	frame(t, c, clk)
	if width <= 0 {
		t.Fatalf("TextWidth() = %v", width)
	}
	fb := win.LastFrame()
	dark := 0
	for y := range 60 {
		for x := range 120 {
			if fb.NRGBAAt(x, y).R < 128 {
				dark++
			}
		}
	}
	if dark == 0 {
		t.Error("Text drew no pixels")
	}
}
