// Package text lays out and outlines text for sketch.
//
// Fonts live in a Registry keyed by family name and variant. The built-in
// families "Go", "Go Mono" and "Go Smallcaps" are always available; other
// families are looked up on demand among the fonts installed on the host.
//
// Layout shapes each style run with HarfBuzz (go-text/typesetting), splits
// mixed-direction paragraphs into bidi runs, wraps lines at a width and
// aligns them:
//
//	l, err := text.Default().Layout("Hello, sketch", text.Style{Family: "Go", Size: 24}, nil, 0)
//	if err != nil {
//	    return err
//	}
//	fmt.Println(l.Width, l.Height)
//
// Layout coordinates are in pixels with y growing downward from the top
// of the text block. Glyph outlines use the same orientation relative to
// the glyph origin on the baseline.
package text
