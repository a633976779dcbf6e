package text

import "image/color"

// Align is the horizontal alignment of lines.
type Align int

// Alignments.
const (
	Left Align = iota
	Center
	Right
	Justify
)

func (a Align) String() string {
	switch a {
	case Center:
		return "center"
	case Right:
		return "right"
	case Justify:
		return "justify"
	}
	return "left"
}

// DefaultLineHeight is the line advance as a multiple of the font size.
const DefaultLineHeight = 1.2

// DefaultSize is the font size used when Style.Size is zero.
const DefaultSize = 24

// Style describes how a run of text is set.
type Style struct {
	Family     string
	Size       float64
	Weight     Weight
	Italic     bool
	LineHeight float64 // multiple of Size; 0 selects DefaultLineHeight
	Align      Align
	Fill       color.Color // carried to glyphs; nil inherits
}

func (s Style) size() float64 {
	if s.Size <= 0 {
		return DefaultSize
	}
	return s.Size
}

func (s Style) lineHeight() float64 {
	if s.LineHeight <= 0 {
		return DefaultLineHeight
	}
	return s.LineHeight
}

// Span restyles the runes [Start, End) of a string.
type Span struct {
	Start, End int
	Style      Style
}

// NormalizeSpans clips spans to [0, n), drops empty ones and resolves
// overlaps in favor of later spans. The result is sorted, half-open and
// non-overlapping.
func NormalizeSpans(spans []Span, n int) []Span {
	if n <= 0 || len(spans) == 0 {
		return nil
	}
	owner := make([]int, n)
	for i := range owner {
		owner[i] = -1
	}
	covered := false
	for i, s := range spans {
		lo, hi := max(s.Start, 0), min(s.End, n)
		for k := lo; k < hi; k++ {
			owner[k] = i
			covered = true
		}
	}
	if !covered {
		return nil
	}
	var out []Span
	for k := 0; k < n; {
		o := owner[k]
		j := k + 1
		for j < n && owner[j] == o {
			j++
		}
		if o >= 0 {
			out = append(out, Span{Start: k, End: j, Style: spans[o].Style})
		}
		k = j
	}
	return out
}
