package text

import (
	"image/color"
	"sync"
	"unicode"

	"github.com/go-text/typesetting/di"
	"github.com/go-text/typesetting/font"
	"github.com/go-text/typesetting/language"
	"github.com/go-text/typesetting/shaping"
	"golang.org/x/image/math/fixed"
	"golang.org/x/text/unicode/bidi"
)

// Glyph is a positioned glyph. X and Y locate the glyph origin on the
// baseline in block coordinates (y down).
type Glyph struct {
	ID      GlyphID
	Font    *Font
	Size    float64
	X, Y    float64
	Advance float64
	Cluster int // index of the first rune of the cluster
	Fill    color.Color

	dx, dy float64
	rtl    bool
	space  bool
}

// Line is one laid out line.
type Line struct {
	Glyphs     []Glyph
	Start, End int // rune range, End exclusive
	Width      float64
	Ascent     float64
	Descent    float64
	Baseline   float64 // y of the baseline from the top of the block
	Advance    float64 // distance to the next baseline
}

// Layout is the result of laying out a string.
type Layout struct {
	Lines  []Line
	Width  float64 // widest line
	Height float64 // sum of line advances
}

// LayoutMetrics summarizes a layout.
type LayoutMetrics struct {
	Width, Height   float64
	Ascent, Descent float64 // of the first and last line
	Lines           int
}

// Metrics returns the summary metrics of the layout.
func (l *Layout) Metrics() LayoutMetrics {
	m := LayoutMetrics{Width: l.Width, Height: l.Height, Lines: len(l.Lines)}
	if len(l.Lines) > 0 {
		m.Ascent = l.Lines[0].Ascent
		m.Descent = l.Lines[len(l.Lines)-1].Descent
	}
	return m
}

var shaperPool = sync.Pool{
	New: func() any { return &shaping.HarfbuzzShaper{} },
}

// run is a maximal piece of one paragraph with one style and direction.
type run struct {
	start, end int
	style      Style
	base       bool
	font       *Font
	rtl        bool
}

// Layout sets s with the base style and span overrides, wrapping lines
// longer than width when width > 0. Fonts that cannot be found are
// replaced by DefaultFamily; in that case the returned layout is complete
// and err wraps ErrFontNotFound.
func (r *Registry) Layout(s string, base Style, spans []Span, width float64) (*Layout, error) {
	runes := []rune(s)
	spans = NormalizeSpans(spans, len(runes))

	var fontErr error
	resolve := func(st Style) *Font {
		f, err := r.Font(st.Family, VariantOf(st.Weight, st.Italic))
		if err == nil {
			return f
		}
		if fontErr == nil {
			fontErr = err
		}
		f, _ = r.Font(DefaultFamily, VariantOf(st.Weight, st.Italic))
		return f
	}
	baseFont := resolve(base)

	out := &Layout{}
	var top float64
	for _, para := range paragraphs(runes) {
		lines := r.layoutParagraph(runes, para, base, baseFont, spans, width, resolve)
		for i := range lines {
			ln := &lines[i]
			ln.Baseline = top + ln.Ascent
			for k := range ln.Glyphs {
				ln.Glyphs[k].Y += ln.Baseline
			}
			top += ln.Advance
			out.Width = max(out.Width, ln.Width)
		}
		out.Lines = append(out.Lines, lines...)
	}
	out.Height = top
	align(out, base.Align, width)
	if fontErr != nil {
		return out, fontErr
	}
	return out, nil
}

type paragraph struct{ start, end int }

func paragraphs(runes []rune) []paragraph {
	var out []paragraph
	start := 0
	for i, c := range runes {
		if c == '\n' {
			out = append(out, paragraph{start, i})
			start = i + 1
		}
	}
	return append(out, paragraph{start, len(runes)})
}

// styleRuns splits [p.start, p.end) at span boundaries.
func styleRuns(p paragraph, base Style, spans []Span) []run {
	var out []run
	pos := p.start
	for _, sp := range spans {
		if sp.End <= p.start || sp.Start >= p.end {
			continue
		}
		lo, hi := max(sp.Start, p.start), min(sp.End, p.end)
		if lo > pos {
			out = append(out, run{start: pos, end: lo, style: base, base: true})
		}
		st := sp.Style
		if st.Fill == nil {
			st.Fill = base.Fill
		}
		out = append(out, run{start: lo, end: hi, style: st})
		pos = hi
	}
	if pos < p.end {
		out = append(out, run{start: pos, end: p.end, style: base, base: true})
	}
	return out
}

// direction classifies r as right-to-left, left-to-right or neutral.
func direction(r rune) (rtl, strong bool) {
	p, _ := bidi.LookupRune(r)
	switch p.Class() {
	case bidi.R, bidi.AL:
		return true, true
	case bidi.L:
		return false, true
	}
	return false, false
}

// splitBidi splits runs where the resolved direction changes. Neutral
// runes take the direction of the preceding strong rune, or the paragraph
// direction at the start.
func splitBidi(runes []rune, runs []run, paraRTL bool) []run {
	var out []run
	cur := paraRTL
	for _, rn := range runs {
		start := rn.start
		dir := cur
		for i := rn.start; i < rn.end; i++ {
			if rtl, strong := direction(runes[i]); strong {
				cur = rtl
			}
			if i == rn.start {
				dir = cur
				continue
			}
			if cur != dir {
				piece := rn
				piece.start, piece.end, piece.rtl = start, i, dir
				out = append(out, piece)
				start, dir = i, cur
			}
		}
		piece := rn
		piece.start, piece.rtl = start, dir
		out = append(out, piece)
	}
	return out
}

func paragraphRTL(runes []rune, p paragraph) bool {
	for _, c := range runes[p.start:p.end] {
		if rtl, strong := direction(c); strong {
			return rtl
		}
	}
	return false
}

// shape returns the glyphs of one run in logical order.
func shape(runes []rune, rn run) []Glyph {
	if rn.start >= rn.end || rn.font == nil {
		return nil
	}
	size := rn.style.size()
	gt, err := rn.font.shapingFont()
	if err != nil {
		return shapeSimple(runes, rn, size)
	}
	dir := di.DirectionLTR
	if rn.rtl {
		dir = di.DirectionRTL
	}
	input := shaping.Input{
		Text:      runes,
		RunStart:  rn.start,
		RunEnd:    rn.end,
		Direction: dir,
		Face:      font.NewFace(gt),
		Size:      fixed.Int26_6(size * 64),
		Script:    script(runes[rn.start:rn.end]),
		Language:  language.NewLanguage("en"),
	}
	hb := shaperPool.Get().(*shaping.HarfbuzzShaper)
	output := hb.Shape(input)
	shaperPool.Put(hb)

	glyphs := make([]Glyph, len(output.Glyphs))
	for i, g := range output.Glyphs {
		cl := g.TextIndex()
		glyphs[i] = Glyph{
			ID:      GlyphID(uint16(g.GlyphID)), //nolint:gosec // glyph ids of sfnt fonts fit uint16
			Font:    rn.font,
			Size:    size,
			Advance: fixedToFloat(g.Advance),
			Cluster: cl,
			Fill:    rn.style.Fill,
			dx:      fixedToFloat(g.XOffset),
			dy:      -fixedToFloat(g.YOffset),
			rtl:     rn.rtl,
			space:   cl >= 0 && cl < len(runes) && unicode.IsSpace(runes[cl]),
		}
	}
	if rn.rtl {
		// HarfBuzz emits right-to-left runs in visual order.
		reverse(glyphs)
	}
	return glyphs
}

// shapeSimple maps runes to glyphs one to one with nominal advances.
func shapeSimple(runes []rune, rn run, size float64) []Glyph {
	glyphs := make([]Glyph, 0, rn.end-rn.start)
	for i := rn.start; i < rn.end; i++ {
		id := rn.font.GlyphIndex(runes[i])
		glyphs = append(glyphs, Glyph{
			ID:      id,
			Font:    rn.font,
			Size:    size,
			Advance: rn.font.Advance(id, size),
			Cluster: i,
			Fill:    rn.style.Fill,
			rtl:     rn.rtl,
			space:   unicode.IsSpace(runes[i]),
		})
	}
	return glyphs
}

func script(runes []rune) language.Script {
	for _, r := range runes {
		if unicode.IsSpace(r) {
			continue
		}
		return language.LookupScript(r)
	}
	return language.Latin
}

func (r *Registry) layoutParagraph(runes []rune, p paragraph, base Style, baseFont *Font, spans []Span, width float64, resolve func(Style) *Font) []Line {
	runs := styleRuns(p, base, spans)
	for i := range runs {
		if runs[i].base {
			runs[i].font = baseFont
		} else {
			runs[i].font = resolve(runs[i].style)
		}
	}
	paraRTL := paragraphRTL(runes, p)
	runs = splitBidi(runes, runs, paraRTL)

	var glyphs []Glyph
	lineHeights := make(map[int]float64, len(runs)) // cluster -> line advance
	for _, rn := range runs {
		gs := shape(runes, rn)
		adv := rn.style.size() * rn.style.lineHeight()
		for _, g := range gs {
			lineHeights[g.Cluster] = max(lineHeights[g.Cluster], adv)
		}
		glyphs = append(glyphs, gs...)
	}

	var lines []Line
	for _, seg := range wrap(glyphs, width) {
		ln := Line{Glyphs: seg}
		ln.Start, ln.End = p.start, p.end
		if len(seg) > 0 {
			ln.Start = seg[0].Cluster
			for _, g := range seg {
				ln.Start = min(ln.Start, g.Cluster)
			}
		}
		lines = append(lines, ln)
	}
	if len(lines) == 0 {
		lines = append(lines, Line{Start: p.start, End: p.end})
	}
	for i := range lines {
		if i+1 < len(lines) {
			lines[i].End = lines[i+1].Start
		} else {
			lines[i].End = p.end
		}
	}

	baseMetrics := baseFont.Metrics(base.size())
	baseAdvance := base.size() * base.lineHeight()
	for i := range lines {
		ln := &lines[i]
		ln.Ascent, ln.Descent, ln.Advance = baseMetrics.Ascent, baseMetrics.Descent, baseAdvance
		if len(ln.Glyphs) > 0 {
			ln.Ascent, ln.Descent, ln.Advance = 0, 0, 0
		}
		for _, g := range ln.Glyphs {
			m := g.Font.Metrics(g.Size)
			ln.Ascent = max(ln.Ascent, m.Ascent)
			ln.Descent = max(ln.Descent, m.Descent)
			ln.Advance = max(ln.Advance, lineHeights[g.Cluster])
		}
		reorder(ln.Glyphs, paraRTL)
		place(ln)
	}
	return lines
}

// wrap breaks glyphs into lines no wider than width, breaking after
// spaces. A word longer than width gets a line of its own. width <= 0
// disables wrapping.
func wrap(glyphs []Glyph, width float64) [][]Glyph {
	if len(glyphs) == 0 {
		return nil
	}
	if width <= 0 {
		return [][]Glyph{glyphs}
	}
	var out [][]Glyph
	start, lastBreak := 0, -1
	var x float64
	for i := 0; i < len(glyphs); i++ {
		g := glyphs[i]
		if !g.space && x+g.Advance > width && lastBreak >= start {
			out = append(out, glyphs[start:lastBreak+1])
			start = lastBreak + 1
			lastBreak = -1
			x = 0
			for k := start; k < i; k++ {
				x += glyphs[k].Advance
			}
		}
		x += g.Advance
		if g.space {
			lastBreak = i
		}
	}
	return append(out, glyphs[start:])
}

// reorder converts a line from logical to visual order for two embedding
// levels.
func reorder(gs []Glyph, paraRTL bool) {
	if paraRTL {
		reverse(gs)
		for i := 0; i < len(gs); {
			if gs[i].rtl {
				i++
				continue
			}
			j := i
			for j < len(gs) && !gs[j].rtl {
				j++
			}
			reverse(gs[i:j])
			i = j
		}
		return
	}
	for i := 0; i < len(gs); {
		if !gs[i].rtl {
			i++
			continue
		}
		j := i
		for j < len(gs) && gs[j].rtl {
			j++
		}
		reverse(gs[i:j])
		i = j
	}
}

func reverse(gs []Glyph) {
	for i, j := 0, len(gs)-1; i < j; i, j = i+1, j-1 {
		gs[i], gs[j] = gs[j], gs[i]
	}
}

// place assigns pen positions and the width without trailing spaces.
func place(ln *Line) {
	var x float64
	for i := range ln.Glyphs {
		g := &ln.Glyphs[i]
		g.X = x + g.dx
		g.Y = g.dy
		x += g.Advance
	}
	w := x
	for i := len(ln.Glyphs) - 1; i >= 0 && ln.Glyphs[i].space; i-- {
		w -= ln.Glyphs[i].Advance
	}
	ln.Width = w
}

// align shifts lines horizontally within the box. The box is width wide
// when width > 0, otherwise as wide as the widest line.
func align(l *Layout, a Align, width float64) {
	box := l.Width
	if width > 0 {
		box = width
	}
	for i := range l.Lines {
		ln := &l.Lines[i]
		extra := box - ln.Width
		if extra <= 0 {
			continue
		}
		switch a {
		case Center:
			shift(ln, extra/2)
		case Right:
			shift(ln, extra)
		case Justify:
			last := i == len(l.Lines)-1 || endsParagraph(l, i)
			if !last {
				justify(ln, extra)
			}
		}
	}
	if a == Justify && width > 0 {
		for _, ln := range l.Lines {
			l.Width = max(l.Width, ln.Width)
		}
	}
}

func endsParagraph(l *Layout, i int) bool {
	return l.Lines[i].End != l.Lines[i+1].Start
}

func shift(ln *Line, dx float64) {
	for k := range ln.Glyphs {
		ln.Glyphs[k].X += dx
	}
}

func justify(ln *Line, extra float64) {
	trail := len(ln.Glyphs)
	for trail > 0 && ln.Glyphs[trail-1].space {
		trail--
	}
	gaps := 0
	for _, g := range ln.Glyphs[:trail] {
		if g.space {
			gaps++
		}
	}
	if gaps == 0 {
		return
	}
	step := extra / float64(gaps)
	var acc float64
	for k := range ln.Glyphs[:trail] {
		ln.Glyphs[k].X += acc
		if ln.Glyphs[k].space {
			acc += step
		}
	}
	ln.Width += extra
}

