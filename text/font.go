package text

import (
	"bytes"
	"fmt"
	"sync"

	"github.com/go-text/typesetting/font"
	xfont "golang.org/x/image/font"
	"golang.org/x/image/font/sfnt"
	"golang.org/x/image/math/fixed"
)

// GlyphID is a glyph index within a font.
type GlyphID uint16

// Weight is a font weight on the CSS scale.
type Weight int

// Common weights.
const (
	Normal Weight = 400
	Bold   Weight = 700
)

// Variant selects one face of a family.
type Variant uint8

// Variants of a family.
const (
	Regular Variant = iota
	BoldVariant
	Italic
	BoldItalic
)

func (v Variant) String() string {
	switch v {
	case BoldVariant:
		return "bold"
	case Italic:
		return "italic"
	case BoldItalic:
		return "bold-italic"
	}
	return "regular"
}

// VariantOf returns the variant for a weight and slant. Weights of 600
// and above select bold.
func VariantOf(w Weight, italic bool) Variant {
	bold := w >= 600
	switch {
	case bold && italic:
		return BoldItalic
	case bold:
		return BoldVariant
	case italic:
		return Italic
	}
	return Regular
}

// Metrics are vertical font metrics in pixels for a given size.
type Metrics struct {
	Ascent    float64
	Descent   float64
	LineGap   float64
	CapHeight float64
	XHeight   float64
}

// Font is one parsed font face. A Font is safe for concurrent use.
type Font struct {
	family  string
	variant Variant
	data    []byte
	index   int

	sf   *sfnt.Font
	bufs sync.Pool

	gtOnce sync.Once
	gt     *font.Font
	gtErr  error
}

// ParseFont parses TrueType or OpenType data. The data is retained.
func ParseFont(family string, v Variant, data []byte) (*Font, error) {
	return parseFont(family, v, data, 0)
}

func parseFont(family string, v Variant, data []byte, index int) (*Font, error) {
	if len(data) == 0 {
		return nil, ErrEmptyFontData
	}
	var sf *sfnt.Font
	var err error
	if index > 0 {
		var c *sfnt.Collection
		c, err = sfnt.ParseCollection(data)
		if err == nil {
			sf, err = c.Font(index)
		}
	} else {
		sf, err = sfnt.Parse(data)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrInvalidFont, family, err)
	}
	f := &Font{family: family, variant: v, data: data, index: index, sf: sf}
	f.bufs.New = func() any { return new(sfnt.Buffer) }
	return f, nil
}

// Family returns the family name the font was registered under.
func (f *Font) Family() string { return f.family }

// Variant returns the variant the font was registered under.
func (f *Font) Variant() Variant { return f.variant }

// Name returns the full name recorded in the font, or the family.
func (f *Font) Name() string {
	buf := f.buffer()
	defer f.bufs.Put(buf)
	if n, err := f.sf.Name(buf, sfnt.NameIDFull); err == nil && n != "" {
		return n
	}
	return f.family
}

func (f *Font) buffer() *sfnt.Buffer {
	return f.bufs.Get().(*sfnt.Buffer)
}

func ppem(size float64) fixed.Int26_6 {
	return fixed.Int26_6(size * 64)
}

func fixedToFloat(v fixed.Int26_6) float64 {
	return float64(v) / 64
}

// Metrics returns the vertical metrics at size pixels per em.
func (f *Font) Metrics(size float64) Metrics {
	buf := f.buffer()
	defer f.bufs.Put(buf)
	m, err := f.sf.Metrics(buf, ppem(size), xfont.HintingNone)
	if err != nil {
		return Metrics{Ascent: size * 0.8, Descent: size * 0.2}
	}
	return Metrics{
		Ascent:    fixedToFloat(m.Ascent),
		Descent:   fixedToFloat(m.Descent),
		LineGap:   max(fixedToFloat(m.Height-m.Ascent-m.Descent), 0),
		CapHeight: fixedToFloat(m.CapHeight),
		XHeight:   fixedToFloat(m.XHeight),
	}
}

// GlyphIndex returns the glyph for r, or 0 (notdef) if the font lacks it.
func (f *Font) GlyphIndex(r rune) GlyphID {
	buf := f.buffer()
	defer f.bufs.Put(buf)
	gi, err := f.sf.GlyphIndex(buf, r)
	if err != nil {
		return 0
	}
	return GlyphID(gi)
}

// Advance returns the horizontal advance of a glyph in pixels.
func (f *Font) Advance(id GlyphID, size float64) float64 {
	buf := f.buffer()
	defer f.bufs.Put(buf)
	adv, err := f.sf.GlyphAdvance(buf, sfnt.GlyphIndex(id), ppem(size), xfont.HintingNone)
	if err != nil {
		return 0
	}
	return fixedToFloat(adv)
}

// shapingFont returns the go-text view of the font, parsing it once.
func (f *Font) shapingFont() (*font.Font, error) {
	f.gtOnce.Do(func() {
		r := bytes.NewReader(f.data)
		if f.index > 0 {
			faces, err := font.ParseTTC(r)
			if err != nil {
				f.gtErr = err
				return
			}
			if f.index >= len(faces) {
				f.gtErr = fmt.Errorf("%w: collection index %d out of range", ErrInvalidFont, f.index)
				return
			}
			f.gt = faces[f.index].Font
			return
		}
		face, err := font.ParseTTF(r)
		if err != nil {
			f.gtErr = err
			return
		}
		f.gt = face.Font
	})
	return f.gt, f.gtErr
}
