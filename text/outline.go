package text

import (
	"errors"
	"math"

	"github.com/gogpu/sketch/internal/cache"
	"golang.org/x/image/font/sfnt"
)

// Point is a position in pixels.
type Point struct {
	X, Y float64
}

// OutlineOp is the kind of an outline segment.
type OutlineOp uint8

// Outline operations.
const (
	OpMoveTo OutlineOp = iota
	OpLineTo
	OpQuadTo
	OpCubeTo
)

// Segment is one outline command. MoveTo and LineTo use Args[0], QuadTo
// uses Args[0] (control) and Args[1], CubeTo uses all three.
type Segment struct {
	Op   OutlineOp
	Args [3]Point
}

// outlineCacheSize bounds the number of cached glyph outlines.
const outlineCacheSize = 4096

type outlineKey struct {
	font *Font
	id   GlyphID
	size int32 // 26.6
}

var outlines = cache.New[outlineKey, []Segment](outlineCacheSize)

// Outline returns the outline of a glyph at size pixels per em, relative
// to the glyph origin with y down. Glyphs without an outline (space)
// return nil. Outlines are cached.
func (f *Font) Outline(id GlyphID, size float64) ([]Segment, error) {
	key := outlineKey{font: f, id: id, size: int32(math.Round(size * 64))}
	if segs, ok := outlines.Get(key); ok {
		return segs, nil
	}
	buf := f.buffer()
	defer f.bufs.Put(buf)
	raw, err := f.sf.LoadGlyph(buf, sfnt.GlyphIndex(id), ppem(size), nil)
	if err != nil {
		if errors.Is(err, sfnt.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	var segs []Segment
	if len(raw) > 0 {
		segs = make([]Segment, len(raw))
	}
	for i, s := range raw {
		var op OutlineOp
		switch s.Op {
		case sfnt.SegmentOpMoveTo:
			op = OpMoveTo
		case sfnt.SegmentOpLineTo:
			op = OpLineTo
		case sfnt.SegmentOpQuadTo:
			op = OpQuadTo
		case sfnt.SegmentOpCubeTo:
			op = OpCubeTo
		}
		segs[i].Op = op
		for k := range 3 {
			segs[i].Args[k] = Point{X: fixedToFloat(s.Args[k].X), Y: fixedToFloat(s.Args[k].Y)}
		}
	}
	outlines.Set(key, segs)
	return segs, nil
}

// OutlineCacheStats reports the glyph outline cache statistics.
func OutlineCacheStats() cache.Stats {
	return outlines.Stats()
}
