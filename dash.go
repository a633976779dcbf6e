package sketch

import "math"

// Dash defines a dash pattern: alternating "on" and "off" lengths.
// An odd-length array is logically repeated to make it even, so [5] is
// equivalent to [5, 5].
type Dash struct {
	Array []float64

	// Offset is the starting position within the pattern cycle.
	Offset float64
}

// NewDash creates a dash pattern from alternating on/off lengths. Negative
// lengths are taken as absolute values. It returns nil when no length is
// positive.
//
// Examples:
//
//	NewDash(5, 3)        // 5 on, 3 off
//	NewDash(10, 5, 2, 5) // 10 on, 5 off, 2 on, 5 off
//	NewDash(5)           // same as NewDash(5, 5)
func NewDash(lengths ...float64) *Dash {
	positive := false
	normalized := make([]float64, len(lengths))
	for i, l := range lengths {
		normalized[i] = math.Abs(l)
		if normalized[i] > 0 {
			positive = true
		}
	}
	if !positive {
		return nil
	}
	return &Dash{Array: normalized}
}

// WithOffset returns a copy of d starting at offset within the pattern.
func (d *Dash) WithOffset(offset float64) *Dash {
	if d == nil {
		return nil
	}
	return &Dash{Array: d.Array, Offset: offset}
}

// PatternLength returns the length of one complete cycle.
func (d *Dash) PatternLength() float64 {
	var total float64
	for _, l := range d.effectiveArray() {
		total += l
	}
	return total
}

// Scale returns a copy with every length and the offset multiplied by
// factor.
func (d *Dash) Scale(factor float64) *Dash {
	if d == nil || factor <= 0 {
		return d
	}
	scaled := make([]float64, len(d.Array))
	for i, l := range d.Array {
		scaled[i] = l * factor
	}
	return &Dash{Array: scaled, Offset: d.Offset * factor}
}

func (d *Dash) effectiveArray() []float64 {
	if d == nil || len(d.Array) == 0 {
		return nil
	}
	if len(d.Array)%2 == 0 {
		return d.Array
	}
	out := make([]float64, len(d.Array)*2)
	copy(out, d.Array)
	copy(out[len(d.Array):], d.Array)
	return out
}

// dasher walks a pattern along a polyline.
type dasher struct {
	pattern []float64
	index   int
	remain  float64
}

func (d *Dash) start() *dasher {
	arr := d.effectiveArray()
	s := &dasher{pattern: arr, remain: arr[0]}
	off := math.Mod(d.Offset, d.PatternLength())
	if off < 0 {
		off += d.PatternLength()
	}
	for off > 0 {
		if off < s.remain {
			s.remain -= off
			break
		}
		off -= s.remain
		s.advance()
	}
	return s
}

func (s *dasher) on() bool { return s.index%2 == 0 }

func (s *dasher) advance() {
	s.index = (s.index + 1) % len(s.pattern)
	s.remain = s.pattern[s.index]
}

// Dash returns a new path holding only the "on" intervals of pattern
// walked along the flattened path. Each subpath restarts the pattern. The
// result is open polylines; style overrides of p are kept.
func (p *Path) Dash(pattern ...float64) *Path {
	return p.DashWith(NewDash(pattern...))
}

// DashWith is Dash with an explicit pattern and offset. A nil pattern
// returns a copy of p.
func (p *Path) DashWith(d *Dash) *Path {
	if d == nil || d.PatternLength() <= 0 {
		return p.Copy()
	}
	out := p.Copy()
	out.elements = out.elements[:0]
	out.changed()
	for _, c := range p.contours(p.Tolerance()) {
		pts := c.Points
		if c.Closed && len(pts) > 0 {
			pts = append(pts[:len(pts):len(pts)], pts[0])
		}
		if len(pts) < 2 {
			continue
		}
		s := d.start()
		drawing := false
		for i := 1; i < len(pts); i++ {
			a, b := fromTess(pts[i-1]), fromTess(pts[i])
			seg := a.Distance(b)
			pos := 0.0
			for seg-pos > 1e-12 {
				step := math.Min(s.remain, seg-pos)
				q0 := a.Lerp(b, pos/seg)
				q1 := a.Lerp(b, (pos+step)/seg)
				if s.on() {
					if !drawing {
						out.MoveTo(q0.X, q0.Y)
						drawing = true
					}
					out.LineTo(q1.X, q1.Y)
				}
				pos += step
				s.remain -= step
				if s.remain <= 1e-12 {
					s.advance()
					drawing = false
				}
			}
		}
	}
	return out
}
