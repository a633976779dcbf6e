package sketch

import (
	"sync"

	"github.com/gogpu/sketch/internal/cache"
	"github.com/gogpu/sketch/internal/stroke"
	"github.com/gogpu/sketch/internal/tess"
)

// Contour is one flattened subpath.
type Contour struct {
	Points []Point
	Closed bool
}

// Triangle is one triangle of a fan tessellation.
type Triangle [3]Point

// CacheStats reports the state of a cache.
type CacheStats struct {
	Len       int
	Capacity  int
	Hits      uint64
	Misses    uint64
	Evictions uint64
	HitRate   float64
}

// tessKey identifies a tessellation. stroke is the zero value for fills.
type tessKey struct {
	fp     uint64
	tol    float64
	stroke stroke.Stroke
}

type tessellation struct {
	contours []tess.Contour

	fanOnce   sync.Once
	triangles []tess.Triangle
}

var tessCache = cache.New[tessKey, *tessellation](cache.DefaultCapacity)

// SetTessellationCacheSize sets the number of tessellations kept in the
// process-wide cache. Values < 1 select the default of 1024.
func SetTessellationCacheSize(n int) {
	if n < 1 {
		n = cache.DefaultCapacity
	}
	tessCache.Resize(n)
}

// TessellationCacheStats returns statistics of the tessellation cache.
func TessellationCacheStats() CacheStats {
	s := tessCache.Stats()
	return CacheStats{
		Len:       s.Len,
		Capacity:  s.Capacity,
		Hits:      s.Hits,
		Misses:    s.Misses,
		Evictions: s.Evictions,
		HitRate:   s.HitRate,
	}
}

// ClearTessellationCache drops every cached tessellation.
func ClearTessellationCache() { tessCache.Clear() }

// contours returns the flattened contours of p at tolerance tol, in path
// coordinates.
func (p *Path) contours(tol float64) []tess.Contour {
	key := tessKey{fp: p.Fingerprint(), tol: tol}
	return tessCache.GetOrCreate(key, func() *tessellation {
		return &tessellation{contours: tess.Flatten(p.segments(), tol)}
	}).contours
}

// strokeContours returns the outline polygons of the stroke of p.
func (p *Path) strokeContours(tol float64, style stroke.Stroke) []tess.Contour {
	style.Tolerance = tol
	key := tessKey{fp: p.Fingerprint(), tol: tol, stroke: style}
	return tessCache.GetOrCreate(key, func() *tessellation {
		return &tessellation{contours: stroke.Expand(p.contours(tol), style)}
	}).contours
}

// Contours returns the path flattened at its tolerance.
func (p *Path) Contours() []Contour {
	cs := p.contours(p.Tolerance())
	out := make([]Contour, len(cs))
	for i, c := range cs {
		pts := make([]Point, len(c.Points))
		for j, q := range c.Points {
			pts[j] = fromTess(q)
		}
		out[i] = Contour{Points: pts, Closed: c.Closed}
	}
	return out
}

// Tessellation returns the fan triangulation of the flattened contours
// used for stencil-then-cover filling. Overlapping triangles of opposite
// orientation cancel under the nonzero rule.
func (p *Path) Tessellation() []Triangle {
	tol := p.Tolerance()
	t := tessCache.GetOrCreate(tessKey{fp: p.Fingerprint(), tol: tol}, func() *tessellation {
		return &tessellation{contours: tess.Flatten(p.segments(), tol)}
	})
	t.fanOnce.Do(func() { t.triangles = tess.Fan(t.contours) })
	out := make([]Triangle, len(t.triangles))
	for i, tri := range t.triangles {
		out[i] = Triangle{fromTess(tri[0]), fromTess(tri[1]), fromTess(tri[2])}
	}
	return out
}
