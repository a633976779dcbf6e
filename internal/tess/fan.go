package tess

// Triangle is one fan triangle.
type Triangle [3]Point

// Fan triangulates each contour around its first vertex. The triangles are
// meant for stencil-then-cover filling: overlapping and inverted triangles
// are resolved by the winding count, so any contour topology works
// (concave, self-intersecting, holes). Degenerate triangles are skipped.
func Fan(cs []Contour) []Triangle {
	var out []Triangle
	for _, c := range cs {
		pts := c.Points
		if len(pts) < 3 {
			continue
		}
		o := pts[0]
		for i := 1; i+1 < len(pts); i++ {
			a, b := pts[i], pts[i+1]
			if cross(o, a, b) == 0 {
				continue
			}
			out = append(out, Triangle{o, a, b})
		}
	}
	return out
}

// SignedArea returns the sum of the signed triangle areas. For simple
// contours this is the shoelace area (positive for counter-clockwise).
func SignedArea(tris []Triangle) float64 {
	var area float64
	for _, t := range tris {
		area += cross(t[0], t[1], t[2]) / 2
	}
	return area
}

func cross(o, a, b Point) float64 {
	return (a.X-o.X)*(b.Y-o.Y) - (a.Y-o.Y)*(b.X-o.X)
}
