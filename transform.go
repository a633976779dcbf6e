package sketch

import "math"

// Transform represents a 2D affine transformation matrix.
// It uses a 2x3 matrix in row-major order:
//
//	| a  b  c |
//	| d  e  f |
//
// This represents the transformation:
//
//	x' = a*x + b*y + c
//	y' = d*x + e*y + f
type Transform struct {
	A, B, C float64
	D, E, F float64
}

// Identity returns the identity transformation.
func Identity() Transform {
	return Transform{A: 1, E: 1}
}

// Translate creates a translation.
func Translate(x, y float64) Transform {
	return Transform{A: 1, C: x, E: 1, F: y}
}

// Scale creates a scaling transformation.
func Scale(x, y float64) Transform {
	return Transform{A: x, E: y}
}

// Rotate creates a counter-clockwise rotation (angle in radians).
func Rotate(angle float64) Transform {
	sin, cos := math.Sincos(angle)
	return Transform{
		A: cos, B: -sin,
		D: sin, E: cos,
	}
}

// Skew creates a skew transformation with angles in radians along x and y.
func Skew(kx, ky float64) Transform {
	return Transform{
		A: 1, B: math.Tan(kx),
		D: math.Tan(ky), E: 1,
	}
}

// Multiply returns m * other: other is applied first, then m.
func (m Transform) Multiply(other Transform) Transform {
	return Transform{
		A: m.A*other.A + m.B*other.D,
		B: m.A*other.B + m.B*other.E,
		C: m.A*other.C + m.B*other.F + m.C,
		D: m.D*other.A + m.E*other.D,
		E: m.D*other.B + m.E*other.E,
		F: m.D*other.C + m.E*other.F + m.F,
	}
}

// Apply applies the transformation to a point.
func (m Transform) Apply(p Point) Point {
	return Point{
		X: m.A*p.X + m.B*p.Y + m.C,
		Y: m.D*p.X + m.E*p.Y + m.F,
	}
}

// ApplyXY is Apply for a coordinate pair.
func (m Transform) ApplyXY(x, y float64) (float64, float64) {
	return m.A*x + m.B*y + m.C, m.D*x + m.E*y + m.F
}

// ApplyVector applies the transformation to a vector (no translation).
func (m Transform) ApplyVector(p Point) Point {
	return Point{
		X: m.A*p.X + m.B*p.Y,
		Y: m.D*p.X + m.E*p.Y,
	}
}

// Determinant returns the determinant of the linear part.
func (m Transform) Determinant() float64 {
	return m.A*m.E - m.B*m.D
}

// Invert returns the inverse transformation. ok is false if the matrix is
// singular, in which case the identity is returned.
func (m Transform) Invert() (inv Transform, ok bool) {
	det := m.Determinant()
	if math.Abs(det) < 1e-12 || math.IsNaN(det) {
		return Identity(), false
	}
	invDet := 1.0 / det
	return Transform{
		A: m.E * invDet,
		B: -m.B * invDet,
		C: (m.B*m.F - m.C*m.E) * invDet,
		D: -m.D * invDet,
		E: m.A * invDet,
		F: (m.C*m.D - m.A*m.F) * invDet,
	}, true
}

// IsIdentity returns true if the matrix is the identity matrix.
func (m Transform) IsIdentity() bool {
	return m == Identity()
}

// ScaleFactor returns the geometric mean of the axis scales, used to
// convert device-space tolerances into user space.
func (m Transform) ScaleFactor() float64 {
	return math.Sqrt(math.Abs(m.Determinant()))
}
