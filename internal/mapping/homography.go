// Package mapping transforms camera-space anchor points into target-surface
// coordinates, either by direct scaling (screen mode) or through a
// calibrated 4-point planar homography (table mode).
package mapping

import (
	"errors"
	"math"

	"gonum.org/v1/gonum/mat"
)

// ErrDegenerate is returned when the four calibration corners do not form
// a usable quadrilateral (three collinear corners or near-zero area).
var ErrDegenerate = errors.New("degenerate calibration corners")

// collinearEps is the minimum triangle area (in squared normalized camera
// units) below which three corners are considered collinear.
const collinearEps = 1e-4

// Point is a 2D point. In camera space coordinates are normalized [0,1];
// in surface space they are pixels.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Distance returns the Euclidean distance between two points.
func Distance(a, b Point) float64 {
	dx := a.X - b.X
	dy := a.Y - b.Y
	return math.Sqrt(dx*dx + dy*dy)
}

// Homography is a 3x3 planar projective transform with h33 fixed to 1.
type Homography struct {
	m [9]float64
}

// NewHomography builds a Homography from a row-major 3x3 matrix.
// Used when restoring a persisted calibration.
func NewHomography(m [9]float64) *Homography {
	return &Homography{m: m}
}

// Matrix returns the row-major 3x3 matrix.
func (h *Homography) Matrix() [9]float64 {
	return h.m
}

// Apply transforms a point into destination space and de-homogenizes.
func (h *Homography) Apply(p Point) Point {
	w := h.m[6]*p.X + h.m[7]*p.Y + h.m[8]
	if math.Abs(w) < 1e-12 {
		w = 1e-12
	}
	return Point{
		X: (h.m[0]*p.X + h.m[1]*p.Y + h.m[2]) / w,
		Y: (h.m[3]*p.X + h.m[4]*p.Y + h.m[5]) / w,
	}
}

// ComputeHomography solves the planar homography mapping each src corner to
// the corresponding dst corner. Corners follow the calibration winding
// order: top-left, top-right, bottom-right, bottom-left.
//
// With h33 = 1 the four correspondences give an 8x8 linear system:
//
//	[x y 1 0 0 0 -x*X -y*X] h = X
//	[0 0 0 x y 1 -x*Y -y*Y] h = Y
func ComputeHomography(src, dst [4]Point) (*Homography, error) {
	if DegenerateCorner(src[:]) >= 0 {
		return nil, ErrDegenerate
	}

	a := mat.NewDense(8, 8, nil)
	b := mat.NewVecDense(8, nil)

	for i := 0; i < 4; i++ {
		x, y := src[i].X, src[i].Y
		u, v := dst[i].X, dst[i].Y

		a.SetRow(2*i, []float64{x, y, 1, 0, 0, 0, -x * u, -y * u})
		a.SetRow(2*i+1, []float64{0, 0, 0, x, y, 1, -x * v, -y * v})
		b.SetVec(2*i, u)
		b.SetVec(2*i+1, v)
	}

	var h mat.VecDense
	if err := h.SolveVec(a, b); err != nil {
		return nil, ErrDegenerate
	}

	var m [9]float64
	for i := 0; i < 8; i++ {
		m[i] = h.AtVec(i)
	}
	m[8] = 1

	return &Homography{m: m}, nil
}

// DegenerateCorner checks the corner set for degeneracy and returns the
// index of the offending corner, or -1 if the set is usable. For a
// collinear triple the highest index is reported, so the most recently
// captured corner is the one re-requested.
func DegenerateCorner(pts []Point) int {
	n := len(pts)
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			for k := j + 1; k < n; k++ {
				if triangleArea(pts[i], pts[j], pts[k]) < collinearEps {
					return k
				}
			}
		}
	}

	// Shoelace area of the full quadrilateral.
	if n == 4 {
		area := 0.0
		for i := 0; i < 4; i++ {
			j := (i + 1) % 4
			area += pts[i].X*pts[j].Y - pts[j].X*pts[i].Y
		}
		if math.Abs(area)/2 < collinearEps {
			return 3
		}
	}

	return -1
}

func triangleArea(a, b, c Point) float64 {
	cross := (b.X-a.X)*(c.Y-a.Y) - (b.Y-a.Y)*(c.X-a.X)
	return math.Abs(cross) / 2
}
