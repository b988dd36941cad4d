package nurbs

import (
	"math"

	"gonum.org/v1/gonum/mat"
)

// BSplinesCoefficients expresses the p+1 basis functions that are non-zero on one
// knot span as polynomials in the physical variable.
//
// Coefficients has p+1 rows and p+2 columns. Entry (r, j) is the coefficient of x^r
// in basis function N(knotIndex-p+j); the last column is zero padding so that the
// local control vector of a span always has p+2 entries.
type BSplinesCoefficients struct {
	// Coefficients holds the polynomial coefficients, one row per power
	Coefficients *mat.Dense

	// LowerLimit is the physical start of the span
	LowerLimit float64

	// UpperLimit is the physical end of the span
	UpperLimit float64
}

// NewBSplinesCoefficients builds the polynomial form of the basis functions on the
// span [knots[knotIndex], knots[knotIndex+1]). The Cox-de Boor recursion
//
//	N(i,k)(u) = (a·u + b)·N(i,k-1)(u) + (c·u + d)·N(i+1,k-1)(u)
//
// is carried out on coefficient columns, alternating between two buffers. Factors
// that come out as NaN or ±Inf (zero-length knot sub-intervals) count as zero.
// knotIndex must lie in [Degree, NumControlPoints-1].
func NewBSplinesCoefficients(values NurbsValues, knotIndex int) BSplinesCoefficients {
	p := values.Degree
	knots := values.KnotVector

	prev := mat.NewDense(p+1, p+2, nil)
	c := BSplinesCoefficients{
		Coefficients: prev,
		LowerLimit:   knots[knotIndex] * values.MaxValue,
		UpperLimit:   knots[knotIndex+1] * values.MaxValue,
	}
	if knots[knotIndex] == knots[knotIndex+1] {
		return c
	}

	next := mat.NewDense(p+1, p+2, nil)
	prev.Set(0, 0, 1)

	for k := 1; k <= p; k++ {
		next.Zero()
		for j := 0; j <= k; j++ {
			i := knotIndex - k + j
			left := 1 / (knots[i+k] - knots[i])
			right := 1 / (knots[i+k+1] - knots[i+1])

			a := finiteOrZero(left)
			b := finiteOrZero(-knots[i] * left)
			cf := finiteOrZero(-right)
			d := finiteOrZero(knots[i+k+1] * right)

			for r := 0; r <= k; r++ {
				var v float64
				// (a·u + b)·N(i,k-1); N(i,k-1) sits in column j-1 of the previous degree
				if j >= 1 {
					v += b * prev.At(r, j-1)
					if r >= 1 {
						v += a * prev.At(r-1, j-1)
					}
				}
				// (c·u + d)·N(i+1,k-1); column k of the previous degree is still zero
				v += d * prev.At(r, j)
				if r >= 1 {
					v += cf * prev.At(r-1, j)
				}
				next.Set(r, j, v)
			}
		}
		prev, next = next, prev
	}

	// u = x / MaxValue, so the coefficient of u^r becomes that of x^r over MaxValue^r
	for r := 1; r <= p; r++ {
		scale := math.Pow(values.MaxValue, float64(r))
		row := prev.RawRowView(r)
		for j := range row {
			row[j] /= scale
		}
	}
	c.Coefficients = prev
	return c
}

// Degree returns the polynomial degree of the span
func (c BSplinesCoefficients) Degree() int {
	r, _ := c.Coefficients.Dims()
	return r - 1
}

// IsDegenerate reports whether the span has zero length
func (c BSplinesCoefficients) IsDegenerate() bool {
	return c.LowerLimit == c.UpperLimit
}

// Polynomial blends the span's basis polynomials with a local control vector of
// length p+2 and returns the resulting coefficients ordered by power.
func (c BSplinesCoefficients) Polynomial(localControlPoints []float64) []float64 {
	var poly mat.VecDense
	poly.MulVec(c.Coefficients, mat.NewVecDense(len(localControlPoints), localControlPoints))
	return poly.RawVector().Data
}

func finiteOrZero(x float64) float64 {
	if math.IsNaN(x) || math.IsInf(x, 0) {
		return 0
	}
	return x
}
