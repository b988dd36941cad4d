package nurbs

import (
	"fmt"

	"gonum.org/v1/gonum/floats"
)

// scratchSize bounds the degrees whose basis evaluation runs on stack buffers
const scratchSize = 8

// FindSpan returns the index of the knot span containing the parametric point,
// in [Degree, NumControlPoints-1]. Points at or beyond the upper end of the knot
// vector map to the last span so that the surface can be evaluated on its boundary
// and extrapolated past it. Negative points are rejected.
func FindSpan(values NurbsValues, point float64) (int, error) {
	if point < 0 {
		return 0, fmt.Errorf("%w: negative parametric point %g", ErrInvalidArgument, point)
	}

	knots := values.KnotVector
	n := values.NumControlPoints()
	p := values.Degree

	if point >= knots[n] {
		return n - 1, nil
	}
	if point < knots[p] {
		return p, nil
	}

	low, high := p, n
	mid := (low + high) / 2
	for point < knots[mid] || point >= knots[mid+1] {
		if point < knots[mid] {
			high = mid
		} else {
			low = mid
		}
		mid = (low + high) / 2
	}
	return mid, nil
}

// EvaluateBasisFunctions returns the Degree+1 basis functions that are non-zero
// at the parametric point within the given span, using the triangular recurrence
// of Piegl & Tiller (algorithm A2.2).
func EvaluateBasisFunctions(span int, point float64, values NurbsValues) []float64 {
	p := values.Degree
	basis := make([]float64, p+1)

	var leftBuf, rightBuf [scratchSize]float64
	left, right := leftBuf[:], rightBuf[:]
	if p+1 > scratchSize {
		left = make([]float64, p+1)
		right = make([]float64, p+1)
	}

	evaluateBasisInto(basis, left, right, span, point, values)
	return basis
}

func evaluateBasisInto(basis, left, right []float64, span int, point float64, values NurbsValues) {
	knots := values.KnotVector
	basis[0] = 1
	for j := 1; j <= values.Degree; j++ {
		left[j] = point - knots[span+1-j]
		right[j] = knots[span+j] - point
		var saved float64
		for r := 0; r < j; r++ {
			temp := basis[r] / (right[r+1] + left[j-r])
			basis[r] = saved + right[r+1]*temp
			saved = left[j-r] * temp
		}
		basis[j] = saved
	}
}

// EvaluateCurvePoint evaluates a 1-D curve with its own control points at a
// parametric point.
func EvaluateCurvePoint(values NurbsValues, point float64) (float64, error) {
	span, err := FindSpan(values, point)
	if err != nil {
		return 0, err
	}
	basis := EvaluateBasisFunctions(span, point, values)
	first := span - values.Degree
	return floats.Dot(basis, values.ControlPoints[first:first+len(basis)]), nil
}
