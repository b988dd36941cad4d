package nurbs

import (
	"fmt"
	"math"
)

const (
	// maxClosedFormDegree is the highest monomial degree with a tabulated antiderivative
	maxClosedFormDegree = 3

	// seriesThreshold is the largest |s|·t for which antiderivatives are summed as a
	// power series. Below it the closed forms cancel catastrophically.
	seriesThreshold = 1.0

	// maxSeriesTerms bounds the power series; (|s|·t)^m/m! is below 1e-40 by then
	maxSeriesTerms = 40
)

// EvaluateKnotSpanIntegralValue integrates poly(t)·exp(-exponent·t) over
// [lower, upper], where poly holds polynomial coefficients ordered by power.
// Each monomial is integrated in closed form, or by its power series when
// exponent·t is small over the whole span (including a zero exponent, where the
// series reduces to the power rule). Polynomials above cubic degree are rejected.
func EvaluateKnotSpanIntegralValue(lower, upper, exponent float64, poly []float64) (float64, error) {
	if len(poly)-1 > maxClosedFormDegree {
		return 0, fmt.Errorf("%w: degree too high (%d)", ErrInvalidArgument, len(poly)-1)
	}

	antiderivative := monomialDecayAntiderivative
	if math.Abs(exponent)*math.Max(math.Abs(lower), math.Abs(upper)) < seriesThreshold {
		antiderivative = monomialDecaySeries
	}

	var integral float64
	for degree, coefficient := range poly {
		if coefficient == 0 {
			continue
		}
		hi := antiderivative(upper, exponent, degree)
		lo := antiderivative(lower, exponent, degree)
		integral += coefficient * (hi - lo)
	}
	return integral, nil
}

// monomialDecayAntiderivative returns F(t) with F' = t^degree·exp(-a·t), a ≠ 0
func monomialDecayAntiderivative(t, a float64, degree int) float64 {
	e := math.Exp(-a * t)
	a2 := a * a
	switch degree {
	case 0:
		return -e / a
	case 1:
		return -e * (t/a + 1/a2)
	case 2:
		return -e * (t*t/a + 2*t/a2 + 2/(a2*a))
	case 3:
		return -e * (t*t*t/a + 3*t*t/a2 + 6*t/(a2*a) + 6/(a2*a2))
	}
	panic("nurbs: monomial degree out of range")
}

// monomialDecaySeries returns F(t) = Σ (-a)^m·t^(degree+m+1)/(m!·(degree+m+1)),
// the antiderivative of t^degree·exp(-a·t) with F(0) = 0
func monomialDecaySeries(t, a float64, degree int) float64 {
	var sum float64
	c := 1.0 // (-a·t)^m / m!
	for m := 0; m < maxSeriesTerms && c != 0; m++ {
		sum += c / float64(degree+m+1)
		c *= -a * t / float64(m+1)
	}
	return math.Pow(t, float64(degree+1)) * sum
}
