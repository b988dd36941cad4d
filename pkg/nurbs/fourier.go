package nurbs

import (
	"fmt"
	"math"
	"math/cmplx"
)

// EvaluateKnotSpanFourierTransform integrates
//
//	poly(t)·exp(-exponent·t)·exp(-i·2π·frequency·t)
//
// over [lower, upper]. Writing s = exponent + i·2π·frequency, every monomial has
// the antiderivative -exp(-s·t)·Σ n!/(n-k)!·t^(n-k)/s^(k+1); its real and imaginary
// parts are the cosine and sine transforms of the span. When |s|·t is small over
// the whole span the monomials are integrated by their power series instead.
func EvaluateKnotSpanFourierTransform(lower, upper, exponent, frequency float64, poly []float64) (complex128, error) {
	if len(poly)-1 > maxClosedFormDegree {
		return 0, fmt.Errorf("%w: degree too high (%d)", ErrInvalidArgument, len(poly)-1)
	}

	s := complex(exponent, 2*math.Pi*frequency)
	antiderivative := monomialOscillatingAntiderivative
	if cmplx.Abs(s)*math.Max(math.Abs(lower), math.Abs(upper)) < seriesThreshold {
		antiderivative = monomialOscillatingSeries
	}

	var transform complex128
	for degree, coefficient := range poly {
		if coefficient == 0 {
			continue
		}
		hi := antiderivative(upper, s, degree)
		lo := antiderivative(lower, s, degree)
		transform += complex(coefficient, 0) * (hi - lo)
	}
	return transform, nil
}

// monomialOscillatingAntiderivative returns F(t) with F' = t^degree·exp(-s·t), s ≠ 0
func monomialOscillatingAntiderivative(t float64, s complex128, degree int) complex128 {
	e := cmplx.Exp(-s * complex(t, 0))
	tc := complex(t, 0)
	s2 := s * s
	switch degree {
	case 0:
		return -e / s
	case 1:
		return -e * (tc/s + 1/s2)
	case 2:
		return -e * (tc*tc/s + 2*tc/s2 + 2/(s2*s))
	case 3:
		return -e * (tc*tc*tc/s + 3*tc*tc/s2 + 6*tc/(s2*s) + 6/(s2*s2))
	}
	panic("nurbs: monomial degree out of range")
}

// monomialOscillatingSeries is the complex counterpart of monomialDecaySeries
func monomialOscillatingSeries(t float64, s complex128, degree int) complex128 {
	var sum complex128
	c := complex(1, 0) // (-s·t)^m / m!
	for m := 0; m < maxSeriesTerms && c != 0; m++ {
		sum += c / complex(float64(degree+m+1), 0)
		c *= -s * complex(t/float64(m+1), 0)
	}
	return complex(math.Pow(t, float64(degree+1)), 0) * sum
}
