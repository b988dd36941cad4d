package forward

import (
	"math"

	"gonum.org/v1/gonum/integrate"

	"nurbsreflectance/pkg/nurbs"
)

// discreteFourier transforms time samples of a reflectance curve with the
// trapezoidal rule on the generator's native time grid mapped to physical time.
// sample must already include similarity scaling and absorption.
func (s *NurbsForwardSolver) discreteFourier(g nurbs.Generator, ft, k float64, sample func(t float64) (float64, error)) (complex128, error) {
	times := nativeTimeGrid(g.TimeValues(), k, s.samplesPerSpan)
	if len(times) < 2 {
		return 0, nil
	}

	w := 2 * math.Pi * ft
	re := make([]float64, len(times))
	im := make([]float64, len(times))
	for i, t := range times {
		r, err := sample(t)
		if err != nil {
			return 0, err
		}
		re[i] = r * math.Cos(w*t)
		im[i] = -r * math.Sin(w*t)
	}
	return clampComplex(complex(integrate.Trapezoidal(times, re), integrate.Trapezoidal(times, im))), nil
}

// nativeTimeGrid splits every non-degenerate time knot span into samplesPerSpan
// equal steps and maps the resulting reference times τ to physical times τ/k.
// Spans of different length give a non-uniform grid.
func nativeTimeGrid(tv nurbs.NurbsValues, k float64, samplesPerSpan int) []float64 {
	if tv.IsZero() {
		return nil
	}

	var times []float64
	knots := tv.KnotVector
	for i := 0; i+1 < len(knots); i++ {
		lo, hi := knots[i], knots[i+1]
		if hi == lo {
			continue
		}
		for j := 0; j < samplesPerSpan; j++ {
			u := lo + (hi-lo)*float64(j)/float64(samplesPerSpan)
			times = append(times, u*tv.MaxValue/k)
		}
	}
	if len(times) > 0 {
		times = append(times, knots[len(knots)-1]*tv.MaxValue/k)
	}
	return times
}
