package nurbs

import "fmt"

// minimumTimeMargin keeps the causal bound slightly below the fitted
// minimum time-of-flight curve
const minimumTimeMargin = 0.98

// RealDomainGenerator evaluates a reflectance surface over source-detector
// separation ρ and time. Light cannot reach a detector before the ballistic transit
// time, so time integrals and transforms start at GetMinimumValidTime(ρ).
type RealDomainGenerator struct {
	surface

	// minimumTime is the fitted minimum time-of-flight curve over ρ
	minimumTime NurbsValues
}

// NewRealDomainGenerator builds a radial generator from reference data. Without a
// minimum-time curve every time from zero on counts as valid.
func NewRealDomainGenerator(data ReferenceData) (*RealDomainGenerator, error) {
	s, err := newSurface(data)
	if err != nil {
		return nil, fmt.Errorf("real domain surface: %w", err)
	}
	g := &RealDomainGenerator{surface: s}
	if data.MinimumTime != nil {
		mt := *data.MinimumTime
		if err := mt.validate(); err != nil {
			return nil, fmt.Errorf("minimum time curve: %w", err)
		}
		if len(mt.ControlPoints) != mt.NumControlPoints() {
			return nil, fmt.Errorf("%w: minimum time curve has %d control points, knots define %d",
				ErrInvalidArgument, len(mt.ControlPoints), mt.NumControlPoints())
		}
		g.minimumTime = mt
	}
	return g, nil
}

// GetMinimumValidTime returns 98% of the fitted minimum time-of-flight at ρ
func (g *RealDomainGenerator) GetMinimumValidTime(rho float64) float64 {
	if g.minimumTime.IsZero() {
		return 0
	}
	t, err := EvaluateCurvePoint(g.minimumTime, rho/g.minimumTime.MaxValue)
	if err != nil {
		return 0
	}
	return minimumTimeMargin * t
}

// EvaluateNurbsCurveIntegral integrates R(ρ,t)·exp(-exponent·t) over the causal
// part of the fitted time range.
func (g *RealDomainGenerator) EvaluateNurbsCurveIntegral(rho, exponent float64) (float64, error) {
	return g.integrate(rho, exponent, g.GetMinimumValidTime(rho))
}

// EvaluateNurbsCurveFourierTransform transforms R(ρ,t)·exp(-exponent·t) over the
// causal part of the fitted time range.
func (g *RealDomainGenerator) EvaluateNurbsCurveFourierTransform(rho, exponent, frequency float64) (complex128, error) {
	return g.transform(rho, exponent, frequency, g.GetMinimumValidTime(rho))
}

// ComputePointOutOfSurface extrapolates R(ρ,t) beyond the fitted time and radial ranges
func (g *RealDomainGenerator) ComputePointOutOfSurface(time, rho float64) (float64, error) {
	return g.extrapolate(time, rho, true)
}
