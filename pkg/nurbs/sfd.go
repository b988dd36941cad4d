package nurbs

import "fmt"

// SpatialFrequencyGenerator evaluates a reflectance surface over spatial frequency
// fx and time. There is no causal bound in this domain and no extrapolation in fx.
type SpatialFrequencyGenerator struct {
	surface
}

// NewSpatialFrequencyGenerator builds a spatial-frequency generator from reference data
func NewSpatialFrequencyGenerator(data ReferenceData) (*SpatialFrequencyGenerator, error) {
	s, err := newSurface(data)
	if err != nil {
		return nil, fmt.Errorf("spatial frequency surface: %w", err)
	}
	return &SpatialFrequencyGenerator{surface: s}, nil
}

// GetMinimumValidTime is always zero in the spatial-frequency domain
func (g *SpatialFrequencyGenerator) GetMinimumValidTime(fx float64) float64 {
	return 0
}

// EvaluateNurbsCurveIntegral integrates R(fx,t)·exp(-exponent·t) over the fitted time range
func (g *SpatialFrequencyGenerator) EvaluateNurbsCurveIntegral(fx, exponent float64) (float64, error) {
	return g.integrate(fx, exponent, 0)
}

// EvaluateNurbsCurveFourierTransform transforms R(fx,t)·exp(-exponent·t) over the fitted time range
func (g *SpatialFrequencyGenerator) EvaluateNurbsCurveFourierTransform(fx, exponent, frequency float64) (complex128, error) {
	return g.transform(fx, exponent, frequency, 0)
}

// ComputePointOutOfSurface extrapolates R(fx,t) beyond the fitted time range.
// Beyond the fitted fx range it returns 0.
func (g *SpatialFrequencyGenerator) ComputePointOutOfSurface(time, fx float64) (float64, error) {
	return g.extrapolate(time, fx, false)
}
