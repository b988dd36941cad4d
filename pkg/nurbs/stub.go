package nurbs

// StubGenerator is a Generator without a reference surface. Every query evaluates
// to zero; it stands in for a domain that has no dataset loaded.
type StubGenerator struct{}

var (
	_ Generator = StubGenerator{}
	_ Generator = (*RealDomainGenerator)(nil)
	_ Generator = (*SpatialFrequencyGenerator)(nil)
)

// TimeValues returns an empty time parameter set
func (StubGenerator) TimeValues() NurbsValues { return NurbsValues{Dimension: TimeDimension} }

// SpaceValues returns an empty space parameter set
func (StubGenerator) SpaceValues() NurbsValues { return NurbsValues{Dimension: SpaceDimension} }

// FindSpan always returns span 0
func (StubGenerator) FindSpan(values NurbsValues, point float64) (int, error) { return 0, nil }

// EvaluateBasisFunctions returns no basis functions
func (StubGenerator) EvaluateBasisFunctions(span int, point float64, values NurbsValues) []float64 {
	return nil
}

// EvaluateSurfacePoint returns 0
func (StubGenerator) EvaluateSurfacePoint(timeParam, spaceParam float64) (float64, error) {
	return 0, nil
}

// EvaluateNurbsCurveIntegral returns 0
func (StubGenerator) EvaluateNurbsCurveIntegral(space, exponent float64) (float64, error) {
	return 0, nil
}

// EvaluateNurbsCurveFourierTransform returns 0
func (StubGenerator) EvaluateNurbsCurveFourierTransform(space, exponent, frequency float64) (complex128, error) {
	return 0, nil
}

// ComputePointOutOfSurface returns 0
func (StubGenerator) ComputePointOutOfSurface(time, space float64) (float64, error) { return 0, nil }

// GetMinimumValidTime returns 0
func (StubGenerator) GetMinimumValidTime(space float64) float64 { return 0 }
