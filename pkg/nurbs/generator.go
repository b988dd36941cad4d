package nurbs

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

const (
	// timeExtrapolationOffset is the distance of the interior time sample used for
	// the log-linear trend beyond the fitted time range
	timeExtrapolationOffset = 0.01

	// spaceExtrapolationOffset is the distance of the interior space sample used for
	// the log-linear trend beyond the fitted space range
	spaceExtrapolationOffset = 5.0
)

// Generator answers point, integral and frequency queries on one reference surface.
//
// FindSpan, EvaluateBasisFunctions and EvaluateSurfacePoint work on parametric
// coordinates in [0,1]. The remaining operations take reference physical
// coordinates: time in ns, space in mm (radial) or 1/mm (spatial frequency),
// exponent in 1/ns and frequency in GHz.
//
// Implementations are immutable after construction and safe for concurrent use.
type Generator interface {
	// TimeValues returns the parameter set of the time dimension
	TimeValues() NurbsValues

	// SpaceValues returns the parameter set of the space dimension
	SpaceValues() NurbsValues

	// FindSpan locates the knot span containing a parametric point
	FindSpan(values NurbsValues, point float64) (int, error)

	// EvaluateBasisFunctions returns the non-vanishing basis functions at a point
	EvaluateBasisFunctions(span int, point float64, values NurbsValues) []float64

	// EvaluateSurfacePoint evaluates the surface at parametric (time, space)
	EvaluateSurfacePoint(timeParam, spaceParam float64) (float64, error)

	// EvaluateNurbsCurveIntegral integrates the isoparametric time curve at the
	// given space coordinate, weighted by exp(-exponent·t)
	EvaluateNurbsCurveIntegral(space, exponent float64) (float64, error)

	// EvaluateNurbsCurveFourierTransform Fourier transforms the isoparametric time
	// curve at the given space coordinate, weighted by exp(-exponent·t)
	EvaluateNurbsCurveFourierTransform(space, exponent, frequency float64) (complex128, error)

	// ComputePointOutOfSurface estimates the surface beyond its fitted range
	ComputePointOutOfSurface(time, space float64) (float64, error)

	// GetMinimumValidTime returns the earliest physically valid time at a space coordinate
	GetMinimumValidTime(space float64) float64
}

// GeneratorKind selects the physical domain of a reference surface
type GeneratorKind int

const (
	// RealDomain surfaces are parameterized by source-detector separation and time
	RealDomain GeneratorKind = iota
	// SpatialFrequencyDomain surfaces are parameterized by spatial frequency and time
	SpatialFrequencyDomain
	// Stub is a surface that evaluates to zero everywhere
	Stub
)

// String returns the name used for the kind in dataset files
func (k GeneratorKind) String() string {
	switch k {
	case RealDomain:
		return "realDomain"
	case SpatialFrequencyDomain:
		return "spatialFrequencyDomain"
	case Stub:
		return "stub"
	default:
		return fmt.Sprintf("GeneratorKind(%d)", int(k))
	}
}

// ParseGeneratorKind is the inverse of GeneratorKind.String
func ParseGeneratorKind(name string) (GeneratorKind, error) {
	for _, k := range []GeneratorKind{RealDomain, SpatialFrequencyDomain, Stub} {
		if k.String() == name {
			return k, nil
		}
	}
	return 0, fmt.Errorf("%w: unsupported generator kind %q", ErrInvalidArgument, name)
}

// ReferenceData is the pre-fitted reference model of one domain as supplied by a
// dataset provider.
type ReferenceData struct {
	// Time is the parameter set of the time dimension
	Time NurbsValues

	// Space is the parameter set of the space dimension
	Space NurbsValues

	// ControlPoints is the control grid indexed [space][time]
	ControlPoints [][]float64

	// MinimumTime is the fitted minimum time-of-flight curve over ρ (real domain only)
	MinimumTime *NurbsValues
}

// NewGenerator builds the generator matching kind from reference data
func NewGenerator(kind GeneratorKind, data ReferenceData) (Generator, error) {
	switch kind {
	case RealDomain:
		return NewRealDomainGenerator(data)
	case SpatialFrequencyDomain:
		return NewSpatialFrequencyGenerator(data)
	case Stub:
		return StubGenerator{}, nil
	default:
		return nil, fmt.Errorf("%w: unsupported generator kind %v", ErrInvalidArgument, kind)
	}
}

// surface holds the control grid and per-span coefficients shared by the real and
// spatial-frequency domain generators.
type surface struct {
	timeValues  NurbsValues
	spaceValues NurbsValues

	// controlPoints is indexed (space, time)
	controlPoints *mat.Dense

	// timeCoefficients holds one entry per time knot span, index span-Degree
	timeCoefficients []BSplinesCoefficients
}

func newSurface(data ReferenceData) (surface, error) {
	if data.Time.Dimension != TimeDimension {
		return surface{}, fmt.Errorf("%w: time values tagged %v", ErrInvalidArgument, data.Time.Dimension)
	}
	if data.Space.Dimension != SpaceDimension {
		return surface{}, fmt.Errorf("%w: space values tagged %v", ErrInvalidArgument, data.Space.Dimension)
	}
	if err := data.Time.validate(); err != nil {
		return surface{}, fmt.Errorf("time values: %w", err)
	}
	if err := data.Space.validate(); err != nil {
		return surface{}, fmt.Errorf("space values: %w", err)
	}

	rows := data.Space.NumControlPoints()
	cols := data.Time.NumControlPoints()
	if len(data.ControlPoints) != rows {
		return surface{}, fmt.Errorf("%w: control grid has %d space rows, knots define %d",
			ErrInvalidArgument, len(data.ControlPoints), rows)
	}
	grid := make([]float64, 0, rows*cols)
	for i, row := range data.ControlPoints {
		if len(row) != cols {
			return surface{}, fmt.Errorf("%w: control grid row %d has %d time points, knots define %d",
				ErrInvalidArgument, i, len(row), cols)
		}
		grid = append(grid, row...)
	}

	s := surface{
		timeValues:    data.Time,
		spaceValues:   data.Space,
		controlPoints: mat.NewDense(rows, cols, grid),
	}
	for span := data.Time.Degree; span < cols; span++ {
		s.timeCoefficients = append(s.timeCoefficients, NewBSplinesCoefficients(data.Time, span))
	}
	return s, nil
}

// TimeValues returns the parameter set of the time dimension
func (s *surface) TimeValues() NurbsValues { return s.timeValues }

// SpaceValues returns the parameter set of the space dimension
func (s *surface) SpaceValues() NurbsValues { return s.spaceValues }

// FindSpan locates the knot span containing a parametric point
func (s *surface) FindSpan(values NurbsValues, point float64) (int, error) {
	return FindSpan(values, point)
}

// EvaluateBasisFunctions returns the non-vanishing basis functions at a point
func (s *surface) EvaluateBasisFunctions(span int, point float64, values NurbsValues) []float64 {
	return EvaluateBasisFunctions(span, point, values)
}

// EvaluateSurfacePoint blends the control grid with the time and space basis
// functions at parametric (timeParam, spaceParam).
func (s *surface) EvaluateSurfacePoint(timeParam, spaceParam float64) (float64, error) {
	timeSpan, err := FindSpan(s.timeValues, timeParam)
	if err != nil {
		return 0, fmt.Errorf("time coordinate: %w", err)
	}
	spaceSpan, err := FindSpan(s.spaceValues, spaceParam)
	if err != nil {
		return 0, fmt.Errorf("space coordinate: %w", err)
	}

	timeBasis := EvaluateBasisFunctions(timeSpan, timeParam, s.timeValues)
	spaceBasis := EvaluateBasisFunctions(spaceSpan, spaceParam, s.spaceValues)

	firstTime := timeSpan - s.timeValues.Degree
	firstSpace := spaceSpan - s.spaceValues.Degree

	var value float64
	for i, w := range spaceBasis {
		row := s.controlPoints.RawRowView(firstSpace + i)
		value += w * floats.Dot(timeBasis, row[firstTime:firstTime+len(timeBasis)])
	}
	return value, nil
}

// EvaluateTensorProductControlPoints collapses the control grid along space at a
// fixed parametric space coordinate. The result holds, for every time knot span,
// the Degree+1 control points acting on that span followed by a zero pad, ready to
// be blended with the span's BSplinesCoefficients.
func (s *surface) EvaluateTensorProductControlPoints(spaceParam float64) ([][]float64, error) {
	spaceSpan, err := FindSpan(s.spaceValues, spaceParam)
	if err != nil {
		return nil, fmt.Errorf("space coordinate: %w", err)
	}
	spaceBasis := EvaluateBasisFunctions(spaceSpan, spaceParam, s.spaceValues)
	firstSpace := spaceSpan - s.spaceValues.Degree

	_, cols := s.controlPoints.Dims()
	curve := make([]float64, cols)
	for i, w := range spaceBasis {
		floats.AddScaled(curve, w, s.controlPoints.RawRowView(firstSpace+i))
	}

	p := s.timeValues.Degree
	local := make([][]float64, len(s.timeCoefficients))
	for k := range local {
		span := k + p
		v := make([]float64, p+2)
		copy(v, curve[span-p:span+1])
		local[k] = v
	}
	return local, nil
}

// integrate sums the closed-form integral of every time span that ends after
// lowerBound; a span straddling lowerBound is clipped there.
func (s *surface) integrate(space, exponent, lowerBound float64) (float64, error) {
	local, err := s.EvaluateTensorProductControlPoints(space / s.spaceValues.MaxValue)
	if err != nil {
		return 0, err
	}

	var total float64
	for k, c := range s.timeCoefficients {
		lo, hi, ok := clipSpan(c, lowerBound)
		if !ok {
			continue
		}
		v, err := EvaluateKnotSpanIntegralValue(lo, hi, exponent, c.Polynomial(local[k]))
		if err != nil {
			return 0, err
		}
		total += v
	}
	return total, nil
}

// transform is the Fourier counterpart of integrate
func (s *surface) transform(space, exponent, frequency, lowerBound float64) (complex128, error) {
	local, err := s.EvaluateTensorProductControlPoints(space / s.spaceValues.MaxValue)
	if err != nil {
		return 0, err
	}

	var total complex128
	for k, c := range s.timeCoefficients {
		lo, hi, ok := clipSpan(c, lowerBound)
		if !ok {
			continue
		}
		v, err := EvaluateKnotSpanFourierTransform(lo, hi, exponent, frequency, c.Polynomial(local[k]))
		if err != nil {
			return 0, err
		}
		total += v
	}
	return total, nil
}

func clipSpan(c BSplinesCoefficients, lowerBound float64) (lo, hi float64, ok bool) {
	if c.IsDegenerate() || c.UpperLimit <= lowerBound {
		return 0, 0, false
	}
	return math.Max(c.LowerLimit, lowerBound), c.UpperLimit, true
}

// evaluatePhysical evaluates the surface at reference physical coordinates
func (s *surface) evaluatePhysical(time, space float64) (float64, error) {
	return s.EvaluateSurfacePoint(time/s.timeValues.MaxValue, space/s.spaceValues.MaxValue)
}

// extrapolate continues the surface past its fitted range with a log-linear trend
// through the boundary sample and one interior sample per exceeded dimension.
func (s *surface) extrapolate(time, space float64, allowSpace bool) (float64, error) {
	timeMax, spaceMax := s.timeValues.MaxValue, s.spaceValues.MaxValue
	if space > spaceMax && !allowSpace {
		return 0, nil
	}

	tb := math.Min(time, timeMax)
	sb := math.Min(space, spaceMax)
	boundary, err := s.evaluatePhysical(tb, sb)
	if err != nil {
		return 0, err
	}
	value := boundary

	if time > timeMax {
		inner, err := s.evaluatePhysical(timeMax-timeExtrapolationOffset, sb)
		if err != nil {
			return 0, err
		}
		value *= logLinearFactor(boundary, inner, timeExtrapolationOffset, time-timeMax)
	}
	if space > spaceMax {
		inner, err := s.evaluatePhysical(tb, spaceMax-spaceExtrapolationOffset)
		if err != nil {
			return 0, err
		}
		value *= logLinearFactor(boundary, inner, spaceExtrapolationOffset, space-spaceMax)
	}
	return value, nil
}

// logLinearFactor returns exp(slope·distance) for the line through
// (−offset, log inner) and (0, log boundary). Non-positive samples have no
// logarithm and yield 0.
func logLinearFactor(boundary, inner, offset, distance float64) float64 {
	if boundary <= 0 || inner <= 0 {
		return 0
	}
	slope := (math.Log(boundary) - math.Log(inner)) / offset
	return math.Exp(slope * distance)
}
