// Package forward evaluates diffuse reflectance of a semi-infinite turbid medium for
// arbitrary optical properties from reference NURBS surfaces computed for a single
// set of optical properties.
//
// Diffusion similarity scaling maps a query for (μa, μs') onto the reference
// surface: with k = μs'/μs'ref, distances and times shrink by k, spatial and
// temporal frequencies grow by k, and the amplitude scales by a power of k that
// depends on the dimensions of the quantity. Absorption enters as exp(-μa·v·t).
package forward

import (
	"fmt"
	"math"
	"runtime"

	"gonum.org/v1/gonum/stat"

	"nurbsreflectance/internal/models"
	"nurbsreflectance/pkg/dataset"
	"nurbsreflectance/pkg/nurbs"
)

// Amplitude exponents of k = μs'/μs'ref for each reflectance quantity
const (
	steadyStateRhoExponent  = 2
	steadyStateFxExponent   = 0
	timeResolvedRhoExponent = 3
	timeResolvedFxExponent  = 1
	frequencyRhoExponent    = 2
	frequencyFxExponent     = 0
	defaultSamplesPerSpan   = 20
)

// Logger is the logging interface used by the solver
type Logger interface {
	Printf(format string, args ...interface{})
}

// DefaultLogger writes to stdout
type DefaultLogger struct{}

// Printf prints a formatted line to stdout
func (DefaultLogger) Printf(format string, args ...interface{}) {
	fmt.Printf(format+"\n", args...)
}

// Params configures a NurbsForwardSolver
type Params struct {
	// Reference holds the optical properties the reference surfaces were generated with.
	// The zero value selects models.ReferenceOpticalProperties.
	Reference models.OpticalProperties

	// AnalyticFourier selects the closed-form Fourier transform for frequency-domain
	// queries. When false, time samples are transformed numerically.
	AnalyticFourier bool

	// NumCores bounds the number of goroutines used by batch queries
	NumCores int

	// DiscreteSamplesPerSpan is the number of time steps per reference time knot span
	// used by the numerical Fourier transform
	DiscreteSamplesPerSpan int

	// Logger receives informational messages; nil selects DefaultLogger
	Logger Logger
}

// DefaultParams returns parameters with the analytic transform and all cores
func DefaultParams() *Params {
	return &Params{
		Reference:              models.ReferenceOpticalProperties(),
		AnalyticFourier:        true,
		NumCores:               runtime.NumCPU(),
		DiscreteSamplesPerSpan: defaultSamplesPerSpan,
		Logger:                 DefaultLogger{},
	}
}

// NurbsForwardSolver answers reflectance queries from one radial and one
// spatial-frequency reference surface. It holds no mutable state, so a single
// instance may serve concurrent queries.
type NurbsForwardSolver struct {
	rdGenerator  nurbs.Generator
	sfdGenerator nurbs.Generator

	reference       models.OpticalProperties
	analyticFourier bool
	numCores        int
	samplesPerSpan  int
	logger          Logger
}

// NewNurbsForwardSolver creates a solver over the given generators. A nil generator
// is replaced by a stub so that queries in that domain evaluate to zero. A nil
// params selects DefaultParams.
func NewNurbsForwardSolver(rd, sfd nurbs.Generator, params *Params) *NurbsForwardSolver {
	if params == nil {
		params = DefaultParams()
	}
	if rd == nil {
		rd = nurbs.StubGenerator{}
	}
	if sfd == nil {
		sfd = nurbs.StubGenerator{}
	}

	s := &NurbsForwardSolver{
		rdGenerator:     rd,
		sfdGenerator:    sfd,
		reference:       params.Reference,
		analyticFourier: params.AnalyticFourier,
		numCores:        params.NumCores,
		samplesPerSpan:  params.DiscreteSamplesPerSpan,
		logger:          params.Logger,
	}
	if s.reference == (models.OpticalProperties{}) {
		s.reference = models.ReferenceOpticalProperties()
	}
	if s.numCores < 1 {
		s.numCores = runtime.NumCPU()
	}
	if s.samplesPerSpan < 1 {
		s.samplesPerSpan = defaultSamplesPerSpan
	}
	if s.logger == nil {
		s.logger = DefaultLogger{}
	}
	return s
}

// NewFromProvider loads the radial and spatial-frequency reference models once and
// builds a solver over them. A provider without a model for one domain leaves that
// domain stubbed.
func NewFromProvider(provider dataset.Provider, params *Params) (*NurbsForwardSolver, error) {
	if params == nil {
		params = DefaultParams()
	}
	logger := params.Logger
	if logger == nil {
		logger = DefaultLogger{}
	}

	load := func(kind nurbs.GeneratorKind) (nurbs.Generator, error) {
		data, err := provider.Load(kind)
		if err != nil {
			if dataset.IsNotFound(err) {
				logger.Printf("No %v reference model available, using stub", kind)
				return nurbs.StubGenerator{}, nil
			}
			return nil, fmt.Errorf("failed to load %v reference model: %w", kind, err)
		}
		g, err := nurbs.NewGenerator(kind, *data)
		if err != nil {
			return nil, fmt.Errorf("failed to build %v generator: %w", kind, err)
		}
		logger.Printf("Loaded %v reference model: %d space x %d time control points",
			kind, len(data.ControlPoints), data.Time.NumControlPoints())
		return g, nil
	}

	rd, err := load(nurbs.RealDomain)
	if err != nil {
		return nil, err
	}
	sfd, err := load(nurbs.SpatialFrequencyDomain)
	if err != nil {
		return nil, err
	}
	return NewNurbsForwardSolver(rd, sfd, params), nil
}

// RealDomainGenerator returns the radial generator
func (s *NurbsForwardSolver) RealDomainGenerator() nurbs.Generator { return s.rdGenerator }

// SpatialFrequencyGenerator returns the spatial-frequency generator
func (s *NurbsForwardSolver) SpatialFrequencyGenerator() nurbs.Generator { return s.sfdGenerator }

// scaling returns k = μs'/μs'ref
func (s *NurbsForwardSolver) scaling(op models.OpticalProperties) float64 {
	return op.Musp / s.reference.Musp
}

// referenceDecay is the absorption exponent per unit reference time, μa·v/k
func (s *NurbsForwardSolver) referenceDecay(op models.OpticalProperties) float64 {
	return op.Mua * op.GroupVelocity() / s.scaling(op)
}

func inRange(g nurbs.Generator, scaledSpace float64) bool {
	sv := g.SpaceValues()
	return !sv.IsZero() && scaledSpace >= 0 && scaledSpace <= sv.MaxValue
}

// ROfRho returns steady-state reflectance at source-detector separation rho (mm)
func (s *NurbsForwardSolver) ROfRho(op models.OpticalProperties, rho float64) (float64, error) {
	k := s.scaling(op)
	return s.steadyState(s.rdGenerator, op, rho*k, math.Pow(k, steadyStateRhoExponent))
}

// ROfFx returns steady-state reflectance at spatial frequency fx (1/mm)
func (s *NurbsForwardSolver) ROfFx(op models.OpticalProperties, fx float64) (float64, error) {
	k := s.scaling(op)
	return s.steadyState(s.sfdGenerator, op, fx/k, math.Pow(k, steadyStateFxExponent))
}

func (s *NurbsForwardSolver) steadyState(g nurbs.Generator, op models.OpticalProperties, scaledSpace, amplitude float64) (float64, error) {
	if !inRange(g, scaledSpace) {
		return 0, nil
	}
	decay := s.referenceDecay(op)
	integral, err := g.EvaluateNurbsCurveIntegral(scaledSpace, decay)
	if err != nil {
		return 0, err
	}
	tail, err := steadyStateTail(g, scaledSpace, decay)
	if err != nil {
		return 0, err
	}
	return clampReflectance(amplitude * (integral + tail)), nil
}

// steadyStateTail integrates a log-linear continuation of the surface from the end
// of the fitted time range to infinity. The trend runs through the surface at the
// last two distinct time knots. The fitted range counts as insufficient while the
// surface is still positive at both knots; once either sample is zero or negative
// the signal has ended inside the range and no tail is added. No relative
// threshold applies: the tail scales with rLast·exp(-decay·T) and vanishes with it.
func steadyStateTail(g nurbs.Generator, scaledSpace, decay float64) (float64, error) {
	tv := g.TimeValues()
	last := tv.KnotVector[len(tv.KnotVector)-1]
	prev := last
	for i := len(tv.KnotVector) - 2; i >= 0 && prev == last; i-- {
		prev = tv.KnotVector[i]
	}
	if prev == last {
		return 0, nil
	}

	spaceParam := scaledSpace / g.SpaceValues().MaxValue
	rLast, err := g.EvaluateSurfacePoint(last, spaceParam)
	if err != nil {
		return 0, err
	}
	rPrev, err := g.EvaluateSurfacePoint(prev, spaceParam)
	if err != nil {
		return 0, err
	}
	if rLast <= 0 || rPrev <= 0 {
		return 0, nil
	}

	tLast := last * tv.MaxValue
	_, slope := stat.LinearRegression(
		[]float64{prev * tv.MaxValue, tLast},
		[]float64{math.Log(rPrev), math.Log(rLast)},
		nil, false)

	// ∫ rLast·exp(slope·(t-tLast))·exp(-decay·t) dt over [tLast, ∞)
	return -rLast * math.Exp(-decay*tLast) / (slope - decay), nil
}

// ROfRhoAndTime returns time-resolved reflectance at rho (mm) and time t (ns)
func (s *NurbsForwardSolver) ROfRhoAndTime(op models.OpticalProperties, rho, t float64) (float64, error) {
	k := s.scaling(op)
	return s.timeResolved(s.rdGenerator, op, rho*k, t, math.Pow(k, timeResolvedRhoExponent))
}

// ROfFxAndTime returns time-resolved reflectance at fx (1/mm) and time t (ns)
func (s *NurbsForwardSolver) ROfFxAndTime(op models.OpticalProperties, fx, t float64) (float64, error) {
	k := s.scaling(op)
	return s.timeResolved(s.sfdGenerator, op, fx/k, t, math.Pow(k, timeResolvedFxExponent))
}

func (s *NurbsForwardSolver) timeResolved(g nurbs.Generator, op models.OpticalProperties, scaledSpace, t, amplitude float64) (float64, error) {
	if !inRange(g, scaledSpace) || t < 0 {
		return 0, nil
	}
	scaledTime := t * s.scaling(op)
	if scaledTime < g.GetMinimumValidTime(scaledSpace) {
		return 0, nil
	}

	tv, sv := g.TimeValues(), g.SpaceValues()
	var r float64
	var err error
	if scaledTime <= tv.MaxValue {
		r, err = g.EvaluateSurfacePoint(scaledTime/tv.MaxValue, scaledSpace/sv.MaxValue)
	} else {
		r, err = g.ComputePointOutOfSurface(scaledTime, scaledSpace)
	}
	if err != nil {
		return 0, err
	}
	return clampReflectance(amplitude * r * math.Exp(-op.Mua*op.GroupVelocity()*t)), nil
}

// ROfRhoAndFt returns frequency-domain reflectance at rho (mm) and temporal
// frequency ft (GHz), using the kernel exp(-i·2π·ft·t)
func (s *NurbsForwardSolver) ROfRhoAndFt(op models.OpticalProperties, rho, ft float64) (complex128, error) {
	k := s.scaling(op)
	if !s.analyticFourier {
		return s.discreteFourier(s.rdGenerator, ft, k, func(t float64) (float64, error) {
			return s.ROfRhoAndTime(op, rho, t)
		})
	}
	return s.analyticTransform(s.rdGenerator, op, rho*k, ft/k, math.Pow(k, frequencyRhoExponent))
}

// ROfFxAndFt returns frequency-domain reflectance at fx (1/mm) and temporal
// frequency ft (GHz)
func (s *NurbsForwardSolver) ROfFxAndFt(op models.OpticalProperties, fx, ft float64) (complex128, error) {
	k := s.scaling(op)
	if !s.analyticFourier {
		return s.discreteFourier(s.sfdGenerator, ft, k, func(t float64) (float64, error) {
			return s.ROfFxAndTime(op, fx, t)
		})
	}
	return s.analyticTransform(s.sfdGenerator, op, fx/k, ft/k, math.Pow(k, frequencyFxExponent))
}

func (s *NurbsForwardSolver) analyticTransform(g nurbs.Generator, op models.OpticalProperties, scaledSpace, scaledFt, amplitude float64) (complex128, error) {
	if !inRange(g, scaledSpace) {
		return 0, nil
	}
	r, err := g.EvaluateNurbsCurveFourierTransform(scaledSpace, s.referenceDecay(op), scaledFt)
	if err != nil {
		return 0, err
	}
	return clampComplex(complex(amplitude, 0) * r), nil
}

// clampReflectance maps numerical artifacts (negative or NaN values) to zero
func clampReflectance(r float64) float64 {
	if math.IsNaN(r) || r < 0 {
		return 0
	}
	return r
}

// clampComplex zeroes non-finite components of a frequency-domain result
func clampComplex(c complex128) complex128 {
	re, im := real(c), imag(c)
	if math.IsNaN(re) || math.IsInf(re, 0) {
		re = 0
	}
	if math.IsNaN(im) || math.IsInf(im, 0) {
		im = 0
	}
	return complex(re, im)
}
