package nurbs

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestEvaluateSurfacePointCorners checks that the clamped surface interpolates its
// corner control points
func TestEvaluateSurfacePointCorners(t *testing.T) {
	g := createTestRealDomainGenerator(t, 0.1)

	testCases := []struct {
		timeParam, spaceParam, expected float64
	}{
		{0, 0, testSpaceRows[0] * testTimeCols[0]},
		{1, 0, testSpaceRows[0] * testTimeCols[5]},
		{1, 1, testSpaceRows[2] * testTimeCols[5]},
		{1, 0.5, testSpaceRows[1] * testTimeCols[5]},
	}
	for _, tc := range testCases {
		v, err := g.EvaluateSurfacePoint(tc.timeParam, tc.spaceParam)
		require.NoError(t, err)
		assert.InDelta(t, tc.expected, v, 1e-12, "(%g, %g)", tc.timeParam, tc.spaceParam)
	}

	_, err := g.EvaluateSurfacePoint(-0.5, 0.2)
	assert.ErrorIs(t, err, ErrInvalidArgument)
}

// TestEvaluateTensorProductControlPoints checks the collapsed local control vectors
func TestEvaluateTensorProductControlPoints(t *testing.T) {
	g := createTestRealDomainGenerator(t, 0.1)

	// Halfway between the first two space control points
	local, err := g.EvaluateTensorProductControlPoints(0.25)
	require.NoError(t, err)
	require.Len(t, local, 4)

	f := 0.5*testSpaceRows[0] + 0.5*testSpaceRows[1]
	p := g.TimeValues().Degree
	for k, v := range local {
		require.Len(t, v, p+2)
		for j := 0; j <= p; j++ {
			assert.InDelta(t, f*testTimeCols[k+j], v[j], 1e-12, "span %d entry %d", k+p, j)
		}
		assert.Equal(t, 0.0, v[p+1])
	}
}

// TestSurfaceSliceMatchesSurface checks that the span polynomials built from the
// collapsed control points reproduce the surface
func TestSurfaceSliceMatchesSurface(t *testing.T) {
	g := createTestRealDomainGenerator(t, 0.1)
	rho := 13.0

	local, err := g.EvaluateTensorProductControlPoints(rho / testSpaceMax)
	require.NoError(t, err)
	for k, c := range g.timeCoefficients {
		poly := c.Polynomial(local[k])
		for _, frac := range []float64{0.1, 0.5, 0.9} {
			x := c.LowerLimit + frac*(c.UpperLimit-c.LowerLimit)
			assert.InDelta(t, surfaceAt(t, g, x, rho), polyAt(poly, x), 1e-12)
		}
	}
}

// TestComputePointOutOfSurfaceTime checks the log-linear continuation in time
func TestComputePointOutOfSurfaceTime(t *testing.T) {
	g := createTestRealDomainGenerator(t, 0.1)
	rho := 10.0

	boundary := surfaceAt(t, g, testTimeMax, rho)
	inner := surfaceAt(t, g, testTimeMax-timeExtrapolationOffset, rho)
	slope := (math.Log(boundary) - math.Log(inner)) / timeExtrapolationOffset

	v, err := g.ComputePointOutOfSurface(testTimeMax+0.5, rho)
	require.NoError(t, err)
	assert.InDelta(t, boundary*math.Exp(slope*0.5), v, 1e-12)
	assert.Less(t, v, boundary)
	assert.Greater(t, v, 0.0)

	inside, err := g.ComputePointOutOfSurface(testTimeMax, rho)
	require.NoError(t, err)
	assert.InDelta(t, boundary, inside, 1e-15)
}

// TestComputePointOutOfSurfaceSpace checks the radial continuation and the
// disabled spatial-frequency continuation
func TestComputePointOutOfSurfaceSpace(t *testing.T) {
	data := createTestReferenceData(t, 0.1)
	rd, err := NewRealDomainGenerator(data)
	require.NoError(t, err)
	sfd, err := NewSpatialFrequencyGenerator(data)
	require.NoError(t, err)

	time := 1.5
	boundary := surfaceAt(t, rd, time, testSpaceMax)

	v, err := rd.ComputePointOutOfSurface(time, testSpaceMax+2)
	require.NoError(t, err)
	assert.Greater(t, v, 0.0)
	assert.Less(t, v, boundary)

	v, err = sfd.ComputePointOutOfSurface(time, testSpaceMax+2)
	require.NoError(t, err)
	assert.Equal(t, 0.0, v)

	// Time extrapolation stays enabled in the spatial-frequency domain
	v, err = sfd.ComputePointOutOfSurface(testTimeMax+0.1, 5)
	require.NoError(t, err)
	assert.Greater(t, v, 0.0)
}

// TestGetMinimumValidTime checks the 98% margin on the fitted curve
func TestGetMinimumValidTime(t *testing.T) {
	data := createTestReferenceData(t, 0.1)
	rd, err := NewRealDomainGenerator(data)
	require.NoError(t, err)

	assert.InDelta(t, 0.0, rd.GetMinimumValidTime(0), 1e-15)
	assert.InDelta(t, 0.98*0.05, rd.GetMinimumValidTime(10), 1e-15)
	assert.InDelta(t, 0.98*0.1, rd.GetMinimumValidTime(20), 1e-15)

	sfd, err := NewSpatialFrequencyGenerator(data)
	require.NoError(t, err)
	assert.Equal(t, 0.0, sfd.GetMinimumValidTime(0.3))

	data.MinimumTime = nil
	noCurve, err := NewRealDomainGenerator(data)
	require.NoError(t, err)
	assert.Equal(t, 0.0, noCurve.GetMinimumValidTime(15))
}

// TestNewGenerator checks the factory and its rejection of bad input
func TestNewGenerator(t *testing.T) {
	data := createTestReferenceData(t, 0.1)

	g, err := NewGenerator(RealDomain, data)
	require.NoError(t, err)
	assert.IsType(t, &RealDomainGenerator{}, g)

	g, err = NewGenerator(SpatialFrequencyDomain, data)
	require.NoError(t, err)
	assert.IsType(t, &SpatialFrequencyGenerator{}, g)

	g, err = NewGenerator(Stub, ReferenceData{})
	require.NoError(t, err)
	assert.IsType(t, StubGenerator{}, g)

	_, err = NewGenerator(GeneratorKind(42), data)
	assert.ErrorIs(t, err, ErrInvalidArgument)

	swapped := data
	swapped.Time, swapped.Space = data.Space, data.Time
	_, err = NewGenerator(RealDomain, swapped)
	assert.ErrorIs(t, err, ErrInvalidArgument)

	short := data
	short.ControlPoints = data.ControlPoints[:2]
	_, err = NewGenerator(SpatialFrequencyDomain, short)
	assert.ErrorIs(t, err, ErrInvalidArgument)

	kind, err := ParseGeneratorKind("spatialFrequencyDomain")
	require.NoError(t, err)
	assert.Equal(t, SpatialFrequencyDomain, kind)
	_, err = ParseGeneratorKind("cylindrical")
	assert.ErrorIs(t, err, ErrInvalidArgument)
}

// TestStubGenerator checks that the stub answers every query with zero
func TestStubGenerator(t *testing.T) {
	var g Generator = StubGenerator{}

	v, err := g.EvaluateSurfacePoint(0.5, 0.5)
	require.NoError(t, err)
	assert.Equal(t, 0.0, v)

	v, err = g.EvaluateNurbsCurveIntegral(1, 0.1)
	require.NoError(t, err)
	assert.Equal(t, 0.0, v)

	c, err := g.EvaluateNurbsCurveFourierTransform(1, 0.1, 0.2)
	require.NoError(t, err)
	assert.Equal(t, complex128(0), c)

	v, err = g.ComputePointOutOfSurface(10, 30)
	require.NoError(t, err)
	assert.Equal(t, 0.0, v)

	span, err := g.FindSpan(g.TimeValues(), 0.4)
	require.NoError(t, err)
	assert.Equal(t, 0, span)
	assert.Empty(t, g.EvaluateBasisFunctions(span, 0.4, g.TimeValues()))
	assert.Equal(t, 0.0, g.GetMinimumValidTime(5))

	assert.True(t, g.TimeValues().IsZero())
	assert.True(t, g.SpaceValues().IsZero())
}
