package nurbs

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// Separable test surface S(t,ρ) = F(ρ)·G(t): quadratic in time over [0,4] ns,
// linear in space over [0,20] mm.
var (
	testTimeKnots  = []float64{0, 0, 0, 0.25, 0.5, 0.75, 1, 1, 1}
	testSpaceKnots = []float64{0, 0, 0.5, 1, 1}
	testSpaceRows  = []float64{1, 0.5, 0.25}
	testTimeCols   = []float64{0, 0.8, 1.0, 0.6, 0.3, 0.1}
)

const (
	testTimeMax  = 4.0
	testSpaceMax = 20.0
)

// createTestReferenceData builds the separable reference surface with a linear
// minimum time-of-flight curve reaching minTimeAtMax at ρ = 20 mm.
func createTestReferenceData(t *testing.T, minTimeAtMax float64) ReferenceData {
	t.Helper()

	timeValues, err := NewNurbsValues(TimeDimension, testTimeKnots, testTimeMax, 2)
	require.NoError(t, err)
	spaceValues, err := NewNurbsValues(SpaceDimension, testSpaceKnots, testSpaceMax, 1)
	require.NoError(t, err)
	minimumTime, err := NewNurbsCurveValues([]float64{0, 0, 1, 1}, 1, testSpaceMax, []float64{0, minTimeAtMax})
	require.NoError(t, err)

	grid := make([][]float64, len(testSpaceRows))
	for i, f := range testSpaceRows {
		grid[i] = make([]float64, len(testTimeCols))
		for j, g := range testTimeCols {
			grid[i][j] = f * g
		}
	}

	return ReferenceData{
		Time:          timeValues,
		Space:         spaceValues,
		ControlPoints: grid,
		MinimumTime:   &minimumTime,
	}
}

func createTestRealDomainGenerator(t *testing.T, minTimeAtMax float64) *RealDomainGenerator {
	t.Helper()
	g, err := NewRealDomainGenerator(createTestReferenceData(t, minTimeAtMax))
	require.NoError(t, err)
	return g
}

// surfaceAt evaluates the generator at reference physical coordinates
func surfaceAt(t *testing.T, g Generator, time, space float64) float64 {
	t.Helper()
	v, err := g.EvaluateSurfacePoint(time/g.TimeValues().MaxValue, space/g.SpaceValues().MaxValue)
	require.NoError(t, err)
	return v
}
