package nurbs

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

var partitionKnots = []float64{0, 0, 0, 1.0 / 5, 2.0 / 5, 3.0 / 5, 4.0 / 5, 4.0 / 5, 1, 1, 1}

// TestFindSpan verifies that every point in [0,1) lands in the span that
// contains it and that the upper boundary clamps to the last span
func TestFindSpan(t *testing.T) {
	values, err := NewNurbsValues(TimeDimension, partitionKnots, 1, 2)
	require.NoError(t, err)
	last := values.NumControlPoints() - 1

	for i := 0; i < 1000; i++ {
		u := float64(i) / 1000
		span, err := FindSpan(values, u)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, span, values.Degree)
		assert.LessOrEqual(t, span, last)
		assert.LessOrEqual(t, values.KnotVector[span], u, "u=%g span=%d", u, span)
		assert.Less(t, u, values.KnotVector[span+1], "u=%g span=%d", u, span)
	}

	for _, u := range []float64{1, 1.0000001, 3} {
		span, err := FindSpan(values, u)
		require.NoError(t, err)
		assert.Equal(t, last, span, "u=%g should clamp to the last span", u)
	}

	_, err = FindSpan(values, -0.1)
	assert.ErrorIs(t, err, ErrInvalidArgument)
}

// TestFindSpanMonotonic verifies that span indices never decrease along the knot vector
func TestFindSpanMonotonic(t *testing.T) {
	values, err := NewNurbsValues(SpaceDimension, partitionKnots, 1, 2)
	require.NoError(t, err)

	prev := values.Degree
	for i := 0; i <= 1200; i++ {
		span, err := FindSpan(values, float64(i)/1000)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, span, prev)
		prev = span
	}
}

// TestEvaluateBasisFunctionsPartitionOfUnity checks that the non-vanishing basis
// functions sum to one inside the knot range
func TestEvaluateBasisFunctionsPartitionOfUnity(t *testing.T) {
	values, err := NewNurbsValues(TimeDimension, partitionKnots, 1, 2)
	require.NoError(t, err)

	basis := EvaluateBasisFunctions(4, 0.5, values)
	require.Len(t, basis, 3)
	assert.InDelta(t, 1.0, floats.Sum(basis), 1e-5)

	for i := 0; i <= 100; i++ {
		u := float64(i) / 100
		span, err := FindSpan(values, u)
		require.NoError(t, err)
		basis := EvaluateBasisFunctions(span, u, values)
		assert.InDelta(t, 1.0, floats.Sum(basis), 1e-12, "u=%g", u)
		for _, b := range basis {
			assert.GreaterOrEqual(t, b, -1e-15)
		}
	}
}

// TestEvaluateCurvePoint checks a linear curve against its closed form
func TestEvaluateCurvePoint(t *testing.T) {
	curve, err := NewNurbsCurveValues([]float64{0, 0, 0.5, 1, 1}, 1, 10, []float64{2, 4, 8})
	require.NoError(t, err)

	testCases := []struct {
		u, expected float64
	}{
		{0, 2},
		{0.25, 3},
		{0.5, 4},
		{0.75, 6},
		{1, 8},
	}
	for _, tc := range testCases {
		v, err := EvaluateCurvePoint(curve, tc.u)
		require.NoError(t, err)
		assert.InDelta(t, tc.expected, v, 1e-12, "u=%g", tc.u)
	}
}

// TestBSplinesCoefficientsReferenceExample checks the textbook quadratic example
func TestBSplinesCoefficientsReferenceExample(t *testing.T) {
	values, err := NewNurbsValues(TimeDimension, []float64{0, 0, 0, 1, 2, 3, 4, 4, 5, 5, 5}, 1, 2)
	require.NoError(t, err)

	c := NewBSplinesCoefficients(values, 2)
	expected := mat.NewDense(3, 4, []float64{
		1, 0, 0, 0,
		-2, 2, 0, 0,
		1, -1.5, 0.5, 0,
	})
	assert.True(t, mat.EqualApprox(expected, c.Coefficients, 1e-12),
		"coefficients\n%v", mat.Formatted(c.Coefficients))
	assert.Equal(t, 0.0, c.LowerLimit)
	assert.Equal(t, 1.0, c.UpperLimit)
	assert.Equal(t, 2, c.Degree())
}

// TestBSplinesCoefficientsZeroSpan checks that a repeated knot contributes nothing
func TestBSplinesCoefficientsZeroSpan(t *testing.T) {
	values, err := NewNurbsValues(TimeDimension, []float64{0, 0, 0, 1, 2, 3, 4, 4, 5, 5, 5}, 1, 2)
	require.NoError(t, err)

	c := NewBSplinesCoefficients(values, 6)
	assert.True(t, c.IsDegenerate())
	assert.Equal(t, 0.0, mat.Sum(c.Coefficients))
}

// TestBSplinesCoefficientsMatchBasis compares the span polynomials, expressed in
// the physical variable, with direct basis evaluation
func TestBSplinesCoefficientsMatchBasis(t *testing.T) {
	for _, degree := range []int{0, 1, 2, 3} {
		knots := make([]float64, 0)
		for i := 0; i <= degree; i++ {
			knots = append(knots, 0)
		}
		knots = append(knots, 0.2, 0.45, 0.7)
		for i := 0; i <= degree; i++ {
			knots = append(knots, 1)
		}
		values, err := NewNurbsValues(TimeDimension, knots, 4, degree)
		require.NoError(t, err)

		for span := degree; span < values.NumControlPoints(); span++ {
			c := NewBSplinesCoefficients(values, span)
			for _, frac := range []float64{0, 0.3, 0.77} {
				x := c.LowerLimit + frac*(c.UpperLimit-c.LowerLimit)
				basis := EvaluateBasisFunctions(span, x/values.MaxValue, values)
				for j, expected := range basis {
					col := mat.Col(nil, j, c.Coefficients)
					got := 0.0
					pow := 1.0
					for _, coefficient := range col {
						got += coefficient * pow
						pow *= x
					}
					assert.InDelta(t, expected, got, 1e-10, "degree=%d span=%d j=%d x=%g", degree, span, j, x)
				}
			}
		}
	}
}

// TestNurbsValuesValidation checks the constructor preconditions
func TestNurbsValuesValidation(t *testing.T) {
	_, err := NewNurbsValues(Dimension(7), partitionKnots, 1, 2)
	assert.ErrorIs(t, err, ErrInvalidArgument)

	_, err = NewNurbsValues(TimeDimension, []float64{0, 0.5, 0.2, 1}, 1, 1)
	assert.ErrorIs(t, err, ErrInvalidArgument)

	_, err = NewNurbsValues(TimeDimension, partitionKnots, 0, 2)
	assert.ErrorIs(t, err, ErrInvalidArgument)

	_, err = NewNurbsValues(TimeDimension, partitionKnots, 1, -1)
	assert.ErrorIs(t, err, ErrInvalidArgument)

	_, err = NewNurbsCurveValues([]float64{0, 0, 1, 1}, 1, 1, []float64{1, 2, 3})
	assert.ErrorIs(t, err, ErrInvalidArgument)

	v, err := NewNurbsValues(SpaceDimension, partitionKnots, 1, 2)
	require.NoError(t, err)
	assert.Equal(t, 8, v.NumControlPoints())
}
