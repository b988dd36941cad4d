package dataset

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nurbsreflectance/pkg/nurbs"
)

func createTestReferenceData(t *testing.T) nurbs.ReferenceData {
	t.Helper()
	timeValues, err := nurbs.NewNurbsValues(nurbs.TimeDimension, []float64{0, 0, 0, 0.5, 1, 1, 1}, 4, 2)
	require.NoError(t, err)
	spaceValues, err := nurbs.NewNurbsValues(nurbs.SpaceDimension, []float64{0, 0, 1, 1}, 20, 1)
	require.NoError(t, err)
	minimumTime, err := nurbs.NewNurbsCurveValues([]float64{0, 0, 1, 1}, 1, 20, []float64{0, 0.1})
	require.NoError(t, err)

	return nurbs.ReferenceData{
		Time:  timeValues,
		Space: spaceValues,
		ControlPoints: [][]float64{
			{0, 1, 0.5, 0.2},
			{0, 0.5, 0.25, 0.1},
		},
		MinimumTime: &minimumTime,
	}
}

// TestStaticProvider checks lookups in an in-memory provider
func TestStaticProvider(t *testing.T) {
	p := StaticProvider{nurbs.RealDomain: createTestReferenceData(t)}

	data, err := p.Load(nurbs.RealDomain)
	require.NoError(t, err)
	assert.Len(t, data.ControlPoints, 2)

	_, err = p.Load(nurbs.SpatialFrequencyDomain)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.True(t, IsNotFound(err))
}

// TestFileProviderRoundTrip saves a model, loads it back and builds a generator
func TestFileProviderRoundTrip(t *testing.T) {
	p := FileProvider{Dir: filepath.Join(t.TempDir(), "models")}
	original := createTestReferenceData(t)

	require.NoError(t, p.Save(nurbs.RealDomain, original))
	assert.FileExists(t, p.Path(nurbs.RealDomain))

	loaded, err := p.Load(nurbs.RealDomain)
	require.NoError(t, err)
	assert.Equal(t, original.Time.KnotVector, loaded.Time.KnotVector)
	assert.Equal(t, original.Space.MaxValue, loaded.Space.MaxValue)
	assert.Equal(t, original.ControlPoints, loaded.ControlPoints)
	require.NotNil(t, loaded.MinimumTime)
	assert.Equal(t, original.MinimumTime.ControlPoints, loaded.MinimumTime.ControlPoints)

	g, err := nurbs.NewGenerator(nurbs.RealDomain, *loaded)
	require.NoError(t, err)
	v, err := g.EvaluateSurfacePoint(1, 0)
	require.NoError(t, err)
	assert.InDelta(t, 0.2, v, 1e-12)
}

// TestFileProviderErrors checks missing, malformed and mismatched files
func TestFileProviderErrors(t *testing.T) {
	dir := t.TempDir()
	p := FileProvider{Dir: dir}

	_, err := p.Load(nurbs.RealDomain)
	assert.True(t, IsNotFound(err))

	require.NoError(t, os.WriteFile(p.Path(nurbs.RealDomain), []byte("time: [unclosed"), 0644))
	_, err = p.Load(nurbs.RealDomain)
	assert.ErrorIs(t, err, ErrInvalidFile)

	require.NoError(t, p.Save(nurbs.RealDomain, createTestReferenceData(t)))
	raw, err := os.ReadFile(p.Path(nurbs.RealDomain))
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(p.Path(nurbs.SpatialFrequencyDomain), raw, 0644))
	_, err = p.Load(nurbs.SpatialFrequencyDomain)
	assert.ErrorIs(t, err, ErrInvalidFile)
}
