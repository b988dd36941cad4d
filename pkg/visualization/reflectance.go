// Package visualization renders reflectance grids as grayscale images, one pixel
// per (space, time) sample, for quick inspection of reference surfaces and query
// results.
package visualization

import (
	"fmt"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"math"
	"os"
	"path/filepath"
	"strings"

	"gonum.org/v1/gonum/floats"

	"nurbsreflectance/pkg/nurbs"
)

// ReflectanceMap holds a row-major grid of reflectance values, one row per
// spatial coordinate and one column per temporal coordinate
type ReflectanceMap struct {
	values []float64
	rows   int
	cols   int

	// LogScale maps values through log10 before normalization, which keeps the
	// late-time decay of time-resolved reflectance visible
	LogScale bool
}

// NewReflectanceMap wraps values laid out as rows × cols
func NewReflectanceMap(values []float64, rows, cols int) (*ReflectanceMap, error) {
	if rows <= 0 || cols <= 0 {
		return nil, fmt.Errorf("map dimensions must be positive, got %dx%d", rows, cols)
	}
	if len(values) != rows*cols {
		return nil, fmt.Errorf("expected %d values for a %dx%d map, got %d", rows*cols, rows, cols, len(values))
	}
	return &ReflectanceMap{values: values, rows: rows, cols: cols}, nil
}

// SampleSurface evaluates a generator's reference surface on a uniform grid of
// parametric coordinates, spaceSamples rows by timeSamples columns
func SampleSurface(g nurbs.Generator, spaceSamples, timeSamples int) (*ReflectanceMap, error) {
	if spaceSamples < 2 || timeSamples < 2 {
		return nil, fmt.Errorf("need at least 2x2 samples, got %dx%d", spaceSamples, timeSamples)
	}
	values := make([]float64, spaceSamples*timeSamples)
	for i := 0; i < spaceSamples; i++ {
		v := float64(i) / float64(spaceSamples-1)
		for j := 0; j < timeSamples; j++ {
			u := float64(j) / float64(timeSamples-1)
			r, err := g.EvaluateSurfacePoint(u, v)
			if err != nil {
				return nil, fmt.Errorf("sampling surface at (%g, %g): %w", u, v, err)
			}
			values[i*timeSamples+j] = r
		}
	}
	return NewReflectanceMap(values, spaceSamples, timeSamples)
}

// Image renders the map with time along x and space along y. The largest value
// maps to white; non-positive values map to black.
func (m *ReflectanceMap) Image() image.Image {
	scaled := make([]float64, len(m.values))
	for i, v := range m.values {
		switch {
		case v <= 0 || math.IsNaN(v):
			scaled[i] = math.Inf(-1)
		case m.LogScale:
			scaled[i] = math.Log10(v)
		default:
			scaled[i] = v
		}
	}

	hi := floats.Max(scaled)
	lo := hi
	for _, v := range scaled {
		if !math.IsInf(v, -1) && v < lo {
			lo = v
		}
	}
	if !m.LogScale {
		lo = 0
	}

	img := image.NewGray16(image.Rect(0, 0, m.cols, m.rows))
	for y := 0; y < m.rows; y++ {
		for x := 0; x < m.cols; x++ {
			v := scaled[y*m.cols+x]
			var level float64
			if !math.IsInf(v, -1) && hi > lo {
				level = (v - lo) / (hi - lo)
			} else if !math.IsInf(v, -1) {
				level = 1
			}
			img.SetGray16(x, y, color.Gray16{Y: uint16(math.Max(0, math.Min(65535, level*65535)))})
		}
	}
	return img
}

// Save writes the rendered map, choosing PNG or JPEG from the file extension
func (m *ReflectanceMap) Save(filename string) error {
	ext := strings.ToLower(filepath.Ext(filename))
	if ext != ".png" && ext != ".jpg" && ext != ".jpeg" {
		return fmt.Errorf("unsupported image format: %q (must be .png or .jpg)", ext)
	}
	if err := os.MkdirAll(filepath.Dir(filename), 0755); err != nil {
		return err
	}
	file, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer file.Close()

	if ext == ".png" {
		return png.Encode(file, m.Image())
	}
	return jpeg.Encode(file, m.Image(), &jpeg.Options{Quality: 90})
}
