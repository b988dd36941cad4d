// Package nurbs evaluates non-rational B-spline reference surfaces of diffuse
// reflectance. A surface is defined over a time dimension and a space dimension
// (source-detector separation or spatial frequency). Besides point evaluation the
// package integrates and Fourier transforms the surface analytically in time by
// expanding every knot span into a polynomial in the physical variable.
package nurbs

import "fmt"

// Dimension tags the physical axis a parameter set belongs to
type Dimension int

const (
	// TimeDimension is the temporal axis of a reference surface
	TimeDimension Dimension = iota
	// SpaceDimension is the radial or spatial-frequency axis of a reference surface
	SpaceDimension
)

// String returns the dimension name
func (d Dimension) String() string {
	switch d {
	case TimeDimension:
		return "time"
	case SpaceDimension:
		return "space"
	default:
		return fmt.Sprintf("Dimension(%d)", int(d))
	}
}

// NurbsValues holds the knot vector, degree and parametric-to-physical scale of one
// dimension. ControlPoints is only set for stand-alone curves; surface control
// points live in the generator's grid.
type NurbsValues struct {
	// Dimension is the physical axis these values describe
	Dimension Dimension

	// KnotVector is the non-decreasing knot sequence, normally in [0,1]
	KnotVector []float64

	// Degree is the polynomial degree of the basis functions
	Degree int

	// MaxValue converts a parametric coordinate into a physical one
	MaxValue float64

	// ControlPoints are the curve control points (1-D curves only)
	ControlPoints []float64
}

// NewNurbsValues creates the parameter set of one surface dimension
func NewNurbsValues(dim Dimension, knots []float64, maxValue float64, degree int) (NurbsValues, error) {
	if dim != TimeDimension && dim != SpaceDimension {
		return NurbsValues{}, fmt.Errorf("%w: unsupported dimension %v", ErrInvalidArgument, dim)
	}
	v := NurbsValues{
		Dimension:  dim,
		KnotVector: append([]float64(nil), knots...),
		Degree:     degree,
		MaxValue:   maxValue,
	}
	if err := v.validate(); err != nil {
		return NurbsValues{}, err
	}
	return v, nil
}

// NewNurbsCurveValues creates the parameter set of a 1-D curve with its own
// control points. Curves are tagged as space curves since they are always
// parameterized by the spatial coordinate.
func NewNurbsCurveValues(knots []float64, degree int, maxValue float64, controlPoints []float64) (NurbsValues, error) {
	v := NurbsValues{
		Dimension:     SpaceDimension,
		KnotVector:    append([]float64(nil), knots...),
		Degree:        degree,
		MaxValue:      maxValue,
		ControlPoints: append([]float64(nil), controlPoints...),
	}
	if err := v.validate(); err != nil {
		return NurbsValues{}, err
	}
	if len(v.KnotVector) != len(v.ControlPoints)+v.Degree+1 {
		return NurbsValues{}, fmt.Errorf("%w: %d knots do not match %d control points of degree %d",
			ErrInvalidArgument, len(v.KnotVector), len(v.ControlPoints), v.Degree)
	}
	return v, nil
}

// NumControlPoints returns the number of basis functions defined by the knots
func (v NurbsValues) NumControlPoints() int {
	return len(v.KnotVector) - v.Degree - 1
}

// IsZero reports whether the values carry no knots (stub parameter sets)
func (v NurbsValues) IsZero() bool {
	return len(v.KnotVector) == 0
}

func (v NurbsValues) validate() error {
	if v.Degree < 0 {
		return fmt.Errorf("%w: negative degree %d", ErrInvalidArgument, v.Degree)
	}
	if len(v.KnotVector) < v.Degree+2 {
		return fmt.Errorf("%w: %d knots are too few for degree %d", ErrInvalidArgument, len(v.KnotVector), v.Degree)
	}
	if !(v.MaxValue > 0) {
		return fmt.Errorf("%w: max value must be positive, got %g", ErrInvalidArgument, v.MaxValue)
	}
	for i := 1; i < len(v.KnotVector); i++ {
		if v.KnotVector[i] < v.KnotVector[i-1] {
			return fmt.Errorf("%w: knot vector decreases at index %d", ErrInvalidArgument, i)
		}
	}
	return nil
}
