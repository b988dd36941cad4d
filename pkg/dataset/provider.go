// Package dataset supplies pre-fitted reference models to the forward solver.
// It only moves data: knot vectors, control grids and minimum-time curves are
// handed to the nurbs constructors, which validate them.
package dataset

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"nurbsreflectance/pkg/nurbs"
)

var (
	// ErrNotFound is returned when no reference model exists for a generator kind
	ErrNotFound = errors.New("dataset: reference model not found")

	// ErrInvalidFile is returned when a dataset file cannot be decoded
	ErrInvalidFile = errors.New("dataset: invalid reference file")
)

// IsNotFound reports whether err means the requested model is absent
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// Provider loads the reference model of one domain
type Provider interface {
	Load(kind nurbs.GeneratorKind) (*nurbs.ReferenceData, error)
}

// StaticProvider serves reference models held in memory
type StaticProvider map[nurbs.GeneratorKind]nurbs.ReferenceData

// Load returns the model stored for kind
func (p StaticProvider) Load(kind nurbs.GeneratorKind) (*nurbs.ReferenceData, error) {
	data, ok := p[kind]
	if !ok {
		return nil, fmt.Errorf("%w: %v", ErrNotFound, kind)
	}
	return &data, nil
}

// FileProvider reads reference models from <Dir>/<kind>.yaml
type FileProvider struct {
	Dir string
}

// valuesFile is the YAML form of one parameter set
type valuesFile struct {
	Knots         []float64 `yaml:"knots"`
	Degree        int       `yaml:"degree"`
	MaxValue      float64   `yaml:"maxValue"`
	ControlPoints []float64 `yaml:"controlPoints,omitempty"`
}

// referenceFile is the YAML form of a reference model
type referenceFile struct {
	Kind          string      `yaml:"kind"`
	Time          valuesFile  `yaml:"time"`
	Space         valuesFile  `yaml:"space"`
	ControlPoints [][]float64 `yaml:"controlPoints"`
	MinimumTime   *valuesFile `yaml:"minimumTime,omitempty"`
}

// Path returns the file that holds the model of kind
func (p FileProvider) Path(kind nurbs.GeneratorKind) string {
	return filepath.Join(p.Dir, kind.String()+".yaml")
}

// Load decodes the model of kind from its YAML file
func (p FileProvider) Load(kind nurbs.GeneratorKind) (*nurbs.ReferenceData, error) {
	path := p.Path(kind)
	raw, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, path)
	}
	if err != nil {
		return nil, fmt.Errorf("error reading reference file: %w", err)
	}

	var f referenceFile
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrInvalidFile, path, err)
	}
	if f.Kind != "" && f.Kind != kind.String() {
		return nil, fmt.Errorf("%w: %s holds a %s model", ErrInvalidFile, path, f.Kind)
	}

	data := &nurbs.ReferenceData{
		Time: nurbs.NurbsValues{
			Dimension:  nurbs.TimeDimension,
			KnotVector: f.Time.Knots,
			Degree:     f.Time.Degree,
			MaxValue:   f.Time.MaxValue,
		},
		Space: nurbs.NurbsValues{
			Dimension:  nurbs.SpaceDimension,
			KnotVector: f.Space.Knots,
			Degree:     f.Space.Degree,
			MaxValue:   f.Space.MaxValue,
		},
		ControlPoints: f.ControlPoints,
	}
	if f.MinimumTime != nil {
		mt, err := nurbs.NewNurbsCurveValues(f.MinimumTime.Knots, f.MinimumTime.Degree,
			f.MinimumTime.MaxValue, f.MinimumTime.ControlPoints)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: minimum time curve: %v", ErrInvalidFile, path, err)
		}
		data.MinimumTime = &mt
	}
	return data, nil
}

// Save writes the model of kind to its YAML file, creating Dir if needed
func (p FileProvider) Save(kind nurbs.GeneratorKind, data nurbs.ReferenceData) error {
	if err := os.MkdirAll(p.Dir, 0755); err != nil {
		return fmt.Errorf("error creating dataset directory: %w", err)
	}

	f := referenceFile{
		Kind:          kind.String(),
		Time:          toValuesFile(data.Time),
		Space:         toValuesFile(data.Space),
		ControlPoints: data.ControlPoints,
	}
	if data.MinimumTime != nil {
		mt := toValuesFile(*data.MinimumTime)
		f.MinimumTime = &mt
	}

	raw, err := yaml.Marshal(&f)
	if err != nil {
		return fmt.Errorf("error marshaling reference model: %w", err)
	}
	if err := os.WriteFile(p.Path(kind), raw, 0644); err != nil {
		return fmt.Errorf("error writing reference file: %w", err)
	}
	return nil
}

func toValuesFile(v nurbs.NurbsValues) valuesFile {
	return valuesFile{
		Knots:         v.KnotVector,
		Degree:        v.Degree,
		MaxValue:      v.MaxValue,
		ControlPoints: v.ControlPoints,
	}
}
