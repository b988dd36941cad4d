package models

import "fmt"

// SpeedOfLight is the speed of light in vacuum in mm/ns
const SpeedOfLight = 299.792458

// OpticalProperties describes a homogeneous turbid medium
type OpticalProperties struct {
	// Mua is the absorption coefficient in 1/mm
	Mua float64 `yaml:"mua"`

	// Musp is the reduced scattering coefficient in 1/mm
	Musp float64 `yaml:"musp"`

	// G is the scattering anisotropy
	G float64 `yaml:"g"`

	// N is the refractive index of the medium
	N float64 `yaml:"n"`
}

// ReferenceOpticalProperties returns the optical properties the reference
// surfaces were generated with: no absorption and unit reduced scattering.
func ReferenceOpticalProperties() OpticalProperties {
	return OpticalProperties{Mua: 0, Musp: 1, G: 0.8, N: 1.4}
}

// GroupVelocity returns the speed of light inside the medium in mm/ns
func (op OpticalProperties) GroupVelocity() float64 {
	return SpeedOfLight / op.N
}

// String formats the optical properties for log output
func (op OpticalProperties) String() string {
	return fmt.Sprintf("μa=%g μs'=%g g=%g n=%g", op.Mua, op.Musp, op.G, op.N)
}

// QueryKind identifies one family of reflectance queries
type QueryKind int

const (
	// SteadyStateRho is R(ρ)
	SteadyStateRho QueryKind = iota
	// SteadyStateFx is R(fx)
	SteadyStateFx
	// TimeResolvedRho is R(ρ,t)
	TimeResolvedRho
	// TimeResolvedFx is R(fx,t)
	TimeResolvedFx
	// FrequencyResolvedRho is R(ρ,ft)
	FrequencyResolvedRho
	// FrequencyResolvedFx is R(fx,ft)
	FrequencyResolvedFx
)

// ParseQueryKind maps a CLI name onto a QueryKind
func ParseQueryKind(name string) (QueryKind, error) {
	switch name {
	case "rho":
		return SteadyStateRho, nil
	case "fx":
		return SteadyStateFx, nil
	case "rhot":
		return TimeResolvedRho, nil
	case "fxt":
		return TimeResolvedFx, nil
	case "rhoft":
		return FrequencyResolvedRho, nil
	case "fxft":
		return FrequencyResolvedFx, nil
	default:
		return 0, fmt.Errorf("unknown query kind %q", name)
	}
}
