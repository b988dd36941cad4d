package forward

import (
	"fmt"

	"gonum.org/v1/gonum/dsp/fourier"

	"nurbsreflectance/internal/models"
)

// Spectrum holds frequency-domain reflectance at the non-negative FFT bin
// frequencies of a uniform time sampling
type Spectrum struct {
	// Frequencies in GHz, k/(n·dt) for k = 0..n/2
	Frequencies []float64

	// Values are the transformed reflectance at each frequency
	Values []complex128
}

// ROfRhoAndFtSpectrum samples ROfRhoAndTime at n uniform times j·dt (ns) and
// returns the whole spectrum in one FFT
func (s *NurbsForwardSolver) ROfRhoAndFtSpectrum(op models.OpticalProperties, rho, dt float64, n int) (Spectrum, error) {
	return s.spectrum(dt, n, func(t float64) (float64, error) {
		return s.ROfRhoAndTime(op, rho, t)
	})
}

// ROfFxAndFtSpectrum samples ROfFxAndTime at n uniform times j·dt (ns) and
// returns the whole spectrum in one FFT
func (s *NurbsForwardSolver) ROfFxAndFtSpectrum(op models.OpticalProperties, fx, dt float64, n int) (Spectrum, error) {
	return s.spectrum(dt, n, func(t float64) (float64, error) {
		return s.ROfFxAndTime(op, fx, t)
	})
}

func (s *NurbsForwardSolver) spectrum(dt float64, n int, sample func(t float64) (float64, error)) (Spectrum, error) {
	if n < 2 || dt <= 0 {
		return Spectrum{}, fmt.Errorf("spectrum needs at least 2 samples and a positive step, got n=%d dt=%g", n, dt)
	}

	samples := make([]float64, n)
	err := s.parallel(n, func(j int) error {
		r, err := sample(float64(j) * dt)
		samples[j] = r
		return err
	})
	if err != nil {
		return Spectrum{}, err
	}

	fft := fourier.NewFFT(n)
	coeffs := fft.Coefficients(nil, samples)

	out := Spectrum{
		Frequencies: make([]float64, len(coeffs)),
		Values:      make([]complex128, len(coeffs)),
	}
	for k, c := range coeffs {
		out.Frequencies[k] = fft.Freq(k) / dt
		out.Values[k] = clampComplex(c * complex(dt, 0))
	}
	return out, nil
}
