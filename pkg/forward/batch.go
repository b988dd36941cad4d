package forward

import (
	"sync"

	"nurbsreflectance/internal/models"
)

// parallel runs fn for every index in [0, n) on up to numCores goroutines, each
// taking a contiguous chunk. The first error of each worker stops that worker.
func (s *NurbsForwardSolver) parallel(n int, fn func(i int) error) error {
	if n == 0 {
		return nil
	}
	workers := min(s.numCores, n)
	chunk := (n + workers - 1) / workers

	errChan := make(chan error, workers)
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		start := w * chunk
		end := min(start+chunk, n)
		if start >= end {
			continue
		}
		wg.Add(1)
		go func(start, end int) {
			defer wg.Done()
			for i := start; i < end; i++ {
				if err := fn(i); err != nil {
					errChan <- err
					return
				}
			}
		}(start, end)
	}
	wg.Wait()
	close(errChan)

	return <-errChan
}

// batch2 evaluates query over ops × coords, optical property major
func batch2[T any](s *NurbsForwardSolver, ops []models.OpticalProperties, coords []float64,
	query func(models.OpticalProperties, float64) (T, error)) ([]T, error) {
	out := make([]T, len(ops)*len(coords))
	err := s.parallel(len(out), func(i int) error {
		v, err := query(ops[i/len(coords)], coords[i%len(coords)])
		out[i] = v
		return err
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// batch3 evaluates query over ops × spaces × times, optical property major and
// time fastest
func batch3[T any](s *NurbsForwardSolver, ops []models.OpticalProperties, spaces, times []float64,
	query func(models.OpticalProperties, float64, float64) (T, error)) ([]T, error) {
	perOp := len(spaces) * len(times)
	out := make([]T, len(ops)*perOp)
	err := s.parallel(len(out), func(i int) error {
		rem := i % perOp
		v, err := query(ops[i/perOp], spaces[rem/len(times)], times[rem%len(times)])
		out[i] = v
		return err
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// ROfRhoBatch evaluates ROfRho for every optical property and separation
func (s *NurbsForwardSolver) ROfRhoBatch(ops []models.OpticalProperties, rhos []float64) ([]float64, error) {
	return batch2(s, ops, rhos, s.ROfRho)
}

// ROfFxBatch evaluates ROfFx for every optical property and spatial frequency
func (s *NurbsForwardSolver) ROfFxBatch(ops []models.OpticalProperties, fxs []float64) ([]float64, error) {
	return batch2(s, ops, fxs, s.ROfFx)
}

// ROfRhoAndTimeBatch evaluates ROfRhoAndTime over ops × rhos × times
func (s *NurbsForwardSolver) ROfRhoAndTimeBatch(ops []models.OpticalProperties, rhos, times []float64) ([]float64, error) {
	return batch3(s, ops, rhos, times, s.ROfRhoAndTime)
}

// ROfFxAndTimeBatch evaluates ROfFxAndTime over ops × fxs × times
func (s *NurbsForwardSolver) ROfFxAndTimeBatch(ops []models.OpticalProperties, fxs, times []float64) ([]float64, error) {
	return batch3(s, ops, fxs, times, s.ROfFxAndTime)
}

// ROfRhoAndFtBatch evaluates ROfRhoAndFt over ops × rhos × frequencies
func (s *NurbsForwardSolver) ROfRhoAndFtBatch(ops []models.OpticalProperties, rhos, fts []float64) ([]complex128, error) {
	return batch3(s, ops, rhos, fts, s.ROfRhoAndFt)
}

// ROfFxAndFtBatch evaluates ROfFxAndFt over ops × fxs × frequencies
func (s *NurbsForwardSolver) ROfFxAndFtBatch(ops []models.OpticalProperties, fxs, fts []float64) ([]complex128, error) {
	return batch3(s, ops, fxs, fts, s.ROfFxAndFt)
}
