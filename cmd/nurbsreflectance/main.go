package main

import (
	"flag"
	"fmt"
	"log"
	"strconv"
	"strings"
	"time"

	"nurbsreflectance/internal/models"
	"nurbsreflectance/pkg/config"
	"nurbsreflectance/pkg/dataset"
	"nurbsreflectance/pkg/forward"
	"nurbsreflectance/pkg/visualization"
)

// quietLogger drops solver messages when verbose output is disabled
type quietLogger struct{}

func (quietLogger) Printf(string, ...interface{}) {}

func main() {
	// Parse command line arguments
	configPath := flag.String("config", "nurbsreflectance.yaml", "Path to the YAML configuration file")
	writeConfig := flag.Bool("write-config", false, "Write a default configuration file to -config and exit")
	datasetDir := flag.String("dataset", "", "Directory holding the reference models (overrides config)")
	query := flag.String("query", "rho", "Query family: rho, fx, rhot, fxt, rhoft, fxft")
	mua := flag.Float64("mua", 0.01, "Absorption coefficient in 1/mm")
	musp := flag.Float64("musp", 1.0, "Reduced scattering coefficient in 1/mm")
	g := flag.Float64("g", 0.8, "Scattering anisotropy")
	n := flag.Float64("n", 1.4, "Refractive index")
	coords := flag.String("coords", "1,2,5,10", "Comma-separated separations (mm) or spatial frequencies (1/mm)")
	temporal := flag.String("temporal", "0.1,0.5,1", "Comma-separated times (ns) or temporal frequencies (GHz)")
	numCores := flag.Int("cores", 0, "Number of CPU cores to use (overrides config when > 0)")
	discrete := flag.Bool("discrete", false, "Use the numerical Fourier transform for frequency-domain queries")
	fftSamples := flag.Int("fft-samples", 0, "For rhoft/fxft, transform this many uniform time samples instead of using -temporal")
	fftStep := flag.Float64("fft-dt", 0.01, "Time step in ns for -fft-samples")
	mapFile := flag.String("map", "", "Save time-resolved results as a log-scaled image (.png or .jpg)")
	surfaceFile := flag.String("surface", "", "Save the radial reference surface as a log-scaled image (.png or .jpg)")
	flag.Parse()

	if *writeConfig {
		if err := config.CreateDefaultConfigFile(*configPath); err != nil {
			log.Fatalf("Failed to write config: %v", err)
		}
		fmt.Printf("Default configuration written to: %s\n", *configPath)
		return
	}

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if *datasetDir != "" {
		cfg.Dataset.Dir = *datasetDir
	}
	if *numCores > 0 {
		cfg.Solver.NumCores = *numCores
	}
	if *discrete {
		cfg.Solver.AnalyticFourier = false
	}

	kind, err := models.ParseQueryKind(*query)
	if err != nil {
		flag.Usage()
		log.Fatalf("Invalid query: %v", err)
	}
	spaces, err := parseList(*coords)
	if err != nil {
		log.Fatalf("Invalid -coords: %v", err)
	}
	temporals, err := parseList(*temporal)
	if err != nil {
		log.Fatalf("Invalid -temporal: %v", err)
	}
	ops := []models.OpticalProperties{{Mua: *mua, Musp: *musp, G: *g, N: *n}}
	if *musp <= 0 || *n <= 0 {
		log.Fatalf("Invalid optical properties: %v", ops[0])
	}

	var logger forward.Logger = forward.DefaultLogger{}
	if !cfg.Output.Verbose {
		logger = quietLogger{}
	}

	fmt.Println("================================")
	fmt.Println("NURBS DIFFUSE REFLECTANCE FORWARD SOLVER")
	fmt.Println("================================")

	solver, err := forward.NewFromProvider(dataset.FileProvider{Dir: cfg.Dataset.Dir}, cfg.SolverParams(logger))
	if err != nil {
		log.Fatalf("Failed to create solver: %v", err)
	}

	fmt.Printf("Optical properties: %v\n", ops[0])
	startTime := time.Now()
	var values []float64
	if *fftSamples > 0 && (kind == models.FrequencyResolvedRho || kind == models.FrequencyResolvedFx) {
		err = runSpectrum(solver, kind, ops[0], spaces, *fftStep, *fftSamples)
	} else {
		values, err = run(solver, kind, ops, spaces, temporals)
	}
	if err != nil {
		log.Fatalf("Query failed: %v", err)
	}
	if cfg.Output.Verbose {
		fmt.Printf("\nEvaluated in %.3f ms using %d cores\n",
			float64(time.Since(startTime).Microseconds())/1000, cfg.Solver.NumCores)
	}

	if *mapFile != "" {
		if kind != models.TimeResolvedRho && kind != models.TimeResolvedFx {
			log.Fatalf("-map requires a time-resolved query (rhot or fxt)")
		}
		m, err := visualization.NewReflectanceMap(values, len(spaces), len(temporals))
		if err != nil {
			log.Fatalf("Failed to build map: %v", err)
		}
		m.LogScale = true
		if err := m.Save(*mapFile); err != nil {
			log.Fatalf("Failed to save map: %v", err)
		}
		fmt.Printf("Reflectance map saved to: %s\n", *mapFile)
	}

	if *surfaceFile != "" {
		m, err := visualization.SampleSurface(solver.RealDomainGenerator(), 200, 200)
		if err != nil {
			log.Printf("Warning: Failed to sample reference surface: %v", err)
			return
		}
		m.LogScale = true
		if err := m.Save(*surfaceFile); err != nil {
			log.Printf("Warning: Failed to save reference surface: %v", err)
			return
		}
		fmt.Printf("Reference surface saved to: %s\n", *surfaceFile)
	}
}

// run evaluates one query family and prints a table of results. Real-valued
// results are returned for further output.
func run(s *forward.NurbsForwardSolver, kind models.QueryKind, ops []models.OpticalProperties, spaces, temporals []float64) ([]float64, error) {
	switch kind {
	case models.SteadyStateRho, models.SteadyStateFx:
		batch := s.ROfRhoBatch
		label := "rho (mm)"
		if kind == models.SteadyStateFx {
			batch, label = s.ROfFxBatch, "fx (1/mm)"
		}
		values, err := batch(ops, spaces)
		if err != nil {
			return nil, err
		}
		fmt.Printf("%-12s %-14s\n", label, "R")
		for i, x := range spaces {
			fmt.Printf("%-12g %-14.6e\n", x, values[i])
		}
		return values, nil

	case models.TimeResolvedRho, models.TimeResolvedFx:
		batch := s.ROfRhoAndTimeBatch
		label := "rho (mm)"
		if kind == models.TimeResolvedFx {
			batch, label = s.ROfFxAndTimeBatch, "fx (1/mm)"
		}
		values, err := batch(ops, spaces, temporals)
		if err != nil {
			return nil, err
		}
		fmt.Printf("%-12s %-10s %-14s\n", label, "t (ns)", "R")
		for i, x := range spaces {
			for j, t := range temporals {
				fmt.Printf("%-12g %-10g %-14.6e\n", x, t, values[i*len(temporals)+j])
			}
		}
		return values, nil

	case models.FrequencyResolvedRho, models.FrequencyResolvedFx:
		batch := s.ROfRhoAndFtBatch
		label := "rho (mm)"
		if kind == models.FrequencyResolvedFx {
			batch, label = s.ROfFxAndFtBatch, "fx (1/mm)"
		}
		values, err := batch(ops, spaces, temporals)
		if err != nil {
			return nil, err
		}
		fmt.Printf("%-12s %-10s %-14s %-14s\n", label, "ft (GHz)", "Re R", "Im R")
		for i, x := range spaces {
			for j, ft := range temporals {
				v := values[i*len(temporals)+j]
				fmt.Printf("%-12g %-10g %-14.6e %-14.6e\n", x, ft, real(v), imag(v))
			}
		}
	}
	return nil, nil
}

// runSpectrum prints the FFT spectrum of the time-resolved curve at each spatial
// coordinate
func runSpectrum(s *forward.NurbsForwardSolver, kind models.QueryKind, op models.OpticalProperties, spaces []float64, dt float64, n int) error {
	spectrum := s.ROfRhoAndFtSpectrum
	label := "rho (mm)"
	if kind == models.FrequencyResolvedFx {
		spectrum, label = s.ROfFxAndFtSpectrum, "fx (1/mm)"
	}
	fmt.Printf("%-12s %-10s %-14s %-14s\n", label, "ft (GHz)", "Re R", "Im R")
	for _, x := range spaces {
		spec, err := spectrum(op, x, dt, n)
		if err != nil {
			return err
		}
		for k, ft := range spec.Frequencies {
			fmt.Printf("%-12g %-10g %-14.6e %-14.6e\n", x, ft, real(spec.Values[k]), imag(spec.Values[k]))
		}
	}
	return nil
}

// parseList parses a comma-separated list of numbers
func parseList(s string) ([]float64, error) {
	var out []float64
	for _, field := range strings.Split(s, ",") {
		field = strings.TrimSpace(field)
		if field == "" {
			continue
		}
		v, err := strconv.ParseFloat(field, 64)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("no values in %q", s)
	}
	return out, nil
}
