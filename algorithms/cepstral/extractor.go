// Package cepstral derives Bark-domain cepstral coefficients (MFCC-style) and their
// delta features from one-sided amplitude spectra.
package cepstral

import (
	"fmt"
	"math"

	"github.com/RyanBlaney/sonido-bark/algorithms/common"
	"github.com/RyanBlaney/sonido-bark/algorithms/filterbank"
	"github.com/RyanBlaney/sonido-bark/logging"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// Config contains parameters for cepstral extraction
type Config struct {
	CepCount     int             `json:"cep_count"`     // Coefficients kept after the DCT (default: 22)
	FilterCount  int             `json:"filter_count"`  // Bark filters (default: 25)
	FFTHalfSize  int             `json:"fft_half_size"` // Spectrum rows have FFTHalfSize+1 bins (default: 2000)
	SampleRate   int             `json:"sample_rate"`   // Hz (default: 16000)
	LifterLen    int             `json:"lifter_len"`    // 0 disables liftering (default: 22)
	AppendEnergy bool            `json:"append_energy"` // Replace C0 with log frame energy
	Mode         filterbank.Mode `json:"mode"`          // Filter shape (default: triangular)

	// Delta features
	DeltaOrder int `json:"delta_order"` // 0 none, 1 first, 2 first and second
	Theta      int `json:"theta"`       // Half window of the difference (default: 2)
	DeltaFrom  int `json:"delta_from"`  // First coefficient differentiated (default: 1)
	DeltaTo    int `json:"delta_to"`    // One past the last coefficient differentiated (default: 7)
}

// DefaultConfig returns the 22-coefficient, 25-filter configuration.
func DefaultConfig() Config {
	return Config{
		CepCount:    22,
		FilterCount: 25,
		FFTHalfSize: 2000,
		SampleRate:  16000,
		LifterLen:   22,
		Mode:        filterbank.ModeTriangular,
		Theta:       2,
		DeltaFrom:   1,
		DeltaTo:     7,
	}
}

// Validate reports configuration errors.
func (c Config) Validate() error {
	switch {
	case c.CepCount <= 0:
		return fmt.Errorf("%w: cepstral coefficient count must be positive, got %d", common.ErrConfiguration, c.CepCount)
	case c.CepCount > c.FilterCount:
		return fmt.Errorf("%w: %d cepstral coefficients exceed %d filters", common.ErrConfiguration, c.CepCount, c.FilterCount)
	case c.LifterLen < 0:
		return fmt.Errorf("%w: lifter length %d is negative", common.ErrConfiguration, c.LifterLen)
	case c.DeltaOrder < 0 || c.DeltaOrder > 2:
		return fmt.Errorf("%w: delta order %d not in 0..2", common.ErrConfiguration, c.DeltaOrder)
	}
	if c.DeltaOrder > 0 {
		if c.Theta < 1 {
			return fmt.Errorf("%w: delta window %d must be at least 1", common.ErrConfiguration, c.Theta)
		}
		if c.DeltaFrom < 0 || c.DeltaFrom >= min(c.DeltaTo, c.CepCount) {
			return fmt.Errorf("%w: delta coefficient window [%d, %d) is empty for %d coefficients",
				common.ErrConfiguration, c.DeltaFrom, c.DeltaTo, c.CepCount)
		}
	}
	return c.filterBankConfig().Validate()
}

func (c Config) filterBankConfig() filterbank.Config {
	return filterbank.Config{
		FilterCount: c.FilterCount,
		FFTHalfSize: c.FFTHalfSize,
		SampleRate:  c.SampleRate,
		Mode:        c.Mode,
	}
}

// Result contains cepstral features and their derivatives
type Result struct {
	Features  [][]float64 `json:"features"`         // Frame x CepCount
	Delta1    [][]float64 `json:"delta1,omitempty"` // Frame x (DeltaTo-DeltaFrom)
	Delta2    [][]float64 `json:"delta2,omitempty"` // Delta of Delta1
	LogEnergy []float64   `json:"log_energy"`       // Per-frame log power, floored
}

// Extractor computes cepstra for a fixed configuration
type Extractor struct {
	config     Config
	filterBank *filterbank.FilterBank
	dct        *mat.Dense
	logger     logging.Logger
}

// NewExtractor validates cfg and prepares the filter bank and DCT matrix.
func NewExtractor(cfg Config) (*Extractor, error) {
	logger := logging.WithFields(logging.Fields{
		"component": "cepstral_extractor",
		"cep_count": cfg.CepCount,
		"filters":   cfg.FilterCount,
	})

	if err := cfg.Validate(); err != nil {
		logger.Error(err, "Invalid cepstral configuration")
		return nil, err
	}

	fb, err := filterbank.Cached(cfg.filterBankConfig())
	if err != nil {
		logger.Error(err, "Failed to build filter bank")
		return nil, fmt.Errorf("failed to build filter bank: %w", err)
	}

	return &Extractor{
		config:     cfg,
		filterBank: fb,
		dct:        dctMatrix(cfg.CepCount, cfg.FilterCount),
		logger:     logger,
	}, nil
}

// Config returns the extractor configuration
func (e *Extractor) Config() Config {
	return e.config
}

// FilterBank returns the filter bank energies are projected on
func (e *Extractor) FilterBank() *filterbank.FilterBank {
	return e.filterBank
}

// Extract computes cepstral features from amplitude spectra, one row per frame with
// FFTHalfSize+1 bins. The rows must already be in the frequency domain.
func (e *Extractor) Extract(frames [][]float64) (*Result, error) {
	spec, err := common.ToDense(frames)
	if err != nil {
		e.logger.Error(err, "Invalid spectrum frames")
		return nil, err
	}
	numFrames, bins := spec.Dims()
	if bins != e.config.FFTHalfSize+1 {
		return nil, fmt.Errorf("%w: frames have %d bins, want %d", common.ErrInvalidInput, bins, e.config.FFTHalfSize+1)
	}

	// Power spectrum
	var power mat.Dense
	power.Apply(func(_, _ int, v float64) float64 {
		return v * v / float64(2*e.config.FFTHalfSize)
	}, spec)

	logEnergy := make([]float64, numFrames)
	for f := 0; f < numFrames; f++ {
		logEnergy[f] = math.Log(common.FloorZero(floats.Sum(power.RawRowView(f))))
	}

	// Filter-bank energies, floored and logged
	var feat mat.Dense
	feat.Mul(&power, e.filterBank.Matrix().T())
	feat.Apply(func(_, _ int, v float64) float64 {
		return math.Log(common.FloorZero(v))
	}, &feat)

	var cep mat.Dense
	cep.Mul(&feat, e.dct.T())

	features := Lifter(common.FromDense(&cep), e.config.LifterLen)
	if e.config.AppendEnergy {
		for f := range features {
			features[f][0] = logEnergy[f]
		}
	}

	result := &Result{Features: features, LogEnergy: logEnergy}
	if e.config.DeltaOrder > 0 {
		window := e.deltaWindow(features)
		result.Delta1 = Delta(window, e.config.Theta)
		if e.config.DeltaOrder > 1 {
			result.Delta2 = Delta(result.Delta1, e.config.Theta)
		}
	}

	e.logger.Debug("Extracted cepstra", logging.Fields{
		"frames":      numFrames,
		"delta_order": e.config.DeltaOrder,
	})

	return result, nil
}

// deltaWindow slices the coefficients [DeltaFrom, DeltaTo) out of every frame.
func (e *Extractor) deltaWindow(features [][]float64) [][]float64 {
	to := min(e.config.DeltaTo, e.config.CepCount)
	window := make([][]float64, len(features))
	for f, row := range features {
		window[f] = row[e.config.DeltaFrom:to]
	}
	return window
}
