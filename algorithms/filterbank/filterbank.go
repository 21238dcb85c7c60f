// Package filterbank builds Bark-spaced filter banks that map one-sided FFT bins
// onto perceptual channels.
package filterbank

import (
	"fmt"
	"math"

	"github.com/RyanBlaney/sonido-bark/algorithms/common"
	"github.com/RyanBlaney/sonido-bark/logging"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// Mode selects the filter shape.
type Mode string

const (
	// ModeRectangular gives every filter a constant height over [bin[j], bin[j+2]).
	ModeRectangular Mode = "rectangular"
	// ModeTriangular ramps up over [bin[j], bin[j+1]) and down over [bin[j+1], bin[j+2]).
	ModeTriangular Mode = "triangular"
)

// Config identifies a filter bank. Two equal configs always produce the same matrix.
type Config struct {
	FilterCount int     `json:"filter_count"`
	FFTHalfSize int     `json:"fft_half_size"` // bins = FFTHalfSize + 1
	SampleRate  int     `json:"sample_rate"`
	LowFreq     float64 `json:"low_freq"`  // Hz, 0 means machine epsilon
	HighFreq    float64 `json:"high_freq"` // Hz, 0 means SampleRate/2
	Mode        Mode    `json:"mode"`
}

// DefaultConfig returns the 22-filter, 4000-point FFT, 16 kHz bank.
func DefaultConfig() Config {
	return Config{
		FilterCount: 22,
		FFTHalfSize: 2000,
		SampleRate:  16000,
		Mode:        ModeTriangular,
	}
}

// withDefaults resolves zero frequency edges so that equivalent configs share a cache key.
func (c Config) withDefaults() Config {
	if c.LowFreq == 0 {
		c.LowFreq = common.Epsilon
	}
	if c.HighFreq == 0 {
		c.HighFreq = float64(c.SampleRate) / 2
	}
	return c
}

// Validate reports parameter errors that are detectable before any bin is computed.
func (c Config) Validate() error {
	switch {
	case c.FilterCount <= 0:
		return fmt.Errorf("%w: filter count must be positive, got %d", common.ErrConfiguration, c.FilterCount)
	case c.FFTHalfSize <= 0:
		return fmt.Errorf("%w: fft half size must be positive, got %d", common.ErrConfiguration, c.FFTHalfSize)
	case c.SampleRate <= 0:
		return fmt.Errorf("%w: sample rate must be positive, got %d", common.ErrConfiguration, c.SampleRate)
	case c.Mode != ModeRectangular && c.Mode != ModeTriangular:
		return fmt.Errorf("%w: unknown filter mode %q", common.ErrConfiguration, c.Mode)
	}

	r := c.withDefaults()
	nyquist := float64(r.SampleRate) / 2
	switch {
	case r.LowFreq < 0:
		return fmt.Errorf("%w: low frequency %.2f is negative", common.ErrConfiguration, r.LowFreq)
	case r.HighFreq <= r.LowFreq:
		return fmt.Errorf("%w: high frequency %.2f must exceed low frequency %.2f", common.ErrConfiguration, r.HighFreq, r.LowFreq)
	case r.HighFreq > nyquist:
		return fmt.Errorf("%w: high frequency %.2f exceeds nyquist %.2f", common.ErrConfiguration, r.HighFreq, nyquist)
	}
	return nil
}

// FilterBank is an immutable (FilterCount x FFTHalfSize+1) weighting matrix.
type FilterBank struct {
	config Config
	bins   []int
	matrix *mat.Dense
}

// Build constructs the filter bank described by cfg.
func Build(cfg Config) (*FilterBank, error) {
	logger := logging.WithFields(logging.Fields{
		"component":    "filter_bank_builder",
		"filter_count": cfg.FilterCount,
		"mode":         cfg.Mode,
	})

	if err := cfg.Validate(); err != nil {
		logger.Error(err, "Invalid filter bank configuration")
		return nil, err
	}
	cfg = cfg.withDefaults()

	bins := binEdges(cfg)
	numBins := cfg.FFTHalfSize + 1
	fb := mat.NewDense(cfg.FilterCount, numBins, nil)

	for j := 0; j < cfg.FilterCount; j++ {
		left, center, right := bins[j], bins[j+1], bins[j+2]
		if right-left <= 0 {
			err := fmt.Errorf("%w: filter %d has zero width at bin %d (filter count %d too high for fft half size %d)",
				common.ErrConfiguration, j, left, cfg.FilterCount, cfg.FFTHalfSize)
			logger.Error(err, "Degenerate filter")
			return nil, err
		}
		height := 1.0 / float64(right-left)

		switch cfg.Mode {
		case ModeRectangular:
			for i := left; i < right; i++ {
				fb.Set(j, i, height)
			}
		case ModeTriangular:
			// An empty half leaves its loop unentered, so neither ramp divides by zero.
			for i := left; i < center; i++ {
				fb.Set(j, i, float64(i-left)/float64(center-left)*height)
			}
			for i := center; i < right; i++ {
				fb.Set(j, i, float64(right-i)/float64(right-center)*height)
			}
		}
	}

	logger.Debug("Built filter bank", logging.Fields{
		"bins":       numBins,
		"first_edge": bins[0],
		"last_edge":  bins[len(bins)-1],
	})

	return &FilterBank{config: cfg, bins: bins, matrix: fb}, nil
}

// binEdges places FilterCount+2 points evenly on the Bark scale and maps them to FFT bins.
func binEdges(cfg Config) []int {
	points := make([]float64, cfg.FilterCount+2)
	floats.Span(points, HzToBark(cfg.LowFreq), HzToBark(cfg.HighFreq))

	nfft := float64(2 * cfg.FFTHalfSize)
	bins := make([]int, len(points))
	for i, b := range points {
		hz := BarkToHz(b)
		bins[i] = int(math.Floor((nfft + 1) * hz / float64(cfg.SampleRate)))
		bins[i] = max(0, min(bins[i], cfg.FFTHalfSize))
	}
	return bins
}

// Config returns the resolved configuration the bank was built from.
func (fb *FilterBank) Config() Config {
	return fb.config
}

// Dims returns (filter count, bin count).
func (fb *FilterBank) Dims() (int, int) {
	return fb.matrix.Dims()
}

// Matrix exposes the weights read-only.
func (fb *FilterBank) Matrix() mat.Matrix {
	return fb.matrix
}

// Rows returns a copy of the weights as row slices.
func (fb *FilterBank) Rows() [][]float64 {
	return common.FromDense(fb.matrix)
}

// Bins returns a copy of the FilterCount+2 bin edges.
func (fb *FilterBank) Bins() []int {
	out := make([]int, len(fb.bins))
	copy(out, fb.bins)
	return out
}

// Support returns the half-open bin range [lo, hi) filter j may be nonzero on.
func (fb *FilterBank) Support(j int) (int, int) {
	return fb.bins[j], fb.bins[j+2]
}

// RowSum returns the total weight of filter j.
func (fb *FilterBank) RowSum(j int) float64 {
	return floats.Sum(fb.matrix.RawRowView(j))
}
