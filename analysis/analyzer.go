// Package analysis ties the spectral, Bark, cepstral and reconstruction stages into one
// analyzer configured once and reused for every buffer of frames.
package analysis

import (
	"fmt"

	"github.com/RyanBlaney/sonido-bark/algorithms/bark"
	"github.com/RyanBlaney/sonido-bark/algorithms/cepstral"
	"github.com/RyanBlaney/sonido-bark/algorithms/common"
	"github.com/RyanBlaney/sonido-bark/algorithms/filterbank"
	"github.com/RyanBlaney/sonido-bark/algorithms/reconstruct"
	"github.com/RyanBlaney/sonido-bark/algorithms/spectral"
	"github.com/RyanBlaney/sonido-bark/analysis/config"
	"github.com/RyanBlaney/sonido-bark/logging"
)

// SpectrogramResult is the forward transform of a frame buffer
type SpectrogramResult struct {
	Amplitude [][]float64 `json:"amplitude"` // Normalized one-sided amplitude
	LogSpec   [][]float64 `json:"log_spec"`  // log1p(Amplitude)
	Phase     [][]float64 `json:"phase"`
}

// Analyzer runs the analysis pipeline for one configuration
type Analyzer struct {
	config    *config.AnalysisConfig
	transform *spectral.Transform
	projector *bark.Projector
	barkBank  *filterbank.FilterBank
	extractor *cepstral.Extractor
	logger    logging.Logger
}

// New creates an analyzer. A nil config selects DefaultAnalysisConfig.
func New(cfg *config.AnalysisConfig) (*Analyzer, error) {
	if cfg == nil {
		cfg = config.DefaultAnalysisConfig()
	}

	logger := logging.WithFields(logging.Fields{
		"component":   "analyzer",
		"sample_rate": cfg.SampleRate,
		"frame_len":   cfg.FrameLen,
	})

	if err := cfg.Validate(); err != nil {
		logger.Error(err, "Invalid analysis configuration")
		return nil, err
	}

	barkBank, err := filterbank.Cached(cfg.FilterBankConfig())
	if err != nil {
		logger.Error(err, "Failed to build bark filter bank")
		return nil, fmt.Errorf("failed to build bark filter bank: %w", err)
	}

	extractor, err := cepstral.NewExtractor(cfg.CepstralConfig())
	if err != nil {
		logger.Error(err, "Failed to create cepstral extractor")
		return nil, fmt.Errorf("failed to create cepstral extractor: %w", err)
	}

	logger.Debug("Analyzer ready", logging.Fields{
		"bark_filters":    cfg.Bark.FilterCount,
		"cepstral_coeffs": cfg.Cepstrum.CepCount,
	})

	return &Analyzer{
		config:    cfg,
		transform: spectral.NewTransform(),
		projector: bark.NewProjector(),
		barkBank:  barkBank,
		extractor: extractor,
		logger:    logger,
	}, nil
}

// Config returns the analyzer configuration
func (a *Analyzer) Config() *config.AnalysisConfig {
	return a.config
}

// BarkFilterBank returns the filter bank used for Bark projection
func (a *Analyzer) BarkFilterBank() *filterbank.FilterBank {
	return a.barkBank
}

// SplitFrames cuts a signal into half-overlapping frames of the configured length.
// Reconstructing them keeps central halves that tile the signal back in order.
func (a *Analyzer) SplitFrames(signal []float64) ([][]float64, error) {
	return common.SplitHalfOverlap(signal, a.config.FrameLen)
}

// AudioToSpectrogram computes the amplitude, its log1p compression, and the phase of frames.
func (a *Analyzer) AudioToSpectrogram(frames [][]float64) (*SpectrogramResult, error) {
	if err := a.checkFrameLen(frames); err != nil {
		return nil, err
	}

	spec, err := a.transform.ToSpectrogram(frames)
	if err != nil {
		return nil, fmt.Errorf("failed to compute spectrogram: %w", err)
	}

	return &SpectrogramResult{
		Amplitude: spec.Amplitude,
		LogSpec:   spectral.LogCompress(spec.Amplitude),
		Phase:     spec.Phase,
	}, nil
}

// SpectrogramToAudio inverts a log1p spectrogram and phase to frames and
// quantizes their central halves to 16-bit PCM.
func (a *Analyzer) SpectrogramToAudio(logSpec, phase [][]float64, frameLen int) ([]int16, error) {
	frames, err := a.transform.FromLogSpectrogram(logSpec, phase, frameLen)
	if err != nil {
		return nil, fmt.Errorf("failed to invert spectrogram: %w", err)
	}

	wave := reconstruct.Reconstruct(frames)

	a.logger.Debug("Reconstructed audio", logging.Fields{
		"frames":  len(frames),
		"samples": len(wave),
	})
	return wave, nil
}

// SpectrogramToBark projects a spectrogram onto the Bark filter bank.
func (a *Analyzer) SpectrogramToBark(spec [][]float64) ([][]float64, error) {
	out, err := a.projector.ToBark(spec, a.barkBank)
	if err != nil {
		return nil, fmt.Errorf("failed to project to bark: %w", err)
	}
	return out, nil
}

// BarkToSpectrogram spreads Bark energies back over the spectrogram bins.
func (a *Analyzer) BarkToSpectrogram(barkMatrix [][]float64) ([][]float64, error) {
	out, err := a.projector.ToSpectrogram(barkMatrix, a.barkBank)
	if err != nil {
		return nil, fmt.Errorf("failed to project from bark: %w", err)
	}
	return out, nil
}

// SpectrogramToCepstrum computes cepstral features and deltas from an amplitude spectrogram.
func (a *Analyzer) SpectrogramToCepstrum(amplitude [][]float64) (*cepstral.Result, error) {
	res, err := a.extractor.Extract(amplitude)
	if err != nil {
		return nil, fmt.Errorf("failed to extract cepstrum: %w", err)
	}
	return res, nil
}

func (a *Analyzer) checkFrameLen(frames [][]float64) error {
	_, frameLen, err := common.Shape(frames)
	if err != nil {
		return err
	}
	if frameLen != a.config.FrameLen {
		return fmt.Errorf("%w: frames have %d samples, analyzer expects %d", common.ErrInvalidInput, frameLen, a.config.FrameLen)
	}
	return nil
}
