package config

import (
	"fmt"

	"github.com/RyanBlaney/sonido-bark/algorithms/cepstral"
	"github.com/RyanBlaney/sonido-bark/algorithms/common"
	"github.com/RyanBlaney/sonido-bark/algorithms/filterbank"
)

// AnalysisConfig configures the whole spectrogram/Bark/cepstrum pipeline
type AnalysisConfig struct {
	SampleRate  int `json:"sample_rate"`
	FrameLen    int `json:"frame_len"`     // Samples per time-domain frame
	FFTHalfSize int `json:"fft_half_size"` // Spectrogram bins = FFTHalfSize + 1

	Bark     BarkConfig     `json:"bark"`
	Cepstrum CepstrumConfig `json:"cepstrum"`
}

// BarkConfig configures Bark-domain projection
type BarkConfig struct {
	FilterCount int             `json:"filter_count"`
	LowFreq     float64         `json:"low_freq"`  // 0 means machine epsilon
	HighFreq    float64         `json:"high_freq"` // 0 means SampleRate/2
	Mode        filterbank.Mode `json:"mode"`
}

// CepstrumConfig configures cepstral extraction
type CepstrumConfig struct {
	CepCount     int             `json:"cep_count"`
	FilterCount  int             `json:"filter_count"`
	LifterLen    int             `json:"lifter_len"`
	AppendEnergy bool            `json:"append_energy"`
	Mode         filterbank.Mode `json:"mode"`
	DeltaOrder   int             `json:"delta_order"`
	Theta        int             `json:"theta"`
	DeltaFrom    int             `json:"delta_from"`
	DeltaTo      int             `json:"delta_to"`
}

// DefaultAnalysisConfig returns a 16 kHz, 4000-sample frame configuration with a
// 22-filter Bark bank and 22 cepstral coefficients over 25 filters.
func DefaultAnalysisConfig() *AnalysisConfig {
	return &AnalysisConfig{
		SampleRate:  16000,
		FrameLen:    4000,
		FFTHalfSize: 2000,
		Bark: BarkConfig{
			FilterCount: 22,
			Mode:        filterbank.ModeTriangular,
		},
		Cepstrum: CepstrumConfig{
			CepCount:    22,
			FilterCount: 25,
			LifterLen:   22,
			Mode:        filterbank.ModeTriangular,
			DeltaOrder:  2,
			Theta:       2,
			DeltaFrom:   1,
			DeltaTo:     7,
		},
	}
}

// FilterBankConfig returns the Bark projection filter bank configuration
func (c *AnalysisConfig) FilterBankConfig() filterbank.Config {
	return filterbank.Config{
		FilterCount: c.Bark.FilterCount,
		FFTHalfSize: c.FFTHalfSize,
		SampleRate:  c.SampleRate,
		LowFreq:     c.Bark.LowFreq,
		HighFreq:    c.Bark.HighFreq,
		Mode:        c.Bark.Mode,
	}
}

// CepstralConfig returns the cepstral extractor configuration
func (c *AnalysisConfig) CepstralConfig() cepstral.Config {
	return cepstral.Config{
		CepCount:     c.Cepstrum.CepCount,
		FilterCount:  c.Cepstrum.FilterCount,
		FFTHalfSize:  c.FFTHalfSize,
		SampleRate:   c.SampleRate,
		LifterLen:    c.Cepstrum.LifterLen,
		AppendEnergy: c.Cepstrum.AppendEnergy,
		Mode:         c.Cepstrum.Mode,
		DeltaOrder:   c.Cepstrum.DeltaOrder,
		Theta:        c.Cepstrum.Theta,
		DeltaFrom:    c.Cepstrum.DeltaFrom,
		DeltaTo:      c.Cepstrum.DeltaTo,
	}
}

// Validate checks the configuration as a whole
func (c *AnalysisConfig) Validate() error {
	if c.FrameLen <= 0 {
		return fmt.Errorf("%w: frame length must be positive, got %d", common.ErrConfiguration, c.FrameLen)
	}
	if c.FrameLen/2 != c.FFTHalfSize {
		return fmt.Errorf("%w: fft half size %d does not match frame length %d", common.ErrConfiguration, c.FFTHalfSize, c.FrameLen)
	}
	if err := c.FilterBankConfig().Validate(); err != nil {
		return fmt.Errorf("bark: %w", err)
	}
	if err := c.CepstralConfig().Validate(); err != nil {
		return fmt.Errorf("cepstrum: %w", err)
	}
	return nil
}
