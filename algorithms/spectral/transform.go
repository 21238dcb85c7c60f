// Package spectral converts frames of real samples to normalized one-sided
// amplitude/phase spectrograms and back.
package spectral

import (
	"fmt"
	"math"
	"math/cmplx"
	"runtime"
	"sync"

	"github.com/RyanBlaney/sonido-bark/algorithms/common"
	"github.com/RyanBlaney/sonido-bark/logging"
)

// Spectrogram holds the one-sided spectrum of every frame.
// Bin 0 and the last bin are divided by FrameLen, interior bins by FrameLen/2.
type Spectrogram struct {
	Amplitude [][]float64 `json:"amplitude"` // Frame x Bin, non-negative
	Phase     [][]float64 `json:"phase"`     // Frame x Bin, radians in (-pi, pi]
	FrameLen  int         `json:"frame_len"` // Samples per source frame
	FreqBins  int         `json:"freq_bins"` // FrameLen/2 + 1
}

// Transform performs the forward and inverse frame transforms.
type Transform struct {
	fft    *FFT
	logger logging.Logger
}

// NewTransform creates a new spectrogram transform
func NewTransform() *Transform {
	return &Transform{
		fft: NewFFT(),
		logger: logging.WithFields(logging.Fields{
			"component": "spectrogram_transform",
		}),
	}
}

// normFactor is the divisor applied to bin k of a one-sided spectrum with the given bin count.
func normFactor(k, bins, frameLen int) float64 {
	if k == 0 || k == bins-1 {
		return float64(frameLen)
	}
	return float64(frameLen) / 2
}

// ToSpectrogram computes the normalized amplitude and phase of every frame.
func (t *Transform) ToSpectrogram(frames [][]float64) (*Spectrogram, error) {
	numFrames, frameLen, err := common.Shape(frames)
	if err != nil {
		t.logger.Error(err, "Invalid frame buffer")
		return nil, err
	}
	if frameLen == 0 {
		return nil, fmt.Errorf("%w: frames are empty", common.ErrInvalidInput)
	}

	bins := frameLen/2 + 1
	amplitude := make([][]float64, numFrames)
	phase := make([][]float64, numFrames)

	forEachRow(numFrames, func(f int) {
		spectrum := t.fft.Forward(frames[f])
		amplitude[f] = make([]float64, bins)
		phase[f] = make([]float64, bins)
		for k, c := range spectrum {
			amplitude[f][k] = cmplx.Abs(c) / normFactor(k, bins, frameLen)
			phase[f][k] = cmplx.Phase(c)
			if phase[f][k] == -math.Pi {
				phase[f][k] = math.Pi
			}
		}
	})

	t.logger.Debug("Computed spectrogram", logging.Fields{
		"frames":    numFrames,
		"frame_len": frameLen,
		"freq_bins": bins,
	})

	return &Spectrogram{
		Amplitude: amplitude,
		Phase:     phase,
		FrameLen:  frameLen,
		FreqBins:  bins,
	}, nil
}

// ToFrames rebuilds time-domain frames from a normalized amplitude and phase and keeps
// the first frameLen samples of each. The inverse transform length is 2*(bins-1), or
// 2*bins-1 when frameLen asks for an odd-length original.
func (t *Transform) ToFrames(amplitude, phase [][]float64, frameLen int) ([][]float64, error) {
	numFrames, bins, err := common.Shape(amplitude)
	if err != nil {
		t.logger.Error(err, "Invalid amplitude matrix")
		return nil, err
	}
	phaseFrames, phaseBins, err := common.Shape(phase)
	if err != nil {
		t.logger.Error(err, "Invalid phase matrix")
		return nil, err
	}
	if phaseFrames != numFrames || phaseBins != bins {
		return nil, fmt.Errorf("%w: amplitude is %dx%d but phase is %dx%d",
			common.ErrInvalidInput, numFrames, bins, phaseFrames, phaseBins)
	}
	if bins == 0 {
		return nil, fmt.Errorf("%w: spectrogram has no bins", common.ErrInvalidInput)
	}

	n := 2 * (bins - 1)
	if frameLen == 2*bins-1 {
		n = frameLen
	}
	if frameLen <= 0 || frameLen > n {
		err := fmt.Errorf("%w: frame length %d outside (0, %d] for %d bins", common.ErrConfiguration, frameLen, n, bins)
		t.logger.Error(err, "Invalid frame length")
		return nil, err
	}

	frames := make([][]float64, numFrames)
	forEachRow(numFrames, func(f int) {
		half := make([]complex128, bins)
		for k := range half {
			half[k] = cmplx.Rect(amplitude[f][k]*normFactor(k, bins, n), phase[f][k])
		}
		frames[f] = t.fft.InverseReal(half, n)[:frameLen]
	})

	t.logger.Debug("Reconstructed frames", logging.Fields{
		"frames":    numFrames,
		"fft_len":   n,
		"frame_len": frameLen,
	})

	return frames, nil
}

// FromLogSpectrogram expands a log1p-compressed amplitude and inverts it with ToFrames.
func (t *Transform) FromLogSpectrogram(logAmplitude, phase [][]float64, frameLen int) ([][]float64, error) {
	return t.ToFrames(LogExpand(logAmplitude), phase, frameLen)
}

// forEachRow runs fn for every row index on a bounded pool of workers.
func forEachRow(numRows int, fn func(row int)) {
	numWorkers := optimalWorkerCount(numRows)
	if numWorkers <= 1 {
		for i := 0; i < numRows; i++ {
			fn(i)
		}
		return
	}

	jobs := make(chan int, numRows)
	for i := 0; i < numRows; i++ {
		jobs <- i
	}
	close(jobs)

	var wg sync.WaitGroup
	for w := 0; w < numWorkers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for row := range jobs {
				fn(row)
			}
		}()
	}
	wg.Wait()
}

// optimalWorkerCount sizes the pool from the CPU count and the workload
func optimalWorkerCount(numRows int) int {
	numCPU := runtime.NumCPU()

	// Small workloads are not worth the goroutines
	if numRows < 8 {
		return 1
	}
	if numRows < 100 {
		return max(1, min(numCPU/2, numRows))
	}
	if numRows < 1000 {
		return min(numCPU, 8)
	}
	return numCPU
}
