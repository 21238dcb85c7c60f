// Package reconstruct turns reconstructed time-domain frames into 16-bit PCM.
package reconstruct

import (
	"fmt"
	"math"

	"github.com/RyanBlaney/sonido-bark/algorithms/common"
)

const (
	// Headroom is the fraction of full scale the loudest sample is normalized to.
	Headroom = 0.9

	fullScale = 32768.0
)

// Reconstruct normalizes frames so the largest magnitude across all of them lands at
// Headroom of full scale, quantizes to int16, keeps the central half
// [len/4, 3*len/4) of every frame and concatenates the halves.
// All-zero input yields silence of the same length.
func Reconstruct(frames [][]float64) []int16 {
	scale := 0.0
	if peak := common.PeakAbs(frames); peak > 0 {
		scale = Headroom / peak
	}

	var out []int16
	for _, frame := range frames {
		lo, hi := len(frame)/4, len(frame)*3/4
		for _, v := range frame[lo:hi] {
			out = append(out, quantize(v, scale))
		}
	}
	if out == nil {
		out = []int16{}
	}
	return out
}

// ReconstructFrame is Reconstruct for a single frame.
func ReconstructFrame(frame []float64) []int16 {
	return Reconstruct([][]float64{frame})
}

// ReconstructStrict is Reconstruct but reports silent or empty input as ErrDegenerateInput.
func ReconstructStrict(frames [][]float64) ([]int16, error) {
	if common.PeakAbs(frames) == 0 {
		return nil, fmt.Errorf("%w: frames are silent, nothing to normalize", common.ErrDegenerateInput)
	}
	return Reconstruct(frames), nil
}

// quantize truncates toward zero after scaling and clips to the int16 range.
func quantize(v, scale float64) int16 {
	s := math.Trunc(v * fullScale * scale)
	return int16(common.Clamp(s, math.MinInt16, math.MaxInt16))
}
