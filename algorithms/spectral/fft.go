package spectral

import (
	"math/cmplx"

	"github.com/mjibson/go-dsp/fft"
)

// FFT wraps mjibson/go-dsp for one-sided real transforms.
// go-dsp handles all sizes, including non-power-of-2 frame lengths.
type FFT struct{}

// NewFFT creates a new FFT calculator
func NewFFT() *FFT {
	return &FFT{}
}

// Forward returns bins 0..len(x)/2 of the DFT of a real signal.
func (f *FFT) Forward(x []float64) []complex128 {
	if len(x) == 0 {
		return []complex128{}
	}
	return fft.FFTReal(x)[:len(x)/2+1]
}

// InverseReal inverts a one-sided spectrum to an n-sample real signal.
// The missing negative frequencies are filled in by Hermitian symmetry.
func (f *FFT) InverseReal(half []complex128, n int) []float64 {
	if n <= 0 || len(half) == 0 {
		return []float64{}
	}

	full := make([]complex128, n)
	for k := 0; k < n; k++ {
		switch {
		case k < len(half) && k <= n/2:
			full[k] = half[k]
		case n-k < len(half):
			full[k] = cmplx.Conj(half[n-k])
		}
	}

	result := fft.IFFT(full)
	out := make([]float64, n)
	for i, v := range result {
		out[i] = real(v)
	}
	return out
}
