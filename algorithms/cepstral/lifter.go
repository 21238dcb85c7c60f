package cepstral

import "math"

// Lifter scales coefficient n of every frame by 1 + (L/2)·sin(πn/L), raising the
// mid-order coefficients. L == 0 returns the cepstra unchanged.
func Lifter(cepstra [][]float64, lifterLen int) [][]float64 {
	if lifterLen <= 0 {
		return cepstra
	}

	l := float64(lifterLen)
	out := make([][]float64, len(cepstra))
	for f, row := range cepstra {
		out[f] = make([]float64, len(row))
		for n, c := range row {
			out[f][n] = c * (1 + (l/2)*math.Sin(math.Pi*float64(n)/l))
		}
	}
	return out
}
