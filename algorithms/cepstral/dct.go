package cepstral

import (
	"math"

	"gonum.org/v1/gonum/mat"
)

// dctMatrix returns the first numCoeffs rows of the orthonormal DCT-II matrix of size n,
// so that coeffs = x · Dᵀ for a row vector x of length n.
func dctMatrix(numCoeffs, n int) *mat.Dense {
	d := mat.NewDense(numCoeffs, n, nil)
	for k := 0; k < numCoeffs; k++ {
		scale := math.Sqrt(2.0 / float64(n))
		if k == 0 {
			scale = math.Sqrt(1.0 / float64(n))
		}
		for i := 0; i < n; i++ {
			d.Set(k, i, scale*math.Cos(math.Pi*float64(k)*(float64(i)+0.5)/float64(n)))
		}
	}
	return d
}
