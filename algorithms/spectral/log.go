package spectral

import "math"

// LogCompress returns log1p of every amplitude, the dynamic-range compressed form.
func LogCompress(amplitude [][]float64) [][]float64 {
	return mapRows(amplitude, math.Log1p)
}

// LogExpand inverts LogCompress with expm1.
func LogExpand(spec [][]float64) [][]float64 {
	return mapRows(spec, math.Expm1)
}

func mapRows(in [][]float64, fn func(float64) float64) [][]float64 {
	out := make([][]float64, len(in))
	for i, row := range in {
		out[i] = make([]float64, len(row))
		for j, v := range row {
			out[i][j] = fn(v)
		}
	}
	return out
}
