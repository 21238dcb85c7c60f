package cepstral

// Delta computes the symmetric finite difference of every row over a window of theta:
//
//	d[t] = Σ_{i=1..theta} i·(f[t+i] - f[t-i]) / (2·Σ_{i=1..theta} i²)
//
// Rows are padded by mirroring their first and last theta values, edge value included,
// so that boundary coefficients reuse the nearest interior differences.
func Delta(feat [][]float64, theta int) [][]float64 {
	if theta < 1 {
		theta = 1
	}

	denominator := 0.0
	for i := 1; i <= theta; i++ {
		denominator += float64(i * i)
	}
	denominator *= 2

	out := make([][]float64, len(feat))
	for f, row := range feat {
		padded := reflectPad(row, theta)
		out[f] = make([]float64, len(row))
		for t := range row {
			sum := 0.0
			for i := 1; i <= theta; i++ {
				sum += float64(i) * (padded[theta+t+i] - padded[theta+t-i])
			}
			out[f][t] = sum / denominator
		}
	}
	return out
}

// reflectPad returns row with width mirrored values on each side:
// [row[w-1] .. row[0]] row [row[n-1] .. row[n-w]].
func reflectPad(row []float64, width int) []float64 {
	n := len(row)
	padded := make([]float64, n+2*width)
	copy(padded[width:], row)
	if n == 0 {
		return padded
	}
	for k := 0; k < width; k++ {
		padded[width-1-k] = row[mirror(k, n)]
		padded[width+n+k] = row[mirror(n-1-k, n)]
	}
	return padded
}

// mirror folds an index into [0, n) by symmetric reflection, for rows shorter than the pad.
func mirror(i, n int) int {
	period := 2 * n
	i %= period
	if i < 0 {
		i += period
	}
	if i >= n {
		i = period - 1 - i
	}
	return i
}
