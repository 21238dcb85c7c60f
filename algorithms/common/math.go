package common

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Epsilon is the float64 machine epsilon, the floor applied to energies before a logarithm.
var Epsilon = math.Nextafter(1.0, 2.0) - 1.0

// FloorZero replaces an exact zero with Epsilon.
func FloorZero(v float64) float64 {
	if v == 0 {
		return Epsilon
	}
	return v
}

// RMS calculates root mean square
func RMS(data []float64) float64 {
	if len(data) == 0 {
		return 0.0
	}

	squares := make([]float64, len(data))
	floats.MulTo(squares, data, data)
	return math.Sqrt(stat.Mean(squares, nil))
}

// RMSError returns the RMS of the element-wise difference of two equally shaped matrices.
func RMSError(a, b [][]float64) float64 {
	var diff []float64
	for i := range a {
		for j := range a[i] {
			diff = append(diff, a[i][j]-b[i][j])
		}
	}
	return RMS(diff)
}

// PeakAbs returns max(|min|, |max|) over every element of rows.
func PeakAbs(rows [][]float64) float64 {
	peak := 0.0
	for _, row := range rows {
		if len(row) == 0 {
			continue
		}
		peak = math.Max(peak, math.Max(math.Abs(floats.Min(row)), math.Abs(floats.Max(row))))
	}
	return peak
}

// Clamp constrains a value to a range
func Clamp(value, min, max float64) float64 {
	if value < min {
		return min
	}
	if value > max {
		return max
	}
	return value
}
