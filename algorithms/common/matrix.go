package common

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// ToDense copies a rectangular row slice into a dense matrix.
func ToDense(rows [][]float64) (*mat.Dense, error) {
	if len(rows) == 0 || len(rows[0]) == 0 {
		return nil, fmt.Errorf("%w: empty matrix", ErrInvalidInput)
	}

	cols := len(rows[0])
	data := make([]float64, 0, len(rows)*cols)
	for i, row := range rows {
		if len(row) != cols {
			return nil, fmt.Errorf("%w: row %d has %d columns, want %d", ErrInvalidInput, i, len(row), cols)
		}
		data = append(data, row...)
	}

	return mat.NewDense(len(rows), cols, data), nil
}

// FromDense copies a matrix back into freshly allocated rows.
func FromDense(m mat.Matrix) [][]float64 {
	r, c := m.Dims()
	rows := make([][]float64, r)
	for i := range rows {
		rows[i] = make([]float64, c)
		mat.Row(rows[i], i, m)
	}
	return rows
}

// Shape returns (rows, cols) of a rectangular row slice, or an error if rows differ in length.
func Shape(rows [][]float64) (int, int, error) {
	if len(rows) == 0 {
		return 0, 0, fmt.Errorf("%w: no frames", ErrInvalidInput)
	}
	cols := len(rows[0])
	for i, row := range rows {
		if len(row) != cols {
			return 0, 0, fmt.Errorf("%w: row %d has %d columns, want %d", ErrInvalidInput, i, len(row), cols)
		}
	}
	return len(rows), cols, nil
}
