package common

import "errors"

var (
	// ErrConfiguration marks parameter combinations that can never produce a valid result,
	// such as more cepstral coefficients than filters or a zero-width filter.
	ErrConfiguration = errors.New("invalid configuration")

	// ErrInvalidInput marks arrays with the wrong shape or no data.
	ErrInvalidInput = errors.New("invalid input")

	// ErrDegenerateInput marks input that is well formed but numerically unusable,
	// e.g. an all-zero frame handed to amplitude normalization.
	ErrDegenerateInput = errors.New("degenerate input")
)
