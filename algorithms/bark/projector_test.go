package bark

import (
	"testing"

	"github.com/RyanBlaney/sonido-bark/algorithms/common"
	"github.com/RyanBlaney/sonido-bark/algorithms/filterbank"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testBank(t *testing.T, mode filterbank.Mode) *filterbank.FilterBank {
	t.Helper()
	fb, err := filterbank.Cached(filterbank.Config{FilterCount: 8, FFTHalfSize: 64, SampleRate: 8000, Mode: mode})
	require.NoError(t, err)
	return fb
}

func flatSpectrogram(frames, bins int, value float64) [][]float64 {
	spec := make([][]float64, frames)
	for i := range spec {
		spec[i] = make([]float64, bins)
		for j := range spec[i] {
			spec[i][j] = value
		}
	}
	return spec
}

func TestToBarkShapeAndAverages(t *testing.T) {
	fb := testBank(t, filterbank.ModeRectangular)
	p := NewProjector()

	// Rectangular filters average their bins, so a flat spectrum maps to its level
	out, err := p.ToBark(flatSpectrogram(3, 65, 2.5), fb)
	require.NoError(t, err)
	require.Len(t, out, 3)
	for _, row := range out {
		require.Len(t, row, 8)
		for _, v := range row {
			assert.InDelta(t, 2.5, v, 1e-12)
		}
	}
}

func TestRoundTripIsLossy(t *testing.T) {
	fb := testBank(t, filterbank.ModeTriangular)
	p := NewProjector()

	spec := flatSpectrogram(1, 65, 0)
	spec[0][20] = 1

	barkMatrix, err := p.ToBark(spec, fb)
	require.NoError(t, err)

	back, err := p.ToSpectrogram(barkMatrix, fb)
	require.NoError(t, err)
	require.Len(t, back[0], 65)

	assert.NotEqual(t, spec[0], back[0])
	assert.Less(t, back[0][20], 1.0)
}

func TestToSpectrogramMatchesFilterRows(t *testing.T) {
	fb := testBank(t, filterbank.ModeTriangular)
	p := NewProjector()

	unit := make([]float64, 8)
	unit[3] = 1
	back, err := p.ToSpectrogram([][]float64{unit}, fb)
	require.NoError(t, err)
	assert.Equal(t, fb.Rows()[3], back[0])
}

func TestShapeMismatch(t *testing.T) {
	fb := testBank(t, filterbank.ModeTriangular)
	p := NewProjector()

	_, err := p.ToBark(flatSpectrogram(2, 10, 1), fb)
	assert.ErrorIs(t, err, common.ErrInvalidInput)

	_, err = p.ToSpectrogram(flatSpectrogram(2, 3, 1), fb)
	assert.ErrorIs(t, err, common.ErrInvalidInput)

	_, err = p.ToBark(nil, fb)
	assert.ErrorIs(t, err, common.ErrInvalidInput)
}
