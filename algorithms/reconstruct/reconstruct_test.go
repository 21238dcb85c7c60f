package reconstruct

import (
	"math"
	"math/rand"
	"testing"

	"github.com/RyanBlaney/sonido-bark/algorithms/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReconstructCentralHalf(t *testing.T) {
	frame := []float64{0, 0, 0.5, -1, 0.25, 0, 0, 0}

	out := ReconstructFrame(frame)
	require.Len(t, out, 4)

	// Peak is 1, so -1 maps to -0.9 of full scale
	assert.Equal(t, []int16{
		int16(math.Trunc(0.5 * 32768 * 0.9)),
		int16(math.Trunc(-1 * 32768 * 0.9)),
		int16(math.Trunc(0.25 * 32768 * 0.9)),
		0,
	}, out)
}

func TestReconstructUsesGlobalPeak(t *testing.T) {
	frames := [][]float64{
		{0, 0.1, 0.1, 0},
		{0, 2, -2, 0},
	}
	out := Reconstruct(frames)
	require.Len(t, out, 4)
	assert.Equal(t, int16(math.Trunc(0.1*32768*0.45)), out[0])
	assert.Equal(t, int16(math.Trunc(2*32768*0.45)), out[2])
	assert.Equal(t, int16(math.Trunc(-2*32768*0.45)), out[3])
}

func TestQuantizationBounds(t *testing.T) {
	rng := rand.New(rand.NewSource(5))
	frames := make([][]float64, 10)
	for i := range frames {
		frames[i] = make([]float64, 64)
		for j := range frames[i] {
			frames[i][j] = rng.NormFloat64() * 1e6
		}
	}

	out := Reconstruct(frames)
	require.Len(t, out, 10*32)
	for _, v := range out {
		assert.GreaterOrEqual(t, int(v), -32768)
		assert.LessOrEqual(t, int(v), 32767)
		assert.LessOrEqual(t, math.Abs(float64(v)), 0.9*32768)
	}
}

func TestQuantizeClips(t *testing.T) {
	assert.Equal(t, int16(32767), quantize(2, 1))
	assert.Equal(t, int16(-32768), quantize(-2, 1))
	assert.Equal(t, int16(0), quantize(0.00001, 1))
}

func TestSilentInput(t *testing.T) {
	out := Reconstruct([][]float64{make([]float64, 16)})
	assert.Equal(t, make([]int16, 8), out)

	assert.Empty(t, Reconstruct(nil))

	_, err := ReconstructStrict([][]float64{make([]float64, 16)})
	assert.ErrorIs(t, err, common.ErrDegenerateInput)

	out, err = ReconstructStrict([][]float64{{0, 1, -1, 0}})
	require.NoError(t, err)
	assert.Len(t, out, 2)
}
