package cepstral

import (
	"math"
	"math/rand"
	"testing"

	"github.com/RyanBlaney/sonido-bark/algorithms/common"
	"github.com/RyanBlaney/sonido-bark/algorithms/filterbank"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func smallConfig() Config {
	return Config{
		CepCount:    8,
		FilterCount: 10,
		FFTHalfSize: 128,
		SampleRate:  8000,
		LifterLen:   22,
		Mode:        filterbank.ModeTriangular,
		DeltaOrder:  2,
		Theta:       2,
		DeltaFrom:   1,
		DeltaTo:     7,
	}
}

func randomSpectra(rng *rand.Rand, frames, bins int) [][]float64 {
	out := make([][]float64, frames)
	for i := range out {
		out[i] = make([]float64, bins)
		for j := range out[i] {
			out[i][j] = rng.Float64()
		}
	}
	return out
}

func TestLifterIdentity(t *testing.T) {
	cepstra := [][]float64{{1.5, -2, 3.25}, {0, 4, -1}}
	assert.Equal(t, cepstra, Lifter(cepstra, 0))
}

func TestLifterWeights(t *testing.T) {
	out := Lifter([][]float64{{1, 1, 1}}, 22)
	assert.Equal(t, 1.0, out[0][0])
	assert.InDelta(t, 1+11*math.Sin(math.Pi/22), out[0][1], 1e-12)
	assert.InDelta(t, 1+11*math.Sin(2*math.Pi/22), out[0][2], 1e-12)
}

func TestDeltaOfConstantIsZero(t *testing.T) {
	feat := [][]float64{{3, 3, 3, 3, 3, 3}, {-1, -1, -1}, {7}}
	for _, theta := range []int{1, 2, 3} {
		for _, row := range Delta(feat, theta) {
			for _, v := range row {
				assert.Equal(t, 0.0, v)
			}
		}
	}
}

func TestDeltaOfRampIsSlope(t *testing.T) {
	row := []float64{0, 2, 4, 6, 8, 10, 12}
	d := Delta([][]float64{row}, 2)[0]

	// Interior points see the full slope
	for t2 := 2; t2 < len(row)-2; t2++ {
		assert.InDelta(t, 2.0, d[t2], 1e-12)
	}
	// Reflected edges: pad is [2 0 | 0 2 4 ... 12 | 12 10]
	assert.InDelta(t, (1*(2-0)+2*(4-2))/10.0, d[0], 1e-12)
	assert.InDelta(t, (1*(4-0)+2*(6-0))/10.0, d[1], 1e-12)
}

func TestReflectPad(t *testing.T) {
	assert.Equal(t, []float64{2, 1, 1, 2, 3, 4, 4, 3}, reflectPad([]float64{1, 2, 3, 4}, 2))
	assert.Equal(t, []float64{5, 5, 5, 5, 5}, reflectPad([]float64{5}, 2))
}

func TestDCTMatrixOrthonormal(t *testing.T) {
	d := dctMatrix(6, 6)
	for i := 0; i < 6; i++ {
		for j := 0; j < 6; j++ {
			dot := 0.0
			for k := 0; k < 6; k++ {
				dot += d.At(i, k) * d.At(j, k)
			}
			want := 0.0
			if i == j {
				want = 1
			}
			assert.InDelta(t, want, dot, 1e-12)
		}
	}
}

func TestExtractShapes(t *testing.T) {
	cfg := smallConfig()
	e, err := NewExtractor(cfg)
	require.NoError(t, err)

	frames := randomSpectra(rand.New(rand.NewSource(1)), 5, cfg.FFTHalfSize+1)
	res, err := e.Extract(frames)
	require.NoError(t, err)

	require.Len(t, res.Features, 5)
	require.Len(t, res.Delta1, 5)
	require.Len(t, res.Delta2, 5)
	require.Len(t, res.LogEnergy, 5)
	for f := range res.Features {
		assert.Len(t, res.Features[f], 8)
		assert.Len(t, res.Delta1[f], 6)
		assert.Len(t, res.Delta2[f], 6)
		for _, v := range res.Features[f] {
			assert.False(t, math.IsNaN(v) || math.IsInf(v, 0))
		}
	}
}

func TestExtractMatchesDirectComputation(t *testing.T) {
	cfg := smallConfig()
	cfg.DeltaOrder = 0
	cfg.LifterLen = 0
	e, err := NewExtractor(cfg)
	require.NoError(t, err)

	frames := randomSpectra(rand.New(rand.NewSource(2)), 2, cfg.FFTHalfSize+1)
	res, err := e.Extract(frames)
	require.NoError(t, err)

	fb := e.FilterBank().Rows()
	for f, frame := range frames {
		logFeat := make([]float64, cfg.FilterCount)
		for j, row := range fb {
			sum := 0.0
			for b, w := range row {
				sum += w * frame[b] * frame[b] / float64(2*cfg.FFTHalfSize)
			}
			logFeat[j] = math.Log(sum)
		}
		n := float64(cfg.FilterCount)
		for k := 0; k < cfg.CepCount; k++ {
			want := 0.0
			for i, v := range logFeat {
				want += v * math.Cos(math.Pi*float64(k)*(float64(i)+0.5)/n)
			}
			if k == 0 {
				want *= math.Sqrt(1 / n)
			} else {
				want *= math.Sqrt(2 / n)
			}
			assert.InDelta(t, want, res.Features[f][k], 1e-9, "frame %d coeff %d", f, k)
		}
	}
}

func TestAppendEnergyAndSilenceFloor(t *testing.T) {
	cfg := smallConfig()
	cfg.AppendEnergy = true
	e, err := NewExtractor(cfg)
	require.NoError(t, err)

	silent := make([]float64, cfg.FFTHalfSize+1)
	loud := make([]float64, cfg.FFTHalfSize+1)
	for i := range loud {
		loud[i] = 1
	}

	res, err := e.Extract([][]float64{silent, loud})
	require.NoError(t, err)

	assert.Equal(t, math.Log(common.Epsilon), res.Features[0][0])
	assert.InDelta(t, math.Log(float64(cfg.FFTHalfSize+1)/float64(2*cfg.FFTHalfSize)), res.Features[1][0], 1e-12)
	for _, v := range res.Features[0] {
		assert.False(t, math.IsInf(v, 0))
	}
}

func TestConfigurationErrors(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"more coefficients than filters", func(c *Config) { c.CepCount = 11 }},
		{"negative lifter", func(c *Config) { c.LifterLen = -1 }},
		{"zero coefficients", func(c *Config) { c.CepCount = 0 }},
		{"bad delta order", func(c *Config) { c.DeltaOrder = 3 }},
		{"bad theta", func(c *Config) { c.Theta = 0 }},
		{"empty delta window", func(c *Config) { c.DeltaFrom = 8 }},
		{"zero width filter", func(c *Config) { c.FilterCount = 40; c.CepCount = 8; c.FFTHalfSize = 8 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := smallConfig()
			tt.mutate(&cfg)
			e, err := NewExtractor(cfg)
			assert.Nil(t, e)
			assert.ErrorIs(t, err, common.ErrConfiguration)
		})
	}
}

func TestExtractRejectsWrongBinCount(t *testing.T) {
	e, err := NewExtractor(smallConfig())
	require.NoError(t, err)

	_, err = e.Extract([][]float64{{1, 2, 3}})
	assert.ErrorIs(t, err, common.ErrInvalidInput)
}
