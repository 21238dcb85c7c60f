// Package bark projects spectrograms onto Bark filter-bank channels and back.
//
// The projection is many-to-one: going back to the spectrogram domain spreads each
// channel's energy over its filter's bins and does not recover the original bins.
package bark

import (
	"fmt"

	"github.com/RyanBlaney/sonido-bark/algorithms/common"
	"github.com/RyanBlaney/sonido-bark/algorithms/filterbank"
	"github.com/RyanBlaney/sonido-bark/logging"
	"gonum.org/v1/gonum/mat"
)

// Projector maps between the spectrogram and Bark domains.
type Projector struct {
	logger logging.Logger
}

// NewProjector creates a new Bark projector
func NewProjector() *Projector {
	return &Projector{
		logger: logging.WithFields(logging.Fields{
			"component": "bark_projector",
		}),
	}
}

// ToBark returns spectrogram · fbᵀ, shape (frames x filters).
func (p *Projector) ToBark(spectrogram [][]float64, fb *filterbank.FilterBank) ([][]float64, error) {
	filters, bins := fb.Dims()

	spec, err := common.ToDense(spectrogram)
	if err != nil {
		p.logger.Error(err, "Invalid spectrogram")
		return nil, err
	}
	if _, c := spec.Dims(); c != bins {
		return nil, fmt.Errorf("%w: spectrogram has %d bins, filter bank expects %d", common.ErrInvalidInput, c, bins)
	}

	var out mat.Dense
	out.Mul(spec, fb.Matrix().T())

	p.logger.Debug("Projected spectrogram to bark", logging.Fields{
		"frames":  len(spectrogram),
		"filters": filters,
	})
	return common.FromDense(&out), nil
}

// ToSpectrogram returns bark · fb, shape (frames x bins). The result only approximates
// the spectrogram ToBark was given.
func (p *Projector) ToSpectrogram(barkMatrix [][]float64, fb *filterbank.FilterBank) ([][]float64, error) {
	filters, bins := fb.Dims()

	b, err := common.ToDense(barkMatrix)
	if err != nil {
		p.logger.Error(err, "Invalid bark matrix")
		return nil, err
	}
	if _, c := b.Dims(); c != filters {
		return nil, fmt.Errorf("%w: bark matrix has %d channels, filter bank has %d", common.ErrInvalidInput, c, filters)
	}

	var out mat.Dense
	out.Mul(b, fb.Matrix())

	p.logger.Debug("Projected bark to spectrogram", logging.Fields{
		"frames": len(barkMatrix),
		"bins":   bins,
	})
	return common.FromDense(&out), nil
}
