package common

import "fmt"

// Framer cuts a sample stream into fixed-length frames advanced by a hop.
type Framer struct {
	buffer   []float64
	frameLen int
	hopSize  int
	writePos int
}

// NewFramer creates a framer producing frameLen-sample frames every hopSize samples
func NewFramer(frameLen, hopSize int) *Framer {
	return &Framer{
		buffer:   make([]float64, frameLen),
		frameLen: frameLen,
		hopSize:  hopSize,
	}
}

// Push adds samples and returns every frame completed by them
func (f *Framer) Push(samples []float64) [][]float64 {
	var frames [][]float64

	for _, sample := range samples {
		f.buffer[f.writePos] = sample
		f.writePos++

		if f.writePos < f.frameLen {
			continue
		}

		frame := make([]float64, f.frameLen)
		copy(frame, f.buffer)
		frames = append(frames, frame)

		if f.hopSize < f.frameLen {
			copy(f.buffer, f.buffer[f.hopSize:])
			f.writePos = f.frameLen - f.hopSize
		} else {
			f.writePos = 0
		}
	}

	return frames
}

// Reset clears buffered samples
func (f *Framer) Reset() {
	f.writePos = 0
	clear(f.buffer)
}

// SplitHalfOverlap frames signal with a hop of frameLen/2 after padding frameLen/4 zeros
// on the left and enough zeros on the right to complete the last frame. The central
// halves [frameLen/4, 3*frameLen/4) of consecutive frames tile the original signal.
func SplitHalfOverlap(signal []float64, frameLen int) ([][]float64, error) {
	if frameLen < 4 || frameLen%4 != 0 {
		return nil, fmt.Errorf("%w: frame length %d must be a positive multiple of 4", ErrConfiguration, frameLen)
	}
	if len(signal) == 0 {
		return nil, fmt.Errorf("%w: empty signal", ErrInvalidInput)
	}

	hop := frameLen / 2
	quarter := frameLen / 4
	numFrames := (len(signal) + hop - 1) / hop

	padded := make([]float64, (numFrames-1)*hop+frameLen)
	copy(padded[quarter:], signal)

	return NewFramer(frameLen, hop).Push(padded), nil
}
