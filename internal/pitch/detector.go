package pitch

import (
	"errors"

	"github.com/0xlemi/tunenote/internal/audio"
)

// Errors
var (
	ErrEmptyBuffer = errors.New("empty audio buffer")
	ErrSampleRate  = errors.New("sample rate must be positive and finite")
)

// Detector defines the interface for pitch detection
type Detector interface {
	// DetectPitch analyzes an audio buffer. A frame without a detectable
	// pitch is not an error: the returned model has a nil Pitch.
	DetectPitch(buffer *audio.AudioBuffer) (*Model, error)
}

// CorrelationDetector detects pitch from the autocorrelation of each buffer.
// It holds no mutable state and is safe for concurrent use.
type CorrelationDetector struct {
	opts []Option
}

// NewCorrelationDetector creates a detector with the given tuning.
func NewCorrelationDetector(opts ...Option) *CorrelationDetector {
	return &CorrelationDetector{opts: opts}
}

// DetectPitch analyzes an audio buffer
func (d *CorrelationDetector) DetectPitch(buffer *audio.AudioBuffer) (*Model, error) {
	if buffer == nil {
		return nil, ErrEmptyBuffer
	}
	return Analyze(buffer.Samples, float32(buffer.SampleRate), d.opts...)
}
