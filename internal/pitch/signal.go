package pitch

import (
	"fmt"
	"math"
)

// DefaultSilenceThreshold is the amplitude below which every sample of a
// frame must fall for the frame to count as silence.
const DefaultSilenceThreshold = 0.05

// Signal is one frame of mono audio with its DC offset removed.
type Signal struct {
	samples    []float32
	sampleRate float32
}

// NewSignal copies samples, subtracts their mean and returns the resulting
// zero-mean signal. The caller's slice is never retained.
func NewSignal(samples []float32, sampleRate float32) (*Signal, error) {
	if len(samples) == 0 {
		return nil, ErrEmptyBuffer
	}
	if !(sampleRate > 0) || math.IsInf(float64(sampleRate), 0) {
		return nil, fmt.Errorf("%w: %v", ErrSampleRate, sampleRate)
	}

	return &Signal{
		samples:    removeMeanOffset(samples),
		sampleRate: sampleRate,
	}, nil
}

func removeMeanOffset(samples []float32) []float32 {
	var sum float64
	for _, x := range samples {
		sum += float64(x)
	}
	mean := float32(sum / float64(len(samples)))

	out := make([]float32, len(samples))
	for i, x := range samples {
		out[i] = x - mean
	}
	return out
}

// Samples returns the offset-removed samples. The slice must not be modified.
func (s *Signal) Samples() []float32 {
	return s.samples
}

// SampleRate returns the sample rate in Hz.
func (s *Signal) SampleRate() float32 {
	return s.sampleRate
}

// Len returns the number of samples.
func (s *Signal) Len() int {
	return len(s.samples)
}

// IsSilence reports whether every sample is quieter than DefaultSilenceThreshold.
func (s *Signal) IsSilence() bool {
	return s.silentBelow(DefaultSilenceThreshold)
}

func (s *Signal) silentBelow(threshold float32) bool {
	for _, x := range s.samples {
		if float32(math.Abs(float64(x))) >= threshold {
			return false
		}
	}
	return true
}

// AlignedToRisingEdge returns the samples starting at the first
// negative-to-non-negative transition, so that successive frames of a
// periodic waveform line up when drawn. Without such a transition the
// whole frame is returned.
func (s *Signal) AlignedToRisingEdge() []float32 {
	i := 0
	for i < len(s.samples) && !math.Signbit(float64(s.samples[i])) {
		i++
	}
	for i < len(s.samples) && math.Signbit(float64(s.samples[i])) {
		i++
	}
	if i >= len(s.samples) {
		return s.samples
	}
	return s.samples[i:]
}
