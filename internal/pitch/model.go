package pitch

// Model is the outcome of running one frame through the pipeline.
type Model struct {
	Signal      *Signal
	Correlation *Correlation
	// Pitch is nil when no pitch was detected.
	Pitch *Pitch
}

// Analyze runs samples through offset removal, autocorrelation and peak
// refinement. An error is returned only for an empty buffer or an invalid
// sample rate.
func Analyze(samples []float32, sampleRate float32, opts ...Option) (*Model, error) {
	sig, err := NewSignal(samples, sampleRate)
	if err != nil {
		return nil, err
	}

	m := &Model{
		Signal:      sig,
		Correlation: NewCorrelation(sig),
	}
	if p, ok := m.Correlation.FundamentalFrequency(sig, opts...); ok {
		m.Pitch = &p
	}
	return m, nil
}

// PitchDisplay returns the note name, or "" when there is no pitch.
func (m *Model) PitchDisplay() string {
	if m.Pitch == nil {
		return ""
	}
	return m.Pitch.String()
}
