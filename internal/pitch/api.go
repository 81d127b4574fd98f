package pitch

// ComputePitch returns the fundamental frequency of samples in Hz. ok is
// false when the frame is silent, aperiodic or noisy.
func ComputePitch(samples []float32, sampleRate float32) (hz float32, ok bool, err error) {
	m, err := Analyze(samples, sampleRate)
	if err != nil {
		return 0, false, err
	}
	if m.Pitch == nil {
		return 0, false, nil
	}
	return m.Pitch.Hz, true, nil
}

// CorrelationCurve returns the autocorrelation of the offset-removed samples.
func CorrelationCurve(samples []float32, sampleRate float32) ([]float32, error) {
	sig, err := NewSignal(samples, sampleRate)
	if err != nil {
		return nil, err
	}
	return NewCorrelation(sig).values, nil
}

// CentsError returns the tuning error of hz in cents, NaN if hz is not finite.
func CentsError(hz float32) float32 {
	return NewPitch(hz).CentsError()
}

// PitchName returns the note name of hz, "" if hz is not positive and finite.
func PitchName(hz float32) string {
	return NewPitch(hz).String()
}
