package pitch

import (
	"errors"
	"math"
	"testing"

	"github.com/0xlemi/tunenote/internal/audio"
)

func TestComputePitch(t *testing.T) {
	hz, ok, err := ComputePitch(sampleSinusoid(1, 440, testFrames), testSampleRate)
	if err != nil {
		t.Fatalf("ComputePitch: %v", err)
	}
	if !ok {
		t.Fatal("ComputePitch: no pitch for a 440Hz sine")
	}
	if abs32(hz-440) >= frequencyResolution(testFrames) {
		t.Errorf("ComputePitch: got %g, want about 440", hz)
	}
}

func TestComputePitch_NoPitchIsNotAnError(t *testing.T) {
	hz, ok, err := ComputePitch(make([]float32, testFrames), testSampleRate)
	if err != nil {
		t.Fatalf("ComputePitch: %v", err)
	}
	if ok || hz != 0 {
		t.Errorf("ComputePitch on silence: got (%g, %v), want (0, false)", hz, ok)
	}
}

func TestComputePitch_ContractViolations(t *testing.T) {
	if _, _, err := ComputePitch(nil, testSampleRate); !errors.Is(err, ErrEmptyBuffer) {
		t.Errorf("empty buffer: got %v, want %v", err, ErrEmptyBuffer)
	}
	if _, _, err := ComputePitch([]float32{1, -1}, 0); !errors.Is(err, ErrSampleRate) {
		t.Errorf("zero rate: got %v, want %v", err, ErrSampleRate)
	}
	if _, err := CorrelationCurve(nil, testSampleRate); !errors.Is(err, ErrEmptyBuffer) {
		t.Errorf("CorrelationCurve empty buffer: got %v, want %v", err, ErrEmptyBuffer)
	}
}

func TestCorrelationCurve(t *testing.T) {
	samples := sampleSinusoid(1, 440, testFrames)
	curve, err := CorrelationCurve(samples, testSampleRate)
	if err != nil {
		t.Fatalf("CorrelationCurve: %v", err)
	}
	if len(curve) != len(samples) {
		t.Fatalf("len: got %d, want %d", len(curve), len(samples))
	}

	m, err := Analyze(samples, testSampleRate)
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	for k, v := range m.Correlation.Values() {
		if curve[k] != v {
			t.Fatalf("lag %d: curve %g, model %g", k, curve[k], v)
		}
	}
}

func TestCentsErrorAndPitchName(t *testing.T) {
	if got := PitchName(440); got != "A 4" {
		t.Errorf("PitchName(440): got %q, want %q", got, "A 4")
	}
	if got := PitchName(-3); got != "" {
		t.Errorf("PitchName(-3): got %q, want empty", got)
	}
	if got := CentsError(440); got != 0 {
		t.Errorf("CentsError(440): got %g, want 0", got)
	}
	if got := CentsError(float32(math.NaN())); !math.IsNaN(float64(got)) {
		t.Errorf("CentsError(NaN): got %g, want NaN", got)
	}
}

func TestModel_PitchDisplay(t *testing.T) {
	m, err := Analyze(sampleSinusoid(1, 440, 1024), testSampleRate)
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	if got := m.PitchDisplay(); got != "A 4" {
		t.Errorf("PitchDisplay: got %q, want %q", got, "A 4")
	}

	silent, err := Analyze(make([]float32, 1024), testSampleRate)
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	if silent.Pitch != nil || silent.PitchDisplay() != "" {
		t.Errorf("silent frame: got pitch %v display %q", silent.Pitch, silent.PitchDisplay())
	}
}

func TestCorrelationDetector(t *testing.T) {
	d := NewCorrelationDetector()

	if _, err := d.DetectPitch(nil); !errors.Is(err, ErrEmptyBuffer) {
		t.Errorf("nil buffer: got %v, want %v", err, ErrEmptyBuffer)
	}
	if _, err := d.DetectPitch(&audio.AudioBuffer{SampleRate: 44100}); !errors.Is(err, ErrEmptyBuffer) {
		t.Errorf("empty buffer: got %v, want %v", err, ErrEmptyBuffer)
	}

	m, err := d.DetectPitch(&audio.AudioBuffer{
		Samples:    sampleSinusoid(1, 220, 1024),
		SampleRate: 44100,
	})
	if err != nil {
		t.Fatalf("DetectPitch: %v", err)
	}
	if m.PitchDisplay() != "A 3" {
		t.Errorf("DetectPitch: got %q, want %q", m.PitchDisplay(), "A 3")
	}

	strict := NewCorrelationDetector(WithNoiseRatio(0.01))
	m, err = strict.DetectPitch(&audio.AudioBuffer{
		Samples:    sampleSinusoid(1, 220, 1024),
		SampleRate: 44100,
	})
	if err != nil {
		t.Fatalf("DetectPitch: %v", err)
	}
	if m.Pitch != nil {
		t.Errorf("strict detector: got %v, want no pitch", m.Pitch)
	}
}
