package pitch

import (
	"math"
	"math/rand"
	"testing"
)

func TestFundamentalFrequency_SineWave(t *testing.T) {
	tests := []struct {
		frequency float64
		frames    int
	}{
		{440, 512},
		{880, 512},
		{220, 1024},
		{440, 1024},
		{660, 1024},
		{880, 1024},
	}

	for _, tt := range tests {
		sig := mustSignal(sampleSinusoid(1, tt.frequency, tt.frames))
		p, ok := NewCorrelation(sig).FundamentalFrequency(sig)
		if !ok {
			t.Errorf("%gHz/%d: no pitch found", tt.frequency, tt.frames)
			continue
		}
		if diff := abs32(p.Hz - float32(tt.frequency)); diff >= frequencyResolution(tt.frames) {
			t.Errorf("%gHz/%d: expected=%g, actual=%g", tt.frequency, tt.frames, tt.frequency, p.Hz)
		}
	}
}

func TestFundamentalFrequency_SecondHarmonic(t *testing.T) {
	const expected = 440.0
	samples := addSamples(sampleSinusoid(2, expected, testFrames), sampleSinusoid(1, 2*expected, testFrames))
	sig := mustSignal(samples)

	p, ok := NewCorrelation(sig).FundamentalFrequency(sig)
	if !ok {
		t.Fatal("no pitch found")
	}
	if diff := abs32(p.Hz - expected); diff >= frequencyResolution(testFrames) {
		t.Errorf("expected_fundamental=%g, actual=%g", expected, p.Hz)
	}
}

func TestFundamentalFrequency_Silence(t *testing.T) {
	for name, samples := range map[string][]float32{
		"zeros":      make([]float32, testFrames),
		"quiet sine": sampleSinusoid(0.04, 440, testFrames),
	} {
		sig := mustSignal(samples)
		if p, ok := NewCorrelation(sig).FundamentalFrequency(sig); ok {
			t.Errorf("%s: expected no pitch, got %g", name, p.Hz)
		}
	}
}

func TestFundamentalFrequency_NeverNegative(t *testing.T) {
	sig := mustSignal([]float32{1, -1, 1, -1})
	c := &Correlation{values: []float32{4, 3, 2, 1, 0}}
	if p, ok := c.FundamentalFrequency(sig); ok {
		t.Errorf("expected no pitch for a curve without negative values, got %g", p.Hz)
	}
}

func TestFundamentalFrequency_Options(t *testing.T) {
	sig := mustSignal(sampleSinusoid(1, 440, testFrames))
	c := NewCorrelation(sig)

	if _, ok := c.FundamentalFrequency(sig, WithSilenceThreshold(2)); ok {
		t.Error("raised silence threshold: expected no pitch")
	}
	if _, ok := c.FundamentalFrequency(sig, WithNoiseRatio(0.01)); ok {
		t.Error("tiny noise ratio: expected the peak to be rejected as noise")
	}
	if _, ok := c.FundamentalFrequency(sig, WithNoiseRatio(-1), WithSilenceThreshold(-1)); !ok {
		t.Error("invalid option values must leave defaults in place")
	}
}

func TestFundamentalFrequency_UniformNoise(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	const trials = 200

	rejected := 0
	for i := 0; i < trials; i++ {
		sig := mustSignal(uniformNoise(rng, testFrames))
		p, ok := NewCorrelation(sig).FundamentalFrequency(sig)
		if !ok {
			rejected++
			continue
		}
		if !(p.Hz > 0) || math.IsInf(float64(p.Hz), 0) {
			t.Fatalf("trial %d: accepted pitch is not positive and finite: %g", i, p.Hz)
		}
	}
	if rejected == 0 {
		t.Errorf("noise check never fired in %d noise frames", trials)
	}
}

func TestRefine_StaysInUnitBracket(t *testing.T) {
	sig := mustSignal(sampleSinusoid(1, 440, testFrames))
	c := NewCorrelation(sig)

	got := c.refine(99.5, 100.5, DefaultMaxRefineIterations)
	if got < 99.5 || got > 100.5 {
		t.Fatalf("refined period %g outside [99.5, 100.5]", got)
	}
	// 44100/440 = 100.23 samples. The decaying envelope of a short frame
	// pulls the harmonic score slightly towards shorter lags.
	if math.Abs(float64(got)-100.23) > 1 {
		t.Errorf("refined period: got %g, want about 100.23", got)
	}
}

func TestRefine_IterationCap(t *testing.T) {
	sig := mustSignal(sampleSinusoid(1, 440, testFrames))
	c := NewCorrelation(sig)

	if got := c.refine(99.5, 100.5, 0); got != 100 {
		t.Errorf("refine with no iterations: got %g, want midpoint 100", got)
	}
}

func TestRefine_ConvergenceCondition(t *testing.T) {
	c := &Correlation{values: make([]float32, 100)}
	// dataPoints = 200/ceil(10.05) = 18, and 0.05*18 < 1.
	if got := c.refine(10, 10.05, DefaultMaxRefineIterations); abs32(got-10.025) > 1e-5 {
		t.Errorf("refine on converged bracket: got %g, want 10.025", got)
	}
}

func TestScoreGuess_AlternatingWeights(t *testing.T) {
	values := make([]float32, 100)
	for k := range values {
		values[k] = 1
	}
	c := &Correlation{values: values}

	// -0.5 + 1 - 1.5 + 2 - 2.5 + 3 - 3.5 + 4 - 4.5
	if got := c.scoreGuess(20, 10); abs32(got-(-2.5)) > 1e-6 {
		t.Errorf("scoreGuess: got %g, want -2.5", got)
	}
	if got := c.scoreGuess(20, 1); got != 0 {
		t.Errorf("scoreGuess with one data point: got %g, want 0", got)
	}
}

func TestIsNoise(t *testing.T) {
	flat := make([]float32, 100)
	for k := range flat {
		flat[k] = 1
	}

	periodic := make([]float32, 100)
	for k := range periodic {
		periodic[k] = float32(math.Cos(2*math.Pi*float64(k)/20) * float64(100-k) / 100)
	}

	tests := []struct {
		name   string
		values []float32
		ratio  float32
		want   bool
	}{
		{"flat plateau", flat, DefaultNoiseRatio, true},
		{"decaying cosine", periodic, DefaultNoiseRatio, false},
		{"decaying cosine with tiny ratio", periodic, 0.05, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := &Correlation{values: tt.values}
			if got := c.isNoise(20, tt.ratio); got != tt.want {
				t.Errorf("isNoise: got %v, want %v", got, tt.want)
			}
		})
	}
}
