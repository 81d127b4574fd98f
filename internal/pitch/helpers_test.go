package pitch

import (
	"math"
	"math/rand"
)

const (
	testSampleRate = 44100.0
	testFrames     = 512
)

// frequencyResolution is the width of one bin of a frames-long spectrum.
func frequencyResolution(frames int) float32 {
	return testSampleRate / 2 / float32(frames)
}

func sampleSinusoid(amplitude, frequency float64, frames int) []float32 {
	out := make([]float32, frames)
	for i := range out {
		t := float64(i) / testSampleRate
		out[i] = float32(amplitude * math.Sin(2*math.Pi*frequency*t))
	}
	return out
}

func addSamples(a, b []float32) []float32 {
	out := make([]float32, len(a))
	for i := range a {
		out[i] = a[i] + b[i]
	}
	return out
}

func uniformNoise(rng *rand.Rand, frames int) []float32 {
	out := make([]float32, frames)
	for i := range out {
		out[i] = rng.Float32()*2 - 1
	}
	return out
}

func mustSignal(samples []float32) *Signal {
	sig, err := NewSignal(samples, testSampleRate)
	if err != nil {
		panic(err)
	}
	return sig
}

func abs32(x float32) float32 {
	return float32(math.Abs(float64(x)))
}
