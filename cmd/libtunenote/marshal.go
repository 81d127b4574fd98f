package main

import (
	"math"
	"unsafe"

	"github.com/0xlemi/tunenote/internal/pitch"
)

// copySamples copies n floats starting at data into Go memory. A nil
// pointer or zero length gives an empty slice.
func copySamples(data *float32, n int) []float32 {
	if data == nil || n <= 0 {
		return nil
	}
	out := make([]float32, n)
	copy(out, unsafe.Slice(data, n))
	return out
}

// fundamentalFrequency returns the pitch in Hz, or NaN when there is no
// pitch or the input is invalid.
func fundamentalFrequency(data *float32, n int, sampleRate float32) float32 {
	hz, ok, err := pitch.ComputePitch(copySamples(data, n), sampleRate)
	if err != nil || !ok {
		return float32(math.NaN())
	}
	return hz
}

// correlationInto writes at most capacity values of the correlation curve
// to out and returns how many were written, 0 on invalid input.
func correlationInto(data *float32, n int, sampleRate float32, out *float32, capacity int) int {
	if out == nil || capacity <= 0 {
		return 0
	}
	curve, err := pitch.CorrelationCurve(copySamples(data, n), sampleRate)
	if err != nil {
		return 0
	}
	return copy(unsafe.Slice(out, capacity), curve)
}
