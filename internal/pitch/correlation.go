package pitch

import "math"

// Correlation is the autocorrelation curve of a Signal, one value per lag.
// Values()[0] is the signal energy.
type Correlation struct {
	values []float32
}

// NewCorrelation computes the autocorrelation of sig with the direct
// sliding dot product: value[k] = sum(s[i] * s[i+k]) over the overlapping
// N-k samples. No window is applied.
func NewCorrelation(sig *Signal) *Correlation {
	s := sig.samples
	n := len(s)
	values := make([]float32, n)
	for k := 0; k < n; k++ {
		var sum float32
		for i, x := range s[:n-k] {
			sum += x * s[i+k]
		}
		values[k] = sum
	}
	return &Correlation{values: values}
}

// Values returns a copy of the curve.
func (c *Correlation) Values() []float32 {
	out := make([]float32, len(c.values))
	copy(out, c.values)
	return out
}

// Len returns the number of lags in the curve.
func (c *Correlation) Len() int {
	return len(c.values)
}

// Interpolate linearly interpolates the curve at the fractional lag x,
// clamping to the first value below zero or at NaN and the last value past
// the end.
func (c *Correlation) Interpolate(x float32) float32 {
	v := c.values
	x0 := float32(math.Floor(float64(x)))
	x1 := float32(math.Ceil(float64(x)))

	switch {
	case x0 < 0 || math.IsNaN(float64(x)):
		return v[0]
	case x1 >= float32(len(v)):
		return v[len(v)-1]
	}

	i0, i1 := int(x0), int(x1)
	if i0 == i1 {
		return v[i0]
	}
	return (v[i0]*(x1-x) + v[i1]*(x-x0)) / (x1 - x0)
}
