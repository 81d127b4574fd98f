package pitch

import "math"

// FundamentalFrequency estimates the pitch of sig from its autocorrelation.
// It reports false when the frame is silent, never goes negative (no
// periodic structure) or its strongest peak looks like noise.
func (c *Correlation) FundamentalFrequency(sig *Signal, opts ...Option) (Pitch, bool) {
	cfg := ApplyOptions(opts...)

	if sig.silentBelow(cfg.SilenceThreshold) {
		return Pitch{}, false
	}

	// The central lobe around lag 0 ends at the first negative value.
	boundary := -1
	for i, v := range c.values {
		if v < 0 {
			boundary = i
			break
		}
	}
	if boundary < 0 {
		return Pitch{}, false
	}

	peak, peakValue := boundary, float32(0)
	for i := boundary; i < len(c.values); i++ {
		if c.values[i] > peakValue {
			peak, peakValue = i, c.values[i]
		}
	}

	period := c.refine(float32(peak)-0.5, float32(peak)+0.5, cfg.MaxRefineIterations)
	if c.isNoise(period, cfg.NoiseRatio) {
		return Pitch{}, false
	}

	return NewPitch(sig.sampleRate / period), true
}

// refine narrows [low, high] by bisection towards the lag whose half-period
// multiples best match an alternating correlation pattern. It stops once
// the bracket is narrower than the spacing of the points being scored.
func (c *Correlation) refine(low, high float32, maxIterations int) float32 {
	for i := 0; ; i++ {
		dataPoints := c.dataPoints(high)
		mid := (low + high) / 2
		if (high-low)*float32(dataPoints) < 1 || i >= maxIterations {
			return mid
		}

		if c.scoreGuess(high, dataPoints) > c.scoreGuess(low, dataPoints) {
			low = mid
		} else {
			high = mid
		}
	}
}

// dataPoints is the number of half-period multiples of period that fit in
// twice the curve length.
func (c *Correlation) dataPoints(period float32) int {
	return 2 * len(c.values) / int(math.Ceil(float64(period)))
}

// scoreGuess is a matched filter for a periodic curve: maxima are expected
// at even multiples of period/2 and minima at odd ones, with weight growing
// linearly with the multiple.
func (c *Correlation) scoreGuess(period float32, dataPoints int) float32 {
	var score float32
	for i := 1; i < dataPoints; i++ {
		sign := float32(-1)
		if i%2 == 0 {
			sign = 1
		}
		x := float32(i) * period / 2
		score += sign * 0.5 * float32(i) * c.Interpolate(x)
	}
	return score
}

// isNoise reports whether the correlation at period is out of proportion to
// the harmonic score around it.
func (c *Correlation) isNoise(period, ratio float32) bool {
	value := c.Interpolate(period)
	score := c.scoreGuess(period, c.dataPoints(period))
	return value > ratio*score
}
