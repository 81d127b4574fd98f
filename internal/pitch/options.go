package pitch

// Default tuning for the peak refiner.
const (
	DefaultNoiseRatio          = 2.0
	DefaultMaxRefineIterations = 64
)

// Config holds the tunable thresholds of the detection pipeline.
type Config struct {
	// NoiseRatio rejects a peak whose correlation exceeds NoiseRatio times
	// its harmonic score.
	NoiseRatio float32
	// SilenceThreshold is the per-sample amplitude below which a frame is silent.
	SilenceThreshold float32
	// MaxRefineIterations caps the bisection search.
	MaxRefineIterations int
}

// Option mutates a Config.
type Option func(*Config)

// DefaultConfig returns the thresholds the detector was tuned with.
func DefaultConfig() Config {
	return Config{
		NoiseRatio:          DefaultNoiseRatio,
		SilenceThreshold:    DefaultSilenceThreshold,
		MaxRefineIterations: DefaultMaxRefineIterations,
	}
}

// WithNoiseRatio sets the noise rejection ratio.
func WithNoiseRatio(ratio float32) Option {
	return func(cfg *Config) {
		if ratio > 0 {
			cfg.NoiseRatio = ratio
		}
	}
}

// WithSilenceThreshold sets the silence amplitude threshold.
func WithSilenceThreshold(threshold float32) Option {
	return func(cfg *Config) {
		if threshold >= 0 {
			cfg.SilenceThreshold = threshold
		}
	}
}

// WithMaxRefineIterations caps the number of bisection steps.
func WithMaxRefineIterations(n int) Option {
	return func(cfg *Config) {
		if n > 0 {
			cfg.MaxRefineIterations = n
		}
	}
}

// ApplyOptions applies zero or more options to the default config.
func ApplyOptions(opts ...Option) Config {
	cfg := DefaultConfig()
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	return cfg
}
