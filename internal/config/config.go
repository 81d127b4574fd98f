// Package config holds the tuner settings shared by the CLI commands.
package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/pflag"

	"github.com/0xlemi/tunenote/internal/audio/portaudio"
	"github.com/0xlemi/tunenote/internal/logging"
	"github.com/0xlemi/tunenote/internal/pitch"
)

var ErrInvalidConfig = errors.New("invalid config")

// Limits enforced by Validate.
const (
	MinFrameSize = 64
	MaxFrameSize = 16384
	MinRefresh   = 1
	MaxRefresh   = 60
	MaxChannels  = 8
)

// Config is the full set of user-tunable settings.
type Config struct {
	SampleRate    int
	FrameSize     int
	Channels      int
	Device        int
	Amplification float32
	QueueDepth    int

	// Refresh is the display rate in frames per second.
	Refresh int

	NoiseRatio       float32
	SilenceThreshold float32

	LogLevel string
	LogFile  string
}

// Default returns the settings used when no flags are given.
func Default() Config {
	return Config{
		SampleRate:       44100,
		FrameSize:        1024,
		Channels:         1,
		Device:           -1,
		Amplification:    1,
		QueueDepth:       4,
		Refresh:          30,
		NoiseRatio:       pitch.DefaultNoiseRatio,
		SilenceThreshold: pitch.DefaultSilenceThreshold,
		LogLevel:         "info",
	}
}

// BindFlags registers a flag for every field, defaulting to the current values.
func (c *Config) BindFlags(fs *pflag.FlagSet) {
	fs.IntVarP(&c.SampleRate, "rate", "r", c.SampleRate, "capture sample rate in Hz")
	fs.IntVarP(&c.FrameSize, "frame-size", "n", c.FrameSize, "samples per analysis frame")
	fs.IntVar(&c.Channels, "channels", c.Channels, "input channels, mixed down to mono")
	fs.IntVarP(&c.Device, "device", "d", c.Device, "input device index from 'devices', -1 for the default")
	fs.Float32Var(&c.Amplification, "gain", c.Amplification, "input amplification factor")
	fs.IntVar(&c.QueueDepth, "queue-depth", c.QueueDepth, "buffers held between capture and analysis")
	fs.IntVar(&c.Refresh, "refresh", c.Refresh, "display refresh rate in frames per second")
	fs.Float32Var(&c.NoiseRatio, "noise-ratio", c.NoiseRatio, "reject peaks whose correlation exceeds this multiple of their harmonic score")
	fs.Float32Var(&c.SilenceThreshold, "silence", c.SilenceThreshold, "amplitude below which a frame is treated as silence")
	fs.StringVar(&c.LogLevel, "log-level", c.LogLevel, "log level (debug, info, warn, error)")
	fs.StringVar(&c.LogFile, "log-file", c.LogFile, "write logs to this file while the TUI is running")
}

// Validate reports the first setting outside its accepted range.
func (c Config) Validate() error {
	switch {
	case c.SampleRate <= 0:
		return fmt.Errorf("%w: sample rate %d must be positive", ErrInvalidConfig, c.SampleRate)
	case c.FrameSize < MinFrameSize || c.FrameSize > MaxFrameSize:
		return fmt.Errorf("%w: frame size %d outside [%d, %d]", ErrInvalidConfig, c.FrameSize, MinFrameSize, MaxFrameSize)
	case c.Channels < 1 || c.Channels > MaxChannels:
		return fmt.Errorf("%w: channels %d outside [1, %d]", ErrInvalidConfig, c.Channels, MaxChannels)
	case c.Amplification <= 0:
		return fmt.Errorf("%w: gain %g must be positive", ErrInvalidConfig, c.Amplification)
	case c.QueueDepth < 1:
		return fmt.Errorf("%w: queue depth %d must be at least 1", ErrInvalidConfig, c.QueueDepth)
	case c.Refresh < MinRefresh || c.Refresh > MaxRefresh:
		return fmt.Errorf("%w: refresh %d outside [%d, %d]", ErrInvalidConfig, c.Refresh, MinRefresh, MaxRefresh)
	case c.NoiseRatio <= 0:
		return fmt.Errorf("%w: noise ratio %g must be positive", ErrInvalidConfig, c.NoiseRatio)
	case c.SilenceThreshold < 0:
		return fmt.Errorf("%w: silence threshold %g must not be negative", ErrInvalidConfig, c.SilenceThreshold)
	}
	if _, err := logging.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	return nil
}

// PitchOptions converts the detection thresholds to pitch options.
func (c Config) PitchOptions() []pitch.Option {
	return []pitch.Option{
		pitch.WithNoiseRatio(c.NoiseRatio),
		pitch.WithSilenceThreshold(c.SilenceThreshold),
	}
}

// PortAudio returns the capture settings.
func (c Config) PortAudio() portaudio.Config {
	return portaudio.Config{
		DeviceIndex:   c.Device,
		FrameSize:     c.FrameSize,
		SampleRate:    c.SampleRate,
		Channels:      c.Channels,
		Amplification: c.Amplification,
		QueueDepth:    c.QueueDepth,
	}
}

// RefreshInterval returns the time between display refreshes.
func (c Config) RefreshInterval() time.Duration {
	if c.Refresh <= 0 {
		return time.Second / MinRefresh
	}
	return time.Second / time.Duration(c.Refresh)
}
