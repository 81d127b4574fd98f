// Package portaudio captures live input through the PortAudio C library.
// It is the only package that needs cgo; package audio and the pitch core
// must not import it.
package portaudio

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	pa "github.com/gordonklaus/portaudio"

	"github.com/0xlemi/tunenote/internal/audio"
)

// Config selects the input device and stream format.
type Config struct {
	// DeviceIndex selects an input device from ListDevices; negative
	// selects the host's default input.
	DeviceIndex   int
	FrameSize     int
	SampleRate    int
	Channels      int
	Amplification float32
	QueueDepth    int
}

// Capturer implements audio.Capturer using PortAudio
type Capturer struct {
	cfg    Config
	logger *slog.Logger

	mu            sync.Mutex
	isCapturing   bool
	stream        *pa.Stream
	queue         *audio.FrameQueue
	stopped       chan struct{}
	frames        int64
	amplification float32 // Audio signal amplification factor
}

// New creates a new audio capturer using PortAudio
func New(cfg Config, logger *slog.Logger) (*Capturer, error) {
	if cfg.FrameSize <= 0 || cfg.SampleRate <= 0 || cfg.Channels <= 0 {
		return nil, fmt.Errorf("invalid stream format: %d frames, %d Hz, %d channels",
			cfg.FrameSize, cfg.SampleRate, cfg.Channels)
	}
	if cfg.Amplification <= 0 {
		cfg.Amplification = 1
	}

	return &Capturer{
		cfg:           cfg,
		logger:        logger,
		amplification: cfg.Amplification,
	}, nil
}

var _ audio.Capturer = (*Capturer)(nil)

// Start begins audio capture
func (c *Capturer) Start(ctx context.Context) (<-chan *audio.AudioBuffer, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.isCapturing {
		return nil, audio.ErrAlreadyCapturing
	}

	if err := pa.Initialize(); err != nil {
		return nil, fmt.Errorf("initialize portaudio: %w", err)
	}

	stream, err := c.openStream()
	if err != nil {
		pa.Terminate()
		return nil, fmt.Errorf("open input stream: %w", err)
	}

	c.queue = audio.NewFrameQueue(c.cfg.QueueDepth)
	c.frames = 0
	c.stream = stream

	if err := stream.Start(); err != nil {
		stream.Close()
		pa.Terminate()
		return nil, fmt.Errorf("start input stream: %w", err)
	}

	c.isCapturing = true
	c.stopped = make(chan struct{})
	c.logger.Info("audio capture started",
		"device", c.cfg.DeviceIndex,
		"sample_rate", c.cfg.SampleRate,
		"frame_size", c.cfg.FrameSize,
		"channels", c.cfg.Channels)

	go func(stopped <-chan struct{}) {
		select {
		case <-ctx.Done():
			if err := c.Stop(); err != nil && !errors.Is(err, audio.ErrNotCapturing) {
				c.logger.Warn("stop audio capture", "err", err)
			}
		case <-stopped:
		}
	}(c.stopped)

	return c.queue.Frames(), nil
}

func (c *Capturer) openStream() (*pa.Stream, error) {
	if c.cfg.DeviceIndex < 0 {
		return pa.OpenDefaultStream(
			c.cfg.Channels, // input channels
			0,              // output channels (we don't need output)
			float64(c.cfg.SampleRate),
			c.cfg.FrameSize, // frames per buffer
			c.processAudio,  // callback function
		)
	}

	devices, err := pa.Devices()
	if err != nil {
		return nil, err
	}
	if c.cfg.DeviceIndex >= len(devices) {
		return nil, fmt.Errorf("no audio device with index %d", c.cfg.DeviceIndex)
	}
	device := devices[c.cfg.DeviceIndex]
	if device.MaxInputChannels < c.cfg.Channels {
		return nil, fmt.Errorf("device %q has %d input channels, need %d",
			device.Name, device.MaxInputChannels, c.cfg.Channels)
	}

	params := pa.LowLatencyParameters(device, nil)
	params.Input.Channels = c.cfg.Channels
	params.SampleRate = float64(c.cfg.SampleRate)
	params.FramesPerBuffer = c.cfg.FrameSize
	return pa.OpenStream(params, c.processAudio)
}

// Stop ends audio capture
func (c *Capturer) Stop() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.isCapturing {
		return audio.ErrNotCapturing
	}
	c.isCapturing = false
	close(c.stopped)

	// Stop waits for the last callback, so the queue can be closed after it.
	if err := c.stream.Stop(); err != nil {
		return err
	}
	if err := c.stream.Close(); err != nil {
		return err
	}
	c.queue.Close()

	c.logger.Info("audio capture stopped", "dropped_buffers", c.queue.Dropped())

	// Terminate PortAudio
	return pa.Terminate()
}

// SampleRate returns the capture sample rate
func (c *Capturer) SampleRate() int {
	return c.cfg.SampleRate
}

// processAudio is the callback function for audio processing. It runs on
// the PortAudio thread and must never block.
func (c *Capturer) processAudio(in []float32) {
	channels := c.cfg.Channels
	if channels < 1 {
		channels = 1
	}

	offset := time.Duration(c.frames) * time.Second / time.Duration(c.cfg.SampleRate)
	buf := &audio.AudioBuffer{
		Samples:    audio.Downmix(in, channels, c.amplification),
		SampleRate: c.cfg.SampleRate,
		Offset:     offset,
	}
	c.frames += int64(len(buf.Samples))

	c.queue.Offer(buf)
}
