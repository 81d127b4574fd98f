package audio

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sync"
	"time"

	"github.com/mjibson/go-dsp/wav"
)

// FileSource replays a WAV file as a stream of mono buffers. In realtime
// mode buffers are paced at the file's sample rate and stale ones are
// dropped like live capture; otherwise every frame is delivered as fast as
// the consumer reads it.
type FileSource struct {
	path       string
	frameSize  int
	realtime   bool
	queueDepth int
	logger     *slog.Logger

	file       *os.File
	wav        *wav.Wav
	sampleRate int
	channels   int

	mu          sync.Mutex
	isCapturing bool
	cancel      context.CancelFunc
	done        chan struct{}
	err         error
}

// NewFileSource opens path and reads its WAV header.
func NewFileSource(path string, frameSize int, realtime bool, queueDepth int, logger *slog.Logger) (*FileSource, error) {
	if frameSize <= 0 {
		return nil, fmt.Errorf("invalid frame size %d", frameSize)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}

	w, err := wav.New(f)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("read wav header %s: %w", path, err)
	}
	if w.Header.SampleRate == 0 || w.Header.NumChannels == 0 {
		f.Close()
		return nil, fmt.Errorf("wav %s: unsupported format (%d Hz, %d channels)",
			path, w.Header.SampleRate, w.Header.NumChannels)
	}

	logger.Debug("opened wav file",
		"path", path,
		"format", w.Header.AudioFormat,
		"channels", w.Header.NumChannels,
		"sample_rate", w.Header.SampleRate,
		"bits_per_sample", w.Header.BitsPerSample,
		"duration", w.Duration)

	return &FileSource{
		path:       path,
		frameSize:  frameSize,
		realtime:   realtime,
		queueDepth: queueDepth,
		logger:     logger,
		file:       f,
		wav:        w,
		sampleRate: int(w.Header.SampleRate),
		channels:   int(w.Header.NumChannels),
	}, nil
}

// SampleRate returns the sample rate of the file
func (s *FileSource) SampleRate() int {
	return s.sampleRate
}

// Duration returns the length of the file
func (s *FileSource) Duration() time.Duration {
	return s.wav.Duration
}

// Start begins reading the file. A source can only be started once.
func (s *FileSource) Start(ctx context.Context) (<-chan *AudioBuffer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isCapturing || s.done != nil {
		return nil, ErrAlreadyCapturing
	}

	ctx, s.cancel = context.WithCancel(ctx)
	s.done = make(chan struct{})
	s.isCapturing = true

	q := NewFrameQueue(s.queueDepth)
	go s.read(ctx, q)

	return q.Frames(), nil
}

func (s *FileSource) read(ctx context.Context, q *FrameQueue) {
	defer close(s.done)
	defer q.Close()
	defer s.file.Close()

	var tick <-chan time.Time
	if s.realtime {
		period := time.Duration(s.frameSize) * time.Second / time.Duration(s.sampleRate)
		ticker := time.NewTicker(period)
		defer ticker.Stop()
		tick = ticker.C
	}

	var frames int64
	for {
		raw, err := s.wav.ReadFloats(s.frameSize * s.channels)
		if n := len(raw) / s.channels; n > 0 {
			buf := &AudioBuffer{
				Samples:    Downmix(raw[:n*s.channels], s.channels, 1),
				SampleRate: s.sampleRate,
				Offset:     time.Duration(frames) * time.Second / time.Duration(s.sampleRate),
			}
			frames += int64(n)

			if !s.deliver(ctx, q, tick, buf) {
				return
			}
		}

		if err != nil {
			if !errors.Is(err, io.EOF) && !errors.Is(err, io.ErrUnexpectedEOF) {
				s.setErr(fmt.Errorf("read wav %s: %w", s.path, err))
			}
			return
		}
		if len(raw) == 0 {
			return
		}
	}
}

func (s *FileSource) deliver(ctx context.Context, q *FrameQueue, tick <-chan time.Time, buf *AudioBuffer) bool {
	if tick != nil {
		select {
		case <-ctx.Done():
			return false
		case <-tick:
		}
		q.Offer(buf)
		return true
	}
	return q.Send(ctx, buf)
}

func (s *FileSource) setErr(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.err = err
}

// Err returns the read error that ended the stream, if any. It is only
// meaningful after the buffer channel has been closed.
func (s *FileSource) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

// Stop ends playback and waits for the reader to exit.
func (s *FileSource) Stop() error {
	s.mu.Lock()
	if !s.isCapturing {
		if s.done == nil {
			s.file.Close()
		}
		s.mu.Unlock()
		return ErrNotCapturing
	}
	s.isCapturing = false
	cancel, done := s.cancel, s.done
	s.mu.Unlock()

	cancel()
	<-done
	return nil
}
