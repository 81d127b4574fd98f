package audio

import (
	"context"
	"errors"
	"math"
	"sync/atomic"
	"time"
)

// Errors
var (
	ErrAlreadyCapturing = errors.New("audio capture already started")
	ErrNotCapturing     = errors.New("audio capture not started")
)

// AudioBuffer represents a buffer of audio samples
type AudioBuffer struct {
	Samples    []float32
	SampleRate int
	// Offset is the position of the first sample from the start of capture.
	Offset time.Duration
}

// Capturer defines the interface for audio capture
type Capturer interface {
	// Start begins audio capture. Buffers are delivered on the returned
	// channel, which is closed when capture stops.
	Start(ctx context.Context) (<-chan *AudioBuffer, error)

	// Stop ends audio capture
	Stop() error

	// SampleRate returns the rate of the delivered buffers
	SampleRate() int
}

// Level calculates RMS and dB level
func (b *AudioBuffer) Level() (rms, db float32) {
	if b == nil || len(b.Samples) == 0 {
		return 0, -100
	}

	sumSquares := float32(0)
	for _, sample := range b.Samples {
		sumSquares += sample * sample
	}

	rms = float32(math.Sqrt(float64(sumSquares / float32(len(b.Samples)))))

	// Calculate dB (with protection against log(0))
	if rms > 0.0000001 {
		db = 20 * float32(math.Log10(float64(rms)))
	} else {
		db = -100
	}

	return rms, db
}

// FrameQueue hands buffers from a real-time producer to one consumer.
// Offer never blocks: when the queue is full the oldest queued buffer is
// dropped.
type FrameQueue struct {
	ch      chan *AudioBuffer
	dropped atomic.Uint64
}

// NewFrameQueue returns a queue holding at most depth buffers, minimum 1.
func NewFrameQueue(depth int) *FrameQueue {
	if depth < 1 {
		depth = 1
	}
	return &FrameQueue{ch: make(chan *AudioBuffer, depth)}
}

// Offer queues buf, dropping the oldest buffers to make room.
func (q *FrameQueue) Offer(buf *AudioBuffer) {
	for {
		select {
		case q.ch <- buf:
			return
		default:
		}

		select {
		case <-q.ch:
			q.dropped.Add(1)
		default:
		}
	}
}

// Send queues buf, waiting for room. It reports false if ctx ends first.
func (q *FrameQueue) Send(ctx context.Context, buf *AudioBuffer) bool {
	select {
	case <-ctx.Done():
		return false
	case q.ch <- buf:
		return true
	}
}

// Frames returns the consumer side of the queue.
func (q *FrameQueue) Frames() <-chan *AudioBuffer {
	return q.ch
}

// Dropped returns the number of stale buffers discarded so far.
func (q *FrameQueue) Dropped() uint64 {
	return q.dropped.Load()
}

// Close closes the consumer channel. No Offer or Send may follow.
func (q *FrameQueue) Close() {
	close(q.ch)
}

// Downmix averages interleaved channels into a new mono buffer and applies gain.
func Downmix(in []float32, channels int, gain float32) []float32 {
	if channels < 1 {
		channels = 1
	}
	mono := make([]float32, len(in)/channels)
	for i := range mono {
		sum := float32(0)
		for ch := 0; ch < channels; ch++ {
			sum += in[i*channels+ch]
		}
		mono[i] = (sum / float32(channels)) * gain
	}
	return mono
}
