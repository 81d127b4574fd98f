// Package engine runs captured audio through pitch detection and publishes
// the most recent result for renderers.
package engine

import (
	"context"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/0xlemi/tunenote/internal/audio"
	"github.com/0xlemi/tunenote/internal/pitch"
)

// Reading is the result of analysing one buffer.
type Reading struct {
	Model  *pitch.Model
	RMS    float32
	DB     float32
	Offset time.Duration
	At     time.Time
}

// Pitch returns the detected pitch, or nil.
func (r *Reading) Pitch() *pitch.Pitch {
	if r == nil || r.Model == nil {
		return nil
	}
	return r.Model.Pitch
}

// Source gives renderers the most recent reading without blocking capture.
type Source interface {
	Latest() *Reading
}

// Latest is a single-writer, many-reader cell holding the newest reading.
type Latest struct {
	p atomic.Pointer[Reading]
}

// Load returns the newest reading, or nil before the first one.
func (l *Latest) Load() *Reading {
	return l.p.Load()
}

// Store publishes r.
func (l *Latest) Store(r *Reading) {
	l.p.Store(r)
}

// Stats counts processed and skipped buffers.
type Stats struct {
	Processed uint64
	Skipped   uint64
}

// Engine consumes audio buffers, always analysing the freshest one.
type Engine struct {
	detector pitch.Detector
	logger   *slog.Logger
	latest   Latest
	now      func() time.Time

	processed atomic.Uint64
	skipped   atomic.Uint64
}

// New creates an engine around detector.
func New(detector pitch.Detector, logger *slog.Logger) *Engine {
	return &Engine{
		detector: detector,
		logger:   logger,
		now:      time.Now,
	}
}

// Latest returns the newest reading, or nil.
func (e *Engine) Latest() *Reading {
	return e.latest.Load()
}

// Stats returns the buffer counters.
func (e *Engine) Stats() Stats {
	return Stats{
		Processed: e.processed.Load(),
		Skipped:   e.skipped.Load(),
	}
}

// Process analyses a single buffer without publishing it.
func (e *Engine) Process(buf *audio.AudioBuffer) (*Reading, error) {
	m, err := e.detector.DetectPitch(buf)
	if err != nil {
		return nil, err
	}
	rms, db := buf.Level()
	return &Reading{
		Model:  m,
		RMS:    rms,
		DB:     db,
		Offset: buf.Offset,
		At:     e.now(),
	}, nil
}

// Run processes buffers from frames until the channel is closed or ctx is
// done. Buffers that queued up while the previous one was being analysed
// are skipped in favour of the newest.
func (e *Engine) Run(ctx context.Context, frames <-chan *audio.AudioBuffer) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case buf, ok := <-frames:
			if !ok {
				return nil
			}

			buf, skipped, open := freshest(buf, frames)
			if skipped > 0 {
				e.skipped.Add(uint64(skipped))
				e.logger.Debug("skipped stale buffers", "count", skipped)
			}

			r, err := e.Process(buf)
			if err != nil {
				return fmt.Errorf("process buffer at %v: %w", buf.Offset, err)
			}
			e.processed.Add(1)
			e.latest.Store(r)

			if p := r.Pitch(); p != nil {
				e.logger.Debug("pitch", "hz", p.Hz, "note", p.String(), "cents", p.CentsError())
			}

			if !open {
				return nil
			}
		}
	}
}

// freshest drains whatever is already queued behind cur and returns the
// newest buffer, how many were skipped, and whether frames is still open.
func freshest(cur *audio.AudioBuffer, frames <-chan *audio.AudioBuffer) (*audio.AudioBuffer, int, bool) {
	skipped := 0
	for {
		select {
		case buf, ok := <-frames:
			if !ok {
				return cur, skipped, false
			}
			cur = buf
			skipped++
		default:
			return cur, skipped, true
		}
	}
}
