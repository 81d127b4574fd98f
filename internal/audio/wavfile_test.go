package audio

import (
	"bytes"
	"context"
	"encoding/binary"
	"errors"
	"io"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"testing"
	"time"
)

var discard = slog.New(slog.NewTextHandler(io.Discard, nil))

// writeWav writes 16-bit PCM with every channel carrying the same sine.
func writeWav(t *testing.T, frames, channels, sampleRate int, freq float64) string {
	t.Helper()

	data := new(bytes.Buffer)
	for i := 0; i < frames; i++ {
		v := int16(0.8 * math.MaxInt16 * math.Sin(2*math.Pi*freq*float64(i)/float64(sampleRate)))
		for ch := 0; ch < channels; ch++ {
			binary.Write(data, binary.LittleEndian, v)
		}
	}

	blockAlign := channels * 2
	out := new(bytes.Buffer)
	out.WriteString("RIFF")
	binary.Write(out, binary.LittleEndian, uint32(36+data.Len()))
	out.WriteString("WAVE")
	out.WriteString("fmt ")
	binary.Write(out, binary.LittleEndian, uint32(16))
	binary.Write(out, binary.LittleEndian, uint16(1))
	binary.Write(out, binary.LittleEndian, uint16(channels))
	binary.Write(out, binary.LittleEndian, uint32(sampleRate))
	binary.Write(out, binary.LittleEndian, uint32(sampleRate*blockAlign))
	binary.Write(out, binary.LittleEndian, uint16(blockAlign))
	binary.Write(out, binary.LittleEndian, uint16(16))
	out.WriteString("data")
	binary.Write(out, binary.LittleEndian, uint32(data.Len()))
	out.Write(data.Bytes())

	path := filepath.Join(t.TempDir(), "tone.wav")
	if err := os.WriteFile(path, out.Bytes(), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func collect(t *testing.T, ch <-chan *AudioBuffer) []*AudioBuffer {
	t.Helper()

	var out []*AudioBuffer
	timeout := time.After(5 * time.Second)
	for {
		select {
		case buf, ok := <-ch:
			if !ok {
				return out
			}
			out = append(out, buf)
		case <-timeout:
			t.Fatal("timed out waiting for the source to finish")
		}
	}
}

func TestFileSource_Frames(t *testing.T) {
	tests := []struct {
		name      string
		frames    int
		channels  int
		wantSizes []int
	}{
		{"mono exact", 4096, 1, []int{1024, 1024, 1024, 1024}},
		{"stereo", 2048, 2, []int{1024, 1024}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeWav(t, tt.frames, tt.channels, 44100, 440)
			src, err := NewFileSource(path, 1024, false, 4, discard)
			if err != nil {
				t.Fatalf("NewFileSource: %v", err)
			}
			if src.SampleRate() != 44100 {
				t.Errorf("SampleRate: got %d, want 44100", src.SampleRate())
			}

			ch, err := src.Start(context.Background())
			if err != nil {
				t.Fatalf("Start: %v", err)
			}
			bufs := collect(t, ch)
			if err := src.Err(); err != nil {
				t.Fatalf("Err: %v", err)
			}

			if len(bufs) != len(tt.wantSizes) {
				t.Fatalf("got %d buffers, want %d", len(bufs), len(tt.wantSizes))
			}
			var read int
			for i, buf := range bufs {
				if len(buf.Samples) != tt.wantSizes[i] {
					t.Errorf("buffer %d: got %d samples, want %d", i, len(buf.Samples), tt.wantSizes[i])
				}
				if buf.SampleRate != 44100 {
					t.Errorf("buffer %d: sample rate %d", i, buf.SampleRate)
				}
				if want := time.Duration(read) * time.Second / 44100; buf.Offset != want {
					t.Errorf("buffer %d: offset %v, want %v", i, buf.Offset, want)
				}
				read += len(buf.Samples)
			}

			if rms, _ := bufs[0].Level(); rms == 0 {
				t.Error("first buffer is silent")
			}
		})
	}
}

func TestFileSource_Realtime(t *testing.T) {
	path := writeWav(t, 1024, 1, 44100, 440)
	src, err := NewFileSource(path, 256, true, 2, discard)
	if err != nil {
		t.Fatalf("NewFileSource: %v", err)
	}

	ch, err := src.Start(context.Background())
	if err != nil {
		t.Fatalf("Start: %v", err)
	}
	if bufs := collect(t, ch); len(bufs) == 0 {
		t.Error("realtime source delivered no buffers")
	}
}

func TestFileSource_StopAndRestart(t *testing.T) {
	path := writeWav(t, 8192, 1, 44100, 440)
	src, err := NewFileSource(path, 512, false, 1, discard)
	if err != nil {
		t.Fatalf("NewFileSource: %v", err)
	}

	ch, err := src.Start(context.Background())
	if err != nil {
		t.Fatalf("Start: %v", err)
	}
	<-ch

	if err := src.Stop(); err != nil {
		t.Fatalf("Stop: %v", err)
	}
	collect(t, ch)

	if err := src.Stop(); !errors.Is(err, ErrNotCapturing) {
		t.Errorf("second Stop: got %v, want %v", err, ErrNotCapturing)
	}
	if _, err := src.Start(context.Background()); !errors.Is(err, ErrAlreadyCapturing) {
		t.Errorf("restart: got %v, want %v", err, ErrAlreadyCapturing)
	}
}

func TestFileSource_ContextCancel(t *testing.T) {
	path := writeWav(t, 8192, 1, 44100, 440)
	src, err := NewFileSource(path, 512, false, 1, discard)
	if err != nil {
		t.Fatalf("NewFileSource: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	ch, err := src.Start(ctx)
	if err != nil {
		t.Fatalf("Start: %v", err)
	}
	<-ch
	cancel()
	collect(t, ch)
}

func TestNewFileSource_Errors(t *testing.T) {
	if _, err := NewFileSource(filepath.Join(t.TempDir(), "missing.wav"), 1024, false, 1, discard); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("missing file: got %v, want %v", err, os.ErrNotExist)
	}

	path := writeWav(t, 16, 1, 44100, 440)
	if _, err := NewFileSource(path, 0, false, 1, discard); err == nil {
		t.Error("zero frame size: expected an error")
	}
}
