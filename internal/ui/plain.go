package ui

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/0xlemi/tunenote/internal/engine"
)

// FormatReading renders one reading as a single line: stream offset,
// frequency, note, cents and level. Frames without a pitch show dashes.
func FormatReading(r *engine.Reading) string {
	if r == nil {
		return ""
	}
	at := r.Offset.Seconds()
	p := r.Pitch()
	if p == nil {
		return fmt.Sprintf("%9.3fs  %9s  %-4s  %6s  %6.1f dB", at, "-", "-", "-", r.DB)
	}
	return fmt.Sprintf("%9.3fs  %6.2f Hz  %-4s  %+6.1f  %6.1f dB", at, p.Hz, p.String(), p.CentsError(), r.DB)
}

// RunPlain prints a line to w every refresh interval in which src has
// published a new reading, until ctx is done.
func RunPlain(ctx context.Context, src engine.Source, w io.Writer, refresh time.Duration) error {
	if refresh <= 0 {
		refresh = time.Second / 30
	}
	ticker := time.NewTicker(refresh)
	defer ticker.Stop()

	var last *engine.Reading
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			r := src.Latest()
			if r == nil || r == last {
				continue
			}
			last = r
			if _, err := fmt.Fprintln(w, FormatReading(r)); err != nil {
				return err
			}
		}
	}
}
