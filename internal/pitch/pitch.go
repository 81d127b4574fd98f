package pitch

import (
	"fmt"
	"math"
)

// Pitch names indexed by MIDI number modulo 12. MIDI 0 is C in octave -1.
var pitchNames = [12]string{"C", "C♯", "D", "E♭", "E", "F", "F♯", "G", "G♯", "A", "B♭", "B"}

// Note represents a musical note
type Note struct {
	Name      string  // e.g., "A", "C♯", "B♭"
	Octave    int     // e.g., 4 for middle C (C4)
	Frequency float64 // Frequency in Hz
	Cents     float64 // Cents deviation from perfect pitch (-50 to +50)
}

// Pitch is a frequency in Hz. Any value is representable; non-positive and
// non-finite frequencies format as the empty string.
type Pitch struct {
	Hz float32
}

// NewPitch wraps hz without validation.
func NewPitch(hz float32) Pitch {
	return Pitch{Hz: hz}
}

// MIDINumber returns the continuous MIDI number, 69 at 440 Hz.
func (p Pitch) MIDINumber() float64 {
	return 69 + 12*math.Log2(float64(p.Hz)/440)
}

// CentsError returns the deviation from the nearest equal-tempered
// semitone in [-50, 50), or NaN when Hz is not finite.
func (p Pitch) CentsError() float32 {
	if !p.finite() {
		return float32(math.NaN())
	}

	midi := p.MIDINumber()
	cents := float32((midi - math.Floor(midi)) * 100)
	if cents >= 50 {
		cents -= 100
	}
	return cents
}

func (p Pitch) finite() bool {
	hz := float64(p.Hz)
	return !math.IsNaN(hz) && !math.IsInf(hz, 0)
}

func (p Pitch) valid() bool {
	return p.finite() && p.Hz > 0
}

// nearest returns the pitch class index and octave of the nearest semitone.
func (p Pitch) nearest() (int, int) {
	rounded := int(math.Round(p.MIDINumber()))
	index := rounded % len(pitchNames)
	octave := rounded / len(pitchNames)
	if index < 0 {
		index += len(pitchNames)
		octave--
	}
	return index, octave - 1
}

// String formats the nearest note as name padded to two runes followed by
// the octave, e.g. "A 4" or "C♯3".
func (p Pitch) String() string {
	if !p.valid() {
		return ""
	}
	index, octave := p.nearest()
	return fmt.Sprintf("%-2s%d", pitchNames[index], octave)
}

// Note returns the display form of p. The zero Note is returned for
// invalid frequencies.
func (p Pitch) Note() Note {
	if !p.valid() {
		return Note{}
	}
	index, octave := p.nearest()
	return Note{
		Name:      pitchNames[index],
		Octave:    octave,
		Frequency: float64(p.Hz),
		Cents:     float64(p.CentsError()),
	}
}
