// Command libtunenote builds the pitch detector as a C shared library:
//
//	go build -buildmode=c-shared -o libtunenote.so ./cmd/libtunenote
//
// Input buffers are copied before analysis and never retained.
package main

/*
#include <stdlib.h>
*/
import "C"

import (
	"unsafe"

	"github.com/0xlemi/tunenote/internal/pitch"
)

// tunenote_find_fundamental_frequency returns the pitch in Hz, or NaN when
// the frame has no pitch or the input is invalid.
//
//export tunenote_find_fundamental_frequency
func tunenote_find_fundamental_frequency(data *C.float, n C.size_t, sampleRate C.float) C.float {
	return C.float(fundamentalFrequency((*float32)(unsafe.Pointer(data)), int(n), float32(sampleRate)))
}

// tunenote_correlation writes up to capacity correlation values to out and
// returns the number written, 0 on invalid input.
//
//export tunenote_correlation
func tunenote_correlation(data *C.float, n C.size_t, sampleRate C.float, out *C.float, capacity C.size_t) C.size_t {
	written := correlationInto(
		(*float32)(unsafe.Pointer(data)), int(n), float32(sampleRate),
		(*float32)(unsafe.Pointer(out)), int(capacity))
	return C.size_t(written)
}

//export tunenote_cents_error
func tunenote_cents_error(hz C.float) C.float {
	return C.float(pitch.CentsError(float32(hz)))
}

// tunenote_pitch_name returns a newly allocated string owned by the caller,
// to be released with tunenote_free_string.
//
//export tunenote_pitch_name
func tunenote_pitch_name(hz C.float) *C.char {
	return C.CString(pitch.PitchName(float32(hz)))
}

//export tunenote_free_string
func tunenote_free_string(s *C.char) {
	C.free(unsafe.Pointer(s))
}

func main() {}
