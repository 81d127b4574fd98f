//go:build js && wasm

package main

import (
	"math"
	"syscall/js"

	"github.com/0xlemi/tunenote/internal/pitch"
)

var funcs []js.Func

func main() {
	api := js.Global().Get("Object").New()

	// computePitch(samples: Float32Array, sampleRate: number): number | null
	api.Set("computePitch", export(func(args []js.Value) any {
		if len(args) < 2 {
			return js.Null()
		}
		hz, ok, err := pitch.ComputePitch(floats(args[0]), float32(args[1].Float()))
		if err != nil || !ok {
			return js.Null()
		}
		return hz
	}))

	// correlation(samples: Float32Array, sampleRate: number): Float32Array
	api.Set("correlation", export(func(args []js.Value) any {
		if len(args) < 2 {
			return js.Global().Get("Float32Array").New(0)
		}
		curve, err := pitch.CorrelationCurve(floats(args[0]), float32(args[1].Float()))
		if err != nil {
			return js.Global().Get("Float32Array").New(0)
		}
		arr := js.Global().Get("Float32Array").New(len(curve))
		for i, v := range curve {
			arr.SetIndex(i, v)
		}
		return arr
	}))

	api.Set("centsError", export(func(args []js.Value) any {
		if len(args) < 1 {
			return math.NaN()
		}
		return pitch.CentsError(float32(args[0].Float()))
	}))

	api.Set("pitchName", export(func(args []js.Value) any {
		if len(args) < 1 {
			return ""
		}
		return pitch.PitchName(float32(args[0].Float()))
	}))

	js.Global().Set("tunenote", api)
	select {}
}

// floats copies a JS array-like of numbers into Go memory.
func floats(v js.Value) []float32 {
	n := v.Length()
	out := make([]float32, n)
	for i := 0; i < n; i++ {
		out[i] = float32(v.Index(i).Float())
	}
	return out
}

func export(fn func([]js.Value) any) js.Func {
	f := js.FuncOf(func(_ js.Value, args []js.Value) any {
		return fn(args)
	})
	funcs = append(funcs, f)
	return f
}
