//go:build js && wasm

package main

import (
	"syscall/js"

	"github.com/cwbudde/noctave/dsp/effects/pitch"
	"github.com/cwbudde/noctave/dsp/interp"
	"github.com/cwbudde/noctave/internal/webdemo"
)

var (
	engine *webdemo.Engine
	funcs  []js.Func
)

func main() {
	api := js.Global().Get("Object").New()
	api.Set("init", export(func(args []js.Value) any {
		sr := 48000.0
		if len(args) > 0 {
			sr = args[0].Float()
		}
		e, err := webdemo.NewEngine(sr)
		if err != nil {
			return err.Error()
		}
		engine = e
		return js.Null()
	}))

	api.Set("paramSpecs", export(func([]js.Value) any {
		specs := pitch.ParamSpecs()
		arr := js.Global().Get("Array").New(len(specs))
		for i, s := range specs {
			obj := js.Global().Get("Object").New()
			obj.Set("id", s.ID)
			obj.Set("name", s.Name)
			obj.Set("unit", s.Unit)
			obj.Set("min", s.Min)
			obj.Set("max", s.Max)
			obj.Set("step", s.Step)
			obj.Set("default", s.Default)
			arr.SetIndex(i, obj)
		}
		return arr
	}))

	api.Set("setParams", export(func(args []js.Value) any {
		if engine == nil || len(args) < 1 {
			return js.Null()
		}
		p := args[0]
		engine.SetParams(pitch.Params{
			PitchShift: p.Get("pitch").Float(),
			Mix:        p.Get("mix").Float(),
			Feedback:   p.Get("feedback").Float(),
			Harmony:    p.Get("harmony").Float(),
		})
		return js.Null()
	}))

	api.Set("setInterpolation", export(func(args []js.Value) any {
		if engine == nil || len(args) < 1 {
			return js.Null()
		}
		mode := interp.Linear
		if args[0].String() == interp.Hermite.String() {
			mode = interp.Hermite
		}
		if err := engine.SetInterpolation(mode); err != nil {
			return err.Error()
		}
		return js.Null()
	}))

	api.Set("reset", export(func([]js.Value) any {
		if engine != nil {
			engine.Reset()
		}
		return js.Null()
	}))

	api.Set("setTransport", export(func(args []js.Value) any {
		if engine == nil || len(args) < 2 {
			return js.Null()
		}
		engine.SetTransport(args[0].Float(), args[1].Float())
		return js.Null()
	}))

	api.Set("setRunning", export(func(args []js.Value) any {
		if engine == nil || len(args) < 1 {
			return js.Null()
		}
		engine.SetRunning(args[0].Bool())
		return js.Null()
	}))

	api.Set("setWaveform", export(func(args []js.Value) any {
		if engine == nil || len(args) < 1 {
			return js.Null()
		}
		engine.SetWaveform(args[0].String())
		return js.Null()
	}))

	api.Set("setSteps", export(func(args []js.Value) any {
		if engine == nil || len(args) < 1 {
			return js.Null()
		}
		arr := args[0]
		steps := make([]webdemo.StepConfig, arr.Length())
		for i := range steps {
			item := arr.Index(i)
			steps[i] = webdemo.StepConfig{
				Enabled: item.Get("enabled").Bool(),
				FreqHz:  item.Get("freq").Float(),
			}
		}
		engine.SetSteps(steps)
		return js.Null()
	}))

	api.Set("render", export(func(args []js.Value) any {
		if engine == nil || len(args) < 1 {
			return js.Global().Get("Float32Array").New(0)
		}
		n := args[0].Int()
		buf := make([]float32, n)
		engine.Render(buf)
		arr := js.Global().Get("Float32Array").New(n)
		for i := range buf {
			arr.SetIndex(i, buf[i])
		}
		return arr
	}))

	api.Set("meter", export(func([]js.Value) any {
		if engine == nil {
			return js.Null()
		}
		r, err := engine.Meter()
		if err != nil {
			return err.Error()
		}
		obj := js.Global().Get("Object").New()
		obj.Set("peakDB", r.PeakDB)
		obj.Set("rms", r.RMS)
		obj.Set("dominantHz", r.DominantHz)
		return obj
	}))

	api.Set("currentStep", export(func([]js.Value) any {
		if engine == nil {
			return -1
		}
		return engine.CurrentStep()
	}))

	js.Global().Set("NoctaveDemo", api)
	select {}
}

func export(fn func([]js.Value) any) js.Func {
	f := js.FuncOf(func(_ js.Value, args []js.Value) any {
		return fn(args)
	})
	funcs = append(funcs, f)
	return f
}
