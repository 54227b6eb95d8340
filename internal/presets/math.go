package presets

import (
	"math"
	"math/rand"

	"github.com/samlaycock/nookjs/internal/evaluator"
	"github.com/samlaycock/nookjs/internal/runtime"
	"github.com/samlaycock/nookjs/internal/values"
)

func registerMath(g *evaluator.Globals) {
	obj := values.NewObject()
	obj.Set("PI", values.Number(math.Pi))
	obj.Set("E", values.Number(math.E))
	obj.Set("LN2", values.Number(math.Ln2))
	obj.Set("LN10", values.Number(math.Log(10)))
	obj.Set("SQRT2", values.Number(math.Sqrt2))

	fns := map[string]runtime.HostFunc{
		"abs":     hostFn(func(a []values.Value) (values.Value, error) { return values.Number(math.Abs(numArg(a, 0))), nil }),
		"floor":   hostFn(func(a []values.Value) (values.Value, error) { return values.Number(math.Floor(numArg(a, 0))), nil }),
		"ceil":    hostFn(func(a []values.Value) (values.Value, error) { return values.Number(math.Ceil(numArg(a, 0))), nil }),
		"round":   hostFn(func(a []values.Value) (values.Value, error) { return values.Number(math.Round(numArg(a, 0))), nil }),
		"trunc":   hostFn(func(a []values.Value) (values.Value, error) { return values.Number(math.Trunc(numArg(a, 0))), nil }),
		"sign":    hostFn(func(a []values.Value) (values.Value, error) { return values.Number(sign(numArg(a, 0))), nil }),
		"sqrt":    hostFn(func(a []values.Value) (values.Value, error) { return values.Number(math.Sqrt(numArg(a, 0))), nil }),
		"cbrt":    hostFn(func(a []values.Value) (values.Value, error) { return values.Number(math.Cbrt(numArg(a, 0))), nil }),
		"pow":     hostFn(func(a []values.Value) (values.Value, error) { return values.Number(math.Pow(numArg(a, 0), numArg(a, 1))), nil }),
		"log":     hostFn(func(a []values.Value) (values.Value, error) { return values.Number(math.Log(numArg(a, 0))), nil }),
		"log2":    hostFn(func(a []values.Value) (values.Value, error) { return values.Number(math.Log2(numArg(a, 0))), nil }),
		"log10":   hostFn(func(a []values.Value) (values.Value, error) { return values.Number(math.Log10(numArg(a, 0))), nil }),
		"exp":     hostFn(func(a []values.Value) (values.Value, error) { return values.Number(math.Exp(numArg(a, 0))), nil }),
		"sin":     hostFn(func(a []values.Value) (values.Value, error) { return values.Number(math.Sin(numArg(a, 0))), nil }),
		"cos":     hostFn(func(a []values.Value) (values.Value, error) { return values.Number(math.Cos(numArg(a, 0))), nil }),
		"tan":     hostFn(func(a []values.Value) (values.Value, error) { return values.Number(math.Tan(numArg(a, 0))), nil }),
		"atan2":   hostFn(func(a []values.Value) (values.Value, error) { return values.Number(math.Atan2(numArg(a, 0), numArg(a, 1))), nil }),
		"hypot":   hostFn(func(a []values.Value) (values.Value, error) { return values.Number(math.Hypot(numArg(a, 0), numArg(a, 1))), nil }),
		"random":  hostFn(func(a []values.Value) (values.Value, error) { return values.Number(rand.Float64()), nil }),
		"max":     hostFn(func(a []values.Value) (values.Value, error) { return values.Number(reduceFloats(a, math.Inf(-1), math.Max)), nil }),
		"min":     hostFn(func(a []values.Value) (values.Value, error) { return values.Number(reduceFloats(a, math.Inf(1), math.Min)), nil }),
	}
	for name, fn := range fns {
		obj.Set(name, &runtime.HostFunction{Name: name, Fn: fn})
	}
	obj.Freeze()
	g.RegisterValue("Math", obj)
}

func sign(f float64) float64 {
	switch {
	case f > 0:
		return 1
	case f < 0:
		return -1
	default:
		return f // preserves 0/-0/NaN
	}
}

func reduceFloats(args []values.Value, start float64, combine func(a, b float64) float64) float64 {
	result := start
	for _, a := range args {
		n, ok := a.(values.Number)
		if !ok {
			return math.NaN()
		}
		result = combine(result, float64(n))
	}
	return result
}
