package presets

import (
	"context"
	"time"

	"github.com/samlaycock/nookjs/internal/evaluator"
	"github.com/samlaycock/nookjs/internal/runtime"
	"github.com/samlaycock/nookjs/internal/values"
)

// registerDate exposes a classless `Date` constructor: `new Date()` /
// `new Date(millis)` returns a plain object carrying its instant as
// milliseconds since the epoch plus a handful of accessor/formatting
// methods, and the bare function `Date.now()` returns the current
// instant the same way. There is no calendar-field mutation (setFullYear
// and friends) — this value model has no getter/setter property slots,
// and a read-mostly Date is what scripts in this domain actually need.
func registerDate(g *evaluator.Globals) {
	props := values.NewObject()
	props.Set("now", &runtime.HostFunction{Name: "now", Fn: hostFn(func(args []values.Value) (values.Value, error) {
		return values.Number(float64(time.Now().UnixMilli())), nil
	})})
	props.Freeze()
	g.RegisterValue("Date", &runtime.HostFunction{Name: "Date", Fn: dateConstructor, Props: props})
}

func dateConstructor(_ context.Context, this values.Value, args []values.Value) (values.Value, error) {
	instant := time.Now()
	if len(args) > 0 {
		if n, ok := args[0].(values.Number); ok {
			instant = time.UnixMilli(int64(n)).UTC()
		} else if s, ok := args[0].(values.String); ok {
			if t, err := time.Parse(time.RFC3339, string(s)); err == nil {
				instant = t
			}
		}
	}
	obj, ok := this.(*values.Object)
	if !ok {
		obj = values.NewObject()
	}
	methods := map[string]runtime.HostFunc{
		"getTime":         dateReturns(func() values.Value { return values.Number(float64(instant.UnixMilli())) }),
		"getFullYear":     dateReturns(func() values.Value { return values.Number(float64(instant.Year())) }),
		"getMonth":        dateReturns(func() values.Value { return values.Number(float64(instant.Month() - 1)) }),
		"getDate":         dateReturns(func() values.Value { return values.Number(float64(instant.Day())) }),
		"getDay":          dateReturns(func() values.Value { return values.Number(float64(instant.Weekday())) }),
		"getHours":        dateReturns(func() values.Value { return values.Number(float64(instant.Hour())) }),
		"getMinutes":      dateReturns(func() values.Value { return values.Number(float64(instant.Minute())) }),
		"getSeconds":      dateReturns(func() values.Value { return values.Number(float64(instant.Second())) }),
		"getMilliseconds": dateReturns(func() values.Value { return values.Number(float64(instant.Nanosecond() / 1e6)) }),
		"toISOString":     dateReturns(func() values.Value { return values.String(instant.UTC().Format(time.RFC3339Nano)) }),
		"toString":        dateReturns(func() values.Value { return values.String(instant.String()) }),
	}
	for name, fn := range methods {
		obj.Set(name, &runtime.HostFunction{Name: name, Fn: fn})
	}
	return obj, nil
}

func dateReturns(f func() values.Value) runtime.HostFunc {
	return hostFn(func([]values.Value) (values.Value, error) { return f(), nil })
}
