package presets

import (
	"time"

	"github.com/samlaycock/nookjs/internal/evaluator"
	"github.com/samlaycock/nookjs/internal/runtime"
	"github.com/samlaycock/nookjs/internal/values"
)

// registerPerformance gives Browser scripts performance.now(), a
// monotonic millisecond clock anchored at registration time so repeated
// calls within one script only ever see it increase, same contract the
// real High Resolution Time API makes.
func registerPerformance(g *evaluator.Globals) {
	start := time.Now()
	obj := namespace(map[string]runtime.HostFunc{
		"now": hostFn(func([]values.Value) (values.Value, error) {
			return values.Number(float64(time.Since(start).Microseconds()) / 1000), nil
		}),
	})
	g.RegisterValue("performance", obj)
}
