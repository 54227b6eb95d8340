package presets

import (
	"fmt"
	"io"
	"strings"

	"github.com/samlaycock/nookjs/internal/evaluator"
	"github.com/samlaycock/nookjs/internal/runtime"
	"github.com/samlaycock/nookjs/internal/values"
)

// registerConsole gives Browser/NodeJS scripts console.log/info/warn/
// error/debug, each writing a newline-terminated, space-joined rendering
// of its arguments (values.Inspect, not String, so a logged string still
// shows its quotes) to output. output is the Interpreter's redirectWriter
// — every script run against one Interpreter shares the same destination.
func registerConsole(g *evaluator.Globals, output io.Writer) {
	if output == nil {
		output = io.Discard
	}
	line := func(prefix string) runtime.HostFunc {
		return hostFn(func(args []values.Value) (values.Value, error) {
			parts := make([]string, len(args))
			for i, a := range args {
				parts[i] = values.Inspect(a)
			}
			fmt.Fprintln(output, prefix+strings.Join(parts, " "))
			return values.Undefined{}, nil
		})
	}
	obj := namespace(map[string]runtime.HostFunc{
		"log":   line(""),
		"info":  line(""),
		"debug": line(""),
		"warn":  line("[warn] "),
		"error": line("[error] "),
		"trace": line("[trace] "),
	})
	g.RegisterValue("console", obj)
}
