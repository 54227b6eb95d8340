// Package presets supplies the data-only host-global bundles: plain
// mappings of free identifiers an embedder injects at Interpreter
// construction, each a named Go function wrapped and declared under a
// sandbox-visible name. None of this package's logic runs inside the
// sandbox's trust boundary — every function here is ordinary, unmetered
// Go code the evaluator calls through the same HostFunc path any
// embedder-registered function would.
package presets

import (
	"io"

	"github.com/samlaycock/nookjs/internal/evaluator"
)

// Name identifies one of the four standard preset bundles.
type Name string

const (
	// Minimal supplies only core built-in shims: Math, JSON, Date, Map,
	// Set. Every other preset starts from this one and adds to it.
	Minimal Name = "minimal"
	// WinterCG adds fetch/Request/Response/Headers/TextEncoder/
	// TextDecoder/crypto on top of Minimal.
	WinterCG Name = "wintercg"
	// Browser adds console/timers/URL/Blob/File/Event/Streams/
	// performance on top of Minimal.
	Browser Name = "browser"
	// NodeJS adds timers/Buffer-shaped APIs/ArrayBuffer/DataView/Streams
	// on top of Minimal.
	NodeJS Name = "nodejs"
)

// Build returns a fresh Globals bundle for name, writing console-shaped
// preset output (Browser, NodeJS) to output. output may be nil to
// discard it. An unrecognized name is a programmer error, not a runtime
// one, so it panics rather than reporting a "preset not found" error to
// a script.
func Build(name Name, output io.Writer) *evaluator.Globals {
	g := evaluator.NewGlobals()
	applyMinimal(g)
	switch name {
	case Minimal:
	case WinterCG:
		applyWinterCG(g)
	case Browser:
		applyBrowser(g, output)
	case NodeJS:
		applyNodeJS(g, output)
	default:
		panic("presets: unknown preset " + string(name))
	}
	return g
}

func applyMinimal(g *evaluator.Globals) {
	registerMath(g)
	registerJSON(g)
	registerDate(g)
	registerMap(g)
	registerSet(g)
}

func applyWinterCG(g *evaluator.Globals) {
	registerTextEncoding(g)
	registerCrypto(g)
	registerFetch(g)
	registerHeaders(g)
	registerRequestResponse(g)
}

func applyBrowser(g *evaluator.Globals, output io.Writer) {
	registerConsole(g, output)
	registerTimers(g)
	registerURL(g)
	registerBlobFile(g)
	registerEvent(g)
	registerPerformance(g)
	registerStreams(g)
}

func applyNodeJS(g *evaluator.Globals, output io.Writer) {
	registerConsole(g, output)
	registerTimers(g)
	registerBuffer(g)
	registerArrayBufferDataView(g)
	registerStreams(g)
}
