package sandbox

import (
	"io"

	"github.com/samlaycock/nookjs/internal/presets"
)

// PresetName identifies one of the standard host-global bundles: Minimal
// supplies only core built-in shims (Math, JSON, Date, Map, Set). The
// rest layer additional globals on top of Minimal.
type PresetName = presets.Name

const (
	PresetMinimal  = presets.Minimal
	PresetWinterCG = presets.WinterCG
	PresetBrowser  = presets.Browser
	PresetNodeJS   = presets.NodeJS
)

// NewGlobalsFromPreset builds a fresh Globals bundle for name. output is
// where a console-shaped preset (Browser, NodeJS) writes script output;
// pass nil to discard it, or an Interpreter's Output() to share its
// configured sink. The result is independent of any Interpreter — pass
// it as Config.Globals, or layer it into CallOptions.Globals for one
// call.
func NewGlobalsFromPreset(name PresetName, output io.Writer) *Globals {
	return &Globals{inner: presets.Build(name, output)}
}
