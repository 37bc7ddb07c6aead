package style

import (
	"github.com/pkg/errors"

	"github.com/nvr-ai/go-overlay/colors"
)

// Preset is a named, immutable partial settings overlay applied atomically.
type Preset struct {
	Name  string
	Patch Patch
}

// presets is the fixed lookup table, keyed by a one-letter identifier.
var presets = map[string]Preset{
	"C": {
		Name: "clean",
		Patch: Patch{
			VizMode:           Viz(VizFill),
			ColorMode:         Mode(ColorFixed),
			FillColor:         Color(colors.MustParseHex("#00c853")),
			FillOpacity:       Float(0.25),
			ShowLabels:        Bool(true),
			ReplaceBackground: Bool(false),
			Smoothing:         Int(3),
		},
	},
	"E": {
		Name: "emphasis",
		Patch: Patch{
			VizMode:          Viz(VizBoth),
			FillOpacity:      Float(0.4),
			OutlineThickness: Int(3),
			OutlineColor:     Color(colors.MustParseHex("#ffffff")),
		},
	},
	"G": {
		Name: "greenscreen",
		Patch: Patch{
			VizMode:           Viz(VizOutline),
			ReplaceBackground: Bool(true),
			BackgroundColor:   Color(colors.MustParseHex("#00ff00")),
			OutlineThickness:  Int(1),
			ShowLabels:        Bool(false),
			Smoothing:         Int(6),
		},
	},
	"H": {
		Name: "hue-sweep",
		Patch: Patch{
			VizMode:     Viz(VizBoth),
			ColorMode:   Mode(ColorPosition),
			FillOpacity: Float(0.35),
			ShowLabels:  Bool(true),
		},
	},
	"M": {
		Name: "minimal",
		Patch: Patch{
			VizMode:           Viz(VizOutline),
			ColorMode:         Mode(ColorFixed),
			OutlineColor:      Color(colors.MustParseHex("#ffffff")),
			OutlineThickness:  Int(1),
			ShowLabels:        Bool(false),
			ReplaceBackground: Bool(false),
			Smoothing:         Int(0),
		},
	},
	"S": {
		Name: "smooth",
		Patch: Patch{
			VizMode:     Viz(VizFill),
			FillOpacity: Float(0.5),
			Smoothing:   Int(9),
		},
	},
}

// PresetNames returns the table's keys mapped to preset names, for UI menus.
func PresetNames() map[string]string {
	out := make(map[string]string, len(presets))
	for k, p := range presets {
		out[k] = p.Name
	}
	return out
}

// ApplyPreset merges the named preset's fields into the settings and returns
// the applied patch so the caller can refresh dependent UI state (color
// pickers, sliders). Fields the preset does not list keep their prior values.
func (s *Settings) ApplyPreset(key string) (Patch, error) {
	p, ok := presets[key]
	if !ok {
		return Patch{}, errors.Errorf("unknown preset %q", key)
	}
	return s.Apply(p.Patch), nil
}
