package source

import (
	"github.com/purg-com/pleroma-iss/internal/config"
	"github.com/purg-com/pleroma-iss/internal/iss"
)

// fontTargets maps font slots to the component and variable they override.
var fontTargets = []struct {
	slot      string
	component string
	variable  string
}{
	{"interface", "Root", "--font"},
	{"input", "Input", "--font"},
	{"post", "RichContent", "--font"},
	{"monospace", "Root", "--monoFont"},
}

// Hacks turns user tweaks into rules: font family overrides and the
// underlay mode.
func Hacks(h config.Hacks) []*iss.Rule {
	var out []*iss.Rule
	for _, target := range fontTargets {
		family := h.Fonts[target.slot]
		if family == "" {
			continue
		}
		out = append(out, &iss.Rule{
			Component:  target.component,
			Directives: map[string]any{target.variable: "generic | " + family},
		})
	}

	switch h.Underlay {
	case "opaque":
		out = append(out, &iss.Rule{
			Component:  "Underlay",
			Directives: map[string]any{"opacity": 1, "background": "--wallpaper"},
		})
	case "transparent":
		out = append(out, &iss.Rule{
			Component:  "Underlay",
			Directives: map[string]any{"opacity": 0},
		})
	}
	return out
}
