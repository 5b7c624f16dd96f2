package source

import (
	"github.com/spf13/afero"

	"github.com/purg-com/pleroma-iss/internal/config"
	"github.com/purg-com/pleroma-iss/internal/iss"
	"github.com/purg-com/pleroma-iss/internal/logger"
	"github.com/purg-com/pleroma-iss/internal/palette"
	"github.com/purg-com/pleroma-iss/internal/theme2"
)

// Resources holds the indexes of every resource kind.
type Resources struct {
	Palettes *Index
	Styles   *Index
	Themes   *Index
	logger   *logger.Logger
}

// Open indexes the palettes, styles and themes under dir.
func Open(fs afero.Fs, dir string, log *logger.Logger) (*Resources, error) {
	r := &Resources{logger: log}
	var err error
	if r.Palettes, err = LoadIndex(fs, dir, KindPalette, log); err != nil {
		return nil, err
	}
	if r.Styles, err = LoadIndex(fs, dir, KindStyle, log); err != nil {
		return nil, err
	}
	if r.Themes, err = LoadIndex(fs, dir, KindTheme, log); err != nil {
		return nil, err
	}
	return r, nil
}

// Overrides are the user's choices layered over the component defaults.
// Custom data beats the matching name.
type Overrides struct {
	Palette       string
	Style         string
	Theme         string
	CustomPalette []byte
	CustomStyle   []byte
	CustomTheme   []byte
	Hacks         config.Hacks
}

// OverridesFromSettings copies the resource choices out of settings.
func OverridesFromSettings(s *config.Settings) Overrides {
	if s == nil {
		return Overrides{}
	}
	return Overrides{Palette: s.Palette, Style: s.Style, Theme: s.Theme, Hacks: s.Hacks}
}

// Assembly is the override ruleset plus the resources it came from.
type Assembly struct {
	Rules       []*iss.Rule
	PaletteUsed string
	StyleUsed   string
	ThemeUsed   string
}

// Assemble resolves the chosen resources and orders their rules: legacy
// theme rules, style rules, the palette rule, then hacks. A legacy theme is
// only used when neither a palette nor a style was chosen.
func (r *Resources) Assemble(o Overrides) (*Assembly, error) {
	out := &Assembly{PaletteUsed: Stock, StyleUsed: Stock, ThemeUsed: Stock}

	modern := o.Palette != "" || o.Style != "" || len(o.CustomPalette) > 0 || len(o.CustomStyle) > 0
	legacy := !modern && (o.Theme != "" || len(o.CustomTheme) > 0)

	if legacy {
		sel, err := r.Themes.Select(o.Theme, o.CustomTheme)
		if err != nil {
			return nil, err
		}
		out.ThemeUsed = sel.NameUsed
		if sel.Data != nil {
			theme, err := config.DecodeLegacyTheme(sel.Data, resourcePath(sel))
			if err != nil {
				return nil, err
			}
			out.Rules = append(out.Rules, theme2.Convert(theme, r.logger)...)
		}
	} else {
		sel, err := r.Styles.Select(o.Style, o.CustomStyle)
		if err != nil {
			return nil, err
		}
		out.StyleUsed = sel.NameUsed
		if sel.Data != nil {
			rules, err := config.DecodeRules(sel.Data, resourcePath(sel))
			if err != nil {
				return nil, err
			}
			out.Rules = append(out.Rules, rules...)
		}

		sel, err = r.Palettes.Select(o.Palette, o.CustomPalette)
		if err != nil {
			return nil, err
		}
		out.PaletteUsed = sel.NameUsed
		if sel.Data != nil {
			p, err := config.DecodePalette(sel.Data, resourcePath(sel))
			if err != nil {
				return nil, err
			}
			if err := palette.Validate(p); err != nil {
				return nil, err
			}
			if rule := palette.Rule(p); rule != nil {
				out.Rules = append(out.Rules, rule)
			}
		}
	}

	out.Rules = append(out.Rules, Hacks(o.Hacks)...)

	r.logger.WithFields(map[string]any{
		"palette": out.PaletteUsed,
		"style":   out.StyleUsed,
		"theme":   out.ThemeUsed,
		"rules":   len(out.Rules),
	}).Info("assembled override rules")
	return out, nil
}

func resourcePath(sel Selection) string {
	if sel.Path != "" {
		return sel.Path
	}
	return sel.NameUsed
}
