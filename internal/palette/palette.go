// Package palette turns colour palettes into the Root rule that declares
// the base colour variables.
package palette

import (
	"github.com/samber/lo"

	"github.com/purg-com/pleroma-iss/internal/components"
	"github.com/purg-com/pleroma-iss/internal/config"
	"github.com/purg-com/pleroma-iss/internal/iss"
)

// positionalKeys names the entries of the list form after the palette name.
var positionalKeys = []string{"bg", "fg", "text", "link", "cRed", "cGreen", "cBlue", "cOrange"}

// positionalDefaults fill the optional tail of the list form.
var positionalDefaults = map[string]string{
	"cRed":    "#FF0000",
	"cGreen":  "#00FF00",
	"cBlue":   "#0000FF",
	"cOrange": "#E3FF00",
}

// aliases map descriptive mapping keys onto variable names.
var aliases = map[string]string{
	"background": "bg",
	"foreground": "fg",
}

// Entry is one colour variable declared by a palette.
type Entry struct {
	Name  string `validate:"required"`
	Value string `validate:"required,css_color"`
}

// Entries lists the variables of p in declaration order. Mapping keys
// "background" and "foreground" become bg and fg; the list form fills
// missing status colours with their defaults.
func Entries(p *config.Palette) []Entry {
	if p == nil {
		return nil
	}

	if len(p.Entries) > 0 {
		return lo.Map(p.Entries, func(e config.PaletteEntry, _ int) Entry {
			name := e.Key
			if alias, ok := aliases[name]; ok {
				name = alias
			}
			return Entry{Name: name, Value: e.Value}
		})
	}
	if len(p.List) == 0 {
		return nil
	}

	var out []Entry
	for i, key := range positionalKeys {
		value := ""
		if i+1 < len(p.List) {
			value = p.List[i+1]
		}
		if value == "" {
			value = positionalDefaults[key]
		}
		if value == "" {
			continue
		}
		out = append(out, Entry{Name: key, Value: value})
	}
	return out
}

// Validate checks every entry of p holds a colour literal.
func Validate(p *config.Palette) error {
	for _, entry := range Entries(p) {
		if err := config.ValidateStruct(entry); err != nil {
			return err
		}
	}
	return nil
}

// Rule returns the Root rule declaring the palette colours, or nil when the
// palette declares none.
func Rule(p *config.Palette) *iss.Rule {
	entries := Entries(p)
	if len(entries) == 0 {
		return nil
	}

	directives := make(map[string]any, len(entries))
	for _, entry := range entries {
		directives["--"+entry.Name] = "color | " + entry.Value
	}
	return &iss.Rule{Component: components.RootName, Directives: directives}
}
