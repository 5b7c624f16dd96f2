package config

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/purg-com/pleroma-iss/internal/iss"
)

// Settings holds the compiler's global parameters.
type Settings struct {
	LogLevel           string `yaml:"log_level,omitempty" mapstructure:"log_level" validate:"omitempty,oneof=debug info warn error"`
	HumanReadable      bool   `yaml:"human_readable,omitempty" mapstructure:"human_readable"`
	Parallel           int    `yaml:"parallel,omitempty" mapstructure:"parallel" validate:"min=1,max=32"`
	UltimateBackground string `yaml:"ultimate_background,omitempty" mapstructure:"ultimate_background" validate:"required,css_color"`
	ResourceDir        string `yaml:"resource_dir,omitempty" mapstructure:"resource_dir"`
	Palette            string `yaml:"palette,omitempty" mapstructure:"palette" validate:"omitempty,resource_name"`
	Style              string `yaml:"style,omitempty" mapstructure:"style" validate:"omitempty,resource_name"`
	Theme              string `yaml:"theme,omitempty" mapstructure:"theme" validate:"omitempty,resource_name"`
	Hacks              Hacks  `yaml:"hacks,omitempty" mapstructure:"hacks"`
}

// Hacks are user tweaks layered on top of the chosen style and palette.
type Hacks struct {
	Fonts    map[string]string `yaml:"fonts,omitempty" mapstructure:"fonts" validate:"omitempty,dive,keys,oneof=interface input post monospace,endkeys"`
	Underlay string            `yaml:"underlay,omitempty" mapstructure:"underlay" validate:"omitempty,oneof=none opaque transparent"`
}

// DefaultSettings returns the settings used when nothing is configured.
func DefaultSettings() Settings {
	return Settings{
		LogLevel:           "info",
		Parallel:           4,
		UltimateBackground: "#000000",
		ResourceDir:        "static",
	}
}

// Ruleset is a named list of style rules, the shape of a style resource.
type Ruleset struct {
	Name  string      `yaml:"name,omitempty"`
	Rules []*iss.Rule `yaml:"rules" validate:"dive,required"`
}

// PaletteEntry is one named colour of a palette.
type PaletteEntry struct {
	Key   string
	Value string
}

// Palette is either a list of named colours or the positional form
// [name, background, foreground, text, link, cRed, cGreen, cBlue, cOrange].
type Palette struct {
	Name    string
	Entries []PaletteEntry
	List    []string
}

// UnmarshalYAML accepts both the mapping and the sequence form and keeps
// mapping keys in document order.
func (p *Palette) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case yaml.SequenceNode:
		var list []string
		if err := value.Decode(&list); err != nil {
			return err
		}
		p.List = list
		if len(list) > 0 {
			p.Name = list[0]
		}
		return nil
	case yaml.MappingNode:
		for i := 0; i+1 < len(value.Content); i += 2 {
			key, val := value.Content[i], value.Content[i+1]
			if val.Kind != yaml.ScalarNode {
				return fmt.Errorf("line %d: palette entry %q must be a scalar", val.Line, key.Value)
			}
			if key.Value == "name" {
				p.Name = val.Value
				continue
			}
			p.Entries = append(p.Entries, PaletteEntry{Key: key.Value, Value: val.Value})
		}
		return nil
	default:
		return fmt.Errorf("line %d: palette must be a mapping or a list", value.Line)
	}
}

// LegacyTheme is the flat pre-rules theme format.
type LegacyTheme struct {
	Colors  map[string]string `yaml:"colors"`
	Shadows map[string]any    `yaml:"shadows,omitempty"`
	Radii   map[string]any    `yaml:"radii,omitempty"`
}

// legacyPositional lists the colour keys of the array theme form after the name.
var legacyPositional = []string{"bg", "fg", "text", "link", "cRed", "cGreen", "cBlue", "cOrange"}

// UnmarshalYAML accepts a bare theme, a theme file wrapping it under
// "source" or "theme", or the positional array form.
func (t *LegacyTheme) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind == yaml.SequenceNode {
		var list []string
		if err := value.Decode(&list); err != nil {
			return err
		}
		t.Colors = make(map[string]string)
		for i, key := range legacyPositional {
			if i+1 < len(list) && list[i+1] != "" {
				t.Colors[key] = list[i+1]
			}
		}
		return nil
	}

	for _, wrapper := range []string{"source", "theme"} {
		if inner := mappingValue(value, wrapper); inner != nil && hasYAMLKey(inner, "colors") {
			return t.UnmarshalYAML(inner)
		}
	}

	type rawTheme LegacyTheme
	var raw rawTheme
	if err := value.Decode(&raw); err != nil {
		return err
	}
	*t = LegacyTheme(raw)
	return nil
}

func hasYAMLKey(node *yaml.Node, key string) bool {
	return mappingValue(node, key) != nil
}

func mappingValue(node *yaml.Node, key string) *yaml.Node {
	if node == nil || node.Kind != yaml.MappingNode {
		return nil
	}
	for i := 0; i+1 < len(node.Content); i += 2 {
		if strings.EqualFold(node.Content[i].Value, key) {
			return node.Content[i+1]
		}
	}
	return nil
}
