package config

import (
	"fmt"
	"regexp"

	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"

	"github.com/purg-com/pleroma-iss/internal/iss"
	isserrors "github.com/purg-com/pleroma-iss/pkg/errors"
)

var yamlLineRegex = regexp.MustCompile(`line (\d+)`)

// ParseSettings loads a settings file, filling unset fields from DefaultSettings.
func ParseSettings(fs afero.Fs, path string) (*Settings, error) {
	data, err := afero.ReadFile(fs, path)
	if err != nil {
		return nil, isserrors.NewParseError(path, 0, err)
	}

	settings := DefaultSettings()
	if err := yaml.Unmarshal(data, &settings); err != nil {
		return nil, isserrors.NewParseError(path, extractLine(err), err)
	}

	if err := ValidateSettings(&settings); err != nil {
		return nil, err
	}
	return &settings, nil
}

// ParseRuleset loads a style document from disk.
func ParseRuleset(fs afero.Fs, path string) (*Ruleset, error) {
	data, err := afero.ReadFile(fs, path)
	if err != nil {
		return nil, isserrors.NewParseError(path, 0, err)
	}
	return DecodeRuleset(data, path)
}

// DecodeRuleset parses a style document. A bare list of rules is accepted
// as well as a mapping with a "rules" key.
func DecodeRuleset(data []byte, path string) (*Ruleset, error) {
	var node yaml.Node
	if err := yaml.Unmarshal(data, &node); err != nil {
		return nil, isserrors.NewParseError(path, extractLine(err), err)
	}

	var ruleset Ruleset
	if root := documentRoot(&node); root != nil && root.Kind == yaml.SequenceNode {
		if err := root.Decode(&ruleset.Rules); err != nil {
			return nil, isserrors.NewParseError(path, extractLine(err), err)
		}
	} else if err := node.Decode(&ruleset); err != nil {
		return nil, isserrors.NewParseError(path, extractLine(err), err)
	}

	for i, rule := range ruleset.Rules {
		if rule == nil {
			return nil, isserrors.NewValidationError(fmt.Sprintf("rules[%d]", i), "rule is empty", nil)
		}
	}
	if err := ValidateStruct(&ruleset); err != nil {
		return nil, err
	}
	return &ruleset, nil
}

// DecodeRules parses a list of rules such as an extra override ruleset.
func DecodeRules(data []byte, path string) ([]*iss.Rule, error) {
	ruleset, err := DecodeRuleset(data, path)
	if err != nil {
		return nil, err
	}
	return ruleset.Rules, nil
}

// ParsePalette loads a palette document from disk.
func ParsePalette(fs afero.Fs, path string) (*Palette, error) {
	data, err := afero.ReadFile(fs, path)
	if err != nil {
		return nil, isserrors.NewParseError(path, 0, err)
	}
	return DecodePalette(data, path)
}

// DecodePalette parses a palette in mapping or positional form.
func DecodePalette(data []byte, path string) (*Palette, error) {
	var palette Palette
	if err := yaml.Unmarshal(data, &palette); err != nil {
		return nil, isserrors.NewParseError(path, extractLine(err), err)
	}
	if len(palette.Entries) == 0 && len(palette.List) < 2 {
		return nil, isserrors.NewValidationError("palette", "palette declares no colours", nil)
	}
	return &palette, nil
}

// ParseLegacyTheme loads a legacy flat theme from disk.
func ParseLegacyTheme(fs afero.Fs, path string) (*LegacyTheme, error) {
	data, err := afero.ReadFile(fs, path)
	if err != nil {
		return nil, isserrors.NewParseError(path, 0, err)
	}
	return DecodeLegacyTheme(data, path)
}

// DecodeLegacyTheme parses a legacy flat theme.
func DecodeLegacyTheme(data []byte, path string) (*LegacyTheme, error) {
	var theme LegacyTheme
	if err := yaml.Unmarshal(data, &theme); err != nil {
		return nil, isserrors.NewParseError(path, extractLine(err), err)
	}
	if len(theme.Colors) == 0 {
		return nil, isserrors.NewValidationError("colors", "legacy theme declares no colours", nil)
	}
	return &theme, nil
}

func documentRoot(node *yaml.Node) *yaml.Node {
	if node.Kind == yaml.DocumentNode && len(node.Content) > 0 {
		return node.Content[0]
	}
	return node
}

func extractLine(err error) int {
	if err == nil {
		return 0
	}

	matches := yamlLineRegex.FindStringSubmatch(err.Error())
	if len(matches) != 2 {
		return 0
	}

	var line int
	_, scanErr := fmt.Sscanf(matches[1], "%d", &line)
	if scanErr != nil {
		return 0
	}

	return line
}
