// Package theme2 converts legacy flat themes (colour, shadow and radius key
// maps) into style rules the resolver accepts as extra rules.
package theme2

import (
	"regexp"
	"sort"
	"strings"

	"github.com/samber/lo"

	"github.com/purg-com/pleroma-iss/internal/config"
	"github.com/purg-com/pleroma-iss/internal/iss"
	"github.com/purg-com/pleroma-iss/internal/logger"
)

var wordPattern = regexp.MustCompile(`[A-Z][a-z]*`)

// Convert maps a legacy theme onto style rules: a Root rule carrying the
// base palette, then shadow rules, radius rules and per-component colour
// rules.
func Convert(theme *config.LegacyTheme, log *logger.Logger) []*iss.Rule {
	if theme == nil {
		return nil
	}

	rules := []*iss.Rule{RootRule(theme.Colors)}
	rules = append(rules, convertShadows(theme.Shadows)...)
	rules = append(rules, convertRadii(theme.Radii)...)
	rules = append(rules, convertColors(theme.Colors, log)...)

	log.WithFields(map[string]any{
		"colors": len(theme.Colors),
		"rules":  len(rules),
	}).Debug("converted legacy theme")
	return rules
}

// RootRule declares the base palette keys present in colors as Root colour
// variables. A missing accent follows the link colour.
func RootRule(colors map[string]string) *iss.Rule {
	directives := make(map[string]any)
	for _, key := range basePaletteKeys {
		if value := colors[key]; value != "" {
			directives["--"+key] = "color | " + value
		}
	}
	if _, ok := directives["--accent"]; !ok && colors["link"] != "" {
		directives["--accent"] = "color | --link"
	}
	return &iss.Rule{Component: "Root", Directives: directives}
}

func convertShadows(shadows map[string]any) []*iss.Rule {
	var out []*iss.Rule
	for _, slot := range shadowTargets {
		value, ok := shadows[slot.key]
		if !ok || value == nil {
			continue
		}
		rule := slot.rule()
		rule.Directives = map[string]any{"shadow": value}
		out = append(out, rule)
	}
	return out
}

func convertRadii(radii map[string]any) []*iss.Rule {
	var out []*iss.Rule
	for _, slot := range radiiTargets {
		value, ok := radii[slot.key]
		if !ok || value == nil {
			continue
		}
		rule := slot.rule()
		rule.Directives = map[string]any{"roundness": value}
		out = append(out, rule)
	}
	return out
}

func convertColors(colors map[string]string, log *logger.Logger) []*iss.Rule {
	keys := make([]string, 0, len(colors))
	for key := range colors {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	var out []*iss.Rule
	for _, group := range extendedPrefixes {
		for _, key := range keys {
			if owner(key) != group.prefix {
				continue
			}
			rule, ok := convertKey(group.prefix, group.target, key, colors[key])
			if !ok {
				log.With("key", key).Debug("legacy colour has no rule equivalent; skipping")
				continue
			}
			out = append(out, rule)
		}
	}
	return out
}

// owner returns the longest component prefix of key, or "".
func owner(key string) string {
	best := ""
	for _, group := range extendedPrefixes {
		if strings.HasPrefix(key, group.prefix) && len(group.prefix) > len(best) {
			best = group.prefix
		}
	}
	return best
}

// convertKey turns one prefixed colour key into a rule. The words after the
// prefix name the variant or states of the component, and a trailing text
// word turns the key into a text colour of a virtual child.
func convertKey(prefix string, t target, key, value string) (*iss.Rule, bool) {
	leftover := strings.TrimPrefix(key, prefix)
	parts := wordPattern.FindAllString(leftover, -1)
	if len(parts) == 0 {
		parts = []string{"Bg"}
	}
	last := parts[len(parts)-1]

	base := t.rule()
	rule := base
	var words []string

	if textSuffixes[last] {
		rule = &iss.Rule{Parent: base, Directives: map[string]any{"textColor": value}}
		words = parts[:len(parts)-1]

		switch last {
		case "Greentext", "Cyantext":
			rule.Component = "FunText"
			rule.Variant = strings.ToLower(last)
		case "Faint":
			rule.Component = "Text"
			rule.State = []string{"faint"}
		default:
			rule.Component = last
		}

		if (last == "Text" || last == "Link") && len(words) > 0 {
			switch words[len(words)-1] {
			case "Light":
				return nil, false
			case "Faint":
				rule.State = []string{"faint"}
				words = words[:len(words)-1]
			}
		}
	} else {
		base.Directives = map[string]any{"background": value}
		words = parts
	}

	words = lo.Without(words, "Bg")
	if last == "Link" && prefix == "selectedPost" {
		words = lo.Without(words, "Post")
	}
	if prefix == "popover" && len(words) > 0 && words[0] == "Post" {
		base.Component = "Post"
		base.Parent = &iss.Rule{Component: "Popover"}
		words = lo.Without(words, "Post")
	}
	if prefix == "selectedMenu" && len(words) > 0 && words[0] == "Popover" {
		base.Parent = &iss.Rule{Component: "Popover"}
		words = lo.Without(words, "Popover")
	}

	switch prefix {
	case "btn", "input", "alert":
		if lo.Contains(words, "Panel") {
			base.Parent = &iss.Rule{Component: "PanelHeader"}
			words = lo.Without(words, "Panel")
		}
		if lo.Contains(words, "Top") {
			base.Parent = &iss.Rule{Component: "TopBar"}
			words = lo.Without(words, "Top", "Bar")
		}
	case "chatMessage":
		words = lo.Without(words, "Incoming")
	}

	if len(words) > 0 {
		if prefix == "btn" {
			base.State = append(base.State, lo.Map(words, func(w string, _ int) string { return strings.ToLower(w) })...)
		} else {
			base.Variant = strings.ToLower(words[0])
		}
	}
	return rule, true
}

func (t target) rule() *iss.Rule {
	rule := &iss.Rule{Component: t.component, Variant: t.variant}
	if len(t.state) > 0 {
		rule.State = append([]string(nil), t.state...)
	}
	if t.parent != "" {
		rule.Parent = &iss.Rule{Component: t.parent}
	}
	return rule
}
