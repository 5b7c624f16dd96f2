package iss

import (
	"sort"
	"strings"
)

// RootSelector marks the component whose selector contributes no text.
const RootSelector = ":root"

// ComponentSelectors is the selector data a component definition exposes.
type ComponentSelectors struct {
	Selector          string
	OutOfTreeSelector string
	States            map[string]string
	Variants          map[string]string
}

// SelectorLookup resolves a component name to its selector data.
type SelectorLookup func(name string) (ComponentSelectors, bool)

// SelectorBuilder derives selectors and internal path keys from rules.
type SelectorBuilder struct {
	lookup SelectorLookup
}

// NewSelectorBuilder binds a builder to a component lookup.
func NewSelectorBuilder(lookup SelectorLookup) *SelectorBuilder {
	return &SelectorBuilder{lookup: lookup}
}

// CSS returns the selector for r as it would appear in a stylesheet. The
// rule's own component uses its out-of-tree selector when one is declared.
func (b *SelectorBuilder) CSS(r *Rule) string {
	return b.build(r, false, false)
}

// Path returns the internal path key for r. It always uses the in-tree
// selector, so it is stable regardless of out-of-tree placement.
func (b *SelectorBuilder) Path(r *Rule) string {
	return b.build(r, true, false)
}

func (b *SelectorBuilder) build(r *Rule, ignoreOutOfTree, isParent bool) string {
	if r == nil {
		return ""
	}

	own := strings.Join(b.fragments(r, ignoreOutOfTree, isParent), "")
	if r.Parent != nil {
		return strings.TrimSpace(b.build(r.Parent, ignoreOutOfTree, true) + " " + own)
	}
	return strings.TrimSpace(own)
}

// fragments returns base, variant and state fragments in specificity order:
// lower-case-letter-led fragments first, then the rest, pseudo classes last.
func (b *SelectorBuilder) fragments(r *Rule, ignoreOutOfTree, isParent bool) []string {
	def, ok := b.lookup(r.Component)
	if !ok {
		return nil
	}

	var base string
	switch {
	case def.Selector == RootSelector:
	case isParent:
		base = def.Selector
	case def.OutOfTreeSelector != "" && !ignoreOutOfTree:
		base = def.OutOfTreeSelector
	default:
		base = def.Selector
	}

	variant := r.Variant
	if variant == "" {
		variant = Normal
	}
	parts := []string{base, def.Variants[variant]}
	for _, state := range r.State {
		if state == Normal {
			continue
		}
		if fragment, found := def.States[state]; found {
			parts = append(parts, fragment)
		}
	}

	sort.SliceStable(parts, func(i, j int) bool {
		return fragmentRank(parts[i]) < fragmentRank(parts[j])
	})
	return parts
}

func fragmentRank(fragment string) int {
	switch {
	case strings.HasPrefix(fragment, ":"):
		return 2
	case fragment != "" && fragment[0] >= 'a' && fragment[0] <= 'z':
		return 0
	default:
		return 1
	}
}
