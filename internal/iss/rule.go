// Package iss holds the style rule model and the rule algebra used by the
// resolver: combination normalisation, parent-chain unrolling, state subset
// expansion, selector derivation and rule matching.
package iss

import (
	"strings"

	"github.com/samber/lo"
)

// Normal is the implicit state and variant every combination carries.
const Normal = "normal"

// Rule binds directives to a component, variant, state set and optional
// chain of enclosing parents. Rules are treated as immutable once built;
// Normalize returns a filled-in copy instead of editing in place.
type Rule struct {
	Component  string         `yaml:"component,omitempty" json:"component,omitempty"`
	Variant    string         `yaml:"variant,omitempty" json:"variant,omitempty"`
	State      []string       `yaml:"state,omitempty" json:"state,omitempty"`
	Parent     *Rule          `yaml:"parent,omitempty" json:"parent,omitempty"`
	Directives map[string]any `yaml:"directives,omitempty" json:"directives,omitempty"`
}

// Normalize returns a copy of r whose variant defaults to Normal and whose
// state is a de-duplicated list that always starts with Normal. The whole
// parent chain is normalised too. Directives are shared, not copied.
func Normalize(r *Rule) *Rule {
	if r == nil {
		return nil
	}
	out := *r
	if out.Variant == "" {
		out.Variant = Normal
	}
	out.State = lo.Uniq(append([]string{Normal}, r.State...))
	out.Parent = Normalize(r.Parent)
	return &out
}

// IsNormalized reports whether r and its parents already carry defaults.
func IsNormalized(r *Rule) bool {
	for _, current := range Unroll(r) {
		if current.Variant == "" || len(current.State) == 0 || current.State[0] != Normal {
			return false
		}
		if len(lo.Uniq(current.State)) != len(current.State) {
			return false
		}
	}
	return true
}

// Unroll flattens r and its ancestors into [r, r.Parent, r.Parent.Parent, ...].
func Unroll(r *Rule) []*Rule {
	var out []*Rule
	for current := r; current != nil; current = current.Parent {
		out = append(out, current)
	}
	return out
}

// Depth is the number of rules in the unrolled chain.
func Depth(r *Rule) int {
	return len(Unroll(r))
}

// Combination returns a directive-free copy of r suitable as match criteria.
func (r *Rule) Combination() *Rule {
	if r == nil {
		return nil
	}
	return &Rule{
		Component: r.Component,
		Variant:   r.Variant,
		State:     append([]string(nil), r.State...),
		Parent:    r.Parent,
	}
}

// Path renders the chain outermost first, e.g. "Root > Panel.normal:hover".
func (r *Rule) Path() string {
	chain := Unroll(r)
	parts := make([]string, 0, len(chain))
	for i := len(chain) - 1; i >= 0; i-- {
		parts = append(parts, chain[i].label())
	}
	return strings.Join(parts, " > ")
}

func (r *Rule) label() string {
	var b strings.Builder
	b.WriteString(r.Component)
	if r.Variant != "" && r.Variant != Normal {
		b.WriteString("." + r.Variant)
	}
	for _, state := range r.State {
		if state != Normal {
			b.WriteString(":" + state)
		}
	}
	return b.String()
}
