// Package components describes stylable component types: their selectors,
// states, variants, nesting and default rules, plus the registry the
// resolver walks.
package components

import (
	"github.com/samber/lo"

	"github.com/purg-com/pleroma-iss/internal/iss"
)

// RootName is the component every resolution starts from.
const RootName = "Root"

// Definition describes one stylable component type.
type Definition struct {
	Name                 string      `yaml:"name" validate:"required,component_name"`
	Selector             string      `yaml:"selector" validate:"required"`
	OutOfTreeSelector    string      `yaml:"outOfTreeSelector,omitempty"`
	States               Fragments   `yaml:"states,omitempty"`
	Variants             Fragments   `yaml:"variants,omitempty"`
	ValidInnerComponents []string    `yaml:"validInnerComponents,omitempty" validate:"omitempty,dive,component_name"`
	DefaultRules         []*iss.Rule `yaml:"defaultRules,omitempty" validate:"omitempty,dive,required"`
	Virtual              bool        `yaml:"virtual,omitempty"`
	Lazy                 bool        `yaml:"lazy,omitempty"`
}

// StateNames lists the declared non-normal states in order.
func (d *Definition) StateNames() []string {
	return lo.Without(d.States.Keys(), iss.Normal)
}

// VariantNames lists "normal" followed by the declared variants.
func (d *Definition) VariantNames() []string {
	return d.Variants.WithNormal().Keys()
}

// Selectors exposes the selector data the rule algebra needs.
func (d *Definition) Selectors() iss.ComponentSelectors {
	return iss.ComponentSelectors{
		Selector:          d.Selector,
		OutOfTreeSelector: d.OutOfTreeSelector,
		States:            d.States.WithNormal().Map(),
		Variants:          d.Variants.WithNormal().Map(),
	}
}

// Rules returns the default rules stamped with this component's name when
// they do not name a component themselves.
func (d *Definition) Rules() []*iss.Rule {
	return lo.Map(d.DefaultRules, func(r *iss.Rule, _ int) *iss.Rule {
		if r.Component != "" {
			return r
		}
		stamped := *r
		stamped.Component = d.Name
		return &stamped
	})
}
