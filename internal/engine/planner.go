package engine

import (
	"fmt"
	"strings"

	"github.com/purg-com/pleroma-iss/internal/components"
	"github.com/purg-com/pleroma-iss/internal/iss"
	isserrors "github.com/purg-com/pleroma-iss/pkg/errors"
)

// ResolutionPlan groups the component tree by nesting depth.
type ResolutionPlan struct {
	Levels []PlanLevel
}

// PlanLevel lists the components first reachable at one depth.
type PlanLevel struct {
	Components []string
	// Combinations counts the (variant, state set) pairs of each component
	// at this level, for a single parent combination.
	Combinations map[string]int
	Lazy         []string
	Virtual      []string
}

// GeneratePlan validates the registry and derives the plan from its
// nesting graph.
func GeneratePlan(registry *components.Registry) (*ResolutionPlan, error) {
	if registry == nil {
		return nil, isserrors.NewValidationError("components", "registry is nil", nil)
	}
	if err := registry.Validate(); err != nil {
		return nil, err
	}

	graph, _ := registry.Graph()
	var plan ResolutionPlan
	for _, names := range graph.Levels(components.RootName) {
		level := PlanLevel{
			Components:   append([]string(nil), names...),
			Combinations: make(map[string]int, len(names)),
		}
		for _, name := range names {
			def, _ := registry.Get(name)
			level.Combinations[name] = CombinationCount(def)
			if def.Lazy {
				level.Lazy = append(level.Lazy, name)
			}
			if def.Virtual {
				level.Virtual = append(level.Virtual, name)
			}
		}
		plan.Levels = append(plan.Levels, level)
	}
	return &plan, nil
}

// CombinationCount is the number of combinations def expands to.
func CombinationCount(def *components.Definition) int {
	if def == nil {
		return 0
	}
	return len(def.VariantNames()) * len(iss.StateCombinations(def.StateNames()))
}

// String renders a human readable summary of the plan.
func (p *ResolutionPlan) String() string {
	if p == nil {
		return ""
	}

	var b strings.Builder
	for i, level := range p.Levels {
		parts := make([]string, len(level.Components))
		for j, name := range level.Components {
			parts[j] = fmt.Sprintf("%s(%d)", name, level.Combinations[name])
		}
		fmt.Fprintf(&b, "Level %d (%d components): %s\n", i, len(level.Components), strings.Join(parts, ", "))
	}
	return b.String()
}
