package components

import (
	"fmt"
	"strings"
	"sync"

	"github.com/purg-com/pleroma-iss/internal/config"
	"github.com/purg-com/pleroma-iss/internal/iss"
	"github.com/purg-com/pleroma-iss/internal/logger"
	isserrors "github.com/purg-com/pleroma-iss/pkg/errors"
)

// DefaultPriority fixes the position of the components whose default rules
// must come first in the assembled ruleset.
var DefaultPriority = []string{"Root", "Text", "FunText", "Link", "Icon", "Border", "Panel", "Chat", "ChatMessage"}

// Registry holds component definitions keyed by name.
type Registry struct {
	mu       sync.RWMutex
	defs     map[string]*Definition
	order    []string
	priority []string
	logger   *logger.Logger
}

// NewRegistry returns an empty registry. Components named in priority are
// listed first by All, in that order, once registered.
func NewRegistry(log *logger.Logger, priority ...string) *Registry {
	return &Registry{
		defs:     make(map[string]*Definition),
		priority: append([]string(nil), priority...),
		logger:   log,
	}
}

// Register validates and adds a definition. A second definition with an
// already registered name is logged and ignored; the first one stays.
func (r *Registry) Register(def *Definition) error {
	if def == nil {
		return isserrors.NewValidationError("component", "definition is nil", nil)
	}
	if err := config.ValidateStruct(def); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.defs[def.Name]; exists {
		r.logger.With("component", def.Name).Warn("component is trying to override an existing component; keeping the first definition")
		return nil
	}

	r.defs[def.Name] = def
	r.order = append(r.order, def.Name)
	return nil
}

// Get returns the definition registered under name.
func (r *Registry) Get(name string) (*Definition, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	def, ok := r.defs[name]
	return def, ok
}

// Selectors adapts the registry to the rule algebra's selector lookup.
func (r *Registry) Selectors(name string) (iss.ComponentSelectors, bool) {
	def, ok := r.Get(name)
	if !ok {
		return iss.ComponentSelectors{}, false
	}
	return def.Selectors(), true
}

// All returns definitions in priority order, then in registration order.
func (r *Registry) All() []*Definition {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*Definition, 0, len(r.defs))
	placed := make(map[string]bool, len(r.defs))
	for _, name := range r.priority {
		if def, ok := r.defs[name]; ok && !placed[name] {
			out = append(out, def)
			placed[name] = true
		}
	}
	for _, name := range r.order {
		if !placed[name] {
			out = append(out, r.defs[name])
			placed[name] = true
		}
	}
	return out
}

// Names returns component names in the order of All.
func (r *Registry) Names() []string {
	defs := r.All()
	names := make([]string, len(defs))
	for i, def := range defs {
		names[i] = def.Name
	}
	return names
}

// Len is the number of registered components.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.defs)
}

// Graph builds the nesting graph over known components. References to
// unknown components are left out and returned separately.
func (r *Registry) Graph() (*NestingGraph, []string) {
	graph := NewNestingGraph()
	var unknown []string
	for _, def := range r.All() {
		graph.AddNode(def.Name)
		for _, inner := range def.ValidInnerComponents {
			if _, ok := r.Get(inner); !ok {
				unknown = append(unknown, def.Name+" -> "+inner)
				continue
			}
			graph.AddEdge(def.Name, inner)
		}
	}
	return graph, unknown
}

// Validate checks the nesting tree. Unknown inner components are logged and
// skipped; a missing root or a nesting cycle is an error.
func (r *Registry) Validate() error {
	root, ok := r.Get(RootName)
	if !ok {
		return isserrors.NewValidationError("components", fmt.Sprintf("no %s component registered", RootName), nil)
	}
	if root.Virtual {
		return isserrors.NewValidationError("components."+RootName, "root component cannot be virtual", nil)
	}

	graph, unknown := r.Graph()
	for _, ref := range unknown {
		r.logger.With("reference", ref).Warn("component references a component which does not exist")
	}

	if cycle := graph.DetectCycle(); len(cycle) > 0 {
		return isserrors.NewValidationError("components", "nesting cycle detected: "+strings.Join(cycle, " -> "), nil)
	}
	return nil
}
