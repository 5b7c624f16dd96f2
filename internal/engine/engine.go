// Package engine resolves component definitions and style rules into
// concrete per-selector rules: it expands every state and variant
// combination of the component tree, composites backgrounds, evaluates
// colour and shadow expressions and attaches virtual component colours to
// their real ancestors.
package engine

import (
	"context"
	"sync/atomic"

	"github.com/samber/lo"

	"github.com/purg-com/pleroma-iss/internal/color"
	"github.com/purg-com/pleroma-iss/internal/components"
	"github.com/purg-com/pleroma-iss/internal/directive"
	"github.com/purg-com/pleroma-iss/internal/iss"
	"github.com/purg-com/pleroma-iss/internal/logger"
	isserrors "github.com/purg-com/pleroma-iss/pkg/errors"
)

// ResolvedRule is one fully resolved selector. Virtual holds the custom
// properties contributed by virtual children.
type ResolvedRule struct {
	Selector   string                        `json:"selector"`
	Path       string                        `json:"path"`
	Component  string                        `json:"component"`
	Variant    string                        `json:"variant"`
	State      []string                      `json:"state"`
	Directives map[string]directive.Resolved `json:"directives"`
	Virtual    map[string]directive.Resolved `json:"virtual,omitempty"`
	VirtualRaw map[string]color.RGB          `json:"-"`
	Stacked    color.RGB                     `json:"stacked"`
}

// Result is the outcome of one resolution pass.
type Result struct {
	Eager             []ResolvedRule
	Lazy              *Future
	StaticVars        map[string]directive.Resolved
	EagerCombinations int
}

// All waits for the lazy rules and returns them after the eager ones.
func (r *Result) All(ctx context.Context) ([]ResolvedRule, error) {
	lazy, err := r.Lazy.Wait(ctx)
	out := make([]ResolvedRule, 0, len(r.Eager)+len(lazy))
	out = append(out, r.Eager...)
	return append(out, lazy...), err
}

type compiledRule struct {
	rule       *iss.Rule
	directives directive.Set
}

type resolver struct {
	registry  *components.Registry
	selectors *iss.SelectorBuilder
	ruleset   []compiledRule
	inner     map[string][]*components.Definition
	ultimate  color.RGB
	state     *state
	logger    *logger.Logger

	eagerCount atomic.Int64
	lazyCount  atomic.Int64
}

// pass is the output side of one tree walk. Deferred is nil inside lazy
// tasks, which expand nested lazy components inline.
type pass struct {
	rules    *ruleList
	deferred func(task lazyTask)
	lazy     bool
}

type lazyTask struct {
	def    *components.Definition
	parent *iss.Rule
}

// Resolve expands the component tree of registry starting at the root
// component. extra rules are applied after every component's default rules;
// ultimateBackground is what the lowest layer composites onto.
//
// Eager rules are complete on return. Rules of lazy components resolve on a
// worker pool and are delivered through Result.Lazy.
func Resolve(ctx context.Context, registry *components.Registry, extra []*iss.Rule, ultimateBackground string, opts Options) (*Result, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if registry == nil {
		return nil, isserrors.NewValidationError("components", "registry is nil", nil)
	}
	root, ok := registry.Get(components.RootName)
	if !ok {
		return nil, isserrors.NewValidationError("components", "no "+components.RootName+" component registered", nil)
	}
	ultimate, err := color.Parse(ultimateBackground)
	if err != nil {
		return nil, isserrors.NewValidationError("ultimateBackground", "invalid colour "+ultimateBackground, err)
	}

	r := newResolver(registry, extra, ultimate.RGB, opts.Logger)

	eager := &ruleList{}
	var tasks []lazyTask
	walk := &pass{rules: eager, deferred: func(task lazyTask) { tasks = append(tasks, task) }}
	if err := r.process(root, nil, walk); err != nil {
		return nil, err
	}

	pool := NewPool(opts.Parallel, opts.Logger)
	futures := lo.Map(tasks, func(task lazyTask, _ int) *Future {
		return pool.Submit(r.taskName(task), func() ([]ResolvedRule, error) {
			return r.expandLazy(task)
		})
	})
	lazy := Gather(futures...)

	r.logger.WithFields(map[string]any{
		"eager_combinations": r.eagerCount.Load(),
		"eager_rules":        len(eager.rules),
		"lazy_tasks":         len(tasks),
	}).Debug("eager pass finished")

	go func() {
		<-lazy.Done()
		r.logger.WithFields(map[string]any{
			"lazy_combinations": r.lazyCount.Load(),
		}).Debug("lazy pass finished")
	}()

	return &Result{
		Eager:             eager.rules,
		Lazy:              lazy,
		StaticVars:        r.state.snapshotStatic(),
		EagerCombinations: int(r.eagerCount.Load()),
	}, nil
}

func newResolver(registry *components.Registry, extra []*iss.Rule, ultimate color.RGB, log *logger.Logger) *resolver {
	r := &resolver{
		registry:  registry,
		selectors: iss.NewSelectorBuilder(registry.Selectors),
		inner:     make(map[string][]*components.Definition),
		ultimate:  ultimate,
		state:     newState(),
		logger:    log,
	}

	for _, def := range registry.All() {
		if def.Virtual && def.Lazy {
			r.logger.With("component", def.Name).Warn("virtual components cannot be lazy; resolving eagerly")
		}
		for _, name := range def.ValidInnerComponents {
			child, ok := registry.Get(name)
			if !ok {
				r.logger.WithFields(map[string]any{"component": def.Name, "inner": name}).
					Error(nil, "component references a component which does not exist")
				continue
			}
			r.inner[def.Name] = append(r.inner[def.Name], child)
		}
	}

	r.ruleset = r.assemble(extra)
	return r
}

// assemble stamps, normalises, orders and compiles the full ruleset.
func (r *resolver) assemble(extra []*iss.Rule) []compiledRule {
	var raw []*iss.Rule
	for _, def := range r.registry.All() {
		raw = append(raw, def.Rules()...)
	}
	for i, rule := range extra {
		if rule == nil || rule.Component == "" {
			r.logger.WithFields(map[string]any{"index": i}).Warn("extra rule has no component; skipping")
			continue
		}
		raw = append(raw, rule)
	}

	normalized := lo.Map(raw, func(rule *iss.Rule, _ int) *iss.Rule { return iss.Normalize(rule) })
	sorted := iss.SortRuleset(normalized)

	return lo.Map(sorted, func(rule *iss.Rule, _ int) compiledRule {
		set, err := directive.Compile(rule.Directives)
		if err != nil {
			r.logger.With("rule", rule.Path()).Error(err, "rule has invalid directive values")
		}
		return compiledRule{rule: rule, directives: set}
	})
}

// matching returns the compiled rules that apply to criteria in order.
func (r *resolver) matching(criteria *iss.Rule) []compiledRule {
	predicate := iss.FindRules(criteria, false)
	return lo.Filter(r.ruleset, func(c compiledRule, _ int) bool { return predicate(c.rule) })
}

// merge folds the directives of every rule applying to criteria.
func (r *resolver) merge(criteria *iss.Rule) directive.Set {
	matched := r.matching(criteria)
	return directive.Merge(lo.Map(matched, func(c compiledRule, _ int) directive.Set { return c.directives })...)
}

func (r *resolver) expandLazy(task lazyTask) ([]ResolvedRule, error) {
	list := &ruleList{}
	if err := r.process(task.def, task.parent, &pass{rules: list, lazy: true}); err != nil {
		return nil, err
	}
	return list.rules, nil
}

func (r *resolver) taskName(task lazyTask) string {
	return (&iss.Rule{Component: task.def.Name, Parent: task.parent}).Path()
}
