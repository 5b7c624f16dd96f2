package engine

import (
	"sort"
	"sync"

	"github.com/samber/mo"

	"github.com/purg-com/pleroma-iss/internal/color"
	"github.com/purg-com/pleroma-iss/internal/directive"
	"github.com/purg-com/pleroma-iss/internal/logger"
	"github.com/purg-com/pleroma-iss/internal/slot"
	isserrors "github.com/purg-com/pleroma-iss/pkg/errors"
)

// Options tunes one resolution pass.
type Options struct {
	Logger *logger.Logger
	// Parallel bounds how many lazy subtrees resolve at once. Values below
	// one use GOMAXPROCS.
	Parallel int
}

// entry is the working record kept per selector path.
type entry struct {
	background mo.Option[color.RGBA]
	virtualRaw map[string]color.RGB
	text       *textDirectives
	ref        *ruleRef
}

// textDirectives are the text settings a virtual component resolved with.
type textDirectives struct {
	color   mo.Option[slot.Expr]
	auto    mo.Option[string]
	opacity mo.Option[float64]
	mode    mo.Option[string]
}

func (t *textDirectives) complete() bool {
	return t.color.IsPresent() && t.opacity.IsPresent() && t.mode.IsPresent()
}

// inherit fills settings t leaves unset from other.
func (t *textDirectives) inherit(other *textDirectives) {
	if !t.color.IsPresent() {
		t.color = other.color
	}
	if !t.auto.IsPresent() {
		t.auto = other.auto
	}
	if !t.opacity.IsPresent() {
		t.opacity = other.opacity
	}
	if !t.mode.IsPresent() {
		t.mode = other.mode
	}
}

// ruleList is an append-only arena of emitted rules.
type ruleList struct {
	rules []ResolvedRule
}

// ruleRef addresses one emitted rule by arena and index.
type ruleRef struct {
	list  *ruleList
	index int
}

func (l *ruleList) add(rule ResolvedRule) *ruleRef {
	l.rules = append(l.rules, rule)
	return &ruleRef{list: l, index: len(l.rules) - 1}
}

func (r *ruleRef) rule() *ResolvedRule {
	return &r.list.rules[r.index]
}

// state holds the maps of one resolution pass. Map access is locked. Entry
// fields are only written by the goroutine expanding the subtree that owns
// the path; lazy subtrees only read entries of their eager ancestors.
type state struct {
	mu            sync.Mutex
	computed      map[string]*entry
	stacked       map[string]color.RGB
	staticVars    map[string]directive.Resolved
	staticShadows map[string][]directive.ShadowItem
}

func newState() *state {
	return &state{
		computed:      make(map[string]*entry),
		stacked:       make(map[string]color.RGB),
		staticVars:    make(map[string]directive.Resolved),
		staticShadows: make(map[string][]directive.ShadowItem),
	}
}

// entry returns the record for path, creating it when missing.
func (s *state) entry(path string) *entry {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.computed[path]
	if !ok {
		e = &entry{}
		s.computed[path] = e
	}
	return e
}

func (s *state) lookup(path string) (*entry, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.computed[path]
	return e, ok
}

func (s *state) stackedAt(path string) (color.RGB, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.stacked[path]
	return c, ok
}

func (s *state) setStacked(path string, c color.RGB) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stacked[path] = c
}

func (s *state) setStatic(name string, value directive.Resolved, items []directive.ShadowItem) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.staticVars[name] = value
	if items != nil {
		s.staticShadows[name] = items
	}
}

func (s *state) staticColor(name string) (color.RGBA, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.staticVars[name]
	if !ok {
		return color.RGBA{}, isserrors.NewExpressionError("--"+name, "variable is not defined", nil)
	}
	if v.Kind != directive.KindColor {
		return color.RGBA{}, isserrors.NewExpressionError("--"+name, "variable is a "+v.Kind.String()+", not a colour", nil)
	}
	return v.Color, nil
}

func (s *state) staticShadow(name string) ([]directive.ShadowItem, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	items, ok := s.staticShadows[name]
	return items, ok
}

// snapshotStatic copies the static variable map.
func (s *state) snapshotStatic() map[string]directive.Resolved {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[string]directive.Resolved, len(s.staticVars))
	for k, v := range s.staticVars {
		out[k] = v
	}
	return out
}

// StaticNames returns the keys of vars in sorted order.
func StaticNames(vars map[string]directive.Resolved) []string {
	names := make([]string, 0, len(vars))
	for name := range vars {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
