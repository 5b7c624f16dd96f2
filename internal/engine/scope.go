package engine

import (
	"strings"

	"github.com/samber/mo"

	"github.com/purg-com/pleroma-iss/internal/color"
	"github.com/purg-com/pleroma-iss/internal/directive"
	"github.com/purg-com/pleroma-iss/internal/slot"
	isserrors "github.com/purg-com/pleroma-iss/pkg/errors"
)

// Reserved variable names answered from the combination being resolved
// rather than from declarations.
const (
	varStack               = "stack"
	varParent              = "parent"
	varInheritedBackground = "inheritedBackground"
	varBackground          = "background"
)

// scope resolves variable references for one combination. Declarations of
// the combination itself win over static variables and are evaluated on
// first use, so they may reference each other in any order.
type scope struct {
	state  *state
	locals directive.Set

	memo   map[string]color.RGBA
	active map[string]bool

	lowerBackground     mo.Option[color.RGBA]
	lowerVirtualRaw     map[string]color.RGB
	stacked             mo.Option[color.RGB]
	inheritedBackground mo.Option[color.RGBA]
	background          mo.Option[color.RGBA]
}

func newScope(st *state, locals directive.Set) *scope {
	return &scope{
		state:  st,
		locals: locals,
		memo:   make(map[string]color.RGBA),
		active: make(map[string]bool),
	}
}

// Background is the parent's own background, which decides the direction
// of brightness modifiers.
func (s *scope) Background() (color.RGB, bool) {
	bg, ok := s.lowerBackground.Get()
	return bg.RGB, ok
}

func (s *scope) Variable(name string) (color.RGBA, error) {
	switch {
	case name == varStack:
		return optional(name, s.stacked)
	case name == varParent:
		bg, ok := s.lowerBackground.Get()
		if !ok {
			return color.RGBA{}, undefined(name)
		}
		return bg.RGB.Opaque(), nil
	case strings.HasPrefix(name, varParent):
		raw, ok := s.lowerVirtualRaw[strings.TrimPrefix(name, varParent)]
		if !ok {
			return color.RGBA{}, undefined(name)
		}
		return raw.Opaque(), nil
	case name == varInheritedBackground:
		return optionalRGBA(name, s.inheritedBackground)
	case name == varBackground:
		return optionalRGBA(name, s.background)
	}

	if v, ok := s.locals[directive.VariablePrefix+name]; ok {
		return s.local(name, v)
	}
	return s.state.staticColor(name)
}

// local evaluates a declaration of this combination, guarding against
// declarations that reference themselves.
func (s *scope) local(name string, v directive.Value) (color.RGBA, error) {
	if c, ok := s.memo[name]; ok {
		return c, nil
	}
	if v.Kind != directive.KindColor {
		return color.RGBA{}, isserrors.NewExpressionError("--"+name, "variable is a "+v.Kind.String()+", not a colour", nil)
	}
	if s.active[name] {
		return color.RGBA{}, isserrors.NewExpressionError("--"+name, "variable references itself", nil)
	}

	s.active[name] = true
	c, err := slot.EvalColor(v.Color, s)
	delete(s.active, name)
	if err != nil {
		return color.RGBA{}, err
	}
	s.memo[name] = c
	return c, nil
}

// shadowItems finds a shadow declaration by name, local first.
func (s *scope) shadowItems(name string) ([]directive.ShadowItem, bool) {
	if v, ok := s.locals[directive.VariablePrefix+name]; ok && v.Kind == directive.KindShadow {
		return v.Shadow, true
	}
	return s.state.staticShadow(name)
}

func optional(name string, v mo.Option[color.RGB]) (color.RGBA, error) {
	c, ok := v.Get()
	if !ok {
		return color.RGBA{}, undefined(name)
	}
	return c.Opaque(), nil
}

// optionalRGBA drops the alpha: references read the colour only.
func optionalRGBA(name string, v mo.Option[color.RGBA]) (color.RGBA, error) {
	c, ok := v.Get()
	if !ok {
		return color.RGBA{}, undefined(name)
	}
	return c.RGB.Opaque(), nil
}

func undefined(name string) error {
	return isserrors.NewExpressionError("--"+name, "not available at this point of resolution", nil)
}
