package engine

import (
	"sort"
	"strings"

	"github.com/samber/lo"
	"github.com/samber/mo"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/purg-com/pleroma-iss/internal/color"
	"github.com/purg-com/pleroma-iss/internal/components"
	"github.com/purg-com/pleroma-iss/internal/directive"
	"github.com/purg-com/pleroma-iss/internal/iss"
	"github.com/purg-com/pleroma-iss/internal/slot"
	isserrors "github.com/purg-com/pleroma-iss/pkg/errors"
)

// maxShadowDepth bounds chains of shadow variables referencing each other.
const maxShadowDepth = 16

// combinations lists the (variant, state set) pairs of def, normal variant
// first, each variant crossed with every state combination.
func combinations(def *components.Definition) []*iss.Rule {
	states := iss.StateCombinations(def.StateNames())
	var out []*iss.Rule
	for _, variant := range def.VariantNames() {
		for _, state := range states {
			out = append(out, &iss.Rule{Component: def.Name, Variant: variant, State: state})
		}
	}
	return out
}

// process walks def and its inner components below parent.
func (r *resolver) process(def *components.Definition, parent *iss.Rule, p *pass) error {
	parentPath := r.selectors.Path(parent)

	for _, combination := range combinations(def) {
		if p.lazy {
			r.lazyCount.Add(1)
		} else {
			r.eagerCount.Add(1)
		}

		if err := r.resolveCombination(def, combination, parent, parentPath, p); err != nil {
			return err
		}

		next := &iss.Rule{
			Component: def.Name,
			Variant:   combination.Variant,
			State:     combination.State,
			Parent:    parent,
		}
		for _, child := range r.inner[def.Name] {
			if child.Lazy && !child.Virtual && p.deferred != nil {
				p.deferred(lazyTask{def: child, parent: next})
				continue
			}
			if err := r.process(child, next, p); err != nil {
				return err
			}
		}
	}
	return nil
}

func (r *resolver) resolveCombination(def *components.Definition, combination, parent *iss.Rule, parentPath string, p *pass) error {
	solo := r.selectors.Path(combination)
	path := joinSelector(parentPath, solo)

	criteria := &iss.Rule{
		Component: def.Name,
		Variant:   combination.Variant,
		State:     combination.State,
		Parent:    parent,
	}
	merged := r.merge(criteria)

	sc := newScope(r.state, merged.Variables())
	if parent != nil {
		if lower, ok := r.state.lookup(parentPath); ok {
			sc.lowerBackground = lower.background
			sc.lowerVirtualRaw = lower.virtualRaw
		}
	}

	if def.Virtual {
		return r.resolveVirtual(def, combination, parent, parentPath, path, solo, merged, sc)
	}

	cssSelector := joinSelector(parentPath, r.selectors.CSS(combination))
	if cssSelector == "" {
		cssSelector = def.Selector
	}
	r.resolveReal(def, combination, parent, parentPath, path, cssSelector, merged, sc, p)
	return nil
}

// resolveReal composites the background, resolves shadows and custom
// properties and emits the rule.
func (r *resolver) resolveReal(def *components.Definition, combination, parent *iss.Rule, parentPath, path, cssSelector string, merged directive.Set, sc *scope, p *pass) {
	e := r.state.entry(path)

	lowerStacked := r.ultimate
	if parent != nil {
		if stacked, ok := r.state.stackedAt(parentPath); ok {
			lowerStacked = stacked
		}
	}

	resolved := make(map[string]directive.Resolved, len(merged))

	if bgExpr, ok := merged.ColorExpr(directive.Background).Get(); ok {
		sc.inheritedBackground = mo.Some(r.inheritedBackground(def, combination, parent, lowerStacked))
		rgb := r.color(bgExpr, sc, path).RGB

		if _, exists := r.state.stackedAt(path); !exists {
			alpha := merged.Number(directive.Opacity).OrElse(1)
			var blend color.RGB
			switch {
			case alpha >= 1:
				blend = rgb
			case alpha <= 0:
				blend = lowerStacked
			default:
				blend = color.AlphaBlend(rgb, alpha, lowerStacked)
			}
			r.state.setStacked(path, blend)
			e.background = mo.Some(rgb.WithAlpha(alpha))
		}
	}

	if v, ok := merged[directive.Shadow]; ok && v.Kind == directive.KindShadow {
		resolved[directive.Shadow] = directive.ResolvedShadow(r.shadows(v.Shadow, sc, path, 0))
	}

	stacked, ok := r.state.stackedAt(path)
	if !ok {
		stacked = lowerStacked
		r.state.setStacked(path, stacked)
		e.background = mo.Some(lowerStacked.WithAlpha(0))
		resolved[directive.Background] = directive.ResolvedRaw("transparent")
		resolved[directive.Opacity] = directive.ResolvedScalar(0)
	} else if bg, has := e.background.Get(); has {
		resolved[directive.Background] = directive.ResolvedColor(bg)
	}

	sc.stacked = mo.Some(stacked)
	sc.background = e.background

	for _, key := range sortedKeys(merged) {
		if _, done := resolved[key]; done {
			continue
		}
		v := merged[key]
		switch {
		case directive.IsVariable(key):
			resolved[key] = r.declare(def, key, v, sc, path)
		case v.Kind == directive.KindColor:
			resolved[key] = directive.ResolvedColor(r.color(v.Color, sc, path))
		case v.Kind == directive.KindShadow:
			resolved[key] = directive.ResolvedShadow(r.shadows(v.Shadow, sc, path, 0))
		case v.Kind == directive.KindScalar:
			resolved[key] = directive.ResolvedScalar(v.Scalar)
		default:
			resolved[key] = directive.ResolvedRaw(v.Raw)
		}
	}

	e.virtualRaw = make(map[string]color.RGB)
	e.ref = p.rules.add(ResolvedRule{
		Selector:   cssSelector,
		Path:       combinationPath(combination, parent),
		Component:  def.Name,
		Variant:    combination.Variant,
		State:      append([]string(nil), combination.State...),
		Directives: resolved,
		Virtual:    make(map[string]directive.Resolved),
		VirtualRaw: e.virtualRaw,
		Stacked:    stacked,
	})
}

// inheritedBackground finds the background the combination would have
// without its own state: the last rule of the same variant, else the last
// rule of the normal variant, looked up among already resolved entries.
func (r *resolver) inheritedBackground(def *components.Definition, combination, parent *iss.Rule, fallback color.RGB) color.RGBA {
	inherit, ok := lastRule(r.matching(&iss.Rule{Component: def.Name, Variant: combination.Variant, Parent: parent}))
	if !ok {
		inherit, ok = lastRule(r.matching(&iss.Rule{Component: def.Name, Parent: parent}))
	}
	if !ok {
		return fallback.Opaque()
	}

	inheritPath := r.selectors.Path(&iss.Rule{
		Component: inherit.rule.Component,
		Variant:   inherit.rule.Variant,
		State:     inherit.rule.State,
		Parent:    parent,
	})
	if e, found := r.state.lookup(inheritPath); found {
		if bg, has := e.background.Get(); has {
			return bg
		}
	}
	return fallback.Opaque()
}

// declare resolves one custom property. Colour and shadow properties of the
// root component become static variables.
func (r *resolver) declare(def *components.Definition, key string, v directive.Value, sc *scope, path string) directive.Resolved {
	name := strings.TrimPrefix(key, directive.VariablePrefix)
	isRoot := def.Name == components.RootName

	switch v.Kind {
	case directive.KindColor:
		c, err := sc.local(name, v)
		if err != nil {
			r.expressionFailed(err, v.Color.String(), path)
			c = color.Invalid.Opaque()
		}
		out := directive.ResolvedColor(c)
		if isRoot {
			r.state.setStatic(name, out, nil)
		}
		return out
	case directive.KindShadow:
		out := directive.ResolvedShadow(r.shadows(v.Shadow, sc, path, 0))
		if isRoot {
			r.state.setStatic(name, out, v.Shadow)
		}
		return out
	default:
		return directive.ResolvedRaw(v.Raw)
	}
}

// resolveVirtual computes the text colour of a virtual component and stores
// it as a custom property on the rule of its real parent.
func (r *resolver) resolveVirtual(def *components.Definition, combination, parent *iss.Rule, parentPath, path, solo string, merged directive.Set, sc *scope) error {
	text := &textDirectives{
		color:   merged.ColorExpr(directive.TextColor),
		auto:    merged.Text(directive.TextAuto),
		opacity: merged.Number(directive.TextOpacity),
		mode:    merged.Text(directive.TextOpacityMode),
	}
	if !text.complete() && parent != nil {
		r.inheritText(text, parent.Parent, solo)
	}
	r.state.entry(path).text = text

	lower, ok := r.state.lookup(parentPath)
	if parent == nil || !ok || lower.ref == nil {
		return isserrors.NewConsistencyError(def.Name, path, "virtual component resolved before its real parent emitted a rule")
	}
	lowerStacked, ok := r.state.stackedAt(parentPath)
	if !ok {
		return isserrors.NewConsistencyError(def.Name, path, "parent has no stacked background")
	}

	sc.inheritedBackground = sc.lowerBackground
	sc.stacked = mo.Some(lowerStacked)

	intended := color.Invalid
	if expr, has := text.color.Get(); has {
		intended = r.color(expr, sc, path).RGB
	} else {
		r.logger.WithFields(map[string]any{"component": def.Name, "selector": path}).
			Error(nil, "virtual component has no text colour")
	}

	auto := text.auto.OrElse(directive.TextAutoPreserve)
	textColor := intended
	if auto != directive.TextAutoNone {
		textColor = color.TextColor(lowerStacked, intended, auto == directive.TextAutoPreserve)
	}

	lowerBackground := lowerStacked
	if bg, has := sc.lowerBackground.Get(); has {
		lowerBackground = bg.RGB
	}

	name := VirtualName(def.Name, combination)
	target := lower.ref.rule()
	target.Virtual[name] = directive.ResolvedColor(textColorAlpha(text, textColor, lowerBackground))
	target.VirtualRaw[name] = textColor
	return nil
}

// inheritText fills unset text settings from the nearest ancestor level
// that already resolved the same virtual combination.
func (r *resolver) inheritText(text *textDirectives, ancestor *iss.Rule, solo string) {
	for {
		if e, ok := r.state.lookup(joinSelector(r.selectors.Path(ancestor), solo)); ok && e.text != nil {
			text.inherit(e.text)
			return
		}
		if ancestor == nil {
			return
		}
		ancestor = ancestor.Parent
	}
}

// textColorAlpha applies the text opacity according to its mode.
func textColorAlpha(text *textDirectives, textColor, background color.RGB) color.RGBA {
	opacity, ok := text.opacity.Get()
	if !ok || opacity >= 1 {
		return textColor.Opaque()
	}
	if opacity <= 0 {
		return background.Opaque()
	}
	switch text.mode.OrElse("") {
	case directive.OpacityModeFake:
		return color.AlphaBlend(textColor, opacity, background).Opaque()
	case directive.OpacityModeMixRGB:
		return color.Mix(background, textColor).Opaque()
	default:
		return textColor.WithAlpha(opacity)
	}
}

// VirtualName builds the custom property name of a virtual combination:
// "--" + lower-case component + capitalised variant (unless normal) +
// capitalised non-normal states in sorted order.
func VirtualName(component string, combination *iss.Rule) string {
	title := cases.Title(language.Und)

	var b strings.Builder
	b.WriteString(directive.VariablePrefix)
	b.WriteString(strings.ToLower(component))
	if combination.Variant != "" && combination.Variant != iss.Normal {
		b.WriteString(title.String(combination.Variant))
	}
	states := lo.Without(combination.State, iss.Normal)
	sort.Strings(states)
	for _, state := range states {
		b.WriteString(title.String(state))
	}
	return b.String()
}

// color evaluates expr, degrading to the invalid colour on failure.
func (r *resolver) color(expr slot.Expr, sc *scope, where string) color.RGBA {
	c, err := slot.EvalColor(expr, sc)
	if err != nil {
		r.expressionFailed(err, expr.String(), where)
		return color.Invalid.Opaque()
	}
	return c
}

// shadows resolves a shadow list: literal layers, shadow objects whose
// colours are expressions, shadow function calls and references to shadow
// variables.
func (r *resolver) shadows(items []directive.ShadowItem, sc *scope, where string, depth int) []color.Shadow {
	out := []color.Shadow{}
	for _, item := range items {
		switch {
		case item.Layer != nil:
			c := r.color(item.Layer.Color, sc, where)
			out = append(out, color.Shadow{
				X:      item.Layer.X,
				Y:      item.Layer.Y,
				Blur:   item.Layer.Blur,
				Spread: item.Layer.Spread,
				Color:  c.RGB,
				Alpha:  item.Layer.Alpha * c.A,
				Inset:  item.Layer.Inset,
			})
		case item.Call != nil:
			layers, err := slot.EvalShadow(*item.Call, sc)
			if err != nil {
				r.expressionFailed(err, item.Call.String(), where)
				out = append(out, invalidShadow())
				continue
			}
			out = append(out, layers...)
		case item.Ref != "":
			if depth >= maxShadowDepth {
				r.expressionFailed(isserrors.NewExpressionError("--"+item.Ref, "shadow references nest too deep", nil), "--"+item.Ref, where)
				continue
			}
			ref, ok := sc.shadowItems(item.Ref)
			if !ok {
				r.logger.WithFields(map[string]any{"selector": where, "variable": item.Ref}).Warn("shadow variable is not defined")
				continue
			}
			out = append(out, r.shadows(ref, sc, where, depth+1)...)
		default:
			out = append(out, item.CSS...)
		}
	}
	return out
}

func (r *resolver) expressionFailed(err error, expr, where string) {
	r.logger.WithFields(map[string]any{"selector": where, "expression": expr}).Error(err, "failed to resolve expression")
}

func invalidShadow() color.Shadow {
	return color.Shadow{Spread: 1, Color: color.Invalid, Alpha: 1}
}

func combinationPath(combination, parent *iss.Rule) string {
	return (&iss.Rule{
		Component: combination.Component,
		Variant:   combination.Variant,
		State:     combination.State,
		Parent:    parent,
	}).Path()
}

func lastRule(rules []compiledRule) (compiledRule, bool) {
	if len(rules) == 0 {
		return compiledRule{}, false
	}
	return rules[len(rules)-1], true
}

func joinSelector(parent, own string) string {
	switch {
	case parent == "":
		return own
	case own == "":
		return parent
	default:
		return parent + " " + own
	}
}

func sortedKeys(set directive.Set) []string {
	keys := make([]string, 0, len(set))
	for key := range set {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
