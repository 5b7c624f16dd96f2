// Package directive compiles raw rule directives into typed values once, at
// ruleset load time, and describes the fully resolved values the resolver
// hands to stylesheet writers.
package directive

import (
	"encoding/json"
	"strconv"

	"github.com/samber/mo"

	"github.com/purg-com/pleroma-iss/internal/color"
	"github.com/purg-com/pleroma-iss/internal/slot"
)

// Kind tags the variant held by a Value.
type Kind int

const (
	KindRaw Kind = iota
	KindColor
	KindShadow
	KindScalar
	KindGeneric
)

func (k Kind) String() string {
	switch k {
	case KindColor:
		return "color"
	case KindShadow:
		return "shadow"
	case KindScalar:
		return "scalar"
	case KindGeneric:
		return "generic"
	default:
		return "raw"
	}
}

// Directive names with a fixed meaning.
const (
	Background      = "background"
	Opacity         = "opacity"
	Shadow          = "shadow"
	Roundness       = "roundness"
	TextColor       = "textColor"
	TextOpacity     = "textOpacity"
	TextOpacityMode = "textOpacityMode"
	TextAuto        = "textAuto"
)

// Text opacity modes and auto-contrast settings.
const (
	OpacityModeFake   = "fake"
	OpacityModeMixRGB = "mixrgb"

	TextAutoPreserve = "preserve"
	TextAutoBW       = "bw"
	TextAutoNone     = "no-auto"
)

// VariablePrefix starts custom variable declarations such as "--accent".
const VariablePrefix = "--"

// Value is one compiled directive.
type Value struct {
	Kind   Kind
	Color  slot.Expr
	Shadow []ShadowItem
	Scalar float64
	Raw    string
}

// ShadowItem is one entry of a shadow list. Exactly one field is set.
type ShadowItem struct {
	Layer *ShadowLayer
	CSS   []color.Shadow
	Ref   string
	Call  *slot.Call
}

// ShadowLayer is a shadow object whose colour is still an expression.
type ShadowLayer struct {
	X, Y, Blur, Spread float64
	Color              slot.Expr
	Alpha              float64
	Inset              bool
}

// Set maps directive names to compiled values.
type Set map[string]Value

// Merge folds sets left to right; later keys overwrite earlier ones.
func Merge(sets ...Set) Set {
	out := make(Set)
	for _, set := range sets {
		for key, value := range set {
			out[key] = value
		}
	}
	return out
}

// Has reports whether key is declared.
func (s Set) Has(key string) bool {
	_, ok := s[key]
	return ok
}

// ColorExpr returns the colour expression bound to key, if any.
func (s Set) ColorExpr(key string) mo.Option[slot.Expr] {
	if v, ok := s[key]; ok && v.Kind == KindColor {
		return mo.Some(v.Color)
	}
	return mo.None[slot.Expr]()
}

// Number returns the scalar bound to key, if any.
func (s Set) Number(key string) mo.Option[float64] {
	if v, ok := s[key]; ok && v.Kind == KindScalar {
		return mo.Some(v.Scalar)
	}
	return mo.None[float64]()
}

// Text returns the raw string bound to key, if any.
func (s Set) Text(key string) mo.Option[string] {
	if v, ok := s[key]; ok && (v.Kind == KindRaw || v.Kind == KindGeneric) {
		return mo.Some(v.Raw)
	}
	return mo.None[string]()
}

// Variables returns the custom variable declarations of s.
func (s Set) Variables() Set {
	out := make(Set)
	for key, value := range s {
		if IsVariable(key) {
			out[key] = value
		}
	}
	return out
}

// IsVariable reports whether key declares a custom variable.
func IsVariable(key string) bool {
	return len(key) > len(VariablePrefix) && key[:len(VariablePrefix)] == VariablePrefix
}

// Resolved is a directive after every reference has been evaluated.
type Resolved struct {
	Kind   Kind
	Color  color.RGBA
	Shadow []color.Shadow
	Scalar float64
	Raw    string
}

// ResolvedColor wraps a colour.
func ResolvedColor(c color.RGBA) Resolved {
	return Resolved{Kind: KindColor, Color: c}
}

// ResolvedShadow wraps shadow layers.
func ResolvedShadow(layers []color.Shadow) Resolved {
	return Resolved{Kind: KindShadow, Shadow: layers}
}

// ResolvedScalar wraps a number.
func ResolvedScalar(v float64) Resolved {
	return Resolved{Kind: KindScalar, Scalar: v}
}

// ResolvedRaw wraps a string passed through untouched.
func ResolvedRaw(s string) Resolved {
	return Resolved{Kind: KindRaw, Raw: s}
}

// CSS renders the value as CSS text.
func (r Resolved) CSS() string {
	switch r.Kind {
	case KindColor:
		return r.Color.CSS()
	case KindShadow:
		return color.ShadowsCSS(r.Shadow)
	case KindScalar:
		return strconv.FormatFloat(r.Scalar, 'f', -1, 64)
	default:
		return r.Raw
	}
}

// MarshalJSON writes scalars as numbers and everything else as CSS text.
func (r Resolved) MarshalJSON() ([]byte, error) {
	if r.Kind == KindScalar {
		return json.Marshal(r.Scalar)
	}
	return json.Marshal(r.CSS())
}
