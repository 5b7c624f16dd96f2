package directive

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/purg-com/pleroma-iss/internal/color"
	"github.com/purg-com/pleroma-iss/internal/slot"
	isserrors "github.com/purg-com/pleroma-iss/pkg/errors"
)

var (
	colorDirectives  = map[string]bool{Background: true, TextColor: true}
	scalarDirectives = map[string]bool{Opacity: true, Roundness: true, TextOpacity: true}
)

// invalidLiteral stands in for a colour expression that failed to compile.
var invalidLiteral = slot.Literal{Text: color.Invalid.Hex()}

// invalidShadow stands in for a shadow item that failed to compile.
var invalidShadow = ShadowItem{CSS: []color.Shadow{{Spread: 1, Color: color.Invalid, Alpha: 1}}}

// Compile turns raw directives into a Set. Broken values are still present
// in the result, degraded to the invalid placeholder, and every failure is
// reported in the joined error.
func Compile(raw map[string]any) (Set, error) {
	out := make(Set, len(raw))
	var errs []error

	keys := make([]string, 0, len(raw))
	for key := range raw {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	for _, key := range keys {
		value, err := compileOne(key, raw[key])
		if err != nil {
			errs = append(errs, fmt.Errorf("directive %s: %w", key, err))
		}
		out[key] = value
	}
	return out, errors.Join(errs...)
}

func compileOne(key string, raw any) (Value, error) {
	switch {
	case IsVariable(key):
		return compileVariable(raw)
	case colorDirectives[key]:
		return compileColor(raw)
	case key == Shadow:
		items, err := CompileShadow(raw)
		return Value{Kind: KindShadow, Shadow: items}, err
	case scalarDirectives[key]:
		v, err := toNumber(raw)
		if err != nil {
			return Value{Kind: KindScalar}, isserrors.NewExpressionError(fmt.Sprint(raw), "expected a number", err)
		}
		return Value{Kind: KindScalar, Scalar: v}, nil
	}

	if v, err := toNumber(raw); err == nil {
		if _, isString := raw.(string); !isString {
			return Value{Kind: KindScalar, Scalar: v}, nil
		}
	}
	return Value{Kind: KindRaw, Raw: fmt.Sprint(raw)}, nil
}

func compileColor(raw any) (Value, error) {
	text, ok := raw.(string)
	if !ok {
		return Value{Kind: KindColor, Color: invalidLiteral},
			isserrors.NewExpressionError(fmt.Sprint(raw), "colour must be a string", nil)
	}
	expr, err := slot.ParseColor(text)
	if err != nil {
		return Value{Kind: KindColor, Color: invalidLiteral}, err
	}
	return Value{Kind: KindColor, Color: expr}, nil
}

// compileVariable reads "<kind> | <expr>[ | <expr>...]" declarations.
func compileVariable(raw any) (Value, error) {
	text, ok := raw.(string)
	if !ok {
		return Value{Kind: KindRaw, Raw: fmt.Sprint(raw)}, nil
	}

	parts := strings.Split(text, "|")
	if len(parts) < 2 {
		return Value{Kind: KindRaw, Raw: strings.TrimSpace(text)}, nil
	}
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}

	switch parts[0] {
	case "color":
		return compileColor(parts[1])
	case "shadow":
		items := make([]any, 0, len(parts)-1)
		for _, part := range parts[1:] {
			items = append(items, part)
		}
		compiled, err := CompileShadow(items)
		return Value{Kind: KindShadow, Shadow: compiled}, err
	case "generic":
		return Value{Kind: KindGeneric, Raw: strings.Join(parts[1:], " | ")}, nil
	default:
		return Value{Kind: KindRaw, Raw: text},
			isserrors.NewExpressionError(text, fmt.Sprintf("unknown variable kind %q", parts[0]), nil)
	}
}

// CompileShadow reads a shadow directive: a CSS shadow string, a "--name"
// reference, a "$function(...)" call, a shadow object, or a (nested) list
// of those.
func CompileShadow(raw any) ([]ShadowItem, error) {
	var (
		items []ShadowItem
		errs  []error
	)

	var walk func(v any)
	walk = func(v any) {
		switch typed := v.(type) {
		case nil:
		case []any:
			for _, entry := range typed {
				walk(entry)
			}
		case []string:
			for _, entry := range typed {
				walk(entry)
			}
		case string:
			item, err := compileShadowString(typed)
			if err != nil {
				errs = append(errs, err)
				item = invalidShadow
			}
			items = append(items, item)
		case map[string]any:
			layer, err := compileShadowLayer(typed)
			if err != nil {
				errs = append(errs, err)
				items = append(items, invalidShadow)
				return
			}
			items = append(items, ShadowItem{Layer: layer})
		default:
			errs = append(errs, isserrors.NewExpressionError(fmt.Sprint(v), "unsupported shadow value", nil))
			items = append(items, invalidShadow)
		}
	}
	walk(raw)
	return items, errors.Join(errs...)
}

func compileShadowString(text string) (ShadowItem, error) {
	trimmed := strings.TrimSpace(text)
	switch {
	case strings.HasPrefix(trimmed, "$"):
		call, err := slot.ParseShadow(trimmed)
		if err != nil {
			return ShadowItem{}, err
		}
		return ShadowItem{Call: &call}, nil
	case strings.HasPrefix(trimmed, VariablePrefix):
		// Modifiers are not meaningful for shadows and are dropped.
		name, _, _ := strings.Cut(trimmed[len(VariablePrefix):], ",")
		return ShadowItem{Ref: strings.TrimSpace(name)}, nil
	default:
		layers, err := color.ParseShadows(trimmed)
		if err != nil {
			return ShadowItem{}, isserrors.NewExpressionError(text, "invalid shadow", err)
		}
		return ShadowItem{CSS: layers}, nil
	}
}

func compileShadowLayer(obj map[string]any) (*ShadowLayer, error) {
	layer := &ShadowLayer{Alpha: 1}
	numbers := map[string]*float64{"x": &layer.X, "y": &layer.Y, "blur": &layer.Blur, "spread": &layer.Spread, "alpha": &layer.Alpha}
	for key, target := range numbers {
		raw, ok := obj[key]
		if !ok {
			continue
		}
		v, err := toNumber(raw)
		if err != nil {
			return nil, isserrors.NewExpressionError(fmt.Sprint(obj), "shadow field "+key, err)
		}
		*target = v
	}

	if inset, ok := obj["inset"]; ok {
		switch typed := inset.(type) {
		case bool:
			layer.Inset = typed
		case string:
			layer.Inset = typed == "inset" || typed == "true"
		}
	}

	layer.Color = slot.Literal{Text: color.Black.Hex()}
	if raw, ok := obj["color"]; ok {
		text, isString := raw.(string)
		if !isString {
			return nil, isserrors.NewExpressionError(fmt.Sprint(obj), "shadow colour must be a string", nil)
		}
		expr, err := slot.ParseColor(text)
		if err != nil {
			return nil, err
		}
		layer.Color = expr
	}
	return layer, nil
}

func toNumber(raw any) (float64, error) {
	switch v := raw.(type) {
	case float64:
		return v, nil
	case float32:
		return float64(v), nil
	case int:
		return float64(v), nil
	case int64:
		return float64(v), nil
	case uint64:
		return float64(v), nil
	case string:
		return strconv.ParseFloat(strings.TrimSpace(v), 64)
	default:
		return 0, fmt.Errorf("not a number: %v", raw)
	}
}
