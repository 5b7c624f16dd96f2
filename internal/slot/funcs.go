package slot

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/purg-com/pleroma-iss/internal/color"
	isserrors "github.com/purg-com/pleroma-iss/pkg/errors"
)

// Kind selects a function table.
type Kind int

const (
	KindColor Kind = iota
	KindShadow
)

func (k Kind) String() string {
	if k == KindShadow {
		return "shadow"
	}
	return "color"
}

// Func enumerates the known slot functions.
type Func int

const (
	FuncAlpha Func = iota + 1
	FuncBlend
	FuncMix
	FuncBrightness
	FuncMod
	FuncTextColor
	FuncBorderSide
)

type funcSpec struct {
	name    string
	kind    Kind
	minArgs int
	maxArgs int
}

func (s funcSpec) arity() string {
	if s.minArgs == s.maxArgs {
		return strconv.Itoa(s.minArgs)
	}
	return fmt.Sprintf("%d to %d", s.minArgs, s.maxArgs)
}

var specs = map[Func]funcSpec{
	FuncAlpha:      {name: "alpha", kind: KindColor, minArgs: 2, maxArgs: 2},
	FuncBlend:      {name: "blend", kind: KindColor, minArgs: 3, maxArgs: 3},
	FuncMix:        {name: "mix", kind: KindColor, minArgs: 2, maxArgs: 2},
	FuncBrightness: {name: "brightness", kind: KindColor, minArgs: 2, maxArgs: 2},
	FuncMod:        {name: "mod", kind: KindColor, minArgs: 2, maxArgs: 2},
	FuncTextColor:  {name: "textColor", kind: KindColor, minArgs: 2, maxArgs: 3},
	FuncBorderSide: {name: "borderSide", kind: KindShadow, minArgs: 1, maxArgs: 5},
}

func (f Func) String() string {
	if spec, ok := specs[f]; ok {
		return spec.name
	}
	return "unknown"
}

func lookup(kind Kind, name string) (Func, bool) {
	for fn, spec := range specs {
		if spec.kind == kind && spec.name == name {
			return fn, true
		}
	}
	return 0, false
}

// Names lists the functions of one table, for diagnostics.
func Names(kind Kind) []string {
	var names []string
	for fn := FuncAlpha; fn <= FuncBorderSide; fn++ {
		if specs[fn].kind == kind {
			names = append(names, specs[fn].name)
		}
	}
	return names
}

// Scope supplies variable values while evaluating an expression.
type Scope interface {
	// Variable resolves a reference name without the leading dashes.
	Variable(name string) (color.RGBA, error)
	// Background is the colour beneath the value being resolved. It decides
	// which way brightness modifiers shift.
	Background() (color.RGB, bool)
}

// EvalColor evaluates expr to a colour.
func EvalColor(expr Expr, scope Scope) (color.RGBA, error) {
	switch e := expr.(type) {
	case Literal:
		c, err := color.Parse(e.Text)
		if err != nil {
			return color.RGBA{}, isserrors.NewExpressionError(e.Text, "invalid colour", err)
		}
		return c, nil
	case VarRef:
		c, err := scope.Variable(e.Name)
		if err != nil {
			return color.RGBA{}, isserrors.NewExpressionError(e.String(), "unresolved variable", err)
		}
		if amount, ok := e.Modifier.Get(); ok {
			c.RGB = color.Brightness(amount*modSign(scope, c.RGB), c.RGB)
		}
		return c, nil
	case Call:
		return evalColorCall(e, scope)
	default:
		return color.RGBA{}, isserrors.NewExpressionError(fmt.Sprint(expr), "unsupported expression", nil)
	}
}

// EvalShadow evaluates a shadow function call to its layers.
func EvalShadow(call Call, scope Scope) ([]color.Shadow, error) {
	switch call.Func {
	case FuncBorderSide:
		layer, err := borderSide(call, scope)
		if err != nil {
			return nil, err
		}
		return []color.Shadow{layer}, nil
	default:
		return nil, isserrors.NewExpressionError(call.String(), "not a shadow function", nil)
	}
}

// modSign is +1 on dark backgrounds and -1 on light ones.
func modSign(scope Scope, fallback color.RGB) float64 {
	bg, ok := scope.Background()
	if !ok {
		bg = fallback
	}
	if color.IsDark(bg) {
		return 1
	}
	return -1
}

func evalColorCall(call Call, scope Scope) (color.RGBA, error) {
	fail := func(err error) (color.RGBA, error) {
		return color.RGBA{}, isserrors.NewExpressionError(call.String(), "evaluation failed", err)
	}

	switch call.Func {
	case FuncAlpha:
		c, err := EvalColor(call.Args[0], scope)
		if err != nil {
			return fail(err)
		}
		amount, err := number(call.Args[1])
		if err != nil {
			return fail(err)
		}
		return c.RGB.WithAlpha(amount), nil

	case FuncBlend:
		bg, err := EvalColor(call.Args[0], scope)
		if err != nil {
			return fail(err)
		}
		amount, err := number(call.Args[1])
		if err != nil {
			return fail(err)
		}
		fg, err := EvalColor(call.Args[2], scope)
		if err != nil {
			return fail(err)
		}
		return color.AlphaBlend(bg.RGB, amount, fg.RGB).Opaque(), nil

	case FuncMix:
		a, err := EvalColor(call.Args[0], scope)
		if err != nil {
			return fail(err)
		}
		b, err := EvalColor(call.Args[1], scope)
		if err != nil {
			return fail(err)
		}
		return color.Mix(a.RGB, b.RGB).Opaque(), nil

	case FuncBrightness, FuncMod:
		c, err := EvalColor(call.Args[0], scope)
		if err != nil {
			return fail(err)
		}
		amount, err := number(call.Args[1])
		if err != nil {
			return fail(err)
		}
		if call.Func == FuncMod {
			amount *= modSign(scope, c.RGB)
		}
		return color.Brightness(amount, c.RGB).WithAlpha(c.A), nil

	case FuncTextColor:
		bg, err := EvalColor(call.Args[0], scope)
		if err != nil {
			return fail(err)
		}
		fg, err := EvalColor(call.Args[1], scope)
		if err != nil {
			return fail(err)
		}
		preserve := true
		if len(call.Args) == 3 {
			preserve, err = preserveMode(call.Args[2])
			if err != nil {
				return fail(err)
			}
		}
		return color.TextColor(bg.RGB, fg.RGB, preserve).Opaque(), nil

	default:
		return fail(fmt.Errorf("%s is not a colour function", call.Func))
	}
}

// borderSide builds a one-pixel line along one side of a box out of a shadow:
// borderSide(color, side = top, alpha = 1, width = 1, inset = inset).
func borderSide(call Call, scope Scope) (color.Shadow, error) {
	fail := func(err error) (color.Shadow, error) {
		return color.Shadow{}, isserrors.NewExpressionError(call.String(), "evaluation failed", err)
	}

	c, err := EvalColor(call.Args[0], scope)
	if err != nil {
		return fail(err)
	}

	side := "top"
	alpha, width := 1.0, 1.0
	inset := true
	if len(call.Args) > 1 {
		side = keyword(call.Args[1])
	}
	if len(call.Args) > 2 {
		if alpha, err = number(call.Args[2]); err != nil {
			return fail(err)
		}
	}
	if len(call.Args) > 3 {
		if width, err = number(call.Args[3]); err != nil {
			return fail(err)
		}
	}
	if len(call.Args) > 4 {
		inset = keyword(call.Args[4]) == "inset"
	}

	layer := color.Shadow{Color: c.RGB, Alpha: alpha, Inset: inset}
	// Inset layers show on the side they are offset towards, outset layers
	// on the opposite one.
	sign := -1.0
	if inset {
		sign = 1
	}
	switch side {
	case "left":
		layer.X = width * sign
	case "right":
		layer.X = -width * sign
	case "top":
		layer.Y = width * sign
	case "bottom":
		layer.Y = -width * sign
	default:
		return fail(fmt.Errorf("unknown side %q", side))
	}
	return layer, nil
}

func number(expr Expr) (float64, error) {
	lit, ok := expr.(Literal)
	if !ok {
		return 0, fmt.Errorf("expected a number, got %s", expr)
	}
	v, err := strconv.ParseFloat(lit.Text, 64)
	if err != nil {
		return 0, fmt.Errorf("expected a number, got %q", lit.Text)
	}
	return v, nil
}

func keyword(expr Expr) string {
	return strings.ToLower(strings.TrimSpace(expr.String()))
}

func preserveMode(expr Expr) (bool, error) {
	switch keyword(expr) {
	case "preserve", "true":
		return true, nil
	case "bw", "no-preserve", "false":
		return false, nil
	default:
		return false, fmt.Errorf("unknown text colour mode %q", expr)
	}
}
