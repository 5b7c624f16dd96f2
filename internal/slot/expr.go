// Package slot parses and evaluates the small expression language used in
// directive values: colour literals, "--variable[, modifier]" references and
// "$function(arg, ...)" calls.
package slot

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/samber/mo"

	"github.com/purg-com/pleroma-iss/internal/color"
	isserrors "github.com/purg-com/pleroma-iss/pkg/errors"
)

// Expr is a parsed slot expression.
type Expr interface {
	String() string
	isExpr()
}

// Literal is a bare token: a colour, a number or a keyword.
type Literal struct {
	Text string
}

// VarRef references a variable by name, without the leading dashes.
// Modifier shifts the resolved colour's lightness.
type VarRef struct {
	Name     string
	Modifier mo.Option[float64]
}

// Call invokes a slot function with already parsed arguments.
type Call struct {
	Func Func
	Args []Expr
}

func (Literal) isExpr() {}
func (VarRef) isExpr()  {}
func (Call) isExpr()    {}

func (l Literal) String() string { return l.Text }

func (v VarRef) String() string {
	if mod, ok := v.Modifier.Get(); ok {
		return "--" + v.Name + ", " + strconv.FormatFloat(mod, 'f', -1, 64)
	}
	return "--" + v.Name
}

func (c Call) String() string {
	args := make([]string, len(c.Args))
	for i, arg := range c.Args {
		args[i] = arg.String()
	}
	return "$" + c.Func.String() + "(" + strings.Join(args, ", ") + ")"
}

// ParseColor parses a colour-producing expression. Top-level literals must be
// valid colours; calls must name a colour function.
func ParseColor(text string) (Expr, error) {
	expr, err := parse(text, KindColor)
	if err != nil {
		return nil, err
	}
	if lit, ok := expr.(Literal); ok {
		if _, err := color.Parse(lit.Text); err != nil {
			return nil, isserrors.NewExpressionError(text, "invalid colour literal", err)
		}
	}
	return expr, nil
}

// ParseShadow parses a "$function(...)" call from the shadow table.
func ParseShadow(text string) (Call, error) {
	trimmed := strings.TrimSpace(text)
	if !strings.HasPrefix(trimmed, "$") {
		return Call{}, isserrors.NewExpressionError(text, "shadow expression must be a function call", nil)
	}
	expr, err := parse(trimmed, KindShadow)
	if err != nil {
		return Call{}, err
	}
	return expr.(Call), nil
}

// ParseVarRef parses "--name" with an optional ", amount" modifier.
func ParseVarRef(text string) (VarRef, error) {
	trimmed := strings.TrimSpace(text)
	if !strings.HasPrefix(trimmed, "--") {
		return VarRef{}, isserrors.NewExpressionError(text, "variable reference must start with --", nil)
	}

	name, modifier, hasModifier := strings.Cut(trimmed[2:], ",")
	name = strings.TrimSpace(name)
	if name == "" {
		return VarRef{}, isserrors.NewExpressionError(text, "empty variable name", nil)
	}

	ref := VarRef{Name: name}
	if hasModifier {
		amount, err := strconv.ParseFloat(strings.TrimSpace(modifier), 64)
		if err != nil {
			return VarRef{}, isserrors.NewExpressionError(text, "invalid modifier", err)
		}
		ref.Modifier = mo.Some(amount)
	}
	return ref, nil
}

// parse reads one expression; calls at the top level use kind's function
// table, nested calls always produce colours.
func parse(text string, kind Kind) (Expr, error) {
	trimmed := strings.TrimSpace(text)
	switch {
	case trimmed == "":
		return nil, isserrors.NewExpressionError(text, "empty expression", nil)
	case strings.HasPrefix(trimmed, "$"):
		return parseCall(trimmed, kind)
	case strings.HasPrefix(trimmed, "--"):
		return ParseVarRef(trimmed)
	default:
		return Literal{Text: trimmed}, nil
	}
}

func parseCall(text string, kind Kind) (Expr, error) {
	open := strings.IndexByte(text, '(')
	if open < 0 || !strings.HasSuffix(text, ")") {
		return nil, isserrors.NewExpressionError(text, "malformed function call", nil)
	}

	name := strings.TrimSpace(text[1:open])
	fn, ok := lookup(kind, name)
	if !ok {
		return nil, isserrors.NewExpressionError(text, fmt.Sprintf("unknown %s function %q", kind, name), nil)
	}

	rawArgs := color.SplitArgs(text[open+1 : len(text)-1])
	spec := specs[fn]
	if len(rawArgs) < spec.minArgs || len(rawArgs) > spec.maxArgs {
		return nil, isserrors.NewExpressionError(text,
			fmt.Sprintf("%s expects %s arguments, got %d", name, spec.arity(), len(rawArgs)), nil)
	}

	args := make([]Expr, 0, len(rawArgs))
	for _, raw := range rawArgs {
		arg, err := parse(raw, KindColor)
		if err != nil {
			return nil, err
		}
		args = append(args, arg)
	}
	return Call{Func: fn, Args: args}, nil
}
