package engine

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/purg-com/pleroma-iss/internal/color"
	"github.com/purg-com/pleroma-iss/internal/components"
	"github.com/purg-com/pleroma-iss/internal/directive"
	"github.com/purg-com/pleroma-iss/internal/logger"
)

func TestResolveBuiltinComponents(t *testing.T) {
	t.Parallel()

	registry, err := components.LoadBuiltin(logger.Nop())
	require.NoError(t, err)

	result, err := Resolve(context.Background(), registry, nil, "#000000", Options{Logger: logger.Nop()})
	require.NoError(t, err)
	require.Positive(t, result.EagerCombinations)

	roots := byComponent(result.Eager, components.RootName)
	require.Len(t, roots, 1)
	require.Equal(t, ":root", roots[0].Selector)
	for _, key := range []string{"--bg", "--fg", "--text", "--link", "--accent"} {
		require.Contains(t, roots[0].Directives, key)
		require.NotEqual(t, color.Invalid, roots[0].Directives[key].Color.RGB, key)
	}

	require.Equal(t, "#121a24", result.StaticVars["bg"].CSS())
	require.Equal(t, "#d8a070", result.StaticVars["accent"].CSS())
	require.Equal(t, directive.KindShadow, result.StaticVars["defaultButtonBevel"].Kind)
	require.Len(t, result.StaticVars["defaultButtonBevel"].Shadow, 2)
	require.NotContains(t, result.StaticVars, "font")

	var panel *ResolvedRule
	for i, rule := range result.Eager {
		if rule.Component == "Panel" && rule.Selector == "#content .panel" {
			panel = &result.Eager[i]
		}
	}
	require.NotNil(t, panel)
	require.Equal(t, "#121a24", panel.Directives["background"].CSS())
	require.Equal(t, "#b9b9ba", panel.Virtual["--text"].CSS())
	require.Equal(t, "rgba(185, 185, 186, 0.5)", panel.Virtual["--textFaint"].CSS())

	underlay := byComponent(result.Eager, "Underlay")
	require.Len(t, underlay, 1)
	require.Equal(t, ".underlay", underlay[0].Selector)

	require.Empty(t, byComponent(result.Eager, "Post"))
	require.Empty(t, byComponent(result.Eager, "Text"))

	lazy, err := result.Lazy.Wait(context.Background())
	require.NoError(t, err)
	posts := byComponent(lazy, "Post")
	require.NotEmpty(t, posts)
	for _, post := range posts {
		require.True(t, strings.HasSuffix(post.Selector, ".Status") || strings.HasSuffix(post.Selector, ".Status.-selected"), post.Selector)
	}
	require.NotEmpty(t, byComponent(lazy, "ChatMessage"))
}

func TestGeneratePlanBuiltin(t *testing.T) {
	t.Parallel()

	registry, err := components.LoadBuiltin(logger.Nop())
	require.NoError(t, err)

	plan, err := GeneratePlan(registry)
	require.NoError(t, err)
	require.NotEmpty(t, plan.Levels)
	require.Equal(t, []string{components.RootName}, plan.Levels[0].Components)
	require.Equal(t, 1, plan.Levels[0].Combinations[components.RootName])

	var lazy, virtual []string
	for _, level := range plan.Levels {
		lazy = append(lazy, level.Lazy...)
		virtual = append(virtual, level.Virtual...)
	}
	require.Contains(t, lazy, "Post")
	require.Contains(t, virtual, "Text")

	out := plan.String()
	require.True(t, strings.HasPrefix(out, "Level 0 (1 components): Root(1)"))
}

func TestGeneratePlanRejectsInvalidRegistry(t *testing.T) {
	t.Parallel()

	_, err := GeneratePlan(nil)
	require.Error(t, err)

	registry := testRegistry(t, panel(nil, nil))
	_, err = GeneratePlan(registry)
	require.Error(t, err)
}

func TestCombinationCount(t *testing.T) {
	t.Parallel()

	button := &components.Definition{
		Name:     "Button",
		Selector: ".button",
		States: components.NewFragments(
			"disabled", ":disabled",
			"toggled", ".toggled",
			"pressed", ":active",
			"hover", ":hover",
			"focused", ":focus-within",
		),
		Variants: components.NewFragments("danger", ".danger"),
	}
	// 32 state sets minus 14 pairing disabled with hover, focused or
	// pressed, times two variants.
	require.Equal(t, 36, CombinationCount(button))
	require.Equal(t, 1, CombinationCount(&components.Definition{Name: "Root", Selector: ":root"}))
	require.Zero(t, CombinationCount(nil))
}
