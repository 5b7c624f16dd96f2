package iss

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNormalizeFillsDefaults(t *testing.T) {
	t.Parallel()

	rule := &Rule{
		Component: "Button",
		State:     []string{"hover", "hover"},
		Parent:    &Rule{Component: "Panel"},
	}

	got := Normalize(rule)
	require.Equal(t, Normal, got.Variant)
	require.Equal(t, []string{Normal, "hover"}, got.State)
	require.Equal(t, Normal, got.Parent.Variant)
	require.Equal(t, []string{Normal}, got.Parent.State)
	require.True(t, IsNormalized(got))

	require.Empty(t, rule.Variant, "input must stay untouched")
	require.False(t, IsNormalized(rule))
}

func TestNormalizeIsIdempotent(t *testing.T) {
	t.Parallel()

	once := Normalize(&Rule{Component: "Tab", Variant: "compact", State: []string{"active", Normal}})
	twice := Normalize(once)
	require.Equal(t, once, twice)
	require.Equal(t, []string{Normal, "active"}, twice.State)
}

func TestUnrollAndPath(t *testing.T) {
	t.Parallel()

	root := &Rule{Component: "Root"}
	panel := &Rule{Component: "Panel", Parent: root}
	button := &Rule{Component: "Button", Variant: "danger", State: []string{Normal, "hover"}, Parent: panel}

	require.Equal(t, []*Rule{button, panel, root}, Unroll(button))
	require.Equal(t, 3, Depth(button))
	require.Empty(t, Unroll(nil))
	require.Equal(t, "Root > Panel > Button.danger:hover", button.Path())
}

func TestAllPossibleCombinations(t *testing.T) {
	t.Parallel()

	for n := 0; n <= 6; n++ {
		items := []string{"a", "b", "c", "d", "e", "f"}[:n]
		combos := AllPossibleCombinations(items)
		require.Len(t, combos, (1<<n)-1, "n=%d", n)

		seen := map[string]struct{}{}
		for _, combo := range combos {
			key := strings.Join(combo, ",")
			_, dup := seen[key]
			require.False(t, dup, "duplicate subset %s", key)
			seen[key] = struct{}{}
		}
	}

	require.Equal(t, [][]string{
		{"a"}, {"b"}, {"c"},
		{"a", "b"}, {"a", "c"}, {"b", "c"},
		{"a", "b", "c"},
	}, AllPossibleCombinations([]string{"a", "b", "c"}))
}

func TestStateCombinationsExcludeDisabledInteractions(t *testing.T) {
	t.Parallel()

	combos := StateCombinations([]string{"hover", "focused", "disabled"})
	keys := make([]string, len(combos))
	for i, combo := range combos {
		keys[i] = strings.Join(combo, ",")
	}

	require.Equal(t, "normal", keys[0])
	for _, want := range []string{"normal,hover", "normal,focused", "normal,focused,hover", "normal,disabled"} {
		require.Contains(t, keys, want)
	}
	for _, key := range keys {
		if strings.Contains(key, "disabled") {
			require.NotContains(t, key, "hover")
			require.NotContains(t, key, "focused")
		}
	}
	require.Len(t, combos, 5)
}

func TestStateCombinationsIgnoresNormal(t *testing.T) {
	t.Parallel()

	require.Equal(t, [][]string{{Normal}}, StateCombinations(nil))
	require.Equal(t, [][]string{{Normal}, {Normal, "pressed"}}, StateCombinations([]string{Normal, "pressed"}))
}

func testSelectors() *SelectorBuilder {
	defs := map[string]ComponentSelectors{
		"Root":   {Selector: RootSelector},
		"Panel":  {Selector: ".panel"},
		"TopBar": {Selector: "nav"},
		"Button": {
			Selector: ".button",
			States:   map[string]string{"hover": ":hover", "toggled": ".toggled"},
			Variants: map[string]string{"danger": ".danger"},
		},
		"Popover": {Selector: ".popover", OutOfTreeSelector: ".popover-oot"},
		"Alert":   {Selector: ".alert", Variants: map[string]string{Normal: ".neutral"}},
	}
	return NewSelectorBuilder(func(name string) (ComponentSelectors, bool) {
		def, ok := defs[name]
		return def, ok
	})
}

func TestSelectorOrdering(t *testing.T) {
	t.Parallel()

	b := testSelectors()
	tests := []struct {
		name string
		rule *Rule
		want string
	}{
		{
			name: "pseudo class after base",
			rule: &Rule{Component: "Button", State: []string{Normal, "hover"}},
			want: ".button:hover",
		},
		{
			name: "class state and variant keep declaration order before pseudo",
			rule: &Rule{Component: "Button", Variant: "danger", State: []string{Normal, "hover", "toggled"}},
			want: ".button.danger.toggled:hover",
		},
		{
			name: "element selector first",
			rule: &Rule{Component: "TopBar", State: []string{Normal}},
			want: "nav",
		},
		{
			name: "root contributes nothing",
			rule: &Rule{Component: "Panel", Parent: &Rule{Component: "Root"}},
			want: ".panel",
		},
		{
			name: "normal variant fragment",
			rule: &Rule{Component: "Alert", Variant: Normal},
			want: ".alert.neutral",
		},
		{
			name: "nested chain",
			rule: &Rule{
				Component: "Button",
				State:     []string{Normal, "hover"},
				Parent:    &Rule{Component: "Panel", Parent: &Rule{Component: "Root"}},
			},
			want: ".panel .button:hover",
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			require.Equal(t, tt.want, b.CSS(tt.rule))
		})
	}
}

func TestSelectorOutOfTree(t *testing.T) {
	t.Parallel()

	b := testSelectors()
	popover := &Rule{Component: "Popover", Parent: &Rule{Component: "Panel"}}
	require.Equal(t, ".panel .popover-oot", b.CSS(popover))
	require.Equal(t, ".panel .popover", b.Path(popover))

	nested := &Rule{Component: "Button", Parent: popover}
	require.Equal(t, ".panel .popover .button", b.CSS(nested))
}

func TestCombinationsMatch(t *testing.T) {
	t.Parallel()

	criteria := &Rule{Component: "Button", Variant: "danger", State: []string{Normal, "hover"}}
	tests := []struct {
		name    string
		subject *Rule
		strict  bool
		want    bool
	}{
		{name: "normal inherits", subject: &Rule{Component: "Button", Variant: Normal, State: []string{Normal}}, want: true},
		{name: "normal strict", subject: &Rule{Component: "Button", Variant: Normal, State: []string{Normal}}, strict: true, want: false},
		{name: "other component", subject: &Rule{Component: "Tab", Variant: Normal, State: []string{Normal}}, want: false},
		{name: "other variant", subject: &Rule{Component: "Button", Variant: "ok", State: []string{Normal}}, want: false},
		{name: "same state set any order", subject: &Rule{Component: "Button", Variant: "danger", State: []string{"hover", Normal}}, strict: true, want: true},
		{name: "partial state set", subject: &Rule{Component: "Button", Variant: Normal, State: []string{Normal, "pressed"}}, want: false},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			require.Equal(t, tt.want, CombinationsMatch(criteria, tt.subject, tt.strict))
		})
	}
}

func TestFindRulesParentChains(t *testing.T) {
	t.Parallel()

	n := func(component string, parent *Rule) *Rule {
		return Normalize(&Rule{Component: component, Parent: parent})
	}

	criteria := n("Text", n("Button", n("Panel", n("Root", nil))))

	tests := []struct {
		name    string
		subject *Rule
		want    bool
	}{
		{name: "parentless applies everywhere", subject: n("Text", nil), want: true},
		{name: "direct parent", subject: n("Text", n("Button", nil)), want: true},
		{name: "full chain", subject: n("Text", n("Button", n("Panel", n("Root", nil)))), want: true},
		{name: "wrong direct parent", subject: n("Text", n("Tab", nil)), want: false},
		{name: "wrong grandparent", subject: n("Text", n("Button", n("Popover", nil))), want: false},
		{name: "longer than criteria", subject: n("Text", n("Button", n("Panel", n("Root", n("Root", nil))))), want: false},
		{name: "other component", subject: n("Icon", n("Button", nil)), want: false},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			require.Equal(t, tt.want, FindRules(criteria, false)(tt.subject))
		})
	}
}

func TestFindRulesWithoutParentRejectsSpecificRules(t *testing.T) {
	t.Parallel()

	criteria := Normalize(&Rule{Component: "Root"})
	require.True(t, FindRules(criteria, false)(Normalize(&Rule{Component: "Root"})))
	require.False(t, FindRules(criteria, false)(Normalize(&Rule{Component: "Root", Parent: &Rule{Component: "Root"}})))
}

func TestFindRulesStrictRequiresExactParent(t *testing.T) {
	t.Parallel()

	criteria := Normalize(&Rule{Component: "Panel", State: []string{"hover"}, Parent: &Rule{Component: "Root"}})
	ruleset := []*Rule{
		Normalize(&Rule{Component: "Panel", Parent: &Rule{Component: "Root"}}),
		Normalize(&Rule{Component: "Panel", State: []string{"hover"}, Parent: &Rule{Component: "Root"}}),
		Normalize(&Rule{Component: "Panel", State: []string{"hover"}}),
	}

	// A parentless subject runs out before any disagreement, so it still
	// matches in strict mode; only the state set has to be exact.
	got := Filter(ruleset, FindRules(criteria, true))
	require.Equal(t, []*Rule{ruleset[1], ruleset[2]}, got)

	loose := Filter(ruleset, FindRules(criteria, false))
	require.Len(t, loose, 3)
}

func TestSortRuleset(t *testing.T) {
	t.Parallel()

	panel := &Rule{Component: "Panel"}
	nestedText := &Rule{Component: "Text", Parent: &Rule{Component: "Panel"}}
	nestedIcon := &Rule{Component: "Icon", Parent: &Rule{Component: "Panel"}}
	text := &Rule{Component: "Text"}
	button := &Rule{Component: "Button"}

	got := SortRuleset([]*Rule{nestedIcon, panel, nestedText, button, text})
	require.Equal(t, []*Rule{text, panel, button, nestedText, nestedIcon}, got)
}
