package components

import (
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/purg-com/pleroma-iss/internal/iss"
	"github.com/purg-com/pleroma-iss/internal/logger"
	isserrors "github.com/purg-com/pleroma-iss/pkg/errors"
)

func TestFragmentsKeepDeclarationOrder(t *testing.T) {
	t.Parallel()

	var f Fragments
	require.NoError(t, yaml.Unmarshal([]byte("toggled: .toggled\nhover: ':hover'\ndisabled: ':disabled'\n"), &f))
	require.Equal(t, []string{"toggled", "hover", "disabled"}, f.Keys())

	withNormal := f.WithNormal()
	require.Equal(t, []string{"normal", "toggled", "hover", "disabled"}, withNormal.Keys())
	frag, ok := withNormal.Get("normal")
	require.True(t, ok)
	require.Empty(t, frag)

	out, err := yaml.Marshal(f)
	require.NoError(t, err)
	var back Fragments
	require.NoError(t, yaml.Unmarshal(out, &back))
	require.Equal(t, f.Keys(), back.Keys())
	require.Equal(t, f.Map(), back.Map())
}

func TestFragmentsWithNormalKeepsDeclaredFragment(t *testing.T) {
	t.Parallel()

	f := NewFragments("error", ".error", "normal", ".neutral")
	withNormal := f.WithNormal()
	require.Equal(t, []string{"normal", "error"}, withNormal.Keys())
	frag, _ := withNormal.Get("normal")
	require.Equal(t, ".neutral", frag)
}

func TestFragmentsRejectSequences(t *testing.T) {
	t.Parallel()

	var f Fragments
	require.Error(t, yaml.Unmarshal([]byte("- hover\n- focused\n"), &f))
}

func TestDefinitionRulesStampName(t *testing.T) {
	t.Parallel()

	def := &Definition{
		Name:     "Button",
		Selector: ".button",
		DefaultRules: []*iss.Rule{
			{Directives: map[string]any{"background": "--fg"}},
			{Component: "Text", Parent: &iss.Rule{Component: "Button"}},
		},
	}

	rules := def.Rules()
	require.Equal(t, "Button", rules[0].Component)
	require.Equal(t, "Text", rules[1].Component)
	require.Empty(t, def.DefaultRules[0].Component, "stamping must not edit the definition")
}

func TestDefinitionNames(t *testing.T) {
	t.Parallel()

	def := &Definition{
		Name:     "Button",
		Selector: ".button",
		States:   NewFragments("hover", ":hover", "disabled", ":disabled"),
		Variants: NewFragments("danger", ".danger"),
	}
	require.Equal(t, []string{"hover", "disabled"}, def.StateNames())
	require.Equal(t, []string{"normal", "danger"}, def.VariantNames())

	sel := def.Selectors()
	require.Equal(t, ":hover", sel.States["hover"])
	require.Contains(t, sel.Variants, "normal")
}

func TestRegistryKeepsFirstDefinition(t *testing.T) {
	t.Parallel()

	r := NewRegistry(logger.Nop())
	require.NoError(t, r.Register(&Definition{Name: "Panel", Selector: ".panel"}))
	require.NoError(t, r.Register(&Definition{Name: "Panel", Selector: ".other"}))

	def, ok := r.Get("Panel")
	require.True(t, ok)
	require.Equal(t, ".panel", def.Selector)
	require.Equal(t, 1, r.Len())
}

func TestRegistryRejectsInvalidDefinitions(t *testing.T) {
	t.Parallel()

	r := NewRegistry(nil)
	tests := []struct {
		name string
		def  *Definition
	}{
		{name: "nil", def: nil},
		{name: "missing selector", def: &Definition{Name: "Panel"}},
		{name: "lowercase name", def: &Definition{Name: "panel", Selector: ".panel"}},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			var verr *isserrors.ValidationError
			require.ErrorAs(t, r.Register(tt.def), &verr)
		})
	}
}

func TestRegistryPriorityOrder(t *testing.T) {
	t.Parallel()

	r := NewRegistry(nil, "Root", "Text")
	for _, name := range []string{"Panel", "Text", "Button", "Root"} {
		require.NoError(t, r.Register(&Definition{Name: name, Selector: "." + name}))
	}
	require.Equal(t, []string{"Root", "Text", "Panel", "Button"}, r.Names())
}

func TestRegistryValidate(t *testing.T) {
	t.Parallel()

	t.Run("missing root", func(t *testing.T) {
		t.Parallel()
		r := NewRegistry(nil)
		require.NoError(t, r.Register(&Definition{Name: "Panel", Selector: ".panel"}))
		var verr *isserrors.ValidationError
		require.ErrorAs(t, r.Validate(), &verr)
	})

	t.Run("unknown inner components are skipped", func(t *testing.T) {
		t.Parallel()
		r := NewRegistry(nil)
		require.NoError(t, r.Register(&Definition{Name: "Root", Selector: ":root", ValidInnerComponents: []string{"Ghost"}}))
		require.NoError(t, r.Validate())

		graph, unknown := r.Graph()
		require.Equal(t, []string{"Root -> Ghost"}, unknown)
		require.Empty(t, graph.Children("Root"))
	})

	t.Run("cycle", func(t *testing.T) {
		t.Parallel()
		r := NewRegistry(nil)
		require.NoError(t, r.Register(&Definition{Name: "Root", Selector: ":root", ValidInnerComponents: []string{"Panel"}}))
		require.NoError(t, r.Register(&Definition{Name: "Panel", Selector: ".panel", ValidInnerComponents: []string{"Post"}}))
		require.NoError(t, r.Register(&Definition{Name: "Post", Selector: ".post", ValidInnerComponents: []string{"Panel"}}))

		err := r.Validate()
		var verr *isserrors.ValidationError
		require.ErrorAs(t, err, &verr)
		require.Contains(t, err.Error(), "Panel -> Post -> Panel")
	})
}

func TestNestingGraphLevels(t *testing.T) {
	t.Parallel()

	g := NewNestingGraph()
	g.AddEdge("Root", "Underlay")
	g.AddEdge("Root", "Button")
	g.AddEdge("Underlay", "Panel")
	g.AddEdge("Panel", "Button")

	require.Nil(t, g.DetectCycle())
	require.Equal(t, [][]string{{"Root"}, {"Button", "Underlay"}, {"Panel"}}, g.Levels("Root"))
	require.Nil(t, g.Levels("Missing"))
	require.Equal(t, []string{"Underlay", "Button"}, g.Children("Root"))
}

func TestLoadBuiltin(t *testing.T) {
	t.Parallel()

	r, err := LoadBuiltin(logger.Nop())
	require.NoError(t, err)

	names := r.Names()
	require.Equal(t, DefaultPriority, names[:len(DefaultPriority)])

	root, ok := r.Get(RootName)
	require.True(t, ok)
	require.Equal(t, iss.RootSelector, root.Selector)
	require.NotEmpty(t, root.DefaultRules)

	text, ok := r.Get("Text")
	require.True(t, ok)
	require.True(t, text.Virtual)

	post, ok := r.Get("Post")
	require.True(t, ok)
	require.True(t, post.Lazy)

	button, ok := r.Get("Button")
	require.True(t, ok)
	require.Equal(t, []string{"disabled", "toggled", "pressed", "hover", "focused"}, button.StateNames())

	_, unknown := r.Graph()
	require.Empty(t, unknown)
}

func TestLoadDirExtendsRegistry(t *testing.T) {
	t.Parallel()

	r, err := LoadBuiltin(nil)
	require.NoError(t, err)

	fsys := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fsys, "extra/shoutbox.yaml", []byte("name: Shoutbox\nselector: .shout-panel\nvalidInnerComponents: [Text, Link]\n"), 0o644))
	require.NoError(t, afero.WriteFile(fsys, "extra/panel.yaml", []byte("name: Panel\nselector: .not-a-panel\n"), 0o644))
	require.NoError(t, afero.WriteFile(fsys, "extra/notes.txt", []byte("ignored"), 0o644))

	require.NoError(t, LoadDir(r, fsys, "extra"))

	shout, ok := r.Get("Shoutbox")
	require.True(t, ok)
	require.Equal(t, []string{"Text", "Link"}, shout.ValidInnerComponents)

	panel, _ := r.Get("Panel")
	require.Equal(t, ".panel", panel.Selector)
}

func TestDecodeDefinitionErrors(t *testing.T) {
	t.Parallel()

	_, err := DecodeDefinition([]byte("name: [oops"), "broken.yaml")
	var perr *isserrors.ParseError
	require.ErrorAs(t, err, &perr)

	_, err = DecodeDefinition([]byte("selector: .x\n"), "nameless.yaml")
	var verr *isserrors.ValidationError
	require.ErrorAs(t, err, &verr)
}
