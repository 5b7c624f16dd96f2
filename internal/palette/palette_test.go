package palette

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/purg-com/pleroma-iss/internal/config"
	isserrors "github.com/purg-com/pleroma-iss/pkg/errors"
)

func TestEntries(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		palette *config.Palette
		want    []Entry
	}{
		{
			name:    "nil",
			palette: nil,
			want:    nil,
		},
		{
			name: "mapping keeps order and renames",
			palette: &config.Palette{Name: "dark", Entries: []config.PaletteEntry{
				{Key: "background", Value: "#111111"},
				{Key: "foreground", Value: "#222222"},
				{Key: "accent", Value: "#333333"},
			}},
			want: []Entry{{"bg", "#111111"}, {"fg", "#222222"}, {"accent", "#333333"}},
		},
		{
			name:    "list fills status defaults",
			palette: &config.Palette{Name: "light", List: []string{"light", "#ffffff", "#eeeeee", "#000000", "#0000aa"}},
			want: []Entry{
				{"bg", "#ffffff"}, {"fg", "#eeeeee"}, {"text", "#000000"}, {"link", "#0000aa"},
				{"cRed", "#FF0000"}, {"cGreen", "#00FF00"}, {"cBlue", "#0000FF"}, {"cOrange", "#E3FF00"},
			},
		},
		{
			name:    "list keeps explicit status colours",
			palette: &config.Palette{List: []string{"x", "#000", "#111", "#222", "#333", "#aa0000", "", "#0000aa"}},
			want: []Entry{
				{"bg", "#000"}, {"fg", "#111"}, {"text", "#222"}, {"link", "#333"},
				{"cRed", "#aa0000"}, {"cGreen", "#00FF00"}, {"cBlue", "#0000aa"}, {"cOrange", "#E3FF00"},
			},
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			require.Equal(t, tt.want, Entries(tt.palette))
		})
	}
}

func TestRule(t *testing.T) {
	t.Parallel()

	palette, err := config.DecodePalette([]byte(`
name: ocean
background: "#102030"
foreground: "#203040"
link: "#00aaff"
`), "ocean.yaml")
	require.NoError(t, err)

	rule := Rule(palette)
	require.NotNil(t, rule)
	require.Equal(t, "Root", rule.Component)
	require.Equal(t, map[string]any{
		"--bg":   "color | #102030",
		"--fg":   "color | #203040",
		"--link": "color | #00aaff",
	}, rule.Directives)

	require.Nil(t, Rule(nil))
	require.Nil(t, Rule(&config.Palette{}))
	require.Nil(t, Rule(&config.Palette{Name: "bare"}))
	require.Empty(t, Entries(&config.Palette{Name: "bare"}))
}

func TestValidate(t *testing.T) {
	t.Parallel()

	require.NoError(t, Validate(&config.Palette{List: []string{"ok", "#000000", "#ffffff"}}))

	err := Validate(&config.Palette{Entries: []config.PaletteEntry{{Key: "bg", Value: "--nope"}}})
	var verr *isserrors.ValidationError
	require.ErrorAs(t, err, &verr)
	require.Contains(t, verr.Field, "value")
}
