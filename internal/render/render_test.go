package render

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/purg-com/pleroma-iss/internal/color"
	"github.com/purg-com/pleroma-iss/internal/directive"
	"github.com/purg-com/pleroma-iss/internal/engine"
)

func TestTableAlignsWideRunes(t *testing.T) {
	t.Parallel()

	table := &Table{Headers: []string{"NAME", "COUNT"}}
	table.AddRow("Panel", "4")
	table.AddRow("パネル", "12")

	lines := strings.Split(strings.TrimRight(table.Render(PlainTheme()), "\n"), "\n")
	require.Equal(t, []string{
		"NAME    COUNT",
		"Panel   4",
		"パネル  12",
	}, lines)
}

func TestTableTruncatesCells(t *testing.T) {
	t.Parallel()

	table := &Table{MaxCell: 8}
	table.AddRow("#content .panel .button", "x")

	require.Equal(t, "#cont...  x\n", table.Render(PlainTheme()))
}

func TestSwatch(t *testing.T) {
	t.Parallel()

	c := color.RGB{R: 0x12, G: 0x1a, B: 0x24}.Opaque()
	require.Equal(t, " bg   ", PlainTheme().Swatch("bg", c))

	styled := DefaultTheme().Swatch("bg", c)
	require.Contains(t, styled, "bg")
}

func TestPalettePlain(t *testing.T) {
	t.Parallel()

	vars := map[string]directive.Resolved{
		"bg":     directive.ResolvedColor(color.RGB{R: 0x12, G: 0x1a, B: 0x24}.Opaque()),
		"accent": directive.ResolvedColor(color.RGB{R: 0xd8, G: 0xa0, B: 0x70}.WithAlpha(0.5)),
		"radius": directive.ResolvedScalar(4),
	}

	out := PlainTheme().Palette("static", vars)
	lines := strings.Split(out, "\n")
	for i := range lines {
		lines[i] = strings.TrimRight(lines[i], " ")
	}
	require.Len(t, lines, 4)
	require.Equal(t, "static", lines[0])
	require.True(t, strings.HasPrefix(lines[1], "accent"))
	require.True(t, strings.HasSuffix(lines[1], "rgba(216, 160, 112, 0.5)"))
	require.True(t, strings.HasSuffix(lines[2], "#121a24"))
	require.True(t, strings.HasSuffix(lines[3], "4"))
}

func TestCSS(t *testing.T) {
	t.Parallel()

	static := map[string]directive.Resolved{
		"bg": directive.ResolvedColor(color.RGB{R: 0x11, G: 0x22, B: 0x33}.Opaque()),
	}
	rules := []engine.ResolvedRule{{
		Selector:  ".panel",
		Component: "Panel",
		Directives: map[string]directive.Resolved{
			"background": directive.ResolvedColor(color.White.Opaque()),
			"--accent":   directive.ResolvedColor(color.Black.WithAlpha(0.25)),
		},
		Virtual: map[string]directive.Resolved{
			"--text": directive.ResolvedColor(color.Black.Opaque()),
		},
	}}

	var buf bytes.Buffer
	require.NoError(t, CSS(&buf, static, rules))
	require.Equal(t, ":root {\n"+
		"  --bg: #112233;\n"+
		"}\n\n"+
		".panel {\n"+
		"  --accent: rgba(0, 0, 0, 0.25);\n"+
		"  --background: #ffffff;\n"+
		"  --text: #000000;\n"+
		"}\n\n", buf.String())
}

func TestForWriterIsPlainForBuffers(t *testing.T) {
	t.Parallel()

	require.False(t, ForWriter(&bytes.Buffer{}).Colour)
}
