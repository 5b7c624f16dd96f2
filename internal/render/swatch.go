package render

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/purg-com/pleroma-iss/internal/color"
	"github.com/purg-com/pleroma-iss/internal/directive"
	"github.com/purg-com/pleroma-iss/internal/engine"
)

const swatchWidth = 6

// Swatch renders label on a block of c, with black or white text picked
// for contrast. Plain themes return the label alone.
func (t Theme) Swatch(label string, c color.RGBA) string {
	block := runewidth.FillRight(" "+label, swatchWidth)
	if !t.Colour {
		return block
	}
	fg := color.BlackOrWhite(c.RGB)
	return lipgloss.NewStyle().
		Background(lipgloss.Color(c.Hex())).
		Foreground(lipgloss.Color(fg.Hex())).
		Render(block)
}

// Palette renders static variables as a card: one line per variable with
// its swatch and CSS value. Shadows and other kinds only show their value.
func (t Theme) Palette(title string, vars map[string]directive.Resolved) string {
	names := engine.StaticNames(vars)
	width := 0
	for _, name := range names {
		if w := runewidth.StringWidth(name); w > width {
			width = w
		}
	}

	lines := make([]string, 0, len(names)+1)
	if title != "" {
		lines = append(lines, t.Style(t.Title, Bold).Render(title))
	}
	for _, name := range names {
		v := vars[name]
		sample := strings.Repeat(" ", swatchWidth)
		if v.Kind == directive.KindColor {
			sample = t.Swatch("", v.Color)
		}
		lines = append(lines, runewidth.FillRight(name, width)+"  "+sample+"  "+t.Muted.Render(v.CSS()))
	}
	return t.Card.Render(strings.Join(lines, "\n"))
}
