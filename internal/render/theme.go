// Package render formats resolved themes for the terminal: colour swatches,
// padded tables and CSS-like rule listings.
package render

import (
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"
)

// Theme groups the styles used by command output. Colour is false for
// plain output, where swatches fall back to text.
type Theme struct {
	Title  lipgloss.Style
	Header lipgloss.Style
	Muted  lipgloss.Style
	Error  lipgloss.Style
	Card   lipgloss.Style
	Colour bool
}

// StyleApplier modifies a style in the context of a theme.
type StyleApplier interface {
	Apply(base lipgloss.Style, theme Theme) lipgloss.Style
}

// StyleFunc implements StyleApplier for a function type.
type StyleFunc func(lipgloss.Style, Theme) lipgloss.Style

func (fn StyleFunc) Apply(base lipgloss.Style, theme Theme) lipgloss.Style {
	return fn(base, theme)
}

// Style applies appliers to base in order.
func (t Theme) Style(base lipgloss.Style, appliers ...StyleApplier) lipgloss.Style {
	for _, applier := range appliers {
		base = applier.Apply(base, t)
	}
	return base
}

// Bold emphasises text, only when colour output is on.
var Bold = StyleFunc(func(s lipgloss.Style, t Theme) lipgloss.Style {
	if !t.Colour {
		return s
	}
	return s.Bold(true)
})

// DefaultTheme is used on terminals.
func DefaultTheme() Theme {
	ac := func(light, dark string) lipgloss.AdaptiveColor {
		return lipgloss.AdaptiveColor{Light: light, Dark: dark}
	}

	return Theme{
		Title:  lipgloss.NewStyle().Bold(true).Foreground(ac("#1d4ed8", "#60a5fa")),
		Header: lipgloss.NewStyle().Bold(true).Foreground(ac("#111827", "#f9fafb")),
		Muted:  lipgloss.NewStyle().Foreground(ac("#64748b", "#94a3b8")),
		Error:  lipgloss.NewStyle().Bold(true).Foreground(ac("#dc2626", "#f87171")),
		Card: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ac("#cbd5e1", "#334155")).
			Padding(0, 1),
		Colour: true,
	}
}

// PlainTheme renders without escape sequences or borders.
func PlainTheme() Theme {
	plain := lipgloss.NewStyle()
	return Theme{Title: plain, Header: plain, Muted: plain, Error: plain, Card: plain}
}

// ForWriter picks DefaultTheme when w is a terminal and PlainTheme otherwise.
func ForWriter(w io.Writer) Theme {
	if file, ok := w.(*os.File); ok && term.IsTerminal(int(file.Fd())) {
		return DefaultTheme()
	}
	return PlainTheme()
}
