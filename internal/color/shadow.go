package color

import (
	"fmt"
	"strconv"
	"strings"
)

// Shadow is one fully resolved box-shadow layer.
type Shadow struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Blur   float64 `json:"blur"`
	Spread float64 `json:"spread"`
	Color  RGB     `json:"color"`
	Alpha  float64 `json:"alpha"`
	Inset  bool    `json:"inset,omitempty"`
}

// CSS formats one layer, e.g. "inset 0px 1px 2px 0px rgba(0, 0, 0, 0.5)".
func (s Shadow) CSS() string {
	var b strings.Builder
	if s.Inset {
		b.WriteString("inset ")
	}
	fmt.Fprintf(&b, "%spx %spx %spx %spx %s",
		formatFloat(s.X), formatFloat(s.Y), formatFloat(s.Blur), formatFloat(s.Spread),
		s.Color.WithAlpha(s.Alpha).CSS())
	return b.String()
}

// ShadowsCSS joins layers into one box-shadow value; no layers means "none".
func ShadowsCSS(layers []Shadow) string {
	if len(layers) == 0 {
		return "none"
	}
	parts := make([]string, len(layers))
	for i, layer := range layers {
		parts[i] = layer.CSS()
	}
	return strings.Join(parts, ", ")
}

// ParseShadows reads a CSS box-shadow value with one or more comma separated
// layers. Each layer takes two to four lengths, an optional colour and an
// optional "inset" keyword in any position.
func ParseShadows(value string) ([]Shadow, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" || trimmed == "none" {
		return nil, nil
	}

	var layers []Shadow
	for _, part := range splitTopLevel(trimmed, ',') {
		layer, err := parseShadowLayer(part)
		if err != nil {
			return nil, err
		}
		layers = append(layers, layer)
	}
	return layers, nil
}

func parseShadowLayer(part string) (Shadow, error) {
	layer := Shadow{Color: Black, Alpha: 1}
	var lengths []float64

	for _, token := range splitTopLevel(part, ' ') {
		switch {
		case token == "":
			continue
		case strings.EqualFold(token, "inset"):
			layer.Inset = true
		case isLength(token):
			v, err := strconv.ParseFloat(strings.TrimSuffix(token, "px"), 64)
			if err != nil {
				return Shadow{}, fmt.Errorf("invalid shadow length %q: %w", token, err)
			}
			lengths = append(lengths, v)
		default:
			c, err := Parse(token)
			if err != nil {
				return Shadow{}, fmt.Errorf("invalid shadow %q: %w", part, err)
			}
			layer.Color = c.RGB
			layer.Alpha = c.A
		}
	}

	if len(lengths) < 2 || len(lengths) > 4 {
		return Shadow{}, fmt.Errorf("invalid shadow %q: expected 2 to 4 lengths, got %d", part, len(lengths))
	}
	layer.X, layer.Y = lengths[0], lengths[1]
	if len(lengths) > 2 {
		layer.Blur = lengths[2]
	}
	if len(lengths) > 3 {
		layer.Spread = lengths[3]
	}
	return layer, nil
}

func isLength(token string) bool {
	if token == "" {
		return false
	}
	c := token[0]
	return c == '-' || c == '+' || c == '.' || (c >= '0' && c <= '9')
}

// splitTopLevel splits s on sep while ignoring separators nested in parentheses.
func splitTopLevel(s string, sep rune) []string {
	var (
		parts []string
		depth int
		start int
	)
	for i, r := range s {
		switch r {
		case '(':
			depth++
		case ')':
			if depth > 0 {
				depth--
			}
		case sep:
			if depth == 0 {
				parts = append(parts, strings.TrimSpace(s[start:i]))
				start = i + 1
			}
		}
	}
	parts = append(parts, strings.TrimSpace(s[start:]))
	return parts
}

// SplitArgs splits a comma separated argument list, respecting nested calls.
func SplitArgs(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	return splitTopLevel(s, ',')
}
