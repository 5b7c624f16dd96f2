// Package color implements the colour primitives used by the theme compiler:
// CSS colour parsing and formatting, alpha compositing, luminance and
// contrast-driven text colour selection, and box-shadow parsing.
package color

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
)

// RGB is an opaque colour with 8-bit channels.
type RGB struct {
	R uint8 `json:"r"`
	G uint8 `json:"g"`
	B uint8 `json:"b"`
}

// RGBA is an RGB colour with an alpha in the range [0, 1].
type RGBA struct {
	RGB
	A float64 `json:"a"`
}

// Invalid is the placeholder substituted for colours that failed to parse or
// evaluate. Bright magenta makes the breakage obvious to theme authors.
var Invalid = RGB{R: 0xFF, G: 0x00, B: 0xFF}

var (
	Black = RGB{}
	White = RGB{R: 0xFF, G: 0xFF, B: 0xFF}
)

// Opaque wraps c with full alpha.
func (c RGB) Opaque() RGBA {
	return RGBA{RGB: c, A: 1}
}

// WithAlpha wraps c with the given alpha clamped to [0, 1].
func (c RGB) WithAlpha(a float64) RGBA {
	return RGBA{RGB: c, A: clamp01(a)}
}

// Hex formats c as lower-case #rrggbb.
func (c RGB) Hex() string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

func (c RGB) String() string {
	return c.Hex()
}

// CSS formats c as hex when fully opaque and as rgba() otherwise.
func (c RGBA) CSS() string {
	if c.A >= 1 {
		return c.Hex()
	}
	return fmt.Sprintf("rgba(%d, %d, %d, %s)", c.R, c.G, c.B, formatFloat(c.A))
}

func (c RGB) colorful() colorful.Color {
	return colorful.Color{R: float64(c.R) / 255, G: float64(c.G) / 255, B: float64(c.B) / 255}
}

func fromColorful(c colorful.Color) RGB {
	r, g, b := c.Clamped().RGB255()
	return RGB{R: r, G: g, B: b}
}

// Parse reads a CSS colour literal: #rgb, #rrggbb, #rrggbbaa, rgb(), rgba(),
// a named colour or "transparent".
func Parse(s string) (RGBA, error) {
	value := strings.ToLower(strings.TrimSpace(s))
	switch {
	case value == "":
		return RGBA{}, fmt.Errorf("empty colour")
	case value == "transparent":
		return RGBA{A: 0}, nil
	case strings.HasPrefix(value, "#"):
		return parseHex(value)
	case strings.HasPrefix(value, "rgb"):
		return parseFunctional(value)
	}

	if named, ok := namedColors[value]; ok {
		return named.Opaque(), nil
	}
	return RGBA{}, fmt.Errorf("unrecognised colour %q", s)
}

// IsLiteral reports whether s looks like a colour literal rather than a
// variable reference or function call.
func IsLiteral(s string) bool {
	value := strings.ToLower(strings.TrimSpace(s))
	if value == "transparent" || strings.HasPrefix(value, "#") || strings.HasPrefix(value, "rgb") {
		return true
	}
	_, ok := namedColors[value]
	return ok
}

func parseHex(value string) (RGBA, error) {
	body := value[1:]
	alpha := 1.0
	switch len(body) {
	case 3, 6:
	case 8:
		a, err := strconv.ParseUint(body[6:], 16, 8)
		if err != nil {
			return RGBA{}, fmt.Errorf("invalid hex colour %q: %w", value, err)
		}
		alpha = float64(a) / 255
		body = body[:6]
	default:
		return RGBA{}, fmt.Errorf("invalid hex colour %q: expected 3, 6 or 8 digits", value)
	}

	c, err := colorful.Hex("#" + body)
	if err != nil {
		return RGBA{}, fmt.Errorf("invalid hex colour %q: %w", value, err)
	}
	return fromColorful(c).WithAlpha(alpha), nil
}

func parseFunctional(value string) (RGBA, error) {
	open := strings.IndexByte(value, '(')
	if open < 0 || !strings.HasSuffix(value, ")") {
		return RGBA{}, fmt.Errorf("invalid colour function %q", value)
	}
	name := value[:open]
	args := strings.FieldsFunc(value[open+1:len(value)-1], func(r rune) bool {
		return r == ',' || r == ' ' || r == '/'
	})

	switch {
	case name == "rgb" && len(args) == 3, name == "rgba" && len(args) == 4, name == "rgb" && len(args) == 4:
	default:
		return RGBA{}, fmt.Errorf("invalid colour function %q: wrong argument count", value)
	}

	var channels [3]uint8
	for i := 0; i < 3; i++ {
		channel, err := parseChannel(args[i])
		if err != nil {
			return RGBA{}, fmt.Errorf("invalid colour function %q: %w", value, err)
		}
		channels[i] = channel
	}

	alpha := 1.0
	if len(args) == 4 {
		a, err := parseAlpha(args[3])
		if err != nil {
			return RGBA{}, fmt.Errorf("invalid colour function %q: %w", value, err)
		}
		alpha = a
	}
	return RGB{R: channels[0], G: channels[1], B: channels[2]}.WithAlpha(alpha), nil
}

func parseChannel(token string) (uint8, error) {
	if strings.HasSuffix(token, "%") {
		pct, err := strconv.ParseFloat(strings.TrimSuffix(token, "%"), 64)
		if err != nil {
			return 0, err
		}
		return toChannel(pct / 100 * 255), nil
	}
	v, err := strconv.ParseFloat(token, 64)
	if err != nil {
		return 0, err
	}
	return toChannel(v), nil
}

func parseAlpha(token string) (float64, error) {
	if strings.HasSuffix(token, "%") {
		pct, err := strconv.ParseFloat(strings.TrimSuffix(token, "%"), 64)
		if err != nil {
			return 0, err
		}
		return clamp01(pct / 100), nil
	}
	v, err := strconv.ParseFloat(token, 64)
	if err != nil {
		return 0, err
	}
	return clamp01(v), nil
}

// toChannel rounds half away from zero and clamps to [0, 255].
func toChannel(v float64) uint8 {
	v = math.Round(v)
	switch {
	case v <= 0:
		return 0
	case v >= 255:
		return 255
	}
	return uint8(v)
}

func clamp01(v float64) float64 {
	switch {
	case v < 0:
		return 0
	case v > 1:
		return 1
	}
	return v
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

var namedColors = map[string]RGB{
	"black":   {0, 0, 0},
	"silver":  {192, 192, 192},
	"gray":    {128, 128, 128},
	"grey":    {128, 128, 128},
	"white":   {255, 255, 255},
	"maroon":  {128, 0, 0},
	"red":     {255, 0, 0},
	"purple":  {128, 0, 128},
	"fuchsia": {255, 0, 255},
	"magenta": {255, 0, 255},
	"green":   {0, 128, 0},
	"lime":    {0, 255, 0},
	"olive":   {128, 128, 0},
	"yellow":  {255, 255, 0},
	"navy":    {0, 0, 128},
	"blue":    {0, 0, 255},
	"teal":    {0, 128, 128},
	"aqua":    {0, 255, 255},
	"cyan":    {0, 255, 255},
	"orange":  {255, 165, 0},
}
