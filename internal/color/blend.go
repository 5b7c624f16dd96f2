package color

import (
	"math"

	"github.com/lucasb-eyer/go-colorful"
)

// MinimumContrast is the WCAG AA ratio for body text.
const MinimumContrast = 4.5

// AlphaBlend composites fg over bg with the given alpha (source-over).
// Channels are rounded half away from zero, so 255 at 0.5 over 0 yields 128.
func AlphaBlend(fg RGB, alpha float64, bg RGB) RGB {
	if alpha >= 1 {
		return fg
	}
	if alpha <= 0 {
		return bg
	}
	mix := func(f, b uint8) uint8 {
		return toChannel(float64(f)*alpha + float64(b)*(1-alpha))
	}
	return RGB{R: mix(fg.R, bg.R), G: mix(fg.G, bg.G), B: mix(fg.B, bg.B)}
}

// Mix averages a and b per channel.
func Mix(a, b RGB) RGB {
	avg := func(x, y uint8) uint8 {
		return toChannel((float64(x) + float64(y)) / 2)
	}
	return RGB{R: avg(a.R, b.R), G: avg(a.G, b.G), B: avg(a.B, b.B)}
}

// RelativeLuminance returns the WCAG relative luminance of c in [0, 1].
func RelativeLuminance(c RGB) float64 {
	linear := func(v uint8) float64 {
		s := float64(v) / 255
		if s <= 0.03928 {
			return s / 12.92
		}
		return math.Pow((s+0.055)/1.055, 2.4)
	}
	return 0.2126*linear(c.R) + 0.7152*linear(c.G) + 0.0722*linear(c.B)
}

// IsDark reports whether text on c should be light.
func IsDark(c RGB) bool {
	return RelativeLuminance(c) < 0.5
}

// ContrastRatio returns the WCAG contrast ratio between a and b (1..21).
func ContrastRatio(a, b RGB) float64 {
	la, lb := RelativeLuminance(a), RelativeLuminance(b)
	if la < lb {
		la, lb = lb, la
	}
	return (la + 0.05) / (lb + 0.05)
}

// Brightness shifts the HSL lightness of c by shift percentage points.
func Brightness(shift float64, c RGB) RGB {
	h, s, l := c.colorful().Hsl()
	l = clamp01(l + shift/100)
	return fromColorful(colorful.Hsl(h, s, l))
}

// InvertLightness mirrors the HSL lightness of c while keeping hue and saturation.
func InvertLightness(c RGB) RGB {
	h, s, l := c.colorful().Hsl()
	return fromColorful(colorful.Hsl(h, s, 1-l))
}

// BlackOrWhite picks whichever of black and white suits the background.
func BlackOrWhite(bg RGB) RGB {
	if IsDark(bg) {
		return White
	}
	return Black
}

// TextColor returns a text colour readable on bg. Candidates that already
// meet MinimumContrast are returned untouched. Otherwise the candidate's
// lightness is inverted; with preserveHue false a still-unreadable result is
// replaced by black or white.
func TextColor(bg, candidate RGB, preserveHue bool) RGB {
	if ContrastRatio(bg, candidate) >= MinimumContrast {
		return candidate
	}
	inverted := InvertLightness(candidate)
	if !preserveHue && ContrastRatio(bg, inverted) < MinimumContrast {
		return BlackOrWhite(bg)
	}
	return inverted
}
