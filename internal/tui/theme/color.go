package theme

import (
	"fmt"
	"math"
	"strconv"
)

// rgb is an sRGB color with channels in [0, 255].
type rgb struct{ r, g, b float64 }

var (
	white = rgb{255, 255, 255}
	black = rgb{}
)

// parseRGB accepts "#rrggbb" only.
func parseRGB(hex string) (rgb, bool) {
	if len(hex) != 7 || hex[0] != '#' {
		return rgb{}, false
	}
	v, err := strconv.ParseUint(hex[1:], 16, 32)
	if err != nil {
		return rgb{}, false
	}
	return rgb{float64(v >> 16 & 0xff), float64(v >> 8 & 0xff), float64(v & 0xff)}, true
}

func (c rgb) hex() string {
	ch := func(v float64) int { return int(math.Max(0, math.Min(255, v))) }
	return fmt.Sprintf("#%02x%02x%02x", ch(c.r), ch(c.g), ch(c.b))
}

// scale multiplies each channel by f without dropping below floor.
func (c rgb) scale(f, floor float64) rgb {
	ch := func(v float64) float64 { return math.Max(math.Trunc(v*f), floor) }
	return rgb{ch(c.r), ch(c.g), ch(c.b)}
}

// mix moves c toward o; ratio 0 keeps c and 1 yields o.
func (c rgb) mix(o rgb, ratio float64) rgb {
	ratio = math.Max(0, math.Min(1, ratio))
	ch := func(a, b float64) float64 { return math.Trunc(a*(1-ratio) + b*ratio) }
	return rgb{ch(c.r, o.r), ch(c.g, o.g), ch(c.b, o.b)}
}

// luminance is the WCAG relative luminance.
func (c rgb) luminance() float64 {
	lin := func(v float64) float64 {
		v /= 255
		if v <= 0.04045 {
			return v / 12.92
		}
		return math.Pow((v+0.055)/1.055, 2.4)
	}
	return 0.2126*lin(c.r) + 0.7152*lin(c.g) + 0.0722*lin(c.b)
}

// shade applies fn to hex. Unparseable input is returned as is.
func shade(hex string, fn func(rgb) rgb) string {
	c, ok := parseRGB(hex)
	if !ok {
		return hex
	}
	return fn(c).hex()
}

func mixHex(a, b string, ratio float64) string {
	o, ok := parseRGB(b)
	if !ok {
		return a
	}
	return shade(a, func(c rgb) rgb { return c.mix(o, ratio) })
}

func luminance(hex string) float64 {
	c, ok := parseRGB(hex)
	if !ok {
		return 0
	}
	return c.luminance()
}

func contrast(a, b string) float64 {
	hi, lo := luminance(a), luminance(b)
	if hi < lo {
		hi, lo = lo, hi
	}
	return (hi + 0.05) / (lo + 0.05)
}

// readableOn picks the candidate with the highest contrast against bg.
// Ties go to the earlier candidate.
func readableOn(bg string, candidates ...string) string {
	best, bestRatio := "", -1.0
	for _, c := range candidates {
		if r := contrast(bg, c); r > bestRatio {
			best, bestRatio = c, r
		}
	}
	return best
}
