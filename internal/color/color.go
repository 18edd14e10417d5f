// Package color derives decoration colors from a terminal's default colors.
//
// The HSV conversion works on 8-bit channels with integer arithmetic only so
// results are reproducible bit for bit.
package color

import (
	stdcolor "image/color"

	"github.com/charmbracelet/x/ansi"
	"github.com/lucasb-eyer/go-colorful"

	"github.com/zhubert/nrl/internal/errors"
)

// RGB is an 8-bit per channel color.
type RGB struct {
	R, G, B uint8
}

// HSV is an 8-bit per channel hue/saturation/value triple. Hue covers the
// full circle in 0..255.
type HSV struct {
	H, S, V uint8
}

// RGBA implements image/color.Color.
func (c RGB) RGBA() (r, g, b, a uint32) {
	return stdcolor.RGBA{R: c.R, G: c.G, B: c.B, A: 0xff}.RGBA()
}

// IsZero reports whether c is black, which doubles as "unset".
func (c RGB) IsZero() bool {
	return c == RGB{}
}

// HSVToRGB converts h back to RGB using six hue regions of width 43.
func HSVToRGB(h HSV) RGB {
	if h.S == 0 {
		return RGB{h.V, h.V, h.V}
	}

	v, s := int(h.V), int(h.S)
	region := int(h.H) / 43
	remainder := (int(h.H) - region*43) * 6

	p := uint8((v * (255 - s)) >> 8)
	q := uint8((v * (255 - ((s * remainder) >> 8))) >> 8)
	t := uint8((v * (255 - ((s * (255 - remainder)) >> 8))) >> 8)

	switch region {
	case 0:
		return RGB{h.V, t, p}
	case 1:
		return RGB{q, h.V, p}
	case 2:
		return RGB{p, h.V, t}
	case 3:
		return RGB{p, q, h.V}
	case 4:
		return RGB{t, p, h.V}
	default:
		return RGB{h.V, p, q}
	}
}

// RGBToHSV converts c to HSV. The hue arithmetic is done in int and then
// wrapped into a byte, so negative red-sector hues land near 255.
func RGBToHSV(c RGB) HSV {
	lo := min(c.R, c.G, c.B)
	hi := max(c.R, c.G, c.B)

	h := HSV{V: hi}
	if hi == 0 {
		return h
	}
	span := int(hi) - int(lo)
	h.S = uint8(255 * span / int(hi))
	if h.S == 0 {
		return h
	}

	r, g, b := int(c.R), int(c.G), int(c.B)
	var hue int
	switch hi {
	case c.R:
		hue = 43 * (g - b) / span
	case c.G:
		hue = 85 + 43*(b-r)/span
	default:
		hue = 171 + 43*(r-g)/span
	}
	h.H = uint8(hue)
	return h
}

// Adjust moves the value channel of fg and bg away from the background's
// brightness: on a light background (value >= 128) both get darker, on a dark
// one both get lighter. Channels saturate at 0 and 255.
func Adjust(fg, bg RGB, amount uint8) (RGB, RGB) {
	hf := RGBToHSV(fg)
	hb := RGBToHSV(bg)
	if hb.V >= 128 {
		hf.V = subClamp(hf.V, amount)
		hb.V = subClamp(hb.V, amount)
	} else {
		hf.V = addClamp(hf.V, amount)
		hb.V = addClamp(hb.V, amount)
	}
	return HSVToRGB(hf), HSVToRGB(hb)
}

func subClamp(v, d uint8) uint8 {
	if v > d {
		return v - d
	}
	return 0
}

func addClamp(v, d uint8) uint8 {
	if v < 255-d {
		return v + d
	}
	return 255
}

// FromColorful converts a go-colorful color, clamping out-of-gamut values.
func FromColorful(c colorful.Color) RGB {
	r, g, b := c.Clamped().RGB255()
	return RGB{r, g, b}
}

// ParseHex parses "#rrggbb" (or "#rgb").
func ParseHex(s string) (RGB, error) {
	c, err := colorful.Hex(s)
	if err != nil {
		return RGB{}, errors.E(errors.Op("color.ParseHex"), errors.KindInvalid, err)
	}
	return FromColorful(c), nil
}

// Hex formats c as "#rrggbb".
func (c RGB) Hex() string {
	return colorful.Color{R: float64(c.R) / 255, G: float64(c.G) / 255, B: float64(c.B) / 255}.Hex()
}

// Foreground returns the 24-bit SGR sequence selecting c as text color.
func Foreground(c RGB) string {
	return ansi.Style{}.ForegroundColor(c).String()
}

// Pair returns one SGR sequence selecting fg as text and bg as background.
func Pair(fg, bg RGB) string {
	return ansi.Style{}.ForegroundColor(fg).BackgroundColor(bg).String()
}
