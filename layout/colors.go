package layout

import (
	"image/color"
	"strings"

	colorful "github.com/lucasb-eyer/go-colorful"
)

var (
	ColorAvailable   = color.RGBA{R: 0x2E, G: 0xCC, B: 0x71, A: 0xFF}
	ColorUnavailable = color.RGBA{R: 0xE7, G: 0x4C, B: 0x3C, A: 0xFF}
	ColorBackground  = color.RGBA{R: 0x1E, G: 0x1E, B: 0x2E, A: 0xFF}
	ColorText        = color.RGBA{R: 0xEE, G: 0xEE, B: 0xEE, A: 0xFF}
	ColorMuted       = color.RGBA{R: 0x88, G: 0x88, B: 0x99, A: 0xFF}
	ColorHighlight   = color.RGBA{R: 0xF1, G: 0xC4, B: 0x0F, A: 0xFF}
)

// fallback palette for sectors without a usable color
var sectorPalette = []string{"#3498DB", "#9B59B6", "#E67E22", "#1ABC9C", "#E84393", "#95A5A6"}

// SeatColor is purely a function of availability.
func SeatColor(available bool) color.RGBA {
	if available {
		return ColorAvailable
	}
	return ColorUnavailable
}

// SectorColor parses the sector's hex color, falling back to a palette
// entry picked by display index.
func SectorColor(hex string, index int) color.RGBA {
	if c, ok := ParseHex(hex); ok {
		return c
	}
	if index < 0 {
		index = -index
	}
	c, _ := ParseHex(sectorPalette[index%len(sectorPalette)])
	return c
}

func ParseHex(hex string) (color.RGBA, bool) {
	hex = strings.TrimSpace(hex)
	if hex == "" {
		return color.RGBA{}, false
	}
	if !strings.HasPrefix(hex, "#") {
		hex = "#" + hex
	}
	c, err := colorful.Hex(hex)
	if err != nil {
		return color.RGBA{}, false
	}
	return toRGBA(c), true
}

// Blend mixes c over base at the given opacity.
func Blend(base color.RGBA, c color.RGBA, opacity float64) color.RGBA {
	if opacity <= 0 {
		return base
	}
	if opacity >= 1 {
		return c
	}
	b, _ := colorful.MakeColor(opaque(base))
	f, _ := colorful.MakeColor(opaque(c))
	return toRGBA(b.BlendRgb(f, opacity))
}

// Hex formats c as #rrggbb.
func Hex(c color.RGBA) string {
	cf, _ := colorful.MakeColor(opaque(c))
	return cf.Hex()
}

func toRGBA(c colorful.Color) color.RGBA {
	r, g, b := c.Clamped().RGB255()
	return color.RGBA{R: r, G: g, B: b, A: 0xFF}
}

// colorful.MakeColor rejects fully transparent colors.
func opaque(c color.RGBA) color.RGBA {
	c.A = 0xFF
	return c
}
