package css

import (
	"strconv"
	"strings"
)

// Color is an RGBA color. Alpha runs 0..1 so "is this transparent" is a
// direct comparison rather than an 0xFF dance.
type Color struct {
	R, G, B uint8
	A       float64
}

var (
	Transparent = Color{0, 0, 0, 0}
	White       = Color{255, 255, 255, 1}
	Black       = Color{0, 0, 0, 1}
)

// IsTransparent reports whether the color paints nothing at all.
func (c Color) IsTransparent() bool {
	return c.A == 0
}

var namedColors = map[string]Color{
	"transparent": Transparent,
	"white":       White,
	"black":       Black,
	"red":         {255, 0, 0, 1},
	"green":       {0, 128, 0, 1},
	"blue":        {0, 0, 255, 1},
	"yellow":      {255, 255, 0, 1},
	"cyan":        {0, 255, 255, 1},
	"magenta":     {255, 0, 255, 1},
	"gray":        {128, 128, 128, 1},
	"grey":        {128, 128, 128, 1},
	"orange":      {255, 165, 0, 1},
	"purple":      {128, 0, 128, 1},
	"pink":        {255, 192, 203, 1},
	"brown":       {165, 42, 42, 1},
	"lime":        {0, 255, 0, 1},
	"navy":        {0, 0, 128, 1},
	"teal":        {0, 128, 128, 1},
	"silver":      {192, 192, 192, 1},
}

// ParseColor parses a CSS color value: named colors, #rgb, #rrggbb,
// rgb(...) and rgba(...).
func ParseColor(val string) (Color, bool) {
	val = strings.ToLower(strings.TrimSpace(val))

	if color, ok := namedColors[val]; ok {
		return color, true
	}
	if strings.HasPrefix(val, "#") {
		return parseHexColor(val[1:])
	}
	if strings.HasPrefix(val, "rgb(") && strings.HasSuffix(val, ")") {
		return parseRGBFunc(val[4:len(val)-1], false)
	}
	if strings.HasPrefix(val, "rgba(") && strings.HasSuffix(val, ")") {
		return parseRGBFunc(val[5:len(val)-1], true)
	}
	return Color{}, false
}

func parseHexColor(hex string) (Color, bool) {
	switch len(hex) {
	case 3:
		hex = string([]byte{hex[0], hex[0], hex[1], hex[1], hex[2], hex[2]})
	case 6:
	default:
		return Color{}, false
	}
	n, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return Color{}, false
	}
	return Color{R: uint8(n >> 16), G: uint8(n >> 8), B: uint8(n), A: 1}, true
}

func parseRGBFunc(args string, hasAlpha bool) (Color, bool) {
	parts := strings.Split(args, ",")
	want := 3
	if hasAlpha {
		want = 4
	}
	if len(parts) != want {
		return Color{}, false
	}
	var channels [3]uint8
	for i := 0; i < 3; i++ {
		n, err := strconv.Atoi(strings.TrimSpace(parts[i]))
		if err != nil || n < 0 || n > 255 {
			return Color{}, false
		}
		channels[i] = uint8(n)
	}
	alpha := 1.0
	if hasAlpha {
		a, err := strconv.ParseFloat(strings.TrimSpace(parts[3]), 64)
		if err != nil || a < 0 || a > 1 {
			return Color{}, false
		}
		alpha = a
	}
	return Color{R: channels[0], G: channels[1], B: channels[2], A: alpha}, true
}
