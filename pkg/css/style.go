package css

import (
	"strconv"
	"strings"
)

// Style is the resolved style for one node: the flat property map left
// after the cascade. Layout only ever reads it.
type Style struct {
	Properties map[string]string
}

func NewStyle() *Style {
	return &Style{Properties: make(map[string]string)}
}

func (s *Style) Get(property string) (string, bool) {
	val, ok := s.Properties[property]
	return val, ok
}

func (s *Style) Set(property, value string) {
	s.Properties[property] = value
}

// Equal reports whether two styles resolve to the same property map. A
// nil style only equals another nil style.
func (s *Style) Equal(other *Style) bool {
	if s == nil || other == nil {
		return s == other
	}
	if len(s.Properties) != len(other.Properties) {
		return false
	}
	for prop, val := range s.Properties {
		if otherVal, ok := other.Properties[prop]; !ok || otherVal != val {
			return false
		}
	}
	return true
}

func (s *Style) GetLength(property string) (float64, bool) {
	val, ok := s.Get(property)
	if !ok {
		return 0, false
	}
	return ParseLength(val)
}

func (s *Style) getLengthOrZero(property string) float64 {
	if val, ok := s.GetLength(property); ok {
		return val
	}
	return 0
}

// ParseLength parses a pixel length value (e.g. "100px" or "100").
func ParseLength(val string) (float64, bool) {
	val = strings.TrimSpace(val)
	val = strings.TrimSuffix(val, "px")
	num, err := strconv.ParseFloat(val, 64)
	if err != nil {
		return 0, false
	}
	return num, true
}

// BoxEdge represents the four sides of a box.
type BoxEdge struct {
	Top    float64
	Right  float64
	Bottom float64
	Left   float64
}

// Horizontal returns the left+right sum.
func (e BoxEdge) Horizontal() float64 { return e.Left + e.Right }

// Vertical returns the top+bottom sum.
func (e BoxEdge) Vertical() float64 { return e.Top + e.Bottom }

func (s *Style) GetMargin() BoxEdge {
	return BoxEdge{
		Top:    s.getLengthOrZero("margin-top"),
		Right:  s.getLengthOrZero("margin-right"),
		Bottom: s.getLengthOrZero("margin-bottom"),
		Left:   s.getLengthOrZero("margin-left"),
	}
}

func (s *Style) GetPadding() BoxEdge {
	return BoxEdge{
		Top:    s.getLengthOrZero("padding-top"),
		Right:  s.getLengthOrZero("padding-right"),
		Bottom: s.getLengthOrZero("padding-bottom"),
		Left:   s.getLengthOrZero("padding-left"),
	}
}

func (s *Style) GetBorderWidth() BoxEdge {
	return BoxEdge{
		Top:    s.getLengthOrZero("border-top-width"),
		Right:  s.getLengthOrZero("border-right-width"),
		Bottom: s.getLengthOrZero("border-bottom-width"),
		Left:   s.getLengthOrZero("border-left-width"),
	}
}

type DisplayType string

const (
	DisplayBlock  DisplayType = "block"
	DisplayInline DisplayType = "inline"
	DisplayNone   DisplayType = "none"
)

// GetDisplay returns the display value (default: block).
func (s *Style) GetDisplay() DisplayType {
	if val, ok := s.Get("display"); ok {
		switch val {
		case "inline":
			return DisplayInline
		case "none":
			return DisplayNone
		}
	}
	return DisplayBlock
}

type FloatType string

const (
	FloatNone  FloatType = "none"
	FloatLeft  FloatType = "left"
	FloatRight FloatType = "right"
)

// GetFloat returns the float value (default: none).
func (s *Style) GetFloat() FloatType {
	if val, ok := s.Get("float"); ok {
		switch val {
		case "left":
			return FloatLeft
		case "right":
			return FloatRight
		}
	}
	return FloatNone
}

type OverflowType string

const (
	OverflowVisible OverflowType = "visible"
	OverflowHidden  OverflowType = "hidden"
)

// GetOverflow returns the overflow value (default: visible).
func (s *Style) GetOverflow() OverflowType {
	if val, ok := s.Get("overflow"); ok && val == "hidden" {
		return OverflowHidden
	}
	return OverflowVisible
}

// GetFontSize returns the font-size in pixels (default: 16px).
func (s *Style) GetFontSize() float64 {
	if size, ok := s.GetLength("font-size"); ok {
		return size
	}
	return 16.0
}

// GetLineHeight returns the line height in pixels. The default is the
// usual browser "normal" factor of 1.2 times the font size.
func (s *Style) GetLineHeight() float64 {
	if lh, ok := s.GetLength("line-height"); ok {
		return lh
	}
	return s.GetFontSize() * 1.2
}

// GetColor returns the text color (default: black).
func (s *Style) GetColor() Color {
	if val, ok := s.Get("color"); ok {
		if color, ok := ParseColor(val); ok {
			return color
		}
	}
	return Black
}

// GetBackgroundColor returns the resolved background color. The default
// is fully transparent, which painting and the canvas-background scan
// both treat as "no background".
func (s *Style) GetBackgroundColor() Color {
	if val, ok := s.Get("background-color"); ok {
		if color, ok := ParseColor(val); ok {
			return color
		}
	}
	return Transparent
}

// GetBorderColor returns the border color (default: the text color).
func (s *Style) GetBorderColor() Color {
	if val, ok := s.Get("border-color"); ok {
		if color, ok := ParseColor(val); ok {
			return color
		}
	}
	return s.GetColor()
}
