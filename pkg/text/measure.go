// Package text provides the text-measurement capability layout depends
// on. Real font shaping lives outside the layout worker; layout only
// needs advances, so the contract is a single interface that a shaping
// backend can implement.
package text

import "strings"

// Measurer reports horizontal advances for a run of text at a font size.
type Measurer interface {
	Advance(text string, fontSize float64) float64
}

// FixedMeasurer measures with a constant per-rune advance as a fraction
// of the font size. It is fully deterministic, which the layout solver's
// sequential/parallel equivalence depends on in tests.
type FixedMeasurer struct {
	// EmFraction is the advance per rune in ems. Zero means the default.
	EmFraction float64
}

const defaultEmFraction = 0.5

func (m FixedMeasurer) Advance(text string, fontSize float64) float64 {
	frac := m.EmFraction
	if frac == 0 {
		frac = defaultEmFraction
	}
	return float64(len([]rune(text))) * fontSize * frac
}

// LongestWordAdvance returns the advance of the widest
// whitespace-separated word; layout uses it as a minimum content width.
func LongestWordAdvance(m Measurer, text string, fontSize float64) float64 {
	widest := 0.0
	for _, word := range strings.Fields(text) {
		if w := m.Advance(word, fontSize); w > widest {
			widest = w
		}
	}
	return widest
}
