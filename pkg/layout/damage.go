package layout

import (
	"strings"

	"lamina/pkg/css"
)

// RestyleDamage is a bitset naming what a flow must recompute after a
// style change. Union over the bit domain is the only combining
// operation, so accumulation is associative, commutative, and
// idempotent, which is what lets the two propagation traversals run in
// either grain without changing the result.
type RestyleDamage uint8

const (
	// Repaint means the flow must be redrawn but its geometry holds.
	Repaint RestyleDamage = 1 << iota
	// BubbleWidths means intrinsic widths must be recomputed.
	BubbleWidths
	// ReflowDamage means the flow's geometry must be recomputed.
	ReflowDamage
)

// AllDamage is the full damage set, applied to every flow when content
// changed or the viewport was resized.
const AllDamage = Repaint | BubbleWidths | ReflowDamage

// Union returns the combined damage.
func (d RestyleDamage) Union(other RestyleDamage) RestyleDamage {
	return d | other
}

// Has reports whether every bit in other is present.
func (d RestyleDamage) Has(other RestyleDamage) bool {
	return d&other == other
}

// Lacks reports whether none of the bits in other are present.
func (d RestyleDamage) Lacks(other RestyleDamage) bool {
	return d&other == 0
}

// IsNonEmpty reports whether any damage is present.
func (d RestyleDamage) IsNonEmpty() bool {
	return d != 0
}

// PropagateUp returns the damage a parent must take on given a child
// with damage d: a child whose intrinsic widths changed invalidates the
// widths its parent bubbled up from it.
func (d RestyleDamage) PropagateUp() RestyleDamage {
	return d & BubbleWidths
}

// PropagateDown returns the damage a child must take on given a parent
// with damage d: a parent whose geometry changed repositions and resizes
// its children.
func (d RestyleDamage) PropagateDown() RestyleDamage {
	return d & ReflowDamage
}

func (d RestyleDamage) String() string {
	if d == 0 {
		return "none"
	}
	var names []string
	if d.Has(Repaint) {
		names = append(names, "repaint")
	}
	if d.Has(BubbleWidths) {
		names = append(names, "bubble-widths")
	}
	if d.Has(ReflowDamage) {
		names = append(names, "reflow")
	}
	return strings.Join(names, "|")
}

// damageForStyleChange classifies the difference between two resolved
// styles. A node styled for the first time, or one whose non-cosmetic
// properties changed, gets the full set; a purely cosmetic change only
// repaints.
func damageForStyleChange(old, new *css.Style) RestyleDamage {
	if old == nil {
		return AllDamage
	}
	if old.Equal(new) {
		return 0
	}
	cosmetic := true
	for prop, val := range new.Properties {
		if old.Properties[prop] != val && !cosmeticProperties[prop] {
			cosmetic = false
			break
		}
	}
	for prop, val := range old.Properties {
		if new.Properties[prop] != val && !cosmeticProperties[prop] {
			cosmetic = false
			break
		}
	}
	if cosmetic {
		return Repaint
	}
	return AllDamage
}

// cosmeticProperties change what is painted without moving anything.
var cosmeticProperties = map[string]bool{
	"color":            true,
	"background-color": true,
	"border-color":     true,
}
