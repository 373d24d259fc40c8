package layout

import (
	"testing"

	"lamina/pkg/css"
)

// All eight subsets of the damage bit domain.
func allDamageSets() []RestyleDamage {
	sets := make([]RestyleDamage, 0, 8)
	for bits := RestyleDamage(0); bits <= AllDamage; bits++ {
		sets = append(sets, bits)
	}
	return sets
}

func TestDamageUnion_Algebra(t *testing.T) {
	for _, a := range allDamageSets() {
		for _, b := range allDamageSets() {
			if a.Union(b) != b.Union(a) {
				t.Errorf("union not commutative for %v, %v", a, b)
			}
			// Idempotence: unioning the same bits twice equals once.
			if a.Union(b).Union(b) != a.Union(b) {
				t.Errorf("union not idempotent for %v, %v", a, b)
			}
			for _, c := range allDamageSets() {
				if a.Union(b).Union(c) != a.Union(b.Union(c)) {
					t.Errorf("union not associative for %v, %v, %v", a, b, c)
				}
			}
		}
	}
}

func TestDamagePropagation_Images(t *testing.T) {
	if got := AllDamage.PropagateUp(); got != BubbleWidths {
		t.Errorf("propagate-up of all damage = %v, want bubble-widths", got)
	}
	if got := AllDamage.PropagateDown(); got != ReflowDamage {
		t.Errorf("propagate-down of all damage = %v, want reflow", got)
	}
	if got := Repaint.PropagateUp(); got != 0 {
		t.Errorf("repaint must not propagate up, got %v", got)
	}
	if got := Repaint.PropagateDown(); got != 0 {
		t.Errorf("repaint must not propagate down, got %v", got)
	}
}

func TestDamageString(t *testing.T) {
	if got := RestyleDamage(0).String(); got != "none" {
		t.Errorf("empty damage string = %q", got)
	}
	if got := AllDamage.String(); got != "repaint|bubble-widths|reflow" {
		t.Errorf("all damage string = %q", got)
	}
}

func TestDamageForStyleChange(t *testing.T) {
	base := css.NewStyle()
	base.Set("width", "100px")
	base.Set("color", "red")

	if got := damageForStyleChange(nil, base); got != AllDamage {
		t.Errorf("first style = %v, want all damage", got)
	}

	same := css.NewStyle()
	same.Set("width", "100px")
	same.Set("color", "red")
	if got := damageForStyleChange(base, same); got != 0 {
		t.Errorf("identical style = %v, want none", got)
	}

	cosmetic := css.NewStyle()
	cosmetic.Set("width", "100px")
	cosmetic.Set("color", "blue")
	if got := damageForStyleChange(base, cosmetic); got != Repaint {
		t.Errorf("color change = %v, want repaint", got)
	}

	structural := css.NewStyle()
	structural.Set("width", "200px")
	structural.Set("color", "red")
	if got := damageForStyleChange(base, structural); got != AllDamage {
		t.Errorf("width change = %v, want all damage", got)
	}
}
