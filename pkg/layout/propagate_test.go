package layout

import (
	"testing"

	"lamina/pkg/css"
)

// testBlock builds a detached block flow carrying the given damage.
func testBlock(damage RestyleDamage) *BlockFlow {
	f := newBlockFlow(&styledNode{style: css.NewStyle()})
	f.Damage = damage
	return f
}

// buildDamageTree hand-builds this depth-4 shape and returns the refs in
// the order they were added:
//
//	root
//	├── a
//	│   ├── a1
//	│   │   └── a1x
//	│   └── a2
//	└── b
func buildDamageTree(damage map[string]RestyleDamage) (*Tree, map[string]FlowRef) {
	tree := NewTree()
	refs := make(map[string]FlowRef)
	add := func(name string, parent string) {
		ref := tree.add(testBlock(damage[name]))
		refs[name] = ref
		if parent != "" {
			tree.appendChild(refs[parent], ref)
		}
	}
	add("root", "")
	add("a", "root")
	add("a1", "a")
	add("a1x", "a1")
	add("a2", "a")
	add("b", "root")
	for _, ref := range refs {
		base := tree.FlowAt(ref).Base()
		if len(base.Children()) == 0 {
			base.flags |= FlagIsLeaf
		} else {
			base.flags |= FlagIsNonleaf
		}
	}
	tree.markRoot(refs["root"])
	return tree, refs
}

func TestPropagateDamage_AllStyleDamageReachesEveryFlow(t *testing.T) {
	tree, refs := buildDamageTree(map[string]RestyleDamage{
		"a1": Repaint, // arbitrary partial input damage
	})

	PropagateDamage(tree, true)

	for name, ref := range refs {
		if got := tree.FlowAt(ref).Base().Damage; got != AllDamage {
			t.Errorf("flow %s damage = %v, want full damage set", name, got)
		}
	}
}

func TestPropagateDamage_Composition(t *testing.T) {
	// Mixed bits across a depth >= 3 tree.
	input := map[string]RestyleDamage{
		"root": Repaint,
		"a":    ReflowDamage,
		"a1":   0,
		"a1x":  BubbleWidths,
		"a2":   Repaint | BubbleWidths,
		"b":    0,
	}
	ancestors := map[string][]string{
		"root": {},
		"a":    {"root"},
		"a1":   {"a", "root"},
		"a1x":  {"a1", "a", "root"},
		"a2":   {"a", "root"},
		"b":    {"root"},
	}
	descendants := map[string][]string{
		"root": {"a", "a1", "a1x", "a2", "b"},
		"a":    {"a1", "a1x", "a2"},
		"a1":   {"a1x"},
		"a1x":  {},
		"a2":   {},
		"b":    {},
	}

	tree, refs := buildDamageTree(input)
	PropagateDamage(tree, false)

	// A flow's final damage must be its own bits, plus the
	// propagate-down image of its ancestors' damage, plus the
	// propagate-up image of its descendants' damage.
	for name, ref := range refs {
		want := input[name]
		for _, anc := range ancestors[name] {
			want = want.Union(input[anc].PropagateDown())
		}
		for _, desc := range descendants[name] {
			want = want.Union(input[desc].PropagateUp())
		}
		if got := tree.FlowAt(ref).Base().Damage; got != want {
			t.Errorf("flow %s damage = %v, want %v", name, got, want)
		}
	}
}

func TestPropagateDamage_LocalizedChangeStaysLocal(t *testing.T) {
	// Repaint-only damage on a leaf must touch no other flow.
	tree, refs := buildDamageTree(map[string]RestyleDamage{
		"a2": Repaint,
	})
	PropagateDamage(tree, false)

	for name, ref := range refs {
		want := RestyleDamage(0)
		if name == "a2" {
			want = Repaint
		}
		if got := tree.FlowAt(ref).Base().Damage; got != want {
			t.Errorf("flow %s damage = %v, want %v", name, got, want)
		}
	}
}

func TestFlowTreeVerification_PanicsOnUnmarkedFlow(t *testing.T) {
	tree, refs := buildDamageTree(nil)
	// Corrupt one flow: neither leaf nor non-leaf.
	base := tree.FlowAt(refs["a1"]).Base()
	base.flags &^= FlagIsLeaf | FlagIsNonleaf

	defer func() {
		if recover() == nil {
			t.Fatal("verification accepted a flow that is neither leaf nor non-leaf")
		}
	}()
	tree.TraversePreorder(tree.Root(), FlowTreeVerificationTraversal{})
}

func TestFlowTreeVerification_AcceptsWellFormedTree(t *testing.T) {
	tree, _ := buildDamageTree(nil)
	tree.TraversePreorder(tree.Root(), FlowTreeVerificationTraversal{})
}
