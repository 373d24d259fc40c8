package layout

import "fmt"

// PropagateDamageTraversal pushes restyle damage down the flow tree.
// When AllStyleDamage is set (content changed or the viewport was
// resized) every flow takes the complete damage set; otherwise each flow
// hands its children whatever its own damage says must propagate down.
type PropagateDamageTraversal struct {
	AllStyleDamage bool
}

func (tr *PropagateDamageTraversal) Process(t *Tree, flow Flow) {
	base := flow.Base()
	if tr.AllStyleDamage {
		base.Damage = base.Damage.Union(AllDamage)
	}

	prop := base.Damage.PropagateDown()
	if prop.IsNonEmpty() {
		for _, child := range base.Children() {
			cb := t.FlowAt(child).Base()
			cb.Damage = cb.Damage.Union(prop)
		}
	}
}

// ComputeDamageTraversal pulls restyle damage up the flow tree: a
// postorder fold that unions each child's propagate-up image into its
// parent. Children are never written after they have been visited.
type ComputeDamageTraversal struct{}

func (ComputeDamageTraversal) Process(t *Tree, flow Flow) {
	base := flow.Base()
	damage := base.Damage
	for _, child := range base.Children() {
		damage = damage.Union(t.FlowAt(child).Base().Damage.PropagateUp())
	}
	base.Damage = damage
}

func (ComputeDamageTraversal) ShouldProcess(t *Tree, flow Flow) bool { return true }

// FlowTreeVerificationTraversal checks that construction marked every
// flow as exactly one of leaf or non-leaf. It only runs when the worker
// was created with verification enabled; a failure is a construction bug
// and is fatal.
type FlowTreeVerificationTraversal struct{}

func (FlowTreeVerificationTraversal) Process(t *Tree, flow Flow) {
	flags := flow.Base().Flags()
	isLeaf := flags&FlagIsLeaf != 0
	isNonleaf := flags&FlagIsNonleaf != 0
	if isLeaf == isNonleaf {
		panic(fmt.Sprintf(
			"layout: flow tree verification failed: flow %d for node %d is neither leaf nor non-leaf",
			flow.Base().self, flow.Base().node))
	}
}

// PropagateDamage runs the two damage traversals in their fixed order:
// the top-down push, then the bottom-up pull.
func PropagateDamage(t *Tree, allStyleDamage bool) {
	t.TraversePreorder(t.Root(), &PropagateDamageTraversal{AllStyleDamage: allStyleDamage})
	t.TraversePostorder(t.Root(), ComputeDamageTraversal{})
}
