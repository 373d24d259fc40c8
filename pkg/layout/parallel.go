package layout

import (
	"lamina/pkg/workqueue"
)

// Parallel constraint solving. The two postorder passes are distributed
// over the work-stealing pool: each worker starts at a leaf and walks
// toward the root, processing a flow and then racing its siblings'
// workers to be the one that completes the parent's last child. The
// completion counter on each flow's base arbitrates that race: it is
// bumped exactly once per child edge, so exactly one worker observes the
// final count and claims the parent. No other synchronization guards the
// flow's mutable fields: the claim is what hands them over.

// postorderPhase selects which postorder pass a parallel round runs.
type postorderPhase int

const (
	bubbleWidthsPhase postorderPhase = iota
	assignHeightsPhase
)

// SolveConstraintsParallel performs the three passes using the pool for
// the postorder phases. Calling it without a pool is a wiring bug in the
// worker and is fatal. The result is identical to SolveConstraints for
// any pool size.
func SolveConstraintsParallel(pool *workqueue.Queue[FlowRef], t *Tree, ctx *Context) {
	if pool == nil {
		panic("layout: parallel constraint solving invoked with no worker pool configured")
	}

	traverseFlowTreeParallel(pool, t, ctx, bubbleWidthsPhase)

	// Assign widths stays a single top-down traversal: every flow needs
	// its parent's resolved width immediately before resolving its own,
	// and the pool has no cheap way to honor that edge-by-edge.
	root := t.Root()
	t.FlowAt(root).Base().AvailableWidth = ctx.ScreenSize.Width
	t.TraversePreorder(root, &assignWidthsTraversal{ctx: ctx})

	traverseFlowTreeParallel(pool, t, ctx, assignHeightsPhase)
}

// traverseFlowTreeParallel runs one bottom-up phase over the pool,
// seeded with the tree's leaf set.
func traverseFlowTreeParallel(pool *workqueue.Queue[FlowRef], t *Tree, ctx *Context, phase postorderPhase) {
	leaves := t.LeafSet()
	if len(leaves) == 0 {
		return
	}
	seeds := make([]FlowRef, len(leaves))
	copy(seeds, leaves)

	pool.Run(seeds, func(ref FlowRef, push func(FlowRef)) {
		for {
			flow := t.FlowAt(ref)
			base := flow.Base()

			switch phase {
			case bubbleWidthsPhase:
				flow.BubbleWidths(ctx, t)
			case assignHeightsPhase:
				if !base.IsInorder() {
					flow.AssignHeight(ctx, t)
					flow.StoreOverflow(t)
				}
			}

			parent := base.Parent()
			if parent == NilFlow {
				return
			}
			pb := t.FlowAt(parent).Base()
			if pb.completed.Add(1) != int32(len(pb.Children())) {
				// Some sibling subtree is still in flight; its worker
				// will claim the parent.
				return
			}
			// Last child done: this worker owns the parent now. Reset
			// the counter so the next phase can reuse it.
			pb.completed.Store(0)
			ref = parent
		}
	})
}
