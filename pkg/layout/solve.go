package layout

// The three solver traversals. Their order is fixed: bubble widths
// (postorder), assign widths (preorder), assign heights and store
// overflow (postorder). Pruning unchanged subtrees by damage bits is
// deliberately absent: the intermediate state of the width and height
// passes is rebuilt on every reflow, so skipping a subtree could feed a
// later pass stale values. Any future pruning must be argued per pass.

// bubbleWidthsTraversal computes intrinsic widths bottom-up.
type bubbleWidthsTraversal struct {
	ctx *Context
}

func (tr *bubbleWidthsTraversal) Process(t *Tree, flow Flow) {
	flow.BubbleWidths(tr.ctx, t)
}

func (tr *bubbleWidthsTraversal) ShouldProcess(t *Tree, flow Flow) bool { return true }

// assignWidthsTraversal distributes available widths top-down. A flow's
// own width is resolved before any child sees its available width, which
// is the dependency that keeps this pass sequential even in parallel
// mode.
type assignWidthsTraversal struct {
	ctx *Context
}

func (tr *assignWidthsTraversal) Process(t *Tree, flow Flow) {
	flow.AssignWidths(tr.ctx, t)
}

// assignHeightsTraversal computes final heights, positions, and overflow
// bottom-up. Flows flagged as requiring in-order processing are skipped;
// a separate in-order pass owns them.
type assignHeightsTraversal struct {
	ctx *Context
}

func (tr *assignHeightsTraversal) Process(t *Tree, flow Flow) {
	flow.AssignHeight(tr.ctx, t)
	flow.StoreOverflow(t)
}

func (tr *assignHeightsTraversal) ShouldProcess(t *Tree, flow Flow) bool {
	return !flow.Base().IsInorder()
}

// SolveConstraints performs the three constraint-solving passes
// sequentially over the whole tree.
func SolveConstraints(t *Tree, ctx *Context) {
	root := t.Root()
	t.TraversePostorder(root, &bubbleWidthsTraversal{ctx: ctx})

	t.FlowAt(root).Base().AvailableWidth = ctx.ScreenSize.Width
	t.TraversePreorder(root, &assignWidthsTraversal{ctx: ctx})

	t.TraversePostorder(root, &assignHeightsTraversal{ctx: ctx})
}
