package layout

import (
	"fmt"
	"sync"
	"sync/atomic"

	"lamina/pkg/css"
	"lamina/pkg/display"
	"lamina/pkg/geom"
	"lamina/pkg/html"
)

// FlowRef is the stable arena index of a flow within its Tree. The
// parallel traversals hand FlowRefs between workers instead of pointers;
// a ref plus the tree it came from is all a worker ever holds.
type FlowRef int32

// NilFlow is the absent-flow sentinel (the root's parent).
const NilFlow FlowRef = -1

// FlowFlags records tree-shape and scheduling facts about a flow.
type FlowFlags uint8

const (
	// FlagIsLeaf marks a flow constructed with no children.
	FlagIsLeaf FlowFlags = 1 << iota
	// FlagIsNonleaf marks a flow constructed with children. Exactly one
	// of the two must be set once construction finishes.
	FlagIsNonleaf
	// FlagInorder marks a flow whose height depends on in-order (left to
	// right) processing, e.g. because it contains floats. The
	// assign-heights pass skips such flows.
	FlagInorder
	// FlagIsRoot marks the root of the flow tree.
	FlagIsRoot
)

// FlowBase is the state every flow kind carries: identity and linkage in
// the arena, restyle damage, flags, and the geometry the three solver
// passes fill in.
type FlowBase struct {
	self     FlowRef
	parent   FlowRef
	children []FlowRef
	node     html.NodeID

	Damage RestyleDamage
	flags  FlowFlags

	// Margin is the flow's margin edge. It lives on the base because the
	// parent reads it when stacking children (leaf flows have none).
	Margin css.BoxEdge

	// Bubbled intrinsic widths (bubble-widths pass).
	MinWidth  float64
	PrefWidth float64

	// AvailableWidth is handed down by the parent during assign-widths,
	// just before this flow's own assignment runs.
	AvailableWidth float64

	// Position is the border-box rect, origin relative to the parent's
	// border-box origin (assign-heights pass).
	Position geom.Rect

	// Overflow covers this flow and its descendants, in this flow's own
	// coordinate space (store-overflow pass).
	Overflow geom.Rect

	// completed counts children done with the current parallel phase.
	// The worker that completes the last child claims the parent; the
	// claim resets the counter so the next phase can reuse it.
	completed atomic.Int32
}

// Node returns the handle of the node this flow was constructed from.
func (b *FlowBase) Node() html.NodeID { return b.node }

// Parent returns the parent flow ref, NilFlow for the root.
func (b *FlowBase) Parent() FlowRef { return b.parent }

// Children returns the child refs in document order. Callers must not
// mutate the slice.
func (b *FlowBase) Children() []FlowRef { return b.children }

// Flags returns the flow's flag set.
func (b *FlowBase) Flags() FlowFlags { return b.flags }

// MarkInorder flags the flow as requiring in-order height processing.
func (b *FlowBase) MarkInorder() { b.flags |= FlagInorder }

// IsInorder reports whether the flow requires in-order processing.
func (b *FlowBase) IsInorder() bool { return b.flags&FlagInorder != 0 }

// reset prepares a pooled base for reuse, keeping slice capacity.
func (b *FlowBase) reset() {
	b.self = NilFlow
	b.parent = NilFlow
	b.children = b.children[:0]
	b.node = html.NoNode
	b.Damage = 0
	b.flags = 0
	b.Margin = css.BoxEdge{}
	b.MinWidth = 0
	b.PrefWidth = 0
	b.AvailableWidth = 0
	b.Position = geom.Rect{}
	b.Overflow = geom.Rect{}
	b.completed.Store(0)
}

// Flow is one node of the geometry tree. Implementations provide the
// three-phase constraint-solving operations plus display-item emission;
// everything structural lives on the shared FlowBase.
type Flow interface {
	Base() *FlowBase

	// BubbleWidths computes intrinsic widths from already-processed
	// children (postorder).
	BubbleWidths(ctx *Context, t *Tree)
	// AssignWidths resolves this flow's width from the available width
	// its parent assigned, and hands available widths to its children
	// (preorder).
	AssignWidths(ctx *Context, t *Tree)
	// AssignHeight computes the flow's height and positions its children
	// from their already-final heights (postorder).
	AssignHeight(ctx *Context, t *Tree)
	// StoreOverflow accumulates the overflow region from already-stored
	// child overflow (postorder, after AssignHeight).
	StoreOverflow(t *Tree)

	// EmitDisplayItems appends this flow's own display items. bounds is
	// the absolute border-box rect; items outside dirty are skipped.
	EmitDisplayItems(list *display.List, bounds, dirty geom.Rect)
	// ClipsOverflow reports whether descendants paint inside a clip.
	ClipsOverflow() bool
}

// Tree is the arena owning every flow of one layout. It is exclusively
// owned by the reflow that builds it; the owning worker, not the arena,
// enforces that no one else reads or writes it until the reflow is done.
// The arena is reset and reused across reflows.
type Tree struct {
	flows  []Flow
	root   FlowRef
	leaves []FlowRef
}

func NewTree() *Tree {
	return &Tree{root: NilFlow}
}

// add places a flow in the arena and returns its ref.
func (t *Tree) add(f Flow) FlowRef {
	ref := FlowRef(len(t.flows))
	t.flows = append(t.flows, f)
	f.Base().self = ref
	return ref
}

// appendChild links child under parent.
func (t *Tree) appendChild(parent, child FlowRef) {
	pb := t.FlowAt(parent).Base()
	pb.children = append(pb.children, child)
	t.FlowAt(child).Base().parent = parent
}

// FlowAt returns the flow for a ref.
func (t *Tree) FlowAt(ref FlowRef) Flow {
	return t.flows[ref]
}

// Root returns the root flow ref, NilFlow before construction.
func (t *Tree) Root() FlowRef { return t.root }

// Len returns the number of flows in the arena.
func (t *Tree) Len() int { return len(t.flows) }

// markRoot performs the root-only bookkeeping after construction: the
// root has no margins to collapse into and is pinned at the origin.
func (t *Tree) markRoot(ref FlowRef) {
	t.root = ref
	t.FlowAt(ref).Base().flags |= FlagIsRoot
}

// LeafSet returns the refs of all leaf flows, computing and caching the
// set on first use after construction. The parallel postorder phases are
// seeded with exactly this set.
func (t *Tree) LeafSet() []FlowRef {
	if t.leaves == nil {
		t.leaves = make([]FlowRef, 0, len(t.flows)/2+1)
		for _, f := range t.flows {
			if len(f.Base().children) == 0 {
				t.leaves = append(t.leaves, f.Base().self)
			}
		}
	}
	return t.leaves
}

// Destroy returns every flow to its pool and resets the arena for the
// next reflow.
func (t *Tree) Destroy() {
	for i, f := range t.flows {
		releaseFlow(f)
		t.flows[i] = nil
	}
	t.flows = t.flows[:0]
	t.leaves = nil
	t.root = NilFlow
}

// PreorderFlowTraversal processes a flow before its children.
type PreorderFlowTraversal interface {
	Process(t *Tree, flow Flow)
}

// PostorderFlowTraversal processes a flow after all its children.
// ShouldProcess lets a pass skip individual flows; skipping never skips
// the subtree walk itself.
type PostorderFlowTraversal interface {
	Process(t *Tree, flow Flow)
	ShouldProcess(t *Tree, flow Flow) bool
}

// TraversePreorder walks the subtree at ref, parents before children.
func (t *Tree) TraversePreorder(ref FlowRef, trav PreorderFlowTraversal) {
	flow := t.FlowAt(ref)
	trav.Process(t, flow)
	for _, child := range flow.Base().children {
		t.TraversePreorder(child, trav)
	}
}

// TraversePostorder walks the subtree at ref, children before parents.
func (t *Tree) TraversePostorder(ref FlowRef, trav PostorderFlowTraversal) {
	flow := t.FlowAt(ref)
	for _, child := range flow.Base().children {
		t.TraversePostorder(child, trav)
	}
	if trav.ShouldProcess(t, flow) {
		trav.Process(t, flow)
	}
}

// Flow pools. Destroyed trees return their nodes here so steady-state
// reflows stop allocating.
var (
	blockFlowPool = sync.Pool{New: func() any { return new(BlockFlow) }}
	textFlowPool  = sync.Pool{New: func() any { return new(TextFlow) }}
)

func releaseFlow(f Flow) {
	switch flow := f.(type) {
	case *BlockFlow:
		flow.reset()
		blockFlowPool.Put(flow)
	case *TextFlow:
		flow.reset()
		textFlowPool.Put(flow)
	default:
		panic(fmt.Sprintf("layout: unknown flow kind %T", f))
	}
}
