package layout

import (
	"strings"

	"lamina/pkg/css"
	"lamina/pkg/html"
)

// FlowConstructor turns a styled DOM subtree into a flow tree with one
// postorder walk. Each node deposits its construction result in its
// layout-data slot; the node's parent lifts the child results out of the
// slots (clearing them) to link them under its own flow, so no subtree
// is ever walked twice.
type FlowConstructor struct {
	ctx   *Context
	tree  *Tree
	store *LayoutDataStore
}

func NewFlowConstructor(ctx *Context, tree *Tree, store *LayoutDataStore) *FlowConstructor {
	return &FlowConstructor{ctx: ctx, tree: tree, store: store}
}

// ConstructFlowTree builds the flow tree for the subtree rooted at node
// and returns the root flow's ref. Construction producing no flow at the
// root means the styled tree handed to layout was broken, so it panics
// rather than returning an error.
func (c *FlowConstructor) ConstructFlowTree(node *html.Node) FlowRef {
	c.constructSubtree(node)

	result := c.store.takeConstructionResult(node.ID())
	if !result.hasFlow {
		panic("layout: flow construction didn't produce a flow at the root of the tree")
	}
	c.tree.markRoot(result.flow)
	return result.flow
}

func (c *FlowConstructor) constructSubtree(node *html.Node) {
	view := makeStyledNode(node, c.ctx.Styles)

	// display:none prunes the subtree entirely; descendants are not
	// visited and leave no slots to clear.
	if view.kind == html.ElementNode && view.style.GetDisplay() == css.DisplayNone {
		c.store.Ensure(node.ID()).constructionResult = noConstructionResult
		return
	}

	for _, child := range node.Children {
		c.constructSubtree(child)
	}

	data := c.store.Ensure(node.ID())
	data.constructionResult = c.processNode(node, view, data)
}

// processNode builds the construction result for one node whose children
// already have results in their slots.
func (c *FlowConstructor) processNode(node *html.Node, view *styledNode, data *LayoutData) constructionResult {

	switch view.kind {
	case html.TextNode:
		if strings.TrimSpace(view.text) == "" {
			return noConstructionResult
		}
		flow := newTextFlow(view)
		return c.finishFlow(flow, data, nil)

	default:
		flow := newBlockFlow(view)
		ref := c.tree.add(flow)

		inorder := false
		for _, child := range node.Children {
			childResult := c.store.takeConstructionResult(child.ID())
			if !childResult.hasFlow {
				continue
			}
			c.tree.appendChild(ref, childResult.flow)
			if childStyle := c.ctx.Styles[child.ID()]; childStyle != nil &&
				childStyle.GetFloat() != css.FloatNone {
				inorder = true
			}
		}

		base := flow.Base()
		if len(base.children) == 0 {
			base.flags |= FlagIsLeaf
		} else {
			base.flags |= FlagIsNonleaf
		}
		if inorder {
			base.MarkInorder()
		}
		c.adoptDamage(base, data)
		return constructionResult{hasFlow: true, flow: ref}
	}
}

// finishFlow places a freshly built leaf flow in the arena.
func (c *FlowConstructor) finishFlow(flow Flow, data *LayoutData, _ []FlowRef) constructionResult {
	ref := c.tree.add(flow)
	base := flow.Base()
	base.flags |= FlagIsLeaf
	c.adoptDamage(base, data)
	return constructionResult{hasFlow: true, flow: ref}
}

// adoptDamage moves the node's pending restyle damage onto its new flow.
func (c *FlowConstructor) adoptDamage(base *FlowBase, data *LayoutData) {
	if data != nil {
		base.Damage = base.Damage.Union(data.Damage)
		data.Damage = 0
	}
}
