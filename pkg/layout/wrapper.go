package layout

import (
	"lamina/pkg/css"
	"lamina/pkg/html"
)

// LayoutData is the layout-side record attached to one DOM node. It
// holds the style resolved by the last cascade (for damage diffing), the
// restyle damage accumulated since the node was last laid out, and the
// construction-result slot the flow constructor communicates through.
type LayoutData struct {
	Style              *css.Style
	Damage             RestyleDamage
	constructionResult constructionResult
}

// constructionResult is what one node contributed to flow construction:
// nothing, or a flow in the current tree's arena.
type constructionResult struct {
	hasFlow bool
	flow    FlowRef
}

var noConstructionResult = constructionResult{}

// LayoutDataStore owns the per-node layout data for one pipeline. Only
// the layout worker goroutine touches it; ReapLayoutData messages remove
// entries for nodes the document owner is destroying.
type LayoutDataStore struct {
	data map[html.NodeID]*LayoutData
}

func NewLayoutDataStore() *LayoutDataStore {
	return &LayoutDataStore{data: make(map[html.NodeID]*LayoutData)}
}

// Ensure returns the node's layout data, creating it on first use.
func (s *LayoutDataStore) Ensure(id html.NodeID) *LayoutData {
	d, ok := s.data[id]
	if !ok {
		d = &LayoutData{}
		s.data[id] = d
	}
	return d
}

// Get returns the node's layout data, or nil.
func (s *LayoutDataStore) Get(id html.NodeID) *LayoutData {
	return s.data[id]
}

// Reap discards the node's layout data.
func (s *LayoutDataStore) Reap(id html.NodeID) {
	delete(s.data, id)
}

// Len returns the number of nodes with layout data.
func (s *LayoutDataStore) Len() int {
	return len(s.data)
}

// takeConstructionResult lifts a node's construction result out of its
// slot, clearing the slot. The parent calls this for each child so the
// child's flow can be linked without re-walking the subtree.
func (s *LayoutDataStore) takeConstructionResult(id html.NodeID) constructionResult {
	d := s.data[id]
	if d == nil {
		return noConstructionResult
	}
	result := d.constructionResult
	d.constructionResult = noConstructionResult
	return result
}

// styledNode is the read-only view of one styled DOM node that flow
// construction works from: the stable handle, the resolved style, and
// the text payload. It exposes no way to reach back into the mutable
// node, which is what makes it safe to share across goroutines.
type styledNode struct {
	id    html.NodeID
	kind  html.NodeType
	tag   string
	text  string
	style *css.Style
}

func makeStyledNode(node *html.Node, styles map[html.NodeID]*css.Style) *styledNode {
	style := styles[node.ID()]
	if style == nil {
		style = css.NewStyle()
	}
	return &styledNode{
		id:    node.ID(),
		kind:  node.Type,
		tag:   node.TagName,
		text:  node.Text,
		style: style,
	}
}
