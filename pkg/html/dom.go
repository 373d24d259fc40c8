package html

import (
	"strings"
	"sync/atomic"
)

// NodeID is a stable, opaque handle for one DOM node. IDs are unique for
// the lifetime of the process, which makes them safe to use as map keys
// and to hand across goroutine boundaries without exposing the node
// itself. Layout tags every display item with the NodeID of the node
// that produced it.
type NodeID uint64

// NoNode is the zero NodeID; no real node ever carries it.
const NoNode NodeID = 0

var nextNodeID atomic.Uint64

type NodeType int

const (
	ElementNode NodeType = iota
	TextNode
)

type Node struct {
	Type       NodeType
	TagName    string
	Attributes map[string]string
	Text       string
	Children   []*Node
	Parent     *Node

	id NodeID
}

// NewNode allocates a node of the given type with a fresh NodeID.
func NewNode(typ NodeType) *Node {
	return &Node{Type: typ, id: NodeID(nextNodeID.Add(1))}
}

// NewElement allocates an element node with a fresh NodeID.
func NewElement(tagName string) *Node {
	n := NewNode(ElementNode)
	n.TagName = tagName
	return n
}

// NewText allocates a text node with a fresh NodeID.
func NewText(text string) *Node {
	n := NewNode(TextNode)
	n.Text = text
	return n
}

// ID returns the node's stable handle.
func (n *Node) ID() NodeID {
	return n.id
}

func (n *Node) GetAttribute(name string) (string, bool) {
	if n.Attributes == nil {
		return "", false
	}
	val, ok := n.Attributes[name]
	return val, ok
}

// SetAttribute sets an attribute, allocating the map on first use.
func (n *Node) SetAttribute(name, value string) {
	if n.Attributes == nil {
		n.Attributes = make(map[string]string)
	}
	n.Attributes[name] = value
}

// HasClass reports whether the node's class attribute contains name.
func (n *Node) HasClass(name string) bool {
	classes, ok := n.GetAttribute("class")
	if !ok {
		return false
	}
	for _, c := range strings.Fields(classes) {
		if c == name {
			return true
		}
	}
	return false
}

// AddChild appends a child node and sets up the parent link.
func (n *Node) AddChild(child *Node) {
	child.Parent = n
	n.Children = append(n.Children, child)
}

// AppendText creates a text node and adds it as a child. Empty strings
// produce no node.
func (n *Node) AppendText(text string) {
	if text == "" {
		return
	}
	n.AddChild(NewText(text))
}

// TraversePreorder calls visit for the node and then its subtree in
// document order. Returning false stops the walk under that node.
func (n *Node) TraversePreorder(visit func(*Node) bool) {
	if !visit(n) {
		return
	}
	for _, child := range n.Children {
		child.TraversePreorder(visit)
	}
}

// IsLeaf reports whether the node has no children.
func (n *Node) IsLeaf() bool {
	return len(n.Children) == 0
}

type Document struct {
	Root        *Node
	Stylesheets []string // CSS pulled from <style> tags during parsing
}

func NewDocument() *Document {
	return &Document{
		Root: NewElement("document"),
	}
}
