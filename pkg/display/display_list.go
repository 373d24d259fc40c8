// Package display defines the paint-ordered output of layout: display
// items collected into display lists, and display lists collected into
// one collection per reflow. Items are pure data; the renderer consumes
// them and the layout worker answers geometry queries against them.
package display

import (
	"lamina/pkg/css"
	"lamina/pkg/geom"
	"lamina/pkg/html"
)

// ItemBase carries what every display item records: its bounds in page
// coordinates and the handle of the node whose flow produced it.
type ItemBase struct {
	Bounds geom.Rect
	Node   html.NodeID
}

// Item is one paintable display item. Items nest at most one level: a
// ClipItem owns a child list, everything else returns nil children.
type Item interface {
	Base() *ItemBase
	// ChildList returns the nested list for clipping items, else nil.
	ChildList() *List
}

// SolidColorItem paints a filled rectangle (backgrounds).
type SolidColorItem struct {
	ItemBase
	Color css.Color
}

func (it *SolidColorItem) Base() *ItemBase  { return &it.ItemBase }
func (it *SolidColorItem) ChildList() *List { return nil }

// BorderItem paints a rectangular border of per-side widths.
type BorderItem struct {
	ItemBase
	Widths css.BoxEdge
	Color  css.Color
}

func (it *BorderItem) Base() *ItemBase  { return &it.ItemBase }
func (it *BorderItem) ChildList() *List { return nil }

// TextItem paints a run of text.
type TextItem struct {
	ItemBase
	Text     string
	Color    css.Color
	FontSize float64
}

func (it *TextItem) Base() *ItemBase  { return &it.ItemBase }
func (it *TextItem) ChildList() *List { return nil }

// ClipItem restricts painting of its child list to its bounds.
type ClipItem struct {
	ItemBase
	Children *List
}

func (it *ClipItem) Base() *ItemBase  { return &it.ItemBase }
func (it *ClipItem) ChildList() *List { return it.Children }

// List is one display list: items in paint order (back to front).
type List struct {
	Items []Item
}

func NewList() *List {
	return &List{}
}

// Append adds an item; later items paint over earlier ones.
func (l *List) Append(item Item) {
	l.Items = append(l.Items, item)
}

// Collection groups the display lists of one reflow. Lists are ordered
// bottom to top: a later list paints over an earlier one.
type Collection struct {
	Lists []*List
}

func NewCollection() *Collection {
	return &Collection{}
}

// AddList appends a list above all existing lists and returns its index.
func (c *Collection) AddList(list *List) int {
	c.Lists = append(c.Lists, list)
	return len(c.Lists) - 1
}
