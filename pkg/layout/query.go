package layout

import (
	"lamina/pkg/display"
	"lamina/pkg/geom"
	"lamina/pkg/html"
)

// Geometry queries against a cached display-list collection. These never
// look at the flow tree and never trigger a reflow: item bounds plus the
// node handle each item carries are enough, which is why queries stay
// valid until the next for-display reflow replaces the collection.

// ContentBox returns the union of the bounds of every display item the
// node produced, descending into clip items' nested lists. A node that
// produced no items yields the zero rect.
func ContentBox(c *display.Collection, node html.NodeID) geom.Rect {
	var acc geom.Rect
	for _, list := range c.Lists {
		acc = unionBoxesForNode(acc, list, node)
	}
	return acc
}

func unionBoxesForNode(acc geom.Rect, list *display.List, node html.NodeID) geom.Rect {
	for _, item := range list.Items {
		if child := item.ChildList(); child != nil {
			acc = unionBoxesForNode(acc, child, node)
		}
		if item.Base().Node == node {
			acc = acc.Union(item.Base().Bounds)
		}
	}
	return acc
}

// ContentBoxes returns each matching item's bounds individually, in
// paint order.
func ContentBoxes(c *display.Collection, node html.NodeID) []geom.Rect {
	var boxes []geom.Rect
	for _, list := range c.Lists {
		boxes = addBoxesForNode(boxes, list, node)
	}
	return boxes
}

func addBoxesForNode(boxes []geom.Rect, list *display.List, node html.NodeID) []geom.Rect {
	for _, item := range list.Items {
		if child := item.ChildList(); child != nil {
			boxes = addBoxesForNode(boxes, child, node)
		}
		if item.Base().Node == node {
			boxes = append(boxes, item.Base().Bounds)
		}
	}
	return boxes
}

// HitTestResponse is the result of a hit test. A miss is an ordinary
// value, not an error.
type HitTestResponse struct {
	Node html.NodeID
	Hit  bool
}

// HitTest finds the topmost display item containing the point. Lists are
// scanned from the last-painted down; within a list, clip items' nested
// contents are tried first (an occluding clip region's contents beat the
// siblings painted under it), then the remaining items in reverse paint
// order.
func HitTest(c *display.Collection, point geom.Point) HitTestResponse {
	for i := len(c.Lists) - 1; i >= 0; i-- {
		if resp := hitTestList(c.Lists[i], point); resp.Hit {
			return resp
		}
	}
	return HitTestResponse{}
}

func hitTestList(list *display.List, point geom.Point) HitTestResponse {
	for i := len(list.Items) - 1; i >= 0; i-- {
		if child := list.Items[i].ChildList(); child != nil {
			if resp := hitTestList(child, point); resp.Hit {
				return resp
			}
		}
	}
	for i := len(list.Items) - 1; i >= 0; i-- {
		item := list.Items[i]
		if item.ChildList() != nil {
			continue
		}
		if item.Base().Bounds.Contains(point) {
			return HitTestResponse{Node: item.Base().Node, Hit: true}
		}
	}
	return HitTestResponse{}
}
