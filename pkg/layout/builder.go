package layout

import (
	"lamina/pkg/css"
	"lamina/pkg/display"
	"lamina/pkg/geom"
	"lamina/pkg/html"
)

// DisplayListBuilder walks a fully solved flow tree and emits the
// paint-ordered display items for everything intersecting the dirty
// rect. Flows that clip their descendants get a clip item owning a
// nested child list; everything else lands in the enclosing list.
type DisplayListBuilder struct {
	ctx *Context
}

func NewDisplayListBuilder(ctx *Context) *DisplayListBuilder {
	return &DisplayListBuilder{ctx: ctx}
}

// Build produces the display-list collection for the tree.
func (b *DisplayListBuilder) Build(t *Tree, dirty geom.Rect) *display.Collection {
	collection := display.NewCollection()
	list := display.NewList()
	collection.AddList(list)
	b.buildFlow(t, t.Root(), geom.Point{}, dirty, list)
	return collection
}

func (b *DisplayListBuilder) buildFlow(t *Tree, ref FlowRef, parentOrigin geom.Point, dirty geom.Rect, list *display.List) {
	flow := t.FlowAt(ref)
	base := flow.Base()

	bounds := geom.Rect{
		Origin: geom.Point{
			X: parentOrigin.X + base.Position.Origin.X,
			Y: parentOrigin.Y + base.Position.Origin.Y,
		},
		Size: base.Position.Size,
	}

	flow.EmitDisplayItems(list, bounds, dirty)

	children := base.Children()
	if len(children) == 0 {
		return
	}

	target := list
	if flow.ClipsOverflow() {
		clip := &display.ClipItem{
			ItemBase: display.ItemBase{Bounds: bounds, Node: base.Node()},
			Children: display.NewList(),
		}
		list.Append(clip)
		target = clip.Children
	}
	for _, child := range children {
		b.buildFlow(t, child, bounds.Origin, dirty, target)
	}
}

// DocumentBackgroundColor picks the canvas background: the first
// html/body-equivalent element in document order whose resolved
// background is non-transparent wins; with no winner the canvas is
// opaque white.
func DocumentBackgroundColor(root *html.Node, styles map[html.NodeID]*css.Style) css.Color {
	color := css.White
	found := false
	root.TraversePreorder(func(n *html.Node) bool {
		if found {
			return false
		}
		if n.Type != html.ElementNode || (n.TagName != "html" && n.TagName != "body") {
			return true
		}
		if style := styles[n.ID()]; style != nil {
			if bg := style.GetBackgroundColor(); !bg.IsTransparent() {
				color = bg
				found = true
				return false
			}
		}
		return true
	})
	return color
}
