package layout

import (
	"lamina/pkg/css"
	"lamina/pkg/display"
	"lamina/pkg/geom"
)

// BlockFlow lays its children out as a vertical stack of boxes. All
// geometry is border-box: Position.Size includes border and padding.
type BlockFlow struct {
	FlowBase

	Style   *css.Style
	Padding css.BoxEdge
	Border  css.BoxEdge
}

func newBlockFlow(node *styledNode) *BlockFlow {
	f := blockFlowPool.Get().(*BlockFlow)
	f.node = node.id
	f.Style = node.style
	f.Margin = node.style.GetMargin()
	f.Padding = node.style.GetPadding()
	f.Border = node.style.GetBorderWidth()
	return f
}

func (f *BlockFlow) reset() {
	f.FlowBase.reset()
	f.Style = nil
	f.Padding = css.BoxEdge{}
	f.Border = css.BoxEdge{}
}

func (f *BlockFlow) Base() *FlowBase { return &f.FlowBase }

// edgeWidth is the horizontal border+padding contribution to the
// border-box width.
func (f *BlockFlow) edgeWidth() float64 {
	return f.Border.Horizontal() + f.Padding.Horizontal()
}

func (f *BlockFlow) BubbleWidths(ctx *Context, t *Tree) {
	var minWidth, prefWidth float64
	if w, ok := f.Style.GetLength("width"); ok {
		minWidth = w
		prefWidth = w
	} else {
		for _, child := range f.children {
			cb := t.FlowAt(child).Base()
			marginH := cb.Margin.Horizontal()
			minWidth = max(minWidth, cb.MinWidth+marginH)
			prefWidth = max(prefWidth, cb.PrefWidth+marginH)
		}
	}
	f.MinWidth = minWidth + f.edgeWidth()
	f.PrefWidth = prefWidth + f.edgeWidth()
}

func (f *BlockFlow) AssignWidths(ctx *Context, t *Tree) {
	var width float64
	switch {
	case f.flags&FlagIsRoot != 0:
		// The root fills the viewport; margin collapsing and shrink
		// rules don't apply to it.
		width = f.AvailableWidth
		if w, ok := f.Style.GetLength("width"); ok {
			width = w + f.edgeWidth()
		}
	default:
		if w, ok := f.Style.GetLength("width"); ok {
			width = w + f.edgeWidth()
		} else {
			width = f.AvailableWidth - f.Margin.Horizontal()
		}
	}
	if width < 0 {
		width = 0
	}
	f.Position.Size.Width = width

	contentWidth := width - f.edgeWidth()
	if contentWidth < 0 {
		contentWidth = 0
	}
	for _, child := range f.children {
		t.FlowAt(child).Base().AvailableWidth = contentWidth
	}
}

func (f *BlockFlow) AssignHeight(ctx *Context, t *Tree) {
	topOffset := f.Border.Top + f.Padding.Top
	leftOffset := f.Border.Left + f.Padding.Left

	y := topOffset
	for _, child := range f.children {
		cb := t.FlowAt(child).Base()
		cb.Position.Origin = geom.Point{
			X: leftOffset + cb.Margin.Left,
			Y: y + cb.Margin.Top,
		}
		y = cb.Position.Origin.Y + cb.Position.Size.Height + cb.Margin.Bottom
	}

	contentHeight := y - topOffset
	if h, ok := f.Style.GetLength("height"); ok {
		contentHeight = h
	}
	f.Position.Size.Height = topOffset + contentHeight + f.Padding.Bottom + f.Border.Bottom
}

func (f *BlockFlow) StoreOverflow(t *Tree) {
	overflow := geom.MakeRect(0, 0, f.Position.Size.Width, f.Position.Size.Height)
	if !f.ClipsOverflow() {
		for _, child := range f.children {
			cb := t.FlowAt(child).Base()
			overflow = overflow.Union(cb.Overflow.Translate(cb.Position.Origin))
		}
	}
	f.Overflow = overflow
}

func (f *BlockFlow) ClipsOverflow() bool {
	return f.Style.GetOverflow() == css.OverflowHidden
}

func (f *BlockFlow) EmitDisplayItems(list *display.List, bounds, dirty geom.Rect) {
	if !bounds.Intersects(dirty) {
		return
	}
	if bg := f.Style.GetBackgroundColor(); !bg.IsTransparent() {
		list.Append(&display.SolidColorItem{
			ItemBase: display.ItemBase{Bounds: bounds, Node: f.node},
			Color:    bg,
		})
	}
	if f.Border.Top > 0 || f.Border.Right > 0 || f.Border.Bottom > 0 || f.Border.Left > 0 {
		list.Append(&display.BorderItem{
			ItemBase: display.ItemBase{Bounds: bounds, Node: f.node},
			Widths:   f.Border,
			Color:    f.Style.GetBorderColor(),
		})
	}
}
