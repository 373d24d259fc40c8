package layout

import (
	"lamina/pkg/css"
	"lamina/pkg/display"
	"lamina/pkg/geom"
	"lamina/pkg/text"
)

// TextFlow is a leaf flow holding one run of text. Line breaking is not
// modeled: the run takes its preferred width and one line of height, and
// anything wider than the containing block surfaces as overflow.
type TextFlow struct {
	FlowBase

	Style *css.Style
	Text  string
}

func newTextFlow(node *styledNode) *TextFlow {
	f := textFlowPool.Get().(*TextFlow)
	f.node = node.id
	f.Style = node.style
	f.Text = node.text
	return f
}

func (f *TextFlow) reset() {
	f.FlowBase.reset()
	f.Style = nil
	f.Text = ""
}

func (f *TextFlow) Base() *FlowBase { return &f.FlowBase }

func (f *TextFlow) BubbleWidths(ctx *Context, t *Tree) {
	fontSize := f.Style.GetFontSize()
	f.MinWidth = text.LongestWordAdvance(ctx.Measurer, f.Text, fontSize)
	f.PrefWidth = ctx.Measurer.Advance(f.Text, fontSize)
}

func (f *TextFlow) AssignWidths(ctx *Context, t *Tree) {
	f.Position.Size.Width = f.PrefWidth
}

func (f *TextFlow) AssignHeight(ctx *Context, t *Tree) {
	f.Position.Size.Height = f.Style.GetLineHeight()
}

func (f *TextFlow) StoreOverflow(t *Tree) {
	f.Overflow = geom.MakeRect(0, 0, f.Position.Size.Width, f.Position.Size.Height)
}

func (f *TextFlow) ClipsOverflow() bool { return false }

func (f *TextFlow) EmitDisplayItems(list *display.List, bounds, dirty geom.Rect) {
	if f.Text == "" || !bounds.Intersects(dirty) {
		return
	}
	list.Append(&display.TextItem{
		ItemBase: display.ItemBase{Bounds: bounds, Node: f.node},
		Text:     f.Text,
		Color:    f.Style.GetColor(),
		FontSize: f.Style.GetFontSize(),
	})
}
