package layout

import (
	"testing"

	"lamina/pkg/css"
	"lamina/pkg/display"
	"lamina/pkg/geom"
	"lamina/pkg/html"
)

// buildDisplayList runs the whole front half of a reflow over markup:
// cascade, construction, sequential solve, then display-list building
// with the viewport as the dirty rect.
func buildDisplayList(t *testing.T, markup string, width, height float64) (*html.Document, *Context, *display.Collection) {
	t.Helper()
	doc, ctx := styledTree(t, markup, width, height)
	tree, _, _ := constructTree(doc, ctx)
	SolveConstraints(tree, ctx)
	collection := NewDisplayListBuilder(ctx).Build(tree, geom.MakeRect(0, 0, width, height))
	return doc, ctx, collection
}

func collectItems(c *display.Collection) []display.Item {
	var items []display.Item
	var walk func(list *display.List)
	walk = func(list *display.List) {
		for _, item := range list.Items {
			items = append(items, item)
			if child := item.ChildList(); child != nil {
				walk(child)
			}
		}
	}
	for _, list := range c.Lists {
		walk(list)
	}
	return items
}

func findNode(doc *html.Document, tag string) html.NodeID {
	id := html.NoNode
	doc.Root.TraversePreorder(func(n *html.Node) bool {
		if n.Type == html.ElementNode && n.TagName == tag {
			id = n.ID()
			return false
		}
		return true
	})
	return id
}

func TestDisplayListBuilder_EmitsItems(t *testing.T) {
	doc, _, collection := buildDisplayList(t, `<html><style>
		div { background-color: #ff0000; border-width: 2px; height: 50px; }
	</style><body><div>hi</div></body></html>`, 800, 600)

	div := findNode(doc, "div")
	var solid *display.SolidColorItem
	var border *display.BorderItem
	var textItem *display.TextItem
	for _, item := range collectItems(collection) {
		switch it := item.(type) {
		case *display.SolidColorItem:
			if it.Node == div {
				solid = it
			}
		case *display.BorderItem:
			if it.Node == div {
				border = it
			}
		case *display.TextItem:
			textItem = it
		}
	}

	if solid == nil {
		t.Fatal("no solid color item for the div")
	}
	if solid.Color != (css.Color{R: 255, A: 1}) {
		t.Errorf("background color = %+v, want red", solid.Color)
	}
	if border == nil {
		t.Fatal("no border item for the div")
	}
	if border.Widths.Top != 2 {
		t.Errorf("border top width = %v, want 2", border.Widths.Top)
	}
	if textItem == nil {
		t.Fatal("no text item for the div's text run")
	}
	if textItem.Text != "hi" {
		t.Errorf("text item text = %q, want %q", textItem.Text, "hi")
	}

	// Background and border share the div's border box.
	if solid.Bounds != border.Bounds {
		t.Errorf("background bounds %v != border bounds %v", solid.Bounds, border.Bounds)
	}
	// UA default body margin indents the div. Its box spans the body's
	// content width at the top of the body.
	if solid.Bounds.Origin != (geom.Point{X: 8, Y: 8}) {
		t.Errorf("div bounds origin = %v, want (8, 8)", solid.Bounds.Origin)
	}
	if solid.Bounds.Size != (geom.Size{Width: 784, Height: 54}) {
		t.Errorf("div bounds size = %v, want 784x54", solid.Bounds.Size)
	}
}

func TestDisplayListBuilder_TextBoundsAreAbsolute(t *testing.T) {
	_, _, collection := buildDisplayList(t, `<html><style>
		div { padding-left: 10px; padding-top: 20px; }
	</style><body><div>x</div></body></html>`, 800, 600)

	var textItem *display.TextItem
	for _, item := range collectItems(collection) {
		if it, ok := item.(*display.TextItem); ok {
			textItem = it
		}
	}
	if textItem == nil {
		t.Fatal("no text item emitted")
	}
	// Body margin (8,8) plus the div's padding (10,20).
	if textItem.Bounds.Origin != (geom.Point{X: 18, Y: 28}) {
		t.Errorf("text bounds origin = %v, want (18, 28)", textItem.Bounds.Origin)
	}
}

func TestDisplayListBuilder_ClipNesting(t *testing.T) {
	_, _, collection := buildDisplayList(t, `<html><style>
		.clip { overflow: hidden; height: 30px; }
		.inner { background-color: blue; height: 100px; }
	</style><body><div class="clip"><div class="inner"></div></div></body></html>`, 800, 600)

	if len(collection.Lists) != 1 {
		t.Fatalf("collection has %d lists, want 1", len(collection.Lists))
	}

	var clip *display.ClipItem
	for _, item := range collection.Lists[0].Items {
		if it, ok := item.(*display.ClipItem); ok {
			clip = it
		}
	}
	if clip == nil {
		t.Fatal("overflow:hidden flow produced no clip item")
	}
	if clip.Bounds.Size.Height != 30 {
		t.Errorf("clip bounds height = %v, want the clipping box's 30", clip.Bounds.Size.Height)
	}

	foundInner := false
	for _, item := range clip.Children.Items {
		if _, ok := item.(*display.SolidColorItem); ok {
			foundInner = true
		}
	}
	if !foundInner {
		t.Error("the clipped child's background is not inside the clip's nested list")
	}
	// Nothing from the clipped subtree may leak into the outer list.
	for _, item := range collection.Lists[0].Items {
		if _, ok := item.(*display.SolidColorItem); ok {
			t.Error("clipped content leaked into the enclosing list")
		}
	}
}

func TestDisplayListBuilder_DirtyRectCulls(t *testing.T) {
	markup := `<html><style>
		div { background-color: green; height: 40px; }
	</style><body><div></div></body></html>`

	doc, ctx := styledTree(t, markup, 800, 600)
	tree, _, _ := constructTree(doc, ctx)
	SolveConstraints(tree, ctx)

	// A dirty rect far away from the content produces no items at all.
	collection := NewDisplayListBuilder(ctx).Build(tree, geom.MakeRect(5000, 5000, 10, 10))
	if items := collectItems(collection); len(items) != 0 {
		t.Errorf("got %d items for a far-away dirty rect, want none", len(items))
	}

	collection = NewDisplayListBuilder(ctx).Build(tree, geom.MakeRect(0, 0, 800, 600))
	if items := collectItems(collection); len(items) == 0 {
		t.Error("got no items for a dirty rect covering the content")
	}
}

func TestDocumentBackgroundColor(t *testing.T) {
	background := func(markup string) css.Color {
		doc, ctx := styledTree(t, markup, 800, 600)
		return DocumentBackgroundColor(doc.Root, ctx.Styles)
	}

	if got := background(`<html><body></body></html>`); got != css.White {
		t.Errorf("default background = %+v, want white", got)
	}
	blue := css.Color{B: 255, A: 1}
	if got := background(`<html><style>body { background-color: #0000ff; }</style><body></body></html>`); got != blue {
		t.Errorf("body background = %+v, want blue", got)
	}
	// A transparent html element defers to the body behind it.
	if got := background(`<html><style>
		html { background-color: transparent; }
		body { background-color: #0000ff; }
	</style><body></body></html>`); got != blue {
		t.Errorf("background behind transparent html = %+v, want blue", got)
	}
	// Non-root elements never set the canvas color.
	if got := background(`<html><style>div { background-color: #0000ff; }</style><body><div></div></body></html>`); got != css.White {
		t.Errorf("background = %+v, div backgrounds must not win", got)
	}
	// An explicitly white body is honored, not confused with the default.
	if got := background(`<html><style>body { background-color: #ffffff; }</style><body></body></html>`); got != css.White {
		t.Errorf("white body background = %+v, want white", got)
	}
}
