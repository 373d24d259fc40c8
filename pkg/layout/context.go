package layout

import (
	"lamina/pkg/css"
	"lamina/pkg/geom"
	"lamina/pkg/html"
	"lamina/pkg/images"
	"lamina/pkg/text"
)

// Context is the read-mostly bundle assembled once per reflow and shared
// by every traversal, including the parallel workers. Nothing mutates it
// while a reflow is in flight, so it needs no locking.
type Context struct {
	// ScreenSize is the viewport in CSS pixels.
	ScreenSize geom.Size
	// Stylist owns the stylesheet set used for this reflow's cascade.
	Stylist *css.Stylist
	// Styles maps each node to its resolved style for this reflow.
	Styles map[html.NodeID]*css.Style
	// ImageCache is the pipeline-local image cache for this round.
	ImageCache *images.LocalCache
	// Measurer supplies text advances.
	Measurer text.Measurer
	// ReflowRoot identifies the subtree root being reflowed.
	ReflowRoot html.NodeID
}
