// Package render is the painting collaborator: it consumes the layer a
// layout worker hands off (display lists, pixel size, canvas background)
// and rasterizes it with gg. It runs as its own message-driven goroutine
// so the layout worker's exit handshake has something real to talk to.
package render

import (
	"image"
	"sync"

	"github.com/fogleman/gg"
	"go.uber.org/zap"

	"lamina/pkg/css"
	"lamina/pkg/display"
)

// Msg is a message to the render task.
type Msg interface {
	renderMsg()
}

// PaintMsg delivers a freshly laid-out layer to paint.
type PaintMsg struct {
	Layer Layer
}

func (PaintMsg) renderMsg() {}

// ExitMsg asks the render task to stop; the ack is sent once it has.
type ExitMsg struct {
	Ack chan<- struct{}
}

func (ExitMsg) renderMsg() {}

// Layer is one paintable snapshot of a document.
type Layer struct {
	Lists      *display.Collection
	Size       image.Point
	Background css.Color
}

// Renderer paints layers as they arrive and keeps the latest result.
type Renderer struct {
	port   <-chan Msg
	logger *zap.Logger

	mu   sync.Mutex
	last *image.RGBA
}

// Spawn starts a render task reading from port. The returned Renderer
// can be asked for the most recent snapshot at any time.
func Spawn(port <-chan Msg, logger *zap.Logger) *Renderer {
	r := &Renderer{port: port, logger: logger}
	go r.run()
	return r
}

func (r *Renderer) run() {
	for msg := range r.port {
		switch m := msg.(type) {
		case PaintMsg:
			img := Paint(m.Layer)
			r.mu.Lock()
			r.last = img
			r.mu.Unlock()
			r.logger.Debug("painted layer",
				zap.Int("width", m.Layer.Size.X),
				zap.Int("height", m.Layer.Size.Y))
		case ExitMsg:
			r.logger.Debug("render task exiting")
			m.Ack <- struct{}{}
			return
		}
	}
}

// Snapshot returns the most recently painted image, or nil before the
// first paint.
func (r *Renderer) Snapshot() *image.RGBA {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.last
}

// Paint rasterizes one layer.
func Paint(layer Layer) *image.RGBA {
	width, height := layer.Size.X, layer.Size.Y
	if width < 1 {
		width = 1
	}
	if height < 1 {
		height = 1
	}
	dc := gg.NewContext(width, height)
	setColor(dc, layer.Background)
	dc.Clear()

	for _, list := range layer.Lists.Lists {
		paintList(dc, list)
	}

	if rgba, ok := dc.Image().(*image.RGBA); ok {
		return rgba
	}
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	copyImage(img, dc.Image())
	return img
}

func paintList(dc *gg.Context, list *display.List) {
	for _, item := range list.Items {
		paintItem(dc, item)
	}
}

func paintItem(dc *gg.Context, item display.Item) {
	bounds := item.Base().Bounds
	switch it := item.(type) {
	case *display.SolidColorItem:
		setColor(dc, it.Color)
		dc.DrawRectangle(bounds.Origin.X, bounds.Origin.Y, bounds.Size.Width, bounds.Size.Height)
		dc.Fill()

	case *display.BorderItem:
		setColor(dc, it.Color)
		// Four filled strips, one per edge.
		x, y := bounds.Origin.X, bounds.Origin.Y
		w, h := bounds.Size.Width, bounds.Size.Height
		dc.DrawRectangle(x, y, w, it.Widths.Top)
		dc.DrawRectangle(x, y+h-it.Widths.Bottom, w, it.Widths.Bottom)
		dc.DrawRectangle(x, y, it.Widths.Left, h)
		dc.DrawRectangle(x+w-it.Widths.Right, y, it.Widths.Right, h)
		dc.Fill()

	case *display.TextItem:
		setColor(dc, it.Color)
		dc.DrawString(it.Text, bounds.Origin.X, bounds.Origin.Y+it.FontSize)

	case *display.ClipItem:
		dc.Push()
		dc.DrawRectangle(bounds.Origin.X, bounds.Origin.Y, bounds.Size.Width, bounds.Size.Height)
		dc.Clip()
		paintList(dc, it.Children)
		dc.ResetClip()
		dc.Pop()
	}
}

func setColor(dc *gg.Context, c css.Color) {
	dc.SetRGBA(float64(c.R)/255.0, float64(c.G)/255.0, float64(c.B)/255.0, c.A)
}

func copyImage(dst *image.RGBA, src image.Image) {
	b := dst.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			dst.Set(x, y, src.At(x, y))
		}
	}
}
