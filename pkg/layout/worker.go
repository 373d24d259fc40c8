package layout

import (
	"image"
	"math"

	"go.uber.org/zap"

	"lamina/pkg/css"
	"lamina/pkg/display"
	"lamina/pkg/geom"
	"lamina/pkg/html"
	"lamina/pkg/images"
	"lamina/pkg/render"
	"lamina/pkg/text"
	"lamina/pkg/workqueue"
)

// Opts configures one layout worker.
type Opts struct {
	// LayoutThreads sizes the constraint-solving pool. One means the
	// sequential path with no pool at all.
	LayoutThreads int
	// VerifyFlowTree enables the debug tree-shape assertion after
	// construction (every flow leaf xor non-leaf, fatal on violation).
	VerifyFlowTree bool
}

// Worker is the layout task for one pipeline: a single-goroutine actor
// owning every piece of layout state. It processes one message at a
// time; the only concurrency it ever creates is the bounded pool used
// inside constraint solving.
type Worker struct {
	id         PipelineID
	port       <-chan Msg
	scriptChan chan<- ScriptMsg
	renderChan chan<- render.Msg

	imageCache *images.LocalCache
	screenSize geom.Size
	stylist    *css.Stylist
	store      *LayoutDataStore
	tree       *Tree
	measurer   text.Measurer

	// displayLists is the last computed result, replaced wholesale by
	// every for-display reflow and read-only in between.
	displayLists *display.Collection

	pool   *workqueue.Queue[FlowRef]
	logger *zap.Logger
	opts   Opts
}

// Spawn starts a layout worker goroutine. The returned channel closes
// once the worker has fully shut down. scriptChan should carry a few
// messages of buffer: image availability events are sent best-effort
// from cache goroutines and are dropped when the channel is full.
func Spawn(id PipelineID, opts Opts, port <-chan Msg, scriptChan chan<- ScriptMsg,
	renderChan chan<- render.Msg, imageCache *images.Cache, logger *zap.Logger) <-chan struct{} {

	w := newWorker(id, opts, port, scriptChan, renderChan, imageCache, logger)
	shutdown := make(chan struct{})
	go func() {
		defer close(shutdown)
		w.start()
	}()
	return shutdown
}

func newWorker(id PipelineID, opts Opts, port <-chan Msg, scriptChan chan<- ScriptMsg,
	renderChan chan<- render.Msg, imageCache *images.Cache, logger *zap.Logger) *Worker {

	var pool *workqueue.Queue[FlowRef]
	if opts.LayoutThreads > 1 {
		pool = workqueue.New[FlowRef]("layout", opts.LayoutThreads, logger)
	}
	return &Worker{
		id:         id,
		port:       port,
		scriptChan: scriptChan,
		renderChan: renderChan,
		imageCache: images.NewLocalCache(imageCache),
		stylist:    css.NewStylist(),
		store:      NewLayoutDataStore(),
		tree:       NewTree(),
		measurer:   text.FixedMeasurer{},
		pool:       pool,
		logger:     logger,
		opts:       opts,
	}
}

// start runs the message loop until an exit message arrives.
func (w *Worker) start() {
	for w.handleRequest() {
	}
}

// handleRequest receives and dispatches one message; false means the
// loop is done.
func (w *Worker) handleRequest() bool {
	msg, ok := <-w.port
	if !ok {
		return false
	}
	switch m := msg.(type) {
	case AddStylesheetMsg:
		w.handleAddStylesheet(m.Sheet)
	case ReflowMsg:
		w.handleReflow(m.Data)
	case QueryMsg:
		w.handleQuery(m.Query)
	case ReapLayoutDataMsg:
		w.store.Reap(m.Node)
	case PrepareToExitMsg:
		w.logger.Debug("layout: PrepareToExit received")
		w.prepareToExit(m.Ack)
		return false
	case ExitNowMsg:
		w.logger.Debug("layout: ExitNow received")
		w.exitNow()
		return false
	}
	return true
}

// prepareToExit acks immediately and then sits quiescent, accepting only
// layout-data reaping until told to exit. Anything else arriving in this
// state is a protocol violation and fatal.
func (w *Worker) prepareToExit(ack chan<- struct{}) {
	ack <- struct{}{}
	for msg := range w.port {
		switch m := msg.(type) {
		case ReapLayoutDataMsg:
			w.store.Reap(m.Node)
		case ExitNowMsg:
			w.exitNow()
			return
		default:
			panic("layout: message that wasn't ExitNow received after PrepareToExit")
		}
	}
}

// exitNow shuts the pool down and performs the synchronous exit
// handshake with the renderer.
func (w *Worker) exitNow() {
	if w.pool != nil {
		w.pool.Shutdown()
	}
	ack := make(chan struct{})
	w.renderChan <- render.ExitMsg{Ack: ack}
	<-ack
}

func (w *Worker) handleAddStylesheet(sheet *css.Stylesheet) {
	w.stylist.AddStylesheet(sheet, css.AuthorOrigin)
}

// buildContext assembles the read-mostly bundle every traversal of one
// reflow shares.
func (w *Worker) buildContext(styles map[html.NodeID]*css.Style, reflowRoot html.NodeID) *Context {
	return &Context{
		ScreenSize: w.screenSize,
		Stylist:    w.stylist,
		Styles:     styles,
		ImageCache: w.imageCache,
		Measurer:   w.measurer,
		ReflowRoot: reflowRoot,
	}
}

// handleReflow is the high-level layout routine: restyle as needed,
// construct the flow tree, propagate damage, solve constraints, build
// and ship the display list, then acknowledge.
func (w *Worker) handleReflow(data *Reflow) {
	root := data.Document.Root
	w.logger.Debug("layout: reflow request",
		zap.Uint32("id", data.ID),
		zap.Int("damage-level", int(data.Damage.Level)))

	// New image round: anything that arrives late re-raises a
	// content-changed event toward the document owner.
	w.imageCache.NextRound(&imageResponder{id: w.id, scriptChan: w.scriptChan, logger: w.logger})

	// Content changes and viewport resizes invalidate everything.
	allStyleDamage := data.Damage.Level == ContentChangedDocumentDamage
	if w.screenSize != data.WindowSize {
		allStyleDamage = true
	}
	w.screenSize = data.WindowSize

	// Selector matching runs unless the damage level says geometry only.
	var styles map[html.NodeID]*css.Style
	if data.Damage.Level == ReflowDocumentDamage {
		styles = w.cachedStyles(root)
	} else {
		styles = w.matchAndCascade(root)
	}

	ctx := w.buildContext(styles, root.ID())

	// Construct the flow tree.
	constructor := NewFlowConstructor(ctx, w.tree, w.store)
	rootFlow := constructor.ConstructFlowTree(root)

	if w.opts.VerifyFlowTree {
		w.tree.TraversePreorder(rootFlow, FlowTreeVerificationTraversal{})
	}

	PropagateDamage(w.tree, allStyleDamage)

	if w.pool == nil {
		SolveConstraints(w.tree, ctx)
	} else {
		SolveConstraintsParallel(w.pool, w.tree, ctx)
	}

	if data.Goal == ReflowForDisplay {
		rootBase := w.tree.FlowAt(rootFlow).Base()
		dirty := geom.Rect{Size: rootBase.Position.Size}
		collection := NewDisplayListBuilder(ctx).Build(w.tree, dirty)
		w.displayLists = collection

		layer := render.Layer{
			Lists: collection,
			Size: image.Point{
				X: int(math.Round(rootBase.Position.Size.Width)),
				Y: int(math.Round(rootBase.Position.Size.Height)),
			},
			Background: DocumentBackgroundColor(root, styles),
		}
		w.logger.Debug("layout: display list built",
			zap.Int("flows", w.tree.Len()),
			zap.Int("lists", len(collection.Lists)))
		w.renderChan <- render.PaintMsg{Layer: layer}
	}

	// The flow tree's exclusive-ownership window ends here; the arena
	// goes back to its pools for the next reflow.
	w.tree.Destroy()

	if data.ScriptJoinChan != nil {
		data.ScriptJoinChan <- struct{}{}
	}
	w.scriptChan <- ReflowCompleteMsg{Pipeline: w.id, ReflowID: data.ID}
}

// matchAndCascade restyles the subtree and records per-node restyle
// damage from the style diffs.
func (w *Worker) matchAndCascade(root *html.Node) map[html.NodeID]*css.Style {
	styles := w.stylist.MatchAndCascade(root)
	for id, style := range styles {
		data := w.store.Ensure(id)
		data.Damage = data.Damage.Union(damageForStyleChange(data.Style, style))
		data.Style = style
	}
	return styles
}

// cachedStyles reuses the styles resolved by the previous cascade; a
// geometry-only reflow never re-matches selectors.
func (w *Worker) cachedStyles(root *html.Node) map[html.NodeID]*css.Style {
	styles := make(map[html.NodeID]*css.Style)
	root.TraversePreorder(func(n *html.Node) bool {
		if data := w.store.Get(n.ID()); data != nil && data.Style != nil {
			styles[n.ID()] = data.Style
		}
		return true
	})
	return styles
}

// handleQuery answers geometry questions from the cached display lists.
// This is what getBoundingClientRect-style DOM calls land on.
func (w *Worker) handleQuery(query Query) {
	collection := w.displayLists
	if collection == nil {
		collection = display.NewCollection()
	}
	switch q := query.(type) {
	case ContentBoxQuery:
		q.Reply <- ContentBox(collection, q.Node)
	case ContentBoxesQuery:
		q.Reply <- ContentBoxes(collection, q.Node)
	case HitTestQuery:
		q.Reply <- HitTest(collection, q.Point)
	}
}

// imageResponder is the capability handed to the image cache for one
// round; a late-arriving image re-raises a content-changed event. The
// send is best-effort because it runs on a cache loader goroutine that
// must never stall behind a slow or departed document owner; a drop is
// logged so a reflow that never came can be traced.
type imageResponder struct {
	id         PipelineID
	scriptChan chan<- ScriptMsg
	logger     *zap.Logger
}

func (r *imageResponder) ImageAvailable(path string) {
	select {
	case r.scriptChan <- ContentChangedEventMsg{Pipeline: r.id}:
	default:
		r.logger.Warn("layout: image availability event dropped, script channel full",
			zap.String("path", path))
	}
}
