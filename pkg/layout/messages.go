package layout

import (
	"lamina/pkg/css"
	"lamina/pkg/geom"
	"lamina/pkg/html"
)

// PipelineID identifies one document's pipeline. Layout only routes it
// back in completion messages; it is never interpreted.
type PipelineID uint32

// Msg is a message to the layout worker. One request per message;
// replies travel on channels embedded in the request.
type Msg interface {
	layoutMsg()
}

// AddStylesheetMsg merges an author stylesheet into the stylist's set.
type AddStylesheetMsg struct {
	Sheet *css.Stylesheet
}

func (AddStylesheetMsg) layoutMsg() {}

// ReflowMsg requests a full layout pass.
type ReflowMsg struct {
	Data *Reflow
}

func (ReflowMsg) layoutMsg() {}

// QueryMsg asks a geometry question of the last computed result.
type QueryMsg struct {
	Query Query
}

func (QueryMsg) layoutMsg() {}

// ReapLayoutDataMsg releases the layout-side data of a node the document
// owner is destroying. Honored even while preparing to exit.
type ReapLayoutDataMsg struct {
	Node html.NodeID
}

func (ReapLayoutDataMsg) layoutMsg() {}

// PrepareToExitMsg acks immediately, then puts the worker in a quiescent
// state where only ReapLayoutDataMsg and ExitNowMsg are legal.
type PrepareToExitMsg struct {
	Ack chan<- struct{}
}

func (PrepareToExitMsg) layoutMsg() {}

// ExitNowMsg terminates the worker: the pool is shut down and the
// renderer acknowledges its own exit before the worker's loop returns.
type ExitNowMsg struct{}

func (ExitNowMsg) layoutMsg() {}

// ReflowGoal says what a reflow's output is for.
type ReflowGoal int

const (
	// ReflowForDisplay builds and ships a display list.
	ReflowForDisplay ReflowGoal = iota
	// ReflowForScriptQuery solves geometry only; the cached display list
	// is left in place.
	ReflowForScriptQuery
)

// DocumentDamageLevel describes how much of the document changed.
type DocumentDamageLevel int

const (
	// ReflowDocumentDamage: geometry only; selector matching is skipped.
	ReflowDocumentDamage DocumentDamageLevel = iota
	// MatchSelectorsDocumentDamage: restyle, then reflow.
	MatchSelectorsDocumentDamage
	// ContentChangedDocumentDamage: content changed; every flow takes
	// the full damage set.
	ContentChangedDocumentDamage
)

// DocumentDamage accompanies a reflow request.
type DocumentDamage struct {
	Level DocumentDamageLevel
}

// Reflow carries everything one reflow needs. On completion the worker
// sends the join signal and then a ReflowCompleteMsg to the script side.
type Reflow struct {
	Document   *html.Document
	Damage     DocumentDamage
	Goal       ReflowGoal
	ID         uint32
	WindowSize geom.Size
	// ScriptJoinChan gets the synchronization signal.
	ScriptJoinChan chan<- struct{}
}

// Query is one geometry question.
type Query interface {
	layoutQuery()
}

// ContentBoxQuery asks for the union rect of a node's display items.
type ContentBoxQuery struct {
	Node  html.NodeID
	Reply chan<- geom.Rect
}

func (ContentBoxQuery) layoutQuery() {}

// ContentBoxesQuery asks for each display-item rect individually.
type ContentBoxesQuery struct {
	Node  html.NodeID
	Reply chan<- []geom.Rect
}

func (ContentBoxesQuery) layoutQuery() {}

// HitTestQuery asks which node is topmost at a point.
type HitTestQuery struct {
	Point geom.Point
	Reply chan<- HitTestResponse
}

func (HitTestQuery) layoutQuery() {}

// ScriptMsg is a message from layout back toward the document owner.
type ScriptMsg interface {
	scriptMsg()
}

// ReflowCompleteMsg reports that a reflow finished.
type ReflowCompleteMsg struct {
	Pipeline PipelineID
	ReflowID uint32
}

func (ReflowCompleteMsg) scriptMsg() {}

// ContentChangedEventMsg re-raises a content-changed event, e.g. when an
// image that was pending during layout becomes available.
type ContentChangedEventMsg struct {
	Pipeline PipelineID
}

func (ContentChangedEventMsg) scriptMsg() {}
