package sprint

import (
	"github.com/penwyp/go-project-timer/internal/core/model"
)

// RenderOverlay tracks render execution as a parallel interval kind.
// Completed renders wait in a pending list until the caller merges them.
type RenderOverlay struct {
	rendering   bool
	renderStart *model.Timestamp
	pending     []model.Interval
}

func NewRenderOverlay() *RenderOverlay {
	return &RenderOverlay{}
}

// OnRenderStart marks a render as running from now. A start while already
// rendering closes the running render at now into the pending list first,
// so no render time is lost and none is counted twice.
func (o *RenderOverlay) OnRenderStart(now model.Timestamp) {
	if o.rendering {
		o.OnRenderComplete(now)
	}
	o.rendering = true
	start := now
	o.renderStart = &start
}

// OnRenderComplete ends the running render; cancel is handled the same way.
// Non-zero renders are queued and returned.
func (o *RenderOverlay) OnRenderComplete(now model.Timestamp) (model.Interval, bool) {
	if !o.rendering || o.renderStart == nil {
		return model.Interval{}, false
	}
	iv := model.NewInterval("", model.KindRendering, *o.renderStart, now)
	o.rendering = false
	o.renderStart = nil

	if iv.IsEmpty() {
		return model.Interval{}, false
	}
	o.pending = append(o.pending, iv)
	return iv, true
}

func (o *RenderOverlay) Rendering() bool {
	return o.rendering
}

// RenderStart returns the start of the running render, if any
func (o *RenderOverlay) RenderStart() (model.Timestamp, bool) {
	if o.renderStart == nil {
		return 0, false
	}
	return *o.renderStart, true
}

// Pending returns a copy of the completed renders awaiting merge
func (o *RenderOverlay) Pending() []model.Interval {
	out := make([]model.Interval, len(o.pending))
	copy(out, o.pending)
	return out
}

// Ack drops the first n pending renders after they were merged
func (o *RenderOverlay) Ack(n int) {
	if n <= 0 {
		return
	}
	if n >= len(o.pending) {
		o.pending = nil
		return
	}
	o.pending = append([]model.Interval(nil), o.pending[n:]...)
}
