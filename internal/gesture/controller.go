package gesture

import (
	"time"

	"github.com/gardenfence/gardenfence/internal/timegeom"
)

type OpKind int

const (
	OpNone OpKind = iota
	// OpPending is a press that has not yet resolved into drag, swipe, or
	// tap.
	OpPending
	OpDrag
	OpResize
	OpSwipe
	OpTemplate
)

type ResizeEdge int

const (
	EdgeTop ResizeEdge = iota
	EdgeBottom
)

// session is the single live interaction. At most one exists at a time;
// events from other pointer IDs are ignored while it lives.
type session struct {
	op        OpKind
	pointerID int
	kind      PointerKind
	origin    Point
	current   Point
	pressAt   time.Time
	timer     bool

	ref      string
	done     bool
	startMin int
	endMin   int
	edge     ResizeEdge
	payload  TemplatePayload
}

// Tracer observes gesture lifecycle for diagnostics. The zero value of the
// controller uses NoopTracer.
type Tracer interface {
	GestureStarted(op OpKind, ref string)
	GestureEnded(op OpKind, ref string, committed bool)
}

type NoopTracer struct{}

func (NoopTracer) GestureStarted(OpKind, string)     {}
func (NoopTracer) GestureEnded(OpKind, string, bool) {}

// Controller is the gesture state machine. It is not safe for concurrent
// use; the event loop is its only caller.
type Controller struct {
	cfg    Config
	tr     timegeom.Transform
	zones  []Zone
	sess   *session
	tracer Tracer
}

func NewController(cfg Config, tr timegeom.Transform) *Controller {
	return &Controller{cfg: cfg, tr: tr, tracer: NoopTracer{}}
}

func (c *Controller) SetTracer(t Tracer) {
	if t == nil {
		t = NoopTracer{}
	}
	c.tracer = t
}

// SetTransform swaps the viewport transform. Safe mid-gesture: previews
// computed after the call use the new geometry.
func (c *Controller) SetTransform(tr timegeom.Transform) { c.tr = tr }

// SetConfig swaps thresholds and feature toggles, typically after a
// breakpoint change. The live session, if any, keeps running under the
// new values.
func (c *Controller) SetConfig(cfg Config) { c.cfg = cfg }

func (c *Controller) SetZones(zones []Zone) { c.zones = zones }

// Active reports whether a gesture session is live. The minute tick uses
// this to skip relayout while the user is mid-drag.
func (c *Controller) Active() bool { return c.sess != nil && c.sess.op != OpNone }

// LongPressPending reports whether the caller should schedule a long-press
// timer for the given pointer.
func (c *Controller) LongPressPending(pointerID int) bool {
	return c.sess != nil && c.sess.op == OpPending && c.sess.pointerID == pointerID && c.sess.timer
}

// PressOnCard opens a session for a press on a planted card. excluded
// marks presses landing on nested controls (checkbox, link); those never
// claim a gesture so the control's own activation wins.
func (c *Controller) PressOnCard(ev PointerEvent, ref string, done bool, startMin, endMin int, excluded bool) Effect {
	if c.sess != nil || excluded {
		return none()
	}
	c.sess = &session{
		op:        OpPending,
		pointerID: ev.ID,
		kind:      ev.Kind,
		origin:    ev.Pos,
		current:   ev.Pos,
		pressAt:   ev.At,
		timer:     ev.Kind != Mouse,
		ref:       ref,
		done:      done,
		startMin:  startMin,
		endMin:    endMin,
	}
	return none()
}

// PressOnResizeHandle captures the pointer for an edge drag immediately;
// resize has no long-press arming step.
func (c *Controller) PressOnResizeHandle(ev PointerEvent, ref string, edge ResizeEdge, startMin, endMin int) Effect {
	if c.sess != nil {
		return none()
	}
	c.sess = &session{
		op:        OpResize,
		pointerID: ev.ID,
		kind:      ev.Kind,
		origin:    ev.Pos,
		current:   ev.Pos,
		pressAt:   ev.At,
		ref:       ref,
		startMin:  startMin,
		endMin:    endMin,
		edge:      edge,
	}
	c.tracer.GestureStarted(OpResize, ref)
	return none()
}

// LongPressFired confirms a touch/pen drag. Stale timers (session gone,
// different pointer, already moved on) are ignored.
func (c *Controller) LongPressFired(pointerID int) Effect {
	s := c.sess
	if s == nil || s.op != OpPending || s.pointerID != pointerID || !s.timer {
		return none()
	}
	s.op = OpDrag
	s.timer = false
	c.tracer.GestureStarted(OpDrag, s.ref)
	return Effect{Kind: EffDragStarted, Ref: s.ref}
}

// Move advances the live session. Events from pointers that do not own the
// session are dropped to avoid cross-talk between simultaneous touches.
func (c *Controller) Move(ev PointerEvent) Effect {
	s := c.sess
	if s == nil || s.pointerID != ev.ID {
		return none()
	}
	s.current = ev.Pos
	dx := ev.Pos.X - s.origin.X
	dy := ev.Pos.Y - s.origin.Y

	switch s.op {
	case OpPending:
		if s.kind != Mouse {
			if c.cfg.SwipeEnabled && abs(dx) >= c.cfg.MoveCancelThreshold && abs(dx) >= 2*abs(dy) {
				s.op = OpSwipe
				s.timer = false
				c.tracer.GestureStarted(OpSwipe, s.ref)
				return Effect{Kind: EffSwipeProgress, Ref: s.ref, DeltaX: dx}
			}
			if abs(dx) > c.cfg.MoveCancelThreshold || abs(dy) > c.cfg.MoveCancelThreshold {
				// Drifted before the timer fired: this is a scroll, not
				// ours.
				c.sess = nil
			}
			return none()
		}
		if abs(dx) > c.cfg.MoveCancelThreshold || abs(dy) > c.cfg.MoveCancelThreshold {
			s.op = OpDrag
			c.tracer.GestureStarted(OpDrag, s.ref)
			return c.dragPreview(Effect{Kind: EffDragStarted, Ref: s.ref}, ev.Pos)
		}
		return none()

	case OpDrag:
		return c.dragPreview(Effect{Kind: EffDragPreview, Ref: s.ref}, ev.Pos)

	case OpResize:
		start, end, ok := c.resizeInterval(ev.Pos)
		if !ok {
			return none()
		}
		s.startMin, s.endMin = start, end
		return Effect{Kind: EffResizePreview, Ref: s.ref, StartMin: start, EndMin: end}

	case OpSwipe:
		return Effect{Kind: EffSwipeProgress, Ref: s.ref, DeltaX: dx}
	}
	return none()
}

// Release closes the session. Drop-zone membership is resolved from the
// release position, not the last move, because move events may be
// throttled and under-report the final position.
func (c *Controller) Release(ev PointerEvent) Effect {
	s := c.sess
	if s == nil || s.pointerID != ev.ID {
		return none()
	}
	c.sess = nil

	switch s.op {
	case OpPending:
		return Effect{Kind: EffTap, Ref: s.ref}

	case OpDrag:
		z := zoneAt(c.zones, ev.Pos)
		if z == nil {
			c.tracer.GestureEnded(OpDrag, s.ref, false)
			return Effect{Kind: EffDragCancelled, Ref: s.ref}
		}
		if !z.Timeline {
			c.tracer.GestureEnded(OpDrag, s.ref, true)
			return Effect{Kind: EffZoneDrop, Ref: s.ref, Zone: z.ID}
		}
		start := c.minutesAt(*z, ev.Pos, c.tr.Calc.SnapInterval)
		dur := s.endMin - s.startMin
		if dur < timegeom.MinDuration {
			dur = 60
		}
		end := start + dur
		if end > c.tr.Calc.PlotEnd {
			end = c.tr.Calc.PlotEnd
		}
		c.tracer.GestureEnded(OpDrag, s.ref, true)
		return Effect{Kind: EffDropCommitted, Ref: s.ref, Zone: z.ID, StartMin: start, EndMin: end}

	case OpResize:
		start, end, ok := c.resizeInterval(ev.Pos)
		if !ok {
			start, end = s.startMin, s.endMin
		}
		c.tracer.GestureEnded(OpResize, s.ref, true)
		return Effect{Kind: EffResizeCommitted, Ref: s.ref, StartMin: start, EndMin: end}

	case OpSwipe:
		dx := ev.Pos.X - s.origin.X
		if dx >= c.cfg.SwipeThreshold && !s.done {
			c.tracer.GestureEnded(OpSwipe, s.ref, true)
			return Effect{Kind: EffSwipeCommitted, Ref: s.ref, MarkDone: true}
		}
		if dx <= -c.cfg.SwipeThreshold && s.done {
			c.tracer.GestureEnded(OpSwipe, s.ref, true)
			return Effect{Kind: EffSwipeCommitted, Ref: s.ref, MarkDone: false}
		}
		c.tracer.GestureEnded(OpSwipe, s.ref, false)
		return Effect{Kind: EffSwipeReverted, Ref: s.ref}
	}
	return none()
}

// CancelPointer aborts the session owned by the pointer, tearing down any
// preview. Used for pointercancel-equivalents and Escape.
func (c *Controller) CancelPointer(pointerID int) Effect {
	s := c.sess
	if s == nil || s.pointerID != pointerID {
		return none()
	}
	return c.cancel()
}

// CancelAll aborts whatever is live. Used on unmount and on date change.
func (c *Controller) CancelAll() Effect {
	if c.sess == nil {
		return none()
	}
	return c.cancel()
}

func (c *Controller) cancel() Effect {
	s := c.sess
	c.sess = nil
	switch s.op {
	case OpSwipe:
		c.tracer.GestureEnded(OpSwipe, s.ref, false)
		return Effect{Kind: EffSwipeReverted, Ref: s.ref}
	case OpPending:
		return none()
	default:
		c.tracer.GestureEnded(s.op, s.ref, false)
		return Effect{Kind: EffDragCancelled, Ref: s.ref}
	}
}

// BeginTemplateDrag opens a native-drag session for a template pill. There
// is no pointer ID; native drags deliver only over/drop positions.
func (c *Controller) BeginTemplateDrag(p TemplatePayload) Effect {
	if c.sess != nil {
		return none()
	}
	if p.Duration <= 0 {
		p.Duration = 60
	}
	c.sess = &session{op: OpTemplate, pointerID: -1, payload: p}
	c.tracer.GestureStarted(OpTemplate, p.Title)
	return Effect{Kind: EffDragStarted, Ref: p.Title}
}

// TemplateOver previews the drop time while a template hovers the canvas.
func (c *Controller) TemplateOver(pos Point) Effect {
	s := c.sess
	if s == nil || s.op != OpTemplate {
		return none()
	}
	s.current = pos
	return c.dragPreview(Effect{Kind: EffDragPreview, Ref: s.payload.Title}, pos)
}

// TemplateDrop finalizes a native drag. raw is the drop data; it overrides
// the payload captured at BeginTemplateDrag when parseable, covering drops
// arriving without a matching dragstart.
func (c *Controller) TemplateDrop(pos Point, raw []byte) Effect {
	s := c.sess
	c.sess = nil

	p, ok := DecodePayload(raw)
	if !ok && s != nil && s.op == OpTemplate {
		p, ok = s.payload, true
	}
	if !ok {
		return Effect{Kind: EffDragCancelled}
	}
	z := zoneAt(c.zones, pos)
	if z == nil || !z.Timeline {
		c.tracer.GestureEnded(OpTemplate, p.Title, false)
		return Effect{Kind: EffDragCancelled, Ref: p.Title}
	}
	start := c.minutesAt(*z, pos, c.tr.Calc.SnapInterval)
	end := start + p.Duration
	if end > c.tr.Calc.PlotEnd {
		end = c.tr.Calc.PlotEnd
	}
	c.tracer.GestureEnded(OpTemplate, p.Title, true)
	return Effect{Kind: EffTemplateDropped, Ref: p.Title, Zone: z.ID, StartMin: start, EndMin: end, Payload: &p}
}

// resizeInterval recalculates the session interval for the pointer
// position. The dragged edge snaps to the fine grid; the anchored edge is
// untouched and the result always keeps the minimum duration.
func (c *Controller) resizeInterval(pos Point) (int, int, bool) {
	s := c.sess
	var z *Zone
	for i := range c.zones {
		if c.zones[i].Timeline {
			z = &c.zones[i]
			break
		}
	}
	if s == nil || z == nil {
		return 0, 0, false
	}
	m := c.minutesAt(*z, pos, c.tr.Calc.SnapInterval)
	if s.edge == EdgeTop {
		start := m
		if start > s.endMin-timegeom.MinDuration {
			start = s.endMin - timegeom.MinDuration
		}
		return start, s.endMin, true
	}
	end := m
	if end < s.startMin+timegeom.MinDuration {
		end = s.startMin + timegeom.MinDuration
	}
	if end > c.tr.Calc.PlotEnd {
		end = c.tr.Calc.PlotEnd
	}
	return s.startMin, end, true
}

// dragPreview decorates eff with the hovered zone and, on the timeline,
// the candidate drop time snapped to the coarse preview grid.
func (c *Controller) dragPreview(eff Effect, pos Point) Effect {
	z := zoneAt(c.zones, pos)
	if z == nil {
		return eff
	}
	eff.Zone = z.ID
	if z.Timeline {
		eff.PreviewMin = c.minutesAt(*z, pos, c.cfg.PreviewSnap)
	}
	return eff
}

// minutesAt converts a canvas position inside the zone to minutes with the
// given snap interval, through the collapse-aware transform.
func (c *Controller) minutesAt(z Zone, pos Point, snap int) int {
	return c.tr.YToMinutesSnapped(pos.Y-z.Bounds.Y, z.Bounds.H, snap)
}
