package gesture

import (
	"testing"
	"time"

	"github.com/gardenfence/gardenfence/internal/timegeom"
)

func testController(swipe bool) *Controller {
	cfg := DefaultConfig()
	cfg.SwipeEnabled = swipe
	c := NewController(cfg, timegeom.NewTransform(timegeom.NewCalculator(), 0))
	c.SetZones([]Zone{
		{ID: ZoneTimeline, Bounds: Rect{X: 10, Y: 0, W: 80, H: 100}, Timeline: true},
		{ID: ZonePool, Bounds: Rect{X: 0, Y: 0, W: 10, H: 100}},
	})
	return c
}

func ev(id, x, y int, kind PointerKind) PointerEvent {
	return PointerEvent{ID: id, Kind: kind, Pos: Point{X: x, Y: y}, At: time.Now()}
}

func TestMousePressMoveBecomesDrag(t *testing.T) {
	c := testController(false)

	if eff := c.PressOnCard(ev(1, 40, 10, Mouse), "t1", false, 540, 600, false); eff.Kind != EffNone {
		t.Fatalf("press effect = %v", eff.Kind)
	}
	// Below threshold: still pending.
	if eff := c.Move(ev(1, 44, 12, Mouse)); eff.Kind != EffNone {
		t.Fatalf("small move should stay pending, got %v", eff.Kind)
	}
	eff := c.Move(ev(1, 40, 30, Mouse))
	if eff.Kind != EffDragStarted || eff.Ref != "t1" {
		t.Fatalf("expected drag start, got %+v", eff)
	}
	if !c.Active() {
		t.Fatal("controller should report a live gesture")
	}
	if eff.Zone != ZoneTimeline || eff.PreviewMin%30 != 0 {
		t.Fatalf("drag start preview = %+v", eff)
	}
}

func TestReleaseResolvesDropFromReleasePosition(t *testing.T) {
	c := testController(false)
	c.PressOnCard(ev(1, 40, 10, Mouse), "t1", false, 540, 600, false)
	c.Move(ev(1, 40, 40, Mouse))

	// The release lands lower than the last move reported.
	eff := c.Release(ev(1, 40, 50, Mouse))
	if eff.Kind != EffDropCommitted {
		t.Fatalf("expected drop, got %+v", eff)
	}
	// y=50 of 100 over 480..1320 is minute 900, snapped fine.
	if eff.StartMin != 900 || eff.EndMin != 960 {
		t.Fatalf("drop times = %d..%d, want 900..960", eff.StartMin, eff.EndMin)
	}
	if c.Active() {
		t.Fatal("session must close on release")
	}
}

func TestDropOutsideZonesCancels(t *testing.T) {
	c := testController(false)
	c.PressOnCard(ev(1, 40, 10, Mouse), "t1", false, 540, 600, false)
	c.Move(ev(1, 40, 40, Mouse))

	eff := c.Release(ev(1, 200, 200, Mouse))
	if eff.Kind != EffDragCancelled {
		t.Fatalf("expected cancel, got %v", eff.Kind)
	}
}

func TestDropOnPoolZone(t *testing.T) {
	c := testController(false)
	c.PressOnCard(ev(1, 40, 10, Mouse), "t1", false, 540, 600, false)
	c.Move(ev(1, 40, 40, Mouse))

	eff := c.Release(ev(1, 5, 40, Mouse))
	if eff.Kind != EffZoneDrop || eff.Zone != ZonePool {
		t.Fatalf("expected pool drop, got %+v", eff)
	}
}

func TestTouchLongPressArmsDrag(t *testing.T) {
	c := testController(false)
	c.PressOnCard(ev(7, 40, 10, Touch), "t1", false, 540, 600, false)
	if !c.LongPressPending(7) {
		t.Fatal("touch press should request a long-press timer")
	}

	// A stale timer for a different pointer must not fire.
	if eff := c.LongPressFired(3); eff.Kind != EffNone {
		t.Fatalf("wrong-pointer timer fired: %v", eff.Kind)
	}
	eff := c.LongPressFired(7)
	if eff.Kind != EffDragStarted {
		t.Fatalf("expected drag start, got %v", eff.Kind)
	}
}

func TestTouchDriftCancelsLongPress(t *testing.T) {
	c := testController(false)
	c.PressOnCard(ev(7, 40, 10, Touch), "t1", false, 540, 600, false)
	c.Move(ev(7, 40, 30, Touch)) // vertical drift past threshold: a scroll

	if c.Active() {
		t.Fatal("drifted press should release the gesture to scrolling")
	}
	if eff := c.LongPressFired(7); eff.Kind != EffNone {
		t.Fatalf("cancelled timer fired: %v", eff.Kind)
	}
}

func TestSwipeRatioGuard(t *testing.T) {
	// 80 horizontal / 10 vertical commits; 80 / 60 is rejected.
	c := testController(true)
	c.PressOnCard(ev(7, 40, 10, Touch), "t1", false, 540, 600, false)
	if eff := c.Move(ev(7, 120, 20, Touch)); eff.Kind != EffSwipeProgress {
		t.Fatalf("expected swipe claim, got %v", eff.Kind)
	}
	eff := c.Release(ev(7, 120, 20, Touch))
	if eff.Kind != EffSwipeCommitted || !eff.MarkDone {
		t.Fatalf("expected completion, got %+v", eff)
	}

	c = testController(true)
	c.PressOnCard(ev(7, 40, 10, Touch), "t1", false, 540, 600, false)
	if eff := c.Move(ev(7, 120, 70, Touch)); eff.Kind == EffSwipeProgress {
		t.Fatal("diagonal move must not claim the swipe")
	}
	if c.Active() {
		t.Fatal("rejected swipe should abandon the session")
	}
}

func TestSwipeBelowThresholdReverts(t *testing.T) {
	c := testController(true)
	c.PressOnCard(ev(7, 40, 10, Touch), "t1", false, 540, 600, false)
	c.Move(ev(7, 60, 12, Touch))

	eff := c.Release(ev(7, 80, 12, Touch)) // 40 < 72
	if eff.Kind != EffSwipeReverted {
		t.Fatalf("expected revert, got %v", eff.Kind)
	}
}

func TestSwipeBackUnmarksDone(t *testing.T) {
	c := testController(true)
	c.PressOnCard(ev(7, 120, 10, Touch), "t1", true, 540, 600, false)
	c.Move(ev(7, 100, 10, Touch))

	eff := c.Release(ev(7, 40, 10, Touch)) // -80 crosses the threshold
	if eff.Kind != EffSwipeCommitted || eff.MarkDone {
		t.Fatalf("expected un-complete, got %+v", eff)
	}
}

func TestSwipeDisabledOnWideViewport(t *testing.T) {
	c := testController(false)
	c.PressOnCard(ev(7, 40, 10, Touch), "t1", false, 540, 600, false)
	if eff := c.Move(ev(7, 120, 12, Touch)); eff.Kind == EffSwipeProgress {
		t.Fatal("swipe must not claim when disabled")
	}
}

func TestMutualExclusion(t *testing.T) {
	c := testController(false)
	c.PressOnCard(ev(1, 40, 10, Mouse), "t1", false, 540, 600, false)

	if eff := c.PressOnCard(ev(2, 50, 20, Mouse), "t2", false, 600, 660, false); eff.Kind != EffNone {
		t.Fatalf("second press claimed a session: %v", eff.Kind)
	}
	if eff := c.PressOnResizeHandle(ev(2, 50, 20, Mouse), "t2", EdgeTop, 600, 660); eff.Kind != EffNone {
		t.Fatalf("resize press claimed a session: %v", eff.Kind)
	}
	if eff := c.BeginTemplateDrag(TemplatePayload{Title: "x"}); eff.Kind != EffNone {
		t.Fatalf("template drag claimed a session: %v", eff.Kind)
	}

	// Events from foreign pointers are dropped.
	if eff := c.Move(ev(2, 90, 90, Mouse)); eff.Kind != EffNone {
		t.Fatalf("foreign move handled: %v", eff.Kind)
	}
	if eff := c.Release(ev(2, 90, 90, Mouse)); eff.Kind != EffNone {
		t.Fatalf("foreign release handled: %v", eff.Kind)
	}
	if !c.Active() {
		t.Fatal("owner session should survive foreign events")
	}
}

func TestExcludedPressNeverClaims(t *testing.T) {
	c := testController(false)
	c.PressOnCard(ev(1, 40, 10, Mouse), "t1", false, 540, 600, true)
	if c.Active() || c.sess != nil {
		t.Fatal("press on a nested control must not open a session")
	}
}

func TestTapRelease(t *testing.T) {
	c := testController(false)
	c.PressOnCard(ev(1, 40, 10, Mouse), "t1", false, 540, 600, false)
	eff := c.Release(ev(1, 41, 10, Mouse))
	if eff.Kind != EffTap || eff.Ref != "t1" {
		t.Fatalf("expected tap, got %+v", eff)
	}
}

func TestResizeBottomEdge(t *testing.T) {
	c := testController(false)
	c.PressOnResizeHandle(ev(1, 40, 14, Mouse), "t1", EdgeBottom, 540, 600)

	eff := c.Move(ev(1, 40, 25, Mouse))
	if eff.Kind != EffResizePreview {
		t.Fatalf("expected preview, got %v", eff.Kind)
	}
	if eff.StartMin != 540 {
		t.Fatalf("bottom resize moved start to %d", eff.StartMin)
	}
	// y=25 of 100 is minute 690.
	if eff.EndMin != 690 {
		t.Fatalf("end = %d, want 690", eff.EndMin)
	}

	got := c.Release(ev(1, 40, 25, Mouse))
	if got.Kind != EffResizeCommitted || got.StartMin != 540 || got.EndMin != 690 {
		t.Fatalf("commit = %+v", got)
	}
}

func TestResizeTopEdgeFloor(t *testing.T) {
	c := testController(false)
	c.PressOnResizeHandle(ev(1, 40, 7, Mouse), "t1", EdgeTop, 540, 600)

	// Dragging the top edge below end-minDuration clamps to 585.
	eff := c.Move(ev(1, 40, 90, Mouse))
	if eff.Kind != EffResizePreview {
		t.Fatalf("expected preview, got %v", eff.Kind)
	}
	if eff.StartMin != 585 || eff.EndMin != 600 {
		t.Fatalf("interval = %d..%d, want 585..600", eff.StartMin, eff.EndMin)
	}
}

func TestResizeBottomCeil(t *testing.T) {
	c := testController(false)
	c.PressOnResizeHandle(ev(1, 40, 14, Mouse), "t1", EdgeBottom, 540, 600)

	// Dragging the bottom edge above start+minDuration clamps to 555.
	eff := c.Move(ev(1, 40, 0, Mouse))
	if eff.StartMin != 540 || eff.EndMin != 555 {
		t.Fatalf("interval = %d..%d, want 540..555", eff.StartMin, eff.EndMin)
	}
}

func TestCancelPointerTearsDown(t *testing.T) {
	c := testController(false)
	c.PressOnCard(ev(1, 40, 10, Mouse), "t1", false, 540, 600, false)
	c.Move(ev(1, 40, 40, Mouse))

	if eff := c.CancelPointer(2); eff.Kind != EffNone {
		t.Fatalf("foreign cancel handled: %v", eff.Kind)
	}
	eff := c.CancelPointer(1)
	if eff.Kind != EffDragCancelled {
		t.Fatalf("expected cancel, got %v", eff.Kind)
	}
	if c.Active() {
		t.Fatal("session should be gone")
	}
}

func TestTemplateDragDrop(t *testing.T) {
	c := testController(false)
	p := TemplatePayload{Title: "Water plants", Category: "garden", Duration: 30}

	if eff := c.BeginTemplateDrag(p); eff.Kind != EffDragStarted {
		t.Fatalf("expected drag start, got %v", eff.Kind)
	}
	over := c.TemplateOver(Point{X: 40, Y: 50})
	if over.Kind != EffDragPreview || over.PreviewMin%30 != 0 {
		t.Fatalf("hover preview = %+v", over)
	}

	raw, err := p.Encode()
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	eff := c.TemplateDrop(Point{X: 40, Y: 50}, raw)
	if eff.Kind != EffTemplateDropped {
		t.Fatalf("expected template drop, got %+v", eff)
	}
	if eff.StartMin != 900 || eff.EndMin != 930 {
		t.Fatalf("times = %d..%d, want 900..930", eff.StartMin, eff.EndMin)
	}
	if eff.Payload == nil || eff.Payload.Category != "garden" {
		t.Fatalf("payload = %+v", eff.Payload)
	}
}

func TestTemplateDropWithoutDragstart(t *testing.T) {
	c := testController(false)
	eff := c.TemplateDrop(Point{X: 40, Y: 50}, []byte(`{"title":"Prune","duration":45}`))
	if eff.Kind != EffTemplateDropped || eff.StartMin != 900 || eff.EndMin != 945 {
		t.Fatalf("got %+v", eff)
	}

	if eff := c.TemplateDrop(Point{X: 40, Y: 50}, nil); eff.Kind != EffDragCancelled {
		t.Fatalf("unparseable drop should cancel, got %v", eff.Kind)
	}
}

func TestDecodePayloadFallback(t *testing.T) {
	p, ok := DecodePayload([]byte("Just a title"))
	if !ok || p.Title != "Just a title" || p.Duration != 60 {
		t.Fatalf("fallback = %+v, %v", p, ok)
	}
	if _, ok := DecodePayload([]byte("  ")); ok {
		t.Fatal("blank payload should fail")
	}
}

func TestCollapsedOffsetAffectsDrop(t *testing.T) {
	cfg := DefaultConfig()
	c := NewController(cfg, timegeom.NewTransform(timegeom.NewCalculator(), 120))
	c.SetZones([]Zone{{ID: ZoneTimeline, Bounds: Rect{X: 0, Y: 0, W: 100, H: 100}, Timeline: true}})

	c.PressOnCard(ev(1, 40, 0, Mouse), "t1", false, 700, 760, false)
	c.Move(ev(1, 40, 30, Mouse))
	eff := c.Release(ev(1, 40, 0, Mouse))
	if eff.Kind != EffDropCommitted {
		t.Fatalf("expected drop, got %+v", eff)
	}
	// Top of the collapsed viewport is plotStart+120.
	if eff.StartMin != 600 {
		t.Fatalf("start = %d, want 600", eff.StartMin)
	}
}
