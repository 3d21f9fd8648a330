package gesture

type EffectKind int

const (
	// EffNone means the event was absorbed or ignored; nothing to apply.
	EffNone EffectKind = iota
	// EffTap is a press released without becoming any other gesture.
	EffTap
	// EffDragStarted begins a card drag; the renderer shows the ghost.
	EffDragStarted
	// EffDragPreview carries the live candidate drop time and hovered zone.
	EffDragPreview
	// EffDropCommitted finalizes a drag on the timeline with new times.
	EffDropCommitted
	// EffZoneDrop finalizes a drag on a non-timeline zone.
	EffZoneDrop
	// EffDragCancelled ends a drag with no mutation; all preview state must
	// be torn down.
	EffDragCancelled
	// EffResizePreview carries the live interval while an edge is dragged.
	EffResizePreview
	// EffResizeCommitted finalizes a resize with snapped times.
	EffResizeCommitted
	// EffSwipeProgress carries the horizontal offset of a live swipe.
	EffSwipeProgress
	// EffSwipeCommitted crossed the swipe threshold; MarkDone tells which
	// direction.
	EffSwipeCommitted
	// EffSwipeReverted released below threshold; the card animates back.
	EffSwipeReverted
	// EffTemplateDropped is a native-drag template landing on the timeline.
	EffTemplateDropped
)

// Effect is what the controller asks its caller to do in response to an
// event. Fields are populated per kind; unused ones are zero.
type Effect struct {
	Kind       EffectKind
	Ref        string
	Zone       string
	PreviewMin int
	StartMin   int
	EndMin     int
	DeltaX     int
	MarkDone   bool
	Payload    *TemplatePayload
}

func none() Effect { return Effect{Kind: EffNone} }
