// Package gesture recognizes press, long-press, drag, resize, swipe, and
// template-drop interactions from abstract pointer events and turns them
// into effects the surrounding program applies. It owns no rendering and
// no storage; callers feed it events and act on what comes back.
package gesture

import "time"

// Config tunes gesture recognition. Thresholds are in cells for the
// terminal canvas; the defaults mirror the pixel tuning of the pointer
// version scaled to character cells.
type Config struct {
	// LongPressDelay arms touch/pen drags; a press held this long without
	// drifting starts a drag.
	LongPressDelay time.Duration
	// MoveCancelThreshold is how far a pending press may drift before the
	// long-press timer is cancelled, and how far a mouse press must move
	// before it becomes a drag.
	MoveCancelThreshold int
	// SwipeThreshold is the horizontal distance that commits a
	// swipe-to-complete.
	SwipeThreshold int
	// PreviewSnap is the coarse snap interval (minutes) for the live drop
	// preview; commits use the calculator's fine interval.
	PreviewSnap int
	// SwipeEnabled gates the swipe gesture; it is on only for narrow
	// viewports.
	SwipeEnabled bool
}

func DefaultConfig() Config {
	return Config{
		LongPressDelay:      200 * time.Millisecond,
		MoveCancelThreshold: 12,
		SwipeThreshold:      72,
		PreviewSnap:         30,
	}
}

type PointerKind int

const (
	Mouse PointerKind = iota
	Touch
	Pen
)

type Point struct {
	X, Y int
}

// PointerEvent is one input sample. ID distinguishes simultaneous
// pointers; a session only listens to the pointer that opened it.
type PointerEvent struct {
	ID   int
	Kind PointerKind
	Pos  Point
	At   time.Time
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
