package update

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/gardenfence/gardenfence/internal/gesture"
	"github.com/gardenfence/gardenfence/internal/lanes"
	"github.com/gardenfence/gardenfence/internal/timegeom"
)

// handleMouse translates terminal mouse traffic into pointer events for
// the gesture controller. The terminal has one pointer; each press bumps
// the sequence so stale long-press timers from an earlier press cannot
// confirm the current one.
func (m *Model) handleMouse(msg tea.MouseMsg) tea.Cmd {
	pos := gesture.Point{X: msg.X, Y: msg.Y}

	switch msg.Action {
	case tea.MouseActionPress:
		if msg.Button != tea.MouseButtonLeft {
			return nil
		}
		m.nextPointerSeq++
		ev := gesture.PointerEvent{ID: m.nextPointerSeq, Kind: gesture.Mouse, Pos: pos, At: m.now()}
		m.applyEffect(m.pressEffect(ev))
		return m.longPressCmd(ev.ID)

	case tea.MouseActionMotion:
		ev := gesture.PointerEvent{ID: m.nextPointerSeq, Kind: gesture.Mouse, Pos: pos, At: m.now()}
		m.applyEffect(m.Gestures.Move(ev))

	case tea.MouseActionRelease:
		ev := gesture.PointerEvent{ID: m.nextPointerSeq, Kind: gesture.Mouse, Pos: pos, At: m.now()}
		m.applyEffect(m.Gestures.Release(ev))
	}
	return nil
}

// pressEffect hit-tests the press against the rendered card boxes. The
// top and bottom card rows act as resize handles; anything else on a
// card arms a drag. Event cards are read-only, so a press on one selects
// without claiming a gesture.
func (m *Model) pressEffect(ev gesture.PointerEvent) gesture.Effect {
	cx := ev.Pos.X - m.canvasOrigin.X
	cy := ev.Pos.Y - m.canvasOrigin.Y

	for _, card := range m.Layout.Cards {
		b := card.Box
		if cx < b.X || cx >= b.X+b.W || cy < b.Y || cy >= b.Y+b.H {
			continue
		}
		item, ok := m.positionedByRef(card.Ref)
		if !ok {
			continue
		}
		if item.Kind == lanes.KindEvent {
			m.activateCard(card.Ref)
			return gesture.Effect{Kind: gesture.EffNone}
		}
		startMin, endMin := m.storedInterval(card.Ref, item)
		// Two-row cards have no body; they stay draggable and give up
		// their resize handles.
		if b.H >= 3 && cy == b.Y {
			return m.Gestures.PressOnResizeHandle(ev, card.Ref, gesture.EdgeTop, startMin, endMin)
		}
		if b.H >= 3 && cy == b.Y+b.H-1 {
			return m.Gestures.PressOnResizeHandle(ev, card.Ref, gesture.EdgeBottom, startMin, endMin)
		}
		return m.Gestures.PressOnCard(ev, card.Ref, card.Done, startMin, endMin, false)
	}

	m.SelectedRef = ""
	return gesture.Effect{Kind: gesture.EffNone}
}

// storedInterval reads the card's real interval from the store. The
// positioned item is clamped to the visible window for layout; seeding a
// session from it would commit the clamp into the task when past hours
// are collapsed.
func (m *Model) storedInterval(ref string, item lanes.PositionedItem) (int, int) {
	t, ok := m.store.get(ref)
	if !ok {
		return item.StartMin, item.EndMin
	}
	start, okS := timegeom.ParseTimeToMinutes(t.StartTime)
	if !okS {
		return item.StartMin, item.EndMin
	}
	end, okE := timegeom.ParseTimeToMinutes(t.EndTime)
	if !okE || end <= start {
		end = start + 60
	}
	return start, end
}

func (m *Model) positionedByRef(ref string) (lanes.PositionedItem, bool) {
	for _, item := range m.Positioned {
		if item.Ref == ref {
			return item, true
		}
	}
	return lanes.PositionedItem{}, false
}

// longPressCmd schedules the long-press confirmation tick when the
// controller armed one. Mouse presses never arm a timer; this exists for
// hosts feeding touch or pen events through the same loop.
func (m *Model) longPressCmd(pointerID int) tea.Cmd {
	if !m.Gestures.LongPressPending(pointerID) {
		return nil
	}
	return tea.Tick(gesture.DefaultConfig().LongPressDelay, func(time.Time) tea.Msg {
		return LongPressMsg{PointerID: pointerID}
	})
}
