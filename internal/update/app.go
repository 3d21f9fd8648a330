package update

import (
	"fmt"

	"github.com/gardenfence/gardenfence/internal/gesture"
)

// Mount prepares the day view for interaction: alert scheduling for
// every planted task and a fresh layout. Mount is idempotent; a second
// call is a no-op. If any step fails the partial mount is torn down
// before the error is returned.
func (m *Model) Mount() (err error) {
	if m.mounted {
		return nil
	}
	m.mounted = true
	defer func() {
		if err != nil {
			m.Unmount()
		}
	}()

	if m.stateFilePath != "" {
		completed, loadErr := loadCompletedTaskState(m.stateFilePath)
		if loadErr != nil {
			return fmt.Errorf("load completion state: %w", loadErr)
		}
		for id := range completed {
			m.CompletedTasks[id] = true
		}
	}

	if m.Scheduler != nil {
		now := m.now()
		for _, t := range m.store.list() {
			if t.ScheduledAt != nil && t.ScheduledAt.After(now) && !t.Done() {
				rescheduleAlert(m.Scheduler, m.now, t.ID, t.Title, *t.ScheduledAt)
			}
		}
	}

	m.relayout()
	return nil
}

// Unmount tears interaction state down: the live gesture is cancelled,
// history is dropped, and completion state is flushed to disk. Safe to
// call on a model that never mounted.
func (m *Model) Unmount() {
	m.Gestures.CancelAll()
	m.clearGestureDecoration()
	m.Stack.Clear()
	_ = m.persistCompletedTaskState()
	m.mounted = false
}

func (m *Model) Mounted() bool { return m.mounted }

// TemplateDragStart begins a native drag of a quick-add template pill.
func (m *Model) TemplateDragStart(pill TemplatePill) {
	m.applyEffect(m.Gestures.BeginTemplateDrag(gesture.TemplatePayload{
		Title:    pill.Title,
		Category: pill.Category,
		Duration: pill.Duration,
	}))
}

// TemplateDragOver previews the drop slot while a pill hovers the canvas.
func (m *Model) TemplateDragOver(x, y int) {
	m.applyEffect(m.Gestures.TemplateOver(gesture.Point{X: x, Y: y}))
}

// TemplateDrop finalizes a native drag. raw may carry the payload when
// the drop arrives without a matching drag start.
func (m *Model) TemplateDrop(x, y int, raw []byte) {
	m.applyEffect(m.Gestures.TemplateDrop(gesture.Point{X: x, Y: y}, raw))
}

// Render draws the current frame without going through the program loop.
// Hosts embedding the day view in a larger screen use this directly.
func (m *Model) Render() string {
	return m.View()
}
