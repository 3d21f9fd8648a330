package update

import (
	"fmt"
	"time"

	"github.com/gardenfence/gardenfence/internal/gesture"
	"github.com/gardenfence/gardenfence/internal/lanes"
	"github.com/gardenfence/gardenfence/internal/model"
	"github.com/gardenfence/gardenfence/internal/scheduler"
	"github.com/gardenfence/gardenfence/internal/timegeom"
	"github.com/gardenfence/gardenfence/internal/timeline"
	"github.com/gardenfence/gardenfence/internal/undo"
	"github.com/gardenfence/gardenfence/internal/views"
)

const dateLayout = "2006-01-02"

func (m *Model) sidebarWidth() int {
	if m.Width < narrowBreakpoint {
		return 24
	}
	return 36
}

func (m *Model) canvasSize() (int, int) {
	w := m.Width - m.sidebarWidth() - 10
	if w < 24 {
		w = 24
	}
	h := m.Height - 6
	if h < 10 {
		h = 10
	}
	return w, h
}

// relayout rebuilds the viewport transform, lane assignment, canvas
// layout, and gesture drop zones. Every geometry consumer reads the one
// transform computed here.
func (m *Model) relayout() {
	now := m.now()
	viewingToday := sameDay(now, m.Date)
	offset := timeline.CollapseOffset(m.Window, now, viewingToday, m.CollapseOn)
	m.Transform = timegeom.NewTransform(m.Window, offset)
	m.Gestures.SetTransform(m.Transform)

	m.Positioned = lanes.Assign(m.timedItems(), m.Transform)
	_, layout := m.canvas.Render(m.canvasData())
	m.Layout = layout
	// Panel border and padding sit between screen and canvas coordinates.
	m.canvasOrigin = gesture.Point{X: m.sidebarWidth() + 6, Y: 2}
	m.registerZones()
}

func (m *Model) timedItems() []lanes.TimedItem {
	visibleStart := m.Transform.VisibleStart()
	out := make([]lanes.TimedItem, 0)

	for _, t := range m.store.list() {
		if !t.Scheduled(m.Date) {
			continue
		}
		start, ok := timegeom.ParseTimeToMinutes(t.StartTime)
		if !ok {
			continue
		}
		end, okEnd := timegeom.ParseTimeToMinutes(t.EndTime)
		if !okEnd {
			end = start + 60
		}
		cs, ce, ok := lanes.ClampToWindow(start, end, m.Window)
		if !ok || ce <= visibleStart {
			continue
		}
		if cs < visibleStart {
			cs = visibleStart
		}
		out = append(out, lanes.TimedItem{
			Ref: t.ID, Kind: lanes.KindTask, Title: t.Title,
			Done: t.Done(), StartMin: cs, EndMin: ce,
		})
	}

	dayEnd := m.Date.AddDate(0, 0, 1)
	for _, inst := range model.ExpandEvents(m.Events, m.Date, dayEnd) {
		if inst.AllDay {
			continue
		}
		sm := inst.StartAt.Hour()*60 + inst.StartAt.Minute()
		em := sm + int(inst.EndAt.Sub(inst.StartAt).Minutes())
		cs, ce, ok := lanes.ClampToWindow(sm, em, m.Window)
		if !ok || ce <= visibleStart {
			continue
		}
		if cs < visibleStart {
			cs = visibleStart
		}
		out = append(out, lanes.TimedItem{
			Ref: "event:" + inst.EventID, Kind: lanes.KindEvent, Title: inst.Title,
			StartMin: cs, EndMin: ce,
		})
	}
	return out
}

func (m *Model) canvasData() views.CanvasData {
	w, h := m.canvasSize()
	data := views.CanvasData{
		Width:       w,
		Height:      h,
		Slots:       timeline.Slots(m.Window),
		Items:       m.Positioned,
		Now:         timeline.Now(m.Transform, m.now()),
		Collapsed:   m.Transform.Collapsed(),
		SelectedRef: m.SelectedRef,
		DragRef:     m.dragRef,
		SwipeRef:    m.swipeRef,
		SwipeDX:     m.swipeDX,
	}
	if !sameDay(m.now(), m.Date) {
		data.Now.Visible = false
	}
	if m.previewActive {
		data.PreviewActive = true
		data.PreviewPct = m.Transform.MinutesToPercent(m.previewMin)
		data.PreviewLabel = "→ " + timegeom.Format12h(m.previewMin)
	}
	return data
}

func (m *Model) registerZones() {
	plot := m.Layout.Plot
	m.Gestures.SetZones([]gesture.Zone{
		{
			ID:       gesture.ZoneTimeline,
			Timeline: true,
			Bounds: gesture.Rect{
				X: m.canvasOrigin.X + plot.X,
				Y: m.canvasOrigin.Y + plot.Y,
				W: plot.W,
				H: plot.H,
			},
		},
		{
			ID:     gesture.ZonePool,
			Bounds: gesture.Rect{X: 0, Y: 2, W: m.sidebarWidth() + 2, H: m.Height - 4},
		},
	})
}

func (m *Model) seeds() []model.Task {
	out := make([]model.Task, 0)
	for _, t := range m.store.list() {
		if !t.Scheduled(m.Date) {
			out = append(out, t)
		}
	}
	return out
}

// scheduledAtFor pins a minute of the viewed day as an absolute time.
func (m *Model) scheduledAtFor(startMin int) time.Time {
	return m.Date.Add(time.Duration(startMin) * time.Minute)
}

func rescheduleAlert(engine *scheduler.Engine, now func() time.Time, id, title string, startAt time.Time) {
	if engine == nil {
		return
	}
	engine.Cancel(id)
	if startAt.After(now()) {
		_ = engine.Schedule(scheduler.StartAlert{TaskID: id, Title: title, StartAt: startAt})
	}
}

// timeFieldsCommand builds the undoable mutation shared by move, plant,
// unplant, and resize: it swaps a task's time fields, notifies the
// external store, and keeps the start alert in sync. Undo re-checks that
// the task still exists and fails cleanly when it was deleted meanwhile.
func (m *Model) timeFieldsCommand(id, desc string, next taskTimeFields) (undo.Command, bool) {
	t, ok := m.store.get(id)
	if !ok {
		return undo.Command{}, false
	}
	prev := taskTimeFields{
		StartTime:   t.StartTime,
		EndTime:     t.EndTime,
		DueDate:     t.DueDate,
		ScheduledAt: t.ScheduledAt,
	}
	store := m.store
	cb := m.Callbacks
	engine := m.Scheduler
	now := m.now

	apply := func(f taskTimeFields) error {
		cur, ok := store.get(id)
		if !ok {
			return fmt.Errorf("update: task %s no longer exists", id)
		}
		cur.StartTime = f.StartTime
		cur.EndTime = f.EndTime
		cur.DueDate = f.DueDate
		cur.ScheduledAt = f.ScheduledAt
		if cb.GoalUpdate != nil {
			cb.GoalUpdate(id, map[string]any{
				"startTime":   f.StartTime,
				"endTime":     f.EndTime,
				"dueDate":     f.DueDate,
				"scheduledAt": f.ScheduledAt,
			})
		}
		if f.ScheduledAt != nil {
			rescheduleAlert(engine, now, id, cur.Title, *f.ScheduledAt)
		} else if engine != nil {
			engine.Cancel(id)
		}
		return nil
	}

	return undo.Command{
		Description: desc + " " + t.Title,
		Execute:     func() error { return apply(next) },
		Undo:        func() error { return apply(prev) },
	}, true
}

type taskTimeFields struct {
	StartTime   string
	EndTime     string
	DueDate     string
	ScheduledAt *time.Time
}

func (m *Model) moveCommand(id string, startMin, endMin int) (undo.Command, bool) {
	at := m.scheduledAtFor(startMin)
	return m.timeFieldsCommand(id, "move", taskTimeFields{
		StartTime:   timegeom.ToTimeString(startMin),
		EndTime:     timegeom.ToTimeString(endMin),
		DueDate:     m.Date.Format(dateLayout),
		ScheduledAt: &at,
	})
}

func (m *Model) resizeCommand(id string, startMin, endMin int) (undo.Command, bool) {
	t, ok := m.store.get(id)
	if !ok {
		return undo.Command{}, false
	}
	at := m.scheduledAtFor(startMin)
	fields := taskTimeFields{
		StartTime:   timegeom.ToTimeString(startMin),
		EndTime:     timegeom.ToTimeString(endMin),
		DueDate:     t.DueDate,
		ScheduledAt: &at,
	}
	if fields.DueDate == "" {
		fields.DueDate = m.Date.Format(dateLayout)
	}
	return m.timeFieldsCommand(id, "resize", fields)
}

func (m *Model) unplantCommand(id string) (undo.Command, bool) {
	return m.timeFieldsCommand(id, "unplant", taskTimeFields{
		DueDate: m.Date.Format(dateLayout),
	})
}

// createCommand wraps native-drag task creation so redo replants and undo
// removes the created task.
func (m *Model) createCommand(payload gesture.TemplatePayload, startMin, endMin int) undo.Command {
	store := m.store
	cb := m.Callbacks
	engine := m.Scheduler
	now := m.now
	req := CreateTaskRequest{
		Level:     "goal",
		Title:     payload.Title,
		Category:  payload.Category,
		StartDate: m.Date.Format(dateLayout),
		StartTime: timegeom.ToTimeString(startMin),
		EndTime:   timegeom.ToTimeString(endMin),
	}
	at := m.scheduledAtFor(startMin)
	req.ScheduledAt = &at

	var createdID string
	return undo.Command{
		Description: "plant " + payload.Title,
		Execute: func() error {
			var t model.Task
			if cb.CreateTask != nil {
				created, err := cb.CreateTask(req)
				if err != nil {
					return err
				}
				t = created
			} else {
				t = model.Task{
					ID:        fmt.Sprintf("seed-%d", time.Now().UnixNano()),
					Title:     req.Title,
					Category:  req.Category,
					Status:    model.StatusNotStarted,
					CreatedAt: time.Now(),
				}
			}
			t.StartTime = req.StartTime
			t.EndTime = req.EndTime
			t.DueDate = req.StartDate
			t.ScheduledAt = req.ScheduledAt
			if createdID != "" {
				t.ID = createdID // redo reuses the original identity
			}
			createdID = t.ID
			store.put(t)
			rescheduleAlert(engine, now, t.ID, t.Title, at)
			return nil
		},
		Undo: func() error {
			if createdID == "" {
				return nil
			}
			if _, ok := store.get(createdID); !ok {
				return fmt.Errorf("update: task %s no longer exists", createdID)
			}
			store.remove(createdID)
			if engine != nil {
				engine.Cancel(createdID)
			}
			return nil
		},
	}
}

func (m *Model) toggleComplete(id string, done bool) {
	t, ok := m.store.get(id)
	if !ok {
		return
	}
	if done {
		t.Status = model.StatusDone
		at := m.now()
		t.CompletedAt = &at
		m.CompletedTasks[id] = true
		_ = m.haptics.Impact("medium")
		if m.Callbacks.Celebrate != nil {
			m.Callbacks.Celebrate("🌻", t.Title, "done for today")
		}
	} else {
		t.Status = model.StatusNotStarted
		t.CompletedAt = nil
		delete(m.CompletedTasks, id)
	}
	_ = m.persistCompletedTaskState()
	if m.Callbacks.GoalUpdate != nil {
		m.Callbacks.GoalUpdate(id, map[string]any{"status": string(t.Status)})
	}
}

func (m *Model) activateCard(ref string) {
	m.SelectedRef = ref
	if m.Callbacks.GoalClick != nil {
		m.Callbacks.GoalClick(ref)
	}
}

func (m *Model) clearGestureDecoration() {
	m.dragRef = ""
	m.swipeRef = ""
	m.swipeDX = 0
	m.previewActive = false
}

// applyEffect turns a gesture effect into state changes and, for commits,
// undoable commands.
func (m *Model) applyEffect(eff gesture.Effect) {
	switch eff.Kind {
	case gesture.EffTap:
		m.activateCard(eff.Ref)

	case gesture.EffDragStarted:
		m.dragRef = eff.Ref
		_ = m.haptics.Impact("light")
		if eff.Zone == gesture.ZoneTimeline {
			m.previewActive = true
			m.previewMin = eff.PreviewMin
		}

	case gesture.EffDragPreview:
		if eff.Zone == gesture.ZoneTimeline {
			m.previewActive = true
			m.previewMin = eff.PreviewMin
		} else {
			m.previewActive = false
		}

	case gesture.EffDropCommitted:
		m.clearGestureDecoration()
		m.commitDrop(eff)

	case gesture.EffZoneDrop:
		m.clearGestureDecoration()
		if eff.Zone == gesture.ZonePool {
			if cmd, ok := m.unplantCommand(eff.Ref); ok {
				if err := m.Stack.Do(cmd); err != nil {
					m.setStatus(err.Error(), true)
				} else {
					m.toast("🪴", "back to the seed pool")
				}
			}
		}
		m.relayout()

	case gesture.EffDragCancelled:
		m.clearGestureDecoration()
		m.relayout()

	case gesture.EffResizePreview:
		m.previewActive = true
		m.previewMin = eff.StartMin
		m.overrideItem(eff.Ref, eff.StartMin, eff.EndMin)

	case gesture.EffResizeCommitted:
		m.clearGestureDecoration()
		if cmd, ok := m.resizeCommand(eff.Ref, eff.StartMin, eff.EndMin); ok {
			if err := m.Stack.Do(cmd); err != nil {
				m.setStatus(err.Error(), true)
			} else {
				_ = m.haptics.Impact("medium")
				m.toast("📏", fmt.Sprintf("now %s–%s", timegeom.Format12h(eff.StartMin), timegeom.Format12h(eff.EndMin)))
			}
		}
		m.relayout()

	case gesture.EffSwipeProgress:
		m.swipeRef = eff.Ref
		m.swipeDX = eff.DeltaX

	case gesture.EffSwipeCommitted:
		m.clearGestureDecoration()
		m.toggleComplete(eff.Ref, eff.MarkDone)
		m.relayout()

	case gesture.EffSwipeReverted:
		m.clearGestureDecoration()

	case gesture.EffTemplateDropped:
		m.clearGestureDecoration()
		if eff.Payload == nil {
			return
		}
		cmd := m.createCommand(*eff.Payload, eff.StartMin, eff.EndMin)
		if err := m.Stack.Do(cmd); err != nil {
			m.toast("⚠️", "couldn't plant that here")
			m.setStatus(err.Error(), true)
		} else {
			m.toast("🌱", "planted "+eff.Payload.Title)
		}
		m.relayout()
	}
}

// commitDrop applies a finished card drag: planting a seed or moving a
// planted task, both through the undo stack.
func (m *Model) commitDrop(eff gesture.Effect) {
	t, ok := m.store.get(eff.Ref)
	if !ok {
		m.relayout()
		return
	}
	desc := "move"
	if !t.Scheduled(m.Date) {
		desc = "plant"
	}
	at := m.scheduledAtFor(eff.StartMin)
	cmd, ok := m.timeFieldsCommand(eff.Ref, desc, taskTimeFields{
		StartTime:   timegeom.ToTimeString(eff.StartMin),
		EndTime:     timegeom.ToTimeString(eff.EndMin),
		DueDate:     m.Date.Format(dateLayout),
		ScheduledAt: &at,
	})
	if !ok {
		m.relayout()
		return
	}
	if err := m.Stack.Do(cmd); err != nil {
		m.setStatus(err.Error(), true)
	} else {
		_ = m.haptics.Impact("medium")
		m.toast("🌱", fmt.Sprintf("%s at %s", t.Title, timegeom.Format12h(eff.StartMin)))
	}
	m.relayout()
}

// overrideItem live-updates one positioned card for a resize preview
// without relaying out the rest.
func (m *Model) overrideItem(ref string, startMin, endMin int) {
	for i := range m.Positioned {
		if m.Positioned[i].Ref != ref {
			continue
		}
		startPct := m.Transform.MinutesToPercent(startMin)
		endPct := m.Transform.MinutesToPercent(endMin)
		m.Positioned[i].StartMin = startMin
		m.Positioned[i].EndMin = endMin
		m.Positioned[i].StartPct = startPct
		m.Positioned[i].DurPct = endPct - startPct
		return
	}
}

func (m *Model) undoAction() {
	if !m.Stack.CanUndo() {
		m.toast("🤷", "nothing to undo")
		return
	}
	desc := m.Stack.LastDescription()
	if m.Stack.Undo() {
		m.toast("↩", "undid "+desc)
	} else {
		m.toast("⚠️", "couldn't undo "+desc)
	}
	m.relayout()
}

func (m *Model) redoAction() {
	if !m.Stack.CanRedo() {
		m.toast("🤷", "nothing to redo")
		return
	}
	desc := m.Stack.NextDescription()
	if m.Stack.Redo() {
		m.toast("↪", "redid "+desc)
	} else {
		m.toast("⚠️", "couldn't redo "+desc)
	}
	m.relayout()
}

func (m *Model) navigate(direction int) {
	m.Gestures.CancelAll()
	m.clearGestureDecoration()
	m.Date = m.Date.AddDate(0, 0, direction)
	if m.Callbacks.Navigate != nil {
		m.Callbacks.Navigate(direction)
	}
	m.relayout()
}

func (m *Model) goToday() {
	m.Gestures.CancelAll()
	m.clearGestureDecoration()
	m.Date = truncateDay(m.now())
	m.relayout()
}

// SetTimeWindow swaps the plot window; every previously computed
// percentage is invalid afterwards, so a full relayout runs.
func (m *Model) SetTimeWindow(startMin, endMin int) error {
	if endMin-startMin < 60 {
		return fmt.Errorf("update: window must span at least an hour")
	}
	m.Window.PlotStart = startMin
	m.Window.PlotEnd = endMin
	m.relayout()
	return nil
}

// SetGoals replaces the day's data set.
func (m *Model) SetGoals(date time.Time, tasks []model.Task, goals []views.GoalSummaryData) {
	m.Gestures.CancelAll()
	m.clearGestureDecoration()
	m.Date = truncateDay(date)
	m.store = newDayStore()
	for _, t := range tasks {
		if m.CompletedTasks[t.ID] && !t.Done() {
			t.Status = model.StatusDone
		}
		m.store.put(t)
	}
	if goals != nil {
		m.Goals = goals
	}
	m.relayout()
}

// UpdateGoal patches a single task in place without disturbing a live
// gesture. Any active session owns Positioned; a rebuild here would
// clobber its resize preview, so relayout waits for the session to end.
func (m *Model) UpdateGoal(id string, t model.Task) {
	if _, ok := m.store.get(id); !ok {
		return
	}
	t.ID = id
	m.store.put(t)
	if m.Gestures.Active() {
		return
	}
	m.relayout()
}

// Undo and Redo are the host-facing entry points mirrored by the
// keyboard shortcuts.
func (m *Model) Undo() bool {
	ok := m.Stack.Undo()
	if ok {
		m.relayout()
	}
	return ok
}

func (m *Model) Redo() bool {
	ok := m.Stack.Redo()
	if ok {
		m.relayout()
	}
	return ok
}
