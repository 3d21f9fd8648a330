package update

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/gardenfence/gardenfence/internal/gesture"
	"github.com/gardenfence/gardenfence/internal/model"
	"github.com/gardenfence/gardenfence/internal/timegeom"
	"github.com/gardenfence/gardenfence/internal/views"
)

const toastDuration = 4 * time.Second

func minuteTickCmd() tea.Cmd {
	return tea.Tick(time.Minute, func(at time.Time) tea.Msg {
		return MinuteTickMsg{At: at}
	})
}

func (m Model) waitForAlertCmd() tea.Cmd {
	if m.Scheduler == nil {
		return nil
	}
	ch := m.Scheduler.C()
	return func() tea.Msg {
		alert, ok := <-ch
		if !ok {
			return nil
		}
		return StartAlertMsg{Alert: alert}
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(minuteTickCmd(), m.waitForAlertCmd())
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd
	toastBefore := m.Toast

	switch msg := msg.(type) {
	case tea.KeyMsg:
		if cmd := (&m).handleKey(msg); cmd != nil {
			cmds = append(cmds, cmd)
		}

	case tea.MouseMsg:
		if cmd := (&m).handleMouse(msg); cmd != nil {
			cmds = append(cmds, cmd)
		}

	case tea.WindowSizeMsg:
		m.Width = msg.Width
		m.Height = msg.Height
		(&m).applyBreakpoint()
		(&m).relayout()

	case MinuteTickMsg:
		// A live gesture owns the geometry; shifting the collapse offset
		// under a drag would teleport the preview.
		if !m.Gestures.Active() {
			(&m).relayout()
		}
		cmds = append(cmds, minuteTickCmd())

	case LongPressMsg:
		(&m).applyEffect(m.Gestures.LongPressFired(msg.PointerID))

	case StartAlertMsg:
		(&m).toast("⏰", fmt.Sprintf("%s starts now", msg.Alert.Title))
		_ = m.haptics.Impact("heavy")
		if err := m.notifier.Send(Notification{Title: "garden fence", Body: msg.Alert.Title + " starts now"}); err != nil {
			(&m).setStatus("notification failed: "+err.Error(), true)
		}
		cmds = append(cmds, m.waitForAlertCmd())

	case SetGoalsMsg:
		(&m).SetGoals(msg.Date, msg.Tasks, msg.Goals)

	case SetEventsMsg:
		m.Events = msg.Events
		(&m).relayout()

	case ToastMsg:
		(&m).toast("💬", msg.Text)

	case ClearToastMsg:
		m.Toast = ""
	}

	if m.Toast != "" && m.Toast != toastBefore {
		cmds = append(cmds, tea.Tick(toastDuration, func(time.Time) tea.Msg {
			return ClearToastMsg{}
		}))
	}
	return m, tea.Batch(cmds...)
}

func (m *Model) handleKey(msg tea.KeyMsg) tea.Cmd {
	if m.Palette.Active {
		return m.handlePaletteKey(msg)
	}

	switch {
	case key.Matches(msg, m.Keys.Quit):
		m.Quitting = true
		m.Unmount()
		return tea.Quit

	case key.Matches(msg, m.Keys.PrevDay):
		m.navigate(-1)

	case key.Matches(msg, m.Keys.NextDay):
		m.navigate(1)

	case key.Matches(msg, m.Keys.Today):
		m.goToday()

	case key.Matches(msg, m.Keys.Plant):
		m.plantSelectedSeed()

	case key.Matches(msg, m.Keys.Zen):
		if m.SelectedRef != "" && m.Callbacks.ZenFocus != nil {
			m.Callbacks.ZenFocus(m.SelectedRef)
		}

	case key.Matches(msg, m.Keys.Palette):
		m.openPalette()
		return nil

	case key.Matches(msg, m.Keys.Undo):
		m.undoAction()

	case key.Matches(msg, m.Keys.Redo):
		m.redoAction()

	case key.Matches(msg, m.Keys.Help):
		m.HelpVisible = !m.HelpVisible
		m.helpModel.ShowAll = m.HelpVisible

	default:
		switch msg.String() {
		case "esc":
			m.applyEffect(m.Gestures.CancelAll())
			m.SelectedRef = ""
		case "j", "down":
			if n := len(m.seeds()); n > 0 {
				m.SeedCursor = (m.SeedCursor + 1) % n
			}
		case "k", "up":
			if n := len(m.seeds()); n > 0 {
				m.SeedCursor = (m.SeedCursor + n - 1) % n
			}
		case "enter", " ", "space":
			if m.SelectedRef != "" {
				m.activateCard(m.SelectedRef)
			}
		case "x":
			if m.SelectedRef != "" {
				if t, ok := m.store.get(m.SelectedRef); ok {
					m.toggleComplete(t.ID, !t.Done())
					m.relayout()
				}
			}
		}
	}
	return nil
}

// plantSelectedSeed drops the seed under the cursor into the next free
// slot. With an empty pool the host's own creation flow takes over.
func (m *Model) plantSelectedSeed() {
	seeds := m.seeds()
	if len(seeds) == 0 {
		if m.Callbacks.PlantSomething != nil {
			m.Callbacks.PlantSomething()
		}
		return
	}
	if m.SeedCursor >= len(seeds) {
		m.SeedCursor = 0
	}
	seed := seeds[m.SeedCursor]
	start := m.nextFreeStart()
	end := start + m.taskDuration(seed)
	if end > m.Window.PlotEnd {
		end = m.Window.PlotEnd
	}
	cmd, ok := m.moveCommand(seed.ID, start, end)
	if !ok {
		return
	}
	if err := m.Stack.Do(cmd); err != nil {
		m.setStatus(err.Error(), true)
		return
	}
	m.toast("🌱", fmt.Sprintf("%s at %s", seed.Title, timegeom.Format12h(start)))
	m.relayout()
}

// applyBreakpoint recomputes lane capacity and swipe availability from
// the terminal width. Narrow terminals get two lanes and gain swipe.
func (m *Model) applyBreakpoint() {
	narrow := m.Width < narrowBreakpoint
	maxLanes := timegeom.DefaultMaxLanes
	if narrow {
		maxLanes = timegeom.NarrowMaxLanes
	}
	m.Window.MaxLanes = maxLanes

	cfg := gesture.DefaultConfig()
	cfg.SwipeEnabled = narrow
	m.Gestures.SetConfig(cfg)
}

func (m Model) View() string {
	if m.Quitting {
		return "🌿 see you tomorrow\n"
	}

	canvasStr, _ := m.canvas.Render(m.canvasData())

	gestureLabel := ""
	if m.dragRef != "" {
		gestureLabel = "moving…"
	} else if m.swipeRef != "" {
		gestureLabel = "swiping…"
	}

	taskCount, doneCount := 0, 0
	for _, t := range m.store.list() {
		if !t.Scheduled(m.Date) {
			continue
		}
		taskCount++
		if t.Done() {
			doneCount++
		}
	}

	undoDesc, redoDesc := "", ""
	if m.Stack.CanUndo() {
		undoDesc = m.Stack.LastDescription()
	}
	if m.Stack.CanRedo() {
		redoDesc = m.Stack.NextDescription()
	}
	status := views.RenderStatus(m.Date.Format("Mon Jan 2"), taskCount, doneCount, undoDesc, redoDesc, gestureLabel)
	if m.Status.Text != "" {
		status = m.Status.Text
		if m.Status.IsError {
			status = "error: " + status
		}
	}

	footer := m.helpModel.View(m.Keys)
	if m.Palette.Active {
		footer = views.RenderCommandPalette(true, m.paletteInput.View())
	}

	notification := views.RenderNotification("info", m.Toast)

	w, _ := m.canvasSize()
	return views.RenderApp(views.AppData{
		Header:       "⛩ garden fence · " + m.Date.Format("Monday, January 2"),
		Sidebar:      m.sidebarView(),
		Canvas:       canvasStr,
		StatusLine:   status,
		Footer:       footer,
		Notification: notification,
		SidebarWidth: m.sidebarWidth(),
		CanvasWidth:  w + 2,
	})
}

func (m Model) sidebarView() string {
	seeds := make([]views.SeedData, 0)
	selected := ""
	for i, t := range m.seeds() {
		seeds = append(seeds, views.SeedData{ID: t.ID, Title: t.Title, Category: t.Category})
		if i == m.SeedCursor {
			selected = t.ID
		}
	}

	pills := make([]views.TemplatePillData, 0, len(m.Templates))
	for _, p := range m.Templates {
		pills = append(pills, views.TemplatePillData{ID: p.ID, Title: p.Title, Duration: p.Duration})
	}

	dayEnd := m.Date.AddDate(0, 0, 1)
	events := make([]views.EventListItemData, 0)
	for _, inst := range model.ExpandEvents(m.Events, m.Date, dayEnd) {
		when := "all day"
		if !inst.AllDay {
			when = inst.StartAt.Format("15:04")
		}
		events = append(events, views.EventListItemData{Title: inst.Title, When: when})
	}

	notes := ""
	if m.SelectedRef != "" {
		if t, ok := m.store.get(m.SelectedRef); ok && t.Notes != "" {
			notes = views.RenderMarkdown(t.Notes)
		}
	}

	return views.RenderSidebar(views.SidebarData{
		DateHeader:   m.Date.Format("Monday, Jan 2"),
		Goals:        m.Goals,
		Seeds:        seeds,
		SelectedSeed: selected,
		Templates:    pills,
		Events:       events,
		NotesPreview: notes,
	})
}
