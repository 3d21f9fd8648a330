package update

import (
	"fmt"
	"os"
	"runtime"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"

	"github.com/gardenfence/gardenfence/internal/gesture"
	"github.com/gardenfence/gardenfence/internal/lanes"
	"github.com/gardenfence/gardenfence/internal/model"
	"github.com/gardenfence/gardenfence/internal/scheduler"
	"github.com/gardenfence/gardenfence/internal/timegeom"
	"github.com/gardenfence/gardenfence/internal/undo"
	"github.com/gardenfence/gardenfence/internal/views"
)

// narrowBreakpoint is the terminal width below which the layout drops to
// two lanes and enables swipe-to-complete.
const narrowBreakpoint = 80

type StatusBar struct {
	Text    string
	IsError bool
}

type PaletteState struct {
	Active bool
	Input  string
}

type TemplatePill struct {
	ID       string
	Title    string
	Category string
	Duration int
}

// CreateTaskRequest is what native-drag-to-create hands the external
// factory.
type CreateTaskRequest struct {
	Level       string
	Title       string
	Category    string
	StartDate   string
	StartTime   string
	EndTime     string
	ScheduledAt *time.Time
}

// Callbacks are the outward contract to the surrounding application. All
// calls are fire-and-forget; the day view assumes optimistic local
// consistency and never awaits results.
type Callbacks struct {
	GoalUpdate     func(id string, fields map[string]any)
	GoalClick      func(id string)
	ZenFocus       func(id string)
	ShowToast      func(emoji, message string)
	Celebrate      func(emoji, title, message string)
	PlantSomething func()
	Navigate       func(direction int)
	CreateTask     func(req CreateTaskRequest) (model.Task, error)
}

// Haptics is best-effort tactile feedback; failures are ignored.
type Haptics interface {
	Impact(level string) error
}

type NoopHaptics struct{}

func (NoopHaptics) Impact(string) error { return nil }

// BellHaptics rings the terminal bell, the closest thing a terminal has
// to a vibration motor.
type BellHaptics struct{}

func (BellHaptics) Impact(string) error {
	if runtime.GOOS == "js" {
		return nil
	}
	_, err := os.Stdout.WriteString("\a")
	return err
}

// dayStore holds the day's tasks behind a pointer so undo/redo closures
// observe mutations across Model copies.
type dayStore struct {
	tasks map[string]*model.Task
	order []string
}

func newDayStore() *dayStore {
	return &dayStore{tasks: make(map[string]*model.Task)}
}

func (s *dayStore) put(t model.Task) {
	if _, ok := s.tasks[t.ID]; !ok {
		s.order = append(s.order, t.ID)
	}
	cp := t
	s.tasks[t.ID] = &cp
}

func (s *dayStore) get(id string) (*model.Task, bool) {
	t, ok := s.tasks[id]
	return t, ok
}

func (s *dayStore) remove(id string) {
	if _, ok := s.tasks[id]; !ok {
		return
	}
	delete(s.tasks, id)
	for i, v := range s.order {
		if v == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
}

func (s *dayStore) list() []model.Task {
	out := make([]model.Task, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, *s.tasks[id])
	}
	return out
}

type GlobalKeyMap struct {
	PrevDay key.Binding
	NextDay key.Binding
	Today   key.Binding
	Plant   key.Binding
	Zen     key.Binding
	Palette key.Binding
	Undo    key.Binding
	Redo    key.Binding
	Help    key.Binding
	Quit    key.Binding
}

func (k GlobalKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.PrevDay, k.NextDay, k.Today, k.Plant, k.Palette, k.Undo, k.Quit}
}

func (k GlobalKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.PrevDay, k.NextDay, k.Today},
		{k.Plant, k.Zen, k.Palette},
		{k.Undo, k.Redo, k.Help, k.Quit},
	}
}

func defaultKeyMap() GlobalKeyMap {
	return GlobalKeyMap{
		PrevDay: key.NewBinding(key.WithKeys("h", "left"), key.WithHelp("h", "prev day")),
		NextDay: key.NewBinding(key.WithKeys("l", "right"), key.WithHelp("l", "next day")),
		Today:   key.NewBinding(key.WithKeys("t"), key.WithHelp("t", "today")),
		Plant:   key.NewBinding(key.WithKeys("p"), key.WithHelp("p", "plant")),
		Zen:     key.NewBinding(key.WithKeys("z"), key.WithHelp("z", "zen focus")),
		Palette: key.NewBinding(key.WithKeys("/", ":"), key.WithHelp("/", "command")),
		Undo:    key.NewBinding(key.WithKeys("ctrl+z"), key.WithHelp("ctrl+z", "undo")),
		Redo:    key.NewBinding(key.WithKeys("ctrl+shift+z", "ctrl+y"), key.WithHelp("ctrl+shift+z", "redo")),
		Help:    key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Quit:    key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

// Model is the day view: the Elm-style state for the timeline, its
// gestures, and its undo history.
type Model struct {
	Date       time.Time
	Window     timegeom.Calculator
	Transform  timegeom.Transform
	CollapseOn bool

	store       *dayStore
	Events      []model.CalendarEvent
	Goals       []views.GoalSummaryData
	Templates   []TemplatePill
	SelectedRef string
	SeedCursor  int

	Positioned []lanes.PositionedItem
	Layout     views.Layout

	Gestures  *gesture.Controller
	Stack     *undo.Stack
	Scheduler *scheduler.Engine
	canvas    *views.Canvas

	Width        int
	Height       int
	canvasOrigin gesture.Point

	// Live gesture decoration mirrored into the canvas.
	dragRef       string
	swipeRef      string
	swipeDX       int
	previewActive bool
	previewMin    int

	Callbacks Callbacks
	haptics   Haptics
	notifier  DesktopNotifier
	now       func() time.Time

	Palette      PaletteState
	paletteInput textinput.Model
	helpModel    help.Model
	HelpVisible  bool
	Keys         GlobalKeyMap
	Status       StatusBar
	Toast        string

	CompletedTasks map[string]bool
	stateFilePath  string

	mounted        bool
	Quitting       bool
	nextPointerSeq int
}

type MinuteTickMsg struct {
	At time.Time
}

type LongPressMsg struct {
	PointerID int
}

type StartAlertMsg struct {
	Alert scheduler.StartAlert
}

type SetGoalsMsg struct {
	Date  time.Time
	Tasks []model.Task
	Goals []views.GoalSummaryData
}

type SetEventsMsg struct {
	Events []model.CalendarEvent
}

type ToastMsg struct {
	Text string
}

type ClearToastMsg struct{}

func NewModel() Model {
	cfg := DefaultRuntimeConfig()
	return NewModelWithConfig(nil, cfg)
}

func NewModelWithConfig(engine *scheduler.Engine, cfg RuntimeConfig) Model {
	calc := timegeom.NewCalculator()
	if cfg.PlotStartMin > 0 {
		calc.PlotStart = cfg.PlotStartMin
	}
	if cfg.PlotEndMin > calc.PlotStart {
		calc.PlotEnd = cfg.PlotEndMin
	}

	input := textinput.New()
	input.Placeholder = "plant <title> at HH:MM"
	input.CharLimit = 120

	m := Model{
		Date:           truncateDay(time.Now()),
		Window:         calc,
		Transform:      timegeom.NewTransform(calc, 0),
		CollapseOn:     cfg.CollapsePastHours,
		store:          newDayStore(),
		Gestures:       gesture.NewController(gesture.DefaultConfig(), timegeom.NewTransform(calc, 0)),
		Stack:          undo.NewStack(cfg.UndoDepth),
		Scheduler:      engine,
		canvas:         views.NewCanvas(),
		Width:          120,
		Height:         34,
		haptics:        NoopHaptics{},
		notifier:       NoopDesktopNotifier{},
		now:            time.Now,
		paletteInput:   input,
		helpModel:      help.New(),
		Keys:           defaultKeyMap(),
		CompletedTasks: make(map[string]bool),
		stateFilePath:  cfg.CompletionStatePath,
	}
	if m.stateFilePath != "" {
		if completed, err := loadCompletedTaskState(m.stateFilePath); err == nil {
			m.CompletedTasks = completed
		}
	}
	m.relayout()
	return m
}

func (m *Model) SetCallbacks(cb Callbacks) { m.Callbacks = cb }

func (m *Model) SetHaptics(h Haptics) {
	if h == nil {
		h = NoopHaptics{}
	}
	m.haptics = h
}

func (m *Model) SetNotifier(n DesktopNotifier) {
	if n == nil {
		n = NoopDesktopNotifier{}
	}
	m.notifier = n
}

// SetClock injects the wall clock; tests pin it.
func (m *Model) SetClock(now func() time.Time) {
	if now != nil {
		m.now = now
	}
}

func (m *Model) setStatus(text string, isErr bool) {
	m.Status = StatusBar{Text: text, IsError: isErr}
}

func (m *Model) toast(emoji, text string) {
	m.Toast = fmt.Sprintf("%s %s", emoji, text)
	if m.Callbacks.ShowToast != nil {
		m.Callbacks.ShowToast(emoji, text)
	}
}

func truncateDay(t time.Time) time.Time {
	y, mo, d := t.Date()
	return time.Date(y, mo, d, 0, 0, 0, 0, t.Location())
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}
