package update

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/gardenfence/gardenfence/internal/commands"
	"github.com/gardenfence/gardenfence/internal/gesture"
	"github.com/gardenfence/gardenfence/internal/model"
	"github.com/gardenfence/gardenfence/internal/timegeom"
)

func (m *Model) openPalette() {
	m.Palette.Active = true
	m.paletteInput.SetValue("")
	m.paletteInput.Focus()
}

func (m *Model) closePalette() {
	m.Palette.Active = false
	m.Palette.Input = ""
	m.paletteInput.Blur()
}

func (m *Model) handlePaletteKey(msg tea.KeyMsg) tea.Cmd {
	switch msg.Type {
	case tea.KeyEsc:
		m.closePalette()
		return nil
	case tea.KeyEnter:
		input := m.paletteInput.Value()
		m.closePalette()
		m.executePaletteCommand(input)
		return nil
	}
	var cmd tea.Cmd
	m.paletteInput, cmd = m.paletteInput.Update(msg)
	m.Palette.Input = m.paletteInput.Value()
	return cmd
}

func (m *Model) executePaletteCommand(input string) {
	cmd, err := commands.Parse(input)
	if err != nil {
		m.setStatus(err.Error(), true)
		return
	}
	res, err := commands.Execute(cmd, m.paletteHandlers())
	if err != nil {
		m.setStatus(err.Error(), true)
		return
	}
	if res.Message != "" {
		m.setStatus(res.Message, false)
	}
	m.relayout()
}

// findTask resolves a palette target against the day's tasks by ID, then
// exact title, then unique title prefix. Matching is case-insensitive.
func (m *Model) findTask(target string) (model.Task, bool) {
	needle := strings.ToLower(strings.TrimSpace(target))
	if needle == "" {
		return model.Task{}, false
	}
	var prefix []model.Task
	for _, t := range m.store.list() {
		if t.ID == target {
			return t, true
		}
		title := strings.ToLower(t.Title)
		if title == needle {
			return t, true
		}
		if strings.HasPrefix(title, needle) {
			prefix = append(prefix, t)
		}
	}
	if len(prefix) == 1 {
		return prefix[0], true
	}
	return model.Task{}, false
}

// nextFreeStart finds the first gap that fits an hour, starting from the
// later of the visible top and the current half hour.
func (m *Model) nextFreeStart() int {
	cursor := m.Transform.VisibleStart()
	if sameDay(m.now(), m.Date) {
		nowMin := m.now().Hour()*60 + m.now().Minute()
		snapped := timegeom.SnapToInterval(nowMin, 30)
		if snapped > cursor {
			cursor = snapped
		}
	}
	items := m.timedItems()
	for {
		if cursor+timegeom.MinDuration > m.Window.PlotEnd {
			return m.Window.PlotEnd - 60
		}
		blocked := false
		for _, it := range items {
			if cursor < it.EndMin && cursor+60 > it.StartMin {
				blocked = true
				next := ((it.EndMin + 29) / 30) * 30
				if next <= cursor {
					next = cursor + 30
				}
				cursor = next
				break
			}
		}
		if !blocked {
			return cursor
		}
	}
}

func (m *Model) taskDuration(t model.Task) int {
	start, okS := timegeom.ParseTimeToMinutes(t.StartTime)
	end, okE := timegeom.ParseTimeToMinutes(t.EndTime)
	if okS && okE && end-start >= timegeom.MinDuration {
		return end - start
	}
	return 60
}

func (m *Model) paletteHandlers() commands.Handlers {
	return commands.Handlers{
		Plant: func(args commands.PlantArgs) (commands.Result, error) {
			start := args.StartMin
			if start == -1 {
				start = m.nextFreeStart()
			}
			start = timegeom.Clamp(start, m.Window.PlotStart, m.Window.PlotEnd-timegeom.MinDuration)

			if seed, ok := m.findTask(args.Title); ok && !seed.Scheduled(m.Date) {
				end := start + m.taskDuration(seed)
				if end > m.Window.PlotEnd {
					end = m.Window.PlotEnd
				}
				cmd, ok := m.moveCommand(seed.ID, start, end)
				if !ok {
					return commands.Result{}, &commands.CommandError{Code: commands.ErrCodeInvalidArgument, Message: "no such seed: " + args.Title}
				}
				if err := m.Stack.Do(cmd); err != nil {
					return commands.Result{}, err
				}
				return commands.Result{Message: fmt.Sprintf("planted %s at %s", seed.Title, timegeom.Format12h(start))}, nil
			}

			end := start + 60
			if end > m.Window.PlotEnd {
				end = m.Window.PlotEnd
			}
			payload := gesture.TemplatePayload{Title: args.Title, Duration: end - start}
			if err := m.Stack.Do(m.createCommand(payload, start, end)); err != nil {
				return commands.Result{}, err
			}
			return commands.Result{Message: fmt.Sprintf("planted %s at %s", args.Title, timegeom.Format12h(start))}, nil
		},

		Move: func(args commands.MoveArgs) (commands.Result, error) {
			t, ok := m.findTask(args.Target)
			if !ok {
				return commands.Result{}, &commands.CommandError{Code: commands.ErrCodeInvalidArgument, Message: "no such task: " + args.Target}
			}
			start := timegeom.Clamp(args.StartMin, m.Window.PlotStart, m.Window.PlotEnd-timegeom.MinDuration)
			end := start + m.taskDuration(t)
			if end > m.Window.PlotEnd {
				end = m.Window.PlotEnd
			}
			cmd, ok := m.moveCommand(t.ID, start, end)
			if !ok {
				return commands.Result{}, &commands.CommandError{Code: commands.ErrCodeInvalidArgument, Message: "no such task: " + args.Target}
			}
			if err := m.Stack.Do(cmd); err != nil {
				return commands.Result{}, err
			}
			return commands.Result{Message: fmt.Sprintf("moved %s to %s", t.Title, timegeom.Format12h(start))}, nil
		},

		Resize: func(args commands.ResizeArgs) (commands.Result, error) {
			t, ok := m.findTask(args.Target)
			if !ok {
				return commands.Result{}, &commands.CommandError{Code: commands.ErrCodeInvalidArgument, Message: "no such task: " + args.Target}
			}
			start := args.StartMin
			if start == -1 {
				cur, okS := timegeom.ParseTimeToMinutes(t.StartTime)
				if !okS {
					return commands.Result{}, &commands.CommandError{Code: commands.ErrCodeInvalidArgument, Message: t.Title + " has no start time"}
				}
				start = cur
			}
			if args.EndMin < start+timegeom.MinDuration {
				return commands.Result{}, &commands.CommandError{Code: commands.ErrCodeInvalidArgument, Message: "span is too short"}
			}
			cmd, ok := m.resizeCommand(t.ID, start, args.EndMin)
			if !ok {
				return commands.Result{}, &commands.CommandError{Code: commands.ErrCodeInvalidArgument, Message: "no such task: " + args.Target}
			}
			if err := m.Stack.Do(cmd); err != nil {
				return commands.Result{}, err
			}
			return commands.Result{Message: fmt.Sprintf("%s is now %s–%s", t.Title, timegeom.Format12h(start), timegeom.Format12h(args.EndMin))}, nil
		},

		Complete: func(args commands.CompleteArgs) (commands.Result, error) {
			t, ok := m.findTask(args.Target)
			if !ok {
				return commands.Result{}, &commands.CommandError{Code: commands.ErrCodeInvalidArgument, Message: "no such task: " + args.Target}
			}
			m.toggleComplete(t.ID, !t.Done())
			verb := "completed"
			if t.Done() {
				verb = "reopened"
			}
			return commands.Result{Message: fmt.Sprintf("%s %s", verb, t.Title)}, nil
		},

		Window: func(args commands.WindowArgs) (commands.Result, error) {
			if err := m.SetTimeWindow(args.StartMin, args.EndMin); err != nil {
				return commands.Result{}, &commands.CommandError{Code: commands.ErrCodeInvalidArgument, Message: err.Error()}
			}
			return commands.Result{Message: fmt.Sprintf("window %s–%s", timegeom.Format12h(args.StartMin), timegeom.Format12h(args.EndMin))}, nil
		},

		Undo: func() (commands.Result, error) {
			if !m.Stack.CanUndo() {
				return commands.Result{Message: "nothing to undo"}, nil
			}
			desc := m.Stack.LastDescription()
			if !m.Stack.Undo() {
				return commands.Result{}, fmt.Errorf("couldn't undo %s", desc)
			}
			return commands.Result{Message: "undid " + desc}, nil
		},

		Redo: func() (commands.Result, error) {
			if !m.Stack.CanRedo() {
				return commands.Result{Message: "nothing to redo"}, nil
			}
			desc := m.Stack.NextDescription()
			if !m.Stack.Redo() {
				return commands.Result{}, fmt.Errorf("couldn't redo %s", desc)
			}
			return commands.Result{Message: "redid " + desc}, nil
		},
	}
}
