package main

import (
	"context"
	"fmt"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/gardenfence/gardenfence/internal/model"
	"github.com/gardenfence/gardenfence/internal/scheduler"
	"github.com/gardenfence/gardenfence/internal/storage"
	"github.com/gardenfence/gardenfence/internal/update"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "gardenfence failed: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg := update.RuntimeConfigFromEnv(update.DefaultRuntimeConfig())
	ctx := context.Background()

	repo, err := storage.OpenSQLite(cfg.DatabasePath)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer repo.Close()
	if err := storage.MigrateUp(repo.DB()); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}

	engine := scheduler.NewEngine(cfg.SchedulerBuffer)
	engine.Start()
	defer engine.Stop()

	m := update.NewModelWithConfig(engine, cfg)
	m.SetCallbacks(buildCallbacks(ctx, repo))
	if cfg.TerminalBell {
		m.SetHaptics(update.BellHaptics{})
	}
	if cfg.DesktopNotify {
		m.SetNotifier(update.ExecDesktopNotifier{})
	}

	if err := loadDay(ctx, repo, &m); err != nil {
		return fmt.Errorf("load day: %w", err)
	}
	if err := m.Mount(); err != nil {
		return fmt.Errorf("mount: %w", err)
	}
	defer m.Unmount()

	program := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseCellMotion())
	if _, err := program.Run(); err != nil {
		return err
	}
	return nil
}

func loadDay(ctx context.Context, repo storage.Repository, m *update.Model) error {
	today := time.Now().Format("2006-01-02")
	stored, err := repo.ListTasks(ctx, storage.TaskListFilter{Date: today})
	if err != nil {
		return err
	}
	// Seeds have no date filter match; pick up undated tasks too.
	undated, err := repo.ListTasks(ctx, storage.TaskListFilter{})
	if err != nil {
		return err
	}
	byID := make(map[string]storage.Task, len(stored))
	for _, t := range stored {
		byID[t.ID] = t
	}
	for _, t := range undated {
		if t.DueDate == "" && t.ScheduledAt == nil {
			byID[t.ID] = t
		}
	}
	tasks := make([]model.Task, 0, len(byID))
	for _, t := range byID {
		tasks = append(tasks, taskFromStorage(t))
	}
	m.SetGoals(time.Now(), tasks, nil)

	from := time.Now().AddDate(0, 0, -1)
	until := time.Now().AddDate(0, 0, 2)
	storedEvents, err := repo.ListEvents(ctx, storage.EventListFilter{From: &from, Until: &until})
	if err != nil {
		return err
	}
	events := make([]model.CalendarEvent, 0, len(storedEvents))
	for _, ev := range storedEvents {
		events = append(events, eventFromStorage(ev))
	}
	m.Events = events

	storedTemplates, err := repo.ListTemplates(ctx, storage.TemplateListFilter{})
	if err != nil {
		return err
	}
	pills := make([]update.TemplatePill, 0, len(storedTemplates))
	for _, tpl := range storedTemplates {
		pills = append(pills, update.TemplatePill{
			ID: tpl.ID, Title: tpl.Title, Category: tpl.Category, Duration: tpl.Duration,
		})
	}
	m.Templates = pills
	return nil
}

// buildCallbacks persists day-view mutations back through the repository.
// Writes are best effort; the view stays optimistic and the next load
// reconciles.
func buildCallbacks(ctx context.Context, repo storage.Repository) update.Callbacks {
	return update.Callbacks{
		GoalUpdate: func(id string, fields map[string]any) {
			stored, err := repo.GetTask(ctx, id)
			if err != nil {
				return
			}
			if v, ok := fields["startTime"].(string); ok {
				stored.StartTime = v
			}
			if v, ok := fields["endTime"].(string); ok {
				stored.EndTime = v
			}
			if v, ok := fields["dueDate"].(string); ok {
				stored.DueDate = v
			}
			if v, ok := fields["scheduledAt"].(*time.Time); ok {
				stored.ScheduledAt = v
			}
			if v, ok := fields["status"].(string); ok {
				stored.Status = v
			}
			_ = repo.UpdateTask(ctx, stored)
		},
		CreateTask: func(req update.CreateTaskRequest) (model.Task, error) {
			t := model.Task{
				ID:          fmt.Sprintf("task-%d", time.Now().UnixNano()),
				Title:       req.Title,
				Category:    req.Category,
				Status:      model.StatusNotStarted,
				StartTime:   req.StartTime,
				EndTime:     req.EndTime,
				DueDate:     req.StartDate,
				ScheduledAt: req.ScheduledAt,
				CreatedAt:   time.Now(),
			}
			if err := repo.CreateTask(ctx, taskToStorage(t)); err != nil {
				return model.Task{}, err
			}
			return t, nil
		},
	}
}

func taskFromStorage(in storage.Task) model.Task {
	status := model.TaskStatus(in.Status)
	if !status.IsValid() {
		status = model.StatusNotStarted
	}
	return model.Task{
		ID:          in.ID,
		Title:       in.Title,
		Category:    in.Category,
		Status:      status,
		StartTime:   in.StartTime,
		EndTime:     in.EndTime,
		DueDate:     in.DueDate,
		ScheduledAt: in.ScheduledAt,
		Notes:       in.Notes,
		CreatedAt:   in.CreatedAt,
		CompletedAt: in.CompletedAt,
	}
}

func taskToStorage(in model.Task) storage.Task {
	return storage.Task{
		ID:          in.ID,
		Title:       in.Title,
		Category:    in.Category,
		Status:      string(in.Status),
		StartTime:   in.StartTime,
		EndTime:     in.EndTime,
		DueDate:     in.DueDate,
		ScheduledAt: in.ScheduledAt,
		Notes:       in.Notes,
		CreatedAt:   in.CreatedAt,
		CompletedAt: in.CompletedAt,
	}
}

func eventFromStorage(in storage.Event) model.CalendarEvent {
	ev := model.CalendarEvent{
		ID:        in.ID,
		Title:     in.Title,
		StartAt:   in.StartAt,
		EndAt:     in.EndAt,
		AllDay:    in.AllDay,
		CreatedAt: in.CreatedAt,
	}
	if in.RecurrenceType != "" {
		interval := in.RecurrenceN
		if interval <= 0 {
			interval = 1
		}
		ev.Recurrence = &model.RecurrenceRule{
			Type:     model.RecurrenceType(in.RecurrenceType),
			Interval: interval,
			Anchor:   in.StartAt,
		}
	}
	return ev
}
