package model

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/gardenfence/gardenfence/internal/timegeom"
)

var ErrInvalidStatus = errors.New("model: invalid task status")

type TaskStatus string

const (
	StatusNotStarted TaskStatus = "not-started"
	StatusInProgress TaskStatus = "in-progress"
	StatusDone       TaskStatus = "done"
	StatusBlocked    TaskStatus = "blocked"
)

func (s TaskStatus) IsValid() bool {
	switch s {
	case StatusNotStarted, StatusInProgress, StatusDone, StatusBlocked:
		return true
	default:
		return false
	}
}

// Task is a goal the user may plant on the timeline. StartTime and EndTime
// are wall-clock "HH:MM" strings; a task with no parseable StartTime is a
// seed (unscheduled) and lives in the seed pool instead of the canvas.
type Task struct {
	ID          string
	Title       string
	Category    string
	Status      TaskStatus
	StartTime   string
	EndTime     string
	DueDate     string // "2006-01-02", denormalized alongside ScheduledAt
	ScheduledAt *time.Time
	Notes       string
	CreatedAt   time.Time
	CompletedAt *time.Time
}

func (t Task) Validate() error {
	if strings.TrimSpace(t.ID) == "" {
		return errors.New("model: task id is required")
	}
	if strings.TrimSpace(t.Title) == "" {
		return errors.New("model: task title is required")
	}
	if !t.Status.IsValid() {
		return fmt.Errorf("%w: %q", ErrInvalidStatus, t.Status)
	}
	if t.CreatedAt.IsZero() {
		return errors.New("model: task created_at is required")
	}
	return nil
}

func (t Task) Done() bool {
	return t.Status == StatusDone
}

// Scheduled reports whether the task belongs on the timeline for the given
// date: either a parseable StartTime, or a ScheduledAt falling on that day.
// Malformed start times demote the task to the seed pool rather than erroring.
func (t Task) Scheduled(date time.Time) bool {
	if _, ok := timegeom.ParseTimeToMinutes(t.StartTime); ok {
		if t.ScheduledAt != nil {
			return sameDay(*t.ScheduledAt, date)
		}
		return true
	}
	if t.ScheduledAt != nil && sameDay(*t.ScheduledAt, date) {
		return true
	}
	return false
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}
