package storage

import "time"

type Task struct {
	ID          string
	Title       string
	Category    string
	Status      string
	StartTime   string
	EndTime     string
	DueDate     string
	ScheduledAt *time.Time
	Notes       string
	CreatedAt   time.Time
	CompletedAt *time.Time
}

type Event struct {
	ID             string
	Title          string
	StartAt        time.Time
	EndAt          *time.Time
	AllDay         bool
	RecurrenceType string
	RecurrenceN    int
	CreatedAt      time.Time
}

// Template is a quick-add pill users drag onto the timeline. Duration is
// in minutes; Position orders the pill row.
type Template struct {
	ID        string
	Title     string
	Category  string
	Duration  int
	Position  int
	CreatedAt time.Time
}

type TaskListFilter struct {
	Status string
	Date   string // matches due_date or the date of scheduled_at
	Limit  int
	Offset int
}

type EventListFilter struct {
	From   *time.Time
	Until  *time.Time
	Limit  int
	Offset int
}

type TemplateListFilter struct {
	Limit  int
	Offset int
}
