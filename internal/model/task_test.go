package model

import (
	"errors"
	"testing"
	"time"
)

func validTask() Task {
	return Task{
		ID:        "t1",
		Title:     "Water the ferns",
		Category:  "garden",
		Status:    StatusNotStarted,
		CreatedAt: time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC),
	}
}

func TestTaskValidate(t *testing.T) {
	if err := validTask().Validate(); err != nil {
		t.Fatalf("valid task rejected: %v", err)
	}

	missingID := validTask()
	missingID.ID = "  "
	if err := missingID.Validate(); err == nil {
		t.Fatal("expected error for blank id")
	}

	badStatus := validTask()
	badStatus.Status = "paused"
	if err := badStatus.Validate(); !errors.Is(err, ErrInvalidStatus) {
		t.Fatalf("expected ErrInvalidStatus, got %v", err)
	}
}

func TestTaskStatusIsValid(t *testing.T) {
	for _, s := range []TaskStatus{StatusNotStarted, StatusInProgress, StatusDone, StatusBlocked} {
		if !s.IsValid() {
			t.Fatalf("%q should be valid", s)
		}
	}
	if TaskStatus("done ").IsValid() {
		t.Fatal("padded status should be invalid")
	}
}

func TestTaskScheduled(t *testing.T) {
	day := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	otherDay := day.AddDate(0, 0, 1)

	tk := validTask()
	tk.StartTime = "09:30"
	if !tk.Scheduled(day) {
		t.Fatal("task with start time should be scheduled")
	}

	tk.ScheduledAt = &otherDay
	if tk.Scheduled(day) {
		t.Fatal("task pinned to another day should not appear")
	}

	seed := validTask()
	seed.StartTime = "9h30"
	if seed.Scheduled(day) {
		t.Fatal("malformed start time should demote to seed pool")
	}

	pinned := validTask()
	pinned.ScheduledAt = &day
	if !pinned.Scheduled(day) {
		t.Fatal("task scheduled_at on the day should appear")
	}
}
