package model

import (
	"errors"
	"testing"
	"time"
)

func mustUTC(y int, m time.Month, d, hh, mm int) time.Time {
	return time.Date(y, m, d, hh, mm, 0, 0, time.UTC)
}

func TestRecurrenceValidate(t *testing.T) {
	good := RecurrenceRule{Type: RecurrenceEveryNDays, Interval: 2, Anchor: mustUTC(2026, 3, 2, 9, 0)}
	if err := good.Validate(); err != nil {
		t.Fatalf("valid rule rejected: %v", err)
	}

	bad := good
	bad.Type = "hourly"
	if err := bad.Validate(); !errors.Is(err, ErrInvalidRecurrenceType) {
		t.Fatalf("expected ErrInvalidRecurrenceType, got %v", err)
	}

	bad = good
	bad.Interval = 0
	if err := bad.Validate(); !errors.Is(err, ErrInvalidInterval) {
		t.Fatalf("expected ErrInvalidInterval, got %v", err)
	}

	dup := RecurrenceRule{
		Type: RecurrenceEveryWeekday, Interval: 1, Anchor: mustUTC(2026, 3, 2, 9, 0),
		Weekdays: []time.Weekday{time.Monday, time.Monday},
	}
	if err := dup.Validate(); err == nil {
		t.Fatal("expected error for duplicate weekdays")
	}
}

func TestNextAfterEveryNDays(t *testing.T) {
	r := RecurrenceRule{Type: RecurrenceEveryNDays, Interval: 3, Anchor: mustUTC(2026, 3, 2, 9, 0)}

	next, err := r.NextAfter(mustUTC(2026, 3, 1, 0, 0))
	if err != nil {
		t.Fatalf("NextAfter: %v", err)
	}
	if !next.Equal(mustUTC(2026, 3, 2, 9, 0)) {
		t.Fatalf("before anchor should yield anchor, got %v", next)
	}

	next, err = r.NextAfter(mustUTC(2026, 3, 2, 9, 0))
	if err != nil {
		t.Fatalf("NextAfter: %v", err)
	}
	if !next.Equal(mustUTC(2026, 3, 5, 9, 0)) {
		t.Fatalf("want 2026-03-05 09:00, got %v", next)
	}
}

func TestNextAfterWeekday(t *testing.T) {
	// Anchor is a Monday. Default weekday set skips the weekend.
	r := RecurrenceRule{Type: RecurrenceEveryWeekday, Interval: 1, Anchor: mustUTC(2026, 3, 2, 8, 30)}

	next, err := r.NextAfter(mustUTC(2026, 3, 6, 8, 30)) // Friday occurrence
	if err != nil {
		t.Fatalf("NextAfter: %v", err)
	}
	if !next.Equal(mustUTC(2026, 3, 9, 8, 30)) {
		t.Fatalf("Friday should roll to Monday, got %v", next)
	}
}

func TestNextAfterLastDayOfMonth(t *testing.T) {
	r := RecurrenceRule{Type: RecurrenceLastDayOfMonth, Interval: 1, Anchor: mustUTC(2026, 1, 31, 17, 0)}

	next, err := r.NextAfter(mustUTC(2026, 2, 1, 0, 0))
	if err != nil {
		t.Fatalf("NextAfter: %v", err)
	}
	if !next.Equal(mustUTC(2026, 2, 28, 17, 0)) {
		t.Fatalf("want Feb 28, got %v", next)
	}
}

func TestExpandRange(t *testing.T) {
	r := RecurrenceRule{Type: RecurrenceEveryNDays, Interval: 2, Anchor: mustUTC(2026, 3, 2, 9, 0)}

	got, err := r.ExpandRange(mustUTC(2026, 3, 2, 0, 0), mustUTC(2026, 3, 9, 0, 0), 64)
	if err != nil {
		t.Fatalf("ExpandRange: %v", err)
	}
	want := []time.Time{
		mustUTC(2026, 3, 2, 9, 0),
		mustUTC(2026, 3, 4, 9, 0),
		mustUTC(2026, 3, 6, 9, 0),
		mustUTC(2026, 3, 8, 9, 0),
	}
	if len(got) != len(want) {
		t.Fatalf("got %d occurrences, want %d: %v", len(got), len(want), got)
	}
	for i := range want {
		if !got[i].Equal(want[i]) {
			t.Fatalf("occurrence %d = %v, want %v", i, got[i], want[i])
		}
	}

	capped, err := r.ExpandRange(mustUTC(2026, 3, 2, 0, 0), mustUTC(2026, 9, 1, 0, 0), 3)
	if err != nil {
		t.Fatalf("ExpandRange: %v", err)
	}
	if len(capped) != 3 {
		t.Fatalf("limit not honored: got %d", len(capped))
	}
}

func TestExpandEvents(t *testing.T) {
	dayStart := mustUTC(2026, 3, 4, 0, 0)
	dayEnd := dayStart.AddDate(0, 0, 1)
	end := mustUTC(2026, 3, 4, 11, 0)

	events := []CalendarEvent{
		{ID: "e1", Title: "Standup", StartAt: mustUTC(2026, 3, 4, 10, 0), EndAt: &end, CreatedAt: dayStart},
		{ID: "e2", Title: "Elsewhere", StartAt: mustUTC(2026, 3, 5, 10, 0), CreatedAt: dayStart},
		{
			ID: "e3", Title: "Watering", StartAt: mustUTC(2026, 3, 2, 7, 0), CreatedAt: dayStart,
			Recurrence: &RecurrenceRule{Type: RecurrenceEveryNDays, Interval: 2, Anchor: mustUTC(2026, 3, 2, 7, 0)},
		},
	}

	got := ExpandEvents(events, dayStart, dayEnd)
	if len(got) != 2 {
		t.Fatalf("got %d instances, want 2: %+v", len(got), got)
	}
	if got[0].EventID != "e1" || !got[0].EndAt.Equal(end) {
		t.Fatalf("unexpected first instance: %+v", got[0])
	}
	if got[1].EventID != "e3" || !got[1].StartAt.Equal(mustUTC(2026, 3, 4, 7, 0)) {
		t.Fatalf("unexpected recurring instance: %+v", got[1])
	}
	if got[1].EndAt.Sub(got[1].StartAt) != time.Hour {
		t.Fatal("missing end time should default to one hour")
	}
}
