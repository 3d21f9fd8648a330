package model

import (
	"errors"
	"strings"
	"time"
)

// CalendarEvent is a calendar entry as stored. Recurring events carry a
// rule; the timeline only ever consumes expanded EventInstance values.
type CalendarEvent struct {
	ID         string
	Title      string
	StartAt    time.Time
	EndAt      *time.Time
	AllDay     bool
	Recurrence *RecurrenceRule
	CreatedAt  time.Time
}

func (e CalendarEvent) Validate() error {
	if strings.TrimSpace(e.ID) == "" {
		return errors.New("model: event id is required")
	}
	if strings.TrimSpace(e.Title) == "" {
		return errors.New("model: event title is required")
	}
	if e.StartAt.IsZero() {
		return errors.New("model: event start_at is required")
	}
	if e.EndAt != nil && e.EndAt.Before(e.StartAt) {
		return errors.New("model: event end_at precedes start_at")
	}
	if e.Recurrence != nil {
		return e.Recurrence.Validate()
	}
	return nil
}

// Duration returns the event span, defaulting to one hour when EndAt is
// absent.
func (e CalendarEvent) Duration() time.Duration {
	if e.EndAt == nil {
		return time.Hour
	}
	return e.EndAt.Sub(e.StartAt)
}

// EventInstance is a single, non-recurring occurrence for display.
type EventInstance struct {
	EventID string
	Title   string
	StartAt time.Time
	EndAt   time.Time
	AllDay  bool
}

// ExpandEvents flattens events into the instances occurring within
// [rangeStart, rangeEnd). Recurring events are stepped through their rule;
// plain events are included when they overlap the range.
func ExpandEvents(events []CalendarEvent, rangeStart, rangeEnd time.Time) []EventInstance {
	out := make([]EventInstance, 0, len(events))
	for _, ev := range events {
		if ev.Recurrence == nil {
			end := ev.StartAt.Add(ev.Duration())
			if ev.StartAt.Before(rangeEnd) && end.After(rangeStart) {
				out = append(out, instanceAt(ev, ev.StartAt))
			}
			continue
		}
		occurrences, err := ev.Recurrence.ExpandRange(rangeStart, rangeEnd, maxOccurrencesPerRange)
		if err != nil {
			// A bad rule hides the event from the timeline; it still
			// exists in the store and the sidebar event list.
			continue
		}
		for _, at := range occurrences {
			out = append(out, instanceAt(ev, at))
		}
	}
	return out
}

const maxOccurrencesPerRange = 64

func instanceAt(ev CalendarEvent, at time.Time) EventInstance {
	return EventInstance{
		EventID: ev.ID,
		Title:   ev.Title,
		StartAt: at,
		EndAt:   at.Add(ev.Duration()),
		AllDay:  ev.AllDay,
	}
}
