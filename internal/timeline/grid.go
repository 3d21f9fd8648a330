// Package timeline builds the static hour ruler and the current-time
// indicator for the day canvas.
package timeline

import (
	"time"

	"github.com/gardenfence/gardenfence/internal/timegeom"
)

// Slot is one hour gridline. Position is a percentage of the ruler height,
// spaced uniformly by slot count rather than by clock time, so gridlines
// stay evenly spaced even when the plot window is not hour-aligned.
type Slot struct {
	Minutes  int
	Label    string
	Position float64
}

// Slots produces one slot per hour in the plot window.
func Slots(c timegeom.Calculator) []Slot {
	firstHour := c.PlotStart / 60
	lastHour := (c.PlotEnd + 59) / 60
	count := lastHour - firstHour + 1
	if count < 1 {
		return nil
	}

	out := make([]Slot, 0, count)
	for i := 0; i < count; i++ {
		pos := 0.0
		if count > 1 {
			pos = float64(i) / float64(count-1) * 100
		}
		m := (firstHour + i) * 60
		out = append(out, Slot{Minutes: m, Label: timegeom.Format12h(m), Position: pos})
	}
	return out
}

// CollapseOffset computes the collapsed-hours offset in minutes: when
// viewing today, hours strictly before currentHour-1 fold away, keeping one
// hour of just-past context. Zero means nothing collapses.
func CollapseOffset(c timegeom.Calculator, now time.Time, viewingToday, enabled bool) int {
	if !enabled || !viewingToday {
		return 0
	}
	offset := (now.Hour()-1)*60 - c.PlotStart
	if offset < 0 {
		return 0
	}
	return offset
}

// NowIndicator is the current-time line. Visible is false when now falls
// outside the visible plot window.
type NowIndicator struct {
	Minutes  int
	Position float64
	Visible  bool
}

// Now locates the current-time indicator under the given transform.
func Now(tr timegeom.Transform, now time.Time) NowIndicator {
	m := now.Hour()*60 + now.Minute()
	if m < tr.VisibleStart() || m > tr.Calc.PlotEnd {
		return NowIndicator{Minutes: m}
	}
	return NowIndicator{Minutes: m, Position: tr.MinutesToPercent(m), Visible: true}
}
