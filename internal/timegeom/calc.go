package timegeom

import (
	"fmt"
	"strings"
)

// MinDuration is the smallest span, in minutes, an item may occupy on the
// timeline. Drops and resizes are clamped so this much room always remains.
const MinDuration = 15

// Defaults for the visible plot window and snapping behavior.
const (
	DefaultPlotStart    = 480  // 8:00
	DefaultPlotEnd      = 1320 // 22:00
	DefaultSnapInterval = 5
	DefaultMaxLanes     = 4
	NarrowMaxLanes      = 2
)

// Calculator maps between wall-clock minutes, row offsets within the plot
// viewport, and placement percentages. The four fields fully determine all
// geometry; changing any of them invalidates previously computed percentages.
type Calculator struct {
	PlotStart    int
	PlotEnd      int
	MaxLanes     int
	SnapInterval int
}

func NewCalculator() Calculator {
	return Calculator{
		PlotStart:    DefaultPlotStart,
		PlotEnd:      DefaultPlotEnd,
		MaxLanes:     DefaultMaxLanes,
		SnapInterval: DefaultSnapInterval,
	}
}

func (c Calculator) PlotRange() int {
	return c.PlotEnd - c.PlotStart
}

// ParseTimeToMinutes parses "HH:MM" into minutes from midnight. Malformed
// input (missing separator, non-numeric parts, out-of-range values) yields
// ok=false rather than an error; callers fall back to safe defaults.
func ParseTimeToMinutes(s string) (int, bool) {
	parts := strings.Split(strings.TrimSpace(s), ":")
	if len(parts) != 2 {
		return 0, false
	}
	h, ok := parseDigits(parts[0])
	if !ok {
		return 0, false
	}
	m, ok := parseDigits(parts[1])
	if !ok {
		return 0, false
	}
	if h > 23 || m > 59 {
		return 0, false
	}
	return h*60 + m, true
}

func parseDigits(s string) (int, bool) {
	if s == "" {
		return 0, false
	}
	n := 0
	for _, r := range s {
		if r < '0' || r > '9' {
			return 0, false
		}
		n = n*10 + int(r-'0')
	}
	return n, true
}

// ToTimeString renders minutes from midnight as zero-padded "HH:MM". Callers
// pre-clamp to [0, 1439] for sane output.
func ToTimeString(minutes int) string {
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}

// Format12h renders minutes from midnight as "h:mm AM/PM".
func Format12h(minutes int) string {
	h := minutes / 60
	m := minutes % 60
	suffix := "AM"
	if h >= 12 {
		suffix = "PM"
	}
	h12 := h % 12
	if h12 == 0 {
		h12 = 12
	}
	return fmt.Sprintf("%d:%02d %s", h12, m, suffix)
}

func Clamp(n, lo, hi int) int {
	if n < lo {
		return lo
	}
	if n > hi {
		return hi
	}
	return n
}

// SnapToInterval rounds minutes to the nearest multiple of interval.
func SnapToInterval(minutes, interval int) int {
	if interval <= 0 {
		return minutes
	}
	half := interval / 2
	if minutes < 0 {
		return -((-minutes + half) / interval) * interval
	}
	return (minutes + half) / interval * interval
}

// YToMinutes maps a row offset within the plot viewport to minutes, snapped
// to the configured interval and clamped so a dropped item always has room
// for its minimum duration.
func (c Calculator) YToMinutes(y, containerHeight int) int {
	if containerHeight <= 0 {
		return c.PlotStart
	}
	raw := c.PlotStart + int(float64(y)/float64(containerHeight)*float64(c.PlotRange()))
	snapped := SnapToInterval(raw, c.SnapInterval)
	return Clamp(snapped, c.PlotStart, c.PlotEnd-MinDuration)
}

// MinutesToPercent maps minutes to a percentage of the plot range.
func (c Calculator) MinutesToPercent(minutes int) float64 {
	r := c.PlotRange()
	if r <= 0 {
		return 0
	}
	return float64(minutes-c.PlotStart) / float64(r) * 100
}
