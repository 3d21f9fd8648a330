package timegeom

// Transform is the viewport transform for a single render pass. When past
// hours are collapsed the visible viewport's minute-zero is no longer
// PlotStart but PlotStart+OffsetMinutes, and every pixel-to-minute or
// minute-to-percent conversion must go through here. Do not recompute the
// offset at call sites.
type Transform struct {
	Calc          Calculator
	OffsetMinutes int
}

// NewTransform builds a transform with the offset clamped so at least one
// hour of plot remains visible.
func NewTransform(c Calculator, offsetMinutes int) Transform {
	max := c.PlotRange() - 60
	if max < 0 {
		max = 0
	}
	return Transform{Calc: c, OffsetMinutes: Clamp(offsetMinutes, 0, max)}
}

func (t Transform) Collapsed() bool {
	return t.OffsetMinutes > 0
}

// VisibleStart is the minute at the top of the visible viewport.
func (t Transform) VisibleStart() int {
	return t.Calc.PlotStart + t.OffsetMinutes
}

func (t Transform) VisibleRange() int {
	return t.Calc.PlotRange() - t.OffsetMinutes
}

// YToMinutes converts a row offset within the visible viewport to minutes,
// snapped and clamped exactly as Calculator.YToMinutes but shifted by the
// collapse offset. At y=0 this yields VisibleStart, not PlotStart.
func (t Transform) YToMinutes(y, containerHeight int) int {
	if containerHeight <= 0 {
		return t.VisibleStart()
	}
	raw := t.VisibleStart() + int(float64(y)/float64(containerHeight)*float64(t.VisibleRange()))
	snapped := SnapToInterval(raw, t.Calc.SnapInterval)
	return Clamp(snapped, t.VisibleStart(), t.Calc.PlotEnd-MinDuration)
}

// YToMinutesSnapped is YToMinutes with an explicit snap interval, used for
// the coarser 30-minute drop preview grid.
func (t Transform) YToMinutesSnapped(y, containerHeight, interval int) int {
	if containerHeight <= 0 {
		return t.VisibleStart()
	}
	raw := t.VisibleStart() + int(float64(y)/float64(containerHeight)*float64(t.VisibleRange()))
	snapped := SnapToInterval(raw, interval)
	return Clamp(snapped, t.VisibleStart(), t.Calc.PlotEnd-MinDuration)
}

// MinutesToPercent maps minutes to a percentage of the visible range.
func (t Transform) MinutesToPercent(minutes int) float64 {
	r := t.VisibleRange()
	if r <= 0 {
		return 0
	}
	return float64(minutes-t.VisibleStart()) / float64(r) * 100
}

// Visible reports whether the minute falls inside the visible viewport.
func (t Transform) Visible(minutes int) bool {
	return minutes >= t.VisibleStart() && minutes <= t.Calc.PlotEnd
}
