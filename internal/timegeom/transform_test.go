package timegeom

import "testing"

func TestTransformNoOffsetMatchesCalculator(t *testing.T) {
	c := NewCalculator()
	tr := NewTransform(c, 0)
	if tr.Collapsed() {
		t.Fatal("zero offset should not report collapsed")
	}
	for y := 0; y <= 100; y += 10 {
		if tr.YToMinutes(y, 100) != c.YToMinutes(y, 100) {
			t.Fatalf("offset-free transform diverged at y=%d", y)
		}
	}
	for m := c.PlotStart; m <= c.PlotEnd; m += 60 {
		if tr.MinutesToPercent(m) != c.MinutesToPercent(m) {
			t.Fatalf("offset-free percent diverged at %d", m)
		}
	}
}

func TestTransformOffsetShiftsMinuteZero(t *testing.T) {
	c := NewCalculator()
	tr := NewTransform(c, 120)

	// With a 120-minute collapse offset, the top of the viewport is
	// plotStart+120, not plotStart.
	if got := tr.YToMinutes(0, 100); got != 600 {
		t.Fatalf("y=0 with offset 120 = %d, want 600", got)
	}
	if tr.MinutesToPercent(600) != 0 {
		t.Fatalf("visible start should map to 0%%, got %f", tr.MinutesToPercent(600))
	}
	if tr.MinutesToPercent(c.PlotEnd) != 100 {
		t.Fatalf("plot end should map to 100%%, got %f", tr.MinutesToPercent(c.PlotEnd))
	}
}

func TestTransformOffsetClamped(t *testing.T) {
	c := NewCalculator()
	tr := NewTransform(c, 100000)
	if tr.VisibleRange() != 60 {
		t.Fatalf("expected one visible hour after clamping, got %d", tr.VisibleRange())
	}
	tr = NewTransform(c, -50)
	if tr.OffsetMinutes != 0 {
		t.Fatalf("negative offset should clamp to 0, got %d", tr.OffsetMinutes)
	}
}

func TestTransformPreviewSnap(t *testing.T) {
	c := NewCalculator()
	tr := NewTransform(c, 0)
	for y := 0; y <= 100; y += 7 {
		m := tr.YToMinutesSnapped(y, 100, 30)
		if m != c.PlotEnd-MinDuration && m%30 != 0 {
			t.Fatalf("preview minute %d at y=%d not on the 30-minute grid", m, y)
		}
	}
}

func TestTransformAppliedConsistently(t *testing.T) {
	// The same transform must drive drop-preview math and card placement:
	// converting a row to minutes and back to a percentage must land at the
	// same row (within rounding).
	c := NewCalculator()
	tr := NewTransform(c, 120)
	height := 56
	for y := 0; y < height; y += 3 {
		m := tr.YToMinutes(y, height)
		pct := tr.MinutesToPercent(m)
		back := int(pct / 100 * float64(height))
		diff := back - y
		if diff < -1 || diff > 1 {
			t.Fatalf("y=%d minutes=%d maps back to row %d", y, m, back)
		}
	}
}
