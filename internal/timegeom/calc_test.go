package timegeom

import "testing"

func TestParseTimeToMinutes(t *testing.T) {
	cases := []struct {
		in   string
		want int
		ok   bool
	}{
		{"08:00", 480, true},
		{"00:00", 0, true},
		{"23:59", 1439, true},
		{" 09:30 ", 570, true},
		{"9:05", 545, true},
		{"24:00", 0, false},
		{"12:60", 0, false},
		{"12", 0, false},
		{"ab:cd", 0, false},
		{"12:3x", 0, false},
		{"", 0, false},
	}
	for _, tc := range cases {
		got, ok := ParseTimeToMinutes(tc.in)
		if ok != tc.ok || got != tc.want {
			t.Fatalf("ParseTimeToMinutes(%q) = %d,%v want %d,%v", tc.in, got, ok, tc.want, tc.ok)
		}
	}
}

func TestTimeStringRoundTrip(t *testing.T) {
	for m := 0; m < 1440; m++ {
		parsed, ok := ParseTimeToMinutes(ToTimeString(m))
		if !ok || parsed != m {
			t.Fatalf("round trip failed at %d: got %d,%v", m, parsed, ok)
		}
	}
}

func TestFormat12h(t *testing.T) {
	cases := []struct {
		in   int
		want string
	}{
		{0, "12:00 AM"},
		{480, "8:00 AM"},
		{720, "12:00 PM"},
		{785, "1:05 PM"},
		{1439, "11:59 PM"},
	}
	for _, tc := range cases {
		if got := Format12h(tc.in); got != tc.want {
			t.Fatalf("Format12h(%d) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestClampIdempotent(t *testing.T) {
	for _, n := range []int{-10, 0, 5, 99, 1000} {
		once := Clamp(n, 0, 100)
		if Clamp(once, 0, 100) != once {
			t.Fatalf("clamp not idempotent for %d", n)
		}
	}
}

func TestSnapToInterval(t *testing.T) {
	cases := []struct {
		m, interval, want int
	}{
		{482, 5, 480},
		{483, 5, 485},
		{487, 5, 485},
		{488, 5, 490},
		{500, 30, 510},
		{494, 30, 480},
		{480, 5, 480},
		{7, 0, 7},
	}
	for _, tc := range cases {
		if got := SnapToInterval(tc.m, tc.interval); got != tc.want {
			t.Fatalf("SnapToInterval(%d, %d) = %d, want %d", tc.m, tc.interval, got, tc.want)
		}
	}
}

func TestYToMinutesBounds(t *testing.T) {
	c := NewCalculator()

	if got := c.YToMinutes(0, 100); got != 480 {
		t.Fatalf("top of plot = %d, want 480", got)
	}
	// Bottom of the plot leaves room for the minimum duration.
	if got := c.YToMinutes(100, 100); got != 1305 {
		t.Fatalf("bottom of plot = %d, want 1305", got)
	}
}

func TestYToMinutesSnapsToInterval(t *testing.T) {
	c := NewCalculator()
	for y := 0; y <= 100; y++ {
		m := c.YToMinutes(y, 100)
		if m != 1305 && m%c.SnapInterval != 0 {
			t.Fatalf("y=%d mapped to %d, not a multiple of %d", y, m, c.SnapInterval)
		}
		if m < c.PlotStart || m > c.PlotEnd-MinDuration {
			t.Fatalf("y=%d mapped to %d, outside clamp range", y, m)
		}
	}
}

func TestMinutesToPercentMonotonic(t *testing.T) {
	c := NewCalculator()
	prev := c.MinutesToPercent(c.PlotStart)
	for m := c.PlotStart + 1; m <= c.PlotEnd; m++ {
		cur := c.MinutesToPercent(m)
		if cur <= prev {
			t.Fatalf("percent not monotonic at %d: %f <= %f", m, cur, prev)
		}
		prev = cur
	}
	if c.MinutesToPercent(c.PlotStart) != 0 {
		t.Fatal("plot start should map to 0%")
	}
	if c.MinutesToPercent(c.PlotEnd) != 100 {
		t.Fatal("plot end should map to 100%")
	}
}
