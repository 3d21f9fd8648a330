package gesture

// Rect is a zone's bounds in canvas coordinates.
type Rect struct {
	X, Y, W, H int
}

func (r Rect) Contains(p Point) bool {
	return p.X >= r.X && p.X < r.X+r.W && p.Y >= r.Y && p.Y < r.Y+r.H
}

// Zone is a registered drop target. The timeline zone converts pointer Y
// into minutes; other zones (the seed pool, the trash edge) carry only
// identity and bounds.
type Zone struct {
	ID       string
	Bounds   Rect
	Timeline bool
}

const (
	ZoneTimeline = "timeline"
	ZonePool     = "seed-pool"
)

// zoneAt returns the topmost zone containing p, or nil.
func zoneAt(zones []Zone, p Point) *Zone {
	for i := range zones {
		if zones[i].Bounds.Contains(p) {
			return &zones[i]
		}
	}
	return nil
}
