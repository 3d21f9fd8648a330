// Package lanes resolves overlapping timed items into side-by-side lanes
// via greedy interval partitioning.
package lanes

import (
	"sort"

	"github.com/gardenfence/gardenfence/internal/timegeom"
)

type ItemKind string

const (
	KindTask  ItemKind = "task"
	KindEvent ItemKind = "event"
)

// TimedItem is a layout-ready interval in minutes from midnight, derived
// from a Task or EventInstance on every layout pass and never persisted.
type TimedItem struct {
	Ref      string
	Kind     ItemKind
	Title    string
	Done     bool
	StartMin int
	EndMin   int
}

// PositionedItem is a TimedItem with its assigned lane and the normalized
// geometry the canvas positions it with.
type PositionedItem struct {
	TimedItem
	Lane      int
	LaneCount int
	StartPct  float64
	DurPct    float64
}

// ClampToWindow fits an interval into the plot window, preserving the
// minimum duration. The second return is false when the interval lies
// entirely outside the window and should be skipped.
func ClampToWindow(startMin, endMin int, c timegeom.Calculator) (int, int, bool) {
	if endMin <= startMin {
		endMin = startMin + 60
	}
	if endMin <= c.PlotStart || startMin >= c.PlotEnd {
		return 0, 0, false
	}
	start := timegeom.Clamp(startMin, c.PlotStart, c.PlotEnd-timegeom.MinDuration)
	end := timegeom.Clamp(endMin, start+timegeom.MinDuration, c.PlotEnd)
	return start, end, true
}

// Assign partitions items into lanes, greedy by start time. Each item takes
// the first lane free at its start; items past lane capacity are clamped
// into the last lane and visually overlap rather than erroring. Geometry is
// computed through the transform so collapsed hours shift cards the same
// way they shift pointer math.
func Assign(items []TimedItem, tr timegeom.Transform) []PositionedItem {
	maxLanes := tr.Calc.MaxLanes
	if maxLanes < 1 {
		maxLanes = 1
	}

	sorted := make([]TimedItem, len(items))
	copy(sorted, items)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].StartMin < sorted[j].StartMin
	})

	var laneEnds []int
	out := make([]PositionedItem, 0, len(sorted))
	maxLaneUsed := 0

	for _, it := range sorted {
		lane := -1
		for i, end := range laneEnds {
			if end <= it.StartMin {
				lane = i
				break
			}
		}
		if lane == -1 {
			laneEnds = append(laneEnds, 0)
			lane = len(laneEnds) - 1
		}
		laneEnds[lane] = it.EndMin

		if lane > maxLanes-1 {
			lane = maxLanes - 1
		}
		if lane > maxLaneUsed {
			maxLaneUsed = lane
		}

		startPct := tr.MinutesToPercent(it.StartMin)
		endPct := tr.MinutesToPercent(it.EndMin)
		out = append(out, PositionedItem{
			TimedItem: it,
			Lane:      lane,
			StartPct:  startPct,
			DurPct:    endPct - startPct,
		})
	}

	laneCount := maxLaneUsed + 1
	if laneCount > maxLanes {
		laneCount = maxLanes
	}
	for i := range out {
		out[i].LaneCount = laneCount
	}
	return out
}
