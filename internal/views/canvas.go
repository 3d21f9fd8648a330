package views

import (
	"fmt"
	"strings"

	"github.com/gardenfence/gardenfence/internal/lanes"
	"github.com/gardenfence/gardenfence/internal/timeline"
)

// Box is a rectangle in canvas coordinates, rows and columns.
type Box struct {
	X, Y, W, H int
}

// CardBox records where a card landed so the event loop can hit-test
// presses against it. The first and last rows double as resize handles.
type CardBox struct {
	Ref  string
	Done bool
	Box  Box
}

// Layout is the geometry side-channel of a canvas render: the event loop
// feeds it back into gesture zone registration and card hit-testing.
type Layout struct {
	Ruler Box
	Plot  Box
	Cards []CardBox
}

type CanvasData struct {
	Width  int
	Height int
	Slots  []timeline.Slot
	Items  []lanes.PositionedItem
	Now    timeline.NowIndicator

	Collapsed   bool
	SelectedRef string

	// Live gesture decoration. DragRef dims the card being moved,
	// SwipeRef shifts a card by SwipeDX columns.
	DragRef  string
	SwipeRef string
	SwipeDX  int

	PreviewActive bool
	PreviewPct    float64
	PreviewLabel  string
}

const rulerWidth = 10

// Canvas renders the day plot. It caches rendered card blocks per task,
// invalidated by anything that affects their text, so a single task's
// field update re-renders only that card.
type Canvas struct {
	cardCache map[string]cachedCard
}

type cachedCard struct {
	key   string
	block []string
}

func NewCanvas() *Canvas {
	return &Canvas{cardCache: make(map[string]cachedCard)}
}

// Render draws the canvas and reports the layout used.
func (c *Canvas) Render(data CanvasData) (string, Layout) {
	w, h := data.Width, data.Height
	if w < rulerWidth+8 {
		w = rulerWidth + 8
	}
	if h < 4 {
		h = 4
	}
	grid := make([][]rune, h)
	for y := range grid {
		grid[y] = make([]rune, w)
		for x := range grid[y] {
			grid[y][x] = ' '
		}
	}

	layout := Layout{
		Ruler: Box{X: 0, Y: 0, W: rulerWidth, H: h},
		Plot:  Box{X: rulerWidth, Y: 0, W: w - rulerWidth, H: h},
	}

	c.drawRuler(grid, data.Slots, layout)
	if data.Collapsed {
		writeString(grid, 0, 0, "⌃ earlier")
	}

	layout.Cards = c.drawCards(grid, data, layout.Plot)

	if data.Now.Visible {
		y := rowOf(data.Now.Position, h)
		for x := layout.Plot.X; x < w; x++ {
			if grid[y][x] == ' ' {
				grid[y][x] = '━'
			}
		}
		writeString(grid, layout.Plot.X, y, "◀now")
	}

	if data.PreviewActive {
		y := rowOf(data.PreviewPct, h)
		for x := layout.Plot.X; x < w; x++ {
			if grid[y][x] == ' ' {
				grid[y][x] = '┄'
			}
		}
		writeString(grid, layout.Plot.X+1, y, " "+data.PreviewLabel+" ")
	}

	lines := make([]string, h)
	for y := range grid {
		lines[y] = strings.TrimRight(string(grid[y]), " ")
	}
	return strings.Join(lines, "\n"), layout
}

func (c *Canvas) drawRuler(grid [][]rune, slots []timeline.Slot, layout Layout) {
	h := len(grid)
	for _, slot := range slots {
		y := rowOf(slot.Position, h)
		label := slot.Label
		if len(label) > rulerWidth-2 {
			label = label[:rulerWidth-2]
		}
		writeString(grid, rulerWidth-2-len(label), y, label)
		grid[y][rulerWidth-1] = '┤'
		for x := layout.Plot.X; x < layout.Plot.X+layout.Plot.W; x++ {
			grid[y][x] = '╌'
		}
	}
}

func (c *Canvas) drawCards(grid [][]rune, data CanvasData, plot Box) []CardBox {
	out := make([]CardBox, 0, len(data.Items))
	seen := make(map[string]bool, len(data.Items))

	for _, item := range data.Items {
		laneCount := item.LaneCount
		if laneCount < 1 {
			laneCount = 1
		}
		laneW := plot.W / laneCount
		if laneW < 6 {
			laneW = plot.W
		}
		x0 := plot.X + item.Lane*laneW
		if x0+laneW > plot.X+plot.W {
			x0 = plot.X + plot.W - laneW
		}
		y0 := rowOf(item.StartPct, len(grid))
		y1 := rowOf(item.StartPct+item.DurPct, len(grid))
		if y1 <= y0 {
			y1 = y0 + 1
		}
		if y1 >= len(grid) {
			y1 = len(grid) - 1
		}

		if item.Ref == data.SwipeRef {
			x0 += data.SwipeDX
			if x0 < plot.X {
				x0 = plot.X
			}
			if x0+laneW > plot.X+plot.W {
				x0 = plot.X + plot.W - laneW
			}
		}

		box := Box{X: x0, Y: y0, W: laneW, H: y1 - y0 + 1}
		block := c.cardBlock(item, box, item.Ref == data.SelectedRef, item.Ref == data.DragRef)
		for i, line := range block {
			writeString(grid, x0, y0+i, line)
		}
		out = append(out, CardBox{Ref: item.Ref, Done: item.Done, Box: box})
		seen[item.Ref] = true
	}

	for ref := range c.cardCache {
		if !seen[ref] {
			delete(c.cardCache, ref)
		}
	}
	return out
}

// cardBlock renders one card's lines, cached on its visual identity.
func (c *Canvas) cardBlock(item lanes.PositionedItem, box Box, selected, dragging bool) []string {
	key := fmt.Sprintf("%d:%d:%d:%s:%v:%v:%v:%v", box.W, box.H, item.StartMin, item.Title, item.Done, item.Kind, selected, dragging)
	if cached, ok := c.cardCache[item.Ref]; ok && cached.key == key {
		return cached.block
	}

	inner := box.W - 2
	if inner < 1 {
		inner = 1
	}
	mark := "•"
	switch {
	case dragging:
		mark = "░"
	case item.Done:
		mark = "✓"
	case item.Kind == lanes.KindEvent:
		mark = "◆"
	}
	title := fmt.Sprintf("%s %s", mark, item.Title)

	edge := "─"
	if selected {
		edge = "═"
	}

	block := make([]string, box.H)
	block[0] = "╭" + padRune(title, inner, []rune(edge)[0]) + "╮"
	for i := 1; i < box.H-1; i++ {
		block[i] = "│" + strings.Repeat(" ", inner) + "│"
	}
	if box.H > 1 {
		block[box.H-1] = "╰" + strings.Repeat(edge, inner) + "╯"
	}
	c.cardCache[item.Ref] = cachedCard{key: key, block: block}
	return block
}

func padRune(s string, width int, fill rune) string {
	runes := []rune(s)
	if len(runes) >= width {
		return string(runes[:width])
	}
	return s + strings.Repeat(string(fill), width-len(runes))
}

func rowOf(pct float64, height int) int {
	if height <= 1 {
		return 0
	}
	y := int(pct/100*float64(height-1) + 0.5)
	if y < 0 {
		y = 0
	}
	if y >= height {
		y = height - 1
	}
	return y
}

func writeString(grid [][]rune, x, y int, s string) {
	if y < 0 || y >= len(grid) {
		return
	}
	for i, r := range []rune(s) {
		if x+i < 0 || x+i >= len(grid[y]) {
			continue
		}
		grid[y][x+i] = r
	}
}
