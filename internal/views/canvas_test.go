package views

import (
	"strings"
	"testing"

	"github.com/gardenfence/gardenfence/internal/lanes"
	"github.com/gardenfence/gardenfence/internal/timegeom"
	"github.com/gardenfence/gardenfence/internal/timeline"
)

func canvasData(items []lanes.TimedItem) CanvasData {
	c := timegeom.NewCalculator()
	tr := timegeom.NewTransform(c, 0)
	return CanvasData{
		Width:  60,
		Height: 30,
		Slots:  timeline.Slots(c),
		Items:  lanes.Assign(items, tr),
	}
}

func TestCanvasLayoutCards(t *testing.T) {
	canvas := NewCanvas()
	data := canvasData([]lanes.TimedItem{
		{Ref: "a", Title: "Water ferns", StartMin: 540, EndMin: 600},
		{Ref: "b", Title: "Mulch beds", StartMin: 570, EndMin: 630},
	})
	out, layout := canvas.Render(data)

	if len(layout.Cards) != 2 {
		t.Fatalf("got %d card boxes, want 2", len(layout.Cards))
	}
	if layout.Plot.X != rulerWidth {
		t.Fatalf("plot starts at %d, want %d", layout.Plot.X, rulerWidth)
	}
	// Overlapping items occupy different columns.
	if layout.Cards[0].Box.X == layout.Cards[1].Box.X {
		t.Fatal("overlapping cards share a column")
	}
	if !strings.Contains(out, "Water ferns") || !strings.Contains(out, "Mulch beds") {
		t.Fatalf("titles missing from canvas:\n%s", out)
	}
	if !strings.Contains(out, "8:00 AM") {
		t.Fatalf("ruler missing:\n%s", out)
	}
}

func TestCanvasCardRowsMatchPercents(t *testing.T) {
	canvas := NewCanvas()
	data := canvasData([]lanes.TimedItem{
		{Ref: "a", Title: "Morning", StartMin: 480, EndMin: 540},
	})
	_, layout := canvas.Render(data)

	card := layout.Cards[0]
	if card.Box.Y != 0 {
		t.Fatalf("plot-start card begins at row %d", card.Box.Y)
	}
	// 60 minutes of an 840-minute window over 30 rows is about 2 rows.
	if card.Box.H < 2 || card.Box.H > 4 {
		t.Fatalf("card height = %d", card.Box.H)
	}
}

func TestCanvasNowAndPreview(t *testing.T) {
	canvas := NewCanvas()
	data := canvasData(nil)
	c := timegeom.NewCalculator()
	tr := timegeom.NewTransform(c, 0)
	data.Now = timeline.NowIndicator{Minutes: 900, Position: tr.MinutesToPercent(900), Visible: true}
	data.PreviewActive = true
	data.PreviewPct = tr.MinutesToPercent(600)
	data.PreviewLabel = "→ 10:00 AM"

	out, _ := canvas.Render(data)
	if !strings.Contains(out, "◀now") {
		t.Fatalf("now marker missing:\n%s", out)
	}
	if !strings.Contains(out, "→ 10:00 AM") {
		t.Fatalf("preview label missing:\n%s", out)
	}
}

func TestCanvasCardCacheReuse(t *testing.T) {
	canvas := NewCanvas()
	data := canvasData([]lanes.TimedItem{
		{Ref: "a", Title: "Water ferns", StartMin: 540, EndMin: 600},
	})
	canvas.Render(data)
	if len(canvas.cardCache) != 1 {
		t.Fatalf("cache size = %d, want 1", len(canvas.cardCache))
	}

	// Same data renders from cache; a status change re-keys the card.
	canvas.Render(data)
	if len(canvas.cardCache) != 1 {
		t.Fatalf("cache grew on identical render: %d", len(canvas.cardCache))
	}

	data.Items[0].Done = true
	canvas.Render(data)
	if len(canvas.cardCache) != 1 {
		t.Fatalf("stale cache entry kept: %d", len(canvas.cardCache))
	}
}

func TestCanvasCollapsedBadge(t *testing.T) {
	canvas := NewCanvas()
	data := canvasData(nil)
	data.Collapsed = true
	out, _ := canvas.Render(data)
	if !strings.Contains(out, "earlier") {
		t.Fatalf("collapse badge missing:\n%s", out)
	}
}

func TestRenderAppAndScreens(t *testing.T) {
	sidebar := RenderSidebar(SidebarData{
		DateHeader: "Wednesday, March 4",
		Goals:      []GoalSummaryData{{Title: "garden", Done: 1, Total: 3}},
		Seeds:      []SeedData{{ID: "s1", Title: "Buy compost", Category: "errand"}},
		Templates:  []TemplatePillData{{ID: "tp1", Title: "Deep work", Duration: 90}},
		Events:     []EventListItemData{{Title: "Standup", When: "10:00"}},
	})
	for _, want := range []string{"seed pool:", "Buy compost", "Deep work 90m", "Standup"} {
		if !strings.Contains(sidebar, want) {
			t.Fatalf("sidebar missing %q:\n%s", want, sidebar)
		}
	}

	app := RenderApp(AppData{
		Header:       "garden fence",
		Sidebar:      sidebar,
		Canvas:       "canvas",
		StatusLine:   "ready",
		Notification: "planted",
	})
	if !strings.Contains(app, "garden fence") || !strings.Contains(app, "planted") {
		t.Fatalf("app chrome incomplete:\n%s", app)
	}

	if RenderCommandPalette(false, "plant") != "" {
		t.Fatal("inactive palette should render empty")
	}
	if got := RenderCommandPalette(true, "plant x"); got != "command: /plant x" {
		t.Fatalf("palette = %q", got)
	}

	status := RenderStatus("Mar 4", 5, 2, "move Water ferns", "", "")
	if !strings.Contains(status, "2/5 done") || !strings.Contains(status, "undo: move Water ferns") {
		t.Fatalf("status = %q", status)
	}
}
