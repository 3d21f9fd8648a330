package views

import (
	"fmt"
	"strings"
)

type SeedData struct {
	ID       string
	Title    string
	Category string
}

type EventListItemData struct {
	Title string
	When  string
}

type GoalSummaryData struct {
	Title string
	Done  int
	Total int
}

type SidebarData struct {
	DateHeader   string
	Goals        []GoalSummaryData
	Seeds        []SeedData
	SelectedSeed string
	Templates    []TemplatePillData
	Events       []EventListItemData
	NotesPreview string
}

type TemplatePillData struct {
	ID       string
	Title    string
	Duration int
}

func RenderSidebar(data SidebarData) string {
	var b strings.Builder
	b.WriteString(data.DateHeader + "\n")
	b.WriteString("actions: [h/l]day [t]today [p]plant [:]command [z]zen\n")

	if len(data.Goals) > 0 {
		b.WriteString("\ngoals:\n")
		for _, g := range data.Goals {
			b.WriteString(fmt.Sprintf("  %s %d/%d\n", g.Title, g.Done, g.Total))
		}
	}

	b.WriteString("\n" + RenderSeedPool(data.Seeds, data.SelectedSeed) + "\n")
	b.WriteString("\n" + RenderTemplatePills(data.Templates) + "\n")

	b.WriteString("\nevents:\n")
	if len(data.Events) == 0 {
		b.WriteString("  (none)\n")
	}
	for _, ev := range data.Events {
		b.WriteString(fmt.Sprintf("  ◆ %s %s\n", ev.When, ev.Title))
	}

	if data.NotesPreview != "" {
		b.WriteString("\nnotes:\n" + data.NotesPreview + "\n")
	}
	return strings.TrimSpace(b.String())
}

// RenderSeedPool lists unscheduled tasks. Seeds are dragged onto the
// canvas to be planted.
func RenderSeedPool(seeds []SeedData, selectedID string) string {
	var b strings.Builder
	b.WriteString("seed pool:\n")
	if len(seeds) == 0 {
		b.WriteString("  (all planted)")
		return b.String()
	}
	for _, s := range seeds {
		cursor := " "
		if s.ID == selectedID {
			cursor = ">"
		}
		line := fmt.Sprintf("%s ⊙ %s", cursor, s.Title)
		if s.Category != "" {
			line += fmt.Sprintf(" [%s]", s.Category)
		}
		b.WriteString(line + "\n")
	}
	return strings.TrimSuffix(b.String(), "\n")
}

func RenderTemplatePills(pills []TemplatePillData) string {
	if len(pills) == 0 {
		return "quick add: (none)"
	}
	parts := make([]string, 0, len(pills))
	for _, p := range pills {
		parts = append(parts, fmt.Sprintf("⟨%s %dm⟩", p.Title, p.Duration))
	}
	return "quick add: " + strings.Join(parts, " ")
}

func RenderCommandPalette(active bool, input string) string {
	if !active {
		return ""
	}
	return fmt.Sprintf("command: /%s", input)
}

func RenderNotification(level string, body string) string {
	if strings.TrimSpace(body) == "" {
		return ""
	}
	return fmt.Sprintf("[%s] %s", strings.ToUpper(level), body)
}

// RenderStatus summarizes undo/redo availability and the live gesture for
// the status line.
func RenderStatus(dateLabel string, taskCount, doneCount int, undoDesc, redoDesc, gesture string) string {
	parts := []string{fmt.Sprintf("%s · %d/%d done", dateLabel, doneCount, taskCount)}
	if gesture != "" {
		parts = append(parts, gesture)
	}
	if undoDesc != "" {
		parts = append(parts, "undo: "+undoDesc)
	}
	if redoDesc != "" {
		parts = append(parts, "redo: "+redoDesc)
	}
	return strings.Join(parts, " | ")
}
