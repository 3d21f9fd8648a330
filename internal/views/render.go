package views

import (
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
)

type AppData struct {
	Header       string
	Sidebar      string
	Canvas       string
	StatusLine   string
	Footer       string
	Notification string
	SidebarWidth int
	CanvasWidth  int
}

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("10"))
	statusStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	panelStyle  = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	footerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	toastStyle  = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1).Foreground(lipgloss.Color("11"))
)

func RenderApp(data AppData) string {
	sidebarWidth := data.SidebarWidth
	if sidebarWidth <= 0 {
		sidebarWidth = 36
	}
	canvasWidth := data.CanvasWidth
	if canvasWidth <= 0 {
		canvasWidth = 72
	}
	sidebar := panelStyle.Width(sidebarWidth).Render(data.Sidebar)
	canvas := panelStyle.Width(canvasWidth).Render(data.Canvas)
	row := lipgloss.JoinHorizontal(lipgloss.Top, sidebar, canvas)

	status := statusStyle.Render(data.StatusLine)
	if strings.Contains(strings.ToLower(data.StatusLine), "error") {
		status = errorStyle.Render(data.StatusLine)
	}

	lines := []string{
		headerStyle.Render(data.Header),
		row,
		status,
	}
	if data.Notification != "" {
		lines = append(lines, toastStyle.Render(data.Notification))
	}
	if data.Footer != "" {
		lines = append(lines, footerStyle.Render(data.Footer))
	}
	return strings.Join(lines, "\n")
}

// RenderMarkdown renders task notes for the detail pane, falling back to
// the raw text when rendering fails.
func RenderMarkdown(md string) string {
	if strings.TrimSpace(md) == "" {
		return ""
	}
	out, err := glamour.Render(md, "dark")
	if err != nil {
		return md
	}
	return strings.TrimSpace(out)
}
