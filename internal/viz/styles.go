package viz

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

type styles struct {
	canvas      lipgloss.Style
	flash       lipgloss.Style
	stats       lipgloss.Style
	header      lipgloss.Style
	label       lipgloss.Style
	value       lipgloss.Style
	activeParam lipgloss.Style
	graph       lipgloss.Style
	help        lipgloss.Style
	running     lipgloss.Style
	paused      lipgloss.Style
}

func newStyles(t Theme) styles {
	return styles{
		canvas:      lipgloss.NewStyle().Padding(1, 2).Foreground(t.Boundary),
		flash:       lipgloss.NewStyle().Foreground(t.Flash).Bold(true),
		stats:       lipgloss.NewStyle().Border(lipgloss.NormalBorder(), false, false, false, true).BorderForeground(t.Muted).Padding(1, 2).Width(statsWidth),
		header:      lipgloss.NewStyle().Foreground(t.Primary).Bold(true).MarginBottom(1),
		label:       lipgloss.NewStyle().Foreground(t.Muted).Width(12),
		value:       lipgloss.NewStyle().Foreground(t.Text),
		activeParam: lipgloss.NewStyle().Foreground(t.Accent).Bold(true),
		graph:       lipgloss.NewStyle().Foreground(t.Primary).Padding(1, 0),
		help:        lipgloss.NewStyle().Foreground(t.Muted).MarginTop(1),
		running:     lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#00ff88")),
		paused:      lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#ffaa00")),
	}
}

// ImpactBar renders a level in [0,1] as a filled bar.
func ImpactBar(level float64, width int) string {
	filled := int(level*float64(width) + 0.5)
	filled = max(0, min(width, filled))
	return strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
}
