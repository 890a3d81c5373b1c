package viz

import "github.com/charmbracelet/lipgloss"

// Theme defines the colors of the live view.
type Theme struct {
	Name     string
	Primary  lipgloss.Color
	Accent   lipgloss.Color
	Text     lipgloss.Color
	Muted    lipgloss.Color
	Boundary lipgloss.Color
	Flash    lipgloss.Color
}

var (
	ThemeNight = Theme{
		Name:     "night",
		Primary:  lipgloss.Color("86"),
		Accent:   lipgloss.Color("205"),
		Text:     lipgloss.Color("252"),
		Muted:    lipgloss.Color("240"),
		Boundary: lipgloss.Color("245"),
		Flash:    lipgloss.Color("#ff4757"),
	}

	ThemeRetro = Theme{
		Name:     "retro",
		Primary:  lipgloss.Color("#00ff00"),
		Accent:   lipgloss.Color("#88ff88"),
		Text:     lipgloss.Color("#00ff00"),
		Muted:    lipgloss.Color("#005500"),
		Boundary: lipgloss.Color("#00cc00"),
		Flash:    lipgloss.Color("#ffff00"),
	}

	ThemeOcean = Theme{
		Name:     "ocean",
		Primary:  lipgloss.Color("#00a8cc"),
		Accent:   lipgloss.Color("#ffd700"),
		Text:     lipgloss.Color("#e0f0ff"),
		Muted:    lipgloss.Color("#4488aa"),
		Boundary: lipgloss.Color("#0077be"),
		Flash:    lipgloss.Color("#ff9ff3"),
	}

	Themes = []Theme{ThemeNight, ThemeRetro, ThemeOcean}
)

func GetTheme(name string) Theme {
	for _, t := range Themes {
		if t.Name == name {
			return t
		}
	}
	return ThemeNight
}

func ThemeNames() []string {
	names := make([]string, len(Themes))
	for i, t := range Themes {
		names[i] = t.Name
	}
	return names
}
