package viz

import (
	"errors"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

var ErrNoSelection = errors.New("viz: nothing selected")

type PickerItem struct {
	Name string
	Desc string
}

var (
	pickTitle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#00cccc")).Bold(true)
	pickSub    = lipgloss.NewStyle().Foreground(lipgloss.Color("#666688"))
	pickCursor = lipgloss.NewStyle().Foreground(lipgloss.Color("#00ffff")).Bold(true)
	pickActive = lipgloss.NewStyle().Foreground(lipgloss.Color("#ffffff")).Bold(true)
	pickDesc   = lipgloss.NewStyle().Foreground(lipgloss.Color("#ff88ff"))
	pickIdle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#555566"))
	pickKey    = lipgloss.NewStyle().Foreground(lipgloss.Color("#00aaaa")).Bold(true)
)

// Picker is a one-shot menu that lets the user choose a preset.
type Picker struct {
	items  []PickerItem
	cursor int
	chosen string
}

func NewPicker(items []PickerItem) Picker {
	return Picker{items: items}
}

func (p Picker) Chosen() string { return p.chosen }

func (p Picker) Init() tea.Cmd { return nil }

func (p Picker) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return p, nil
	}
	switch key.String() {
	case "q", "esc", "ctrl+c":
		return p, tea.Quit
	}
	if len(p.items) == 0 {
		return p, nil
	}
	switch key.String() {
	case "up", "k":
		p.cursor = (p.cursor - 1 + len(p.items)) % len(p.items)
	case "down", "j":
		p.cursor = (p.cursor + 1) % len(p.items)
	case "enter", " ":
		p.chosen = p.items[p.cursor].Name
		return p, tea.Quit
	}
	return p, nil
}

func (p Picker) View() string {
	var b strings.Builder
	b.WriteString("\n\n    " + pickTitle.Render("ORBITARENA") + "\n    " + pickSub.Render("bodies in a bounded arena") + "\n    " + pickSub.Render("─────────────────────────") + "\n\n")
	for i, it := range p.items {
		if i == p.cursor {
			b.WriteString(fmt.Sprintf("    %s %s  %s\n", pickCursor.Render("▸"), pickActive.Render(fmt.Sprintf("%-12s", it.Name)), pickDesc.Render(it.Desc)))
		} else {
			b.WriteString(fmt.Sprintf("    %s  %s\n", pickIdle.Render(fmt.Sprintf("  %-12s", it.Name)), pickIdle.Render(it.Desc)))
		}
	}
	b.WriteString("\n    " + pickKey.Render("j/k") + pickIdle.Render(" navigate  ") + pickKey.Render("enter") + pickIdle.Render(" select  ") + pickKey.Render("q") + pickIdle.Render(" quit") + "\n")
	return b.String()
}

// Pick runs the menu and returns the chosen name.
func Pick(items []PickerItem) (string, error) {
	final, err := tea.NewProgram(NewPicker(items)).Run()
	if err != nil {
		return "", err
	}
	if name := final.(Picker).Chosen(); name != "" {
		return name, nil
	}
	return "", ErrNoSelection
}
