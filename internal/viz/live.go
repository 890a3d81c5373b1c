package viz

import (
	"fmt"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/harmonica"
	"github.com/charmbracelet/lipgloss"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/guptarohit/asciigraph"
	"github.com/san-kum/orbitarena/internal/physics"
	"github.com/san-kum/orbitarena/internal/sim"
)

const (
	defaultWidth    = 60
	defaultHeight   = 24
	statsWidth      = 46
	historyCapacity = 300
	fps             = 60

	tuneUp    = 1.05
	tuneDown  = 0.95
	trailStep = 20

	flashVisible = 0.05
)

// EventPlayer receives the events of every tick, e.g. an audio player. The
// player owns the mute state; muted players drop what they are given.
type EventPlayer interface {
	Play(events []physics.Event)
	SetMuted(m bool)
	Muted() bool
}

type TickMsg time.Time

func tick() tea.Cmd {
	return tea.Tick(time.Second/fps, func(t time.Time) tea.Msg { return TickMsg(t) })
}

type param int

const (
	paramG param = iota
	paramDt
	paramRadius
	paramMass
	paramSize
	paramSpeed
	paramTrail
	numParams
)

func (p param) String() string {
	switch p {
	case paramG:
		return "G"
	case paramDt:
		return "dt"
	case paramRadius:
		return "radius"
	case paramMass:
		return "mass"
	case paramSize:
		return "size"
	case paramSpeed:
		return "speed"
	case paramTrail:
		return "trail"
	}
	return "?"
}

// perBody reports whether p edits the selected body.
func (p param) perBody() bool {
	return p == paramMass || p == paramSize || p == paramSpeed
}

// Model drives a controller from the bubbletea loop and renders the arena.
type Model struct {
	ctrl   *sim.Controller
	player EventPlayer
	title  string

	width, height int
	canvas        *Canvas

	selected param
	body     int
	energy   []float64
	counts   map[physics.EventKind]int
	lastErr  error

	spring   harmonica.Spring
	flash    float64
	flashVel float64

	theme    int
	st       styles
	showHelp bool

	shotDir string
	status  string
}

func NewModel(ctrl *sim.Controller, title string, player EventPlayer) Model {
	return Model{
		ctrl:    ctrl,
		player:  player,
		title:   title,
		width:   defaultWidth,
		height:  defaultHeight,
		canvas:  NewCanvas(defaultWidth, defaultHeight),
		energy:  make([]float64, 0, historyCapacity),
		counts:  make(map[physics.EventKind]int),
		spring:  harmonica.NewSpring(harmonica.FPS(fps), 6.0, 0.4),
		st:      newStyles(Themes[0]),
		shotDir: ".",
	}
}

// SetScreenshotDir changes where the s key writes SVG screenshots.
func (m *Model) SetScreenshotDir(dir string) { m.shotDir = dir }

// SetTheme selects a theme by name; unknown names fall back to night.
func (m *Model) SetTheme(name string) {
	t := GetTheme(name)
	for i := range Themes {
		if Themes[i].Name == t.Name {
			m.theme = i
		}
	}
	m.st = newStyles(t)
}

func (m Model) Init() tea.Cmd { return tick() }

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
	case tea.KeyMsg:
		return m.handleKey(msg)
	case TickMsg:
		m.step()
		return m, tick()
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.lastErr = nil
	m.status = ""
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case " ":
		m.ctrl.SetPaused(!m.ctrl.Params().Paused)
	case "r":
		m.restart(m.ctrl.Reset)
	case "n":
		m.restart(m.ctrl.Randomize)
	case "tab":
		m.selected = (m.selected + 1) % numParams
	case "b":
		m.body = (m.body + 1) % len(m.ctrl.Bodies())
	case "up", "k":
		m.tune(tuneUp)
	case "down", "j":
		m.tune(tuneDown)
	case "m":
		if m.player != nil {
			m.player.SetMuted(!m.player.Muted())
		}
	case "t":
		m.theme = (m.theme + 1) % len(Themes)
		m.st = newStyles(Themes[m.theme])
	case "s":
		m.screenshot()
	case "?":
		m.showHelp = !m.showHelp
	}
	return m, nil
}

func (m *Model) screenshot() {
	m.draw()
	path := filepath.Join(m.shotDir, fmt.Sprintf("orbitarena_%06d.svg", m.ctrl.Step()))
	if err := os.WriteFile(path, []byte(m.canvas.SVG(4)), 0644); err != nil {
		m.lastErr = err
		return
	}
	m.status = "saved " + path
}

func (m *Model) restart(fn func(float64) error) {
	if err := fn(m.ctrl.Arena().Radius); err != nil {
		m.lastErr = err
		return
	}
	m.energy = m.energy[:0]
	clear(m.counts)
	m.flash, m.flashVel = 0, 0
}

func (m *Model) tune(factor float64) {
	p := m.ctrl.Params()
	b := m.selectedBody()
	var err error
	switch m.selected {
	case paramG:
		err = m.ctrl.SetG(p.G * factor)
	case paramDt:
		err = m.ctrl.SetTimeStep(p.Dt * factor)
	case paramRadius:
		err = m.ctrl.SetBoundaryRadius(p.BoundaryRadius * factor)
	case paramMass:
		err = m.ctrl.SetMass(b.ID, b.Mass*factor)
	case paramSize:
		err = m.ctrl.SetRadius(b.ID, b.Radius*factor)
	case paramSpeed:
		err = m.ctrl.SetVelocity(b.ID, b.Vel.Mul(factor))
	case paramTrail:
		n := m.ctrl.Options().TrailLength
		if factor > 1 {
			n += trailStep
		} else {
			n = max(0, n-trailStep)
		}
		err = m.ctrl.SetTrailLength(n)
	}
	if err != nil {
		slog.Debug("parameter rejected", "param", m.selected.String(), "err", err)
		m.lastErr = err
	}
}

func (m *Model) selectedBody() physics.Body {
	bodies := m.ctrl.Bodies()
	return bodies[m.body%len(bodies)]
}

func (m *Model) paramValue(p param) float64 {
	params := m.ctrl.Params()
	b := m.selectedBody()
	switch p {
	case paramG:
		return params.G
	case paramDt:
		return params.Dt
	case paramRadius:
		return params.BoundaryRadius
	case paramMass:
		return b.Mass
	case paramSize:
		return b.Radius
	case paramSpeed:
		return b.Speed()
	case paramTrail:
		return float64(m.ctrl.Options().TrailLength)
	}
	return 0
}

func (m *Model) resize(w, h int) {
	cw := max(20, w-statsWidth-6)
	ch := max(8, h-3)
	if cw == m.width && ch == m.height {
		return
	}
	m.width, m.height = cw, ch
	m.canvas = NewCanvas(cw, ch)
}

// step advances the simulation by one tick and relaxes the impact flash.
func (m *Model) step() {
	events := m.ctrl.Tick()

	for _, ev := range events {
		m.counts[ev.Kind]++
		if ev.Kind == physics.EventBoundary && ev.Strength > m.flash {
			m.flash = ev.Strength
		}
	}
	if len(events) > 0 && m.player != nil {
		m.player.Play(events)
	}

	m.flash, m.flashVel = m.spring.Update(m.flash, m.flashVel, 0)
	if math.Abs(m.flash) < 1e-4 && math.Abs(m.flashVel) < 1e-4 {
		m.flash, m.flashVel = 0, 0
	}

	if !m.ctrl.Params().Paused {
		m.energy = append(m.energy, m.ctrl.Energy())
		if len(m.energy) > historyCapacity {
			m.energy = m.energy[1:]
		}
	}
}

// project maps arena coordinates to canvas dots, y pointing up.
func (m *Model) project(p mgl64.Vec2) (int, int) {
	cx, cy, scale := m.viewport()
	return cx + int(math.Round(p.X()*scale)), cy - int(math.Round(p.Y()*scale))
}

func (m *Model) viewport() (cx, cy int, scale float64) {
	w, h := m.canvas.Dots()
	cx, cy = w/2, h/2
	half := float64(min(w, h))/2 - 1
	return cx, cy, half / m.ctrl.Arena().Radius
}

func (m *Model) draw() {
	m.canvas.Clear()
	cx, cy, scale := m.viewport()
	m.canvas.DrawCircle(cx, cy, int(m.ctrl.Arena().Radius*scale))

	for _, b := range m.ctrl.Bodies() {
		if pts, err := m.ctrl.Trail(b.ID); err == nil {
			for _, p := range pts {
				m.canvas.Set(m.project(p))
			}
		}
		px, py := m.project(b.Pos)
		m.canvas.FillCircle(px, py, max(1, int(b.Radius*scale)))
	}
}

func (m Model) View() string {
	m.draw()

	canvasStyle := m.st.canvas
	if m.flash > flashVisible {
		canvasStyle = canvasStyle.Foreground(Themes[m.theme].Flash)
	}
	canvasView := canvasStyle.Render(m.canvas.String())

	p := m.ctrl.Params()
	var s strings.Builder
	s.WriteString(m.st.header.Render(strings.ToUpper(m.title)) + "\n")
	if p.Paused {
		s.WriteString(m.st.paused.Render("PAUSED") + "\n\n")
	} else {
		s.WriteString(m.st.running.Render("RUNNING") + "\n\n")
	}

	if len(m.energy) > 1 {
		chart := asciigraph.Plot(m.energy, asciigraph.Height(4), asciigraph.Width(30), asciigraph.Caption("Energy"))
		s.WriteString(m.st.graph.Render(chart) + "\n\n")
	}

	row := func(label, value string) {
		s.WriteString(m.st.label.Render(label) + m.st.value.Render(value) + "\n")
	}
	row("Time", fmt.Sprintf("%.2fs", m.ctrl.Time()))
	row("Step", fmt.Sprintf("%d", m.ctrl.Step()))
	row("Energy", fmt.Sprintf("%.2f", m.ctrl.Energy()))
	row("Impact", m.st.flash.Render(ImpactBar(max(0, m.flash), 10)))
	row("Events", fmt.Sprintf("B:%d C:%d D:%d",
		m.counts[physics.EventBoundary], m.counts[physics.EventCloseApproach], m.counts[physics.EventDeflection]))

	s.WriteString("\nPARAMETERS\n")
	sel := m.selectedBody()
	for i := param(0); i < numParams; i++ {
		name := i.String()
		if i.perBody() {
			name = fmt.Sprintf("%s #%d", name, sel.ID)
		}
		line := fmt.Sprintf("%-9s %.4g", name, m.paramValue(i))
		if i == m.selected {
			s.WriteString(m.st.activeParam.Render("> "+line) + "\n")
		} else {
			s.WriteString("  " + m.st.label.Width(0).Render(line) + "\n")
		}
	}

	s.WriteString("\nBODIES\n")
	for _, b := range m.ctrl.Bodies() {
		mark := "  "
		if b.ID == sel.ID {
			mark = "* "
		}
		s.WriteString(m.st.label.Width(0).Render(fmt.Sprintf("%s#%d m=%-6.1f r=%-5.1f |v|=%.2f", mark, b.ID, b.Mass, b.Radius, b.Speed())) + "\n")
	}

	if m.lastErr != nil {
		s.WriteString("\n" + m.st.paused.Render(m.lastErr.Error()) + "\n")
	}
	if m.status != "" {
		s.WriteString("\n" + m.st.value.Render(m.status) + "\n")
	}
	if m.player != nil && m.player.Muted() {
		s.WriteString("\n" + m.st.label.Width(0).Render("audio muted") + "\n")
	}

	s.WriteString(m.st.help.Render("SP:Pause R:Reset N:Random Q:Quit\nTab:Param B:Body ↑↓:Tune M:Mute\nT:Theme S:Screenshot ?:Help"))
	main := lipgloss.JoinHorizontal(lipgloss.Top, canvasView, m.st.stats.Render(s.String()))

	if m.showHelp {
		return helpText + "\n" + main
	}
	return main
}

const helpText = `
╔══════════════════════════════════════╗
║          KEYBOARD SHORTCUTS          ║
╠══════════════════════════════════════╣
║  Space    - Pause/Resume             ║
║  R        - Reset canonical layout   ║
║  N        - Randomize bodies         ║
║  Tab      - Cycle parameter          ║
║  B        - Select next body         ║
║  Up/K     - Increase parameter (+5%) ║
║  Down/J   - Decrease parameter (-5%) ║
║  M        - Mute audio               ║
║  T        - Cycle themes             ║
║  S        - Save SVG screenshot      ║
║  Q        - Quit                     ║
╚══════════════════════════════════════╝`

type Options struct {
	Theme         string
	ScreenshotDir string
}

// Run starts the live view in the alternate screen and blocks until quit.
func Run(ctrl *sim.Controller, title string, player EventPlayer, opts Options) error {
	m := NewModel(ctrl, title, player)
	if opts.Theme != "" {
		m.SetTheme(opts.Theme)
	}
	if opts.ScreenshotDir != "" {
		m.SetScreenshotDir(opts.ScreenshotDir)
	}
	_, err := tea.NewProgram(m, tea.WithAltScreen()).Run()
	return err
}
