package tui

import (
	"fmt"
	"math"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/san-kum/povpendulum/internal/config"
	"github.com/san-kum/povpendulum/internal/dynamo"
	"github.com/san-kum/povpendulum/internal/physics"
	"github.com/san-kum/povpendulum/internal/scenario"
)

var (
	cyan    = lipgloss.NewStyle().Foreground(lipgloss.Color("86"))
	white   = lipgloss.NewStyle().Foreground(lipgloss.Color("255"))
	dim     = lipgloss.NewStyle().Foreground(lipgloss.Color("242"))
	dimmer  = lipgloss.NewStyle().Foreground(lipgloss.Color("238"))
	green   = lipgloss.NewStyle().Foreground(lipgloss.Color("82"))
	yellow  = lipgloss.NewStyle().Foreground(lipgloss.Color("220"))
	magenta = lipgloss.NewStyle().Foreground(lipgloss.Color("213"))
	red     = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
)

var presetInfo = map[string]string{
	"template": "box pendulum on a checker floor",
	"push":     "harder initial push",
	"long":     "five second swing",
	"fine":     "half the time step",
	"moon":     "lunar gravity",
}

type state int

const (
	stateMenu state = iota
	stateConfig
	stateSim
)

// maxTickAdvance caps the simulated time one tick may cover after a stall.
const maxTickAdvance = 0.1

type model struct {
	state    state
	cursor   int
	presets  []string
	selected string
	base     *config.Config

	params      map[string]float64
	paramNames  []string
	paramCursor int
	editing     bool
	editBuf     string

	running   bool
	paused    bool
	done      bool
	cfg       *config.Config
	scene     *scenario.Scene
	length    float64
	speed     float64
	trail     []dynamo.Vec3
	history   []float64
	lastFrame time.Time
	fps       float64
	err       error

	width  int
	height int
}

// NewInteractiveApp starts at the preset menu. base supplies the data and
// output directories. A non-empty preset skips the menu.
func NewInteractiveApp(base *config.Config, preset string) *model {
	m := &model{
		state:      stateMenu,
		presets:    config.ListPresets(),
		base:       base,
		paramNames: []string{"vel", "step", "duration"},
		speed:      1.0,
		width:      80,
		height:     24,
	}
	if preset != "" {
		m.selected = preset
		m.state = stateConfig
		m.loadParams(base)
	}
	return m
}

func (m model) Init() tea.Cmd { return nil }

type tickMsg time.Time

func tick() tea.Cmd {
	return tea.Tick(16*time.Millisecond, func(t time.Time) tea.Msg { return tickMsg(t) })
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	case tickMsg:
		if m.state != stateSim {
			return m, nil
		}
		now := time.Time(msg)
		if m.running && !m.paused && !m.done && m.scene != nil {
			if !m.lastFrame.IsZero() {
				wall := now.Sub(m.lastFrame).Seconds()
				if wall > 0 {
					m.fps = 1.0 / wall
				}
				m.advance(math.Min(wall, maxTickAdvance) * m.speed)
			}
		}
		m.lastFrame = now
		if m.running && m.state == stateSim {
			return m, tick()
		}
		return m, nil
	}
	return m, nil
}

func (m model) handleKey(msg tea.KeyMsg) (model, tea.Cmd) {
	switch m.state {
	case stateMenu:
		return m.menuKey(msg)
	case stateConfig:
		return m.configKey(msg)
	case stateSim:
		return m.simKey(msg)
	}
	return m, nil
}

func (m model) menuKey(msg tea.KeyMsg) (model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.presets)-1 {
			m.cursor++
		}
	case "enter", " ":
		m.selected = m.presets[m.cursor]
		m.state = stateConfig
		m.paramCursor = 0
		m.loadParams(config.GetPreset(m.selected))
	}
	return m, nil
}

func (m model) configKey(msg tea.KeyMsg) (model, tea.Cmd) {
	if m.editing {
		switch msg.String() {
		case "enter":
			var val float64
			if _, err := fmt.Sscanf(m.editBuf, "%f", &val); err == nil {
				m.params[m.paramNames[m.paramCursor]] = val
			}
			m.editing = false
			m.editBuf = ""
		case "esc":
			m.editing = false
			m.editBuf = ""
		case "backspace":
			if len(m.editBuf) > 0 {
				m.editBuf = m.editBuf[:len(m.editBuf)-1]
			}
		default:
			if len(msg.String()) == 1 {
				c := msg.String()[0]
				if (c >= '0' && c <= '9') || c == '.' || c == '-' {
					m.editBuf += string(c)
				}
			}
		}
		return m, nil
	}

	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit
	case "q", "esc":
		m.state = stateMenu
	case "up", "k":
		if m.paramCursor > 0 {
			m.paramCursor--
		}
	case "down", "j":
		if m.paramCursor < len(m.paramNames)-1 {
			m.paramCursor++
		}
	case "enter", " ":
		m.editing = true
		m.editBuf = fmt.Sprintf("%g", m.params[m.paramNames[m.paramCursor]])
	case "s":
		m.start()
		m.state = stateSim
		return m, tea.Batch(tea.ClearScreen, tick())
	case "left", "h":
		m.nudge(-1)
	case "right", "l":
		m.nudge(1)
	}
	return m, nil
}

func (m model) simKey(msg tea.KeyMsg) (model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit
	case "q", "esc":
		m.running = false
		m.state = stateMenu
		m.reset()
		return m, tea.ClearScreen
	case " ", "p":
		m.paused = !m.paused
	case "r":
		m.start()
		return m, tea.ClearScreen
	case "c":
		m.running = false
		m.state = stateConfig
		m.reset()
		return m, tea.ClearScreen
	case "+", "=":
		m.speed = math.Min(m.speed*2, 16)
	case "-", "_":
		m.speed = math.Max(m.speed/2, 0.25)
	case "0":
		m.speed = 1.0
	}
	return m, nil
}

func (m *model) loadParams(cfg *config.Config) {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	m.params = map[string]float64{
		"vel":      cfg.Pendulum.Vel.X(),
		"step":     cfg.Step,
		"duration": cfg.EndTime,
	}
}

func (m *model) nudge(dir float64) {
	name := m.paramNames[m.paramCursor]
	switch name {
	case "step":
		m.params[name] = math.Max(m.params[name]+dir*0.001, 0.001)
	default:
		m.params[name] += dir * 0.1
	}
}

// config merges the edited parameters into the selected preset.
func (m *model) config() *config.Config {
	cfg := config.GetPreset(m.selected)
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	if m.base != nil {
		cfg.DataDir = m.base.DataDir
		cfg.OutputDir = m.base.OutputDir
	}
	cfg.Pendulum.Vel = dynamo.V(m.params["vel"], 0, 0)
	cfg.Step = m.params["step"]
	cfg.EndTime = m.params["duration"]
	return cfg
}

func (m *model) start() {
	m.reset()
	m.cfg = m.config()
	m.speed = 1.0
	m.lastFrame = time.Time{}

	scene, err := scenario.Build(m.cfg)
	if err != nil {
		m.err = err
		m.running = false
		return
	}
	m.scene = scene
	m.length = scene.Pendulum.Pos().Sub(scene.Pivot).Len()
	m.running = true
	m.paused = false
}

func (m *model) reset() {
	m.scene = nil
	m.trail = make([]dynamo.Vec3, 0, 100)
	m.history = make([]float64, 0, 60)
	m.done = false
	m.err = nil
}

// advance steps the system until dt more simulated time has passed or the
// end time is reached.
func (m *model) advance(dt float64) {
	sys := m.scene.System
	step := m.cfg.Step
	target := sys.Time() + dt
	end := m.cfg.EndTime - step*1e-9
	for sys.Time()+step*0.5 <= target {
		if sys.Time() >= end {
			m.done = true
			return
		}
		if err := sys.DoStepDynamics(step); err != nil {
			m.err = err
			m.done = true
			return
		}
		m.record()
	}
	if sys.Time() >= end {
		m.done = true
	}
}

func (m *model) record() {
	pos := m.scene.Pendulum.Pos()
	m.trail = append(m.trail, pos.Mul(2).Sub(m.scene.Pivot))
	if len(m.trail) > 100 {
		m.trail = m.trail[1:]
	}
	m.history = append(m.history, physics.Angle(m.scene.Pendulum, m.scene.Pivot))
	if len(m.history) > 60 {
		m.history = m.history[1:]
	}
}

// energy splits the pendulum energy into kinetic and potential, the latter
// measured from the lowest point of the swing.
func (m model) energy() (ke, pe float64) {
	b := m.scene.Pendulum
	g := m.scene.System.Gravity().Len()
	if g == 0 {
		return b.KineticEnergy(), 0
	}
	down := m.scene.System.Gravity().Normalize()
	lowest := m.scene.Pivot.Add(down.Mul(m.length))
	ke = b.KineticEnergy()
	pe = b.Mass() * g * -down.Dot(b.Pos().Sub(lowest))
	return ke, pe
}

func (m model) View() string {
	switch m.state {
	case stateMenu:
		return m.viewMenu()
	case stateConfig:
		return m.viewConfig()
	case stateSim:
		return m.viewSim()
	}
	return ""
}

func (m model) viewMenu() string {
	var b strings.Builder

	b.WriteString("\n")
	b.WriteString(dimmer.Render("    ╺━━━━━━━━━━━━━━━━━━━━━━━━╸") + "\n")
	b.WriteString("         " + cyan.Render("p o v p e n d u l u m") + "\n")
	b.WriteString(dimmer.Render("    ╺━━━━━━━━━━━━━━━━━━━━━━━━╸") + "\n")
	b.WriteString("\n")

	for i, name := range m.presets {
		desc := presetInfo[name]
		if i == m.cursor {
			b.WriteString("      " + cyan.Render("▸ ") + white.Render(fmt.Sprintf("%-16s", name)) + dim.Render(desc) + "\n")
		} else {
			b.WriteString("        " + dim.Render(fmt.Sprintf("%-16s", name)) + dimmer.Render(desc) + "\n")
		}
	}

	b.WriteString("\n")
	b.WriteString(dim.Render("      ↑↓ select   enter start   q quit") + "\n")

	return b.String()
}

func (m model) viewConfig() string {
	var b strings.Builder

	b.WriteString("\n")
	b.WriteString("      " + cyan.Render(m.selected) + "  " + dim.Render(presetInfo[m.selected]) + "\n")
	b.WriteString(dimmer.Render("      "+strings.Repeat("─", 30)) + "\n\n")

	for i, name := range m.paramNames {
		val := fmt.Sprintf("%8.3f", m.params[name])
		if m.editing && i == m.paramCursor {
			val = fmt.Sprintf("%8s", m.editBuf+"▋")
		}
		if i == m.paramCursor {
			b.WriteString("      " + cyan.Render("▸ ") + white.Render(fmt.Sprintf("%-10s", name)) + magenta.Render(val) + "\n")
		} else {
			b.WriteString("        " + dim.Render(fmt.Sprintf("%-10s", name)) + dim.Render(val) + "\n")
		}
	}

	b.WriteString("\n")
	b.WriteString(dim.Render("      ↑↓ select  ←→ adjust  enter edit  s start  esc back") + "\n")

	return b.String()
}

func (m model) viewSim() string {
	if m.err != nil && m.scene == nil {
		return "\n   " + red.Render(m.err.Error()) + "\n\n" + dim.Render("   c config  q quit") + "\n"
	}

	cw := m.width - 6
	ch := m.height - 12
	if cw < 50 {
		cw = 50
	}
	if ch < 12 {
		ch = 12
	}

	canvas := NewCanvas(cw, ch, dynamo.V(0, 1.5, 0), 8)
	DrawScene(canvas, m.scene.System, m.scene.Pivot, m.trail)

	var b strings.Builder

	statusIcon := green.Render("●")
	statusText := green.Render("running")
	switch {
	case m.err != nil:
		statusIcon = red.Render("●")
		statusText = red.Render(m.err.Error())
	case m.done:
		statusIcon = dim.Render("■")
		statusText = dim.Render("done")
	case m.paused:
		statusIcon = yellow.Render("○")
		statusText = yellow.Render("paused")
	}
	b.WriteString(fmt.Sprintf("\n   %s %s  %s\n",
		statusIcon, cyan.Render(m.selected), statusText))

	simTime := m.scene.System.Time()
	progress := simTime / m.cfg.EndTime
	if progress > 1 {
		progress = 1
	}
	barWidth := 36
	filled := int(progress * float64(barWidth))
	timeStr := fmt.Sprintf("%.2fs/%.2fs", simTime, m.cfg.EndTime)
	bar := cyan.Render(strings.Repeat("━", filled)) + dimmer.Render(strings.Repeat("─", barWidth-filled))
	b.WriteString(fmt.Sprintf("   %s %s  %s  %s\n\n", bar, dim.Render(timeStr),
		dim.Render(fmt.Sprintf("%.0ffps", m.fps)), dim.Render(fmt.Sprintf("x%g", m.speed))))

	for _, row := range canvas.Rows() {
		b.WriteString("   " + row + "\n")
	}

	ke, pe := m.energy()
	total := ke + pe
	if total > 0 {
		keRatio := ke / total
		energyWidth := 20
		keBar := int(keRatio * float64(energyWidth))
		peBar := energyWidth - keBar
		b.WriteString(fmt.Sprintf("\n   energy %s%s  %s %.1f  %s %.1f\n",
			green.Render(strings.Repeat("█", keBar)),
			yellow.Render(strings.Repeat("█", peBar)),
			green.Render("KE"), ke,
			yellow.Render("PE"), pe))
	}

	theta := physics.Angle(m.scene.Pendulum, m.scene.Pivot)
	b.WriteString(fmt.Sprintf("   %s%s  %s%s\n",
		dim.Render("θ="), white.Render(fmt.Sprintf("%.3f", theta)),
		dim.Render("ω="), white.Render(fmt.Sprintf("%.3f", m.scene.Pendulum.AngVel()))))

	if len(m.history) > 1 {
		b.WriteString(fmt.Sprintf("   %s %s\n", dim.Render("θ"), cyan.Render(sparkline(m.history, 24))))
	}

	b.WriteString("\n" + dim.Render("   space pause  ±speed  r restart  c config  q menu") + "\n")

	return b.String()
}

func sparkline(data []float64, width int) string {
	if len(data) == 0 {
		return ""
	}
	chars := []rune{'▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}
	minVal, maxVal := data[0], data[0]
	for _, v := range data {
		minVal = math.Min(minVal, v)
		maxVal = math.Max(maxVal, v)
	}
	rang := maxVal - minVal
	if rang == 0 {
		rang = 1
	}
	step := len(data) / width
	if step < 1 {
		step = 1
	}
	var sb strings.Builder
	for i := 0; i < width && i*step < len(data); i++ {
		v := data[i*step]
		idx := int((v - minVal) / rang * 7)
		if idx > 7 {
			idx = 7
		}
		if idx < 0 {
			idx = 0
		}
		sb.WriteRune(chars[idx])
	}
	return sb.String()
}

func RunInteractive(base *config.Config, preset string) error {
	p := tea.NewProgram(NewInteractiveApp(base, preset), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
