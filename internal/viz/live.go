package viz

import (
	"fmt"
	"math"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/orbitsim/internal/config"
	"github.com/san-kum/orbitsim/internal/constants"
	"github.com/san-kum/orbitsim/internal/diag"
	"github.com/san-kum/orbitsim/internal/gravity"
	"github.com/san-kum/orbitsim/internal/integrators"
	"github.com/san-kum/orbitsim/internal/world"
)

const (
	canvasWidth     = 80
	canvasHeight    = 24
	trailCapacity   = 400
	historyCapacity = 600
)

type TickMsg time.Time

type point struct{ x, y int }

// Model is the live orbit view. It owns the driver loop for its World: the
// tick handler advances the simulation, the view reads positions through
// the container's views once per frame (never cached across frames).
type Model struct {
	cfg     *config.Config
	world   *world.World
	stepper integrators.Stepper

	dt            float64
	stepsPerFrame int
	paused        bool

	canvas        *Canvas
	scale         float64 // meters per sub-pixel
	trails        [][]point
	energyHistory []float64
	initialEnergy float64

	rejected int
}

// NewModel builds the scenario world and primes accelerations so any
// integrator choice is valid from the first tick.
func NewModel(cfg *config.Config, stepsPerFrame int) (*Model, error) {
	w, err := cfg.BuildWorld()
	if err != nil {
		return nil, err
	}
	stepper, err := cfg.NewStepper()
	if err != nil {
		return nil, err
	}
	gravity.Compute(w, cfg.Softening)

	m := &Model{
		cfg:           cfg,
		world:         w,
		stepper:       stepper,
		dt:            cfg.Dt,
		stepsPerFrame: stepsPerFrame,
		canvas:        NewCanvas(canvasWidth, canvasHeight),
		trails:        make([][]point, w.Count()),
		initialEnergy: diag.TotalEnergy(w),
	}
	m.fitScale()
	return m, nil
}

// fitScale sizes the viewport to the initial body extent with some margin.
func (m *Model) fitScale() {
	px, py := m.world.PX(), m.world.PY()
	extent := 0.0
	for i := range px {
		if r := px[i]*px[i] + py[i]*py[i]; r > extent {
			extent = r
		}
	}
	if extent == 0 {
		m.scale = 1
		return
	}
	half := float64(canvasHeight*4) / 2
	m.scale = 1.3 * math.Sqrt(extent) / half
}

func (m *Model) Init() tea.Cmd {
	return tick()
}

func tick() tea.Cmd {
	return tea.Tick(time.Second/30, func(t time.Time) tea.Msg { return TickMsg(t) })
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case " ":
			m.paused = !m.paused
		case "+", "=":
			m.scale /= 1.25
		case "-", "_":
			m.scale *= 1.25
		case ".":
			m.stepsPerFrame *= 2
		case ",":
			if m.stepsPerFrame > 1 {
				m.stepsPerFrame /= 2
			}
		case "r":
			if fresh, err := m.cfg.BuildWorld(); err == nil {
				m.world = fresh
				gravity.Compute(m.world, m.cfg.Softening)
				m.dt = m.cfg.Dt
				m.trails = make([][]point, m.world.Count())
				m.energyHistory = m.energyHistory[:0]
				m.rejected = 0
			}
		}
	case TickMsg:
		if !m.paused {
			m.advance()
		}
		return m, tick()
	}
	return m, nil
}

// advance runs exactly one integrator call per step, checking DtUsed on
// the adaptive path as the step contract requires.
func (m *Model) advance() {
	adaptive, isAdaptive := m.stepper.(integrators.AdaptiveStepper)

	for s := 0; s < m.stepsPerFrame; s++ {
		if isAdaptive {
			res := adaptive.StepAdaptive(m.world, m.dt, m.cfg.Tolerance)
			if res.DtUsed == 0 {
				m.rejected++
			}
			m.dt = res.DtNext
		} else {
			m.stepper.Step(m.world, m.dt)
		}
	}

	m.energyHistory = append(m.energyHistory, diag.TotalEnergy(m.world))
	if len(m.energyHistory) > historyCapacity {
		m.energyHistory = m.energyHistory[1:]
	}

	px, py := m.world.PX(), m.world.PY()
	for i := range m.trails {
		x, y := m.project(px[i], py[i])
		m.trails[i] = append(m.trails[i], point{x, y})
		if len(m.trails[i]) > trailCapacity {
			m.trails[i] = m.trails[i][1:]
		}
	}
}

// project maps world coordinates to canvas sub-pixels, y flipped.
func (m *Model) project(x, y float64) (int, int) {
	sx := canvasWidth + int(x/m.scale)
	sy := canvasHeight*2 - int(y/m.scale)
	return sx, sy
}

func (m *Model) View() string {
	m.canvas.Clear()
	for _, trail := range m.trails {
		for _, p := range trail {
			m.canvas.Set(p.x, p.y)
		}
	}
	px, py := m.world.PX(), m.world.PY()
	for i := range px {
		x, y := m.project(px[i], py[i])
		m.canvas.DrawDot(x, y)
	}

	canvasView := canvasStyle.Render(m.canvas.String())

	var s strings.Builder
	s.WriteString(headerStyle.Render(strings.ToUpper(m.cfg.Name)) + "\n")
	status := "RUNNING"
	if m.paused {
		status = "PAUSED"
	}
	s.WriteString(status + "\n\n")

	if len(m.energyHistory) > 1 {
		chart := asciigraph.Plot(m.energyHistory, asciigraph.Height(4), asciigraph.Width(30), asciigraph.Caption("Energy"))
		s.WriteString(graphStyle.Render(chart) + "\n\n")
	}

	s.WriteString(labelStyle.Render("Time") + valueStyle.Render(fmt.Sprintf("%.2f d", m.world.Time/constants.Day)) + "\n")
	s.WriteString(labelStyle.Render("Bodies") + valueStyle.Render(fmt.Sprintf("%d", m.world.Count())) + "\n")
	s.WriteString(labelStyle.Render("Integrator") + valueStyle.Render(m.cfg.Integrator) + "\n")
	s.WriteString(labelStyle.Render("dt") + valueStyle.Render(fmt.Sprintf("%.3g s", m.dt)) + "\n")
	s.WriteString(labelStyle.Render("Steps/frame") + valueStyle.Render(fmt.Sprintf("%d", m.stepsPerFrame)) + "\n")
	if m.rejected > 0 {
		s.WriteString(labelStyle.Render("Rejected") + valueStyle.Render(fmt.Sprintf("%d", m.rejected)) + "\n")
	}
	if m.initialEnergy != 0 && len(m.energyHistory) > 0 {
		drift := (m.energyHistory[len(m.energyHistory)-1] - m.initialEnergy) / m.initialEnergy
		s.WriteString(labelStyle.Render("E drift") + valueStyle.Render(fmt.Sprintf("%+.2e", drift)) + "\n")
	}

	s.WriteString(helpStyle.Render("\n─────────────────────\nSP:Pause R:Reset Q:Quit\n+/-:Zoom  ,/.:Speed"))

	statsView := statsStyle.Render(s.String())
	return lipgloss.JoinHorizontal(lipgloss.Top, canvasView, statsView)
}

// Run starts the live view for a scenario and blocks until the user quits.
func Run(cfg *config.Config, stepsPerFrame int) error {
	m, err := NewModel(cfg, stepsPerFrame)
	if err != nil {
		return err
	}
	_, err = tea.NewProgram(m).Run()
	return err
}
