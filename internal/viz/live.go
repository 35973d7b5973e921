package viz

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/wavetoy/internal/dynamo"
	"github.com/san-kum/wavetoy/internal/physics"
)

const (
	plotWidth       = 72
	historyCapacity = 600
	frameRate       = time.Second / 30
	maxStepsPerTick = 64
)

var (
	headerStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("86")).Bold(true).MarginBottom(1)
	labelStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Width(14)
	valueStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	graphStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("49")).Padding(1, 0)
	warnStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("203")).Bold(true)
	helpStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("240")).MarginTop(1)
	runningStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("42")).Bold(true)
	pausedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("214")).Bold(true)
)

type TickMsg time.Time

func tick() tea.Cmd {
	return tea.Tick(frameRate, func(t time.Time) tea.Msg { return TickMsg(t) })
}

// Model animates a wave run in the terminal.
type Model struct {
	wave          *physics.Wave
	integrator    dynamo.Integrator
	name          string
	initial       dynamo.State
	state         dynamo.State
	dt            float64
	iter          int
	stepsPerTick  int
	running       bool
	diverged      bool
	energyHistory []float64
}

func NewModel(w *physics.Wave, integ dynamo.Integrator, name string, initial dynamo.State, dt float64) Model {
	return Model{
		wave:          w,
		integrator:    integ,
		name:          name,
		initial:       initial.Clone(),
		state:         initial.Clone(),
		dt:            dt,
		stepsPerTick:  1,
		running:       true,
		energyHistory: make([]float64, 0, historyCapacity),
	}
}

func (m Model) Init() tea.Cmd {
	return tick()
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case " ":
			m.running = !m.running
		case "r":
			m.reset()
		case "+", "=":
			if m.stepsPerTick < maxStepsPerTick {
				m.stepsPerTick *= 2
			}
		case "-", "_":
			if m.stepsPerTick > 1 {
				m.stepsPerTick /= 2
			}
		case "n":
			if !m.running {
				m.step()
			}
		}
	case TickMsg:
		if m.running {
			for i := 0; i < m.stepsPerTick && !m.diverged; i++ {
				m.step()
			}
		}
		return m, tick()
	}
	return m, nil
}

func (m *Model) step() {
	if m.diverged {
		return
	}
	next := m.integrator.Step(m.wave, m.state, m.dt)
	if !next.IsValid() {
		m.diverged = true
		m.running = false
		return
	}
	m.state = next
	m.iter++

	m.energyHistory = append(m.energyHistory, m.wave.Energy(m.state))
	if len(m.energyHistory) > historyCapacity {
		m.energyHistory = m.energyHistory[1:]
	}
}

func (m *Model) reset() {
	m.state = m.initial.Clone()
	m.iter = 0
	m.diverged = false
	m.energyHistory = m.energyHistory[:0]
}

func (m Model) State() dynamo.State { return m.state }
func (m Model) Iteration() int      { return m.iter }
func (m Model) Running() bool       { return m.running }
func (m Model) Diverged() bool      { return m.diverged }

func (m Model) View() string {
	var s strings.Builder
	s.WriteString(headerStyle.Render(strings.ToUpper("wave · "+m.name)) + "\n")

	switch {
	case m.diverged:
		s.WriteString(warnStyle.Render("DIVERGED") + "\n")
	case m.running:
		s.WriteString(runningStyle.Render("RUNNING") + "\n")
	default:
		s.WriteString(pausedStyle.Render("PAUSED") + "\n")
	}

	s.WriteString(graphStyle.Render(asciigraph.Plot(m.state.U,
		asciigraph.Height(12),
		asciigraph.Width(plotWidth),
		asciigraph.Caption("u(x)"),
	)) + "\n")

	if len(m.energyHistory) > 1 {
		s.WriteString(graphStyle.Render(asciigraph.Plot(m.energyHistory,
			asciigraph.Height(4),
			asciigraph.Width(plotWidth/2),
			asciigraph.Caption("energy"),
		)) + "\n")
	}

	s.WriteString(labelStyle.Render("Iteration") + valueStyle.Render(fmt.Sprintf("%d", m.iter)) + "\n")
	s.WriteString(labelStyle.Render("Time") + valueStyle.Render(fmt.Sprintf("%.4f", m.state.Time)) + "\n")
	s.WriteString(labelStyle.Render("Energy") + valueStyle.Render(fmt.Sprintf("%.6f", m.wave.Energy(m.state))) + "\n")
	s.WriteString(labelStyle.Render("Steps/frame") + valueStyle.Render(fmt.Sprintf("%d", m.stepsPerTick)) + "\n")

	s.WriteString(helpStyle.Render("space pause · n step · r reset · +/- speed · q quit"))
	return s.String()
}

// Run starts the viewer on the alternate screen and blocks until it exits.
func Run(m Model) error {
	_, err := tea.NewProgram(m, tea.WithAltScreen()).Run()
	return err
}
