// Package tui implements the interactive terminal monitor for one
// preamplifier. It polls the client on the configured cadence and offers
// key bindings for the common controls (power, volume, mute).
package tui

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"

	"github.com/muurk/mlavr/internal/avr"
)

// maxVolume is the device-native volume ceiling used to scale the bar.
const maxVolume = 100.0

type stateMsg avr.State

type tickMsg time.Time

// Model is the bubbletea model for the monitor screen.
type Model struct {
	client   *avr.Client
	interval time.Duration

	spin   spinner.Model
	state  avr.State
	loaded bool
	width  int
}

// NewModel creates a monitor model for an already-connected client.
func NewModel(client *avr.Client, interval time.Duration) Model {
	if interval <= 0 {
		interval = 4 * time.Second
	}

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(primaryColor)

	width := maxContentWidth
	if w, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil && w > 0 {
		width = w
	}

	return Model{
		client:   client,
		interval: interval,
		spin:     s,
		width:    clampWidth(width),
	}
}

// Run starts the monitor in the alternate screen buffer and blocks until
// the user quits.
func Run(client *avr.Client, interval time.Duration) error {
	_, err := tea.NewProgram(NewModel(client, interval), tea.WithAltScreen()).Run()
	return err
}

func clampWidth(w int) int {
	if w < minContentWidth {
		return minContentWidth
	}
	if w > maxContentWidth {
		return maxContentWidth
	}
	return w
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.spin.Tick, m.refreshCmd())
}

// refreshCmd runs a full refresh off the update loop and delivers the
// resulting snapshot. Refresh errors surface as stale snapshot fields (the
// connected flag in particular), not as a separate failure state.
func (m Model) refreshCmd() tea.Cmd {
	client := m.client
	return func() tea.Msg {
		_ = client.RefreshAll()
		return stateMsg(client.Snapshot())
	}
}

// controlCmd runs one control operation and delivers the fresh snapshot.
func (m Model) controlCmd(op func() error) tea.Cmd {
	client := m.client
	return func() tea.Msg {
		_ = op()
		return stateMsg(client.Snapshot())
	}
}

func (m Model) scheduleTick() tea.Cmd {
	return tea.Tick(m.interval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = clampWidth(msg.Width)
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "m":
			return m, m.controlCmd(func() error { return m.client.Mute(!m.state.Muted) })
		case "+", "=", "up":
			return m, m.controlCmd(m.client.VolumeUp)
		case "-", "down":
			return m, m.controlCmd(m.client.VolumeDown)
		case "p":
			if m.state.Power == avr.PowerOn {
				return m, m.controlCmd(m.client.PowerOff)
			}
			return m, m.controlCmd(m.client.PowerOn)
		case "r":
			return m, m.refreshCmd()
		}
		return m, nil

	case stateMsg:
		m.state = avr.State(msg)
		if !m.loaded {
			m.loaded = true
			return m, m.scheduleTick()
		}
		return m, nil

	case tickMsg:
		return m, tea.Batch(m.refreshCmd(), m.scheduleTick())

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd
	}

	return m, nil
}

// View implements tea.Model.
func (m Model) View() string {
	title := m.client.Name()
	if title == "" {
		title = m.client.Host()
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render(title))
	b.WriteString(helpStyle.Render(fmt.Sprintf("  %s:%d", m.client.Host(), m.client.Port())))
	b.WriteString("\n\n")

	if !m.loaded {
		b.WriteString(m.spin.View())
		b.WriteString(" querying device state...\n")
		return b.String()
	}

	b.WriteString(panelStyle.Width(m.width - 4).Render(m.renderState()))
	b.WriteString("\n")
	b.WriteString(helpStyle.Render("p power · +/- volume · m mute · r refresh · q quit"))
	b.WriteString("\n")
	return b.String()
}

func (m Model) renderState() string {
	var rows []string

	rows = append(rows, labelStyle.Render("Power")+m.renderPower())
	rows = append(rows, labelStyle.Render("Volume")+m.renderVolume())
	rows = append(rows, labelStyle.Render("Source")+m.renderSource())

	if len(m.state.Sources) > 0 {
		var names []string
		for _, src := range m.state.Sources {
			if src == m.state.CurrentSource {
				names = append(names, activeSourceStyle.Render(src))
			} else {
				names = append(names, sourceStyle.Render(src))
			}
		}
		rows = append(rows, labelStyle.Render("Sources")+strings.Join(names, helpStyle.Render(" · ")))
	}

	if !m.state.Connected {
		rows = append(rows, "", alertStyle.Render("device unreachable - showing last known state"))
	}

	return strings.Join(rows, "\n")
}

func (m Model) renderPower() string {
	switch m.state.Power {
	case avr.PowerOn:
		return onStyle.Render("ON")
	case avr.PowerStandby:
		return standbyStyle.Render("STANDBY")
	case avr.PowerOff:
		return offStyle.Render("OFF")
	default:
		return offStyle.Render("unknown")
	}
}

func (m Model) renderVolume() string {
	if m.state.Volume == avr.UnknownVolume {
		return offStyle.Render("unknown")
	}

	frac := m.state.Volume / maxVolume
	if frac < 0 {
		frac = 0
	}
	if frac > 1 {
		frac = 1
	}
	filled := int(frac*volumeBarWidth + 0.5)

	bar := barFilledStyle.Render(strings.Repeat("█", filled)) +
		barEmptyStyle.Render(strings.Repeat("░", volumeBarWidth-filled))

	value := fmt.Sprintf(" %.1f", m.state.Volume)
	if m.state.Muted {
		return bar + alertStyle.Render(value+" MUTED")
	}
	return bar + valueStyle.Render(value)
}

func (m Model) renderSource() string {
	if m.state.CurrentSource == "" {
		return offStyle.Render("unknown")
	}
	return valueStyle.Render(m.state.CurrentSource)
}
