package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/1broseidon/stackwm/internal/ipc"
)

const pollInterval = time.Second

// model is the root bubbletea model for the stack monitor.
type model struct {
	client *ipc.Client

	// Daemon state from the last poll
	connected bool
	status    *ipc.StatusData
	stacks    []ipc.StackInfo

	// Terminal dimensions
	width  int
	height int
}

// snapshotMsg carries one poll result.
type snapshotMsg struct {
	status *ipc.StatusData
	stacks []ipc.StackInfo
	err    error
}

type tickMsg time.Time

func newModel(client *ipc.Client) model {
	return model{client: client}
}

func (m model) poll() tea.Msg {
	status, err := m.client.GetStatus()
	if err != nil {
		return snapshotMsg{err: err}
	}
	stacks, err := m.client.GetStacks()
	if err != nil {
		return snapshotMsg{err: err}
	}
	return snapshotMsg{status: status, stacks: stacks}
}

func tick() tea.Cmd {
	return tea.Tick(pollInterval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// Init implements tea.Model.
func (m model) Init() tea.Cmd {
	return tea.Batch(m.poll, tick())
}

// Update implements tea.Model.
func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q", "esc":
			return m, tea.Quit
		case "r":
			return m, m.poll
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tickMsg:
		return m, tea.Batch(m.poll, tick())

	case snapshotMsg:
		if msg.err != nil {
			m.connected = false
			m.status = nil
			m.stacks = nil
			return m, nil
		}
		m.connected = true
		m.status = msg.status
		m.stacks = msg.stacks
		return m, nil
	}

	return m, nil
}

// View implements tea.Model.
func (m model) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}

	statusBar := renderStatusBar(m.connected, m.status, m.width)
	helpBar := renderHelpBar(m.width)

	usedHeight := lipgloss.Height(statusBar) + lipgloss.Height(helpBar)
	contentHeight := m.height - usedHeight
	if contentHeight < 1 {
		contentHeight = 1
	}

	content := renderContent(m.connected, m.status, m.stacks, m.width, contentHeight)

	return lipgloss.JoinVertical(lipgloss.Left,
		statusBar,
		content,
		helpBar,
	)
}
