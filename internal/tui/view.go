package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/1broseidon/stackwm/internal/ipc"
)

var (
	barStyle = lipgloss.NewStyle().
			Background(lipgloss.Color("235")).
			Foreground(lipgloss.Color("250")).
			Padding(0, 1)

	connectedDot = lipgloss.NewStyle().
			Foreground(lipgloss.Color("42")).
			Render("●")

	disconnectedDot = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")).
			Render("●")

	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("15"))

	dockedRowStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("208"))

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")).
			Padding(0, 1)
)

func renderStatusBar(connected bool, status *ipc.StatusData, width int) string {
	var text string
	if connected && status != nil {
		parts := []string{connectedDot + " daemon connected"}
		parts = append(parts, fmt.Sprintf("display %dx%d r%d",
			status.DisplayWidth, status.DisplayHeight, status.Rotation))
		parts = append(parts, fmt.Sprintf("stacks:%d", status.StackCount))
		if status.DockedPresent {
			parts = append(parts, fmt.Sprintf("minimized:%.2f", status.MinimizeAmount))
		}
		if status.ImeVisible {
			parts = append(parts, "ime")
		}
		parts = append(parts, fmt.Sprintf("user:%d", status.CurrentUser))
		text = strings.Join(parts, "  ")
	} else {
		text = disconnectedDot + " daemon not running"
	}
	return barStyle.Width(width).Render(text)
}

func renderHelpBar(width int) string {
	return helpStyle.Width(width).Render("r: refresh now  q/esc/ctrl-c: quit")
}

func renderContent(connected bool, status *ipc.StatusData, stacks []ipc.StackInfo, width, height int) string {
	if !connected || status == nil {
		return lipgloss.NewStyle().
			Width(width).
			Height(height).
			Align(lipgloss.Center, lipgloss.Center).
			Render(dimStyle.Render("waiting for daemon..."))
	}

	table := renderStackTable(stacks)
	tableHeight := lipgloss.Height(table)

	previewHeight := height - tableHeight - 1
	if previewHeight >= 5 && width >= 20 {
		preview := renderStackPreview(stacks, status.DisplayWidth, status.DisplayHeight, width-2, previewHeight)
		return lipgloss.JoinVertical(lipgloss.Left, table, "", preview)
	}
	return lipgloss.NewStyle().Width(width).Height(height).Render(table)
}

func renderStackTable(stacks []ipc.StackInfo) string {
	var b strings.Builder
	b.WriteString(headerStyle.Render(fmt.Sprintf("%-4s %-10s %-22s %-6s %-8s %s",
		"id", "side", "bounds", "tasks", "mode", "flags")))
	b.WriteString("\n")

	if len(stacks) == 0 {
		b.WriteString(dimStyle.Render("no stacks"))
		return b.String()
	}

	for _, s := range stacks {
		mode := "sized"
		if s.Fullscreen {
			mode = "full"
		}
		var flags []string
		if !s.AdjustedBounds.Rect().IsEmpty() {
			flags = append(flags, "adjusted")
		}
		if s.DragResizing {
			flags = append(flags, "drag")
		}
		row := fmt.Sprintf("%-4d %-10s %-22s %-6d %-8s %s",
			s.ID, s.DockSide, s.Bounds.Rect().String(), s.TaskCount, mode, strings.Join(flags, ","))
		if s.DockSide != "invalid" {
			b.WriteString(dockedRowStyle.Render(row))
		} else {
			b.WriteString(row)
		}
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n")
}
