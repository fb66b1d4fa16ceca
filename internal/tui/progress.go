// Package tui shows live trace progress while a run is in flight.
package tui

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

const barWidth = 40

var (
	titleStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("86")).Bold(true)
	barStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("49"))
	dimStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	errStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
)

// ProgressMsg reports traced particle counts. Send it from the worker
// goroutine via Program.Send.
type ProgressMsg struct {
	Done, Total int
}

// DoneMsg ends the program once the run finishes.
type DoneMsg struct {
	Err error
}

// Model is the live progress view. Ctrl+C cancels the run through the
// supplied cancel func and waits for the tracer to drain.
type Model struct {
	title    string
	cancel   context.CancelFunc
	done     int
	total    int
	err      error
	canceled bool
}

func NewModel(title string, cancel context.CancelFunc) Model {
	return Model{title: title, cancel: cancel}
}

func (m Model) Init() tea.Cmd { return nil }

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			m.canceled = true
			m.cancel()
		}
	case ProgressMsg:
		m.done, m.total = msg.Done, msg.Total
	case DoneMsg:
		m.err = msg.Err
		return m, tea.Quit
	}
	return m, nil
}

func (m Model) View() string {
	var s strings.Builder
	s.WriteString(titleStyle.Render(m.title) + "\n\n")

	ratio := 0.0
	if m.total > 0 {
		ratio = float64(m.done) / float64(m.total)
	}
	filled := int(ratio * barWidth)
	bar := strings.Repeat("█", filled) + strings.Repeat("░", barWidth-filled)
	s.WriteString(barStyle.Render(bar))
	s.WriteString(fmt.Sprintf("  %d/%d (%.0f%%)\n", m.done, m.total, ratio*100))

	switch {
	case m.err != nil:
		s.WriteString("\n" + errStyle.Render(m.err.Error()) + "\n")
	case m.canceled:
		s.WriteString("\n" + dimStyle.Render("canceling...") + "\n")
	default:
		s.WriteString("\n" + dimStyle.Render("q or ctrl+c to cancel") + "\n")
	}
	return s.String()
}

// Err returns the run error delivered by DoneMsg, if any.
func (m Model) Err() error { return m.err }
