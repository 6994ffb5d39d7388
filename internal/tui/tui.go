// Package tui renders a live progress view of a conversion run: a
// running/complete/failed status line plus the list of diagnostics
// received so far (no part or measure counter), grounded
// on ako-backing-tracks' display.TUIModel and oisee-abytetracker's
// pkg/tui Bubble Tea program (both subscribe a model to a live event
// source and redraw on tick).
package tui

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"go-ly-musicxml/internal/diag"
)

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#FFFFFF"))

	warningStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#FFFF00"))
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF6666"))
	dimStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#666666"))
	okStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("#00FF00"))
)

// diagMsg carries one diagnostic into the Bubble Tea event loop.
type diagMsg diag.Diagnostic

// doneMsg signals the background conversion finished.
type doneMsg struct{ err error }

// tickMsg drives the spinner while the conversion is still running.
type tickMsg time.Time

// Model is the Bubble Tea model for a single conversion run.
type Model struct {
	items    []diag.Diagnostic
	done     bool
	err      error
	quitting bool
	spinIdx  int
}

var spinFrames = []string{"|", "/", "-", "\\"}

// New returns an empty Model ready to be driven by Run.
func New() *Model {
	return &Model{}
}

func tick() tea.Cmd {
	return tea.Tick(120*time.Millisecond, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (m *Model) Init() tea.Cmd {
	return tea.Batch(tick(), tea.EnterAltScreen)
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			m.quitting = true
			return m, tea.Quit
		}
	case diagMsg:
		m.items = append(m.items, diag.Diagnostic(msg))
		return m, nil
	case doneMsg:
		m.done = true
		m.err = msg.err
		return m, nil
	case tickMsg:
		m.spinIdx = (m.spinIdx + 1) % len(spinFrames)
		if m.done {
			return m, tea.Quit
		}
		return m, tick()
	}
	return m, nil
}

func (m *Model) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("ly2musicxml"))
	b.WriteString("\n\n")

	switch {
	case m.quitting:
		return ""
	case m.done && m.err == nil:
		b.WriteString(okStyle.Render("conversion complete"))
	case m.done:
		b.WriteString(errorStyle.Render(fmt.Sprintf("conversion failed: %v", m.err)))
	default:
		b.WriteString(dimStyle.Render("translating " + spinFrames[m.spinIdx]))
	}
	b.WriteString("\n\n")

	if len(m.items) == 0 {
		b.WriteString(dimStyle.Render("no diagnostics"))
	}
	for _, d := range m.items {
		style := warningStyle
		if d.Severity == diag.Error {
			style = errorStyle
		}
		b.WriteString(style.Render(d.String()))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(dimStyle.Render("q to quit"))
	return b.String()
}

// Run subscribes m to sink and drives a Bubble Tea program while
// convert runs in the background, matching the teacher pack's pattern
// of a controller goroutine feeding a running tea.Program via Send.
func Run(sink *diag.Sink, convert func() error) error {
	m := New()
	p := tea.NewProgram(m)

	sink.Subscribe(func(d diag.Diagnostic) {
		p.Send(diagMsg(d))
	})

	go func() {
		err := convert()
		p.Send(doneMsg{err: err})
	}()

	finalModel, err := p.Run()
	if err != nil {
		return err
	}
	if fm, ok := finalModel.(*Model); ok && fm.err != nil {
		return fm.err
	}
	return nil
}
