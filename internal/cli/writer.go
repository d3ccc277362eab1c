package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/inovacc/mornpage/internal/core"
	"github.com/inovacc/mornpage/internal/editor"
	"github.com/inovacc/mornpage/internal/gateway"
)

type saveDoneMsg struct {
	res *gateway.WriteResult
	err error
}

// WriterModel is the writing surface over a Journal's open entry.
type WriterModel struct {
	ctx     context.Context
	journal *core.Journal

	area    textarea.Model
	spinner spinner.Model

	saving      bool
	confirmQuit bool
	status      string
	statusErr   bool
	saves       int
}

// NewWriterModel creates the model for the entry currently open in j.
func NewWriterModel(ctx context.Context, j *core.Journal) WriterModel {
	ta := textarea.New()
	ta.Placeholder = "Write whatever comes to mind. Do not stop to edit."
	ta.ShowLineNumbers = false
	ta.CharLimit = 0
	ta.SetWidth(80)
	ta.SetHeight(20)
	ta.SetValue(j.Editor.Entry().Content)

	if j.Editor.State() != editor.Locked {
		ta.Focus()
	}

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = spinnerStyle

	return WriterModel{ctx: ctx, journal: j, area: ta, spinner: s}
}

func (m WriterModel) Init() tea.Cmd {
	return textarea.Blink
}

func (m WriterModel) save() tea.Msg {
	res, err := m.journal.Save(m.ctx)

	return saveDoneMsg{res: res, err: err}
}

func (m WriterModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.area.SetWidth(max(20, msg.Width-4))
		m.area.SetHeight(max(5, msg.Height-7))

		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case saveDoneMsg:
		m.saving = false

		if msg.err != nil {
			m.status = core.UserMessage(msg.err)
			m.statusErr = true

			return m, nil
		}

		m.saves++
		m.statusErr = false
		m.status = "saved " + m.journal.Editor.Entry().Path

		if m.journal.Editor.State() == editor.Locked {
			m.area.Blur()
			m.status += " (the day is over, entry is now read-only)"
		}

		return m, nil

	case spinner.TickMsg:
		if !m.saving {
			return m, nil
		}

		var cmd tea.Cmd

		m.spinner, cmd = m.spinner.Update(msg)

		return m, cmd
	}

	var cmd tea.Cmd

	m.area, cmd = m.area.Update(msg)

	return m, cmd
}

func (m WriterModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "esc":
		if m.journal.Editor.Dirty() && !m.confirmQuit {
			m.confirmQuit = true
			m.status = "unsaved changes: press again to quit without saving"
			m.statusErr = true

			return m, nil
		}

		return m, tea.Quit

	case "ctrl+s":
		m.confirmQuit = false

		if m.saving {
			return m, nil
		}

		m.saving = true
		m.status = ""

		return m, tea.Batch(m.spinner.Tick, m.save)
	}

	m.confirmQuit = false

	if m.saving || m.journal.Editor.State() == editor.Locked {
		return m, nil
	}

	var cmd tea.Cmd

	m.area, cmd = m.area.Update(msg)

	if err := m.journal.Editor.Edit(m.area.Value()); err != nil {
		m.status = core.UserMessage(err)
		m.statusErr = true
	}

	return m, cmd
}

func (m WriterModel) View() string {
	snap := m.journal.Editor.Snapshot()

	var b strings.Builder

	b.WriteString(pathStyle.Render(snap.Path))
	b.WriteString(" ")
	b.WriteString(stateBadge(snap.State))
	b.WriteString("\n\n")
	b.WriteString(m.area.View())
	b.WriteString("\n\n")

	counter := fmt.Sprintf("%d characters", snap.Characters)

	switch {
	case snap.State == editor.Locked:
		counter = dimStyle.Render(counter + " · read-only")
	case snap.Remaining > 0:
		counter = warningStyle.Render(fmt.Sprintf("%s · %d to go", counter, snap.Remaining))
	default:
		counter = successStyle.Render(counter + " · ready to save")
	}

	b.WriteString(counter)

	if snap.Dirty {
		b.WriteString(dimStyle.Render(" · unsaved"))
	}

	b.WriteString("\n")

	switch {
	case m.saving:
		b.WriteString(m.spinner.View() + " saving...")
	case m.status != "" && m.statusErr:
		b.WriteString(errorStyle.Render(m.status))
	case m.status != "":
		b.WriteString(successStyle.Render(m.status))
	default:
		b.WriteString(dimStyle.Render("ctrl+s save · esc quit"))
	}

	b.WriteString("\n")

	return b.String()
}

func stateBadge(s editor.State) string {
	color := lipgloss.Color("42")

	switch s {
	case editor.New:
		color = lipgloss.Color("75")
	case editor.Locked:
		color = lipgloss.Color("244")
	}

	return badgeStyle.Foreground(color).Render(strings.ToUpper(s.String()))
}

// Saves is the number of successful saves in this session.
func (m WriterModel) Saves() int { return m.saves }

// RunWriter runs the writing surface until the user quits.
func RunWriter(ctx context.Context, j *core.Journal) (WriterModel, error) {
	final, err := tea.NewProgram(NewWriterModel(ctx, j), tea.WithAltScreen(), tea.WithContext(ctx)).Run()
	if err != nil {
		return WriterModel{}, err
	}

	return final.(WriterModel), nil
}
