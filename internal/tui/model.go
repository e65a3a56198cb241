package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"mailsweep/internal/blocker"
	"mailsweep/internal/model"
)

// chrome is the number of rows used by the title, input and footer.
const chrome = 6

type pickerModel struct {
	candidates []string
	totals     map[string]model.SenderTotal

	list  viewport.Model
	input textinput.Model

	selected []string
	err      error
	canceled bool
}

func newPickerModel(candidates []string, totals map[string]model.SenderTotal) *pickerModel {
	ti := textinput.New()
	ti.Placeholder = "e.g. 1,3,7"
	ti.Prompt = "Block: "
	ti.Focus()

	m := &pickerModel{
		candidates: candidates,
		totals:     totals,
		list:       viewport.New(80, 20),
		input:      ti,
	}
	m.list.SetContent(m.renderCandidates())
	return m
}

func (m *pickerModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m *pickerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.list.Width = msg.Width
		m.list.Height = max(msg.Height-chrome, 1)
		m.input.Width = max(msg.Width-len(m.input.Prompt)-1, 10)
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			m.canceled = true
			return m, tea.Quit
		case "enter":
			return m.confirm()
		case "up", "down", "pgup", "pgdown", "home", "end":
			var cmd tea.Cmd
			m.list, cmd = m.list.Update(msg)
			return m, cmd
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *pickerModel) confirm() (tea.Model, tea.Cmd) {
	idx, err := blocker.ParseSelection(m.input.Value(), len(m.candidates))
	if err != nil {
		m.err = err
		return m, tea.Quit
	}
	m.selected = blocker.Pick(m.candidates, idx)
	return m, tea.Quit
}

func (m *pickerModel) renderCandidates() string {
	var b strings.Builder
	width := len(fmt.Sprint(len(m.candidates)))
	for i, addr := range m.candidates {
		b.WriteString(indexStyle.Render(fmt.Sprintf("%*d.", width, i+1)))
		b.WriteString(" ")
		b.WriteString(addr)
		if t, ok := m.totals[addr]; ok {
			detail := fmt.Sprintf("  %d", t.Count)
			if t.DisplayName != "" {
				detail += "  " + t.DisplayName
			}
			b.WriteString(detailStyle.Render(detail))
		}
		if i < len(m.candidates)-1 {
			b.WriteString("\n")
		}
	}
	return b.String()
}

func (m *pickerModel) View() string {
	if m.canceled || m.err != nil || m.selected != nil {
		return ""
	}
	var b strings.Builder
	b.WriteString(titleStyle.Render(fmt.Sprintf("Senders (%d)", len(m.candidates))))
	b.WriteString("\n")
	b.WriteString(m.list.View())
	b.WriteString("\n\n")
	b.WriteString(m.input.View())
	b.WriteString("\n")
	b.WriteString(footer())
	return b.String()
}
