package tui

import (
	"bytes"
	"context"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mailsweep/internal/blocker"
	"mailsweep/internal/model"
)

func testModel() *pickerModel {
	totals := map[string]model.SenderTotal{
		"a@x.com": {Address: "a@x.com", DisplayName: "Alpha", Count: 12},
		"c@z.com": {Address: "c@z.com", Count: 3},
	}
	return newPickerModel([]string{"a@x.com", "b@y.com", "c@z.com"}, totals)
}

func typeText(m *pickerModel, s string) {
	m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)})
}

func TestPicker_EnterSelectsTypedNumbers(t *testing.T) {
	m := testModel()
	typeText(m, "1,3")
	assert.Equal(t, "1,3", m.input.Value())

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)
	assert.NoError(t, m.err)
	assert.Equal(t, []string{"a@x.com", "c@z.com"}, m.selected)
}

func TestPicker_MalformedInput(t *testing.T) {
	m := testModel()
	typeText(m, "2,9")
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)
	assert.ErrorIs(t, m.err, blocker.ErrInvalidSelection)
	assert.Nil(t, m.selected)
}

func TestPicker_BlankInputIsInvalid(t *testing.T) {
	m := testModel()
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)
	assert.ErrorIs(t, m.err, blocker.ErrInvalidSelection)
}

func TestPicker_EscCancels(t *testing.T) {
	m := testModel()
	typeText(m, "1")
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	require.NotNil(t, cmd)
	assert.True(t, m.canceled)
	assert.Nil(t, m.selected)
	assert.Empty(t, m.View())
}

func TestPicker_RendersNumberedCandidatesWithTotals(t *testing.T) {
	m := testModel()
	content := m.renderCandidates()
	lines := strings.Split(content, "\n")
	require.Len(t, lines, 3)
	assert.Contains(t, lines[0], "1.")
	assert.Contains(t, lines[0], "a@x.com")
	assert.Contains(t, lines[0], "12")
	assert.Contains(t, lines[0], "Alpha")
	assert.Contains(t, lines[1], "b@y.com")
	assert.Contains(t, lines[2], "c@z.com")
	assert.Contains(t, m.View(), "Senders (3)")
}

func TestPicker_WindowSizeResizesList(t *testing.T) {
	m := testModel()
	m.Update(tea.WindowSizeMsg{Width: 100, Height: 30})
	assert.Equal(t, 100, m.list.Width)
	assert.Equal(t, 30-chrome, m.list.Height)

	m.Update(tea.WindowSizeMsg{Width: 20, Height: 2})
	assert.Equal(t, 1, m.list.Height)
}

func TestPicker_SelectWithoutCandidates(t *testing.T) {
	p := NewPicker(nil, strings.NewReader(""), &bytes.Buffer{})
	got, err := p.Select(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, got)
}
