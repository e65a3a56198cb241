package tui

import (
	"context"
	"fmt"
	"io"

	tea "github.com/charmbracelet/bubbletea"

	"mailsweep/internal/model"
)

// Picker is a full-screen blocker.Selector.
type Picker struct {
	totals map[string]model.SenderTotal
	in     io.Reader
	out    io.Writer
}

// NewPicker returns a Picker that shows the given totals next to each
// candidate. Candidates missing from totals are listed without a count.
func NewPicker(totals []model.SenderTotal, in io.Reader, out io.Writer) *Picker {
	m := make(map[string]model.SenderTotal, len(totals))
	for _, t := range totals {
		m[t.Address] = t
	}
	return &Picker{totals: m, in: in, out: out}
}

// Select runs the picker until the operator confirms or cancels. Cancel
// returns an empty selection.
func (p *Picker) Select(ctx context.Context, candidates []string) ([]string, error) {
	if len(candidates) == 0 {
		return nil, nil
	}
	m := newPickerModel(candidates, p.totals)
	prog := tea.NewProgram(m,
		tea.WithContext(ctx),
		tea.WithInput(p.in),
		tea.WithOutput(p.out),
		tea.WithAltScreen(),
	)
	final, err := prog.Run()
	if err != nil {
		return nil, fmt.Errorf("picker: %w", err)
	}
	pm := final.(*pickerModel)
	if pm.err != nil {
		return nil, pm.err
	}
	return pm.selected, nil
}
