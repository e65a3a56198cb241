package tui

import "github.com/charmbracelet/lipgloss"

var titleStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(lipgloss.Color("39"))

var indexStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("212"))

var detailStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))

var footerStyle = lipgloss.NewStyle().
	Foreground(lipgloss.Color("241")).
	PaddingTop(1)

func footer() string {
	return footerStyle.Render("enter: block listed numbers  up/down pgup/pgdn: scroll  esc: cancel")
}
