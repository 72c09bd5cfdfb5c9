package components

import (
	tea "github.com/charmbracelet/bubbletea"
)

// Component is the contract for dashboard widgets. It mirrors
// tea.Model but lets widgets be updated by the page that owns them.
type Component interface {
	Init() tea.Cmd
	Update(msg tea.Msg) (tea.Model, tea.Cmd)
	View() string
}
