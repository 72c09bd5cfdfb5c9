package views

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/Kensan196948G/ITSM-ITManagementSystem-sub002/internal/engine"
	"github.com/Kensan196948G/ITSM-ITManagementSystem-sub002/ui/tui/styles"
)

func ColorForStatus(status string) lipgloss.Style {
	switch status {
	case string(engine.StatusWarning):
		return styles.WarnStyle
	case string(engine.StatusCritical):
		return styles.CritStyle
	default:
		return styles.GoodStyle
	}
}
