package views

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"

	"github.com/Kensan196948G/ITSM-ITManagementSystem-sub002/internal/engine"
	"github.com/Kensan196948G/ITSM-ITManagementSystem-sub002/ui/tui/state"
	"github.com/Kensan196948G/ITSM-ITManagementSystem-sub002/ui/tui/styles"
)

type SLAView struct{}

func (v SLAView) Render(s state.AppState, props ViewProps) string {
	header := MenuHeaderStyle.Width(props.Width).Render("SLA監視")

	if s.Snapshot == nil {
		return lipgloss.JoinVertical(lipgloss.Left, header,
			lipgloss.NewStyle().Padding(1, 2).Render("データ取得中..."))
	}

	rep := s.Report

	summary := lipgloss.NewStyle().Padding(1, 2).Render(fmt.Sprintf(
		"緊急 %d件 • 期限超過 %d件 • 違反合計 %d件",
		rep.UrgentCount, rep.ExpiredCount, rep.ViolationsTotal))

	var catLines []string
	for _, c := range rep.Categories {
		catLines = append(catLines, fmt.Sprintf("%-12s %5.1f%% (%d/%d) 違反%d %s",
			c.Category, c.ComplianceRate, c.OnTime, c.Total, c.ViolationCount, engine.TrendGlyph(c.Trend)))
	}
	catBox := styles.CardStyle.Render(lipgloss.JoinVertical(lipgloss.Left,
		lipgloss.NewStyle().Bold(true).Render("カテゴリ別遵守率"),
		lipgloss.JoinVertical(lipgloss.Left, catLines...),
	))

	var priLines []string
	for _, p := range rep.Priorities {
		priLines = append(priLines, fmt.Sprintf("%-10s %5.1f%% (%d/%d) 目標%.0f時間 %s",
			p.Priority, p.ComplianceRate, p.OnTime, p.Total, p.TargetHours, engine.TrendGlyph(p.Trend)))
	}
	priBox := styles.CardStyle.Render(lipgloss.JoinVertical(lipgloss.Left,
		lipgloss.NewStyle().Bold(true).Render("優先度別遵守率"),
		lipgloss.JoinVertical(lipgloss.Left, priLines...),
	))

	var riskLines []string
	for _, row := range rep.RiskRows {
		countdown := countdownStyle(row.Remaining.Level).Render(row.Remaining.Text)
		riskLines = append(riskLines, fmt.Sprintf("%s %-10s %s %s",
			row.Ticket.ID, row.Ticket.Priority, countdown, row.Ticket.Title))
	}
	riskBox := styles.CardStyle.Render(lipgloss.JoinVertical(lipgloss.Left,
		lipgloss.NewStyle().Bold(true).Render("SLAリスクチケット"),
		lipgloss.JoinVertical(lipgloss.Left, riskLines...),
	))

	var escLines []string
	for _, e := range s.Snapshot.Escalations {
		escLines = append(escLines, fmt.Sprintf("%s %s %s→%s %s [%s]",
			e.Timestamp.Format("01/02 15:04"), e.TicketID, e.From, e.To, e.Reason, e.Status))
	}
	escBox := styles.CardStyle.Render(lipgloss.JoinVertical(lipgloss.Left,
		lipgloss.NewStyle().Bold(true).Render("エスカレーション履歴"),
		lipgloss.JoinVertical(lipgloss.Left, escLines...),
	))

	row1 := lipgloss.JoinHorizontal(lipgloss.Top, catBox, priBox)
	row2 := lipgloss.JoinHorizontal(lipgloss.Top, riskBox, escBox)

	return lipgloss.JoinVertical(lipgloss.Left,
		header,
		summary,
		row1,
		row2,
		StatusBar(props),
	)
}

func countdownStyle(level engine.RemainingLevel) lipgloss.Style {
	switch level {
	case engine.RemainingExpired, engine.RemainingUrgent:
		return styles.UrgentStyle
	case engine.RemainingWarning:
		return styles.WarnStyle
	case engine.RemainingUnknown:
		return lipgloss.NewStyle().Foreground(lipgloss.Color("#888"))
	default:
		return styles.GoodStyle
	}
}
