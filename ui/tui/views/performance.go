package views

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/Kensan196948G/ITSM-ITManagementSystem-sub002/internal/datasource"
	"github.com/Kensan196948G/ITSM-ITManagementSystem-sub002/ui/tui/state"
	"github.com/Kensan196948G/ITSM-ITManagementSystem-sub002/ui/tui/styles"
)

type PerformanceView struct{}

func (v PerformanceView) Render(s state.AppState, props ViewProps) string {
	header := MenuHeaderStyle.Width(props.Width).Render("パフォーマンス分析")

	if s.Snapshot == nil {
		return lipgloss.JoinVertical(lipgloss.Left, header,
			lipgloss.NewStyle().Padding(1, 2).Render("データ取得中..."))
	}

	info := lipgloss.NewStyle().
		Padding(1, 2).
		Render(fmt.Sprintf("期間: %s\n系列点数: 応答 %d / 件数 %d",
			s.Snapshot.TimeRange,
			len(s.Snapshot.ResponseTrend), len(s.Snapshot.TicketVolume)))

	respBox := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(styles.Highlight).
		Padding(1, 2).
		Render(lipgloss.JoinVertical(lipgloss.Left,
			lipgloss.NewStyle().Bold(true).Render("平均応答時間 (ms)"),
			renderBars(s.Snapshot.ResponseTrend, 60),
		))

	volBox := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(styles.Highlight).
		Padding(1, 2).
		Render(lipgloss.JoinVertical(lipgloss.Left,
			lipgloss.NewStyle().Bold(true).Render("チケット件数"),
			renderBars(s.Snapshot.TicketVolume, 60),
		))

	agentBox := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(styles.Highlight).
		Padding(1, 2).
		Render(lipgloss.JoinVertical(lipgloss.Left,
			lipgloss.NewStyle().Bold(true).Render("担当者パフォーマンス"),
			renderAgents(s.Snapshot.Agents),
		))

	content := lipgloss.JoinHorizontal(lipgloss.Top, respBox, volBox)

	return lipgloss.JoinVertical(lipgloss.Left,
		header,
		info,
		content,
		agentBox,
		StatusBar(props),
	)
}

// renderBars draws a horizontal bar per point, scaled to the series
// maximum.
func renderBars(points []datasource.MetricPoint, scaleTo float64) string {
	if len(points) == 0 {
		return "データなし"
	}

	max := points[0].Value
	for _, p := range points {
		if p.Value > max {
			max = p.Value
		}
	}
	if max <= 0 {
		max = 1
	}

	const barWidth = 24
	var lines []string
	for _, p := range points {
		filled := int(float64(barWidth) * p.Value / max)
		if filled > barWidth {
			filled = barWidth
		}
		bar := strings.Repeat("█", filled) + strings.Repeat("░", barWidth-filled)

		color := lipgloss.Color("46")
		if p.Value > max*0.9 {
			color = lipgloss.Color("196")
		} else if p.Value > max*0.7 {
			color = lipgloss.Color("220")
		}

		lines = append(lines, fmt.Sprintf("%6s [%s] %6.1f",
			p.Label, lipgloss.NewStyle().Foreground(color).Render(bar), p.Value))
	}
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func renderAgents(agents []datasource.AgentPerformance) string {
	if len(agents) == 0 {
		return "データなし"
	}

	var lines []string
	lines = append(lines, fmt.Sprintf("%-8s %6s %10s %8s", "担当者", "解決", "平均応答(h)", "満足度"))
	for _, a := range agents {
		lines = append(lines, fmt.Sprintf("%-8s %6d %10.1f %7.1f%%",
			a.Name, a.Resolved, a.AvgResponseHours, a.SatisfactionPct))
	}
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}
