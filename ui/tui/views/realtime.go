package views

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	zone "github.com/lrstanley/bubblezone"

	"github.com/Kensan196948G/ITSM-ITManagementSystem-sub002/internal/output"
	"github.com/Kensan196948G/ITSM-ITManagementSystem-sub002/ui/tui/state"
	"github.com/Kensan196948G/ITSM-ITManagementSystem-sub002/ui/tui/styles"
)

type RealtimeView struct{}

func (v RealtimeView) Render(s state.AppState, props ViewProps) string {
	if s.Err != nil {
		return fmt.Sprintf("Error: %v", s.Err)
	}
	if s.Snapshot == nil {
		return lipgloss.NewStyle().Padding(1, 2).Render(props.SpinnerView + " データ取得中...")
	}

	header := lipgloss.JoinHorizontal(lipgloss.Left,
		props.SpinnerView,
		styles.TitleStyle.Render("リアルタイム監視"),
		fmt.Sprintf(" 最終更新: %s", s.LastUpdate.Format("15:04:05")),
	)

	renderSection := func(sec *output.Section) string {
		content := ""
		for _, item := range sec.Items {
			valStr := ""
			if item.Unit != "" {
				valStr = fmt.Sprintf("%.1f%s", item.Value, item.Unit)
			} else if item.Note != "" {
				valStr = item.Note
			}
			if item.Status != "" {
				valStr = ColorForStatus(item.Status).Render(fmt.Sprintf("%s [%s]", valStr, item.Status))
			}
			content += fmt.Sprintf("% -15s : %s\n", item.Label, valStr)
		}
		return content
	}

	var loadCol, serverCol, serviceCol, alertCol string

	if loadSec := s.View.SectionByID(output.SectionLoad); loadSec != nil {
		loadCol = zone.Mark("load_box", styles.CardStyle.Render(
			lipgloss.JoinVertical(lipgloss.Left,
				lipgloss.NewStyle().Bold(true).Render(loadSec.Title),
				renderSection(loadSec),
				props.ChartView,
			),
		))
	}

	if srvSec := s.View.SectionByID(output.SectionServers); srvSec != nil {
		serverCol = styles.CardStyle.Render(
			lipgloss.JoinVertical(lipgloss.Left,
				lipgloss.NewStyle().Bold(true).Render(fmt.Sprintf("%s (%d台)", srvSec.Title, s.View.ServerCount)),
				renderSection(srvSec),
			),
		)
	}

	if svcSec := s.View.SectionByID(output.SectionServices); svcSec != nil {
		serviceCol = styles.CardStyle.Render(
			lipgloss.JoinVertical(lipgloss.Left,
				lipgloss.NewStyle().Bold(true).Render(fmt.Sprintf("%s (%d件)", svcSec.Title, s.View.ServiceCount)),
				renderSection(svcSec),
			),
		)
	}

	if alertSec := s.View.SectionByID(output.SectionAlerts); alertSec != nil {
		alertCol = styles.CardStyle.Render(
			lipgloss.JoinVertical(lipgloss.Left,
				lipgloss.NewStyle().Bold(true).Render(fmt.Sprintf("%s (%d件)", alertSec.Title, s.View.AlertCount)),
				renderSection(alertSec),
			),
		)
	}

	row1 := lipgloss.JoinHorizontal(lipgloss.Top, loadCol, serverCol)
	row2 := lipgloss.JoinHorizontal(lipgloss.Top, serviceCol, alertCol)

	return zone.Scan(lipgloss.JoinVertical(lipgloss.Left,
		header,
		row1,
		row2,
		StatusBar(props),
	))
}

// StatusBar renders the shared refresh-control footer.
func StatusBar(props ViewProps) string {
	return styles.StatusBarStyle.Render(fmt.Sprintf(
		"\n自動更新: %s • 間隔: %s • 期間: %s • [a/i/t/r] 更新操作 • [b] 戻る • [q] 終了",
		onOff(props.AutoRefresh), props.Interval, props.TimeRange))
}
