package views

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/Kensan196948G/ITSM-ITManagementSystem-sub002/internal/datasource"
	"github.com/Kensan196948G/ITSM-ITManagementSystem-sub002/internal/engine"
	"github.com/Kensan196948G/ITSM-ITManagementSystem-sub002/ui/tui/state"
	"github.com/Kensan196948G/ITSM-ITManagementSystem-sub002/ui/tui/styles"
)

type IncidentsView struct{}

func (v IncidentsView) Render(s state.AppState, props ViewProps) string {
	title := "インシデント一覧"
	if s.PriorityFilter != "" {
		title = fmt.Sprintf("インシデント一覧 [%s]", s.PriorityFilter)
	}
	header := MenuHeaderStyle.Width(props.Width).Render(title)

	if s.Snapshot == nil {
		return lipgloss.JoinVertical(lipgloss.Left, header,
			lipgloss.NewStyle().Padding(1, 2).Render("データ取得中..."))
	}

	tickets := FilterTickets(s.Snapshot.RecentTickets, s.PriorityFilter)

	cursor := props.ScrollY
	if cursor > len(tickets)-1 {
		cursor = len(tickets) - 1
	}
	if cursor < 0 {
		cursor = 0
	}

	var lines []string
	lines = append(lines, "  "+fmt.Sprintf("%-10s %-10s %-10s %-8s %-14s %s",
		"ID", "優先度", "状態", "担当", "カテゴリ", "タイトル"))
	for i, tk := range tickets {
		prefix := "  "
		row := fmt.Sprintf("%-10s %s %-10s %-8s %-14s %s",
			tk.ID, priorityBadge(tk.Priority), tk.Status, tk.Assignee, tk.Category, tk.Title)
		if i == cursor {
			prefix = "▸ "
			row = lipgloss.NewStyle().Bold(true).Render(row)
		}
		lines = append(lines, prefix+row)
	}
	if len(tickets) == 0 {
		lines = append(lines, "  該当するチケットはありません")
	}

	listBox := lipgloss.NewStyle().
		Width(props.Width - 4).
		Padding(0, 1).
		Render(strings.Join(lines, "\n"))

	body := []string{
		header,
		lipgloss.NewStyle().Padding(1, 2).Render(listBox),
	}

	if props.DetailOpen && len(tickets) > 0 {
		body = append(body, renderTicketDetail(tickets[cursor], props.SLAAlert))
	}

	footerText := fmt.Sprintf("%d/%d件 • [↑/↓] 選択 • [Enter] 詳細 • [p] 優先度フィルタ • [b] 戻る",
		cursor+1, len(tickets))
	body = append(body,
		lipgloss.NewStyle().PaddingLeft(2).Foreground(lipgloss.Color("#555")).Render(footerText),
		StatusBar(props),
	)

	return lipgloss.JoinVertical(lipgloss.Left, body...)
}

// FilterTickets narrows the list to one priority; empty keeps all.
func FilterTickets(tickets []datasource.Ticket, prio datasource.Priority) []datasource.Ticket {
	if prio == "" {
		return tickets
	}
	var out []datasource.Ticket
	for _, tk := range tickets {
		if tk.Priority == prio {
			out = append(out, tk)
		}
	}
	return out
}

func renderTicketDetail(tk datasource.Ticket, alertThreshold time.Duration) string {
	deadline := "なし"
	countdown := ""
	if tk.SLADeadline != nil {
		deadline = tk.SLADeadline.Format("2006-01-02 15:04")
		rem := engine.TimeRemaining(*tk.SLADeadline, time.Now(), alertThreshold)
		countdown = countdownStyle(rem.Level).Render(rem.Text)
	}

	detail := fmt.Sprintf(
		"ID        : %s\nタイトル  : %s\n優先度    : %s\n状態      : %s\n担当      : %s\nカテゴリ  : %s\n起票      : %s\nSLA期限   : %s %s",
		tk.ID, tk.Title, tk.Priority, tk.Status, tk.Assignee, tk.Category,
		tk.Created.Format("2006-01-02 15:04"), deadline, countdown)

	return styles.CardStyle.Render(lipgloss.JoinVertical(lipgloss.Left,
		lipgloss.NewStyle().Bold(true).Render("チケット詳細"),
		detail,
	))
}

func priorityBadge(p datasource.Priority) string {
	color := lipgloss.Color("46")
	switch p {
	case datasource.PriorityCritical:
		color = lipgloss.Color("196")
	case datasource.PriorityHigh:
		color = lipgloss.Color("208")
	case datasource.PriorityMedium:
		color = lipgloss.Color("220")
	}
	return lipgloss.NewStyle().Foreground(color).Render(fmt.Sprintf("%-10s", p))
}
