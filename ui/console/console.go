package console

import (
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/Kensan196948G/ITSM-ITManagementSystem-sub002/internal/engine"
	"github.com/Kensan196948G/ITSM-ITManagementSystem-sub002/internal/output"
)

const (
	colorReset  = "\033[0m"
	colorRed    = "\033[31m"
	colorGreen  = "\033[32m"
	colorYellow = "\033[33m"
	colorCyan   = "\033[36m"
)

// Print renders the dashboard view to the writer in a compact format.
func Print(w io.Writer, view output.DashboardView) {
	fmt.Fprintf(w, "%s%s %s%s\n", colorCyan, "■", "ITダッシュボード", colorReset)

	for _, sec := range view.Sections {
		fmt.Fprintf(w, "%s%s%s\n", colorCyan, "─ "+sec.Title, colorReset)

		for _, it := range sec.Items {
			fmt.Fprintf(w, "  %s%s%s %10s%s\n",
				truncate(it.Label, 20), leader(it.Label), "", valueOf(it), marker(it.Status))
		}
	}

	fmt.Fprintf(w, "%s─ 概要%s: サーバー %d台 | サービス %d件 | アラート %d件\n\n",
		colorCyan, colorReset, view.ServerCount, view.ServiceCount, view.AlertCount)
}

// PrintSLA renders the SLA report with per-ticket countdowns.
func PrintSLA(w io.Writer, rep output.SLAReport) {
	fmt.Fprintf(w, "%s%s %s%s\n", colorCyan, "■", "SLA監視レポート", colorReset)

	fmt.Fprintf(w, "%s─ カテゴリ別遵守率%s\n", colorCyan, colorReset)
	for _, c := range rep.Categories {
		fmt.Fprintf(w, "  %s%s %5.1f%% (%d/%d) %s\n",
			truncate(c.Category, 20), leader(c.Category), c.ComplianceRate, c.OnTime, c.Total, engine.TrendGlyph(c.Trend))
	}

	fmt.Fprintf(w, "%s─ 優先度別遵守率%s\n", colorCyan, colorReset)
	for _, p := range rep.Priorities {
		label := string(p.Priority)
		fmt.Fprintf(w, "  %s%s %5.1f%% (目標 %.0f時間)\n",
			truncate(label, 20), leader(label), p.ComplianceRate, p.TargetHours)
	}

	fmt.Fprintf(w, "%s─ SLAリスクチケット%s\n", colorCyan, colorReset)
	for _, row := range rep.RiskRows {
		color := colorGreen
		switch row.Remaining.Level {
		case engine.RemainingExpired, engine.RemainingUrgent:
			color = colorRed
		case engine.RemainingWarning:
			color = colorYellow
		}
		fmt.Fprintf(w, "  %s %s%s%s  %s\n",
			row.Ticket.ID, color, row.Remaining.Text, colorReset, truncate(row.Ticket.Title, 30))
	}

	fmt.Fprintf(w, "%s─ 概要%s: 緊急 %d件 | 期限超過 %d件 | 違反合計 %d件\n\n",
		colorCyan, colorReset, rep.UrgentCount, rep.ExpiredCount, rep.ViolationsTotal)
}

func valueOf(it output.Item) string {
	if it.Unit != "" {
		return fmt.Sprintf("%.1f%s", it.Value, it.Unit)
	}
	if it.Value != 0 {
		return fmt.Sprintf("%.1f", it.Value)
	}
	if it.Note != "" {
		return truncate(it.Note, 25)
	}
	return ""
}

func marker(status string) string {
	if status == "" {
		return ""
	}
	color := colorFor(status)
	switch status {
	case string(engine.StatusCritical):
		return fmt.Sprintf(" %sX%s", color, colorReset)
	case string(engine.StatusWarning):
		return fmt.Sprintf(" %s!%s", color, colorReset)
	case string(engine.StatusGood):
		return fmt.Sprintf(" %s✓%s", color, colorReset)
	default:
		return fmt.Sprintf(" %s·%s", color, colorReset)
	}
}

func colorFor(status string) string {
	switch status {
	case string(engine.StatusWarning):
		return colorYellow
	case string(engine.StatusCritical):
		return colorRed
	case "info":
		return colorCyan
	default:
		return colorGreen
	}
}

// leader pads labels with a dotted line so values line up.
func leader(label string) string {
	n := 22 - utf8.RuneCountInString(label)
	if n < 1 {
		n = 1
	}
	return colorCyan + strings.Repeat("·", n) + colorReset
}

func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max-1]) + "…"
}
