package console

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/Kensan196948G/ITSM-ITManagementSystem-sub002/internal/datasource"
	"github.com/Kensan196948G/ITSM-ITManagementSystem-sub002/internal/engine"
	"github.com/Kensan196948G/ITSM-ITManagementSystem-sub002/internal/output"
)

func TestColorFor(t *testing.T) {
	tests := []struct {
		status   string
		expected string
	}{
		{"warning", colorYellow},
		{"critical", colorRed},
		{"good", colorGreen},
		{"info", colorCyan},
		{"", colorGreen},
	}

	for _, tt := range tests {
		result := colorFor(tt.status)
		if result != tt.expected {
			t.Errorf("colorFor(%q) = %q; want %q", tt.status, result, tt.expected)
		}
	}
}

func TestPrint(t *testing.T) {
	view := output.DashboardView{
		Sections: []output.Section{
			{
				ID:    output.SectionLoad,
				Title: "システム負荷",
				Items: []output.Item{
					{Label: "システム負荷", Value: 72, Unit: "%", Status: "warning"},
				},
			},
			{
				ID:    output.SectionServers,
				Title: "サーバー",
				Items: []output.Item{
					{Label: "WEB-SV-01", Value: 95, Unit: "%", Status: "critical", Note: "cpu"},
					{Label: "WEB-SV-01", Note: "online / 稼働 45日3時間"},
					{Label: "とても長いサーバー名が付いたホスト名の例です", Value: 10, Unit: "%", Status: "good"},
				},
			},
		},
		ServerCount:  2,
		ServiceCount: 6,
		AlertCount:   3,
	}

	var buf bytes.Buffer
	Print(&buf, view)

	out := buf.String()
	if !strings.Contains(out, "72.0%") {
		t.Error("load value missing from output")
	}
	if !strings.Contains(out, "サーバー 2台") {
		t.Error("summary line missing server count")
	}
	if strings.Contains(out, "\n\n\n") {
		t.Error("unexpected blank lines")
	}
}

func TestPrintSLA(t *testing.T) {
	now := time.Now()
	deadline := now.Add(-time.Hour)

	rep := output.SLAReport{
		GeneratedAt: now,
		Categories: []datasource.CategorySLAStats{
			{Category: "インフラ", OnTime: 18, Total: 20, ComplianceRate: 90.0, Trend: datasource.TrendUp},
		},
		Priorities: []datasource.PrioritySLAStats{
			{Priority: datasource.PriorityCritical, ComplianceRate: 95.0, TargetHours: 2},
		},
		RiskRows: []output.RiskRow{
			{
				Ticket:    datasource.Ticket{ID: "TCK-0001", Title: "メールサーバー遅延", SLADeadline: &deadline},
				Remaining: engine.TimeRemaining(deadline, now, 2*time.Hour),
			},
		},
		UrgentCount:  1,
		ExpiredCount: 1,
	}

	var buf bytes.Buffer
	PrintSLA(&buf, rep)

	out := buf.String()
	if !strings.Contains(out, "期限超過") {
		t.Error("expired countdown missing")
	}
	if !strings.Contains(out, "90.0%") {
		t.Error("compliance rate missing")
	}
	if !strings.Contains(out, "TCK-0001") {
		t.Error("ticket id missing")
	}
	if !strings.Contains(out, "緊急 1件") {
		t.Error("urgent count missing from summary")
	}
}
