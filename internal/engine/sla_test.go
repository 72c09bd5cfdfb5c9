package engine

import (
	"testing"
	"time"
)

func TestTimeRemaining(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	alert := 2 * time.Hour

	tests := []struct {
		name       string
		deadline   time.Time
		wantText   string
		wantUrgent bool
		wantLevel  RemainingLevel
	}{
		{"expired a minute ago", now.Add(-time.Minute), "期限超過", true, RemainingExpired},
		{"exactly now", now, "期限超過", true, RemainingExpired},
		{"one hour left", now.Add(time.Hour), "1時間0分", true, RemainingUrgent},
		{"just under alert threshold", now.Add(2*time.Hour - time.Minute), "1時間59分", true, RemainingUrgent},
		{"inside amber window", now.Add(5*time.Hour + 30*time.Minute), "5時間30分", false, RemainingWarning},
		{"exactly on alert threshold", now.Add(2 * time.Hour), "2時間0分", false, RemainingWarning},
		{"comfortable", now.Add(26 * time.Hour), "26時間0分", false, RemainingNormal},
		{"exactly eight hours", now.Add(8 * time.Hour), "8時間0分", false, RemainingNormal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := TimeRemaining(tt.deadline, now, alert)
			if got.Text != tt.wantText {
				t.Errorf("Text = %q, want %q", got.Text, tt.wantText)
			}
			if got.Urgent != tt.wantUrgent {
				t.Errorf("Urgent = %v, want %v", got.Urgent, tt.wantUrgent)
			}
			if got.Level != tt.wantLevel {
				t.Errorf("Level = %q, want %q", got.Level, tt.wantLevel)
			}
		})
	}
}

func TestTimeRemainingISO(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	alert := 2 * time.Hour

	got := TimeRemainingISO("2026-03-10T13:30:00Z", now, alert)
	if got.Text != "1時間30分" || !got.Urgent {
		t.Errorf("valid deadline = %+v, want urgent 1時間30分", got)
	}

	for _, bad := range []string{"", "not-a-date", "2026-13-40T99:00:00Z"} {
		got := TimeRemainingISO(bad, now, alert)
		if got.Level != RemainingUnknown {
			t.Errorf("deadline %q: Level = %q, want unknown", bad, got.Level)
		}
		if got.Urgent {
			t.Errorf("deadline %q: malformed deadline must not be urgent", bad)
		}
		if got.Text != "残り時間不明" {
			t.Errorf("deadline %q: Text = %q", bad, got.Text)
		}
	}
}

func TestComplianceRate(t *testing.T) {
	tests := []struct {
		onTime, total int
		want          float64
	}{
		{92, 100, 92.0},
		{1, 3, 33.3},
		{2, 3, 66.7},
		{0, 10, 0},
		{10, 10, 100},
		{0, 0, 0},
		{5, 0, 0},
	}

	for _, tt := range tests {
		if got := ComplianceRate(tt.onTime, tt.total); got != tt.want {
			t.Errorf("ComplianceRate(%d, %d) = %v, want %v", tt.onTime, tt.total, got, tt.want)
		}
	}
}
