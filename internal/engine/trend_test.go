package engine

import (
	"testing"

	"github.com/Kensan196948G/ITSM-ITManagementSystem-sub002/internal/datasource"
)

func TestTrendGlyph(t *testing.T) {
	tests := []struct {
		trend datasource.Trend
		want  string
	}{
		{datasource.TrendUp, "↑"},
		{datasource.TrendDown, "↓"},
		{datasource.TrendStable, "→"},
		{datasource.Trend("bogus"), "→"},
	}

	for _, tt := range tests {
		if got := TrendGlyph(tt.trend); got != tt.want {
			t.Errorf("TrendGlyph(%q) = %q, want %q", tt.trend, got, tt.want)
		}
	}
}

func TestClassifyTrend(t *testing.T) {
	tests := []struct {
		name      string
		prev, cur float64
		tolerance float64
		want      datasource.Trend
	}{
		{"clear rise", 50, 60, 2, datasource.TrendUp},
		{"clear fall", 60, 50, 2, datasource.TrendDown},
		{"inside tolerance", 50, 51, 2, datasource.TrendStable},
		{"exactly tolerance", 50, 52, 2, datasource.TrendStable},
		{"no change", 50, 50, 0, datasource.TrendStable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ClassifyTrend(tt.prev, tt.cur, tt.tolerance); got != tt.want {
				t.Errorf("ClassifyTrend(%v, %v, %v) = %q, want %q", tt.prev, tt.cur, tt.tolerance, got, tt.want)
			}
		})
	}
}
