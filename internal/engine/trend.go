package engine

import (
	"math"

	"github.com/Kensan196948G/ITSM-ITManagementSystem-sub002/internal/datasource"
)

// TrendGlyph maps a trend direction to its arrow for table cells.
// Unknown directions fall back to the stable arrow.
func TrendGlyph(t datasource.Trend) string {
	switch t {
	case datasource.TrendUp:
		return "↑"
	case datasource.TrendDown:
		return "↓"
	default:
		return "→"
	}
}

// ClassifyTrend compares two period values. Movement within tolerance
// counts as stable.
func ClassifyTrend(prev, cur, tolerance float64) datasource.Trend {
	if math.Abs(cur-prev) <= tolerance {
		return datasource.TrendStable
	}
	if cur > prev {
		return datasource.TrendUp
	}
	return datasource.TrendDown
}
