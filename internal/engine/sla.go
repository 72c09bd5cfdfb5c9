package engine

import (
	"fmt"
	"math"
	"time"
)

// ====== SLA TIME REMAINING ======

// RemainingLevel drives how a deadline is rendered.
type RemainingLevel string

const (
	// RemainingExpired means the deadline has passed.
	RemainingExpired RemainingLevel = "expired"
	// RemainingUrgent means the deadline is inside the alert threshold.
	RemainingUrgent RemainingLevel = "urgent"
	// RemainingWarning means the deadline is inside the 8h amber window.
	RemainingWarning RemainingLevel = "warning"
	// RemainingNormal means the deadline is comfortably away.
	RemainingNormal RemainingLevel = "normal"
	// RemainingUnknown means the deadline could not be interpreted.
	RemainingUnknown RemainingLevel = "unknown"
)

// amberWindow is the fixed "getting close" window shown in amber.
const amberWindow = 8 * time.Hour

// Remaining is the display form of an SLA countdown.
type Remaining struct {
	Text   string
	Urgent bool
	Level  RemainingLevel
}

// TimeRemaining renders the countdown to an SLA deadline. A deadline
// at or before now is expired. Inside alertThreshold the countdown is
// urgent, inside the 8h amber window it is a warning, otherwise normal.
func TimeRemaining(deadline, now time.Time, alertThreshold time.Duration) Remaining {
	diff := deadline.Sub(now)
	if diff <= 0 {
		return Remaining{Text: "期限超過", Urgent: true, Level: RemainingExpired}
	}

	hours := int(diff / time.Hour)
	minutes := int((diff % time.Hour) / time.Minute)
	text := fmt.Sprintf("%d時間%d分", hours, minutes)

	switch {
	case diff < alertThreshold:
		return Remaining{Text: text, Urgent: true, Level: RemainingUrgent}
	case diff < amberWindow:
		return Remaining{Text: text, Urgent: false, Level: RemainingWarning}
	default:
		return Remaining{Text: text, Urgent: false, Level: RemainingNormal}
	}
}

// TimeRemainingISO parses an RFC 3339 deadline before rendering it.
// A missing or malformed deadline renders as unknown rather than
// failing the whole row.
func TimeRemainingISO(deadline string, now time.Time, alertThreshold time.Duration) Remaining {
	if deadline == "" {
		return Remaining{Text: "残り時間不明", Urgent: false, Level: RemainingUnknown}
	}
	t, err := time.Parse(time.RFC3339, deadline)
	if err != nil {
		return Remaining{Text: "残り時間不明", Urgent: false, Level: RemainingUnknown}
	}
	return TimeRemaining(t, now, alertThreshold)
}

// ComplianceRate is the on-time percentage rounded to one decimal
// place. A bucket with no tickets reports 0.
func ComplianceRate(onTime, total int) float64 {
	if total <= 0 {
		return 0
	}
	return math.Round(float64(onTime)/float64(total)*1000) / 10
}
