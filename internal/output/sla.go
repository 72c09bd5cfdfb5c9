package output

import (
	"time"

	"github.com/Kensan196948G/ITSM-ITManagementSystem-sub002/internal/datasource"
	"github.com/Kensan196948G/ITSM-ITManagementSystem-sub002/internal/engine"
)

// RiskRow pairs a ticket with its rendered SLA countdown.
type RiskRow struct {
	Ticket    datasource.Ticket
	Remaining engine.Remaining
}

// SLAReport is the view model behind the SLA monitoring page and the
// get_sla_report tool.
type SLAReport struct {
	GeneratedAt time.Time
	Categories  []datasource.CategorySLAStats
	Priorities  []datasource.PrioritySLAStats
	RiskRows    []RiskRow
	Escalations []datasource.EscalationEvent

	UrgentCount     int
	ExpiredCount    int
	ViolationsTotal int
}

// BuildSLAReport renders SLA countdowns for every risk ticket and
// aggregates the violation counters.
func BuildSLAReport(snap *datasource.Snapshot, now time.Time, alertThreshold time.Duration) SLAReport {
	rep := SLAReport{
		GeneratedAt: snap.GeneratedAt,
		Categories:  snap.CategorySLA,
		Priorities:  snap.PrioritySLA,
		Escalations: snap.Escalations,
	}

	for _, tk := range snap.RiskTickets {
		var rem engine.Remaining
		if tk.SLADeadline != nil {
			rem = engine.TimeRemaining(*tk.SLADeadline, now, alertThreshold)
		} else {
			rem = engine.TimeRemainingISO("", now, alertThreshold)
		}
		if rem.Urgent {
			rep.UrgentCount++
		}
		if rem.Level == engine.RemainingExpired {
			rep.ExpiredCount++
		}
		rep.RiskRows = append(rep.RiskRows, RiskRow{Ticket: tk, Remaining: rem})
	}

	for _, c := range snap.CategorySLA {
		rep.ViolationsTotal += c.ViolationCount
	}
	return rep
}
