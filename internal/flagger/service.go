package flagger

import (
	"fmt"
	"time"

	"github.com/Kensan196948G/ITSM-ITManagementSystem-sub002/internal/datasource"
)

// SnapshotFlags is the persisted judgement over one snapshot. The
// recorder stores it alongside the raw numbers so historical queries
// can filter on condition without re-deriving it.
type SnapshotFlags struct {
	FlagLoadCritical      bool
	FlagServerOffline     bool
	FlagServiceOutage     bool
	FlagSLABreachRisk     bool
	FlagEscalationBacklog bool

	SeverityLevel int // 0 none, 1 info, 2 warning, 3 critical
	RiskScore     int
	Explanation   string
}

// FlaggerService derives SnapshotFlags from a snapshot.
type FlaggerService struct {
	cfg Config
}

func NewFlaggerService(cfg Config) *FlaggerService {
	return &FlaggerService{cfg: cfg}
}

func (fs *FlaggerService) Flag(snap *datasource.Snapshot) *SnapshotFlags {
	f := &SnapshotFlags{}
	var explanations []string

	// 1. Headline load
	if snap.SystemLoad > fs.cfg.Load.Critical {
		f.FlagLoadCritical = true
		f.SeverityLevel = 3
		explanations = append(explanations, fmt.Sprintf("system load critical: %.0f%%", snap.SystemLoad))
	} else if snap.SystemLoad > fs.cfg.Load.Warning {
		f.SeverityLevel = max(f.SeverityLevel, 2)
		explanations = append(explanations, fmt.Sprintf("system load elevated: %.0f%%", snap.SystemLoad))
	}

	// 2. Servers
	for _, srv := range snap.Servers {
		if srv.Status == datasource.ServerOffline {
			f.FlagServerOffline = true
			f.SeverityLevel = 3
			explanations = append(explanations, fmt.Sprintf("server offline: %s", srv.Name))
		}
	}

	// 3. Services
	for _, svc := range snap.Services {
		if svc.Status == datasource.ServiceOutage {
			f.FlagServiceOutage = true
			f.SeverityLevel = 3
			explanations = append(explanations, fmt.Sprintf("service outage: %s", svc.Name))
		}
	}

	// 4. SLA breach risk
	horizon := time.Duration(fs.cfg.RiskDeadlineHours * float64(time.Hour))
	for _, tk := range snap.RiskTickets {
		if tk.SLADeadline == nil {
			continue
		}
		if tk.SLADeadline.Sub(snap.GeneratedAt) < horizon {
			f.FlagSLABreachRisk = true
			f.SeverityLevel = max(f.SeverityLevel, 2)
			explanations = append(explanations, fmt.Sprintf("SLA at risk: %s", tk.ID))
			break
		}
	}

	// 5. Escalation backlog
	pending := 0
	for _, esc := range snap.Escalations {
		if esc.Status == datasource.EscalationPending {
			pending++
		}
	}
	if pending >= fs.cfg.EscalationBacklog {
		f.FlagEscalationBacklog = true
		f.SeverityLevel = max(f.SeverityLevel, 2)
		explanations = append(explanations, fmt.Sprintf("%d escalations pending", pending))
	}

	if len(explanations) > 0 {
		f.Explanation = explanations[0]
		if len(explanations) > 1 {
			f.Explanation += fmt.Sprintf(" (+%d more)", len(explanations)-1)
		}
	}

	f.RiskScore = f.SeverityLevel * 10
	if f.FlagServerOffline && f.FlagServiceOutage {
		f.RiskScore = 100
	}

	return f
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}
