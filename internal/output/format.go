package output

import (
	"fmt"

	"github.com/Kensan196948G/ITSM-ITManagementSystem-sub002/internal/datasource"
	"github.com/Kensan196948G/ITSM-ITManagementSystem-sub002/internal/engine"
)

// Section constants to avoid hardcoded strings
const (
	SectionLoad     = "load"
	SectionServers  = "servers"
	SectionServices = "services"
	SectionAlerts   = "alerts"
)

// UI/view-model types (no printing here)
type Item struct {
	Key    string
	Label  string
	Value  float64
	Unit   string
	Status string
	Note   string
}

type Section struct {
	ID    string // load/servers/services/alerts
	Title string
	Items []Item
}

type DashboardView struct {
	Sections     []Section
	ServerCount  int
	ServiceCount int
	AlertCount   int
}

// BuildRealtime converts a snapshot plus its evaluation into UI-ready
// sections for the realtime page and the console report.
func BuildRealtime(snap *datasource.Snapshot, results []engine.CheckResult) DashboardView {
	sec := map[string]*Section{
		SectionLoad:     {ID: SectionLoad, Title: "システム負荷"},
		SectionServers:  {ID: SectionServers, Title: "サーバー"},
		SectionServices: {ID: SectionServices, Title: "サービス"},
		SectionAlerts:   {ID: SectionAlerts, Title: "アラート"},
	}

	for _, r := range results {
		it := Item{
			Key:    r.Metric + ":" + r.Target,
			Label:  r.Target,
			Value:  r.Value,
			Unit:   r.Unit,
			Status: string(r.Status),
		}
		switch r.Metric {
		case "system_load":
			it.Label = "システム負荷"
			sec[SectionLoad].Items = append(sec[SectionLoad].Items, it)
		case "cpu", "memory", "disk":
			it.Note = r.Metric
			sec[SectionServers].Items = append(sec[SectionServers].Items, it)
		case "response_time":
			sec[SectionServices].Items = append(sec[SectionServices].Items, it)
		}
	}

	// Uptime and state notes come straight from the snapshot; they are
	// informational, not classified metrics.
	for _, srv := range snap.Servers {
		sec[SectionServers].Items = append(sec[SectionServers].Items, Item{
			Key:   "state:" + srv.ID,
			Label: srv.Name,
			Note:  fmt.Sprintf("%s / 稼働 %s", srv.Status, srv.Uptime),
		})
	}
	for _, svc := range snap.Services {
		sec[SectionServices].Items = append(sec[SectionServices].Items, Item{
			Key:   "uptime:" + svc.ID,
			Label: svc.Name,
			Value: svc.UptimePct,
			Unit:  "%",
			Note:  string(svc.Status),
		})
	}
	for _, a := range snap.Alerts {
		sec[SectionAlerts].Items = append(sec[SectionAlerts].Items, Item{
			Key:    "alert:" + a.ID,
			Label:  a.Timestamp.Format("15:04"),
			Status: string(a.Type),
			Note:   a.Message,
		})
	}

	return DashboardView{
		Sections: []Section{
			*sec[SectionLoad],
			*sec[SectionServers],
			*sec[SectionServices],
			*sec[SectionAlerts],
		},
		ServerCount:  len(snap.Servers),
		ServiceCount: len(snap.Services),
		AlertCount:   len(snap.Alerts),
	}
}

func (v DashboardView) SectionByID(id string) *Section {
	for i := range v.Sections {
		if v.Sections[i].ID == id {
			return &v.Sections[i]
		}
	}
	return nil
}

func (s Section) ItemByKey(key string) *Item {
	for i := range s.Items {
		if s.Items[i].Key == key {
			return &s.Items[i]
		}
	}
	return nil
}
