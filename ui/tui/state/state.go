package state

import (
	"time"

	"github.com/Kensan196948G/ITSM-ITManagementSystem-sub002/internal/datasource"
	"github.com/Kensan196948G/ITSM-ITManagementSystem-sub002/internal/engine"
	"github.com/Kensan196948G/ITSM-ITManagementSystem-sub002/internal/output"
)

type Page int

const (
	PageMenu Page = iota
	PageRealtime    // "リアルタイム監視"
	PagePerformance // "パフォーマンス分析"
	PageSLA         // "SLA監視"
	PageIncidents   // "インシデント一覧"
)

// AppState holds the last published snapshot and the view models
// derived from it.
type AppState struct {
	Snapshot    *datasource.Snapshot
	Results     []engine.CheckResult
	View        output.DashboardView
	Report      output.SLAReport
	LastUpdate  time.Time
	Err         error
	CurrentPage Page

	// PriorityFilter narrows the incident list; empty means all.
	PriorityFilter datasource.Priority
}
