package views

import (
	"github.com/Kensan196948G/ITSM-ITManagementSystem-sub002/ui/tui/state"
)

func RenderMenu(s state.AppState, props ViewProps) string {
	v := MenuView{}
	return v.Render(s, props)
}

func RenderRealtime(s state.AppState, props ViewProps) string {
	v := RealtimeView{}
	return v.Render(s, props)
}

func RenderPerformance(s state.AppState, props ViewProps) string {
	v := PerformanceView{}
	return v.Render(s, props)
}

func RenderSLA(s state.AppState, props ViewProps) string {
	v := SLAView{}
	return v.Render(s, props)
}

func RenderIncidents(s state.AppState, props ViewProps) string {
	v := IncidentsView{}
	return v.Render(s, props)
}
