package tui

import (
	"context"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/Kensan196948G/ITSM-ITManagementSystem-sub002/internal/datasource"
	"github.com/Kensan196948G/ITSM-ITManagementSystem-sub002/internal/datasource/mock"
	"github.com/Kensan196948G/ITSM-ITManagementSystem-sub002/internal/engine"
	"github.com/Kensan196948G/ITSM-ITManagementSystem-sub002/ui/tui/state"
)

func newModel() MainModel {
	provider := mock.New(mock.WithSeed(1), mock.WithInitialDelay(0))
	r := engine.NewRefresher(provider)
	return InitialModel(r, engine.DefaultConfig())
}

func TestMenuNavigation(t *testing.T) {
	model := newModel()

	// Initial state
	if model.menuCursor != 0 {
		t.Errorf("Expected initial menu cursor 0, got %d", model.menuCursor)
	}
	if model.state.CurrentPage != state.PageMenu {
		t.Errorf("Expected initial page PageMenu, got %v", model.state.CurrentPage)
	}

	// Test Down Navigation
	cmd := tea.KeyMsg{Type: tea.KeyDown, Runes: []rune{}, Alt: false}
	updatedModel, _ := model.Update(cmd)
	m := updatedModel.(*MainModel)

	if m.menuCursor != 1 {
		t.Errorf("Expected menu cursor 1 after Down key, got %d", m.menuCursor)
	}

	// Test Up Navigation
	cmd = tea.KeyMsg{Type: tea.KeyUp, Runes: []rune{}, Alt: false}
	updatedModel, _ = m.Update(cmd)
	m = updatedModel.(*MainModel)

	if m.menuCursor != 0 {
		t.Errorf("Expected menu cursor 0 after Up key, got %d", m.menuCursor)
	}

	// Cursor never walks past the last entry
	for i := 0; i < 10; i++ {
		updatedModel, _ = m.Update(tea.KeyMsg{Type: tea.KeyDown})
		m = updatedModel.(*MainModel)
	}
	if m.menuCursor != 3 {
		t.Errorf("Expected menu cursor to stop at 3, got %d", m.menuCursor)
	}
}

func TestMenuAnimationLogic(t *testing.T) {
	model := newModel()

	// Move cursor to 1
	model.menuCursor = 1

	// Initial animation cursor should be 0
	if model.animCursor != 0 {
		t.Errorf("Expected initial animCursor 0, got %f", model.animCursor)
	}

	// Simulate a few animation frames
	// The spring physics should move animCursor towards menuCursor (1.0)

	// Frame 1
	animateMsg := AnimateMsg(time.Now())
	updatedModel, _ := model.Update(animateMsg)
	m := updatedModel.(*MainModel)

	if m.animCursor <= 0 {
		t.Errorf("Expected animCursor to increase after animation frame, got %f", m.animCursor)
	}
	if m.animCursor >= 1.0 {
		t.Errorf("Expected animCursor to not reach target immediately, got %f", m.animCursor)
	}

	// Frame 2
	updatedModel, _ = m.Update(animateMsg)
	m = updatedModel.(*MainModel)
	prevCursor := m.animCursor

	// Frame 3
	updatedModel, _ = m.Update(animateMsg)
	m = updatedModel.(*MainModel)

	if m.animCursor <= prevCursor {
		t.Errorf("Expected animCursor to continue increasing, got %f (prev %f)", m.animCursor, prevCursor)
	}
}

func TestPageTransition(t *testing.T) {
	model := newModel()

	// Select first item (Realtime)
	model.menuCursor = 0
	cmd := tea.KeyMsg{Type: tea.KeyEnter, Runes: []rune{}, Alt: false}
	updatedModel, _ := model.Update(cmd)
	m := updatedModel.(*MainModel)

	if m.state.CurrentPage != state.PageRealtime {
		t.Errorf("Expected page to change to PageRealtime, got %v", m.state.CurrentPage)
	}

	// Go Back
	cmd = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'b'}, Alt: false}
	updatedModel, _ = m.Update(cmd)
	m = updatedModel.(*MainModel)

	if m.state.CurrentPage != state.PageMenu {
		t.Errorf("Expected page to change back to PageMenu, got %v", m.state.CurrentPage)
	}
}

func TestAutoRefreshToggle(t *testing.T) {
	model := newModel()

	if !model.refresher.AutoRefresh() {
		t.Fatal("auto refresh should start on")
	}

	cmd := tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'a'}}
	updatedModel, _ := model.Update(cmd)
	m := updatedModel.(*MainModel)

	if m.refresher.AutoRefresh() {
		t.Error("Expected auto refresh off after 'a'")
	}

	updatedModel, _ = m.Update(cmd)
	m = updatedModel.(*MainModel)
	if !m.refresher.AutoRefresh() {
		t.Error("Expected auto refresh back on after second 'a'")
	}
}

func TestIntervalCycling(t *testing.T) {
	model := newModel()

	if model.refresher.Interval() != time.Minute {
		t.Fatalf("expected default interval 1m, got %v", model.refresher.Interval())
	}

	cmd := tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'i'}}
	updatedModel, _ := model.Update(cmd)
	m := updatedModel.(*MainModel)

	if m.refresher.Interval() != 5*time.Minute {
		t.Errorf("expected 5m after one cycle, got %v", m.refresher.Interval())
	}

	// Three more presses wrap back to 1m
	for i := 0; i < 3; i++ {
		updatedModel, _ = m.Update(cmd)
		m = updatedModel.(*MainModel)
	}
	if m.refresher.Interval() != time.Minute {
		t.Errorf("expected interval to wrap to 1m, got %v", m.refresher.Interval())
	}
}

func TestTimeRangeCycling(t *testing.T) {
	model := newModel()

	if model.refresher.TimeRange() != datasource.Range7D {
		t.Fatalf("expected default range 7d, got %v", model.refresher.TimeRange())
	}

	cmd := tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'t'}}
	updatedModel, _ := model.Update(cmd)
	m := updatedModel.(*MainModel)

	if m.refresher.TimeRange() != datasource.Range30D {
		t.Errorf("expected 30d after one cycle, got %v", m.refresher.TimeRange())
	}
}

func TestPriorityFilterCycling(t *testing.T) {
	model := newModel()
	model.state.CurrentPage = state.PageIncidents

	cmd := tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'p'}}
	updatedModel, _ := model.Update(cmd)
	m := updatedModel.(*MainModel)

	if m.state.PriorityFilter != datasource.PriorityCritical {
		t.Errorf("expected critical filter first, got %q", m.state.PriorityFilter)
	}

	// Full cycle returns to unfiltered
	for i := 0; i < 4; i++ {
		updatedModel, _ = m.Update(cmd)
		m = updatedModel.(*MainModel)
	}
	if m.state.PriorityFilter != "" {
		t.Errorf("expected filter to wrap to all, got %q", m.state.PriorityFilter)
	}
}

func TestIncidentDetailToggle(t *testing.T) {
	model := newModel()
	model.state.CurrentPage = state.PageIncidents

	enter := tea.KeyMsg{Type: tea.KeyEnter}
	updatedModel, _ := model.Update(enter)
	m := updatedModel.(*MainModel)
	if !m.detailOpen {
		t.Error("Expected detail pane open after Enter")
	}

	updatedModel, _ = m.Update(enter)
	m = updatedModel.(*MainModel)
	if m.detailOpen {
		t.Error("Expected detail pane closed after second Enter")
	}

	// Leaving the page resets the pane
	m.detailOpen = true
	updatedModel, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'b'}})
	m = updatedModel.(*MainModel)
	if m.detailOpen || m.state.CurrentPage != state.PageMenu {
		t.Error("Expected back key to close detail and return to menu")
	}
}

func TestSnapshotMsgUpdatesState(t *testing.T) {
	model := newModel()

	provider := mock.New(mock.WithSeed(3), mock.WithInitialDelay(0))
	fetched, err := provider.FetchSnapshot(context.Background(), datasource.Range7D)
	if err != nil {
		t.Fatalf("fetch failed: %v", err)
	}

	updatedModel, _ := model.Update(SnapshotMsg{Snap: fetched})
	m := updatedModel.(*MainModel)

	if m.state.Snapshot != fetched {
		t.Error("snapshot not installed into state")
	}
	if len(m.state.Results) == 0 {
		t.Error("evaluation results missing")
	}
	if len(m.state.View.Sections) != 4 {
		t.Errorf("dashboard view has %d sections, want 4", len(m.state.View.Sections))
	}
	if len(m.state.Report.RiskRows) == 0 {
		t.Error("SLA report missing risk rows")
	}
	if m.state.LastUpdate.IsZero() {
		t.Error("last update not stamped")
	}
}
