package tui

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/harmonica"
	"github.com/charmbracelet/lipgloss"
	zone "github.com/lrstanley/bubblezone"

	"github.com/Kensan196948G/ITSM-ITManagementSystem-sub002/internal/datasource"
	"github.com/Kensan196948G/ITSM-ITManagementSystem-sub002/internal/engine"
	"github.com/Kensan196948G/ITSM-ITManagementSystem-sub002/internal/output"
	"github.com/Kensan196948G/ITSM-ITManagementSystem-sub002/ui/tui/components"
	"github.com/Kensan196948G/ITSM-ITManagementSystem-sub002/ui/tui/state"
	"github.com/Kensan196948G/ITSM-ITManagementSystem-sub002/ui/tui/views"
)

// MainModel is the Bubble Tea Model acting as the Controller
type MainModel struct {
	refresher  *engine.Refresher
	config     engine.Config
	state      state.AppState
	spinner    spinner.Model
	loadChart  *components.LoadChart
	menuCursor int
	animCursor float64
	velocity   float64 // Physics velocity
	spring     harmonica.Spring
	scrollY    int
	detailOpen bool
	mouseX     int
	mouseY     int
	quitting   bool
	width      int
	height     int
}

// Messages
type AnimateMsg time.Time
type SnapshotMsg struct {
	Snap *datasource.Snapshot
}
type RefreshFailedMsg struct {
	Err error
}

func InitialModel(r *engine.Refresher, cfg engine.Config) MainModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))

	chart := components.NewLoadChart(30, 10)

	// Initialize physics spring for smooth cursor animation
	// Increased frequency (12.0) for faster response and damping (0.9) to prevent overshoot
	spring := harmonica.NewSpring(harmonica.FPS(60), 12.0, 0.9)

	return MainModel{
		refresher: r,
		config:    cfg,
		spinner:   s,
		loadChart: chart,
		spring:    spring,
		state: state.AppState{
			CurrentPage: state.PageMenu,
		},
	}
}

func (m *MainModel) Init() tea.Cmd {
	zone.NewGlobal()
	m.refresher.Start(context.Background())
	return tea.Batch(
		m.spinner.Tick,
		animateCmd(),
		waitForSnapshotCmd(m.refresher),
	)
}

// Commands
func animateCmd() tea.Cmd {
	return tea.Tick(time.Millisecond*16, func(t time.Time) tea.Msg {
		return AnimateMsg(t)
	})
}

func waitForSnapshotCmd(r *engine.Refresher) tea.Cmd {
	return func() tea.Msg {
		snap, ok := <-r.Updates()
		if !ok {
			return nil
		}
		return SnapshotMsg{Snap: snap}
	}
}

func refreshNowCmd(r *engine.Refresher) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := r.RefreshNow(ctx); err != nil {
			return RefreshFailedMsg{Err: err}
		}
		return nil
	}
}

func (m *MainModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKeyMsg(msg)

	case AnimateMsg:
		return m.handleAnimateMsg(msg)

	case tea.WindowSizeMsg:
		return m.handleWindowSizeMsg(msg)

	case SnapshotMsg:
		return m.handleSnapshotMsg(msg)

	case RefreshFailedMsg:
		m.state.Err = msg.Err
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.MouseMsg:
		return m.handleMouseMsg(msg)
	}

	return m, nil
}

func (m *MainModel) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		m.quitting = true
		m.refresher.Stop()
		return m, tea.Quit

	case "a":
		m.refresher.SetAutoRefresh(!m.refresher.AutoRefresh())
		return m, nil

	case "i":
		m.refresher.SetInterval(nextInterval(m.refresher.Interval()))
		return m, nil

	case "t":
		m.refresher.SetTimeRange(nextTimeRange(m.refresher.TimeRange()))
		return m, refreshNowCmd(m.refresher)

	case "r":
		return m, refreshNowCmd(m.refresher)
	}

	if m.state.CurrentPage == state.PageMenu {
		switch msg.String() {
		case "up", "k":
			if m.menuCursor > 0 {
				m.menuCursor--
			}
		case "down", "j":
			if m.menuCursor < len(views.MenuOptions)-1 {
				m.menuCursor++
			}
		case "enter":
			m.navigateTo(m.menuCursor)
		}
		return m, nil
	}

	if m.state.CurrentPage == state.PageIncidents {
		switch msg.String() {
		case "up", "k":
			if m.scrollY > 0 {
				m.scrollY--
			}
		case "down", "j":
			m.scrollY++
		case "enter":
			m.detailOpen = !m.detailOpen
		case "p":
			m.state.PriorityFilter = nextPriority(m.state.PriorityFilter)
			m.scrollY = 0
			m.detailOpen = false
		}
	}

	if msg.String() == "b" || msg.String() == "esc" || msg.String() == "backspace" {
		m.state.CurrentPage = state.PageMenu
		m.scrollY = 0
		m.detailOpen = false
		return m, nil
	}

	return m, nil
}

func (m *MainModel) navigateTo(cursor int) {
	switch cursor {
	case 0:
		m.state.CurrentPage = state.PageRealtime
	case 1:
		m.state.CurrentPage = state.PagePerformance
	case 2:
		m.state.CurrentPage = state.PageSLA
	case 3:
		m.state.CurrentPage = state.PageIncidents
	}
}

// nextInterval cycles through the supported refresh intervals.
func nextInterval(cur time.Duration) time.Duration {
	for i, d := range engine.Intervals {
		if d == cur {
			return engine.Intervals[(i+1)%len(engine.Intervals)]
		}
	}
	return engine.Intervals[0]
}

// nextTimeRange cycles through the aggregation windows.
func nextTimeRange(cur datasource.TimeRange) datasource.TimeRange {
	for i, tr := range datasource.TimeRanges {
		if tr == cur {
			return datasource.TimeRanges[(i+1)%len(datasource.TimeRanges)]
		}
	}
	return datasource.Range7D
}

// nextPriority cycles the incident filter: all -> critical -> high ->
// medium -> low -> all.
func nextPriority(cur datasource.Priority) datasource.Priority {
	order := []datasource.Priority{
		"",
		datasource.PriorityCritical,
		datasource.PriorityHigh,
		datasource.PriorityMedium,
		datasource.PriorityLow,
	}
	for i, p := range order {
		if p == cur {
			return order[(i+1)%len(order)]
		}
	}
	return ""
}

func (m *MainModel) handleAnimateMsg(msg AnimateMsg) (tea.Model, tea.Cmd) {
	var v float64 = m.velocity
	m.animCursor, v = m.spring.Update(m.animCursor, float64(m.menuCursor), v)
	m.velocity = v
	return m, animateCmd()
}

func (m *MainModel) handleWindowSizeMsg(msg tea.WindowSizeMsg) (tea.Model, tea.Cmd) {
	m.width = msg.Width
	m.height = msg.Height
	newW := msg.Width/2 - 6
	if newW > 10 {
		m.loadChart.Resize(newW, 10)
	}
	return m, nil
}

func (m *MainModel) handleSnapshotMsg(msg SnapshotMsg) (tea.Model, tea.Cmd) {
	snap := msg.Snap
	m.state.Snapshot = snap
	m.state.Err = nil
	m.state.Results = engine.Evaluate(snap, m.config)
	m.state.View = output.BuildRealtime(snap, m.state.Results)
	m.state.Report = output.BuildSLAReport(snap, time.Now(), m.config.SLAAlert)
	m.state.LastUpdate = time.Now()

	m.loadChart.SetHistory(m.refresher.HistoryValues())

	return m, waitForSnapshotCmd(m.refresher)
}

func (m *MainModel) handleMouseMsg(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	m.mouseX = msg.X
	m.mouseY = msg.Y

	if msg.Action == tea.MouseActionRelease && m.state.CurrentPage == state.PageMenu {
		for i := range views.MenuOptions {
			if zone.Get(fmt.Sprintf("menu_%d", i)).InBounds(msg) {
				m.menuCursor = i
				m.navigateTo(i)
				return m, nil
			}
		}
	}
	return m, nil
}

func (m *MainModel) props() views.ViewProps {
	return views.ViewProps{
		Width:       m.width,
		Height:      m.height,
		MouseX:      m.mouseX,
		MouseY:      m.mouseY,
		MenuCursor:  m.menuCursor,
		AnimCursor:  m.animCursor,
		SpinnerView: m.spinner.View(),
		ChartView:   m.loadChart.View(),
		ScrollY:     m.scrollY,
		AutoRefresh: m.refresher.AutoRefresh(),
		Interval:    m.refresher.Interval(),
		TimeRange:   m.refresher.TimeRange(),
		DetailOpen:  m.detailOpen,
		SLAAlert:    m.config.SLAAlert,
	}
}

func (m *MainModel) View() string {
	if m.quitting {
		return "Bye!\n"
	}

	switch m.state.CurrentPage {
	case state.PageMenu:
		return views.RenderMenu(m.state, m.props())
	case state.PageRealtime:
		return views.RenderRealtime(m.state, m.props())
	case state.PagePerformance:
		return views.RenderPerformance(m.state, m.props())
	case state.PageSLA:
		return views.RenderSLA(m.state, m.props())
	case state.PageIncidents:
		return views.RenderIncidents(m.state, m.props())
	default:
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center,
			lipgloss.NewStyle().Bold(true).Render("Press 'b' to go back"),
		)
	}
}

func Start(r *engine.Refresher, cfg engine.Config) error {
	m := InitialModel(r, cfg)
	p := tea.NewProgram(
		&m,
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
	)
	_, err := p.Run()
	return err
}
