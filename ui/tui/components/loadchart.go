package components

import (
	"github.com/NimbleMarkets/ntcharts/canvas"
	"github.com/NimbleMarkets/ntcharts/linechart"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/Kensan196948G/ITSM-ITManagementSystem-sub002/internal/engine"
	"github.com/Kensan196948G/ITSM-ITManagementSystem-sub002/ui/tui/styles"
)

// LoadChart plots the rolling system-load history.
type LoadChart struct {
	Chart   linechart.Model
	History []float64
	Width   int
	Height  int
}

func NewLoadChart(width, height int) *LoadChart {
	// width, height, minX, maxX, minY, maxY
	lc := linechart.New(width, height, 0, float64(engine.HistorySize), 0, 100)
	return &LoadChart{
		Chart:   lc,
		History: make([]float64, 0, engine.HistorySize),
		Width:   width,
		Height:  height,
	}
}

func (c *LoadChart) Init() tea.Cmd {
	return nil
}

// SetHistory replaces the plotted series with the refresher's rolling
// window, oldest first.
func (c *LoadChart) SetHistory(values []float64) {
	if len(values) > engine.HistorySize {
		values = values[len(values)-engine.HistorySize:]
	}
	c.History = values
}

func (c *LoadChart) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	return c, nil
}

func (c *LoadChart) Resize(w, h int) {
	c.Width = w
	c.Height = h
	c.Chart.Resize(w, h)
}

func (c *LoadChart) View() string {
	c.Chart.Clear()
	for i := 0; i < len(c.History)-1; i++ {
		y1 := c.History[i]
		y2 := c.History[i+1]
		c.Chart.DrawBrailleLine(
			canvas.Float64Point{X: float64(i), Y: y1},
			canvas.Float64Point{X: float64(i + 1), Y: y2},
		)
	}
	c.Chart.DrawXYAxisAndLabel()

	return styles.CardStyle.Render(
		lipgloss.JoinVertical(lipgloss.Left,
			lipgloss.NewStyle().Bold(true).Render("負荷履歴"),
			c.Chart.View(),
		),
	)
}
