// Package mock generates synthetic ITSM dashboard data. Every fetch
// rebuilds the whole estate from the seed tables with fresh randomized
// metrics; generation itself cannot fail.
package mock

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"sync"
	"time"

	"github.com/Kensan196948G/ITSM-ITManagementSystem-sub002/internal/datasource"
	"github.com/Kensan196948G/ITSM-ITManagementSystem-sub002/internal/engine"
)

// Generator is a datasource.SnapshotProvider backed by seeded random
// data. The first fetch is delayed to mimic a backend warming up.
type Generator struct {
	mu     sync.Mutex
	rng    *rand.Rand
	cfg    engine.Config
	delay  time.Duration
	warmed bool
	seq    int
}

type Option func(*Generator)

// WithSeed fixes the random source, making generation deterministic.
func WithSeed(seed int64) Option {
	return func(g *Generator) { g.rng = rand.New(rand.NewSource(seed)) }
}

// WithConfig overrides the thresholds that drive status derivation.
func WithConfig(cfg engine.Config) Option {
	return func(g *Generator) { g.cfg = cfg }
}

// WithInitialDelay overrides the simulated first-load latency. Zero
// disables it.
func WithInitialDelay(d time.Duration) Option {
	return func(g *Generator) { g.delay = d }
}

func New(opts ...Option) *Generator {
	g := &Generator{
		rng:   rand.New(rand.NewSource(time.Now().UnixNano())),
		cfg:   engine.DefaultConfig(),
		delay: -1,
	}
	for _, opt := range opts {
		opt(g)
	}
	if g.delay < 0 {
		// 500ms to 1000ms, like the backend it stands in for.
		g.delay = time.Duration(500+g.rng.Intn(501)) * time.Millisecond
	}
	return g
}

// FetchSnapshot implements datasource.SnapshotProvider. Only the very
// first call pays the warm-up delay; the only possible error is the
// context expiring while waiting it out.
func (g *Generator) FetchSnapshot(ctx context.Context, tr datasource.TimeRange) (*datasource.Snapshot, error) {
	g.mu.Lock()
	var wait time.Duration
	if !g.warmed {
		g.warmed = true
		wait = g.delay
	}
	g.mu.Unlock()

	if wait > 0 {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(wait):
		}
	}

	g.mu.Lock()
	defer g.mu.Unlock()
	return g.generate(time.Now(), tr), nil
}

// ====== GENERATION ======

func (g *Generator) generate(now time.Time, tr datasource.TimeRange) *datasource.Snapshot {
	return &datasource.Snapshot{
		GeneratedAt:   now,
		TimeRange:     tr,
		SystemLoad:    math.Round(g.between(30, 90)),
		Servers:       g.servers(),
		Services:      g.services(now),
		Alerts:        g.alerts(now),
		RiskTickets:   g.riskTickets(now),
		RecentTickets: g.recentTickets(now),
		CategorySLA:   g.categorySLA(),
		PrioritySLA:   g.prioritySLA(),
		Escalations:   g.escalations(now),
		Agents:        g.agents(),
		ResponseTrend: g.trendSeries(now, tr, 25, 12),
		TicketVolume:  g.trendSeries(now, tr, 18, 10),
	}
}

func (g *Generator) servers() []datasource.ServerStatus {
	out := make([]datasource.ServerStatus, 0, len(serverSeeds))
	for _, s := range serverSeeds {
		cpu := round1(g.between(20, 80))
		out = append(out, datasource.ServerStatus{
			ID:     s.id,
			Name:   s.name,
			Status: serverState(engine.Classify(cpu, g.cfg.CPU)),
			CPU:    cpu,
			Memory: round1(g.between(30, 85)),
			Disk:   round1(g.between(20, 90)),
			Uptime: fmt.Sprintf("%d日%d時間", 10+g.rng.Intn(390), g.rng.Intn(24)),
		})
	}
	return out
}

func (g *Generator) services(now time.Time) []datasource.ServiceStatus {
	out := make([]datasource.ServiceStatus, 0, len(serviceSeeds))
	for _, s := range serviceSeeds {
		resp := round1(g.between(20, 50))
		out = append(out, datasource.ServiceStatus{
			ID:             s.id,
			Name:           s.name,
			Status:         serviceState(engine.Classify(resp, g.cfg.ResponseMS)),
			ResponseTimeMS: resp,
			UptimePct:      round2(g.between(99.5, 100)),
			LastCheck:      now,
		})
	}
	return out
}

// Status derivation: entity states are pure functions of the driving
// metric, never rolled independently.
func serverState(s engine.Status) datasource.ServerState {
	switch s {
	case engine.StatusCritical:
		return datasource.ServerOffline
	case engine.StatusWarning:
		return datasource.ServerWarning
	default:
		return datasource.ServerOnline
	}
}

func serviceState(s engine.Status) datasource.ServiceState {
	switch s {
	case engine.StatusCritical:
		return datasource.ServiceOutage
	case engine.StatusWarning:
		return datasource.ServiceDegraded
	default:
		return datasource.ServiceOperational
	}
}

func (g *Generator) alerts(now time.Time) []datasource.Alert {
	n := 3 + g.rng.Intn(3)
	idx := g.rng.Perm(len(alertSeeds))[:n]
	out := make([]datasource.Alert, 0, n)
	for _, i := range idx {
		s := alertSeeds[i]
		g.seq++
		out = append(out, datasource.Alert{
			ID:        fmt.Sprintf("ALT-%04d", g.seq),
			Type:      datasource.AlertType(s.typ),
			Message:   s.message,
			Timestamp: now.Add(-time.Duration(1+g.rng.Intn(120)) * time.Minute),
			Source:    s.source,
		})
	}
	return out
}

func (g *Generator) riskTickets(now time.Time) []datasource.Ticket {
	n := 3 + g.rng.Intn(4)
	out := make([]datasource.Ticket, 0, n)
	for i := 0; i < n; i++ {
		g.seq++
		// Deadlines cluster in the next six hours; occasionally one has
		// already slipped past.
		offset := time.Duration(g.rng.Intn(360)) * time.Minute
		if g.rng.Intn(5) == 0 {
			offset = -time.Duration(10+g.rng.Intn(120)) * time.Minute
		}
		deadline := now.Add(offset)
		prio := datasource.PriorityHigh
		if g.rng.Intn(3) == 0 {
			prio = datasource.PriorityCritical
		}
		out = append(out, datasource.Ticket{
			ID:          fmt.Sprintf("TCK-%04d", g.seq),
			Title:       g.pick(ticketTitles),
			Priority:    prio,
			Status:      "対応中",
			Assignee:    g.pick(assigneeNames),
			Created:     now.Add(-time.Duration(1+g.rng.Intn(48)) * time.Hour),
			Category:    g.pick(ticketCategories),
			SLADeadline: &deadline,
		})
	}
	return out
}

func (g *Generator) recentTickets(now time.Time) []datasource.Ticket {
	priorities := []datasource.Priority{
		datasource.PriorityCritical,
		datasource.PriorityHigh,
		datasource.PriorityMedium,
		datasource.PriorityLow,
	}
	statuses := []string{"新規", "対応中", "保留", "解決済み"}

	n := 6 + g.rng.Intn(5)
	out := make([]datasource.Ticket, 0, n)
	for i := 0; i < n; i++ {
		g.seq++
		tk := datasource.Ticket{
			ID:       fmt.Sprintf("INC-%04d", g.seq),
			Title:    g.pick(ticketTitles),
			Priority: priorities[g.rng.Intn(len(priorities))],
			Status:   statuses[g.rng.Intn(len(statuses))],
			Assignee: g.pick(assigneeNames),
			Created:  now.Add(-time.Duration(1+g.rng.Intn(72)) * time.Hour),
			Category: g.pick(ticketCategories),
		}
		if tk.Status != "解決済み" {
			d := tk.Created.Add(time.Duration(8+g.rng.Intn(40)) * time.Hour)
			tk.SLADeadline = &d
		}
		out = append(out, tk)
	}
	return out
}

func (g *Generator) categorySLA() []datasource.CategorySLAStats {
	out := make([]datasource.CategorySLAStats, 0, len(ticketCategories))
	for _, cat := range ticketCategories {
		total := 20 + g.rng.Intn(41)
		violations := g.rng.Intn(6)
		onTime := total - violations
		rate := engine.ComplianceRate(onTime, total)
		out = append(out, datasource.CategorySLAStats{
			Category:         cat,
			OnTime:           onTime,
			Total:            total,
			ComplianceRate:   rate,
			AvgResponseHours: round1(g.between(1, 6)),
			ViolationCount:   violations,
			Trend:            g.trendFor(rate),
		})
	}
	return out
}

// trendFor classifies a rate against a simulated previous period.
func (g *Generator) trendFor(rate float64) datasource.Trend {
	prev := rate + g.between(-4, 4)
	return engine.ClassifyTrend(prev, rate, 1.0)
}

func (g *Generator) prioritySLA() []datasource.PrioritySLAStats {
	targets := []struct {
		prio  datasource.Priority
		hours float64
	}{
		{datasource.PriorityCritical, 2},
		{datasource.PriorityHigh, 4},
		{datasource.PriorityMedium, 8},
		{datasource.PriorityLow, 24},
	}
	out := make([]datasource.PrioritySLAStats, 0, len(targets))
	for _, t := range targets {
		total := 10 + g.rng.Intn(31)
		onTime := total - g.rng.Intn(4)
		rate := engine.ComplianceRate(onTime, total)
		out = append(out, datasource.PrioritySLAStats{
			Priority:       t.prio,
			OnTime:         onTime,
			Total:          total,
			ComplianceRate: rate,
			TargetHours:    t.hours,
			Trend:          g.trendFor(rate),
		})
	}
	return out
}

func (g *Generator) escalations(now time.Time) []datasource.EscalationEvent {
	states := []datasource.EscalationState{
		datasource.EscalationCompleted,
		datasource.EscalationPending,
		datasource.EscalationCancelled,
	}
	n := 2 + g.rng.Intn(3)
	out := make([]datasource.EscalationEvent, 0, n)
	for i := 0; i < n; i++ {
		g.seq++
		from := g.rng.Intn(len(supportTiers) - 1)
		out = append(out, datasource.EscalationEvent{
			ID:        fmt.Sprintf("ESC-%04d", g.seq),
			TicketID:  fmt.Sprintf("TCK-%04d", 1+g.rng.Intn(999)),
			Timestamp: now.Add(-time.Duration(g.rng.Intn(720)) * time.Minute),
			From:      supportTiers[from],
			To:        supportTiers[from+1],
			Reason:    g.pick(escalationReasons),
			Status:    states[g.rng.Intn(len(states))],
		})
	}
	return out
}

func (g *Generator) agents() []datasource.AgentPerformance {
	out := make([]datasource.AgentPerformance, 0, len(assigneeNames))
	for _, name := range assigneeNames {
		out = append(out, datasource.AgentPerformance{
			Name:             name,
			Resolved:         10 + g.rng.Intn(41),
			AvgResponseHours: round1(g.between(0.5, 5)),
			SatisfactionPct:  round1(g.between(70, 100)),
		})
	}
	return out
}

// trendSeries synthesizes a chart series for the selected window. A
// diurnal sine carries the shape, noise keeps it from looking canned.
func (g *Generator) trendSeries(now time.Time, tr datasource.TimeRange, base, amplitude float64) []datasource.MetricPoint {
	type window struct {
		points int
		step   time.Duration
		label  string
	}
	w := map[datasource.TimeRange]window{
		datasource.Range1D:  {24, time.Hour, "15時"},
		datasource.Range7D:  {7, 24 * time.Hour, "1/2"},
		datasource.Range30D: {30, 24 * time.Hour, "1/2"},
		datasource.Range90D: {13, 7 * 24 * time.Hour, "1/2"},
	}[tr]
	if w.points == 0 {
		w = window{7, 24 * time.Hour, "1/2"}
	}

	out := make([]datasource.MetricPoint, 0, w.points)
	for i := 0; i < w.points; i++ {
		ts := now.Add(-time.Duration(w.points-1-i) * w.step)
		phase := 2 * math.Pi * float64(ts.Hour()) / 24
		value := base + amplitude*math.Sin(phase) + g.between(-3, 3)
		if value < 0 {
			value = 0
		}
		out = append(out, datasource.MetricPoint{
			Label: ts.Format(w.label),
			Value: round1(value),
		})
	}
	return out
}

// ====== HELPERS ======

func (g *Generator) between(lo, hi float64) float64 {
	return lo + g.rng.Float64()*(hi-lo)
}

func (g *Generator) pick(list []string) string {
	return list[g.rng.Intn(len(list))]
}

func round1(v float64) float64 { return math.Round(v*10) / 10 }
func round2(v float64) float64 { return math.Round(v*100) / 100 }
