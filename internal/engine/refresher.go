package engine

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/Kensan196948G/ITSM-ITManagementSystem-sub002/internal/datasource"
)

// Intervals are the refresh periods the console offers, in UI cycling
// order. SetInterval rejects anything not listed here.
var Intervals = []time.Duration{
	30 * time.Second,
	time.Minute,
	5 * time.Minute,
	10 * time.Minute,
}

// ValidInterval reports whether d is one of the offered periods.
func ValidInterval(d time.Duration) bool {
	for _, iv := range Intervals {
		if d == iv {
			return true
		}
	}
	return false
}

// Refresher drives the dashboard's data lifecycle: it fetches
// snapshots from a provider on a timer, keeps the rolling load
// history, and publishes accepted snapshots to the UI.
//
// All fetching happens on a single goroutine, so ticks never overlap.
// A fetched snapshot whose headline load equals the current one is
// discarded without touching the current pointer or the history.
type Refresher struct {
	provider datasource.SnapshotProvider
	history  *History
	updates  chan *datasource.Snapshot

	mu          sync.Mutex
	interval    time.Duration
	autoRefresh bool
	timeRange   datasource.TimeRange
	current     *datasource.Snapshot
	running     bool

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewRefresher builds a stopped refresher with the default interval
// (60s), auto refresh on, and an empty history window.
func NewRefresher(provider datasource.SnapshotProvider) *Refresher {
	return &Refresher{
		provider:    provider,
		history:     NewHistory(HistorySize),
		updates:     make(chan *datasource.Snapshot, 1),
		interval:    time.Minute,
		autoRefresh: true,
		timeRange:   datasource.Range7D,
	}
}

// Start launches the refresh loop. The first fetch always runs, even
// with auto refresh off, so the dashboard never opens empty. Calling
// Start on a running refresher is a no-op.
func (r *Refresher) Start(ctx context.Context) {
	r.mu.Lock()
	if r.running {
		r.mu.Unlock()
		return
	}
	r.running = true
	ctx, r.cancel = context.WithCancel(ctx)
	r.mu.Unlock()

	r.wg.Add(1)
	go r.loop(ctx)
}

// Stop cancels the loop and waits for it to exit. No timers survive.
func (r *Refresher) Stop() {
	r.mu.Lock()
	if !r.running {
		r.mu.Unlock()
		return
	}
	r.running = false
	cancel := r.cancel
	r.mu.Unlock()

	cancel()
	r.wg.Wait()
}

func (r *Refresher) loop(ctx context.Context) {
	defer r.wg.Done()

	// Initial load, regardless of the auto-refresh switch.
	r.refresh(ctx)

	iv := r.Interval()
	ticker := time.NewTicker(iv)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if r.AutoRefresh() {
				r.refresh(ctx)
			}
			if next := r.Interval(); next != iv {
				iv = next
				ticker.Reset(iv)
			}
		}
	}
}

// RefreshNow fetches once immediately, bypassing the auto-refresh
// switch. Used by the manual refresh key.
func (r *Refresher) RefreshNow(ctx context.Context) error {
	return r.refresh(ctx)
}

func (r *Refresher) refresh(ctx context.Context) error {
	snap, err := r.provider.FetchSnapshot(ctx, r.TimeRange())
	if err != nil {
		return fmt.Errorf("fetch snapshot: %w", err)
	}
	if r.apply(snap) {
		select {
		case r.updates <- snap:
		default:
			// UI is behind; it will pick up the latest via Snapshot().
		}
	}
	return nil
}

// apply installs a snapshot unless its headline load matches the
// current one, in which case the cycle is a no-op and the current
// pointer stays intact. Returns whether the snapshot was installed.
func (r *Refresher) apply(snap *datasource.Snapshot) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.current != nil && r.current.SystemLoad == snap.SystemLoad {
		return false
	}
	r.current = snap
	r.history.Push(LoadPoint{Time: snap.GeneratedAt, Load: snap.SystemLoad})
	return true
}

// Updates delivers installed snapshots. The channel holds one element;
// a slow consumer only ever misses intermediate snapshots, never the
// latest, which Snapshot() always has.
func (r *Refresher) Updates() <-chan *datasource.Snapshot {
	return r.updates
}

// Snapshot returns the currently installed snapshot, nil before the
// initial load completes.
func (r *Refresher) Snapshot() *datasource.Snapshot {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.current
}

// HistoryPoints returns the rolling load window, oldest first.
func (r *Refresher) HistoryPoints() []LoadPoint {
	return r.history.Points()
}

// HistoryValues returns just the load values, for the chart.
func (r *Refresher) HistoryValues() []float64 {
	return r.history.Values()
}

func (r *Refresher) AutoRefresh() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.autoRefresh
}

// SetAutoRefresh flips the timer gate. The loop keeps ticking either
// way; with the gate off a tick fetches nothing.
func (r *Refresher) SetAutoRefresh(on bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.autoRefresh = on
}

func (r *Refresher) Interval() time.Duration {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.interval
}

// SetInterval changes the refresh period. Only the offered periods are
// accepted; the change takes effect at the next tick boundary.
func (r *Refresher) SetInterval(d time.Duration) error {
	if !ValidInterval(d) {
		return fmt.Errorf("unsupported refresh interval %s", d)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.interval = d
	return nil
}

func (r *Refresher) TimeRange() datasource.TimeRange {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.timeRange
}

func (r *Refresher) SetTimeRange(tr datasource.TimeRange) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.timeRange = tr
}
