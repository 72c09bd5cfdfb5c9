package engine

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/Kensan196948G/ITSM-ITManagementSystem-sub002/internal/datasource"
)

// scriptedProvider returns snapshots with a fixed load sequence and
// counts invocations.
type scriptedProvider struct {
	loads []float64
	calls atomic.Int64
}

func (p *scriptedProvider) FetchSnapshot(_ context.Context, tr datasource.TimeRange) (*datasource.Snapshot, error) {
	n := p.calls.Add(1)
	load := p.loads[len(p.loads)-1]
	if int(n) <= len(p.loads) {
		load = p.loads[n-1]
	}
	return &datasource.Snapshot{
		GeneratedAt: time.Now(),
		TimeRange:   tr,
		SystemLoad:  load,
	}, nil
}

func waitFor(t *testing.T, timeout time.Duration, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(time.Millisecond)
	}
	t.Fatal("condition not met before timeout")
}

func TestRefresherInitialLoadWithAutoRefreshOff(t *testing.T) {
	p := &scriptedProvider{loads: []float64{50}}
	r := NewRefresher(p)
	r.SetAutoRefresh(false)
	r.interval = 10 * time.Millisecond // shrink the tick for the test

	r.Start(context.Background())
	defer r.Stop()

	// Initial load fires even with auto refresh off.
	waitFor(t, time.Second, func() bool { return r.Snapshot() != nil })

	// Several tick periods later, still exactly one fetch.
	time.Sleep(60 * time.Millisecond)
	if got := p.calls.Load(); got != 1 {
		t.Errorf("provider called %d times with auto refresh off, want 1", got)
	}
	if len(r.HistoryPoints()) != 1 {
		t.Errorf("history has %d points, want 1", len(r.HistoryPoints()))
	}
}

func TestRefresherSkipsUnchangedLoad(t *testing.T) {
	p := &scriptedProvider{loads: []float64{50, 50, 60}}
	r := NewRefresher(p)
	r.SetAutoRefresh(false)
	r.Start(context.Background())
	defer r.Stop()

	waitFor(t, time.Second, func() bool { return r.Snapshot() != nil })
	first := r.Snapshot()

	// Same headline load: the current snapshot pointer must not move.
	if err := r.RefreshNow(context.Background()); err != nil {
		t.Fatalf("RefreshNow: %v", err)
	}
	if r.Snapshot() != first {
		t.Error("snapshot replaced despite unchanged system load")
	}
	if got := len(r.HistoryPoints()); got != 1 {
		t.Errorf("history grew to %d on a no-op refresh, want 1", got)
	}

	// Changed load: snapshot replaced, history grows.
	if err := r.RefreshNow(context.Background()); err != nil {
		t.Fatalf("RefreshNow: %v", err)
	}
	cur := r.Snapshot()
	if cur == first {
		t.Error("snapshot not replaced after load change")
	}
	if cur.SystemLoad != 60 {
		t.Errorf("SystemLoad = %v, want 60", cur.SystemLoad)
	}
	if got := len(r.HistoryPoints()); got != 2 {
		t.Errorf("history has %d points, want 2", got)
	}
}

func TestRefresherAutoTicks(t *testing.T) {
	p := &scriptedProvider{loads: []float64{10, 20, 30, 40, 50, 60, 70, 80}}
	r := NewRefresher(p)
	r.interval = 5 * time.Millisecond

	r.Start(context.Background())
	defer r.Stop()

	waitFor(t, time.Second, func() bool { return p.calls.Load() >= 3 })

	pts := r.HistoryPoints()
	if len(pts) < 3 {
		t.Fatalf("history has %d points, want at least 3", len(pts))
	}
	for i := 1; i < len(pts); i++ {
		if pts[i].Load <= pts[i-1].Load {
			t.Fatalf("history not in push order: %v after %v", pts[i].Load, pts[i-1].Load)
		}
	}
}

func TestRefresherUpdatesChannel(t *testing.T) {
	p := &scriptedProvider{loads: []float64{33}}
	r := NewRefresher(p)
	r.SetAutoRefresh(false)
	r.Start(context.Background())
	defer r.Stop()

	select {
	case snap := <-r.Updates():
		if snap.SystemLoad != 33 {
			t.Errorf("published SystemLoad = %v, want 33", snap.SystemLoad)
		}
	case <-time.After(time.Second):
		t.Fatal("no snapshot published after initial load")
	}
}

func TestRefresherSetInterval(t *testing.T) {
	r := NewRefresher(&scriptedProvider{loads: []float64{1}})

	for _, iv := range Intervals {
		if err := r.SetInterval(iv); err != nil {
			t.Errorf("SetInterval(%s) rejected: %v", iv, err)
		}
	}
	for _, iv := range []time.Duration{0, time.Second, 45 * time.Second, time.Hour} {
		if err := r.SetInterval(iv); err == nil {
			t.Errorf("SetInterval(%s) accepted, want error", iv)
		}
	}
}

func TestRefresherStopIsIdempotent(t *testing.T) {
	r := NewRefresher(&scriptedProvider{loads: []float64{1}})
	r.Start(context.Background())
	r.Stop()
	r.Stop()
}
