package mock

import (
	"context"
	"testing"
	"time"

	"github.com/Kensan196948G/ITSM-ITManagementSystem-sub002/internal/datasource"
	"github.com/Kensan196948G/ITSM-ITManagementSystem-sub002/internal/engine"
)

func fetch(t *testing.T, g *Generator, tr datasource.TimeRange) *datasource.Snapshot {
	t.Helper()
	snap, err := g.FetchSnapshot(context.Background(), tr)
	if err != nil {
		t.Fatalf("FetchSnapshot: %v", err)
	}
	return snap
}

func TestGeneratorBounds(t *testing.T) {
	g := New(WithSeed(1), WithInitialDelay(0))

	// Many cycles so the random ranges are actually exercised.
	for i := 0; i < 50; i++ {
		snap := fetch(t, g, datasource.Range7D)

		if snap.SystemLoad < 0 || snap.SystemLoad > 100 {
			t.Fatalf("SystemLoad %v out of [0,100]", snap.SystemLoad)
		}
		if snap.SystemLoad != float64(int(snap.SystemLoad)) {
			t.Fatalf("SystemLoad %v is not a whole percent", snap.SystemLoad)
		}
		for _, srv := range snap.Servers {
			for name, v := range map[string]float64{"cpu": srv.CPU, "memory": srv.Memory, "disk": srv.Disk} {
				if v < 0 || v > 100 {
					t.Fatalf("server %s %s = %v out of [0,100]", srv.Name, name, v)
				}
			}
		}
		for _, svc := range snap.Services {
			if svc.UptimePct < 0 || svc.UptimePct > 100 {
				t.Fatalf("service %s uptime %v out of [0,100]", svc.Name, svc.UptimePct)
			}
		}
	}
}

func TestGeneratorComplianceInvariant(t *testing.T) {
	g := New(WithSeed(7), WithInitialDelay(0))

	for i := 0; i < 20; i++ {
		snap := fetch(t, g, datasource.Range30D)
		for _, c := range snap.CategorySLA {
			want := engine.ComplianceRate(c.OnTime, c.Total)
			if c.ComplianceRate != want {
				t.Fatalf("category %s rate %v, recomputed %v (onTime=%d total=%d)",
					c.Category, c.ComplianceRate, want, c.OnTime, c.Total)
			}
			if c.OnTime > c.Total {
				t.Fatalf("category %s onTime %d exceeds total %d", c.Category, c.OnTime, c.Total)
			}
		}
		for _, p := range snap.PrioritySLA {
			if want := engine.ComplianceRate(p.OnTime, p.Total); p.ComplianceRate != want {
				t.Fatalf("priority %s rate %v, recomputed %v", p.Priority, p.ComplianceRate, want)
			}
		}
	}
}

func TestGeneratorStatusFollowsMetric(t *testing.T) {
	cfg := engine.DefaultConfig()
	g := New(WithSeed(3), WithInitialDelay(0), WithConfig(cfg))

	for i := 0; i < 20; i++ {
		snap := fetch(t, g, datasource.Range1D)
		for _, srv := range snap.Servers {
			want := serverState(engine.Classify(srv.CPU, cfg.CPU))
			if srv.Status != want {
				t.Fatalf("server %s cpu %v: status %q, want %q", srv.Name, srv.CPU, srv.Status, want)
			}
		}
		for _, svc := range snap.Services {
			want := serviceState(engine.Classify(svc.ResponseTimeMS, cfg.ResponseMS))
			if svc.Status != want {
				t.Fatalf("service %s resp %v: status %q, want %q", svc.Name, svc.ResponseTimeMS, svc.Status, want)
			}
		}
	}
}

func TestGeneratorDeterministicWithSeed(t *testing.T) {
	a := fetch(t, New(WithSeed(42), WithInitialDelay(0)), datasource.Range7D)
	b := fetch(t, New(WithSeed(42), WithInitialDelay(0)), datasource.Range7D)

	if a.SystemLoad != b.SystemLoad {
		t.Errorf("same seed, different loads: %v vs %v", a.SystemLoad, b.SystemLoad)
	}
	if len(a.Servers) != len(b.Servers) {
		t.Fatalf("server counts differ: %d vs %d", len(a.Servers), len(b.Servers))
	}
	for i := range a.Servers {
		if a.Servers[i].CPU != b.Servers[i].CPU {
			t.Errorf("server %d cpu differs: %v vs %v", i, a.Servers[i].CPU, b.Servers[i].CPU)
		}
	}
}

func TestGeneratorInitialDelay(t *testing.T) {
	g := New(WithSeed(1), WithInitialDelay(50*time.Millisecond))

	start := time.Now()
	fetch(t, g, datasource.Range7D)
	if elapsed := time.Since(start); elapsed < 50*time.Millisecond {
		t.Errorf("first fetch returned after %v, want at least 50ms", elapsed)
	}

	start = time.Now()
	fetch(t, g, datasource.Range7D)
	if elapsed := time.Since(start); elapsed > 40*time.Millisecond {
		t.Errorf("second fetch took %v, warm-up delay should only apply once", elapsed)
	}
}

func TestGeneratorTrendWindows(t *testing.T) {
	g := New(WithSeed(5), WithInitialDelay(0))

	wants := map[datasource.TimeRange]int{
		datasource.Range1D:  24,
		datasource.Range7D:  7,
		datasource.Range30D: 30,
		datasource.Range90D: 13,
	}
	for tr, want := range wants {
		snap := fetch(t, g, tr)
		if len(snap.ResponseTrend) != want {
			t.Errorf("%s: response trend has %d points, want %d", tr, len(snap.ResponseTrend), want)
		}
		if snap.TimeRange != tr {
			t.Errorf("snapshot time range %q, want %q", snap.TimeRange, tr)
		}
	}
}

func TestGeneratorCanceledWarmup(t *testing.T) {
	g := New(WithSeed(1), WithInitialDelay(time.Second))
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	if _, err := g.FetchSnapshot(ctx, datasource.Range7D); err == nil {
		t.Error("expected context error while waiting out the warm-up delay")
	}
}
