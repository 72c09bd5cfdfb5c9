package mcpserver

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Kensan196948G/ITSM-ITManagementSystem-sub002/internal/database/relational"
	"github.com/Kensan196948G/ITSM-ITManagementSystem-sub002/internal/datasource"
	"github.com/Kensan196948G/ITSM-ITManagementSystem-sub002/internal/datasource/mock"
	"github.com/Kensan196948G/ITSM-ITManagementSystem-sub002/internal/engine"
	"github.com/Kensan196948G/ITSM-ITManagementSystem-sub002/internal/flagger"
	"github.com/Kensan196948G/ITSM-ITManagementSystem-sub002/internal/output"
)

// scriptedGraph records Cypher calls and returns canned rows.
type scriptedGraph struct {
	lastQuery string
	rows      []map[string]any
	err       error
}

func (g *scriptedGraph) Close(ctx context.Context) error { return nil }
func (g *scriptedGraph) Reset(ctx context.Context) error { return nil }
func (g *scriptedGraph) IngestSnapshot(ctx context.Context, payload *output.PipelinePayload) error {
	return nil
}

func (g *scriptedGraph) ExecuteCypher(ctx context.Context, query string) ([]map[string]any, error) {
	g.lastQuery = query
	return g.rows, g.err
}

func newTestServer(t *testing.T) *Server {
	t.Helper()
	return &Server{
		provider:   mock.New(mock.WithSeed(7), mock.WithInitialDelay(0)),
		flaggerSvc: flagger.NewFlaggerService(flagger.DefaultConfig()),
		thresholds: engine.DefaultConfig(),
	}
}

func TestHandleGetSnapshot(t *testing.T) {
	s := newTestServer(t)

	_, snap, err := s.handleGetSnapshot(context.Background(), nil, SnapshotArgs{TimeRange: "1d"})
	if err != nil {
		t.Fatalf("handleGetSnapshot failed: %v", err)
	}
	if snap == nil {
		t.Fatal("expected a snapshot")
	}
	if snap.TimeRange != datasource.Range1D {
		t.Errorf("snapshot time range = %q, want 1d", snap.TimeRange)
	}
	if snap.SystemLoad < 0 || snap.SystemLoad > 100 {
		t.Errorf("system load %v out of percent range", snap.SystemLoad)
	}
	if len(snap.Servers) == 0 || len(snap.Services) == 0 {
		t.Error("snapshot should carry the server and service estate")
	}
}

func TestHandleGetSnapshotDefaultsTimeRange(t *testing.T) {
	s := newTestServer(t)

	_, snap, err := s.handleGetSnapshot(context.Background(), nil, SnapshotArgs{})
	if err != nil {
		t.Fatalf("handleGetSnapshot failed: %v", err)
	}
	if snap.TimeRange != datasource.Range7D {
		t.Errorf("default time range = %q, want 7d", snap.TimeRange)
	}
}

func TestHandleGetSnapshotRejectsBadTimeRange(t *testing.T) {
	s := newTestServer(t)

	_, _, err := s.handleGetSnapshot(context.Background(), nil, SnapshotArgs{TimeRange: "2w"})
	if err == nil {
		t.Fatal("expected error for unknown time range")
	}
}

func TestHandleGetSLAReport(t *testing.T) {
	s := newTestServer(t)

	_, rep, err := s.handleGetSLAReport(context.Background(), nil, SLAReportArgs{})
	if err != nil {
		t.Fatalf("handleGetSLAReport failed: %v", err)
	}
	if rep == nil {
		t.Fatal("expected a report")
	}
	if len(rep.RiskRows) == 0 {
		t.Error("expected at-risk ticket rows")
	}
	for _, row := range rep.RiskRows {
		if row.Remaining.Text == "" {
			t.Errorf("ticket %s has empty remaining text", row.Ticket.ID)
		}
	}
	if len(rep.Priorities) != 4 {
		t.Errorf("got %d priority buckets, want 4", len(rep.Priorities))
	}
}

func TestHandleGetSLAReportCustomThreshold(t *testing.T) {
	s := newTestServer(t)

	// A 9000-hour window makes every future deadline urgent.
	_, rep, err := s.handleGetSLAReport(context.Background(), nil, SLAReportArgs{AlertThresholdHours: 9000})
	if err != nil {
		t.Fatalf("handleGetSLAReport failed: %v", err)
	}
	for _, row := range rep.RiskRows {
		if row.Ticket.SLADeadline != nil && row.Ticket.SLADeadline.After(time.Now()) && !row.Remaining.Urgent {
			t.Errorf("ticket %s should be urgent under a huge threshold", row.Ticket.ID)
		}
	}
}

func TestHandleQueryGraph(t *testing.T) {
	graph := &scriptedGraph{rows: []map[string]any{{"load": 72.0}}}
	s := &Server{graphClient: graph}

	_, res, err := s.handleQueryGraph(context.Background(), nil, QueryGraphArgs{Cypher: "MATCH (s:Snapshot) RETURN s.system_load as load"})
	if err != nil {
		t.Fatalf("handleQueryGraph failed: %v", err)
	}
	if graph.lastQuery == "" {
		t.Error("query was not forwarded to the graph client")
	}
	rows, ok := res.Data.([]map[string]any)
	if !ok || len(rows) != 1 {
		t.Fatalf("unexpected result payload: %+v", res.Data)
	}
}

func TestHandleQueryGraphError(t *testing.T) {
	graph := &scriptedGraph{err: errors.New("boom")}
	s := &Server{graphClient: graph}

	_, _, err := s.handleQueryGraph(context.Background(), nil, QueryGraphArgs{Cypher: "MATCH (n) RETURN n"})
	if err == nil {
		t.Fatal("expected error to propagate")
	}
}

func TestHandleGetSnapshotHistory(t *testing.T) {
	ctx := context.Background()

	client, err := relational.NewDuckDBClient("")
	if err != nil {
		t.Fatalf("failed to create duckdb client: %v", err)
	}
	defer client.Close()

	repo := relational.NewRepo(client.DB())
	if err := repo.Migrate(ctx); err != nil {
		t.Fatalf("failed to migrate schema: %v", err)
	}

	s := newTestServer(t)
	s.duckdbRepo = repo

	// Persist two snapshots through the pipeline.
	for i := 0; i < 2; i++ {
		payload, err := output.RunPipeline(ctx, s.provider, s.flaggerSvc, datasource.Range7D)
		if err != nil {
			t.Fatalf("pipeline failed: %v", err)
		}
		if _, err := repo.InsertSnapshot(ctx, payload); err != nil {
			t.Fatalf("insert failed: %v", err)
		}
	}

	_, res, err := s.handleGetSnapshotHistory(ctx, nil, HistoricalSnapshotsArgs{Limit: 10})
	if err != nil {
		t.Fatalf("handleGetSnapshotHistory failed: %v", err)
	}
	if len(res.Snapshots) != 2 {
		t.Errorf("got %d snapshots, want 2", len(res.Snapshots))
	}
	for _, sum := range res.Snapshots {
		if sum.TimeRange != "7d" {
			t.Errorf("summary time range = %q, want 7d", sum.TimeRange)
		}
	}
}

func TestHandleGetComplianceHistory(t *testing.T) {
	ctx := context.Background()

	client, err := relational.NewDuckDBClient("")
	if err != nil {
		t.Fatalf("failed to create duckdb client: %v", err)
	}
	defer client.Close()

	repo := relational.NewRepo(client.DB())
	if err := repo.Migrate(ctx); err != nil {
		t.Fatalf("failed to migrate schema: %v", err)
	}

	s := newTestServer(t)
	s.duckdbRepo = repo

	for i := 0; i < 2; i++ {
		payload, err := output.RunPipeline(ctx, s.provider, s.flaggerSvc, datasource.Range7D)
		if err != nil {
			t.Fatalf("pipeline failed: %v", err)
		}
		if _, err := repo.InsertSnapshot(ctx, payload); err != nil {
			t.Fatalf("insert failed: %v", err)
		}
	}

	// Every generated snapshot carries SLA stats for this category.
	_, res, err := s.handleGetComplianceHistory(ctx, nil, ComplianceHistoryArgs{Category: "インフラ"})
	if err != nil {
		t.Fatalf("handleGetComplianceHistory failed: %v", err)
	}
	if res.Category != "インフラ" {
		t.Errorf("result category = %q", res.Category)
	}
	if len(res.Rates) != 2 {
		t.Fatalf("got %d rates, want 2", len(res.Rates))
	}
	for _, r := range res.Rates {
		if r < 0 || r > 100 {
			t.Errorf("compliance rate %v out of percent range", r)
		}
	}
	switch res.Trend {
	case "up", "down", "stable":
	default:
		t.Errorf("trend = %q, want up/down/stable", res.Trend)
	}

	// An unknown category yields an empty, stable series.
	_, empty, err := s.handleGetComplianceHistory(ctx, nil, ComplianceHistoryArgs{Category: "存在しない"})
	if err != nil {
		t.Fatalf("unknown category should not error: %v", err)
	}
	if len(empty.Rates) != 0 || empty.Trend != "stable" {
		t.Errorf("unknown category result = %+v, want empty stable series", empty)
	}

	if _, _, err := s.handleGetComplianceHistory(ctx, nil, ComplianceHistoryArgs{}); err == nil {
		t.Error("expected error when category is missing")
	}
}
