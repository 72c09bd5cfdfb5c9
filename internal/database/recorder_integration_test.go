package database_test

import (
	"context"
	"database/sql"
	"testing"

	"github.com/Kensan196948G/ITSM-ITManagementSystem-sub002/internal/database"
	"github.com/Kensan196948G/ITSM-ITManagementSystem-sub002/internal/database/relational"
	"github.com/Kensan196948G/ITSM-ITManagementSystem-sub002/internal/datasource"
	"github.com/Kensan196948G/ITSM-ITManagementSystem-sub002/internal/datasource/mock"
	"github.com/Kensan196948G/ITSM-ITManagementSystem-sub002/internal/flagger"
	"github.com/Kensan196948G/ITSM-ITManagementSystem-sub002/internal/output"
)

// TestRecorderPullAndPersist tests end-to-end: generator -> Recorder -> DuckDB.
func TestRecorderPullAndPersist(t *testing.T) {
	ctx := context.Background()

	// 1. Create in-memory DuckDB
	client, err := relational.NewDuckDBClient("")
	if err != nil {
		t.Fatalf("failed to create duckdb client: %v", err)
	}
	defer client.Close()

	repo := relational.NewRepo(client.DB())

	// 2. Run migrations to create schema
	if err := repo.Migrate(ctx); err != nil {
		t.Fatalf("failed to migrate schema: %v", err)
	}

	// 3. Create components
	provider := mock.New(mock.WithSeed(11), mock.WithInitialDelay(0))
	flaggerSvc := flagger.NewFlaggerService(flagger.DefaultConfig())

	mockGraph := &MockGraphClient{}
	recorder, err := database.NewRecorder(provider, flaggerSvc, repo, mockGraph)
	if err != nil {
		t.Fatalf("failed to create recorder: %v", err)
	}

	// 4. Execute PullOnce (runs the pipeline)
	if err := recorder.PullOnce(ctx); err != nil {
		t.Fatalf("PullOnce failed: %v", err)
	}
	recorder.Stop()

	// 5. Verify data was inserted
	var snapCount int
	if err := client.DB().QueryRowContext(ctx, "SELECT COUNT(*) FROM snapshots").Scan(&snapCount); err != nil {
		t.Fatalf("failed to count snapshots: %v", err)
	}
	if snapCount != 1 {
		t.Errorf("expected 1 snapshot row, got %d", snapCount)
	}

	var load sql.NullFloat64
	var timeRange string
	err = client.DB().QueryRowContext(ctx, `
		SELECT system_load, time_range FROM snapshots LIMIT 1
	`).Scan(&load, &timeRange)
	if err != nil {
		t.Fatalf("failed to read snapshot scalars: %v", err)
	}
	if !load.Valid || load.Float64 < 0 || load.Float64 > 100 {
		t.Errorf("stored system_load = %+v, want valid percent", load)
	}
	if timeRange != "7d" {
		t.Errorf("stored time_range = %q, want 7d", timeRange)
	}

	for table, min := range map[string]int{
		"snapshot_servers":      1,
		"snapshot_services":     1,
		"snapshot_sla_category": 1,
		"snapshot_sla_priority": 4,
		"snapshot_tickets":      1,
	} {
		var count int
		if err := client.DB().QueryRowContext(ctx, "SELECT COUNT(*) FROM "+table).Scan(&count); err != nil {
			t.Errorf("failed to count %s: %v", table, err)
			continue
		}
		if count < min {
			t.Errorf("%s has %d rows, want at least %d", table, count, min)
		}
	}

	// 6. Summaries come back newest first with the stored judgement
	summaries, err := repo.QuerySnapshots(ctx, false, 10)
	if err != nil {
		t.Fatalf("QuerySnapshots failed: %v", err)
	}
	if len(summaries) != 1 {
		t.Fatalf("got %d summaries, want 1", len(summaries))
	}
	if summaries[0].SystemLoad != load.Float64 {
		t.Errorf("summary load %v, stored %v", summaries[0].SystemLoad, load.Float64)
	}
}

// MockGraphClient
type MockGraphClient struct{}

func (m *MockGraphClient) Close(ctx context.Context) error { return nil }
func (m *MockGraphClient) Reset(ctx context.Context) error { return nil }
func (m *MockGraphClient) IngestSnapshot(ctx context.Context, payload *output.PipelinePayload) error {
	return nil
}

func (m *MockGraphClient) ExecuteCypher(ctx context.Context, query string) ([]map[string]any, error) {
	return nil, nil
}

var _ datasource.SnapshotProvider = (*mock.Generator)(nil)
