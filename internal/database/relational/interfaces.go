// Interfaces for the persistence pipeline components.
package relational

import (
	"context"

	"github.com/Kensan196948G/ITSM-ITManagementSystem-sub002/internal/output"
)

// SnapshotStore persists pipeline payloads to storage.
type SnapshotStore interface {
	// Migrate creates or updates the database schema.
	Migrate(ctx context.Context) error
	// InsertSnapshot persists one payload and returns the snapshot ID.
	InsertSnapshot(ctx context.Context, p *output.PipelinePayload) (int64, error)
	// QuerySnapshots retrieves recent summaries, newest first.
	QuerySnapshots(ctx context.Context, flaggedOnly bool, limit int) ([]SnapshotSummary, error)
	// Close releases database resources.
	Close() error
}

// RecorderService orchestrates the persistence pipeline.
type RecorderService interface {
	// Start begins periodic snapshot recording.
	Start(ctx context.Context) error
	// Stop gracefully stops the recorder.
	Stop()
	// PullOnce executes a single record cycle.
	PullOnce(ctx context.Context) error
}
