package output

import (
	"context"
	"fmt"

	"github.com/Kensan196948G/ITSM-ITManagementSystem-sub002/internal/datasource"
	"github.com/Kensan196948G/ITSM-ITManagementSystem-sub002/internal/flagger"
)

// PipelinePayload represents the final data object ready for
// persistence. The recorder worker pulls this to push to DuckDB and
// the graph.
type PipelinePayload struct {
	Snapshot *datasource.Snapshot
	Flags    flagger.SnapshotFlags
}

// SnapshotFlagger defines the interface for flagging snapshots.
type SnapshotFlagger interface {
	Flag(snap *datasource.Snapshot) *flagger.SnapshotFlags
}

// RunPipeline executes the full data pipeline: Fetch -> Flag -> Bundle.
// It returns a PipelinePayload ready for persistence.
func RunPipeline(
	ctx context.Context,
	provider datasource.SnapshotProvider,
	flg SnapshotFlagger,
	tr datasource.TimeRange,
) (*PipelinePayload, error) {
	snap, err := provider.FetchSnapshot(ctx, tr)
	if err != nil {
		return nil, fmt.Errorf("fetch snapshot: %w", err)
	}

	flags := flg.Flag(snap)

	return &PipelinePayload{
		Snapshot: snap,
		Flags:    *flags,
	}, nil
}
