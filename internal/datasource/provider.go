package datasource

import (
	"context"
	"fmt"
)

// TimeRange selects the aggregation window for trend series. It only
// affects the labeling and length of the precomputed chart series, not
// how entities are generated.
type TimeRange string

const (
	Range1D  TimeRange = "1d"
	Range7D  TimeRange = "7d"
	Range30D TimeRange = "30d"
	Range90D TimeRange = "90d"
)

// TimeRanges lists the accepted tokens in UI cycling order.
var TimeRanges = []TimeRange{Range1D, Range7D, Range30D, Range90D}

// ParseTimeRange validates a time-range token.
func ParseTimeRange(s string) (TimeRange, error) {
	for _, r := range TimeRanges {
		if string(r) == s {
			return r, nil
		}
	}
	return "", fmt.Errorf("unknown time range %q (want 1d, 7d, 30d or 90d)", s)
}

// SnapshotProvider produces dashboard snapshots. The mock generator,
// the live host collector and any future backend client all satisfy
// this interface; the refresh scheduler only ever sees it.
type SnapshotProvider interface {
	FetchSnapshot(ctx context.Context, tr TimeRange) (*Snapshot, error)
}
