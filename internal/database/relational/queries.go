package relational

import (
	"context"
	"fmt"
	"time"
)

// SnapshotSummary represents a simplified snapshot row for queries.
type SnapshotSummary struct {
	SnapshotID      int64     `json:"snapshot_id"`
	GeneratedAt     time.Time `json:"generated_at"`
	TimeRange       string    `json:"time_range"`
	SystemLoad      float64   `json:"system_load"`
	ServerCount     int32     `json:"server_count"`
	ServiceCount    int32     `json:"service_count"`
	AlertCount      int32     `json:"alert_count"`
	RiskTicketCount int32     `json:"risk_ticket_count"`
	SeverityLevel   int32     `json:"severity_level"`
	RiskScore       int32     `json:"risk_score"`
	Explanation     string    `json:"explanation"`
}

// QuerySnapshots retrieves recent snapshot summaries, newest first,
// optionally filtered to flagged rows only.
func (r *Repo) QuerySnapshots(ctx context.Context, flaggedOnly bool, limit int) ([]SnapshotSummary, error) {
	if limit <= 0 {
		limit = 10
	}
	if limit > 100 {
		limit = 100 // Safety limit
	}

	query := `
		SELECT
			snapshot_id,
			generated_at,
			time_range,
			COALESCE(system_load, 0),
			server_count,
			service_count,
			alert_count,
			risk_ticket_count,
			severity_level,
			risk_score,
			COALESCE(explanation, '') AS explanation
		FROM snapshots
	`
	if flaggedOnly {
		query += " WHERE severity_level > 0"
	}
	query += " ORDER BY generated_at DESC LIMIT ?"

	rows, err := r.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("query snapshots: %w", err)
	}
	defer rows.Close()

	var out []SnapshotSummary
	for rows.Next() {
		var s SnapshotSummary
		if err := rows.Scan(
			&s.SnapshotID, &s.GeneratedAt, &s.TimeRange, &s.SystemLoad,
			&s.ServerCount, &s.ServiceCount, &s.AlertCount, &s.RiskTicketCount,
			&s.SeverityLevel, &s.RiskScore, &s.Explanation,
		); err != nil {
			return nil, fmt.Errorf("scan snapshot: %w", err)
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// ComplianceHistory returns the stored compliance rate series for one
// category, oldest first, for trend analysis over persisted snapshots.
func (r *Repo) ComplianceHistory(ctx context.Context, category string, limit int) ([]float64, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := r.db.QueryContext(ctx, `
		SELECT c.compliance_rate
		FROM snapshot_sla_category c
		JOIN snapshots s ON s.snapshot_id = c.snapshot_id
		WHERE c.category = ?
		ORDER BY s.generated_at DESC
		LIMIT ?
	`, category, limit)
	if err != nil {
		return nil, fmt.Errorf("query compliance history: %w", err)
	}
	defer rows.Close()

	var rates []float64
	for rows.Next() {
		var v float64
		if err := rows.Scan(&v); err != nil {
			return nil, err
		}
		rates = append(rates, v)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	// Reverse to oldest-first.
	for i, j := 0, len(rates)-1; i < j; i, j = i+1, j-1 {
		rates[i], rates[j] = rates[j], rates[i]
	}
	return rates, nil
}
